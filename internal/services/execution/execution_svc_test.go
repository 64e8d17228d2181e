package execution

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteRelaysResponseVerbatim(t *testing.T) {
	const remoteBody = `{"run":{"stdout":"1\n","stderr":"","output":"1\n","code":0}}`

	var got pistonRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(remoteBody))
	}))
	defer srv.Close()

	svc := NewExecutionService(srv.URL)
	payload, err := svc.Execute(context.Background(), ExecRequest{
		Language: "python",
		Version:  "3.10.0",
		Code:     "print(1)",
		Stdin:    "in",
	})
	require.NoError(t, err)
	require.JSONEq(t, remoteBody, string(payload))

	require.Equal(t, "python", got.Language)
	require.Equal(t, "3.10.0", got.Version)
	require.Len(t, got.Files, 1)
	require.Equal(t, "print(1)", got.Files[0].Content)
	require.Equal(t, "in", got.Stdin)
}

func TestExecuteResolvesWildcardVersion(t *testing.T) {
	var got pistonRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"run":{"output":""}}`))
	}))
	defer srv.Close()

	svc := NewExecutionService(srv.URL)
	_, err := svc.Execute(context.Background(), ExecRequest{Language: "cpp", Version: "*"})
	require.NoError(t, err)

	require.Equal(t, "c++", got.Language, "cpp is renamed for the remote API")
	require.Equal(t, "10.2.0", got.Version)
}

func TestExecuteUnknownLanguageWildcardSkipsRemoteCall(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	svc := NewExecutionService(srv.URL)
	_, err := svc.Execute(context.Background(), ExecRequest{Language: "brainfuck", Version: "*"})
	require.ErrorIs(t, err, ErrNoDefaultVersion)
	require.Contains(t, err.Error(), "brainfuck")
	require.Zero(t, calls, "no external call for an unresolvable version")
}

func TestExecuteRemoteFailureSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"runtime is unknown"}`))
	}))
	defer srv.Close()

	svc := NewExecutionService(srv.URL)
	_, err := svc.Execute(context.Background(), ExecRequest{Language: "python", Version: "3.10.0"})
	require.EqualError(t, err, "runtime is unknown")
}

func TestExecuteTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	svc := NewExecutionService(srv.URL)
	_, err := svc.Execute(context.Background(), ExecRequest{Language: "python", Version: "3.10.0"})
	require.Error(t, err)
}

func TestSyntheticFailureShape(t *testing.T) {
	payload := SyntheticFailure(errors.New("boom"))

	var resp syntheticResponse
	require.NoError(t, json.Unmarshal(payload, &resp))
	require.Equal(t, "Error: boom", resp.Run.Output)
}
