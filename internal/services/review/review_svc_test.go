package review

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectLanguagePriority(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"#include <iostream>\nint main() {}", "C++"},
		{"def main():\n    pass", "Python"},
		{"print(1)", "Python"},
		{"function main() {}", "JavaScript"},
		{"console.log(1)", "JavaScript"},
		{"public class Main {}", "Java"},
		{"System.out.println(1);", "Java"},
		{"SELECT 1;", "code"},
		// Native-include markers outrank everything else.
		{"#include <cstdio>\nprint(", "C++"},
		// Python markers outrank JavaScript ones.
		{"def f():\n  console.log", "Python"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, detectLanguage(c.code), "code: %q", c.code)
	}
}

func TestReviewBuildsPromptAndReturnsText(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"## Review\n- looks fine"}]}}]}`))
	}))
	defer srv.Close()

	svc := NewReviewService(srv.URL, "gemini-1.5-flash", "secret")
	text, err := svc.Review(context.Background(), "print(1)")
	require.NoError(t, err)
	require.Equal(t, "## Review\n- looks fine", text)

	require.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", gotPath)
	require.Equal(t, "secret", gotKey)
	require.Len(t, gotReq.Contents, 1)
	prompt := gotReq.Contents[0].Parts[0].Text
	require.Contains(t, prompt, `"Python"`, "sniffed label is embedded")
	require.Contains(t, prompt, "print(1)", "verbatim code is embedded")
}

func TestReviewMissingCredential(t *testing.T) {
	svc := NewReviewService("http://unused", "gemini-1.5-flash", "")
	_, err := svc.Review(context.Background(), "print(1)")
	require.ErrorIs(t, err, ErrMissingCredential)
}

func TestReviewRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	svc := NewReviewService(srv.URL, "gemini-1.5-flash", "secret")
	_, err := svc.Review(context.Background(), "print(1)")
	require.Error(t, err)
}

func TestReviewEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	svc := NewReviewService(srv.URL, "gemini-1.5-flash", "secret")
	_, err := svc.Review(context.Background(), "print(1)")
	require.Error(t, err)
}
