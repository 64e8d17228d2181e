package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// wildcardVersion in a request asks for the per-language default.
const wildcardVersion = "*"

// defaultVersions mirrors the language/version matrix offered by the editor
// frontend.
var defaultVersions = map[string]string{
	"cpp":        "10.2.0",
	"python":     "3.10.0",
	"javascript": "18.15.0",
	"java":       "15.0.2",
}

var ErrNoDefaultVersion = errors.New("no default version found")

type ExecRequest struct {
	Language string
	Version  string
	Code     string
	Stdin    string
}

type IExecutionService interface {
	// Execute runs the source remotely and returns the execution service's
	// response payload verbatim. The error covers version resolution and the
	// remote call itself; callers fold it into the response channel via
	// SyntheticFailure.
	Execute(ctx context.Context, req ExecRequest) (json.RawMessage, error)
}

type executionService struct {
	endpoint string
	client   *http.Client
}

func NewExecutionService(endpoint string) IExecutionService {
	return &executionService{
		endpoint: endpoint,
		client:   http.DefaultClient,
	}
}

// pistonRequest is the wire format of the Piston execute API.
type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
	Stdin    string       `json:"stdin"`
}

type pistonFile struct {
	Content string `json:"content"`
}

type pistonError struct {
	Message string `json:"message"`
}

func (svc *executionService) Execute(ctx context.Context, req ExecRequest) (json.RawMessage, error) {
	version := req.Version
	if version == wildcardVersion {
		var ok bool
		if version, ok = defaultVersions[req.Language]; !ok {
			return nil, fmt.Errorf("%w for language '%s'", ErrNoDefaultVersion, req.Language)
		}
	}

	body, err := json.Marshal(pistonRequest{
		Language: apiLanguage(req.Language),
		Version:  version,
		Files:    []pistonFile{{Content: req.Code}},
		Stdin:    req.Stdin,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := svc.client.Do(httpReq)
	if err != nil {
		zap.L().Warn("exec.call", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var pe pistonError
		if json.Unmarshal(payload, &pe) == nil && pe.Message != "" {
			return nil, errors.New(pe.Message)
		}
		return nil, fmt.Errorf("execution service returned status %d", resp.StatusCode)
	}
	return payload, nil
}

// apiLanguage maps the editor's language key onto the name the execution
// service expects.
func apiLanguage(language string) string {
	if language == "cpp" {
		return "c++"
	}
	return language
}

// runResult carries the only field the editor reads out of a response.
type runResult struct {
	Output string `json:"output"`
}

type syntheticResponse struct {
	Run runResult `json:"run"`
}

// SyntheticFailure folds a proxy-side failure into the same envelope shape a
// successful execution produces, with the error message in place of output.
func SyntheticFailure(err error) json.RawMessage {
	msg := "unknown execution failure"
	if err != nil {
		msg = err.Error()
	}
	payload, _ := json.Marshal(syntheticResponse{Run: runResult{Output: "Error: " + msg}})
	return payload
}
