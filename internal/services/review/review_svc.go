package review

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// FallbackMessage replaces the review text whenever the external call fails.
// Failures degrade into the normal broadcast channel, never into a distinct
// error event.
const FallbackMessage = "Unable to review currently please try later"

var ErrMissingCredential = errors.New("generative-text credential is not configured")

type IReviewService interface {
	// Review asks the generative-text service for a markdown review of code.
	Review(ctx context.Context, code string) (string, error)
}

type reviewService struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

func NewReviewService(baseURL, model, apiKey string) IReviewService {
	return &reviewService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client:  http.DefaultClient,
	}
}

// generateContent wire format, request and response.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (svc *reviewService) Review(ctx context.Context, code string) (string, error) {
	if svc.apiKey == "" {
		return "", ErrMissingCredential
	}

	prompt := buildPrompt(detectLanguage(code), code)
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", svc.baseURL, svc.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", svc.apiKey)

	resp, err := svc.client.Do(httpReq)
	if err != nil {
		zap.L().Warn("review.call", zap.Error(err))
		return "", err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("review service returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("review service returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

func buildPrompt(language, code string) string {
	return fmt.Sprintf(`
You're an expert code reviewer of the language %q and love to give code suggestions.
Generate a brief review of the code %q.
Format clearly with markdown headings and bullet points.
`, language, code)
}

// detectLanguage sniffs the buffer for language markers in a fixed priority
// order; the first hit wins.
func detectLanguage(code string) string {
	switch {
	case strings.Contains(code, "#include"):
		return "C++"
	case strings.Contains(code, "def ") || strings.Contains(code, "print("):
		return "Python"
	case strings.Contains(code, "function") || strings.Contains(code, "console."):
		return "JavaScript"
	case strings.Contains(code, "public class") || strings.Contains(code, "System.out"):
		return "Java"
	default:
		return "code"
	}
}
