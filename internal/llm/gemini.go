package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/voicerelay/voice-relay/internal/conversation"
	"github.com/voicerelay/voice-relay/internal/provider"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient generates replies through the Generative Language
// generateContent REST endpoint.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate sends the combined prompt and returns the trimmed reply text.
// A response with no candidates yields an empty string, not an error.
func (c *GeminiClient) Generate(ctx context.Context, userText string, history []conversation.Message, mode conversation.Mode) (string, error) {
	prompt := BuildPrompt(userText, history, mode)

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &provider.TransportError{Vendor: "gemini", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &provider.TransportError{Vendor: "gemini", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &provider.VendorError{
			Vendor:  "gemini",
			Message: "generation request rejected",
			Status:  resp.StatusCode,
			Detail:  string(body),
		}
	}

	var out geminiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &provider.VendorError{
			Vendor:  "gemini",
			Message: "malformed response body",
			Status:  resp.StatusCode,
			Detail:  err.Error(),
		}
	}

	if len(out.Candidates) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, part := range out.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
