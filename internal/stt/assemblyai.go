// Package stt provides the transcription clients.
package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voicerelay/voice-relay/internal/provider"
)

const assemblyAIBaseURL = "https://api.assemblyai.com/v2"

// AssemblyAIClient transcribes audio through AssemblyAI's job-based API:
// upload the raw bytes, create a transcript job, then poll until the job
// reaches a terminal status.
type AssemblyAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	// PollInterval and PollTimeout bound the job poll loop.
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// NewAssemblyAIClient creates a client with the default endpoint and the
// vendor-recommended 1s poll interval and 60s deadline.
func NewAssemblyAIClient(apiKey string) *AssemblyAIClient {
	return &AssemblyAIClient{
		apiKey:       apiKey,
		baseURL:      assemblyAIBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		PollInterval: time.Second,
		PollTimeout:  60 * time.Second,
	}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL string `json:"audio_url"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Transcribe uploads audio, creates a transcript job and polls it to
// completion.
func (c *AssemblyAIClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	audioURL, err := c.upload(ctx, audio)
	if err != nil {
		return "", err
	}

	jobID, err := c.createTranscript(ctx, audioURL)
	if err != nil {
		return "", err
	}

	return c.waitForTranscript(ctx, jobID)
}

func (c *AssemblyAIClient) upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return "", &provider.VendorError{Vendor: "assemblyai", Message: "upload response missing upload_url"}
	}
	return out.UploadURL, nil
}

func (c *AssemblyAIClient) createTranscript(ctx context.Context, audioURL string) (string, error) {
	body, err := json.Marshal(transcriptRequest{AudioURL: audioURL})
	if err != nil {
		return "", fmt.Errorf("marshal transcript request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcript", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build transcript request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/json")

	var out transcriptResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &provider.VendorError{Vendor: "assemblyai", Message: "transcript response missing id"}
	}
	return out.ID, nil
}

func (c *AssemblyAIClient) waitForTranscript(ctx context.Context, jobID string) (string, error) {
	deadline := time.Now().Add(c.PollTimeout)

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transcript/"+jobID, nil)
		if err != nil {
			return "", fmt.Errorf("build poll request: %w", err)
		}
		req.Header.Set("authorization", c.apiKey)

		var out transcriptResponse
		if err := c.do(req, &out); err != nil {
			return "", err
		}

		switch out.Status {
		case "completed":
			return out.Text, nil
		case "error":
			return "", &provider.VendorError{
				Vendor:  "assemblyai",
				Message: "transcription failed",
				Detail:  out.Error,
			}
		}

		if time.Now().After(deadline) {
			return "", provider.ErrTimeout
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.PollInterval):
		}
	}
}

// do executes the request and decodes a 2xx JSON body into out.
func (c *AssemblyAIClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &provider.TransportError{Vendor: "assemblyai", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &provider.TransportError{Vendor: "assemblyai", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &provider.VendorError{
			Vendor:  "assemblyai",
			Message: "unexpected response",
			Status:  resp.StatusCode,
			Detail:  string(body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &provider.VendorError{
			Vendor:  "assemblyai",
			Message: "malformed response body",
			Status:  resp.StatusCode,
			Detail:  err.Error(),
		}
	}
	return nil
}
