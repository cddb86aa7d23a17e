// Package tts provides the speech-synthesis client.
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voicerelay/voice-relay/internal/provider"
)

const murfSpeechURL = "https://api.murf.ai/v1/speech/generate"

// MurfClient synthesizes text to MP3 through Murf's speech/generate
// endpoint. The vendor returns base64 audio inline; the client decodes it to
// raw bytes.
type MurfClient struct {
	apiKey     string
	voiceID    string
	apiURL     string
	httpClient *http.Client
}

// NewMurfClient creates a client; defaultVoiceID is used whenever a call
// does not name a voice.
func NewMurfClient(apiKey, defaultVoiceID string) *MurfClient {
	return &MurfClient{
		apiKey:     apiKey,
		voiceID:    defaultVoiceID,
		apiURL:     murfSpeechURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type murfRequest struct {
	Text           string `json:"text"`
	VoiceID        string `json:"voiceId"`
	Format         string `json:"format"`
	EncodeAsBase64 bool   `json:"encodeAsBase64"`
}

type murfResponse struct {
	EncodedAudio string `json:"encodedAudio"`
}

// Synthesize converts one chunk of text to MP3 bytes.
func (c *MurfClient) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	vid := voiceID
	if vid == "" {
		vid = c.voiceID
	}

	payload, err := json.Marshal(murfRequest{
		Text:           text,
		VoiceID:        vid,
		Format:         "MP3",
		EncodeAsBase64: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal murf request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build murf request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &provider.TransportError{Vendor: "murf", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.TransportError{Vendor: "murf", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &provider.VendorError{
			Vendor:  "murf",
			Message: "synthesis request rejected",
			Status:  resp.StatusCode,
			Detail:  string(body),
		}
	}

	var out murfResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &provider.VendorError{
			Vendor:  "murf",
			Message: "malformed response body",
			Status:  resp.StatusCode,
			Detail:  err.Error(),
		}
	}

	if out.EncodedAudio == "" {
		return nil, &provider.VendorError{
			Vendor:  "murf",
			Message: "response missing encodedAudio",
			Status:  resp.StatusCode,
			Detail:  string(body),
		}
	}

	audio, err := base64.StdEncoding.DecodeString(out.EncodedAudio)
	if err != nil {
		return nil, &provider.VendorError{
			Vendor:  "murf",
			Message: "encodedAudio is not valid base64",
			Status:  resp.StatusCode,
			Detail:  err.Error(),
		}
	}
	return audio, nil
}
