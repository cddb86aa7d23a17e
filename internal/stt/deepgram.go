package stt

import (
	"bytes"
	"context"
	"strings"

	listenapi "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/voicerelay/voice-relay/internal/provider"
)

// DeepgramClient transcribes audio through Deepgram's pre-recorded REST API.
// Unlike AssemblyAI there is no job to poll; one request returns the
// transcript.
type DeepgramClient struct {
	client *listenapi.Client
	model  string
}

// NewDeepgramClient creates a pre-recorded transcription client.
func NewDeepgramClient(apiKey, model string) *DeepgramClient {
	c := listen.NewREST(apiKey, &interfaces.ClientOptions{})
	return &DeepgramClient{
		client: listenapi.New(c),
		model:  model,
	}
}

// Transcribe sends the audio bytes and returns the top transcript.
func (d *DeepgramClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	options := &interfaces.PreRecordedTranscriptionOptions{
		Model:       d.model,
		SmartFormat: true,
	}

	res, err := d.client.FromStream(ctx, bytes.NewReader(audio), options)
	if err != nil {
		return "", &provider.TransportError{Vendor: "deepgram", Err: err}
	}

	if res == nil || len(res.Results.Channels) == 0 || len(res.Results.Channels[0].Alternatives) == 0 {
		return "", &provider.VendorError{
			Vendor:  "deepgram",
			Message: "response missing transcription alternatives",
		}
	}

	return strings.TrimSpace(res.Results.Channels[0].Alternatives[0].Transcript), nil
}
