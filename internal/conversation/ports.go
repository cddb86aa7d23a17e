package conversation

import "context"

// Transcriber converts recorded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Generator produces the assistant reply for a user utterance given the
// trailing conversation history and the session mode.
type Generator interface {
	Generate(ctx context.Context, userText string, history []Message, mode Mode) (string, error)
}

// Synthesizer converts one chunk of text to encoded audio bytes. An empty
// voiceID selects the vendor's configured default voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}
