package conversation

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/voicerelay/voice-relay/internal/observability"
)

// TurnRequest carries one user turn into the pipeline. Audio is nil for
// text-only turns; when set, it is transcribed first and Text is ignored.
type TurnRequest struct {
	SessionID string
	Mode      Mode
	Audio     []byte
	Text      string
	VoiceID   string
}

// TurnMetrics reports elapsed wall-clock time per pipeline stage.
type TurnMetrics struct {
	TranscribeMs int64
	GenerateMs   int64
	SynthesizeMs int64
	TotalMs      int64
}

// TurnResult is the outcome of a completed turn. AudioChunks holds
// base64-encoded MP3 segments in synthesis order.
type TurnResult struct {
	SessionID     string
	Mode          Mode
	UserText      string
	AssistantText string
	AudioChunks   []string
	AudioFormat   string
	Metrics       TurnMetrics
}

// Orchestrator runs the transcribe -> generate -> synthesize -> record
// pipeline for one turn. Stages are strictly sequential; each depends on the
// previous stage's output. Any stage failure aborts the turn before the
// session is mutated, so a failed turn leaves no partial history.
type Orchestrator struct {
	store *Store
	asr   Transcriber
	llm   Generator
	tts   Synthesizer

	// MaxChunkChars bounds each synthesis request; HistoryLimit bounds the
	// history slice handed to generation.
	MaxChunkChars int
	HistoryLimit  int
}

func NewOrchestrator(store *Store, asr Transcriber, llm Generator, tts Synthesizer) *Orchestrator {
	return &Orchestrator{
		store:         store,
		asr:           asr,
		llm:           llm,
		tts:           tts,
		MaxChunkChars: DefaultChunkChars,
		HistoryLimit:  DefaultHistoryMessages,
	}
}

// Turn executes one conversation turn.
func (o *Orchestrator) Turn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	start := time.Now()
	observability.TurnStarted()
	defer observability.TurnFinished()

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = o.store.CreateSession(req.Mode)
	} else {
		// Last-write-wins: a request that names an existing session also
		// overwrites its mode.
		o.store.SetMode(sessionID, req.Mode)
	}

	logger := observability.GetLogger().With().
		Str("session_id", sessionID).
		Str("mode", string(req.Mode)).
		Logger()

	var metrics TurnMetrics

	userText := req.Text
	if req.Audio != nil {
		asrStart := time.Now()
		text, err := o.asr.Transcribe(ctx, req.Audio)
		if err != nil {
			observability.RecordStage("asr", time.Since(asrStart), false)
			logger.Error().Err(err).Msg("transcription failed")
			return nil, err
		}
		metrics.TranscribeMs = time.Since(asrStart).Milliseconds()
		observability.RecordStage("asr", time.Since(asrStart), true)
		userText = text
	}

	history := o.store.History(sessionID, o.HistoryLimit)

	llmStart := time.Now()
	assistantText, err := o.llm.Generate(ctx, userText, history, req.Mode)
	if err != nil {
		observability.RecordStage("llm", time.Since(llmStart), false)
		logger.Error().Err(err).Msg("reply generation failed")
		return nil, err
	}
	metrics.GenerateMs = time.Since(llmStart).Milliseconds()
	observability.RecordStage("llm", time.Since(llmStart), true)

	ttsStart := time.Now()
	parts := SplitText(assistantText, o.MaxChunkChars)
	chunks := make([]string, 0, len(parts))
	for _, part := range parts {
		audio, err := o.tts.Synthesize(ctx, part, req.VoiceID)
		if err != nil {
			observability.RecordStage("tts", time.Since(ttsStart), false)
			logger.Error().Err(err).Int("chunk", len(chunks)).Msg("synthesis failed")
			return nil, err
		}
		chunks = append(chunks, base64.StdEncoding.EncodeToString(audio))
	}
	metrics.SynthesizeMs = time.Since(ttsStart).Milliseconds()
	observability.RecordStage("tts", time.Since(ttsStart), true)
	observability.AddSynthesizedChunks(len(chunks))

	// Record the turn only after every stage succeeded.
	o.store.AddTurn(sessionID, userText, assistantText)

	metrics.TotalMs = time.Since(start).Milliseconds()
	logger.Info().
		Int("chunks", len(chunks)).
		Int64("asr_ms", metrics.TranscribeMs).
		Int64("llm_ms", metrics.GenerateMs).
		Int64("tts_ms", metrics.SynthesizeMs).
		Int64("total_ms", metrics.TotalMs).
		Msg("turn completed")

	return &TurnResult{
		SessionID:     sessionID,
		Mode:          req.Mode,
		UserText:      userText,
		AssistantText: assistantText,
		AudioChunks:   chunks,
		AudioFormat:   "mp3",
		Metrics:       metrics,
	}, nil
}
