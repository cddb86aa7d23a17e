// Package httpapi exposes the conversation pipeline over HTTP.
package httpapi

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/voicerelay/voice-relay/internal/conversation"
	"github.com/voicerelay/voice-relay/internal/observability"
)

//go:embed static
var staticFiles embed.FS

// maxAudioUploadBytes caps the in-memory size of a multipart voice upload.
const maxAudioUploadBytes = 32 << 20

// Server holds the handlers for the conversation endpoints.
type Server struct {
	orch *conversation.Orchestrator
}

func NewServer(orch *conversation.Orchestrator) *Server {
	return &Server{orch: orch}
}

// Register attaches the API routes and the static landing page to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/conversation/turn", s.handleVoiceTurn)
	mux.HandleFunc("/api/conversation/text-turn", s.handleTextTurn)

	static, _ := fs.Sub(staticFiles, "static")
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("/", s.handleIndex)
}

type turnMetricsDTO struct {
	ASRMs   int64 `json:"asr_ms"`
	LLMMs   int64 `json:"llm_ms"`
	TTSMs   int64 `json:"tts_ms"`
	TotalMs int64 `json:"total_ms"`
}

type turnResponse struct {
	SessionID         string         `json:"session_id"`
	Mode              string         `json:"mode"`
	UserText          string         `json:"user_text"`
	AssistantText     string         `json:"assistant_text"`
	AudioBase64       string         `json:"audio_base64"`
	AudioBase64Chunks []string       `json:"audio_base64_chunks"`
	AudioFormat       string         `json:"audio_format"`
	Metrics           turnMetricsDTO `json:"metrics"`
}

type textTurnRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id"`
	Mode      string `json:"mode"`
	VoiceID   string `json:"voice_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleVoiceTurn accepts a multipart form with a recorded audio file and
// runs the full transcribe -> generate -> synthesize pipeline.
func (s *Server) handleVoiceTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "audio file required (field 'audio')"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read audio upload"})
		return
	}

	req := conversation.TurnRequest{
		SessionID: r.FormValue("session_id"),
		Mode:      conversation.ParseMode(r.FormValue("mode")),
		Audio:     audio,
		VoiceID:   r.FormValue("voice_id"),
	}

	result, err := s.orch.Turn(r.Context(), req)
	if err != nil {
		observability.RecordTurn("voice", false)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	observability.RecordTurn("voice", true)
	writeJSON(w, http.StatusOK, toTurnResponse(result))
}

// handleTextTurn runs the pipeline without transcription; asr_ms is always 0.
func (s *Server) handleTextTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var body textTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	text := strings.TrimSpace(body.Text)
	if text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "text is required in JSON body"})
		return
	}

	req := conversation.TurnRequest{
		SessionID: body.SessionID,
		Mode:      conversation.ParseMode(body.Mode),
		Text:      text,
		VoiceID:   body.VoiceID,
	}

	result, err := s.orch.Turn(r.Context(), req)
	if err != nil {
		observability.RecordTurn("text", false)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	observability.RecordTurn("text", true)
	writeJSON(w, http.StatusOK, toTurnResponse(result))
}

// handleIndex serves the embedded landing page at the root path only.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "landing page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func toTurnResponse(res *conversation.TurnResult) turnResponse {
	first := ""
	if len(res.AudioChunks) > 0 {
		first = res.AudioChunks[0]
	}
	return turnResponse{
		SessionID:         res.SessionID,
		Mode:              string(res.Mode),
		UserText:          res.UserText,
		AssistantText:     res.AssistantText,
		AudioBase64:       first,
		AudioBase64Chunks: res.AudioChunks,
		AudioFormat:       res.AudioFormat,
		Metrics: turnMetricsDTO{
			ASRMs:   res.Metrics.TranscribeMs,
			LLMMs:   res.Metrics.GenerateMs,
			TTSMs:   res.Metrics.SynthesizeMs,
			TotalMs: res.Metrics.TotalMs,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger := observability.GetLogger()
		logger.Error().Err(err).Msg("failed to encode response")
	}
}
