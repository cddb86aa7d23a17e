package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voicerelay/voice-relay/internal/config"
	"github.com/voicerelay/voice-relay/internal/conversation"
	"github.com/voicerelay/voice-relay/internal/httpapi"
	"github.com/voicerelay/voice-relay/internal/llm"
	"github.com/voicerelay/voice-relay/internal/observability"
	"github.com/voicerelay/voice-relay/internal/stt"
	"github.com/voicerelay/voice-relay/internal/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before the logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Str("asr_provider", cfg.ASRProvider).
		Str("llm_provider", cfg.LLMProvider).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Msg("Voice Relay Service starting")

	transcriber := newTranscriber(cfg)
	generator := newGenerator(cfg)
	synthesizer := tts.NewMurfClient(cfg.MurfAPIKey, cfg.MurfVoiceID)

	store := conversation.NewStore()
	orch := conversation.NewOrchestrator(store, transcriber, generator, synthesizer)
	orch.MaxChunkChars = cfg.TTSMaxChunkChars
	orch.HistoryLimit = cfg.HistoryMaxMessages

	mux := http.NewServeMux()

	api := httpapi.NewServer(orch)
	api.Register(mux)

	mux.HandleFunc("/health", observability.HealthCheckHandler())

	// Readiness: vendor clients are constructible with the loaded config. No
	// live API calls here to avoid per-probe vendor costs.
	mux.HandleFunc("/ready", observability.ReadinessHandler(
		observability.NamedCheck{Name: cfg.ASRProvider, Check: func(ctx context.Context) (bool, error) {
			if transcriber == nil {
				return false, fmt.Errorf("transcription client not configured")
			}
			return true, nil
		}},
		observability.NamedCheck{Name: cfg.LLMProvider, Check: func(ctx context.Context) (bool, error) {
			if generator == nil {
				return false, fmt.Errorf("generation client not configured")
			}
			return true, nil
		}},
		observability.NamedCheck{Name: "murf", Check: func(ctx context.Context) (bool, error) {
			return synthesizer != nil, nil
		}},
	))

	if cfg.MetricsEnabled {
		mux.Handle("/metrics", promhttp.Handler())
		logger.Info().Msg("Prometheus metrics enabled at /metrics")
	}

	// The write timeout covers a full pipeline run; transcription alone may
	// poll for up to 60 seconds.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("endpoint", fmt.Sprintf("http://localhost:%s/", cfg.Port)).
			Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}

func newTranscriber(cfg *config.Config) conversation.Transcriber {
	switch cfg.ASRProvider {
	case "deepgram":
		return stt.NewDeepgramClient(cfg.DeepgramAPIKey, cfg.DeepgramModel)
	default:
		c := stt.NewAssemblyAIClient(cfg.AssemblyAIAPIKey)
		c.PollInterval = time.Duration(cfg.ASRPollIntervalMs) * time.Millisecond
		c.PollTimeout = time.Duration(cfg.ASRPollTimeoutSec) * time.Second
		return c
	}
}

func newGenerator(cfg *config.Config) conversation.Generator {
	switch cfg.LLMProvider {
	case "openai":
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		return llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}
