package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the voice relay service.
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Provider selection
	ASRProvider string `envconfig:"ASR_PROVIDER" default:"assemblyai"` // assemblyai, deepgram
	LLMProvider string `envconfig:"LLM_PROVIDER" default:"gemini"`     // gemini, openai

	// AssemblyAI transcription API
	AssemblyAIAPIKey string `envconfig:"ASSEMBLYAI_API_KEY" default:""`

	// Deepgram transcription API
	DeepgramAPIKey string `envconfig:"DEEPGRAM_API_KEY" default:""`
	DeepgramModel  string `envconfig:"DEEPGRAM_MODEL" default:"nova-2"`

	// Gemini generation API
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`

	// OpenAI generation API
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	// Murf synthesis API
	MurfAPIKey  string `envconfig:"MURF_API_KEY" required:"true"`
	MurfVoiceID string `envconfig:"MURF_VOICE_ID" default:""`

	// Pipeline tuning
	TTSMaxChunkChars   int `envconfig:"TTS_MAX_CHUNK_CHARS" default:"2800"`   // Murf hard limit is 3000
	HistoryMaxMessages int `envconfig:"HISTORY_MAX_MESSAGES" default:"10"`    // trailing messages fed to the LLM
	ASRPollIntervalMs  int `envconfig:"ASR_POLL_INTERVAL_MS" default:"1000"`  // AssemblyAI job poll interval
	ASRPollTimeoutSec  int `envconfig:"ASR_POLL_TIMEOUT_SEC" default:"60"`    // AssemblyAI job poll deadline

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads configuration from the environment, merging a .env file first
// when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without touching a .env file (useful for containerized deployments).
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks the keys the selected providers actually need.
func (c *Config) validate() error {
	switch c.ASRProvider {
	case "assemblyai":
		if c.AssemblyAIAPIKey == "" {
			return fmt.Errorf("ASSEMBLYAI_API_KEY is required when ASR_PROVIDER=assemblyai")
		}
	case "deepgram":
		if c.DeepgramAPIKey == "" {
			return fmt.Errorf("DEEPGRAM_API_KEY is required when ASR_PROVIDER=deepgram")
		}
	default:
		return fmt.Errorf("unknown ASR_PROVIDER %q", c.ASRProvider)
	}

	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	if c.MurfAPIKey == "" {
		return fmt.Errorf("MURF_API_KEY is required")
	}
	return nil
}

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
