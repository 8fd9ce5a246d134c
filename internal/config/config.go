// Package config resolves Jarvis configuration from the environment.
//
// All provider credentials and endpoints are read exactly once, at startup,
// into a Config value that is passed by reference into the dispatcher and the
// speech chains. Which branches of the fallback chains are reachable is a
// property of this struct, never re-read mid-turn.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment does not specify a value.
const (
	DefaultAzureRegion = "southafricanorth"
	DefaultAzureVoice  = "en-US-JennyNeural"
	DefaultOllamaHost  = "http://localhost:11434"
	DefaultOllamaModel = "phi"
)

// Config holds every externally-configured value Jarvis uses.
type Config struct {
	// Azure Cognitive Services (primary cloud STT, full-path TTS).
	AzureSpeechKey string
	AzureRegion    string
	AzureVoice     string

	// LLM backend (OpenAI-compatible, typically Ollama).
	OllamaHost  string
	OllamaModel string

	// Remote vision backend for camera queries.
	VisionURL string

	// Local whisper model path for offline STT.
	WhisperModel string

	// DataDir is where memory and journal files live.
	DataDir string

	// LogLevel for internal/log.Init.
	LogLevel string
}

// Load reads .env (if present) and the environment into a Config.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AzureSpeechKey: os.Getenv("AZURE_SPEECH_KEY"),
		AzureRegion:    envOr("AZURE_REGION", DefaultAzureRegion),
		AzureVoice:     envOr("AZURE_VOICE", DefaultAzureVoice),
		OllamaHost:     os.Getenv("OLLAMA_URL"),
		OllamaModel:    envOr("OLLAMA_MODEL", DefaultOllamaModel),
		VisionURL:      os.Getenv("VISION_URL"),
		WhisperModel:   os.Getenv("WHISPER_MODEL"),
		DataDir:        os.Getenv("JARVIS_DATA_DIR"),
		LogLevel:       envOr("LOG_LEVEL", "info"),
	}

	// OLLAMA_URL and OLLAMA_HOST are both accepted for the endpoint.
	if cfg.OllamaHost == "" {
		cfg.OllamaHost = envOr("OLLAMA_HOST", DefaultOllamaHost)
	}

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = os.TempDir()
		}
		cfg.DataDir = filepath.Join(home, ".jarvis")
	}

	return cfg
}

// HasAzureSpeech reports whether the Azure speech branch is reachable.
func (c Config) HasAzureSpeech() bool {
	return c.AzureSpeechKey != ""
}

// HasVision reports whether the remote vision backend is configured.
func (c Config) HasVision() bool {
	return c.VisionURL != ""
}

// HasWhisper reports whether a local whisper model is on disk.
func (c Config) HasWhisper() bool {
	if c.WhisperModel == "" {
		return false
	}
	_, err := os.Stat(c.WhisperModel)
	return err == nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
