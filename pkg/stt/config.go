package stt

import (
	"log/slog"
	"time"
)

// Config holds STT provider configuration.
type Config struct {
	// Key is the subscription key for cloud providers that require one.
	Key string

	// Region is the Azure service region (e.g. "westus", "southafricanorth").
	Region string

	// Language is the BCP-47 recognition language.
	Language string

	// ModelPath is the path to a local whisper model file.
	ModelPath string

	// Timeout bounds a single transcription request.
	Timeout time.Duration

	// Threads limits CPU threads used by local inference. Zero means
	// the backend default.
	Threads int

	// BaseURL overrides the provider endpoint (mainly for tests).
	BaseURL string

	// Logger for provider operations.
	Logger *slog.Logger
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Language: "en-US",
		Timeout:  15 * time.Second,
		Logger:   slog.Default(),
	}
}

// Option configures STT providers.
type Option func(*Config)

// WithKey sets the cloud subscription key.
func WithKey(key string) Option {
	return func(c *Config) { c.Key = key }
}

// WithRegion sets the Azure service region.
func WithRegion(region string) Option {
	return func(c *Config) { c.Region = region }
}

// WithLanguage sets the recognition language.
func WithLanguage(lang string) Option {
	return func(c *Config) { c.Language = lang }
}

// WithModelPath sets the local whisper model file.
func WithModelPath(path string) Option {
	return func(c *Config) { c.ModelPath = path }
}

// WithTimeout bounds a single transcription request.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithThreads limits local inference threads.
func WithThreads(n int) Option {
	return func(c *Config) { c.Threads = n }
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithLogger sets the logger for provider operations.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Apply applies options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}
