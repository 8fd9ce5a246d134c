package tts

import (
	"log/slog"
	"time"
)

// Config holds TTS provider configuration.
type Config struct {
	// Key is the Azure Speech subscription key.
	Key string

	// Region is the Azure service region.
	Region string

	// Voice is the neural voice name (e.g. "en-US-JennyNeural").
	Voice string

	// Engine overrides local engine autodetection (e.g. "espeak-ng").
	Engine string

	// Timeout bounds a single synthesis request.
	Timeout time.Duration

	// BaseURL overrides the provider endpoint (mainly for tests).
	BaseURL string

	// Logger for provider operations.
	Logger *slog.Logger
}

// DefaultVoice is used when no voice is configured.
const DefaultVoice = "en-US-JennyNeural"

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Voice:   DefaultVoice,
		Timeout: 30 * time.Second,
		Logger:  slog.Default(),
	}
}

// Option configures TTS providers.
type Option func(*Config)

// WithKey sets the Azure subscription key.
func WithKey(key string) Option {
	return func(c *Config) { c.Key = key }
}

// WithRegion sets the Azure service region.
func WithRegion(region string) Option {
	return func(c *Config) { c.Region = region }
}

// WithVoice sets the neural voice name.
func WithVoice(voice string) Option {
	return func(c *Config) { c.Voice = voice }
}

// WithEngine overrides local engine autodetection.
func WithEngine(engine string) Option {
	return func(c *Config) { c.Engine = engine }
}

// WithTimeout bounds a single synthesis request.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
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
