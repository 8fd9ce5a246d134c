package tts

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const providerAzure = "azure"

// outputFormat keeps payloads small; beep decodes MP3 natively.
const azureOutputFormat = "audio-16khz-32kbitrate-mono-mp3"

// Azure implements Provider using the Azure Speech synthesis REST endpoint
// and plays the returned MP3 through the default output device. It is the
// full-path provider: natural neural voices at cloud round-trip latency.
type Azure struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
	play    func(ctx context.Context, mp3Audio io.Reader) error
}

var _ Provider = (*Azure)(nil)

// NewAzure creates an Azure TTS provider.
func NewAzure(opts ...Option) *Azure {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.tts.speech.microsoft.com", cfg.Region)
	}

	return &Azure{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger.With("component", "tts.azure"),
		baseURL: baseURL,
		play:    playMP3,
	}
}

// Name returns the provider name.
func (a *Azure) Name() string { return providerAzure }

// Available reports whether a subscription key and region are configured.
func (a *Azure) Available() bool {
	return a.config.Key != "" && a.config.Region != ""
}

// Close releases resources (no-op for Azure).
func (a *Azure) Close() error { return nil }

// Synthesize sends SSML to the synthesis endpoint and plays the result.
// Returns once playback finishes or the context is cancelled.
func (a *Azure) Synthesize(ctx context.Context, text string) error {
	if !a.Available() {
		return WrapError(providerAzure, ErrNotConfigured)
	}
	if text == "" {
		return WrapError(providerAzure, ErrEmptyText)
	}

	start := time.Now()

	url := a.baseURL + "/cognitiveservices/v1"
	body := a.buildSSML(text)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return WrapError(providerAzure, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.config.Key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", azureOutputFormat)

	resp, err := a.client.Do(req)
	if err != nil {
		return WrapError(providerAzure, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{
			Provider:   providerAzure,
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return WrapError(providerAzure, fmt.Errorf("read audio: %w", err))
	}
	if len(audio) == 0 {
		return WrapError(providerAzure, fmt.Errorf("empty audio response"))
	}

	a.logger.Debug("synthesized",
		"chars", len(text),
		"audio_bytes", len(audio),
		"duration_ms", time.Since(start).Milliseconds())

	if err := a.play(ctx, bytes.NewReader(audio)); err != nil {
		return WrapError(providerAzure, fmt.Errorf("playback: %w", err))
	}
	return nil
}

// buildSSML wraps the text in a minimal SSML document for the configured voice.
func (a *Azure) buildSSML(text string) []byte {
	var escaped bytes.Buffer
	xml.EscapeText(&escaped, []byte(text))

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<speak version='1.0' xml:lang='en-US'><voice name='%s'>%s</voice></speak>`,
		a.config.Voice, escaped.String())
	return buf.Bytes()
}
