package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

const providerAzure = "azure"

// Azure implements Provider using the Azure Speech short-audio REST endpoint.
// It is the primary provider: highest accuracy, requires a subscription key.
type Azure struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

var _ Provider = (*Azure)(nil)

// NewAzure creates an Azure STT provider.
func NewAzure(opts ...Option) *Azure {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.stt.speech.microsoft.com", cfg.Region)
	}

	return &Azure{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  cfg.Logger.With("component", "stt.azure"),
		baseURL: baseURL,
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

type azureResponse struct {
	RecognitionStatus string `json:"RecognitionStatus"`
	DisplayText       string `json:"DisplayText"`
}

// Transcribe sends the captured audio to the short-audio recognition endpoint.
// Returns ErrNoMatch when Azure heard the audio but recognized nothing.
func (a *Azure) Transcribe(ctx context.Context, audio Audio) (string, error) {
	if !a.Available() {
		return "", WrapError(providerAzure, ErrNotConfigured)
	}
	if audio.Empty() {
		return "", WrapError(providerAzure, ErrEmptyAudio)
	}

	start := time.Now()

	url := fmt.Sprintf("%s/speech/recognition/conversation/cognitiveservices/v1?language=%s&format=simple",
		a.baseURL, a.config.Language)

	// The endpoint declares audio/wav, so the body needs a RIFF header,
	// not bare PCM.
	path, cleanup, err := audio.WriteTempWAV()
	if err != nil {
		return "", WrapError(providerAzure, fmt.Errorf("encode wav: %w", err))
	}
	defer cleanup()

	body, err := os.ReadFile(path)
	if err != nil {
		return "", WrapError(providerAzure, fmt.Errorf("read wav: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", WrapError(providerAzure, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.config.Key)
	req.Header.Set("Content-Type",
		fmt.Sprintf("audio/wav; codecs=audio/pcm; samplerate=%d", audio.SampleRate))
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", WrapError(providerAzure, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", WrapError(providerAzure, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			Provider:   providerAzure,
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	var result azureResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", WrapError(providerAzure, fmt.Errorf("decode response: %w", err))
	}

	if result.RecognitionStatus != "Success" {
		a.logger.Debug("recognition miss", "status", result.RecognitionStatus)
		return "", WrapError(providerAzure, ErrNoMatch)
	}

	a.logger.Debug("transcribed",
		"chars", len(result.DisplayText),
		"duration_ms", time.Since(start).Milliseconds())

	return result.DisplayText, nil
}
