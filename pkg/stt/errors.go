package stt

import (
	"errors"
	"fmt"
	"strings"
)

// Common STT errors
var (
	// ErrNoMatch indicates the provider processed the audio but recognized
	// no speech in it. Chains treat this as a soft miss, not a failure.
	ErrNoMatch = errors.New("no speech recognized")

	// ErrNoSpeech indicates the capture never contained an utterance
	// (silence until timeout).
	ErrNoSpeech = errors.New("no speech detected")

	// ErrNotConfigured indicates the provider is missing required
	// configuration (API key, model file).
	ErrNotConfigured = errors.New("provider not configured")

	// ErrEmptyAudio indicates transcription was requested on an empty capture.
	ErrEmptyAudio = errors.New("empty audio")

	// ErrNoProviders indicates a chain was constructed with no providers.
	ErrNoProviders = errors.New("no providers available")
)

// ProviderError wraps an error with provider context.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("stt provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with provider context.
// Returns nil if err is nil.
func WrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}

// APIError represents an error response from a cloud STT endpoint.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stt provider %s: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsRateLimited reports whether the error is a rate limit response.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsAuthError reports whether the error is an authentication failure.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// ChainError aggregates failures from every provider a chain attempted.
type ChainError struct {
	Errors []error
}

func (e *ChainError) Error() string {
	if len(e.Errors) == 0 {
		return "stt chain: no errors recorded"
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("all stt providers failed: %s", strings.Join(msgs, "; "))
}

// Unwrap returns the last provider error, which belongs to the lowest-priority
// cloud provider attempted. Callers classifying chain failures inspect that one.
func (e *ChainError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// IsNoMatch reports whether err means the audio held no recognizable speech.
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}
