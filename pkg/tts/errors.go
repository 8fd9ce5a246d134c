package tts

import (
	"errors"
	"fmt"
)

// Common TTS errors
var (
	// ErrEmptyText indicates synthesis was requested with no text.
	ErrEmptyText = errors.New("empty text")

	// ErrNotConfigured indicates the provider is missing required
	// configuration (API key, region).
	ErrNotConfigured = errors.New("provider not configured")

	// ErrNoEngine indicates no local speech engine was found on this system.
	ErrNoEngine = errors.New("no local speech engine found")

	// ErrNoProviders indicates a chain was constructed with no providers.
	ErrNoProviders = errors.New("no providers available")
)

// ProviderError wraps an error with provider context.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("tts provider %s: %v", e.Provider, e.Err)
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

// APIError represents an error response from a cloud synthesis endpoint.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tts provider %s: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsRateLimited reports whether the error is a rate limit response.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsAuthError reports whether the error is an authentication failure.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// ChainError aggregates errors from all providers in a chain.
type ChainError struct {
	Errors []error
}

func (e *ChainError) Error() string {
	if len(e.Errors) == 0 {
		return "tts chain: no errors recorded"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("tts chain: %v", e.Errors[0])
	}
	return fmt.Sprintf("tts chain: all %d providers failed, last error: %v",
		len(e.Errors), e.Errors[len(e.Errors)-1])
}

// Unwrap returns the last error in the chain.
func (e *ChainError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}
