package stt

import (
	"context"
	"sync"
)

// Mock implements Provider for testing. Configure behavior with function
// fields; calls are recorded for assertions.
type Mock struct {
	// TranscribeFunc overrides Transcribe behavior.
	TranscribeFunc func(ctx context.Context, audio Audio) (string, error)

	// NameValue is returned by Name. Defaults to "mock".
	NameValue string

	// AvailableValue is returned by Available.
	AvailableValue bool

	mu              sync.Mutex
	transcribeCalls int
	closed          bool
}

var _ Provider = (*Mock)(nil)

// NewMock creates a mock provider that is available and returns the given
// text from every Transcribe call.
func NewMock(text string) *Mock {
	return &Mock{
		NameValue:      "mock",
		AvailableValue: true,
		TranscribeFunc: func(context.Context, Audio) (string, error) {
			return text, nil
		},
	}
}

// NewMockError creates a mock provider that always fails with err.
func NewMockError(name string, err error) *Mock {
	return &Mock{
		NameValue:      name,
		AvailableValue: true,
		TranscribeFunc: func(context.Context, Audio) (string, error) {
			return "", err
		},
	}
}

// Transcribe calls TranscribeFunc, recording the call.
func (m *Mock) Transcribe(ctx context.Context, audio Audio) (string, error) {
	m.mu.Lock()
	m.transcribeCalls++
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio)
	}
	return "", nil
}

// Name returns the configured name.
func (m *Mock) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

// Available returns the configured availability.
func (m *Mock) Available() bool { return m.AvailableValue }

// Close records that the provider was closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// TranscribeCalls returns how many times Transcribe was called.
func (m *Mock) TranscribeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transcribeCalls
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
