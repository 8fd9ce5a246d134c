package tts

import (
	"context"
	"sync"
)

// Mock implements Provider for testing. Configure behavior with function
// fields; spoken texts are recorded for assertions.
type Mock struct {
	// SynthesizeFunc overrides Synthesize behavior.
	SynthesizeFunc func(ctx context.Context, text string) (err error)

	// NameValue is returned by Name. Defaults to "mock".
	NameValue string

	// AvailableValue is returned by Available.
	AvailableValue bool

	mu     sync.Mutex
	spoken []string
	closed bool
}

var _ Provider = (*Mock)(nil)

// NewMock creates an available mock provider that succeeds on every call.
func NewMock() *Mock {
	return &Mock{NameValue: "mock", AvailableValue: true}
}

// NewMockError creates a mock provider that always fails with err.
func NewMockError(name string, err error) *Mock {
	return &Mock{
		NameValue:      name,
		AvailableValue: true,
		SynthesizeFunc: func(context.Context, string) error { return err },
	}
}

// Synthesize records the text and calls SynthesizeFunc if set.
func (m *Mock) Synthesize(ctx context.Context, text string) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	m.mu.Unlock()

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return nil
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

// Spoken returns a copy of every text passed to Synthesize.
func (m *Mock) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
