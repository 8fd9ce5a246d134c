package inference

import (
	"context"
	"sync"
)

// Mock implements Provider for testing. Configure behavior with function
// fields; calls are recorded for assertions.
type Mock struct {
	// ChatFunc overrides Chat behavior.
	ChatFunc func(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// VisionFunc overrides Vision behavior.
	VisionFunc func(ctx context.Context, req *VisionRequest) (*VisionResponse, error)

	// HealthFunc overrides Health behavior.
	HealthFunc func(ctx context.Context) error

	// ProbeFunc overrides Probe behavior.
	ProbeFunc func(ctx context.Context) error

	mu           sync.Mutex
	chatRequests []*ChatRequest
	closed       bool
}

var _ Provider = (*Mock)(nil)

// NewMock creates a mock that answers every chat with the given content.
func NewMock(content string) *Mock {
	return &Mock{
		ChatFunc: func(context.Context, *ChatRequest) (*ChatResponse, error) {
			return &ChatResponse{
				Message:      NewAssistantMessage(content),
				FinishReason: "stop",
			}, nil
		},
	}
}

// NewMockError creates a mock whose Chat always fails with err.
func NewMockError(err error) *Mock {
	return &Mock{
		ChatFunc: func(context.Context, *ChatRequest) (*ChatResponse, error) {
			return nil, err
		},
		ProbeFunc:  func(context.Context) error { return err },
		HealthFunc: func(context.Context) error { return err },
	}
}

// Chat records the request and calls ChatFunc.
func (m *Mock) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	m.mu.Lock()
	m.chatRequests = append(m.chatRequests, req)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return &ChatResponse{Message: NewAssistantMessage(""), FinishReason: "stop"}, nil
}

// Vision calls VisionFunc.
func (m *Mock) Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
	if m.VisionFunc != nil {
		return m.VisionFunc(ctx, req)
	}
	return &VisionResponse{Content: ""}, nil
}

// Health calls HealthFunc.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Probe calls ProbeFunc.
func (m *Mock) Probe(ctx context.Context) error {
	if m.ProbeFunc != nil {
		return m.ProbeFunc(ctx)
	}
	return nil
}

// Close records that the provider was closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// ChatRequests returns every request passed to Chat.
func (m *Mock) ChatRequests() []*ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ChatRequest, len(m.chatRequests))
	copy(out, m.chatRequests)
	return out
}

// ChatCalls returns how many times Chat was called.
func (m *Mock) ChatCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chatRequests)
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
