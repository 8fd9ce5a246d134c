// Package vision answers questions about what the camera sees by calling a
// companion vision service over HTTP. The service owns the camera and the
// vision model; this package is just the client.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Errors returned by the client.
var (
	// ErrNotConfigured is returned when no service URL is set.
	ErrNotConfigured = errors.New("vision: service URL not configured")

	// ErrEmptyQuestion is returned for blank questions.
	ErrEmptyQuestion = errors.New("vision: empty question")
)

// Provider answers natural-language questions about the camera view.
type Provider interface {
	// Analyze captures the current view and answers the question.
	Analyze(ctx context.Context, question string) (string, error)

	// Available reports whether the provider can be attempted.
	Available() bool
}

// DefaultTimeout bounds capture plus model inference on the service side.
const DefaultTimeout = 30 * time.Second

// Client talks to the vision service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ Provider = (*Client)(nil)

// NewClient creates a vision client for the given service URL.
// An empty URL yields an unavailable client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default().With("component", "vision.client"),
	}
}

// Available reports whether a service URL is configured.
func (c *Client) Available() bool { return c.baseURL != "" }

type analyzeRequest struct {
	Question string `json:"question"`
}

type analyzeResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error,omitempty"`
}

// Analyze asks the vision service about the current camera view.
func (c *Client) Analyze(ctx context.Context, question string) (string, error) {
	if !c.Available() {
		return "", ErrNotConfigured
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	start := time.Now()

	body, err := json.Marshal(analyzeRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("vision: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("vision: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("vision: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vision: service error %d: %s", resp.StatusCode, string(respBody))
	}

	var result analyzeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("vision: decode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("vision: %s", result.Error)
	}

	c.logger.Debug("analyzed",
		"chars", len(result.Answer),
		"duration_ms", time.Since(start).Milliseconds())

	return result.Answer, nil
}

// Mock implements Provider for testing.
type Mock struct {
	// AnalyzeFunc overrides Analyze behavior.
	AnalyzeFunc func(ctx context.Context, question string) (string, error)

	// AvailableValue is returned by Available.
	AvailableValue bool
}

var _ Provider = (*Mock)(nil)

// Analyze calls AnalyzeFunc.
func (m *Mock) Analyze(ctx context.Context, question string) (string, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, question)
	}
	return "", nil
}

// Available returns the configured availability.
func (m *Mock) Available() bool { return m.AvailableValue }
