// Package agent runs the tool-calling loop between the model and the tool
// registry. Each turn is bounded two ways: a maximum number of model round
// trips and a wall-clock budget, so a confused model cannot spin forever
// while the user waits for a spoken answer.
package agent

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Brian-Mwirigi/Jarvis/pkg/inference"
	"github.com/Brian-Mwirigi/Jarvis/pkg/tools"
)

// DefaultReply is spoken when the model produces no usable content.
const DefaultReply = "no response"

// ChatClient is the slice of the inference provider the executor needs.
type ChatClient interface {
	Chat(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error)
}

// Limits bound one executor run.
type Limits struct {
	// MaxIterations caps model round trips within a turn.
	MaxIterations int

	// MaxExecutionTime caps the wall-clock budget for a turn.
	MaxExecutionTime time.Duration
}

// VoiceLimits keep spoken turns snappy: a user standing at a microphone
// will not wait out fifteen tool rounds.
func VoiceLimits() Limits {
	return Limits{MaxIterations: 5, MaxExecutionTime: 120 * time.Second}
}

// TextLimits allow longer tool chains for typed sessions.
func TextLimits() Limits {
	return Limits{MaxIterations: 15, MaxExecutionTime: 120 * time.Second}
}

// Executor drives the model/tool loop.
type Executor struct {
	client   ChatClient
	registry *tools.Registry
	limits   Limits
	logger   *slog.Logger
}

// New creates an executor.
func New(client ChatClient, registry *tools.Registry, limits Limits) *Executor {
	if limits.MaxIterations <= 0 {
		limits.MaxIterations = TextLimits().MaxIterations
	}
	if limits.MaxExecutionTime <= 0 {
		limits.MaxExecutionTime = TextLimits().MaxExecutionTime
	}
	return &Executor{
		client:   client,
		registry: registry,
		limits:   limits,
		logger:   slog.Default().With("component", "agent"),
	}
}

// Run executes one turn: the model is offered the registry's tools and the
// loop feeds tool results back until the model answers in plain text, the
// iteration cap is hit, or the time budget runs out. The returned string is
// never empty; DefaultReply stands in when the model has nothing to say.
func (e *Executor) Run(ctx context.Context, messages []inference.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.limits.MaxExecutionTime)
	defer cancel()

	start := time.Now()
	defs := e.registry.Definitions()
	history := make([]inference.Message, len(messages))
	copy(history, messages)

	for iter := 0; iter < e.limits.MaxIterations; iter++ {
		resp, err := e.client.Chat(ctx, &inference.ChatRequest{
			Messages: history,
			Tools:    defs,
		})
		if err != nil {
			return "", err
		}

		if len(resp.Message.ToolCalls) == 0 {
			e.logger.Debug("turn complete",
				"iterations", iter+1,
				"duration_ms", time.Since(start).Milliseconds())
			return extractReply(resp.Message.Content), nil
		}

		history = append(history, resp.Message)
		for _, call := range resp.Message.ToolCalls {
			result := e.registry.Invoke(call.Name, call.Arguments)
			e.logger.Debug("tool call",
				"tool", call.Name,
				"result_chars", len(result))
			history = append(history, inference.NewToolMessage(call.ID, result))
		}

		if ctx.Err() != nil {
			e.logger.Warn("turn aborted, budget exhausted",
				"iterations", iter+1)
			return DefaultReply, nil
		}
	}

	e.logger.Warn("iteration cap reached", "max", e.limits.MaxIterations)
	return DefaultReply, nil
}

// Simple runs a single model call with no tools, instructed to answer
// concisely. Used as the fallback when the full loop cannot run.
func (e *Executor) Simple(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.Chat(ctx, &inference.ChatRequest{
		Messages: []inference.Message{
			inference.NewSystemMessage("Answer concisely in one or two sentences."),
			inference.NewUserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	return extractReply(resp.Message.Content), nil
}

// extractReply normalizes model output into something speakable.
func extractReply(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return DefaultReply
	}
	return content
}
