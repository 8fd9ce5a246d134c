// Package tools defines the functions the model can call during a
// conversation and the registry that exposes them. Tools whose system
// requirements are not met (no camera service, no tesseract binary) are
// registered but withheld from the model, so the same build runs everywhere.
package tools

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/Brian-Mwirigi/Jarvis/pkg/inference"
)

// Tool represents a function the model can invoke during conversation.
type Tool struct {
	// Name is the unique identifier for the tool (e.g., "set_reminder").
	Name string

	// Description explains what the tool does, helping the model decide
	// when to use it.
	Description string

	// Parameters defines the JSON schema properties for the arguments.
	Parameters map[string]interface{}

	// Handler is called when the model invokes this tool. It receives the
	// parsed arguments and returns a result string or error.
	Handler func(args map[string]interface{}) (string, error)

	// Available reports whether the tool can run on this system.
	// Nil means always available. Checked once at registration.
	Available func() bool
}

// Registry holds the registered tools. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	tools     map[string]Tool
	available map[string]bool
	logger    *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:     make(map[string]Tool),
		available: make(map[string]bool),
		logger:    slog.Default().With("component", "tools"),
	}
}

// Register adds a tool, probing its availability once.
func (r *Registry) Register(t Tool) {
	avail := t.Available == nil || t.Available()

	r.mu.Lock()
	r.tools[t.Name] = t
	r.available[t.Name] = avail
	r.mu.Unlock()

	if !avail {
		r.logger.Debug("tool registered but unavailable", "tool", t.Name)
	}
}

// RegisterAll adds every tool in the slice.
func (r *Registry) RegisterAll(ts []Tool) {
	for _, t := range ts {
		r.Register(t)
	}
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the names of available tools, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.tools))
	for name := range r.tools {
		if r.available[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Definitions returns the available tools in the wire format the model
// expects. Unavailable tools are withheld entirely.
func (r *Registry) Definitions() []inference.Tool {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]inference.Tool, 0, len(names))
	for _, name := range names {
		t := r.tools[name]
		params := map[string]interface{}{
			"type":       "object",
			"properties": t.Parameters,
		}
		if t.Parameters == nil {
			params["properties"] = map[string]interface{}{}
		}
		out = append(out, inference.NewTool(t.Name, t.Description, params))
	}
	return out
}

// Invoke runs a tool by name with JSON-encoded arguments. Failures come
// back as strings, not errors: the result goes straight into the model's
// context, and the model handles a readable failure better than the loop
// handles an aborted turn.
func (r *Registry) Invoke(name, argsJSON string) string {
	r.mu.RLock()
	t, ok := r.tools[name]
	avail := r.available[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Sprintf("Unknown tool: %s", name)
	}
	if !avail {
		return fmt.Sprintf("Tool %s is not available on this system", name)
	}

	args := map[string]interface{}{}
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return fmt.Sprintf("Invalid arguments for %s: %v", name, err)
		}
	}

	result, err := t.Handler(args)
	if err != nil {
		r.logger.Warn("tool failed", "tool", name, "error", err)
		return fmt.Sprintf("Error running %s: %v", name, err)
	}

	r.logger.Debug("tool invoked", "tool", name, "result_chars", len(result))
	return result
}

// stringArg extracts a string argument, empty when missing.
func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// numberArg extracts a numeric argument, zero when missing.
func numberArg(args map[string]interface{}, key string) float64 {
	n, _ := args[key].(float64)
	return n
}
