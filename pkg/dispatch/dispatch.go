// Package dispatch routes user utterances through the assistant. A fixed
// precedence decides what handles each utterance: exit keywords first, then
// offline handlers that work without any backend (journal, time, camera,
// local commands), then a reachability probe, and only then the model.
// Probe and classification exist so a dead tunnel degrades to a calm spoken
// sentence instead of a stack trace.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Brian-Mwirigi/Jarvis/pkg/agent"
	"github.com/Brian-Mwirigi/Jarvis/pkg/inference"
	"github.com/Brian-Mwirigi/Jarvis/pkg/journal"
	"github.com/Brian-Mwirigi/Jarvis/pkg/sentence"
	"github.com/Brian-Mwirigi/Jarvis/pkg/tools"
	"github.com/Brian-Mwirigi/Jarvis/pkg/vision"
)

// Action tells the caller what to do after a turn.
type Action int

const (
	// ActionContinue keeps the conversation going.
	ActionContinue Action = iota

	// ActionExit ends the session.
	ActionExit
)

// Turn is the result of dispatching one utterance. Response is the full
// reply; Spoken is the single sentence chosen for speech output.
type Turn struct {
	Response string
	Spoken   string
	Action   Action
}

// Prober checks backend reachability before a model turn.
type Prober interface {
	Probe(ctx context.Context) error
}

// Mode selects keyword sets that differ between voice and text sessions.
type Mode int

const (
	// ModeVoice is a spoken conversation.
	ModeVoice Mode = iota

	// ModeText is a typed session.
	ModeText
)

// Activation words wake the assistant from idle in voice mode.
var activationWords = map[string]struct{}{
	"hello":  {},
	"hi":     {},
	"hey":    {},
	"jarvis": {},
}

// Greeting is the quick acknowledgment spoken on activation.
const Greeting = "Yes sir, how can I help you?"

// Farewell is spoken when the user ends the session.
const Farewell = "Goodbye sir"

// exitPhrases end the session when they appear in an utterance.
var exitPhrases = []string{"exit", "quit", "goodbye", "shut down"}

// textExitPhrases are additionally honored in typed sessions, where "bye"
// is unambiguous.
var textExitPhrases = []string{"bye"}

// systemPrompt frames the assistant for the model.
const systemPrompt = "You are Jarvis, a concise personal assistant. " +
	"Answer briefly; your replies are spoken aloud. " +
	"Use the available tools when they help."

// historyCap bounds the conversation context sent to the model.
const historyCap = 20

// Config wires a dispatcher.
type Config struct {
	Executor *agent.Executor
	Prober   Prober
	Registry *tools.Registry
	Journal  *journal.Journal
	Vision   vision.Provider
	Mode     Mode
}

// Dispatcher routes utterances. Not safe for concurrent HandleUtterance
// calls; each session owns one dispatcher.
type Dispatcher struct {
	cfg     Config
	history []inference.Message
	logger  *slog.Logger
}

// New creates a dispatcher.
func New(cfg Config) *Dispatcher {
	return &Dispatcher{
		cfg:    cfg,
		logger: slog.Default().With("component", "dispatch"),
	}
}

// IsActivation reports whether an utterance wakes the assistant: any
// activation word appearing as a standalone word counts.
func IsActivation(text string) bool {
	for _, w := range strings.Fields(normalize(text)) {
		if _, ok := activationWords[w]; ok {
			return true
		}
	}
	return false
}

// isGreetingOnly reports whether the utterance is nothing but activation
// words ("hello", "hey jarvis"), so "hey jarvis whats the time" still
// carries its question onward.
func isGreetingOnly(text string) bool {
	words := strings.Fields(normalize(text))
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if _, ok := activationWords[w]; !ok {
			return false
		}
	}
	return true
}

// isExit reports whether the utterance ends the session.
func (d *Dispatcher) isExit(text string) bool {
	norm := normalize(text)
	phrases := exitPhrases
	if d.cfg.Mode == ModeText {
		phrases = append(phrases, textExitPhrases...)
	}
	for _, p := range phrases {
		if strings.Contains(norm, p) {
			return true
		}
	}
	return false
}

// HandleUtterance routes one utterance and returns the turn result.
// It never returns an error; failures become spoken replies.
func (d *Dispatcher) HandleUtterance(ctx context.Context, text string) Turn {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{Action: ActionContinue}
	}

	// 1. Exit keywords, before anything can swallow them.
	if d.isExit(text) {
		return Turn{Response: Farewell, Spoken: Farewell, Action: ActionExit}
	}

	// 2. A bare greeting gets the canned response; in voice mode the
	// session loop consumes activations before they reach the dispatcher.
	if d.cfg.Mode == ModeText && isGreetingOnly(text) {
		return Turn{Response: Greeting, Spoken: Greeting, Action: ActionContinue}
	}

	// 3. Offline handlers: these must work with no backend at all.
	if reply, ok := d.handleOffline(ctx, text); ok {
		return Turn{Response: reply, Spoken: reply, Action: ActionContinue}
	}

	// 4. Reachability probe: fail fast on a dead tunnel.
	if d.cfg.Prober != nil {
		if err := d.cfg.Prober.Probe(ctx); err != nil {
			d.logger.Warn("backend unreachable", "error", err)
			reply := d.offlineReply()
			return Turn{
				Response: reply,
				Spoken:   reply,
				Action:   ActionContinue,
			}
		}
	}

	// 5. Full model turn with tools.
	reply, err := d.modelTurn(ctx, text)
	if err != nil {
		return d.failedTurn(ctx, text, err)
	}

	return Turn{
		Response: reply,
		Spoken:   sentence.Best(reply),
		Action:   ActionContinue,
	}
}

// modelTurn runs the executor over the rolling conversation history.
func (d *Dispatcher) modelTurn(ctx context.Context, text string) (string, error) {
	messages := make([]inference.Message, 0, len(d.history)+2)
	messages = append(messages, inference.NewSystemMessage(systemPrompt))
	messages = append(messages, d.history...)
	messages = append(messages, inference.NewUserMessage(text))

	reply, err := d.cfg.Executor.Run(ctx, messages)
	if err != nil {
		return "", err
	}

	d.history = append(d.history,
		inference.NewUserMessage(text),
		inference.NewAssistantMessage(reply))
	if len(d.history) > historyCap {
		d.history = d.history[len(d.history)-historyCap:]
	}
	return reply, nil
}

// failedTurn classifies the error and, for non-connectivity failures, takes
// one more shot with the bare single-call fallback before giving up.
func (d *Dispatcher) failedTurn(ctx context.Context, text string, err error) Turn {
	reply, offline := agent.Classify(err)
	if offline {
		// One terse line; connectivity failures are routine.
		d.logger.Warn("turn failed, backend offline")
		reply = d.offlineReply()
		return Turn{Response: reply, Spoken: reply, Action: ActionContinue}
	}

	d.logger.Error("turn failed", "error", err)

	if simple, serr := d.cfg.Executor.Simple(ctx, text); serr == nil {
		return Turn{
			Response: simple,
			Spoken:   sentence.Best(simple),
			Action:   ActionContinue,
		}
	}

	return Turn{Response: reply, Spoken: reply, Action: ActionContinue}
}

// offlineReply names the local commands that still work without the backend.
func (d *Dispatcher) offlineReply() string {
	if d.cfg.Registry == nil {
		return agent.OfflineReply
	}
	names := d.cfg.Registry.Names()
	if len(names) == 0 {
		return agent.OfflineReply
	}
	return fmt.Sprintf("%s Still available: %s.",
		agent.OfflineReply, strings.Join(names, ", "))
}

// Reset clears the conversation history (used when a session goes idle).
func (d *Dispatcher) Reset() {
	d.history = nil
}

// normalize lowercases and strips punctuation for keyword matching.
func normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', '\'', '"':
			return -1
		}
		return r
	}, s)
}
