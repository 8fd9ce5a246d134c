package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Brian-Mwirigi/Jarvis/pkg/tools"
	"github.com/Brian-Mwirigi/Jarvis/pkg/vision"
)

// cameraCues mark questions about the physical surroundings.
var cameraCues = []string{
	"camera",
	"what do you see",
	"can you see",
	"look at",
	"in front of you",
}

// handleOffline answers utterances that must work with no backend:
// journal queries, time, camera questions, and direct local commands.
// Returns false when the utterance should go to the model.
func (d *Dispatcher) handleOffline(ctx context.Context, text string) (string, bool) {
	norm := normalize(text)

	if reply, ok := d.handleJournal(norm); ok {
		return reply, true
	}
	if reply, ok := handleTime(norm); ok {
		return reply, true
	}
	if reply, ok := d.handleCamera(ctx, text, norm); ok {
		return reply, true
	}
	if reply, ok := d.handleLocalCommand(text, norm); ok {
		return reply, true
	}
	return "", false
}

// handleJournal answers project-day questions.
func (d *Dispatcher) handleJournal(norm string) (string, bool) {
	if d.cfg.Journal == nil {
		return "", false
	}
	if strings.Contains(norm, "journal") ||
		strings.Contains(norm, "what day are we on") ||
		strings.Contains(norm, "what day of the project") ||
		strings.Contains(norm, "which day of the project") {
		return d.cfg.Journal.Summary(), true
	}
	return "", false
}

// handleTime answers time questions, honoring an " in <city>" suffix.
func handleTime(norm string) (string, bool) {
	if !strings.Contains(norm, "time") {
		return "", false
	}
	// Only plain time questions; "set a timer" or "how much time" go on.
	if !strings.Contains(norm, "what time") &&
		!strings.Contains(norm, "whats the time") &&
		!strings.Contains(norm, "what is the time") &&
		!strings.Contains(norm, "tell me the time") {
		return "", false
	}

	city := ""
	if i := strings.LastIndex(norm, " in "); i >= 0 {
		city = strings.TrimSpace(norm[i+len(" in "):])
	}

	reply, err := tools.CurrentTime(city)
	if err != nil {
		return fmt.Sprintf("I don't know the time zone for %s.", city), true
	}
	return reply, true
}

// handleCamera routes surroundings questions to the vision service.
func (d *Dispatcher) handleCamera(ctx context.Context, text, norm string) (string, bool) {
	matched := false
	for _, cue := range cameraCues {
		if strings.Contains(norm, cue) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}

	v := d.cfg.Vision
	if v == nil || !v.Available() {
		return "I don't have access to a camera right now.", true
	}

	vctx, cancel := context.WithTimeout(ctx, vision.DefaultTimeout)
	defer cancel()

	answer, err := v.Analyze(vctx, text)
	if err != nil {
		d.logger.Warn("vision query failed", "error", err)
		return "I couldn't get a look just now.", true
	}
	return answer, true
}

// localCommand maps an utterance cue to a registry tool.
type localCommand struct {
	cues []string
	tool string
	args func(text, norm string) string // JSON arguments
}

var localCommands = []localCommand{
	{
		cues: []string{"take a screenshot", "screenshot"},
		tool: "take_screenshot",
	},
	{
		cues: []string{"read my screen", "whats on my screen", "what is on my screen"},
		tool: "read_screen",
	},
	{
		cues: []string{"clipboard"},
		tool: "read_clipboard",
	},
	{
		cues: []string{"scan the network", "network scan", "whats on my network", "what is on my network"},
		tool: "network_scan",
	},
	{
		cues: []string{"enter the matrix"},
		tool: "matrix",
	},
}

// handleLocalCommand matches direct commands against the registry, plus the
// remember/recall and help commands that need argument extraction.
func (d *Dispatcher) handleLocalCommand(text, norm string) (string, bool) {
	if d.cfg.Registry == nil {
		return "", false
	}

	if strings.HasPrefix(norm, "remember ") {
		fact := strings.TrimSpace(trimAfter(text, "remember "))
		fact = strings.TrimPrefix(fact, "that ")
		args, _ := json.Marshal(map[string]string{"fact": fact})
		return d.cfg.Registry.Invoke("remember_fact", string(args)), true
	}

	if strings.Contains(norm, "what do you remember") || strings.HasPrefix(norm, "recall ") {
		query := ""
		if strings.HasPrefix(norm, "recall ") {
			query = strings.TrimSpace(trimAfter(text, "recall "))
		} else if i := strings.Index(norm, "about "); i >= 0 {
			query = strings.TrimSpace(norm[i+len("about "):])
		}
		args, _ := json.Marshal(map[string]string{"query": query})
		return d.cfg.Registry.Invoke("recall_facts", string(args)), true
	}

	if norm == "matrix" {
		return d.cfg.Registry.Invoke("matrix", "{}"), true
	}

	if norm == "help" || strings.Contains(norm, "what can you do") {
		names := d.cfg.Registry.Names()
		if len(names) == 0 {
			return "No local commands are available.", true
		}
		return fmt.Sprintf("I can use these tools: %s.", strings.Join(names, ", ")), true
	}

	for _, cmd := range localCommands {
		for _, cue := range cmd.cues {
			if strings.Contains(norm, cue) {
				argsJSON := "{}"
				if cmd.args != nil {
					argsJSON = cmd.args(text, norm)
				}
				return d.cfg.Registry.Invoke(cmd.tool, argsJSON), true
			}
		}
	}
	return "", false
}

// trimAfter returns the part of the original text following the first
// case-insensitive occurrence of marker.
func trimAfter(text, marker string) string {
	i := strings.Index(strings.ToLower(text), marker)
	if i < 0 {
		return ""
	}
	return text[i+len(marker):]
}
