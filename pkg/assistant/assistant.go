// Package assistant assembles the services behind every Jarvis front end:
// the inference client, the tool registry, memory, journal, reminders, and
// the speech stack. The voice, text, and server binaries all build an
// Assistant and differ only in which loop they run on top of it.
package assistant

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Brian-Mwirigi/Jarvis/internal/config"
	"github.com/Brian-Mwirigi/Jarvis/pkg/agent"
	"github.com/Brian-Mwirigi/Jarvis/pkg/dispatch"
	"github.com/Brian-Mwirigi/Jarvis/pkg/inference"
	"github.com/Brian-Mwirigi/Jarvis/pkg/journal"
	"github.com/Brian-Mwirigi/Jarvis/pkg/memory"
	"github.com/Brian-Mwirigi/Jarvis/pkg/reminders"
	"github.com/Brian-Mwirigi/Jarvis/pkg/tools"
	"github.com/Brian-Mwirigi/Jarvis/pkg/tts"
	"github.com/Brian-Mwirigi/Jarvis/pkg/vision"
)

// Assistant owns the shared services. Construct one per process.
type Assistant struct {
	Config config.Config

	Client    *inference.Client
	Registry  *tools.Registry
	Memory    *memory.Memory
	Journal   *journal.Journal
	Reminders *reminders.Scheduler
	Vision    vision.Provider
	Speaker   *tts.Speaker

	logger *slog.Logger
}

// New builds the assistant from configuration. Notify is called with
// reminder text when a reminder fires; pass nil for a desktop notification
// only.
func New(cfg config.Config, notify func(text string)) (*Assistant, error) {
	logger := slog.Default().With("component", "assistant")

	mem, err := memory.NewWithFile(filepath.Join(cfg.DataDir, "memory.json"))
	if err != nil {
		return nil, fmt.Errorf("opening memory: %w", err)
	}

	jrnl, err := journal.Open(filepath.Join(cfg.DataDir, "journal.json"))
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	client, err := inference.NewClient(
		inference.WithBaseURL(apiBase(cfg.OllamaHost)),
		inference.WithModel(cfg.OllamaModel),
	)
	if err != nil {
		return nil, fmt.Errorf("creating inference client: %w", err)
	}

	// Camera questions go to the companion service when one is configured,
	// otherwise straight to the vision model over a locally captured frame.
	var vis vision.Provider
	if cfg.HasVision() {
		vis = vision.NewClient(cfg.VisionURL)
	} else {
		vis = vision.NewCamera(client)
	}

	a := &Assistant{
		Config:    cfg,
		Client:    client,
		Memory:    mem,
		Journal:   jrnl,
		Reminders: reminders.New(notify),
		Vision:    vis,
		logger:    logger,
	}

	a.Registry = tools.NewRegistry()
	a.Registry.RegisterAll(tools.All(tools.Config{
		Memory:    a.Memory,
		Journal:   a.Journal,
		Reminders: a.Reminders,
		Vision:    a.Vision,
	}))

	logger.Info("assistant ready",
		"model", cfg.OllamaModel,
		"azure_speech", cfg.HasAzureSpeech(),
		"vision", cfg.HasVision(),
		"whisper", cfg.HasWhisper(),
		"tools", len(a.Registry.Names()))

	return a, nil
}

// Dispatcher builds a dispatcher for the given mode. Voice mode gets the
// tighter iteration limits so spoken turns stay snappy.
func (a *Assistant) Dispatcher(mode dispatch.Mode) *dispatch.Dispatcher {
	limits := agent.TextLimits()
	if mode == dispatch.ModeVoice {
		limits = agent.VoiceLimits()
	}
	return dispatch.New(dispatch.Config{
		Executor: agent.New(a.Client, a.Registry, limits),
		Prober:   a.Client,
		Registry: a.Registry,
		Journal:  a.Journal,
		Vision:   a.Vision,
		Mode:     mode,
	})
}

// EnableSpeech builds the two-path speaker: Azure for full replies when
// configured, the local engine for quick acknowledgments and fallback.
func (a *Assistant) EnableSpeech() {
	var cloud tts.Provider
	if a.Config.HasAzureSpeech() {
		cloud = tts.NewAzure(
			tts.WithKey(a.Config.AzureSpeechKey),
			tts.WithRegion(a.Config.AzureRegion),
			tts.WithVoice(a.Config.AzureVoice),
		)
	}
	a.Speaker = tts.NewSpeaker(cloud, tts.NewLocal())
}

// Close releases everything. Safe to call once, on shutdown.
func (a *Assistant) Close() {
	a.Reminders.Stop()
	if a.Speaker != nil {
		if err := a.Speaker.Close(); err != nil {
			a.logger.Warn("closing speaker", "error", err)
		}
	}
	if err := a.Client.Close(); err != nil {
		a.logger.Warn("closing inference client", "error", err)
	}
}

// apiBase normalizes an Ollama-style host into an OpenAI-compatible API
// base. "http://localhost:11434" becomes "http://localhost:11434/v1";
// hosts already ending in /v1 pass through.
func apiBase(host string) string {
	host = strings.TrimRight(host, "/")
	if strings.HasSuffix(host, "/v1") {
		return host
	}
	return host + "/v1"
}
