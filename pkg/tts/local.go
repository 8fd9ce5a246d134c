package tts

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"time"
)

const providerLocal = "local"

// localEngines lists speech binaries in preference order per platform.
var localEngines = map[string][]string{
	"darwin": {"say"},
	"linux":  {"espeak-ng", "espeak"},
}

// Local implements Provider by shelling out to a system speech engine.
// It is the offline path: robotic but instant, used for quick acknowledgments
// and as the fallback when cloud synthesis fails.
type Local struct {
	config *Config
	logger *slog.Logger
	engine string

	// lookPath is swapped in tests.
	lookPath func(string) (string, error)
	runCmd   func(ctx context.Context, name string, args ...string) error
}

var _ Provider = (*Local)(nil)

// NewLocal creates a local TTS provider, autodetecting the engine unless one
// is configured.
func NewLocal(opts ...Option) *Local {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	l := &Local{
		config:   cfg,
		logger:   cfg.Logger.With("component", "tts.local"),
		lookPath: exec.LookPath,
		runCmd:   runSpeechCmd,
	}
	l.engine = l.detect()
	return l
}

// detect returns the first installed engine for this platform.
func (l *Local) detect() string {
	if l.config.Engine != "" {
		return l.config.Engine
	}
	for _, name := range localEngines[runtime.GOOS] {
		if _, err := l.lookPath(name); err == nil {
			return name
		}
	}
	return ""
}

// Name returns the provider name.
func (l *Local) Name() string { return providerLocal }

// Available reports whether a speech engine was found.
func (l *Local) Available() bool { return l.engine != "" }

// Close releases resources (no-op for Local).
func (l *Local) Close() error { return nil }

// Synthesize speaks the text through the detected engine, blocking until the
// engine exits or the context expires.
func (l *Local) Synthesize(ctx context.Context, text string) error {
	if text == "" {
		return WrapError(providerLocal, ErrEmptyText)
	}
	if l.engine == "" {
		return WrapError(providerLocal, ErrNoEngine)
	}

	start := time.Now()

	if err := l.runCmd(ctx, l.engine, text); err != nil {
		return WrapError(providerLocal, fmt.Errorf("%s: %w", l.engine, err))
	}

	l.logger.Debug("spoke",
		"engine", l.engine,
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func runSpeechCmd(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Run()
}
