package stt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

const providerWhisper = "whisper"

// Whisper implements Provider using a local whisper.cpp model. It is the
// offline fallback: slower than the cloud providers but works without any
// network. The model is loaded lazily on first use and cached for the life
// of the provider, since loading takes several seconds.
type Whisper struct {
	config *Config
	logger *slog.Logger

	once    sync.Once
	loadErr error

	mu    sync.Mutex
	model whisper.Model
}

var _ Provider = (*Whisper)(nil)

// NewWhisper creates a local whisper provider for the given model file.
func NewWhisper(modelPath string, opts ...Option) *Whisper {
	cfg := DefaultConfig()
	cfg.ModelPath = modelPath
	cfg.Apply(opts...)

	return &Whisper{
		config: cfg,
		logger: cfg.Logger.With("component", "stt.whisper"),
	}
}

// Name returns the provider name.
func (w *Whisper) Name() string { return providerWhisper }

// Available reports whether the model file exists on disk.
func (w *Whisper) Available() bool {
	if w.config.ModelPath == "" {
		return false
	}
	info, err := os.Stat(w.config.ModelPath)
	return err == nil && !info.IsDir()
}

// Close releases the loaded model, if any.
func (w *Whisper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.model != nil {
		err := w.model.Close()
		w.model = nil
		return err
	}
	return nil
}

// load loads the model exactly once; later calls reuse the cached model.
func (w *Whisper) load() error {
	w.once.Do(func() {
		if w.config.ModelPath == "" {
			w.loadErr = ErrNotConfigured
			return
		}
		start := time.Now()
		model, err := whisper.New(w.config.ModelPath)
		if err != nil {
			w.loadErr = fmt.Errorf("load model %s: %w", w.config.ModelPath, err)
			return
		}
		w.mu.Lock()
		w.model = model
		w.mu.Unlock()
		w.logger.Info("model loaded",
			"path", w.config.ModelPath,
			"duration_ms", time.Since(start).Milliseconds())
	})
	return w.loadErr
}

// Transcribe runs local inference on the captured audio. The whisper context
// is not safe for concurrent use, so calls are serialized.
func (w *Whisper) Transcribe(ctx context.Context, audio Audio) (string, error) {
	if audio.Empty() {
		return "", WrapError(providerWhisper, ErrEmptyAudio)
	}
	if err := w.load(); err != nil {
		return "", WrapError(providerWhisper, err)
	}
	if err := ctx.Err(); err != nil {
		return "", WrapError(providerWhisper, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()

	wctx, err := w.model.NewContext()
	if err != nil {
		return "", WrapError(providerWhisper, fmt.Errorf("create context: %w", err))
	}
	if err := wctx.SetLanguage(shortLang(w.config.Language)); err != nil {
		return "", WrapError(providerWhisper, fmt.Errorf("set language: %w", err))
	}
	if w.config.Threads > 0 {
		wctx.SetThreads(uint(w.config.Threads))
	}

	if err := wctx.Process(audio.Float32(), nil, nil, nil); err != nil {
		return "", WrapError(providerWhisper, fmt.Errorf("process audio: %w", err))
	}

	var sb strings.Builder
	for {
		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", WrapError(providerWhisper, fmt.Errorf("read segment: %w", err))
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strings.TrimSpace(seg.Text))
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", WrapError(providerWhisper, ErrNoMatch)
	}

	w.logger.Debug("transcribed",
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds())

	return text, nil
}

// shortLang maps a BCP-47 tag to the two-letter code whisper expects.
func shortLang(lang string) string {
	if i := strings.IndexByte(lang, '-'); i > 0 {
		return lang[:i]
	}
	if lang == "" {
		return "en"
	}
	return lang
}
