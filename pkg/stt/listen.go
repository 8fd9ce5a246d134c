package stt

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Recorder captures one utterance from an input device.
type Recorder interface {
	// Record blocks until a phrase is captured or the onset timeout expires.
	// Returns ErrNoSpeech when no speech started before the timeout.
	Record(ctx context.Context) (Audio, error)

	// Close releases the input device.
	Close() error
}

// Transcriber converts captured audio to text. *Chain satisfies this.
type Transcriber interface {
	Transcribe(ctx context.Context, audio Audio, allowLocal bool) (string, error)
}

// OutcomeKind classifies the result of one listen attempt.
type OutcomeKind int

const (
	// OutcomeText means speech was captured and transcribed.
	OutcomeText OutcomeKind = iota

	// OutcomeSilence means no speech started before the onset timeout.
	OutcomeSilence

	// OutcomeUnintelligible means speech was captured but no provider
	// recognized it.
	OutcomeUnintelligible

	// OutcomeError means capture or transcription failed outright.
	OutcomeError
)

// String returns a human-readable kind name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeText:
		return "text"
	case OutcomeSilence:
		return "silence"
	case OutcomeUnintelligible:
		return "unintelligible"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one listen attempt. Err is set only for
// OutcomeError; Text only for OutcomeText.
type Outcome struct {
	Kind OutcomeKind
	Text string
	Err  error
}

// Listener couples a recorder with a transcription chain and reduces every
// possible failure to an Outcome. Listen never panics and never lets an
// error escape as anything other than OutcomeError, so the conversation
// loop can stay alive no matter what the audio stack does.
type Listener struct {
	recorder   Recorder
	transcribe Transcriber
	allowLocal bool
	logger     *slog.Logger
}

// NewListener creates a listener. allowLocal permits the chain's offline
// fallback; voice sessions enable it since the user is already waiting.
func NewListener(rec Recorder, tr Transcriber, allowLocal bool) *Listener {
	return &Listener{
		recorder:   rec,
		transcribe: tr,
		allowLocal: allowLocal,
		logger:     slog.Default().With("component", "stt.listener"),
	}
}

// Listen captures one utterance and transcribes it.
func (l *Listener) Listen(ctx context.Context) Outcome {
	start := time.Now()

	audio, err := l.recorder.Record(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSpeech) {
			return Outcome{Kind: OutcomeSilence}
		}
		l.logger.Error("capture failed", "error", err)
		return Outcome{Kind: OutcomeError, Err: err}
	}
	if audio.Empty() {
		return Outcome{Kind: OutcomeSilence}
	}

	text, err := l.transcribe.Transcribe(ctx, audio, l.allowLocal)
	if err != nil {
		if allNoMatch(err) {
			return Outcome{Kind: OutcomeUnintelligible}
		}
		l.logger.Error("transcription failed", "error", err)
		return Outcome{Kind: OutcomeError, Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{Kind: OutcomeUnintelligible}
	}

	l.logger.Debug("heard",
		"chars", len(text),
		"duration_ms", time.Since(start).Milliseconds())

	return Outcome{Kind: OutcomeText, Text: text}
}

// Close releases the underlying recorder.
func (l *Listener) Close() error {
	return l.recorder.Close()
}

// allNoMatch reports whether a chain failure consists purely of providers
// hearing nothing, as opposed to at least one genuine fault.
func allNoMatch(err error) bool {
	var chainErr *ChainError
	if errors.As(err, &chainErr) {
		for _, e := range chainErr.Errors {
			if !errors.Is(e, ErrNoMatch) {
				return false
			}
		}
		return len(chainErr.Errors) > 0
	}
	return errors.Is(err, ErrNoMatch)
}
