package tts

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// quickTimeout is the hard cap on the quick acknowledgment path. A canned
// phrase that cannot be spoken in this window gets dropped rather than
// stalling the conversation.
const quickTimeout = 5 * time.Second

// quickResponses are canned acknowledgments spoken through the local engine
// only. Keys are normalized with normalizeQuick.
var quickResponses = map[string]struct{}{
	"yes sir":                     {},
	"yes sir, how can i help you": {},
	"goodbye sir":                 {},
	"one moment sir":              {},
	"certainly sir":               {},
	"right away sir":              {},
	"understood sir":              {},
	"of course sir":               {},
}

// IsQuickResponse reports whether text is a canned acknowledgment eligible
// for the quick local path.
func IsQuickResponse(text string) bool {
	_, ok := quickResponses[normalizeQuick(text)]
	return ok
}

// normalizeQuick lowercases and strips surrounding whitespace and trailing
// punctuation so "Yes sir!" and "yes sir" match the same entry.
func normalizeQuick(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	return strings.TrimRight(s, ".!?,")
}

// Speaker routes replies to the right output path. Quick acknowledgments go
// to the local engine under a hard timeout and never touch the network; full
// replies go to the cloud provider with the local engine as fallback, always
// speaking the original text. Speech output is best effort: Say never
// returns an error, because a reply that cannot be spoken must not kill the
// conversation.
type Speaker struct {
	full   Provider // cloud then local, tried in order
	local  Provider
	logger *slog.Logger
}

// NewSpeaker creates a speaker over a cloud provider and a local engine.
// Either may be nil; Say degrades to whatever is left.
func NewSpeaker(cloud, local Provider) *Speaker {
	var providers []Provider
	if cloud != nil {
		providers = append(providers, cloud)
	}
	if local != nil {
		providers = append(providers, local)
	}

	var full Provider
	if chain, err := NewChain(providers...); err == nil {
		full = chain
	}
	return &Speaker{
		full:   full,
		local:  local,
		logger: slog.Default().With("component", "tts.speaker"),
	}
}

// Say speaks text, choosing the quick or full path automatically.
func (s *Speaker) Say(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if IsQuickResponse(text) {
		s.SayQuick(ctx, text)
		return
	}
	s.sayFull(ctx, text)
}

// SayQuick speaks text through the local engine under the quick timeout.
// The cloud provider is never attempted on this path.
func (s *Speaker) SayQuick(ctx context.Context, text string) {
	if s.local == nil || !s.local.Available() {
		s.logger.Debug("no local engine, dropping quick response", "chars", len(text))
		return
	}

	qctx, cancel := context.WithTimeout(ctx, quickTimeout)
	defer cancel()

	if err := s.local.Synthesize(qctx, text); err != nil {
		s.logger.Warn("quick response failed", "error", err)
	}
}

// sayFull speaks text through the provider chain, which tries the cloud
// first and falls back to the local engine with the same text.
func (s *Speaker) sayFull(ctx context.Context, text string) {
	if s.full == nil || !s.full.Available() {
		s.logger.Error("no speech output available", "chars", len(text))
		return
	}
	if err := s.full.Synthesize(ctx, text); err != nil {
		s.logger.Error("synthesis failed", "error", err)
	}
}

// Close closes the underlying providers. The local engine is part of the
// chain, so the chain close covers it.
func (s *Speaker) Close() error {
	if s.full != nil {
		return s.full.Close()
	}
	if s.local != nil {
		return s.local.Close()
	}
	return nil
}
