package stt

import (
	"context"
	"log/slog"
)

// Chain tries multiple cloud providers in priority order, then an optional
// local fallback. The first successful transcription wins.
//
// Failure semantics are deliberate: when every provider fails, the error
// surfaced to the caller is the aggregate of the cloud providers only. The
// local fallback is best effort, so its failure never masks the cloud error
// that callers classify for connectivity handling.
type Chain struct {
	providers []Provider
	fallback  Provider
	logger    *slog.Logger
}

// NewChain creates a provider chain that tries providers in order.
// At least one provider is required.
func NewChain(providers ...Provider) (*Chain, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	return &Chain{
		providers: providers,
		logger:    slog.Default().With("component", "stt.chain"),
	}, nil
}

// NewChainWithLogger creates a provider chain with a custom logger.
func NewChainWithLogger(logger *slog.Logger, providers ...Provider) (*Chain, error) {
	chain, err := NewChain(providers...)
	if err != nil {
		return nil, err
	}
	chain.logger = logger.With("component", "stt.chain")
	return chain, nil
}

// SetFallback installs a local offline provider tried only when every cloud
// provider has failed and the caller allows local inference.
func (c *Chain) SetFallback(p Provider) {
	c.fallback = p
}

// Transcribe tries each provider until one succeeds.
//
// Providers that report themselves unavailable are skipped without recording
// an error. A provider returning ErrNoMatch counts as a failure for the
// chain's purposes but still falls through to the next provider, since a
// different backend may recognize the same audio. allowLocal gates the
// offline fallback; voice capture allows it, but latency-sensitive callers
// may not.
func (c *Chain) Transcribe(ctx context.Context, audio Audio, allowLocal bool) (string, error) {
	var errs []error

	for i, p := range c.providers {
		if !p.Available() {
			c.logger.Debug("provider unavailable, skipping", "provider", p.Name())
			continue
		}

		text, err := p.Transcribe(ctx, audio)
		if err == nil {
			if i > 0 {
				c.logger.Info("fallback provider succeeded",
					"provider", p.Name(),
					"chars", len(text),
				)
			}
			return text, nil
		}

		errs = append(errs, err)
		c.logger.Warn("provider failed, trying next",
			"provider", p.Name(),
			"error", err,
		)

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	if allowLocal && c.fallback != nil && c.fallback.Available() {
		text, err := c.fallback.Transcribe(ctx, audio)
		if err == nil {
			c.logger.Info("local fallback succeeded",
				"provider", c.fallback.Name(),
				"chars", len(text),
			)
			return text, nil
		}
		// Best effort only: the cloud providers' error is what callers
		// classify, so the local failure is logged and dropped.
		c.logger.Warn("local fallback failed",
			"provider", c.fallback.Name(),
			"error", err,
		)
	}

	if len(errs) == 0 {
		return "", ErrNoProviders
	}
	return "", &ChainError{Errors: errs}
}

// Close closes all providers, including the fallback.
func (c *Chain) Close() error {
	var lastErr error
	for _, p := range c.providers {
		if err := p.Close(); err != nil {
			lastErr = err
		}
	}
	if c.fallback != nil {
		if err := c.fallback.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Providers returns the cloud providers in the chain.
func (c *Chain) Providers() []Provider {
	return c.providers
}
