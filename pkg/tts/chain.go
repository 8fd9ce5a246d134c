package tts

import (
	"context"
	"log/slog"
)

// Chain implements Provider by trying multiple providers in order.
// The first provider to finish playback wins; if all fail, returns an
// aggregate error.
type Chain struct {
	providers []Provider
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
		logger:    slog.Default().With("component", "tts.chain"),
	}, nil
}

// Synthesize tries each available provider until one speaks the text.
func (c *Chain) Synthesize(ctx context.Context, text string) error {
	var errs []error

	for i, p := range c.providers {
		if !p.Available() {
			c.logger.Debug("provider unavailable, skipping", "provider", p.Name())
			continue
		}

		err := p.Synthesize(ctx, text)
		if err == nil {
			if i > 0 {
				c.logger.Info("fallback provider succeeded",
					"provider", p.Name(),
					"chars", len(text),
				)
			}
			return nil
		}

		errs = append(errs, err)
		c.logger.Warn("provider failed, trying next",
			"provider", p.Name(),
			"error", err,
		)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	if len(errs) == 0 {
		return ErrNoProviders
	}
	return &ChainError{Errors: errs}
}

// Name returns the chain's name.
func (c *Chain) Name() string { return "chain" }

// Available reports whether any provider in the chain is available.
func (c *Chain) Available() bool {
	for _, p := range c.providers {
		if p.Available() {
			return true
		}
	}
	return false
}

// Close closes all providers.
func (c *Chain) Close() error {
	var lastErr error
	for _, p := range c.providers {
		if err := p.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Providers returns the list of providers in the chain.
func (c *Chain) Providers() []Provider {
	return c.providers
}

// Verify Chain implements Provider at compile time.
var _ Provider = (*Chain)(nil)
