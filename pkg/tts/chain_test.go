package tts

import (
	"context"
	"errors"
	"testing"
)

func TestNewChainRequiresProviders(t *testing.T) {
	_, err := NewChain()
	if !errors.Is(err, ErrNoProviders) {
		t.Errorf("NewChain() error = %v, want ErrNoProviders", err)
	}
}

func TestChainFirstProviderWins(t *testing.T) {
	first := NewMock()
	second := NewMock()

	chain, err := NewChain(first, second)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	if err := chain.Synthesize(context.Background(), "hello"); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if n := len(second.Spoken()); n != 0 {
		t.Errorf("second provider spoke %d times, want 0", n)
	}
}

func TestChainFallsThrough(t *testing.T) {
	first := NewMockError("first", errors.New("boom"))
	second := NewMock()

	chain, _ := NewChain(first, second)

	if err := chain.Synthesize(context.Background(), "hello"); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if n := len(second.Spoken()); n != 1 {
		t.Errorf("second provider spoke %d times, want 1", n)
	}
}

func TestChainAggregatesErrors(t *testing.T) {
	firstErr := errors.New("first failed")
	secondErr := errors.New("second failed")

	chain, _ := NewChain(
		NewMockError("first", firstErr),
		NewMockError("second", secondErr),
	)

	err := chain.Synthesize(context.Background(), "hello")
	if err == nil {
		t.Fatal("Synthesize() error = nil, want failure")
	}

	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("Synthesize() error type = %T, want *ChainError", err)
	}
	if len(chainErr.Errors) != 2 {
		t.Errorf("ChainError has %d errors, want 2", len(chainErr.Errors))
	}
	if !errors.Is(err, secondErr) {
		t.Errorf("errors.Is(err, secondErr) = false, want true")
	}
}

func TestChainAvailable(t *testing.T) {
	first := NewMock()
	first.AvailableValue = false
	second := NewMock()

	chain, _ := NewChain(first, second)
	if !chain.Available() {
		t.Error("Available() = false, want true")
	}

	second.AvailableValue = false
	if chain.Available() {
		t.Error("Available() = true, want false")
	}
}
