package stt

import (
	"context"
	"errors"
	"testing"
)

func testAudio() Audio {
	return Audio{Samples: make([]int16, 1600), SampleRate: 16000}
}

func TestNewChainRequiresProviders(t *testing.T) {
	_, err := NewChain()
	if !errors.Is(err, ErrNoProviders) {
		t.Errorf("NewChain() error = %v, want ErrNoProviders", err)
	}
}

func TestChainFirstProviderWins(t *testing.T) {
	primary := NewMock("hello world")
	secondary := NewMock("should not be used")

	chain, err := NewChain(primary, secondary)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	text, err := chain.Transcribe(context.Background(), testAudio(), false)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "hello world" {
		t.Errorf("Transcribe() = %q, want %q", text, "hello world")
	}
	if secondary.TranscribeCalls() != 0 {
		t.Errorf("secondary called %d times, want 0", secondary.TranscribeCalls())
	}
}

func TestChainFallsThroughOnFailure(t *testing.T) {
	primary := NewMockError("primary", errors.New("service down"))
	secondary := NewMock("hello")

	chain, err := NewChain(primary, secondary)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	text, err := chain.Transcribe(context.Background(), testAudio(), false)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "hello" {
		t.Errorf("Transcribe() = %q, want %q", text, "hello")
	}
}

func TestChainFallsThroughOnNoMatch(t *testing.T) {
	primary := NewMockError("primary", WrapError("primary", ErrNoMatch))
	secondary := NewMock("recognized by secondary")

	chain, err := NewChain(primary, secondary)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	text, err := chain.Transcribe(context.Background(), testAudio(), false)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "recognized by secondary" {
		t.Errorf("Transcribe() = %q, want %q", text, "recognized by secondary")
	}
}

func TestChainSkipsUnavailableProviders(t *testing.T) {
	primary := NewMock("never")
	primary.AvailableValue = false
	secondary := NewMock("from secondary")

	chain, err := NewChain(primary, secondary)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	text, err := chain.Transcribe(context.Background(), testAudio(), false)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "from secondary" {
		t.Errorf("Transcribe() = %q, want %q", text, "from secondary")
	}
	if primary.TranscribeCalls() != 0 {
		t.Errorf("unavailable provider called %d times, want 0", primary.TranscribeCalls())
	}
}

func TestChainSurfacesSecondaryError(t *testing.T) {
	primaryErr := errors.New("primary exploded")
	secondaryErr := errors.New("secondary exploded")

	chain, err := NewChain(
		NewMockError("primary", primaryErr),
		NewMockError("secondary", secondaryErr),
	)
	if err != nil {
		t.Fatalf("NewChain() error = %v", err)
	}

	_, err = chain.Transcribe(context.Background(), testAudio(), false)
	if err == nil {
		t.Fatal("Transcribe() error = nil, want failure")
	}

	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("Transcribe() error type = %T, want *ChainError", err)
	}
	if len(chainErr.Errors) != 2 {
		t.Fatalf("ChainError has %d errors, want 2", len(chainErr.Errors))
	}
	// Unwrap exposes the last cloud provider's failure for classification.
	if !errors.Is(err, secondaryErr) {
		t.Errorf("errors.Is(err, secondaryErr) = false, want true")
	}
}

func TestChainLocalFallback(t *testing.T) {
	cloudErr := errors.New("network unreachable")

	t.Run("succeeds when allowed", func(t *testing.T) {
		chain, _ := NewChain(NewMockError("cloud", cloudErr))
		chain.SetFallback(NewMock("offline text"))

		text, err := chain.Transcribe(context.Background(), testAudio(), true)
		if err != nil {
			t.Fatalf("Transcribe() error = %v", err)
		}
		if text != "offline text" {
			t.Errorf("Transcribe() = %q, want %q", text, "offline text")
		}
	})

	t.Run("skipped when not allowed", func(t *testing.T) {
		chain, _ := NewChain(NewMockError("cloud", cloudErr))
		local := NewMock("offline text")
		chain.SetFallback(local)

		_, err := chain.Transcribe(context.Background(), testAudio(), false)
		if err == nil {
			t.Fatal("Transcribe() error = nil, want cloud failure")
		}
		if local.TranscribeCalls() != 0 {
			t.Errorf("fallback called %d times, want 0", local.TranscribeCalls())
		}
	})

	t.Run("skipped when unavailable", func(t *testing.T) {
		chain, _ := NewChain(NewMockError("cloud", cloudErr))
		local := NewMock("offline text")
		local.AvailableValue = false
		chain.SetFallback(local)

		_, err := chain.Transcribe(context.Background(), testAudio(), true)
		if err == nil {
			t.Fatal("Transcribe() error = nil, want cloud failure")
		}
		if local.TranscribeCalls() != 0 {
			t.Errorf("fallback called %d times, want 0", local.TranscribeCalls())
		}
	})

	t.Run("failure does not mask cloud error", func(t *testing.T) {
		chain, _ := NewChain(NewMockError("cloud", cloudErr))
		chain.SetFallback(NewMockError("whisper", errors.New("model corrupt")))

		_, err := chain.Transcribe(context.Background(), testAudio(), true)
		if err == nil {
			t.Fatal("Transcribe() error = nil, want cloud failure")
		}
		if !errors.Is(err, cloudErr) {
			t.Errorf("errors.Is(err, cloudErr) = false, want true")
		}
	})
}

func TestChainContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	primary := &Mock{
		NameValue:      "primary",
		AvailableValue: true,
		TranscribeFunc: func(context.Context, Audio) (string, error) {
			cancel()
			return "", errors.New("interrupted")
		},
	}
	secondary := NewMock("should not run")

	chain, _ := NewChain(primary, secondary)

	_, err := chain.Transcribe(ctx, testAudio(), false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Transcribe() error = %v, want context.Canceled", err)
	}
	if secondary.TranscribeCalls() != 0 {
		t.Errorf("secondary called after cancellation")
	}
}

func TestChainClose(t *testing.T) {
	primary := NewMock("a")
	secondary := NewMock("b")
	local := NewMock("c")

	chain, _ := NewChain(primary, secondary)
	chain.SetFallback(local)

	if err := chain.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	for _, m := range []*Mock{primary, secondary, local} {
		if !m.Closed() {
			t.Errorf("provider %s not closed", m.Name())
		}
	}
}
