// Package stt provides a unified interface for speech-to-text providers.
//
// The package supports multiple STT backends tried in strict priority order:
// Azure Cognitive Services (cloud, subscription key), the Google web speech
// endpoint (cloud, keyless), and a local whisper.cpp model (offline, loaded
// lazily on first use). All providers implement the Provider interface, and
// Chain composes them into a fallback chain with a testable contract.
//
// Example usage:
//
//	azure := stt.NewAzure(stt.WithKey(key), stt.WithRegion("westus"))
//	google := stt.NewGoogle()
//	chain, _ := stt.NewChain(azure, google)
//	chain.SetFallback(stt.NewWhisper("models/ggml-base.bin"))
//
//	text, err := chain.Transcribe(ctx, audio, true)
package stt

import (
	"context"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Provider defines the STT provider interface.
// All implementations must satisfy this interface for seamless switching.
type Provider interface {
	// Transcribe converts one captured utterance to text.
	// Returns ErrNoMatch when the audio contained no recognizable speech.
	Transcribe(ctx context.Context, audio Audio) (string, error)

	// Name identifies the provider in logs and errors.
	Name() string

	// Available reports whether the provider can be attempted at all.
	// Computed from configuration at construction, not re-checked per call.
	Available() bool

	// Close releases any resources held by the provider.
	Close() error
}

// Audio is one captured utterance: mono PCM16 samples at a fixed rate.
type Audio struct {
	// Samples are signed 16-bit mono PCM samples.
	Samples []int16

	// SampleRate in Hz (typically 16000).
	SampleRate int
}

// Empty reports whether the capture contains no samples.
func (a Audio) Empty() bool {
	return len(a.Samples) == 0
}

// WriteTempWAV writes the audio to a temporary WAV file for providers that
// need RIFF-framed input rather than bare PCM. The returned cleanup func
// removes the file and must be called before the provider returns, on
// success and failure alike.
func (a Audio) WriteTempWAV() (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "jarvis-*.wav")
	if err != nil {
		return "", nil, err
	}
	path = f.Name()
	cleanup = func() { os.Remove(path) }

	enc := wav.NewEncoder(f, a.SampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: a.SampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(a.Samples)),
	}
	for i, s := range a.Samples {
		buf.Data[i] = int(s)
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		cleanup()
		return "", nil, err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

// Float32 converts the samples to float32 in [-1, 1] for inference backends
// that consume normalized PCM.
func (a Audio) Float32() []float32 {
	out := make([]float32, len(a.Samples))
	for i, s := range a.Samples {
		out[i] = float32(s) / 32768.0
	}
	return out
}
