// Package tts provides text-to-speech with a two-path output chain.
//
// Short canned acknowledgments ("yes sir", "one moment sir") take a quick
// path through the local engine with a hard timeout, so the assistant can
// acknowledge a command before the cloud round trip would even start.
// Everything else takes the full path: Azure neural synthesis first, local
// engine as fallback. Speech output never fails the conversation; a reply
// that cannot be spoken is logged and dropped.
//
// Example usage:
//
//	azure := tts.NewAzure(tts.WithKey(key), tts.WithRegion("westus"))
//	local := tts.NewLocal()
//	speaker := tts.NewSpeaker(azure, local)
//
//	speaker.Say(ctx, "Yes sir, how can I help you?")
package tts

import "context"

// Provider defines the TTS provider interface. Synthesize speaks the text
// synchronously and returns once playback finishes.
type Provider interface {
	// Synthesize converts text to speech and plays it to completion.
	Synthesize(ctx context.Context, text string) error

	// Name identifies the provider in logs and errors.
	Name() string

	// Available reports whether the provider can be attempted.
	Available() bool

	// Close releases any resources held by the provider.
	Close() error
}
