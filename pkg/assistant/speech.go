package assistant

import (
	"fmt"

	"github.com/Brian-Mwirigi/Jarvis/pkg/stt"
)

// Listen opens the microphone and builds the layered transcription chain:
// Azure when a key is configured, the keyless Google endpoint as the cloud
// fallback, and local whisper as the offline fallback when a model is on
// disk. The caller owns the returned listener and chain.
func (a *Assistant) Listen() (*stt.Listener, *stt.Chain, error) {
	var providers []stt.Provider
	if a.Config.HasAzureSpeech() {
		providers = append(providers, stt.NewAzure(
			stt.WithKey(a.Config.AzureSpeechKey),
			stt.WithRegion(a.Config.AzureRegion),
		))
	}
	providers = append(providers, stt.NewGoogle())

	chain, err := stt.NewChain(providers...)
	if err != nil {
		return nil, nil, fmt.Errorf("building transcription chain: %w", err)
	}

	allowLocal := a.Config.HasWhisper()
	if allowLocal {
		chain.SetFallback(stt.NewWhisper(a.Config.WhisperModel))
	}

	mic, err := stt.NewMic()
	if err != nil {
		chain.Close()
		return nil, nil, fmt.Errorf("opening microphone: %w", err)
	}

	return stt.NewListener(mic, chain, allowLocal), chain, nil
}
