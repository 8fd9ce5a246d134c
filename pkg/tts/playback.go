package tts

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// The speaker is initialized once, at the rate of whatever plays first;
// later streams at other rates are resampled to match.
var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

func initSpeaker(rate beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(rate, rate.N(time.Second/10))
		if speakerErr == nil {
			speakerRate = rate
		}
	})
	return speakerErr
}

// playMP3 decodes MP3 audio and plays it to completion on the default
// output device.
func playMP3(ctx context.Context, r io.Reader) error {
	streamer, format, err := mp3.Decode(io.NopCloser(r))
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()

	if err := initSpeaker(format.SampleRate); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	var stream beep.Streamer = streamer
	if format.SampleRate != speakerRate {
		stream = beep.Resample(4, format.SampleRate, speakerRate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// chimeRate is used when the chime is the first thing to touch the speaker.
const chimeRate = beep.SampleRate(44100)

// toneDuration is the length of each note of the chime.
const toneDuration = 150 * time.Millisecond

// Chime plays a short rising two-tone notification sound, used when a
// reminder fires. Blocks until the chime finishes.
func Chime() error {
	if err := initSpeaker(chimeRate); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	low, err := generators.SinTone(speakerRate, 880)
	if err != nil {
		return fmt.Errorf("generate tone: %w", err)
	}
	high, err := generators.SinTone(speakerRate, 1175)
	if err != nil {
		return fmt.Errorf("generate tone: %w", err)
	}

	n := speakerRate.N(toneDuration)
	done := make(chan struct{})
	speaker.Play(beep.Seq(
		beep.Take(n, low),
		beep.Take(n, high),
		beep.Callback(func() { close(done) }),
	))

	select {
	case <-done:
		return nil
	case <-time.After(time.Second):
		speaker.Clear()
		return nil
	}
}
