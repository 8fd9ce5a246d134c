package stt

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Microphone capture parameters. Frames are 20ms of mono PCM at 16kHz,
// which keeps VAD decisions responsive without burning CPU.
const (
	micSampleRate = 16000
	micFrameSize  = 320
	micFrameMs    = 20

	// calibrateDuration is how long ambient noise is sampled before the
	// energy threshold is set.
	calibrateDuration = 300 * time.Millisecond

	// minThreshold is the floor for the VAD energy threshold so a dead
	// quiet room does not trigger on breathing.
	minThreshold = 0.015

	// pauseDuration of sustained silence ends the phrase.
	pauseDuration = 800 * time.Millisecond

	// defaultOnsetTimeout bounds how long Record waits for speech to start.
	defaultOnsetTimeout = 8 * time.Second

	// maxPhraseDuration bounds a single captured phrase.
	maxPhraseDuration = 15 * time.Second
)

// Mic captures utterances from the default input device using an RMS energy
// gate. The ambient noise floor is measured at the start of every capture,
// so the threshold tracks the room rather than a fixed constant.
type Mic struct {
	onsetTimeout time.Duration
	logger       *slog.Logger
	initialized  bool
}

var _ Recorder = (*Mic)(nil)

// NewMic initializes the audio backend and returns a microphone recorder.
func NewMic() (*Mic, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize audio: %w", err)
	}
	return &Mic{
		onsetTimeout: defaultOnsetTimeout,
		logger:       slog.Default().With("component", "stt.mic"),
		initialized:  true,
	}, nil
}

// SetOnsetTimeout changes how long Record waits for speech to begin.
func (m *Mic) SetOnsetTimeout(d time.Duration) {
	if d > 0 {
		m.onsetTimeout = d
	}
}

// Close releases the audio backend.
func (m *Mic) Close() error {
	if !m.initialized {
		return nil
	}
	m.initialized = false
	return portaudio.Terminate()
}

// Record captures one phrase. It calibrates against ambient noise, waits for
// the energy to cross the threshold, then records until a sustained pause or
// the phrase length cap. Returns ErrNoSpeech if nothing starts in time.
func (m *Mic) Record(ctx context.Context) (Audio, error) {
	buf := make([]float32, micFrameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(micSampleRate), len(buf), buf)
	if err != nil {
		return Audio{}, fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return Audio{}, fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	threshold, err := m.calibrate(ctx, stream, buf)
	if err != nil {
		return Audio{}, err
	}

	// Wait for phrase onset.
	onsetFrames := int(m.onsetTimeout / (micFrameMs * time.Millisecond))
	started := false
	out := make([]float32, 0, micSampleRate*3)

	for i := 0; i < onsetFrames; i++ {
		if err := ctx.Err(); err != nil {
			return Audio{}, err
		}
		if err := stream.Read(); err != nil {
			return Audio{}, fmt.Errorf("read stream: %w", err)
		}
		if frameRMS(buf) > threshold {
			started = true
			out = append(out, buf...)
			break
		}
	}
	if !started {
		return Audio{}, ErrNoSpeech
	}

	// Record until a sustained pause or the phrase cap.
	pauseFrames := int(pauseDuration / (micFrameMs * time.Millisecond))
	maxFrames := int(maxPhraseDuration / (micFrameMs * time.Millisecond))
	silent := 0

	for i := 0; i < maxFrames; i++ {
		if err := ctx.Err(); err != nil {
			return Audio{}, err
		}
		if err := stream.Read(); err != nil {
			return Audio{}, fmt.Errorf("read stream: %w", err)
		}
		out = append(out, buf...)

		if frameRMS(buf) > threshold {
			silent = 0
		} else {
			silent++
			if silent >= pauseFrames {
				break
			}
		}
	}

	m.logger.Debug("captured phrase",
		"samples", len(out),
		"seconds", float64(len(out))/micSampleRate,
		"threshold", threshold)

	return Audio{Samples: toPCM16(out), SampleRate: micSampleRate}, nil
}

// calibrate samples ambient noise and returns the VAD energy threshold.
func (m *Mic) calibrate(ctx context.Context, stream *portaudio.Stream, buf []float32) (float64, error) {
	frames := int(calibrateDuration / (micFrameMs * time.Millisecond))
	var sum float64

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := stream.Read(); err != nil {
			return 0, fmt.Errorf("calibrate: %w", err)
		}
		sum += frameRMS(buf)
	}

	ambient := sum / float64(frames)
	threshold := ambient * 2.5
	if threshold < minThreshold {
		threshold = minThreshold
	}
	return threshold, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}

func toPCM16(f []float32) []int16 {
	out := make([]int16, len(f))
	for i, x := range f {
		v := x * 32767
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(v)
	}
	return out
}
