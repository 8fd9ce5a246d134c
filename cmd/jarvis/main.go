// Jarvis voice assistant. Listens for an activation word, then holds a
// spoken conversation until an exit phrase or thirty seconds of silence.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Brian-Mwirigi/Jarvis/internal/config"
	logpkg "github.com/Brian-Mwirigi/Jarvis/internal/log"
	"github.com/Brian-Mwirigi/Jarvis/pkg/assistant"
	"github.com/Brian-Mwirigi/Jarvis/pkg/dispatch"
	"github.com/Brian-Mwirigi/Jarvis/pkg/tts"
)

func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	timeout := flag.Duration("silence-timeout", dispatch.DefaultSilenceTimeout,
		"Return to idle after this much conversation silence")
	flag.Parse()

	cfg := config.Load()
	if *debug {
		cfg.LogLevel = "debug"
	}
	logpkg.Init(cfg.LogLevel)

	a, err := assistant.New(cfg, nil)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.Close()

	a.EnableSpeech()

	// Spoken reminders: the scheduler fires on its own goroutine, so give
	// each announcement its own deadline.
	a.Reminders.SetNotify(func(text string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		a.Speaker.Say(ctx, text)
	})
	a.Reminders.SetChime(func() {
		if err := tts.Chime(); err != nil {
			log.Printf("reminder chime: %v", err)
		}
	})

	listener, chain, err := a.Listen()
	if err != nil {
		log.Fatalf("speech capture unavailable: %v", err)
	}
	defer listener.Close()
	defer chain.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	session := dispatch.NewVoiceSession(
		listener,
		a.Speaker,
		a.Dispatcher(dispatch.ModeVoice),
		dispatch.NewConversation(*timeout),
	)
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("voice session failed: %v", err)
	}
}
