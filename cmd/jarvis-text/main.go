// Jarvis text front end: the same assistant as the voice binary, driven
// from a terminal read-print loop. Useful over SSH and when debugging
// tool behavior without a microphone.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Brian-Mwirigi/Jarvis/internal/config"
	logpkg "github.com/Brian-Mwirigi/Jarvis/internal/log"
	"github.com/Brian-Mwirigi/Jarvis/pkg/assistant"
	"github.com/Brian-Mwirigi/Jarvis/pkg/dispatch"
)

func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d := a.Dispatcher(dispatch.ModeText)
	if err := dispatch.RunText(ctx, d, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("session failed: %v", err)
	}
}
