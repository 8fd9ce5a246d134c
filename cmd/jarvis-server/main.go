// Jarvis HTTP server: exposes the assistant to other devices on the
// network. POST /chat carries typed messages; /ws/conversation streams
// turn events to dashboards.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/Brian-Mwirigi/Jarvis/internal/config"
	logpkg "github.com/Brian-Mwirigi/Jarvis/internal/log"
	"github.com/Brian-Mwirigi/Jarvis/pkg/assistant"
	"github.com/Brian-Mwirigi/Jarvis/pkg/dispatch"
	"github.com/Brian-Mwirigi/Jarvis/pkg/web"
)

func main() {
	addr := flag.String("addr", ":8090", "Listen address")
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

	server := web.NewServer(web.Config{
		Addr:      *addr,
		Responder: a.Dispatcher(dispatch.ModeText),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- server.Start() }()

	select {
	case err := <-errc:
		if err != nil {
			log.Fatalf("server failed: %v", err)
		}
	case <-ctx.Done():
		if err := server.Shutdown(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
