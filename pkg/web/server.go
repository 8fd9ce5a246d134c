// Package web exposes the assistant over HTTP: a status endpoint, a chat
// endpoint for typed messages, and a websocket stream of conversation
// events for dashboards.
package web

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/Brian-Mwirigi/Jarvis/pkg/dispatch"
	"github.com/Brian-Mwirigi/Jarvis/pkg/hub"
)

// Responder handles one utterance. *dispatch.Dispatcher satisfies it.
type Responder interface {
	HandleUtterance(ctx context.Context, text string) dispatch.Turn
}

// conversationCap bounds the in-memory conversation buffer.
const conversationCap = 100

// Entry is one message in the conversation buffer.
type Entry struct {
	Time    string `json:"time"`
	Role    string `json:"role"` // user or assistant
	Message string `json:"message"`
}

// Config wires a server.
type Config struct {
	Addr      string
	Responder Responder

	// Conversation reports the voice session state on /; nil means no
	// voice session is running.
	Conversation *dispatch.Conversation
}

// Server is the HTTP surface of the assistant.
type Server struct {
	app    *fiber.App
	cfg    Config
	logger *slog.Logger

	started time.Time

	// chatMu serializes chat turns: the dispatcher owns a single rolling
	// conversation history.
	chatMu sync.Mutex

	entriesMu sync.RWMutex
	entries   []Entry

	convHub *hub.Hub
	hubStop context.CancelFunc
}

// NewServer builds the fiber app and routes.
func NewServer(cfg Config) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  slog.Default().With("component", "web"),
		started: time.Now(),
		entries: make([]Entry, 0, conversationCap),
		convHub: hub.New("conversation"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Jarvis",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	app.Get("/", s.handleStatus)
	app.Get("/status", s.handleStatus)
	app.Post("/chat", s.handleChat)
	app.Get("/conversation", s.handleConversation)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/conversation", websocket.New(s.handleConversationWS))

	if cfg.Conversation != nil {
		cfg.Conversation.OnChange(s.recordState)
	}

	s.app = app
	return s
}

// recordState broadcasts a voice state transition to websocket clients.
func (s *Server) recordState(state dispatch.State) {
	if err := s.convHub.BroadcastJSON(hub.NewStateEvent(state.String())); err != nil {
		s.logger.Warn("broadcast failed", "error", err)
	}
}

// Start runs the hub and listens. It blocks until Shutdown.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.hubStop = cancel
	go s.convHub.Run(ctx)

	s.logger.Info("listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown stops the listener and closes websocket clients.
func (s *Server) Shutdown() error {
	if s.hubStop != nil {
		s.hubStop()
	}
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

// RecordTurn appends a completed exchange to the conversation buffer and
// broadcasts it to websocket clients. The voice session calls this too, so
// dashboards see spoken turns alongside web chat.
func (s *Server) RecordTurn(source, user, response string) {
	now := time.Now().Format("15:04:05")

	s.entriesMu.Lock()
	s.entries = append(s.entries,
		Entry{Time: now, Role: "user", Message: user},
		Entry{Time: now, Role: "assistant", Message: response})
	if len(s.entries) > conversationCap {
		s.entries = s.entries[len(s.entries)-conversationCap:]
	}
	s.entriesMu.Unlock()

	if err := s.convHub.BroadcastJSON(hub.NewTurnEvent(source, user, response)); err != nil {
		s.logger.Warn("broadcast failed", "error", err)
	}
}

// snapshot copies the conversation buffer.
func (s *Server) snapshot() []Entry {
	s.entriesMu.RLock()
	defer s.entriesMu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
