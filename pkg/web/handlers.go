package web

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/Brian-Mwirigi/Jarvis/pkg/dispatch"
	"github.com/Brian-Mwirigi/Jarvis/pkg/hub"
)

// statusResponse is the GET / payload.
type statusResponse struct {
	Status     string `json:"status"`
	UptimeSecs int64  `json:"uptime_seconds"`
	Clients    int    `json:"ws_clients"`
	VoiceState string `json:"voice_state,omitempty"`
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	resp := statusResponse{
		Status:     "ok",
		UptimeSecs: int64(time.Since(s.started).Seconds()),
		Clients:    s.convHub.ClientCount(),
	}
	if s.cfg.Conversation != nil {
		resp.VoiceState = s.cfg.Conversation.State().String()
	}
	return c.JSON(resp)
}

// chatRequest is the POST /chat body.
type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse is the POST /chat reply.
type chatResponse struct {
	Response string `json:"response"`
	Action   string `json:"action"`
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}

	s.chatMu.Lock()
	turn := s.cfg.Responder.HandleUtterance(c.Context(), message)
	s.chatMu.Unlock()
	s.RecordTurn("web", message, turn.Response)

	action := "continue"
	if turn.Action == dispatch.ActionExit {
		action = "exit"
	}
	return c.JSON(chatResponse{Response: turn.Response, Action: action})
}

func (s *Server) handleConversation(c *fiber.Ctx) error {
	return c.JSON(s.snapshot())
}

// handleConversationWS streams turn events. Recent history is sent first so
// a dashboard opens with context.
func (s *Server) handleConversationWS(c *websocket.Conn) {
	for _, entry := range s.snapshot() {
		if err := c.WriteJSON(entry); err != nil {
			c.Close()
			return
		}
	}

	client := hub.NewClient(s.convHub, c)
	client.Run()
}
