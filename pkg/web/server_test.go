package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/Brian-Mwirigi/Jarvis/pkg/dispatch"
)

type stubResponder struct {
	turn dispatch.Turn
	last string
}

func (r *stubResponder) HandleUtterance(ctx context.Context, text string) dispatch.Turn {
	r.last = text
	return r.turn
}

func newTestServer(turn dispatch.Turn) (*Server, *stubResponder) {
	responder := &stubResponder{turn: turn}
	s := NewServer(Config{
		Addr:      ":0",
		Responder: responder,
	})
	return s, responder
}

func TestHandleStatus(t *testing.T) {
	s, _ := newTestServer(dispatch.Turn{})

	resp, err := s.app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" {
		t.Errorf("status field = %q", body.Status)
	}
	if body.VoiceState != "" {
		t.Errorf("voice state = %q without a voice session", body.VoiceState)
	}
}

func TestHandleStatusWithVoiceSession(t *testing.T) {
	responder := &stubResponder{}
	conv := dispatch.NewConversation(0)
	conv.Activate()
	s := NewServer(Config{
		Addr:         ":0",
		Responder:    responder,
		Conversation: conv,
	})

	resp, err := s.app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.VoiceState != "active" {
		t.Errorf("voice state = %q, want active", body.VoiceState)
	}
}

func TestHandleChat(t *testing.T) {
	s, responder := newTestServer(dispatch.Turn{
		Response: "Paris is the capital of France.",
		Action:   dispatch.ActionContinue,
	})

	payload := bytes.NewBufferString(`{"message": "what is the capital of France"}`)
	req := httptest.NewRequest("POST", "/chat", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Response != "Paris is the capital of France." {
		t.Errorf("response = %q", body.Response)
	}
	if body.Action != "continue" {
		t.Errorf("action = %q", body.Action)
	}
	if responder.last != "what is the capital of France" {
		t.Errorf("responder got %q", responder.last)
	}
}

func TestHandleChatExit(t *testing.T) {
	s, _ := newTestServer(dispatch.Turn{
		Response: dispatch.Farewell,
		Action:   dispatch.ActionExit,
	})

	payload := bytes.NewBufferString(`{"message": "goodbye"}`)
	req := httptest.NewRequest("POST", "/chat", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Action != "exit" {
		t.Errorf("action = %q, want exit", body.Action)
	}
}

func TestHandleChatValidation(t *testing.T) {
	s, responder := newTestServer(dispatch.Turn{Response: "unused"})

	cases := []struct {
		name string
		body string
	}{
		{"empty message", `{"message": "  "}`},
		{"missing message", `{}`},
		{"bad json", `{not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/chat", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := s.app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != 400 {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
	if responder.last != "" {
		t.Errorf("responder was called with %q", responder.last)
	}
}

func TestHandleConversation(t *testing.T) {
	s, _ := newTestServer(dispatch.Turn{})
	s.RecordTurn("text", "hello there", "hi")

	resp, err := s.app.Test(httptest.NewRequest("GET", "/conversation", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Role != "user" || entries[0].Message != "hello there" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Role != "assistant" || entries[1].Message != "hi" {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestConversationBufferCapped(t *testing.T) {
	s, _ := newTestServer(dispatch.Turn{})
	for i := 0; i < 100; i++ {
		s.RecordTurn("text", "question", "answer")
	}
	if got := len(s.snapshot()); got != conversationCap {
		t.Errorf("buffer length = %d, want %d", got, conversationCap)
	}
}
