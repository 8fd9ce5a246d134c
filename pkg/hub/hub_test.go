package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// addClient registers a bare client with the given buffer size, bypassing
// the websocket layer.
func addClient(t *testing.T, h *Hub, buffer int) *Client {
	t.Helper()
	c := &Client{hub: h, send: make(chan []byte, buffer)}
	h.register <- c
	waitFor(t, func() bool { return h.ClientCount() > 0 })
	return c
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test")
	go h.Run(ctx)

	c := addClient(t, h, 4)
	h.Broadcast([]byte(`{"hello":"world"}`))

	select {
	case msg := <-c.send:
		if string(msg) != `{"hello":"world"}` {
			t.Errorf("received %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message never arrived")
	}
}

func TestHubBroadcastJSON(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test")
	go h.Run(ctx)

	c := addClient(t, h, 4)
	if err := h.BroadcastJSON(NewTurnEvent("text", "hello", "hi there")); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-c.send:
		var ev TurnEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatal(err)
		}
		if ev.Type != EventTurn || ev.User != "hello" || ev.Response != "hi there" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never arrived")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test")
	go h.Run(ctx)

	// Buffer of one, never drained: the second broadcast finds it full.
	addClient(t, h, 1)
	h.Broadcast([]byte("one"))
	h.Broadcast([]byte("two"))

	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

func TestHubUnregister(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test")
	go h.Run(ctx)

	c := addClient(t, h, 4)
	h.unregister <- c
	waitFor(t, func() bool { return h.ClientCount() == 0 })

	// Channel closed by the hub.
	if _, ok := <-c.send; ok {
		t.Error("send channel still open after unregister")
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	h := New("test")
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := addClient(t, h, 4)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return on cancel")
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel still open after shutdown")
	}
}
