package inference

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func completionBody(content string) string {
	resp := map[string]interface{}{
		"id":    "chatcmpl-1",
		"model": "phi",
		"choices": []map[string]interface{}{{
			"message":       map[string]interface{}{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestClientChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["model"] != "phi" {
			t.Errorf("model = %v, want phi", payload["model"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("Hello there.")))
	}))
	defer srv.Close()

	client, err := NewClient(WithBaseURL(srv.URL), WithModel("phi"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	resp, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Message.Content != "Hello there." {
		t.Errorf("content = %q, want %q", resp.Message.Content, "Hello there.")
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("total tokens = %d, want 15", resp.Usage.TotalTokens)
	}
}

func TestClientVision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []struct {
				Content []map[string]interface{} `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if len(payload.Messages) != 1 || len(payload.Messages[0].Content) != 2 {
			t.Fatalf("content parts = %+v, want text plus image", payload.Messages)
		}
		imageURL, _ := payload.Messages[0].Content[1]["image_url"].(map[string]interface{})
		url, _ := imageURL["url"].(string)
		if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
			t.Errorf("image url = %.40q, want base64 jpeg data url", url)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("A laptop on a desk.")))
	}))
	defer srv.Close()

	client, err := NewClient(WithBaseURL(srv.URL), WithModel("phi"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	resp, err := client.Vision(context.Background(), &VisionRequest{
		Image:  image.NewRGBA(image.Rect(0, 0, 2, 2)),
		Prompt: "what do you see",
	})
	if err != nil {
		t.Fatalf("Vision() error = %v", err)
	}
	if resp.Content != "A laptop on a desk." {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestClientChatToolCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		if _, ok := payload["tools"]; !ok {
			t.Error("payload missing tools")
		}
		resp := map[string]interface{}{
			"model": "phi",
			"choices": []map[string]interface{}{{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": "",
					"tool_calls": []map[string]interface{}{{
						"id":   "call_1",
						"type": "function",
						"function": map[string]string{
							"name":      "get_time",
							"arguments": `{"city":"Nairobi"}`,
						},
					}},
				},
				"finish_reason": "tool_calls",
			}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, _ := NewClient(WithBaseURL(srv.URL))
	defer client.Close()

	resp, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("what time is it in Nairobi?")},
		Tools:    []Tool{NewTool("get_time", "Get the current time", nil)},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if len(resp.Message.ToolCalls) != 1 {
		t.Fatalf("tool calls = %d, want 1", len(resp.Message.ToolCalls))
	}
	tc := resp.Message.ToolCalls[0]
	if tc.Name != "get_time" || tc.ID != "call_1" {
		t.Errorf("tool call = %+v", tc)
	}
}

func TestClientChatRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "temporarily overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionBody("recovered")))
	}))
	defer srv.Close()

	client, _ := NewClient(
		WithBaseURL(srv.URL),
		WithRetry(2, time.Millisecond),
	)
	defer client.Close()

	resp, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if resp.Message.Content != "recovered" {
		t.Errorf("content = %q, want recovered", resp.Message.Content)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestClientChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"message":"model not found","code":"model_not_found"}}`))
	}))
	defer srv.Close()

	client, _ := NewClient(WithBaseURL(srv.URL))
	defer client.Close()

	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("hi")},
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if !apiErr.IsNotFound() {
		t.Errorf("IsNotFound() = false, want true")
	}
	if apiErr.Message != "model not found" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("path = %s, want /models", r.URL.Path)
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client, _ := NewClient(WithBaseURL(srv.URL))
	defer client.Close()

	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestClientProbe(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// A 404 still proves the host is up.
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client, _ := NewClient(WithBaseURL(srv.URL))
		defer client.Close()

		if err := client.Probe(context.Background()); err != nil {
			t.Errorf("Probe() error = %v, want nil", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listening anymore

		client, _ := NewClient(WithBaseURL(srv.URL))
		defer client.Close()

		if err := client.Probe(context.Background()); err == nil {
			t.Error("Probe() error = nil, want transport failure")
		}
	})

	t.Run("bounded by probe timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer func() {
			close(release)
			srv.Close()
		}()

		client, _ := NewClient(
			WithBaseURL(srv.URL),
			WithProbeTimeout(50*time.Millisecond),
		)
		defer client.Close()

		start := time.Now()
		err := client.Probe(context.Background())
		if err == nil {
			t.Error("Probe() error = nil, want timeout")
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("probe took %v, want well under a second", elapsed)
		}
	})
}
