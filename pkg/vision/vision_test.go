package vision

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("path = %s, want /analyze", r.URL.Path)
		}
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Question != "what is on the desk" {
			t.Errorf("question = %q", req.Question)
		}
		json.NewEncoder(w).Encode(analyzeResponse{Answer: "A laptop and a coffee mug."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	answer, err := c.Analyze(context.Background(), "what is on the desk")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if answer != "A laptop and a coffee mug." {
		t.Errorf("Analyze() = %q", answer)
	}
}

func TestClientAnalyzeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(analyzeResponse{Error: "camera not available"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Analyze(context.Background(), "what do you see")
	if err == nil || !strings.Contains(err.Error(), "camera not available") {
		t.Errorf("Analyze() error = %v, want camera error", err)
	}
}

func TestClientNotConfigured(t *testing.T) {
	c := NewClient("")
	if c.Available() {
		t.Error("Available() = true for empty URL")
	}
	if _, err := c.Analyze(context.Background(), "anything"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Analyze() error = %v, want ErrNotConfigured", err)
	}
}

func TestClientEmptyQuestion(t *testing.T) {
	c := NewClient("http://localhost:9999")
	if _, err := c.Analyze(context.Background(), "  "); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("Analyze() error = %v, want ErrEmptyQuestion", err)
	}
}
