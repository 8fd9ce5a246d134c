package dispatch

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Brian-Mwirigi/Jarvis/pkg/agent"
	"github.com/Brian-Mwirigi/Jarvis/pkg/inference"
	"github.com/Brian-Mwirigi/Jarvis/pkg/tools"
)

func newTextDispatcher(client agent.ChatClient) *Dispatcher {
	registry := tools.NewRegistry()
	return New(Config{
		Executor: agent.New(client, registry, agent.TextLimits()),
		Prober:   probeOK,
		Registry: registry,
		Mode:     ModeText,
	})
}

func TestRunText(t *testing.T) {
	client := inference.NewMock("Paris is the capital of France.")
	d := newTextDispatcher(client)

	in := strings.NewReader("what is the capital of France\nexit\n")
	var out bytes.Buffer

	if err := RunText(context.Background(), d, in, &out); err != nil {
		t.Fatalf("RunText returned %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Jarvis: Paris is the capital of France.") {
		t.Errorf("output missing reply:\n%s", got)
	}
	if !strings.Contains(got, "Jarvis: "+Farewell) {
		t.Errorf("output missing farewell:\n%s", got)
	}
	if client.ChatCalls() != 1 {
		t.Errorf("chat calls = %d, want 1", client.ChatCalls())
	}
}

func TestRunTextSkipsBlankLines(t *testing.T) {
	client := inference.NewMock("ok then")
	d := newTextDispatcher(client)

	in := strings.NewReader("\n   \nbye\n")
	var out bytes.Buffer

	if err := RunText(context.Background(), d, in, &out); err != nil {
		t.Fatalf("RunText returned %v", err)
	}
	if client.ChatCalls() != 0 {
		t.Errorf("blank lines reached the model %d times", client.ChatCalls())
	}
}

func TestRunTextStopsAtEOF(t *testing.T) {
	d := newTextDispatcher(inference.NewMock("unused"))

	var out bytes.Buffer
	if err := RunText(context.Background(), d, strings.NewReader(""), &out); err != nil {
		t.Fatalf("RunText returned %v at EOF", err)
	}
}

func TestRunTextHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newTextDispatcher(inference.NewMock("unused"))
	var out bytes.Buffer
	if err := RunText(ctx, d, strings.NewReader("hello\n"), &out); err == nil {
		t.Error("RunText ignored a cancelled context")
	}
}
