package vision

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "image/jpeg"

	"github.com/Brian-Mwirigi/Jarvis/pkg/inference"
)

// Camera answers questions by grabbing a frame from a local webcam and
// sending it to the vision model directly. Used when no companion service
// is configured; needs a capture binary on PATH.
type Camera struct {
	model   inference.Provider
	capture func(ctx context.Context) (string, error)
	logger  *slog.Logger
}

var _ Provider = (*Camera)(nil)

// NewCamera creates a camera provider over the given vision model.
func NewCamera(model inference.Provider) *Camera {
	return &Camera{
		model:   model,
		capture: captureFrame,
		logger:  slog.Default().With("component", "vision.camera"),
	}
}

// Available reports whether a model and a capture binary are present.
func (c *Camera) Available() bool {
	if c.model == nil {
		return false
	}
	name, _ := captureCmd()
	_, err := exec.LookPath(name)
	return err == nil
}

// Analyze captures a frame and asks the model the question about it.
func (c *Camera) Analyze(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if c.model == nil {
		return "", ErrNotConfigured
	}

	start := time.Now()

	path, err := c.capture(ctx)
	if err != nil {
		return "", fmt.Errorf("vision: capture frame: %w", err)
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("vision: open frame: %w", err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("vision: decode frame: %w", err)
	}

	resp, err := c.model.Vision(ctx, &inference.VisionRequest{
		Image:  img,
		Prompt: question,
	})
	if err != nil {
		return "", fmt.Errorf("vision: analyze frame: %w", err)
	}

	c.logger.Debug("analyzed local frame",
		"chars", len(resp.Content),
		"duration_ms", time.Since(start).Milliseconds())

	return strings.TrimSpace(resp.Content), nil
}

// captureCmd returns the platform webcam capture command.
func captureCmd() (name string, argsFor func(path string) []string) {
	switch runtime.GOOS {
	case "darwin":
		return "imagesnap", func(path string) []string { return []string{"-q", path} }
	default:
		return "fswebcam", func(path string) []string {
			return []string{"--no-banner", "-r", "1280x720", path}
		}
	}
}

// captureFrame grabs one frame to a temp JPEG and returns its path.
// The caller removes the file.
func captureFrame(ctx context.Context) (string, error) {
	name, argsFor := captureCmd()
	if _, err := exec.LookPath(name); err != nil {
		return "", fmt.Errorf("no camera tool found")
	}

	path := filepath.Join(os.TempDir(),
		fmt.Sprintf("jarvis-frame-%d.jpg", time.Now().UnixNano()))

	if err := exec.CommandContext(ctx, name, argsFor(path)...).Run(); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return path, nil
}
