package vision

import (
	"context"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/Brian-Mwirigi/Jarvis/pkg/inference"
)

// writeTestFrame writes a tiny JPEG and returns its path.
func writeTestFrame(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create frame: %v", err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	return path
}

func TestCameraAnalyze(t *testing.T) {
	framePath := writeTestFrame(t)

	model := &inference.Mock{
		VisionFunc: func(_ context.Context, req *inference.VisionRequest) (*inference.VisionResponse, error) {
			if req.Prompt != "what is on the desk" {
				t.Errorf("prompt = %q", req.Prompt)
			}
			if req.Image == nil {
				t.Error("no image attached to the request")
			}
			return &inference.VisionResponse{Content: "  A laptop and a coffee mug.  "}, nil
		},
	}

	c := NewCamera(model)
	c.capture = func(context.Context) (string, error) { return framePath, nil }

	answer, err := c.Analyze(context.Background(), "what is on the desk")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if answer != "A laptop and a coffee mug." {
		t.Errorf("Analyze() = %q", answer)
	}
	if _, err := os.Stat(framePath); !os.IsNotExist(err) {
		t.Error("captured frame not cleaned up")
	}
}

func TestCameraCaptureFailure(t *testing.T) {
	c := NewCamera(&inference.Mock{})
	c.capture = func(context.Context) (string, error) {
		return "", errors.New("no camera device")
	}

	if _, err := c.Analyze(context.Background(), "what do you see"); err == nil {
		t.Error("Analyze() error = nil, want capture error")
	}
}

func TestCameraModelFailure(t *testing.T) {
	framePath := writeTestFrame(t)

	model := &inference.Mock{
		VisionFunc: func(context.Context, *inference.VisionRequest) (*inference.VisionResponse, error) {
			return nil, errors.New("model overloaded")
		},
	}
	c := NewCamera(model)
	c.capture = func(context.Context) (string, error) { return framePath, nil }

	if _, err := c.Analyze(context.Background(), "what do you see"); err == nil {
		t.Error("Analyze() error = nil, want model error")
	}
}

func TestCameraValidation(t *testing.T) {
	c := NewCamera(&inference.Mock{})
	if _, err := c.Analyze(context.Background(), "  "); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("Analyze(blank) error = %v, want ErrEmptyQuestion", err)
	}

	none := NewCamera(nil)
	if none.Available() {
		t.Error("Available() = true without a model")
	}
	if _, err := none.Analyze(context.Background(), "anything there"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Analyze() without model error = %v, want ErrNotConfigured", err)
	}
}
