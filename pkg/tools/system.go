package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Brian-Mwirigi/Jarvis/internal/httpc"
)

// Weather fetches a one-line weather report from wttr.in.
func Weather(ctx context.Context, city string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", fmt.Errorf("city required")
	}

	reqURL := fmt.Sprintf("https://wttr.in/%s?format=3", url.PathEscape(city))
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather service error %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// Translate translates text via the keyless MyMemory endpoint.
// from defaults to English when empty.
func Translate(ctx context.Context, text, from, to string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("text required")
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return "", fmt.Errorf("target language required")
	}
	if from = strings.TrimSpace(from); from == "" {
		from = "en"
	}

	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", from+"|"+to)
	reqURL := "https://api.mymemory.translated.net/get?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation service error %d", resp.StatusCode)
	}

	var payload struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus json.Number `json:"responseStatus"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode translation: %w", err)
	}

	translated := strings.TrimSpace(payload.ResponseData.TranslatedText)
	if payload.ResponseStatus.String() != "200" || translated == "" {
		return "", fmt.Errorf("no translation for %q", text)
	}
	return translated, nil
}

// binaryExists reports whether a binary is on PATH.
func binaryExists(name string) func() bool {
	return func() bool {
		_, err := exec.LookPath(name)
		return err == nil
	}
}

// screenshotCmd returns the platform screenshot command, or "" when none.
func screenshotCmd() (name string, argsFor func(path string) []string) {
	switch runtime.GOOS {
	case "darwin":
		return "screencapture", func(path string) []string { return []string{"-x", path} }
	default:
		return "scrot", func(path string) []string { return []string{path} }
	}
}

// takeScreenshot captures the screen to a temp PNG and returns its path.
// The caller removes the file.
func takeScreenshot(ctx context.Context) (string, error) {
	name, argsFor := screenshotCmd()
	if _, err := exec.LookPath(name); err != nil {
		return "", fmt.Errorf("no screenshot tool found")
	}

	path := filepath.Join(os.TempDir(),
		fmt.Sprintf("jarvis-screen-%d.png", time.Now().UnixNano()))

	if err := exec.CommandContext(ctx, name, argsFor(path)...).Run(); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return path, nil
}

// clipboardCmd returns the platform clipboard-read command.
func clipboardCmd() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"pbpaste"}
	default:
		return []string{"xclip", "-selection", "clipboard", "-o"}
	}
}

// systemTools are tools backed by external binaries, each gated on the
// binary actually being installed.
func systemTools() []Tool {
	screenshotBin, _ := screenshotCmd()
	clipBin := clipboardCmd()[0]

	return []Tool{
		{
			Name:        "take_screenshot",
			Description: "Capture the screen to an image file and report where it was saved.",
			Parameters:  map[string]interface{}{},
			Available:   binaryExists(screenshotBin),
			Handler: func(map[string]interface{}) (string, error) {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				path, err := takeScreenshot(ctx)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Screenshot saved to %s", path), nil
			},
		},
		{
			Name:        "read_screen",
			Description: "Capture the screen and read any text on it using OCR.",
			Parameters:  map[string]interface{}{},
			Available: func() bool {
				if _, err := exec.LookPath("tesseract"); err != nil {
					return false
				}
				_, err := exec.LookPath(screenshotBin)
				return err == nil
			},
			Handler: func(map[string]interface{}) (string, error) {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				path, err := takeScreenshot(ctx)
				if err != nil {
					return "", err
				}
				defer os.Remove(path)

				out, err := exec.CommandContext(ctx, "tesseract", path, "-").Output()
				if err != nil {
					return "", fmt.Errorf("tesseract: %w", err)
				}

				text := strings.TrimSpace(string(out))
				if text == "" {
					return "No readable text on screen.", nil
				}
				return text, nil
			},
		},
		{
			Name:        "read_clipboard",
			Description: "Read the current clipboard contents.",
			Parameters:  map[string]interface{}{},
			Available:   binaryExists(clipBin),
			Handler: func(map[string]interface{}) (string, error) {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				cmd := clipboardCmd()
				out, err := exec.CommandContext(ctx, cmd[0], cmd[1:]...).Output()
				if err != nil {
					return "", fmt.Errorf("%s: %w", cmd[0], err)
				}

				text := strings.TrimSpace(string(out))
				if text == "" {
					return "Clipboard is empty.", nil
				}
				return text, nil
			},
		},
		{
			Name:        "network_scan",
			Description: "List devices visible on the local network.",
			Parameters:  map[string]interface{}{},
			Available:   binaryExists("arp"),
			Handler: func(map[string]interface{}) (string, error) {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				out, err := exec.CommandContext(ctx, "arp", "-a").Output()
				if err != nil {
					return "", fmt.Errorf("arp: %w", err)
				}

				lines := strings.Split(strings.TrimSpace(string(out)), "\n")
				if len(lines) == 0 || lines[0] == "" {
					return "No devices found on the local network.", nil
				}
				return fmt.Sprintf("%d devices on the local network:\n%s",
					len(lines), strings.Join(lines, "\n")), nil
			},
		},
		{
			Name:        "matrix",
			Description: "Fill the terminal with falling green characters until the user quits.",
			Parameters:  map[string]interface{}{},
			Available:   binaryExists("cmatrix"),
			Handler: func(map[string]interface{}) (string, error) {
				// Runs attached to the terminal and blocks until the user
				// quits it, like any full-screen program.
				cmd := exec.Command("cmatrix")
				cmd.Stdin = os.Stdin
				cmd.Stdout = os.Stdout
				cmd.Stderr = os.Stderr
				if err := cmd.Run(); err != nil {
					return "", fmt.Errorf("cmatrix: %w", err)
				}
				return "Welcome back.", nil
			},
		},
	}
}
