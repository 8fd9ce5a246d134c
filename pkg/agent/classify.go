package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/Brian-Mwirigi/Jarvis/pkg/inference"
)

// Spoken replies for failed turns.
const (
	// OfflineReply is spoken when the model backend cannot be reached.
	OfflineReply = "The backend is offline. You can still use local commands."

	// GenericReply is spoken for any other inference failure.
	GenericReply = "Sorry, I ran into a problem handling that."
)

// offlineMarkers are substrings that identify connectivity failures in
// wrapped transport errors.
var offlineMarkers = []string{
	"connection refused",
	"no such host",
	"network is unreachable",
	"ngrok",
	"tunnel",
	"i/o timeout",
	"eof",
}

// Classify maps an inference failure to a spoken reply. Connectivity
// failures (dead tunnel, stopped backend, 404 from a recycled tunnel URL)
// get the offline reply so the user knows local commands still work; the
// offline flag tells the caller to log one terse line instead of the full
// error chain.
func Classify(err error) (reply string, offline bool) {
	if err == nil {
		return "", false
	}

	if errors.Is(err, inference.ErrProviderUnavailable) {
		return OfflineReply, true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return OfflineReply, true
	}

	var apiErr *inference.APIError
	if errors.As(err, &apiErr) {
		// A tunnel that got recycled answers 404 for every path.
		if apiErr.IsNotFound() {
			return OfflineReply, true
		}
		return GenericReply, false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range offlineMarkers {
		if strings.Contains(msg, marker) {
			return OfflineReply, true
		}
	}

	return GenericReply, false
}
