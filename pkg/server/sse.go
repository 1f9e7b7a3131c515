// pkg/server/sse.go
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// sseWriter streams Server-Sent-Events-style frames: one `data: <JSON>`
// line per event followed by a blank line, flushed immediately so idle
// timeouts on the transport never starve.
type sseWriter struct {
	w http.ResponseWriter
	f http.Flusher
}

// newSSEWriter prepares the response for event streaming and sends headers
func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("response writer does not support streaming")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	f.Flush()

	return &sseWriter{w: w, f: f}, nil
}

// WriteEvent serializes one payload into a data frame and flushes it
func (s *sseWriter) WriteEvent(payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write event frame: %w", err)
	}

	s.f.Flush()
	return nil
}
