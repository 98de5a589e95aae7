package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/skillbridge/internal/pipeline"
)

// SSE event names of a streamed run.
const (
	eventProgress = "progress"
	eventComplete = "complete"
	eventError    = "error"
)

// SSEWriter writes numbered Server-Sent Events. It is safe for concurrent use.
type SSEWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	nextID  int
	closed  bool
}

// NewSSEWriter commits the stream headers and flushes them to the client.
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSEWriter{w: w, flusher: flusher, nextID: 1}, nil
}

// WriteEvent sends one event with data encoded as JSON. Writes after a
// terminal event are rejected.
func (s *SSEWriter) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("stream already finished")
	}
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.nextID, event, payload); err != nil {
		return err
	}
	s.nextID++
	s.flusher.Flush()
	return nil
}

// Progress forwards one pipeline step.
func (s *SSEWriter) Progress(ev pipeline.ProgressEvent) error {
	return s.WriteEvent(eventProgress, ev)
}

// Fail ends the stream with an error event.
func (s *SSEWriter) Fail(body ErrorResponse) {
	s.finish(eventError, body)
}

// Complete ends the stream with the run result.
func (s *SSEWriter) Complete(data any) {
	s.finish(eventComplete, data)
}

func (s *SSEWriter) finish(event string, data any) {
	if err := s.WriteEvent(event, data); err != nil {
		return
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}
