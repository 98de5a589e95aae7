package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/skillbridge/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainWriter hides httptest.ResponseRecorder's Flush method.
type plainWriter struct{ http.ResponseWriter }

func TestSSEWriter_NumberedEvents(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	require.NoError(t, sse.Progress(pipeline.ProgressEvent{Step: "analyze", Message: "done"}))
	sse.Complete(map[string]int{"videos": 3})

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t,
		"id: 1\nevent: progress\ndata: {\"step\":\"analyze\",\"category\":\"\",\"message\":\"done\"}\n\n"+
			"id: 2\nevent: complete\ndata: {\"videos\":3}\n\n",
		w.Body.String())
}

func TestSSEWriter_NoEventsAfterFinish(t *testing.T) {
	w := httptest.NewRecorder()
	sse, err := NewSSEWriter(w)
	require.NoError(t, err)

	sse.Fail(ErrorResponse{Error: "upstream", Message: "search failed"})
	assert.Error(t, sse.Progress(pipeline.ProgressEvent{Step: "recommend"}))
	sse.Complete(nil)

	assert.Contains(t, w.Body.String(), "event: error")
	assert.NotContains(t, w.Body.String(), "event: complete")
	assert.NotContains(t, w.Body.String(), "recommend")
}

func TestSSEWriter_RequiresFlusher(t *testing.T) {
	_, err := NewSSEWriter(plainWriter{httptest.NewRecorder()})
	assert.Error(t, err)
}
