package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/skillbridge/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGroq(t *testing.T, handler http.HandlerFunc, strict bool) *GroqClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultGroqConfig()
	cfg.BaseURL = srv.URL
	cfg.StrictSchema = strict
	client, err := NewGroqClient(cfg, "test-key")
	require.NoError(t, err)
	return client
}

func TestGroqClient_GenerateJSON(t *testing.T) {
	var got chatRequest
	client := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"` +
			"```json\\n{\\\"overall_score\\\": 70}\\n```" + `"}}]}`))
	}, false)

	schema := testSchema()
	out, err := client.GenerateJSON(context.Background(), Request{System: "You are a recruiter.", Prompt: "resume", Schema: &schema})
	require.NoError(t, err)

	assert.JSONEq(t, `{"overall_score": 70}`, out)
	assert.Equal(t, DefaultGroqModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "You are a recruiter.")
	assert.Contains(t, got.Messages[0].Content, `"overall_score"`)
	assert.Equal(t, "user", got.Messages[1].Role)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestGroqClient_StrictSchema(t *testing.T) {
	var got chatRequest
	client := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	}, true)

	schema := testSchema()
	_, err := client.GenerateJSON(context.Background(), Request{Prompt: "p", Schema: &schema})
	require.NoError(t, err)

	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	require.NotNil(t, got.ResponseFormat.JSONSchema)
	assert.Equal(t, "skill_gap", got.ResponseFormat.JSONSchema.Name)
}

func TestGroqClient_StatusError(t *testing.T) {
	client := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit reached","type":"tokens"}}`))
	}, false)

	_, err := client.GenerateJSON(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)

	var statusErr *retry.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, "rate limit reached", statusErr.Body)
	assert.True(t, retry.IsTransient(err))
}

func TestGroqClient_EmptyChoices(t *testing.T) {
	client := newTestGroq(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}, false)

	_, err := client.GenerateJSON(context.Background(), Request{Prompt: "p"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyReply))
}
