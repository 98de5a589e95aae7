package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonathan/skillbridge/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSerper(t *testing.T, handler http.HandlerFunc) *Serper {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSerper(Config{APIKey: "serper-key", Endpoint: srv.URL, Timeout: DefaultTimeout})
}

func TestSerper_Search(t *testing.T) {
	var got serperRequest
	s := newTestSerper(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "serper-key", r.Header.Get("X-API-KEY"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"videos":[
			{"title":"Docker in 100 Seconds","link":"https://www.youtube.com/watch?v=Gjnup-PuquQ",
			 "channel":"Fireship","duration":"2:06","imageUrl":"https://i.ytimg.com/vi/Gjnup-PuquQ/hq.jpg"},
			{"title":"Docker Tutorial for Beginners","link":"https://youtu.be/pTFZFxd4hOI"}
		]}`))
	})

	results, err := s.Search(context.Background(), Query{Text: "Docker tutorial, latest on youtube", Count: 5})
	require.NoError(t, err)

	assert.Equal(t, serperRequest{Q: "Docker tutorial, latest on youtube", Num: 5}, got)
	require.Len(t, results, 2)
	assert.Equal(t, Result{
		Title:        "Docker in 100 Seconds",
		URL:          "https://www.youtube.com/watch?v=Gjnup-PuquQ",
		Channel:      "Fireship",
		ThumbnailURL: "https://i.ytimg.com/vi/Gjnup-PuquQ/hq.jpg",
		Duration:     "2:06",
	}, results[0])
	assert.Empty(t, results[1].Channel)
}

func TestSerper_NoVideos(t *testing.T) {
	s := newTestSerper(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"searchParameters":{"q":"x"}}`))
	})

	results, err := s.Search(context.Background(), Query{Text: "x", Count: 5})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSerper_StatusError(t *testing.T) {
	s := newTestSerper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Unauthorized.","statusCode":403}`))
	})

	_, err := s.Search(context.Background(), Query{Text: "x", Count: 5})
	var statusErr *retry.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.Equal(t, "Unauthorized.", statusErr.Body)
	assert.False(t, retry.IsTransient(err))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "serper", s.Name())

	_, err = New(ctx, Config{Provider: ProviderSerper})
	assert.Error(t, err)

	_, err = New(ctx, Config{Provider: "bing", APIKey: "k"})
	assert.ErrorContains(t, err, "unsupported search provider")

	_, err = New(ctx, Config{Provider: ProviderCustomSearch, APIKey: "k"})
	assert.ErrorContains(t, err, "engine ID")
}
