package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jonathan/skillbridge/internal/retry"
)

// DefaultSerperEndpoint is the Serper video search endpoint.
const DefaultSerperEndpoint = "https://google.serper.dev/videos"

// Serper searches videos through the Serper Google Search API.
type Serper struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// NewSerper creates a Serper searcher.
func NewSerper(cfg Config) *Serper {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultSerperEndpoint
	}
	return &Serper{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
	}
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Videos []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Channel  string `json:"channel"`
		Duration string `json:"duration"`
		ImageURL string `json:"imageUrl"`
	} `json:"videos"`
}

// Name returns the provider name.
func (s *Serper) Name() string { return string(ProviderSerper) }

// Search posts the query to Serper. A reply without a videos list is an
// empty result, not an error.
func (s *Serper) Search(ctx context.Context, q Query) ([]Result, error) {
	body, err := json.Marshal(serperRequest{Q: q.Text, Num: q.Count})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		var apiErr struct {
			Message string `json:"message"`
		}
		text := strings.TrimSpace(string(msg))
		if json.Unmarshal(msg, &apiErr) == nil && apiErr.Message != "" {
			text = apiErr.Message
		}
		return nil, &retry.StatusError{Service: "serper", StatusCode: resp.StatusCode, Body: text}
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode serper response: %w", err)
	}
	if parsed.Videos == nil {
		slog.Warn("serper reply has no videos", slog.String("query", q.Text))
		return []Result{}, nil
	}

	results := make([]Result, 0, len(parsed.Videos))
	for _, v := range parsed.Videos {
		results = append(results, Result{
			Title:        v.Title,
			URL:          v.Link,
			Channel:      v.Channel,
			ThumbnailURL: v.ImageURL,
			Duration:     v.Duration,
		})
	}
	return results, nil
}
