// Package search queries video search services for learning resources.
// Results are returned raw; filtering and deduplication happen in the
// recommendation engine.
package search

import (
	"context"
	"fmt"
	"time"
)

// Provider names a search backend.
type Provider string

const (
	ProviderSerper       Provider = "serper"
	ProviderYouTube      Provider = "youtube"
	ProviderCustomSearch Provider = "customsearch"
)

// DefaultTimeout bounds a single search request.
const DefaultTimeout = 15 * time.Second

// Query is one search request.
type Query struct {
	Text  string
	Count int
}

// Result is one raw, unvalidated search hit.
type Result struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Channel      string `json:"channel,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Duration     string `json:"duration,omitempty"`
}

// Searcher runs searches against one backend.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Result, error)
	// Name identifies the backend in logs and cache keys.
	Name() string
}

// Config selects and configures a backend.
type Config struct {
	Provider Provider
	APIKey   string
	// CX is the Custom Search engine ID.
	CX string
	// Endpoint overrides the service URL.
	Endpoint string
	Timeout  time.Duration
}

// New creates the Searcher for cfg.Provider.
func New(ctx context.Context, cfg Config) (Searcher, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", cfg.Provider)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch cfg.Provider {
	case ProviderSerper, "":
		return NewSerper(cfg), nil
	case ProviderYouTube:
		return NewYouTube(ctx, cfg)
	case ProviderCustomSearch:
		return NewCustomSearch(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported search provider %q", cfg.Provider)
	}
}
