package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jonathan/skillbridge/internal/db"
)

// DefaultCacheTTL is how long cached results are served.
const DefaultCacheTTL = 24 * time.Hour

// Cache stores raw search results. *db.DB implements it.
type Cache interface {
	GetSearchResults(ctx context.Context, key db.SearchCacheKey, maxAge time.Duration) ([]byte, bool, error)
	PutSearchResults(ctx context.Context, key db.SearchCacheKey, results []byte) error
}

// CachedSearcher serves repeated searches from a Cache. Cache failures are
// logged and never fail a search.
type CachedSearcher struct {
	next  Searcher
	cache Cache
	ttl   time.Duration
}

// NewCached wraps next with cache.
func NewCached(next Searcher, cache Cache, ttl time.Duration) *CachedSearcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSearcher{next: next, cache: cache, ttl: ttl}
}

// Name returns the wrapped provider's name.
func (c *CachedSearcher) Name() string { return c.next.Name() }

// Search returns cached results when fresh, otherwise searches and stores
// the reply.
func (c *CachedSearcher) Search(ctx context.Context, q Query) ([]Result, error) {
	key := db.SearchCacheKey{Provider: c.next.Name(), Query: q.Text, Count: q.Count}

	data, ok, err := c.cache.GetSearchResults(ctx, key, c.ttl)
	switch {
	case err != nil:
		slog.Warn("search cache read failed", slog.Any("error", err))
	case ok:
		var results []Result
		if err := json.Unmarshal(data, &results); err == nil {
			slog.Debug("search cache hit", slog.String("query", q.Text))
			return results, nil
		}
		slog.Warn("discarding corrupt search cache entry", slog.String("query", q.Text))
	}

	results, err := c.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(results); err == nil {
		if err := c.cache.PutSearchResults(ctx, key, data); err != nil {
			slog.Warn("search cache write failed", slog.Any("error", err))
		}
	}
	return results, nil
}
