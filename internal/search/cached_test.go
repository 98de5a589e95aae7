package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/skillbridge/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	results []Result
	err     error
	calls   int
}

func (s *stubSearcher) Search(context.Context, Query) ([]Result, error) {
	s.calls++
	return s.results, s.err
}

func (s *stubSearcher) Name() string { return "stub" }

type memCache struct {
	mu      sync.Mutex
	entries map[db.SearchCacheKey][]byte
	readErr error
}

func (m *memCache) GetSearchResults(_ context.Context, key db.SearchCacheKey, _ time.Duration) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, false, m.readErr
	}
	data, ok := m.entries[key]
	return data, ok, nil
}

func (m *memCache) PutSearchResults(_ context.Context, key db.SearchCacheKey, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = data
	return nil
}

func TestCachedSearcher_HitAfterMiss(t *testing.T) {
	next := &stubSearcher{results: []Result{{Title: "Docker", URL: "https://youtu.be/abc"}}}
	cache := &memCache{entries: map[db.SearchCacheKey][]byte{}}
	s := NewCached(next, cache, time.Hour)

	q := Query{Text: "Docker tutorial", Count: 5}
	first, err := s.Search(context.Background(), q)
	require.NoError(t, err)
	second, err := s.Search(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.Contains(t, cache.entries, db.SearchCacheKey{Provider: "stub", Query: "Docker tutorial", Count: 5})
}

func TestCachedSearcher_CacheErrorDoesNotFail(t *testing.T) {
	next := &stubSearcher{results: []Result{{Title: "Docker", URL: "https://youtu.be/abc"}}}
	cache := &memCache{entries: map[db.SearchCacheKey][]byte{}, readErr: errors.New("connection reset")}

	results, err := NewCached(next, cache, time.Hour).Search(context.Background(), Query{Text: "Docker", Count: 5})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestCachedSearcher_ErrorsNotCached(t *testing.T) {
	next := &stubSearcher{err: errors.New("boom")}
	cache := &memCache{entries: map[db.SearchCacheKey][]byte{}}

	_, err := NewCached(next, cache, time.Hour).Search(context.Background(), Query{Text: "Docker", Count: 5})
	require.Error(t, err)
	assert.Empty(t, cache.entries)
}

func TestCachedSearcher_CorruptEntry(t *testing.T) {
	next := &stubSearcher{results: []Result{{Title: "fresh", URL: "https://youtu.be/abc"}}}
	key := db.SearchCacheKey{Provider: "stub", Query: "Docker", Count: 5}
	cache := &memCache{entries: map[db.SearchCacheKey][]byte{key: []byte("not json")}}

	results, err := NewCached(next, cache, time.Hour).Search(context.Background(), Query{Text: "Docker", Count: 5})
	require.NoError(t, err)
	assert.Equal(t, "fresh", results[0].Title)
	assert.Equal(t, 1, next.calls)
}
