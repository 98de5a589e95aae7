package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// SearchCacheKey identifies one cached search.
type SearchCacheKey struct {
	Provider string
	Query    string
	Count    int
}

// normalized lower-cases and trims the query so equivalent searches share a row.
func (k SearchCacheKey) normalized() SearchCacheKey {
	k.Query = strings.Join(strings.Fields(strings.ToLower(k.Query)), " ")
	return k
}

// GetSearchResults returns the cached raw results for key if they were
// fetched within maxAge. The boolean is false on a miss.
func (db *DB) GetSearchResults(ctx context.Context, key SearchCacheKey, maxAge time.Duration) ([]byte, bool, error) {
	key = key.normalized()
	cutoff := time.Now().Add(-maxAge)

	var results []byte
	err := db.pool.QueryRow(ctx,
		`SELECT results FROM search_cache
		 WHERE provider = $1 AND query = $2 AND result_count = $3 AND fetched_at > $4`,
		key.Provider, key.Query, key.Count, cutoff,
	).Scan(&results)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached search: %w", err)
	}
	return results, true, nil
}

// PutSearchResults stores raw results for key, replacing any older entry.
func (db *DB) PutSearchResults(ctx context.Context, key SearchCacheKey, results []byte) error {
	key = key.normalized()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO search_cache (provider, query, result_count, results)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (provider, query, result_count)
		 DO UPDATE SET results = $4, fetched_at = NOW()`,
		key.Provider, key.Query, key.Count, results,
	)
	if err != nil {
		return fmt.Errorf("failed to cache search: %w", err)
	}
	return nil
}

// PurgeSearchResults deletes entries older than maxAge and returns how many
// were removed.
func (db *DB) PurgeSearchResults(ctx context.Context, maxAge time.Duration) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM search_cache WHERE fetched_at <= $1`,
		time.Now().Add(-maxAge),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge search cache: %w", err)
	}
	return tag.RowsAffected(), nil
}
