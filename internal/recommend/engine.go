// Package recommend turns a selected missing skill into a short, deduplicated
// list of learning videos.
package recommend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/skillbridge/internal/retry"
	"github.com/jonathan/skillbridge/internal/search"
	"github.com/jonathan/skillbridge/internal/types"
)

// querySuffix biases searches toward recent tutorials.
const querySuffix = " tutorial, latest on youtube"

// maxSearchCount is the largest page every search backend serves.
const maxSearchCount = 10

// Options controls the engine.
type Options struct {
	// MaxCandidates caps the set size.
	MaxCandidates int
	Retry         retry.Policy
}

// DefaultOptions returns the options used by the CLI and server.
func DefaultOptions() Options {
	return Options{MaxCandidates: types.DefaultMaxCandidates, Retry: retry.DefaultPolicy}
}

// Engine builds recommendation sets from a Searcher.
type Engine struct {
	searcher search.Searcher
	opts     Options
	validate *validator.Validate
}

// New creates an Engine.
func New(searcher search.Searcher, opts Options) *Engine {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = types.DefaultMaxCandidates
	}
	return &Engine{searcher: searcher, opts: opts, validate: validator.New()}
}

// BuildQuery returns the search query for skill. The same skill always
// yields the same query.
func BuildQuery(skill string) string {
	return strings.Join(strings.Fields(skill), " ") + querySuffix
}

// Recommend searches for videos about skill. A search that succeeds without
// usable results yields an empty set, not an error.
func (e *Engine) Recommend(ctx context.Context, skill string) (*types.RecommendationSet, error) {
	skill = strings.Join(strings.Fields(skill), " ")
	if skill == "" {
		return nil, &InvalidSkillError{}
	}

	query := BuildQuery(skill)
	q := search.Query{Text: query, Count: e.searchCount()}

	results, err := retry.Do(ctx, e.opts.Retry, isRetryable, "search", func(ctx context.Context) ([]search.Result, error) {
		res, err := e.searcher.Search(ctx, q)
		if err != nil {
			return nil, e.classify(err)
		}
		return res, nil
	})
	if err != nil {
		slog.Warn("search failed", slog.String("skill", skill), slog.Any("error", err))
		return nil, err
	}

	videos := e.Filter(results)
	slog.Info("recommendations ready",
		slog.String("skill", skill),
		slog.Int("raw_results", len(results)),
		slog.Int("videos", len(videos)))

	return &types.RecommendationSet{
		SelectedSkill: skill,
		Query:         query,
		Videos:        videos,
	}, nil
}

// searchCount over-fetches so duplicates and unusable results still leave
// MaxCandidates videos when upstream has them.
func (e *Engine) searchCount() int {
	return max(e.opts.MaxCandidates, min(2*e.opts.MaxCandidates, maxSearchCount))
}

type candidate struct {
	Title     string `validate:"required"`
	URL       string `validate:"required,http_url"`
	Thumbnail string
}

// Filter drops results without a title or a well-formed http(s) URL, removes
// duplicate links and keeps at most MaxCandidates in upstream order.
// Invalid thumbnails are cleared rather than dropping the video.
func (e *Engine) Filter(results []search.Result) []types.VideoCandidate {
	videos := make([]types.VideoCandidate, 0, min(len(results), e.opts.MaxCandidates))
	seen := make(map[string]bool, len(results))

	for _, r := range results {
		if len(videos) >= e.opts.MaxCandidates {
			break
		}
		c := candidate{
			Title:     strings.TrimSpace(r.Title),
			URL:       strings.TrimSpace(r.URL),
			Thumbnail: strings.TrimSpace(r.ThumbnailURL),
		}
		if err := e.validate.Struct(c); err != nil {
			slog.Debug("dropping unusable result", slog.String("url", r.URL), slog.Any("error", err))
			continue
		}
		if e.validate.Var(c.Thumbnail, "omitempty,http_url") != nil {
			c.Thumbnail = ""
		}

		key := NormalizeURL(c.URL)
		if seen[key] {
			continue
		}
		seen[key] = true

		videos = append(videos, types.VideoCandidate{
			Title:        c.Title,
			URL:          c.URL,
			Channel:      strings.TrimSpace(r.Channel),
			ThumbnailURL: c.Thumbnail,
			Duration:     strings.TrimSpace(r.Duration),
		})
	}
	return videos
}

func (e *Engine) classify(err error) error {
	service := e.searcher.Name()
	var statusErr *retry.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &UnavailableError{Service: service, Retryable: false, Cause: err}
		}
	}
	return &UnavailableError{Service: service, Retryable: retry.IsTransient(err), Cause: err}
}

func isRetryable(err error) bool {
	var unavailable *UnavailableError
	return errors.As(err, &unavailable) && unavailable.Retryable
}
