package search

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const youtubeWatchURL = "https://www.youtube.com/watch?v="

// YouTube searches videos through the YouTube Data API v3.
type YouTube struct {
	svc *youtube.Service
}

// NewYouTube creates a YouTube Data API searcher.
func NewYouTube(ctx context.Context, cfg Config) (*YouTube, error) {
	svc, err := youtube.NewService(ctx, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &YouTube{svc: svc}, nil
}

// Name returns the provider name.
func (y *YouTube) Name() string { return string(ProviderYouTube) }

// Search runs search.list restricted to videos.
func (y *YouTube) Search(ctx context.Context, q Query) ([]Result, error) {
	resp, err := y.svc.Search.List([]string{"snippet"}).
		Q(q.Text).
		Type("video").
		MaxResults(int64(q.Count)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search failed: %w", googleError("youtube", err))
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		results = append(results, Result{
			Title:        item.Snippet.Title,
			URL:          youtubeWatchURL + item.Id.VideoId,
			Channel:      item.Snippet.ChannelTitle,
			ThumbnailURL: thumbnailURL(item.Snippet.Thumbnails),
		})
	}
	return results, nil
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

func clientOptions(cfg Config) []option.ClientOption {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	return opts
}
