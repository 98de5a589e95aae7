package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/jonathan/skillbridge/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when the posting could not be downloaded
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when no text could be extracted
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// JobURLOptions configures IngestJobFromURL.
type JobURLOptions struct {
	MaxChars int
	// UseBrowser renders the page headlessly when plain HTTP yields too little text.
	UseBrowser bool
	Fetch      *fetch.Options
}

// IngestJobFromURL downloads a job posting and returns its cleaned, truncated
// text with metadata. Platform-specific selectors are used when the job board
// is recognized.
func IngestJobFromURL(ctx context.Context, urlStr string, opts JobURLOptions) (string, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)
	logger := slog.With(slog.String("url", urlStr), slog.String("platform", string(platform)))

	result, err := fetch.URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	logger.Debug("fetched job posting", slog.Int("bytes", len(result.HTML)))

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	text, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		logger.Debug("content too short, rendering in browser", slog.Int("chars", utf8.RuneCountInString(text)))
		browserOpts := fetch.BrowserOptions{}
		if platform != fetch.PlatformUnknown {
			browserOpts.WaitFor = contentSelectors
		}
		if rendered, err := fetch.RenderPage(ctx, urlStr, browserOpts); err != nil {
			logger.Warn("browser rendering failed, using HTTP content", slog.Any("error", err))
		} else if browserText, err := fetch.ExtractMainText(rendered, contentSelectors, noiseSelectors...); err == nil {
			text = browserText
		}
	}

	cleaned, truncated, err := NormalizeJobText(text, opts.MaxChars)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	metadata := NewMetadata(cleaned, urlStr, FormatHTML)
	metadata.Platform = string(platform)
	metadata.Truncated = truncated
	return cleaned, metadata, nil
}
