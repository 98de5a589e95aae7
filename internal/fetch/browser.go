package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the shortest extracted job text, in characters, that
// counts as a successful HTTP fetch. Shorter pages are likely rendered
// client-side.
const MinContentLength = 500

// Browser rendering defaults.
const (
	DefaultBrowserTimeout = 30 * time.Second
	DefaultSettleTime     = 2 * time.Second
)

// BrowserOptions configures RenderPage.
type BrowserOptions struct {
	Timeout time.Duration
	// WaitFor lists CSS selectors of the posting body; rendering waits for
	// the first one to appear. Empty waits for <body>.
	WaitFor []string
	// Settle is extra time for late scripts once the selector is ready.
	Settle    time.Duration
	UserAgent string
}

// ShouldUseBrowser reports whether text extracted over plain HTTP is too
// short to be a job posting.
func ShouldUseBrowser(extractedText string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(extractedText)) < MinContentLength
}

// RenderPage loads url in headless Chrome and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func RenderPage(ctx context.Context, url string, opts BrowserOptions) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultBrowserTimeout
	}
	if opts.Settle < 0 {
		opts.Settle = 0
	} else if opts.Settle == 0 {
		opts.Settle = DefaultSettleTime
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	waitFor := "body"
	if len(opts.WaitFor) > 0 {
		waitFor = strings.Join(opts.WaitFor, ", ")
	}
	slog.Debug("rendering job posting in headless browser",
		slog.String("url", url), slog.String("wait_for", waitFor))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(opts.UserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(waitFor, chromedp.ByQuery),
		chromedp.Sleep(opts.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	slog.Debug("rendered job posting", slog.String("url", url), slog.Int("bytes", len(html)))
	return html, nil
}
