package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/skillbridge/internal/retry"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
)

// youtubeSite restricts Custom Search results to YouTube.
const youtubeSite = "youtube.com"

// CustomSearch searches YouTube pages through the Custom Search JSON API.
type CustomSearch struct {
	svc *customsearch.Service
	cx  string
}

// NewCustomSearch creates a Custom Search searcher.
func NewCustomSearch(ctx context.Context, cfg Config) (*CustomSearch, error) {
	if cfg.CX == "" {
		return nil, fmt.Errorf("custom search engine ID is required")
	}
	svc, err := customsearch.NewService(ctx, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &CustomSearch{svc: svc, cx: cfg.CX}, nil
}

// Name returns the provider name.
func (c *CustomSearch) Name() string { return string(ProviderCustomSearch) }

// Search queries the engine, restricted to youtube.com. The API returns at
// most 10 results per request.
func (c *CustomSearch) Search(ctx context.Context, q Query) ([]Result, error) {
	num := int64(min(max(q.Count, 1), 10))
	resp, err := c.svc.Cse.List().
		Cx(c.cx).
		Q(q.Text).
		Num(num).
		SiteSearch(youtubeSite).
		SiteSearchFilter("i").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("custom search failed: %w", googleError("customsearch", err))
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		r := Result{Title: item.Title, URL: item.Link}
		r.Channel, r.ThumbnailURL = pagemapDetails(item)
		results = append(results, r)
	}
	return results, nil
}

type pagemap struct {
	Pagemap struct {
		Person []struct {
			Name string `json:"name"`
		} `json:"person"`
		CseThumbnail []struct {
			Src string `json:"src"`
		} `json:"cse_thumbnail"`
	} `json:"pagemap"`
}

// pagemapDetails reads the channel name and thumbnail from the structured
// data Google attaches to YouTube results.
func pagemapDetails(item *customsearch.Result) (channel, thumbnail string) {
	data, err := item.MarshalJSON()
	if err != nil {
		return "", ""
	}
	var pm pagemap
	if json.Unmarshal(data, &pm) != nil {
		return "", ""
	}
	if len(pm.Pagemap.Person) > 0 {
		channel = pm.Pagemap.Person[0].Name
	}
	if len(pm.Pagemap.CseThumbnail) > 0 {
		thumbnail = pm.Pagemap.CseThumbnail[0].Src
	}
	return channel, thumbnail
}

// googleError converts Google API errors to retry.StatusError.
func googleError(service string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &retry.StatusError{Service: service, StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	return err
}
