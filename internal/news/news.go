package news

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"daily-buzz/internal/api"
	"daily-buzz/internal/logger"
	"daily-buzz/internal/types"
)

// Adapter fetches recent headlines for a symbol from the Yahoo Finance
// search feed. Failures and empty results both come back as an empty slice
// at the pipeline level; the snapshot is written without news.
type Adapter struct {
	client  *api.Client
	baseURL string
}

// New creates a news adapter
func New(client *api.Client, baseURL string) *Adapter {
	return &Adapter{client: client, baseURL: baseURL}
}

type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// FetchNews fetches up to limit headlines, most recent first
func (a *Adapter) FetchNews(ctx context.Context, symbol string, limit int) ([]types.NewsHeadline, error) {
	endpoint := fmt.Sprintf("%s/v1/finance/search?q=%s&newsCount=%d", a.baseURL, url.QueryEscape(symbol), limit)

	resp, err := a.client.GET(ctx, endpoint, api.YahooFinanceHeaders())
	if err != nil {
		return nil, fmt.Errorf("news search for %s failed: %w", symbol, err)
	}

	var payload searchResponse
	if err := resp.ParseJSON(&payload); err != nil {
		return nil, fmt.Errorf("news search for %s returned malformed payload: %w", symbol, err)
	}

	today := time.Now().UTC().Format("2006-01-02")
	headlines := make([]types.NewsHeadline, 0, len(payload.News))
	for _, item := range payload.News {
		if item.Title == "" || item.Link == "" {
			continue
		}
		headlines = append(headlines, types.NewsHeadline{
			Title:         item.Title,
			Publisher:     item.Publisher,
			Link:          item.Link,
			PublishedDate: normalizePublishDate(item.ProviderPublishTime, today),
		})
		if len(headlines) >= limit {
			break
		}
	}

	logger.Info(ctx, "Collected news headlines", "symbol", symbol, "count", len(headlines))
	return headlines, nil
}

// normalizePublishDate converts an epoch publish time to a calendar date.
// The feed is inconsistent about units: a timestamp that lands before 1980
// when read as milliseconds must have been seconds, so it is rescaled.
func normalizePublishDate(ts int64, fallback string) string {
	if ts <= 0 {
		return fallback
	}
	t := time.UnixMilli(ts).UTC()
	if t.Year() < 1980 {
		t = time.UnixMilli(ts * 1000).UTC()
	}
	return t.Format("2006-01-02")
}
