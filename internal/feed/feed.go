package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"daily-buzz/internal/api"
	"daily-buzz/internal/logger"
	"daily-buzz/internal/types"
)

// Adapter wraps the social mention-ranking feed. This is the only upstream
// whose failure is fatal to a run: without a candidate list there is nothing
// to snapshot.
type Adapter struct {
	client *api.Client
	url    string
}

// New creates a mention-feed adapter
func New(client *api.Client, url string) *Adapter {
	return &Adapter{client: client, url: url}
}

// feedItem tolerates the feed serializing counters as numbers or strings
type feedItem struct {
	Rank           int         `json:"rank"`
	Ticker         string      `json:"ticker"`
	Name           string      `json:"name"`
	Mentions       json.Number `json:"mentions"`
	Upvotes        json.Number `json:"upvotes"`
	Mentions24hAgo json.Number `json:"mentions_24h_ago"`
	Upvotes24hAgo  json.Number `json:"upvotes_24h_ago"`
	Sentiment      *float64    `json:"sentiment"`
	SentimentPos   *float64    `json:"sentiment_pos"`
	SentimentNeg   *float64    `json:"sentiment_neg"`
}

// TopMentions fetches the ranked mention list, rank 1 first.
// Single attempt: the scheduler invokes one run per day, a failed run skips the day.
func (a *Adapter) TopMentions(ctx context.Context) ([]types.Candidate, error) {
	resp, err := a.client.GET(ctx, a.url, api.ApeWisdomHeaders())
	if err != nil {
		return nil, fmt.Errorf("mention feed unreachable: %w", err)
	}

	var payload struct {
		Results []feedItem `json:"results"`
	}
	if err := resp.ParseJSON(&payload); err != nil {
		return nil, fmt.Errorf("mention feed returned malformed payload: %w", err)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("mention feed returned zero results")
	}

	candidates := make([]types.Candidate, 0, len(payload.Results))
	for _, item := range payload.Results {
		candidates = append(candidates, types.Candidate{
			Rank:           item.Rank,
			Ticker:         item.Ticker,
			Name:           item.Name,
			Mentions:       asInt(item.Mentions),
			Upvotes:        asInt(item.Upvotes),
			Mentions24hAgo: asInt(item.Mentions24hAgo),
			Upvotes24hAgo:  asInt(item.Upvotes24hAgo),
			Sentiment:      item.Sentiment,
			SentimentPos:   item.SentimentPos,
			SentimentNeg:   item.SentimentNeg,
		})
	}

	logger.Info(ctx, "Fetched mention ranking", "candidates", len(candidates), "top", candidates[0].Ticker)
	return candidates, nil
}

func asInt(n json.Number) int {
	v, err := n.Int64()
	if err != nil {
		// counters occasionally arrive as floats
		if f, ferr := n.Float64(); ferr == nil {
			return int(f)
		}
		return 0
	}
	return int(v)
}
