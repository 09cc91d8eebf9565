package interfaces

import (
	"context"

	"daily-buzz/internal/store"
	"daily-buzz/internal/types"
)

// MentionFeed produces the day's ranked ticker mentions, rank 1 first
type MentionFeed interface {
	TopMentions(ctx context.Context) ([]types.Candidate, error)
}

// QuoteFetcher looks up one symbol on the quote service.
// A failed lookup is a skip-signal to the resolver, never fatal to the run.
type QuoteFetcher interface {
	Quote(ctx context.Context, symbol string) (*types.Quote, error)
}

// DetailFetcher scrapes community stats for a symbol. It never fails:
// fields it cannot extract come back defaulted.
type DetailFetcher interface {
	FetchDetails(ctx context.Context, symbol string) types.Details
}

// NewsFetcher fetches recent headlines for a symbol
type NewsFetcher interface {
	FetchNews(ctx context.Context, symbol string, limit int) ([]types.NewsHeadline, error)
}

// RatingsFetcher fetches recent analyst ratings for a symbol, most recent first
type RatingsFetcher interface {
	FetchRatings(ctx context.Context, symbol string, limit int) ([]types.RatingEntry, error)
}

// SnapshotStore persists the canonical daily record
type SnapshotStore interface {
	Write(ctx context.Context, snapshot *store.DailySnapshot, news []store.NewsItem, ratings []store.AnalystRating) error
}
