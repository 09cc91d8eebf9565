package pipeline

import (
	"context"
	"sync"

	"daily-buzz/internal/details"
	"daily-buzz/internal/interfaces"
	"daily-buzz/internal/logger"
	"daily-buzz/internal/resolver"
	"daily-buzz/internal/sentiment"
	"daily-buzz/internal/store"
	"daily-buzz/internal/types"
)

// Params wires the pipeline's collaborators. Everything is injected so each
// stage can be doubled in tests.
type Params struct {
	Feed         interfaces.MentionFeed
	Quotes       interfaces.QuoteFetcher
	Details      interfaces.DetailFetcher
	News         interfaces.NewsFetcher
	Ratings      interfaces.RatingsFetcher
	Store        interfaces.SnapshotStore
	NewsLimit    int
	RatingsLimit int
	Jitter       sentiment.JitterFunc
}

// Pipeline runs one daily enrichment pass: mention feed, equity resolution,
// concurrent enrichment, sentiment reconciliation, idempotent persistence.
type Pipeline struct {
	p Params
}

// New creates a pipeline from its collaborators
func New(p Params) *Pipeline {
	if p.NewsLimit <= 0 {
		p.NewsLimit = 5
	}
	if p.RatingsLimit <= 0 {
		p.RatingsLimit = 4
	}
	return &Pipeline{p: p}
}

// Run executes one pipeline pass for the given calendar date (YYYY-MM-DD).
// Only two failures are fatal: an unreachable/empty mention feed and a
// failed snapshot write. Every enrichment source degrades to defaults.
func (pl *Pipeline) Run(ctx context.Context, date string) (*store.DailySnapshot, error) {
	op := logger.StartOperation(ctx, "pipeline.run", "date", date)
	ctx = op.GetContext()

	candidates, err := pl.p.Feed.TopMentions(ctx)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}
	logger.Stage(ctx, "feed", candidates[0].Ticker, "candidates", len(candidates))

	resolved, err := resolver.Resolve(ctx, candidates, pl.p.Quotes)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}
	logger.Stage(ctx, "resolve", resolved.Symbol, "type", string(resolved.Type), "rank", resolved.Candidate.Rank)

	det, headlines, ratingEntries := pl.enrich(ctx, resolved.Symbol)

	snapshot := pl.reconcile(date, resolved, det)
	logger.Stage(ctx, "reconcile", resolved.Symbol,
		"bullish", snapshot.SentimentBullishPct,
		"price", snapshot.Price,
		"news", len(headlines),
		"ratings", len(ratingEntries))

	if err := pl.p.Store.Write(ctx, snapshot, newsRows(headlines), ratingRows(ratingEntries)); err != nil {
		op.EndWithError(err)
		return nil, err
	}
	logger.Stage(ctx, "persist", resolved.Symbol, "date", date)

	op.End("symbol", resolved.Symbol)
	return snapshot, nil
}

// enrich runs the independent enrichment adapters concurrently once the
// symbol is fixed. No shared mutable state: each goroutine owns its slot.
func (pl *Pipeline) enrich(ctx context.Context, symbol string) (types.Details, []types.NewsHeadline, []types.RatingEntry) {
	var (
		det           types.Details
		headlines     []types.NewsHeadline
		ratingEntries []types.RatingEntry
	)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		det = pl.p.Details.FetchDetails(ctx, symbol)
	}()

	go func() {
		defer wg.Done()
		h, err := pl.p.News.FetchNews(ctx, symbol, pl.p.NewsLimit)
		if err != nil {
			logger.Warn(ctx, "News fetch failed, snapshot continues without news", "symbol", symbol, "error", err)
			return
		}
		headlines = h
	}()

	go func() {
		defer wg.Done()
		r, err := pl.p.Ratings.FetchRatings(ctx, symbol, pl.p.RatingsLimit)
		if err != nil {
			logger.Warn(ctx, "Ratings fetch failed, snapshot continues without ratings", "symbol", symbol, "error", err)
			return
		}
		ratingEntries = r
	}()

	wg.Wait()
	return det, headlines, ratingEntries
}

// reconcile merges the resolved ticker and enrichment results into the
// canonical snapshot record
func (pl *Pipeline) reconcile(date string, resolved *types.ResolvedTicker, det types.Details) *store.DailySnapshot {
	var price, changePct float64
	var priceChangePct *float64
	if resolved.Quote != nil {
		price = resolved.Quote.Price
		changePct = resolved.Quote.ChangePercent
		priceChangePct = &changePct
	}

	bullish := sentiment.Derive(sentiment.Inputs{
		PosMentions:       resolved.Candidate.SentimentPos,
		NegMentions:       resolved.Candidate.SentimentNeg,
		RawScore:          resolved.Candidate.Sentiment,
		PriceChangePct:    priceChangePct,
		MentionsChangePct: det.MentionsChangePct,
		DetailBullishPct:  det.BullishPct,
	}, pl.p.Jitter)

	logoURL := det.LogoURL
	if logoURL == "" {
		logoURL = details.PlaceholderLogoURL(resolved.Symbol)
	}

	return &store.DailySnapshot{
		Date:                date,
		Ticker:              resolved.Symbol,
		Name:                resolved.Name,
		LogoURL:             logoURL,
		Price:               price,
		ChangePercent:       changePct,
		MentionsCount:       resolved.Candidate.Mentions,
		UpvotesCount:        resolved.Candidate.Upvotes,
		MentionsChangePct:   det.MentionsChangePct,
		UpvotesChangePct:    det.UpvotesChangePct,
		SentimentBullishPct: float64(bullish),
		SentimentBearishPct: float64(100 - bullish),
	}
}

func newsRows(headlines []types.NewsHeadline) []store.NewsItem {
	rows := make([]store.NewsItem, 0, len(headlines))
	for _, h := range headlines {
		rows = append(rows, store.NewsItem{
			Publisher:     h.Publisher,
			Title:         h.Title,
			Link:          h.Link,
			PublishedDate: h.PublishedDate,
		})
	}
	return rows
}

func ratingRows(entries []types.RatingEntry) []store.AnalystRating {
	rows := make([]store.AnalystRating, 0, len(entries))
	for _, r := range entries {
		rows = append(rows, store.AnalystRating{
			Firm:        r.Firm,
			Rating:      r.Rating,
			TargetPrice: r.TargetPrice,
			RatingDate:  r.RatingDate,
		})
	}
	return rows
}
