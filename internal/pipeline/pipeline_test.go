package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"daily-buzz/internal/details"
	"daily-buzz/internal/store"
	"daily-buzz/internal/types"
)

type fakeFeed struct {
	candidates []types.Candidate
	err        error
}

func (f *fakeFeed) TopMentions(ctx context.Context) ([]types.Candidate, error) {
	return f.candidates, f.err
}

type fakeQuotes struct {
	quotes map[string]*types.Quote
}

func (f *fakeQuotes) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	if q, ok := f.quotes[symbol]; ok {
		return q, nil
	}
	return nil, fmt.Errorf("symbol %s not found", symbol)
}

type fakeDetails struct {
	details types.Details
}

func (f *fakeDetails) FetchDetails(ctx context.Context, symbol string) types.Details {
	return f.details
}

type fakeNews struct {
	headlines []types.NewsHeadline
	err       error
}

func (f *fakeNews) FetchNews(ctx context.Context, symbol string, limit int) ([]types.NewsHeadline, error) {
	return f.headlines, f.err
}

type fakeRatings struct {
	entries []types.RatingEntry
	err     error
}

func (f *fakeRatings) FetchRatings(ctx context.Context, symbol string, limit int) ([]types.RatingEntry, error) {
	return f.entries, f.err
}

type fakeStore struct {
	snapshot *store.DailySnapshot
	news     []store.NewsItem
	ratings  []store.AnalystRating
	err      error
	writes   int
}

func (f *fakeStore) Write(ctx context.Context, snapshot *store.DailySnapshot, news []store.NewsItem, ratings []store.AnalystRating) error {
	f.writes++
	f.snapshot = snapshot
	f.news = news
	f.ratings = ratings
	return f.err
}

func fp(v float64) *float64 { return &v }

func happyParams(st *fakeStore) Params {
	return Params{
		Feed: &fakeFeed{candidates: []types.Candidate{
			{Rank: 1, Ticker: "GME", Name: "GameStop Corp.", Mentions: 1543, Upvotes: 8921,
				SentimentPos: fp(70), SentimentNeg: fp(30)},
		}},
		Quotes: &fakeQuotes{quotes: map[string]*types.Quote{
			"GME": {Symbol: "GME", Price: 24.50, ChangePercent: 2.51, Type: types.InstrumentEquity, LongName: "GameStop Corp."},
		}},
		Details: &fakeDetails{details: types.Details{
			MentionsChangePct: 40.3,
			UpvotesChangePct:  18.9,
			BullishPct:        fp(67),
			LogoURL:           "https://logo.clearbit.com/gamestop.com",
		}},
		News: &fakeNews{headlines: []types.NewsHeadline{
			{Title: "Shares rally", Publisher: "Reuters", Link: "https://example.com/a", PublishedDate: "2026-08-30"},
		}},
		Ratings: &fakeRatings{entries: []types.RatingEntry{
			{Firm: "Morgan Stanley", Rating: "Overweight", TargetPrice: 30, RatingDate: "2026-08-25"},
		}},
		Store: st,
	}
}

func TestRunHappyPath(t *testing.T) {
	st := &fakeStore{}

	snapshot, err := New(happyParams(st)).Run(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("Expected run to succeed, got %v", err)
	}

	if st.writes != 1 {
		t.Fatalf("Expected exactly one store write, got %d", st.writes)
	}
	if snapshot.Date != "2026-08-31" || snapshot.Ticker != "GME" {
		t.Errorf("Unexpected snapshot identity: %s %s", snapshot.Date, snapshot.Ticker)
	}
	if snapshot.Price != 24.50 || snapshot.ChangePercent != 2.51 {
		t.Errorf("Expected quote price data, got $%.2f %+.2f%%", snapshot.Price, snapshot.ChangePercent)
	}
	// Explicit counts win over every other signal: 70/(70+30) = 70
	if snapshot.SentimentBullishPct != 70 {
		t.Errorf("Expected bullish 70 from explicit counts, got %v", snapshot.SentimentBullishPct)
	}
	if snapshot.SentimentBullishPct+snapshot.SentimentBearishPct != 100 {
		t.Errorf("Expected bullish+bearish to sum to 100, got %v + %v",
			snapshot.SentimentBullishPct, snapshot.SentimentBearishPct)
	}
	if snapshot.MentionsChangePct != 40.3 {
		t.Errorf("Expected detail deltas on the snapshot, got %v", snapshot.MentionsChangePct)
	}
	if len(st.news) != 1 || st.news[0].Title != "Shares rally" {
		t.Errorf("Expected news rows passed to the store, got %v", st.news)
	}
	if len(st.ratings) != 1 || st.ratings[0].Firm != "Morgan Stanley" {
		t.Errorf("Expected rating rows passed to the store, got %v", st.ratings)
	}
}

func TestRunFeedFailureIsFatal(t *testing.T) {
	st := &fakeStore{}
	p := happyParams(st)
	p.Feed = &fakeFeed{err: errors.New("feed down")}

	if _, err := New(p).Run(context.Background(), "2026-08-31"); err == nil {
		t.Fatal("Expected feed failure to abort the run")
	}
	if st.writes != 0 {
		t.Errorf("Expected no store write on feed failure, got %d", st.writes)
	}
}

func TestRunStoreFailureIsFatal(t *testing.T) {
	st := &fakeStore{err: errors.New("disk full")}

	if _, err := New(happyParams(st)).Run(context.Background(), "2026-08-31"); err == nil {
		t.Fatal("Expected store failure to abort the run")
	}
}

func TestRunSurvivesEnrichmentFailures(t *testing.T) {
	st := &fakeStore{}
	p := happyParams(st)
	p.Details = &fakeDetails{details: types.Details{LogoURL: details.PlaceholderLogoURL("GME")}}
	p.News = &fakeNews{err: errors.New("news down")}
	p.Ratings = &fakeRatings{err: errors.New("ratings down")}

	snapshot, err := New(p).Run(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("Expected degraded run to persist, got %v", err)
	}

	if st.writes != 1 {
		t.Fatalf("Expected the snapshot to be written anyway, got %d writes", st.writes)
	}
	if snapshot.MentionsChangePct != 0 {
		t.Errorf("Expected zero mention delta without detail data, got %v", snapshot.MentionsChangePct)
	}
	if len(st.news) != 0 || len(st.ratings) != 0 {
		t.Errorf("Expected empty child rows, got %d news / %d ratings", len(st.news), len(st.ratings))
	}
	// Counts still present on the candidate, so sentiment stays count-based
	if snapshot.SentimentBullishPct != 70 {
		t.Errorf("Expected count-based sentiment to survive, got %v", snapshot.SentimentBullishPct)
	}
}

func TestRunHeuristicSentimentWithoutCounts(t *testing.T) {
	st := &fakeStore{}
	p := happyParams(st)
	p.Feed = &fakeFeed{candidates: []types.Candidate{
		{Rank: 1, Ticker: "GME", Name: "GameStop Corp.", Mentions: 1543},
	}}
	p.Details = &fakeDetails{details: types.Details{MentionsChangePct: 200}}

	snapshot, err := New(p).Run(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("Expected run to succeed, got %v", err)
	}

	// 50 + 2*2.51 + clamp(0.1*200, -10, 10) = 65 (no jitter configured)
	if snapshot.SentimentBullishPct != 65 {
		t.Errorf("Expected heuristic sentiment 65, got %v", snapshot.SentimentBullishPct)
	}
	// No logo from details, so the placeholder kicks in
	if snapshot.LogoURL != details.PlaceholderLogoURL("GME") {
		t.Errorf("Expected placeholder logo, got %s", snapshot.LogoURL)
	}
}

func TestRunFallbackTickerWithoutQuote(t *testing.T) {
	st := &fakeStore{}
	p := happyParams(st)
	p.Feed = &fakeFeed{candidates: []types.Candidate{
		{Rank: 1, Ticker: "SPY", Name: "SPDR S&P 500"},
	}}
	p.Quotes = &fakeQuotes{quotes: map[string]*types.Quote{}}
	p.Details = &fakeDetails{details: types.Details{BullishPct: fp(64)}}

	snapshot, err := New(p).Run(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("Expected fallback run to succeed, got %v", err)
	}

	if snapshot.Ticker != "SPY" {
		t.Errorf("Expected rank-1 fallback SPY, got %s", snapshot.Ticker)
	}
	if snapshot.Price != 0 || snapshot.ChangePercent != 0 {
		t.Errorf("Expected zero price data without a quote, got $%.2f %+.2f%%", snapshot.Price, snapshot.ChangePercent)
	}
	// No price data means the heuristic tier is skipped: the detail value rules
	if snapshot.SentimentBullishPct != 64 {
		t.Errorf("Expected detail-page sentiment 64, got %v", snapshot.SentimentBullishPct)
	}
}
