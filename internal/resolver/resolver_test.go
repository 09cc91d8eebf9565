package resolver

import (
	"context"
	"fmt"
	"testing"

	"daily-buzz/internal/types"
)

type fakeQuotes struct {
	quotes map[string]*types.Quote
	calls  []string
}

func (f *fakeQuotes) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	f.calls = append(f.calls, symbol)
	if q, ok := f.quotes[symbol]; ok {
		return q, nil
	}
	return nil, fmt.Errorf("symbol %s not found", symbol)
}

func candidates(tickers ...string) []types.Candidate {
	out := make([]types.Candidate, 0, len(tickers))
	for i, ticker := range tickers {
		out = append(out, types.Candidate{Rank: i + 1, Ticker: ticker, Name: ticker + " Inc"})
	}
	return out
}

func TestSelectsFirstEquity(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]*types.Quote{
		"SPY":  {Symbol: "SPY", Type: types.InstrumentETF},
		"GME":  {Symbol: "GME", Type: types.InstrumentEquity, LongName: "GameStop Corp"},
		"AAPL": {Symbol: "AAPL", Type: types.InstrumentEquity},
	}}

	resolved, err := Resolve(context.Background(), candidates("SPY", "GME", "AAPL"), quotes)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resolved.Symbol != "GME" {
		t.Errorf("Expected first equity GME, got %s", resolved.Symbol)
	}
	if resolved.Candidate.Rank != 2 {
		t.Errorf("Expected rank 2 candidate, got %d", resolved.Candidate.Rank)
	}
	if len(quotes.calls) != 2 {
		t.Errorf("Expected resolution to stop at the first equity (2 lookups), got %d", len(quotes.calls))
	}
}

func TestSkipsFailedLookups(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]*types.Quote{
		"TSLA": {Symbol: "TSLA", Type: types.InstrumentEquity},
	}}

	resolved, err := Resolve(context.Background(), candidates("BOGUS", "TSLA"), quotes)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resolved.Symbol != "TSLA" {
		t.Errorf("Expected TSLA after skipping failed lookup, got %s", resolved.Symbol)
	}
}

func TestFallsBackToRankOne(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]*types.Quote{
		"SPY": {Symbol: "SPY", Type: types.InstrumentETF},
		"QQQ": {Symbol: "QQQ", Type: types.InstrumentETF},
	}}

	resolved, err := Resolve(context.Background(), candidates("SPY", "QQQ"), quotes)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resolved.Symbol != "SPY" {
		t.Errorf("Expected rank-1 fallback SPY, got %s", resolved.Symbol)
	}
	if resolved.Type != types.InstrumentETF {
		t.Errorf("Expected fallback to keep the non-equity type, got %s", resolved.Type)
	}
}

func TestFallsBackWhenAllLookupsFail(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]*types.Quote{}}

	resolved, err := Resolve(context.Background(), candidates("AAA", "BBB"), quotes)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resolved.Symbol != "AAA" {
		t.Errorf("Expected rank-1 candidate AAA, got %s", resolved.Symbol)
	}
	if resolved.Quote != nil {
		t.Error("Expected no quote when every lookup failed")
	}
}

func TestStripsExchangePrefix(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]*types.Quote{
		"NVDA": {Symbol: "NVDA", Type: types.InstrumentEquity},
	}}

	resolved, err := Resolve(context.Background(), candidates("NASDAQ:NVDA"), quotes)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resolved.Symbol != "NVDA" {
		t.Errorf("Expected prefix-stripped NVDA, got %s", resolved.Symbol)
	}
}

func TestEmptyCandidatesFails(t *testing.T) {
	_, err := Resolve(context.Background(), nil, &fakeQuotes{})
	if err == nil {
		t.Fatal("Expected error for empty candidate list")
	}
}

func TestStripExchangePrefix(t *testing.T) {
	cases := map[string]string{
		"NASDAQ:TSLA": "TSLA",
		"NYSE:GME":    "GME",
		"AMEX:SPY":    "SPY",
		"AAPL":        "AAPL",
		"BSE:RELI":    "BSE:RELI", // unknown exchange stays as-is
	}
	for in, want := range cases {
		if got := StripExchangePrefix(in); got != want {
			t.Errorf("StripExchangePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanNameDecodesAmpersands(t *testing.T) {
	if got := CleanName("Procter &amp; Gamble"); got != "Procter & Gamble" {
		t.Errorf("Expected decoded ampersand, got %q", got)
	}
}
