package resolver

import (
	"context"
	"fmt"
	"strings"

	"daily-buzz/internal/interfaces"
	"daily-buzz/internal/logger"
	"daily-buzz/internal/types"
)

var exchangePrefixes = []string{"NASDAQ:", "NYSE:", "AMEX:"}

// Resolve folds over the ranked candidates and picks the first one whose
// quote lookup reports a tradable equity, skipping ETFs and other instrument
// types. A failed lookup abandons that candidate only. When no candidate
// resolves to an equity the rank-1 candidate is selected unconditionally so
// every run produces exactly one result.
func Resolve(ctx context.Context, candidates []types.Candidate, quotes interfaces.QuoteFetcher) (*types.ResolvedTicker, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates to resolve")
	}

	for _, candidate := range candidates {
		symbol := StripExchangePrefix(candidate.Ticker)

		q, err := quotes.Quote(ctx, symbol)
		if err != nil {
			logger.Warn(ctx, "Could not validate candidate, skipping", "symbol", symbol, "rank", candidate.Rank, "error", err)
			continue
		}

		if q.Type != types.InstrumentEquity {
			logger.Info(ctx, "Skipping non-equity candidate", "symbol", symbol, "type", string(q.Type))
			continue
		}

		logger.Info(ctx, "Resolved target equity", "symbol", symbol, "name", q.LongName, "rank", candidate.Rank)
		return &types.ResolvedTicker{
			Symbol:    symbol,
			Name:      displayName(candidate, q),
			Type:      q.Type,
			Candidate: candidate,
			Quote:     q,
		}, nil
	}

	// No equity anywhere in the list: fall back to rank 1, whatever it is.
	fallback := candidates[0]
	symbol := StripExchangePrefix(fallback.Ticker)
	logger.Warn(ctx, "No equity found in candidate list, falling back to rank 1", "symbol", symbol)

	resolved := &types.ResolvedTicker{
		Symbol:    symbol,
		Name:      CleanName(fallback.Name),
		Type:      types.InstrumentOther,
		Candidate: fallback,
	}
	if q, err := quotes.Quote(ctx, symbol); err == nil {
		resolved.Quote = q
		resolved.Type = q.Type
		resolved.Name = displayName(fallback, q)
	}
	return resolved, nil
}

func displayName(candidate types.Candidate, q *types.Quote) string {
	if name := CleanName(candidate.Name); name != "" {
		return name
	}
	return q.LongName
}

// StripExchangePrefix removes a leading exchange qualifier from a raw ticker
func StripExchangePrefix(ticker string) string {
	for _, prefix := range exchangePrefixes {
		if strings.HasPrefix(ticker, prefix) {
			return strings.TrimPrefix(ticker, prefix)
		}
	}
	return ticker
}

// CleanName decodes escaped ampersands the feed leaves in company names
func CleanName(name string) string {
	return strings.ReplaceAll(name, "&amp;", "&")
}
