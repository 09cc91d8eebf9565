package quote

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"daily-buzz/internal/api"
	"daily-buzz/internal/types"
)

// Adapter wraps the Yahoo Finance quote service. Lookup failures are
// transient source errors: the resolver skips the candidate and moves on.
type Adapter struct {
	client  *api.Client
	baseURL string
}

// New creates a quote adapter against the given Yahoo-compatible base URL
func New(client *api.Client, baseURL string) *Adapter {
	return &Adapter{client: client, baseURL: baseURL}
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			QuoteType                  string  `json:"quoteType"`
			LongName                   string  `json:"longName"`
			ShortName                  string  `json:"shortName"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
			RegularMarketChangePct     float64 `json:"regularMarketChangePercent"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteResponse"`
}

// Quote looks up one symbol: price, previous close, instrument type, long name
func (a *Adapter) Quote(ctx context.Context, symbol string) (*types.Quote, error) {
	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", a.baseURL, url.QueryEscape(symbol))

	resp, err := a.client.GET(ctx, endpoint, api.YahooFinanceHeaders())
	if err != nil {
		return nil, fmt.Errorf("quote lookup for %s failed: %w", symbol, err)
	}

	var payload quoteResponse
	if err := resp.ParseJSON(&payload); err != nil {
		return nil, fmt.Errorf("quote lookup for %s returned malformed payload: %w", symbol, err)
	}
	if len(payload.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("symbol %s not found", symbol)
	}

	r := payload.QuoteResponse.Result[0]

	name := r.LongName
	if name == "" {
		name = r.ShortName
	}

	changePct := r.RegularMarketChangePct
	if changePct == 0 && r.RegularMarketPrice > 0 && r.RegularMarketPreviousClose > 0 {
		changePct = (r.RegularMarketPrice - r.RegularMarketPreviousClose) / r.RegularMarketPreviousClose * 100
	}
	if math.IsInf(changePct, 0) || math.IsNaN(changePct) {
		changePct = 0
	}

	return &types.Quote{
		Symbol:        symbol,
		Price:         r.RegularMarketPrice,
		PreviousClose: r.RegularMarketPreviousClose,
		ChangePercent: changePct,
		Type:          classify(r.QuoteType),
		LongName:      name,
	}, nil
}

func classify(quoteType string) types.InstrumentType {
	switch quoteType {
	case "EQUITY":
		return types.InstrumentEquity
	case "ETF":
		return types.InstrumentETF
	default:
		return types.InstrumentOther
	}
}
