package ratings

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"daily-buzz/internal/api"
	"daily-buzz/internal/logger"
	"daily-buzz/internal/types"
)

// Adapter fetches recent analyst ratings for a symbol. Two interchangeable
// strategies: scraping a ratings page, then the upgrade/downgrade history
// feed as fallback. Whichever is reachable first wins; both failing is
// non-fatal and yields no ratings.
type Adapter struct {
	client       *api.Client
	pageURL      string // printf template with one %s for the symbol
	yahooBaseURL string
	timeout      time.Duration
}

// New creates an analyst-ratings adapter
func New(client *api.Client, pageURL, yahooBaseURL string, timeout time.Duration) *Adapter {
	return &Adapter{
		client:       client,
		pageURL:      pageURL,
		yahooBaseURL: yahooBaseURL,
		timeout:      timeout,
	}
}

// FetchRatings returns up to limit ratings, most recent first
func (a *Adapter) FetchRatings(ctx context.Context, symbol string, limit int) ([]types.RatingEntry, error) {
	entries, err := a.scrapeRatingsPage(ctx, symbol)
	if err != nil || len(entries) == 0 {
		if err != nil {
			logger.Warn(ctx, "Ratings page scrape failed, trying history feed", "symbol", symbol, "error", err)
		}
		entries, err = a.fetchGradeHistory(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("all rating sources failed for %s: %w", symbol, err)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RatingDate > entries[j].RatingDate
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	logger.Info(ctx, "Collected analyst ratings", "symbol", symbol, "count", len(entries))
	return entries, nil
}

var targetPricePattern = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)`)

// scrapeRatingsPage extracts firm/rating/target/date rows from the ratings
// table of the configured page
func (a *Adapter) scrapeRatingsPage(ctx context.Context, symbol string) ([]types.RatingEntry, error) {
	pageURL := fmt.Sprintf(a.pageURL, strings.ToLower(url.PathEscape(symbol)))

	c := colly.NewCollector(colly.MaxDepth(1))
	c.SetRequestTimeout(a.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	entries := []types.RatingEntry{}
	c.OnHTML("table tbody tr", func(e *colly.HTMLElement) {
		cells := []string{}
		e.ForEach("td", func(_ int, el *colly.HTMLElement) {
			cells = append(cells, strings.TrimSpace(el.Text))
		})
		if entry, ok := parseRatingRow(cells); ok {
			entries = append(entries, entry)
		}
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	c.Wait()

	if visitErr != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, visitErr)
	}
	return entries, nil
}

// parseRatingRow interprets one table row: firm and rating from the first
// two cells, target price from the first dollar figure, date from the first
// cell that parses as one
func parseRatingRow(cells []string) (types.RatingEntry, bool) {
	if len(cells) < 3 || cells[0] == "" {
		return types.RatingEntry{}, false
	}

	entry := types.RatingEntry{
		Firm:   cells[0],
		Rating: cells[1],
	}

	for _, cell := range cells[1:] {
		if entry.TargetPrice == 0 {
			if m := targetPricePattern.FindStringSubmatch(cell); m != nil {
				if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil && v >= 0 {
					entry.TargetPrice = v
				}
			}
		}
		if entry.RatingDate == "" {
			if date, ok := parseRatingDate(cell); ok {
				entry.RatingDate = date
			}
		}
	}

	if entry.Rating == "" || entry.RatingDate == "" {
		return types.RatingEntry{}, false
	}
	return entry, true
}

var ratingDateFormats = []string{
	"Jan 2, 2006",
	"Jan 02, 2006",
	"2006-01-02",
	"01/02/2006",
}

func parseRatingDate(cell string) (string, bool) {
	for _, format := range ratingDateFormats {
		if t, err := time.Parse(format, cell); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

type gradeHistoryResponse struct {
	QuoteSummary struct {
		Result []struct {
			UpgradeDowngradeHistory struct {
				History []struct {
					EpochGradeDate int64  `json:"epochGradeDate"`
					Firm           string `json:"firm"`
					ToGrade        string `json:"toGrade"`
					Action         string `json:"action"`
				} `json:"history"`
			} `json:"upgradeDowngradeHistory"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// fetchGradeHistory pulls the upgrade/downgrade feed. It carries no target
// prices, so those stay zero.
func (a *Adapter) fetchGradeHistory(ctx context.Context, symbol string) ([]types.RatingEntry, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=upgradeDowngradeHistory", a.yahooBaseURL, url.PathEscape(symbol))

	resp, err := a.client.GET(ctx, endpoint, api.YahooFinanceHeaders())
	if err != nil {
		return nil, fmt.Errorf("grade history for %s failed: %w", symbol, err)
	}

	var payload gradeHistoryResponse
	if err := resp.ParseJSON(&payload); err != nil {
		return nil, fmt.Errorf("grade history for %s returned malformed payload: %w", symbol, err)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no grade history for %s", symbol)
	}

	history := payload.QuoteSummary.Result[0].UpgradeDowngradeHistory.History
	entries := make([]types.RatingEntry, 0, len(history))
	for _, h := range history {
		if h.Firm == "" || h.ToGrade == "" {
			continue
		}
		entries = append(entries, types.RatingEntry{
			Firm:       h.Firm,
			Rating:     h.ToGrade,
			RatingDate: time.Unix(h.EpochGradeDate, 0).UTC().Format("2006-01-02"),
		})
	}
	return entries, nil
}
