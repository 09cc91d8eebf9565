package details

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"daily-buzz/internal/api"
	"daily-buzz/internal/logger"
	"daily-buzz/internal/types"
)

const neutralBullishPct = 50.0

var percentPattern = regexp.MustCompile(`([+-]?[\d,.]+)\s*%`)

// Adapter scrapes community stats (mention/upvote deltas, sentiment) from the
// ticker detail page and resolves a logo URL. Every field is best-effort:
// whatever cannot be extracted comes back defaulted, the call never fails.
type Adapter struct {
	client       *api.Client
	pageBaseURL  string
	yahooBaseURL string
}

// New creates a detail-page adapter
func New(client *api.Client, pageBaseURL, yahooBaseURL string) *Adapter {
	return &Adapter{client: client, pageBaseURL: pageBaseURL, yahooBaseURL: yahooBaseURL}
}

// FetchDetails scrapes the detail page for a symbol. A dead page yields the
// full default set: zero deltas, nil sentiment, placeholder logo.
func (a *Adapter) FetchDetails(ctx context.Context, symbol string) types.Details {
	d := types.Details{
		LogoURL: a.fetchLogoURL(ctx, symbol),
	}

	pageURL := fmt.Sprintf("%s/stocks/%s/", a.pageBaseURL, url.PathEscape(symbol))
	resp, err := a.client.GET(ctx, pageURL, api.BrowserHeaders())
	if err != nil {
		logger.Warn(ctx, "Detail page unavailable, using defaults", "symbol", symbol, "error", err)
		return d
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		logger.Warn(ctx, "Detail page unparsable, using defaults", "symbol", symbol, "error", err)
		return d
	}

	if raw, ok := findLabeledValue(doc, "Mentions"); ok {
		d.MentionsChangePct = parsePercent(raw)
	}
	if raw, ok := findLabeledValue(doc, "Upvotes"); ok {
		d.UpvotesChangePct = parsePercent(raw)
	}

	// The page loaded: sentiment is now present even if the tile is missing,
	// so the reconciler can distinguish "page said neutral" from "no page".
	bullish := neutralBullishPct
	if raw, ok := findLabeledValue(doc, "Sentiment"); ok {
		bullish = parsePercent(raw)
	}
	d.BullishPct = &bullish

	return d
}

// findLabeledValue locates a stat by its label text and returns the nearest
// percentage figure. The page renders the same stat in two shapes: a tile with
// a nested title element and the value elsewhere in the tile, or a bare label
// whose value sits in the surrounding element's text. Shapes are tried in
// that order.
func findLabeledValue(doc *goquery.Document, label string) (string, bool) {
	var surrounding string

	doc.Find(".tile-title").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(s.Text(), label) {
			return true
		}
		if tile := s.Closest(".details-small-tile"); tile.Length() > 0 {
			surrounding = tile.Text()
		} else {
			surrounding = s.Parent().Text()
		}
		return false
	})

	if surrounding == "" {
		// bare-text shape: the label is not in a title element at all
		doc.Find("div,span,td,dt").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if !strings.Contains(s.Text(), label) {
				return true
			}
			if candidate := s.Parent().Text(); percentPattern.MatchString(candidate) {
				surrounding = candidate
				return false
			}
			return true
		})
	}

	if m := percentPattern.FindStringSubmatch(surrounding); m != nil {
		return m[1], true
	}
	return "", false
}

// parsePercent converts a scraped figure like "+1,234.5" to a float
func parsePercent(raw string) float64 {
	cleaned := strings.NewReplacer(",", "", "+", "").Replace(raw)
	var v float64
	if _, err := fmt.Sscanf(cleaned, "%f", &v); err != nil {
		return 0
	}
	return v
}

type profileResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryProfile struct {
				Website string `json:"website"`
			} `json:"summaryProfile"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// fetchLogoURL resolves a company logo from its official website domain,
// falling back to an initials avatar when no profile is available
func (a *Adapter) fetchLogoURL(ctx context.Context, symbol string) string {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryProfile", a.yahooBaseURL, url.PathEscape(symbol))

	resp, err := a.client.GET(ctx, endpoint, api.YahooFinanceHeaders())
	if err == nil {
		var payload profileResponse
		if err := resp.ParseJSON(&payload); err == nil && len(payload.QuoteSummary.Result) > 0 {
			if website := payload.QuoteSummary.Result[0].SummaryProfile.Website; website != "" {
				if domain := logoDomain(website); domain != "" {
					return "https://logo.clearbit.com/" + domain
				}
			}
		}
		return fmt.Sprintf("https://logo.clearbit.com/%s.com", strings.ToLower(symbol))
	}

	return PlaceholderLogoURL(symbol)
}

// logoDomain extracts the bare company domain from a profile website URL
func logoDomain(website string) string {
	u, err := url.Parse(website)
	if err != nil {
		return ""
	}
	domain := u.Hostname()
	for _, prefix := range []string{"www.", "investor.", "ir."} {
		domain = strings.TrimPrefix(domain, prefix)
	}
	return domain
}

// PlaceholderLogoURL builds an initials-based avatar for symbols with no logo
func PlaceholderLogoURL(symbol string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=10b981&color=fff", url.QueryEscape(symbol))
}
