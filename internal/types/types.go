package types

// InstrumentType classifies what kind of instrument a ticker refers to
type InstrumentType string

const (
	InstrumentEquity InstrumentType = "EQUITY"
	InstrumentETF    InstrumentType = "ETF"
	InstrumentOther  InstrumentType = "OTHER"
)

// Candidate is one ranked ticker mention from the social feed, pre-resolution.
// Sentiment fields are optional: the feed frequently returns null for all three.
type Candidate struct {
	Rank           int      `json:"rank"`
	Ticker         string   `json:"ticker"`
	Name           string   `json:"name"`
	Mentions       int      `json:"mentions"`
	Upvotes        int      `json:"upvotes"`
	Mentions24hAgo int      `json:"mentions_24h_ago"`
	Upvotes24hAgo  int      `json:"upvotes_24h_ago"`
	Sentiment      *float64 `json:"sentiment"`
	SentimentPos   *float64 `json:"sentiment_pos"`
	SentimentNeg   *float64 `json:"sentiment_neg"`
}

// Quote is a single symbol lookup result from the quote service
type Quote struct {
	Symbol        string
	Price         float64
	PreviousClose float64
	ChangePercent float64
	Type          InstrumentType
	LongName      string
}

// ResolvedTicker is the single symbol chosen for the day's snapshot.
// Quote is nil when the rank-1 fallback fired and its lookup also failed.
type ResolvedTicker struct {
	Symbol    string
	Name      string
	Type      InstrumentType
	Candidate Candidate
	Quote     *Quote
}

// Details holds the community stats scraped from the ticker detail page.
// BullishPct is nil when the whole page fetch failed; when the page loaded
// but the sentiment tile was missing it holds the neutral default.
type Details struct {
	MentionsChangePct float64
	UpvotesChangePct  float64
	BullishPct        *float64
	LogoURL           string
}

// NewsHeadline is one related news item, pre-persistence
type NewsHeadline struct {
	Title         string
	Publisher     string
	Link          string
	PublishedDate string // YYYY-MM-DD
}

// RatingEntry is one analyst rating, pre-persistence
type RatingEntry struct {
	Firm        string
	Rating      string
	TargetPrice float64
	RatingDate  string // YYYY-MM-DD
}
