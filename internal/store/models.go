package store

import "time"

// DailySnapshot is the canonical persisted record: one row per calendar date
type DailySnapshot struct {
	ID                  uint   `json:"id" gorm:"primaryKey"`
	Date                string `json:"date" gorm:"uniqueIndex;size:10"` // YYYY-MM-DD
	Ticker              string `json:"ticker" gorm:"size:20"`
	Name                string `json:"name"`
	LogoURL             string `json:"logo_url"`
	Price               float64 `json:"price"`
	ChangePercent       float64 `json:"change_percent"`
	MentionsCount       int     `json:"mentions_count"`
	UpvotesCount        int     `json:"upvotes_count"`
	MentionsChangePct   float64 `json:"mentions_change"`
	UpvotesChangePct    float64 `json:"upvotes_change"`
	SentimentBullishPct float64 `json:"sentiment_bullish"`
	SentimentBearishPct float64 `json:"sentiment_bearish"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	News    []NewsItem      `json:"news,omitempty" gorm:"foreignKey:SnapshotID"`
	Ratings []AnalystRating `json:"ratings,omitempty" gorm:"foreignKey:SnapshotID"`
}

// NewsItem is one related news row, owned by exactly one snapshot
type NewsItem struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	SnapshotID    uint   `json:"snapshot_id" gorm:"index"`
	Publisher     string `json:"publisher"`
	Title         string `json:"title"`
	Link          string `json:"link"`
	PublishedDate string `json:"published_at" gorm:"size:10"`
}

// AnalystRating is one analyst rating row, owned by exactly one snapshot
type AnalystRating struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	SnapshotID  uint    `json:"snapshot_id" gorm:"index"`
	Firm        string  `json:"firm"`
	Rating      string  `json:"rating"`
	TargetPrice float64 `json:"target_price"`
	RatingDate  string  `json:"date" gorm:"size:10"`
}
