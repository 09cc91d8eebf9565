package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *Writer {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return NewWriter(db)
}

func sampleSnapshot(date string) *DailySnapshot {
	return &DailySnapshot{
		Date:                date,
		Ticker:              "GME",
		Name:                "GameStop Corp.",
		LogoURL:             "https://logo.clearbit.com/gamestop.com",
		Price:               24.50,
		ChangePercent:       2.51,
		MentionsCount:       1543,
		UpvotesCount:        8921,
		MentionsChangePct:   40.3,
		UpvotesChangePct:    18.9,
		SentimentBullishPct: 70,
		SentimentBearishPct: 30,
	}
}

func TestWriteAndReadBack(t *testing.T) {
	writer := openTestDB(t)
	ctx := context.Background()

	news := []NewsItem{
		{Title: "Shares rally", Publisher: "Reuters", Link: "https://example.com/a", PublishedDate: "2026-08-30"},
	}
	ratings := []AnalystRating{
		{Firm: "Morgan Stanley", Rating: "Overweight", TargetPrice: 30, RatingDate: "2026-08-25"},
	}

	if err := writer.Write(ctx, sampleSnapshot("2026-08-31"), news, ratings); err != nil {
		t.Fatalf("Expected write to succeed, got %v", err)
	}

	got, err := writer.ByDate(ctx, "2026-08-31")
	if err != nil {
		t.Fatalf("Expected read-back to succeed, got %v", err)
	}
	if got.Ticker != "GME" || got.Price != 24.50 {
		t.Errorf("Unexpected snapshot: %s $%.2f", got.Ticker, got.Price)
	}
	if len(got.News) != 1 || got.News[0].Title != "Shares rally" {
		t.Errorf("Expected one news row, got %v", got.News)
	}
	if len(got.Ratings) != 1 || got.Ratings[0].Firm != "Morgan Stanley" {
		t.Errorf("Expected one rating row, got %v", got.Ratings)
	}
}

func TestWriteOverwritesSameDate(t *testing.T) {
	writer := openTestDB(t)
	ctx := context.Background()

	first := sampleSnapshot("2026-08-31")
	firstNews := []NewsItem{
		{Title: "Old headline A", Publisher: "Reuters", Link: "https://example.com/a", PublishedDate: "2026-08-30"},
		{Title: "Old headline B", Publisher: "WSJ", Link: "https://example.com/b", PublishedDate: "2026-08-30"},
	}
	if err := writer.Write(ctx, first, firstNews, nil); err != nil {
		t.Fatalf("First write failed: %v", err)
	}

	second := sampleSnapshot("2026-08-31")
	second.Ticker = "TSLA"
	second.Price = 310.0
	secondNews := []NewsItem{
		{Title: "New headline", Publisher: "Bloomberg", Link: "https://example.com/c", PublishedDate: "2026-08-31"},
	}
	secondRatings := []AnalystRating{
		{Firm: "UBS", Rating: "Buy", TargetPrice: 350, RatingDate: "2026-08-29"},
	}
	if err := writer.Write(ctx, second, secondNews, secondRatings); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("Expected the re-run to reuse row %d, got %d", first.ID, second.ID)
	}

	got, err := writer.ByDate(ctx, "2026-08-31")
	if err != nil {
		t.Fatalf("Read-back failed: %v", err)
	}

	if got.Ticker != "TSLA" || got.Price != 310.0 {
		t.Errorf("Expected second run to overwrite the row, got %s $%.2f", got.Ticker, got.Price)
	}
	if len(got.News) != 1 || got.News[0].Title != "New headline" {
		t.Errorf("Expected only the second run's news, got %v", got.News)
	}
	if len(got.Ratings) != 1 || got.Ratings[0].Firm != "UBS" {
		t.Errorf("Expected only the second run's ratings, got %v", got.Ratings)
	}

	var count int64
	if err := writer.db.Model(&DailySnapshot{}).Count(&count).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one row per date, got %d", count)
	}
}

func TestWriteEmptyChildren(t *testing.T) {
	writer := openTestDB(t)
	ctx := context.Background()

	if err := writer.Write(ctx, sampleSnapshot("2026-08-31"), nil, nil); err != nil {
		t.Fatalf("Expected write without children to succeed, got %v", err)
	}

	got, err := writer.ByDate(ctx, "2026-08-31")
	if err != nil {
		t.Fatalf("Read-back failed: %v", err)
	}
	if len(got.News) != 0 || len(got.Ratings) != 0 {
		t.Errorf("Expected no children, got %d news / %d ratings", len(got.News), len(got.Ratings))
	}
}

func TestWriteRejectsEmptyDate(t *testing.T) {
	writer := openTestDB(t)

	if err := writer.Write(context.Background(), &DailySnapshot{Ticker: "GME"}, nil, nil); err == nil {
		t.Fatal("Expected error for empty date")
	}
}

func TestLatest(t *testing.T) {
	writer := openTestDB(t)
	ctx := context.Background()

	for _, date := range []string{"2026-08-29", "2026-08-31", "2026-08-30"} {
		s := sampleSnapshot(date)
		if err := writer.Write(ctx, s, nil, nil); err != nil {
			t.Fatalf("Write for %s failed: %v", date, err)
		}
	}

	got, err := writer.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got.Date != "2026-08-31" {
		t.Errorf("Expected latest snapshot 2026-08-31, got %s", got.Date)
	}
}

func TestLatestEmptyStore(t *testing.T) {
	writer := openTestDB(t)

	if _, err := writer.Latest(context.Background()); err == nil {
		t.Fatal("Expected error on an empty store")
	}
}
