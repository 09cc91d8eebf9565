package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"daily-buzz/internal/store"
)

// show prints the latest persisted snapshot: the read side the display
// layer consumes, usable from a terminal.
func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("DAILY_BUZZ_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	dbPath := cfg.Database.Path
	if v := os.Getenv("DAILY_BUZZ_DB"); v != "" {
		dbPath = v
	}
	if dbPath == "" {
		dbPath = "daily_buzz.db"
	}

	db, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}

	writer := store.NewWriter(db)

	snapshot, err := writer.Latest(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "No snapshot available: %v\n", err)
		os.Exit(1)
	}

	printSnapshot(snapshot)
}

func printSnapshot(s *store.DailySnapshot) {
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("  %s — most discussed stock for %s\n", s.Ticker, s.Date)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("  Name:       %s\n", s.Name)
	fmt.Printf("  Price:      $%.2f (%+.2f%%)\n", s.Price, s.ChangePercent)
	fmt.Printf("  Mentions:   %d (%+.1f%%)\n", s.MentionsCount, s.MentionsChangePct)
	fmt.Printf("  Upvotes:    %d (%+.1f%%)\n", s.UpvotesCount, s.UpvotesChangePct)
	fmt.Printf("  Sentiment:  %.0f%% bullish / %.0f%% bearish\n", s.SentimentBullishPct, s.SentimentBearishPct)
	fmt.Printf("  Logo:       %s\n", s.LogoURL)

	if len(s.News) > 0 {
		fmt.Println()
		fmt.Println("  Related News")
		fmt.Println("  ─────────────────────────────────────────────────────────")
		for _, n := range s.News {
			fmt.Printf("  • [%s] %s (%s)\n", n.PublishedDate, n.Title, n.Publisher)
			fmt.Printf("    %s\n", n.Link)
		}
	}

	if len(s.Ratings) > 0 {
		fmt.Println()
		fmt.Println("  Analyst Ratings")
		fmt.Println("  ─────────────────────────────────────────────────────────")
		for _, r := range s.Ratings {
			if r.TargetPrice > 0 {
				fmt.Printf("  • %-20s %-12s $%.2f  (%s)\n", r.Firm, r.Rating, r.TargetPrice, r.RatingDate)
			} else {
				fmt.Printf("  • %-20s %-12s         (%s)\n", r.Firm, r.Rating, r.RatingDate)
			}
		}
	}

	fmt.Println("═══════════════════════════════════════════════════════════════")
}
