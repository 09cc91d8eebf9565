package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"daily-buzz/internal/api"
	"daily-buzz/internal/details"
	"daily-buzz/internal/feed"
	"daily-buzz/internal/logger"
	"daily-buzz/internal/news"
	"daily-buzz/internal/pipeline"
	"daily-buzz/internal/quote"
	"daily-buzz/internal/ratings"
	"daily-buzz/internal/sentiment"
	"daily-buzz/internal/store"
)

func main() {
	// Load environment variables
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if err := run(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Daily run failed", err)
		_ = logger.Shutdown(ctx)
		os.Exit(1)
	}

	_ = logger.Shutdown(ctx)
}

func run(ctx context.Context) error {
	configPath := os.Getenv("DAILY_BUZZ_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbPath := cfg.Database.Path
	if v := os.Getenv("DAILY_BUZZ_DB"); v != "" {
		dbPath = v
	}
	if dbPath == "" {
		logger.Warn(ctx, "No database path configured, writing to local placeholder file")
		dbPath = "daily_buzz.db"
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	client := api.NewClient(
		api.WithTimeout(timeout),
		api.WithLogging(true),
	)

	pl := pipeline.New(pipeline.Params{
		Feed:         feed.New(client, cfg.Feed.URL),
		Quotes:       quote.New(client, cfg.Yahoo.BaseURL),
		Details:      details.New(client, cfg.Details.BaseURL, cfg.Yahoo.BaseURL),
		News:         news.New(client, cfg.Yahoo.BaseURL),
		Ratings:      ratings.New(client, cfg.Ratings.PageURL, cfg.Yahoo.BaseURL, timeout),
		Store:        store.NewWriter(db),
		NewsLimit:    cfg.News.Limit,
		RatingsLimit: cfg.Ratings.Limit,
		Jitter:       sentiment.TimeJitter(),
	})

	date := time.Now().UTC().Format("2006-01-02")
	snapshot, err := pl.Run(ctx, date)
	if err != nil {
		return err
	}

	logger.Info(ctx, "Daily run complete",
		"date", date,
		"ticker", snapshot.Ticker,
		"price", snapshot.Price,
		"bullish", snapshot.SentimentBullishPct,
	)
	return nil
}
