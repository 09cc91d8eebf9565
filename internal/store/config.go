package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration for one pipeline run
type Config struct {
	Feed struct {
		URL string `yaml:"url"`
	} `yaml:"feed"`
	Yahoo struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"yahoo"`
	Details struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"details"`
	News struct {
		Limit int `yaml:"limit"`
	} `yaml:"news"`
	Ratings struct {
		PageURL string `yaml:"page_url"`
		Limit   int    `yaml:"limit"`
	} `yaml:"ratings"`
	HTTP struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
	} `yaml:"http"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
}

func (c *Config) Validate() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("feed.url cannot be empty")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.News.Limit <= 0 || c.News.Limit > 50 {
		return fmt.Errorf("news.limit must be between 1-50, got %d", c.News.Limit)
	}
	if c.Ratings.Limit <= 0 || c.Ratings.Limit > 10 {
		return fmt.Errorf("ratings.limit must be between 1-10, got %d", c.Ratings.Limit)
	}
	return nil
}

// LoadConfig reads and validates the yaml configuration.
// A missing database path is not an error: the caller falls back to a local
// placeholder file so a misconfigured deployment still produces output.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Feed.URL == "" {
		c.Feed.URL = "https://apewisdom.io/api/v1.0/filter/all-stocks/page/1"
	}
	if c.Yahoo.BaseURL == "" {
		c.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Details.BaseURL == "" {
		c.Details.BaseURL = "https://apewisdom.io"
	}
	if c.News.Limit == 0 {
		c.News.Limit = 5
	}
	if c.Ratings.PageURL == "" {
		c.Ratings.PageURL = "https://stockanalysis.com/stocks/%s/ratings/"
	}
	if c.Ratings.Limit == 0 {
		c.Ratings.Limit = 4
	}
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = 20
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
