package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
// Storage credentials are checked here so a misconfigured run fails at
// startup instead of partway through a cycle.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return errors.New("tickers: at least one symbol is required")
	}
	for i, t := range c.Tickers {
		if t.Symbol == "" {
			return fmt.Errorf("tickers[%d].symbol is required", i)
		}
	}

	if c.API.NewsKey == "" {
		return errors.New("api.news_key is required")
	}
	if c.API.MaxRateRetries < 1 {
		return errors.New("api.max_rate_retries must be >= 1")
	}
	if c.API.NewsPacing < 0 || c.API.SocialPacing < 0 {
		return errors.New("api pacing intervals must be >= 0")
	}

	switch c.Storage.Backend {
	case "csv":
		if c.Storage.CSV.Dir == "" {
			return errors.New("storage.csv.dir is required")
		}
	case "postgres":
		if err := c.Storage.Postgres.validate("storage.postgres"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("storage.backend must be \"csv\" or \"postgres\", got %q", c.Storage.Backend)
	}

	if _, err := time.Parse("2006-01-02", c.Ingest.PriceStart); err != nil {
		return fmt.Errorf("ingest.price_start must be YYYY-MM-DD, got %q", c.Ingest.PriceStart)
	}
	if _, err := time.Parse("15:04", c.Ingest.DailyAt); err != nil {
		return fmt.Errorf("ingest.daily_at must be HH:MM, got %q", c.Ingest.DailyAt)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
