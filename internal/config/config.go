package config

import "time"

// Config is the root configuration for the stockfeed pipeline.
type Config struct {
	Tickers []TickerConfig `yaml:"tickers"`
	API     APIConfig      `yaml:"api"`
	Storage StorageConfig  `yaml:"storage"`
	Ingest  IngestConfig   `yaml:"ingest"`
	Logging LoggingConfig  `yaml:"logging"`
}

// TickerConfig names one symbol in the universe together with the relevance
// keywords the news cleaning pass matches against.
type TickerConfig struct {
	Symbol   string   `yaml:"symbol"`
	Keywords []string `yaml:"keywords"`
}

// APIConfig holds upstream API settings.
type APIConfig struct {
	NewsURL   string `yaml:"news_url"`
	NewsKey   string `yaml:"news_key"` // supports ${VAR} expansion
	SocialURL string `yaml:"social_url"`
	PriceURL  string `yaml:"price_url"`

	Timeout        time.Duration `yaml:"timeout"`
	NewsPageSize   int           `yaml:"news_page_size"`
	SocialPageSize int           `yaml:"social_page_size"`

	// NewsPacing is the minimum wait between successive news pages, sized to
	// stay under the published per-minute quota.
	NewsPacing   time.Duration `yaml:"news_pacing"`
	SocialPacing time.Duration `yaml:"social_pacing"`

	// RateLimitWait is the cool-down after an HTTP 429 before the same page
	// is retried; MaxRateRetries bounds how often that may happen per page.
	RateLimitWait  time.Duration `yaml:"rate_limit_wait"`
	MaxRateRetries int           `yaml:"max_rate_retries"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend  string    `yaml:"backend"` // "csv" or "postgres"
	CSV      CSVConfig `yaml:"csv"`
	Postgres DBConfig  `yaml:"postgres"`
}

// CSVConfig holds the flat-file backend settings.
type CSVConfig struct {
	Dir string `yaml:"dir"`
}

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// IngestConfig holds orchestrator settings.
type IngestConfig struct {
	// Subreddit searched for social posts and comments.
	Subreddit string `yaml:"subreddit"`

	// PriceStart is the fixed epoch the full price history is refetched
	// from on every run, so historical split/dividend adjustments stay
	// correct. Format "2006-01-02".
	PriceStart string `yaml:"price_start"`

	// DailyAt is the local time of day ("15:04") the daemon runs a cycle.
	DailyAt string `yaml:"daily_at"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // DEBUG, INFO, WARN, ERROR
}

// Symbols returns the configured ticker symbols in order.
func (c *Config) Symbols() []string {
	out := make([]string, 0, len(c.Tickers))
	for _, t := range c.Tickers {
		out = append(out, t.Symbol)
	}
	return out
}

// KeywordsFor returns the relevance keywords configured for a symbol, nil if
// none are configured.
func (c *Config) KeywordsFor(symbol string) []string {
	for _, t := range c.Tickers {
		if t.Symbol == symbol {
			return t.Keywords
		}
	}
	return nil
}
