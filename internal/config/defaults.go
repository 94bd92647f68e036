package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultNewsURL   = "https://api.polygon.io/v2/reference/news"
	DefaultSocialURL = "https://api.pullpush.io/reddit/search"
	DefaultPriceURL  = "https://query1.finance.yahoo.com/v8/finance/chart"

	DefaultAPITimeout     = 15 * time.Second
	DefaultNewsPageSize   = 1000
	DefaultSocialPageSize = 100

	// 13s between news pages keeps a run under the 5 requests/minute quota.
	DefaultNewsPacing     = 13 * time.Second
	DefaultSocialPacing   = 500 * time.Millisecond
	DefaultRateLimitWait  = 60 * time.Second
	DefaultMaxRateRetries = 10

	DefaultBackend   = "csv"
	DefaultCSVDir    = "stock_data"
	DefaultDBPort    = 5432
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 10
	DefaultMinConns  = 2

	DefaultSubreddit  = "ValueInvesting"
	DefaultPriceStart = "2020-01-01"
	DefaultDailyAt    = "17:00"

	DefaultLogLevel = "INFO"
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.NewsURL == "" {
		c.API.NewsURL = DefaultNewsURL
	}
	if c.API.SocialURL == "" {
		c.API.SocialURL = DefaultSocialURL
	}
	if c.API.PriceURL == "" {
		c.API.PriceURL = DefaultPriceURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.NewsPageSize == 0 {
		c.API.NewsPageSize = DefaultNewsPageSize
	}
	if c.API.SocialPageSize == 0 {
		c.API.SocialPageSize = DefaultSocialPageSize
	}
	if c.API.NewsPacing == 0 {
		c.API.NewsPacing = DefaultNewsPacing
	}
	if c.API.SocialPacing == 0 {
		c.API.SocialPacing = DefaultSocialPacing
	}
	if c.API.RateLimitWait == 0 {
		c.API.RateLimitWait = DefaultRateLimitWait
	}
	if c.API.MaxRateRetries == 0 {
		c.API.MaxRateRetries = DefaultMaxRateRetries
	}

	// Storage defaults
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Storage.CSV.Dir == "" {
		c.Storage.CSV.Dir = DefaultCSVDir
	}
	if c.Storage.Postgres.Port == 0 {
		c.Storage.Postgres.Port = DefaultDBPort
	}
	if c.Storage.Postgres.SSLMode == "" {
		c.Storage.Postgres.SSLMode = DefaultDBSSLMode
	}
	if c.Storage.Postgres.MaxConns == 0 {
		c.Storage.Postgres.MaxConns = DefaultMaxConns
	}
	if c.Storage.Postgres.MinConns == 0 {
		c.Storage.Postgres.MinConns = DefaultMinConns
	}

	// Ingest defaults
	if c.Ingest.Subreddit == "" {
		c.Ingest.Subreddit = DefaultSubreddit
	}
	if c.Ingest.PriceStart == "" {
		c.Ingest.PriceStart = DefaultPriceStart
	}
	if c.Ingest.DailyAt == "" {
		c.Ingest.DailyAt = DefaultDailyAt
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}
