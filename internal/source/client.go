package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// core holds the transport shared by the source clients.
type core struct {
	httpClient     *http.Client
	logger         *slog.Logger
	cooldown       time.Duration
	maxRateRetries int
}

func newCore() core {
	return core{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger:         slog.Default(),
		cooldown:       60 * time.Second,
		maxRateRetries: 10,
	}
}

// Option configures a source client.
type Option func(*core)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *core) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *core) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *core) {
		c.httpClient = hc
	}
}

// WithRateLimitPolicy sets the 429 cool-down interval and the per-page retry
// budget.
func WithRateLimitPolicy(cooldown time.Duration, maxRetries int) Option {
	return func(c *core) {
		c.cooldown = cooldown
		c.maxRateRetries = maxRetries
	}
}

// get performs a GET against a fully built URL.
func (c *core) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// sleep blocks for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
