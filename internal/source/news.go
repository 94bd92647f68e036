package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/quantlake/stockfeed/internal/model"
)

// NewsClient fetches articles from the reference-news API. Pagination is
// opaque-cursor: each page carries a next_url that is followed verbatim,
// with the API key re-attached when the server omits it.
type NewsClient struct {
	core
	baseURL  string
	apiKey   string
	pageSize int
	pacing   time.Duration
}

// NewNewsClient creates a news client. pacing is the minimum wait between
// successive pages.
func NewNewsClient(baseURL, apiKey string, pageSize int, pacing time.Duration, opts ...Option) *NewsClient {
	c := &NewsClient{
		core:     newCore(),
		baseURL:  baseURL,
		apiKey:   apiKey,
		pageSize: pageSize,
		pacing:   pacing,
	}
	for _, opt := range opts {
		opt(&c.core)
	}
	return c
}

type newsResponse struct {
	Results []newsItem `json:"results"`
	NextURL string     `json:"next_url"`
}

type newsItem struct {
	ID           string          `json:"id"`
	Tickers      []string        `json:"tickers"`
	Title        string          `json:"title"`
	PublishedUTC string          `json:"published_utc"`
	Author       string          `json:"author"`
	Description  string          `json:"description"`
	Keywords     []string        `json:"keywords"`
	Insights     json.RawMessage `json:"insights"`
	ArticleURL   string          `json:"article_url"`
}

// FetchRange fetches all articles for a ticker published within the
// inclusive [start, end] date range, exhausting every page. On a transient
// failure the articles accumulated so far are returned alongside the error.
func (c *NewsClient) FetchRange(ctx context.Context, ticker string, start, end time.Time) ([]model.NewsArticle, error) {
	params := url.Values{
		"ticker":            {ticker},
		"published_utc.gte": {start.Format("2006-01-02")},
		"published_utc.lte": {end.Format("2006-01-02")},
		"limit":             {strconv.Itoa(c.pageSize)},
		"sort":              {"published_utc"},
		"order":             {"asc"},
		"apiKey":            {c.apiKey},
	}

	var articles []model.NewsArticle
	next := c.baseURL + "?" + params.Encode()

	for next != "" {
		body, err := c.fetchPage(ctx, next)
		if err != nil {
			return articles, fmt.Errorf("fetch news page: %w", err)
		}

		var page newsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return articles, fmt.Errorf("parse news page: %w", err)
		}
		if len(page.Results) == 0 {
			break
		}

		for _, item := range page.Results {
			articles = append(articles, normalizeArticle(item))
		}
		c.logger.Debug("collected news page",
			"ticker", ticker,
			"page_size", len(page.Results),
			"total", len(articles),
		)

		next = page.NextURL
		if next == "" {
			break
		}
		// Pagination links may come back without the caller's credential.
		if !strings.Contains(next, "apiKey=") {
			sep := "?"
			if strings.Contains(next, "?") {
				sep = "&"
			}
			next += sep + "apiKey=" + url.QueryEscape(c.apiKey)
		}
		if err := sleep(ctx, c.pacing); err != nil {
			return articles, err
		}
	}

	return articles, nil
}

// normalizeArticle maps one raw API item to a canonical record. Missing
// optional fields become empty strings, never nulls.
func normalizeArticle(item newsItem) model.NewsArticle {
	return model.NewsArticle{
		ID:           item.ID,
		Tickers:      model.JoinList(item.Tickers),
		Title:        item.Title,
		PublishedUTC: parseNewsTime(item.PublishedUTC),
		Author:       item.Author,
		Description:  item.Description,
		Keywords:     model.JoinList(item.Keywords),
		Insights:     rawToString(item.Insights),
		URL:          item.ArticleURL,
	}
}

func parseNewsTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// rawToString keeps the upstream insights payload as-is, mapping absent or
// null values to the empty string.
func rawToString(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	// Unwrap plain JSON strings so the stored value is the text itself.
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(raw, &unquoted); err == nil {
			return unquoted
		}
	}
	return s
}
