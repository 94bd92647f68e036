package model

import (
	"strings"
	"time"
)

// ListDelimiter joins multi-valued fields (tickers, keywords) into a single
// column value.
const ListDelimiter = "|"

// Record is implemented by every canonical row type. IdentityKey returns the
// value that makes a record unique within its dataset; an empty key tells
// the merge to fall back to full-record equality. Timestamp is the
// chronological sort anchor.
type Record interface {
	IdentityKey() string
	Timestamp() time.Time
}

// -----------------------------------------------------------------------------
// Price bars
// -----------------------------------------------------------------------------

// PriceBar is one split/dividend-adjusted daily OHLCV row for a ticker.
type PriceBar struct {
	Ticker   string    // Subject symbol
	Date     time.Time // Trading date (midnight UTC)
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

func (b PriceBar) IdentityKey() string {
	return b.Ticker + ListDelimiter + b.Date.Format("2006-01-02")
}

func (b PriceBar) Timestamp() time.Time { return b.Date }

// -----------------------------------------------------------------------------
// News articles
// -----------------------------------------------------------------------------

// NewsArticle is one normalized article from the reference-news API.
type NewsArticle struct {
	ID           string    // Upstream article ID
	Tickers      string    // Associated symbols, "|"-joined
	Title        string
	PublishedUTC time.Time // Publication time
	Author       string
	Description  string
	Keywords     string // "|"-joined
	Insights     string // Free-form upstream analysis payload
	URL          string // Canonical article URL, the identity key
}

func (a NewsArticle) IdentityKey() string  { return a.URL }
func (a NewsArticle) Timestamp() time.Time { return a.PublishedUTC }

// -----------------------------------------------------------------------------
// Social posts
// -----------------------------------------------------------------------------

// Post kinds.
const (
	KindSubmission = "Submission"
	KindComment    = "Comment"
)

// SocialPost is one normalized forum submission or comment.
type SocialPost struct {
	Kind       string    // KindSubmission or KindComment
	CreatedUTC time.Time // Creation time
	Author     string    // "[deleted]" when the author is gone upstream
	Score      int64
	Title      string // Empty for comments
	Body       string // Newlines normalized to spaces
	Permalink  string // Identity key
}

func (p SocialPost) IdentityKey() string  { return p.Permalink }
func (p SocialPost) Timestamp() time.Time { return p.CreatedUTC }

// JoinList joins values with the shared delimiter, preserving order.
func JoinList(values []string) string {
	return strings.Join(values, ListDelimiter)
}
