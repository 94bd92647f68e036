package model

import (
	"testing"
	"time"
)

// TestIdentityKeys validates the key derivation for each record type.
func TestIdentityKeys(t *testing.T) {
	t.Run("PriceBar", func(t *testing.T) {
		b := PriceBar{
			Ticker: "AMZN",
			Date:   time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
			Open:   175.1,
			Close:  176.8,
			Volume: 41_000_000,
		}
		if got, want := b.IdentityKey(), "AMZN|2024-03-08"; got != want {
			t.Errorf("IdentityKey() = %q, want %q", got, want)
		}
		if !b.Timestamp().Equal(b.Date) {
			t.Errorf("Timestamp() = %v, want %v", b.Timestamp(), b.Date)
		}
	})

	t.Run("NewsArticle", func(t *testing.T) {
		a := NewsArticle{
			URL:          "https://example.com/article/1",
			Title:        "Amazon Reports Earnings",
			PublishedUTC: time.Date(2024, 3, 8, 12, 30, 0, 0, time.UTC),
			Tickers:      "AMZN|AAPL",
		}
		if got, want := a.IdentityKey(), "https://example.com/article/1"; got != want {
			t.Errorf("IdentityKey() = %q, want %q", got, want)
		}
	})

	t.Run("SocialPost", func(t *testing.T) {
		p := SocialPost{
			Kind:       KindComment,
			Permalink:  "https://www.reddit.com/comments/abc/_/def/",
			CreatedUTC: time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC),
			Author:     "[deleted]",
		}
		if got, want := p.IdentityKey(), "https://www.reddit.com/comments/abc/_/def/"; got != want {
			t.Errorf("IdentityKey() = %q, want %q", got, want)
		}
	})
}

func TestJoinList(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"empty", nil, ""},
		{"single", []string{"AMZN"}, "AMZN"},
		{"preserves order", []string{"AMZN", "AAPL", "MSFT"}, "AMZN|AAPL|MSFT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinList(tt.values); got != tt.want {
				t.Errorf("JoinList(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}
