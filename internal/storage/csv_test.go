package storage

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/quantlake/stockfeed/internal/model"
)

func newTestStore(t *testing.T) (*CSVStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewCSVStore(dir)
	if err != nil {
		t.Fatalf("NewCSVStore() error = %v", err)
	}
	return s, dir
}

func TestCSVStore_AbsentDatasetReadsEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	bars, err := s.ReadPrices(ctx, "AMZN")
	if err != nil || bars != nil {
		t.Errorf("ReadPrices(absent) = %v, %v; want nil, nil", bars, err)
	}
	articles, err := s.ReadNews(ctx, "AMZN")
	if err != nil || articles != nil {
		t.Errorf("ReadNews(absent) = %v, %v; want nil, nil", articles, err)
	}
	posts, err := s.ReadSocial(ctx, "AMZN")
	if err != nil || posts != nil {
		t.Errorf("ReadSocial(absent) = %v, %v; want nil, nil", posts, err)
	}
}

func TestCSVStore_PriceRoundTrip(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	bars := []model.PriceBar{
		{
			Ticker: "AMZN", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Open: 175.5, High: 177.25, Low: 174.0, Close: 176.8, AdjClose: 176.8, Volume: 41_000_000,
		},
		{
			Ticker: "AMZN", Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
			Open: 177.0, High: 178.5, Low: 176.1, Close: 178.2, AdjClose: 178.2, Volume: 38_500_000,
		},
	}
	if err := s.WritePrices(ctx, "AMZN", bars); err != nil {
		t.Fatalf("WritePrices() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "AMZN_price.csv")); err != nil {
		t.Fatalf("expected AMZN_price.csv to exist: %v", err)
	}

	got, err := s.ReadPrices(ctx, "AMZN")
	if err != nil {
		t.Fatalf("ReadPrices() error = %v", err)
	}
	if !reflect.DeepEqual(got, bars) {
		t.Errorf("round trip mismatch:\ngot:  %+v\nwant: %+v", got, bars)
	}
}

func TestCSVStore_PriceWriteReplaces(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	old := []model.PriceBar{{Ticker: "AMZN", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 100}}
	if err := s.WritePrices(ctx, "AMZN", old); err != nil {
		t.Fatal(err)
	}

	// Full-history refresh is authoritative; rewritten adjusted values win.
	refreshed := []model.PriceBar{{Ticker: "AMZN", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 50, AdjClose: 50}}
	if err := s.WritePrices(ctx, "AMZN", refreshed); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadPrices(ctx, "AMZN")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Close != 50 {
		t.Errorf("got %+v, want the refreshed bar only", got)
	}
}

func TestCSVStore_NewsRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	articles := []model.NewsArticle{
		{
			ID: "a1", Tickers: "AMZN|AAPL", Title: "Title, with comma",
			PublishedUTC: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			Author:       "reporter", Description: "desc\nnormalized upstream",
			Keywords: "earnings|retail", Insights: `[{"sentiment":"positive"}]`,
			URL: "https://example.com/a1",
		},
		{
			ID: "a2", Title: "Plain", PublishedUTC: time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
			URL: "https://example.com/a2",
		},
	}
	if err := s.WriteNews(ctx, "AMZN", articles); err != nil {
		t.Fatalf("WriteNews() error = %v", err)
	}

	got, err := s.ReadNews(ctx, "AMZN")
	if err != nil {
		t.Fatalf("ReadNews() error = %v", err)
	}
	if !reflect.DeepEqual(got, articles) {
		t.Errorf("round trip mismatch:\ngot:  %+v\nwant: %+v", got, articles)
	}
}

func TestCSVStore_CleanNewsIsSeparateArtifact(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	raw := []model.NewsArticle{
		{URL: "u1", Title: "keep", PublishedUTC: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{URL: "u2", Title: "drop", PublishedUTC: time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)},
	}
	if err := s.WriteNews(ctx, "AMZN", raw); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteCleanNews(ctx, "AMZN", raw[:1]); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "AMZN_news_clean.csv")); err != nil {
		t.Fatalf("expected AMZN_news_clean.csv: %v", err)
	}

	// The raw dataset is untouched by the clean write.
	got, err := s.ReadNews(ctx, "AMZN")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("raw news len = %d, want 2", len(got))
	}
}

func TestCSVStore_SocialRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	posts := []model.SocialPost{
		{
			Kind: model.KindSubmission, CreatedUTC: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
			Author: "alice", Score: 12, Title: "DD on AMZN", Body: "long body",
			Permalink: "https://reddit.com/p1",
		},
		{
			Kind: model.KindComment, CreatedUTC: time.Date(2024, 3, 1, 9, 15, 30, 0, time.UTC),
			Author: "[deleted]", Score: -2, Title: "", Body: "disagree",
			Permalink: "https://www.reddit.com/comments/p1/_/c1/",
		},
	}
	if err := s.WriteSocial(ctx, "AMZN", posts); err != nil {
		t.Fatalf("WriteSocial() error = %v", err)
	}

	got, err := s.ReadSocial(ctx, "AMZN")
	if err != nil {
		t.Fatalf("ReadSocial() error = %v", err)
	}
	if !reflect.DeepEqual(got, posts) {
		t.Errorf("round trip mismatch:\ngot:  %+v\nwant: %+v", got, posts)
	}
}
