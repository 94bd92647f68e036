package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/quantlake/stockfeed/internal/dataset"
	"github.com/quantlake/stockfeed/internal/model"
)

// Column layouts of the flat-file datasets.
var (
	priceHeader  = []string{"Date", "Open", "High", "Low", "Close", "AdjClose", "Volume"}
	newsHeader   = []string{"id", "tickers", "title", "published_utc", "author", "description", "keywords", "insights", "url"}
	socialHeader = []string{"Type", "Date", "Author", "Score", "Title", "Body", "Permalink"}
)

const (
	priceDateLayout  = "2006-01-02"
	socialDateLayout = "2006-01-02 15:04:05"
)

// CSVStore keeps one CSV file per dataset under a data directory.
type CSVStore struct {
	dir string
}

// NewCSVStore creates the data directory if needed.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &CSVStore{dir: dir}, nil
}

func (s *CSVStore) Close() error { return nil }

func (s *CSVStore) path(ticker, kind string) string {
	return filepath.Join(s.dir, dataset.ID(ticker, kind)+".csv")
}

// readRows reads all data rows of a dataset file, nil if the file does not
// exist. The header row is validated for width only.
func (s *CSVStore) readRows(ticker, kind string, width int) ([][]string, error) {
	f, err := os.Open(s.path(ticker, kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", dataset.ID(ticker, kind), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = width
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", dataset.ID(ticker, kind), err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

// writeRows replaces a dataset file, going through a temp file so a crashed
// write never leaves a truncated dataset behind.
func (s *CSVStore) writeRows(ticker, kind string, header []string, rows [][]string) error {
	target := s.path(ticker, kind)
	tmp, err := os.CreateTemp(s.dir, dataset.ID(ticker, kind)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush dataset %s: %w", dataset.ID(ticker, kind), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("replace dataset %s: %w", dataset.ID(ticker, kind), err)
	}
	return nil
}

func (s *CSVStore) ReadPrices(_ context.Context, ticker string) ([]model.PriceBar, error) {
	rows, err := s.readRows(ticker, dataset.KindPrice, len(priceHeader))
	if err != nil || rows == nil {
		return nil, err
	}

	bars := make([]model.PriceBar, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse(priceDateLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("price row %d: bad date %q: %w", i+1, row[0], err)
		}
		open, _ := strconv.ParseFloat(row[1], 64)
		high, _ := strconv.ParseFloat(row[2], 64)
		low, _ := strconv.ParseFloat(row[3], 64)
		cls, _ := strconv.ParseFloat(row[4], 64)
		adj, _ := strconv.ParseFloat(row[5], 64)
		vol, _ := strconv.ParseInt(row[6], 10, 64)
		bars = append(bars, model.PriceBar{
			Ticker: ticker, Date: date.UTC(),
			Open: open, High: high, Low: low, Close: cls, AdjClose: adj, Volume: vol,
		})
	}
	return bars, nil
}

func (s *CSVStore) WritePrices(_ context.Context, ticker string, bars []model.PriceBar) error {
	rows := make([][]string, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, []string{
			b.Date.Format(priceDateLayout),
			formatFloat(b.Open), formatFloat(b.High), formatFloat(b.Low),
			formatFloat(b.Close), formatFloat(b.AdjClose),
			strconv.FormatInt(b.Volume, 10),
		})
	}
	return s.writeRows(ticker, dataset.KindPrice, priceHeader, rows)
}

func (s *CSVStore) ReadNews(_ context.Context, ticker string) ([]model.NewsArticle, error) {
	return s.readNewsKind(ticker, dataset.KindNews)
}

func (s *CSVStore) WriteNews(_ context.Context, ticker string, articles []model.NewsArticle) error {
	return s.writeNewsKind(ticker, dataset.KindNews, articles)
}

func (s *CSVStore) WriteCleanNews(_ context.Context, ticker string, articles []model.NewsArticle) error {
	return s.writeNewsKind(ticker, dataset.KindCleanNews, articles)
}

func (s *CSVStore) readNewsKind(ticker, kind string) ([]model.NewsArticle, error) {
	rows, err := s.readRows(ticker, kind, len(newsHeader))
	if err != nil || rows == nil {
		return nil, err
	}

	articles := make([]model.NewsArticle, 0, len(rows))
	for _, row := range rows {
		published, _ := time.Parse(time.RFC3339, row[3])
		articles = append(articles, model.NewsArticle{
			ID: row[0], Tickers: row[1], Title: row[2],
			PublishedUTC: published.UTC(),
			Author:       row[4], Description: row[5], Keywords: row[6],
			Insights: row[7], URL: row[8],
		})
	}
	return articles, nil
}

func (s *CSVStore) writeNewsKind(ticker, kind string, articles []model.NewsArticle) error {
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{
			a.ID, a.Tickers, a.Title,
			a.PublishedUTC.Format(time.RFC3339),
			a.Author, a.Description, a.Keywords, a.Insights, a.URL,
		})
	}
	return s.writeRows(ticker, kind, newsHeader, rows)
}

func (s *CSVStore) ReadSocial(_ context.Context, ticker string) ([]model.SocialPost, error) {
	rows, err := s.readRows(ticker, dataset.KindSocial, len(socialHeader))
	if err != nil || rows == nil {
		return nil, err
	}

	posts := make([]model.SocialPost, 0, len(rows))
	for _, row := range rows {
		created, _ := time.Parse(socialDateLayout, row[1])
		score, _ := strconv.ParseInt(row[3], 10, 64)
		posts = append(posts, model.SocialPost{
			Kind: row[0], CreatedUTC: created.UTC(), Author: row[2],
			Score: score, Title: row[4], Body: row[5], Permalink: row[6],
		})
	}
	return posts, nil
}

func (s *CSVStore) WriteSocial(_ context.Context, ticker string, posts []model.SocialPost) error {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			p.Kind,
			p.CreatedUTC.Format(socialDateLayout),
			p.Author,
			strconv.FormatInt(p.Score, 10),
			p.Title, p.Body, p.Permalink,
		})
	}
	return s.writeRows(ticker, dataset.KindSocial, socialHeader, rows)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
