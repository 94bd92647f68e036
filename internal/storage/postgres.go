package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantlake/stockfeed/internal/model"
)

// PGStore persists datasets in Postgres, one table per dataset kind keyed by
// ticker. A write replaces the ticker's rows via delete-then-insert inside
// one transaction.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore ensures the schema exists and returns the store. The pool
// remains owned by the store and is closed with it.
func NewPGStore(ctx context.Context, pool *pgxpool.Pool) (*PGStore, error) {
	s := &PGStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS price_bars (
		ticker     TEXT             NOT NULL,
		date       DATE             NOT NULL,
		open       DOUBLE PRECISION NOT NULL,
		high       DOUBLE PRECISION NOT NULL,
		low        DOUBLE PRECISION NOT NULL,
		close      DOUBLE PRECISION NOT NULL,
		adj_close  DOUBLE PRECISION NOT NULL,
		volume     BIGINT           NOT NULL,
		PRIMARY KEY (ticker, date)
	)`,
	`CREATE TABLE IF NOT EXISTS news_articles (
		ticker        TEXT        NOT NULL,
		id            TEXT        NOT NULL DEFAULT '',
		tickers       TEXT        NOT NULL DEFAULT '',
		title         TEXT        NOT NULL DEFAULT '',
		published_utc TIMESTAMPTZ NOT NULL,
		author        TEXT        NOT NULL DEFAULT '',
		description   TEXT        NOT NULL DEFAULT '',
		keywords      TEXT        NOT NULL DEFAULT '',
		insights      TEXT        NOT NULL DEFAULT '',
		url           TEXT        NOT NULL,
		PRIMARY KEY (ticker, url)
	)`,
	`CREATE TABLE IF NOT EXISTS news_articles_clean (
		LIKE news_articles INCLUDING ALL
	)`,
	`CREATE TABLE IF NOT EXISTS social_posts (
		ticker      TEXT        NOT NULL,
		kind        TEXT        NOT NULL,
		created_utc TIMESTAMPTZ NOT NULL,
		author      TEXT        NOT NULL DEFAULT '',
		score       BIGINT      NOT NULL DEFAULT 0,
		title       TEXT        NOT NULL DEFAULT '',
		body        TEXT        NOT NULL DEFAULT '',
		permalink   TEXT        NOT NULL,
		PRIMARY KEY (ticker, permalink)
	)`,
}

func (s *PGStore) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// replace deletes the ticker's rows from table and queues the new rows into
// the same transaction.
func (s *PGStore) replace(ctx context.Context, table, ticker string, queue func(batch *pgx.Batch)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE ticker = $1", ticker); err != nil {
		return fmt.Errorf("delete %s rows: %w", table, err)
	}

	batch := &pgx.Batch{}
	queue(batch)
	if batch.Len() > 0 {
		results := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("insert %s row: %w", table, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("close batch: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PGStore) ReadPrices(ctx context.Context, ticker string) ([]model.PriceBar, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT date, open, high, low, close, adj_close, volume
		FROM price_bars WHERE ticker = $1 ORDER BY date
	`, ticker)
	if err != nil {
		return nil, fmt.Errorf("query price_bars: %w", err)
	}
	defer rows.Close()

	var bars []model.PriceBar
	for rows.Next() {
		b := model.PriceBar{Ticker: ticker}
		var date time.Time
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.AdjClose, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan price bar: %w", err)
		}
		b.Date = date.UTC()
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *PGStore) WritePrices(ctx context.Context, ticker string, bars []model.PriceBar) error {
	return s.replace(ctx, "price_bars", ticker, func(batch *pgx.Batch) {
		for _, b := range bars {
			batch.Queue(`
				INSERT INTO price_bars (ticker, date, open, high, low, close, adj_close, volume)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, ticker, b.Date, b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume)
		}
	})
}

func (s *PGStore) ReadNews(ctx context.Context, ticker string) ([]model.NewsArticle, error) {
	return s.readNewsTable(ctx, "news_articles", ticker)
}

func (s *PGStore) WriteNews(ctx context.Context, ticker string, articles []model.NewsArticle) error {
	return s.writeNewsTable(ctx, "news_articles", ticker, articles)
}

func (s *PGStore) WriteCleanNews(ctx context.Context, ticker string, articles []model.NewsArticle) error {
	return s.writeNewsTable(ctx, "news_articles_clean", ticker, articles)
}

func (s *PGStore) readNewsTable(ctx context.Context, table, ticker string) ([]model.NewsArticle, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tickers, title, published_utc, author, description, keywords, insights, url
		FROM `+table+` WHERE ticker = $1 ORDER BY published_utc
	`, ticker)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var articles []model.NewsArticle
	for rows.Next() {
		var a model.NewsArticle
		var published time.Time
		if err := rows.Scan(&a.ID, &a.Tickers, &a.Title, &published, &a.Author,
			&a.Description, &a.Keywords, &a.Insights, &a.URL); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		a.PublishedUTC = published.UTC()
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *PGStore) writeNewsTable(ctx context.Context, table, ticker string, articles []model.NewsArticle) error {
	return s.replace(ctx, table, ticker, func(batch *pgx.Batch) {
		for _, a := range articles {
			batch.Queue(`
				INSERT INTO `+table+` (ticker, id, tickers, title, published_utc, author, description, keywords, insights, url)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			`, ticker, a.ID, a.Tickers, a.Title, a.PublishedUTC, a.Author,
				a.Description, a.Keywords, a.Insights, a.URL)
		}
	})
}

func (s *PGStore) ReadSocial(ctx context.Context, ticker string) ([]model.SocialPost, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT kind, created_utc, author, score, title, body, permalink
		FROM social_posts WHERE ticker = $1 ORDER BY created_utc
	`, ticker)
	if err != nil {
		return nil, fmt.Errorf("query social_posts: %w", err)
	}
	defer rows.Close()

	var posts []model.SocialPost
	for rows.Next() {
		var p model.SocialPost
		var created time.Time
		if err := rows.Scan(&p.Kind, &created, &p.Author, &p.Score, &p.Title, &p.Body, &p.Permalink); err != nil {
			return nil, fmt.Errorf("scan social post: %w", err)
		}
		p.CreatedUTC = created.UTC()
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PGStore) WriteSocial(ctx context.Context, ticker string, posts []model.SocialPost) error {
	return s.replace(ctx, "social_posts", ticker, func(batch *pgx.Batch) {
		for _, p := range posts {
			batch.Queue(`
				INSERT INTO social_posts (ticker, kind, created_utc, author, score, title, body, permalink)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, ticker, p.Kind, p.CreatedUTC, p.Author, p.Score, p.Title, p.Body, p.Permalink)
		}
	})
}
