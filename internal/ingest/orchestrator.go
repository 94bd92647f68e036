package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quantlake/stockfeed/internal/dataset"
	"github.com/quantlake/stockfeed/internal/model"
	"github.com/quantlake/stockfeed/internal/storage"
)

// PriceSource fetches the adjusted daily bar history for a symbol.
type PriceSource interface {
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error)
}

// NewsSource fetches articles for a ticker within a date range.
type NewsSource interface {
	FetchRange(ctx context.Context, ticker string, start, end time.Time) ([]model.NewsArticle, error)
}

// SocialSource fetches forum posts and comments matching a query.
type SocialSource interface {
	FetchRange(ctx context.Context, query, subreddit string, start, end time.Time) ([]model.SocialPost, error)
}

// Sources groups the upstream clients the orchestrator drives.
type Sources struct {
	Price  PriceSource
	News   NewsSource
	Social SocialSource
}

// Config holds orchestrator settings.
type Config struct {
	Tickers   []string
	Subreddit string

	// PriceStart is the fixed epoch the full price history is refetched
	// from on every cycle.
	PriceStart time.Time
}

// Summary reports the outcome of one cycle. Failures counts ticker/source
// combinations that errored; the cycle itself always runs to completion.
type Summary struct {
	RunID    uuid.UUID
	Started  time.Time
	Duration time.Duration
	Tickers  int
	Failures int
}

// Orchestrator runs ingestion cycles.
type Orchestrator struct {
	cfg     Config
	sources Sources
	store   storage.Store
	logger  *slog.Logger

	// now is the clock, swappable in tests.
	now func() time.Time
}

// New creates an Orchestrator.
func New(cfg Config, sources Sources, store storage.Store, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:     cfg,
		sources: sources,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// RunCycle processes every configured ticker sequentially: price history
// replace, news merge, social merge. Each source failure is logged and
// counted without stopping the run.
func (o *Orchestrator) RunCycle(ctx context.Context) Summary {
	summary := Summary{
		RunID:   uuid.New(),
		Started: o.now(),
		Tickers: len(o.cfg.Tickers),
	}
	log := o.logger.With("run_id", summary.RunID)

	// Incremental window: yesterday through tomorrow, covering the full
	// current day regardless of the run's time of day.
	day := summary.Started.UTC().Truncate(24 * time.Hour)
	incStart := day.AddDate(0, 0, -1)
	incEnd := day.AddDate(0, 0, 1)

	log.Info("starting ingestion cycle",
		"tickers", len(o.cfg.Tickers),
		"window_start", incStart.Format("2006-01-02"),
		"window_end", incEnd.Format("2006-01-02"),
	)

	for _, ticker := range o.cfg.Tickers {
		if ctx.Err() != nil {
			log.Warn("cycle interrupted", "error", ctx.Err())
			break
		}
		tlog := log.With("ticker", ticker)

		if err := o.refreshPrices(ctx, tlog, ticker, incEnd); err != nil {
			tlog.Error("price refresh failed", "error", err)
			summary.Failures++
		}
		if err := o.updateNews(ctx, tlog, ticker, incStart, incEnd); err != nil {
			tlog.Error("news update failed", "error", err)
			summary.Failures++
		}
		if err := o.updateSocial(ctx, tlog, ticker, incStart, incEnd); err != nil {
			tlog.Error("social update failed", "error", err)
			summary.Failures++
		}
	}

	summary.Duration = o.now().Sub(summary.Started)
	log.Info("ingestion cycle complete",
		"duration", summary.Duration,
		"failures", summary.Failures,
	)
	return summary
}

// refreshPrices refetches the entire adjusted history and replaces the
// dataset, so retroactive split/dividend adjustments are always absorbed.
// An empty fetch never overwrites an existing history.
func (o *Orchestrator) refreshPrices(ctx context.Context, log *slog.Logger, ticker string, end time.Time) error {
	bars, err := o.sources.Price.FetchHistory(ctx, ticker, o.cfg.PriceStart, end)
	if err != nil {
		return fmt.Errorf("fetch price history: %w", err)
	}
	if len(bars) == 0 {
		log.Warn("no price data found, keeping existing dataset")
		return nil
	}
	if err := o.store.WritePrices(ctx, ticker, bars); err != nil {
		return fmt.Errorf("write price dataset: %w", err)
	}
	log.Info("price dataset replaced", "dataset", dataset.ID(ticker, dataset.KindPrice), "rows", len(bars))
	return nil
}

// updateNews merge-appends the window's articles into the news dataset.
// Partial fetch results are merged before the fetch error is surfaced.
func (o *Orchestrator) updateNews(ctx context.Context, log *slog.Logger, ticker string, start, end time.Time) error {
	fetched, fetchErr := o.sources.News.FetchRange(ctx, ticker, start, end)
	if fetchErr != nil {
		log.Warn("news fetch incomplete, merging partial results",
			"error", fetchErr,
			"fetched", len(fetched),
		)
	}
	if len(fetched) == 0 {
		return fetchErr
	}

	existing, err := o.store.ReadNews(ctx, ticker)
	if err != nil {
		return fmt.Errorf("read news dataset: %w", err)
	}
	merged := dataset.Merge(existing, fetched)
	if err := o.store.WriteNews(ctx, ticker, merged); err != nil {
		return fmt.Errorf("write news dataset: %w", err)
	}
	log.Info("news dataset updated",
		"dataset", dataset.ID(ticker, dataset.KindNews),
		"existing", len(existing),
		"fetched", len(fetched),
		"merged", len(merged),
	)
	return fetchErr
}

// updateSocial merge-appends the window's posts and comments into the
// social dataset.
func (o *Orchestrator) updateSocial(ctx context.Context, log *slog.Logger, ticker string, start, end time.Time) error {
	fetched, fetchErr := o.sources.Social.FetchRange(ctx, ticker, o.cfg.Subreddit, start, end)
	if fetchErr != nil {
		log.Warn("social fetch incomplete, merging partial results",
			"error", fetchErr,
			"fetched", len(fetched),
		)
	}
	if len(fetched) == 0 {
		return fetchErr
	}

	existing, err := o.store.ReadSocial(ctx, ticker)
	if err != nil {
		return fmt.Errorf("read social dataset: %w", err)
	}
	merged := dataset.Merge(existing, fetched)
	if err := o.store.WriteSocial(ctx, ticker, merged); err != nil {
		return fmt.Errorf("write social dataset: %w", err)
	}
	log.Info("social dataset updated",
		"dataset", dataset.ID(ticker, dataset.KindSocial),
		"existing", len(existing),
		"fetched", len(fetched),
		"merged", len(merged),
	)
	return fetchErr
}
