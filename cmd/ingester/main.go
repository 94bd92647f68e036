package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/quantlake/stockfeed/internal/config"
	"github.com/quantlake/stockfeed/internal/ingest"
	"github.com/quantlake/stockfeed/internal/source"
	"github.com/quantlake/stockfeed/internal/storage"
	"github.com/quantlake/stockfeed/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/stockfeed.yaml", "path to config file")
	daemon := flag.Bool("daemon", false, "run the daily scheduler instead of a single cycle")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Load .env before config, so ${VAR} expansion in the config file sees
	// the values.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "failed to load .env:", err)
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// Set up structured logging
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ingester",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"tickers", len(cfg.Tickers),
		"backend", cfg.Storage.Backend,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	priceStart, err := time.Parse("2006-01-02", cfg.Ingest.PriceStart)
	if err != nil {
		logger.Error("invalid price_start", "error", err)
		os.Exit(1)
	}

	rateLimit := source.WithRateLimitPolicy(cfg.API.RateLimitWait, cfg.API.MaxRateRetries)
	sources := ingest.Sources{
		Price: source.NewPriceClient(cfg.API.PriceURL,
			source.WithTimeout(cfg.API.Timeout),
			source.WithLogger(logger),
		),
		News: source.NewNewsClient(cfg.API.NewsURL, cfg.API.NewsKey, cfg.API.NewsPageSize, cfg.API.NewsPacing,
			source.WithTimeout(cfg.API.Timeout),
			source.WithLogger(logger),
			rateLimit,
		),
		Social: source.NewSocialClient(cfg.API.SocialURL, cfg.API.SocialPageSize, cfg.API.SocialPacing,
			source.WithTimeout(cfg.API.Timeout),
			source.WithLogger(logger),
			rateLimit,
		),
	}

	orch := ingest.New(ingest.Config{
		Tickers:    cfg.Symbols(),
		Subreddit:  cfg.Ingest.Subreddit,
		PriceStart: priceStart,
	}, sources, store, logger)

	if !*daemon {
		summary := orch.RunCycle(ctx)
		logger.Info("ingester finished",
			"run_id", summary.RunID,
			"duration", summary.Duration,
			"failures", summary.Failures,
		)
		// Per-ticker failures are reported in the summary, not the exit
		// code, so a flaky upstream does not flap the whole job.
		return
	}

	runner, err := ingest.NewRunner(orch, cfg.Ingest.DailyAt, logger)
	if err != nil {
		logger.Error("failed to create runner", "error", err)
		os.Exit(1)
	}
	if err := runner.Start(ctx); err != nil {
		logger.Error("failed to start runner", "error", err)
		os.Exit(1)
	}

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := runner.Stop(shutdownCtx); err != nil {
		logger.Error("runner shutdown timed out", "error", err)
	}

	logger.Info("ingester stopped")
}
