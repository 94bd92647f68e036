package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/quantlake/stockfeed/internal/config"
	"github.com/quantlake/stockfeed/internal/newsclean"
	"github.com/quantlake/stockfeed/internal/storage"
	"github.com/quantlake/stockfeed/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/stockfeed.yaml", "path to config file")
	ticker := flag.String("ticker", "", "clean a single ticker instead of the whole universe")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "failed to load .env:", err)
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting news cleaner",
		"version", version.Version,
		"config", *configPath,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	symbols := cfg.Symbols()
	if *ticker != "" {
		symbols = []string{*ticker}
	}

	failures := 0
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}
		if err := cleanTicker(ctx, store, cfg, symbol, logger); err != nil {
			logger.Error("cleaning failed", "ticker", symbol, "error", err)
			failures++
		}
	}

	if failures > 0 {
		os.Exit(1)
	}
	logger.Info("news cleaner finished", "tickers", len(symbols))
}

func cleanTicker(ctx context.Context, store storage.Store, cfg *config.Config, symbol string, logger *slog.Logger) error {
	keywords := cfg.KeywordsFor(symbol)
	if len(keywords) == 0 {
		logger.Warn("no keywords configured, skipping", "ticker", symbol)
		return nil
	}

	articles, err := store.ReadNews(ctx, symbol)
	if err != nil {
		return fmt.Errorf("read news dataset: %w", err)
	}
	if len(articles) == 0 {
		logger.Info("no articles to clean", "ticker", symbol)
		return nil
	}

	cleaned := newsclean.Clean(articles, keywords)
	if err := store.WriteCleanNews(ctx, symbol, cleaned); err != nil {
		return fmt.Errorf("write clean dataset: %w", err)
	}

	logger.Info("news cleaned",
		"ticker", symbol,
		"in", len(articles),
		"kept", len(cleaned),
	)
	return nil
}
