package storage

import (
	"context"
	"fmt"

	"github.com/quantlake/stockfeed/internal/config"
	"github.com/quantlake/stockfeed/internal/database"
)

// Open builds the Store selected by configuration.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "csv":
		return NewCSVStore(cfg.CSV.Dir)
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store, err := NewPGStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
