package storage

import (
	"context"
	"fmt"

	"cards-marketplace/internal/config"
)

// New opens the backend selected by cfg.Type
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite", "":
		return OpenSQLite(cfg.SQLitePath)
	case "redis":
		return OpenRedis(ctx, cfg.RedisURL, cfg.RedisPrefix)
	case "postgres":
		return OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
