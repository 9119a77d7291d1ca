package storage

import (
	"context"
	"fmt"

	"github.com/MitsuruMe/momomoving-fe/internal/config"
)

// Pinger is implemented by backends that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Open builds the backend selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.AppConfig) (Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return NewMemoryBackend(), nil
	case config.StoreDriverSQLite:
		backend, err := NewSQLiteBackend(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return backend, nil
	case config.StoreDriverRedis:
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisBackend(client, cfg.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
