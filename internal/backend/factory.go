// Package backend wires a session store implementation from config:
// memory (default, ephemeral per the edit-session lifecycle), redis
// (shared between instances) or sqlite (durable drafts).
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"showroom/internal/session"
	"showroom/internal/storage"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateStore implements Factory.CreateStore.
func (f *DefaultFactory) CreateStore(_ context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case RedisBackend:
		store := session.NewRedisStore(config.RedisAddr, config.SessionTTL)
		f.logger.Info("Initialized redis session store",
			"addr", config.RedisAddr, "ttl", config.SessionTTL)
		return &Result{Store: store, Cleanup: store.Close}, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite session store: %w", err)
		}
		f.logger.Info("Initialized sqlite session store", "db_path", config.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case MemoryBackend:
		store := session.NewMemoryStore(config.SessionTTL)
		f.logger.Info("Initialized memory session store", "ttl", config.SessionTTL)
		return &Result{Store: store, Cleanup: store.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported session backend: %s", config.Type)
	}
}
