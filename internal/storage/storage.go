// Package storage provides the interchangeable persistence backends for the
// singleton sorties record. The rest of the application only ever sees the
// Store interface; which backend is behind it is decided once at startup.
package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/tdv-tracker/internal/config"
	"github.com/yourusername/tdv-tracker/internal/database"
	"github.com/yourusername/tdv-tracker/internal/models"
)

// Store is the full persistence contract. Read errors are surfaced here and
// swallowed by the service layer on the dashboard path; write errors always
// propagate.
type Store interface {
	Read(ctx context.Context) (*models.SortiesData, error)
	Write(ctx context.Context, data *models.SortiesData) error
	Ping(ctx context.Context) error
	Close() error
}

// New selects and initializes the backend named by the configuration.
func New(ctx context.Context, cfg *config.StorageConfig, log *logrus.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.File.Path), nil
	case config.BackendPostgres:
		db, err := database.NewDB(ctx, &cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		store := NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		return store, nil
	case config.BackendRedis:
		return NewRedisStore(&cfg.Redis, log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
