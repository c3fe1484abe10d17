// Package store opens the configured local record store
package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tyt2025/shopifytyt/internal/config"
	"github.com/tyt2025/shopifytyt/internal/repository"
	"github.com/tyt2025/shopifytyt/internal/repository/postgres"
	"github.com/tyt2025/shopifytyt/internal/repository/supabase"
)

// Open returns the repositories of the configured backend and a func that
// releases its resources.
func Open(cfg *config.Config, logger *zap.Logger) (*repository.Repositories, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.StoreBackend {
	case config.StoreBackendSupabase:
		repos, err := supabase.NewRepositories(cfg.Supabase, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create supabase client: %w", err)
		}
		logger.Info("Using Supabase store", zap.String("url", cfg.Supabase.URL), zap.String("table", cfg.Supabase.ProductsTable))
		return repos, func() {}, nil

	case config.StoreBackendPostgres, "":
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using Postgres store", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.DBName))
		return postgres.NewRepositories(db, logger), func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
