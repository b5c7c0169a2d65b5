// Package storage selects the repository implementation named by
// STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"inventory/app/category"
	"inventory/app/product"
	"inventory/infra/gormstore"
	"inventory/infra/memory"
	"inventory/infra/postgres"
	"inventory/pkg/config"

	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Store interface {
	category.Repository
	product.Repository
	Ping(ctx context.Context) error
	Close() error
}

// Migrator is implemented by stores that own their schema.
type Migrator interface {
	Migrate(ctx context.Context) error
}

type pgMigrator struct {
	*postgres.PgRepository
}

func (m pgMigrator) Migrate(ctx context.Context) error {
	_, err := m.PgRepository.Migrate(ctx)
	return err
}

// Open connects the configured driver. SQLite schemas are migrated on open;
// PostgreSQL is migrated explicitly with `inventoryctl migrate`.
func Open(ctx context.Context, cfg *config.AppConfig) (Store, error) {
	switch cfg.StorageDriver {
	case DriverPostgres:
		repo, err := postgres.NewPgRepository(cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		zap.L().Info("Storage ready", zap.String("driver", DriverPostgres), zap.String("host", cfg.PostgresHost))
		return pgMigrator{repo}, nil

	case DriverSQLite:
		store, err := gormstore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
		}
		zap.L().Info("Storage ready", zap.String("driver", DriverSQLite), zap.String("path", cfg.SQLitePath))
		return store, nil

	case DriverMemory:
		zap.L().Warn("Storage is in memory, data is lost on exit")
		return memory.NewRepository(), nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
