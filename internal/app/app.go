// Package app assembles the storage driver, repositories and services selected by config.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/maxviazov/session-limit-service/internal/config"
	"github.com/maxviazov/session-limit-service/internal/migrations"
	"github.com/maxviazov/session-limit-service/internal/repository"
	"github.com/maxviazov/session-limit-service/internal/repository/postgres"
	"github.com/maxviazov/session-limit-service/internal/repository/sqlite"
	"github.com/maxviazov/session-limit-service/internal/service"
)

// App holds everything a caller needs to work with session limits.
type App struct {
	SessionLimits service.SessionLimitService
	Pinger        repository.Pinger

	close func()
}

// Open connects the configured store, applies migrations when storage.auto_migrate is set
// and wires the service on top.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	var (
		limits repository.SessionLimitRepository
		tx     repository.TxManager
		app    = &App{}
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := migratePool(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, err
			}
		}
		limits, tx, app.Pinger = postgres.NewSessionLimitRepository(pool), postgres.NewTxManager(pool), postgres.NewPinger(pool)
		app.close = pool.Close

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := migrations.Up(ctx, db, migrations.SQLite, logger); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		limits, tx, app.Pinger = sqlite.NewSessionLimitRepository(db), sqlite.NewTxManager(db), sqlite.NewPinger(db)
		app.close = func() { _ = db.Close() }

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	timeout := time.Duration(cfg.Storage.OpTimeout) * time.Second
	app.SessionLimits = service.NewSessionLimitService(limits, tx, timeout, logger)

	logger.Debug().Str("driver", cfg.Storage.Driver).Bool("auto_migrate", cfg.Storage.AutoMigrate).Msg("app wired")
	return app, nil
}

// migratePool runs goose over a database/sql view of the pgx pool.
func migratePool(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) { _ = db.Close() }(db)
	return migrations.Up(ctx, db, migrations.Postgres, logger)
}

// Close releases the underlying store.
func (a *App) Close() {
	if a != nil && a.close != nil {
		a.close()
	}
}
