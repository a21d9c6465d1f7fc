// Package sqlite implements the repository contracts on an embedded SQLite file via mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/maxviazov/session-limit-service/internal/config"
	"github.com/maxviazov/session-limit-service/internal/repository"
)

// Open creates the database directory if needed and opens the file in WAL mode.
// The handle is capped at one connection: SQLite serialises writers anyway,
// and transactions carried in the context then never contend with the pool.
func Open(ctx context.Context, cfg config.SQLiteConfig, logger zerolog.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", MapSQLiteError(err))
	}

	logger.Info().Str("path", cfg.Path).Msg("Successfully opened SQLite database")
	return db, nil
}

// DSN renders the file URI for go-sqlite3. The path is percent-escaped so
// '?' and '#' in a file name stay part of the name.
func DSN(cfg config.SQLiteConfig) string {
	q := url.Values{}
	q.Set("_busy_timeout", strconv.Itoa(cfg.BusyTimeout))
	q.Set("_journal_mode", "WAL")
	q.Set("_foreign_keys", "on")

	u := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: cfg.Path}).EscapedPath(),
		RawQuery: q.Encode(),
	}
	return u.String()
}

type pinger struct{ db *sql.DB }

// NewPinger adapts *sql.DB to the repository.Pinger interface.
func NewPinger(db *sql.DB) repository.Pinger { return &pinger{db: db} }

func (p *pinger) Ping(ctx context.Context) error {
	if err := ensureDB(p.db); err != nil {
		return err
	}
	if err := p.db.PingContext(ctx); err != nil {
		return repository.Unavailable(err)
	}
	return nil
}
