package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/maxviazov/session-limit-service/internal/repository"
)

// q is the subset of database/sql shared by *sql.DB and *sql.Tx.
type q interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

func getQ(ctx context.Context, db *sql.DB) q {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok && tx != nil {
		return tx
	}
	return db
}

type txManager struct{ db *sql.DB }

func NewTxManager(db *sql.DB) repository.TxManager { return &txManager{db: db} }

// WithinTx mirrors the postgres manager: commit on nil, rollback otherwise, join an outer tx.
func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if err := ensureDB(m.db); err != nil {
		return err
	}
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return MapSQLiteError(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return MapSQLiteError(err)
	}
	if err := tx.Commit(); err != nil {
		return MapSQLiteError(err)
	}
	return nil
}

var _ repository.TxManager = (*txManager)(nil)

func ensureDB(db *sql.DB) error {
	if db == nil {
		return errors.New("sqlite db is nil")
	}
	return nil
}
