package sqlite

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/maxviazov/session-limit-service/internal/repository"
)

// MapSQLiteError is the SQLite counterpart of repository.MapPgError.
func MapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if errors.Is(err, sql.ErrConnDone) || repository.IsTimeout(err) {
		return repository.Unavailable(err)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return repository.ErrAlreadyExists
		case sqlite3.ErrConstraintForeignKey:
			return repository.ErrConflict
		}
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
			return repository.Unavailable(err)
		}
	}
	return err
}
