package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/maxviazov/session-limit-service/internal/config"
	"github.com/maxviazov/session-limit-service/internal/migrations"
	"github.com/maxviazov/session-limit-service/internal/repository"
	"github.com/maxviazov/session-limit-service/internal/repository/contract"
)

// openMigrated gives every test its own database file, so ids start at 1.
func openMigrated(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, config.SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "contract.db"),
		BusyTimeout: 1000,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := migrations.Up(ctx, db, migrations.SQLite, zerolog.Nop()); err != nil {
		_ = db.Close()
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db, func() { _ = db.Close() }
}

func makeSessionLimitRepo(t *testing.T) (repository.SessionLimitRepository, func()) {
	db, cleanup := openMigrated(t)
	return NewSessionLimitRepository(db), cleanup
}

func makeTx(t *testing.T) (repository.TxManager, repository.SessionLimitRepository, func()) {
	db, cleanup := openMigrated(t)
	return NewTxManager(db), NewSessionLimitRepository(db), cleanup
}

func makePinger(t *testing.T) (repository.Pinger, func()) {
	db, cleanup := openMigrated(t)
	return NewPinger(db), cleanup
}

func TestSessionLimitRepository_SQLiteContract(t *testing.T) {
	contract.RunSessionLimitRepositoryContract(t, makeSessionLimitRepo)
}

func TestTxManager_SQLiteContract(t *testing.T) {
	contract.RunTxManagerContract(t, makeTx)
}

func TestPinger_SQLiteContract(t *testing.T) {
	contract.RunPingerContract(t, makePinger)
}
