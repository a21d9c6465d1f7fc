// Package contract holds driver-agnostic behaviour suites every repository implementation must pass.
package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/maxviazov/session-limit-service/internal/model"
	"github.com/maxviazov/session-limit-service/internal/repository"
)

// SessionLimitFactory returns a repository over an empty limite_session table.
type SessionLimitFactory func(t *testing.T) (repository.SessionLimitRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, limits repository.SessionLimitRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunSessionLimitRepositoryContract(t *testing.T, makeRepo SessionLimitFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for _, n := range []int{0, 1, -7, 10, 2147483647, -2147483648} {
			created, err := repo.Create(ctx, model.NewSessionLimit(n))
			if err != nil {
				t.Fatalf("create(%d) failed: %v", n, err)
			}
			if !created.IsPersisted() || created.Limit != n {
				t.Fatalf("create(%d) returned %+v", n, created)
			}
			got, err := repo.GetByID(ctx, created.ID)
			if err != nil {
				t.Fatalf("get failed: %v", err)
			}
			if got != created {
				t.Fatalf("mismatch: got %+v want %+v", got, created)
			}
		}
	})

	t.Run("create_ignores_caller_id", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		created, err := repo.Create(context.Background(), model.SessionLimit{ID: 4242, Limit: 3})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.ID == 4242 {
			t.Fatalf("expected storage-assigned id, got caller id")
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update_last_write_wins", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.NewSessionLimit(1))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		for _, n := range []int{5, 20} {
			created.Limit = n
			if _, err := repo.Update(ctx, created); err != nil {
				t.Fatalf("update(%d): %v", n, err)
			}
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Limit != 20 || got.ID != created.ID {
			t.Fatalf("expected last write to win, got %+v", got)
		}
	})

	t.Run("update_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Update(context.Background(), model.SessionLimit{ID: 31337, Limit: 1})
		if err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete_then_get_and_double_delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.NewSessionLimit(7))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if err := repo.Delete(ctx, created.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, created.ID); err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(ctx, created.ID); err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("ids_not_reused_after_delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		first, err := repo.Create(ctx, model.NewSessionLimit(1))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if err := repo.Delete(ctx, first.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		second, err := repo.Create(ctx, model.NewSessionLimit(2))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if second.ID <= first.ID {
			t.Fatalf("id reused or decreased: first=%d second=%d", first.ID, second.ID)
		}
	})

	t.Run("scenario_create_update_delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.NewSessionLimit(10))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created != (model.SessionLimit{ID: 1, Limit: 10}) {
			t.Fatalf("expected {1 10} on a fresh table, got %+v", created)
		}
		if _, err := repo.Update(ctx, model.SessionLimit{ID: 1, Limit: 20}); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := repo.GetByID(ctx, 1)
		if err != nil || got != (model.SessionLimit{ID: 1, Limit: 20}) {
			t.Fatalf("expected {1 20}, got %+v err=%v", got, err)
		}
		if err := repo.Delete(ctx, 1); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, 1); err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			if _, err := repo.Create(ctx, model.NewSessionLimit(i)); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 || res.Total != 7 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		res2, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 6})
		if err != nil {
			t.Fatalf("list2: %v", err)
		}
		if len(res2.Items) != 1 || res2.Total != 7 || res2.Items[0].Limit != 6 {
			t.Fatalf("unexpected last page: %+v", res2)
		}
		past, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 30})
		if err != nil {
			t.Fatalf("list past end: %v", err)
		}
		if len(past.Items) != 0 || past.Total != 7 {
			t.Fatalf("expected empty page with total 7, got len=%d total=%d", len(past.Items), past.Total)
		}
	})

	t.Run("list_empty_ok", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		res, err := repo.List(context.Background(), repository.Page{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 0 || res.Total != 0 {
			t.Fatalf("expected empty page, got %+v", res)
		}
	})

	t.Run("expired_context_is_unavailable", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx, cancel := context.WithTimeout(context.Background(), -1)
		defer cancel()
		_, err := repo.Create(ctx, model.NewSessionLimit(1))
		if !errors.Is(err, repository.ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, limits, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := limits.Create(ctx, model.NewSessionLimit(5))
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := limits.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, limits, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		errMarker := assertErr("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := limits.Create(ctx, model.NewSessionLimit(5))
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if err == nil || err.Error() != errMarker.Error() {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := limits.GetByID(ctx, createdID); err == nil || err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})

	t.Run("nested_joins_outer", func(t *testing.T) {
		tx, limits, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := tx.WithinTx(ctx, func(ctx context.Context) error {
				out, err := limits.Create(ctx, model.NewSessionLimit(9))
				createdID = out.ID
				return err
			}); err != nil {
				return err
			}
			return assertErr("outer failed")
		})
		if err == nil {
			t.Fatalf("expected outer error")
		}
		if _, err := limits.GetByID(ctx, createdID); err != repository.ErrNotFound {
			t.Fatalf("expected inner write rolled back with outer, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}

// assertErr builds a marker error that is never a driver error, so managers must return it untouched.
func assertErr(msg string) error { return &sentinel{msg} }

type sentinel struct{ s string }

func (e *sentinel) Error() string { return e.s }
