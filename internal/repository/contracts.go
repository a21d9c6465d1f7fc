package repository

import (
	"context"

	"github.com/maxviazov/session-limit-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// SessionLimitRepository declares persistence operations for session limits.
// I return domain models and surface domain errors from errors.go rather than driver codes.
type SessionLimitRepository interface {
	// Create inserts a transient record; any ID on the input is ignored.
	Create(ctx context.Context, s model.SessionLimit) (model.SessionLimit, error)
	GetByID(ctx context.Context, id int64) (model.SessionLimit, error)
	// Update overwrites the limit of an existing record, ErrNotFound if the id is unknown.
	Update(ctx context.Context, s model.SessionLimit) (model.SessionLimit, error)
	// Delete removes the record. Deleting an id twice yields ErrNotFound the second time.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, p Page) (PageResult[model.SessionLimit], error)
}
