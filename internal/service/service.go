// Package service holds business logic orchestration across repositories and callers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/session-limit-service/internal/model"
	"github.com/maxviazov/session-limit-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures.
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput builds an aggregated validation error if any field errors are present.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	var v interface{ Fields() []FieldError }
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// SessionLimitInput carries the client-provided limit. A nil Limit means the caller omitted it.
type SessionLimitInput struct {
	Limit *int `json:"limit" validate:"required,min=-2147483648,max=2147483647"`
}

// SessionLimitService defines session limit use cases.
type SessionLimitService interface {
	CreateSessionLimit(ctx context.Context, in SessionLimitInput) (model.SessionLimit, error)
	GetSessionLimit(ctx context.Context, id int64) (model.SessionLimit, error)
	UpdateSessionLimit(ctx context.Context, id int64, in SessionLimitInput) (model.SessionLimit, error)
	DeleteSessionLimit(ctx context.Context, id int64) error
	ListSessionLimits(ctx context.Context, page repository.Page) (repository.PageResult[model.SessionLimit], error)
}
