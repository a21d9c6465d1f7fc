// Package response centralizes CLI output shapes and exit codes.
// Commands rely on it to keep their Run methods thin and uniform.
package response

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/maxviazov/session-limit-service/internal/repository"
	"github.com/maxviazov/session-limit-service/internal/service"
)

// Process exit codes, one per error kind so scripts can branch without parsing output.
const (
	ExitOK           = 0
	ExitInternal     = 1
	ExitInvalidInput = 2
	ExitNotFound     = 3
	ExitConflict     = 4
	ExitUnavailable  = 5
)

// ErrorPayload is the canonical error envelope written by the CLI.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	Retryable   bool                 `json:"retryable,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
}

// MapError converts a domain / infrastructure error into an exit code and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return ExitOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return ExitInvalidInput, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ExitNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, repository.ErrAlreadyExists):
		return ExitConflict, ErrorPayload{Error: "already_exists"}
	case errors.Is(err, repository.ErrConflict):
		return ExitConflict, ErrorPayload{Error: "conflict"}
	case errors.Is(err, repository.ErrStorageUnavailable):
		return ExitUnavailable, ErrorPayload{Error: "storage_unavailable", Message: err.Error(), Retryable: true}
	default:
		return ExitInternal, ErrorPayload{Error: "internal_error"}
	}
}

// WriteError writes the error envelope to w and returns the exit code for err.
func WriteError(w io.Writer, err error) int {
	code, payload := MapError(err)
	_ = writeJSON(w, payload)
	return code
}

// WriteData writes a successful JSON result.
func WriteData(w io.Writer, data any) error {
	return writeJSON(w, data)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
