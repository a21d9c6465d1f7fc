package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level errors I prefer to bubble up from repository implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	// ErrStorageUnavailable marks a store that could not be reached or did not answer in time.
	// Callers may retry; nothing in this layer does.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Unavailable wraps cause so that errors.Is(err, ErrStorageUnavailable) holds
// while the driver message stays visible in logs.
func Unavailable(cause error) error {
	if cause == nil || errors.Is(cause, ErrStorageUnavailable) {
		return cause
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, cause)
}

// IsTimeout reports context expiry, the one outage signal shared by every driver.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// MapPgError translates common Postgres error codes to domain errors.
// I only map what I expect to handle explicitly at higher layers; everything else passes through.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return ErrAlreadyExists
		case pgErr.Code == pgerrcode.ForeignKeyViolation:
			return ErrConflict
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgErr.Code == pgerrcode.AdminShutdown,
			pgErr.Code == pgerrcode.CrashShutdown,
			pgErr.Code == pgerrcode.CannotConnectNow,
			pgErr.Code == pgerrcode.TooManyConnections:
			return Unavailable(err)
		}
		return err
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) || IsTimeout(err) || isConnLost(err) {
		return Unavailable(err)
	}
	return err
}

// isConnLost matches an established connection dying mid-session. pgx hands
// these back as raw network errors rather than a PgError.
func isConnLost(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	return strings.Contains(err.Error(), "conn closed")
}
