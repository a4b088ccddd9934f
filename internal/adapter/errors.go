package adapter

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrServiceUnavailable  = errors.New("service unavailable")

	ErrLoginAlreadyExists       = fmt.Errorf("%w: login already exists", ErrConflict)
	ErrFormatRejected           = errors.New("server rejected a non zero-knowledge value")
	ErrMigrationNotStarted      = fmt.Errorf("%w: migration not started", ErrConflict)
	ErrMigrationAlreadyComplete = fmt.Errorf("%w: migration already complete", ErrConflict)
	ErrIncompleteMigration      = fmt.Errorf("%w: incomplete migration", ErrConflict)

	ErrEmptyAddress       = errors.New("empty server address")
	ErrMissingBearerToken = errors.New("response carries no bearer token")
)

// IncompleteMigrationError is a refused finalize with the server's counters.
// It matches [ErrIncompleteMigration] and [ErrConflict].
type IncompleteMigrationError struct {
	Migrated int64
	Total    int64
}

func (e *IncompleteMigrationError) Error() string {
	return fmt.Sprintf("%s: %d/%d fields migrated", ErrIncompleteMigration, e.Migrated, e.Total)
}

func (e *IncompleteMigrationError) Unwrap() error {
	return ErrIncompleteMigration
}

// RateLimitError is a 429 answer. RetryAfter is zero when the server sent no
// usable Retry-After header.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: retry after %s", ErrTooManyRequests, e.RetryAfter)
	}
	return ErrTooManyRequests.Error()
}

func (e *RateLimitError) Unwrap() error {
	return ErrTooManyRequests
}
