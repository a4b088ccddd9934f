package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpired          = errors.New("token is expired")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// Encryption migration errors.
var (
	// ErrFormatRejected is returned when a commit or create carries a value
	// that is not zero-knowledge where one is required.
	ErrFormatRejected = errors.New("not zero-knowledge format")

	// ErrMigrationNotReady is returned when finalize is called for a user
	// who still has legacy fields but never requested the handoff.
	ErrMigrationNotReady = errors.New("migration not started")

	// ErrMigrationAlreadyComplete is returned when the plaintext handoff is
	// requested for a user who has already migrated.
	ErrMigrationAlreadyComplete = errors.New("migration already complete")

	// ErrIncompleteMigration is returned when finalize finds fields that
	// have not been committed in zero-knowledge form yet.
	ErrIncompleteMigration = errors.New("incomplete migration")

	// ErrRecordNotFound is returned when a payment does not exist for the
	// authenticated user.
	ErrRecordNotFound = errors.New("record not found")
)

// IncompleteMigrationError carries the counters observed by a refused
// finalize. It matches [ErrIncompleteMigration] with [errors.Is].
type IncompleteMigrationError struct {
	Migrated int64
	Total    int64
}

func (e *IncompleteMigrationError) Error() string {
	return fmt.Sprintf("%s: %d/%d fields migrated", ErrIncompleteMigration, e.Migrated, e.Total)
}

func (e *IncompleteMigrationError) Is(target error) bool {
	return target == ErrIncompleteMigration
}

// Client errors.
var (
	// ErrKeyMismatch is returned when the session key opens none of the
	// user's zero-knowledge fields. The session is invalidated.
	ErrKeyMismatch = errors.New("master key does not match stored data")

	// ErrRateLimited is returned when the server throttles the handoff.
	ErrRateLimited = errors.New("too many migration attempts, try again later")

	// ErrServerUnavailable is returned when the server cannot serve the
	// request right now.
	ErrServerUnavailable = errors.New("server temporarily unavailable")
)
