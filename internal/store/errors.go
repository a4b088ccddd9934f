package store

import "errors"

// Domain errors. Services translate them into HTTP statuses.
var (
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrNoUserWasFound     = errors.New("no user was found")

	// ErrPaymentNotFound also covers a payment that belongs to another user,
	// so ids of foreign records are not disclosed.
	ErrPaymentNotFound = errors.New("payment was not found")
	// ErrPaymentNotSaved means INSERT ... RETURNING produced no row.
	ErrPaymentNotSaved = errors.New("payment was not saved")
	// ErrLegacyWriteRefused means a legacy field arrived after the owner
	// started migrating.
	ErrLegacyWriteRefused = errors.New("legacy fields are only stored before migration starts")
)

// SQL plumbing errors, always wrapped together with the driver error.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrExecutingStatement   = errors.New("failed to execute statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	// ErrCommitingTransaction leaves the transaction rolled back.
	ErrCommitingTransaction = errors.New("failed to commit transaction")
)
