package store

import (
	"context"

	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists accounts and their encryption migration state.
//
// Every state change is a conditional write: it only applies when the row is
// still in the expected status, and reports whether it did. The caller
// decides what a lost race means.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
	GetMigrationState(ctx context.Context, userID int64) (models.MigrationState, error)

	// StartMigration moves a pending user with legacy fields to
	// in_progress, with total_fields counted under the same lock. It reports
	// false when the user was not pending or had nothing to migrate.
	StartMigration(ctx context.Context, userID int64) (bool, error)
	// CompleteMigration moves a pending or in_progress user to completed
	// when a live recount finds no legacy field left.
	CompleteMigration(ctx context.Context, userID int64) (bool, error)

	MigrationStats(ctx context.Context) (models.MigrationStats, error)
}

// PaymentRepository persists payments.
type PaymentRepository interface {
	// CreatePayment refuses a payment carrying a legacy field with
	// ErrLegacyWriteRefused once the owner has left pending.
	CreatePayment(ctx context.Context, payment models.Payment) (models.Payment, error)
	GetPayment(ctx context.Context, userID, id int64) (models.Payment, error)
	ListPayments(ctx context.Context, userID int64) ([]models.Payment, error)

	// CommitRecord overwrites the given sensitive fields of one payment and,
	// in the same transaction, adds the number of fields that went from
	// legacy to zero-knowledge to the owner's migrated counter while the
	// migration is in progress. It returns that number.
	CommitRecord(ctx context.Context, userID, id int64, fields map[string]codec.Field) (int64, error)
}

// MigrationJournal is the client's local record of payments already
// committed in zero-knowledge form. It lets an interrupted migration resume
// without re-submitting finished records.
type MigrationJournal interface {
	MarkCommitted(ctx context.Context, login string, recordID int64) error
	Committed(ctx context.Context, login string) (map[int64]struct{}, error)
	Clear(ctx context.Context, login string) error
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
