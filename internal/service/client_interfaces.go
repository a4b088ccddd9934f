package service

import (
	"context"

	"github.com/MKhiriev/go-zakat-keeper/internal/crypto"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

// ClientAuthService registers and signs in a user. Both calls derive the
// master key from the user's secret and return it inside a session; the
// secret itself never leaves the client.
type ClientAuthService interface {
	// Register generates a fresh salt, derives the key and creates the
	// account with the derived auth hash.
	Register(ctx context.Context, login, secret string) (*crypto.Session, error)

	// Login fetches the user's salt, derives the key and authenticates with
	// the derived auth hash.
	Login(ctx context.Context, login, secret string) (*crypto.Session, error)
}

// ClientPaymentService reads and writes payments in plaintext as far as the
// caller is concerned. Zero-knowledge fields are opened and sealed locally
// with the session key.
type ClientPaymentService interface {
	// List returns every payment with zero-knowledge fields opened. When no
	// zero-knowledge field opens at all the key is assumed wrong: the
	// session is invalidated and [ErrKeyMismatch] is returned.
	List(ctx context.Context, session *crypto.Session) ([]models.PaymentView, error)

	// Create seals recipient and notes with the session key before upload.
	Create(ctx context.Context, session *crypto.Session, payment models.PaymentView) (models.PaymentView, error)
}

// ClientMigrationService drives the user's move to zero-knowledge storage:
// handoff, local re-encryption, per-record commit and finalize. Committed
// records are journaled locally until the migration completes, so a resumed
// run knows what an interrupted one already finished.
type ClientMigrationService interface {
	Status(ctx context.Context) (models.EncryptionStatus, error)
	Migrate(ctx context.Context, login string, session *crypto.Session, progress ProgressFunc) (MigrationReport, error)
}

// ClientAppInfoService reports the server build.
type ClientAppInfoService interface {
	ServerVersion(ctx context.Context) (string, error)
}

// ProgressFunc is called after each prepared record is handled.
type ProgressFunc func(done, total int)

// MigrationReport summarises one Migrate run.
type MigrationReport struct {
	// Status is the migration status after the run.
	Status models.MigrationStatus

	// Records is the number of records handed over by the server.
	Records int
	// Committed counts records submitted in this run.
	Committed int
	// Skipped counts records finished by an interrupted earlier run.
	Skipped int
	// Missing counts records deleted on the server during the run.
	Missing int

	// FailedFields lists, per record, fields the server could not decrypt.
	// They keep the migration from completing.
	FailedFields map[int64][]string
}
