// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client's transport to the go-zakat-keeper server.
//
// [ServerAdapter] hides the REST API behind typed calls. Failed responses are
// mapped to the sentinels in errors.go from the status code and the "error"
// member of the JSON body, so callers use [errors.Is] instead of looking at
// status codes (e.g. [ErrFormatRejected] for a refused non zero-knowledge
// value, [ErrIncompleteMigration] for a refused finalize).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-zakat-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines communication with the go-zakat-keeper server.
// Implementations own serialisation, the bearer token and error mapping.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to authenticated requests.
	SetToken(token string)

	// Token returns the current bearer token, or "" before login.
	Token() string

	// Version returns the server build.
	Version(ctx context.Context) (models.VersionResponse, error)

	// Register creates the account and stores the returned bearer token.
	Register(ctx context.Context, user models.User) error

	// Params fetches the KDF salt of login. It is needed to derive the
	// master key before the auth hash can be computed.
	Params(ctx context.Context, login string) (models.UserParams, error)

	// Login authenticates with the pre-computed auth hash and stores the
	// returned bearer token.
	Login(ctx context.Context, user models.User) error

	ListPayments(ctx context.Context) ([]models.PaymentView, error)
	CreatePayment(ctx context.Context, request models.CreatePaymentRequest) (models.PaymentView, error)

	// EncryptionStatus returns the migration state and live field counts.
	EncryptionStatus(ctx context.Context) (models.EncryptionStatus, error)

	// PrepareMigration asks the server to decrypt every legacy field and
	// hand the plaintext over for re-encryption.
	PrepareMigration(ctx context.Context) (models.PrepareMigrationResponse, error)

	// CommitRecord submits zero-knowledge fields for one payment.
	CommitRecord(ctx context.Context, request models.CommitRecordRequest) (models.CommitRecordResponse, error)

	// MarkMigrated finalizes the migration.
	MarkMigrated(ctx context.Context) (models.MarkMigratedResponse, error)
}
