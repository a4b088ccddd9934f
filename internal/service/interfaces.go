package service

import (
	"context"

	"github.com/MKhiriev/go-zakat-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/servicemock/service_mock.go -package=servicemock

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	Params(ctx context.Context, login string) (models.UserParams, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// PaymentService reads and writes payments with their sensitive fields
// resolved through the server cipher.
type PaymentService interface {
	// ListPayments never fails because of a single undecryptable field:
	// such fields are replaced by [UndecryptablePlaceholder] and named in
	// CorruptedFields.
	ListPayments(ctx context.Context, userID int64) ([]models.PaymentView, error)
	CreatePayment(ctx context.Context, request models.CreatePaymentRequest) (models.PaymentView, error)
}

// EncryptionService drives the one-time move of a user's legacy fields to
// zero-knowledge form.
type EncryptionService interface {
	Status(ctx context.Context, userID int64) (models.EncryptionStatus, error)
	PrepareMigration(ctx context.Context, userID int64) (models.PrepareMigrationResponse, error)
	CommitRecord(ctx context.Context, request models.CommitRecordRequest) (models.CommitRecordResponse, error)
	MarkMigrated(ctx context.Context, userID int64) (models.MarkMigratedResponse, error)
}

// AppInfoService reports the running server build.
type AppInfoService interface {
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// PaymentServiceWrapper defines middleware composition for PaymentService.
// Implementations wrap an existing PaymentService to add behavior such as
// validation.
type PaymentServiceWrapper interface {
	Wrap(PaymentService) PaymentService
}
