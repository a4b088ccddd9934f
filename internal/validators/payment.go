package validators

import (
	"context"

	"github.com/MKhiriev/go-zakat-keeper/models"
)

// Field name constants used to scope validation to a subset of fields.
const (
	FieldUserID    = "user_id"
	FieldRecordID  = "id"
	FieldAmount    = "amount_minor"
	FieldCurrency  = "currency"
	FieldPaidAt    = "paid_at"
	FieldSensitive = "sensitive_fields"

	FieldLogin    = "login"
	FieldAuthHash = "auth_hash"
	FieldSalt     = "encryption_salt"
)

// minSaltSize mirrors the key derivation minimum.
const minSaltSize = 16

// RequestValidator implements [Validator] for the request models of the
// payment and auth APIs. Both value and pointer forms are accepted.
type RequestValidator struct{}

// NewRequestValidator returns a [RequestValidator] as a [Validator].
func NewRequestValidator() Validator {
	return &RequestValidator{}
}

// Validate dispatches on the dynamic type of obj.
//
// Supported types:
//   - models.CreatePaymentRequest / *models.CreatePaymentRequest
//   - models.CommitRecordRequest / *models.CommitRecordRequest
//   - models.User / *models.User
//
// Returns ErrUnsupportedType for anything else. Optional fields restrict
// validation to the named subset.
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.CreatePaymentRequest:
		return v.validateCreatePayment(value, fields...)
	case *models.CreatePaymentRequest:
		return v.validateCreatePayment(*value, fields...)
	case models.CommitRecordRequest:
		return v.validateCommitRecord(value, fields...)
	case *models.CommitRecordRequest:
		return v.validateCommitRecord(*value, fields...)
	case models.User:
		return v.validateUser(value, fields...)
	case *models.User:
		return v.validateUser(*value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateCreatePayment(req models.CreatePaymentRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldAmount, FieldCurrency, FieldPaidAt}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if req.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldAmount:
			if req.AmountMinor < 0 {
				return ErrInvalidAmount
			}
		case FieldCurrency:
			if !isCurrencyCode(req.Currency) {
				return ErrInvalidCurrency
			}
		case FieldPaidAt:
			if req.PaidAt.IsZero() {
				return ErrEmptyPaidAt
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateCommitRecord(req models.CommitRecordRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldUserID, FieldRecordID, FieldSensitive}
	}

	for _, f := range fields {
		switch f {
		case FieldUserID:
			if req.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldRecordID:
			if req.ID <= 0 {
				return ErrInvalidRecordID
			}
		case FieldSensitive:
			if req.Recipient == nil && req.Notes == nil {
				return ErrNoFieldsToUpdate
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateUser checks registration and login payloads. Login validates
// FieldLogin and FieldAuthHash only; registration adds FieldSalt.
func (v *RequestValidator) validateUser(user models.User, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldLogin, FieldAuthHash, FieldSalt}
	}

	for _, f := range fields {
		switch f {
		case FieldLogin:
			if user.Login == "" {
				return ErrEmptyLogin
			}
		case FieldAuthHash:
			if user.AuthHash == "" {
				return ErrEmptyAuthHash
			}
		case FieldSalt:
			if len(user.EncryptionSalt) < minSaltSize {
				return ErrInvalidSalt
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
