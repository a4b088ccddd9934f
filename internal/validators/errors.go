package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidUserID    = errors.New("invalid user ID")
	ErrInvalidRecordID  = errors.New("invalid record ID")
	ErrInvalidAmount    = errors.New("amount must not be negative")
	ErrInvalidCurrency  = errors.New("currency must be a three-letter ISO 4217 code")
	ErrEmptyPaidAt      = errors.New("paid_at is required")
	ErrNoFieldsToUpdate = errors.New("at least one field must be provided for update")

	ErrEmptyLogin    = errors.New("login is required")
	ErrEmptyAuthHash = errors.New("auth_hash is required")
	ErrInvalidSalt   = errors.New("encryption_salt is too short")
)
