package models

import (
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
)

// Names of the sensitive payment columns.
const (
	FieldRecipient = "recipient"
	FieldNotes     = "notes"
)

// SensitiveFields lists every column that holds an encoded field.
var SensitiveFields = []string{FieldRecipient, FieldNotes}

// Payment is a stored charity payment. Amount, currency and date are plain
// columns; Recipient and Notes hold encoded fields in any of the three
// storage formats.
type Payment struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"-"`
	AmountMinor int64       `json:"amount_minor"`
	Currency    string      `json:"currency"`
	PaidAt      time.Time   `json:"paid_at"`
	Recipient   codec.Field `json:"recipient"`
	Notes       codec.Field `json:"notes"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Sensitive returns the encoded fields keyed by column name.
func (p Payment) Sensitive() map[string]codec.Field {
	return map[string]codec.Field{
		FieldRecipient: p.Recipient,
		FieldNotes:     p.Notes,
	}
}

// PaymentView is a payment as returned by GET /api/payments. Legacy fields
// are already decrypted; zero-knowledge fields are returned as stored for
// the client to open. CorruptedFields names fields that could not be
// decrypted and were replaced by a placeholder.
type PaymentView struct {
	ID              int64     `json:"id"`
	AmountMinor     int64     `json:"amount_minor"`
	Currency        string    `json:"currency"`
	PaidAt          time.Time `json:"paid_at"`
	Recipient       string    `json:"recipient"`
	Notes           string    `json:"notes"`
	CorruptedFields []string  `json:"corrupted_fields,omitempty"`
}
