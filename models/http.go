package models

import (
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
)

// CreatePaymentRequest is the body of POST /api/payments.
//
// Recipient and Notes are either zero-knowledge fields produced by the
// client or, while the owner has not started migrating, plaintext that the
// server encrypts with its current key.
type CreatePaymentRequest struct {
	UserID      int64       `json:"-"`
	AmountMinor int64       `json:"amount_minor"`
	Currency    string      `json:"currency"`
	PaidAt      time.Time   `json:"paid_at"`
	Recipient   codec.Field `json:"recipient"`
	Notes       codec.Field `json:"notes"`
}

// CommitRecordRequest is the body of PATCH /api/payments/{id}. Only the
// sensitive fields present in the body are written; each must be a
// zero-knowledge field.
type CommitRecordRequest struct {
	UserID    int64        `json:"-"`
	ID        int64        `json:"-"`
	Recipient *codec.Field `json:"recipient,omitempty"`
	Notes     *codec.Field `json:"notes,omitempty"`
}

// Fields returns the submitted fields keyed by column name.
func (r CommitRecordRequest) Fields() map[string]codec.Field {
	out := make(map[string]codec.Field, 2)
	if r.Recipient != nil {
		out[FieldRecipient] = *r.Recipient
	}
	if r.Notes != nil {
		out[FieldNotes] = *r.Notes
	}
	return out
}

// CommitRecordResponse answers PATCH /api/payments/{id}.
type CommitRecordResponse struct {
	ID             int64 `json:"id"`
	MigratedFields int64 `json:"migrated_fields"`
}

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error    string `json:"error"`
	Migrated *int64 `json:"migrated_fields,omitempty"`
	Total    *int64 `json:"total_fields,omitempty"`
}
