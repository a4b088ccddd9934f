// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
	"github.com/MKhiriev/go-zakat-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelectPaymentsQuery(t *testing.T) {
	tests := []struct {
		name     string
		ids      []int64
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "all payments of a user",
			wantSQL:  "SELECT id, user_id, amount_minor, currency, paid_at, recipient, notes, created_at, updated_at FROM payments WHERE user_id = $1 ORDER BY paid_at DESC, id DESC",
			wantArgs: []any{int64(5)},
		},
		{
			name:     "single payment",
			ids:      []int64{9},
			wantSQL:  "SELECT id, user_id, amount_minor, currency, paid_at, recipient, notes, created_at, updated_at FROM payments WHERE user_id = $1 AND id IN ($2) ORDER BY paid_at DESC, id DESC",
			wantArgs: []any{int64(5), int64(9)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildSelectPaymentsQuery(5, tt.ids...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildInsertPaymentQuery(t *testing.T) {
	paidAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := models.Payment{
		UserID:      2,
		AmountMinor: 1500,
		Currency:    "USD",
		PaidAt:      paidAt,
		Recipient:   codec.Parse(zkValue),
	}

	query, args, err := buildInsertPaymentQuery(p)
	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO payments")
	assert.Contains(t, query, "RETURNING id, created_at, updated_at")
	require.Len(t, args, 6)
	assert.Equal(t, int64(2), args[0])
	assert.Equal(t, p.Recipient, args[4])
}

func TestBuildCommitRecordQuery(t *testing.T) {
	t.Run("columns in stable order", func(t *testing.T) {
		fields := map[string]codec.Field{
			models.FieldRecipient: codec.Parse(zkValue),
			models.FieldNotes:     codec.Parse(zkValue),
		}

		query, args, err := buildCommitRecordQuery(1, 2, fields)
		require.NoError(t, err)
		assert.Equal(t, "UPDATE payments SET notes = $1, recipient = $2, updated_at = NOW() WHERE id = $3 AND user_id = $4", query)
		require.Len(t, args, 4)
		assert.Equal(t, int64(2), args[2])
		assert.Equal(t, int64(1), args[3])
	})

	t.Run("single column", func(t *testing.T) {
		query, _, err := buildCommitRecordQuery(1, 2, map[string]codec.Field{models.FieldNotes: codec.Parse(zkValue)})
		require.NoError(t, err)
		assert.Equal(t, "UPDATE payments SET notes = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3", query)
	})

	t.Run("no fields", func(t *testing.T) {
		_, _, err := buildCommitRecordQuery(1, 2, nil)
		assert.ErrorIs(t, err, ErrBuildingSQLQuery)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, _, err := buildCommitRecordQuery(1, 2, map[string]codec.Field{"amount_minor": codec.Parse(zkValue)})
		assert.ErrorIs(t, err, ErrBuildingSQLQuery)
	})
}
