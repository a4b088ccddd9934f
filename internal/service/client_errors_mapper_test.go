package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MKhiriev/go-zakat-keeper/internal/adapter"
	"github.com/MKhiriev/go-zakat-keeper/internal/app"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAdapterError(t *testing.T) {
	other := errors.New("dial tcp: i/o timeout")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"login taken", adapter.ErrLoginAlreadyExists, store.ErrLoginAlreadyExists},
		{"not started", adapter.ErrMigrationNotStarted, ErrMigrationNotReady},
		{"already complete", adapter.ErrMigrationAlreadyComplete, ErrMigrationAlreadyComplete},
		{"format rejected", fmt.Errorf("%w: %s", adapter.ErrFormatRejected, app.MsgNotZeroKnowledgeFormat), ErrFormatRejected},
		{"rate limited", &adapter.RateLimitError{RetryAfter: time.Second}, ErrRateLimited},
		{"unavailable", fmt.Errorf("%w: %s", adapter.ErrServiceUnavailable, app.MsgServiceUnavailable), ErrServerUnavailable},
		{"invalid data", fmt.Errorf("%w: %s", adapter.ErrBadRequest, app.MsgInvalidDataProvided), ErrInvalidDataProvided},
		{"wrong password", fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgInvalidLoginPassword), ErrWrongPassword},
		{"expired token", fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgTokenIsExpired), ErrTokenIsExpired},
		{"bad token", fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgTokenIsExpiredOrInvalid), ErrTokenIsExpiredOrInvalid},
		{"unknown user", fmt.Errorf("%w: %s", adapter.ErrNotFound, app.MsgUserNotFound), store.ErrNoUserWasFound},
		{"unknown record", fmt.Errorf("%w: %s", adapter.ErrNotFound, app.MsgRecordNotFound), ErrRecordNotFound},
		{"unmapped", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapAdapterError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestMapAdapterError_Incomplete(t *testing.T) {
	got := mapAdapterError(&adapter.IncompleteMigrationError{Migrated: 2, Total: 3})

	var incomplete *IncompleteMigrationError
	require.ErrorAs(t, got, &incomplete)
	assert.Equal(t, &IncompleteMigrationError{Migrated: 2, Total: 3}, incomplete)
	assert.ErrorIs(t, got, ErrIncompleteMigration)
}

func TestMapAdapterError_RateLimitKeepsRetryAfter(t *testing.T) {
	got := mapAdapterError(&adapter.RateLimitError{RetryAfter: 30 * time.Second})

	var limited *adapter.RateLimitError
	require.ErrorAs(t, got, &limited)
	assert.Equal(t, 30*time.Second, limited.RetryAfter)
}
