// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-zakat-keeper/internal/adapter"
	"github.com/MKhiriev/go-zakat-keeper/internal/app"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
)

// mapAdapterError translates the adapter's transport error into a service business error
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	var incomplete *adapter.IncompleteMigrationError
	if errors.As(err, &incomplete) {
		return &IncompleteMigrationError{Migrated: incomplete.Migrated, Total: incomplete.Total}
	}

	switch {
	case errors.Is(err, adapter.ErrLoginAlreadyExists):
		return store.ErrLoginAlreadyExists
	case errors.Is(err, adapter.ErrMigrationNotStarted):
		return ErrMigrationNotReady
	case errors.Is(err, adapter.ErrMigrationAlreadyComplete):
		return ErrMigrationAlreadyComplete
	case errors.Is(err, adapter.ErrFormatRejected):
		return ErrFormatRejected
	case errors.Is(err, adapter.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	case errors.Is(err, adapter.ErrServiceUnavailable):
		return ErrServerUnavailable
	}

	msg := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		if msg == app.MsgInvalidDataProvided || msg == app.MsgInvalidJSON {
			return ErrInvalidDataProvided
		}

	case errors.Is(err, adapter.ErrUnauthorized):
		switch msg {
		case app.MsgInvalidLoginPassword:
			return ErrWrongPassword
		case app.MsgTokenIsExpired:
			return ErrTokenIsExpired
		default:
			return ErrTokenIsExpiredOrInvalid
		}

	case errors.Is(err, adapter.ErrNotFound):
		switch msg {
		case app.MsgUserNotFound:
			return store.ErrNoUserWasFound
		case app.MsgRecordNotFound:
			return ErrRecordNotFound
		}
	}

	return err
}

// extractBody extracts the body from a message of the form "bad request: <body>"
func extractBody(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return msg
}
