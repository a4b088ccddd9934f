// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used by the
// go-zakat-keeper server handlers and the client error mapper.
//
// All Msg* constants are the strings written into the "error" member of
// JSON error bodies. The client matches on the same strings, so the wording
// is part of the API.
package app

const (
	// MsgInvalidJSON is returned when the request body is not valid JSON.
	MsgInvalidJSON = "invalid JSON was passed"

	// MsgRequestTooLarge is returned when a request body, decoded or not,
	// exceeds the server limit.
	MsgRequestTooLarge = "request body too large"

	// MsgInvalidDataProvided is returned when a request fails validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInvalidLoginPassword is returned when the login or the auth hash
	// does not match.
	MsgInvalidLoginPassword = "invalid login/password"

	// MsgInternalServerError is returned for unexpected failures.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpired is returned when a bearer token has expired.
	MsgTokenIsExpired = "token is expired"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token cannot be
	// verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoUserIDProvided is returned when an authenticated route runs
	// without a user id in the request context.
	MsgNoUserIDProvided = "no user ID provided"

	// MsgLoginAlreadyExists is returned when registration hits a taken login.
	MsgLoginAlreadyExists = "login already exists"

	// MsgUserNotFound is returned by the params endpoint for unknown logins.
	MsgUserNotFound = "user not found"

	// MsgRecordNotFound is returned when a payment does not exist for the
	// authenticated user.
	MsgRecordNotFound = "record not found"

	// MsgNotZeroKnowledgeFormat is returned when a submitted sensitive value
	// is not a well-formed zero-knowledge field.
	MsgNotZeroKnowledgeFormat = "not zero-knowledge format"

	// MsgMigrationNotStarted is returned by finalize when legacy fields
	// exist and no handoff happened yet.
	MsgMigrationNotStarted = "migration not started"

	// MsgMigrationAlreadyComplete is returned by the handoff once the user
	// has migrated.
	MsgMigrationAlreadyComplete = "migration already complete"

	// MsgIncompleteMigration is returned by finalize while legacy fields
	// remain. The body also carries the migrated and total counters.
	MsgIncompleteMigration = "incomplete migration"

	// MsgTooManyRequests is returned by the rate limiter.
	MsgTooManyRequests = "too many requests"

	// MsgServiceUnavailable is returned when the rate limiter backend is
	// down.
	MsgServiceUnavailable = "service temporarily unavailable"
)
