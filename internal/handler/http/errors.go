// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Authorization header failures reported by withAuth.
var (
	ErrEmptyAuthorizationHeader   = errors.New("missing authorization header")
	ErrInvalidAuthorizationHeader = errors.New("authorization header is not a bearer token")
	ErrEmptyToken                 = errors.New("bearer token is empty")
)
