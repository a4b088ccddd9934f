// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the shape of auth and payment requests before
// they reach the services: ids, amounts, ISO currency codes, dates, logins
// and salts.
//
// Sensitive field formats are not checked here. Whether a recipient or notes
// value may be stored depends on the user's migration status, so the payment
// and encryption services decide that themselves.
package validators

import "context"

// Validator validates a request model. Passing field names limits the check
// to those fields; with none, every field the model requires is checked.
// Errors are the sentinels of this package.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
