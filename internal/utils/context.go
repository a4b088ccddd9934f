// Package utils holds small helpers shared by the server and the client:
// context keys, JSON responses, the resty client, JWT and HMAC helpers.
package utils

import (
	"context"
)

// contextKey is a private type for context keys, so keys from other
// packages cannot collide with ours.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// UserIDCtxKey stores the authenticated user id (int64) in a request
// context. The auth middleware sets it.
var UserIDCtxKey = contextKey("userID")

// GetUserIDFromContext returns the authenticated user id and whether it was
// present with the right type.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDCtxKey, userID)
}
