package models

import "time"

// User is an account together with its encryption migration state.
type User struct {
	// UserID is the internal identifier. It never leaves the server.
	UserID int64 `json:"-"`

	// Login is the unique user login.
	Login string `json:"login"`

	// AuthHash is the credential sent by the client. On the server it is
	// replaced by its HMAC before it reaches storage.
	AuthHash string `json:"auth_hash,omitempty"`

	// EncryptionSalt is the per-user KDF salt. It is not secret and is
	// base64 encoded in JSON.
	EncryptionSalt []byte `json:"encryption_salt,omitempty"`

	// Migration is the persisted encryption migration state.
	Migration MigrationState `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table for User.
func (u User) TableName() string {
	return "users"
}

// UserParams is what a client needs before login to derive its master key.
type UserParams struct {
	Login          string `json:"login"`
	EncryptionSalt []byte `json:"encryption_salt"`
}
