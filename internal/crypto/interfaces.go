package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

import "github.com/MKhiriev/go-zakat-keeper/internal/codec"

// KeyDeriver turns a user secret and the per-user salt into a [MasterKey].
//
// Derivation is deliberately slow (hundreds of milliseconds) to make offline
// guessing of the secret expensive.
type KeyDeriver interface {
	// Derive runs the password-based KDF and returns a fresh session key.
	Derive(secret string, salt []byte) (*MasterKey, error)
}

// ClientCipher encrypts and decrypts individual field values with a
// session's master key. It performs no I/O.
type ClientCipher interface {
	// EncryptField seals plaintext under key with a fresh random IV and
	// returns a zero-knowledge field.
	EncryptField(plaintext string, key *MasterKey) (codec.Field, error)

	// DecryptField opens a zero-knowledge field. Any failure, including a
	// wrong key, tampering or a malformed blob, yields [ErrDecryptionFailed].
	DecryptField(field codec.Field, key *MasterKey) (string, error)
}

// ServerCipher holds the server keyring. It can decrypt legacy fields only;
// zero-knowledge fields pass through untouched.
type ServerCipher interface {
	// Resolve turns a stored field into a value business logic can use.
	Resolve(field codec.Field) Resolution

	// EncryptField produces a legacy field under the current keyring key.
	EncryptField(plaintext string) (codec.Field, error)
}

// Opener opens AES-GCM sealed data with a single key. The server cipher
// calls it once per key it tries.
type Opener interface {
	Open(key, iv, sealed []byte) ([]byte, error)
}
