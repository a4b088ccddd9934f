package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned whenever a field cannot be opened:
	// wrong key, tampered or corrupted ciphertext, or a malformed blob.
	// It never accompanies partial plaintext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrKeyCleared is returned when a cleared [MasterKey] is used.
	ErrKeyCleared = errors.New("master key has been cleared")

	// ErrUnexpectedFormat is wrapped into [ErrDecryptionFailed] when a cipher
	// is handed a field of a format it does not own.
	ErrUnexpectedFormat = errors.New("unexpected field format")

	// ErrInvalidKeySize is returned when key material is not 32 bytes.
	ErrInvalidKeySize = errors.New("key must be 32 bytes")

	// ErrInvalidKeyEncoding is returned when configured key material is
	// neither hex nor base64.
	ErrInvalidKeyEncoding = errors.New("key must be hex or base64 encoded")

	// ErrNoCurrentKey is returned when a keyring is built without a
	// current key.
	ErrNoCurrentKey = errors.New("keyring has no current key")

	// ErrEmptySecret is returned when key derivation is asked to run on an
	// empty secret.
	ErrEmptySecret = errors.New("secret must not be empty")

	// ErrInvalidSalt is returned when the salt is shorter than [SaltSize].
	ErrInvalidSalt = errors.New("salt must be at least 16 bytes")
)
