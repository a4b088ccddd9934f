package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
)

type clientCipher struct {
	rand io.Reader
}

// NewClientCipher returns the zero-knowledge field cipher used on the
// client side. IVs come from crypto/rand.
func NewClientCipher() ClientCipher {
	return &clientCipher{rand: rand.Reader}
}

func (c *clientCipher) EncryptField(plaintext string, key *MasterKey) (codec.Field, error) {
	var field codec.Field

	err := key.use(func(k []byte) error {
		iv := make([]byte, codec.IVSize)
		if _, err := io.ReadFull(c.rand, iv); err != nil {
			return fmt.Errorf("read iv: %w", err)
		}

		sealed, err := seal(k, iv, []byte(plaintext))
		if err != nil {
			return err
		}

		field, err = codec.NewZeroKnowledge(iv, sealed)
		return err
	})

	return field, err
}

func (c *clientCipher) DecryptField(field codec.Field, key *MasterKey) (string, error) {
	if !field.IsZeroKnowledge() {
		return "", fmt.Errorf("%w: %w: %s", ErrDecryptionFailed, ErrUnexpectedFormat, field.Format())
	}

	parts, err := field.Decode()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	var plaintext string
	err = key.use(func(k []byte) error {
		out, err := gcmOpener{}.Open(k, parts.IV, parts.Sealed)
		if err != nil {
			return err
		}
		plaintext = string(out)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrKeyCleared) {
			return "", err
		}
		return "", ErrDecryptionFailed
	}

	return plaintext, nil
}

// gcmOpener is the production [Opener]: AES-256-GCM with a 12-byte nonce
// and a 16-byte tag.
type gcmOpener struct{}

// NewOpener returns the AES-GCM [Opener].
func NewOpener() Opener {
	return gcmOpener{}
}

func (gcmOpener) Open(key, iv, sealed []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != aead.NonceSize() {
		return nil, codec.ErrInvalidIVLength
	}

	return aead.Open(nil, iv, sealed, nil)
}

func seal(key, iv, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return aead.Seal(nil, iv, plaintext, nil), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes: %w", err)
	}

	return cipher.NewGCM(block)
}
