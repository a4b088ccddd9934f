package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
)

// Outcome tells the caller what [ServerCipher.Resolve] did with a field.
type Outcome int

const (
	// OutcomePlaintext means the stored value was not encrypted and is
	// returned as is.
	OutcomePlaintext Outcome = iota
	// OutcomeDecrypted means a legacy field was opened with one of the
	// keyring keys.
	OutcomeDecrypted
	// OutcomePassthrough means the field is zero-knowledge: the server has
	// no key for it and hands back the stored string untouched.
	OutcomePassthrough
	// OutcomeFailed means a legacy field could not be opened with any key.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlaintext:
		return "plaintext"
	case OutcomeDecrypted:
		return "decrypted"
	case OutcomePassthrough:
		return "passthrough"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Resolution is the result of resolving one stored field.
type Resolution struct {
	Outcome Outcome
	// Value is the plaintext for OutcomePlaintext and OutcomeDecrypted and
	// the untouched stored string for OutcomePassthrough. It is empty for
	// OutcomeFailed.
	Value string
	// KeyIndex is the keyring position that opened a legacy field, or -1.
	KeyIndex int
	// Err is set only for OutcomeFailed and always wraps ErrDecryptionFailed.
	Err error
}

type serverCipher struct {
	keyring *Keyring
	opener  Opener
	rand    io.Reader
}

// ServerCipherOption tunes a [ServerCipher].
type ServerCipherOption func(*serverCipher)

// WithOpener replaces the AES-GCM opener.
func WithOpener(o Opener) ServerCipherOption {
	return func(s *serverCipher) {
		if o != nil {
			s.opener = o
		}
	}
}

// NewServerCipher returns a [ServerCipher] backed by keyring.
func NewServerCipher(keyring *Keyring, opts ...ServerCipherOption) (ServerCipher, error) {
	if keyring == nil || keyring.Len() == 0 {
		return nil, ErrNoCurrentKey
	}

	s := &serverCipher{
		keyring: keyring,
		opener:  gcmOpener{},
		rand:    rand.Reader,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *serverCipher) Resolve(field codec.Field) Resolution {
	switch field.Format() {
	case codec.FormatZeroKnowledge:
		return Resolution{Outcome: OutcomePassthrough, Value: field.String(), KeyIndex: -1}
	case codec.FormatPlaintext:
		return Resolution{Outcome: OutcomePlaintext, Value: field.String(), KeyIndex: -1}
	}

	parts, err := field.Decode()
	if err != nil {
		return failed(err)
	}

	for i, key := range s.keyring.keys {
		out, err := s.opener.Open(key, parts.IV, parts.Sealed)
		if err == nil {
			return Resolution{Outcome: OutcomeDecrypted, Value: string(out), KeyIndex: i}
		}
	}

	return failed(fmt.Errorf("no keyring key opened the field (%d tried)", s.keyring.Len()))
}

func (s *serverCipher) EncryptField(plaintext string) (codec.Field, error) {
	iv := make([]byte, codec.IVSize)
	if _, err := io.ReadFull(s.rand, iv); err != nil {
		return codec.Field{}, fmt.Errorf("read iv: %w", err)
	}

	sealed, err := seal(s.keyring.current(), iv, []byte(plaintext))
	if err != nil {
		return codec.Field{}, err
	}

	split := len(sealed) - codec.TagSize
	return codec.NewLegacy(iv, sealed[:split], sealed[split:])
}

func failed(cause error) Resolution {
	return Resolution{
		Outcome:  OutcomeFailed,
		KeyIndex: -1,
		Err:      fmt.Errorf("%w: %w", ErrDecryptionFailed, cause),
	}
}
