package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor. At this count a single
	// derivation takes several hundred milliseconds on commodity hardware.
	DefaultIterations = 600_000

	// KeySize is the AES-256 key length produced by derivation.
	KeySize = 32

	// SaltSize is the length of a freshly generated per-user salt.
	SaltSize = 16

	// authHashContext domain-separates the login hash from the master key.
	authHashContext = "zakat-keeper/auth"

	redacted = "[REDACTED]"
)

// MasterKey is the symmetric key derived from a user's secret. It lives only
// in memory for one client session and has no export method.
//
// The zero value is an already-cleared key.
type MasterKey struct {
	mu  sync.RWMutex
	key []byte
}

func newMasterKey(material []byte) *MasterKey {
	key := make([]byte, len(material))
	copy(key, material)
	return &MasterKey{key: key}
}

// Clear zeroes the key material. Further use returns [ErrKeyCleared].
// Clear is idempotent.
func (m *MasterKey) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.key {
		m.key[i] = 0
	}
	m.key = nil
}

// Cleared reports whether the key has been cleared.
func (m *MasterKey) Cleared() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.key == nil
}

// String never prints key material.
func (m *MasterKey) String() string {
	return redacted
}

// GoString never prints key material.
func (m *MasterKey) GoString() string {
	return redacted
}

// MarshalJSON never serializes key material.
func (m *MasterKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// MarshalZerologObject keeps the key out of structured logs.
func (m *MasterKey) MarshalZerologObject(e *zerolog.Event) {
	e.Str("master_key", redacted).Bool("cleared", m.Cleared())
}

// use runs fn with the raw key under a read lock.
func (m *MasterKey) use(fn func(key []byte) error) error {
	if m == nil {
		return ErrKeyCleared
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.key == nil {
		return ErrKeyCleared
	}
	return fn(m.key)
}

// pbkdf2Deriver implements [KeyDeriver] with PBKDF2-HMAC-SHA256.
type pbkdf2Deriver struct {
	iterations int
}

// DeriverOption tunes a [KeyDeriver].
type DeriverOption func(*pbkdf2Deriver)

// WithIterations overrides the PBKDF2 iteration count. Production code uses
// [DefaultIterations]; tests lower it to keep the suite fast.
func WithIterations(n int) DeriverOption {
	return func(d *pbkdf2Deriver) {
		if n > 0 {
			d.iterations = n
		}
	}
}

// NewKeyDeriver returns a PBKDF2-HMAC-SHA256 [KeyDeriver] producing
// [KeySize]-byte keys.
func NewKeyDeriver(opts ...DeriverOption) KeyDeriver {
	d := &pbkdf2Deriver{iterations: DefaultIterations}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive implements [KeyDeriver].
func (d *pbkdf2Deriver) Derive(secret string, salt []byte) (*MasterKey, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if len(salt) < SaltSize {
		return nil, ErrInvalidSalt
	}

	material := pbkdf2.Key([]byte(secret), salt, d.iterations, KeySize, sha256.New)
	key := newMasterKey(material)

	for i := range material {
		material[i] = 0
	}

	return key, nil
}

// GenerateSalt reads [SaltSize] bytes from the OS CSPRNG.
// The salt is not secret; the server stores it next to the user.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// AuthHash derives the login credential sent to the server:
// hex(SHA-256(key || context)). The server cannot recover the key from it.
func AuthHash(key *MasterKey) (string, error) {
	var out string
	err := key.use(func(k []byte) error {
		h := sha256.New()
		h.Write(k)
		h.Write([]byte(authHashContext))
		out = hex.EncodeToString(h.Sum(nil))
		return nil
	})

	return out, err
}
