package crypto

import (
	"errors"
	"sync"
)

// ErrSessionClosed is returned by [Session.Key] after Close or Invalidate.
var ErrSessionClosed = errors.New("session is closed")

// Session owns the master key for one client login. The key is derived once
// when the session opens and cleared when it closes. There is no global key.
type Session struct {
	mu          sync.Mutex
	key         *MasterKey
	invalidated bool
}

// OpenSession derives the master key for secret and salt.
func OpenSession(deriver KeyDeriver, secret string, salt []byte) (*Session, error) {
	key, err := deriver.Derive(secret, salt)
	if err != nil {
		return nil, err
	}

	return &Session{key: key}, nil
}

// Key returns the session key while the session is open.
func (s *Session) Key() (*MasterKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key == nil || s.key.Cleared() {
		return nil, ErrSessionClosed
	}
	return s.key, nil
}

// Invalidate clears the key after a suspected key mismatch, for example when
// data the user owns fails to decrypt. The user has to sign in again.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.invalidated = true
	s.mu.Unlock()

	s.Close()
}

// Invalidated reports whether the session ended through Invalidate.
func (s *Session) Invalidated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidated
}

// Close clears the key. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil {
		s.key.Clear()
		s.key = nil
	}
}
