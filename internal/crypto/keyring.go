// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Keyring is the ordered list of server keys used for legacy fields.
// Index 0 is the current key; the rest are previous keys kept for
// decryption only, newest first.
type Keyring struct {
	keys [][]byte
}

// NewKeyring copies current and previous into a new keyring. Every key must
// be [KeySize] bytes.
func NewKeyring(current []byte, previous ...[]byte) (*Keyring, error) {
	if len(current) == 0 {
		return nil, ErrNoCurrentKey
	}

	keys := make([][]byte, 0, len(previous)+1)
	for i, k := range append([][]byte{current}, previous...) {
		if len(k) != KeySize {
			return nil, fmt.Errorf("keyring entry %d: %w", i, ErrInvalidKeySize)
		}
		cp := make([]byte, KeySize)
		copy(cp, k)
		keys = append(keys, cp)
	}

	return &Keyring{keys: keys}, nil
}

// ParseKeyring builds a keyring from configuration strings. Each key may be
// hex (64 chars) or standard base64 (44 chars).
func ParseKeyring(current string, previous []string) (*Keyring, error) {
	cur, err := decodeKey(current)
	if err != nil {
		return nil, fmt.Errorf("current key: %w", err)
	}

	prev := make([][]byte, 0, len(previous))
	for i, p := range previous {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k, err := decodeKey(p)
		if err != nil {
			return nil, fmt.Errorf("previous key %d: %w", i, err)
		}
		prev = append(prev, k)
	}

	return NewKeyring(cur, prev...)
}

// Len returns the number of keys, current included.
func (r *Keyring) Len() int {
	return len(r.keys)
}

func (r *Keyring) current() []byte {
	return r.keys[0]
}

func decodeKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrNoCurrentKey
	}

	hexKey, hexErr := hex.DecodeString(s)
	if hexErr == nil && len(hexKey) == KeySize {
		return hexKey, nil
	}

	b64Key, b64Err := base64.StdEncoding.DecodeString(s)
	if b64Err == nil && len(b64Key) == KeySize {
		return b64Key, nil
	}

	if hexErr == nil || b64Err == nil {
		return nil, ErrInvalidKeySize
	}

	return nil, ErrInvalidKeyEncoding
}
