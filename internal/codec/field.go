// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Field is a parsed encoded field. The zero value is an empty plaintext.
//
// Encrypted fields carry their decoded components; a field whose string
// classified as encrypted but could not be decoded keeps the decode error,
// which [Field.Decode] reports. Parsing itself never fails.
type Field struct {
	format Format
	raw    string

	iv     []byte
	sealed []byte
	err    error
}

// Components are the decoded parts of an encrypted field.
// Sealed is the AES-GCM ciphertext followed by its authentication tag.
type Components struct {
	IV     []byte
	Sealed []byte
}

// Parse classifies value and decodes its components once.
func Parse(value string) Field {
	f := Field{format: Classify(value), raw: value}

	switch f.format {
	case FormatZeroKnowledge:
		f.iv, f.sealed, f.err = decodeZeroKnowledge(value)
	case FormatLegacy:
		iv, ciphertext, tag, err := decodeLegacy(value)
		if err != nil {
			f.err = err
			break
		}
		f.iv = iv
		f.sealed = append(ciphertext, tag...)
	}

	return f
}

// NewZeroKnowledge builds a zero-knowledge field from an IV and the sealed
// ciphertext produced by AES-GCM.
func NewZeroKnowledge(iv, sealed []byte) (Field, error) {
	if len(iv) != IVSize {
		return Field{}, ErrInvalidIVLength
	}
	if len(sealed) < TagSize {
		return Field{}, ErrMalformedField
	}

	return Field{
		format: FormatZeroKnowledge,
		raw:    EncodeZeroKnowledge(iv, sealed),
		iv:     clone(iv),
		sealed: clone(sealed),
	}, nil
}

// NewLegacy builds a legacy field from AES-GCM output split into ciphertext
// and tag.
func NewLegacy(iv, ciphertext, tag []byte) (Field, error) {
	if len(iv) != IVSize {
		return Field{}, ErrInvalidIVLength
	}
	if len(tag) != TagSize {
		return Field{}, ErrMalformedField
	}

	raw := EncodeLegacy(iv, ciphertext, tag)
	if Classify(raw) != FormatLegacy {
		return Field{}, ErrClassificationAmbiguous
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	return Field{
		format: FormatLegacy,
		raw:    raw,
		iv:     clone(iv),
		sealed: sealed,
	}, nil
}

// NewPlaintext wraps value as a plaintext field. Values that would be read
// back as an encrypted format are refused with [ErrClassificationAmbiguous].
func NewPlaintext(value string) (Field, error) {
	if Classify(value) != FormatPlaintext {
		return Field{}, ErrClassificationAmbiguous
	}

	return Field{format: FormatPlaintext, raw: value}, nil
}

// Format reports the shape decided at parse time.
func (f Field) Format() Format {
	return f.format
}

// IsZeroKnowledge is shorthand for Format() == FormatZeroKnowledge.
func (f Field) IsZeroKnowledge() bool {
	return f.format == FormatZeroKnowledge
}

// IsLegacy is shorthand for Format() == FormatLegacy.
func (f Field) IsLegacy() bool {
	return f.format == FormatLegacy
}

// IsEmpty reports whether the field is an empty plaintext.
func (f Field) IsEmpty() bool {
	return f.format == FormatPlaintext && f.raw == ""
}

// String returns the stored encoding.
func (f Field) String() string {
	return f.raw
}

// Decode returns the components of an encrypted field. Plaintext fields
// return [ErrNotEncrypted]; undecodable ones return [ErrMalformedField].
func (f Field) Decode() (Components, error) {
	if f.format == FormatPlaintext {
		return Components{}, ErrNotEncrypted
	}
	if f.err != nil {
		return Components{}, f.err
	}

	return Components{IV: clone(f.iv), Sealed: clone(f.sealed)}, nil
}

// Scan implements sql.Scanner. NULL scans to an empty plaintext field.
func (f *Field) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = Field{}
	case string:
		*f = Parse(v)
	case []byte:
		*f = Parse(string(v))
	default:
		return fmt.Errorf("codec: cannot scan %T into Field", src)
	}

	return nil
}

// Value implements driver.Valuer.
func (f Field) Value() (driver.Value, error) {
	return f.raw, nil
}

// MarshalJSON encodes the field as its string form.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.raw)
}

// UnmarshalJSON parses a JSON string; null yields an empty plaintext field.
func (f *Field) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("codec: field must be a JSON string: %w", err)
	}

	if s == nil {
		*f = Field{}
		return nil
	}

	*f = Parse(*s)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
