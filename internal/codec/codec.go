package codec

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
)

const (
	// ZeroKnowledgePrefix tags every value produced by a client cipher.
	ZeroKnowledgePrefix = "zk:v1:"

	// IVSize is the AES-GCM nonce length shared by both encrypted formats.
	IVSize = 12

	// TagSize is the AES-GCM authentication tag length.
	TagSize = 16

	delimiter = ":"
)

// Format is the shape of an encoded field.
type Format int

const (
	// FormatPlaintext is any value that is neither legacy nor zero-knowledge.
	FormatPlaintext Format = iota
	// FormatLegacy is a value encrypted with the server keyring.
	FormatLegacy
	// FormatZeroKnowledge is a value only the owner's client can decrypt.
	FormatZeroKnowledge
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatLegacy:
		return "legacy"
	case FormatZeroKnowledge:
		return "zero_knowledge"
	default:
		return "plaintext"
	}
}

// Classify reports the format of value. It is pure and total.
//
// The zero-knowledge prefix is checked first, then the legacy shape. Changing
// this order changes which stored values the server tries to decrypt.
func Classify(value string) Format {
	if strings.HasPrefix(value, ZeroKnowledgePrefix) {
		return FormatZeroKnowledge
	}

	if isLegacyShape(value) {
		return FormatLegacy
	}

	return FormatPlaintext
}

// isLegacyShape checks for exactly three components with a 12-byte hex IV
// in front.
func isLegacyShape(value string) bool {
	parts := strings.Split(value, delimiter)
	if len(parts) != 3 {
		return false
	}

	if hex.DecodedLen(len(parts[0])) != IVSize {
		return false
	}
	iv, err := hex.DecodeString(parts[0])

	return err == nil && len(iv) == IVSize
}

// EncodeZeroKnowledge builds the zero-knowledge string form from an IV and
// the sealed ciphertext (ciphertext followed by its GCM tag).
func EncodeZeroKnowledge(iv, sealed []byte) string {
	return ZeroKnowledgePrefix +
		base64.StdEncoding.EncodeToString(iv) +
		delimiter +
		base64.StdEncoding.EncodeToString(sealed)
}

// EncodeLegacy builds the legacy string form.
func EncodeLegacy(iv, ciphertext, tag []byte) string {
	return hex.EncodeToString(iv) +
		delimiter +
		hex.EncodeToString(ciphertext) +
		delimiter +
		hex.EncodeToString(tag)
}

func decodeZeroKnowledge(value string) (iv, sealed []byte, err error) {
	body := strings.TrimPrefix(value, ZeroKnowledgePrefix)

	parts := strings.Split(body, delimiter)
	if len(parts) != 2 {
		return nil, nil, ErrMalformedField
	}

	iv, err = base64.StdEncoding.DecodeString(parts[0])
	if err != nil || len(iv) != IVSize {
		return nil, nil, ErrMalformedField
	}

	sealed, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil || len(sealed) < TagSize {
		return nil, nil, ErrMalformedField
	}

	return iv, sealed, nil
}

func decodeLegacy(value string) (iv, ciphertext, tag []byte, err error) {
	parts := strings.Split(value, delimiter)
	if len(parts) != 3 {
		return nil, nil, nil, ErrMalformedField
	}

	iv, err = hex.DecodeString(parts[0])
	if err != nil || len(iv) != IVSize {
		return nil, nil, nil, ErrMalformedField
	}

	ciphertext, err = hex.DecodeString(parts[1])
	if err != nil {
		return nil, nil, nil, ErrMalformedField
	}

	tag, err = hex.DecodeString(parts[2])
	if err != nil || len(tag) != TagSize {
		return nil, nil, nil, ErrMalformedField
	}

	return iv, ciphertext, tag, nil
}
