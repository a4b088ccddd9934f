package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashString returns hex(HMAC-SHA256(hashKey, data)). The server stores
// client auth hashes in this form.
func HashString(data string, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}

// EqualHashes compares two hex digests in constant time.
func EqualHashes(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}
