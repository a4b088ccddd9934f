// Package codec serializes, parses, and classifies the string encodings of
// protected payment fields.
//
// A stored field has exactly one of three shapes:
//
//	zero-knowledge  zk:v1:<base64 iv>:<base64 ciphertext||tag>
//	legacy          <hex iv>:<hex ciphertext>:<hex tag>
//	plaintext       anything else, including the empty string
//
// The string form exists only at the storage and transport boundary. Inside
// the application a value is carried as a [Field], whose [Format] is decided
// once by [Parse] and never re-sniffed.
package codec
