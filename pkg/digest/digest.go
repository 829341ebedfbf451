// Package digest provides SHA-256 hashing and constant-time
// comparison utilities shared by the envelope codec and the
// authentication middleware.
package digest

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Hash computes the hex-encoded SHA-256 digest of a string.
func Hash(data string) string {
	h := sha256.Sum256([]byte(data))
	return hex.EncodeToString(h[:])
}

// HashBytes computes the hex-encoded SHA-256 digest of bytes.
func HashBytes(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Verify reports whether data hashes to expected.
//
// Uses constant-time comparison to prevent timing attacks.
func Verify(data, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(Hash(data)), []byte(expected)) == 1
}

// Equal compares two opaque token strings in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
