package seal

import "golang.org/x/crypto/argon2"

// Argon2id parameters for password-based key derivation. Tuned for
// interactive use; derivation happens once per codec construction, not
// per payload.
const (
	deriveTime    = 1
	deriveMemory  = 64 * 1024 // KiB
	deriveThreads = 4
)

// DeriveKey derives a 32-byte key from a password and salt using
// Argon2id. The same password+salt pair always yields the same key.
func DeriveKey(password, salt string) []byte {
	return argon2.IDKey([]byte(password), []byte(salt), deriveTime, deriveMemory, deriveThreads, KeySize)
}

// NewFromPassword creates a Sealer keyed by a password+salt pair.
func NewFromPassword(password, salt string) (Sealer, error) {
	return New(DeriveKey(password, salt))
}
