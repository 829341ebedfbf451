// Package seal provides authenticated symmetric encryption for the
// envelope codec.
//
// A Sealer wraps an AEAD primitive selected for the host: AES-GCM
// where hardware acceleration is available, ChaCha20-Poly1305
// otherwise. Keys are derived deterministically from a caller-supplied
// password and salt with Argon2id, so the same password+salt always
// opens what it sealed. The nonce is generated per seal and prepended
// to the ciphertext.
package seal
