package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// AESGCM implements AES-256-GCM authenticated encryption.
type AESGCM struct {
	baseSealer
}

// NewAESGCM creates an AES-256-GCM sealer. Key must be 32 bytes.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != KeySize {
		return nil, errors.New("seal: invalid key size for AES-GCM: must be 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &AESGCM{baseSealer: baseSealer{aead: aead}}, nil
}

// Algorithm returns the backing AEAD algorithm.
func (s *AESGCM) Algorithm() Algorithm {
	return AlgorithmAESGCM
}

// Seal encrypts plaintext. The nonce is prepended to the result.
func (s *AESGCM) Seal(plaintext []byte) ([]byte, error) {
	return s.seal(plaintext)
}

// Open decrypts data produced by Seal.
func (s *AESGCM) Open(ciphertext []byte) ([]byte, error) {
	return s.open(ciphertext)
}
