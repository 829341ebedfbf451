package seal

import (
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// ChaCha20 implements ChaCha20-Poly1305 authenticated encryption.
type ChaCha20 struct {
	baseSealer
}

// NewChaCha20 creates a ChaCha20-Poly1305 sealer. Key must be 32 bytes.
func NewChaCha20(key []byte) (*ChaCha20, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.New("seal: invalid key size for ChaCha20-Poly1305: must be 32 bytes")
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	return &ChaCha20{baseSealer: baseSealer{aead: aead}}, nil
}

// Algorithm returns the backing AEAD algorithm.
func (s *ChaCha20) Algorithm() Algorithm {
	return AlgorithmChaCha20
}

// Seal encrypts plaintext. The nonce is prepended to the result.
func (s *ChaCha20) Seal(plaintext []byte) ([]byte, error) {
	return s.seal(plaintext)
}

// Open decrypts data produced by Seal.
func (s *ChaCha20) Open(ciphertext []byte) ([]byte, error) {
	return s.open(ciphertext)
}
