package seal

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"runtime"
)

// Algorithm identifies the AEAD algorithm backing a Sealer.
type Algorithm string

const (
	AlgorithmAESGCM   Algorithm = "aes-gcm"
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the required key length in bytes for every algorithm.
const KeySize = 32

// ErrOpenFailed is returned when authenticated decryption fails,
// whether from tampering, truncation, or a wrong key.
var ErrOpenFailed = errors.New("seal: open failed")

// Sealer provides authenticated encryption.
type Sealer interface {
	// Algorithm returns the backing AEAD algorithm.
	Algorithm() Algorithm

	// Seal encrypts plaintext. The nonce is prepended to the result.
	Seal(plaintext []byte) ([]byte, error)

	// Open decrypts data produced by Seal.
	Open(ciphertext []byte) ([]byte, error)
}

// New creates a Sealer with the given 32-byte key, selecting AES-GCM
// on architectures with hardware AES support and ChaCha20-Poly1305
// elsewhere.
func New(key []byte) (Sealer, error) {
	if hasAESHardware() {
		return NewAESGCM(key)
	}
	return NewChaCha20(key)
}

// NewWithAlgorithm creates a Sealer of the specified algorithm.
func NewWithAlgorithm(key []byte, alg Algorithm) (Sealer, error) {
	switch alg {
	case AlgorithmAESGCM:
		return NewAESGCM(key)
	case AlgorithmChaCha20:
		return NewChaCha20(key)
	default:
		return nil, errors.New("seal: unknown algorithm " + string(alg))
	}
}

// hasAESHardware reports whether the architecture carries AES
// instructions crypto/aes takes advantage of.
func hasAESHardware() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

type baseSealer struct {
	aead cipher.AEAD
}

func (s *baseSealer) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *baseSealer) open(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < s.aead.NonceSize() {
		return nil, ErrOpenFailed
	}
	nonce := ciphertext[:s.aead.NonceSize()]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext[s.aead.NonceSize():], nil)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}

// SealString seals a string and returns the result base64-encoded for
// transport inside a JSON envelope.
func SealString(s Sealer, plaintext string) (string, error) {
	sealed, err := s.Seal([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenString reverses SealString.
func OpenString(s Sealer, encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrOpenFailed
	}
	plaintext, err := s.Open(sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
