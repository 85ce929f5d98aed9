// ABOUTME: ChaCha20-Poly1305 sealing for credential values at rest
// ABOUTME: Random nonce prefixed to each ciphertext, 32-byte key required

package keyring

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// sealer encrypts and decrypts credential values with ChaCha20-Poly1305.
type sealer struct {
	key []byte
}

func newSealer(key []byte) (*sealer, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("keyring key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &sealer{key: key}, nil
}

// seal encrypts value, returning nonce || ciphertext.
func (s *sealer) seal(value string) ([]byte, error) {
	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, []byte(value), nil), nil
}

// open decrypts a sealed value produced by seal.
func (s *sealer) open(sealed []byte) (string, error) {
	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return "", fmt.Errorf("initializing cipher: %w", err)
	}

	if len(sealed) < aead.NonceSize() {
		return "", fmt.Errorf("sealed value too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("opening sealed value: %w", err)
	}
	return string(plaintext), nil
}
