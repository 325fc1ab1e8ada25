package clientstore

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealInfo = "redconnect client storage v1"

// Sealer encrypts stored values with XChaCha20-Poly1305.
// The client id and key are bound as associated data so a value cannot be
// moved to another client or key.
type Sealer struct {
	aead interface {
		NonceSize() int
		Overhead() int
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	}
}

// NewSealer derives the storage key from secret with HKDF-SHA256.
// PRE: len(secret) >= 32
func NewSealer(secret []byte) (*Sealer, error) {
	if len(secret) < 32 {
		return nil, errors.New("secret must be at least 32 bytes")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(sealInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

func associated(clientID, key string) []byte {
	return []byte(clientID + "\x00" + key)
}

// Seal encrypts value. Output is nonce || ciphertext.
func (s *Sealer) Seal(clientID, key, value string) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(value)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, []byte(value), associated(clientID, key)), nil
}

// Open decrypts a value produced by Seal for the same client and key.
func (s *Sealer) Open(clientID, key string, sealed []byte) (string, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n+s.aead.Overhead() {
		return "", ErrTampered
	}
	plain, err := s.aead.Open(nil, sealed[:n], sealed[n:], associated(clientID, key))
	if err != nil {
		return "", ErrTampered
	}
	return string(plain), nil
}
