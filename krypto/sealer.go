package krypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrOpen is returned when a sealed value fails authentication or is malformed.
var ErrOpen = errors.New("krypto: cannot open sealed value")

// Sealer encrypts and authenticates short values with XChaCha20-Poly1305.
// The random 24-byte nonce is prepended to the ciphertext.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer returns a Sealer for a 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("krypto: sealer: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts plaintext, binding it to additionalData.
func (s *Sealer) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("krypto: nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed, additionalData []byte) ([]byte, error) {
	if len(sealed) < s.aead.NonceSize()+s.aead.Overhead() {
		return nil, ErrOpen
	}
	nonce, ciphertext := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}

// SealString seals a string and returns it base64url encoded.
func (s *Sealer) SealString(plaintext, additionalData string) (string, error) {
	sealed, err := s.Seal([]byte(plaintext), []byte(additionalData))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// OpenString reverses SealString.
func (s *Sealer) OpenString(encoded, additionalData string) (string, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrOpen
	}
	plaintext, err := s.Open(sealed, []byte(additionalData))
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
