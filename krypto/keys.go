package krypto

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinSecretLength is the shortest master secret DeriveKey accepts.
const MinSecretLength = 16

// ErrWeakSecret is returned when a master secret is too short to derive keys from.
var ErrWeakSecret = errors.New("krypto: secret too short")

// DeriveKey derives a size-byte subkey from secret for the given purpose using
// HKDF-SHA256. Different purposes yield independent keys from one secret, so a
// single configured secret can back both signing and encryption.
func DeriveKey(secret []byte, purpose string, size int) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes", ErrWeakSecret, MinSecretLength)
	}
	key := make([]byte, size)
	r := hkdf.New(sha256.New, secret, nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("krypto: derive %s key: %w", purpose, err)
	}
	return key, nil
}
