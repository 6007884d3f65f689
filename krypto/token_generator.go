package krypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateSecureToken generates a secure token of the specified length.
// It utilizes the cryptographic randomness provided by the rand package
// to ensure the unpredictability of the generated token.
//
// Parameters:
//
//	length: The number of random bytes; the hex result is twice as long.
//
// Returns:
//
//	string: The randomly generated secure token in hexadecimal format.
//	error: An error, if any, encountered during the token generation process.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateURLToken returns length random bytes encoded with unpadded
// base64url, suitable for query parameters and cookie values.
func GenerateURLToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateUUID returns a random (version 4) UUID string.
func GenerateUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
