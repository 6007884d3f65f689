package krypto

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// HS256 signs and verifies compact JWTs with a shared key.
type HS256 struct {
	key    []byte
	issuer string
}

// NewHS256 returns an HS256 signer. Tokens it parses must carry issuer and an
// expiry.
func NewHS256(key []byte, issuer string) (*HS256, error) {
	if len(key) < MinSecretLength {
		return nil, fmt.Errorf("%w: hs256 key", ErrWeakSecret)
	}
	return &HS256{key: key, issuer: issuer}, nil
}

// Sign returns the signed compact serialization of claims.
func (h *HS256) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.key)
}

// Parse verifies token and decodes it into claims.
func (h *HS256) Parse(token string, claims jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return h.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(h.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("krypto: invalid token")
	}
	return nil
}

// Issuer returns the issuer tokens are signed and verified with.
func (h *HS256) Issuer() string {
	return h.issuer
}
