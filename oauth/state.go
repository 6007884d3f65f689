package oauth

import (
	"fmt"

	"github.com/gobeaver/beaver-social/krypto"
)

// SecureStateGenerator generates cryptographically secure state tokens
type SecureStateGenerator struct{}

func (g *SecureStateGenerator) Generate() (string, error) {
	return krypto.GenerateSecureToken(32)
}

// UUIDStateGenerator generates UUID-based state tokens
type UUIDStateGenerator struct{}

func (g *UUIDStateGenerator) Generate() (string, error) {
	return krypto.GenerateUUID()
}

// NewStateGenerator returns the generator named by OAUTH_STATE_GENERATOR.
func NewStateGenerator(name string) (StateGenerator, error) {
	switch name {
	case "secure", "":
		return &SecureStateGenerator{}, nil
	case "uuid":
		return &UUIDStateGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown state generator: %s", ErrInvalidConfig, name)
	}
}
