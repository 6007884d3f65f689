package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gobeaver/beaver-social/cache"
	"github.com/gobeaver/beaver-social/krypto"
)

// ErrHandshakeNotFound indicates no pending handshake matches a callback,
// because it expired, was already used or never existed.
var ErrHandshakeNotFound = errors.New("oauth handshake not found")

// DefaultHandshakeTTL bounds how long a pending handshake is kept.
const DefaultHandshakeTTL = 10 * time.Minute

// handshakeKey is the key a callback finds its handshake by: the request
// token for OAuth 1.0a, the state for OAuth 2.0.
func handshakeKey(st RequestState) string {
	if st.Token != "" {
		return st.Provider + ":t:" + st.Token
	}
	return st.Provider + ":s:" + st.State
}

// callbackKey is handshakeKey as seen from a callback. A refusal on
// OAuth 1.0a may carry the request token in the denied parameter only.
func callbackKey(p *Provider, params url.Values) (string, bool) {
	if p.Protocol() == OAuth1 {
		tok := params.Get("oauth_token")
		if tok == "" && p.def.DeniedParam != "" {
			tok = params.Get(p.def.DeniedParam)
		}
		return p.Type() + ":t:" + tok, tok != ""
	}
	st := params.Get("state")
	return p.Type() + ":s:" + st, st != ""
}

// HandshakeStore keeps pending handshakes in a cache between the redirect
// and the callback. Request token secrets are sealed before they are
// stored. Every handshake can be resumed once.
type HandshakeStore struct {
	cache  cache.Cache
	sealer *krypto.Sealer
	ttl    time.Duration
}

// NewHandshakeStore derives the sealing key from secret, which must be at
// least krypto.MinSecretLength bytes. A non-positive ttl uses
// DefaultHandshakeTTL.
func NewHandshakeStore(c cache.Cache, secret []byte, ttl time.Duration) (*HandshakeStore, error) {
	key, err := krypto.DeriveKey(secret, "beaver-social handshake store", 32)
	if err != nil {
		return nil, fmt.Errorf("%w: handshake secret: %v", ErrInvalidConfig, err)
	}
	sealer, err := krypto.NewSealer(key)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultHandshakeTTL
	}
	return &HandshakeStore{cache: c, sealer: sealer, ttl: ttl}, nil
}

// Save stores the state of r. Call it after Request.AuthorizationURL.
func (s *HandshakeStore) Save(ctx context.Context, r *Request) error {
	st := r.State()
	if st.Token == "" && st.State == "" {
		return fmt.Errorf("oauth: save handshake: request for %s has no token or state", st.Provider)
	}
	key := handshakeKey(st)
	if st.Secret != "" {
		sealed, err := s.sealer.SealString(st.Secret, key)
		if err != nil {
			return fmt.Errorf("oauth: seal handshake: %w", err)
		}
		st.Secret = sealed
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.ttl)
}

// Resume removes the handshake matching the callback params and returns
// its request. When none matches but the callback reports a provider
// error, that *CredentialError is returned instead of ErrHandshakeNotFound.
func (s *HandshakeStore) Resume(ctx context.Context, p *Provider, params url.Values) (*Request, error) {
	key, ok := callbackKey(p, params)
	if !ok {
		return nil, notFound(p, params)
	}
	data, err := s.cache.Take(ctx, key)
	if errors.Is(err, cache.ErrKeyNotFound) {
		return nil, notFound(p, params)
	}
	if err != nil {
		return nil, fmt.Errorf("oauth: take handshake: %w", err)
	}

	var st RequestState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("oauth: decode handshake: %w", err)
	}
	if st.Secret != "" {
		if st.Secret, err = s.sealer.OpenString(st.Secret, key); err != nil {
			return nil, fmt.Errorf("oauth: open handshake: %w", err)
		}
	}
	return p.ResumeRequest(st), nil
}

func notFound(p *Provider, params url.Values) error {
	if cerr := credentialErrorFromParams(p.Type(), params); cerr != nil {
		return cerr
	}
	return ErrHandshakeNotFound
}

// HandshakeCodec keeps a pending handshake on the client instead, as a
// signed token suited to a short-lived cookie.
type HandshakeCodec struct {
	signer *krypto.HS256
	sealer *krypto.Sealer
	ttl    time.Duration
}

type handshakeClaims struct {
	Provider string `json:"prv"`
	Token    string `json:"tok,omitempty"`
	Secret   string `json:"sec,omitempty"`
	State    string `json:"st,omitempty"`
	jwt.RegisteredClaims
}

// NewHandshakeCodec derives signing and sealing keys from secret.
func NewHandshakeCodec(secret []byte, ttl time.Duration) (*HandshakeCodec, error) {
	signKey, err := krypto.DeriveKey(secret, "beaver-social handshake signing", 32)
	if err != nil {
		return nil, fmt.Errorf("%w: handshake secret: %v", ErrInvalidConfig, err)
	}
	sealKey, err := krypto.DeriveKey(secret, "beaver-social handshake sealing", 32)
	if err != nil {
		return nil, fmt.Errorf("%w: handshake secret: %v", ErrInvalidConfig, err)
	}
	signer, err := krypto.NewHS256(signKey, "beaver-social")
	if err != nil {
		return nil, err
	}
	sealer, err := krypto.NewSealer(sealKey)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultHandshakeTTL
	}
	return &HandshakeCodec{signer: signer, sealer: sealer, ttl: ttl}, nil
}

// Encode returns a token holding the state of r.
func (c *HandshakeCodec) Encode(r *Request) (string, error) {
	st := r.State()
	claims := handshakeClaims{
		Provider: st.Provider,
		Token:    st.Token,
		State:    st.State,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.signer.Issuer(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(c.ttl)),
		},
	}
	if st.Secret != "" {
		sealed, err := c.sealer.SealString(st.Secret, st.Provider+":"+st.Token)
		if err != nil {
			return "", fmt.Errorf("oauth: seal handshake: %w", err)
		}
		claims.Secret = sealed
	}
	return c.signer.Sign(claims)
}

// Decode verifies token and rebuilds its request on p. A token issued for
// another provider type is rejected.
func (c *HandshakeCodec) Decode(p *Provider, token string) (*Request, error) {
	var claims handshakeClaims
	if err := c.signer.Parse(token, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHandshakeNotFound, err)
	}
	if claims.Provider != p.Type() {
		return nil, fmt.Errorf("%w: issued for %s", ErrHandshakeNotFound, claims.Provider)
	}
	st := RequestState{Provider: claims.Provider, Token: claims.Token, State: claims.State}
	if claims.Secret != "" {
		secret, err := c.sealer.OpenString(claims.Secret, claims.Provider+":"+claims.Token)
		if err != nil {
			return nil, fmt.Errorf("oauth: open handshake: %w", err)
		}
		st.Secret = secret
	}
	return p.ResumeRequest(st), nil
}
