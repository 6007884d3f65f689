package oauth

import (
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Protocol identifies the OAuth variant a provider speaks.
type Protocol string

const (
	OAuth1 Protocol = "oauth1"
	OAuth2 Protocol = "oauth2"
)

// SignatureType says where the access token goes on signed requests.
type SignatureType string

const (
	// SignatureHeader signs in the Authorization header. It is the only
	// placement OAuth 1.0a providers support.
	SignatureHeader SignatureType = "header"
	// SignatureQuery appends access_token to the query string (OAuth 2.0).
	SignatureQuery SignatureType = "query"
)

// DefaultDiscriminator is the callback parameter naming the provider type.
const DefaultDiscriminator = "oauth_provider_type"

// ProviderConfig is the static configuration of one provider. It is set up
// before Init and only read afterwards.
type ProviderConfig struct {
	Type        string `yaml:"type"`
	Key         string `yaml:"key"`
	Secret      string `yaml:"secret"`
	CallbackURL string `yaml:"callback_url"`

	// Optional HTTP proxy for every call to the provider
	ProxyHost string `yaml:"proxy_host"`
	ProxyPort int    `yaml:"proxy_port"`

	// Scope overrides the definition's scope (OAuth 2.0)
	Scope string `yaml:"scope"`
	// ScopeMode selects a scope preset where the definition has some,
	// e.g. "email", "profile" or "email_and_profile" for Google
	ScopeMode string `yaml:"scope_mode"`
	// SignatureType defaults to SignatureHeader
	SignatureType SignatureType `yaml:"signature_type"`

	// Endpoint overrides
	AuthURL         string `yaml:"auth_url"`
	TokenURL        string `yaml:"token_url"`
	RequestTokenURL string `yaml:"request_token_url"`
	AccessTokenURL  string `yaml:"access_token_url"`
	ProfileURL      string `yaml:"profile_url"`

	// HTTPClient is the transport for every call. Timeouts and cancellation
	// are its concern.
	HTTPClient *http.Client `yaml:"-"`
}

// Credential is the result of a completed handshake. It is owned by the
// caller and never stored by this package.
type Credential struct {
	Token string
	// Secret is the OAuth 1.0a token secret, empty for OAuth 2.0
	Secret    string
	TokenType string
	// Expiry is zero when the provider did not send one
	Expiry time.Time

	oauth2 *oauth2.Token
}

// Extra returns a field of the OAuth 2.0 token response beyond the
// standard ones, such as Google's id_token.
func (c *Credential) Extra(key string) any {
	if c.oauth2 == nil {
		return nil
	}
	return c.oauth2.Extra(key)
}

func (c *Credential) token() *oauth2.Token {
	if c.oauth2 != nil {
		return c.oauth2
	}
	return &oauth2.Token{AccessToken: c.Token, TokenType: c.TokenType, Expiry: c.Expiry}
}

// RequestState is the per-request part of a handshake that must survive the
// redirect to the provider and back.
type RequestState struct {
	Provider string `json:"provider"`
	// Token and Secret are the OAuth 1.0a request token pair
	Token  string `json:"token,omitempty"`
	Secret string `json:"secret,omitempty"`
	// State is the OAuth 2.0 anti-forgery value
	State string `json:"state,omitempty"`
}

// StateGenerator interface for generating state tokens
type StateGenerator interface {
	Generate() (string, error)
}
