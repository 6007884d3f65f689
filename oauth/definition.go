package oauth

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"golang.org/x/oauth2"

	"github.com/gobeaver/beaver-social/profile"
)

// Endpoints are the provider URLs a definition defaults to.
type Endpoints struct {
	AuthURL         string
	TokenURL        string
	RequestTokenURL string
	AccessTokenURL  string
	ProfileURL      string
	// AuthStyle is how OAuth 2.0 client credentials reach the token endpoint
	AuthStyle oauth2.AuthStyle
}

// Fetcher issues signed GET requests on behalf of a credential.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// ScopeFunc resolves a ProviderConfig.ScopeMode into the scope to request
// and whether only principal attributes will be granted.
type ScopeFunc func(mode string) (scope string, principalOnly bool, err error)

// Definition describes one provider type: protocol, endpoints, scopes and
// how its profile response maps onto attributes.
type Definition struct {
	Type     string
	Protocol Protocol
	Endpoints

	// Scope is requested when ProviderConfig.Scope is empty and Scopes is nil
	Scope  string
	Scopes ScopeFunc
	// Signature is used when ProviderConfig.SignatureType is empty
	Signature SignatureType

	Attributes *profile.AttributesDefinition
	IDPath     string
	RootPath   string
	Common     profile.CommonFields

	// DeniedParam is an OAuth 1.0a callback parameter that signals the
	// user refused access, e.g. Twitter's "denied".
	DeniedParam string

	// FetchProfile replaces the single GET against the profile URL.
	FetchProfile func(ctx context.Context, f Fetcher, profileURL string) ([]byte, error)
}

func (d *Definition) validate() error {
	switch {
	case d.Type == "":
		return fmt.Errorf("%w: definition type is empty", ErrInvalidConfig)
	case d.Attributes == nil:
		return fmt.Errorf("%w: definition %s has no attributes", ErrInvalidConfig, d.Type)
	}
	switch d.Protocol {
	case OAuth1, OAuth2:
	default:
		return fmt.Errorf("%w: definition %s has protocol %q", ErrInvalidConfig, d.Type, d.Protocol)
	}
	return nil
}

func (d *Definition) scope(cfg ProviderConfig) (string, bool, error) {
	if cfg.Scope != "" {
		return cfg.Scope, false, nil
	}
	if d.Scopes != nil {
		return d.Scopes(cfg.ScopeMode)
	}
	if cfg.ScopeMode != "" {
		return "", false, fmt.Errorf("%w: %s has no scope mode %q", ErrInvalidConfig, d.Type, cfg.ScopeMode)
	}
	return d.Scope, false, nil
}

var definitions = struct {
	sync.RWMutex
	byType map[string]*Definition
}{byType: make(map[string]*Definition)}

// RegisterDefinition adds or replaces the definition for def.Type.
func RegisterDefinition(def Definition) error {
	if err := def.validate(); err != nil {
		return err
	}
	definitions.Lock()
	defer definitions.Unlock()
	definitions.byType[def.Type] = &def
	return nil
}

func mustRegister(defs ...Definition) {
	for _, def := range defs {
		if err := RegisterDefinition(def); err != nil {
			panic(err)
		}
	}
}

// LookupDefinition returns the definition registered for typ.
func LookupDefinition(typ string) (Definition, bool) {
	definitions.RLock()
	defer definitions.RUnlock()
	d, ok := definitions.byType[typ]
	if !ok {
		return Definition{}, false
	}
	return *d, true
}

// DefinitionTypes returns every registered type, sorted.
func DefinitionTypes() []string {
	definitions.RLock()
	defer definitions.RUnlock()
	types := make([]string, 0, len(definitions.byType))
	for t := range definitions.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func init() {
	mustRegister(
		facebookDefinition(),
		githubDefinition(),
		google2Definition(),
		windowsLiveDefinition(),
		wordPressDefinition(),
		twitterDefinition(),
		yahooDefinition(),
		dropboxDefinition(),
	)
}

// endpoint resolves an override against the definition default.
func endpoint(override, def string) string {
	if override != "" {
		return override
	}
	return def
}

// resolveURL joins a relative reference onto base, used for second-step
// profile URLs.
func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
