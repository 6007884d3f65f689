package oauth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gobeaver/beaver-social/profile"
)

// engine is one protocol's half of the handshake.
type engine interface {
	authorizationURL(ctx context.Context, r *Request) (string, error)
	credential(ctx context.Context, r *Request, params url.Values) (*Credential, error)
	fetcher(ctx context.Context, c *Credential) Fetcher
}

// Option configures providers and registries. Options given to a registry
// also apply to its providers that were built without them.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	metrics       *Metrics
	stateGen      StateGenerator
	discriminator string

	// set when the option was given rather than defaulted
	hasLogger   bool
	hasStateGen bool
}

func newOptions(opts []Option) options {
	o := options{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		stateGen:      &SecureStateGenerator{},
		discriminator: DefaultDiscriminator,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
			o.hasLogger = true
		}
	}
}

// WithMetrics records flow outcomes into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithStateGenerator replaces the OAuth 2.0 state generator.
func WithStateGenerator(g StateGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.stateGen = g
			o.hasStateGen = true
		}
	}
}

// WithDiscriminator sets the callback parameter a registry dispatches on.
func WithDiscriminator(name string) Option {
	return func(o *options) {
		if name != "" {
			o.discriminator = name
		}
	}
}

// Provider is one configured identity provider. Its configuration is shared
// by every handshake; per-handshake state lives in a Request.
type Provider struct {
	cfg  ProviderConfig
	def  Definition
	opts options

	mu            sync.RWMutex
	callbackURL   string
	initialized   bool
	eng           engine
	scope         string
	principalOnly bool
}

// NewProvider creates an uninitialized provider for cfg.Type.
func NewProvider(cfg ProviderConfig, opts ...Option) (*Provider, error) {
	def, ok := LookupDefinition(cfg.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProviderType, cfg.Type)
	}
	return &Provider{
		cfg:         cfg,
		def:         def,
		opts:        newOptions(opts),
		callbackURL: cfg.CallbackURL,
	}, nil
}

// Type returns the provider type, also its discriminator value.
func (p *Provider) Type() string { return p.cfg.Type }

// Protocol returns the OAuth variant of the provider.
func (p *Provider) Protocol() Protocol { return p.def.Protocol }

// Config returns a copy of the configuration with the current callback URL.
func (p *Provider) Config() ProviderConfig {
	cfg := p.cfg
	cfg.CallbackURL = p.CallbackURL()
	return cfg
}

// CallbackURL returns the effective callback URL.
func (p *Provider) CallbackURL() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.callbackURL
}

// SetCallbackURL changes the callback URL. It takes effect on the next
// Reinit.
func (p *Provider) SetCallbackURL(u string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbackURL = u
}

// inherit fills the options the provider was built without from o.
func (p *Provider) inherit(o options) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.opts.metrics == nil && o.metrics != nil {
		p.opts.metrics = o.metrics
	}
	if !p.opts.hasLogger && o.hasLogger {
		p.opts.logger = o.logger
		p.opts.hasLogger = true
	}
	if !p.opts.hasStateGen && o.hasStateGen {
		p.opts.stateGen = o.stateGen
		p.opts.hasStateGen = true
	}
}

// Scope returns the scope requested from an OAuth 2.0 provider. It is empty
// before Init.
func (p *Provider) Scope() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.scope
}

// Init validates the configuration and builds the protocol engine. Calls
// after the first successful one do nothing.
func (p *Provider) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	return p.initLocked()
}

// Reinit rebuilds the engine, picking up a changed callback URL.
func (p *Provider) Reinit() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = false
	return p.initLocked()
}

func (p *Provider) initLocked() error {
	cfg := p.cfg
	cfg.CallbackURL = p.callbackURL
	if cfg.SignatureType == "" {
		cfg.SignatureType = p.def.Signature
	}
	if err := p.validate(cfg); err != nil {
		return err
	}

	client, err := baseClient(cfg)
	if err != nil {
		return err
	}

	scope, principalOnly, err := p.def.scope(cfg)
	if err != nil {
		return err
	}

	var eng engine
	switch p.def.Protocol {
	case OAuth1:
		eng = newOAuth1Engine(p, cfg, client)
	case OAuth2:
		eng = newOAuth2Engine(p, cfg, client, scope)
	}

	p.eng = eng
	p.scope = scope
	p.principalOnly = principalOnly
	p.initialized = true
	p.opts.logger.Debug("oauth provider initialized",
		slog.String("provider", cfg.Type),
		slog.String("callback_url", cfg.CallbackURL))
	return nil
}

func (p *Provider) validate(cfg ProviderConfig) error {
	if cfg.Key == "" {
		return fmt.Errorf("%w: %s: key required", ErrInvalidConfig, cfg.Type)
	}
	if cfg.Secret == "" {
		return fmt.Errorf("%w: %s: secret required", ErrInvalidConfig, cfg.Type)
	}
	if cfg.CallbackURL == "" {
		return fmt.Errorf("%w: %s: callback url required", ErrInvalidConfig, cfg.Type)
	}
	switch cfg.SignatureType {
	case "", SignatureHeader:
	case SignatureQuery:
		if p.def.Protocol == OAuth1 {
			return fmt.Errorf("%w: %s: oauth1 supports header signatures only", ErrInvalidConfig, cfg.Type)
		}
	default:
		return fmt.Errorf("%w: %s: unknown signature type %q", ErrInvalidConfig, cfg.Type, cfg.SignatureType)
	}
	if cfg.ProxyHost != "" && (cfg.ProxyPort <= 0 || cfg.ProxyPort > 65535) {
		return fmt.Errorf("%w: %s: invalid proxy port %d", ErrInvalidConfig, cfg.Type, cfg.ProxyPort)
	}
	return nil
}

// baseClient returns the configured client, routed through the proxy when
// one is set.
func baseClient(cfg ProviderConfig) (*http.Client, error) {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if cfg.ProxyHost == "" {
		return client, nil
	}

	proxy := &url.URL{Scheme: "http", Host: net.JoinHostPort(cfg.ProxyHost, strconv.Itoa(cfg.ProxyPort))}
	var transport *http.Transport
	if t, ok := client.Transport.(*http.Transport); ok {
		transport = t.Clone()
	} else if client.Transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	} else {
		return nil, fmt.Errorf("%w: %s: proxy needs an *http.Transport", ErrInvalidConfig, cfg.Type)
	}
	transport.Proxy = http.ProxyURL(proxy)

	proxied := *client
	proxied.Transport = transport
	return &proxied, nil
}

func (p *Provider) engine() (engine, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return nil, fmt.Errorf("%w: %s", ErrNotInitialized, p.cfg.Type)
	}
	return p.eng, nil
}

// NewRequest starts a handshake with empty per-request state. Requests of
// the same provider never share state.
func (p *Provider) NewRequest() *Request {
	return &Request{provider: p, state: RequestState{Provider: p.cfg.Type}}
}

// ResumeRequest rebuilds the request of a handshake after the redirect.
func (p *Provider) ResumeRequest(st RequestState) *Request {
	st.Provider = p.cfg.Type
	return &Request{provider: p, state: st}
}

// UserProfile fetches and extracts the profile of the user c belongs to.
// It reports false with a nil error when the provider returned no
// parseable body.
func (p *Provider) UserProfile(ctx context.Context, c *Credential) (*profile.UserProfile, bool, error) {
	start := time.Now()
	up, ok, err := p.userProfile(ctx, c)
	outcome := outcomeOf(err)
	if err == nil && !ok {
		outcome = outcomeAbsent
	}
	p.opts.metrics.observe(p.cfg.Type, stepProfile, outcome, time.Since(start))
	return up, ok, err
}

func (p *Provider) userProfile(ctx context.Context, c *Credential) (*profile.UserProfile, bool, error) {
	eng, err := p.engine()
	if err != nil {
		return nil, false, err
	}
	if c == nil || c.Token == "" {
		return nil, false, newCredentialError(p.cfg.Type, fmt.Errorf("credential has no token"))
	}

	f := eng.fetcher(ctx, c)
	profileURL := endpoint(p.cfg.ProfileURL, p.def.ProfileURL)
	var body []byte
	if p.def.FetchProfile != nil {
		body, err = p.def.FetchProfile(ctx, f, profileURL)
	} else {
		body, err = f.Get(ctx, profileURL)
	}
	if err != nil {
		return nil, false, err
	}

	node, ok := profile.Parse(body)
	if !ok {
		p.opts.logger.Debug("profile body not parseable",
			slog.String("provider", p.cfg.Type),
			slog.Int("bytes", len(body)))
		return nil, false, nil
	}

	p.mu.RLock()
	principalOnly := p.principalOnly
	p.mu.RUnlock()

	up := profile.Extract(p.def.Attributes, node, profile.Options{
		Type:          p.cfg.Type,
		IDPath:        p.def.IDPath,
		RootPath:      p.def.RootPath,
		PrincipalOnly: principalOnly,
		Credential:    c,
		Common:        p.def.Common,
		Logger:        p.opts.logger,
	})
	return up, true, nil
}

// CredentialOf returns the credential a profile was fetched with.
func CredentialOf(up *profile.UserProfile) (*Credential, bool) {
	c, ok := up.Credential().(*Credential)
	return c, ok
}
