package oauth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gobeaver/beaver-social/config"
)

// Config defines the OAuth configuration loaded from the environment
type Config struct {
	// BaseURL is the shared callback URL every provider's callback derives from
	BaseURL string `env:"OAUTH_BASE_URL"`

	// Discriminator is the callback parameter naming the provider type
	Discriminator string `env:"OAUTH_DISCRIMINATOR,default:oauth_provider_type"`

	// ProvidersFile is an optional YAML file listing providers
	ProvidersFile string `env:"OAUTH_PROVIDERS_FILE"`

	// Providers lists provider types configured through OAUTH_<TYPE>_* variables
	Providers []string `env:"OAUTH_PROVIDERS"`

	// HTTPTimeout is the timeout for HTTP requests
	HTTPTimeout time.Duration `env:"OAUTH_HTTP_TIMEOUT,default:30s"`

	// StateGenerator defines how to generate state tokens (uuid, secure)
	StateGenerator string `env:"OAUTH_STATE_GENERATOR,default:secure"`

	// HandshakeTTL is how long a pending handshake may wait for its callback
	HandshakeTTL time.Duration `env:"OAUTH_HANDSHAKE_TTL,default:10m"`

	// SecretKey protects pending handshakes (at least 16 bytes)
	SecretKey string `env:"OAUTH_SECRET_KEY"`

	// Debug enables debug logging
	Debug bool `env:"OAUTH_DEBUG,default:false"`

	// ProviderConfigs is filled from ProvidersFile and the per-type variables
	ProviderConfigs []ProviderConfig
}

// providerEnv is one provider's variables, loaded with the prefix
// <prefix>OAUTH_<TYPE>_.
type providerEnv struct {
	Key             string `env:"KEY"`
	Secret          string `env:"SECRET"`
	CallbackURL     string `env:"CALLBACK_URL"`
	Scope           string `env:"SCOPE"`
	ScopeMode       string `env:"SCOPE_MODE"`
	SignatureType   string `env:"SIGNATURE_TYPE"`
	ProxyHost       string `env:"PROXY_HOST"`
	ProxyPort       int    `env:"PROXY_PORT"`
	AuthURL         string `env:"AUTH_URL"`
	TokenURL        string `env:"TOKEN_URL"`
	RequestTokenURL string `env:"REQUEST_TOKEN_URL"`
	AccessTokenURL  string `env:"ACCESS_TOKEN_URL"`
	ProfileURL      string `env:"PROFILE_URL"`
}

// overlay copies the set variables over cfg.
func (e providerEnv) overlay(cfg *ProviderConfig) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Key, e.Key)
	set(&cfg.Secret, e.Secret)
	set(&cfg.CallbackURL, e.CallbackURL)
	set(&cfg.Scope, e.Scope)
	set(&cfg.ScopeMode, e.ScopeMode)
	if e.SignatureType != "" {
		cfg.SignatureType = SignatureType(e.SignatureType)
	}
	set(&cfg.ProxyHost, e.ProxyHost)
	if e.ProxyPort != 0 {
		cfg.ProxyPort = e.ProxyPort
	}
	set(&cfg.AuthURL, e.AuthURL)
	set(&cfg.TokenURL, e.TokenURL)
	set(&cfg.RequestTokenURL, e.RequestTokenURL)
	set(&cfg.AccessTokenURL, e.AccessTokenURL)
	set(&cfg.ProfileURL, e.ProfileURL)
}

// providersFile is the layout of OAUTH_PROVIDERS_FILE.
type providersFile struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// GetConfig returns config loaded from environment with optional LoadOptions
func GetConfig(opts ...config.LoadOptions) (*Config, error) {
	options := config.LoadOptions{Prefix: config.DefaultPrefix}
	if len(opts) > 0 {
		options = opts[0]
	}

	cfg := &Config{}
	if err := config.Load(cfg, options); err != nil {
		return nil, fmt.Errorf("failed to load oauth config: %w", err)
	}

	if cfg.ProvidersFile != "" {
		var file providersFile
		if err := config.LoadYAML(cfg.ProvidersFile, &file); err != nil {
			return nil, fmt.Errorf("failed to load oauth providers: %w", err)
		}
		cfg.ProviderConfigs = file.Providers
	}

	for _, typ := range cfg.Providers {
		var env providerEnv
		envOpts := config.LoadOptions{
			Prefix: options.Prefix + "OAUTH_" + strings.ToUpper(typ) + "_",
			Debug:  options.Debug,
		}
		if err := config.Load(&env, envOpts); err != nil {
			return nil, fmt.Errorf("failed to load oauth provider %s: %w", typ, err)
		}
		cfg.mergeProvider(typ, env)
	}
	return cfg, nil
}

// mergeProvider overlays env onto the file entry for typ, or appends a new
// entry when the file has none.
func (c *Config) mergeProvider(typ string, env providerEnv) {
	for i := range c.ProviderConfigs {
		if c.ProviderConfigs[i].Type == typ {
			env.overlay(&c.ProviderConfigs[i])
			return
		}
	}
	pc := ProviderConfig{Type: typ}
	env.overlay(&pc)
	c.ProviderConfigs = append(c.ProviderConfigs, pc)
}

// validateConfig checks configuration validity
func validateConfig(cfg *Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("%w: base_url required", ErrInvalidConfig)
	}
	if len(cfg.ProviderConfigs) == 0 {
		return fmt.Errorf("%w: at least one provider required", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(cfg.ProviderConfigs))
	for _, pc := range cfg.ProviderConfigs {
		if seen[pc.Type] {
			return fmt.Errorf("%w: provider %s configured twice", ErrInvalidConfig, pc.Type)
		}
		seen[pc.Type] = true
	}
	return nil
}

// NewRegistryFromConfig builds and initializes a registry. Options are
// applied to the registry and to every provider.
func NewRegistryFromConfig(cfg *Config, opts ...Option) (*Registry, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	stateGen, err := NewStateGenerator(cfg.StateGenerator)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: cfg.HTTPTimeout}

	popts := append([]Option{WithStateGenerator(stateGen), WithDiscriminator(cfg.Discriminator)}, opts...)
	providers := make([]*Provider, 0, len(cfg.ProviderConfigs))
	for _, pc := range cfg.ProviderConfigs {
		if pc.HTTPClient == nil {
			pc.HTTPClient = client
		}
		p, err := NewProvider(pc, popts...)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	r := NewRegistry(cfg.BaseURL, providers, popts...)
	if err := r.Init(); err != nil {
		return nil, err
	}
	return r, nil
}

// Builder pattern for custom prefixes
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Config loads the configuration with the builder's prefix
func (b *Builder) Config() (*Config, error) {
	return GetConfig(config.LoadOptions{Prefix: b.prefix})
}

// New creates an initialized registry from the builder's prefix
func (b *Builder) New(opts ...Option) (*Registry, error) {
	cfg, err := b.Config()
	if err != nil {
		return nil, err
	}
	return NewRegistryFromConfig(cfg, opts...)
}
