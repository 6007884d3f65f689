package oauth

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
)

// Registry routes callbacks to configured providers. It computes each
// provider's callback URL from a shared base URL plus a discriminator
// parameter carrying the provider type.
type Registry struct {
	mu            sync.RWMutex
	baseURL       string
	discriminator string
	providers     []*Provider
	// computed remembers the callback URLs the registry set itself, so a
	// new base URL replaces them on Reinit.
	computed    map[*Provider]string
	initialized bool
	opts        options
}

// NewRegistry creates a registry over providers. Call Init before use.
func NewRegistry(baseURL string, providers []*Provider, opts ...Option) *Registry {
	o := newOptions(opts)
	return &Registry{
		baseURL:       baseURL,
		discriminator: o.discriminator,
		providers:     append([]*Provider(nil), providers...),
		computed:      make(map[*Provider]string),
		opts:          o,
	}
}

// Init computes callback URLs and initializes every provider. Calls after
// the first successful one do nothing.
func (r *Registry) Init() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.initialized {
		return nil
	}
	return r.initLocked()
}

// Reinit recomputes callback URLs and reinitializes every provider.
func (r *Registry) Reinit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initLocked()
}

func (r *Registry) initLocked() error {
	if strings.TrimSpace(r.baseURL) == "" {
		return fmt.Errorf("%w: base url cannot be blank", ErrInvalidConfig)
	}
	if len(r.providers) == 0 {
		return fmt.Errorf("%w: no providers", ErrInvalidConfig)
	}

	// A callback URL that already names the discriminator is kept as is,
	// whatever value it carries.
	marker := r.discriminator + "="
	for _, p := range r.providers {
		if p == nil {
			return fmt.Errorf("%w: nil provider", ErrInvalidConfig)
		}
		current := p.CallbackURL()
		owned := current != "" && current == r.computed[p]
		if owned || !strings.Contains(current, marker) {
			cb := addParameter(r.baseURL, r.discriminator, p.Type())
			p.SetCallbackURL(cb)
			r.computed[p] = cb
		}
		p.inherit(r.opts)
		if err := p.Reinit(); err != nil {
			return fmt.Errorf("provider %s: %w", p.Type(), err)
		}
		r.opts.logger.Debug("oauth provider registered",
			slog.String("provider", p.Type()),
			slog.String("callback_url", p.CallbackURL()))
	}
	r.initialized = true
	return nil
}

// addParameter appends name=value to rawURL, with the value query-escaped.
func addParameter(rawURL, name, value string) string {
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + name + "=" + url.QueryEscape(value)
}

// FindProvider resolves the provider named by the discriminator parameter.
// It reports false unless the parameter has exactly one value matching a
// provider type.
func (r *Registry) FindProvider(params url.Values) (*Provider, bool) {
	r.mu.RLock()
	values := params[r.discriminator]
	r.mu.RUnlock()
	if len(values) != 1 {
		return nil, false
	}
	return r.FindProviderByType(values[0])
}

// FindProviderByType returns the provider whose type equals typ exactly.
func (r *Registry) FindProviderByType(typ string) (*Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.providers {
		if p.Type() == typ {
			return p, true
		}
	}
	return nil, false
}

// Providers returns the providers in registration order.
func (r *Registry) Providers() []*Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Provider(nil), r.providers...)
}

// Discriminator returns the callback parameter naming the provider type.
func (r *Registry) Discriminator() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.discriminator
}

// BaseURL returns the shared callback base URL.
func (r *Registry) BaseURL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baseURL
}

// SetBaseURL changes the base URL. Call Reinit to apply it.
func (r *Registry) SetBaseURL(baseURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseURL = baseURL
}
