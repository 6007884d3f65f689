package oauth_test

import (
	"errors"
	"net/url"
	"reflect"
	"testing"

	"github.com/gobeaver/beaver-social/oauth"
)

func provider(t *testing.T, typ, callback string, opts ...oauth.Option) *oauth.Provider {
	t.Helper()
	p, err := oauth.NewProvider(oauth.ProviderConfig{
		Type:        typ,
		Key:         testKey,
		Secret:      testSecret,
		CallbackURL: callback,
	}, opts...)
	if err != nil {
		t.Fatalf("NewProvider(%s) failed: %v", typ, err)
	}
	return p
}

func initRegistry(t *testing.T, r *oauth.Registry) {
	t.Helper()
	if err := r.Init(); err != nil {
		t.Fatalf("Registry Init failed: %v", err)
	}
}

func assertCallback(t *testing.T, p *oauth.Provider, want string) {
	t.Helper()
	if got := p.CallbackURL(); got != want {
		t.Errorf("%s callback = %q, want %q", p.Type(), got, want)
	}
}

func TestRegistryComputesCallbackURLs(t *testing.T) {
	facebook := provider(t, "facebook", "")
	twitter := provider(t, "twitter", "")

	r := oauth.NewRegistry("http://host/cb", []*oauth.Provider{facebook, twitter})
	initRegistry(t, r)

	assertCallback(t, facebook, "http://host/cb?oauth_provider_type=facebook")
	assertCallback(t, twitter, "http://host/cb?oauth_provider_type=twitter")
	if r.BaseURL() != "http://host/cb" {
		t.Errorf("BaseURL() = %q", r.BaseURL())
	}
	if r.Discriminator() != oauth.DefaultDiscriminator {
		t.Errorf("Discriminator() = %q", r.Discriminator())
	}
	if got := r.Providers(); !reflect.DeepEqual(got, []*oauth.Provider{facebook, twitter}) {
		t.Errorf("Providers() = %v", got)
	}
}

func TestRegistryDiscriminatorAppearsOnce(t *testing.T) {
	tests := []struct {
		name string
		base string
		want string
	}{
		{"plain base", "http://host/cb", "http://host/cb?oauth_provider_type=github"},
		{"base with query", "http://host/cb?app=1", "http://host/cb?app=1&oauth_provider_type=github"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := provider(t, "github", "")
			r := oauth.NewRegistry(tt.base, []*oauth.Provider{p})
			initRegistry(t, r)
			if err := r.Reinit(); err != nil {
				t.Fatalf("Reinit failed: %v", err)
			}

			assertCallback(t, p, tt.want)
			u, err := url.Parse(p.CallbackURL())
			if err != nil {
				t.Fatalf("Invalid callback URL: %v", err)
			}
			if got := u.Query()["oauth_provider_type"]; !reflect.DeepEqual(got, []string{"github"}) {
				t.Errorf("Discriminator values = %v, want [github]", got)
			}
		})
	}
}

func TestRegistryKeepsCallbackNamingDiscriminator(t *testing.T) {
	// The value is not checked, only the presence of the parameter.
	preset := "http://elsewhere/cb?oauth_provider_type=custom"
	p := provider(t, "facebook", preset)

	r := oauth.NewRegistry("http://host/cb", []*oauth.Provider{p})
	initRegistry(t, r)
	assertCallback(t, p, preset)

	r.SetBaseURL("http://other/cb")
	if err := r.Reinit(); err != nil {
		t.Fatalf("Reinit failed: %v", err)
	}
	assertCallback(t, p, preset)
}

func TestRegistryReplacesUnmarkedCallback(t *testing.T) {
	p := provider(t, "facebook", "http://host/own-callback")

	r := oauth.NewRegistry("http://host/cb", []*oauth.Provider{p})
	initRegistry(t, r)
	assertCallback(t, p, "http://host/cb?oauth_provider_type=facebook")
}

func TestRegistrySetBaseURL(t *testing.T) {
	p := provider(t, "github", "")
	r := oauth.NewRegistry("http://host/cb", []*oauth.Provider{p})
	initRegistry(t, r)

	r.SetBaseURL("https://new.example.com/auth")
	assertCallback(t, p, "http://host/cb?oauth_provider_type=github")

	// Init is a no-op once initialized; Reinit applies the new base.
	initRegistry(t, r)
	assertCallback(t, p, "http://host/cb?oauth_provider_type=github")

	if err := r.Reinit(); err != nil {
		t.Fatalf("Reinit failed: %v", err)
	}
	assertCallback(t, p, "https://new.example.com/auth?oauth_provider_type=github")
}

func TestRegistryCustomDiscriminator(t *testing.T) {
	p := provider(t, "github", "")
	r := oauth.NewRegistry("http://host/cb", []*oauth.Provider{p}, oauth.WithDiscriminator("client_name"))
	initRegistry(t, r)

	assertCallback(t, p, "http://host/cb?client_name=github")
	found, ok := r.FindProvider(url.Values{"client_name": {"github"}})
	if !ok || found != p {
		t.Errorf("FindProvider(client_name=github) = (%v, %v)", found, ok)
	}
}

func TestRegistryInitErrors(t *testing.T) {
	noSecret, err := oauth.NewProvider(oauth.ProviderConfig{Type: "github", Key: testKey})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}

	tests := []struct {
		name      string
		base      string
		providers []*oauth.Provider
	}{
		{"blank base url", "  ", []*oauth.Provider{provider(t, "github", "")}},
		{"no providers", "http://host/cb", nil},
		{"nil provider", "http://host/cb", []*oauth.Provider{nil}},
		{"provider without secret", "http://host/cb", []*oauth.Provider{noSecret}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := oauth.NewRegistry(tt.base, tt.providers)
			if err := r.Init(); !errors.Is(err, oauth.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestFindProvider(t *testing.T) {
	facebook := provider(t, "facebook", "")
	twitter := provider(t, "twitter", "")
	r := oauth.NewRegistry("http://host/cb", []*oauth.Provider{facebook, twitter})
	initRegistry(t, r)

	tests := []struct {
		name   string
		params url.Values
		want   *oauth.Provider
	}{
		{"twitter", url.Values{"oauth_provider_type": {"twitter"}}, twitter},
		{"facebook", url.Values{"oauth_provider_type": {"facebook"}, "code": {"x"}}, facebook},
		{"unknown type", url.Values{"oauth_provider_type": {"unknown"}}, nil},
		{"missing parameter", url.Values{"code": {"x"}}, nil},
		{"empty value list", url.Values{"oauth_provider_type": {}}, nil},
		{"two values", url.Values{"oauth_provider_type": {"twitter", "twitter"}}, nil},
		{"case differs", url.Values{"oauth_provider_type": {"Twitter"}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.FindProvider(tt.params)
			if ok != (tt.want != nil) {
				t.Fatalf("FindProvider() ok = %v, want %v", ok, tt.want != nil)
			}
			if got != tt.want {
				t.Errorf("FindProvider() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindProviderByType(t *testing.T) {
	twitter := provider(t, "twitter", "")
	r := oauth.NewRegistry("http://host/cb", []*oauth.Provider{twitter})

	got, ok := r.FindProviderByType("twitter")
	if !ok || got != twitter {
		t.Errorf("FindProviderByType(twitter) = (%v, %v)", got, ok)
	}

	if _, ok := r.FindProviderByType("yahoo"); ok {
		t.Error("FindProviderByType(yahoo) should not match")
	}
}
