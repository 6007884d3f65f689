package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gobeaver/beaver-social/cache"
	"github.com/gobeaver/beaver-social/oauth"
	"github.com/gobeaver/beaver-social/oauth/oauthtest"
)

const (
	testProfile        = `{"id": 7, "login": "beaver", "name": "Busy Beaver", "email": "beaver@example.com"}`
	testTwitterProfile = `{"id_str": "12", "screen_name": "beaver", "name": "Busy Beaver"}`
)

type fixture struct {
	app     *httptest.Server
	github  *oauthtest.OAuth2Server
	twitter *oauthtest.OAuth1Server
}

func newTestServer(t *testing.T) *fixture {
	t.Helper()

	github := oauthtest.NewOAuth2Server(oauthtest.OAuth2Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Profile:      testProfile,
	})
	t.Cleanup(github.Close)
	twitter := oauthtest.NewOAuth1Server(oauthtest.OAuth1Config{
		ConsumerKey: "id",
		Profile:     testTwitterProfile,
	})
	t.Cleanup(twitter.Close)

	gh, err := oauth.NewProvider(oauth.ProviderConfig{
		Type:       "github",
		Key:        "id",
		Secret:     "secret",
		AuthURL:    github.AuthURL(),
		TokenURL:   github.TokenURL(),
		ProfileURL: github.ProfileURL(),
		HTTPClient: github.Client(),
	})
	if err != nil {
		t.Fatalf("NewProvider(github) failed: %v", err)
	}
	tw, err := oauth.NewProvider(oauth.ProviderConfig{
		Type:            "twitter",
		Key:             "id",
		Secret:          "secret",
		RequestTokenURL: twitter.RequestTokenURL(),
		AuthURL:         twitter.AuthURL(),
		AccessTokenURL:  twitter.AccessTokenURL(),
		ProfileURL:      twitter.ProfileURL(),
		HTTPClient:      twitter.Client(),
	})
	if err != nil {
		t.Fatalf("NewProvider(twitter) failed: %v", err)
	}

	reg := prometheus.NewRegistry()
	metrics, err := oauth.NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	// Metrics reach the providers through the registry.
	registry := oauth.NewRegistry("http://app.local/callback", []*oauth.Provider{gh, tw}, oauth.WithMetrics(metrics))
	if err := registry.Init(); err != nil {
		t.Fatalf("Registry Init failed: %v", err)
	}

	c, err := cache.New(cache.Config{Driver: "memory", DefaultTTL: time.Minute, CleanupInterval: time.Minute})
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	handshakes, err := oauth.NewHandshakeStore(c, []byte("a-secret-of-at-least-16-bytes"), time.Minute)
	if err != nil {
		t.Fatalf("NewHandshakeStore failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := httptest.NewServer(newServer(registry, handshakes, reg, logger).routes())
	t.Cleanup(app.Close)
	return &fixture{app: app, github: github, twitter: twitter}
}

func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

// login starts a handshake and returns the provider authorization URL.
func login(t *testing.T, app *httptest.Server, typ string) string {
	t.Helper()
	client := &http.Client{CheckRedirect: noRedirect}
	resp, err := client.Get(app.URL + "/login/" + typ)
	if err != nil {
		t.Fatalf("GET /login/%s failed: %v", typ, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("GET /login/%s: status %d, want 302", typ, resp.StatusCode)
	}
	return resp.Header.Get("Location")
}

func callback(t *testing.T, app *httptest.Server, params url.Values) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(app.URL + "/callback?" + params.Encode())
	if err != nil {
		t.Fatalf("GET /callback failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON from /callback: %v", err)
	}
	return resp.StatusCode, body
}

func expectError(t *testing.T, status int, body map[string]any, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus || body["error"] != wantCode {
		t.Errorf("Got %d %v, want %d error=%s", status, body, wantStatus, wantCode)
	}
}

func TestLoginAndCallback(t *testing.T) {
	f := newTestServer(t)

	params, err := f.github.Approve(login(t, f.app, "github"))
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	status, body := callback(t, f.app, params)
	if status != http.StatusOK {
		t.Fatalf("Callback status %d: %v", status, body)
	}
	if body["id"] != "7" || body["type"] != "github" {
		t.Errorf("Unexpected profile identity: %v", body)
	}
	common, ok := body["common"].(map[string]any)
	if !ok {
		t.Fatalf("Expected a common object, got %v", body["common"])
	}
	if common["email"] != "beaver@example.com" {
		t.Errorf("common.email = %v", common["email"])
	}

	// The handshake is consumed by the first callback.
	status, body = callback(t, f.app, params)
	expectError(t, status, body, http.StatusBadRequest, "unknown_handshake")
}

func TestCallbackProviderError(t *testing.T) {
	f := newTestServer(t)

	u, err := url.Parse(login(t, f.app, "github"))
	if err != nil {
		t.Fatalf("Invalid authorization URL: %v", err)
	}

	status, body := callback(t, f.app, url.Values{
		"oauth_provider_type": {"github"},
		"state":               {u.Query().Get("state")},
		"error":               {"access_denied"},
		"error_description":   {"The user denied access"},
	})
	expectError(t, status, body, http.StatusUnauthorized, "access_denied")
	if body["error_description"] != "The user denied access" {
		t.Errorf("error_description = %v", body["error_description"])
	}
	if n := f.github.Requests(oauthtest.PathToken); n != 0 {
		t.Errorf("Token requests = %d, want 0", n)
	}
}

func TestCallbackErrorWithoutState(t *testing.T) {
	f := newTestServer(t)

	status, body := callback(t, f.app, url.Values{
		"oauth_provider_type": {"github"},
		"error":               {"access_denied"},
	})
	expectError(t, status, body, http.StatusUnauthorized, "access_denied")
}

func TestOAuth1LoginAndCallback(t *testing.T) {
	f := newTestServer(t)

	params, err := f.twitter.Approve(login(t, f.app, "twitter"))
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	status, body := callback(t, f.app, params)
	if status != http.StatusOK {
		t.Fatalf("Callback status %d: %v", status, body)
	}
	if body["id"] != "12" || body["type"] != "twitter" {
		t.Errorf("Unexpected profile identity: %v", body)
	}
}

func TestOAuth1CallbackDenied(t *testing.T) {
	f := newTestServer(t)

	u, err := url.Parse(login(t, f.app, "twitter"))
	if err != nil {
		t.Fatalf("Invalid authorization URL: %v", err)
	}
	params := url.Values{
		"oauth_provider_type": {"twitter"},
		"denied":              {u.Query().Get("oauth_token")},
	}

	status, body := callback(t, f.app, params)
	expectError(t, status, body, http.StatusUnauthorized, "access_denied")
	if n := f.twitter.Requests(oauthtest.PathAccessToken); n != 0 {
		t.Errorf("Access token requests = %d, want 0", n)
	}

	// The refusal consumed the handshake.
	status, body = callback(t, f.app, params)
	expectError(t, status, body, http.StatusBadRequest, "unknown_handshake")
}

func TestUnknownProvider(t *testing.T) {
	app := newTestServer(t).app

	resp, err := http.Get(app.URL + "/login/myspace")
	if err != nil {
		t.Fatalf("GET /login/myspace failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Login status %d, want 404", resp.StatusCode)
	}

	status, body := callback(t, app, url.Values{"oauth_provider_type": {"myspace"}})
	expectError(t, status, body, http.StatusNotFound, "unknown_provider")
}

func TestProvidersAndMetrics(t *testing.T) {
	app := newTestServer(t).app

	resp, err := http.Get(app.URL + "/providers")
	if err != nil {
		t.Fatalf("GET /providers failed: %v", err)
	}
	var providers []providerView
	err = json.NewDecoder(resp.Body).Decode(&providers)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("Invalid JSON from /providers: %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("Expected 2 providers, got %d", len(providers))
	}
	for i, typ := range []string{"github", "twitter"} {
		want := "http://app.local/callback?oauth_provider_type=" + typ
		if providers[i].CallbackURL != want {
			t.Errorf("providers[%d].callback_url = %q, want %q", i, providers[i].CallbackURL, want)
		}
	}

	login(t, app, "github")

	resp, err = http.Get(app.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Reading /metrics failed: %v", err)
	}
	want := `beaver_social_oauth_steps_total{outcome="success",provider="github",step="authorization_url"} 1`
	if !strings.Contains(string(data), want) {
		t.Errorf("/metrics is missing %s\n%s", want, data)
	}
}
