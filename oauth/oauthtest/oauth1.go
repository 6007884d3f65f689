package oauthtest

import (
	"net/http"
	"net/url"
	"sync"
)

// OAuth1Config configures an OAuth1Server
type OAuth1Config struct {
	ConsumerKey string
	// Profile is the JSON body of the profile endpoint
	Profile string
}

// OAuth1Server simulates an OAuth 1.0a provider. It checks that requests
// carry an OAuth Authorization header with the expected consumer key and
// tokens. Signatures are not verified.
type OAuth1Server struct {
	*server
	config OAuth1Config

	mu        sync.Mutex
	callbacks map[string]string // request token -> oauth_callback
	verifiers map[string]string // request token -> verifier
	access    map[string]bool
}

// NewOAuth1Server creates and starts a fake OAuth 1.0a provider
func NewOAuth1Server(config OAuth1Config) *OAuth1Server {
	m := &OAuth1Server{
		server:    newServer(),
		config:    config,
		callbacks: make(map[string]string),
		verifiers: make(map[string]string),
		access:    make(map[string]bool),
	}
	m.mux.HandleFunc(PathRequestToken, m.handleRequestToken)
	m.mux.HandleFunc(PathAuthorize, m.handleAuthorize)
	m.mux.HandleFunc(PathAccessToken, m.handleAccessToken)
	m.mux.HandleFunc(PathProfile, m.handleProfile)
	return m
}

// RequestTokenURL returns the request token endpoint URL
func (m *OAuth1Server) RequestTokenURL() string { return m.URL() + PathRequestToken }

// AuthURL returns the authorization endpoint URL
func (m *OAuth1Server) AuthURL() string { return m.URL() + PathAuthorize }

// AccessTokenURL returns the access token endpoint URL
func (m *OAuth1Server) AccessTokenURL() string { return m.URL() + PathAccessToken }

// ProfileURL returns the profile endpoint URL
func (m *OAuth1Server) ProfileURL() string { return m.URL() + PathProfile }

// Approve plays the user granting access at authURL and returns the
// callback parameters the provider redirects back with.
func (m *OAuth1Server) Approve(authURL string) (url.Values, error) {
	return follow(m.Client(), authURL)
}

// Callback returns the oauth_callback sent with requestToken's request.
func (m *OAuth1Server) Callback(requestToken string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callbacks[requestToken]
}

func (m *OAuth1Server) authorized(r *http.Request) (url.Values, bool) {
	params, ok := oauthParams(r.Header.Get("Authorization"))
	if !ok || params.Get("oauth_consumer_key") != m.config.ConsumerKey || params.Get("oauth_signature") == "" {
		return nil, false
	}
	return params, true
}

func (m *OAuth1Server) handleRequestToken(w http.ResponseWriter, r *http.Request) {
	params, ok := m.authorized(r)
	if !ok {
		http.Error(w, "oauth_problem=consumer_key_rejected", http.StatusUnauthorized)
		return
	}

	token := m.next("request")
	m.mu.Lock()
	m.callbacks[token] = params.Get("oauth_callback")
	m.mu.Unlock()

	writeForm(w, url.Values{
		"oauth_token":              {token},
		"oauth_token_secret":       {token + "-secret"},
		"oauth_callback_confirmed": {"true"},
	})
}

func (m *OAuth1Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("oauth_token")
	m.mu.Lock()
	callback, ok := m.callbacks[token]
	m.mu.Unlock()
	if !ok {
		http.Error(w, "unknown oauth_token", http.StatusBadRequest)
		return
	}

	verifier := m.next("verifier")
	m.mu.Lock()
	m.verifiers[token] = verifier
	m.mu.Unlock()

	http.Redirect(w, r, appendQuery(callback, url.Values{
		"oauth_token":    {token},
		"oauth_verifier": {verifier},
	}), http.StatusFound)
}

func (m *OAuth1Server) handleAccessToken(w http.ResponseWriter, r *http.Request) {
	params, ok := m.authorized(r)
	if !ok {
		http.Error(w, "oauth_problem=consumer_key_rejected", http.StatusUnauthorized)
		return
	}

	token := params.Get("oauth_token")
	m.mu.Lock()
	want, ok := m.verifiers[token]
	if ok && want == params.Get("oauth_verifier") {
		delete(m.verifiers, token)
		delete(m.callbacks, token)
	} else {
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		http.Error(w, "oauth_problem=token_rejected", http.StatusUnauthorized)
		return
	}

	access := m.next("access")
	m.mu.Lock()
	m.access[access] = true
	m.mu.Unlock()

	writeForm(w, url.Values{
		"oauth_token":        {access},
		"oauth_token_secret": {access + "-secret"},
	})
}

func (m *OAuth1Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	params, ok := m.authorized(r)
	if ok {
		m.mu.Lock()
		ok = m.access[params.Get("oauth_token")]
		m.mu.Unlock()
	}
	if !ok {
		http.Error(w, "oauth_problem=token_rejected", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(m.config.Profile))
}

func writeForm(w http.ResponseWriter, v url.Values) {
	w.Header().Set("Content-Type", "application/x-www-form-urlencoded")
	_, _ = w.Write([]byte(v.Encode()))
}
