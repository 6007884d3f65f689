package oauthtest

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// OAuth2Config configures an OAuth2Server
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	// Profile is the JSON body of the profile endpoint
	Profile string
}

// OAuth2Server simulates an OAuth 2.0 provider. Codes are single use and
// the profile endpoint accepts the issued token as a bearer header or an
// access_token query parameter.
type OAuth2Server struct {
	*server
	config OAuth2Config

	mu     sync.Mutex
	codes  map[string]string // code -> redirect_uri
	tokens map[string]bool
	scopes []string
}

// NewOAuth2Server creates and starts a fake OAuth 2.0 provider
func NewOAuth2Server(config OAuth2Config) *OAuth2Server {
	m := &OAuth2Server{
		server: newServer(),
		config: config,
		codes:  make(map[string]string),
		tokens: make(map[string]bool),
	}
	m.mux.HandleFunc(PathAuthorize, m.handleAuthorize)
	m.mux.HandleFunc(PathToken, m.handleToken)
	m.mux.HandleFunc(PathProfile, m.handleProfile)
	return m
}

// AuthURL returns the authorization endpoint URL
func (m *OAuth2Server) AuthURL() string { return m.URL() + PathAuthorize }

// TokenURL returns the token endpoint URL
func (m *OAuth2Server) TokenURL() string { return m.URL() + PathToken }

// ProfileURL returns the profile endpoint URL
func (m *OAuth2Server) ProfileURL() string { return m.URL() + PathProfile }

// Scopes returns the scope parameters the authorization endpoint received
func (m *OAuth2Server) Scopes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.scopes...)
}

// Approve plays the user granting access at authURL and returns the
// callback parameters the provider redirects back with.
func (m *OAuth2Server) Approve(authURL string) (url.Values, error) {
	return follow(m.Client(), authURL)
}

func (m *OAuth2Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("client_id") != m.config.ClientID {
		http.Error(w, "Invalid client_id", http.StatusBadRequest)
		return
	}
	if q.Get("response_type") != "code" {
		http.Error(w, "Unsupported response_type", http.StatusBadRequest)
		return
	}

	redirectURI := q.Get("redirect_uri")
	code := m.next("code")
	m.mu.Lock()
	m.codes[code] = redirectURI
	m.scopes = append(m.scopes, q.Get("scope"))
	m.mu.Unlock()

	params := url.Values{"code": {code}}
	if state := q.Get("state"); state != "" {
		params.Set("state", state)
	}
	http.Redirect(w, r, appendQuery(redirectURI, params), http.StatusFound)
}

func (m *OAuth2Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if r.FormValue("grant_type") != "authorization_code" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
		return
	}
	if r.FormValue("client_id") != m.config.ClientID || r.FormValue("client_secret") != m.config.ClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid_client"})
		return
	}

	code := r.FormValue("code")
	m.mu.Lock()
	redirectURI, ok := m.codes[code]
	delete(m.codes, code)
	m.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
		return
	}
	if redirectURI != r.FormValue("redirect_uri") {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "redirect_uri mismatch",
		})
		return
	}

	token := m.next("access")
	m.mu.Lock()
	m.tokens[token] = true
	m.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   3600,
		"id_token":     "fake-id-token",
	})
}

func (m *OAuth2Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("access_token")
	if auth := r.Header.Get("Authorization"); auth != "" {
		token, _ = strings.CutPrefix(auth, "Bearer ")
	}

	m.mu.Lock()
	valid := m.tokens[token]
	m.mu.Unlock()
	if !valid {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid_token"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(m.config.Profile))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
