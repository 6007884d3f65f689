// Package oauthtest provides fake OAuth 1.0a and OAuth 2.0 providers for
// tests. Every endpoint counts its requests, so a test can assert that a
// flow stopped before a token exchange.
package oauthtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// Endpoint paths served by both fakes.
const (
	PathAuthorize    = "/authorize"
	PathToken        = "/token"
	PathRequestToken = "/request_token"
	PathAccessToken  = "/access_token"
	PathProfile      = "/profile"
)

// response is a canned reply for one path.
type response struct {
	status      int
	contentType string
	body        string
}

// server holds what both fakes share: the listener, request counters,
// canned profile responses and failure scenarios.
type server struct {
	srv *httptest.Server
	mux *http.ServeMux

	mu        sync.Mutex
	requests  map[string]int
	responses map[string]response
	failures  map[string]response
	seq       int
}

func newServer() *server {
	s := &server{
		mux:       http.NewServeMux(),
		requests:  make(map[string]int),
		responses: make(map[string]response),
		failures:  make(map[string]response),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests[r.URL.Path]++
	fail, failing := s.failures[r.URL.Path]
	canned, hasCanned := s.responses[r.URL.Path]
	s.mu.Unlock()

	switch {
	case failing:
		writeResponse(w, fail)
	case hasCanned:
		writeResponse(w, canned)
	default:
		s.mux.ServeHTTP(w, r)
	}
}

func writeResponse(w http.ResponseWriter, resp response) {
	if resp.contentType != "" {
		w.Header().Set("Content-Type", resp.contentType)
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (s *server) next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// URL returns the base URL of the server
func (s *server) URL() string { return s.srv.URL }

// Client returns a client for the server
func (s *server) Client() *http.Client { return s.srv.Client() }

// Close shuts down the server
func (s *server) Close() { s.srv.Close() }

// Requests returns how many requests path has received
func (s *server) Requests(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[path]
}

// SetResponse serves body with status and content type on path, before any
// built-in handling. Authentication is not checked for canned responses.
func (s *server) SetResponse(path string, status int, contentType, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = response{status: status, contentType: contentType, body: body}
}

// SetFailure makes path answer with status and body until cleared with
// ClearFailure.
func (s *server) SetFailure(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = response{status: status, contentType: "text/plain", body: body}
}

// ClearFailure restores normal handling of path.
func (s *server) ClearFailure(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, path)
}

// follow requests authURL without following the redirect and returns the
// query of the Location it redirects to.
func follow(client *http.Client, authURL string) (url.Values, error) {
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, err := c.Get(authURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		return nil, fmt.Errorf("oauthtest: authorize returned %d", resp.StatusCode)
	}
	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		return nil, err
	}
	return loc.Query(), nil
}

// oauthParams parses an OAuth 1.0a Authorization header.
func oauthParams(header string) (url.Values, bool) {
	rest, ok := strings.CutPrefix(header, "OAuth ")
	if !ok {
		return nil, false
	}
	params := url.Values{}
	for _, part := range strings.Split(rest, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		k, _ = url.QueryUnescape(k)
		v, _ = url.QueryUnescape(strings.Trim(v, `"`))
		params.Set(k, v)
	}
	return params, true
}

// appendQuery adds params to rawURL, keeping its existing query.
func appendQuery(rawURL string, params url.Values) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
