package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gobeaver/beaver-social/oauth"
)

type server struct {
	registry   *oauth.Registry
	handshakes *oauth.HandshakeStore
	gatherer   prometheus.Gatherer
	logger     *slog.Logger
}

func newServer(registry *oauth.Registry, handshakes *oauth.HandshakeStore, gatherer prometheus.Gatherer, logger *slog.Logger) *server {
	return &server{registry: registry, handshakes: handshakes, gatherer: gatherer, logger: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/providers", s.providers)
	r.Get("/login/{type}", s.login)
	r.Get("/callback", s.callback)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

type providerView struct {
	Type        string         `json:"type"`
	Protocol    oauth.Protocol `json:"protocol"`
	CallbackURL string         `json:"callback_url"`
	Scope       string         `json:"scope,omitempty"`
}

func (s *server) providers(w http.ResponseWriter, r *http.Request) {
	out := make([]providerView, 0)
	for _, p := range s.registry.Providers() {
		out = append(out, providerView{
			Type:        p.Type(),
			Protocol:    p.Protocol(),
			CallbackURL: p.CallbackURL(),
			Scope:       p.Scope(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// login starts a handshake and redirects the user to the provider.
func (s *server) login(w http.ResponseWriter, r *http.Request) {
	p, ok := s.registry.FindProviderByType(chi.URLParam(r, "type"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_provider", "")
		return
	}

	req := p.NewRequest()
	authURL, err := req.AuthorizationURL(r.Context())
	if err != nil {
		s.fail(w, r, p.Type(), err)
		return
	}
	if err := s.handshakes.Save(r.Context(), req); err != nil {
		s.fail(w, r, p.Type(), err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// callback dispatches on the discriminator parameter and completes the
// handshake.
func (s *server) callback(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	p, ok := s.registry.FindProvider(params)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_provider", "")
		return
	}

	req, err := s.handshakes.Resume(r.Context(), p, params)
	if err != nil {
		if errors.Is(err, oauth.ErrHandshakeNotFound) {
			writeError(w, http.StatusBadRequest, "unknown_handshake", "")
			return
		}
		s.fail(w, r, p.Type(), err)
		return
	}

	up, ok, err := req.Authenticate(r.Context(), params)
	if err != nil {
		s.fail(w, r, p.Type(), err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadGateway, "profile_unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, up)
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, provider string, err error) {
	var cerr *oauth.CredentialError
	var herr *oauth.HTTPError
	switch {
	case errors.As(err, &cerr):
		code := cerr.Code()
		if code == "" {
			code = "invalid_callback"
		}
		writeError(w, http.StatusUnauthorized, code, cerr.Description())
		return
	case errors.As(err, &herr):
		s.logger.Warn("provider request failed",
			slog.String("provider", provider),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Int("status", herr.StatusCode),
			slog.String("url", herr.URL))
		writeError(w, http.StatusBadGateway, "provider_error", "")
		return
	}
	s.logger.Error("oauth flow failed",
		slog.String("provider", provider),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "server_error", "")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	body := map[string]string{"error": code}
	if description != "" {
		body["error_description"] = description
	}
	writeJSON(w, status, body)
}
