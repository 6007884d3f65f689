package oauth

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/gobeaver/beaver-social/profile"
)

// Request carries the state of one handshake. It is not safe for
// concurrent use; start one per authentication attempt with
// Provider.NewRequest.
type Request struct {
	provider *Provider
	state    RequestState
}

// Provider returns the provider the request belongs to.
func (r *Request) Provider() *Provider { return r.provider }

// State returns the per-request state to keep across the redirect.
func (r *Request) State() RequestState { return r.state }

// AuthorizationURL returns the URL to send the user to. For OAuth 1.0a it
// first obtains a request token from the provider and keeps it in r.
func (r *Request) AuthorizationURL(ctx context.Context) (string, error) {
	start := time.Now()
	u, err := r.authorizationURL(ctx)
	r.provider.opts.metrics.observe(r.provider.cfg.Type, stepAuthorize, outcomeOf(err), time.Since(start))
	return u, err
}

func (r *Request) authorizationURL(ctx context.Context) (string, error) {
	eng, err := r.provider.engine()
	if err != nil {
		return "", err
	}
	u, err := eng.authorizationURL(ctx, r)
	if err != nil {
		r.provider.opts.logger.Debug("authorization url failed",
			slog.String("provider", r.provider.cfg.Type),
			slog.String("error", err.Error()))
		return "", err
	}
	return u, nil
}

// Credential validates the callback parameters and exchanges them for an
// access credential. Errors are *CredentialError when the callback itself
// is unusable and *HTTPError when the provider rejects the exchange.
func (r *Request) Credential(ctx context.Context, params url.Values) (*Credential, error) {
	start := time.Now()
	c, err := r.credential(ctx, params)
	r.provider.opts.metrics.observe(r.provider.cfg.Type, stepCredential, outcomeOf(err), time.Since(start))
	return c, err
}

func (r *Request) credential(ctx context.Context, params url.Values) (*Credential, error) {
	eng, err := r.provider.engine()
	if err != nil {
		return nil, err
	}
	c, err := eng.credential(ctx, r, params)
	if err != nil {
		r.provider.opts.logger.Debug("credential exchange failed",
			slog.String("provider", r.provider.cfg.Type),
			slog.String("error", err.Error()))
		return nil, err
	}
	return c, nil
}

// Authenticate runs Credential then Provider.UserProfile.
func (r *Request) Authenticate(ctx context.Context, params url.Values) (*profile.UserProfile, bool, error) {
	c, err := r.Credential(ctx, params)
	if err != nil {
		return nil, false, err
	}
	return r.provider.UserProfile(ctx, c)
}
