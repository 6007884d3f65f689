package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

type oauth2Engine struct {
	typ       string
	cfg       *oauth2.Config
	client    *http.Client
	signature SignatureType
	stateGen  StateGenerator
}

func newOAuth2Engine(p *Provider, cfg ProviderConfig, client *http.Client, scope string) *oauth2Engine {
	oc := &oauth2.Config{
		ClientID:     cfg.Key,
		ClientSecret: cfg.Secret,
		RedirectURL:  cfg.CallbackURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   endpoint(cfg.AuthURL, p.def.AuthURL),
			TokenURL:  endpoint(cfg.TokenURL, p.def.TokenURL),
			AuthStyle: p.def.AuthStyle,
		},
	}
	// Kept as one element so provider-specific separators survive.
	if scope != "" {
		oc.Scopes = []string{scope}
	}
	sig := cfg.SignatureType
	if sig == "" {
		sig = SignatureHeader
	}
	return &oauth2Engine{
		typ:       cfg.Type,
		cfg:       oc,
		client:    client,
		signature: sig,
		stateGen:  p.opts.stateGen,
	}
}

func (e *oauth2Engine) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, e.client)
}

func (e *oauth2Engine) authorizationURL(_ context.Context, r *Request) (string, error) {
	if r.state.State == "" {
		state, err := e.stateGen.Generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate state: %w", err)
		}
		r.state.State = state
	}
	return e.cfg.AuthCodeURL(r.state.State), nil
}

func (e *oauth2Engine) credential(ctx context.Context, r *Request, params url.Values) (*Credential, error) {
	if cerr := credentialErrorFromParams(e.typ, params); cerr != nil {
		return nil, cerr
	}
	code := params.Get("code")
	if code == "" {
		return nil, newCredentialError(e.typ, ErrMissingCode)
	}
	if r.state.State != "" && params.Get("state") != r.state.State {
		return nil, newCredentialError(e.typ, ErrStateMismatch)
	}

	tok, err := e.cfg.Exchange(e.withClient(ctx), code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return nil, newHTTPError(e.typ, http.MethodPost, e.cfg.Endpoint.TokenURL, rerr.Response.StatusCode, rerr.Body, err)
		}
		return nil, newHTTPError(e.typ, http.MethodPost, e.cfg.Endpoint.TokenURL, 0, nil, err)
	}

	return &Credential{
		Token:     tok.AccessToken,
		TokenType: tok.Type(),
		Expiry:    tok.Expiry,
		oauth2:    tok,
	}, nil
}

func (e *oauth2Engine) fetcher(_ context.Context, c *Credential) Fetcher {
	if e.signature == SignatureQuery {
		return &httpFetcher{provider: e.typ, client: e.client, token: c.Token}
	}
	signed := *e.client
	signed.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(c.token()),
		Base:   e.client.Transport,
	}
	return &httpFetcher{provider: e.typ, client: &signed}
}
