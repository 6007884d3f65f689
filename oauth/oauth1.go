package oauth

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/dghubble/oauth1"
)

type oauth1Engine struct {
	typ         string
	cfg         oauth1.Config
	client      *http.Client
	deniedParam string
}

func newOAuth1Engine(p *Provider, cfg ProviderConfig, client *http.Client) *oauth1Engine {
	return &oauth1Engine{
		typ: cfg.Type,
		cfg: oauth1.Config{
			ConsumerKey:    cfg.Key,
			ConsumerSecret: cfg.Secret,
			CallbackURL:    cfg.CallbackURL,
			Endpoint: oauth1.Endpoint{
				RequestTokenURL: endpoint(cfg.RequestTokenURL, p.def.RequestTokenURL),
				AuthorizeURL:    endpoint(cfg.AuthURL, p.def.AuthURL),
				AccessTokenURL:  endpoint(cfg.AccessTokenURL, p.def.AccessTokenURL),
			},
		},
		client:      client,
		deniedParam: p.def.DeniedParam,
	}
}

// call runs one token endpoint exchange on a copy of the config whose
// transport keeps the failing response, so it can be reported as an
// *HTTPError with status and body.
func (e *oauth1Engine) call(ctx context.Context, endpointURL string, fn func(cfg *oauth1.Config) error) error {
	rec := &recordingTransport{base: e.client.Transport, ctx: ctx}
	client := *e.client
	client.Transport = rec
	cfg := e.cfg
	cfg.HTTPClient = &client

	err := fn(&cfg)
	if err == nil {
		return nil
	}
	status, body := rec.failure()
	return newHTTPError(e.typ, http.MethodPost, endpointURL, status, body, err)
}

func (e *oauth1Engine) authorizationURL(ctx context.Context, r *Request) (string, error) {
	var token, secret string
	err := e.call(ctx, e.cfg.Endpoint.RequestTokenURL, func(cfg *oauth1.Config) error {
		var err error
		token, secret, err = cfg.RequestToken()
		return err
	})
	if err != nil {
		return "", err
	}
	r.state.Token = token
	r.state.Secret = secret

	u, err := e.cfg.AuthorizationURL(token)
	if err != nil {
		return "", newHTTPError(e.typ, http.MethodGet, e.cfg.Endpoint.AuthorizeURL, 0, nil, err)
	}
	return u.String(), nil
}

func (e *oauth1Engine) credential(ctx context.Context, r *Request, params url.Values) (*Credential, error) {
	if cerr := credentialErrorFromParams(e.typ, params); cerr != nil {
		return nil, cerr
	}
	if e.deniedParam != "" && params.Has(e.deniedParam) {
		return nil, &CredentialError{Provider: e.typ, fields: map[string]string{ParamError: "access_denied"}}
	}

	verifier := params.Get("oauth_verifier")
	if verifier == "" {
		return nil, newCredentialError(e.typ, ErrMissingVerifier)
	}
	token := params.Get("oauth_token")
	if token == "" || token != r.state.Token {
		return nil, newCredentialError(e.typ, ErrTokenMismatch)
	}

	var accessToken, accessSecret string
	err := e.call(ctx, e.cfg.Endpoint.AccessTokenURL, func(cfg *oauth1.Config) error {
		var err error
		accessToken, accessSecret, err = cfg.AccessToken(r.state.Token, r.state.Secret, verifier)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &Credential{Token: accessToken, Secret: accessSecret, TokenType: "OAuth"}, nil
}

func (e *oauth1Engine) fetcher(ctx context.Context, c *Credential) Fetcher {
	ctx = context.WithValue(ctx, oauth1.HTTPClient, e.client)
	signed := e.cfg.Client(ctx, oauth1.NewToken(c.Token, c.Secret))
	signed.Timeout = e.client.Timeout
	return &httpFetcher{provider: e.typ, client: signed}
}

// recordingTransport attaches ctx to each request and remembers the last
// non-success response.
type recordingTransport struct {
	base http.RoundTripper
	ctx  context.Context

	mu     sync.Mutex
	status int
	body   []byte
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(req.WithContext(t.ctx))
	if err != nil || (resp.StatusCode >= 200 && resp.StatusCode <= 299) {
		return resp, err
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	t.mu.Lock()
	t.status, t.body = resp.StatusCode, body
	t.mu.Unlock()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

func (t *recordingTransport) failure() (int, []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status, t.body
}
