package oauth_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/gobeaver/beaver-social/oauth"
	"github.com/gobeaver/beaver-social/oauth/oauthtest"
)

const (
	testKey    = "client-id"
	testSecret = "client-secret"
	testBase   = "http://app.example.com/callback"
)

const githubProfile = `{
	"id": 42,
	"login": "octocat",
	"name": "The Octocat",
	"avatar_url": "https://avatars.example.com/u/42",
	"html_url": "https://github.com/octocat",
	"location": "San Francisco",
	"public_repos": 8,
	"hireable": false,
	"created_at": "2011-01-25T18:44:36Z",
	"plan": {"name": "pro", "collaborators": 0, "space": 976562499, "private_repos": 9999}
}`

const twitterProfile = `{
	"id": 783214,
	"id_str": "783214",
	"screen_name": "jack",
	"name": "Jack",
	"lang": "en_US",
	"location": "California",
	"followers_count": 1000,
	"verified": true,
	"created_at": "Tue Mar 21 20:50:14 +0000 2006"
}`

// newGitHub returns an initialized github provider talking to srv.
func newGitHub(t *testing.T, srv *oauthtest.OAuth2Server, opts ...oauth.Option) *oauth.Provider {
	t.Helper()
	p, err := oauth.NewProvider(oauth.ProviderConfig{
		Type:        "github",
		Key:         testKey,
		Secret:      testSecret,
		CallbackURL: testBase + "?oauth_provider_type=github",
		AuthURL:     srv.AuthURL(),
		TokenURL:    srv.TokenURL(),
		ProfileURL:  srv.ProfileURL(),
		HTTPClient:  srv.Client(),
	}, opts...)
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if err := p.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return p
}

// newTwitter returns an initialized twitter provider talking to srv.
func newTwitter(t *testing.T, srv *oauthtest.OAuth1Server, opts ...oauth.Option) *oauth.Provider {
	t.Helper()
	return newOAuth1(t, "twitter", srv, opts...)
}

func newOAuth1(t *testing.T, typ string, srv *oauthtest.OAuth1Server, opts ...oauth.Option) *oauth.Provider {
	t.Helper()
	p, err := oauth.NewProvider(oauth.ProviderConfig{
		Type:            typ,
		Key:             testKey,
		Secret:          testSecret,
		CallbackURL:     testBase + "?oauth_provider_type=" + typ,
		RequestTokenURL: srv.RequestTokenURL(),
		AuthURL:         srv.AuthURL(),
		AccessTokenURL:  srv.AccessTokenURL(),
		ProfileURL:      srv.ProfileURL(),
		HTTPClient:      srv.Client(),
	}, opts...)
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if err := p.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return p
}

func newOAuth2Server(t *testing.T, profile string) *oauthtest.OAuth2Server {
	t.Helper()
	srv := oauthtest.NewOAuth2Server(oauthtest.OAuth2Config{
		ClientID:     testKey,
		ClientSecret: testSecret,
		Profile:      profile,
	})
	t.Cleanup(srv.Close)
	return srv
}

func newOAuth1Server(t *testing.T, profile string) *oauthtest.OAuth1Server {
	t.Helper()
	srv := oauthtest.NewOAuth1Server(oauthtest.OAuth1Config{
		ConsumerKey: testKey,
		Profile:     profile,
	})
	t.Cleanup(srv.Close)
	return srv
}

// staticState always generates the same state.
type staticState string

func (s staticState) Generate() (string, error) { return string(s), nil }

// approve starts req and lets the fake provider approve it, returning the
// callback parameters.
func approve(t *testing.T, srv interface {
	Approve(string) (url.Values, error)
}, req *oauth.Request) url.Values {
	t.Helper()
	authURL, err := req.AuthorizationURL(context.Background())
	if err != nil {
		t.Fatalf("AuthorizationURL failed: %v", err)
	}
	params, err := srv.Approve(authURL)
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	return params
}
