// Package oauth authenticates users against OAuth 1.0a and OAuth 2.0
// identity providers and returns their profiles.
//
// Features:
//   - OAuth 1.0a three-legged flow and OAuth 2.0 authorization-code flow
//   - Built-in providers: facebook, github, google2, windowslive, wordpress
//     (OAuth 2.0) and twitter, yahoo, dropbox (OAuth 1.0a)
//   - Custom providers through RegisterDefinition
//   - A Registry that derives callback URLs and dispatches callbacks
//   - Typed profiles through the profile package
//   - Pending handshakes kept in a cache or in a signed cookie
//
// # Quick Start
//
// Configure providers through environment variables:
//
//	export BEAVER_OAUTH_BASE_URL=https://app.example.com/callback
//	export BEAVER_OAUTH_PROVIDERS=github,twitter
//	export BEAVER_OAUTH_GITHUB_KEY=...
//	export BEAVER_OAUTH_GITHUB_SECRET=...
//	export BEAVER_OAUTH_TWITTER_KEY=...
//	export BEAVER_OAUTH_TWITTER_SECRET=...
//
// Build the registry:
//
//	registry, err := oauth.WithPrefix("BEAVER_").New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Redirect the user:
//
//	p, _ := registry.FindProviderByType("github")
//	req := p.NewRequest()
//	authURL, err := req.AuthorizationURL(ctx)
//	// keep req.State() until the callback, e.g. with a HandshakeStore
//
// Handle the callback:
//
//	p, ok := registry.FindProvider(r.URL.Query())
//	if !ok {
//	    // unknown provider, not an error
//	}
//	req := p.ResumeRequest(savedState)
//	user, found, err := req.Authenticate(ctx, r.URL.Query())
//
// # Errors
//
// Flow errors are one of:
//   - *CredentialError (errors.Is(err, ErrCredential)): the callback carried
//     a provider error or lacked a required parameter. No exchange was made.
//   - *HTTPError (errors.Is(err, ErrTransport)): a provider endpoint failed.
//   - ErrInvalidConfig, ErrNotInitialized: setup problems.
//
// A profile response without a parseable body is reported as found == false
// with a nil error. Attributes that fail to convert are left out of the
// profile and logged at debug level.
//
// # Concurrency
//
// Providers and the Registry are safe for concurrent use. A Request belongs
// to one handshake and must not be shared.
package oauth
