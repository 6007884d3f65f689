package oauth

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"strings"
)

// Package-level errors
var (
	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotInitialized indicates a flow operation on a provider before Init
	ErrNotInitialized = errors.New("oauth provider not initialized")

	// ErrUnknownProviderType indicates no definition is registered for a type
	ErrUnknownProviderType = errors.New("unknown oauth provider type")

	// ErrCredential matches every *CredentialError
	ErrCredential = errors.New("oauth credential error")

	// ErrTransport matches every *HTTPError
	ErrTransport = errors.New("oauth transport error")

	// ErrMissingVerifier indicates an OAuth 1.0a callback without oauth_verifier
	ErrMissingVerifier = errors.New("missing oauth_verifier")

	// ErrTokenMismatch indicates an OAuth 1.0a callback whose oauth_token is
	// missing or differs from the issued request token
	ErrTokenMismatch = errors.New("oauth_token does not match request token")

	// ErrMissingCode indicates an OAuth 2.0 callback without code
	ErrMissingCode = errors.New("missing authorization code")

	// ErrStateMismatch indicates state parameter mismatch (CSRF protection)
	ErrStateMismatch = errors.New("invalid state parameter")
)

// Reserved callback parameters a provider uses to report a failed
// authorization.
const (
	ParamError            = "error"
	ParamErrorReason      = "error_reason"
	ParamErrorDescription = "error_description"
	ParamErrorURI         = "error_uri"
)

// ErrorParams lists the reserved error parameters in reporting order.
var ErrorParams = []string{ParamError, ParamErrorReason, ParamErrorDescription, ParamErrorURI}

// CredentialError is returned when a callback cannot be turned into a
// credential: the provider reported an error, or a required parameter is
// missing or inconsistent. The reserved fields hold only values the provider
// sent on the callback.
type CredentialError struct {
	Provider string
	// Cause is set when the failure was detected locally rather than
	// reported by the provider.
	Cause  error
	fields map[string]string
}

// credentialErrorFromParams returns an error carrying every reserved
// parameter present in params, or nil when none is present.
func credentialErrorFromParams(provider string, params url.Values) *CredentialError {
	var fields map[string]string
	for _, name := range ErrorParams {
		vs, ok := params[name]
		if !ok || len(vs) == 0 {
			continue
		}
		if fields == nil {
			fields = make(map[string]string, len(ErrorParams))
		}
		fields[name] = vs[0]
	}
	if fields == nil {
		return nil
	}
	return &CredentialError{Provider: provider, fields: fields}
}

func newCredentialError(provider string, cause error) *CredentialError {
	return &CredentialError{Provider: provider, Cause: cause}
}

// Code returns the error parameter, or "" when absent.
func (e *CredentialError) Code() string { return e.fields[ParamError] }

// Reason returns the error_reason parameter, or "" when absent.
func (e *CredentialError) Reason() string { return e.fields[ParamErrorReason] }

// Description returns the error_description parameter, or "" when absent.
func (e *CredentialError) Description() string { return e.fields[ParamErrorDescription] }

// URI returns the error_uri parameter, or "" when absent.
func (e *CredentialError) URI() string { return e.fields[ParamErrorURI] }

// Lookup distinguishes an absent reserved field from an empty one.
func (e *CredentialError) Lookup(name string) (string, bool) {
	v, ok := e.fields[name]
	return v, ok
}

// Messages returns a copy of the reserved fields that were present.
func (e *CredentialError) Messages() map[string]string {
	return maps.Clone(e.fields)
}

// Error implements the error interface
func (e *CredentialError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "oauth credential error [%s]", e.Provider)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	for _, name := range ErrorParams {
		if v, ok := e.fields[name]; ok {
			fmt.Fprintf(&b, " %s=%q", name, v)
		}
	}
	return b.String()
}

// Unwrap returns the local cause, if any
func (e *CredentialError) Unwrap() error {
	return e.Cause
}

// Is reports ErrCredential
func (e *CredentialError) Is(target error) bool {
	return target == ErrCredential
}

// HTTPError is returned when a provider endpoint answers with a non-success
// status or cannot be reached.
type HTTPError struct {
	Provider   string
	Method     string
	URL        string // without query, which may carry tokens
	StatusCode int    // zero when no response was received
	Body       []byte
	Err        error
}

func newHTTPError(provider, method, rawURL string, status int, body []byte, err error) *HTTPError {
	return &HTTPError{
		Provider:   provider,
		Method:     method,
		URL:        redactURL(rawURL),
		StatusCode: status,
		Body:       body,
		Err:        err,
	}
}

func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("oauth http error [%s]: %s %s: %v", e.Provider, e.Method, e.URL, e.Err)
	}
	body := string(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("oauth http error [%s]: %s %s returned %d: %s", e.Provider, e.Method, e.URL, e.StatusCode, body)
}

// Unwrap returns the underlying transport error
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Is reports ErrTransport
func (e *HTTPError) Is(target error) bool {
	return target == ErrTransport
}
