package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxBodySize caps every provider response read into memory.
const maxBodySize = 1 << 20

// httpFetcher performs signed profile requests. The client signs, or token
// is appended as access_token for query placement.
type httpFetcher struct {
	provider string
	client   *http.Client
	token    string
}

func (f *httpFetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	target := rawURL
	if f.token != "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("%w: profile url: %v", ErrInvalidConfig, err)
		}
		q := u.Query()
		q.Set("access_token", f.token)
		u.RawQuery = q.Encode()
		target = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, newHTTPError(f.provider, http.MethodGet, rawURL, 0, nil, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, newHTTPError(f.provider, http.MethodGet, rawURL, 0, nil, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, newHTTPError(f.provider, http.MethodGet, rawURL, resp.StatusCode, nil, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(f.provider, http.MethodGet, rawURL, resp.StatusCode, body,
			fmt.Errorf("unexpected status %s", resp.Status))
	}
	return body, nil
}
