package domain

import (
	"net/http"
	"time"
)

// APIKeyParam is the query parameter TMDB reads the API key from.
const APIKeyParam = "api_key"

// NewAPIKeyClient returns an HTTP client that appends the API key to every
// outbound request. A zero timeout keeps the transport default.
// An empty key is a configuration error; it is reported before any request is built.
func NewAPIKeyClient(apiKey string, timeout time.Duration) (*http.Client, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{Problems: []string{APIKeyEnv + " environment variable is required"}}
	}

	return &http.Client{
		Transport: &apiKeyTransport{
			base:   http.DefaultTransport,
			apiKey: apiKey,
		},
		Timeout: timeout,
	}, nil
}

// apiKeyTransport is an http.RoundTripper that adds the api_key query parameter.
type apiKeyTransport struct {
	base   http.RoundTripper
	apiKey string
}

// RoundTrip implements http.RoundTripper.
func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	clone := req.Clone(req.Context())

	query := clone.URL.Query()
	query.Set(APIKeyParam, t.apiKey)
	clone.URL.RawQuery = query.Encode()

	return t.base.RoundTrip(clone)
}
