package credentials

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"

	"github.com/rios0rios0/catalogdiscovery/internal/domain/entities"
)

const (
	// DefaultRequestTimeout bounds a single HTTP attempt.
	DefaultRequestTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient errors (5xx, 429).
	MaxRetries = 3

	retryWaitMin = 500 * time.Millisecond
	retryWaitMax = 5 * time.Second
)

// NewRetryingClient wraps base (or a pooled client with DefaultRequestTimeout when
// base is nil) so that transient failures are retried with exponential backoff.
func NewRetryingClient(base *http.Client) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = MaxRetries
	retryClient.RetryWaitMin = retryWaitMin
	retryClient.RetryWaitMax = retryWaitMax
	retryClient.Logger = nil
	if base != nil {
		retryClient.HTTPClient = base
	} else {
		retryClient.HTTPClient.Timeout = DefaultRequestTimeout
	}
	return retryClient.StandardClient()
}

// NewAuthenticatedClient returns a client sending creds on every request:
// explicit headers as-is, otherwise the token as an OAuth2 bearer token.
func NewAuthenticatedClient(ctx context.Context, creds *entities.Credentials, base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	if len(creds.Headers) > 0 {
		return &http.Client{
			Transport: &HeaderTransport{Headers: creds.Headers, Base: base.Transport},
			Timeout:   base.Timeout,
		}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: creds.Token},
	))
}
