package source

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultUserAgent identifies the explorer to remote sources.
const DefaultUserAgent = "episode-explorer/1.0"

// HTTPFetcher retrieves documents over HTTP(S). It never retries; any
// non-2xx answer is a FetchError carrying the status code.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a fetcher. A zero timeout means no client-side
// timeout beyond the request context.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	client := resty.New()
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", userAgent)
	client.SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPFetcher{client: client}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(location)
	if err != nil {
		return nil, &FetchError{Source: location, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &FetchError{Source: location, Status: resp.StatusCode()}
	}
	return resp.Body(), nil
}
