// internal/common/httpx/client.go
package httpx

import (
	"context"
	"net/http"
	"time"
)

// Client is a thin wrapper around http.Client with a fixed timeout, used by
// the link verifier so tests can swap the transport.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithTransport builds a client around a custom round tripper.
func NewClientWithTransport(timeout time.Duration, rt http.RoundTripper) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: rt,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
