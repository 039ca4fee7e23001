package httpclient

import (
	"context"
	"net/http"
	"time"
)

// Client is a timeout-bound HTTP client for provider round-trips.
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

// Timeout returns the client's request timeout.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}
