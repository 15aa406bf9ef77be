// http is used to download MPX files that are published over HTTP(S).
package internal

import (
	"context"
	"errors"
	"time"

	"resty.dev/v3"
)

type HttpClient struct {
	client      *resty.Client
	baseRequest *resty.Request
}

func NewHttpClient(ctx context.Context, timeout time.Duration) *HttpClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Create resty client with configuration
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1*time.Second).
		SetRetryMaxWaitTime(5*time.Second).
		AddRetryConditions(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("User-Agent", "go-mpx/"+currentVersion).
		SetContext(ctx)

	return &HttpClient{
		client: client,
		baseRequest: client.R().
			SetHeader("Accept", "application/x-project, text/plain, */*"),
	}
}

// getRequest returns a new request
func (c *HttpClient) getRequest() *resty.Request {
	return c.baseRequest.Clone(c.client.Context())
}

// Fetch downloads the body at url.
func (c *HttpClient) Fetch(url string) ([]byte, error) {
	resp, err := c.getRequest().Get(url)

	if err != nil {
		return nil, errors.New("Error making HTTP request: " + err.Error())
	}

	if resp.StatusCode() >= 400 {
		return nil, errors.New("HTTP error: " + resp.Status() + " - " + string(resp.Bytes()))
	}

	return resp.Bytes(), nil
}

// Close releases the client's idle connections.
func (c *HttpClient) Close() error {
	return c.client.Close()
}
