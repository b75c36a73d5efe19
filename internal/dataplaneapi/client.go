// Package dataplaneapi pushes rendered haproxy configs to an HAProxy Data Plane API.
package dataplaneapi

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var dataPlaneClientTimeout = 2 * time.Second

// Client is the http client for Data Plane API
type Client struct {
	client   *http.Client
	baseURL  string
	user     string
	password string
	logger   *zap.SugaredLogger
}

// Option configures a connection option.
type Option func(c *Client)

// NewClient returns an http client for Data Plane API
func NewClient(url string, options ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: dataPlaneClientTimeout,
		},
		baseURL: url,
		logger:  zap.NewNop().Sugar(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// WithLogger sets the logger for the client
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBasicAuth sets the credentials sent with every request
func WithBasicAuth(user, password string) Option {
	return func(c *Client) {
		c.user = user
		c.password = password
	}
}

// WithHTTPClient replaces the default http client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

func (c *Client) newRequest(ctx context.Context, method, url string, body string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBufferString(body))
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(c.user, c.password)

	if body != "" {
		req.Header.Add("Content-Type", "text/plain")
	}

	return req, nil
}

// APIIsReady returns true when a 200 is returned for a GET request to the Data Plane API
func (c *Client) APIIsReady(ctx context.Context) bool {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL, "")
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// likely connection timeout
		return false
	}

	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// CheckConfig validates the proposed config without applying it
func (c *Client) CheckConfig(ctx context.Context, config string) error {
	return c.postRaw(ctx, "/services/haproxy/configuration/raw?only_validate=true", config)
}

// PostConfig pushes a new haproxy config in plain text using basic auth
func (c *Client) PostConfig(ctx context.Context, config string) error {
	if err := c.postRaw(ctx, "/services/haproxy/configuration/raw?skip_version=true", config); err != nil {
		return err
	}

	c.logger.Infow("haproxy config pushed", "url", c.baseURL)

	return nil
}

func (c *Client) postRaw(ctx context.Context, path, config string) error {
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+path, config)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusAccepted, http.StatusCreated:
		return nil
	case http.StatusUnauthorized:
		return ErrDataPlaneHTTPUnauthorized
	case http.StatusBadRequest:
		return ErrDataPlaneConfigInvalid
	default:
		return newStatusError(resp.StatusCode)
	}
}

// WaitForDataPlaneReady waits for the DataPlane API to be ready
func (c *Client) WaitForDataPlaneReady(ctx context.Context, retries int, sleep time.Duration) error {
	for i := 0; i < retries; i++ {
		if c.APIIsReady(ctx) {
			c.logger.Info("dataplaneapi is ready")
			return nil
		}

		c.logger.Infow("waiting for dataplaneapi to become ready", "attempt", i+1)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}

	return ErrDataPlaneNotReady
}
