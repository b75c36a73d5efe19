// Package linodeapi builds the authenticated Linode API client used by every command.
package linodeapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/linode/linodego"
	"go.uber.org/zap"

	"go.infratographer.com/nodebalancer-manager/x/oauth2x"
)

const defaultUserAgent = "nodebalancer-manager"

// Client wraps a linodego client together with the transport settings it was built with
type Client struct {
	*linodego.Client

	logger    *zap.SugaredLogger
	baseURL   string
	userAgent string
	timeout   time.Duration
	retries   int
	transport http.RoundTripper
}

// Option configures a connection option.
type Option func(c *Client)

// WithLogger sets the logger for the client
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBaseURL overrides the API base url, e.g. for a mock server
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithUserAgent sets the user agent sent with every request
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout bounds every HTTP request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRetries sets how many times a failed HTTP request is retried. The default is zero.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// WithTransport injects the base round tripper the token transport sits on
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = rt
	}
}

// NewClient returns a Linode API client authenticated with token
func NewClient(ctx context.Context, token string, options ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrTokenRequired
	}

	c := &Client{
		logger:    zap.NewNop().Sugar(),
		userAgent: defaultUserAgent,
	}

	for _, opt := range options {
		opt(c)
	}

	if c.transport != nil {
		ctx = oauth2x.WithBaseTransport(ctx, c.transport)
	}

	retryCli := retryablehttp.NewClient()
	retryCli.HTTPClient = oauth2x.NewClient(ctx, oauth2x.NewStaticTokenSrc(token))
	retryCli.HTTPClient.Timeout = c.timeout
	retryCli.RetryMax = c.retries
	// hand error responses back to linodego so it can decode the API errors
	retryCli.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryCli.Logger = leveledLogger{c.logger}

	lc := linodego.NewClient(retryCli.StandardClient())
	lc.SetUserAgent(c.userAgent)
	// retries are owned by the transport above
	lc.SetRetryCount(0)

	if c.baseURL != "" {
		lc.SetBaseURL(c.baseURL)
	}

	c.Client = &lc

	return c, nil
}

// Probe issues a lightweight authenticated call and returns the username the token belongs to
func (c *Client) Probe(ctx context.Context) (string, error) {
	profile, err := c.GetProfile(ctx)
	if err != nil {
		if f, ok := AsFault(err); ok {
			return "", fmt.Errorf("%w: %s", ErrProbeFailed, f.Message())
		}

		return "", fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	c.logger.Debugw("linode api probe succeeded", "username", profile.Username)

	return profile.Username, nil
}

// WaitForReady probes the API up to attempts times, sleeping between failures.
// The error of the last probe is returned when none succeed.
func (c *Client) WaitForReady(ctx context.Context, attempts int, sleep time.Duration) (string, error) {
	var err error

	for i := 0; i < attempts; i++ {
		var username string

		username, err = c.Probe(ctx)
		if err == nil {
			return username, nil
		}

		c.logger.Infow("waiting for linode api", "attempt", i+1, "error", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(sleep):
		}
	}

	if err == nil {
		err = ErrProbeFailed
	}

	return "", err
}

// leveledLogger adapts a zap logger to retryablehttp.LeveledLogger
type leveledLogger struct {
	l *zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.l.Errorw(msg, kv...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.l.Debugw(msg, kv...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.l.Debugw(msg, kv...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.l.Warnw(msg, kv...) }
