package adapter

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/kbukum/oauth2http/errors"
	"github.com/kbukum/oauth2http/exchange"
	"github.com/kbukum/oauth2http/logger"
	"github.com/kbukum/oauth2http/transport"
)

// Client executes exchanges on a Transport. It holds no mutable state and
// is safe for concurrent use.
type Client struct {
	transport transport.Transport
	name      string
	log       *logger.Logger
}

var _ http.RoundTripper = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithName sets the name reported by Name. It defaults to the transport's
// name.
func WithName(name string) Option {
	return func(c *Client) { c.name = name }
}

// WithLogger sets the logger used to report protocol mismatches.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a Client that performs exchanges on t. It panics if t is nil.
func New(t transport.Transport, opts ...Option) *Client {
	if t == nil {
		panic("adapter: nil transport")
	}
	c := &Client{transport: t, log: logger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.name == "" {
		c.name = transport.Name(t)
	}
	c.log = c.log.WithComponent("adapter")
	return c
}

// Name returns the client's name.
func (c *Client) Name() string { return c.name }

// Execute performs req on the transport exactly once.
//
// The transport's response is returned as-is. A transport error is returned
// as the identical value; if the transport returns both, the error wins.
func (c *Client) Execute(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	if req == nil {
		return nil, errors.InvalidRequest("request", "nil request")
	}

	resp, err := c.transport.Perform(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		c.log.WithContext(ctx).Debug("transport returned neither response nor error", logger.Fields(
			logger.FieldTransport, c.name,
			logger.FieldMethod, req.Method().String(),
			logger.FieldHost, req.Host(),
		))
		return nil, errors.ProtocolMismatch("transport returned neither a response nor an error").
			WithDetail("transport", c.name)
	}
	return resp, nil
}

// RoundTrip implements http.RoundTripper for net/http and x/oauth2.
func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	xreq, err := toExchangeRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.Execute(req.Context(), xreq)
	if err != nil {
		return nil, err
	}

	return toHTTPResponse(req, resp)
}

// HTTPClient returns an *http.Client that sends every request through c.
// It sets no timeout; timeouts belong to the transport or the context.
// Redirects are not followed: a 3xx from the transport is returned as is.
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{
		Transport: c,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Context returns a copy of ctx that makes x/oauth2 use c for its HTTP calls.
func (c *Client) Context(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient())
}

// Close releases the transport's resources if it holds any.
func (c *Client) Close() error {
	return transport.Close(c.transport)
}
