package nethttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/http2"

	"github.com/kbukum/oauth2http/exchange"
	"github.com/kbukum/oauth2http/transport"
)

// ErrBodyTooLarge is wrapped in an ErrCodeBody error when a response
// exceeds Config.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// Transport performs exchanges with an *http.Client.
type Transport struct {
	client       *http.Client
	headers      map[string]string
	userAgent    string
	maxBodyBytes int64
}

var (
	_ transport.Transport = (*Transport)(nil)
	_ transport.Closer    = (*Transport)(nil)
)

// New builds a Transport from cfg. The underlying *http.Transport is a clone
// of http.DefaultTransport with cfg's TLS settings applied.
func New(cfg Config) (*Transport, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt := http.DefaultTransport.(*http.Transport).Clone()

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		rt.TLSClientConfig = tlsCfg
	}

	// A custom TLSClientConfig disables net/http's automatic HTTP/2.
	if cfg.HTTP2 {
		if err := http2.ConfigureTransport(rt); err != nil {
			return nil, fmt.Errorf("nethttp: enabling http2: %w", err)
		}
	}

	t := NewWithClient(&http.Client{Transport: rt, Timeout: cfg.Timeout})
	t.headers = cfg.Headers
	t.userAgent = cfg.UserAgent
	t.maxBodyBytes = cfg.MaxBodyBytes
	return t, nil
}

// NewWithClient wraps an existing client. Default headers and User-Agent
// are not applied; the body limit is the default.
func NewWithClient(client *http.Client) *Transport {
	return &Transport{client: client, maxBodyBytes: defaultMaxBodyBytes}
}

// Name implements transport.Namer.
func (t *Transport) Name() string { return "nethttp" }

// Perform issues exactly one HTTP request. Any status code is a response;
// only failures to obtain a complete response are errors.
func (t *Transport) Perform(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	var body io.Reader
	if req.BodyLen() > 0 {
		body = bytes.NewReader(req.Body())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method().String(), req.URL(), body)
	if err != nil {
		return nil, t.wrap(ErrCodeRequest, req, err)
	}
	// Names are canonicalized so net/http sees User-Agent, Host and
	// Content-Length however the caller spelled them. Defaults only fill gaps.
	for _, h := range req.Headers() {
		httpReq.Header.Add(h.Name, h.Value)
	}
	if host := httpReq.Header.Get("Host"); host != "" {
		httpReq.Host = host
	}
	for k, v := range t.headers {
		if httpReq.Header.Get(k) == "" {
			httpReq.Header.Set(k, v)
		}
	}
	if t.userAgent != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, t.wrap(classify(err), req, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodyBytes+1))
	if err != nil {
		code := classify(err)
		if code == ErrCodeConnection {
			code = ErrCodeBody
		}
		return nil, t.wrap(code, req, err)
	}
	if int64(len(data)) > t.maxBodyBytes {
		return nil, t.wrap(ErrCodeBody, req, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, t.maxBodyBytes))
	}

	return exchange.NewResponse(resp.StatusCode, exchange.FromHTTP(resp.Header), data), nil
}

// Close closes idle connections.
func (t *Transport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

func (t *Transport) wrap(code ErrorCode, req *exchange.Request, err error) *Error {
	return &Error{Code: code, Method: req.Method().String(), URL: req.URL(), Err: err}
}
