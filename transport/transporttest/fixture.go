package transporttest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kbukum/oauth2http/exchange"
	"github.com/kbukum/oauth2http/transport"
)

// ErrNoFixture is returned when a Fixture has no entry for a request.
var ErrNoFixture = errors.New("transporttest: no fixture for request")

type outcome struct {
	resp *exchange.Response
	err  error
}

// Fixture is a deterministic transport keyed by method, URL and body.
// It returns exactly the response pointer or error value it was given.
// Safe for concurrent use.
type Fixture struct {
	mu       sync.Mutex
	outcomes map[string]outcome
	calls    int
}

var _ transport.Transport = (*Fixture)(nil)

// NewFixture returns an empty Fixture.
func NewFixture() *Fixture {
	return &Fixture{outcomes: make(map[string]outcome)}
}

// Respond registers resp for the given request. A nil resp makes the fixture
// return neither response nor error.
func (f *Fixture) Respond(method exchange.Method, url string, body []byte, resp *exchange.Response) *Fixture {
	return f.set(key(method, url, body), outcome{resp: resp})
}

// Fail registers err for the given request.
func (f *Fixture) Fail(method exchange.Method, url string, body []byte, err error) *Fixture {
	return f.set(key(method, url, body), outcome{err: err})
}

func (f *Fixture) set(k string, o outcome) *Fixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes[k] = o
	return f
}

// Perform returns the registered outcome for req.
func (f *Fixture) Perform(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	f.mu.Lock()
	f.calls++
	o, ok := f.outcomes[key(req.Method(), req.URL(), req.Body())]
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrNoFixture, req.Method(), req.URL())
	}
	return o.resp, o.err
}

// Calls returns how many times Perform was invoked.
func (f *Fixture) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Name implements transport.Namer.
func (f *Fixture) Name() string { return "fixture" }

func key(method exchange.Method, url string, body []byte) string {
	return string(method) + " " + url + "\n" + string(body)
}

// Failing returns a transport that always fails with err.
func Failing(err error) transport.Transport {
	return transport.Func(func(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
		return nil, err
	})
}

// Counter wraps a transport and counts Perform calls.
type Counter struct {
	inner transport.Transport
	mu    sync.Mutex
	n     int
}

// NewCounter wraps inner.
func NewCounter(inner transport.Transport) *Counter {
	return &Counter{inner: inner}
}

// Perform counts the call and delegates to the wrapped transport.
func (c *Counter) Perform(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	return c.inner.Perform(ctx, req)
}

// Calls returns the number of Perform calls so far.
func (c *Counter) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
