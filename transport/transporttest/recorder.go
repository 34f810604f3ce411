package transporttest

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/kbukum/oauth2http/exchange"
	"github.com/kbukum/oauth2http/transport"
)

// Recorder captures every successful exchange performed through it.
type Recorder struct {
	inner transport.Transport

	mu        sync.Mutex
	exchanges []Exchange
}

var _ transport.Transport = (*Recorder)(nil)

// NewRecorder records the exchanges performed through inner.
func NewRecorder(inner transport.Transport) *Recorder {
	return &Recorder{inner: inner}
}

// Middleware returns a transport.Middleware that records into a new
// Recorder, handing that Recorder to fn.
func Middleware(fn func(*Recorder)) transport.Middleware {
	return func(inner transport.Transport) transport.Transport {
		r := NewRecorder(inner)
		fn(r)
		return r
	}
}

// Perform forwards to the wrapped transport and records the exchange when it
// yields a response. Errors are returned without being recorded.
func (r *Recorder) Perform(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	resp, err := r.inner.Perform(ctx, req)
	if err != nil || resp == nil {
		return resp, err
	}

	ex := Exchange{
		Request: Request{
			Method:  req.Method().String(),
			URL:     req.URL(),
			Headers: req.Headers(),
		},
		Response: Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers.Clone(),
		},
	}
	ex.Request.Body, ex.Request.BodyBytes = splitBody(req.Body())
	ex.Response.BodyString, ex.Response.BodyBytes = splitBody(resp.Body)

	r.mu.Lock()
	r.exchanges = append(r.exchanges, ex)
	r.mu.Unlock()

	return resp, nil
}

// Name reports the wrapped transport's name.
func (r *Recorder) Name() string { return transport.Name(r.inner) }

// Close closes the wrapped transport.
func (r *Recorder) Close() error { return transport.Close(r.inner) }

// Exchanges returns a copy of what has been recorded so far.
func (r *Recorder) Exchanges() []Exchange {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Exchange(nil), r.exchanges...)
}

// Save writes the recorded exchanges to file as indented JSON.
func (r *Recorder) Save(file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Exchanges())
}
