package transporttest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/kbukum/oauth2http/exchange"
	"github.com/kbukum/oauth2http/transport"
)

// ErrExhausted is returned when a Replayer has nothing left to play.
var ErrExhausted = errors.New("transporttest: no exchanges remain to replay")

// ErrNoMatch is returned when the next recorded exchange does not match.
var ErrNoMatch = errors.New("transporttest: request does not match recording")

// Matcher reports whether req matches a recorded request.
type Matcher func(req *exchange.Request, stored Request) bool

// Replayer plays recorded exchanges back in order.
type Replayer struct {
	mu        sync.Mutex
	exchanges []Exchange
	matcher   Matcher
}

var _ transport.Transport = (*Replayer)(nil)

// NewReplayer loads exchanges written by Recorder.Save.
func NewReplayer(file string) (*Replayer, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var exchanges []Exchange
	if err := json.NewDecoder(f).Decode(&exchanges); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", file, err)
	}
	return NewReplayerFrom(exchanges), nil
}

// NewReplayerFrom replays the given exchanges.
func NewReplayerFrom(exchanges []Exchange) *Replayer {
	return &Replayer{exchanges: exchanges, matcher: DefaultMatcher}
}

// WithMatcher replaces DefaultMatcher.
func (r *Replayer) WithMatcher(m Matcher) *Replayer {
	r.matcher = m
	return r
}

// Perform returns the next recorded response when req matches the next
// recorded request. Each call consumes one exchange, matched or not.
func (r *Replayer) Perform(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	r.mu.Lock()
	if len(r.exchanges) == 0 {
		r.mu.Unlock()
		return nil, ErrExhausted
	}
	ex := r.exchanges[0]
	r.exchanges = r.exchanges[1:]
	r.mu.Unlock()

	if !r.matcher(req, ex.Request) {
		return nil, fmt.Errorf("%w: got %s %s, want %s %s",
			ErrNoMatch, req.Method(), req.URL(), ex.Request.Method, ex.Request.URL)
	}

	body := bodyOf(ex.Response.BodyString, ex.Response.BodyBytes)
	return exchange.NewResponse(ex.Response.StatusCode, ex.Response.Headers.Clone(), body), nil
}

// Remaining returns how many exchanges are left.
func (r *Replayer) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.exchanges)
}

// DefaultMatcher compares method, URL and body. Headers are ignored since
// they often carry per-run values.
func DefaultMatcher(req *exchange.Request, stored Request) bool {
	return req.Method().String() == stored.Method &&
		req.URL() == stored.URL &&
		bytes.Equal(req.Body(), bodyOf(stored.Body, stored.BodyBytes))
}
