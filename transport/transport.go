package transport

import (
	"context"
	"fmt"

	"github.com/kbukum/oauth2http/exchange"
)

// Transport performs a single HTTP exchange.
//
// Perform blocks until the exchange completes or ctx is done and returns
// either a response or an error. Implementations must be safe for concurrent
// use; the adapter may call Perform from many goroutines at once.
type Transport interface {
	Perform(ctx context.Context, req *exchange.Request) (*exchange.Response, error)
}

// Func adapts an ordinary function to the Transport interface.
type Func func(ctx context.Context, req *exchange.Request) (*exchange.Response, error)

// Perform calls f(ctx, req).
func (f Func) Perform(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	return f(ctx, req)
}

// Closer is implemented by transports that hold resources such as idle
// connections.
type Closer interface {
	Close() error
}

// Namer is implemented by transports that report a name for logs and
// telemetry.
type Namer interface {
	Name() string
}

// Name returns t's name when it implements Namer, or its dynamic type.
func Name(t Transport) string {
	if n, ok := t.(Namer); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", t)
}

// Close closes t when it implements Closer.
func Close(t Transport) error {
	if c, ok := t.(Closer); ok {
		return c.Close()
	}
	return nil
}
