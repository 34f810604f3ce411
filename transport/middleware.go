package transport

// Middleware wraps a Transport with cross-cutting behavior (logging,
// metrics, tracing, recording). Wrappers forward Name and Close to the
// transport they wrap.
type Middleware func(Transport) Transport

// Chain composes multiple middlewares into one. Middlewares are applied
// in order: the first middleware is outermost (executes first on the
// way in, last on the way out).
//
// Chain(a, b, c)(t) is equivalent to a(b(c(t))).
func Chain(middlewares ...Middleware) Middleware {
	return func(inner Transport) Transport {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// wrapped is embedded by middleware transports.
type wrapped struct {
	inner Transport
}

func (w wrapped) Name() string { return Name(w.inner) }
func (w wrapped) Close() error { return Close(w.inner) }
