package transport

import (
	"context"
	"time"

	"github.com/kbukum/oauth2http/errors"
	"github.com/kbukum/oauth2http/exchange"
	"github.com/kbukum/oauth2http/observability"
)

// WithMetrics returns a Middleware that records exchange count, duration,
// in-flight exchanges and errors on the given instruments.
func WithMetrics(metrics *observability.Metrics) Middleware {
	return func(inner Transport) Transport {
		return &metricsTransport{wrapped: wrapped{inner}, metrics: metrics}
	}
}

type metricsTransport struct {
	wrapped
	metrics *observability.Metrics
}

func (m *metricsTransport) Perform(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	name := Name(m.inner)
	m.metrics.RecordExchangeStart(ctx)
	start := time.Now()
	resp, err := m.inner.Perform(ctx, req)
	duration := time.Since(start)

	status := 0
	if resp != nil && err == nil {
		status = resp.StatusCode
	}
	if err != nil {
		m.metrics.RecordError(ctx, name, errors.CodeOf(err).String())
	}
	m.metrics.RecordExchangeEnd(ctx, name, methodOf(req), status, duration)

	return resp, err
}
