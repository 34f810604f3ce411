package transport

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/oauth2http/errors"
	"github.com/kbukum/oauth2http/exchange"
	"github.com/kbukum/oauth2http/observability"
)

// WithTracing returns a Middleware that wraps each exchange in an
// OpenTelemetry client span named "{serviceName}.exchange".
func WithTracing(serviceName string) Middleware {
	return func(inner Transport) Transport {
		return &tracingTransport{wrapped: wrapped{inner}, serviceName: serviceName}
	}
}

type tracingTransport struct {
	wrapped
	serviceName string
}

func (t *tracingTransport) Perform(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	ctx, span := observability.StartSpan(ctx, t.serviceName+".exchange",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(attribute.String(observability.AttrTransport, Name(t.inner)))
	if req != nil {
		span.SetAttributes(
			attribute.String(observability.AttrHTTPMethod, req.Method().String()),
			attribute.String(observability.AttrURLFull, req.URL()),
			attribute.String(observability.AttrServerAddress, req.Host()),
		)
	}

	resp, err := t.inner.Perform(ctx, req)
	switch {
	case err != nil:
		observability.SetSpanError(ctx, err)
		span.SetAttributes(attribute.String(observability.AttrErrorType, errors.CodeOf(err).String()))
		span.SetStatus(codes.Error, err.Error())
	case resp != nil:
		span.SetAttributes(attribute.Int(observability.AttrHTTPStatusCode, resp.StatusCode))
	}

	return resp, err
}
