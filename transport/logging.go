package transport

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/oauth2http/errors"
	"github.com/kbukum/oauth2http/exchange"
	"github.com/kbukum/oauth2http/logger"
)

// WithLogging returns a Middleware that logs each exchange.
// Every exchange gets an exchange_id stored in the context, so the inner
// transport and its own logs share it.
func WithLogging(log *logger.Logger) Middleware {
	return func(inner Transport) Transport {
		return &loggingTransport{wrapped: wrapped{inner}, log: log}
	}
}

type loggingTransport struct {
	wrapped
	log *logger.Logger
}

func (l *loggingTransport) Perform(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
	if logger.ExchangeID(ctx) == "" {
		ctx = logger.ContextWithExchangeID(ctx, uuid.NewString())
	}
	log := l.log.WithContext(ctx)

	start := time.Now()
	resp, err := l.inner.Perform(ctx, req)

	fields := logger.Fields(
		logger.FieldTransport, Name(l.inner),
		logger.FieldMethod, methodOf(req),
		logger.FieldHost, hostOf(req),
	)
	fields = logger.MergeWithDuration(fields, time.Since(start))

	switch {
	case err != nil:
		fields[logger.FieldErrorCode] = errors.CodeOf(err).String()
		log.Warn("exchange failed", logger.MergeWithError(fields, err))
	case resp != nil:
		fields[logger.FieldStatus] = resp.StatusCode
		log.Debug("exchange completed", fields)
	default:
		log.Warn("exchange returned neither response nor error", fields)
	}

	return resp, err
}

func methodOf(req *exchange.Request) string {
	if req == nil {
		return ""
	}
	return req.Method().String()
}

func hostOf(req *exchange.Request) string {
	if req == nil {
		return ""
	}
	return req.Host()
}
