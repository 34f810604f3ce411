// Package transport defines the capability of performing one HTTP exchange.
//
// A Transport takes an exchange.Request and produces exactly one outcome:
// an exchange.Response or an error. The error type belongs to the
// implementation; callers only rely on it satisfying error. Concrete
// transports live elsewhere (see the nethttp package) and are handed to the
// adapter package, which exposes them to golang.org/x/oauth2.
//
// Cross-cutting behavior is added with Middleware:
//
//	t := transport.Chain(
//		transport.WithLogging(log),
//		transport.WithTracing("oauth2http"),
//		transport.WithMetrics(metrics),
//	)(base)
//
// Middleware never alters the response or error it observes.
package transport
