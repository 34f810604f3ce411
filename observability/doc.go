// Package observability wires OpenTelemetry tracing and metrics.
//
// InitTracer and InitMeter install global providers exporting over OTLP/HTTP.
// Metrics holds the instruments recorded per HTTP exchange; the transport
// package's WithMetrics and WithTracing middleware feed them.
package observability
