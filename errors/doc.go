// Package errors defines the failure taxonomy of the exchange layer.
//
// Only two kinds of failure are produced by this module itself:
//
//   - INVALID_REQUEST: an exchange request could not be constructed
//     (unsupported method, malformed URL).
//   - PROTOCOL_MISMATCH: a transport reported success but produced something
//     that cannot be represented as an HTTP response.
//
// Everything else is a transport error. Transport errors are never wrapped in
// *Error: they reach the caller as the exact value the transport returned, so
// callers can match them with errors.Is / errors.As against the transport's
// own error type.
package errors
