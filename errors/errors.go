package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the error type produced by the exchange layer itself.
type Error struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// InvalidRequest creates an error for a request that could not be constructed.
func InvalidRequest(field, reason string) *Error {
	e := &Error{
		Code:    ErrCodeInvalidRequest,
		Message: fmt.Sprintf("invalid request: %s", reason),
	}
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// ProtocolMismatch creates an error for a transport result the layer cannot represent.
func ProtocolMismatch(reason string) *Error {
	return &Error{
		Code:    ErrCodeProtocolMismatch,
		Message: fmt.Sprintf("protocol mismatch: %s", reason),
	}
}

// CodeOf classifies err. It returns "" for nil, the carried code for *Error
// values anywhere in the chain, and ErrCodeTransport for everything else.
// The chain is searched so classification survives *url.Error wrapping; as a
// consequence a transport error that wraps an *Error reports the inner code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ErrCodeTransport
}

// IsInvalidRequest checks if an error is an INVALID_REQUEST error.
func IsInvalidRequest(err error) bool {
	return CodeOf(err) == ErrCodeInvalidRequest
}

// IsProtocolMismatch checks if an error is a PROTOCOL_MISMATCH error.
func IsProtocolMismatch(err error) bool {
	return CodeOf(err) == ErrCodeProtocolMismatch
}

// IsTransport checks if an error came from a transport rather than this module.
func IsTransport(err error) bool {
	return CodeOf(err) == ErrCodeTransport
}
