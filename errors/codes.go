package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates a malformed exchange request.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeProtocolMismatch indicates a transport result that cannot be represented.
	ErrCodeProtocolMismatch ErrorCode = "PROTOCOL_MISMATCH"
	// ErrCodeTransport labels any error that did not originate in this module.
	// It is never carried by an *Error value; see CodeOf.
	ErrCodeTransport ErrorCode = "TRANSPORT"
)

// String returns the code as a string.
func (c ErrorCode) String() string { return string(c) }
