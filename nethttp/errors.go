package nethttp

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
)

// ErrorCode classifies transport failures.
type ErrorCode int

const (
	// ErrCodeRequest indicates the request could not be built.
	ErrCodeRequest ErrorCode = iota
	// ErrCodeTimeout indicates a timeout or deadline.
	ErrCodeTimeout
	// ErrCodeCanceled indicates the context was canceled.
	ErrCodeCanceled
	// ErrCodeConnection indicates a connection failure (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeTLS indicates a TLS handshake or certificate failure.
	ErrCodeTLS
	// ErrCodeBody indicates the response body could not be read.
	ErrCodeBody
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeRequest:
		return "request"
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeCanceled:
		return "canceled"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeTLS:
		return "tls"
	case ErrCodeBody:
		return "body"
	default:
		return "unknown"
	}
}

// Error is the error type returned by Transport.Perform.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Method and URL identify the exchange.
	Method string
	URL    string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("nethttp: %s: %s %s: %v", e.Code, e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the exchange may succeed.
func (e *Error) Temporary() bool {
	return e.Code == ErrCodeTimeout || e.Code == ErrCodeConnection
}

// classify picks the ErrorCode for an error returned by http.Client.Do.
func classify(err error) ErrorCode {
	var (
		netErr      net.Error
		certErr     *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		recordErr   tls.RecordHeaderError
		alertErr    tls.AlertError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return ErrCodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	case errors.As(err, &certErr), errors.As(err, &unknownAuth), errors.As(err, &hostErr),
		errors.As(err, &invalidErr), errors.As(err, &recordErr), errors.As(err, &alertErr):
		return ErrCodeTLS
	case errors.As(err, &netErr) && netErr.Timeout():
		return ErrCodeTimeout
	default:
		return ErrCodeConnection
	}
}

func isCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return isCode(err, ErrCodeTimeout) }

// IsCanceled checks if an error is a cancellation.
func IsCanceled(err error) bool { return isCode(err, ErrCodeCanceled) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return isCode(err, ErrCodeConnection) }

// IsTLS checks if an error is a TLS error.
func IsTLS(err error) bool { return isCode(err, ErrCodeTLS) }

// IsBody checks if an error occurred while reading the response body.
func IsBody(err error) bool { return isCode(err, ErrCodeBody) }

// IsTemporary checks if an error is worth retrying.
func IsTemporary(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Temporary()
}
