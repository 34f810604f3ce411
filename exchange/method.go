package exchange

import (
	"fmt"

	"github.com/kbukum/oauth2http/errors"
)

// Method is an HTTP request method.
type Method string

// Methods recognized by the exchange model (RFC 9110 §9).
const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
	MethodConnect Method = "CONNECT"
	MethodTrace   Method = "TRACE"
)

var methods = map[Method]struct{}{
	MethodGet:     {},
	MethodHead:    {},
	MethodPost:    {},
	MethodPut:     {},
	MethodPatch:   {},
	MethodDelete:  {},
	MethodOptions: {},
	MethodConnect: {},
	MethodTrace:   {},
}

// Valid reports whether m is one of the recognized methods.
// Methods are case-sensitive, so "post" is not valid.
func (m Method) Valid() bool {
	_, ok := methods[m]
	return ok
}

// String returns the method token.
func (m Method) String() string { return string(m) }

// ParseMethod converts s into a Method, failing with INVALID_REQUEST when s
// is not a recognized method.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", errors.InvalidRequest("method", fmt.Sprintf("unsupported method %q", s))
	}
	return m, nil
}
