package exchange

import (
	"fmt"
	"net/url"

	"github.com/kbukum/oauth2http/errors"
	"github.com/kbukum/oauth2http/validation"
)

// Request describes one outbound HTTP call.
type Request struct {
	method  Method
	url     string
	host    string
	headers Headers
	body    []byte
}

// NewRequest validates and builds a Request. It fails with INVALID_REQUEST
// when the method is not recognized or the URL is not an absolute URL.
// headers and body are copied.
func NewRequest(method Method, rawURL string, headers Headers, body []byte) (*Request, error) {
	if !method.Valid() {
		return nil, errors.InvalidRequest("method", fmt.Sprintf("unsupported method %q", method))
	}
	if err := validation.AbsoluteURL("url", rawURL); err != nil {
		return nil, errors.InvalidRequest("url", err.Error()).WithCause(err)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.InvalidRequest("url", err.Error()).WithCause(err)
	}

	var b []byte
	if body != nil {
		b = make([]byte, len(body))
		copy(b, body)
	}

	return &Request{
		method:  method,
		url:     rawURL,
		host:    u.Host,
		headers: headers.Clone(),
		body:    b,
	}, nil
}

// Method returns the request method.
func (r *Request) Method() Method { return r.method }

// URL returns the absolute target URL exactly as given to NewRequest.
func (r *Request) URL() string { return r.url }

// Host returns the host[:port] part of the URL.
func (r *Request) Host() string { return r.host }

// Headers returns a copy of the request headers.
func (r *Request) Headers() Headers { return r.headers.Clone() }

// Header returns the first value of the named header (case-insensitive).
func (r *Request) Header(name string) string { return r.headers.Get(name) }

// Body returns a copy of the request payload. It is nil when the request was
// built without a body.
func (r *Request) Body() []byte {
	if r.body == nil {
		return nil
	}
	out := make([]byte, len(r.body))
	copy(out, r.body)
	return out
}

// BodyLen returns the payload size without copying it.
func (r *Request) BodyLen() int { return len(r.body) }
