package transporttest

import (
	"unicode/utf8"

	"github.com/kbukum/oauth2http/exchange"
)

// Exchange is one recorded request/response pair.
type Exchange struct {
	Request  Request  `json:"request"`
	Response Response `json:"response"`
}

// Request is a recorded request. Bodies that are not valid UTF-8 are kept
// in BodyBytes so they survive JSON encoding.
type Request struct {
	Method    string           `json:"method"`
	URL       string           `json:"url"`
	Headers   exchange.Headers `json:"headers,omitempty"`
	Body      string           `json:"body,omitempty"`
	BodyBytes []byte           `json:"body_bytes,omitempty"`
}

// Response is a recorded response, with the body stored like Request's.
type Response struct {
	StatusCode int              `json:"status_code"`
	Headers    exchange.Headers `json:"headers,omitempty"`
	BodyString string           `json:"body_string,omitempty"`
	BodyBytes  []byte           `json:"body_bytes,omitempty"`
}

func bodyOf(s string, b []byte) []byte {
	if len(b) > 0 {
		return b
	}
	if s != "" {
		return []byte(s)
	}
	return nil
}

func splitBody(body []byte) (string, []byte) {
	if utf8.Valid(body) {
		return string(body), nil
	}
	return "", append([]byte(nil), body...)
}
