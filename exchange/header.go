package exchange

import (
	"net/http"
	"sort"
	"strings"
)

// Header is a single header field.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Headers is an ordered header collection. Duplicate names are allowed and
// their relative order is significant.
type Headers []Header

// Add appends a header field and returns the extended collection.
func (h Headers) Add(name, value string) Headers {
	return append(h, Header{Name: name, Value: value})
}

// Get returns the first value whose name matches case-insensitively.
func (h Headers) Get(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Values returns every value whose name matches case-insensitively, in order.
func (h Headers) Values(name string) []string {
	var out []string
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			out = append(out, f.Value)
		}
	}
	return out
}

// Clone returns an independent copy. A nil collection stays nil.
func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	out := make(Headers, len(h))
	copy(out, h)
	return out
}

// ToHTTP converts the collection into an http.Header. Names are stored as
// given (no canonicalization) and values keep their order.
func (h Headers) ToHTTP() http.Header {
	out := make(http.Header, len(h))
	for _, f := range h {
		out[f.Name] = append(out[f.Name], f.Value)
	}
	return out
}

// FromHTTP converts an http.Header into an ordered collection. Since
// http.Header is a map, names are emitted in sorted order; values of one name
// keep their original order.
func FromHTTP(h http.Header) Headers {
	if len(h) == 0 {
		return nil
	}
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(Headers, 0, len(h))
	for _, name := range names {
		for _, v := range h[name] {
			out = append(out, Header{Name: name, Value: v})
		}
	}
	return out
}
