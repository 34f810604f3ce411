// Package nethttp is a transport.Transport backed by net/http.
//
// Connection pooling, TLS, proxies and HTTP/2 are left to net/http; this
// package only converts between exchange values and net/http and classifies
// failures into *Error. Non-2xx responses are returned as responses.
//
//	t, err := nethttp.New(nethttp.Config{Timeout: 10 * time.Second})
//	if err != nil { ... }
//	defer t.Close()
//	client := adapter.New(t)
package nethttp
