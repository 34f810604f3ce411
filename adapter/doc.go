// Package adapter exposes a transport.Transport under the calling convention
// of golang.org/x/oauth2.
//
// x/oauth2 performs token-endpoint calls (code exchange, refresh, device
// authorization and polling) with the *http.Client found in the context
// under oauth2.HTTPClient. A Client is an http.RoundTripper backed by a
// Transport, so handing Client.Context(ctx) to x/oauth2 routes every call
// through the Transport:
//
//	c := adapter.New(nethttpTransport)
//	tok, err := conf.Exchange(c.Context(ctx), code)
//
// The adapter performs exactly one Transport call per request. Transport
// errors are returned as the same value, without wrapping; x/oauth2 and
// net/http may wrap them further, so use errors.Is or errors.As to inspect
// them. A Transport that returns neither a response nor an error yields a
// PROTOCOL_MISMATCH error.
package adapter
