// Package exchange defines the transport-agnostic value types describing one
// HTTP exchange: an outbound Request and an inbound Response.
//
// A Request is immutable once constructed. NewRequest copies the headers and
// the body it is given, and the accessors return copies, so a request handed
// to a transport cannot be changed behind the transport's back.
//
// Header collections keep insertion order and allow duplicate names. This
// package never case-folds header names; Headers.Get offers case-insensitive
// lookup for convenience but the stored names are left untouched.
//
// Payloads are opaque bytes. No encoding, decoding or content-type inference
// happens here.
package exchange
