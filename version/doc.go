// Package version carries build metadata for oauth2http binaries.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/oauth2http/version.Version=1.0.0"
//
// The CLI prints them, the observability package reports Short as the
// service version and nethttp sends UserAgent when none is configured.
package version
