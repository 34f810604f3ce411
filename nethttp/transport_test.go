package nethttp

import (
	"context"
	"encoding/pem"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/oauth2http/exchange"
)

func newTransport(t *testing.T, cfg Config) *Transport {
	t.Helper()
	tr, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func mustRequest(t *testing.T, method exchange.Method, url string, headers exchange.Headers, body []byte) *exchange.Request {
	t.Helper()
	req, err := exchange.NewRequest(method, url, headers, body)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestPerform_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Method != http.MethodPost || string(body) != "grant_type=refresh_token" {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Add("X-Multi", "a")
		w.Header().Add("X-Multi", "b")
		_, _ = w.Write([]byte(`{"access_token":"xyz"}`))
	}))
	defer srv.Close()

	tr := newTransport(t, Config{})
	resp, err := tr.Perform(context.Background(), mustRequest(t, exchange.MethodPost, srv.URL+"/token",
		exchange.Headers{{Name: "Content-Type", Value: "application/x-www-form-urlencoded"}},
		[]byte("grant_type=refresh_token")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if string(resp.Body) != `{"access_token":"xyz"}` {
		t.Errorf("body = %q", resp.Body)
	}
	if v := resp.Headers.Values("X-Multi"); len(v) != 2 || v[0] != "a" || v[1] != "b" {
		t.Errorf("X-Multi = %v", v)
	}
}

func TestPerform_NonSuccessIsResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	resp, err := newTransport(t, Config{}).Perform(context.Background(),
		mustRequest(t, exchange.MethodPost, srv.URL, nil, []byte("x")))
	if err != nil {
		t.Fatalf("non-2xx must not be an error: %v", err)
	}
	if resp.StatusCode != 400 || resp.IsSuccess() {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestPerform_DefaultHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	tr := newTransport(t, Config{
		UserAgent: "test-agent/1.0",
		Headers:   map[string]string{"X-Tenant": "acme", "Accept": "application/json"},
	})
	_, err := tr.Perform(context.Background(), mustRequest(t, exchange.MethodGet, srv.URL,
		exchange.Headers{{Name: "Accept", Value: "text/plain"}}, nil))
	if err != nil {
		t.Fatal(err)
	}
	if got.Get("User-Agent") != "test-agent/1.0" {
		t.Errorf("User-Agent = %q", got.Get("User-Agent"))
	}
	if got.Get("X-Tenant") != "acme" {
		t.Errorf("X-Tenant = %q", got.Get("X-Tenant"))
	}
	if got.Get("Accept") != "text/plain" {
		t.Errorf("request header should win over defaults, got Accept = %q", got.Get("Accept"))
	}
}

func TestPerform_HeaderNamesCanonicalized(t *testing.T) {
	var got http.Header
	var host string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		host = r.Host
	}))
	defer srv.Close()

	tr := newTransport(t, Config{UserAgent: "default-agent/1.0"})
	_, err := tr.Perform(context.Background(), mustRequest(t, exchange.MethodPost, srv.URL,
		exchange.Headers{
			{Name: "user-agent", Value: "mine"},
			{Name: "host", Value: "auth.example"},
			{Name: "x-trace", Value: "1"},
			{Name: "X-Trace", Value: "2"},
		}, []byte("a=1")))
	if err != nil {
		t.Fatal(err)
	}
	if ua := got.Values("User-Agent"); len(ua) != 1 || ua[0] != "mine" {
		t.Errorf("User-Agent = %q, want [mine]", ua)
	}
	if host != "auth.example" {
		t.Errorf("Host = %q, want auth.example", host)
	}
	if got.Get("Host") != "" {
		t.Errorf("Host must not be sent as a plain header, got %q", got.Get("Host"))
	}
	if v := got.Values("X-Trace"); len(v) != 2 || v[0] != "1" || v[1] != "2" {
		t.Errorf("X-Trace = %q, want [1 2]", v)
	}
}

func TestPerform_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = newTransport(t, Config{}).Perform(context.Background(),
		mustRequest(t, exchange.MethodGet, "http://"+addr+"/token", nil, nil))
	if !IsConnection(err) {
		t.Fatalf("err = %v, want connection error", err)
	}
	if !IsTemporary(err) {
		t.Error("connection errors should be temporary")
	}
	var e *Error
	if !errors.As(err, &e) || e.Method != "GET" || !strings.HasSuffix(e.URL, "/token") {
		t.Errorf("error = %#v", e)
	}
}

func TestPerform_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := newTransport(t, Config{Timeout: 50 * time.Millisecond}).Perform(context.Background(),
		mustRequest(t, exchange.MethodGet, srv.URL, nil, nil))
	if !IsTimeout(err) {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestPerform_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTransport(t, Config{}).Perform(ctx, mustRequest(t, exchange.MethodGet, srv.URL, nil, nil))
	if !IsCanceled(err) {
		t.Fatalf("err = %v, want canceled", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("context.Canceled should stay reachable")
	}
}

func TestPerform_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	_, err := newTransport(t, Config{MaxBodyBytes: 16}).Perform(context.Background(),
		mustRequest(t, exchange.MethodGet, srv.URL, nil, nil))
	if !IsBody(err) || !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("err = %v, want body too large", err)
	}
}

func TestPerform_TLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Proto))
	}))
	defer srv.Close()

	t.Run("unknown authority", func(t *testing.T) {
		_, err := newTransport(t, Config{}).Perform(context.Background(),
			mustRequest(t, exchange.MethodGet, srv.URL, nil, nil))
		if !IsTLS(err) {
			t.Fatalf("err = %v, want TLS error", err)
		}
	})

	t.Run("trusted CA file", func(t *testing.T) {
		caFile := filepath.Join(t.TempDir(), "ca.pem")
		pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
		if err := os.WriteFile(caFile, pemBytes, 0o600); err != nil {
			t.Fatal(err)
		}
		resp, err := newTransport(t, Config{TLS: &TLSConfig{CAFile: caFile}}).Perform(context.Background(),
			mustRequest(t, exchange.MethodGet, srv.URL, nil, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != 200 {
			t.Errorf("status = %d", resp.StatusCode)
		}
	})

	t.Run("skip verify", func(t *testing.T) {
		_, err := newTransport(t, Config{TLS: &TLSConfig{SkipVerify: true}}).Perform(context.Background(),
			mustRequest(t, exchange.MethodGet, srv.URL, nil, nil))
		if err != nil {
			t.Fatal(err)
		}
	})
}

func TestPerform_HTTP2(t *testing.T) {
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Proto))
	}))
	srv.EnableHTTP2 = true
	srv.StartTLS()
	defer srv.Close()

	resp, err := newTransport(t, Config{HTTP2: true, TLS: &TLSConfig{SkipVerify: true}}).Perform(
		context.Background(), mustRequest(t, exchange.MethodGet, srv.URL, nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	if string(resp.Body) != "HTTP/2.0" {
		t.Errorf("proto = %q, want HTTP/2.0", resp.Body)
	}
}

func TestNewWithClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	tr := NewWithClient(srv.Client())
	resp, err := tr.Perform(context.Background(), mustRequest(t, exchange.MethodDelete, srv.URL, nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if tr.Name() != "nethttp" {
		t.Errorf("Name() = %q", tr.Name())
	}
}

func TestErrorCode_String(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeRequest:    "request",
		ErrCodeTimeout:    "timeout",
		ErrCodeCanceled:   "canceled",
		ErrCodeConnection: "connection",
		ErrCodeTLS:        "tls",
		ErrCodeBody:       "body",
		ErrorCode(99):     "unknown",
	}
	for code, want := range tests {
		if got := code.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", code, got, want)
		}
	}
}
