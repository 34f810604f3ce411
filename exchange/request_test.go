package exchange

import (
	"bytes"
	"testing"

	"github.com/kbukum/oauth2http/errors"
)

func TestNewRequest_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		method  Method
		url     string
		headers Headers
		body    []byte
	}{
		{
			name:    "refresh token",
			method:  MethodPost,
			url:     "https://auth.example/token",
			headers: Headers{{"content-type", "application/x-www-form-urlencoded"}},
			body:    []byte("grant_type=refresh_token&refresh_token=abc"),
		},
		{
			name:   "get without headers or body",
			method: MethodGet,
			url:    "https://auth.example/.well-known/openid-configuration",
		},
		{
			name:   "duplicate headers keep order",
			method: MethodPost,
			url:    "http://127.0.0.1:9000/revoke?x=1",
			headers: Headers{
				{"Accept", "application/json"},
				{"X-Trace", "one"},
				{"accept", "text/plain"},
				{"X-Trace", "two"},
			},
			body: []byte{},
		},
		{
			name:   "binary body",
			method: MethodPut,
			url:    "https://auth.example/blob",
			body:   []byte{0x00, 0xff, 0x10},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := NewRequest(tc.method, tc.url, tc.headers, tc.body)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Method() != tc.method {
				t.Errorf("method = %q, want %q", req.Method(), tc.method)
			}
			if req.URL() != tc.url {
				t.Errorf("url = %q, want %q", req.URL(), tc.url)
			}
			got := req.Headers()
			if len(got) != len(tc.headers) {
				t.Fatalf("headers = %v, want %v", got, tc.headers)
			}
			for i := range got {
				if got[i] != tc.headers[i] {
					t.Errorf("header[%d] = %v, want %v", i, got[i], tc.headers[i])
				}
			}
			if !bytes.Equal(req.Body(), tc.body) {
				t.Errorf("body = %q, want %q", req.Body(), tc.body)
			}
			if (req.Body() == nil) != (tc.body == nil) {
				t.Errorf("body nil-ness changed: got %v, want %v", req.Body(), tc.body)
			}
		})
	}
}

func TestNewRequest_AllMethods(t *testing.T) {
	for m := range methods {
		if _, err := NewRequest(m, "https://auth.example/token", nil, nil); err != nil {
			t.Errorf("method %s: unexpected error: %v", m, err)
		}
	}
}

func TestNewRequest_InvalidMethod(t *testing.T) {
	for _, m := range []Method{"", "post", "BREW", "GET ", "PROPFIND"} {
		t.Run(string(m), func(t *testing.T) {
			req, err := NewRequest(m, "https://auth.example/token", nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if req != nil {
				t.Error("expected nil request on error")
			}
			if !errors.IsInvalidRequest(err) {
				t.Errorf("expected INVALID_REQUEST, got %v", err)
			}
		})
	}
}

func TestNewRequest_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "/token", "auth.example/token", "https://", "::"} {
		t.Run(u, func(t *testing.T) {
			_, err := NewRequest(MethodPost, u, nil, nil)
			if !errors.IsInvalidRequest(err) {
				t.Errorf("expected INVALID_REQUEST, got %v", err)
			}
		})
	}
}

func TestRequest_Immutable(t *testing.T) {
	headers := Headers{{"Content-Type", "application/json"}}
	body := []byte(`{"a":1}`)
	req, err := NewRequest(MethodPost, "https://auth.example/token", headers, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating the inputs must not leak into the request.
	headers[0].Value = "text/plain"
	body[0] = 'X'
	if req.Header("content-type") != "application/json" {
		t.Errorf("header changed through caller slice: %q", req.Header("content-type"))
	}
	if string(req.Body()) != `{"a":1}` {
		t.Errorf("body changed through caller slice: %q", req.Body())
	}

	// Mutating accessor results must not leak either.
	h := req.Headers()
	h[0].Name = "X"
	b := req.Body()
	b[0] = 'Y'
	if req.Headers()[0].Name != "Content-Type" {
		t.Error("header changed through accessor copy")
	}
	if string(req.Body()) != `{"a":1}` {
		t.Error("body changed through accessor copy")
	}
	if req.BodyLen() != len(`{"a":1}`) {
		t.Errorf("BodyLen = %d", req.BodyLen())
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("POST")
	if err != nil || m != MethodPost {
		t.Fatalf("ParseMethod(POST) = %q, %v", m, err)
	}
	if _, err := ParseMethod("post"); !errors.IsInvalidRequest(err) {
		t.Errorf("expected INVALID_REQUEST for lowercase method, got %v", err)
	}
}

func TestResponse_IsSuccess(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{0, false}, {199, false}, {200, true}, {204, true}, {299, true}, {302, false}, {400, false}, {999, false},
	}
	for _, tc := range tests {
		if got := NewResponse(tc.status, nil, nil).IsSuccess(); got != tc.want {
			t.Errorf("IsSuccess(%d) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestRequest_Host(t *testing.T) {
	tests := map[string]string{
		"https://auth.example/token":       "auth.example",
		"http://127.0.0.1:9000/revoke?x=1": "127.0.0.1:9000",
	}
	for raw, want := range tests {
		req, err := NewRequest(MethodPost, raw, nil, nil)
		if err != nil {
			t.Fatalf("NewRequest(%q): %v", raw, err)
		}
		if req.Host() != want {
			t.Errorf("Host() = %q, want %q", req.Host(), want)
		}
	}
}
