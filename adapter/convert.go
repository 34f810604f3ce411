package adapter

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/http/httpguts"

	"github.com/kbukum/oauth2http/errors"
	"github.com/kbukum/oauth2http/exchange"
)

// toExchangeRequest reads and closes req.Body.
func toExchangeRequest(req *http.Request) (*exchange.Request, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, errors.InvalidRequest("body", "reading request body").WithCause(err)
		}
		body = b
	} else if req.Body != nil {
		req.Body.Close()
	}

	method := exchange.Method(req.Method)
	if req.Method == "" {
		method = exchange.MethodGet
	}
	if req.URL == nil {
		return nil, errors.InvalidRequest("url", "missing URL")
	}

	return exchange.NewRequest(method, req.URL.String(), exchange.FromHTTP(req.Header), body)
}

func toHTTPResponse(req *http.Request, resp *exchange.Response) (*http.Response, error) {
	header := make(http.Header, len(resp.Headers))
	for _, h := range resp.Headers {
		if !httpguts.ValidHeaderFieldName(h.Name) {
			return nil, errors.ProtocolMismatch(fmt.Sprintf("invalid response header name %q", h.Name))
		}
		if !httpguts.ValidHeaderFieldValue(h.Value) {
			return nil, errors.ProtocolMismatch(fmt.Sprintf("invalid value for response header %q", h.Name))
		}
		header.Add(h.Name, h.Value)
	}

	return &http.Response{
		Status:        statusLine(resp.StatusCode),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

func statusLine(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return fmt.Sprintf("%d", code)
}
