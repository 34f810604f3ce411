package exchange

// Response is the result of one HTTP exchange. It is built by transports and
// handed to the caller, who owns it afterwards.
type Response struct {
	// StatusCode is the HTTP status code. Values outside 100-599 are carried
	// as-is; this layer does not judge them.
	StatusCode int
	// Headers are the response headers in the order the transport produced them.
	Headers Headers
	// Body is the raw response payload.
	Body []byte
}

// NewResponse builds a Response.
func NewResponse(statusCode int, headers Headers, body []byte) *Response {
	return &Response{StatusCode: statusCode, Headers: headers, Body: body}
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
