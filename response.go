package feign

import (
	"bytes"
	"io"
	"net/http"
)

// Response is a received HTTP response. Body is nil when the response has
// no body at all, as with 204 No Content or a HEAD request.
type Response struct {
	Status int
	Reason string
	Header http.Header
	Body   io.ReadCloser

	// The request that produced this response. Nil for responses built with
	// NewResponse.
	Request *http.Request
}

// NewResponse builds a Response around an in-memory body. A nil body makes
// the body absent; an empty, non-nil body is present but empty.
func NewResponse(status int, reason string, header http.Header, body []byte) *Response {
	if header == nil {
		header = make(http.Header)
	}
	resp := &Response{
		Status: status,
		Reason: reason,
		Header: header,
	}
	if body != nil {
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp
}

func (r *Response) isSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}
