package feign

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
)

// RequestTemplate is a request under construction. Encoders fill in its
// body; the Client turns it into an *http.Request.
type RequestTemplate struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header

	body []byte
}

func NewRequestTemplate(method, path string) *RequestTemplate {
	return &RequestTemplate{
		Method: method,
		Path:   path,
		Query:  make(url.Values),
		Header: make(http.Header),
	}
}

// SetBody replaces the body. A nil body means the request has none.
func (t *RequestTemplate) SetBody(body []byte) *RequestTemplate {
	t.body = body
	return t
}

func (t *RequestTemplate) Body() []byte {
	return t.body
}

func (t *RequestTemplate) BodyString() string {
	return string(t.body)
}

// MethodKey identifies the request in error reports, e.g. "GET /zones".
func (t *RequestTemplate) MethodKey() string {
	return t.Method + " " + t.Path
}

// Request resolves the template against baseURL.
func (t *RequestTemplate) Request(ctx context.Context, baseURL *url.URL) (*http.Request, error) {
	u := baseURL.JoinPath(t.Path)
	if len(t.Query) > 0 {
		q := u.Query()
		for k, v := range t.Query {
			for _, s := range v {
				q.Add(k, s)
			}
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if t.body != nil {
		body = bytes.NewReader(t.body)
	}
	req, err := http.NewRequestWithContext(ctx, t.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range t.Header {
		req.Header[k] = append([]string(nil), v...)
	}
	return req, nil
}
