package feign

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTemplate(t *testing.T) {
	base, err := url.Parse("https://api.example.com/v1?key=abc")
	require.NoError(t, err)

	tmpl := NewRequestTemplate(http.MethodPut, "/zones/ABCD")
	tmpl.Query.Add("type", "A")
	tmpl.Query.Add("type", "AAAA")
	tmpl.Header.Set("Content-Type", "application/json")
	tmpl.SetBody([]byte(`{"name":"denominator.io."}`))

	assert.Equal(t, "PUT /zones/ABCD", tmpl.MethodKey())
	assert.Equal(t, `{"name":"denominator.io."}`, tmpl.BodyString())

	req, err := tmpl.Request(context.Background(), base)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/v1/zones/ABCD", req.URL.Path)
	assert.Equal(t, url.Values{"key": {"abc"}, "type": {"A", "AAAA"}}, req.URL.Query())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, tmpl.Body(), body)

	t.Run("request header is a copy", func(t *testing.T) {
		req.Header.Add("Content-Type", "text/plain")
		assert.Equal(t, []string{"application/json"}, tmpl.Header.Values("Content-Type"))
	})

	t.Run("nil body", func(t *testing.T) {
		req, err := NewRequestTemplate(http.MethodGet, "/").Request(context.Background(), base)
		require.NoError(t, err)
		assert.Nil(t, req.Body)
		assert.Equal(t, "key=abc", req.URL.RawQuery)
	})

	t.Run("invalid method", func(t *testing.T) {
		_, err := NewRequestTemplate("BAD METHOD", "/").Request(context.Background(), base)
		assert.Error(t, err)
	})
}

func TestResponse(t *testing.T) {
	t.Run("nil body is absent", func(t *testing.T) {
		resp := NewResponse(http.StatusNoContent, "No Content", nil, nil)
		assert.Nil(t, resp.Body)
		assert.NotNil(t, resp.Header)
		assert.True(t, resp.isSuccess())
	})

	t.Run("empty body is present", func(t *testing.T) {
		resp := NewResponse(http.StatusOK, "OK", nil, []byte{})
		require.NotNil(t, resp.Body)
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Empty(t, b)
	})

	t.Run("success range", func(t *testing.T) {
		assert.False(t, NewResponse(199, "", nil, nil).isSuccess())
		assert.True(t, NewResponse(299, "", nil, nil).isSuccess())
		assert.False(t, NewResponse(300, "", nil, nil).isSuccess())
	})
}

func TestDefaultErrorDecoderLimitsBody(t *testing.T) {
	big := make([]byte, maxErrorBody+100)
	for i := range big {
		big[i] = 'x'
	}
	err := DefaultErrorDecoder().Decode("GET /", NewResponse(500, "", nil, big))

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Len(t, httpErr.Body, maxErrorBody)
	assert.Equal(t, "feign: GET /: status 500", httpErr.Error())

	err = DefaultErrorDecoder().Decode("GET /", NewResponse(502, "Bad Gateway", nil, nil))
	require.ErrorAs(t, err, &httpErr)
	assert.Nil(t, httpErr.Body)
}

func TestInternalError(t *testing.T) {
	inner := io.ErrUnexpectedEOF
	err := error(wrapInternalError(inner))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "feign: internal error: unexpected EOF", err.Error())
}
