package feign

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NYTimes/gziphandler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zoneList = []byte(strings.Repeat(`{"name":"denominator.io.","id":"Z1","ttl":3600},`, 40))

func TestReadBody(t *testing.T) {
	gh, err := gziphandler.NewGzipLevelAndMinSize(gzip.DefaultCompression, 0)
	require.NoError(t, err)
	zones := gh(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(zoneList)
	}))
	emptyGzip := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
	})

	tests := []struct {
		name           string
		handler        http.Handler
		acceptEncoding string
		gzipped        bool
		expected       []byte
	}{
		{"gzip", zones, acceptEncoding, true, zoneList},
		{"identity", zones, "", false, zoneList},
		{"empty gzip body", emptyGzip, acceptEncoding, true, []byte{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := get(test.handler, test.acceptEncoding)
			defer resp.Body.Close()
			assert.Equal(t, test.gzipped, isGzip(resp.Header))

			body, err := readBody(resp)
			require.NoError(t, err)
			require.NotNil(t, body)
			assert.Equal(t, test.expected, body)
		})
	}
}

func TestCompressedReader(t *testing.T) {
	gh, err := gziphandler.NewGzipLevelAndMinSize(gzip.DefaultCompression, 0)
	require.NoError(t, err)
	resp := get(gh(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(zoneList)
	})), acceptEncoding)
	defer resp.Body.Close()

	r, err := compressedReader(resp)
	require.NoError(t, err)
	require.IsType(t, &gzip.Reader{}, r)
	body, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, zoneList, body)
	assert.NoError(t, r.Close())

	resp.Header.Set("Content-Encoding", "X-Gzip")
	assert.True(t, isGzip(resp.Header))
	resp.Header.Set("Content-Encoding", "br")
	assert.False(t, isGzip(resp.Header))
}

func get(h http.Handler, acceptEncoding string) *http.Response {
	req := httptest.NewRequest(http.MethodGet, "/zones", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Result()
}
