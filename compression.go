package feign

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Accept-Encoding sent with every request. The transport's transparent
// decompression is off once the header is set by hand.
const acceptEncoding = "gzip"

func isGzip(header http.Header) bool {
	switch strings.ToLower(header.Get("Content-Encoding")) {
	case "gzip", "x-gzip":
		return true
	}
	return false
}

func compressedReader(resp *http.Response) (io.ReadCloser, error) {
	if !isGzip(resp.Header) {
		return resp.Body, nil
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return zr, nil
}

// readBody reads the whole body, decompressing it if needed. The result is
// never nil.
func readBody(resp *http.Response) ([]byte, error) {
	r, err := compressedReader(resp)
	if errors.Is(err, io.EOF) {
		// gzip encoded but empty
		return []byte{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("feign: %w", err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("feign: reading response body: %w", err)
	}
	if body == nil {
		body = []byte{}
	}
	return body, nil
}
