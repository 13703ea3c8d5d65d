package utils

import (
	"io"
	"net/http"

	"github.com/tomruk/feign-go/internal/sync"
)

// RecordedRequest is what a RecordingHandler saw of a request.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// RecordingHandler answers every request with a fixed status and body, and
// keeps a copy of each request it received.
type RecordingHandler struct {
	Status      int
	ContentType string
	Body        []byte

	mu       sync.Mutex
	requests []RecordedRequest
}

func NewJSONHandler(status int, body string) *RecordingHandler {
	h := &RecordingHandler{
		Status:      status,
		ContentType: "application/json",
	}
	if body != "" {
		h.Body = []byte(body)
	}
	return h
}

func (h *RecordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	h.mu.Lock()
	h.requests = append(h.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	h.mu.Unlock()

	if h.ContentType != "" && h.Body != nil {
		w.Header().Set("Content-Type", h.ContentType)
	}
	w.WriteHeader(h.Status)
	if h.Body != nil {
		w.Write(h.Body)
	}
}

func (h *RecordingHandler) Requests() []RecordedRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]RecordedRequest(nil), h.requests...)
}
