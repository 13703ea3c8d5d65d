package feign

import "fmt"

// HTTPError is returned by the default ErrorDecoder for a non-2xx response.
type HTTPError struct {
	MethodKey string
	Status    int
	Reason    string
	Body      []byte
}

func (e *HTTPError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("feign: %s: status %d", e.MethodKey, e.Status)
	}
	return fmt.Sprintf("feign: %s: status %d %s", e.MethodKey, e.Status, e.Reason)
}

// This is a wrapper for errors raised inside the client itself, such as a
// template that cannot be turned into a request.
type InternalError struct {
	err error
}

func (e InternalError) Error() string {
	return "feign: internal error: " + e.err.Error()
}

func (e InternalError) Unwrap() error {
	return e.err
}

func wrapInternalError(err error) *InternalError {
	return &InternalError{err: err}
}
