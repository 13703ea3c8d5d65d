package feign

import (
	"fmt"
	"io"
	"reflect"

	"github.com/tomruk/feign-go/typedesc"
)

type (
	// Encoder writes v into the body of t.
	Encoder interface {
		Encode(v any, t *RequestTemplate) error
	}

	// Decoder turns a successful response into a value shaped by target.
	// An absent or empty body decodes to nil.
	Decoder interface {
		Decode(resp *Response, target typedesc.Descriptor) (any, error)
	}

	// ErrorDecoder turns an unsuccessful response into an error.
	ErrorDecoder interface {
		Decode(methodKey string, resp *Response) error
	}

	ErrorDecoderFunc func(methodKey string, resp *Response) error
)

func (f ErrorDecoderFunc) Decode(methodKey string, resp *Response) error {
	return f(methodKey, resp)
}

// DecodeAs decodes resp as a T. An absent body yields the zero T.
func DecodeAs[T any](dec Decoder, resp *Response) (T, error) {
	var zero T
	target := typedesc.Of[T]()
	v, err := dec.Decode(resp, target)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("feign: decoder returned %T for %s", v, target)
	}
	return t, nil
}

// maxErrorBody bounds how much of an error response is kept in HTTPError.
const maxErrorBody = 64 << 10

// DefaultErrorDecoder returns an *HTTPError carrying the status and the
// beginning of the body.
func DefaultErrorDecoder() ErrorDecoder {
	return ErrorDecoderFunc(func(methodKey string, resp *Response) error {
		e := &HTTPError{
			MethodKey: methodKey,
			Status:    resp.Status,
			Reason:    resp.Reason,
		}
		if resp.Body != nil {
			body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			if err != nil {
				return fmt.Errorf("feign: reading error response of %s: %w", methodKey, err)
			}
			e.Body = body
		}
		return e
	})
}

var (
	bytesType  = reflect.TypeOf([]byte(nil))
	stringType = reflect.TypeOf("")
)

type defaultEncoder struct{}

// DefaultEncoder accepts string and []byte values only. Other values need
// a real codec such as jsoncodec.
func DefaultEncoder() Encoder { return defaultEncoder{} }

func (defaultEncoder) Encode(v any, t *RequestTemplate) error {
	switch v := v.(type) {
	case string:
		t.SetBody([]byte(v))
	case []byte:
		t.SetBody(v)
	default:
		return fmt.Errorf("feign: %T is not a supported body type for the default encoder", v)
	}
	return nil
}

type defaultDecoder struct{}

// DefaultDecoder returns the body as a string or a []byte.
func DefaultDecoder() Decoder { return defaultDecoder{} }

func (defaultDecoder) Decode(resp *Response, target typedesc.Descriptor) (any, error) {
	if resp.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feign: reading response body: %w", err)
	}
	switch target.Type() {
	case bytesType:
		return body, nil
	case stringType:
		return string(body), nil
	}
	return nil, fmt.Errorf("feign: %s is not a supported type for the default decoder", target)
}
