package jsoncodec

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/tomruk/feign-go/typedesc"
)

// ErrUnsupported is returned by an adapter's Write (or Read) function that
// deliberately does not support that direction.
var ErrUnsupported = errors.New("unsupported operation")

var (
	errMalformed       = fmt.Errorf("malformed JSON")
	errTrailingData    = fmt.Errorf("unexpected data after top-level value")
	errIncompleteValue = fmt.Errorf("incomplete JSON value")
)

// ConfigurationError reports an invalid adapter registration. It is
// returned by Builder.Build, before any value is encoded or decoded.
type ConfigurationError struct {
	Type   reflect.Type
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Type == nil {
		return "jsoncodec: configuration error: " + e.Reason
	}
	return fmt.Sprintf("jsoncodec: configuration error for %s: %s", e.Type, e.Reason)
}

// DecodeError reports malformed input or a mismatch between the input and
// the requested descriptor. Offset is the byte offset into the decoded text
// at which the problem was detected.
type DecodeError struct {
	Offset int64
	Target typedesc.Descriptor
	err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("jsoncodec: cannot decode %s at offset %d: %v", e.Target, e.Offset, e.err)
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

// UnsupportedOperationError is returned when an adapter refuses a direction
// by returning ErrUnsupported.
type UnsupportedOperationError struct {
	Type reflect.Type
	Op   string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("jsoncodec: adapter for %s does not support %s", e.Type, e.Op)
}

func (e *UnsupportedOperationError) Unwrap() error {
	return ErrUnsupported
}

// UnsupportedTypeError is returned when encoding a value of a kind JSON
// cannot represent, such as a channel or a function.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return "jsoncodec: unsupported type: " + e.Type.String()
}

// shapeError is a mismatch between the token found and the one expected.
type shapeError struct {
	expected string
	found    TokenKind
}

func (e *shapeError) Error() string {
	return fmt.Sprintf("expected %s but found %s", e.expected, e.found)
}

// UnsupportedValueError is returned when encoding a value JSON cannot
// represent, such as NaN or an infinite float.
type UnsupportedValueError struct {
	Value string
}

func (e *UnsupportedValueError) Error() string {
	return "jsoncodec: unsupported value: " + e.Value
}
