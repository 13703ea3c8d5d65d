package jsoncodec

import (
	stdjson "encoding/json"
	"errors"
	"reflect"

	"github.com/goccy/go-json"
	"github.com/tomruk/feign-go/codec/json/serializer"
	"github.com/tomruk/feign-go/internal/sync"
	"github.com/tomruk/feign-go/typedesc"
)

// Engine serializes Go values to JSON text and back, honoring registered
// adapters. It is immutable and safe for concurrent use.
type Engine struct {
	serializer serializer.JSONSerializer
	indent     string
	adapters   map[reflect.Type]*adapterEntry

	// reflect.Type -> *structPlan
	plans sync.Map
}

func (e *Engine) Serializer() serializer.JSONSerializer {
	return e.serializer
}

// HasAdapter reports whether an adapter governs exactly typ.
func (e *Engine) HasAdapter(typ reflect.Type) bool {
	_, ok := e.adapters[typ]
	return ok
}

// Serialize encodes v as a JSON document, indented unless the engine is compact.
func (e *Engine) Serialize(v any) (string, error) {
	b, err := e.SerializeBytes(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (e *Engine) SerializeBytes(v any) ([]byte, error) {
	w := newWriter(e, e.indent)
	if err := e.encodeValue(w, reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return w.Bytes()
}

// Deserialize decodes exactly one JSON value from data into the shape
// described by target. The returned value's dynamic type is target.Type().
func (e *Engine) Deserialize(data []byte, target typedesc.Descriptor) (any, error) {
	if !e.serializer.Valid(data) {
		var v any
		err := e.serializer.Unmarshal(data, &v)
		if err == nil {
			err = errMalformed
		}
		return nil, &DecodeError{Offset: syntaxOffset(err), Target: target, err: err}
	}

	r := newReader(e, data)
	v, err := e.decodeValue(r, target)
	if err != nil {
		return nil, decodeError(r, target, err)
	}
	kind, err := r.Peek()
	if err != nil {
		return nil, decodeError(r, target, err)
	}
	if kind != TokenEOF {
		return nil, decodeError(r, target, errTrailingData)
	}
	return v.Interface(), nil
}

func decodeError(r *Reader, target typedesc.Descriptor, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &DecodeError{Offset: r.Offset(), Target: target, err: err}
}

// syntaxOffset extracts the position from the diagnostics of the backends
// that report one. Sonic reports it in the message only.
func syntaxOffset(err error) int64 {
	var (
		goSyntax  *json.SyntaxError
		goType    *json.UnmarshalTypeError
		stdSyntax *stdjson.SyntaxError
		stdType   *stdjson.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &goSyntax):
		return goSyntax.Offset
	case errors.As(err, &goType):
		return goType.Offset
	case errors.As(err, &stdSyntax):
		return stdSyntax.Offset
	case errors.As(err, &stdType):
		return stdType.Offset
	}
	return 0
}
