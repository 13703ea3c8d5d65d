package jsoncodec

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/fatih/structs"
	"github.com/goccy/go-json"
	"github.com/tomruk/feign-go/ordered"
)

var (
	orderedMapType    = reflect.TypeOf((*ordered.Map)(nil))
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

func (e *Engine) encodeValue(w *Writer, rv reflect.Value) error {
	if !rv.IsValid() {
		return w.Null()
	}
	typ := rv.Type()
	if a, ok := e.adapters[typ]; ok && a.write != nil {
		return e.writeWithAdapter(w, a, rv)
	}

	switch {
	case typ == orderedMapType:
		if rv.IsNil() {
			return w.Null()
		}
		return e.encodeOrderedMap(w, rv.Interface().(*ordered.Map))
	case typ == orderedMapType.Elem():
		m := rv.Interface().(ordered.Map)
		return e.encodeOrderedMap(w, &m)
	case typ.Implements(jsonMarshalerType), typ.Implements(textMarshalerType):
		if typ.Kind() == reflect.Pointer && rv.IsNil() {
			return w.Null()
		}
		return e.encodeMarshaler(w, rv)
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return w.Null()
		}
		return e.encodeValue(w, rv.Elem())
	case reflect.Bool:
		return w.Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return w.Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return w.Uint(rv.Uint())
	case reflect.Float32:
		return w.float(rv.Float(), 32)
	case reflect.Float64:
		return w.float(rv.Float(), 64)
	case reflect.String:
		return w.String(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return w.Null()
		}
		if typ.Elem().Kind() == reflect.Uint8 {
			return e.encodeMarshaler(w, rv)
		}
		return e.encodeArray(w, rv)
	case reflect.Array:
		return e.encodeArray(w, rv)
	case reflect.Map:
		if rv.IsNil() {
			return w.Null()
		}
		return e.encodeMap(w, rv)
	case reflect.Struct:
		return e.encodeStruct(w, rv)
	}
	return w.fail(&UnsupportedTypeError{Type: typ})
}

func (e *Engine) writeWithAdapter(w *Writer, a *adapterEntry, rv reflect.Value) error {
	m := w.mark()
	if err := a.write(w, rv); err != nil {
		var unsupported *UnsupportedOperationError
		if errors.Is(err, ErrUnsupported) && !errors.As(err, &unsupported) {
			err = &UnsupportedOperationError{Type: a.typ, Op: "write"}
		}
		return w.fail(err)
	}
	if !w.wroteOne(m) {
		return w.fail(fmt.Errorf("jsoncodec: adapter for %s did not write exactly one value", a.typ))
	}
	return nil
}

// encodeMarshaler hands v to the serializer and re-emits the result with
// the engine's indentation.
func (e *Engine) encodeMarshaler(w *Writer, rv reflect.Value) error {
	b, err := e.serializer.Marshal(rv.Interface())
	if err != nil {
		return w.fail(fmt.Errorf("jsoncodec: %w", err))
	}
	return w.Raw(b)
}

func (e *Engine) encodeArray(w *Writer, rv reflect.Value) error {
	if err := w.BeginArray(); err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := e.encodeValue(w, rv.Index(i)); err != nil {
			return err
		}
	}
	return w.EndArray()
}

func (e *Engine) encodeOrderedMap(w *Writer, m *ordered.Map) error {
	if err := w.BeginObject(); err != nil {
		return err
	}
	var err error
	m.Range(func(key string, value any) bool {
		if err = w.Name(key); err != nil {
			return false
		}
		err = e.encodeValue(w, reflect.ValueOf(value))
		return err == nil
	})
	if err != nil {
		return err
	}
	return w.EndObject()
}

// encodeMap writes Go maps with sorted keys, since they carry no order of
// their own.
func (e *Engine) encodeMap(w *Writer, rv reflect.Value) error {
	if rv.Type().Key().Kind() != reflect.String {
		return w.fail(&UnsupportedTypeError{Type: rv.Type()})
	}
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	if err := w.BeginObject(); err != nil {
		return err
	}
	for _, k := range keys {
		if err := w.Name(k.String()); err != nil {
			return err
		}
		if err := e.encodeValue(w, rv.MapIndex(k)); err != nil {
			return err
		}
	}
	return w.EndObject()
}

func (e *Engine) encodeStruct(w *Writer, rv reflect.Value) error {
	if err := w.BeginObject(); err != nil {
		return err
	}
	if err := e.encodeFields(w, structFields(rv)); err != nil {
		return err
	}
	return w.EndObject()
}

func structFields(rv reflect.Value) []*structs.Field {
	s := structs.New(rv.Interface())
	s.TagName = "json"
	return s.Fields()
}

func (e *Engine) encodeFields(w *Writer, fields []*structs.Field) error {
	for _, f := range fields {
		tag := f.Tag("json")
		if tag == "-" {
			continue
		}
		name, opts := parseTag(tag)

		// Embedded structs without a name of their own are flattened.
		if f.IsEmbedded() && name == "" {
			flattened, err := e.encodeEmbedded(w, f)
			if err != nil {
				return err
			}
			if flattened {
				continue
			}
		}
		if !f.IsExported() {
			continue
		}

		if name == "" {
			name = f.Name()
		}
		v := reflect.ValueOf(f.Value())
		if opts.omitEmpty && isEmptyValue(v) {
			continue
		}
		if err := w.Name(name); err != nil {
			return err
		}
		if err := e.encodeValue(w, v); err != nil {
			return err
		}
	}
	return nil
}

// encodeEmbedded writes the promoted fields of an embedded struct. It
// reports false when f is not a struct and must be written as a member.
func (e *Engine) encodeEmbedded(w *Writer, f *structs.Field) (bool, error) {
	if !f.IsExported() {
		// Exported fields of an unexported struct are still promoted.
		if f.Kind() != reflect.Struct {
			return true, nil
		}
		return true, e.encodeFields(w, f.Fields())
	}

	v := reflect.ValueOf(f.Value())
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return true, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return false, nil
	}
	return true, e.encodeFields(w, structFields(v))
}

type tagOptions struct {
	omitEmpty bool
}

func parseTag(tag string) (string, tagOptions) {
	name, rest, _ := strings.Cut(tag, ",")
	var opts tagOptions
	for rest != "" {
		var opt string
		opt, rest, _ = strings.Cut(rest, ",")
		if opt == "omitempty" {
			opts.omitEmpty = true
		}
	}
	return name, opts
}

func isEmptyValue(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
