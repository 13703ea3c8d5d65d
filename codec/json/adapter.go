package jsoncodec

import (
	"reflect"
)

type (
	writeFunc func(w *Writer, v reflect.Value) error
	readFunc  func(r *Reader) (reflect.Value, error)
)

// TypeAdapter overrides how values of exactly one Go type are written and
// read. Use Adapter to build one.
type TypeAdapter interface {
	Type() reflect.Type
	funcs() (writeFunc, readFunc)
}

// Adapter is the TypeAdapter for T. Either function may be nil, in which
// case the engine's default handling is used for that direction. A function
// may also return ErrUnsupported to refuse the direction outright.
//
// Write must write exactly one value and Read must consume exactly one
// value. Nested values can be delegated back to the engine with
// Writer.Value, Reader.ReadValue or ReadAs.
type Adapter[T any] struct {
	Write func(w *Writer, v T) error
	Read  func(r *Reader) (T, error)
}

func (a Adapter[T]) Type() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (a Adapter[T]) funcs() (wf writeFunc, rf readFunc) {
	if write := a.Write; write != nil {
		wf = func(w *Writer, v reflect.Value) error {
			t, _ := v.Interface().(T)
			return write(w, t)
		}
	}
	if read := a.Read; read != nil {
		rf = func(r *Reader) (reflect.Value, error) {
			t, err := read(r)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&t).Elem(), nil
		}
	}
	return
}

type adapterEntry struct {
	typ   reflect.Type
	write writeFunc
	read  readFunc
}
