// Package typedesc describes the shape a decoder should materialize.
//
// A Descriptor is the Go counterpart of a generic type token: it names a
// concrete Go type together with the descriptors of its nested element or
// value types, so "sequence of Zone" stays fully resolvable at run time.
//
//	zones := typedesc.SequenceOf(typedesc.Of[Zone]())
//	same := typedesc.Of[[]Zone]()
package typedesc

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/tomruk/feign-go/ordered"
)

type Kind uint8

const (
	// KindAny decodes into dynamic values: *ordered.Map, []any, string,
	// int64, float64, bool or nil.
	KindAny Kind = iota
	KindScalar
	KindSequence
	KindMapping
	// KindNamed is a user type decoded by an adapter, by its own
	// unmarshaler, or field by field.
	KindNamed
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindNamed:
		return "named"
	}
	return "<invalid>"
}

var (
	anyType        = reflect.TypeOf((*any)(nil)).Elem()
	orderedMapType = reflect.TypeOf((*ordered.Map)(nil))

	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Descriptor is immutable. The zero value is equivalent to Any().
type Descriptor struct {
	kind Kind
	typ  reflect.Type
	elem *Descriptor
}

func (d Descriptor) Kind() Kind { return d.kind }

// Type returns the Go type a decode produces for d.
func (d Descriptor) Type() reflect.Type {
	if d.typ == nil {
		return anyType
	}
	return d.typ
}

// Elem returns the element descriptor of a sequence or the value descriptor
// of a mapping. For other kinds it returns Any().
func (d Descriptor) Elem() Descriptor {
	if d.elem == nil {
		return Any()
	}
	return *d.elem
}

func (d Descriptor) String() string {
	switch d.kind {
	case KindSequence:
		return "sequence of " + d.Elem().String()
	case KindMapping:
		return "mapping of " + d.Elem().String()
	case KindAny:
		return "any"
	}
	return d.Type().String()
}

func Any() Descriptor { return Descriptor{kind: KindAny, typ: anyType} }

func String() Descriptor { return ScalarOf(reflect.TypeOf("")) }

func Bool() Descriptor { return ScalarOf(reflect.TypeOf(false)) }

// Int describes an int64.
func Int() Descriptor { return ScalarOf(reflect.TypeOf(int64(0))) }

// Float describes a float64.
func Float() Descriptor { return ScalarOf(reflect.TypeOf(float64(0))) }

// ScalarOf describes a bool, string, integer or floating point type,
// including named types whose underlying kind is one of those. It panics
// for any other kind.
func ScalarOf(typ reflect.Type) Descriptor {
	if typ == nil || !isScalarKind(typ.Kind()) {
		panic(fmt.Sprintf("typedesc: %v is not a scalar type", typ))
	}
	return Descriptor{kind: KindScalar, typ: typ}
}

// SequenceOf describes a slice of elem.
func SequenceOf(elem Descriptor) Descriptor {
	return Descriptor{kind: KindSequence, typ: reflect.SliceOf(elem.Type()), elem: &elem}
}

// MappingOf describes a key-ordered object whose values follow value. The
// decoded form is *ordered.Map.
func MappingOf(value Descriptor) Descriptor {
	return Descriptor{kind: KindMapping, typ: orderedMapType, elem: &value}
}

// NamedOf describes a user type. Structs, pointers and types with their own
// JSON or text unmarshalers are named types; For picks this kind for them.
func NamedOf(typ reflect.Type) Descriptor {
	if typ == nil {
		panic("typedesc: NamedOf called with a nil type")
	}
	return Descriptor{kind: KindNamed, typ: typ}
}

// Of derives the descriptor of T.
func Of[T any]() Descriptor {
	return For(reflect.TypeOf((*T)(nil)).Elem())
}

// ValueOf derives the descriptor of v's dynamic type.
func ValueOf(v any) Descriptor {
	return For(reflect.TypeOf(v))
}

// For derives a descriptor from a Go type.
func For(typ reflect.Type) Descriptor {
	switch {
	case typ == nil:
		return Any()
	case typ == orderedMapType:
		return MappingOf(Any())
	case typ == orderedMapType.Elem():
		elem := Any()
		return Descriptor{kind: KindMapping, typ: typ, elem: &elem}
	case typ.Kind() == reflect.Interface && typ.NumMethod() == 0:
		return Any()
	case typ.Kind() == reflect.Pointer:
		return NamedOf(typ)
	case hasUnmarshaler(typ):
		return NamedOf(typ)
	case isScalarKind(typ.Kind()):
		return ScalarOf(typ)
	}

	switch typ.Kind() {
	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			// Byte slices travel as base64 strings.
			return NamedOf(typ)
		}
		elem := For(typ.Elem())
		return Descriptor{kind: KindSequence, typ: typ, elem: &elem}
	case reflect.Map:
		if typ.Key().Kind() != reflect.String {
			return NamedOf(typ)
		}
		elem := For(typ.Elem())
		return Descriptor{kind: KindMapping, typ: typ, elem: &elem}
	}
	return NamedOf(typ)
}

func hasUnmarshaler(typ reflect.Type) bool {
	ptr := reflect.PointerTo(typ)
	return ptr.Implements(jsonUnmarshalerType) || ptr.Implements(textUnmarshalerType)
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
