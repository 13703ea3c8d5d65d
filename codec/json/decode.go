package jsoncodec

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tomruk/feign-go/ordered"
	"github.com/tomruk/feign-go/typedesc"
)

var (
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// decodeValue reads exactly one value shaped by d. The returned value's
// type is d.Type().
func (e *Engine) decodeValue(r *Reader, d typedesc.Descriptor) (reflect.Value, error) {
	typ := d.Type()
	if a, ok := e.adapters[typ]; ok && a.read != nil {
		return e.readWithAdapter(r, a)
	}

	kind, err := r.Peek()
	if err != nil {
		return reflect.Value{}, err
	}
	if kind == TokenNull {
		if err := r.NextNull(); err != nil {
			return reflect.Value{}, err
		}
		return reflect.Zero(typ), nil
	}

	switch d.Kind() {
	case typedesc.KindAny:
		v, err := r.readAny()
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(typ).Elem()
		if v != nil {
			out.Set(reflect.ValueOf(v))
		}
		return out, nil
	case typedesc.KindScalar:
		return e.decodeScalar(r, typ)
	case typedesc.KindSequence:
		return e.decodeSequence(r, d)
	case typedesc.KindMapping:
		return e.decodeMapping(r, d)
	}
	return e.decodeNamed(r, typ)
}

func (e *Engine) readWithAdapter(r *Reader, a *adapterEntry) (reflect.Value, error) {
	m := r.mark()
	v, err := a.read(r)
	if err != nil {
		var unsupported *UnsupportedOperationError
		if errors.Is(err, ErrUnsupported) && !errors.As(err, &unsupported) {
			err = &UnsupportedOperationError{Type: a.typ, Op: "read"}
		}
		return reflect.Value{}, r.fail(err)
	}
	if !r.consumedOne(m) {
		return reflect.Value{}, r.fail(fmt.Errorf("adapter for %s did not consume exactly one value", a.typ))
	}
	return v, nil
}

func (e *Engine) decodeScalar(r *Reader, typ reflect.Type) (reflect.Value, error) {
	out := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.String:
		kind, err := r.Peek()
		if err != nil {
			return out, err
		}
		if kind != TokenString {
			return out, r.fail(&shapeError{expected: "string", found: kind})
		}
		s, err := r.NextString()
		if err != nil {
			return out, err
		}
		out.SetString(s)
	case reflect.Bool:
		b, err := r.NextBool()
		if err != nil {
			return out, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := r.NextInt()
		if err != nil {
			return out, err
		}
		if out.OverflowInt(i) {
			return out, r.fail(fmt.Errorf("number %d overflows %s", i, typ))
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := r.NextUint()
		if err != nil {
			return out, err
		}
		if out.OverflowUint(u) {
			return out, r.fail(fmt.Errorf("number %d overflows %s", u, typ))
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := r.NextFloat()
		if err != nil {
			return out, err
		}
		if out.OverflowFloat(f) {
			return out, r.fail(fmt.Errorf("number %g overflows %s", f, typ))
		}
		out.SetFloat(f)
	default:
		return out, r.fail(&UnsupportedTypeError{Type: typ})
	}
	return out, nil
}

func (e *Engine) decodeSequence(r *Reader, d typedesc.Descriptor) (reflect.Value, error) {
	if err := r.BeginArray(); err != nil {
		return reflect.Value{}, err
	}
	elem := d.Elem()
	out := reflect.MakeSlice(d.Type(), 0, 0)
	for r.More() {
		v, err := e.decodeValue(r, elem)
		if err != nil {
			return reflect.Value{}, err
		}
		out = reflect.Append(out, v)
	}
	if err := r.EndArray(); err != nil {
		return reflect.Value{}, err
	}
	return out, nil
}

func (e *Engine) decodeMapping(r *Reader, d typedesc.Descriptor) (reflect.Value, error) {
	if err := r.BeginObject(); err != nil {
		return reflect.Value{}, err
	}
	typ, elem := d.Type(), d.Elem()

	var (
		om *ordered.Map
		gm reflect.Value
	)
	if typ == orderedMapType || typ == orderedMapType.Elem() {
		om = ordered.New()
	} else {
		gm = reflect.MakeMap(typ)
	}
	for r.More() {
		name, err := r.NextName()
		if err != nil {
			return reflect.Value{}, err
		}
		v, err := e.decodeValue(r, elem)
		if err != nil {
			return reflect.Value{}, err
		}
		if om != nil {
			om.Set(name, v.Interface())
		} else {
			gm.SetMapIndex(reflect.ValueOf(name).Convert(typ.Key()), v)
		}
	}
	if err := r.EndObject(); err != nil {
		return reflect.Value{}, err
	}
	switch {
	case typ == orderedMapType:
		return reflect.ValueOf(om), nil
	case om != nil:
		return reflect.ValueOf(om).Elem(), nil
	}
	return gm, nil
}

func (e *Engine) decodeNamed(r *Reader, typ reflect.Type) (reflect.Value, error) {
	switch {
	case typ.Kind() == reflect.Pointer:
		v, err := e.decodeValue(r, typedesc.For(typ.Elem()))
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	case decodedBySerializer(typ):
		raw, err := r.ReadRaw()
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(typ)
		if err := e.serializer.Unmarshal(raw, ptr.Interface()); err != nil {
			return reflect.Value{}, r.fail(err)
		}
		return ptr.Elem(), nil
	case typ.Kind() == reflect.Struct:
		return e.decodeStruct(r, typ)
	}

	if d := typedesc.For(typ); d.Kind() != typedesc.KindNamed {
		return e.decodeValue(r, d)
	}
	return reflect.Value{}, r.fail(&UnsupportedTypeError{Type: typ})
}

// decodedBySerializer reports whether values of typ are handed to the
// serializer as raw JSON: types with their own unmarshalers, byte slices
// (base64), arrays and maps without string keys.
func decodedBySerializer(typ reflect.Type) bool {
	ptr := reflect.PointerTo(typ)
	if ptr.Implements(jsonUnmarshalerType) || ptr.Implements(textUnmarshalerType) {
		return true
	}
	switch typ.Kind() {
	case reflect.Slice:
		return typ.Elem().Kind() == reflect.Uint8
	case reflect.Array:
		return true
	case reflect.Map:
		return typ.Key().Kind() != reflect.String
	}
	return false
}

func (e *Engine) decodeStruct(r *Reader, typ reflect.Type) (reflect.Value, error) {
	plan := e.structPlan(typ)
	out := reflect.New(typ).Elem()

	if err := r.BeginObject(); err != nil {
		return reflect.Value{}, err
	}
	for r.More() {
		name, err := r.NextName()
		if err != nil {
			return reflect.Value{}, err
		}
		f := plan.lookup(name)
		if f == nil {
			if err := r.SkipValue(); err != nil {
				return reflect.Value{}, err
			}
			continue
		}
		v, err := e.decodeValue(r, f.desc)
		if err != nil {
			return reflect.Value{}, err
		}
		dst, err := fieldByIndex(out, f.index)
		if err != nil {
			return reflect.Value{}, r.fail(err)
		}
		dst.Set(v)
	}
	if err := r.EndObject(); err != nil {
		return reflect.Value{}, err
	}
	return out, nil
}

type fieldPlan struct {
	index []int
	desc  typedesc.Descriptor
}

type structPlan struct {
	exact  map[string]*fieldPlan
	folded map[string]*fieldPlan
}

// lookup matches name exactly, then case-insensitively.
func (p *structPlan) lookup(name string) *fieldPlan {
	if f, ok := p.exact[name]; ok {
		return f
	}
	return p.folded[strings.ToLower(name)]
}

func (e *Engine) structPlan(typ reflect.Type) *structPlan {
	if p, ok := e.plans.Load(typ); ok {
		return p.(*structPlan)
	}
	p, _ := e.plans.LoadOrStore(typ, newStructPlan(typ))
	return p.(*structPlan)
}

func newStructPlan(typ reflect.Type) *structPlan {
	p := &structPlan{
		exact:  make(map[string]*fieldPlan),
		folded: make(map[string]*fieldPlan),
	}
	for _, f := range reflect.VisibleFields(typ) {
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _ := parseTag(tag)
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				// Promoted fields are listed on their own.
				continue
			}
		}
		if name == "" {
			name = f.Name
		}

		fp := &fieldPlan{index: f.Index, desc: typedesc.For(f.Type)}
		addField(p.exact, name, fp)
		addField(p.folded, strings.ToLower(name), fp)
	}
	return p
}

// addField keeps the shallowest field when names collide.
func addField(m map[string]*fieldPlan, name string, fp *fieldPlan) {
	if prev, ok := m[name]; ok && len(prev.index) <= len(fp.index) {
		return
	}
	m[name] = fp
}

func fieldByIndex(v reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("cannot set embedded pointer to unexported struct %s", v.Type().Elem())
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, nil
}
