package jsoncodec

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

var (
	errNameOutsideObject = errors.New("name written outside of an object")
	errValueWithoutName  = errors.New("object member written without a name")
	errNameWithoutValue  = errors.New("name written without a value")
	errMismatchedEnd     = errors.New("mismatched end of object or array")
	errMultipleValues    = errors.New("more than one top-level value written")
)

type writeScope struct {
	object bool
	n      int
	named  bool
}

// Writer emits a single JSON document. It is handed to adapter Write
// functions, and is not safe for concurrent use.
//
// An indented Writer puts every member on its own line, separates names from
// values with ": " and writes empty containers as {} and []. The first error
// is sticky.
type Writer struct {
	engine *Engine
	indent string
	buf    bytes.Buffer
	stack  []writeScope
	top    int
	err    error
}

func newWriter(engine *Engine, indent string) *Writer {
	return &Writer{engine: engine, indent: indent}
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}

func (w *Writer) newline(depth int) {
	if w.indent == "" {
		return
	}
	w.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		w.buf.WriteString(w.indent)
	}
}

func (w *Writer) beforeValue() error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 {
		if w.top > 0 {
			return w.fail(errMultipleValues)
		}
		w.top++
		return nil
	}

	s := &w.stack[len(w.stack)-1]
	if s.object {
		if !s.named {
			return w.fail(errValueWithoutName)
		}
		s.named = false
		return nil
	}
	if s.n > 0 {
		w.buf.WriteByte(',')
	}
	s.n++
	w.newline(len(w.stack))
	return nil
}

func (w *Writer) open(object bool, c byte) error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	w.buf.WriteByte(c)
	w.stack = append(w.stack, writeScope{object: object})
	return nil
}

func (w *Writer) close(object bool, c byte) error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 || w.stack[len(w.stack)-1].object != object {
		return w.fail(errMismatchedEnd)
	}
	s := w.stack[len(w.stack)-1]
	if s.named {
		return w.fail(errNameWithoutValue)
	}
	w.stack = w.stack[:len(w.stack)-1]
	if s.n > 0 {
		w.newline(len(w.stack))
	}
	w.buf.WriteByte(c)
	return nil
}

func (w *Writer) BeginObject() error { return w.open(true, '{') }

func (w *Writer) EndObject() error { return w.close(true, '}') }

func (w *Writer) BeginArray() error { return w.open(false, '[') }

func (w *Writer) EndArray() error { return w.close(false, ']') }

// Name writes the name of the next object member.
func (w *Writer) Name(name string) error {
	if w.err != nil {
		return w.err
	}
	if len(w.stack) == 0 || !w.stack[len(w.stack)-1].object {
		return w.fail(errNameOutsideObject)
	}
	s := &w.stack[len(w.stack)-1]
	if s.named {
		return w.fail(errNameWithoutValue)
	}

	quoted, err := w.quote(name)
	if err != nil {
		return w.fail(err)
	}
	if s.n > 0 {
		w.buf.WriteByte(',')
	}
	s.n++
	s.named = true
	w.newline(len(w.stack))
	w.buf.Write(quoted)
	w.buf.WriteByte(':')
	if w.indent != "" {
		w.buf.WriteByte(' ')
	}
	return nil
}

// quote escapes s the way the configured serializer does.
func (w *Writer) quote(s string) ([]byte, error) {
	b, err := w.engine.serializer.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("jsoncodec: %w", err)
	}
	return b, nil
}

func (w *Writer) String(s string) error {
	quoted, err := w.quote(s)
	if err != nil {
		return w.fail(err)
	}
	return w.literal(quoted)
}

func (w *Writer) Int(i int64) error {
	return w.literal(strconv.AppendInt(nil, i, 10))
}

func (w *Writer) Uint(u uint64) error {
	return w.literal(strconv.AppendUint(nil, u, 10))
}

func (w *Writer) Float(f float64) error {
	return w.float(f, 64)
}

func (w *Writer) float(f float64, bits int) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return w.fail(&UnsupportedValueError{Value: strconv.FormatFloat(f, 'g', -1, bits)})
	}
	var v any = f
	if bits == 32 {
		v = float32(f)
	}
	b, err := w.engine.serializer.Marshal(v)
	if err != nil {
		return w.fail(fmt.Errorf("jsoncodec: %w", err))
	}
	return w.literal(b)
}

func (w *Writer) Bool(b bool) error {
	return w.literal(strconv.AppendBool(nil, b))
}

func (w *Writer) Null() error {
	return w.literal([]byte("null"))
}

func (w *Writer) number(text string) error {
	return w.literal([]byte(text))
}

func (w *Writer) literal(b []byte) error {
	if err := w.beforeValue(); err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

// Raw writes an already encoded JSON value, re-indenting it to fit the
// surrounding output.
func (w *Writer) Raw(data []byte) error {
	if w.err != nil {
		return w.err
	}
	if !w.engine.serializer.Valid(data) {
		return w.fail(fmt.Errorf("jsoncodec: raw value: %w", errMalformed))
	}
	r := newReader(w.engine, data)
	if err := r.copyValue(w); err != nil {
		return w.fail(err)
	}
	if kind, err := r.Peek(); err != nil || kind != TokenEOF {
		return w.fail(fmt.Errorf("jsoncodec: raw value: %w", errTrailingData))
	}
	return nil
}

// Value writes v the way the engine would, applying registered adapters to
// v and everything nested in it.
func (w *Writer) Value(v any) error {
	if w.err != nil {
		return w.err
	}
	if err := w.engine.encodeValue(w, reflect.ValueOf(v)); err != nil {
		return w.fail(err)
	}
	return nil
}

// Bytes returns the document written so far. It fails unless exactly one
// complete value was written.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.top == 0 || len(w.stack) > 0 {
		return nil, fmt.Errorf("jsoncodec: %w", errIncompleteValue)
	}
	return w.buf.Bytes(), nil
}

type writeMark struct {
	depth int
	count int
	named bool
}

func (w *Writer) mark() writeMark {
	if len(w.stack) == 0 {
		return writeMark{count: w.top}
	}
	s := w.stack[len(w.stack)-1]
	return writeMark{depth: len(w.stack), count: s.n, named: s.named}
}

// wroteOne reports whether exactly one value was written since m.
func (w *Writer) wroteOne(m writeMark) bool {
	now := w.mark()
	if now.depth != m.depth {
		return false
	}
	if m.depth > 0 && w.stack[len(w.stack)-1].object {
		return m.named && !now.named && now.count == m.count
	}
	return now.count == m.count+1
}
