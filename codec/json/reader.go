package jsoncodec

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tomruk/feign-go/ordered"
	"github.com/tomruk/feign-go/typedesc"
)

type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenBeginObject
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenName
	TokenString
	TokenNumber
	TokenBool
	TokenNull
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenBeginObject:
		return "begin object"
	case TokenEndObject:
		return "end object"
	case TokenBeginArray:
		return "begin array"
	case TokenEndArray:
		return "end array"
	case TokenName:
		return "name"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenBool:
		return "bool"
	case TokenNull:
		return "null"
	}
	return "<invalid>"
}

type readScope struct {
	object     bool
	expectName bool
	values     int
}

// Reader is a pull cursor over a single JSON document. It is handed to
// adapter Read functions, and is not safe for concurrent use.
//
// Methods that fail leave the Reader in an undefined position; the first
// error is sticky and returned by every later call.
type Reader struct {
	engine *Engine
	dec    *json.Decoder

	peeked   json.Token
	peekKind TokenKind
	hasPeek  bool

	stack []readScope
	top   int
	err   error
}

// newReader expects data to have passed the serializer's Valid check.
// The go-json tokenizer does not verify separators on its own.
func newReader(engine *Engine, data []byte) *Reader {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &Reader{engine: engine, dec: dec}
}

func (r *Reader) fill() error {
	if r.err != nil {
		return r.err
	}
	if r.hasPeek {
		return nil
	}

	tok, err := r.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.peeked, r.peekKind, r.hasPeek = nil, TokenEOF, true
			return nil
		}
		r.err = err
		return err
	}

	r.peeked = tok
	r.peekKind = r.classify(tok)
	r.hasPeek = true
	return nil
}

func (r *Reader) classify(tok json.Token) TokenKind {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return TokenBeginObject
		case '}':
			return TokenEndObject
		case '[':
			return TokenBeginArray
		default:
			return TokenEndArray
		}
	case string:
		if n := len(r.stack); n > 0 && r.stack[n-1].object && r.stack[n-1].expectName {
			return TokenName
		}
		return TokenString
	case json.Number, float64:
		return TokenNumber
	case bool:
		return TokenBool
	}
	return TokenNull
}

func (r *Reader) consume() (json.Token, TokenKind, error) {
	if err := r.fill(); err != nil {
		return nil, 0, err
	}
	tok, kind := r.peeked, r.peekKind
	r.peeked, r.hasPeek = nil, false

	switch kind {
	case TokenBeginObject:
		r.stack = append(r.stack, readScope{object: true, expectName: true})
	case TokenBeginArray:
		r.stack = append(r.stack, readScope{})
	case TokenEndObject, TokenEndArray:
		r.stack = r.stack[:len(r.stack)-1]
		r.valueDone()
	case TokenName:
		r.stack[len(r.stack)-1].expectName = false
	case TokenEOF:
	default:
		r.valueDone()
	}
	return tok, kind, nil
}

func (r *Reader) valueDone() {
	if len(r.stack) == 0 {
		r.top++
		return
	}
	s := &r.stack[len(r.stack)-1]
	s.values++
	if s.object {
		s.expectName = true
	}
}

func (r *Reader) expect(want TokenKind) (json.Token, error) {
	kind, err := r.Peek()
	if err != nil {
		return nil, err
	}
	if kind != want {
		return nil, r.fail(&shapeError{expected: want.String(), found: kind})
	}
	tok, _, err := r.consume()
	return tok, err
}

func (r *Reader) fail(err error) error {
	if r.err == nil {
		r.err = err
	}
	return r.err
}

// Peek reports the kind of the next token without consuming it.
func (r *Reader) Peek() (TokenKind, error) {
	if err := r.fill(); err != nil {
		return 0, err
	}
	return r.peekKind, nil
}

func (r *Reader) BeginObject() error {
	_, err := r.expect(TokenBeginObject)
	return err
}

func (r *Reader) EndObject() error {
	_, err := r.expect(TokenEndObject)
	return err
}

func (r *Reader) BeginArray() error {
	_, err := r.expect(TokenBeginArray)
	return err
}

func (r *Reader) EndArray() error {
	_, err := r.expect(TokenEndArray)
	return err
}

// More reports whether the current object or array has another member.
// It returns false on error; the error is returned by the following
// EndObject or EndArray.
func (r *Reader) More() bool {
	kind, err := r.Peek()
	if err != nil {
		return false
	}
	return kind != TokenEndObject && kind != TokenEndArray && kind != TokenEOF
}

func (r *Reader) NextName() (string, error) {
	tok, err := r.expect(TokenName)
	if err != nil {
		return "", err
	}
	return tok.(string), nil
}

// NextString consumes a string. A number is accepted too and returned in
// its literal form.
func (r *Reader) NextString() (string, error) {
	kind, err := r.Peek()
	if err != nil {
		return "", err
	}
	switch kind {
	case TokenString:
		tok, _, err := r.consume()
		if err != nil {
			return "", err
		}
		return tok.(string), nil
	case TokenNumber:
		n, err := r.NextNumber()
		return string(n), err
	}
	return "", r.fail(&shapeError{expected: "string", found: kind})
}

// NextNumber consumes a number and returns its literal text.
func (r *Reader) NextNumber() (json.Number, error) {
	tok, err := r.expect(TokenNumber)
	if err != nil {
		return "", err
	}
	switch n := tok.(type) {
	case json.Number:
		// The decoder's number text aliases its read buffer.
		return json.Number(strings.Clone(string(n))), nil
	case float64:
		return json.Number(strconv.FormatFloat(n, 'g', -1, 64)), nil
	}
	return "", r.fail(errMalformed)
}

func (r *Reader) NextInt() (int64, error) {
	n, err := r.NextNumber()
	if err != nil {
		return 0, err
	}
	i, err := parseInt(n)
	if err != nil {
		return 0, r.fail(err)
	}
	return i, nil
}

// NextUint consumes a non-negative integral number. Values above
// math.MaxInt64 are accepted.
func (r *Reader) NextUint() (uint64, error) {
	n, err := r.NextNumber()
	if err != nil {
		return 0, err
	}
	u, err := parseUint(n)
	if err != nil {
		return 0, r.fail(err)
	}
	return u, nil
}

func (r *Reader) NextFloat() (float64, error) {
	n, err := r.NextNumber()
	if err != nil {
		return 0, err
	}
	f, err := n.Float64()
	if err != nil {
		return 0, r.fail(err)
	}
	return f, nil
}

func (r *Reader) NextBool() (bool, error) {
	tok, err := r.expect(TokenBool)
	if err != nil {
		return false, err
	}
	return tok.(bool), nil
}

func (r *Reader) NextNull() error {
	_, err := r.expect(TokenNull)
	return err
}

// SkipValue consumes the next value, including everything nested in it.
func (r *Reader) SkipValue() error {
	return r.copyValue(nil)
}

// ReadRaw consumes the next value and returns it as compact JSON text.
func (r *Reader) ReadRaw() ([]byte, error) {
	w := newWriter(r.engine, "")
	if err := r.copyValue(w); err != nil {
		return nil, err
	}
	return w.Bytes()
}

// ReadValue decodes the next value as d, applying registered adapters to
// nested occurrences.
func (r *Reader) ReadValue(d typedesc.Descriptor) (any, error) {
	v, err := r.engine.decodeValue(r, d)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// Offset returns the number of input bytes consumed so far.
func (r *Reader) Offset() int64 {
	return r.dec.InputOffset()
}

// ReadAs decodes the next value from r as a T.
func ReadAs[T any](r *Reader) (T, error) {
	var zero T
	v, err := r.engine.decodeValue(r, typedesc.Of[T]())
	if err != nil {
		return zero, err
	}
	if !v.IsValid() {
		return zero, nil
	}
	t, _ := v.Interface().(T)
	return t, nil
}

// copyValue consumes one value, replaying its tokens into w when w is not nil.
func (r *Reader) copyValue(w *Writer) error {
	kind, err := r.Peek()
	if err != nil {
		return err
	}
	switch kind {
	case TokenEOF:
		return r.fail(errIncompleteValue)
	case TokenEndObject, TokenEndArray, TokenName:
		return r.fail(&shapeError{expected: "value", found: kind})
	}

	depth := 0
	for {
		tok, kind, err := r.consume()
		if err != nil {
			return err
		}
		switch kind {
		case TokenBeginObject, TokenBeginArray:
			depth++
		case TokenEndObject, TokenEndArray:
			depth--
		case TokenEOF:
			return r.fail(errIncompleteValue)
		}
		if w != nil {
			if err := replay(w, tok, kind); err != nil {
				return r.fail(err)
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

func replay(w *Writer, tok json.Token, kind TokenKind) error {
	switch kind {
	case TokenBeginObject:
		return w.BeginObject()
	case TokenEndObject:
		return w.EndObject()
	case TokenBeginArray:
		return w.BeginArray()
	case TokenEndArray:
		return w.EndArray()
	case TokenName:
		return w.Name(tok.(string))
	case TokenString:
		return w.String(tok.(string))
	case TokenNumber:
		switch n := tok.(type) {
		case json.Number:
			return w.number(string(n))
		case float64:
			return w.Float(n)
		}
	case TokenBool:
		return w.Bool(tok.(bool))
	case TokenNull:
		return w.Null()
	}
	return errMalformed
}

// readAny decodes the next value into its dynamic form.
func (r *Reader) readAny() (any, error) {
	kind, err := r.Peek()
	if err != nil {
		return nil, err
	}
	switch kind {
	case TokenBeginObject:
		if err := r.BeginObject(); err != nil {
			return nil, err
		}
		m := ordered.New()
		for r.More() {
			name, err := r.NextName()
			if err != nil {
				return nil, err
			}
			v, err := r.readAny()
			if err != nil {
				return nil, err
			}
			m.Set(name, v)
		}
		if err := r.EndObject(); err != nil {
			return nil, err
		}
		return m, nil
	case TokenBeginArray:
		if err := r.BeginArray(); err != nil {
			return nil, err
		}
		s := []any{}
		for r.More() {
			v, err := r.readAny()
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		if err := r.EndArray(); err != nil {
			return nil, err
		}
		return s, nil
	case TokenString:
		return r.NextString()
	case TokenNumber:
		n, err := r.NextNumber()
		if err != nil {
			return nil, err
		}
		if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, r.fail(err)
		}
		return f, nil
	case TokenBool:
		return r.NextBool()
	case TokenNull:
		return nil, r.NextNull()
	}
	return nil, r.fail(&shapeError{expected: "value", found: kind})
}

type readMark struct {
	depth int
	count int
}

func (r *Reader) mark() readMark {
	if len(r.stack) == 0 {
		return readMark{depth: 0, count: r.top}
	}
	return readMark{depth: len(r.stack), count: r.stack[len(r.stack)-1].values}
}

// consumedOne reports whether exactly one value was consumed since m.
func (r *Reader) consumedOne(m readMark) bool {
	return r.mark() == readMark{depth: m.depth, count: m.count + 1}
}

// parseInt accepts integral numbers written with a fraction or exponent,
// such as 1.0 or 1e3.
func parseInt(n json.Number) (int64, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f >= 1<<63 || f < -(1<<63) || f != math.Trunc(f) {
		return 0, &strconv.NumError{Func: "ParseInt", Num: string(n), Err: strconv.ErrRange}
	}
	return int64(f), nil
}

func parseUint(n json.Number) (uint64, error) {
	if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
		return u, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f < 0 || f >= 1<<64 || f != math.Trunc(f) {
		return 0, &strconv.NumError{Func: "ParseUint", Num: string(n), Err: strconv.ErrRange}
	}
	return uint64(f), nil
}
