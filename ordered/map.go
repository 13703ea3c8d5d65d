// Package ordered provides an insertion-ordered string keyed map. It is the
// in-memory form of a JSON object whenever the key order has to survive a
// decode/encode round trip.
package ordered

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Map keeps keys in the order they were first set. The zero value is ready
// to use. A Map is not safe for concurrent mutation.
type Map struct {
	keys   []string
	values map[string]any
}

// New returns a Map holding the given key/value pairs. kv alternates keys
// and values; it panics if a key is not a string or a value is missing.
func New(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("ordered: New called with an odd number of arguments")
	}
	m := &Map{values: make(map[string]any, len(kv)/2)}
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("ordered: key at position %d is %T, not string", i, kv[i]))
		}
		m.Set(k, kv[i+1])
	}
	return m
}

// Set stores v under k. Setting an existing key keeps its position.
func (m *Map) Set(k string, v any) *Map {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
	return m
}

func (m *Map) Get(k string) (v any, ok bool) {
	if m == nil {
		return nil, false
	}
	v, ok = m.values[k]
	return
}

func (m *Map) Has(k string) bool {
	_, ok := m.Get(k)
	return ok
}

// Delete removes k. It reports whether k was present.
func (m *Map) Delete(k string) bool {
	if !m.Has(k) {
		return false
	}
	delete(m.values, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Range calls f for each pair in order until f returns false.
func (m *Map) Range(f func(k string, v any) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !f(k, m.values[k]) {
			return
		}
	}
}

// Std converts m into plain Go maps and slices, recursively. Key order is
// lost.
func (m *Map) Std() map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = std(m.values[k])
	}
	return out
}

func std(v any) any {
	switch v := v.(type) {
	case *Map:
		return v.Std()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = std(e)
		}
		return out
	default:
		return v
	}
}

// Decode copies m into out, which must be a pointer to a struct or a map.
// Fields are matched by their `json` tag, falling back to the field name.
func (m *Map) Decode(out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("ordered: %w", err)
	}
	if err := d.Decode(m.Std()); err != nil {
		return fmt.Errorf("ordered: %w", err)
	}
	return nil
}
