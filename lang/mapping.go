package lang

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"

	"github.com/goccy/go-yaml"
)

// Mapping is an ordered set of unique string keys, each bound to a [Value].
//
// Keys keep the position of their first insertion. Setting an existing key
// replaces its value in place.
type Mapping struct {
	keys  []string
	vals  []Value
	index map[string]int
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping { return newMapping(0) }

func newMapping(n int) *Mapping {
	return &Mapping{
		keys:  make([]string, 0, n),
		vals:  make([]Value, 0, n),
		index: make(map[string]int, n),
	}
}

// MappingOf returns a mapping of the given key/value pairs in order.
func MappingOf(pairs ...Pair) *Mapping {
	m := newMapping(len(pairs))
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}

	return m
}

// Pair is a single mapping entry.
type Pair struct {
	Key   string
	Value Value
}

// Len returns the number of entries in m.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Get returns the value bound to key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Null(), false
	}

	i, ok := m.index[key]
	if !ok {
		return Null(), false
	}

	return m.vals[i], true
}

// Has reports whether key is bound in m.
func (m *Mapping) Has(key string) bool {
	if m == nil {
		return false
	}

	_, ok := m.index[key]

	return ok
}

// Set binds key to v.
func (m *Mapping) Set(key string, v Value) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = v

		return
	}

	if m.index == nil {
		m.index = make(map[string]int)
	}

	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

// Delete removes key from m and reports whether it was bound.
func (m *Mapping) Delete(key string) bool {
	if m == nil {
		return false
	}

	i, ok := m.index[key]
	if !ok {
		return false
	}

	m.keys = slices.Delete(m.keys, i, i+1)
	m.vals = slices.Delete(m.vals, i, i+1)

	delete(m.index, key)

	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}

	return true
}

// Keys returns the keys of m in order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}

	return slices.Clone(m.keys)
}

// Values returns the values of m in key order.
func (m *Mapping) Values() []Value {
	if m == nil {
		return nil
	}

	return slices.Clone(m.vals)
}

// All returns an iterator over the entries of m in order.
func (m *Mapping) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i := range m.Len() {
			if !yield(m.keys[i], m.vals[i]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of m.
func (m *Mapping) Clone() *Mapping {
	c := newMapping(m.Len())
	for k, v := range m.All() {
		c.Set(k, v)
	}

	return c
}

// Merge sets every entry of each other mapping in m, in order.
func (m *Mapping) Merge(other ...*Mapping) *Mapping {
	for _, o := range other {
		for k, v := range o.All() {
			m.Set(k, v)
		}
	}

	return m
}

func (m *Mapping) native() NativeMap {
	out := make(NativeMap, 0, m.Len())
	for k, v := range m.All() {
		out = append(out, yaml.MapItem{Key: k, Value: v.Native()})
	}

	return out
}

// NativeMap is the plain-data form of a [Mapping]. It keeps key order when
// encoded as JSON or YAML.
type NativeMap yaml.MapSlice

// MarshalYAML implements [yaml.InterfaceMarshaler].
func (n NativeMap) MarshalYAML() (any, error) {
	return yaml.MapSlice(n), nil
}

// MarshalJSON implements [json.Marshaler].
func (n NativeMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, item := range n {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := marshalJSON(item.Key)
		if err != nil {
			return nil, err
		}

		val, err := marshalJSON(item.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// marshalJSON encodes v without escaping HTML characters.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
