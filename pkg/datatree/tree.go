// Package datatree holds the nested, insertion-ordered mapping produced by an
// extraction run and the pruning pass applied to it before serialization.
package datatree

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tree maps keys to either a string or a nested *Tree.
//
// Keys keep the position of their first insertion. Assigning an existing key
// replaces its value in place, so the JSON key order is stable across runs.
type Tree struct {
	m *orderedmap.OrderedMap[string, any]
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{m: orderedmap.New[string, any]()}
}

// Set assigns value to key. Value must be a string or a *Tree.
func (t *Tree) Set(key string, value any) {
	switch value.(type) {
	case string, *Tree:
	default:
		panic("datatree: value must be a string or *Tree")
	}
	t.m.Set(key, value)
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (any, bool) {
	return t.m.Get(key)
}

// Delete removes key from the tree.
func (t *Tree) Delete(key string) {
	t.m.Delete(key)
}

// Len returns the number of entries.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return t.m.Len()
}

// Keys returns the keys in insertion order.
func (t *Tree) Keys() []string {
	keys := make([]string, 0, t.Len())
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every entry in insertion order.
func (t *Tree) Each(fn func(key string, value any)) {
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Map returns a copy of the tree as plain nested maps. Handy for comparisons.
func (t *Tree) Map() map[string]any {
	out := make(map[string]any, t.Len())
	t.Each(func(k string, v any) {
		if sub, ok := v.(*Tree); ok {
			out[k] = sub.Map()
			return
		}
		out[k] = v
	})
	return out
}

// Transform returns a new tree with every key passed through key and every
// string value passed through value, preserving order. When two keys collapse
// to the same transformed key the later entry replaces the earlier value.
func (t *Tree) Transform(key, value func(string) string) *Tree {
	out := New()
	t.Each(func(k string, v any) {
		if sub, ok := v.(*Tree); ok {
			out.Set(key(k), sub.Transform(key, value))
			return
		}
		out.Set(key(k), value(v.(string)))
	})
	return out
}

// MarshalJSON encodes the tree as a JSON object in insertion order.
// HTML characters are not escaped.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	first := true
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		if err := enc.Encode(pair.Key); err != nil {
			return nil, err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err := enc.Encode(pair.Value); err != nil {
			return nil, err
		}
		trimNewline(&buf)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Encoder.Encode terminates every value with a newline.
func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}
