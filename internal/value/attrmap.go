package value

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"github.com/quest-lang/quest/internal/intern"
)

// AttrMap is the ordered attribute store of spec.md §3.3: a fast path keyed
// by interned literal (the common case — every identifier written in
// source code) and a slow path for arbitrary Value keys compared with
// user-level `==` (which may invoke user code).
//
// Both paths are backed by github.com/emirpasic/gods' linkedhashmap, which
// gives O(1) amortized lookup while preserving insertion order — the slow
// path is specified as an insertion-ordered list, and a hand-rolled
// slice-scan would throw away the O(1) case for the overwhelming majority
// of slow-path keys (immediates, which are Go-comparable by content).
// Heap-Object keys that are not pointer-identical but are user-`==`-equal
// are the one case the hashmap can't shortcut; lookups fall back to a
// linear scan with user-level equality for those.
type AttrMap struct {
	fast *linkedhashmap.Map // intern.Literal -> Value
	slow *linkedhashmap.Map // Value -> Value
}

// NewAttrMap returns an empty AttrMap.
func NewAttrMap() *AttrMap {
	return &AttrMap{
		fast: linkedhashmap.New(),
		slow: linkedhashmap.New(),
	}
}

// GetFast looks up a literal-keyed attribute without touching the slow path.
func (m *AttrMap) GetFast(lit intern.Literal) (Value, bool) {
	v, ok := m.fast.Get(lit)
	if !ok {
		return Value{}, false
	}
	return v.(Value), true
}

// SetFast writes a literal-keyed attribute.
func (m *AttrMap) SetFast(lit intern.Literal, v Value) {
	m.fast.Put(lit, v)
}

// DeleteFast removes a literal-keyed attribute, reporting whether it existed.
func (m *AttrMap) DeleteFast(lit intern.Literal) bool {
	if _, ok := m.fast.Get(lit); !ok {
		return false
	}
	m.fast.Remove(lit)
	return true
}

// eqFunc compares two Values with user-level equality; supplied by the
// caller (ultimately the evaluator) to avoid value->interp import cycle.
type eqFunc func(a, b Value) (bool, error)

// GetSlow looks up an arbitrary-Value-keyed attribute. It first tries the
// hashmap directly (covers bit-identical keys in O(1)); if that misses and
// eq is non-nil, it falls back to a linear scan using user-level equality.
func (m *AttrMap) GetSlow(key Value, eq eqFunc) (Value, bool, error) {
	if v, ok := m.slow.Get(key); ok {
		return v.(Value), true, nil
	}
	if eq == nil {
		return Value{}, false, nil
	}
	it := m.slow.Iterator()
	for it.Next() {
		k := it.Key().(Value)
		equal, err := eq(k, key)
		if err != nil {
			return Value{}, false, err
		}
		if equal {
			return it.Value().(Value), true, nil
		}
	}
	return Value{}, false, nil
}

// SetSlow writes an arbitrary-Value-keyed attribute. Overwrite semantics
// follow the same identical-key fast check as GetSlow; a key equal only
// under user `==` (not bit-identical) is treated as a new insertion, which
// matches a plain insertion-ordered-list slow path faithfully.
func (m *AttrMap) SetSlow(key, v Value) {
	m.slow.Put(key, v)
}

// DeleteSlow removes a bit-identical slow-path key.
func (m *AttrMap) DeleteSlow(key Value) bool {
	if _, ok := m.slow.Get(key); !ok {
		return false
	}
	m.slow.Remove(key)
	return true
}

// FastKeys returns the literal keys in insertion order.
func (m *AttrMap) FastKeys() []intern.Literal {
	keys := m.fast.Keys()
	out := make([]intern.Literal, len(keys))
	for i, k := range keys {
		out[i] = k.(intern.Literal)
	}
	return out
}

// SlowKeys returns the Value keys in insertion order.
func (m *AttrMap) SlowKeys() []Value {
	keys := m.slow.Keys()
	out := make([]Value, len(keys))
	for i, k := range keys {
		out[i] = k.(Value)
	}
	return out
}

// Clone returns a deep copy of the attribute map, used by Object.deepClone.
func (m *AttrMap) Clone() *AttrMap {
	out := NewAttrMap()
	it := m.fast.Iterator()
	for it.Next() {
		out.fast.Put(it.Key(), it.Value())
	}
	it = m.slow.Iterator()
	for it.Next() {
		out.slow.Put(it.Key(), it.Value())
	}
	return out
}

// Size returns the total number of stored attributes (both paths).
func (m *AttrMap) Size() int {
	return m.fast.Size() + m.slow.Size()
}
