package builtins

import (
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
)

// MapObject is the host-side backing of a sandbox `new Map()`. Keys use
// strict-equality semantics via a keyed slice so insertion order is kept.
type MapObject struct {
	keys   []runtime.Value
	values []runtime.Value
}

// HostKind selects the "map" allow-list table.
func (m *MapObject) HostKind() string { return "map" }

// Size reports the entry count; the proxy exposes it as `size`.
func (m *MapObject) Size() int { return len(m.keys) }

func (m *MapObject) indexOf(key runtime.Value) int {
	for i, k := range m.keys {
		if runtime.StrictEquals(k, key) {
			return i
		}
	}
	return -1
}

// Get returns the value stored under key, or undefined.
func (m *MapObject) Get(key runtime.Value) runtime.Value {
	if i := m.indexOf(key); i >= 0 {
		return m.values[i]
	}
	return runtime.Undefined
}

// Set stores value under key and returns undefined, so calls do not chain.
func (m *MapObject) Set(key, value runtime.Value) runtime.Value {
	if i := m.indexOf(key); i >= 0 {
		m.values[i] = value
	} else {
		m.keys = append(m.keys, key)
		m.values = append(m.values, value)
	}
	return runtime.Undefined
}

// Has reports whether key is present.
func (m *MapObject) Has(key runtime.Value) bool {
	return m.indexOf(key) >= 0
}

// Delete removes key, reporting whether it was present.
func (m *MapObject) Delete(key runtime.Value) bool {
	i := m.indexOf(key)
	if i < 0 {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.values = append(m.values[:i], m.values[i+1:]...)
	return true
}

// Clear removes every entry.
func (m *MapObject) Clear() {
	m.keys = nil
	m.values = nil
}

// Keys returns the keys in insertion order.
func (m *MapObject) Keys() runtime.Value {
	return runtime.NewArray(append([]runtime.Value{}, m.keys...))
}

// Values returns the values in insertion order.
func (m *MapObject) Values() runtime.Value {
	return runtime.NewArray(append([]runtime.Value{}, m.values...))
}

// Entries returns [key, value] pairs in insertion order.
func (m *MapObject) Entries() runtime.Value {
	return runtime.NewArray(m.entryPairs())
}

func (m *MapObject) entryPairs() []runtime.Value {
	out := make([]runtime.Value, len(m.keys))
	for i := range m.keys {
		out[i] = runtime.NewArray([]runtime.Value{m.keys[i], m.values[i]})
	}
	return out
}

// SetObject is the host-side backing of a sandbox `new Set()`.
type SetObject struct {
	items []runtime.Value
}

// HostKind selects the "set" allow-list table.
func (s *SetObject) HostKind() string { return "set" }

// Size reports the element count.
func (s *SetObject) Size() int { return len(s.items) }

func (s *SetObject) indexOf(v runtime.Value) int {
	for i, item := range s.items {
		if runtime.StrictEquals(item, v) {
			return i
		}
	}
	return -1
}

// Add inserts v when absent.
func (s *SetObject) Add(v runtime.Value) runtime.Value {
	if s.indexOf(v) < 0 {
		s.items = append(s.items, v)
	}
	return runtime.Undefined
}

// Has reports membership.
func (s *SetObject) Has(v runtime.Value) bool {
	return s.indexOf(v) >= 0
}

// Delete removes v, reporting whether it was present.
func (s *SetObject) Delete(v runtime.Value) bool {
	i := s.indexOf(v)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Clear removes every element.
func (s *SetObject) Clear() {
	s.items = nil
}

// Values returns the elements in insertion order.
func (s *SetObject) Values() runtime.Value {
	return runtime.NewArray(s.valueList())
}

// Keys aliases Values, as the host language does for sets.
func (s *SetObject) Keys() runtime.Value {
	return s.Values()
}

func (s *SetObject) valueList() []runtime.Value {
	return append([]runtime.Value{}, s.items...)
}

// mapConstructor builds the Map global: constructor-only, seedable with an
// array of [key, value] pairs.
func mapConstructor(b *sandbox.Boundary) runtime.Value {
	return &runtime.HostFunctionValue{
		Name: "Map",
		Kind: runtime.HostConstructor,
		Construct: func(args []runtime.Value) (runtime.Value, error) {
			m := &MapObject{}
			if len(args) > 0 && !runtime.IsNullish(args[0]) {
				pairs, err := iterableElements(b, args[0])
				if err != nil {
					return nil, err
				}
				for _, p := range pairs {
					if pair, ok := p.(*runtime.ArrayValue); ok && pair.Length() >= 2 {
						m.Set(pair.Get(0), pair.Get(1))
					}
				}
			}
			return runtime.NewHostValue(m, "Map"), nil
		},
	}
}

// setConstructor builds the Set global.
func setConstructor(b *sandbox.Boundary) runtime.Value {
	return &runtime.HostFunctionValue{
		Name: "Set",
		Kind: runtime.HostConstructor,
		Construct: func(args []runtime.Value) (runtime.Value, error) {
			s := &SetObject{}
			if len(args) > 0 && !runtime.IsNullish(args[0]) {
				items, err := iterableElements(b, args[0])
				if err != nil {
					return nil, err
				}
				for _, item := range items {
					s.Add(item)
				}
			}
			return runtime.NewHostValue(s, "Set"), nil
		},
	}
}
