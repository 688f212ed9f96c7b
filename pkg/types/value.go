// Package types defines the core data model shared by every stage of the
// JSON++ pipeline: the parsed Node tree, the runtime Value tagged union it
// reduces to, lexical Scopes, and the fatal-error type (see errors.go).
//
// Node and Value live in the same package because they are mutually
// recursive: a Definition value closes over a body Node, and a forced
// Node's result is a Value. Splitting them would force an import cycle.
package types

import (
	"fmt"
	"math"
	"strings"
)

// Kind is the tag of a runtime Value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindNull
	KindString
	KindUndefined
	KindArray
	KindObject
	KindDefinition
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindUndefined:
		return "undefined"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindDefinition:
		return "definition"
	default:
		return "unknown"
	}
}

// Value is a JSON++ runtime value: the result of forcing a Node. It uses a
// tagged-union layout rather than an interface so that scalar values never
// allocate.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
	arr  []Value
	obj  *OrderedMap
	def  *Definition
}

// Definition is the first-class function value produced by (def ...). It
// captures the lexical Scope visible at the point of definition; invocation
// clones Body so that repeated calls (e.g. from map/filter/reduce) don't
// collide on the same Node's memoized state.
type Definition struct {
	Params   []string
	Body     *Node
	Captured *Scope
}

// OrderedMap is a string-keyed map that preserves insertion order, matching
// JPP's requirement that object key order survive evaluation.
type OrderedMap struct {
	keys   []string
	values map[string]Value
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]Value)}
}

func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *OrderedMap) Set(key string, val Value) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *OrderedMap) Len() int { return len(m.keys) }

func (m *OrderedMap) Clone() *OrderedMap {
	c := NewOrderedMap()
	for _, k := range m.keys {
		c.Set(k, m.values[k])
	}
	return c
}

var (
	Null      = Value{kind: KindNull}
	Undefined = Value{kind: KindUndefined}
	True      = Value{kind: KindBool, b: true}
	False     = Value{kind: KindBool, b: false}
)

func NewBool(v bool) Value {
	if v {
		return True
	}
	return False
}

func NewInt(v int64) Value       { return Value{kind: KindInt, i: v} }
func NewFloat(v float64) Value   { return Value{kind: KindFloat, f: v} }
func NewString(v string) Value   { return Value{kind: KindString, s: v} }
func NewArray(v []Value) Value   { return Value{kind: KindArray, arr: v} }
func NewObject(v *OrderedMap) Value {
	return Value{kind: KindObject, obj: v}
}
func NewDefinition(d *Definition) Value { return Value{kind: KindDefinition, def: d} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBool() bool {
	if v.kind != KindBool {
		panic(fmt.Sprintf("AsBool called on %s value", v.kind))
	}
	return v.b
}

func (v Value) AsInt() int64 {
	if v.kind != KindInt {
		panic(fmt.Sprintf("AsInt called on %s value", v.kind))
	}
	return v.i
}

func (v Value) AsFloat() float64 {
	if v.kind != KindFloat {
		panic(fmt.Sprintf("AsFloat called on %s value", v.kind))
	}
	return v.f
}

func (v Value) AsString() string {
	if v.kind != KindString {
		panic(fmt.Sprintf("AsString called on %s value", v.kind))
	}
	return v.s
}

func (v Value) AsArray() []Value {
	if v.kind != KindArray {
		panic(fmt.Sprintf("AsArray called on %s value", v.kind))
	}
	return v.arr
}

func (v Value) AsObject() *OrderedMap {
	if v.kind != KindObject {
		panic(fmt.Sprintf("AsObject called on %s value", v.kind))
	}
	return v.obj
}

func (v Value) AsDefinition() *Definition {
	if v.kind != KindDefinition {
		panic(fmt.Sprintf("AsDefinition called on %s value", v.kind))
	}
	return v.def
}

// AsNumber returns the value as a float64 if it is Int or Float.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// IsNumeric reports whether the value is Int or Float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// Truthy implements JPP's truthiness rule: false, null, undefined, 0, 0.0,
// "", [] and {} are falsy; everything else is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNull, KindUndefined:
		return false
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) != 0
	case KindObject:
		return v.obj.Len() != 0
	default:
		return true
	}
}

// Equal implements structural equality, cross-type-aware for numerics
// (Int(3) eq Float(3.0) is true).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		if v.IsNumeric() && other.IsNumeric() {
			a, _ := v.AsNumber()
			b, _ := other.AsNumber()
			return a == b
		}
		return false
	}
	switch v.kind {
	case KindNull, KindUndefined:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != other.obj.Len() {
			return false
		}
		for _, k := range v.obj.Keys() {
			a, _ := v.obj.Get(k)
			b, ok := other.obj.Get(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	case KindDefinition:
		return v.def == other.def
	}
	return false
}

// String renders a debug form; str() (pkg/builtin) implements the
// JSON-like user-facing stringification instead.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return formatFloat(v.f)
	case KindString:
		return v.s
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, item := range v.arr {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		parts := make([]string, 0, v.obj.Len())
		for _, k := range v.obj.Keys() {
			val, _ := v.obj.Get(k)
			parts = append(parts, fmt.Sprintf("%q: %s", k, val.String()))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindDefinition:
		return fmt.Sprintf("<definition/%d>", len(v.def.Params))
	}
	return "<unknown>"
}

// formatFloat renders a float with the shortest round-trip decimal form,
// always keeping a decimal point so Int/Float never look alike in output.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "NaN"
	}
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
