// Package jsonvalue models arbitrary JSON documents with object key order
// preserved, which encoding/json's map decoding throws away.
package jsonvalue

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind  Kind
	b     bool
	num   json.Number
	str   string
	items []Value
	obj   *orderedmap.OrderedMap[string, Value]
}

// NullValue returns the JSON null.
func NullValue() Value { return Value{} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue wraps f using the shortest representation that round-trips,
// switching to exponent form outside [1e-6, 1e21) the way JavaScript does.
// NaN and infinities have no JSON form and become null.
func NumberValue(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NullValue()
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	return Value{kind: Number, num: json.Number(strconv.FormatFloat(f, format, -1, 64))}
}

// NumberLiteral wraps an already-validated JSON number literal.
func NumberLiteral(n json.Number) Value { return Value{kind: Number, num: n} }

// StringValue wraps s.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// ArrayValue builds an array from items.
func ArrayValue(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: Array, items: cp}
}

// ObjectValue builds an object from members. A repeated key keeps its first
// position and its last value.
func ObjectValue(members ...Member) Value {
	om := orderedmap.New[string, Value](len(members))
	for _, m := range members {
		om.Set(m.Key, m.Value)
	}
	return Value{kind: Object, obj: om}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean payload; false for other kinds.
func (v Value) Bool() bool { return v.b }

// Number returns the number literal; empty for other kinds.
func (v Value) Number() json.Number { return v.num }

// Str returns the string payload; empty for other kinds.
func (v Value) Str() string { return v.str }

// Len returns the number of array items or object members.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return v.obj.Len()
	}
	return 0
}

// Index returns the i-th array item, or null if out of range.
func (v Value) Index(i int) Value {
	if v.kind != Array || i < 0 || i >= len(v.items) {
		return NullValue()
	}
	return v.items[i]
}

// Items returns a copy of the array items.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}
	cp := make([]Value, len(v.items))
	copy(cp, v.items)
	return cp
}

// Get looks up key in an object.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return NullValue(), false
	}
	return v.obj.Get(key)
}

// Members returns the object's members in insertion order.
func (v Value) Members() []Member {
	if v.kind != Object {
		return nil
	}
	out := make([]Member, 0, v.obj.Len())
	for pair := v.obj.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Member{Key: pair.Key, Value: pair.Value})
	}
	return out
}

// FromAny converts values produced by encoding/json (or built by hand from
// the same vocabulary) into a Value. Keys of plain Go maps are sorted since
// their order is undefined; *orderedmap.OrderedMap keeps its own order.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Number:
		return NumberLiteral(t), nil
	case float64:
		return NumberValue(t), nil
	case float32:
		return NumberValue(float64(t)), nil
	case int:
		return NumberLiteral(json.Number(strconv.Itoa(t))), nil
	case int64:
		return NumberLiteral(json.Number(strconv.FormatInt(t, 10))), nil
	case json.RawMessage:
		return Parse(t)
	case []any:
		items := make([]Value, 0, len(t))
		for i, e := range t {
			iv, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items = append(items, iv)
		}
		return Value{kind: Array, items: items}, nil
	case []string:
		items := make([]Value, 0, len(t))
		for _, s := range t {
			items = append(items, StringValue(s))
		}
		return Value{kind: Array, items: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		members := make([]Member, 0, len(keys))
		for _, k := range keys {
			mv, err := FromAny(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			members = append(members, Member{Key: k, Value: mv})
		}
		return ObjectValue(members...), nil
	case *orderedmap.OrderedMap[string, any]:
		members := make([]Member, 0, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			mv, err := FromAny(pair.Value)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", pair.Key, err)
			}
			members = append(members, Member{Key: pair.Key, Value: mv})
		}
		return ObjectValue(members...), nil
	default:
		return Value{}, fmt.Errorf("unsupported type %T", x)
	}
}

// Equal reports deep equality. Numbers compare by numeric value when both
// literals parse as float64, otherwise by literal text. Object comparison
// ignores member order.
func Equal(a, b Value) bool {
	type pair struct{ a, b Value }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.a.kind != p.b.kind {
			return false
		}
		switch p.a.kind {
		case Null:
		case Bool:
			if p.a.b != p.b.b {
				return false
			}
		case Number:
			if !numbersEqual(p.a.num, p.b.num) {
				return false
			}
		case String:
			if p.a.str != p.b.str {
				return false
			}
		case Array:
			if len(p.a.items) != len(p.b.items) {
				return false
			}
			for i := range p.a.items {
				stack = append(stack, pair{p.a.items[i], p.b.items[i]})
			}
		case Object:
			if p.a.obj.Len() != p.b.obj.Len() {
				return false
			}
			for kv := p.a.obj.Oldest(); kv != nil; kv = kv.Next() {
				other, ok := p.b.obj.Get(kv.Key)
				if !ok {
					return false
				}
				stack = append(stack, pair{kv.Value, other})
			}
		}
	}
	return true
}

func numbersEqual(a, b json.Number) bool {
	if a == b {
		return true
	}
	fa, errA := a.Float64()
	fb, errB := b.Float64()
	return errA == nil && errB == nil && fa == fb
}
