package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrTrailingData is returned by Parse when more than one JSON value is present.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// frame is an open container while decoding.
type frame struct {
	isObject bool
	items    []Value
	obj      *orderedmap.OrderedMap[string, Value]
	key      string
	haveKey  bool
}

// Parse decodes exactly one JSON value from data. Nesting is tracked on an
// explicit stack, so deeply nested documents do not grow the goroutine stack.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decode(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return Value{}, ErrTrailingData
		}
		return Value{}, fmt.Errorf("reading trailing data: %w", err)
	}
	return v, nil
}

func decode(dec *json.Decoder) (Value, error) {
	var stack []*frame

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return Value{}, fmt.Errorf("decoding JSON: %w", io.ErrUnexpectedEOF)
		}
		if err != nil {
			return Value{}, fmt.Errorf("decoding JSON: %w", err)
		}

		var (
			v        Value
			complete bool
		)

		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '[':
				stack = append(stack, &frame{})
				continue
			case '{':
				stack = append(stack, &frame{isObject: true, obj: orderedmap.New[string, Value]()})
				continue
			case ']', '}':
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.isObject {
					v = Value{kind: Object, obj: top.obj}
				} else {
					items := top.items
					if items == nil {
						items = []Value{}
					}
					v = Value{kind: Array, items: items}
				}
				complete = true
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].isObject && !stack[n-1].haveKey {
				stack[n-1].key = t
				stack[n-1].haveKey = true
				continue
			}
			v, complete = StringValue(t), true
		case json.Number:
			v, complete = NumberLiteral(t), true
		case bool:
			v, complete = BoolValue(t), true
		case nil:
			v, complete = NullValue(), true
		default:
			return Value{}, fmt.Errorf("decoding JSON: unexpected token %v", tok)
		}

		if !complete {
			continue
		}
		if len(stack) == 0 {
			return v, nil
		}
		top := stack[len(stack)-1]
		if top.isObject {
			top.obj.Set(top.key, v)
			top.key, top.haveKey = "", false
		} else {
			top.items = append(top.items, v)
		}
	}
}

// MarshalJSON encodes v compactly with object order preserved.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	// Work items are either literal text or a value still to be encoded,
	// pushed in reverse so they pop in document order.
	type task struct {
		text  string
		value *Value
	}
	stack := []task{{value: &v}}

	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if t.value == nil {
			buf.WriteString(t.text)
			continue
		}

		cur := t.value
		switch cur.kind {
		case Null:
			buf.WriteString("null")
		case Bool:
			if cur.b {
				buf.WriteString("true")
			} else {
				buf.WriteString("false")
			}
		case Number:
			buf.WriteString(cur.num.String())
		case String:
			if err := writeQuoted(&buf, cur.str); err != nil {
				return nil, err
			}
		case Array:
			buf.WriteByte('[')
			stack = append(stack, task{text: "]"})
			for i := len(cur.items) - 1; i >= 0; i-- {
				stack = append(stack, task{value: &cur.items[i]})
				if i > 0 {
					stack = append(stack, task{text: ","})
				}
			}
		case Object:
			buf.WriteByte('{')
			stack = append(stack, task{text: "}"})
			members := cur.Members()
			for i := len(members) - 1; i >= 0; i-- {
				key, err := Quote(members[i].Key)
				if err != nil {
					return nil, err
				}
				stack = append(stack, task{value: &members[i].Value})
				stack = append(stack, task{text: key + ":"})
				if i > 0 {
					stack = append(stack, task{text: ","})
				}
			}
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON lets Value sit inside structs decoded by encoding/json.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Pretty returns v encoded with two-space indentation.
func (v Value) Pretty() ([]byte, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("indenting JSON: %w", err)
	}
	return out.Bytes(), nil
}

// Quote returns s as a JSON string literal without HTML escaping.
func Quote(s string) (string, error) {
	var buf bytes.Buffer
	if err := writeQuoted(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeQuoted(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding string: %w", err)
	}
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
