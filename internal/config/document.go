package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a loosely typed JSON document node. Old config files are loaded
// into a Value so the migration can inspect and rewrite individual fields
// before the strict decode.
type Value struct {
	kind   Kind
	b      bool
	num    json.Number
	str    string
	arr    []Value
	fields map[string]Value
}

// Null, Bool, String and Object build Values of the matching kind.
func Null() Value { return Value{kind: KindNull} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Object() Value { return Value{kind: KindObject, fields: map[string]Value{}} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload when v holds a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsBool returns the bool payload when v holds a bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Has reports whether an object value carries key, whatever its value.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Get looks up key in an object value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// Set stores key in an object value. It panics on other kinds, which is a
// programming error in the migration code.
func (v Value) Set(key string, field Value) {
	if v.kind != KindObject {
		panic(fmt.Sprintf("config: Set on %s value", v.kind))
	}
	v.fields[key] = field
}

// Delete removes key from an object value; other kinds are left alone.
func (v Value) Delete(key string) {
	if v.kind == KindObject {
		delete(v.fields, key)
	}
}

// Keys returns the sorted keys of an object value.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseDocument decodes data into a Value. Numbers keep their textual form.
func ParseDocument(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("decode document: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("decode document: trailing data after top-level value")
	}
	return fromAny(raw)
}

// MarshalJSON encodes v back into JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.toAny())
}

// UnmarshalJSON decodes JSON into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDocument(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Value{kind: KindNumber, num: t}, nil
	case string:
		return String(t), nil
	case []any:
		arr := make([]Value, 0, len(t))
		for _, item := range t {
			v, err := fromAny(item)
			if err != nil {
				return Value{}, err
			}
			arr = append(arr, v)
		}
		return Value{kind: KindArray, arr: arr}, nil
	case map[string]any:
		obj := Object()
		for k, item := range t {
			v, err := fromAny(item)
			if err != nil {
				return Value{}, err
			}
			obj.fields[k] = v
		}
		return obj, nil
	default:
		return Value{}, fmt.Errorf("unexpected JSON value of type %T", raw)
	}
}

func (v Value) toAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, 0, len(v.arr))
		for _, item := range v.arr {
			out = append(out, item.toAny())
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.fields))
		for k, item := range v.fields {
			out[k] = item.toAny()
		}
		return out
	default:
		return nil
	}
}
