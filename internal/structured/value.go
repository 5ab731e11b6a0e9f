// Package structured models loosely shaped remote payloads as a generic
// value over decoded JSON (null, bool, number, string, mapping, sequence)
// with fallback-returning accessors. Both the subscription collection and
// the entitlement service return partially populated documents; accessors
// here never panic on missing or mistyped data.
package structured

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Fallback is the display value substituted for absent data in report cells.
const Fallback = "-"

// Value wraps a decoded JSON document or fragment. The zero Value is null.
type Value struct {
	raw interface{}
}

// Decode parses a JSON document into a Value.
func Decode(data []byte) (Value, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Value{}, err
	}
	return Value{raw: raw}, nil
}

// DecodeList parses a JSON array into a slice of Values.
func DecodeList(data []byte) ([]Value, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return v.Values(), nil
}

// FromAny wraps an already decoded value.
func FromAny(raw interface{}) Value {
	if v, ok := raw.(Value); ok {
		return v
	}
	return Value{raw: raw}
}

// Raw returns the underlying decoded value.
func (v Value) Raw() interface{} {
	return v.raw
}

// IsNull reports whether the value is null or absent.
func (v Value) IsNull() bool {
	return v.raw == nil
}

// Get returns the named field of a mapping, or null for anything else.
func (v Value) Get(key string) Value {
	m, ok := v.raw.(map[string]interface{})
	if !ok {
		return Value{}
	}
	return Value{raw: m[key]}
}

// Index returns the i-th element of a sequence, or null when out of range.
func (v Value) Index(i int) Value {
	s, ok := v.raw.([]interface{})
	if !ok || i < 0 || i >= len(s) {
		return Value{}
	}
	return Value{raw: s[i]}
}

// First returns the first element of a sequence, or null when empty.
func (v Value) First() Value {
	return v.Index(0)
}

// Len returns the length of a sequence, or 0 for anything else.
func (v Value) Len() int {
	s, ok := v.raw.([]interface{})
	if !ok {
		return 0
	}
	return len(s)
}

// Values returns the elements of a sequence, or nil for anything else.
func (v Value) Values() []Value {
	s, ok := v.raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]Value, len(s))
	for i, e := range s {
		out[i] = Value{raw: e}
	}
	return out
}

// Scalar returns the raw value, or def when null.
func (v Value) Scalar(def interface{}) interface{} {
	if v.raw == nil {
		return def
	}
	return v.raw
}

// StringOr returns the value as a string, or def when null or not a string.
func (v Value) StringOr(def string) string {
	if s, ok := v.raw.(string); ok {
		return s
	}
	return def
}

// Float returns the value as a float64, or def otherwise. JSON numbers
// decode as float64.
func (v Value) Float(def float64) float64 {
	if f, ok := v.raw.(float64); ok {
		return f
	}
	return def
}

// Int returns the value as an int64, truncating JSON numbers, or def.
func (v Value) Int(def int64) int64 {
	if f, ok := v.raw.(float64); ok {
		return int64(f)
	}
	return def
}

// Bool returns the value as a bool, or def otherwise.
func (v Value) Bool(def bool) bool {
	if b, ok := v.raw.(bool); ok {
		return b
	}
	return def
}

// Lookup performs the two-level mapping access used throughout the report:
// base[outer][inner] when both levels are present and base[outer] is a
// non-empty mapping, the "-" fallback otherwise. The raw inner value is
// returned so non-string scalars (booleans, numbers) pass through intact.
func (v Value) Lookup(outer, inner string) interface{} {
	m, ok := v.raw.(map[string]interface{})
	if !ok {
		return Fallback
	}
	o, ok := m[outer]
	if !ok {
		return Fallback
	}
	om, ok := o.(map[string]interface{})
	if !ok || len(om) == 0 {
		return Fallback
	}
	val, ok := om[inner]
	if !ok {
		return Fallback
	}
	return val
}

// ParameterValue returns the value of the parameter with the given id from a
// sequence of {id, value} mappings, or def when no such parameter exists.
func ParameterValue(params Value, id string, def interface{}) interface{} {
	for _, p := range params.Values() {
		if p.Get("id").StringOr("") == id {
			return p.Get("value").Scalar(def)
		}
	}
	return def
}
