// Package jsonvalue provides the in-memory JSON representation used when
// REXX values cross the JSON boundary: ADDRESS handler results, assignment
// auto-parsing of JSON-shaped strings, and the JSON built-ins. Object keys
// keep their insertion order so output is deterministic.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind represents the type of a JSON value.
type Kind uint8

// JSON value kinds.
const (
	KindNull Kind = iota
	KindObject
	KindArray
	KindString
	KindNumber
	KindBoolean
)

// String returns a human-readable form of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindObject:
		return "Object"
	case KindArray:
		return "Array"
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindBoolean:
		return "Boolean"
	default:
		return "Unknown"
	}
}

// Value is a JSON value. It intentionally avoids interface{} payloads so
// the engine's conversions stay type-safe.
type Value struct {
	kind Kind

	objEntries map[string]*Value
	objKeys    []string // preserves insertion order

	arrElems []*Value

	str  string
	num  float64
	bool bool
}

// Kind returns the kind of the value; a nil Value is Null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// NewNull returns a JSON null value.
func NewNull() *Value { return &Value{kind: KindNull} }

// NewBoolean returns a JSON boolean value.
func NewBoolean(b bool) *Value { return &Value{kind: KindBoolean, bool: b} }

// NewNumber returns a JSON number value.
func NewNumber(n float64) *Value { return &Value{kind: KindNumber, num: n} }

// NewString returns a JSON string value.
func NewString(s string) *Value { return &Value{kind: KindString, str: s} }

// NewArray returns an empty JSON array.
func NewArray() *Value { return &Value{kind: KindArray} }

// NewObject returns an empty JSON object.
func NewObject() *Value {
	return &Value{kind: KindObject, objEntries: make(map[string]*Value)}
}

// ObjectGet returns the member stored under key, or nil.
func (v *Value) ObjectGet(key string) *Value {
	if v.Kind() != KindObject {
		return nil
	}
	return v.objEntries[key]
}

// ObjectSet stores child under key, appending the key on first insertion.
func (v *Value) ObjectSet(key string, child *Value) {
	if v.Kind() != KindObject {
		return
	}
	if _, exists := v.objEntries[key]; !exists {
		v.objKeys = append(v.objKeys, key)
	}
	v.objEntries[key] = child
}

// ObjectKeys returns the object's keys in insertion order.
func (v *Value) ObjectKeys() []string {
	if v.Kind() != KindObject {
		return nil
	}
	keys := make([]string, len(v.objKeys))
	copy(keys, v.objKeys)
	return keys
}

// ArrayLen returns the number of array elements.
func (v *Value) ArrayLen() int {
	if v.Kind() != KindArray {
		return 0
	}
	return len(v.arrElems)
}

// ArrayGet returns the element at index, or nil when out of range.
func (v *Value) ArrayGet(index int) *Value {
	if v.Kind() != KindArray || index < 0 || index >= len(v.arrElems) {
		return nil
	}
	return v.arrElems[index]
}

// ArrayAppend appends child to the array.
func (v *Value) ArrayAppend(child *Value) {
	if v.Kind() != KindArray {
		return
	}
	v.arrElems = append(v.arrElems, child)
}

// ArrayElements returns the array's elements.
func (v *Value) ArrayElements() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	elems := make([]*Value, len(v.arrElems))
	copy(elems, v.arrElems)
	return elems
}

// BoolValue returns the boolean payload (false for other kinds).
func (v *Value) BoolValue() bool { return v.Kind() == KindBoolean && v.bool }

// StringValue returns the string payload ("" for other kinds).
func (v *Value) StringValue() string {
	if v.Kind() != KindString {
		return ""
	}
	return v.str
}

// NumberValue returns the numeric payload (0 for other kinds).
func (v *Value) NumberValue() float64 {
	if v.Kind() != KindNumber {
		return 0
	}
	return v.num
}

// Compact renders the value as compact JSON text.
func (v *Value) Compact() string {
	var buf bytes.Buffer
	v.writeTo(&buf)
	return buf.String()
}

// MarshalJSON implements json.Marshaler, preserving object key order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.writeTo(&buf)
	return buf.Bytes(), nil
}

func (v *Value) writeTo(buf *bytes.Buffer) {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBoolean:
		buf.WriteString(strconv.FormatBool(v.bool))
	case KindNumber:
		buf.WriteString(strconv.FormatFloat(v.num, 'g', -1, 64))
	case KindString:
		b, _ := json.Marshal(v.str)
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arrElems {
			if i > 0 {
				buf.WriteByte(',')
			}
			e.writeTo(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range v.objKeys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			v.objEntries[k].writeTo(buf)
		}
		buf.WriteByte('}')
	}
}
