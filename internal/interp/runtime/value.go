// Package runtime provides the unified runtime types of the REXX engine:
// the dynamic value model, the variable store, numeric settings and the
// data stack. It sits below both the interpreter and the built-in function
// library so the two never import each other.
package runtime

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/go-rexx/internal/jsonvalue"
)

// Value represents a runtime value in the REXX interpreter.
// All runtime values must implement this interface.
type Value interface {
	// Type returns the type name of the value (e.g., "STRING", "NUMBER").
	Type() string
	// String returns the REXX string form of the value.
	String() string
}

// StringValue is the REXX canonical value form. The result of its numeric
// parse is cached so repeated arithmetic does not re-scan the text.
type StringValue struct {
	Value string

	numParsed bool
	numOK     bool
	num       float64
}

// NewString creates a StringValue.
func NewString(s string) *StringValue {
	return &StringValue{Value: s}
}

// Type returns "STRING".
func (s *StringValue) Type() string { return "STRING" }

// String returns the string itself.
func (s *StringValue) String() string { return s.Value }

// Num returns the numeric interpretation of the string, caching the parse.
func (s *StringValue) Num() (float64, bool) {
	if !s.numParsed {
		s.numParsed = true
		trimmed := strings.TrimSpace(s.Value)
		if trimmed != "" {
			if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
				s.num, s.numOK = f, true
			}
		}
	}
	return s.num, s.numOK
}

// NumberValue is the arithmetic fast path. The lexeme, when present, is the
// already-rounded rendering under the NUMERIC DIGITS in force when the
// number was produced.
type NumberValue struct {
	Value  float64
	Lexeme string
}

// NewNumber creates a NumberValue without a pre-rendered lexeme.
func NewNumber(f float64) *NumberValue {
	return &NumberValue{Value: f}
}

// Type returns "NUMBER".
func (n *NumberValue) Type() string { return "NUMBER" }

// String returns the rendered numeric form.
func (n *NumberValue) String() string {
	if n.Lexeme != "" {
		return n.Lexeme
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// BooleanValue promotes to "1"/"0" in string contexts.
type BooleanValue struct {
	Value bool
}

// Type returns "BOOLEAN".
func (b *BooleanValue) Type() string { return "BOOLEAN" }

// String returns "1" or "0".
func (b *BooleanValue) String() string {
	if b.Value {
		return "1"
	}
	return "0"
}

// SequenceValue is an ordered list of values.
type SequenceValue struct {
	Elements []Value
}

// Type returns "SEQUENCE".
func (s *SequenceValue) Type() string { return "SEQUENCE" }

// String renders the sequence as JSON.
func (s *SequenceValue) String() string {
	return ToJSON(s).Compact()
}

// MappingValue is a string-keyed mapping preserving insertion order.
type MappingValue struct {
	keys    []string
	entries map[string]Value
}

// NewMapping creates an empty MappingValue.
func NewMapping() *MappingValue {
	return &MappingValue{entries: make(map[string]Value)}
}

// Type returns "MAPPING".
func (m *MappingValue) Type() string { return "MAPPING" }

// String renders the mapping as JSON.
func (m *MappingValue) String() string {
	return ToJSON(m).Compact()
}

// Get returns the value stored under key.
func (m *MappingValue) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Set stores value under key, appending the key on first insertion.
func (m *MappingValue) Set(key string, value Value) {
	if _, exists := m.entries[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = value
}

// Has reports whether key is present.
func (m *MappingValue) Has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

// Len returns the number of entries.
func (m *MappingValue) Len() int { return len(m.entries) }

// Keys returns the keys in insertion order.
func (m *MappingValue) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// OpaqueValue wraps a handler-returned Go value the engine does not
// interpret. It serializes to JSON when observed by REXX.
type OpaqueValue struct {
	Native any
}

// Type returns "OPAQUE".
func (o *OpaqueValue) Type() string { return "OPAQUE" }

// String renders the native value as JSON, or via fmt-style fallback.
func (o *OpaqueValue) String() string {
	return opaqueString(o.Native)
}

// AbsentValue stands for an uninitialised variable. Its string form is the
// uppercased variable name, per REXX tradition.
type AbsentValue struct {
	Name string
}

// Type returns "ABSENT".
func (a *AbsentValue) Type() string { return "ABSENT" }

// String returns the uppercased variable name.
func (a *AbsentValue) String() string { return strings.ToUpper(a.Name) }

// FromJSON converts a parsed JSON tree into runtime values.
func FromJSON(v *jsonvalue.Value) Value {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return NewString("")
	case jsonvalue.KindBoolean:
		return &BooleanValue{Value: v.BoolValue()}
	case jsonvalue.KindNumber:
		return NewNumber(v.NumberValue())
	case jsonvalue.KindString:
		return NewString(v.StringValue())
	case jsonvalue.KindArray:
		seq := &SequenceValue{}
		for _, e := range v.ArrayElements() {
			seq.Elements = append(seq.Elements, FromJSON(e))
		}
		return seq
	case jsonvalue.KindObject:
		m := NewMapping()
		for _, k := range v.ObjectKeys() {
			m.Set(k, FromJSON(v.ObjectGet(k)))
		}
		return m
	}
	return NewString("")
}

// ToJSON converts a runtime value into a JSON tree.
func ToJSON(v Value) *jsonvalue.Value {
	switch val := v.(type) {
	case nil:
		return jsonvalue.NewNull()
	case *StringValue:
		return jsonvalue.NewString(val.Value)
	case *NumberValue:
		return jsonvalue.NewNumber(val.Value)
	case *BooleanValue:
		return jsonvalue.NewBoolean(val.Value)
	case *SequenceValue:
		arr := jsonvalue.NewArray()
		for _, e := range val.Elements {
			arr.ArrayAppend(ToJSON(e))
		}
		return arr
	case *MappingValue:
		obj := jsonvalue.NewObject()
		for _, k := range val.Keys() {
			child, _ := val.Get(k)
			obj.ObjectSet(k, ToJSON(child))
		}
		return obj
	case *OpaqueValue:
		return opaqueJSON(val.Native)
	case *AbsentValue:
		return jsonvalue.NewString(val.String())
	}
	return jsonvalue.NewString(v.String())
}

func opaqueJSON(native any) *jsonvalue.Value {
	switch n := native.(type) {
	case nil:
		return jsonvalue.NewNull()
	case string:
		return jsonvalue.NewString(n)
	case bool:
		return jsonvalue.NewBoolean(n)
	case float64:
		return jsonvalue.NewNumber(n)
	case int:
		return jsonvalue.NewNumber(float64(n))
	case int64:
		return jsonvalue.NewNumber(float64(n))
	case Value:
		return ToJSON(n)
	case map[string]any:
		// Sorted keys keep handler-returned maps deterministic across runs.
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := jsonvalue.NewObject()
		for _, k := range keys {
			obj.ObjectSet(k, opaqueJSON(n[k]))
		}
		return obj
	case []any:
		arr := jsonvalue.NewArray()
		for _, e := range n {
			arr.ArrayAppend(opaqueJSON(e))
		}
		return arr
	}
	return jsonvalue.NewString(opaqueString(native))
}

func opaqueString(native any) string {
	switch n := native.(type) {
	case nil:
		return ""
	case string:
		return n
	case Value:
		return n.String()
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case int:
		return strconv.Itoa(n)
	case bool:
		if n {
			return "1"
		}
		return "0"
	}
	return opaqueJSON(native).Compact()
}
