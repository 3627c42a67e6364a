package runtime

import (
	"strings"

	"github.com/cwbudde/go-rexx/pkg/ident"
)

// Variables is the engine's variable store: a flat, case-insensitive map
// from variable name to value. Compound names (STEM.TAIL) are stored as
// flat keys; ResolveDotted additionally walks dotted segments through
// structured values.
type Variables struct {
	store *ident.Map[Value]
}

// NewVariables creates an empty variable store.
func NewVariables() *Variables {
	return &Variables{store: ident.NewMap[Value]()}
}

// Get retrieves a variable by name, matching case-insensitively.
func (v *Variables) Get(name string) (Value, bool) {
	return v.store.Get(name)
}

// GetOrAbsent retrieves a variable, or the AbsentValue placeholder whose
// string form is the uppercased name.
func (v *Variables) GetOrAbsent(name string) Value {
	if val, ok := v.store.Get(name); ok {
		return val
	}
	return &AbsentValue{Name: name}
}

// Set creates or replaces a variable.
func (v *Variables) Set(name string, value Value) {
	v.store.Set(name, value)
}

// Has reports whether a variable exists.
func (v *Variables) Has(name string) bool {
	return v.store.Has(name)
}

// Delete removes a variable.
func (v *Variables) Delete(name string) {
	v.store.Delete(name)
}

// Len returns the number of variables.
func (v *Variables) Len() int {
	return v.store.Len()
}

// Range iterates over all variables with their original-case names.
func (v *Variables) Range(f func(name string, value Value) bool) {
	v.store.Range(f)
}

// Snapshot returns a shallow copy of the store, keyed by original-case
// names. ADDRESS handlers receive such clones so they can read program
// state without mutating it.
func (v *Variables) Snapshot() map[string]Value {
	snap := make(map[string]Value, v.store.Len())
	v.store.Range(func(name string, value Value) bool {
		snap[name] = value
		return true
	})
	return snap
}

// ResolveDotted resolves A.B.C: first as a flat compound key, then by
// walking dotted segments through mapping and sequence values. The longest
// flat prefix wins before walking begins.
func (v *Variables) ResolveDotted(name string) (Value, bool) {
	if val, ok := v.store.Get(name); ok {
		return val, true
	}
	segments := strings.Split(name, ".")
	if len(segments) < 2 {
		return nil, false
	}
	// Try progressively shorter flat prefixes.
	for cut := len(segments) - 1; cut >= 1; cut-- {
		prefix := strings.Join(segments[:cut], ".")
		root, ok := v.store.Get(prefix)
		if !ok {
			continue
		}
		if val, ok := walkSegments(root, segments[cut:]); ok {
			return val, true
		}
	}
	return nil, false
}

func walkSegments(v Value, segments []string) (Value, bool) {
	cur := v
	for _, seg := range segments {
		switch node := cur.(type) {
		case *MappingValue:
			next, ok := node.Get(seg)
			if !ok {
				// Mapping keys are stored verbatim; retry case-insensitively
				// so RESULT.errorCode matches a handler's errorCode key.
				found := false
				for _, k := range node.Keys() {
					if ident.Equal(k, seg) {
						next, _ = node.Get(k)
						found = true
						break
					}
				}
				if !found {
					return nil, false
				}
			}
			cur = next
		case *SequenceValue:
			idx, ok := sequenceIndex(seg, len(node.Elements))
			if !ok {
				return nil, false
			}
			cur = node.Elements[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func sequenceIndex(seg string, length int) (int, bool) {
	n := 0
	for _, c := range seg {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n < 0 || n >= length {
		return 0, false
	}
	return n, true
}

// IterationItems returns the items DO OVER visits for a collection value.
// The base convention is detected per the hybrid heuristic: a mapping with
// a "1" key and no "0" key iterates 1..len inclusive; otherwise mappings
// iterate their values in key order; sequences iterate their elements;
// strings iterate per character.
func IterationItems(v Value) []Value {
	switch val := v.(type) {
	case *SequenceValue:
		items := make([]Value, len(val.Elements))
		copy(items, val.Elements)
		return items
	case *MappingValue:
		if val.Has("1") && !val.Has("0") {
			var items []Value
			for i := 1; i <= val.Len(); i++ {
				item, ok := val.Get(intKey(i))
				if !ok {
					break
				}
				items = append(items, item)
			}
			return items
		}
		var items []Value
		for _, k := range val.Keys() {
			item, _ := val.Get(k)
			items = append(items, item)
		}
		return items
	}
	// Strings iterate per character.
	s := v.String()
	items := make([]Value, 0, len(s))
	for _, r := range s {
		items = append(items, NewString(string(r)))
	}
	return items
}

func intKey(i int) string {
	if i >= 0 && i < 10 {
		return string(rune('0' + i))
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}
