package runtime

import "strings"

// IsTruthy implements REXX truthiness: "1" and any numerically non-zero
// value are true; "0", the empty string and non-numeric strings are false.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case *BooleanValue:
		return val.Value
	case *NumberValue:
		return val.Value != 0
	case *SequenceValue:
		return len(val.Elements) > 0
	case *MappingValue:
		return val.Len() > 0
	case *AbsentValue:
		return false
	}
	s := v.String()
	if s == "" {
		return false
	}
	if f, ok := NumericParse(v); ok {
		return f != 0
	}
	return false
}

// NumericParse returns the numeric interpretation of a value, using the
// per-value parse cache where one exists.
func NumericParse(v Value) (float64, bool) {
	switch val := v.(type) {
	case *NumberValue:
		return val.Value, true
	case *BooleanValue:
		if val.Value {
			return 1, true
		}
		return 0, true
	case *StringValue:
		return val.Num()
	}
	return 0, false
}

// Compare orders two values per REXX rules: numerically when both operands
// parse as numbers under the current settings, lexicographically on the
// string forms otherwise.
func Compare(a, b Value, settings *NumericSettings) int {
	fa, aOK := NumericParse(a)
	fb, bOK := NumericParse(b)
	if aOK && bOK {
		return settings.Compare(fa, fb)
	}
	return strings.Compare(a.String(), b.String())
}

// Equal reports REXX `=` equality: numeric when both operands are numeric,
// string equality otherwise.
func Equal(a, b Value, settings *NumericSettings) bool {
	return Compare(a, b, settings) == 0
}

// StrictEqual reports REXX `==` equality: exact string-form match.
func StrictEqual(a, b Value) bool {
	return a.String() == b.String()
}

// Bool converts a Go bool into the REXX "1"/"0" boolean value.
func Bool(b bool) *BooleanValue {
	return &BooleanValue{Value: b}
}
