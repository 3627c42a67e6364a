// Package interp provides the interpreter and runtime engine for REXX
// programs: instruction execution, expression evaluation, the ADDRESS
// subsystem, SIGNAL condition traps, INTERPRET, TRACE and the data stack.
package interp

import (
	"github.com/cwbudde/go-rexx/internal/interp/runtime"
)

// Value is a type alias for runtime.Value so code in this package (and its
// callers) can use the value model without importing the runtime package.
type Value = runtime.Value

// Variables aliases the runtime variable store.
type Variables = runtime.Variables

// NumericSettings aliases the runtime NUMERIC settings.
type NumericSettings = runtime.NumericSettings

// NewVariables creates a new empty variable store.
func NewVariables() *Variables {
	return runtime.NewVariables()
}

// NewString wraps a Go string into the REXX canonical value form.
func NewString(s string) *runtime.StringValue {
	return runtime.NewString(s)
}

// Bool wraps a Go bool into the REXX "1"/"0" boolean value.
func Bool(b bool) *runtime.BooleanValue {
	return runtime.Bool(b)
}
