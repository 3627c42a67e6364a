// Package builtins implements the REXX built-in function library. The
// functions reach engine state only through the Context interface, which
// keeps this package free of interpreter imports.
package builtins

import (
	"github.com/cwbudde/go-rexx/internal/interp/runtime"
)

// ErrorInfo is the captured error context the ERROR_* functions expose.
type ErrorInfo struct {
	Line         int
	Message      string
	FunctionName string
	OK           bool
}

// Context gives built-in functions access to engine state.
type Context interface {
	// Settings returns the engine's NUMERIC settings.
	Settings() *runtime.NumericSettings
	// Queued returns the number of lines on the data stack.
	Queued() int
	// Variable reads a variable from the engine's store.
	Variable(name string) (runtime.Value, bool)
	// LastError returns the most recently captured error context.
	LastError() ErrorInfo
}

// Function is the registration signature of a built-in.
type Function func(ctx Context, args []runtime.Value) (runtime.Value, error)
