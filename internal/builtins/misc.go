package builtins

import (
	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

func registerMisc(m *ident.Map[Function]) {
	m.Set("QUEUED", fnQueued)
	m.Set("ERROR_LINE", fnErrorLine)
	m.Set("ERROR_MESSAGE", fnErrorMessage)
	m.Set("ERROR_FUNCTION", fnErrorFunction)
	m.Set("RESULT", fnResult)
}

// QUEUED() returns the number of lines on the data stack.
func fnQueued(ctx Context, _ []runtime.Value) (runtime.Value, error) {
	return ctx.Settings().Number(float64(ctx.Queued())), nil
}

// ERROR_LINE() returns the source line of the last trapped error, or 0.
func fnErrorLine(ctx Context, _ []runtime.Value) (runtime.Value, error) {
	info := ctx.LastError()
	if !info.OK {
		return ctx.Settings().Number(0), nil
	}
	return ctx.Settings().Number(float64(info.Line)), nil
}

// ERROR_MESSAGE() returns the message of the last trapped error, or "".
func fnErrorMessage(ctx Context, _ []runtime.Value) (runtime.Value, error) {
	return runtime.NewString(ctx.LastError().Message), nil
}

// ERROR_FUNCTION() returns the function under evaluation when the last
// error was trapped, or "".
func fnErrorFunction(ctx Context, _ []runtime.Value) (runtime.Value, error) {
	return runtime.NewString(ctx.LastError().FunctionName), nil
}

// RESULT() with no arguments reads the RESULT special variable.
func fnResult(ctx Context, _ []runtime.Value) (runtime.Value, error) {
	if v, ok := ctx.Variable("RESULT"); ok {
		return v, nil
	}
	return runtime.NewString(""), nil
}
