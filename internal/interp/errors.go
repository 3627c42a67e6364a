package interp

import (
	"errors"
	"fmt"
	"time"

	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	xgxerror "github.com/xgx-io/xgx-error"
)

// Runtime error codes. Each code corresponds to one kind of the engine's
// error taxonomy; SIGNAL condition matching and the "recognizable" list
// both key off them.
const (
	CodeSyntax          xgxerror.Code = "rexx_syntax"
	CodeMissingFunction xgxerror.Code = "rexx_missing_function"
	CodeAddressFailure  xgxerror.Code = "rexx_address_failure"
	CodeExternalScript  xgxerror.Code = "rexx_external_script"
	CodeInterpret       xgxerror.Code = "rexx_interpret"
	CodeNumeric         xgxerror.Code = runtime.CodeNumeric
	CodeLoop            xgxerror.Code = "rexx_loop"
	CodeNoValue         xgxerror.Code = "rexx_novalue"
	CodeNotReady        xgxerror.Code = "rexx_notready"
	CodeHalt            xgxerror.Code = "rexx_halt"
	CodeHost            xgxerror.Code = "rexx_host"
)

// SIGNAL condition names.
const (
	CondError    = "ERROR"
	CondFailure  = "FAILURE"
	CondHalt     = "HALT"
	CondNoValue  = "NOVALUE"
	CondSyntax   = "SYNTAX"
	CondNotReady = "NOTREADY"
)

// ErrorContext captures the engine state at the point an error was raised.
// The ERROR_LINE, ERROR_MESSAGE and ERROR_FUNCTION built-ins read it, and
// handlers registered with SIGNAL ON can inspect it through them.
type ErrorContext struct {
	Line         int
	SourceLine   string
	Filename     string
	Message      string
	Command      string
	FunctionName string
	Variables    map[string]runtime.Value
	Timestamp    time.Time
	Stack        []Frame
}

// newError builds a classified runtime error.
func newError(code xgxerror.Code, format string, args ...any) error {
	return xgxerror.BadRequest(fmt.Sprintf(format, args...)).Code(code)
}

// errorCode extracts the classification code from an error, defaulting to
// the host kind for plain Go errors.
func errorCode(err error) xgxerror.Code {
	var xe xgxerror.Error
	if errors.As(err, &xe) {
		return xe.CodeVal()
	}
	return CodeHost
}

// errorField reads a structured context field attached to an error.
func errorField(err error, key string) (any, bool) {
	var xe xgxerror.Error
	if !errors.As(err, &xe) {
		return nil, false
	}
	v, ok := xe.Context()[key]
	return v, ok
}

// conditionFor maps an error code to the SIGNAL condition it raises.
func conditionFor(code xgxerror.Code) string {
	switch code {
	case CodeSyntax, CodeInterpret:
		return CondSyntax
	case CodeNoValue:
		return CondNoValue
	case CodeHalt:
		return CondHalt
	case CodeNotReady:
		return CondNotReady
	case CodeExternalScript:
		return CondFailure
	default:
		return CondError
	}
}

// annotate wraps an unhandled error with the current instruction's
// location so the top-level report can point at the offending line.
func (i *Interpreter) annotate(err error, line int, sourceLine string) error {
	var xe xgxerror.Error
	if !errors.As(err, &xe) {
		// Wrap plain errors without losing their message text.
		xe = xgxerror.BadRequest(err.Error()).Code(CodeHost)
	}
	return xe.With("line", line).With("source_line", sourceLine).With("script", i.filename)
}
