// Package errors formats REXX runtime errors for terminal output. It
// renders the failing source line with a visual indicator and composes
// the standard `Rexx <KIND>: ...` header from the structured context the
// engine attaches to its errors.
package errors

import (
	"errors"
	"fmt"
	"strings"

	xgxerror "github.com/xgx-io/xgx-error"
)

// RuntimeError is a formatted runtime failure with source position.
type RuntimeError struct {
	Kind       string
	Message    string
	SourceLine string
	File       string
	Line       int
	Source     string
}

// FromError extracts position and classification from an engine error.
// The source text, when available, enables the excerpt rendering.
func FromError(err error, source string) *RuntimeError {
	re := &RuntimeError{
		Kind:    "ERROR",
		Message: err.Error(),
		Source:  source,
	}
	var xe xgxerror.Error
	if errors.As(err, &xe) {
		re.Kind = kindName(xe.CodeVal())
		ctx := xe.Context()
		if v, ok := ctx["line"].(int); ok {
			re.Line = v
		}
		if v, ok := ctx["source_line"].(string); ok {
			re.SourceLine = v
		}
		if v, ok := ctx["script"].(string); ok {
			re.File = v
		}
	}
	return re
}

// kindName maps engine error codes to the user-facing taxonomy names.
func kindName(code xgxerror.Code) string {
	switch string(code) {
	case "rexx_syntax":
		return "SYNTAX"
	case "rexx_missing_function":
		return "MISSING FUNCTION"
	case "rexx_address_failure":
		return "ADDRESS FAILURE"
	case "rexx_external_script":
		return "EXTERNAL SCRIPT"
	case "rexx_interpret":
		return "INTERPRET"
	case "rexx_numeric":
		return "NUMERIC"
	case "rexx_loop":
		return "LOOP"
	case "rexx_novalue":
		return "NOVALUE"
	case "rexx_notready":
		return "NOTREADY"
	case "rexx_halt":
		return "HALT"
	default:
		return "ERROR"
	}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return e.Format(false)
}

// Format renders the error. If color is true, ANSI codes highlight the
// indicator and message for terminal output.
func (e *RuntimeError) Format(color bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("Rexx %s: %s", e.Kind, e.SourceLine)
	if e.File != "" || e.Line > 0 {
		header += fmt.Sprintf(" (%s: %d)", e.File, e.Line)
	}
	sb.WriteString(header)
	sb.WriteString("\n")

	sourceLine := e.getSourceLine(e.Line)
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString(strings.Repeat("^", max(1, len(strings.TrimSpace(sourceLine)))))
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// getSourceLine extracts a specific line from the source code.
// Lines are 1-indexed.
func (e *RuntimeError) getSourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
