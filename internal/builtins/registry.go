package builtins

import (
	"fmt"

	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

// Register returns the built-in function table.
func Register() *ident.Map[Function] {
	m := ident.NewMap[Function]()

	registerStrings(m)
	registerMath(m)
	registerJSON(m)
	registerDateTime(m)
	registerMisc(m)

	return m
}

// ParamOrder maps function names to the positional order of their named
// parameters. The engine converts name=value arguments to positional
// arguments through this table.
func ParamOrder() map[string][]string {
	return map[string][]string{
		"length":       {"string"},
		"upper":        {"string"},
		"lower":        {"string"},
		"strip":        {"string", "option", "character"},
		"substr":       {"string", "start", "length", "pad"},
		"pos":          {"needle", "haystack", "start"},
		"reverse":      {"string"},
		"space":        {"string", "n", "pad"},
		"copies":       {"string", "n"},
		"word":         {"string", "n"},
		"words":        {"string"},
		"abs":          {"number"},
		"max":          {"a", "b"},
		"min":          {"a", "b"},
		"trunc":        {"number", "digits"},
		"sign":         {"number"},
		"datatype":     {"string", "type"},
		"json_parse":   {"text"},
		"json_stringify": {"value"},
		"array_length": {"array"},
		"array_push":   {"array", "item"},
		"date":         {"option"},
		"time":         {"option"},
	}
}

// argString extracts argument n as a Go string.
func argString(args []runtime.Value, n int) (string, error) {
	if n >= len(args) {
		return "", fmt.Errorf("missing argument %d", n+1)
	}
	return args[n].String(), nil
}

// argNumber extracts argument n as a float64.
func argNumber(args []runtime.Value, n int) (float64, error) {
	if n >= len(args) {
		return 0, fmt.Errorf("missing argument %d", n+1)
	}
	f, ok := runtime.NumericParse(args[n])
	if !ok {
		return 0, fmt.Errorf("argument %d is not numeric: %q", n+1, args[n].String())
	}
	return f, nil
}

// optNumber extracts optional argument n, defaulting when absent.
func optNumber(args []runtime.Value, n int, def float64) (float64, error) {
	if n >= len(args) {
		return def, nil
	}
	return argNumber(args, n)
}

// optString extracts optional argument n, defaulting when absent.
func optString(args []runtime.Value, n int, def string) string {
	if n >= len(args) {
		return def
	}
	return args[n].String()
}
