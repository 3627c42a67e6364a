package builtins

import (
	"fmt"

	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/internal/jsonvalue"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

func registerJSON(m *ident.Map[Function]) {
	m.Set("JSON_PARSE", fnJSONParse)
	m.Set("JSON_STRINGIFY", fnJSONStringify)
	m.Set("ARRAY_LENGTH", fnArrayLength)
	m.Set("ARRAY_PUSH", fnArrayPush)
}

// JSON_PARSE(text) parses JSON text into a structured value.
func fnJSONParse(_ Context, args []runtime.Value) (runtime.Value, error) {
	text, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	parsed, err := jsonvalue.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("JSON_PARSE: %w", err)
	}
	return runtime.FromJSON(parsed), nil
}

// JSON_STRINGIFY(value) renders any value as compact JSON text.
func fnJSONStringify(_ Context, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("missing argument 1")
	}
	return runtime.NewString(runtime.ToJSON(args[0]).Compact()), nil
}

// ARRAY_LENGTH(array) returns the element count of a sequence, the entry
// count of a mapping, or 0 for scalars.
func fnArrayLength(ctx Context, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("missing argument 1")
	}
	switch v := args[0].(type) {
	case *runtime.SequenceValue:
		return ctx.Settings().Number(float64(len(v.Elements))), nil
	case *runtime.MappingValue:
		return ctx.Settings().Number(float64(v.Len())), nil
	}
	return ctx.Settings().Number(0), nil
}

// ARRAY_PUSH(array, item) appends item and returns the sequence.
func fnArrayPush(_ Context, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("ARRAY_PUSH expects an array and an item")
	}
	seq, ok := args[0].(*runtime.SequenceValue)
	if !ok {
		return nil, fmt.Errorf("ARRAY_PUSH expects a sequence, got %s", args[0].Type())
	}
	seq.Elements = append(seq.Elements, args[1])
	return seq, nil
}
