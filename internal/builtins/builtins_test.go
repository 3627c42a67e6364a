package builtins

import (
	"testing"

	"github.com/cwbudde/go-rexx/internal/interp/runtime"
)

// stubContext satisfies Context for direct function tests.
type stubContext struct {
	settings *runtime.NumericSettings
	queued   int
	vars     map[string]runtime.Value
	lastErr  ErrorInfo
}

func newStub() *stubContext {
	return &stubContext{
		settings: runtime.NewNumericSettings(),
		vars:     map[string]runtime.Value{},
	}
}

func (s *stubContext) Settings() *runtime.NumericSettings { return s.settings }
func (s *stubContext) Queued() int                        { return s.queued }
func (s *stubContext) Variable(name string) (runtime.Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}
func (s *stubContext) LastError() ErrorInfo { return s.lastErr }

func callFn(t *testing.T, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	fns := Register()
	fn, ok := fns.Get(name)
	if !ok {
		t.Fatalf("built-in %s not registered", name)
	}
	v, err := fn(newStub(), args)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	return v
}

func str(s string) runtime.Value { return runtime.NewString(s) }

func TestStringBuiltins(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []runtime.Value
		want string
	}{
		{"length", "LENGTH", []runtime.Value{str("hello")}, "5"},
		{"length empty", "LENGTH", []runtime.Value{str("")}, "0"},
		{"upper", "UPPER", []runtime.Value{str("MiXeD")}, "MIXED"},
		{"lower", "LOWER", []runtime.Value{str("MiXeD")}, "mixed"},
		{"strip both", "STRIP", []runtime.Value{str("  pad  ")}, "pad"},
		{"strip leading", "STRIP", []runtime.Value{str("  pad  "), str("L")}, "pad  "},
		{"substr", "SUBSTR", []runtime.Value{str("hello"), str("2"), str("3")}, "ell"},
		{"substr padded", "SUBSTR", []runtime.Value{str("ab"), str("1"), str("4")}, "ab  "},
		{"pos found", "POS", []runtime.Value{str("ll"), str("hello")}, "3"},
		{"pos missing", "POS", []runtime.Value{str("zz"), str("hello")}, "0"},
		{"reverse", "REVERSE", []runtime.Value{str("abc")}, "cba"},
		{"space", "SPACE", []runtime.Value{str("  a   b  ")}, "a b"},
		{"copies", "COPIES", []runtime.Value{str("ab"), str("3")}, "ababab"},
		{"word", "WORD", []runtime.Value{str("alpha beta gamma"), str("2")}, "beta"},
		{"word out of range", "WORD", []runtime.Value{str("alpha"), str("5")}, ""},
		{"words", "WORDS", []runtime.Value{str("alpha beta gamma")}, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := callFn(t, tt.fn, tt.args...).String(); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.fn, got, tt.want)
			}
		})
	}
}

func TestMathBuiltins(t *testing.T) {
	tests := []struct {
		name string
		fn   string
		args []runtime.Value
		want string
	}{
		{"abs negative", "ABS", []runtime.Value{str("-5")}, "5"},
		{"max", "MAX", []runtime.Value{str("2"), str("9"), str("4")}, "9"},
		{"min", "MIN", []runtime.Value{str("2"), str("9"), str("4")}, "2"},
		{"trunc", "TRUNC", []runtime.Value{str("3.79")}, "3"},
		{"trunc digits", "TRUNC", []runtime.Value{str("3.79"), str("1")}, "3.7"},
		{"sign positive", "SIGN", []runtime.Value{str("42")}, "1"},
		{"sign negative", "SIGN", []runtime.Value{str("-2")}, "-1"},
		{"sign zero", "SIGN", []runtime.Value{str("0")}, "0"},
		{"datatype num", "DATATYPE", []runtime.Value{str("12.5")}, "NUM"},
		{"datatype char", "DATATYPE", []runtime.Value{str("12x")}, "CHAR"},
		{"datatype whole", "DATATYPE", []runtime.Value{str("12"), str("W")}, "1"},
		{"datatype not whole", "DATATYPE", []runtime.Value{str("12.5"), str("W")}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := callFn(t, tt.fn, tt.args...).String(); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.fn, got, tt.want)
			}
		})
	}
}

func TestJSONBuiltins(t *testing.T) {
	parsed := callFn(t, "JSON_PARSE", str(`{"k":[1,2,3]}`))
	m, ok := parsed.(*runtime.MappingValue)
	if !ok {
		t.Fatalf("JSON_PARSE returned %T, want mapping", parsed)
	}
	arr, _ := m.Get("k")
	if got := callFn(t, "ARRAY_LENGTH", arr).String(); got != "3" {
		t.Errorf("ARRAY_LENGTH = %q, want 3", got)
	}

	pushed := callFn(t, "ARRAY_PUSH", arr, str("x"))
	if got := callFn(t, "ARRAY_LENGTH", pushed).String(); got != "4" {
		t.Errorf("ARRAY_LENGTH after push = %q, want 4", got)
	}

	if got := callFn(t, "JSON_STRINGIFY", parsed).String(); got != `{"k":[1,2,3,"x"]}` {
		t.Errorf("JSON_STRINGIFY = %q", got)
	}
}

func TestErrorContextBuiltins(t *testing.T) {
	fns := Register()
	ctx := newStub()
	ctx.lastErr = ErrorInfo{Line: 7, Message: "boom", FunctionName: "FAILING", OK: true}

	fn, _ := fns.Get("ERROR_LINE")
	if v, _ := fn(ctx, nil); v.String() != "7" {
		t.Errorf("ERROR_LINE = %q, want 7", v.String())
	}
	fn, _ = fns.Get("ERROR_MESSAGE")
	if v, _ := fn(ctx, nil); v.String() != "boom" {
		t.Errorf("ERROR_MESSAGE = %q, want boom", v.String())
	}
	fn, _ = fns.Get("ERROR_FUNCTION")
	if v, _ := fn(ctx, nil); v.String() != "FAILING" {
		t.Errorf("ERROR_FUNCTION = %q, want FAILING", v.String())
	}

	// Without a captured error, ERROR_LINE is 0.
	fn, _ = fns.Get("ERROR_LINE")
	if v, _ := fn(newStub(), nil); v.String() != "0" {
		t.Errorf("ERROR_LINE with no error = %q, want 0", v.String())
	}
}

func TestQueuedAndResult(t *testing.T) {
	fns := Register()
	ctx := newStub()
	ctx.queued = 3
	ctx.vars["RESULT"] = str("stored")

	fn, _ := fns.Get("QUEUED")
	if v, _ := fn(ctx, nil); v.String() != "3" {
		t.Errorf("QUEUED = %q, want 3", v.String())
	}
	fn, _ = fns.Get("RESULT")
	if v, _ := fn(ctx, nil); v.String() != "stored" {
		t.Errorf("RESULT = %q, want stored", v.String())
	}
}

func TestBuiltinErrors(t *testing.T) {
	fns := Register()
	ctx := newStub()

	fn, _ := fns.Get("SUBSTR")
	if _, err := fn(ctx, []runtime.Value{str("abc"), str("0")}); err == nil {
		t.Error("SUBSTR with start 0 must fail")
	}
	fn, _ = fns.Get("COPIES")
	if _, err := fn(ctx, []runtime.Value{str("a"), str("-1")}); err == nil {
		t.Error("COPIES with negative count must fail")
	}
	fn, _ = fns.Get("ABS")
	if _, err := fn(ctx, []runtime.Value{str("not numeric")}); err == nil {
		t.Error("ABS with non-numeric argument must fail")
	}
}
