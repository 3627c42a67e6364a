package interp

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/cwbudde/go-rexx/internal/interp/runtime"
)

// fakeScripts serves external script sources from memory.
type fakeScripts map[string]string

func (f fakeScripts) Read(name string) (string, error) {
	src, ok := f[name]
	if !ok {
		return "", fmt.Errorf("script %s not found", name)
	}
	return src, nil
}

func TestExternalScriptCall(t *testing.T) {
	scripts := fakeScripts{
		"helper.rexx": "PARSE ARG n\nRETURN n * 2",
	}

	var buf bytes.Buffer
	eng := New(&buf, WithScriptSource(scripts))
	src := `CALL helper.rexx 21
SAY RESULT`

	if _, err := eng.Run(mustParse(t, src)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "42\n" {
		t.Errorf("output = %q, want 42", got)
	}
}

func TestExternalScriptIsolatesVariables(t *testing.T) {
	scripts := fakeScripts{
		"probe.rexx": "LET stolen = secret\nRETURN stolen",
	}

	var buf bytes.Buffer
	eng := New(&buf, WithScriptSource(scripts))
	src := `LET secret = 'mine'
CALL probe.rexx
SAY RESULT`

	if _, err := eng.Run(mustParse(t, src)); err != nil {
		t.Fatal(err)
	}
	// The child engine never saw the parent's variables.
	if got := buf.String(); got != "SECRET\n" {
		t.Errorf("output = %q, want the absent form SECRET", got)
	}
}

func TestExternalScriptAssignmentForm(t *testing.T) {
	scripts := fakeScripts{
		"sum.rexx": "PARSE ARG a, b\nRETURN a + b",
	}

	var buf bytes.Buffer
	eng := New(&buf, WithScriptSource(scripts))
	src := `LET total = CALL sum.rexx 4 5
SAY total`

	if _, err := eng.Run(mustParse(t, src)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "9\n" {
		t.Errorf("output = %q, want 9", got)
	}
}

func TestExternalScriptFailureWrapped(t *testing.T) {
	scripts := fakeScripts{}

	var buf bytes.Buffer
	eng := New(&buf, WithScriptSource(scripts))
	_, err := eng.Run(mustParse(t, "CALL missing.rexx"))
	if err == nil {
		t.Fatal("expected an error for a missing script")
	}
	if !strings.Contains(err.Error(), "missing.rexx") {
		t.Errorf("error = %q, want the script path", err.Error())
	}
}

func TestRegisterFunction(t *testing.T) {
	var buf bytes.Buffer
	eng := New(&buf)
	err := eng.RegisterFunction("TITLE", func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("TITLE expects one argument")
		}
		s := args[0].String()
		if s == "" {
			return runtime.NewString(""), nil
		}
		return runtime.NewString(strings.ToUpper(s[:1]) + strings.ToLower(s[1:])), nil
	}, "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := eng.Run(mustParse(t, "SAY TITLE('rexx')")); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Rexx\n" {
		t.Errorf("output = %q, want Rexx", got)
	}
}

func TestRegisterFunctionWithPrefixRename(t *testing.T) {
	var buf bytes.Buffer
	eng := New(&buf)
	fn := func(args []runtime.Value) (runtime.Value, error) {
		return runtime.NewString("from library"), nil
	}
	if err := eng.RegisterFunction("fetch", fn, "db_(.*)"); err != nil {
		t.Fatal(err)
	}

	if _, err := eng.Run(mustParse(t, "SAY db_fetch()")); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "from library\n" {
		t.Errorf("output = %q, want the renamed function's result", got)
	}

	// The original name is not registered.
	if _, err := eng.Run(mustParse(t, "SAY fetch()")); err == nil {
		t.Error("original name resolved despite the AS rename")
	}
}

func TestRegisterFunctionCannotShadowBuiltin(t *testing.T) {
	eng := New(&bytes.Buffer{})
	err := eng.RegisterFunction("LENGTH", func([]runtime.Value) (runtime.Value, error) {
		return runtime.NewString("shadow"), nil
	}, "")
	if err == nil {
		t.Error("registration over a built-in was accepted")
	}
}

func TestRequireWithoutLoaderFails(t *testing.T) {
	_, err := runErr(t, `REQUIRE "anything"`)
	if !strings.Contains(err.Error(), "loader") {
		t.Errorf("error = %q, want a no-loader message", err.Error())
	}
}

func TestScriptLibraryLoader(t *testing.T) {
	scripts := fakeScripts{
		"mathlib.rexx": `double:
PARSE ARG n
RETURN n * 2
triple:
PARSE ARG n
RETURN n * 3`,
	}

	var buf bytes.Buffer
	eng := New(&buf, WithLoader(&ScriptLibraryLoader{Source: scripts}), WithScriptSource(scripts))
	src := `REQUIRE "mathlib.rexx"
SAY double(4) triple(3)`

	if _, err := eng.Run(mustParse(t, src)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "8 9\n" {
		t.Errorf("output = %q, want \"8 9\"", got)
	}
}
