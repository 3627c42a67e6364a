package interp

import (
	"bytes"
	"strings"
	"testing"
)

func TestInterpretSharesScope(t *testing.T) {
	src := `LET x = 10
INTERPRET "LET x = x * 2"
SAY x`

	_, _, out := run(t, src)
	if out != "20\n" {
		t.Errorf("output = %q, want 20", out)
	}
}

func TestInterpretClassicExplicit(t *testing.T) {
	src := `LET x = 1
INTERPRET CLASSIC "LET x = x + 41"
SAY x`

	_, _, out := run(t, src)
	if out != "42\n" {
		t.Errorf("output = %q, want 42", out)
	}
}

func TestInterpretBuildsSourceDynamically(t *testing.T) {
	src := `LET stmt = 'SAY' '"dynamic"'
INTERPRET stmt`

	_, _, out := run(t, src)
	if out != "dynamic\n" {
		t.Errorf("output = %q, want dynamic", out)
	}
}

func TestIsolatedImportAndExport(t *testing.T) {
	src := `LET a = 5
LET b = 7
INTERPRET ISOLATED IMPORT(a, b) EXPORT(sum) "LET sum = a + b"
SAY sum`

	_, _, out := run(t, src)
	if out != "12\n" {
		t.Errorf("output = %q, want 12", out)
	}
}

func TestIsolatedDoesNotLeak(t *testing.T) {
	// Property 8: only names in the import/export clauses cross over.
	src := `LET secret = 'hidden'
INTERPRET ISOLATED "LET leaked = secret"
SAY leaked`

	_, _, out := run(t, src)
	// "secret" never entered the child, so the child bound leaked to the
	// absent form; "leaked" never came back, so the parent sees its own
	// absent form.
	if out != "LEAKED\n" {
		t.Errorf("output = %q, want the absent form LEAKED", out)
	}
}

func TestIsolatedCanCallParentSubroutines(t *testing.T) {
	src := `INTERPRET ISOLATED EXPORT(r) "LET r = CALL twice 21"
SAY r
EXIT
twice:
PARSE ARG n
RETURN n * 2`

	_, _, out := run(t, src)
	if out != "42\n" {
		t.Errorf("output = %q, want 42", out)
	}
}

// Property 7: INTERPRET before NO_INTERPRET works, after it fails.
func TestNoInterpretBlocksLaterInterprets(t *testing.T) {
	src := `INTERPRET "SAY 'early'"
NO_INTERPRET
INTERPRET "SAY 'late'"`

	out, err := runErr(t, src)
	if out != "early\n" {
		t.Errorf("output = %q, want only the early SAY", out)
	}
	if !strings.Contains(err.Error(), "NO_INTERPRET") {
		t.Errorf("error = %q, want a NO_INTERPRET message", err.Error())
	}
}

func TestWithNoInterpretOption(t *testing.T) {
	var buf bytes.Buffer
	eng := New(&buf, WithNoInterpret())
	_, err := eng.Run(mustParse(t, `INTERPRET "SAY 'never'"`))
	if err == nil {
		t.Fatal("expected INTERPRET to be disabled by the option")
	}
	if !strings.Contains(err.Error(), "NO_INTERPRET") {
		t.Errorf("error = %q, want a NO_INTERPRET message", err.Error())
	}
	if buf.String() != "" {
		t.Errorf("output = %q, want none", buf.String())
	}
}

func TestInterpretParseFailure(t *testing.T) {
	_, err := runErr(t, `INTERPRET "IF without then"`)
	if !strings.Contains(err.Error(), "INTERPRET") {
		t.Errorf("error = %q, want an INTERPRET parse message", err.Error())
	}
}

func TestInterpretErrorTrappable(t *testing.T) {
	src := `SIGNAL ON ERROR NAME h
INTERPRET "LET x = 1 / 0"
SAY 'unreachable'
h:
SAY 'trapped'`

	_, _, out := run(t, src)
	if out != "trapped\n" {
		t.Errorf("output = %q, want trapped", out)
	}
}

func TestExitPropagatesFromInterpret(t *testing.T) {
	src := `INTERPRET "EXIT 9"
SAY 'unreachable'`

	_, res, out := run(t, src)
	if out != "" {
		t.Errorf("output = %q, want none", out)
	}
	if res.ExitCode != 9 {
		t.Errorf("exit code = %d, want 9", res.ExitCode)
	}
}
