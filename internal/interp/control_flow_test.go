package interp

import (
	"strings"
	"testing"
)

func TestIfElseBranches(t *testing.T) {
	src := `LET x = 5
IF x > 3 THEN
SAY "big"
ELSE
SAY "small"`

	_, _, out := run(t, src)
	if out != "big\n" {
		t.Errorf("output = %q, want big", out)
	}

	src = `LET x = 1
IF x > 3 THEN
SAY "big"
ELSE
SAY "small"`
	_, _, out = run(t, src)
	if out != "small\n" {
		t.Errorf("output = %q, want small", out)
	}
}

func TestIfWithoutElse(t *testing.T) {
	_, _, out := run(t, "IF 0 THEN\nSAY 'skipped'\nSAY 'after'")
	if out != "after\n" {
		t.Errorf("output = %q, want after only", out)
	}
}

func TestSelectFirstMatchWins(t *testing.T) {
	src := `LET x = 2
SELECT
WHEN x = 1 THEN SAY "one"
WHEN x = 2 THEN SAY "two"
WHEN x > 0 THEN SAY "positive"
OTHERWISE
SAY "other"
END`

	_, _, out := run(t, src)
	if out != "two\n" {
		t.Errorf("output = %q, want two (first match only)", out)
	}
}

func TestSelectOtherwise(t *testing.T) {
	src := `LET x = 9
SELECT
WHEN x = 1 THEN SAY "one"
OTHERWISE
SAY "fallback"
END`

	_, _, out := run(t, src)
	if out != "fallback\n" {
		t.Errorf("output = %q, want fallback", out)
	}
}

func TestDoRangeIterationCount(t *testing.T) {
	// Property: DO v = a TO b BY s runs floor((b-a)/s)+1 times.
	tests := []struct {
		src  string
		want string
	}{
		{"DO i = 1 TO 5\nSAY i\nEND", "1\n2\n3\n4\n5\n"},
		{"DO i = 2 TO 10 BY 3\nSAY i\nEND", "2\n5\n8\n"},
		{"DO i = 5 TO 1 BY -2\nSAY i\nEND", "5\n3\n1\n"},
		{"DO i = 3 TO 1\nSAY i\nEND", ""}, // empty range with positive step
	}
	for _, tt := range tests {
		_, _, out := run(t, tt.src)
		if out != tt.want {
			t.Errorf("%q output = %q, want %q", tt.src, out, tt.want)
		}
	}
}

func TestDoRangeStepZero(t *testing.T) {
	_, err := runErr(t, "DO i = 1 TO 3 BY 0\nSAY i\nEND")
	if !strings.Contains(err.Error(), "step") {
		t.Errorf("error = %q, want a step message", err.Error())
	}
}

func TestDoRangeLoopVariableAfterLoop(t *testing.T) {
	// Fresh variable: keeps the value that ended the loop.
	_, _, out := run(t, "DO i = 1 TO 3\nNOP\nEND\nSAY i")
	if out != "4\n" {
		t.Errorf("fresh loop variable = %q, want 4", out)
	}

	// Pre-existing variable: restored after the loop.
	_, _, out = run(t, "LET i = 99\nDO i = 1 TO 3\nNOP\nEND\nSAY i")
	if out != "99\n" {
		t.Errorf("pre-existing loop variable = %q, want 99", out)
	}
}

func TestDoWhile(t *testing.T) {
	src := `LET n = 0
DO WHILE n < 3
LET n = n + 1
END
SAY n`

	_, _, out := run(t, src)
	if out != "3\n" {
		t.Errorf("output = %q, want 3", out)
	}
}

func TestDoWhileIterationCap(t *testing.T) {
	_, err := runErr(t, "DO WHILE 1\nNOP\nEND")
	if !strings.Contains(err.Error(), "10000") {
		t.Errorf("error = %q, want the iteration cap", err.Error())
	}
}

func TestDoRepeat(t *testing.T) {
	_, _, out := run(t, "DO 3\nSAY 'x'\nEND")
	if out != "x\nx\nx\n" {
		t.Errorf("output = %q, want three lines", out)
	}

	_, _, out = run(t, "DO 0\nSAY 'x'\nEND\nSAY 'done'")
	if out != "done\n" {
		t.Errorf("zero-count output = %q, want done only", out)
	}

	_, err := runErr(t, "DO -1\nSAY 'x'\nEND")
	if !strings.Contains(err.Error(), "non-negative") {
		t.Errorf("error = %q, want non-negative message", err.Error())
	}
}

func TestDoOverString(t *testing.T) {
	_, _, out := run(t, "DO ch OVER 'abc'\nSAY ch\nEND")
	if out != "a\nb\nc\n" {
		t.Errorf("output = %q, want per-character lines", out)
	}
}

func TestDoOverSequence(t *testing.T) {
	src := `LET items = JSON_PARSE('["x","y"]')
DO item OVER items
SAY item
END`

	_, _, out := run(t, src)
	if out != "x\ny\n" {
		t.Errorf("output = %q, want x then y", out)
	}
}

func TestReturnInsideLoopBubbles(t *testing.T) {
	src := `CALL find
SAY RESULT
EXIT
find:
DO i = 1 TO 10
IF i = 4 THEN RETURN i
END
RETURN 0`

	_, _, out := run(t, src)
	if out != "4\n" {
		t.Errorf("output = %q, want 4 (RETURN escapes the loop)", out)
	}
}

func TestExitInsideNestedBlocks(t *testing.T) {
	src := `DO i = 1 TO 10
IF i = 2 THEN EXIT 5
SAY i
END`

	_, res, out := run(t, src)
	if out != "1\n" {
		t.Errorf("output = %q, want 1 only", out)
	}
	if res.ExitCode != 5 {
		t.Errorf("exit code = %d, want 5", res.ExitCode)
	}
}

func TestSignalJumpTerminatesLoop(t *testing.T) {
	src := `DO i = 1 TO 10
IF i = 3 THEN SIGNAL out
SAY i
END
out:
SAY 'jumped'`

	_, _, out := run(t, src)
	if out != "1\n2\njumped\n" {
		t.Errorf("output = %q, want 1 2 jumped", out)
	}
}
