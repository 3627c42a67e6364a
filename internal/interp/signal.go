package interp

import (
	"time"

	"github.com/cwbudde/go-rexx/pkg/ident"
)

// Trap is one SIGNAL ON registration. A trap that has fired stays disabled
// until the program re-arms it with SIGNAL ON, which prevents a handler
// from recursively trapping its own failures.
type Trap struct {
	Condition string
	Label     string
	Enabled   bool
}

// TrapTable maps condition names to their registered handlers. At most one
// handler exists per condition.
type TrapTable struct {
	traps *ident.Map[*Trap]
}

// NewTrapTable creates an empty trap table.
func NewTrapTable() *TrapTable {
	return &TrapTable{traps: ident.NewMap[*Trap]()}
}

var conditions = []string{CondError, CondFailure, CondHalt, CondNoValue, CondSyntax, CondNotReady}

// ValidCondition reports whether name is a known SIGNAL condition.
func ValidCondition(name string) bool {
	return ident.Contains(conditions, name)
}

// Arm registers (or re-arms) a handler for the condition.
func (t *TrapTable) Arm(condition, label string) {
	t.traps.Set(condition, &Trap{Condition: condition, Label: label, Enabled: true})
}

// Disarm removes the handler for the condition.
func (t *TrapTable) Disarm(condition string) {
	t.traps.Delete(condition)
}

// Get returns the trap registered for the condition.
func (t *TrapTable) Get(condition string) (*Trap, bool) {
	return t.traps.Get(condition)
}

// AnyConfigured reports whether any handler is registered, enabled or not.
func (t *TrapTable) AnyConfigured() bool {
	return t.traps.Len() > 0
}

// trapError routes a runtime error through the SIGNAL machinery. It
// captures the error context, populates RC, ERRORTEXT and SIGL, and
// returns a jump result when an armed trap matches. When no trap matches
// but the error kind is on the recognizable list (and at least one handler
// is configured), the program terminates gracefully with the error message
// and RC as exit code. Anything else is annotated and handed back as an
// unhandled error.
func (i *Interpreter) trapError(err error, line int, sourceLine string) (execResult, error) {
	code := errorCode(err)

	rc := 1
	if v, ok := errorField(err, "rc"); ok {
		if n, isInt := v.(int); isInt {
			rc = n
		}
	}

	i.lastError = &ErrorContext{
		Line:         line,
		SourceLine:   sourceLine,
		Filename:     i.filename,
		Message:      err.Error(),
		Command:      i.currentCommand,
		FunctionName: i.currentFunction,
		Variables:    i.vars.Snapshot(),
		Timestamp:    time.Now(),
		Stack:        i.frames.Snapshot(),
	}

	i.setRC(rc)
	i.vars.Set("ERRORTEXT", NewString(err.Error()))
	i.vars.Set("SIGL", i.settings.Number(float64(line)))

	condition := conditionFor(code)
	if trap, ok := i.traps.Get(condition); ok && trap.Enabled {
		trap.Enabled = false
		i.tracer.Instruction(line, "SIGNAL "+condition+" -> "+trap.Label)
		return execResult{flow: flowSignal, label: trap.Label}, nil
	}

	if i.recognizable[code] && i.traps.AnyConfigured() {
		return execResult{flow: flowExit, exitCode: rc, message: err.Error()}, nil
	}

	return execResult{}, i.annotate(err, line, sourceLine)
}
