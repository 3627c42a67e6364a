package interp

import (
	"io"
	"strings"

	"github.com/cwbudde/go-rexx/internal/ast"
	"github.com/cwbudde/go-rexx/internal/builtins"
	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/pkg/ident"
	xgxerror "github.com/xgx-io/xgx-error"
)

// DefaultMaxCallDepth bounds CALL recursion.
const DefaultMaxCallDepth = 250

// whileIterationCap bounds DO WHILE loops against runaway conditions.
const whileIterationCap = 10000

// Interpreter executes a REXX instruction sequence and manages the
// runtime state: variables, numeric settings, the ADDRESS registry, the
// SIGNAL trap table, the data stack and the trace buffer. An interpreter
// is single-threaded; a program runs to completion within one goroutine.
type Interpreter struct {
	output   OutputSink
	vars     *Variables
	settings *NumericSettings
	stack    *runtime.DataStack

	builtins   *ident.Map[builtins.Function]
	external   *ident.Map[RegisteredFunction]
	paramOrder map[string][]string

	addresses    *AddressRegistry
	activeTarget string

	traps  *TrapTable
	tracer *Tracer
	frames *FrameStack

	program     []ast.Instruction
	labels      *ident.Map[int]
	sourceLines []string
	filename    string

	loader  LibraryLoader
	scripts ScriptSource

	argv        []runtime.Value
	callDepth   int
	callNames   []string
	noInterpret bool

	recognizable map[xgxerror.Code]bool
	lastError    *ErrorContext

	currentLineNumber int
	currentCommand    string
	currentFunction   string
}

// Option configures an Interpreter at construction.
type Option func(*Interpreter)

// WithFilename sets the script filename used in frames and diagnostics.
func WithFilename(name string) Option {
	return func(i *Interpreter) { i.filename = name }
}

// WithLoader installs the library loader REQUIRE delegates to.
func WithLoader(l LibraryLoader) Option {
	return func(i *Interpreter) { i.loader = l }
}

// WithScriptSource installs the reader used to resolve external scripts.
func WithScriptSource(s ScriptSource) Option {
	return func(i *Interpreter) { i.scripts = s }
}

// WithTraceStream forwards instruction trace events to the output sink.
func WithTraceStream() Option {
	return func(i *Interpreter) { i.tracer.SetStream(true) }
}

// WithNoInterpret disables INTERPRET for the whole run, as if the
// NO_INTERPRET directive had executed before the first instruction.
func WithNoInterpret() Option {
	return func(i *Interpreter) { i.noInterpret = true }
}

// WithRecognizableErrors replaces the set of error kinds that terminate
// gracefully when untrapped but at least one handler is configured.
func WithRecognizableErrors(codes ...xgxerror.Code) Option {
	return func(i *Interpreter) {
		i.recognizable = make(map[xgxerror.Code]bool, len(codes))
		for _, c := range codes {
			i.recognizable[c] = true
		}
	}
}

// New creates an Interpreter writing SAY output to the given writer.
func New(output io.Writer, opts ...Option) *Interpreter {
	sink := NewWriterSink(output, nil)
	i := &Interpreter{
		output:       sink,
		vars:         NewVariables(),
		settings:     runtime.NewNumericSettings(),
		stack:        runtime.NewDataStack(),
		builtins:     builtins.Register(),
		external:     ident.NewMap[RegisteredFunction](),
		paramOrder:   builtins.ParamOrder(),
		addresses:    NewAddressRegistry(),
		activeTarget: DefaultTarget,
		traps:        NewTrapTable(),
		frames:       NewFrameStack(),
		labels:       ident.NewMap[int](),
		scripts:      osScriptSource{},
		recognizable: map[xgxerror.Code]bool{
			CodeAddressFailure:  true,
			CodeMissingFunction: true,
		},
	}
	i.tracer = NewTracer(sink)
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Result is the outcome of a completed run.
type Result struct {
	// ExitCode is the EXIT code, or RC when a recognizable error
	// terminated the program.
	ExitCode int
	// ErrorMessage is set when a recognizable error terminated the run.
	ErrorMessage string
	// Value is the value of a top-level RETURN, if any.
	Value runtime.Value
}

// Run executes a parsed program. Unhandled errors are returned annotated
// with the offending line; recognizable errors terminate gracefully and
// surface through the Result instead.
func (i *Interpreter) Run(prog *ast.Program) (*Result, error) {
	i.program = prog.Instructions
	i.sourceLines = splitLines(prog.Source)
	if prog.Filename != "" {
		i.filename = prog.Filename
	}
	i.discoverLabels()

	i.frames.Push(Frame{Kind: FrameMain, LineNumber: 1, SourceFilename: i.filename})
	defer i.frames.Pop()

	res, err := i.runRange(0, false)
	if err != nil {
		return nil, err
	}

	out := &Result{ExitCode: res.exitCode, Value: res.value}
	if res.flow == flowExit && res.message != "" {
		out.ErrorMessage = res.message
	}
	return out, nil
}

// discoverLabels records the instruction index of every label so SIGNAL
// and CALL can resolve targets in one hop.
func (i *Interpreter) discoverLabels() {
	for idx, ins := range i.program {
		if lbl, ok := ins.(*ast.Label); ok {
			if !i.labels.Has(lbl.Name) {
				i.labels.Set(lbl.Name, idx)
			}
		}
	}
}

// Control flow of the recursive descent: instead of exceptions, every
// instruction returns an execResult whose flow field says how execution
// continues. Errors are reserved for genuine failures and routed through
// the SIGNAL machinery by runRange.
type flowKind int

const (
	flowNone flowKind = iota
	flowReturn
	flowExit
	flowSignal
)

type execResult struct {
	flow     flowKind
	value    runtime.Value // RETURN value
	exitCode int           // EXIT code
	label    string        // SIGNAL jump target
	message  string        // recognizable-error message on graceful exit
	skip     int           // skipCommands: extra program-counter advance
}

// runRange walks the program from pc until the end, a RETURN (when
// inSubroutine), or an EXIT. SIGNAL jumps — explicit or trap-driven —
// re-aim the program counter at the resolved label.
func (i *Interpreter) runRange(pc int, inSubroutine bool) (execResult, error) {
	for pc < len(i.program) {
		ins := i.program[pc]
		res, err := i.execTraced(ins)
		if err != nil {
			// The failing instruction may sit inside a nested block; the
			// cached projection points at it, not at the block header.
			line := i.currentLineNumber
			jump, unhandled := i.trapError(err, line, i.sourceLineAt(line))
			if unhandled != nil {
				return execResult{}, unhandled
			}
			res = jump
		}

		switch res.flow {
		case flowSignal:
			idx, ok := i.labels.Get(res.label)
			if !ok {
				return execResult{}, i.annotate(
					newError(CodeHost, "SIGNAL target label %q not found", res.label),
					ins.Line(), ins.Source())
			}
			pc = idx
			continue
		case flowReturn:
			if inSubroutine {
				return res, nil
			}
			// RETURN with an empty call stack ends the program.
			return execResult{value: res.value}, nil
		case flowExit:
			return res, nil
		}

		pc += 1 + res.skip
	}
	return execResult{}, nil
}

// execTraced runs one instruction with position bookkeeping and tracing.
func (i *Interpreter) execTraced(ins ast.Instruction) (execResult, error) {
	i.enterInstruction(ins.Line(), ins.Source())
	i.tracer.Instruction(ins.Line(), ins.Source())
	return i.execInstruction(ins)
}

// runBlock executes a nested instruction sequence (IF/DO/SELECT bodies).
// Flow results bubble to the caller; SIGNAL unwinds every enclosing block
// until runRange resolves the label.
func (i *Interpreter) runBlock(body []ast.Instruction) (execResult, error) {
	for _, ins := range body {
		res, err := i.execTraced(ins)
		if err != nil {
			return execResult{}, err
		}
		if res.flow != flowNone {
			return res, nil
		}
	}
	return execResult{}, nil
}

// execInstruction dispatches on the instruction kind.
func (i *Interpreter) execInstruction(ins ast.Instruction) (execResult, error) {
	switch node := ins.(type) {
	case *ast.Label:
		return execResult{}, nil
	case *ast.Assignment:
		return i.execAssignment(node)
	case *ast.Say:
		return i.execSay(node)
	case *ast.If:
		return i.execIf(node)
	case *ast.Select:
		return i.execSelect(node)
	case *ast.Do:
		return i.execDo(node)
	case *ast.Call:
		return i.execCall(node, false)
	case *ast.Return:
		return i.execReturn(node)
	case *ast.Exit:
		return i.execExit(node)
	case *ast.Signal:
		return i.execSignal(node)
	case *ast.SignalJump:
		return execResult{flow: flowSignal, label: node.Label}, nil
	case *ast.Address:
		i.activeTarget = node.Target
		return execResult{}, nil
	case *ast.AddressWithString:
		return i.execAddressWithString(node)
	case *ast.CommandString:
		err := i.dispatchCommand(node.Text, node.DoubleQuoted, node.Line(), node.Source())
		return execResult{}, err
	case *ast.Numeric:
		return i.execNumeric(node)
	case *ast.Parse:
		return i.execParse(node)
	case *ast.Push:
		return i.execPush(node)
	case *ast.Queue:
		return i.execQueue(node)
	case *ast.Pull:
		return i.execPull(node)
	case *ast.Trace:
		return execResult{}, i.tracer.SetMode(node.Mode)
	case *ast.FunctionCall:
		return i.execBareCall(node)
	case *ast.Interpret:
		return i.execInterpret(node)
	case *ast.NoInterpret:
		i.noInterpret = true
		return execResult{}, nil
	case *ast.Require:
		return i.execRequire(node)
	}
	return execResult{}, newError(CodeHost, "unknown instruction kind %q", ins.Kind())
}

// setRC stores the RC special variable.
func (i *Interpreter) setRC(rc int) {
	i.vars.Set("RC", i.settings.Number(float64(rc)))
}

// Variables exposes the variable store to hosts and tests.
func (i *Interpreter) Variables() *Variables { return i.vars }

// Tracer exposes the trace facility.
func (i *Interpreter) Tracer() *Tracer { return i.tracer }

// Addresses exposes the ADDRESS registry for host registration.
func (i *Interpreter) Addresses() *AddressRegistry { return i.addresses }

// Settings implements builtins.Context.
func (i *Interpreter) Settings() *NumericSettings { return i.settings }

// Queued implements builtins.Context.
func (i *Interpreter) Queued() int { return i.stack.Len() }

// Variable implements builtins.Context.
func (i *Interpreter) Variable(name string) (runtime.Value, bool) {
	return i.vars.Get(name)
}

// LastError implements builtins.Context.
func (i *Interpreter) LastError() builtins.ErrorInfo {
	if i.lastError == nil {
		return builtins.ErrorInfo{}
	}
	return builtins.ErrorInfo{
		Line:         i.lastError.Line,
		Message:      i.lastError.Message,
		FunctionName: i.lastError.FunctionName,
		OK:           true,
	}
}

// sourceLineAt returns the trimmed source text of a 1-based line.
func (i *Interpreter) sourceLineAt(line int) string {
	if line < 1 || line > len(i.sourceLines) {
		return ""
	}
	return strings.TrimSpace(i.sourceLines[line-1])
}

func splitLines(source string) []string {
	if source == "" {
		return nil
	}
	var lines []string
	start := 0
	for idx := 0; idx < len(source); idx++ {
		if source[idx] == '\n' {
			lines = append(lines, source[start:idx])
			start = idx + 1
		}
	}
	return append(lines, source[start:])
}
