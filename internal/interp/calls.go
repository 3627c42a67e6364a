package interp

import (
	"errors"
	"strings"

	"github.com/cwbudde/go-rexx/internal/ast"
	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/internal/parser"
	"github.com/cwbudde/go-rexx/pkg/ident"
	xgxerror "github.com/xgx-io/xgx-error"
)

// execCall binds arguments into argv, pushes a subroutine frame and runs
// the labelled range until its RETURN. External script names (anything
// with a file extension) delegate to a fresh engine instance. RESULT is
// populated with the callee's return value unless the CALL is the
// right-hand side of an assignment.
func (i *Interpreter) execCall(node *ast.Call, fromAssignment bool) (execResult, error) {
	args := make([]runtime.Value, 0, len(node.Args))
	for _, argExpr := range node.Args {
		v, err := i.evalExpression(argExpr)
		if err != nil {
			return execResult{}, err
		}
		args = append(args, v)
	}

	i.tracer.Call(node.Line(), "CALL "+node.Name)

	if isExternalScript(node.Name) {
		value, err := i.runExternalScript(node.Name, args)
		if err != nil {
			return execResult{}, err
		}
		if !fromAssignment {
			i.vars.Set("RESULT", value)
		}
		return execResult{value: value}, nil
	}

	labelIdx, ok := i.labels.Get(node.Name)
	if !ok {
		return i.callFunctionFallback(node, args, fromAssignment)
	}

	if i.callDepth >= DefaultMaxCallDepth {
		return execResult{}, newError(CodeHost, "CALL recursion exceeds %d frames", DefaultMaxCallDepth)
	}

	i.frames.Push(Frame{
		Kind:           FrameCall,
		LineNumber:     node.Line(),
		SourceLine:     node.Source(),
		SourceFilename: i.filename,
		Details:        node.Name,
	})
	i.callNames = append(i.callNames, node.Name)
	i.callDepth++
	savedArgv := i.argv
	i.argv = args

	res, err := i.runRange(labelIdx, true)

	i.argv = savedArgv
	i.callDepth--
	i.callNames = i.callNames[:len(i.callNames)-1]
	i.frames.Pop()

	if err != nil {
		return execResult{}, err
	}
	if res.flow == flowExit {
		return res, nil
	}

	value := res.value
	if value == nil {
		value = NewString("")
	}
	if !fromAssignment && res.flow == flowReturn && res.value != nil {
		i.vars.Set("RESULT", value)
	}
	return execResult{value: value}, nil
}

// callFunctionFallback lets CALL reach built-in and registered functions
// when no label matches the name.
func (i *Interpreter) callFunctionFallback(node *ast.Call, args []runtime.Value, fromAssignment bool) (execResult, error) {
	if fn, ok := i.builtins.Get(node.Name); ok {
		value, err := fn(i, args)
		if err != nil {
			return execResult{}, err
		}
		if !fromAssignment {
			i.vars.Set("RESULT", value)
		}
		return execResult{value: value}, nil
	}
	if fn, ok := i.external.Get(node.Name); ok {
		value, err := fn(args)
		if err != nil {
			return execResult{}, err
		}
		if !fromAssignment {
			i.vars.Set("RESULT", value)
		}
		return execResult{value: value}, nil
	}
	return execResult{}, newError(CodeMissingFunction, "subroutine %s not found: no such label, built-in or registered function", strings.ToUpper(node.Name))
}

// execReturn terminates the current subroutine, carrying the value.
func (i *Interpreter) execReturn(node *ast.Return) (execResult, error) {
	res := execResult{flow: flowReturn}
	if node.Expr != nil {
		value, err := i.evalExpression(node.Expr)
		if err != nil {
			return execResult{}, err
		}
		res.value = value
	}
	return res, nil
}

// execExit terminates the program. A non-numeric expression yields exit
// code 0.
func (i *Interpreter) execExit(node *ast.Exit) (execResult, error) {
	res := execResult{flow: flowExit}
	if node.Expr != nil {
		value, err := i.evalExpression(node.Expr)
		if err != nil {
			return execResult{}, err
		}
		if f, ok := runtime.NumericParse(value); ok {
			res.exitCode = int(f)
		}
	}
	return res, nil
}

// isExternalScript reports whether a CALL target follows the external
// script convention: a filename with an extension.
func isExternalScript(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	return dot > 0 && dot < len(name)-1
}

// runExternalScript executes a script file in a fresh engine instance
// sharing the ADDRESS registry, registered functions and the output sink,
// and returns the callee's RETURN value.
func (i *Interpreter) runExternalScript(name string, args []runtime.Value) (runtime.Value, error) {
	source, err := i.scripts.Read(name)
	if err != nil {
		return nil, wrapScriptError(err, name, 0)
	}

	instrs, perr := parser.Parse(source)
	if perr != nil {
		return nil, wrapScriptError(perr, name, 0)
	}

	child := i.newChild()
	child.filename = name
	child.argv = args

	prog := &ast.Program{Instructions: instrs, Source: source, Filename: name}
	result, rerr := child.Run(prog)
	if rerr != nil {
		return nil, wrapScriptError(rerr, name, child.currentLineNumber)
	}
	if result.ErrorMessage != "" {
		return nil, wrapScriptError(newError(CodeAddressFailure, "%s", result.ErrorMessage), name, child.currentLineNumber)
	}
	if result.Value == nil {
		return NewString(""), nil
	}
	return result.Value, nil
}

// newChild creates an engine instance sharing only the registries and the
// output sink with the parent; variables, traps and the stack are fresh.
func (i *Interpreter) newChild() *Interpreter {
	child := &Interpreter{
		output:       i.output,
		vars:         NewVariables(),
		settings:     runtime.NewNumericSettings(),
		stack:        runtime.NewDataStack(),
		builtins:     i.builtins,
		external:     i.external,
		paramOrder:   i.paramOrder,
		addresses:    i.addresses,
		activeTarget: DefaultTarget,
		traps:        NewTrapTable(),
		frames:       NewFrameStack(),
		labels:       ident.NewMap[int](),
		scripts:      i.scripts,
		loader:       i.loader,
		recognizable: i.recognizable,
	}
	child.tracer = NewTracer(i.output)
	return child
}

func wrapScriptError(err error, script string, line int) error {
	var xe xgxerror.Error
	if errors.As(err, &xe) {
		return xe.Code(CodeExternalScript).With("script", script).With("line", line)
	}
	return xgxerror.BadRequest(err.Error()).
		Code(CodeExternalScript).
		With("script", script).
		With("line", line)
}
