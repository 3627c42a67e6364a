package interp

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-rexx/internal/ast"
	"github.com/cwbudde/go-rexx/internal/parser"
)

// execInterpret parses and runs source text at runtime. Classic (and
// default) mode shares the full variable and handler state, so every
// mutation flows back; isolated mode builds a child engine that shares
// only the registries, labels and subroutines, with explicit variable
// imports and exports.
func (i *Interpreter) execInterpret(node *ast.Interpret) (execResult, error) {
	if i.noInterpret {
		return execResult{}, newError(CodeInterpret, "INTERPRET is disabled: NO_INTERPRET was executed earlier in this program")
	}

	value, err := i.evalExpression(node.Expr)
	if err != nil {
		return execResult{}, err
	}
	snippet := value.String()

	instrs, perr := parser.Parse(snippet)
	if perr != nil {
		return execResult{}, newError(CodeInterpret, "INTERPRET failed to parse %q at line %d: %v", snippet, node.Line(), perr)
	}

	i.frames.Push(Frame{
		Kind:           FrameInterpret,
		LineNumber:     node.Line(),
		SourceLine:     node.Source(),
		SourceFilename: i.filename,
		Details:        snippet,
	})
	defer i.frames.Pop()

	if node.Mode == ast.InterpretIsolated {
		return i.runIsolated(node, snippet, instrs)
	}

	// Classic sharing: the snippet executes against this engine's state.
	res, err := i.runBlock(instrs)
	if err != nil {
		return execResult{}, err
	}
	return res, nil
}

// runIsolated executes the snippet in a child engine. Only the names in
// the IMPORT clause enter the child, and only the names in the EXPORT
// clause come back; nothing else crosses the boundary.
func (i *Interpreter) runIsolated(node *ast.Interpret, snippet string, instrs []ast.Instruction) (execResult, error) {
	child := i.newChild()
	child.filename = i.filename
	// Subroutines of the enclosing program stay callable.
	child.program = i.program
	child.labels = i.labels

	for _, name := range node.ImportVars {
		if v, ok := i.vars.Get(name); ok {
			child.vars.Set(name, v)
		}
	}

	child.frames.Push(Frame{Kind: FrameInterpret, LineNumber: node.Line(), SourceFilename: i.filename, Details: snippet})
	res, err := child.runBlock(instrs)
	child.frames.Pop()
	if err != nil {
		return execResult{}, newError(CodeInterpret, "isolated INTERPRET of %q failed: %v\n%s", snippet, err, i.describeStack())
	}

	for _, name := range node.ExportVars {
		if v, ok := child.vars.Get(name); ok {
			i.vars.Set(name, v)
		}
	}

	// EXIT propagates; RETURN and SIGNAL stay inside the isolated scope.
	if res.flow == flowExit {
		return res, nil
	}
	return execResult{}, nil
}

// describeStack renders the execution-context stack for composed
// INTERPRET error messages.
func (i *Interpreter) describeStack() string {
	var sb strings.Builder
	for idx, f := range i.frames.Snapshot() {
		if idx > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "  at %s (%s: line %d)", f.Kind, f.SourceFilename, f.LineNumber)
	}
	return sb.String()
}
