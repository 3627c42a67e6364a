package interp

import (
	"math"

	"github.com/cwbudde/go-rexx/internal/ast"
	"github.com/cwbudde/go-rexx/internal/interp/runtime"
)

// execIf evaluates the condition and runs the matching branch.
func (i *Interpreter) execIf(node *ast.If) (execResult, error) {
	cond, err := i.evalExpression(node.Condition)
	if err != nil {
		return execResult{}, err
	}

	i.frames.Push(Frame{Kind: FrameIf, LineNumber: node.Line(), SourceLine: node.Source(), SourceFilename: i.filename})
	defer i.frames.Pop()

	if runtime.IsTruthy(cond) {
		return i.runBlock(node.Then)
	}
	return i.runBlock(node.Else)
}

// execSelect runs the first WHEN whose condition is true, or OTHERWISE.
func (i *Interpreter) execSelect(node *ast.Select) (execResult, error) {
	i.frames.Push(Frame{Kind: FrameSelect, LineNumber: node.Line(), SourceLine: node.Source(), SourceFilename: i.filename})
	defer i.frames.Pop()

	for _, when := range node.Whens {
		cond, err := i.evalExpression(when.Condition)
		if err != nil {
			return execResult{}, err
		}
		if runtime.IsTruthy(cond) {
			return i.runBlock(when.Body)
		}
	}
	return i.runBlock(node.Otherwise)
}

// execDo dispatches on the loop variant.
func (i *Interpreter) execDo(node *ast.Do) (execResult, error) {
	i.frames.Push(Frame{Kind: FrameDo, LineNumber: node.Line(), SourceLine: node.Source(), SourceFilename: i.filename})
	defer i.frames.Pop()

	switch node.Variant {
	case ast.DoSimple:
		return i.runBlock(node.Body)
	case ast.DoRange:
		return i.execDoRange(node)
	case ast.DoWhile:
		return i.execDoWhile(node)
	case ast.DoRepeat:
		return i.execDoRepeat(node)
	case ast.DoOver:
		return i.execDoOver(node)
	}
	return execResult{}, newError(CodeSyntax, "unknown DO variant")
}

// execDoRange runs DO v = start TO end [BY step]. All three bounds parse
// as integers; step 0 is an error. A pre-existing loop variable is
// restored after the loop, otherwise the final value is kept.
func (i *Interpreter) execDoRange(node *ast.Do) (execResult, error) {
	start, err := i.evalInt(node.Start, "DO start")
	if err != nil {
		return execResult{}, err
	}
	end, err := i.evalInt(node.End, "DO end")
	if err != nil {
		return execResult{}, err
	}
	step := int64(1)
	if node.Step != nil {
		step, err = i.evalInt(node.Step, "DO step")
		if err != nil {
			return execResult{}, err
		}
	}
	if step == 0 {
		return execResult{}, newError(CodeLoop, "DO step must not be zero")
	}

	previous, existed := i.vars.Get(node.Control)
	defer func() {
		if existed {
			i.vars.Set(node.Control, previous)
		}
	}()

	v := start
	for ; (step > 0 && v <= end) || (step < 0 && v >= end); v += step {
		i.vars.Set(node.Control, i.settings.Number(float64(v)))
		res, err := i.runBlock(node.Body)
		if err != nil {
			return execResult{}, err
		}
		if res.flow != flowNone {
			return res, nil
		}
	}
	if !existed {
		i.vars.Set(node.Control, i.settings.Number(float64(v)))
	}
	return execResult{}, nil
}

// execDoWhile re-evaluates the condition each iteration, capped at 10,000
// iterations as a runaway guard.
func (i *Interpreter) execDoWhile(node *ast.Do) (execResult, error) {
	for iter := 0; ; iter++ {
		if iter >= whileIterationCap {
			return execResult{}, newError(CodeLoop, "DO WHILE exceeded %d iterations", whileIterationCap)
		}
		cond, err := i.evalExpression(node.Condition)
		if err != nil {
			return execResult{}, err
		}
		if !runtime.IsTruthy(cond) {
			return execResult{}, nil
		}
		res, err := i.runBlock(node.Body)
		if err != nil {
			return execResult{}, err
		}
		if res.flow != flowNone {
			return res, nil
		}
	}
}

// execDoRepeat runs the body a fixed non-negative number of times.
func (i *Interpreter) execDoRepeat(node *ast.Do) (execResult, error) {
	count, err := i.evalInt(node.Count, "DO count")
	if err != nil {
		return execResult{}, err
	}
	if count < 0 {
		return execResult{}, newError(CodeLoop, "DO count must be non-negative, got %d", count)
	}
	for n := int64(0); n < count; n++ {
		res, err := i.runBlock(node.Body)
		if err != nil {
			return execResult{}, err
		}
		if res.flow != flowNone {
			return res, nil
		}
	}
	return execResult{}, nil
}

// execDoOver iterates a sequence, mapping or string per the collection
// iteration contract. The control variable keeps the last visited item
// unless it existed before the loop.
func (i *Interpreter) execDoOver(node *ast.Do) (execResult, error) {
	collection, err := i.evalExpression(node.Collection)
	if err != nil {
		return execResult{}, err
	}

	previous, existed := i.vars.Get(node.Control)
	defer func() {
		if existed {
			i.vars.Set(node.Control, previous)
		}
	}()

	for _, item := range runtime.IterationItems(collection) {
		i.vars.Set(node.Control, item)
		res, err := i.runBlock(node.Body)
		if err != nil {
			return execResult{}, err
		}
		if res.flow != flowNone {
			return res, nil
		}
	}
	return execResult{}, nil
}

// evalInt evaluates an expression to a whole number.
func (i *Interpreter) evalInt(expr ast.Expression, what string) (int64, error) {
	value, err := i.evalExpression(expr)
	if err != nil {
		return 0, err
	}
	f, ok := runtime.NumericParse(value)
	if !ok || f != math.Trunc(f) {
		return 0, newError(CodeLoop, "%s must be a whole number, got %q", what, value.String())
	}
	return int64(f), nil
}
