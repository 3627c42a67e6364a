package interp

import (
	"math"
	"sort"
	"strings"

	"github.com/cwbudde/go-rexx/internal/ast"
	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

// specialVariables resolve before anything else, even when an ADDRESS
// method of the same name exists.
var specialVariables = []string{"RC", "RESULT", "ERRORTEXT", "SIGL"}

// evalExpression evaluates an expression node to a runtime value.
func (i *Interpreter) evalExpression(expr ast.Expression) (runtime.Value, error) {
	switch node := expr.(type) {
	case *ast.StringLit:
		if node.DoubleQuoted {
			return NewString(i.interpolate(node.Value)), nil
		}
		return NewString(node.Value), nil
	case *ast.NumberLit:
		return &runtime.NumberValue{Value: node.Value, Lexeme: node.Literal}, nil
	case *ast.VarRef:
		return i.evalBareName(node.Name)
	case *ast.FuncCall:
		return i.evalFuncCall(node)
	case *ast.Binary:
		return i.evalBinary(node)
	case *ast.Unary:
		return i.evalUnary(node)
	case *ast.Concat:
		return i.evalConcat(node)
	}
	return nil, newError(CodeSyntax, "unsupported expression node %T", expr)
}

// evalBareName resolves a lone name: special variable, then an active
// ADDRESS method, then the variable store. An uninitialised name yields
// its AbsentValue placeholder unless SIGNAL ON NOVALUE is armed.
func (i *Interpreter) evalBareName(name string) (runtime.Value, error) {
	if ident.Contains(specialVariables, name) {
		if v, ok := i.vars.Get(name); ok {
			return v, nil
		}
	}

	// When the active target declares a method of this name, a built-in or
	// registered function of the same name takes precedence over it;
	// otherwise the name goes straight to the variable store.
	if target, ok := i.addresses.Get(i.activeTarget); ok && target.HasMethod(name) {
		if fn, ok := i.builtins.Get(name); ok {
			i.tracer.Call(i.currentLineNumber, name+"()")
			return fn(i, nil)
		}
		if fn, ok := i.external.Get(name); ok {
			i.tracer.Call(i.currentLineNumber, name+"()")
			return fn(nil)
		}
		return i.dispatchMethod(target, name, map[string]runtime.Value{}, i.currentLineNumber, i.sourceLineAt(i.currentLineNumber))
	}

	if v, ok := i.vars.ResolveDotted(name); ok {
		return v, nil
	}
	if trap, ok := i.traps.Get(CondNoValue); ok && trap.Enabled {
		return nil, newError(CodeNoValue, "variable %s is not initialised", strings.ToUpper(name))
	}
	return &runtime.AbsentValue{Name: name}, nil
}

// evalFuncCall resolves a call in the documented order: built-in function
// first (built-ins always win), then externally registered functions, then
// the active ADDRESS target's methods, then a missing-function error.
func (i *Interpreter) evalFuncCall(call *ast.FuncCall) (runtime.Value, error) {
	args, named, err := i.evalArgs(call)
	if err != nil {
		return nil, err
	}

	// currentFunction is restored only on success: when the call fails,
	// the error context must still name the function under evaluation.
	prevFunction := i.currentFunction
	i.currentFunction = call.Name

	if fn, ok := i.builtins.Get(call.Name); ok {
		positional := i.toPositional(call.Name, args, named)
		i.tracer.Call(i.currentLineNumber, call.String())
		v, err := fn(i, positional)
		if err != nil {
			return nil, err
		}
		i.currentFunction = prevFunction
		return v, nil
	}

	if fn, ok := i.external.Get(call.Name); ok {
		positional := i.toPositional(call.Name, args, named)
		i.tracer.Call(i.currentLineNumber, call.String())
		v, err := fn(positional)
		if err != nil {
			return nil, err
		}
		i.currentFunction = prevFunction
		return v, nil
	}

	if target, ok := i.addresses.Get(i.activeTarget); ok && target.HasMethod(call.Name) {
		params := make(map[string]runtime.Value, len(args))
		for idx, arg := range args {
			key := intToKey(idx + 1)
			if idx < len(call.Names) && call.Names[idx] != "" {
				key = call.Names[idx]
			}
			params[key] = arg
		}
		i.tracer.Call(i.currentLineNumber, call.String())
		v, err := i.dispatchMethod(target, call.Name, params, i.currentLineNumber, i.sourceLineAt(i.currentLineNumber))
		if err != nil {
			return nil, err
		}
		i.currentFunction = prevFunction
		return v, nil
	}

	return nil, newError(CodeMissingFunction,
		"function %s is not defined; check for a typo, a missing REQUIRE for the library that provides it, or an inactive ADDRESS target whose methods include it",
		strings.ToUpper(call.Name))
}

// evalArgs evaluates call arguments, separating named from positional.
func (i *Interpreter) evalArgs(call *ast.FuncCall) ([]runtime.Value, map[string]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(call.Args))
	var named map[string]runtime.Value
	for idx, argExpr := range call.Args {
		v, err := i.evalExpression(argExpr)
		if err != nil {
			return nil, nil, err
		}
		if idx < len(call.Names) && call.Names[idx] != "" {
			if named == nil {
				named = make(map[string]runtime.Value)
			}
			named[call.Names[idx]] = v
		} else {
			args = append(args, v)
		}
	}
	return args, named, nil
}

// toPositional merges named arguments into positional order using the
// per-function parameter table. Unknown names append in call order.
func (i *Interpreter) toPositional(name string, positional []runtime.Value, named map[string]runtime.Value) []runtime.Value {
	if len(named) == 0 {
		return positional
	}
	out := append([]runtime.Value{}, positional...)
	if order, ok := i.paramOrder[ident.Normalize(name)]; ok {
		matched := false
		for _, param := range order {
			if v, exists := namedLookup(named, param); exists {
				out = append(out, v)
				matched = true
			}
		}
		if matched {
			return out
		}
	}
	// No conversion entry (or no table name matched): append the named
	// arguments sorted by name so the call stays deterministic.
	keys := make([]string, 0, len(named))
	for k := range named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, named[k])
	}
	return out
}

func namedLookup(named map[string]runtime.Value, param string) (runtime.Value, bool) {
	for k, v := range named {
		if ident.Equal(k, param) {
			return v, true
		}
	}
	return nil, false
}

func intToKey(n int) string {
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if len(digits) == 0 {
		return "0"
	}
	return string(digits)
}

// evalBinary applies a binary operator under REXX semantics: arithmetic
// on the numeric interpretations, comparisons via compareValues, logic on
// truthiness.
func (i *Interpreter) evalBinary(node *ast.Binary) (runtime.Value, error) {
	left, err := i.evalExpression(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(node.Right)
	if err != nil {
		return nil, err
	}

	var result runtime.Value
	switch node.Op {
	case "+", "-", "*", "/", "//", "%", "**":
		result, err = i.arith(node.Op, left, right)
	case "=":
		result = Bool(runtime.Equal(left, right, i.settings))
	case "==":
		result = Bool(runtime.StrictEqual(left, right))
	case "\\=", "<>":
		result = Bool(!runtime.Equal(left, right, i.settings))
	case "<":
		result = Bool(runtime.Compare(left, right, i.settings) < 0)
	case "<=":
		result = Bool(runtime.Compare(left, right, i.settings) <= 0)
	case ">":
		result = Bool(runtime.Compare(left, right, i.settings) > 0)
	case ">=":
		result = Bool(runtime.Compare(left, right, i.settings) >= 0)
	case "&":
		result = Bool(runtime.IsTruthy(left) && runtime.IsTruthy(right))
	case "|":
		result = Bool(runtime.IsTruthy(left) || runtime.IsTruthy(right))
	default:
		err = newError(CodeSyntax, "unknown operator %q", node.Op)
	}
	if err != nil {
		return nil, err
	}
	i.tracer.Intermediate(i.currentLineNumber, node.String(), result)
	return result, nil
}

func (i *Interpreter) arith(op string, left, right runtime.Value) (runtime.Value, error) {
	a, aOK := runtime.NumericParse(left)
	b, bOK := runtime.NumericParse(right)
	if !aOK || !bOK {
		return nil, newError(CodeSyntax, "operator %q requires numeric operands, got %q and %q",
			op, left.String(), right.String())
	}
	var f float64
	switch op {
	case "+":
		f = a + b
	case "-":
		f = a - b
	case "*":
		f = a * b
	case "/":
		if b == 0 {
			return nil, newError(CodeNumeric, "division by zero")
		}
		f = a / b
	case "//":
		if b == 0 {
			return nil, newError(CodeNumeric, "division by zero")
		}
		f = math.Mod(a, b)
	case "%":
		if b == 0 {
			return nil, newError(CodeNumeric, "division by zero")
		}
		f = math.Trunc(a / b)
	case "**":
		f = math.Pow(a, b)
	}
	return i.settings.Number(f), nil
}

func (i *Interpreter) evalUnary(node *ast.Unary) (runtime.Value, error) {
	operand, err := i.evalExpression(node.Operand)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case "-":
		f, ok := runtime.NumericParse(operand)
		if !ok {
			return nil, newError(CodeSyntax, "unary - requires a numeric operand, got %q", operand.String())
		}
		return i.settings.Number(-f), nil
	case "+":
		f, ok := runtime.NumericParse(operand)
		if !ok {
			return nil, newError(CodeSyntax, "unary + requires a numeric operand, got %q", operand.String())
		}
		return i.settings.Number(f), nil
	case "\\":
		return Bool(!runtime.IsTruthy(operand)), nil
	}
	return nil, newError(CodeSyntax, "unknown unary operator %q", node.Op)
}

// evalConcat joins the string forms of the parts. Explicit || joins with
// no separator; adjacency joins with a single blank, except after a part
// ending in "=" (the `SAY "label=" value` idiom renders without a gap).
func (i *Interpreter) evalConcat(node *ast.Concat) (runtime.Value, error) {
	var sb strings.Builder
	for idx, part := range node.Parts {
		v, err := i.evalExpression(part)
		if err != nil {
			return nil, err
		}
		text := v.String()
		if idx > 0 && node.Spaced && !strings.HasSuffix(sb.String(), "=") {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return NewString(sb.String()), nil
}
