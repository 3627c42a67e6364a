package interp

import (
	"strings"

	"github.com/cwbudde/go-rexx/internal/ast"
	"github.com/cwbudde/go-rexx/internal/interp/runtime"
	"github.com/cwbudde/go-rexx/internal/jsonvalue"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

// execAssignment handles the three assignment sub-shapes: CALL right-hand
// side, bare-name ADDRESS method dispatch, and ordinary expressions.
// A result whose string form is syntactically valid JSON is parsed into a
// structured value unless the source was a quoted literal.
func (i *Interpreter) execAssignment(node *ast.Assignment) (execResult, error) {
	if node.Call != nil {
		res, err := i.execCall(node.Call, true)
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
		i.vars.Set(node.Target, value)
		i.tracer.Assignment(node.Line(), node.Target, value)
		return execResult{}, nil
	}

	value, err := i.evalExpression(node.Expr)
	if err != nil {
		return execResult{}, err
	}

	_, quoted := node.Expr.(*ast.StringLit)
	if !quoted {
		if s, ok := value.(*runtime.StringValue); ok && jsonvalue.LooksLikeJSON(s.Value) {
			if parsed, perr := jsonvalue.Parse(s.Value); perr == nil {
				value = runtime.FromJSON(parsed)
			}
		}
	}

	i.vars.Set(node.Target, value)
	i.tracer.Assignment(node.Line(), node.Target, value)
	return execResult{}, nil
}

// execSay writes the string form of the expression to the output sink.
func (i *Interpreter) execSay(node *ast.Say) (execResult, error) {
	value, err := i.evalExpression(node.Expr)
	if err != nil {
		return execResult{}, err
	}
	text := value.String()
	i.output.WriteLine(text)
	i.tracer.Output(node.Line(), text)
	return execResult{}, nil
}

// execSignal arms or disarms a condition trap.
func (i *Interpreter) execSignal(node *ast.Signal) (execResult, error) {
	if !ValidCondition(node.Condition) {
		return execResult{}, newError(CodeSyntax, "unknown SIGNAL condition %q", node.Condition)
	}
	if node.On {
		i.traps.Arm(node.Condition, node.Label)
	} else {
		i.traps.Disarm(node.Condition)
	}
	return execResult{}, nil
}

// execAddressWithString dispatches one command to a named target without
// switching the active target. A double-quoted literal keeps its raw text
// so interpolation stays under the target's metadata control.
func (i *Interpreter) execAddressWithString(node *ast.AddressWithString) (execResult, error) {
	if lit, ok := node.Command.(*ast.StringLit); ok {
		err := i.dispatchCommandTo(node.Target, lit.Value, lit.DoubleQuoted, node.Line(), node.Source())
		return execResult{}, err
	}
	value, err := i.evalExpression(node.Command)
	if err != nil {
		return execResult{}, err
	}
	err = i.dispatchCommandTo(node.Target, value.String(), false, node.Line(), node.Source())
	return execResult{}, err
}

// execNumeric mutates one NUMERIC setting in place.
func (i *Interpreter) execNumeric(node *ast.Numeric) (execResult, error) {
	if node.Value == nil {
		return execResult{}, newError(CodeNumeric, "NUMERIC %s requires a value", node.Setting)
	}
	value, err := i.evalExpression(node.Value)
	if err != nil {
		return execResult{}, err
	}

	switch {
	case ident.Equal(node.Setting, "DIGITS"):
		f, ok := runtime.NumericParse(value)
		if !ok {
			return execResult{}, newError(CodeNumeric, "NUMERIC DIGITS requires a number, got %q", value.String())
		}
		return execResult{}, i.settings.SetDigits(int(f))
	case ident.Equal(node.Setting, "FUZZ"):
		f, ok := runtime.NumericParse(value)
		if !ok {
			return execResult{}, newError(CodeNumeric, "NUMERIC FUZZ requires a number, got %q", value.String())
		}
		return execResult{}, i.settings.SetFuzz(int(f))
	case ident.Equal(node.Setting, "FORM"):
		return execResult{}, i.settings.SetForm(value.String())
	}
	return execResult{}, newError(CodeNumeric, "unknown NUMERIC setting %q", node.Setting)
}

// execParse binds text from ARG/VAR/VALUE through a template.
func (i *Interpreter) execParse(node *ast.Parse) (execResult, error) {
	switch node.Origin {
	case ast.ParseArg:
		i.bindArgTemplate(node.Template)
		return execResult{}, nil
	case ast.ParseVar, ast.ParseValue:
		value, err := i.evalExpression(node.Source)
		if err != nil {
			return execResult{}, err
		}
		i.bindWords(node.Template, value.String())
		return execResult{}, nil
	}
	return execResult{}, newError(CodeSyntax, "unknown PARSE origin %q", node.Origin)
}

// bindArgTemplate distributes argv across comma-separated template slots:
// each slot receives the next argument, word-split within the slot.
func (i *Interpreter) bindArgTemplate(template []string) {
	slot := 0
	var current []string
	flush := func() {
		text := ""
		if slot < len(i.argv) {
			text = i.argv[slot].String()
		}
		i.bindWords(current, text)
		current = current[:0]
		slot++
	}
	for _, entry := range template {
		if entry == "," {
			flush()
			continue
		}
		current = append(current, entry)
	}
	if len(current) > 0 {
		flush()
	}
}

// bindWords word-splits text across the variables; the last variable
// receives the unsplit remainder.
func (i *Interpreter) bindWords(vars []string, text string) {
	if len(vars) == 0 {
		return
	}
	remainder := strings.TrimSpace(text)
	for idx, name := range vars {
		if idx == len(vars)-1 {
			i.vars.Set(name, NewString(remainder))
			return
		}
		word, rest := splitFirstWord(remainder)
		i.vars.Set(name, NewString(word))
		remainder = rest
	}
}

func splitFirstWord(text string) (string, string) {
	text = strings.TrimLeft(text, " \t")
	idx := strings.IndexAny(text, " \t")
	if idx < 0 {
		return text, ""
	}
	return text[:idx], strings.TrimLeft(text[idx:], " \t")
}

// execPush places the value on top of the data stack.
func (i *Interpreter) execPush(node *ast.Push) (execResult, error) {
	value, err := i.evalExpression(node.Expr)
	if err != nil {
		return execResult{}, err
	}
	i.stack.Push(value.String())
	return execResult{}, nil
}

// execQueue places the value at the bottom of the data stack.
func (i *Interpreter) execQueue(node *ast.Queue) (execResult, error) {
	value, err := i.evalExpression(node.Expr)
	if err != nil {
		return execResult{}, err
	}
	i.stack.Queue(value.String())
	return execResult{}, nil
}

// execPull removes the top stack line and binds it through the template.
// An empty stack yields the empty string.
func (i *Interpreter) execPull(node *ast.Pull) (execResult, error) {
	line, _ := i.stack.Pull()
	if len(node.Template) == 1 {
		i.vars.Set(node.Template[0], NewString(line))
		return execResult{}, nil
	}
	i.bindWords(node.Template, line)
	return execResult{}, nil
}

// execBareCall evaluates a bare function-call statement. The value is
// discarded; ADDRESS method dispatch inside evalFuncCall still updates RC
// and RESULT per the handler contract.
func (i *Interpreter) execBareCall(node *ast.FunctionCall) (execResult, error) {
	_, err := i.evalFuncCall(node.Call)
	return execResult{}, err
}
