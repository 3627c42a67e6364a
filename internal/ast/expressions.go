package ast

import (
	"strings"
)

// Expression is any node that produces a value.
type Expression interface {
	expressionNode()
	String() string
}

// StringLit is a quoted string literal. Double-quoted strings may contain
// {name} interpolation placeholders, resolved at evaluation time.
type StringLit struct {
	Value        string
	DoubleQuoted bool
	Heredoc      bool
}

func (s *StringLit) expressionNode() {}
func (s *StringLit) String() string {
	if s.DoubleQuoted {
		return `"` + s.Value + `"`
	}
	return "'" + s.Value + "'"
}

// NumberLit is a numeric literal. The original lexeme is preserved so
// integer literals render without float formatting artifacts.
type NumberLit struct {
	Value   float64
	Literal string
}

func (n *NumberLit) expressionNode() {}
func (n *NumberLit) String() string  { return n.Literal }

// VarRef references a variable. The name may be compound (STEM.TAIL) or
// dotted into a structured value (RESULT.errorCode).
type VarRef struct {
	Name string
}

func (v *VarRef) expressionNode() {}
func (v *VarRef) String() string  { return v.Name }

// FuncCall invokes a built-in, an externally registered function, or an
// ADDRESS method. Names[i] is the parameter name for Args[i], or "" for a
// positional argument.
type FuncCall struct {
	Name  string
	Args  []Expression
	Names []string
}

func (f *FuncCall) expressionNode() {}
func (f *FuncCall) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		if i < len(f.Names) && f.Names[i] != "" {
			parts[i] = f.Names[i] + "=" + a.String()
		} else {
			parts[i] = a.String()
		}
	}
	return f.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Binary is a binary operator application.
type Binary struct {
	Op    string
	Left  Expression
	Right Expression
}

func (b *Binary) expressionNode() {}
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}

// Unary is a prefix operator application (-, +, \).
type Unary struct {
	Op      string
	Operand Expression
}

func (u *Unary) expressionNode() {}
func (u *Unary) String() string  { return "(" + u.Op + u.Operand.String() + ")" }

// Concat joins the string forms of its parts. Explicit || joins without a
// separator; adjacency (blank operator) joins with a single space.
type Concat struct {
	Parts  []Expression
	Spaced bool
}

func (c *Concat) expressionNode() {}
func (c *Concat) String() string {
	sep := "||"
	if c.Spaced {
		sep = " "
	}
	parts := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		parts[i] = p.String()
	}
	return strings.Join(parts, sep)
}
