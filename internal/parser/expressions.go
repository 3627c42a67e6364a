package parser

import (
	"strconv"

	"github.com/cwbudde/go-rexx/internal/ast"
	"github.com/cwbudde/go-rexx/internal/lexer"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

// Operator precedence levels, lowest binds loosest.
const (
	precLowest  = iota
	precLogic   // & |
	precCompare // = == \= <> < <= > >=
	precConcat  // ||
	precSum     // + -
	precProduct // * / // %
	precPower   // **
	precPrefix  // -x +x \x
)

var precedences = map[lexer.TokenType]int{
	lexer.AMP:      precLogic,
	lexer.PIPE:     precLogic,
	lexer.ASSIGN:   precCompare,
	lexer.EQ:       precCompare,
	lexer.NEQ:      precCompare,
	lexer.LT:       precCompare,
	lexer.LE:       precCompare,
	lexer.GT:       precCompare,
	lexer.GE:       precCompare,
	lexer.CONCAT:   precConcat,
	lexer.PLUS:     precSum,
	lexer.MINUS:    precSum,
	lexer.ASTERISK: precProduct,
	lexer.SLASH:    precProduct,
	lexer.DSLASH:   precProduct,
	lexer.PERCENT:  precProduct,
	lexer.POWER:    precPower,
}

// parseFullExpression parses a complete expression including the blank
// (adjacency) concatenation operator: `a b` joins the string forms of a and
// b with a single space. stops lists context keywords (THEN, TO, BY, WITH,
// ...) that terminate the expression instead of being folded in.
func (p *Parser) parseFullExpression(stops map[string]bool) ast.Expression {
	first := p.parseOperatorExpression(precLowest, stops)
	if first == nil {
		return nil
	}
	parts := []ast.Expression{first}
	for p.startsTerm() && !p.stoppedBy(stops) {
		next := p.parseOperatorExpression(precLowest, stops)
		if next == nil {
			break
		}
		parts = append(parts, next)
	}
	if len(parts) == 1 {
		return first
	}
	return &ast.Concat{Parts: parts, Spaced: true}
}

// startsTerm reports whether the current token can begin an adjacent term.
func (p *Parser) startsTerm() bool {
	switch p.curTok.Type {
	case lexer.IDENT, lexer.NUMBER, lexer.STRING, lexer.DSTRING, lexer.HEREDOC, lexer.LPAREN:
		return true
	}
	return false
}

func (p *Parser) stoppedBy(stops map[string]bool) bool {
	if stops == nil || p.curTok.Type != lexer.IDENT {
		return false
	}
	for word := range stops {
		if ident.Equal(p.curTok.Literal, word) {
			return true
		}
	}
	return false
}

// parseOperatorExpression is a Pratt parser over the binary operators.
// It consumes the current token through the end of the sub-expression.
func (p *Parser) parseOperatorExpression(minPrec int, stops map[string]bool) ast.Expression {
	left := p.parsePrefix(stops)
	if left == nil {
		return nil
	}
	for {
		prec, ok := precedences[p.curTok.Type]
		if !ok || prec <= minPrec {
			return left
		}
		op := p.curTok.Literal
		tokType := p.curTok.Type
		p.nextToken()
		right := p.parseOperatorExpression(prec, stops)
		if right == nil {
			p.addError("missing right operand for %q", op)
			return left
		}
		if tokType == lexer.CONCAT {
			left = mergeConcat(left, right)
		} else {
			left = &ast.Binary{Op: op, Left: left, Right: right}
		}
	}
}

// mergeConcat flattens chained || into a single Concat node.
func mergeConcat(left, right ast.Expression) ast.Expression {
	if c, ok := left.(*ast.Concat); ok && !c.Spaced {
		c.Parts = append(c.Parts, right)
		return c
	}
	return &ast.Concat{Parts: []ast.Expression{left, right}}
}

func (p *Parser) parsePrefix(stops map[string]bool) ast.Expression {
	switch p.curTok.Type {
	case lexer.NUMBER:
		lit := p.curTok.Literal
		val, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			p.addError("invalid number %q", lit)
			return nil
		}
		p.nextToken()
		return &ast.NumberLit{Value: val, Literal: lit}
	case lexer.STRING:
		v := p.curTok.Literal
		p.nextToken()
		return &ast.StringLit{Value: v}
	case lexer.DSTRING:
		v := p.curTok.Literal
		p.nextToken()
		return &ast.StringLit{Value: v, DoubleQuoted: true}
	case lexer.HEREDOC:
		v := p.curTok.Literal
		p.nextToken()
		return &ast.StringLit{Value: v, Heredoc: true}
	case lexer.IDENT:
		if p.peekTok.Type == lexer.LPAREN {
			return p.parseFuncCallOrBareName()
		}
		name := p.curTok.Literal
		p.nextToken()
		return &ast.VarRef{Name: name}
	case lexer.LPAREN:
		p.nextToken()
		inner := p.parseOperatorExpression(precLowest, nil)
		if p.curTok.Type != lexer.RPAREN {
			p.addError("expected ) to close grouped expression, got %q", p.curTok.Literal)
			return inner
		}
		p.nextToken()
		return inner
	case lexer.MINUS, lexer.PLUS, lexer.NOT:
		op := p.curTok.Literal
		p.nextToken()
		operand := p.parseOperatorExpression(precPrefix, stops)
		if operand == nil {
			p.addError("missing operand for unary %q", op)
			return nil
		}
		return &ast.Unary{Op: op, Operand: operand}
	}
	p.addError("unexpected token %q in expression", p.curTok.Literal)
	return nil
}
