package parser

import (
	"github.com/cwbudde/go-rexx/internal/ast"
	"github.com/cwbudde/go-rexx/internal/lexer"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

// parseIf parses IF cond THEN body [ELSE body]. The body is either a
// DO ... END block or a single instruction, on the same or the next line.
func (p *Parser) parseIf() ast.Instruction {
	tok := p.curTok
	p.nextToken()

	cond := p.parseFullExpression(map[string]bool{"THEN": true})
	if !p.expectIdent("THEN") {
		return nil
	}

	ins := &ast.If{Base: p.base(tok), Condition: cond}
	ins.Then = p.parseBranchBody()

	// ELSE may follow on the same line or the next; only consume the
	// separator when ELSE is actually there.
	if p.curTok.Type == lexer.NEWLINE && p.peekIs("ELSE") {
		p.nextToken()
	}
	if p.curIs("ELSE") {
		p.nextToken()
		ins.Else = p.parseBranchBody()
	}
	return ins
}

// parseBranchBody parses a THEN/ELSE/OTHERWISE body: a DO ... END block or
// a single instruction, which may sit on the next line.
func (p *Parser) parseBranchBody() []ast.Instruction {
	p.skipNewlines()

	if p.curIs("DO") && p.peekTok.Type == lexer.NEWLINE {
		p.nextToken() // past DO
		p.skipNewlines()
		body := p.parseBlock("END")
		p.expectIdent("END")
		return body
	}

	ins := p.parseInstruction()
	if ins == nil {
		return nil
	}
	return []ast.Instruction{ins}
}

// parseSelect parses SELECT / WHEN cond THEN body ... [OTHERWISE body] END.
func (p *Parser) parseSelect() ast.Instruction {
	tok := p.curTok
	p.nextToken()
	p.skipNewlines()

	sel := &ast.Select{Base: p.base(tok)}
	for {
		p.skipNewlines()
		switch {
		case p.curIs("WHEN"):
			p.nextToken()
			cond := p.parseFullExpression(map[string]bool{"THEN": true})
			if !p.expectIdent("THEN") {
				return sel
			}
			sel.Whens = append(sel.Whens, &ast.When{Condition: cond, Body: p.parseBranchBody()})
		case p.curIs("OTHERWISE"):
			p.nextToken()
			p.skipNewlines()
			sel.Otherwise = p.parseBlock("END")
			p.expectIdent("END")
			return sel
		case p.curIs("END"):
			p.nextToken()
			return sel
		default:
			p.addError("expected WHEN, OTHERWISE or END in SELECT, got %q", p.curTok.Literal)
			return sel
		}
	}
}

// parseDo parses every DO form:
//
//	DO ... END                      plain block
//	DO v = start TO end [BY step]   counted range
//	DO WHILE cond                   condition-tested loop
//	DO expr                         fixed repetition count
//	DO v OVER collection            iteration over a collection
func (p *Parser) parseDo() ast.Instruction {
	tok := p.curTok
	p.nextToken()

	d := &ast.Do{Base: p.base(tok)}
	switch {
	case p.atStatementEnd():
		d.Variant = ast.DoSimple
	case p.curIs("WHILE"):
		p.nextToken()
		d.Variant = ast.DoWhile
		d.Condition = p.parseFullExpression(nil)
	case p.curTok.Type == lexer.IDENT && p.peekTok.Type == lexer.ASSIGN:
		d.Variant = ast.DoRange
		d.Control = p.curTok.Literal
		p.nextToken() // onto '='
		p.nextToken() // past '='
		stops := map[string]bool{"TO": true, "BY": true}
		d.Start = p.parseFullExpression(stops)
		if !p.expectIdent("TO") {
			return nil
		}
		d.End = p.parseFullExpression(stops)
		if p.curIs("BY") {
			p.nextToken()
			d.Step = p.parseFullExpression(nil)
		}
	case p.curTok.Type == lexer.IDENT && p.peekIs("OVER"):
		d.Variant = ast.DoOver
		d.Control = p.curTok.Literal
		p.nextToken() // onto OVER
		p.nextToken() // past OVER
		d.Collection = p.parseFullExpression(nil)
	default:
		d.Variant = ast.DoRepeat
		d.Count = p.parseFullExpression(nil)
	}

	p.skipNewlines()
	d.Body = p.parseBlock("END")
	p.expectIdent("END")
	return d
}

// parseBlock parses instructions until one of the stop keywords appears at
// the start of a statement. The stop token is left for the caller.
func (p *Parser) parseBlock(stops ...string) []ast.Instruction {
	var body []ast.Instruction
	for {
		p.skipNewlines()
		if p.curTok.Type == lexer.EOF {
			p.addError("unterminated block: expected %v", stops)
			return body
		}
		if p.curTok.Type == lexer.IDENT {
			stopped := false
			for _, s := range stops {
				if ident.Equal(p.curTok.Literal, s) {
					stopped = true
					break
				}
			}
			if stopped {
				return body
			}
		}
		ins := p.parseInstruction()
		if ins != nil {
			body = append(body, ins)
		}
		if p.curTok.Type == lexer.NEWLINE {
			p.nextToken()
		}
	}
}
