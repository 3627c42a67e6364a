package parser

import (
	"github.com/cwbudde/go-rexx/internal/ast"
	"github.com/cwbudde/go-rexx/internal/lexer"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

// parseInstruction parses one statement. The current token is the first
// token of the statement; on return the current token is at or before the
// statement separator (advanceToStatementEnd finishes the line).
func (p *Parser) parseInstruction() ast.Instruction {
	switch p.curTok.Type {
	case lexer.STRING, lexer.DSTRING, lexer.HEREDOC:
		return p.parseCommandString()
	case lexer.IDENT:
		return p.parseIdentStatement()
	default:
		p.addError("unexpected token %q at start of statement", p.curTok.Literal)
		return nil
	}
}

func (p *Parser) parseIdentStatement() ast.Instruction {
	// Label: NAME:
	if p.peekTok.Type == lexer.COLON {
		lbl := &ast.Label{Base: p.base(p.curTok), Name: p.curTok.Literal}
		p.nextToken() // onto ':'
		p.nextToken() // past ':'
		return lbl
	}

	word := p.curTok.Literal
	switch {
	case ident.Equal(word, "LET"):
		return p.parseLet()
	case ident.Equal(word, "SAY"):
		return p.parseSay()
	case ident.Equal(word, "IF"):
		return p.parseIf()
	case ident.Equal(word, "SELECT"):
		return p.parseSelect()
	case ident.Equal(word, "DO"):
		return p.parseDo()
	case ident.Equal(word, "CALL"):
		tok := p.curTok
		p.nextToken()
		return p.parseCallClause(tok)
	case ident.Equal(word, "RETURN"):
		return p.parseReturn()
	case ident.Equal(word, "EXIT"):
		return p.parseExit()
	case ident.Equal(word, "SIGNAL"):
		return p.parseSignal()
	case ident.Equal(word, "ADDRESS"):
		return p.parseAddress()
	case ident.Equal(word, "NUMERIC"):
		return p.parseNumeric()
	case ident.Equal(word, "PARSE"):
		return p.parseParse()
	case ident.Equal(word, "PUSH"):
		tok := p.curTok
		p.nextToken()
		return &ast.Push{Base: p.base(tok), Expr: p.parseFullExpression(nil)}
	case ident.Equal(word, "QUEUE"):
		tok := p.curTok
		p.nextToken()
		return &ast.Queue{Base: p.base(tok), Expr: p.parseFullExpression(nil)}
	case ident.Equal(word, "PULL"):
		return p.parsePull()
	case ident.Equal(word, "TRACE"):
		return p.parseTrace()
	case ident.Equal(word, "INTERPRET"):
		return p.parseInterpret()
	case ident.Equal(word, "NO_INTERPRET"):
		tok := p.curTok
		p.nextToken()
		return &ast.NoInterpret{Base: p.base(tok)}
	case ident.Equal(word, "REQUIRE"):
		return p.parseRequire()
	case ident.Equal(word, "NOP"):
		// NOP parses to nothing; the separator is enough.
		p.nextToken()
		return nil
	}

	// name = expr  (assignment without LET)
	if p.peekTok.Type == lexer.ASSIGN {
		return p.parseAssignment(p.curTok)
	}

	// Bare call: name(...) or a lone name (ADDRESS method dispatch path).
	tok := p.curTok
	call := p.parseFuncCallOrBareName()
	return &ast.FunctionCall{Base: p.base(tok), Call: call}
}

// parseLet parses LET name = <expr | CALL sub(...)>.
func (p *Parser) parseLet() ast.Instruction {
	tok := p.curTok
	p.nextToken()
	if p.curTok.Type != lexer.IDENT {
		p.addError("LET expects a variable name, got %q", p.curTok.Literal)
		return nil
	}
	return p.parseAssignment(tok)
}

// parseAssignment parses `name = ...` with the current token on the name.
// tok is the first token of the statement (LET or the name itself).
func (p *Parser) parseAssignment(tok lexer.Token) ast.Instruction {
	target := p.curTok.Literal
	p.nextToken()
	if p.curTok.Type != lexer.ASSIGN {
		p.addError("expected = after %q", target)
		return nil
	}
	p.nextToken()

	a := &ast.Assignment{Base: p.base(tok), Target: target}
	if p.curIs("CALL") {
		callTok := p.curTok
		p.nextToken()
		if call, ok := p.parseCallClause(callTok).(*ast.Call); ok {
			a.Call = call
		}
		return a
	}
	a.Expr = p.parseFullExpression(nil)
	return a
}

func (p *Parser) parseSay() ast.Instruction {
	tok := p.curTok
	p.nextToken()
	var expr ast.Expression
	if p.atStatementEnd() {
		expr = &ast.StringLit{Value: ""}
	} else {
		expr = p.parseFullExpression(nil)
	}
	return &ast.Say{Base: p.base(tok), Expr: expr}
}

// parseCallClause parses the target and arguments of CALL. Arguments may be
// parenthesized and comma-separated, or laid out bare on the line.
func (p *Parser) parseCallClause(tok lexer.Token) ast.Instruction {
	if p.curTok.Type != lexer.IDENT {
		p.addError("CALL expects a subroutine name, got %q", p.curTok.Literal)
		return nil
	}
	call := &ast.Call{Base: p.base(tok), Name: p.curTok.Literal}

	if p.peekTok.Type == lexer.LPAREN {
		p.nextToken() // onto '('
		call.Args, _ = p.parseParenArgs()
		return call
	}
	p.nextToken()

	for !p.atStatementEnd() {
		if p.curTok.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		arg := p.parseOperatorExpression(precLowest, nil)
		if arg == nil {
			break
		}
		call.Args = append(call.Args, arg)
	}
	return call
}

func (p *Parser) parseReturn() ast.Instruction {
	tok := p.curTok
	p.nextToken()
	r := &ast.Return{Base: p.base(tok)}
	if !p.atStatementEnd() {
		r.Expr = p.parseFullExpression(nil)
	}
	return r
}

func (p *Parser) parseExit() ast.Instruction {
	tok := p.curTok
	p.nextToken()
	e := &ast.Exit{Base: p.base(tok)}
	if !p.atStatementEnd() {
		e.Expr = p.parseFullExpression(nil)
	}
	return e
}

// parseSignal parses SIGNAL ON cond [NAME label], SIGNAL OFF cond, and the
// unconditional SIGNAL label.
func (p *Parser) parseSignal() ast.Instruction {
	tok := p.curTok
	p.nextToken()

	switch {
	case p.curIs("ON"):
		p.nextToken()
		if p.curTok.Type != lexer.IDENT {
			p.addError("SIGNAL ON expects a condition name")
			return nil
		}
		s := &ast.Signal{Base: p.base(tok), On: true, Condition: p.curTok.Literal}
		s.Label = s.Condition
		p.nextToken()
		if p.curIs("NAME") {
			p.nextToken()
			if p.curTok.Type != lexer.IDENT {
				p.addError("SIGNAL ON ... NAME expects a label")
				return nil
			}
			s.Label = p.curTok.Literal
			p.nextToken()
		}
		return s
	case p.curIs("OFF"):
		p.nextToken()
		if p.curTok.Type != lexer.IDENT {
			p.addError("SIGNAL OFF expects a condition name")
			return nil
		}
		s := &ast.Signal{Base: p.base(tok), On: false, Condition: p.curTok.Literal}
		p.nextToken()
		return s
	case p.curTok.Type == lexer.IDENT:
		s := &ast.SignalJump{Base: p.base(tok), Label: p.curTok.Literal}
		p.nextToken()
		return s
	}
	p.addError("malformed SIGNAL instruction")
	return nil
}

// parseAddress parses ADDRESS target and ADDRESS target "command".
func (p *Parser) parseAddress() ast.Instruction {
	tok := p.curTok
	p.nextToken()
	if p.curTok.Type != lexer.IDENT {
		p.addError("ADDRESS expects a target name, got %q", p.curTok.Literal)
		return nil
	}
	target := p.curTok.Literal
	p.nextToken()
	if p.atStatementEnd() {
		return &ast.Address{Base: p.base(tok), Target: target}
	}
	cmd := p.parseFullExpression(nil)
	return &ast.AddressWithString{Base: p.base(tok), Target: target, Command: cmd}
}

func (p *Parser) parseNumeric() ast.Instruction {
	tok := p.curTok
	p.nextToken()
	if p.curTok.Type != lexer.IDENT {
		p.addError("NUMERIC expects DIGITS, FUZZ or FORM")
		return nil
	}
	setting := p.curTok.Literal
	p.nextToken()
	n := &ast.Numeric{Base: p.base(tok), Setting: setting}
	if !p.atStatementEnd() {
		n.Value = p.parseFullExpression(nil)
	}
	return n
}

// parseParse parses PARSE ARG template, PARSE VAR name template, and
// PARSE VALUE expr WITH template.
func (p *Parser) parseParse() ast.Instruction {
	tok := p.curTok
	p.nextToken()

	switch {
	case p.curIs("ARG"):
		p.nextToken()
		return &ast.Parse{Base: p.base(tok), Origin: ast.ParseArg, Template: p.parseTemplate()}
	case p.curIs("VAR"):
		p.nextToken()
		if p.curTok.Type != lexer.IDENT {
			p.addError("PARSE VAR expects a variable name")
			return nil
		}
		src := &ast.VarRef{Name: p.curTok.Literal}
		p.nextToken()
		return &ast.Parse{Base: p.base(tok), Origin: ast.ParseVar, Source: src, Template: p.parseTemplate()}
	case p.curIs("VALUE"):
		p.nextToken()
		src := p.parseFullExpression(map[string]bool{"WITH": true})
		if !p.expectIdent("WITH") {
			return nil
		}
		return &ast.Parse{Base: p.base(tok), Origin: ast.ParseValue, Source: src, Template: p.parseTemplate()}
	}
	p.addError("PARSE expects ARG, VAR or VALUE")
	return nil
}

// parseTemplate collects variable names up to the end of the statement.
// A comma is preserved as the "," marker separating argument slots.
func (p *Parser) parseTemplate() []string {
	var tmpl []string
	for !p.atStatementEnd() {
		switch p.curTok.Type {
		case lexer.IDENT:
			tmpl = append(tmpl, p.curTok.Literal)
		case lexer.COMMA:
			tmpl = append(tmpl, ",")
		default:
			p.addError("unexpected %q in parse template", p.curTok.Literal)
		}
		p.nextToken()
	}
	return tmpl
}

func (p *Parser) parsePull() ast.Instruction {
	tok := p.curTok
	p.nextToken()
	return &ast.Pull{Base: p.base(tok), Template: p.parseTemplate()}
}

func (p *Parser) parseTrace() ast.Instruction {
	tok := p.curTok
	p.nextToken()
	mode := "NORMAL"
	if p.curTok.Type == lexer.IDENT || p.curTok.Type == lexer.STRING || p.curTok.Type == lexer.DSTRING {
		mode = p.curTok.Literal
		p.nextToken()
	}
	return &ast.Trace{Base: p.base(tok), Mode: mode}
}

// parseInterpret parses INTERPRET [CLASSIC | ISOLATED [IMPORT(..)] [EXPORT(..)]] expr.
func (p *Parser) parseInterpret() ast.Instruction {
	tok := p.curTok
	p.nextToken()
	ins := &ast.Interpret{Base: p.base(tok), Mode: ast.InterpretDefault}

	switch {
	case p.curIs("CLASSIC"):
		ins.Mode = ast.InterpretClassic
		p.nextToken()
	case p.curIs("ISOLATED"):
		ins.Mode = ast.InterpretIsolated
		p.nextToken()
		for {
			switch {
			case p.curIs("IMPORT"):
				p.nextToken()
				ins.ImportVars = p.parseNameList()
			case p.curIs("EXPORT"):
				p.nextToken()
				ins.ExportVars = p.parseNameList()
			default:
				goto source
			}
		}
	}
source:
	ins.Expr = p.parseFullExpression(nil)
	return ins
}

// parseNameList parses a parenthesized, comma-separated identifier list.
func (p *Parser) parseNameList() []string {
	if p.curTok.Type != lexer.LPAREN {
		p.addError("expected ( after IMPORT/EXPORT")
		return nil
	}
	p.nextToken()
	var names []string
	for p.curTok.Type != lexer.RPAREN && p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.IDENT {
			names = append(names, p.curTok.Literal)
		} else if p.curTok.Type != lexer.COMMA {
			p.addError("unexpected %q in name list", p.curTok.Literal)
		}
		p.nextToken()
	}
	if p.curTok.Type == lexer.RPAREN {
		p.nextToken()
	}
	return names
}

func (p *Parser) parseRequire() ast.Instruction {
	tok := p.curTok
	p.nextToken()
	if p.curTok.Type != lexer.STRING && p.curTok.Type != lexer.DSTRING {
		p.addError("REQUIRE expects a quoted library name")
		return nil
	}
	r := &ast.Require{Base: p.base(tok), Name: p.curTok.Literal}
	p.nextToken()
	if p.curIs("AS") {
		p.nextToken()
		switch p.curTok.Type {
		case lexer.IDENT, lexer.STRING, lexer.DSTRING:
			r.As = p.curTok.Literal
			p.nextToken()
		default:
			p.addError("AS expects a rename clause")
		}
	}
	return r
}

// parseCommandString parses a bare quoted or heredoc string statement,
// dispatched to the active ADDRESS target at run time.
func (p *Parser) parseCommandString() ast.Instruction {
	tok := p.curTok
	cs := &ast.CommandString{
		Base:         p.base(tok),
		Text:         tok.Literal,
		Heredoc:      tok.Type == lexer.HEREDOC,
		DoubleQuoted: tok.Type == lexer.DSTRING,
	}
	p.nextToken()
	return cs
}

// parseFuncCallOrBareName parses name(...) or a lone name into a FuncCall
// node; a lone name carries no arguments and resolves at run time.
func (p *Parser) parseFuncCallOrBareName() *ast.FuncCall {
	call := &ast.FuncCall{Name: p.curTok.Literal}
	if p.peekTok.Type == lexer.LPAREN {
		p.nextToken() // onto '('
		call.Args, call.Names = p.parseParenArgs()
		return call
	}
	p.nextToken()
	return call
}

// parseParenArgs parses a parenthesized argument list with optional
// name=value parameters. The current token is the opening parenthesis.
func (p *Parser) parseParenArgs() ([]ast.Expression, []string) {
	var args []ast.Expression
	var names []string
	p.nextToken() // past '('
	for p.curTok.Type != lexer.RPAREN && p.curTok.Type != lexer.EOF {
		name := ""
		if p.curTok.Type == lexer.IDENT && p.peekTok.Type == lexer.ASSIGN {
			name = p.curTok.Literal
			p.nextToken()
			p.nextToken()
		}
		arg := p.parseOperatorExpression(precLowest, nil)
		if arg == nil {
			break
		}
		args = append(args, arg)
		names = append(names, name)
		if p.curTok.Type == lexer.COMMA {
			p.nextToken()
		}
	}
	if p.curTok.Type == lexer.RPAREN {
		p.nextToken()
	}
	return args, names
}
