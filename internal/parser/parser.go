// Package parser turns REXX source text into the instruction sequence the
// engine consumes. It is a hand-written recursive-descent parser over the
// lexer's token stream; statements are newline-separated, and keyword
// recognition is case-insensitive.
package parser

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-rexx/internal/ast"
	"github.com/cwbudde/go-rexx/internal/lexer"
	"github.com/cwbudde/go-rexx/pkg/ident"
)

// Parser builds an instruction sequence from a token stream.
type Parser struct {
	l       *lexer.Lexer
	curTok  lexer.Token
	peekTok lexer.Token
	errors  []string
	lines   []string
}

// New creates a Parser reading from the given lexer. The source text is
// needed a second time to attach per-line source excerpts to instructions.
func New(l *lexer.Lexer, source string) *Parser {
	p := &Parser{
		l:     l,
		lines: strings.Split(source, "\n"),
	}
	// Prime curTok and peekTok.
	p.nextToken()
	p.nextToken()
	return p
}

// Parse is the engine-facing entry point: source text in, instruction
// sequence out. INTERPRET uses it at runtime.
func Parse(source string) ([]ast.Instruction, error) {
	p := New(lexer.New(source), source)
	prog := p.ParseProgram()
	if len(p.errors) > 0 {
		return nil, fmt.Errorf("parse failed: %s", strings.Join(p.errors, "; "))
	}
	return prog.Instructions, nil
}

// Errors returns the accumulated parse errors.
func (p *Parser) Errors() []string {
	return p.errors
}

// ParseProgram parses the whole token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Source: strings.Join(p.lines, "\n")}
	for p.curTok.Type != lexer.EOF {
		if p.curTok.Type == lexer.NEWLINE {
			p.nextToken()
			continue
		}
		ins := p.parseInstruction()
		if ins != nil {
			prog.Instructions = append(prog.Instructions, ins)
		}
		p.advanceToStatementEnd()
	}
	return prog
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.l.NextToken()
}

// advanceToStatementEnd consumes tokens until the next statement boundary.
// After a clean parse this is a no-op plus the separator; after an error it
// resynchronizes the stream.
func (p *Parser) advanceToStatementEnd() {
	for p.curTok.Type != lexer.NEWLINE && p.curTok.Type != lexer.EOF {
		p.nextToken()
	}
	if p.curTok.Type == lexer.NEWLINE {
		p.nextToken()
	}
}

func (p *Parser) addError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curTok.Pos.Line, msg))
}

// base builds the position bookkeeping for an instruction starting at tok.
func (p *Parser) base(tok lexer.Token) ast.Base {
	return ast.Base{
		LineNumber: tok.Pos.Line,
		SourceText: p.sourceLine(tok.Pos.Line),
	}
}

func (p *Parser) sourceLine(n int) string {
	if n < 1 || n > len(p.lines) {
		return ""
	}
	return strings.TrimSpace(p.lines[n-1])
}

// curIs reports whether the current token is an identifier spelling word
// (case-insensitively).
func (p *Parser) curIs(word string) bool {
	return p.curTok.Type == lexer.IDENT && ident.Equal(p.curTok.Literal, word)
}

func (p *Parser) peekIs(word string) bool {
	return p.peekTok.Type == lexer.IDENT && ident.Equal(p.peekTok.Literal, word)
}

// expectIdent consumes the current token if it is the given keyword,
// reporting an error otherwise.
func (p *Parser) expectIdent(word string) bool {
	if !p.curIs(word) {
		p.addError("expected %s, got %q", word, p.curTok.Literal)
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) atStatementEnd() bool {
	return p.curTok.Type == lexer.NEWLINE || p.curTok.Type == lexer.EOF
}

// skipNewlines consumes any run of statement separators.
func (p *Parser) skipNewlines() {
	for p.curTok.Type == lexer.NEWLINE {
		p.nextToken()
	}
}
