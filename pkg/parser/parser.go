// Package parser turns rill source text into the AST consumed by the
// evaluator. Parsing is a pure function of the source: no evaluation, no
// side effects beyond the returned tree or a positioned *ParseError.
package parser

import (
	"fmt"

	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/lexer"
)

// Parse tokenizes and parses one source unit. file is used in error
// messages only and may be empty.
func Parse(file, source string) (*ast.Program, error) {
	toks, err := lexer.New(source).Scan()
	if err != nil {
		return nil, fromLexError(file, err)
	}
	p := &Parser{file: file, src: source, toks: toks}
	return p.parseProgram()
}

// ParseExpressionSource parses a single expression, rejecting trailing
// input. The REPL uses it to evaluate bare expressions.
func ParseExpressionSource(file, source string) (ast.Expression, error) {
	toks, err := lexer.New(source).Scan()
	if err != nil {
		return nil, fromLexError(file, err)
	}
	p := &Parser{file: file, src: source, toks: toks}
	p.skipNewlines()
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if !p.check(lexer.TokenEOF) {
		return nil, p.errHere("unexpected %s after expression", lexer.Name(p.cur().Type))
	}
	return expr, nil
}

type Parser struct {
	file string
	src  string
	toks []lexer.Token
	pos  int
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	var stmts []ast.Statement
	p.skipNewlines()
	for !p.check(lexer.TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.endStatement(); err != nil {
			return nil, err
		}
	}
	prog := ast.NewProgram(stmts)
	prog.SetPos(1, 1)
	return prog, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case lexer.TokenLet:
		return p.parseLet()
	case lexer.TokenFn:
		if p.peekAt(1).Type == lexer.TokenIdent {
			return p.parseFunctionDecl()
		}
		return p.parseExpressionStatement()
	case lexer.TokenPipeline:
		return p.parsePipelineDecl()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenFor:
		return p.parseFor()
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenBreak:
		tok := p.advance()
		return at(ast.NewBreakStatement(), tok), nil
	case lexer.TokenContinue:
		tok := p.advance()
		return at(ast.NewContinueStatement(), tok), nil
	case lexer.TokenGuard:
		return p.parseGuard()
	case lexer.TokenUse:
		return p.parseUse()
	case lexer.TokenLBrace:
		return p.parseBlock()
	default:
		return p.parseExpressionStatement()
	}
}

// parseExpressionStatement parses an expression and, when it is followed by
// '=', reinterprets it as an assignment target. Assignment never
// auto-declares; `let` is the only way to introduce a binding.
func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.TokenAssign) {
		return expr, nil
	}
	eq := p.advance()
	switch expr.(type) {
	case *ast.Identifier, *ast.IndexExpression, *ast.FieldAccess:
	default:
		return nil, p.errAt(eq, "invalid assignment target")
	}
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return at(ast.NewAssignStatement(expr, value), eq), nil
}

// parseBlock parses `{ statements }`. Every block introduces its own scope
// at evaluation time.
func (p *Parser) parseBlock() (*ast.BlockStatement, error) {
	open, err := p.expect(lexer.TokenLBrace, "expected '{'")
	if err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	p.skipNewlines()
	for !p.check(lexer.TokenRBrace) {
		if p.check(lexer.TokenEOF) {
			return nil, p.errAt(open, "unclosed '{'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.endStatement(); err != nil {
			return nil, err
		}
	}
	p.advance()
	return at(ast.NewBlockStatement(stmts), open), nil
}

func (p *Parser) endStatement() error {
	switch p.cur().Type {
	case lexer.TokenNewline:
		p.skipNewlines()
		return nil
	case lexer.TokenEOF, lexer.TokenRBrace:
		return nil
	default:
		return p.errHere("expected newline after statement, found %s", lexer.Name(p.cur().Type))
	}
}

// Token helpers.

func (p *Parser) cur() lexer.Token { return p.toks[p.pos] }

func (p *Parser) peekAt(offset int) lexer.Token {
	if p.pos+offset >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+offset]
}

func (p *Parser) advance() lexer.Token {
	tok := p.toks[p.pos]
	if tok.Type != lexer.TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(t lexer.TokenType) bool { return p.cur().Type == t }

func (p *Parser) match(t lexer.TokenType) bool {
	if !p.check(t) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) expect(t lexer.TokenType, msg string) (lexer.Token, error) {
	if !p.check(t) {
		return lexer.Token{}, p.errHere("%s, found %s", msg, lexer.Name(p.cur().Type))
	}
	return p.advance(), nil
}

func (p *Parser) skipNewlines() {
	for p.check(lexer.TokenNewline) {
		p.advance()
	}
}

// nextAfterNewlines returns the type of the first non-newline token at or
// after the cursor without consuming anything.
func (p *Parser) nextAfterNewlines() lexer.TokenType {
	i := p.pos
	for i < len(p.toks) && p.toks[i].Type == lexer.TokenNewline {
		i++
	}
	return p.toks[i].Type
}

func (p *Parser) errHere(format string, args ...interface{}) error {
	return p.errAt(p.cur(), format, args...)
}

func (p *Parser) errAt(tok lexer.Token, format string, args ...interface{}) error {
	return &ParseError{
		File:       p.file,
		Line:       tok.Line,
		Column:     tok.Col,
		Message:    fmt.Sprintf(format, args...),
		Incomplete: p.check(lexer.TokenEOF),
	}
}

func fromLexError(file string, err error) error {
	if le, ok := err.(*lexer.Error); ok {
		return &ParseError{File: file, Line: le.Line, Column: le.Col, Message: le.Msg}
	}
	return err
}

// at stamps a node with a token's position and returns it.
func at[T ast.Node](node T, tok lexer.Token) T {
	node.SetPos(tok.Line, tok.Col)
	return node
}
