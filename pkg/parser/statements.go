package parser

import (
	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/lexer"
)

// parseLet parses `let target = value`, where target is a name, a list
// destructuring pattern, or a map destructuring pattern.
func (p *Parser) parseLet() (ast.Statement, error) {
	tok := p.advance()
	var target ast.Pattern
	switch p.cur().Type {
	case lexer.TokenIdent:
		name := p.advance()
		target = at(ast.NewBindingPattern(at(ast.NewIdentifier(name.Lexeme), name)), name)
	case lexer.TokenLBracket:
		pat, err := p.parseListPattern()
		if err != nil {
			return nil, err
		}
		target = pat
	case lexer.TokenLBrace:
		pat, err := p.parseMapPattern()
		if err != nil {
			return nil, err
		}
		target = pat
	default:
		return nil, p.errHere("expected name or destructuring pattern after 'let', found %s", lexer.Name(p.cur().Type))
	}
	if _, err := p.expect(lexer.TokenAssign, "expected '=' in let statement"); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return at(ast.NewLetStatement(target, value), tok), nil
}

func (p *Parser) parseFunctionDecl() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(lexer.TokenIdent, "expected function name after 'fn'")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	id := at(ast.NewIdentifier(name.Lexeme), name)
	return at(ast.NewFunctionDecl(id, params, body), tok), nil
}

func (p *Parser) parsePipelineDecl() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(lexer.TokenIdent, "expected pipeline name after 'pipeline'")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	id := at(ast.NewIdentifier(name.Lexeme), name)
	return at(ast.NewPipelineDecl(id, params, body), tok), nil
}

// parseParams parses `(name[: Type][= default], ...)`. Defaulted
// parameters may only be followed by other defaulted parameters, keeping
// the missing-trailing-arguments rule unambiguous at call time.
func (p *Parser) parseParams() ([]*ast.Parameter, error) {
	if _, err := p.expect(lexer.TokenLParen, "expected '(' before parameter list"); err != nil {
		return nil, err
	}
	var params []*ast.Parameter
	seenDefault := false
	for !p.check(lexer.TokenRParen) {
		name, err := p.expect(lexer.TokenIdent, "expected parameter name")
		if err != nil {
			return nil, err
		}
		var typeName *ast.Identifier
		if p.match(lexer.TokenColon) {
			tn, err := p.expect(lexer.TokenIdent, "expected type name after ':'")
			if err != nil {
				return nil, err
			}
			typeName = at(ast.NewIdentifier(tn.Lexeme), tn)
		}
		var def ast.Expression
		if p.match(lexer.TokenAssign) {
			def, err = p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			seenDefault = true
		} else if seenDefault {
			return nil, p.errAt(name, "required parameter %q cannot follow a defaulted parameter", name.Lexeme)
		}
		id := at(ast.NewIdentifier(name.Lexeme), name)
		params = append(params, at(ast.NewParameter(id, typeName, def), name))
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokenRParen, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	tok := p.advance()
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els ast.Statement
	save := p.pos
	p.skipNewlines()
	switch p.cur().Type {
	case lexer.TokenElif:
		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		els = nested
	case lexer.TokenElse:
		p.advance()
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		els = block
	default:
		p.pos = save
	}
	return at(ast.NewIfStatement(cond, then, els), tok), nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	tok := p.advance()
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return at(ast.NewWhileStatement(cond, body), tok), nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(lexer.TokenIdent, "expected loop variable after 'for'")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenIn, "expected 'in' after loop variable"); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	id := at(ast.NewIdentifier(name.Lexeme), name)
	return at(ast.NewForStatement(id, iterable, body), tok), nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	tok := p.advance()
	var value ast.Expression
	switch p.cur().Type {
	case lexer.TokenNewline, lexer.TokenRBrace, lexer.TokenEOF:
	default:
		v, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		value = v
	}
	return at(ast.NewReturnStatement(value), tok), nil
}

func (p *Parser) parseGuard() (ast.Statement, error) {
	tok := p.advance()
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	var message ast.Expression
	if p.match(lexer.TokenColon) {
		message, err = p.parseExpression(0)
		if err != nil {
			return nil, err
		}
	}
	return at(ast.NewGuardStatement(cond, message), tok), nil
}

func (p *Parser) parseUse() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(lexer.TokenIdent, "expected module name after 'use'")
	if err != nil {
		return nil, err
	}
	id := at(ast.NewIdentifier(name.Lexeme), name)
	return at(ast.NewUseStatement(id), tok), nil
}
