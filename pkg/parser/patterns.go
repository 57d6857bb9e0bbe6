package parser

import (
	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/lexer"
)

func (p *Parser) parsePattern() (ast.Pattern, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenIdent:
		p.advance()
		if tok.Lexeme == "_" {
			return at(ast.NewWildcardPattern(), tok), nil
		}
		id := at(ast.NewIdentifier(tok.Lexeme), tok)
		return at(ast.NewBindingPattern(id), tok), nil
	case lexer.TokenInt:
		p.advance()
		lit := at(ast.NewIntegerLiteral(tok.Literal.(int64)), tok)
		return at(ast.NewLiteralPattern(lit), tok), nil
	case lexer.TokenFloat:
		p.advance()
		lit := at(ast.NewFloatLiteral(tok.Literal.(float64)), tok)
		return at(ast.NewLiteralPattern(lit), tok), nil
	case lexer.TokenMinus:
		p.advance()
		num := p.cur()
		switch num.Type {
		case lexer.TokenInt:
			p.advance()
			lit := at(ast.NewIntegerLiteral(-num.Literal.(int64)), tok)
			return at(ast.NewLiteralPattern(lit), tok), nil
		case lexer.TokenFloat:
			p.advance()
			lit := at(ast.NewFloatLiteral(-num.Literal.(float64)), tok)
			return at(ast.NewLiteralPattern(lit), tok), nil
		default:
			return nil, p.errAt(num, "expected number after '-' in pattern")
		}
	case lexer.TokenString:
		p.advance()
		s, ok := tok.Literal.(string)
		if !ok {
			return nil, p.errAt(tok, "interpolation is not allowed in a pattern")
		}
		lit := at(ast.NewStringLiteral(s), tok)
		return at(ast.NewLiteralPattern(lit), tok), nil
	case lexer.TokenTrue, lexer.TokenFalse:
		p.advance()
		lit := at(ast.NewBooleanLiteral(tok.Type == lexer.TokenTrue), tok)
		return at(ast.NewLiteralPattern(lit), tok), nil
	case lexer.TokenNull:
		p.advance()
		lit := at(ast.NewNullLiteral(), tok)
		return at(ast.NewLiteralPattern(lit), tok), nil
	case lexer.TokenLBracket:
		return p.parseListPattern()
	case lexer.TokenLBrace:
		return p.parseMapPattern()
	default:
		return nil, p.errAt(tok, "expected pattern, found %s", lexer.Name(tok.Type))
	}
}

// parseListPattern parses `[p1, p2, ...rest]`. The rest binding, when
// present, must be the final element.
func (p *Parser) parseListPattern() (*ast.ListPattern, error) {
	open := p.advance()
	var elements []ast.Pattern
	var rest *ast.Identifier
	for !p.check(lexer.TokenRBracket) {
		if p.check(lexer.TokenEllipsis) {
			dots := p.advance()
			name, err := p.expect(lexer.TokenIdent, "expected rest name after '...'")
			if err != nil {
				return nil, err
			}
			rest = at(ast.NewIdentifier(name.Lexeme), name)
			if !p.check(lexer.TokenRBracket) {
				return nil, p.errAt(dots, "rest pattern must be the last element")
			}
			break
		}
		el, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokenRBracket, "expected ']' after list pattern"); err != nil {
		return nil, err
	}
	return at(ast.NewListPattern(elements, rest), open), nil
}

// parseMapPattern parses `{key1, key2}`: the subject must be a map with
// every named key, and each key's value is bound under the key's name.
func (p *Parser) parseMapPattern() (*ast.MapPattern, error) {
	open := p.advance()
	p.skipNewlines()
	var keys []*ast.Identifier
	for !p.check(lexer.TokenRBrace) {
		name, err := p.expect(lexer.TokenIdent, "expected key name in map pattern")
		if err != nil {
			return nil, err
		}
		keys = append(keys, at(ast.NewIdentifier(name.Lexeme), name))
		if !p.match(lexer.TokenComma) {
			break
		}
		p.skipNewlines()
	}
	if _, err := p.expect(lexer.TokenRBrace, "expected '}' after map pattern"); err != nil {
		return nil, err
	}
	return at(ast.NewMapPattern(keys), open), nil
}
