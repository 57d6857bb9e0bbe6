package parser

import (
	"github.com/rill-lang/rill/pkg/ast"
	"github.com/rill-lang/rill/pkg/lexer"
)

// Infix binding powers, loosest first. Left-associative operators fold
// into left-leaning trees by re-entering the loop at power+1.
const (
	bpPipe     = 10
	bpCoalesce = 20
	bpOr       = 30
	bpAnd      = 40
	bpEquality = 50
	bpCompare  = 60
	bpAdd      = 70
	bpMul      = 80
)

func infixBP(t lexer.TokenType) (int, bool) {
	switch t {
	case lexer.TokenPipe:
		return bpPipe, true
	case lexer.TokenCoalesce:
		return bpCoalesce, true
	case lexer.TokenOr:
		return bpOr, true
	case lexer.TokenAnd:
		return bpAnd, true
	case lexer.TokenEq, lexer.TokenNeq:
		return bpEquality, true
	case lexer.TokenLt, lexer.TokenLte, lexer.TokenGt, lexer.TokenGte:
		return bpCompare, true
	case lexer.TokenPlus, lexer.TokenMinus:
		return bpAdd, true
	case lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		return bpMul, true
	default:
		return 0, false
	}
}

func isComparisonOp(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenLt, lexer.TokenLte, lexer.TokenGt, lexer.TokenGte:
		return true
	default:
		return false
	}
}

func (p *Parser) parseExpression(minBP int) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		// A newline followed by |> continues the chain, so multi-line
		// pipelines can put each stage on its own line.
		if minBP <= bpPipe && p.check(lexer.TokenNewline) && p.nextAfterNewlines() == lexer.TokenPipe {
			p.skipNewlines()
		}
		tok := p.cur()
		bp, ok := infixBP(tok.Type)
		if !ok || bp < minBP {
			return left, nil
		}
		switch {
		case tok.Type == lexer.TokenPipe:
			left, err = p.parsePipe(left)
		case isComparisonOp(tok.Type):
			left, err = p.parseComparisonChain(left)
		case tok.Type == lexer.TokenCoalesce:
			p.advance()
			var right ast.Expression
			right, err = p.parseExpression(bpCoalesce)
			if err == nil {
				left = at(ast.NewCoalesceExpression(left, right), tok)
			}
		default:
			op := p.advance()
			var right ast.Expression
			right, err = p.parseExpression(bp + 1)
			if err == nil {
				left = at(ast.NewBinaryExpression(op.Lexeme, left, right), op)
			}
		}
		if err != nil {
			return nil, err
		}
	}
}

// parseComparisonChain folds `0 < x < 100` into `(0 < x) and (x < 100)`,
// with the middle operand node shared between the two comparisons.
func (p *Parser) parseComparisonChain(left ast.Expression) (ast.Expression, error) {
	operands := []ast.Expression{left}
	var ops []lexer.Token
	for isComparisonOp(p.cur().Type) {
		op := p.advance()
		right, err := p.parseExpression(bpCompare + 1)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		operands = append(operands, right)
	}
	var result ast.Expression = at(ast.NewBinaryExpression(ops[0].Lexeme, operands[0], operands[1]), ops[0])
	for i := 1; i < len(ops); i++ {
		cmp := at(ast.NewBinaryExpression(ops[i].Lexeme, operands[i], operands[i+1]), ops[i])
		result = at(ast.NewBinaryExpression("and", result, cmp), ops[i])
	}
	return result, nil
}

// parsePipe flattens a whole `|>` chain into one PipeExpression.
func (p *Parser) parsePipe(left ast.Expression) (ast.Expression, error) {
	stages := []ast.Expression{left}
	for p.check(lexer.TokenPipe) {
		p.advance()
		p.skipNewlines()
		stage, err := p.parsePipeStage()
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
		if p.check(lexer.TokenNewline) && p.nextAfterNewlines() == lexer.TokenPipe {
			p.skipNewlines()
		}
	}
	pipe := ast.NewPipeExpression(stages)
	line, col := left.Pos()
	pipe.SetPos(line, col)
	return pipe, nil
}

// parsePipeStage parses one stage to the right of |>. The leading-dot
// method form `.name(args)` is legal only here; everything else is an
// ordinary expression bound tighter than the pipe operator.
func (p *Parser) parsePipeStage() (ast.Expression, error) {
	if p.check(lexer.TokenDot) {
		dot := p.advance()
		name, err := p.expect(lexer.TokenIdent, "expected method name after '.' in pipe stage")
		if err != nil {
			return nil, err
		}
		if !p.check(lexer.TokenLParen) {
			return nil, p.errHere("expected '(' after '.%s' in pipe stage", name.Lexeme)
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		id := at(ast.NewIdentifier(name.Lexeme), name)
		mc := at(ast.NewMethodCall(nil, id, args), dot)
		return p.parsePostfix(mc)
	}
	return p.parseExpression(bpPipe + 1)
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.cur().Type {
	case lexer.TokenMinus:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return at(ast.NewUnaryExpression("-", operand), tok), nil
	case lexer.TokenNot:
		tok := p.advance()
		operand, err := p.parseExpression(bpEquality)
		if err != nil {
			return nil, err
		}
		return at(ast.NewUnaryExpression("not", operand), tok), nil
	case lexer.TokenAwait:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return at(ast.NewAwaitExpression(operand), tok), nil
	default:
		expr, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return p.parsePostfix(expr)
	}
}

func (p *Parser) parsePostfix(expr ast.Expression) (ast.Expression, error) {
	for {
		switch p.cur().Type {
		case lexer.TokenLParen:
			open := p.cur()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			if fa, ok := expr.(*ast.FieldAccess); ok {
				expr = at(ast.NewMethodCall(fa.Object, fa.Field, args), open)
			} else {
				expr = at(ast.NewCallExpression(expr, args), open)
			}
		case lexer.TokenDot:
			dot := p.advance()
			name, err := p.expect(lexer.TokenIdent, "expected field name after '.'")
			if err != nil {
				return nil, err
			}
			field := at(ast.NewIdentifier(name.Lexeme), name)
			expr = at(ast.NewFieldAccess(expr, field), dot)
		case lexer.TokenLBracket:
			open := p.advance()
			index, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenRBracket, "expected ']' after index"); err != nil {
				return nil, err
			}
			expr = at(ast.NewIndexExpression(expr, index), open)
		default:
			return expr, nil
		}
	}
}

// parseArgs parses a parenthesized, comma-separated argument list.
func (p *Parser) parseArgs() ([]ast.Expression, error) {
	if _, err := p.expect(lexer.TokenLParen, "expected '('"); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !p.check(lexer.TokenRParen) {
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokenRParen, "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenInt:
		p.advance()
		return at(ast.NewIntegerLiteral(tok.Literal.(int64)), tok), nil
	case lexer.TokenFloat:
		p.advance()
		return at(ast.NewFloatLiteral(tok.Literal.(float64)), tok), nil
	case lexer.TokenString:
		p.advance()
		switch lit := tok.Literal.(type) {
		case string:
			return at(ast.NewStringLiteral(lit), tok), nil
		case []lexer.StringPart:
			return p.parseInterpolated(tok, lit)
		default:
			return nil, p.errAt(tok, "malformed string literal")
		}
	case lexer.TokenTrue:
		p.advance()
		return at(ast.NewBooleanLiteral(true), tok), nil
	case lexer.TokenFalse:
		p.advance()
		return at(ast.NewBooleanLiteral(false), tok), nil
	case lexer.TokenNull:
		p.advance()
		return at(ast.NewNullLiteral(), tok), nil
	case lexer.TokenIdent:
		p.advance()
		return at(ast.NewIdentifier(tok.Lexeme), tok), nil
	case lexer.TokenLParen:
		p.advance()
		expr, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRParen, "expected ')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.TokenLBracket:
		return p.parseListLiteral()
	case lexer.TokenLBrace:
		return p.parseMapLiteral()
	case lexer.TokenFn:
		return p.parseLambda()
	case lexer.TokenMatch:
		return p.parseMatch()
	case lexer.TokenSpawn:
		p.advance()
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return at(ast.NewSpawnExpression(body), tok), nil
	case lexer.TokenTry:
		return p.parseTry()
	default:
		return nil, p.errAt(tok, "expected expression, found %s", lexer.Name(tok.Type))
	}
}

func (p *Parser) parseListLiteral() (ast.Expression, error) {
	open := p.advance()
	var elements []ast.Expression
	for !p.check(lexer.TokenRBracket) {
		el, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokenRBracket, "expected ']' after list elements"); err != nil {
		return nil, err
	}
	return at(ast.NewListLiteral(elements), open), nil
}

// parseMapLiteral parses `{key: value, ...}`. Keys are identifiers or
// plain string literals; entries may be separated by commas or newlines.
func (p *Parser) parseMapLiteral() (ast.Expression, error) {
	open := p.advance()
	var entries []*ast.MapEntry
	p.skipNewlines()
	for !p.check(lexer.TokenRBrace) {
		keyTok := p.cur()
		var key string
		switch keyTok.Type {
		case lexer.TokenIdent:
			key = keyTok.Lexeme
		case lexer.TokenString:
			s, ok := keyTok.Literal.(string)
			if !ok {
				return nil, p.errAt(keyTok, "interpolation is not allowed in a map key")
			}
			key = s
		default:
			return nil, p.errAt(keyTok, "expected map key, found %s", lexer.Name(keyTok.Type))
		}
		p.advance()
		if _, err := p.expect(lexer.TokenColon, "expected ':' after map key"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		entries = append(entries, at(ast.NewMapEntry(key, value), keyTok))
		switch {
		case p.match(lexer.TokenComma):
			p.skipNewlines()
		case p.check(lexer.TokenNewline):
			p.skipNewlines()
		case p.check(lexer.TokenRBrace):
		default:
			return nil, p.errHere("expected ',' or '}' in map literal, found %s", lexer.Name(p.cur().Type))
		}
	}
	if _, err := p.expect(lexer.TokenRBrace, "expected '}' after map entries"); err != nil {
		return nil, err
	}
	return at(ast.NewMapLiteral(entries), open), nil
}

func (p *Parser) parseLambda() (ast.Expression, error) {
	tok := p.advance()
	if !p.check(lexer.TokenLParen) {
		return nil, p.errHere("expected '(' after 'fn' in expression")
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenArrow, "expected '->' after lambda parameters"); err != nil {
		return nil, err
	}
	body, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return at(ast.NewLambdaExpression(params, body), tok), nil
}

func (p *Parser) parseMatch() (ast.Expression, error) {
	tok := p.advance()
	subject, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLBrace, "expected '{' after match subject"); err != nil {
		return nil, err
	}
	var clauses []*ast.MatchClause
	p.skipNewlines()
	for !p.check(lexer.TokenRBrace) {
		clause, err := p.parseMatchClause()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
		switch {
		case p.match(lexer.TokenComma):
			p.skipNewlines()
		case p.check(lexer.TokenNewline):
			p.skipNewlines()
		case p.check(lexer.TokenRBrace):
		default:
			return nil, p.errHere("expected ',' or '}' after match arm, found %s", lexer.Name(p.cur().Type))
		}
	}
	if _, err := p.expect(lexer.TokenRBrace, "expected '}' after match arms"); err != nil {
		return nil, err
	}
	return at(ast.NewMatchExpression(subject, clauses), tok), nil
}

func (p *Parser) parseMatchClause() (*ast.MatchClause, error) {
	first := p.cur()
	pattern, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	var guard ast.Expression
	if p.match(lexer.TokenWhen) {
		guard, err = p.parseExpression(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenArrow, "expected '->' after match pattern"); err != nil {
		return nil, err
	}
	var body ast.Statement
	if p.check(lexer.TokenLBrace) {
		body, err = p.parseBlock()
	} else {
		body, err = p.parseExpression(0)
	}
	if err != nil {
		return nil, err
	}
	return at(ast.NewMatchClause(pattern, guard, body), first), nil
}

func (p *Parser) parseTry() (ast.Expression, error) {
	tok := p.advance()
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var rescueName *ast.Identifier
	var rescue, ensure *ast.BlockStatement
	save := p.pos
	p.skipNewlines()
	switch {
	case p.match(lexer.TokenRescue):
		if p.check(lexer.TokenIdent) {
			name := p.advance()
			rescueName = at(ast.NewIdentifier(name.Lexeme), name)
		}
		rescue, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		after := p.pos
		p.skipNewlines()
		if p.match(lexer.TokenEnsure) {
			ensure, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		} else {
			p.pos = after
		}
	case p.match(lexer.TokenEnsure):
		ensure, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	default:
		p.pos = save
		return nil, p.errAt(tok, "expected 'rescue' or 'ensure' after try block")
	}
	return at(ast.NewTryExpression(body, rescueName, rescue, ensure), tok), nil
}

// parseInterpolated splices an interpolated string's raw-text and
// expression segments into an InterpolatedString node. Each expression
// segment is re-lexed at its true source position and parsed by the
// ordinary expression parser.
func (p *Parser) parseInterpolated(tok lexer.Token, segments []lexer.StringPart) (ast.Expression, error) {
	parts := make([]ast.Expression, 0, len(segments))
	for _, seg := range segments {
		if !seg.IsExpr {
			parts = append(parts, at(ast.NewStringLiteral(seg.Text), tok))
			continue
		}
		expr, err := p.parseFragment(seg.Source, seg.Line, seg.Col)
		if err != nil {
			return nil, err
		}
		parts = append(parts, expr)
	}
	return at(ast.NewInterpolatedString(parts), tok), nil
}

func (p *Parser) parseFragment(fragment string, line, col int) (ast.Expression, error) {
	toks, err := lexer.NewAt(fragment, line, col).Scan()
	if err != nil {
		return nil, fromLexError(p.file, err)
	}
	sub := &Parser{file: p.file, src: p.src, toks: toks}
	expr, err := sub.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if !sub.check(lexer.TokenEOF) {
		return nil, sub.errHere("unexpected %s in interpolation", lexer.Name(sub.cur().Type))
	}
	return expr, nil
}
