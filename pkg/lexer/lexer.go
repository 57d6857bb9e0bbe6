package lexer

import (
	"fmt"
	"strconv"
	"strings"
)

type TokenType int

const (
	// Single and multi character tokens.
	TokenLParen TokenType = iota
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
	TokenComma
	TokenDot
	TokenColon
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenAssign
	TokenEq
	TokenNeq
	TokenLt
	TokenLte
	TokenGt
	TokenGte
	TokenPipe     // |>
	TokenCoalesce // ??
	TokenArrow    // ->
	TokenEllipsis // ...

	// Literals.
	TokenIdent
	TokenInt
	TokenFloat
	TokenString

	// Keywords.
	TokenLet
	TokenFn
	TokenPipeline
	TokenReturn
	TokenIf
	TokenElif
	TokenElse
	TokenWhile
	TokenFor
	TokenIn
	TokenBreak
	TokenContinue
	TokenMatch
	TokenWhen
	TokenGuard
	TokenTry
	TokenRescue
	TokenEnsure
	TokenSpawn
	TokenAwait
	TokenUse
	TokenTrue
	TokenFalse
	TokenNull
	TokenAnd
	TokenOr
	TokenNot

	TokenNewline
	TokenEOF
)

var keywords = map[string]TokenType{
	"let":      TokenLet,
	"fn":       TokenFn,
	"pipeline": TokenPipeline,
	"return":   TokenReturn,
	"if":       TokenIf,
	"elif":     TokenElif,
	"else":     TokenElse,
	"while":    TokenWhile,
	"for":      TokenFor,
	"in":       TokenIn,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"match":    TokenMatch,
	"when":     TokenWhen,
	"guard":    TokenGuard,
	"try":      TokenTry,
	"rescue":   TokenRescue,
	"ensure":   TokenEnsure,
	"spawn":    TokenSpawn,
	"await":    TokenAwait,
	"use":      TokenUse,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"null":     TokenNull,
	"and":      TokenAnd,
	"or":       TokenOr,
	"not":      TokenNot,
}

var tokenNames = map[TokenType]string{
	TokenLParen:   "'('",
	TokenRParen:   "')'",
	TokenLBracket: "'['",
	TokenRBracket: "']'",
	TokenLBrace:   "'{'",
	TokenRBrace:   "'}'",
	TokenComma:    "','",
	TokenDot:      "'.'",
	TokenColon:    "':'",
	TokenPlus:     "'+'",
	TokenMinus:    "'-'",
	TokenStar:     "'*'",
	TokenSlash:    "'/'",
	TokenPercent:  "'%'",
	TokenAssign:   "'='",
	TokenEq:       "'=='",
	TokenNeq:      "'!='",
	TokenLt:       "'<'",
	TokenLte:      "'<='",
	TokenGt:       "'>'",
	TokenGte:      "'>='",
	TokenPipe:     "'|>'",
	TokenCoalesce: "'??'",
	TokenArrow:    "'->'",
	TokenEllipsis: "'...'",
	TokenIdent:    "identifier",
	TokenInt:      "integer",
	TokenFloat:    "float",
	TokenString:   "string",
	TokenNewline:  "newline",
	TokenEOF:      "end of input",
}

// Name returns a printable description of a token type for diagnostics.
func Name(t TokenType) string {
	if n, ok := tokenNames[t]; ok {
		return n
	}
	for kw, kt := range keywords {
		if kt == t {
			return "'" + kw + "'"
		}
	}
	return "token"
}

// Token is one lexeme with its 1-based source position. Literal holds the
// decoded value for TokenInt (int64), TokenFloat (float64) and TokenString
// (string, or []StringPart when the literal contains interpolation).
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Col     int
}

// StringPart is one segment of an interpolated string literal. Raw text
// segments carry the decoded Text; expression segments carry the raw
// Source between the braces plus the position of its first character, so
// the parser can re-lex it in place.
type StringPart struct {
	Text   string
	IsExpr bool
	Source string
	Line   int
	Col    int
}

// Error is a tokenization failure at a specific source position.
type Error struct {
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer scans rill source into a token stream. Newline tokens are emitted
// only outside parentheses and brackets, so expressions may span lines
// inside any bracketed context while statements stay newline-terminated.
type Lexer struct {
	src   []rune
	start int
	cur   int
	line  int
	col   int

	startLine int
	startCol  int
	depth     int // ( and [ nesting; suppresses newline tokens when > 0

	toks []Token
}

func New(src string) *Lexer {
	return NewAt(src, 1, 1)
}

// NewAt starts position tracking at the given line and column; the parser
// uses it to lex interpolation segments at their true source location.
func NewAt(src string, line, col int) *Lexer {
	return &Lexer{src: []rune(src), line: line, col: col}
}

// Scan tokenizes the whole input, always terminating the stream with an
// EOF token on success.
func (l *Lexer) Scan() ([]Token, error) {
	for !l.atEnd() {
		l.start = l.cur
		l.startLine = l.line
		l.startCol = l.col
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.toks = append(l.toks, Token{Type: TokenEOF, Line: l.line, Col: l.col})
	return l.toks, nil
}

func (l *Lexer) scanToken() error {
	c := l.advance()
	switch c {
	case '(':
		l.depth++
		l.add(TokenLParen, nil)
	case ')':
		if l.depth > 0 {
			l.depth--
		}
		l.add(TokenRParen, nil)
	case '[':
		l.depth++
		l.add(TokenLBracket, nil)
	case ']':
		if l.depth > 0 {
			l.depth--
		}
		l.add(TokenRBracket, nil)
	case '{':
		l.add(TokenLBrace, nil)
	case '}':
		l.add(TokenRBrace, nil)
	case ',':
		l.add(TokenComma, nil)
	case ':':
		l.add(TokenColon, nil)
	case '+':
		l.add(TokenPlus, nil)
	case '*':
		l.add(TokenStar, nil)
	case '/':
		l.add(TokenSlash, nil)
	case '%':
		l.add(TokenPercent, nil)
	case '-':
		if l.match('>') {
			l.add(TokenArrow, nil)
		} else {
			l.add(TokenMinus, nil)
		}
	case '=':
		if l.match('=') {
			l.add(TokenEq, nil)
		} else {
			l.add(TokenAssign, nil)
		}
	case '!':
		if l.match('=') {
			l.add(TokenNeq, nil)
		} else {
			return l.errorf("unexpected character '!' (use 'not' for negation)")
		}
	case '<':
		if l.match('=') {
			l.add(TokenLte, nil)
		} else {
			l.add(TokenLt, nil)
		}
	case '>':
		if l.match('=') {
			l.add(TokenGte, nil)
		} else {
			l.add(TokenGt, nil)
		}
	case '|':
		if l.match('>') {
			l.add(TokenPipe, nil)
		} else {
			return l.errorf("unexpected character '|' (did you mean '|>'?)")
		}
	case '?':
		if l.match('?') {
			l.add(TokenCoalesce, nil)
		} else {
			return l.errorf("unexpected character '?' (did you mean '??'?)")
		}
	case '.':
		if l.peek() == '.' && l.peekAt(1) == '.' {
			l.advance()
			l.advance()
			l.add(TokenEllipsis, nil)
		} else {
			l.add(TokenDot, nil)
		}
	case '#':
		for !l.atEnd() && l.peek() != '\n' {
			l.advance()
		}
	case ' ', '\t', '\r':
		// skip
	case '\n':
		if l.depth == 0 {
			l.add(TokenNewline, nil)
		}
	case '"':
		return l.scanString()
	default:
		if isDigit(c) {
			return l.scanNumber()
		}
		if isAlpha(c) {
			l.scanIdent()
			return nil
		}
		return l.errorf("unexpected character %q", c)
	}
	return nil
}

func (l *Lexer) scanIdent() {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	name := string(l.src[l.start:l.cur])
	if kw, ok := keywords[name]; ok {
		l.add(kw, nil)
		return
	}
	l.add(TokenIdent, nil)
}

func (l *Lexer) scanNumber() error {
	for isDigit(l.peek()) {
		l.advance()
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			isFloat = true
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}
	text := string(l.src[l.start:l.cur])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.errorf("malformed number %q", text)
		}
		l.add(TokenFloat, f)
		return nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return l.errorf("integer literal %q out of range", text)
	}
	l.add(TokenInt, n)
	return nil
}

func (l *Lexer) scanString() error {
	var text strings.Builder
	var parts []StringPart

	flushText := func() {
		if text.Len() > 0 {
			parts = append(parts, StringPart{Text: text.String()})
			text.Reset()
		}
	}

	for {
		if l.atEnd() {
			return l.errorf("unterminated string")
		}
		c := l.advance()
		switch c {
		case '"':
			if len(parts) == 0 {
				l.add(TokenString, text.String())
				return nil
			}
			flushText()
			l.add(TokenString, parts)
			return nil
		case '\n':
			return l.errorf("unterminated string")
		case '\\':
			if l.atEnd() {
				return l.errorf("unterminated string")
			}
			esc := l.advance()
			switch esc {
			case 'n':
				text.WriteRune('\n')
			case 't':
				text.WriteRune('\t')
			case 'r':
				text.WriteRune('\r')
			case '\\':
				text.WriteRune('\\')
			case '"':
				text.WriteRune('"')
			case '{':
				text.WriteRune('{')
			case 'u':
				if l.peek() != '{' {
					return l.errorf("invalid escape '\\u' (expected '\\u{hex}')")
				}
				l.advance()
				hexStart := l.cur
				for l.peek() != '}' {
					if l.atEnd() || l.peek() == '"' {
						return l.errorf("unterminated '\\u{' escape")
					}
					l.advance()
				}
				hex := string(l.src[hexStart:l.cur])
				l.advance()
				code, err := strconv.ParseUint(hex, 16, 32)
				if err != nil {
					return l.errorf("invalid unicode escape '\\u{%s}'", hex)
				}
				text.WriteRune(rune(code))
			default:
				return l.errorf("invalid escape '\\%c'", esc)
			}
		case '{':
			exprLine, exprCol := l.line, l.col
			src, err := l.scanInterpolation()
			if err != nil {
				return err
			}
			flushText()
			parts = append(parts, StringPart{IsExpr: true, Source: src, Line: exprLine, Col: exprCol})
		default:
			text.WriteRune(c)
		}
	}
}

// scanInterpolation consumes source up to the brace matching the '{' just
// consumed and returns the raw text between them. Nested braces and string
// literals inside the segment are honored.
func (l *Lexer) scanInterpolation() (string, error) {
	srcStart := l.cur
	depth := 1
	for depth > 0 {
		if l.atEnd() {
			return "", l.errorf("unterminated interpolation in string")
		}
		switch l.advance() {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			for {
				if l.atEnd() {
					return "", l.errorf("unterminated string inside interpolation")
				}
				inner := l.advance()
				if inner == '\\' && !l.atEnd() {
					l.advance()
					continue
				}
				if inner == '"' {
					break
				}
			}
		case '\n':
			return "", l.errorf("unterminated interpolation in string")
		}
	}
	return string(l.src[srcStart : l.cur-1]), nil
}

func (l *Lexer) add(t TokenType, literal interface{}) {
	l.toks = append(l.toks, Token{
		Type:    t,
		Lexeme:  string(l.src[l.start:l.cur]),
		Literal: literal,
		Line:    l.startLine,
		Col:     l.startCol,
	})
}

func (l *Lexer) advance() rune {
	c := l.src[l.cur]
	l.cur++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) match(want rune) bool {
	if l.atEnd() || l.src[l.cur] != want {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekAt(offset int) rune {
	if l.cur+offset >= len(l.src) {
		return 0
	}
	return l.src[l.cur+offset]
}

func (l *Lexer) atEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) errorf(format string, args ...interface{}) error {
	return &Error{Line: l.startLine, Col: l.startCol, Msg: fmt.Sprintf(format, args...)}
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isAlpha(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
