// Package parser implements the parser for the sandboxed ECMAScript subset
// using Pratt parsing.
//
// Key patterns:
//   - Token buffer: the whole input is lexed up front so arrow function
//     parameter lists can be recognised by scanning ahead to the matching
//     parenthesis before anything is parsed.
//   - Registration: prefix and infix parse functions are registered per
//     token type; the precedence table drives the binding power loop.
//   - ASI: expectStatementEnd accepts a newline or closing brace in place
//     of a semicolon.
package parser

import (
	"fmt"

	"github.com/cwbudde/go-sandjs/internal/lexer"
	"github.com/cwbudde/go-sandjs/pkg/ast"
	"github.com/cwbudde/go-sandjs/pkg/token"
)

// Precedence levels for operators (lowest to highest).
const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= ...
	CONDITIONAL // ?:
	COALESCE    // ??
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	EQUALS      // == != === !==
	LESSGREATER // < > <= >= in instanceof
	SHIFT       // << >> >>>
	SUM         // + -
	PRODUCT     // * / %
	EXPONENT    // ** (right associative)
	PREFIX      // -x !x typeof x await x
	POSTFIX     // x++ x--
	CALL        // fn(args) obj.prop obj[prop]
)

// precedences maps token types to their precedence levels.
var precedences = map[token.TokenType]int{
	token.ASSIGN:          ASSIGN,
	token.PLUS_ASSIGN:     ASSIGN,
	token.MINUS_ASSIGN:    ASSIGN,
	token.ASTERISK_ASSIGN: ASSIGN,
	token.SLASH_ASSIGN:    ASSIGN,
	token.PERCENT_ASSIGN:  ASSIGN,
	token.POWER_ASSIGN:    ASSIGN,
	token.SHL_ASSIGN:      ASSIGN,
	token.SHR_ASSIGN:      ASSIGN,
	token.USHR_ASSIGN:     ASSIGN,
	token.AND_ASSIGN:      ASSIGN,
	token.OR_ASSIGN:       ASSIGN,
	token.XOR_ASSIGN:      ASSIGN,
	token.LOGAND_ASSIGN:   ASSIGN,
	token.LOGOR_ASSIGN:    ASSIGN,
	token.COALESCE_ASSIGN: ASSIGN,

	token.QUESTION: CONDITIONAL,
	token.COALESCE: COALESCE,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.BIT_OR:   BITWISE_OR,
	token.BIT_XOR:  BITWISE_XOR,
	token.BIT_AND:  BITWISE_AND,

	token.EQ:        EQUALS,
	token.NOT_EQ:    EQUALS,
	token.STRICT_EQ: EQUALS,
	token.STRICT_NE: EQUALS,

	token.LT:         LESSGREATER,
	token.GT:         LESSGREATER,
	token.LT_EQ:      LESSGREATER,
	token.GT_EQ:      LESSGREATER,
	token.IN:         LESSGREATER,
	token.INSTANCEOF: LESSGREATER,

	token.SHL:  SHIFT,
	token.SHR:  SHIFT,
	token.USHR: SHIFT,

	token.PLUS:  SUM,
	token.MINUS: SUM,

	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,

	token.POWER: EXPONENT,

	token.INC: POSTFIX,
	token.DEC: POSTFIX,

	token.LPAREN:   CALL,
	token.LBRACK:   CALL,
	token.DOT:      CALL,
	token.OPTCHAIN: CALL,
	token.TEMPLATE: CALL, // no infix handler: a tagged template fails as an unexpected token
	token.ARROW:    ASSIGN,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Error is a parse error with its source position.
type Error struct {
	Msg string
	Pos token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parser parses a token stream into a Program.
type Parser struct {
	tokens []token.Token
	pos    int

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	errors []*Error

	// noIn suppresses the `in` operator while parsing a for-statement
	// init clause, so `for (x in obj)` is read as a for-in header.
	noIn bool
}

// New creates a parser over the given lexer. The lexer is drained
// immediately into the token buffer.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{}
	for {
		tok := l.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	for _, msg := range l.Errors() {
		p.errors = append(p.errors, &Error{Msg: msg})
	}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:     p.parseIdentifierOrArrow,
		token.NUMBER:    p.parseNumberLiteral,
		token.BIGINT:    p.parseNumberLiteral,
		token.STRING:    p.parseStringLiteral,
		token.TEMPLATE:  p.parseTemplateLiteral,
		token.REGEX:     p.parseRegexLiteral,
		token.TRUE:      p.parseBooleanLiteral,
		token.FALSE:     p.parseBooleanLiteral,
		token.NULL:      p.parseNullLiteral,
		token.UNDEFINED: p.parseUndefinedLiteral,
		token.THIS:      p.parseThisExpression,
		token.SUPER:     p.parseSuperExpression,
		token.LPAREN:    p.parseGroupedOrArrow,
		token.LBRACK:    p.parseArrayLiteral,
		token.LBRACE:    p.parseObjectLiteral,
		token.FUNCTION:  p.parseFunctionExpression,
		token.CLASS:     p.parseClassExpression,
		token.NEW:       p.parseNewExpression,
		token.BANG:      p.parsePrefixExpression,
		token.MINUS:     p.parsePrefixExpression,
		token.PLUS:      p.parsePrefixExpression,
		token.BIT_NOT:   p.parsePrefixExpression,
		token.TYPEOF:    p.parsePrefixExpression,
		token.VOID:      p.parsePrefixExpression,
		token.DELETE:    p.parsePrefixExpression,
		token.INC:       p.parsePrefixUpdate,
		token.DEC:       p.parsePrefixUpdate,
		token.AWAIT:     p.parseAwaitExpression,
		token.YIELD:     p.parseYieldExpression,
		token.ASYNC:     p.parseAsyncExpression,
		token.ELLIPSIS:  p.parseSpreadElement,
		token.PRIVATE:   p.parsePrivateName,
		token.GET:       p.parseContextualIdent,
		token.SET:       p.parseContextualIdent,
		token.OF:        p.parseContextualIdent,
		token.STATIC:    p.parseContextualIdent,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:       p.parseBinaryExpression,
		token.MINUS:      p.parseBinaryExpression,
		token.ASTERISK:   p.parseBinaryExpression,
		token.SLASH:      p.parseBinaryExpression,
		token.PERCENT:    p.parseBinaryExpression,
		token.POWER:      p.parseBinaryExpression,
		token.EQ:         p.parseBinaryExpression,
		token.NOT_EQ:     p.parseBinaryExpression,
		token.STRICT_EQ:  p.parseBinaryExpression,
		token.STRICT_NE:  p.parseBinaryExpression,
		token.LT:         p.parseBinaryExpression,
		token.GT:         p.parseBinaryExpression,
		token.LT_EQ:      p.parseBinaryExpression,
		token.GT_EQ:      p.parseBinaryExpression,
		token.IN:         p.parseBinaryExpression,
		token.INSTANCEOF: p.parseBinaryExpression,
		token.SHL:        p.parseBinaryExpression,
		token.SHR:        p.parseBinaryExpression,
		token.USHR:       p.parseBinaryExpression,
		token.BIT_AND:    p.parseBinaryExpression,
		token.BIT_OR:     p.parseBinaryExpression,
		token.BIT_XOR:    p.parseBinaryExpression,
		token.AND:        p.parseLogicalExpression,
		token.OR:         p.parseLogicalExpression,
		token.COALESCE:   p.parseLogicalExpression,
		token.QUESTION:   p.parseConditionalExpression,
		token.LPAREN:     p.parseCallExpression,
		token.LBRACK:     p.parseIndexExpression,
		token.DOT:        p.parseMemberExpression,
		token.OPTCHAIN:   p.parseOptionalChain,
		token.INC:        p.parsePostfixUpdate,
		token.DEC:        p.parsePostfixUpdate,
		token.ARROW:      p.parseArrowFromIdentifier,

		token.ASSIGN:          p.parseAssignmentExpression,
		token.PLUS_ASSIGN:     p.parseAssignmentExpression,
		token.MINUS_ASSIGN:    p.parseAssignmentExpression,
		token.ASTERISK_ASSIGN: p.parseAssignmentExpression,
		token.SLASH_ASSIGN:    p.parseAssignmentExpression,
		token.PERCENT_ASSIGN:  p.parseAssignmentExpression,
		token.POWER_ASSIGN:    p.parseAssignmentExpression,
		token.SHL_ASSIGN:      p.parseAssignmentExpression,
		token.SHR_ASSIGN:      p.parseAssignmentExpression,
		token.USHR_ASSIGN:     p.parseAssignmentExpression,
		token.AND_ASSIGN:      p.parseAssignmentExpression,
		token.OR_ASSIGN:       p.parseAssignmentExpression,
		token.XOR_ASSIGN:      p.parseAssignmentExpression,
		token.LOGAND_ASSIGN:   p.parseAssignmentExpression,
		token.LOGOR_ASSIGN:    p.parseAssignmentExpression,
		token.COALESCE_ASSIGN: p.parseAssignmentExpression,
	}

	return p
}

// Errors returns parse errors collected so far.
func (p *Parser) Errors() []*Error {
	return p.errors
}

// curToken returns the token at the cursor.
func (p *Parser) curToken() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

// peekToken returns the token after the cursor.
func (p *Parser) peekToken() token.Token {
	return p.peekAhead(1)
}

func (p *Parser) peekAhead(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) next() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

// mark returns the cursor position for later reset.
func (p *Parser) mark() int { return p.pos }

// reset restores the cursor and drops errors collected since the mark.
func (p *Parser) reset(mark int, errCount int) {
	p.pos = mark
	if errCount <= len(p.errors) {
		p.errors = p.errors[:errCount]
	}
}

func (p *Parser) curIs(t token.TokenType) bool  { return p.curToken().Type == t }
func (p *Parser) peekIs(t token.TokenType) bool { return p.peekToken().Type == t }

// expect consumes the current token if it matches, otherwise records an
// error. Returns the consumed token and whether it matched.
func (p *Parser) expect(t token.TokenType) (token.Token, bool) {
	tok := p.curToken()
	if tok.Type != t {
		p.errorf(tok.Pos, "expected %q, got %q", string(t), tok.Literal)
		return tok, false
	}
	p.next()
	return tok, true
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, &Error{Msg: fmt.Sprintf(format, args...), Pos: pos})
}

// curPrecedence returns the binding power of the current token.
func (p *Parser) curPrecedence() int {
	if p.noIn && p.curIs(token.IN) {
		return LOWEST
	}
	if prec, ok := precedences[p.curToken().Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram parses the whole token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		if len(p.errors) > 50 {
			break
		}
	}
	return program
}

// expectStatementEnd consumes a semicolon or applies automatic semicolon
// insertion: a closing brace, EOF, or a preceding line terminator all end
// the statement.
func (p *Parser) expectStatementEnd() {
	switch {
	case p.curIs(token.SEMICOLON):
		p.next()
	case p.curIs(token.RBRACE), p.curIs(token.EOF):
		// implicit
	case p.curToken().NewlineBefore:
		// ASI
	default:
		p.errorf(p.curToken().Pos, "expected ';', got %q", p.curToken().Literal)
		p.next() // skip the offending token to avoid error loops
	}
}

// isIdentLike reports whether the token may serve as an identifier in the
// current grammar position (contextual keywords included).
func isIdentLike(t token.Token) bool {
	return t.Type == token.IDENT || token.ContextualKeywords[t.Type]
}
