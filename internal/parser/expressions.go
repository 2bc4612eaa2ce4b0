package parser

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-sandjs/pkg/ast"
	"github.com/cwbudde/go-sandjs/pkg/token"
)

// parseExpression is the Pratt core: parse a prefix expression, then fold
// infix operators while their binding power exceeds the caller's.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken().Type]
	if prefix == nil {
		p.errorf(p.curToken().Pos, "unexpected token %q", p.curToken().Literal)
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for precedence < p.curPrecedence() {
		infix := p.infixParseFns[p.curToken().Type]
		if infix == nil {
			break
		}
		// Postfix ++/-- on a new line belongs to the next statement (ASI).
		if (p.curIs(token.INC) || p.curIs(token.DEC)) && p.curToken().NewlineBefore {
			break
		}
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	// An optional link anywhere in the finished member/call chain makes
	// the whole chain short-circuit; wrap it so the evaluator knows where
	// the undefined result stops propagating.
	if chainHasOptional(left) {
		if _, already := left.(*ast.ChainExpression); !already {
			left = &ast.ChainExpression{Token: p.curToken(), Expression: left}
		}
	}
	return left
}

// chainHasOptional walks the member/call spine looking for an optional link.
func chainHasOptional(expr ast.Expression) bool {
	for {
		switch e := expr.(type) {
		case *ast.MemberExpression:
			if e.Optional {
				return true
			}
			expr = e.Object
		case *ast.CallExpression:
			if e.Optional {
				return true
			}
			expr = e.Callee
		default:
			return false
		}
	}
}

func (p *Parser) parseIdentifierOrArrow() ast.Expression {
	tok := p.curToken()
	p.next()
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

// parseContextualIdent handles keywords that double as identifiers
// (get, set, of, static) when they open an expression.
func (p *Parser) parseContextualIdent() ast.Expression {
	tok := p.curToken()
	p.next()
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

func (p *Parser) parsePrivateName() ast.Expression {
	tok := p.curToken()
	p.next()
	return &ast.PrivateName{Token: tok, Name: tok.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.curToken()
	p.next()
	text := strings.ReplaceAll(tok.Literal, "_", "")
	lit := &ast.NumberLiteral{Token: tok, BigInt: tok.Type == token.BIGINT}

	var value float64
	switch {
	case strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X"):
		n, err := strconv.ParseUint(text[2:], 16, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid hexadecimal literal %q", tok.Literal)
		}
		value = float64(n)
	case strings.HasPrefix(text, "0b") || strings.HasPrefix(text, "0B"):
		n, err := strconv.ParseUint(text[2:], 2, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid binary literal %q", tok.Literal)
		}
		value = float64(n)
	case strings.HasPrefix(text, "0o") || strings.HasPrefix(text, "0O"):
		n, err := strconv.ParseUint(text[2:], 8, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid octal literal %q", tok.Literal)
		}
		value = float64(n)
	default:
		text = strings.TrimSuffix(text, ".")
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.errorf(tok.Pos, "invalid number literal %q", tok.Literal)
		}
		value = n
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.curToken()
	p.next()
	return &ast.StringLiteral{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseRegexLiteral() ast.Expression {
	tok := p.curToken()
	p.next()
	pattern, flags, _ := strings.Cut(tok.Literal, "\x00")
	return &ast.RegexLiteral{Token: tok, Pattern: pattern, Flags: flags}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.curToken()
	p.next()
	return &ast.BooleanLiteral{Token: tok, Value: tok.Type == token.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	tok := p.curToken()
	p.next()
	return &ast.NullLiteral{Token: tok}
}

func (p *Parser) parseUndefinedLiteral() ast.Expression {
	tok := p.curToken()
	p.next()
	return &ast.UndefinedLiteral{Token: tok}
}

func (p *Parser) parseThisExpression() ast.Expression {
	tok := p.curToken()
	p.next()
	return &ast.ThisExpression{Token: tok}
}

func (p *Parser) parseSuperExpression() ast.Expression {
	tok := p.curToken()
	p.next()
	return &ast.SuperExpression{Token: tok}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken()
	p.next()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.UnaryExpression{Token: tok, Operator: tok.Literal, Operand: operand}
}

func (p *Parser) parsePrefixUpdate() ast.Expression {
	tok := p.curToken()
	p.next()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Operand: operand, Prefix: true}
}

func (p *Parser) parsePostfixUpdate(left ast.Expression) ast.Expression {
	tok := p.curToken()
	p.next()
	return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Operand: left, Prefix: false}
}

func (p *Parser) parseAwaitExpression() ast.Expression {
	tok := p.curToken()
	p.next()
	arg := p.parseExpression(PREFIX)
	if arg == nil {
		return nil
	}
	return &ast.AwaitExpression{Token: tok, Argument: arg}
}

func (p *Parser) parseYieldExpression() ast.Expression {
	tok := p.curToken()
	p.next()
	expr := &ast.YieldExpression{Token: tok}
	if p.curIs(token.ASTERISK) {
		expr.Delegate = true
		p.next()
	}
	if !p.curIs(token.SEMICOLON) && !p.curIs(token.RPAREN) && !p.curIs(token.RBRACE) &&
		!p.curIs(token.RBRACK) && !p.curIs(token.COMMA) && !p.curIs(token.EOF) &&
		!p.curToken().NewlineBefore {
		expr.Argument = p.parseExpression(LOWEST)
	}
	return expr
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	prec := p.curPrecedence()
	p.next()
	if tok.Type == token.POWER {
		prec-- // right associative
	}
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &ast.BinaryExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &ast.LogicalExpression{Token: tok, Operator: tok.Literal, Left: left, Right: right}
}

func (p *Parser) parseConditionalExpression(test ast.Expression) ast.Expression {
	tok := p.curToken()
	p.next()
	consequent := p.parseExpression(LOWEST)
	if consequent == nil {
		return nil
	}
	p.expect(token.COLON)
	alternate := p.parseExpression(LOWEST)
	if alternate == nil {
		return nil
	}
	return &ast.ConditionalExpression{Token: tok, Test: test, Consequent: consequent, Alternate: alternate}
}

func (p *Parser) parseAssignmentExpression(target ast.Expression) ast.Expression {
	tok := p.curToken()
	p.next()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}

	var tgt ast.Node = target
	if tok.Type == token.ASSIGN {
		if pat := literalToPattern(target); pat != nil {
			tgt = pat
		}
	}
	switch tgt.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.ArrayPattern, *ast.ObjectPattern, *ast.ChainExpression:
	default:
		p.errorf(tok.Pos, "invalid assignment target")
	}
	return &ast.AssignmentExpression{Token: tok, Operator: tok.Literal, Target: tgt, Value: value}
}

func (p *Parser) parseSpreadElement() ast.Expression {
	tok := p.curToken()
	p.next()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	return &ast.SpreadElement{Token: tok, Argument: arg}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken()
	p.next() // consume '['
	arr := &ast.ArrayLiteral{Token: tok}
	for !p.curIs(token.RBRACK) && !p.curIs(token.EOF) {
		if p.curIs(token.COMMA) {
			arr.Elements = append(arr.Elements, nil) // elision
			p.next()
			continue
		}
		el := p.parseExpression(LOWEST)
		if el == nil {
			break
		}
		arr.Elements = append(arr.Elements, el)
		if p.curIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RBRACK)
	return arr
}

// parseCallExpression parses `callee(args)`.
func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.curToken()
	args := p.parseCallArguments()
	return &ast.CallExpression{Token: tok, Callee: callee, Arguments: args}
}

func (p *Parser) parseCallArguments() []ast.Expression {
	p.next() // consume '('
	var args []ast.Expression
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			break
		}
		args = append(args, arg)
		if p.curIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return args
}

func (p *Parser) parseIndexExpression(obj ast.Expression) ast.Expression {
	tok := p.curToken()
	p.next() // consume '['
	index := p.parseExpressionSequence()
	p.expect(token.RBRACK)
	return &ast.MemberExpression{Token: tok, Object: obj, Property: index, Computed: true}
}

func (p *Parser) parseMemberExpression(obj ast.Expression) ast.Expression {
	tok := p.curToken()
	p.next() // consume '.'
	return &ast.MemberExpression{Token: tok, Object: obj, Property: p.parsePropertyName()}
}

// parsePropertyName accepts identifiers, keywords and private names after
// a '.'; keywords are valid property names in ECMAScript.
func (p *Parser) parsePropertyName() ast.Expression {
	tok := p.curToken()
	if tok.Type == token.PRIVATE {
		p.next()
		return &ast.PrivateName{Token: tok, Name: tok.Literal}
	}
	if tok.Type == token.IDENT || token.IsKeyword(tok.Literal) {
		p.next()
		return &ast.Identifier{Token: tok, Value: tok.Literal}
	}
	p.errorf(tok.Pos, "expected property name, got %q", tok.Literal)
	p.next()
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

// parseOptionalChain parses `?.prop`, `?.[expr]` and `?.(args)`.
func (p *Parser) parseOptionalChain(obj ast.Expression) ast.Expression {
	tok := p.curToken()
	p.next() // consume '?.'
	switch p.curToken().Type {
	case token.LPAREN:
		args := p.parseCallArguments()
		return &ast.CallExpression{Token: tok, Callee: obj, Arguments: args, Optional: true}
	case token.LBRACK:
		p.next()
		index := p.parseExpressionSequence()
		p.expect(token.RBRACK)
		return &ast.MemberExpression{Token: tok, Object: obj, Property: index, Computed: true, Optional: true}
	default:
		return &ast.MemberExpression{Token: tok, Object: obj, Property: p.parsePropertyName(), Optional: true}
	}
}

// parseNewExpression parses `new Callee(args)`. The callee may be a member
// chain but not a call, so `new a.b.C(1)` constructs `a.b.C`.
func (p *Parser) parseNewExpression() ast.Expression {
	tok := p.curToken()
	p.next() // consume 'new'

	prefix := p.prefixParseFns[p.curToken().Type]
	if prefix == nil {
		p.errorf(p.curToken().Pos, "unexpected token %q after 'new'", p.curToken().Literal)
		return nil
	}
	callee := prefix()
	for callee != nil {
		switch {
		case p.curIs(token.DOT):
			callee = p.parseMemberExpression(callee)
		case p.curIs(token.LBRACK):
			callee = p.parseIndexExpression(callee)
		default:
			goto done
		}
	}
done:
	if callee == nil {
		return nil
	}
	expr := &ast.NewExpression{Token: tok, Callee: callee}
	if p.curIs(token.LPAREN) {
		expr.Arguments = p.parseCallArguments()
	}
	return expr
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	return p.parseFunctionLiteral(false)
}

// parseFunctionLiteral parses `function [name](params) { body }` with
// optional generator star.
func (p *Parser) parseFunctionLiteral(isAsync bool) ast.Expression {
	fnTok := p.curToken()
	p.next() // consume 'function'
	fn := &ast.FunctionLiteral{Token: fnTok, IsAsync: isAsync}
	if p.curIs(token.ASTERISK) {
		fn.IsGenerator = true
		p.next()
	}
	if isIdentLike(p.curToken()) {
		fn.Name = p.curToken().Literal
		p.next()
	}
	fn.Params = p.parseFunctionParams()
	fn.Body = p.parseBlockStatement()
	return fn
}

// parseAsyncExpression handles the `async` prefix in expression position:
// `async function`, `async x => ...`, `async (x, y) => ...`, or the plain
// identifier `async`.
func (p *Parser) parseAsyncExpression() ast.Expression {
	tok := p.curToken()

	if p.peekIs(token.FUNCTION) && !p.peekToken().NewlineBefore {
		p.next()
		return p.parseFunctionLiteral(true)
	}
	if isIdentLike(p.peekToken()) && p.peekAhead(2).Type == token.ARROW {
		p.next() // consume 'async'
		paramTok := p.curToken()
		p.next() // consume param
		param := &ast.Param{Pattern: &ast.Identifier{Token: paramTok, Value: paramTok.Literal}}
		return p.parseArrowTail(tok, []*ast.Param{param}, true)
	}
	if p.peekIs(token.LPAREN) {
		if arrowIdx, ok := p.matchingParen(p.pos + 1); ok && p.peekAt(arrowIdx+1) == token.ARROW {
			p.next() // consume 'async'
			params := p.parseArrowParams()
			return p.parseArrowTail(tok, params, true)
		}
	}
	p.next()
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

// parseGroupedOrArrow disambiguates `( ... )` between a parenthesized
// expression and an arrow function parameter list by scanning ahead to the
// matching parenthesis.
func (p *Parser) parseGroupedOrArrow() ast.Expression {
	tok := p.curToken()
	if arrowIdx, ok := p.matchingParen(p.pos); ok && p.peekAt(arrowIdx+1) == token.ARROW {
		params := p.parseArrowParams()
		return p.parseArrowTail(tok, params, false)
	}

	p.next() // consume '('
	if p.curIs(token.RPAREN) {
		p.errorf(tok.Pos, "empty parenthesized expression")
		p.next()
		return nil
	}
	expr := p.parseExpressionSequence()
	p.expect(token.RPAREN)
	return expr
}

// matchingParen returns the index of the ')' matching the '(' at start.
func (p *Parser) matchingParen(start int) (int, bool) {
	depth := 0
	for i := start; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
			if depth == 0 {
				return i, true
			}
		case token.EOF:
			return 0, false
		}
	}
	return 0, false
}

func (p *Parser) peekAt(idx int) token.TokenType {
	if idx >= len(p.tokens) {
		return token.EOF
	}
	return p.tokens[idx].Type
}

// parseArrowParams parses `( pattern, pattern = def, ...rest )`.
func (p *Parser) parseArrowParams() []*ast.Param {
	p.next() // consume '('
	var params []*ast.Param
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		param := p.parseParam()
		if param == nil {
			break
		}
		params = append(params, param)
		if p.curIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

// parseArrowTail consumes `=>` and the body, producing the arrow literal.
func (p *Parser) parseArrowTail(tok token.Token, params []*ast.Param, isAsync bool) ast.Expression {
	p.expect(token.ARROW)
	fn := &ast.FunctionLiteral{Token: tok, Params: params, IsArrow: true, IsAsync: isAsync}
	if p.curIs(token.LBRACE) {
		fn.Body = p.parseBlockStatement()
	} else {
		fn.ExpressionBody = p.parseExpression(LOWEST)
	}
	return fn
}

// parseArrowFromIdentifier is the infix handler for `ident => body`.
func (p *Parser) parseArrowFromIdentifier(left ast.Expression) ast.Expression {
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.errorf(p.curToken().Pos, "invalid arrow function parameter")
		return nil
	}
	param := &ast.Param{Pattern: ident}
	return p.parseArrowTail(ident.Token, []*ast.Param{param}, false)
}
