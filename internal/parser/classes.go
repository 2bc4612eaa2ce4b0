package parser

import (
	"github.com/cwbudde/go-sandjs/pkg/ast"
	"github.com/cwbudde/go-sandjs/pkg/token"
)

// parseObjectLiteral parses `{ key: value, shorthand, method() {}, get x()
// {}, set x(v) {}, [computed]: value, ...spread }`.
func (p *Parser) parseObjectLiteral() ast.Expression {
	tok := p.curToken()
	p.next() // consume '{'
	obj := &ast.ObjectLiteral{Token: tok}

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		prop := p.parseObjectProperty()
		if prop == nil {
			break
		}
		obj.Properties = append(obj.Properties, prop)
		if p.curIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return obj
}

func (p *Parser) parseObjectProperty() *ast.ObjectProperty {
	propTok := p.curToken()

	if p.curIs(token.ELLIPSIS) {
		p.next()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		return &ast.ObjectProperty{Token: propTok, PropKind: ast.PropertySpread, Argument: arg}
	}

	// get/set accessor: `get name() {}` — but `get` alone may be a key.
	if (p.curIs(token.GET) || p.curIs(token.SET)) && p.propertyKeyFollows(1) {
		kind := ast.PropertyGet
		if p.curIs(token.SET) {
			kind = ast.PropertySet
		}
		p.next()
		key, computed := p.parseObjectKey()
		fn := &ast.FunctionLiteral{Token: propTok}
		fn.Params = p.parseFunctionParams()
		fn.Body = p.parseBlockStatement()
		return &ast.ObjectProperty{Token: propTok, PropKind: kind, Key: key, Computed: computed, Value: fn}
	}

	isAsync := false
	if p.curIs(token.ASYNC) && p.propertyKeyFollows(1) && !p.peekIs(token.COLON) && !p.peekIs(token.LPAREN) {
		isAsync = true
		p.next()
	}

	key, computed := p.parseObjectKey()
	if key == nil {
		return nil
	}

	switch {
	case p.curIs(token.LPAREN):
		// method shorthand
		fn := &ast.FunctionLiteral{Token: propTok, IsAsync: isAsync}
		fn.Params = p.parseFunctionParams()
		fn.Body = p.parseBlockStatement()
		return &ast.ObjectProperty{Token: propTok, PropKind: ast.PropertyInit, Key: key, Computed: computed, Value: fn, Method: true}
	case p.curIs(token.COLON):
		p.next()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		return &ast.ObjectProperty{Token: propTok, PropKind: ast.PropertyInit, Key: key, Computed: computed, Value: value}
	case p.curIs(token.ASSIGN):
		// cover grammar for destructuring: `{a = def}` — only meaningful
		// when the literal is converted to a pattern.
		ident, ok := key.(*ast.Identifier)
		if !ok {
			p.errorf(propTok.Pos, "unexpected '=' in object literal")
			return nil
		}
		assignTok := p.curToken()
		p.next()
		def := p.parseExpression(LOWEST)
		value := &ast.AssignmentExpression{Token: assignTok, Operator: "=", Target: ident, Value: def}
		return &ast.ObjectProperty{Token: propTok, PropKind: ast.PropertyInit, Key: key, Shorthand: true, Value: value}
	default:
		// shorthand `{a}`
		ident, ok := key.(*ast.Identifier)
		if !ok {
			p.errorf(propTok.Pos, "expected ':' after property key")
			return nil
		}
		return &ast.ObjectProperty{Token: propTok, PropKind: ast.PropertyInit, Key: key, Shorthand: true, Value: ident}
	}
}

// propertyKeyFollows reports whether the token n ahead can begin a
// property key (so `get x()` is an accessor while `get: 1` is a key).
func (p *Parser) propertyKeyFollows(n int) bool {
	t := p.peekAhead(n)
	return isIdentLike(t) || token.IsKeyword(t.Literal) ||
		t.Type == token.STRING || t.Type == token.NUMBER || t.Type == token.LBRACK
}

// parseObjectKey parses a property key: identifier, keyword, string,
// number, or `[computed]`.
func (p *Parser) parseObjectKey() (ast.Expression, bool) {
	tok := p.curToken()
	switch {
	case tok.Type == token.LBRACK:
		p.next()
		key := p.parseExpression(LOWEST)
		p.expect(token.RBRACK)
		return key, true
	case tok.Type == token.STRING:
		p.next()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}, false
	case tok.Type == token.NUMBER:
		return p.parseNumberLiteral(), false
	case isIdentLike(tok) || token.IsKeyword(tok.Literal):
		p.next()
		return &ast.Identifier{Token: tok, Value: tok.Literal}, false
	default:
		p.errorf(tok.Pos, "expected property key, got %q", tok.Literal)
		p.next()
		return nil, false
	}
}

func (p *Parser) parseClassDeclaration() ast.Statement {
	classTok := p.curToken()
	class := p.parseClassLiteral()
	if class == nil {
		return nil
	}
	if class.Name == "" {
		p.errorf(classTok.Pos, "class declaration requires a name")
	}
	return &ast.ClassDeclaration{Token: classTok, Class: class}
}

func (p *Parser) parseClassExpression() ast.Expression {
	class := p.parseClassLiteral()
	if class == nil {
		return nil
	}
	return class
}

func (p *Parser) parseClassLiteral() *ast.ClassLiteral {
	classTok := p.curToken()
	p.next() // consume 'class'
	class := &ast.ClassLiteral{Token: classTok}

	if isIdentLike(p.curToken()) {
		class.Name = p.curToken().Literal
		p.next()
	}
	if p.curIs(token.EXTENDS) {
		p.next()
		class.SuperClass = p.parseExpression(CALL - 1)
	}
	if _, ok := p.expect(token.LBRACE); !ok {
		return class
	}

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.SEMICOLON) {
			p.next()
			continue
		}
		member := p.parseClassMember()
		if member == nil {
			break
		}
		class.Members = append(class.Members, member)
	}
	p.expect(token.RBRACE)
	return class
}

// parseClassMember parses one class body entry: constructor, method,
// accessor, or field (public or private, static or instance).
func (p *Parser) parseClassMember() *ast.ClassMember {
	memberTok := p.curToken()
	member := &ast.ClassMember{Token: memberTok}

	if p.curIs(token.STATIC) && !p.peekIs(token.LPAREN) && !p.peekIs(token.ASSIGN) {
		member.Static = true
		p.next()
	}

	kind := ast.MemberMethod
	if (p.curIs(token.GET) || p.curIs(token.SET)) && p.propertyKeyFollows(1) &&
		!p.peekIs(token.LPAREN) && !p.peekIs(token.ASSIGN) {
		if p.curIs(token.GET) {
			kind = ast.MemberGetter
		} else {
			kind = ast.MemberSetter
		}
		p.next()
	}

	isAsync := false
	if p.curIs(token.ASYNC) && !p.peekIs(token.LPAREN) && !p.peekIs(token.ASSIGN) &&
		!p.peekToken().NewlineBefore {
		isAsync = true
		p.next()
	}
	isGenerator := false
	if p.curIs(token.ASTERISK) {
		isGenerator = true
		p.next()
	}

	keyTok := p.curToken()
	switch {
	case keyTok.Type == token.PRIVATE:
		member.Private = true
		member.Key = keyTok.Literal
		p.next()
	case isIdentLike(keyTok) || token.IsKeyword(keyTok.Literal):
		member.Key = keyTok.Literal
		p.next()
	case keyTok.Type == token.STRING:
		member.Key = keyTok.Literal
		p.next()
	default:
		p.errorf(keyTok.Pos, "expected class member name, got %q", keyTok.Literal)
		p.next()
		return nil
	}

	switch {
	case p.curIs(token.LPAREN):
		fn := &ast.FunctionLiteral{Token: memberTok, Name: member.Key, IsAsync: isAsync, IsGenerator: isGenerator}
		fn.Params = p.parseFunctionParams()
		fn.Body = p.parseBlockStatement()
		member.Value = fn
		if kind == ast.MemberMethod && member.Key == "constructor" && !member.Static && !member.Private {
			member.MemberKind = ast.MemberConstructor
		} else {
			member.MemberKind = kind
		}
	case kind != ast.MemberMethod:
		p.errorf(keyTok.Pos, "accessor %q requires a body", member.Key)
		return nil
	default:
		member.MemberKind = ast.MemberField
		if p.curIs(token.ASSIGN) {
			p.next()
			member.Init = p.parseExpression(LOWEST)
		}
		p.expectStatementEnd()
	}
	return member
}
