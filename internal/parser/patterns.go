package parser

import (
	"github.com/cwbudde/go-sandjs/pkg/ast"
	"github.com/cwbudde/go-sandjs/pkg/token"
)

// parseBindingTarget parses a declaration binding: an identifier, an array
// pattern or an object pattern. Returns nil on error.
func (p *Parser) parseBindingTarget() ast.Node {
	tok := p.curToken()
	switch {
	case isIdentLike(tok):
		p.next()
		return &ast.Identifier{Token: tok, Value: tok.Literal}
	case tok.Type == token.LBRACK:
		return p.parseArrayPattern()
	case tok.Type == token.LBRACE:
		return p.parseObjectPattern()
	default:
		p.errorf(tok.Pos, "expected binding target, got %q", tok.Literal)
		p.next()
		return nil
	}
}

// parseBindingElement parses a pattern element with an optional default:
// `target` or `target = expr`.
func (p *Parser) parseBindingElement() ast.Node {
	target := p.parseBindingTarget()
	if target == nil {
		return nil
	}
	if p.curIs(token.ASSIGN) {
		assignTok := p.curToken()
		p.next()
		def := p.parseExpression(LOWEST)
		return &ast.AssignmentPattern{Token: assignTok, Left: target, Right: def}
	}
	return target
}

func (p *Parser) parseArrayPattern() ast.Node {
	tok := p.curToken()
	p.next() // consume '['
	pat := &ast.ArrayPattern{Token: tok}
	for !p.curIs(token.RBRACK) && !p.curIs(token.EOF) {
		switch {
		case p.curIs(token.COMMA):
			pat.Elements = append(pat.Elements, nil) // elision
			p.next()
			continue
		case p.curIs(token.ELLIPSIS):
			restTok := p.curToken()
			p.next()
			arg := p.parseBindingTarget()
			pat.Elements = append(pat.Elements, &ast.RestElement{Token: restTok, Argument: arg})
		default:
			el := p.parseBindingElement()
			if el == nil {
				return pat
			}
			pat.Elements = append(pat.Elements, el)
		}
		if p.curIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RBRACK)
	return pat
}

func (p *Parser) parseObjectPattern() ast.Node {
	tok := p.curToken()
	p.next() // consume '{'
	pat := &ast.ObjectPattern{Token: tok}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.ELLIPSIS) {
			p.next()
			pat.Rest = p.parseBindingTarget()
			break
		}
		prop := &ast.ObjectPatternProperty{Token: p.curToken()}
		switch {
		case p.curIs(token.LBRACK):
			p.next()
			prop.Key = p.parseExpression(LOWEST)
			prop.Computed = true
			p.expect(token.RBRACK)
		case p.curIs(token.STRING):
			prop.Key = p.parseStringLiteral().(ast.Expression)
		case p.curIs(token.NUMBER):
			prop.Key = p.parseNumberLiteral().(ast.Expression)
		default:
			keyTok := p.curToken()
			if !isIdentLike(keyTok) && !token.IsKeyword(keyTok.Literal) {
				p.errorf(keyTok.Pos, "expected property name in pattern, got %q", keyTok.Literal)
				p.next()
				return pat
			}
			p.next()
			prop.Key = &ast.Identifier{Token: keyTok, Value: keyTok.Literal}
		}

		if p.curIs(token.COLON) {
			p.next()
			prop.Value = p.parseBindingElement()
		} else {
			// shorthand `{a}` or `{a = def}`
			prop.Shorthand = true
			key, ok := prop.Key.(*ast.Identifier)
			if !ok {
				p.errorf(prop.Token.Pos, "invalid shorthand pattern property")
				return pat
			}
			if p.curIs(token.ASSIGN) {
				assignTok := p.curToken()
				p.next()
				def := p.parseExpression(LOWEST)
				prop.Value = &ast.AssignmentPattern{Token: assignTok, Left: key, Right: def}
			} else {
				prop.Value = key
			}
		}
		pat.Properties = append(pat.Properties, prop)
		if p.curIs(token.COMMA) {
			p.next()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	return pat
}

// parseParam parses one function parameter: rest, pattern, or pattern with
// default.
func (p *Parser) parseParam() *ast.Param {
	if p.curIs(token.ELLIPSIS) {
		p.next()
		target := p.parseBindingTarget()
		if target == nil {
			return nil
		}
		return &ast.Param{Pattern: target, Rest: true}
	}
	target := p.parseBindingTarget()
	if target == nil {
		return nil
	}
	param := &ast.Param{Pattern: target}
	if p.curIs(token.ASSIGN) {
		p.next()
		param.Default = p.parseExpression(LOWEST)
	}
	return param
}

// parseFunctionParams parses `( param, ... )` for function literals.
func (p *Parser) parseFunctionParams() []*ast.Param {
	var params []*ast.Param
	if _, ok := p.expect(token.LPAREN); !ok {
		return params
	}
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

// literalToPattern converts an already-parsed array or object literal into
// the equivalent binding pattern, for destructuring assignments like
// `[a, b] = pair`. Returns nil when the expression is not pattern-shaped.
func literalToPattern(expr ast.Expression) ast.Node {
	switch e := expr.(type) {
	case *ast.ArrayLiteral:
		pat := &ast.ArrayPattern{Token: e.Token}
		for _, el := range e.Elements {
			if el == nil {
				pat.Elements = append(pat.Elements, nil)
				continue
			}
			conv := exprToPatternElement(el)
			if conv == nil {
				return nil
			}
			pat.Elements = append(pat.Elements, conv)
		}
		return pat
	case *ast.ObjectLiteral:
		pat := &ast.ObjectPattern{Token: e.Token}
		for _, prop := range e.Properties {
			if prop.PropKind == ast.PropertySpread {
				conv := exprToPatternElement(prop.Argument)
				if conv == nil {
					return nil
				}
				pat.Rest = conv
				continue
			}
			if prop.PropKind != ast.PropertyInit {
				return nil
			}
			value := exprToPatternElement(prop.Value)
			if value == nil {
				return nil
			}
			pat.Properties = append(pat.Properties, &ast.ObjectPatternProperty{
				Token:     prop.Token,
				Key:       prop.Key,
				Value:     value,
				Computed:  prop.Computed,
				Shorthand: prop.Shorthand,
			})
		}
		return pat
	}
	return nil
}

// exprToPatternElement converts one literal element into a pattern element.
func exprToPatternElement(expr ast.Expression) ast.Node {
	switch e := expr.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		return e
	case *ast.SpreadElement:
		conv := exprToPatternElement(e.Argument)
		if conv == nil {
			return nil
		}
		return &ast.RestElement{Token: e.Token, Argument: conv}
	case *ast.AssignmentExpression:
		if e.Operator != "=" {
			return nil
		}
		return &ast.AssignmentPattern{Token: e.Token, Left: e.Target, Right: e.Value}
	case *ast.ArrayLiteral, *ast.ObjectLiteral:
		return literalToPattern(e)
	case *ast.ArrayPattern, *ast.ObjectPattern, *ast.AssignmentPattern, *ast.RestElement:
		return e
	}
	return nil
}
