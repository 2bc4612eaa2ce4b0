package parser

import (
	"github.com/cwbudde/go-sandjs/pkg/ast"
	"github.com/cwbudde/go-sandjs/pkg/token"
)

// parseStatement dispatches on the current token to the statement parsers.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken().Type {
	case token.VAR, token.LET, token.CONST:
		return p.parseVariableDeclaration()
	case token.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case token.ASYNC:
		if p.peekIs(token.FUNCTION) && !p.peekToken().NewlineBefore {
			p.next()
			return p.parseFunctionDeclaration(true)
		}
		return p.parseExpressionStatement()
	case token.CLASS:
		return p.parseClassDeclaration()
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.SEMICOLON:
		p.next() // empty statement
		return nil
	case token.IDENT:
		if p.peekIs(token.COLON) {
			return p.parseLabeledStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	declTok := p.curToken()
	p.next()
	decl := &ast.VariableDeclaration{Token: declTok, DeclKind: declTok.Literal}

	for {
		d := &ast.VariableDeclarator{Token: p.curToken()}
		d.ID = p.parseBindingTarget()
		if d.ID == nil {
			return decl
		}
		if p.curIs(token.ASSIGN) {
			p.next()
			d.Init = p.parseExpression(LOWEST)
		}
		decl.Declarations = append(decl.Declarations, d)
		if !p.curIs(token.COMMA) {
			break
		}
		p.next()
	}
	p.expectStatementEnd()
	return decl
}

// parseVariableDeclarationNoSemi parses a declaration without consuming the
// statement terminator; used for the init clause of for statements.
func (p *Parser) parseVariableDeclarationNoSemi() *ast.VariableDeclaration {
	declTok := p.curToken()
	p.next()
	decl := &ast.VariableDeclaration{Token: declTok, DeclKind: declTok.Literal}
	for {
		d := &ast.VariableDeclarator{Token: p.curToken()}
		d.ID = p.parseBindingTarget()
		if d.ID == nil {
			return decl
		}
		if p.curIs(token.ASSIGN) {
			p.next()
			d.Init = p.parseExpression(LOWEST)
		}
		decl.Declarations = append(decl.Declarations, d)
		if !p.curIs(token.COMMA) {
			break
		}
		p.next()
	}
	return decl
}

func (p *Parser) parseFunctionDeclaration(isAsync bool) *ast.FunctionDeclaration {
	fnTok := p.curToken()
	p.next() // consume 'function'
	isGenerator := false
	if p.curIs(token.ASTERISK) {
		isGenerator = true
		p.next()
	}
	nameTok := p.curToken()
	if !isIdentLike(nameTok) {
		p.errorf(nameTok.Pos, "expected function name, got %q", nameTok.Literal)
		return nil
	}
	p.next()
	name := &ast.Identifier{Token: nameTok, Value: nameTok.Literal}

	fn := &ast.FunctionLiteral{
		Token:       fnTok,
		Name:        nameTok.Literal,
		IsAsync:     isAsync,
		IsGenerator: isGenerator,
	}
	fn.Params = p.parseFunctionParams()
	fn.Body = p.parseBlockStatement()
	return &ast.FunctionDeclaration{Token: fnTok, Name: name, Function: fn}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	blockTok := p.curToken()
	block := &ast.BlockStatement{Token: blockTok}
	if _, ok := p.expect(token.LBRACE); !ok {
		return block
	}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if len(p.errors) > 50 {
			break
		}
	}
	p.expect(token.RBRACE)
	return block
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	ifTok := p.curToken()
	p.next()
	stmt := &ast.IfStatement{Token: ifTok}
	p.expect(token.LPAREN)
	stmt.Test = p.parseExpressionSequence()
	p.expect(token.RPAREN)
	stmt.Consequent = p.parseStatement()
	if p.curIs(token.ELSE) {
		p.next()
		stmt.Alternate = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	whileTok := p.curToken()
	p.next()
	stmt := &ast.WhileStatement{Token: whileTok}
	p.expect(token.LPAREN)
	stmt.Test = p.parseExpressionSequence()
	p.expect(token.RPAREN)
	stmt.Body = p.parseStatement()
	return stmt
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	doTok := p.curToken()
	p.next()
	stmt := &ast.DoWhileStatement{Token: doTok}
	stmt.Body = p.parseStatement()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	stmt.Test = p.parseExpressionSequence()
	p.expect(token.RPAREN)
	p.expectStatementEnd()
	return stmt
}

// parseForStatement handles the classic for, for-in, for-of and
// `for await ... of` forms, disambiguating after the left-hand clause.
func (p *Parser) parseForStatement() ast.Statement {
	forTok := p.curToken()
	p.next()
	isAwait := false
	if p.curIs(token.AWAIT) {
		isAwait = true
		p.next()
	}
	p.expect(token.LPAREN)

	var init ast.Statement
	var left ast.Node

	switch {
	case p.curIs(token.SEMICOLON):
		// no init
	case p.curIs(token.VAR) || p.curIs(token.LET) || p.curIs(token.CONST):
		decl := p.parseVariableDeclarationNoSemi()
		init = decl
		left = decl
	default:
		p.noIn = true
		expr := p.parseExpressionSequence()
		p.noIn = false
		init = &ast.ExpressionStatement{Token: forTok, Expression: expr}
		left = expr
	}

	switch {
	case p.curIs(token.IN):
		p.next()
		stmt := &ast.ForInStatement{Token: forTok, Left: forLeft(left)}
		stmt.Right = p.parseExpressionSequence()
		p.expect(token.RPAREN)
		stmt.Body = p.parseStatement()
		return stmt
	case p.curIs(token.OF):
		p.next()
		stmt := &ast.ForOfStatement{Token: forTok, Left: forLeft(left), Await: isAwait}
		stmt.Right = p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
		stmt.Body = p.parseStatement()
		return stmt
	}

	if isAwait {
		p.errorf(forTok.Pos, "'for await' is only valid with 'of'")
	}
	stmt := &ast.ForStatement{Token: forTok, Init: init}
	p.expect(token.SEMICOLON)
	if !p.curIs(token.SEMICOLON) {
		stmt.Test = p.parseExpressionSequence()
	}
	p.expect(token.SEMICOLON)
	if !p.curIs(token.RPAREN) {
		stmt.Update = p.parseExpressionSequence()
	}
	p.expect(token.RPAREN)
	stmt.Body = p.parseStatement()
	return stmt
}

// forLeft converts the parsed left clause of a for-in/of header into a
// binding target: array/object literals become patterns.
func forLeft(left ast.Node) ast.Node {
	switch l := left.(type) {
	case ast.Expression:
		if pat := literalToPattern(l); pat != nil {
			return pat
		}
	}
	return left
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	retTok := p.curToken()
	p.next()
	stmt := &ast.ReturnStatement{Token: retTok}
	// `return` followed by a newline returns undefined (ASI).
	if !p.curIs(token.SEMICOLON) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) &&
		!p.curToken().NewlineBefore {
		stmt.Argument = p.parseExpressionSequence()
	}
	p.expectStatementEnd()
	return stmt
}

func (p *Parser) parseBreakStatement() *ast.BreakStatement {
	brkTok := p.curToken()
	p.next()
	stmt := &ast.BreakStatement{Token: brkTok}
	if p.curIs(token.IDENT) && !p.curToken().NewlineBefore {
		stmt.Label = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal}
		p.next()
	}
	p.expectStatementEnd()
	return stmt
}

func (p *Parser) parseContinueStatement() *ast.ContinueStatement {
	contTok := p.curToken()
	p.next()
	stmt := &ast.ContinueStatement{Token: contTok}
	if p.curIs(token.IDENT) && !p.curToken().NewlineBefore {
		stmt.Label = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal}
		p.next()
	}
	p.expectStatementEnd()
	return stmt
}

func (p *Parser) parseLabeledStatement() *ast.LabeledStatement {
	labelTok := p.curToken()
	label := &ast.Identifier{Token: labelTok, Value: labelTok.Literal}
	p.next() // label
	p.next() // ':'
	return &ast.LabeledStatement{Token: labelTok, Label: label, Body: p.parseStatement()}
}

func (p *Parser) parseThrowStatement() *ast.ThrowStatement {
	throwTok := p.curToken()
	p.next()
	stmt := &ast.ThrowStatement{Token: throwTok}
	if p.curToken().NewlineBefore {
		p.errorf(throwTok.Pos, "newline not allowed after 'throw'")
	}
	stmt.Argument = p.parseExpressionSequence()
	p.expectStatementEnd()
	return stmt
}

func (p *Parser) parseTryStatement() *ast.TryStatement {
	tryTok := p.curToken()
	p.next()
	stmt := &ast.TryStatement{Token: tryTok}
	stmt.Block = p.parseBlockStatement()

	if p.curIs(token.CATCH) {
		catchTok := p.curToken()
		p.next()
		clause := &ast.CatchClause{Token: catchTok}
		if p.curIs(token.LPAREN) {
			p.next()
			clause.Param = p.parseBindingTarget()
			p.expect(token.RPAREN)
		}
		clause.Body = p.parseBlockStatement()
		stmt.Handler = clause
	}
	if p.curIs(token.FINALLY) {
		p.next()
		stmt.Finalizer = p.parseBlockStatement()
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.errorf(tryTok.Pos, "missing catch or finally after try")
	}
	return stmt
}

func (p *Parser) parseSwitchStatement() *ast.SwitchStatement {
	switchTok := p.curToken()
	p.next()
	stmt := &ast.SwitchStatement{Token: switchTok}
	p.expect(token.LPAREN)
	stmt.Discriminant = p.parseExpressionSequence()
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		c := &ast.SwitchCase{Token: p.curToken()}
		switch {
		case p.curIs(token.CASE):
			p.next()
			c.Test = p.parseExpressionSequence()
		case p.curIs(token.DEFAULT):
			p.next()
		default:
			p.errorf(p.curToken().Pos, "expected 'case' or 'default', got %q", p.curToken().Literal)
			p.next()
			continue
		}
		p.expect(token.COLON)
		for !p.curIs(token.CASE) && !p.curIs(token.DEFAULT) &&
			!p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			s := p.parseStatement()
			if s != nil {
				c.Body = append(c.Body, s)
			}
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.expect(token.RBRACE)
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	exprTok := p.curToken()
	expr := p.parseExpressionSequence()
	if expr == nil {
		p.next() // make progress on unparseable input
		return nil
	}
	p.expectStatementEnd()
	return &ast.ExpressionStatement{Token: exprTok, Expression: expr}
}

// parseExpressionSequence parses one expression, extending it into a
// SequenceExpression when followed by commas.
func (p *Parser) parseExpressionSequence() ast.Expression {
	first := p.parseExpression(LOWEST)
	if first == nil || !p.curIs(token.COMMA) {
		return first
	}
	seq := &ast.SequenceExpression{Token: p.curToken(), Expressions: []ast.Expression{first}}
	for p.curIs(token.COMMA) {
		p.next()
		next := p.parseExpression(LOWEST)
		if next == nil {
			break
		}
		seq.Expressions = append(seq.Expressions, next)
	}
	return seq
}
