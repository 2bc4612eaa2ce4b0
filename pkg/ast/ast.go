// Package ast defines the abstract syntax tree for the sandboxed ECMAScript
// subset. Node kinds follow the ES-tree naming that embedders expect
// (Program, VariableDeclaration, ArrowFunctionExpression, ...), so an AST
// produced elsewhere in that shape maps onto these types directly.
package ast

import (
	"bytes"

	"github.com/cwbudde/go-sandjs/pkg/token"
)

// Node is the base interface for all AST nodes.
type Node interface {
	// TokenLiteral returns the literal text of the token the node is
	// associated with. Used in tests and error reporting.
	TokenLiteral() string

	// String returns a source-like representation of the node for
	// debugging and snapshot tests.
	String() string

	// Pos returns the position of the node in the source code.
	Pos() token.Position

	// Kind returns the ES-tree node-kind name, e.g. "VariableDeclaration".
	Kind() string
}

// Expression represents any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement represents a node executed for effect.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node of every parsed source text.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, stmt := range p.Statements {
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

func (p *Program) Kind() string { return "Program" }

// Identifier is a name reference (variable, function, property shorthand).
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }
func (i *Identifier) Kind() string         { return "Identifier" }

// PrivateName is a `#name` reference inside a class body.
type PrivateName struct {
	Token token.Token
	Name  string // without the leading '#'
}

func (p *PrivateName) expressionNode()      {}
func (p *PrivateName) TokenLiteral() string { return p.Token.Literal }
func (p *PrivateName) String() string       { return "#" + p.Name }
func (p *PrivateName) Pos() token.Position  { return p.Token.Pos }
func (p *PrivateName) Kind() string         { return "PrivateIdentifier" }
