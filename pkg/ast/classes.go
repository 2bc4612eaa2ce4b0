package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-sandjs/pkg/token"
)

// ClassMemberKind discriminates the member forms of a class body.
type ClassMemberKind string

const (
	MemberConstructor ClassMemberKind = "constructor"
	MemberMethod      ClassMemberKind = "method"
	MemberGetter      ClassMemberKind = "get"
	MemberSetter      ClassMemberKind = "set"
	MemberField       ClassMemberKind = "field"
)

// ClassMember is one entry of a class body: the constructor, a method, an
// accessor, or a field initializer. Private members carry Private and a key
// without the leading '#'.
type ClassMember struct {
	Token      token.Token
	MemberKind ClassMemberKind
	Key        string
	Private    bool
	Static     bool
	Value      *FunctionLiteral // constructor, methods, accessors
	Init       Expression       // fields; may be nil
}

func (m *ClassMember) String() string {
	var out bytes.Buffer
	if m.Static {
		out.WriteString("static ")
	}
	switch m.MemberKind {
	case MemberGetter:
		out.WriteString("get ")
	case MemberSetter:
		out.WriteString("set ")
	}
	if m.Private {
		out.WriteString("#")
	}
	out.WriteString(m.Key)
	if m.Value != nil {
		params := make([]string, 0, len(m.Value.Params))
		for _, p := range m.Value.Params {
			params = append(params, p.String())
		}
		out.WriteString("(" + strings.Join(params, ", ") + ") ")
		if m.Value.Body != nil {
			out.WriteString(m.Value.Body.String())
		}
	} else if m.Init != nil {
		out.WriteString(" = " + m.Init.String())
	}
	return out.String()
}

// ClassLiteral is a class expression or the payload of a class declaration.
type ClassLiteral struct {
	Token      token.Token
	Name       string // empty for anonymous class expressions
	SuperClass Expression
	Members    []*ClassMember
}

func (c *ClassLiteral) expressionNode()      {}
func (c *ClassLiteral) TokenLiteral() string { return c.Token.Literal }
func (c *ClassLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("class")
	if c.Name != "" {
		out.WriteString(" " + c.Name)
	}
	if c.SuperClass != nil {
		out.WriteString(" extends " + c.SuperClass.String())
	}
	out.WriteString(" { ")
	for _, m := range c.Members {
		out.WriteString(m.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}
func (c *ClassLiteral) Pos() token.Position { return c.Token.Pos }
func (c *ClassLiteral) Kind() string        { return "ClassExpression" }

// ClassDeclaration is a named, hoisted-by-name class statement.
type ClassDeclaration struct {
	Token token.Token
	Class *ClassLiteral
}

func (c *ClassDeclaration) statementNode()       {}
func (c *ClassDeclaration) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDeclaration) String() string       { return c.Class.String() }
func (c *ClassDeclaration) Pos() token.Position  { return c.Token.Pos }
func (c *ClassDeclaration) Kind() string         { return "ClassDeclaration" }
