package ast

import (
	"strings"

	"github.com/cwbudde/go-sandjs/pkg/token"
)

// Binding patterns. Patterns implement Expression so they can appear in
// assignment-target position; the evaluator distinguishes declaration
// binding from plain assignment by context.

// ArrayPattern is `[a, [b], ...rest]` in binding or assignment position.
// Elements may be nil for elisions; a RestElement must be last.
type ArrayPattern struct {
	Token    token.Token
	Elements []Node
}

func (a *ArrayPattern) expressionNode()      {}
func (a *ArrayPattern) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayPattern) String() string {
	parts := make([]string, 0, len(a.Elements))
	for _, el := range a.Elements {
		if el == nil {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, el.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *ArrayPattern) Pos() token.Position { return a.Token.Pos }
func (a *ArrayPattern) Kind() string        { return "ArrayPattern" }

// ObjectPatternProperty is one `key`, `key: target` or `key: target = def`
// entry of an object pattern.
type ObjectPatternProperty struct {
	Token    token.Token
	Key      Expression // Identifier, StringLiteral, NumberLiteral or computed
	Value    Node       // binding target (may itself be a pattern or AssignmentPattern)
	Computed bool
	Shorthand bool
}

func (p *ObjectPatternProperty) String() string {
	if p.Shorthand {
		return p.Value.String()
	}
	return p.Key.String() + ": " + p.Value.String()
}

// ObjectPattern is `{a, b: c, ...rest}` in binding or assignment position.
type ObjectPattern struct {
	Token      token.Token
	Properties []*ObjectPatternProperty
	Rest       Node // rest target, may be nil
}

func (o *ObjectPattern) expressionNode()      {}
func (o *ObjectPattern) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectPattern) String() string {
	parts := make([]string, 0, len(o.Properties)+1)
	for _, p := range o.Properties {
		parts = append(parts, p.String())
	}
	if o.Rest != nil {
		parts = append(parts, "..."+o.Rest.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (o *ObjectPattern) Pos() token.Position { return o.Token.Pos }
func (o *ObjectPattern) Kind() string        { return "ObjectPattern" }

// AssignmentPattern is `target = default` inside a pattern.
type AssignmentPattern struct {
	Token token.Token
	Left  Node
	Right Expression
}

func (a *AssignmentPattern) expressionNode()      {}
func (a *AssignmentPattern) TokenLiteral() string { return a.Token.Literal }
func (a *AssignmentPattern) String() string       { return a.Left.String() + " = " + a.Right.String() }
func (a *AssignmentPattern) Pos() token.Position  { return a.Token.Pos }
func (a *AssignmentPattern) Kind() string         { return "AssignmentPattern" }

// RestElement is `...target` inside a pattern.
type RestElement struct {
	Token    token.Token
	Argument Node
}

func (r *RestElement) expressionNode()      {}
func (r *RestElement) TokenLiteral() string { return r.Token.Literal }
func (r *RestElement) String() string       { return "..." + r.Argument.String() }
func (r *RestElement) Pos() token.Position  { return r.Token.Pos }
func (r *RestElement) Kind() string         { return "RestElement" }
