package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/cwbudde/go-sandjs/pkg/token"
)

// NumberLiteral is a numeric literal. All numbers are float64, matching the
// runtime value model. BigInt-suffixed literals are parsed and carried here
// with BigInt set.
type NumberLiteral struct {
	Token  token.Token
	Value  float64
	BigInt bool
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) String() string       { return n.Token.Literal }
func (n *NumberLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *NumberLiteral) Kind() string         { return "Literal" }

// StringLiteral is a quoted string literal with escapes already decoded.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string       { return strconv.Quote(s.Value) }
func (s *StringLiteral) Pos() token.Position  { return s.Token.Pos }
func (s *StringLiteral) Kind() string         { return "Literal" }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }
func (b *BooleanLiteral) Pos() token.Position  { return b.Token.Pos }
func (b *BooleanLiteral) Kind() string         { return "Literal" }

// NullLiteral is `null`.
type NullLiteral struct {
	Token token.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "null" }
func (n *NullLiteral) Pos() token.Position  { return n.Token.Pos }
func (n *NullLiteral) Kind() string         { return "Literal" }

// UndefinedLiteral is the `undefined` spelling used in literal position.
// ECMAScript treats `undefined` as a global binding, but inside the sandbox
// it is a fixed literal so it cannot be shadowed into something observable.
type UndefinedLiteral struct {
	Token token.Token
}

func (u *UndefinedLiteral) expressionNode()      {}
func (u *UndefinedLiteral) TokenLiteral() string { return u.Token.Literal }
func (u *UndefinedLiteral) String() string       { return "undefined" }
func (u *UndefinedLiteral) Pos() token.Position  { return u.Token.Pos }
func (u *UndefinedLiteral) Kind() string         { return "Literal" }

// RegexLiteral is a `/pattern/flags` literal. Compilation is delegated to
// the host RegExp builtin at evaluation time.
type RegexLiteral struct {
	Token   token.Token
	Pattern string
	Flags   string
}

func (r *RegexLiteral) expressionNode()      {}
func (r *RegexLiteral) TokenLiteral() string { return r.Token.Literal }
func (r *RegexLiteral) String() string       { return "/" + r.Pattern + "/" + r.Flags }
func (r *RegexLiteral) Pos() token.Position  { return r.Token.Pos }
func (r *RegexLiteral) Kind() string         { return "Literal" }

// TemplateLiteral is a backtick string. Quasis always has one more element
// than Expressions; the rendered value interleaves them.
type TemplateLiteral struct {
	Token       token.Token
	Quasis      []string
	Expressions []Expression
}

func (t *TemplateLiteral) expressionNode()      {}
func (t *TemplateLiteral) TokenLiteral() string { return t.Token.Literal }
func (t *TemplateLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("`")
	for i, q := range t.Quasis {
		out.WriteString(q)
		if i < len(t.Expressions) {
			out.WriteString("${")
			out.WriteString(t.Expressions[i].String())
			out.WriteString("}")
		}
	}
	out.WriteString("`")
	return out.String()
}
func (t *TemplateLiteral) Pos() token.Position { return t.Token.Pos }
func (t *TemplateLiteral) Kind() string        { return "TemplateLiteral" }

// ArrayLiteral is `[a, b, ...c]`. Elements may contain SpreadElement nodes
// and nil entries for elisions (`[1, , 3]`).
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayLiteral) String() string {
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
func (a *ArrayLiteral) Pos() token.Position { return a.Token.Pos }
func (a *ArrayLiteral) Kind() string        { return "ArrayExpression" }

// PropertyKind discriminates the forms an object literal property can take.
type PropertyKind string

const (
	PropertyInit   PropertyKind = "init"
	PropertyGet    PropertyKind = "get"
	PropertySet    PropertyKind = "set"
	PropertySpread PropertyKind = "spread"
)

// ObjectProperty is one entry of an object literal.
type ObjectProperty struct {
	Token     token.Token
	PropKind  PropertyKind
	Key       Expression // Identifier, StringLiteral, NumberLiteral, or computed expression
	Value     Expression // nil for spread (Argument holds it)
	Argument  Expression // spread argument
	Computed  bool
	Shorthand bool
	Method    bool
}

func (p *ObjectProperty) String() string {
	switch p.PropKind {
	case PropertySpread:
		return "..." + p.Argument.String()
	case PropertyGet:
		return "get " + p.Key.String()
	case PropertySet:
		return "set " + p.Key.String()
	default:
		if p.Shorthand {
			return p.Key.String()
		}
		return p.Key.String() + ": " + p.Value.String()
	}
}

// ObjectLiteral is `{a: 1, b, get c() {}, ...rest}`.
type ObjectLiteral struct {
	Token      token.Token
	Properties []*ObjectProperty
}

func (o *ObjectLiteral) expressionNode()      {}
func (o *ObjectLiteral) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectLiteral) String() string {
	parts := make([]string, 0, len(o.Properties))
	for _, p := range o.Properties {
		parts = append(parts, p.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (o *ObjectLiteral) Pos() token.Position { return o.Token.Pos }
func (o *ObjectLiteral) Kind() string        { return "ObjectExpression" }

// Param is one formal parameter: a binding pattern with an optional default
// and an optional rest marker (rest must be last).
type Param struct {
	Pattern Node
	Default Expression
	Rest    bool
}

func (p *Param) String() string {
	s := p.Pattern.String()
	if p.Rest {
		s = "..." + s
	}
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}

// FunctionLiteral covers function expressions, declarations bodies, arrow
// functions, methods and async generators. Arrow functions with a concise
// body carry it in ExpressionBody and leave Body nil.
type FunctionLiteral struct {
	Token          token.Token
	Name           string
	Params         []*Param
	Body           *BlockStatement
	ExpressionBody Expression
	IsArrow        bool
	IsAsync        bool
	IsGenerator    bool
}

func (f *FunctionLiteral) expressionNode()      {}
func (f *FunctionLiteral) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionLiteral) String() string {
	var out bytes.Buffer
	if f.IsAsync {
		out.WriteString("async ")
	}
	if !f.IsArrow {
		out.WriteString("function")
		if f.IsGenerator {
			out.WriteString("*")
		}
		if f.Name != "" {
			out.WriteString(" " + f.Name)
		}
	}
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	out.WriteString("(" + strings.Join(params, ", ") + ")")
	if f.IsArrow {
		out.WriteString(" => ")
		if f.ExpressionBody != nil {
			out.WriteString(f.ExpressionBody.String())
			return out.String()
		}
	} else {
		out.WriteString(" ")
	}
	if f.Body != nil {
		out.WriteString(f.Body.String())
	}
	return out.String()
}
func (f *FunctionLiteral) Pos() token.Position { return f.Token.Pos }
func (f *FunctionLiteral) Kind() string {
	if f.IsArrow {
		return "ArrowFunctionExpression"
	}
	return "FunctionExpression"
}

// MinArity returns the count of required positional parameters: everything
// before the first default or rest parameter.
func (f *FunctionLiteral) MinArity() int {
	n := 0
	for _, p := range f.Params {
		if p.Rest || p.Default != nil {
			break
		}
		n++
	}
	return n
}

// UnaryExpression is a prefix operator application: `!x`, `-x`, `typeof x`,
// `void x`, `delete x`, `~x`, `+x`.
type UnaryExpression struct {
	Token    token.Token
	Operator string
	Operand  Expression
}

func (u *UnaryExpression) expressionNode()      {}
func (u *UnaryExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpression) String() string       { return "(" + u.Operator + " " + u.Operand.String() + ")" }
func (u *UnaryExpression) Pos() token.Position  { return u.Token.Pos }
func (u *UnaryExpression) Kind() string         { return "UnaryExpression" }

// UpdateExpression is `++x`, `x++`, `--x`, `x--`.
type UpdateExpression struct {
	Token    token.Token
	Operator string
	Operand  Expression
	Prefix   bool
}

func (u *UpdateExpression) expressionNode()      {}
func (u *UpdateExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UpdateExpression) String() string {
	if u.Prefix {
		return "(" + u.Operator + u.Operand.String() + ")"
	}
	return "(" + u.Operand.String() + u.Operator + ")"
}
func (u *UpdateExpression) Pos() token.Position { return u.Token.Pos }
func (u *UpdateExpression) Kind() string        { return "UpdateExpression" }

// BinaryExpression is an arithmetic, comparison, bitwise, `in` or
// `instanceof` operation.
type BinaryExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}
func (b *BinaryExpression) Pos() token.Position { return b.Token.Pos }
func (b *BinaryExpression) Kind() string        { return "BinaryExpression" }

// LogicalExpression is `&&`, `||` or `??` with short-circuit evaluation.
type LogicalExpression struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (l *LogicalExpression) expressionNode()      {}
func (l *LogicalExpression) TokenLiteral() string { return l.Token.Literal }
func (l *LogicalExpression) String() string {
	return "(" + l.Left.String() + " " + l.Operator + " " + l.Right.String() + ")"
}
func (l *LogicalExpression) Pos() token.Position { return l.Token.Pos }
func (l *LogicalExpression) Kind() string        { return "LogicalExpression" }

// AssignmentExpression is `target op value` where op is `=` or a compound
// operator. Target may be an Identifier, MemberExpression, or a
// destructuring pattern (plain `=` only).
type AssignmentExpression struct {
	Token    token.Token
	Operator string
	Target   Node
	Value    Expression
}

func (a *AssignmentExpression) expressionNode()      {}
func (a *AssignmentExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AssignmentExpression) String() string {
	return "(" + a.Target.String() + " " + a.Operator + " " + a.Value.String() + ")"
}
func (a *AssignmentExpression) Pos() token.Position { return a.Token.Pos }
func (a *AssignmentExpression) Kind() string        { return "AssignmentExpression" }

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	Token      token.Token
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (c *ConditionalExpression) expressionNode()      {}
func (c *ConditionalExpression) TokenLiteral() string { return c.Token.Literal }
func (c *ConditionalExpression) String() string {
	return "(" + c.Test.String() + " ? " + c.Consequent.String() + " : " + c.Alternate.String() + ")"
}
func (c *ConditionalExpression) Pos() token.Position { return c.Token.Pos }
func (c *ConditionalExpression) Kind() string        { return "ConditionalExpression" }

// SequenceExpression is the comma operator.
type SequenceExpression struct {
	Token       token.Token
	Expressions []Expression
}

func (s *SequenceExpression) expressionNode()      {}
func (s *SequenceExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SequenceExpression) String() string {
	parts := make([]string, 0, len(s.Expressions))
	for _, e := range s.Expressions {
		parts = append(parts, e.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (s *SequenceExpression) Pos() token.Position { return s.Token.Pos }
func (s *SequenceExpression) Kind() string        { return "SequenceExpression" }

// CallExpression is `callee(args)`; Optional marks `callee?.(args)`.
type CallExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
	Optional  bool
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) String() string {
	args := make([]string, 0, len(c.Arguments))
	for _, a := range c.Arguments {
		args = append(args, a.String())
	}
	sep := "("
	if c.Optional {
		sep = "?.("
	}
	return c.Callee.String() + sep + strings.Join(args, ", ") + ")"
}
func (c *CallExpression) Pos() token.Position { return c.Token.Pos }
func (c *CallExpression) Kind() string        { return "CallExpression" }

// NewExpression is `new Callee(args)`.
type NewExpression struct {
	Token     token.Token
	Callee    Expression
	Arguments []Expression
}

func (n *NewExpression) expressionNode()      {}
func (n *NewExpression) TokenLiteral() string { return n.Token.Literal }
func (n *NewExpression) String() string {
	args := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		args = append(args, a.String())
	}
	return "new " + n.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
func (n *NewExpression) Pos() token.Position { return n.Token.Pos }
func (n *NewExpression) Kind() string        { return "NewExpression" }

// MemberExpression is `obj.prop` or `obj[prop]`; Optional marks `obj?.prop`.
type MemberExpression struct {
	Token    token.Token
	Object   Expression
	Property Expression
	Computed bool
	Optional bool
}

func (m *MemberExpression) expressionNode()      {}
func (m *MemberExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpression) String() string {
	if m.Computed {
		return m.Object.String() + "[" + m.Property.String() + "]"
	}
	dot := "."
	if m.Optional {
		dot = "?."
	}
	return m.Object.String() + dot + m.Property.String()
}
func (m *MemberExpression) Pos() token.Position { return m.Token.Pos }
func (m *MemberExpression) Kind() string        { return "MemberExpression" }

// ChainExpression wraps the outermost member/call of an optional chain so
// the evaluator has a place to stop short-circuit propagation.
type ChainExpression struct {
	Token      token.Token
	Expression Expression
}

func (c *ChainExpression) expressionNode()      {}
func (c *ChainExpression) TokenLiteral() string { return c.Token.Literal }
func (c *ChainExpression) String() string       { return c.Expression.String() }
func (c *ChainExpression) Pos() token.Position  { return c.Token.Pos }
func (c *ChainExpression) Kind() string         { return "ChainExpression" }

// SpreadElement is `...arg` in array literals and call arguments.
type SpreadElement struct {
	Token    token.Token
	Argument Expression
}

func (s *SpreadElement) expressionNode()      {}
func (s *SpreadElement) TokenLiteral() string { return s.Token.Literal }
func (s *SpreadElement) String() string       { return "..." + s.Argument.String() }
func (s *SpreadElement) Pos() token.Position  { return s.Token.Pos }
func (s *SpreadElement) Kind() string         { return "SpreadElement" }

// AwaitExpression is `await arg`.
type AwaitExpression struct {
	Token    token.Token
	Argument Expression
}

func (a *AwaitExpression) expressionNode()      {}
func (a *AwaitExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AwaitExpression) String() string       { return "(await " + a.Argument.String() + ")" }
func (a *AwaitExpression) Pos() token.Position  { return a.Token.Pos }
func (a *AwaitExpression) Kind() string         { return "AwaitExpression" }

// YieldExpression is `yield arg` inside a generator body.
type YieldExpression struct {
	Token    token.Token
	Argument Expression // may be nil
	Delegate bool       // yield*
}

func (y *YieldExpression) expressionNode()      {}
func (y *YieldExpression) TokenLiteral() string { return y.Token.Literal }
func (y *YieldExpression) String() string {
	s := "yield"
	if y.Delegate {
		s += "*"
	}
	if y.Argument != nil {
		s += " " + y.Argument.String()
	}
	return "(" + s + ")"
}
func (y *YieldExpression) Pos() token.Position { return y.Token.Pos }
func (y *YieldExpression) Kind() string        { return "YieldExpression" }

// ThisExpression is `this`.
type ThisExpression struct {
	Token token.Token
}

func (t *ThisExpression) expressionNode()      {}
func (t *ThisExpression) TokenLiteral() string { return t.Token.Literal }
func (t *ThisExpression) String() string       { return "this" }
func (t *ThisExpression) Pos() token.Position  { return t.Token.Pos }
func (t *ThisExpression) Kind() string         { return "ThisExpression" }

// SuperExpression is `super` in call or member position inside classes.
type SuperExpression struct {
	Token token.Token
}

func (s *SuperExpression) expressionNode()      {}
func (s *SuperExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SuperExpression) String() string       { return "super" }
func (s *SuperExpression) Pos() token.Position  { return s.Token.Pos }
func (s *SuperExpression) Kind() string         { return "Super" }
