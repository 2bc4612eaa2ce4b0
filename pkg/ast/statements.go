package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-sandjs/pkg/token"
)

// ExpressionStatement wraps an expression evaluated for its value; the
// program's completion value is the value of its last expression statement.
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (e *ExpressionStatement) statementNode()       {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) String() string       { return e.Expression.String() + ";" }
func (e *ExpressionStatement) Pos() token.Position  { return e.Token.Pos }
func (e *ExpressionStatement) Kind() string         { return "ExpressionStatement" }

// VariableDeclarator is one `pattern = init` entry of a declaration.
type VariableDeclarator struct {
	Token token.Token
	ID    Node // Identifier, ArrayPattern or ObjectPattern
	Init  Expression
}

func (v *VariableDeclarator) String() string {
	if v.Init == nil {
		return v.ID.String()
	}
	return v.ID.String() + " = " + v.Init.String()
}

// VariableDeclaration is `var|let|const decl, decl, ...`.
type VariableDeclaration struct {
	Token        token.Token
	DeclKind     string // "var", "let" or "const"
	Declarations []*VariableDeclarator
}

func (v *VariableDeclaration) statementNode()       {}
func (v *VariableDeclaration) TokenLiteral() string { return v.Token.Literal }
func (v *VariableDeclaration) String() string {
	parts := make([]string, 0, len(v.Declarations))
	for _, d := range v.Declarations {
		parts = append(parts, d.String())
	}
	return v.DeclKind + " " + strings.Join(parts, ", ") + ";"
}
func (v *VariableDeclaration) Pos() token.Position { return v.Token.Pos }
func (v *VariableDeclaration) Kind() string        { return "VariableDeclaration" }

// FunctionDeclaration is a named, hoistable function statement.
type FunctionDeclaration struct {
	Token    token.Token
	Name     *Identifier
	Function *FunctionLiteral
}

func (f *FunctionDeclaration) statementNode()       {}
func (f *FunctionDeclaration) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDeclaration) String() string       { return f.Function.String() }
func (f *FunctionDeclaration) Pos() token.Position  { return f.Token.Pos }
func (f *FunctionDeclaration) Kind() string         { return "FunctionDeclaration" }

// BlockStatement is `{ ... }` introducing a lexical scope.
type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

func (b *BlockStatement) statementNode()       {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}
func (b *BlockStatement) Pos() token.Position { return b.Token.Pos }
func (b *BlockStatement) Kind() string        { return "BlockStatement" }

// IfStatement is `if (cond) cons else alt`.
type IfStatement struct {
	Token       token.Token
	Test        Expression
	Consequent  Statement
	Alternate   Statement // may be nil
}

func (i *IfStatement) statementNode()       {}
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) String() string {
	s := "if (" + i.Test.String() + ") " + i.Consequent.String()
	if i.Alternate != nil {
		s += " else " + i.Alternate.String()
	}
	return s
}
func (i *IfStatement) Pos() token.Position { return i.Token.Pos }
func (i *IfStatement) Kind() string        { return "IfStatement" }

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	Token token.Token
	Test  Expression
	Body  Statement
}

func (w *WhileStatement) statementNode()       {}
func (w *WhileStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStatement) String() string       { return "while (" + w.Test.String() + ") " + w.Body.String() }
func (w *WhileStatement) Pos() token.Position  { return w.Token.Pos }
func (w *WhileStatement) Kind() string         { return "WhileStatement" }

// DoWhileStatement is `do body while (cond)`.
type DoWhileStatement struct {
	Token token.Token
	Body  Statement
	Test  Expression
}

func (d *DoWhileStatement) statementNode()       {}
func (d *DoWhileStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DoWhileStatement) String() string {
	return "do " + d.Body.String() + " while (" + d.Test.String() + ");"
}
func (d *DoWhileStatement) Pos() token.Position { return d.Token.Pos }
func (d *DoWhileStatement) Kind() string        { return "DoWhileStatement" }

// ForStatement is the classic three-clause loop. Init is either a
// VariableDeclaration or an ExpressionStatement; any clause may be nil.
type ForStatement struct {
	Token  token.Token
	Init   Statement
	Test   Expression
	Update Expression
	Body   Statement
}

func (f *ForStatement) statementNode()       {}
func (f *ForStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForStatement) String() string {
	init, test, update := "", "", ""
	if f.Init != nil {
		init = strings.TrimSuffix(f.Init.String(), ";")
	}
	if f.Test != nil {
		test = f.Test.String()
	}
	if f.Update != nil {
		update = f.Update.String()
	}
	return "for (" + init + "; " + test + "; " + update + ") " + f.Body.String()
}
func (f *ForStatement) Pos() token.Position { return f.Token.Pos }
func (f *ForStatement) Kind() string        { return "ForStatement" }

// ForInStatement is `for (left in obj) body` over own enumerable keys.
type ForInStatement struct {
	Token token.Token
	Left  Node // VariableDeclaration with a single declarator, or a target
	Right Expression
	Body  Statement
}

func (f *ForInStatement) statementNode()       {}
func (f *ForInStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForInStatement) String() string {
	return "for (" + strings.TrimSuffix(f.Left.String(), ";") + " in " + f.Right.String() + ") " + f.Body.String()
}
func (f *ForInStatement) Pos() token.Position { return f.Token.Pos }
func (f *ForInStatement) Kind() string        { return "ForInStatement" }

// ForOfStatement is `for (left of iterable) body`; Await marks `for await`.
type ForOfStatement struct {
	Token token.Token
	Left  Node
	Right Expression
	Body  Statement
	Await bool
}

func (f *ForOfStatement) statementNode()       {}
func (f *ForOfStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForOfStatement) String() string {
	kw := "for ("
	if f.Await {
		kw = "for await ("
	}
	return kw + strings.TrimSuffix(f.Left.String(), ";") + " of " + f.Right.String() + ") " + f.Body.String()
}
func (f *ForOfStatement) Pos() token.Position { return f.Token.Pos }
func (f *ForOfStatement) Kind() string        { return "ForOfStatement" }

// ReturnStatement is `return arg?`.
type ReturnStatement struct {
	Token    token.Token
	Argument Expression // may be nil
}

func (r *ReturnStatement) statementNode()       {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) String() string {
	if r.Argument == nil {
		return "return;"
	}
	return "return " + r.Argument.String() + ";"
}
func (r *ReturnStatement) Pos() token.Position { return r.Token.Pos }
func (r *ReturnStatement) Kind() string        { return "ReturnStatement" }

// BreakStatement is `break label?`.
type BreakStatement struct {
	Token token.Token
	Label *Identifier // may be nil
}

func (b *BreakStatement) statementNode()       {}
func (b *BreakStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStatement) String() string {
	if b.Label != nil {
		return "break " + b.Label.Value + ";"
	}
	return "break;"
}
func (b *BreakStatement) Pos() token.Position { return b.Token.Pos }
func (b *BreakStatement) Kind() string        { return "BreakStatement" }

// ContinueStatement is `continue label?`.
type ContinueStatement struct {
	Token token.Token
	Label *Identifier // may be nil
}

func (c *ContinueStatement) statementNode()       {}
func (c *ContinueStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueStatement) String() string {
	if c.Label != nil {
		return "continue " + c.Label.Value + ";"
	}
	return "continue;"
}
func (c *ContinueStatement) Pos() token.Position { return c.Token.Pos }
func (c *ContinueStatement) Kind() string        { return "ContinueStatement" }

// LabeledStatement is `label: stmt`.
type LabeledStatement struct {
	Token token.Token
	Label *Identifier
	Body  Statement
}

func (l *LabeledStatement) statementNode()       {}
func (l *LabeledStatement) TokenLiteral() string { return l.Token.Literal }
func (l *LabeledStatement) String() string       { return l.Label.Value + ": " + l.Body.String() }
func (l *LabeledStatement) Pos() token.Position  { return l.Token.Pos }
func (l *LabeledStatement) Kind() string         { return "LabeledStatement" }

// ThrowStatement is `throw arg`.
type ThrowStatement struct {
	Token    token.Token
	Argument Expression
}

func (t *ThrowStatement) statementNode()       {}
func (t *ThrowStatement) TokenLiteral() string { return t.Token.Literal }
func (t *ThrowStatement) String() string       { return "throw " + t.Argument.String() + ";" }
func (t *ThrowStatement) Pos() token.Position  { return t.Token.Pos }
func (t *ThrowStatement) Kind() string         { return "ThrowStatement" }

// CatchClause is the handler of a try statement. Param may be nil
// (optional catch binding) or a pattern.
type CatchClause struct {
	Token token.Token
	Param Node // nil, Identifier, ArrayPattern or ObjectPattern
	Body  *BlockStatement
}

func (c *CatchClause) String() string {
	if c.Param == nil {
		return "catch " + c.Body.String()
	}
	return "catch (" + c.Param.String() + ") " + c.Body.String()
}

// TryStatement is `try {} catch {} finally {}`; Handler and Finalizer may
// each be nil but not both.
type TryStatement struct {
	Token     token.Token
	Block     *BlockStatement
	Handler   *CatchClause
	Finalizer *BlockStatement
}

func (t *TryStatement) statementNode()       {}
func (t *TryStatement) TokenLiteral() string { return t.Token.Literal }
func (t *TryStatement) String() string {
	s := "try " + t.Block.String()
	if t.Handler != nil {
		s += " " + t.Handler.String()
	}
	if t.Finalizer != nil {
		s += " finally " + t.Finalizer.String()
	}
	return s
}
func (t *TryStatement) Pos() token.Position { return t.Token.Pos }
func (t *TryStatement) Kind() string        { return "TryStatement" }

// SwitchCase is one `case test:` or `default:` arm.
type SwitchCase struct {
	Token token.Token
	Test  Expression // nil for default
	Body  []Statement
}

func (s *SwitchCase) String() string {
	var out bytes.Buffer
	if s.Test == nil {
		out.WriteString("default:")
	} else {
		out.WriteString("case " + s.Test.String() + ":")
	}
	for _, stmt := range s.Body {
		out.WriteString(" " + stmt.String())
	}
	return out.String()
}

// SwitchStatement is `switch (disc) { cases }` with fall-through.
type SwitchStatement struct {
	Token        token.Token
	Discriminant Expression
	Cases        []*SwitchCase
}

func (s *SwitchStatement) statementNode()       {}
func (s *SwitchStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("switch (" + s.Discriminant.String() + ") { ")
	for _, c := range s.Cases {
		out.WriteString(c.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}
func (s *SwitchStatement) Pos() token.Position { return s.Token.Pos }
func (s *SwitchStatement) Kind() string        { return "SwitchStatement" }
