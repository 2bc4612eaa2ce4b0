package interp

import (
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

// programAST keeps validator signatures in tests readable.
type programAST = *ast.Program

// containsKind walks a program looking for a statement node kind, the way
// an embedder's validator might reject specific constructs.
func containsKind(p *ast.Program, kind string) bool {
	for _, stmt := range p.Statements {
		if statementContainsKind(stmt, kind) {
			return true
		}
	}
	return false
}

func statementContainsKind(stmt ast.Statement, kind string) bool {
	if stmt == nil {
		return false
	}
	if stmt.Kind() == kind {
		return true
	}
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		for _, inner := range s.Statements {
			if statementContainsKind(inner, kind) {
				return true
			}
		}
	case *ast.IfStatement:
		return statementContainsKind(s.Consequent, kind) || statementContainsKind(s.Alternate, kind)
	case *ast.WhileStatement:
		return statementContainsKind(s.Body, kind)
	case *ast.DoWhileStatement:
		return statementContainsKind(s.Body, kind)
	case *ast.ForStatement:
		return statementContainsKind(s.Body, kind)
	case *ast.ForInStatement:
		return statementContainsKind(s.Body, kind)
	case *ast.ForOfStatement:
		return statementContainsKind(s.Body, kind)
	case *ast.LabeledStatement:
		return statementContainsKind(s.Body, kind)
	case *ast.TryStatement:
		if statementContainsKind(s.Block, kind) {
			return true
		}
		if s.Handler != nil && statementContainsKind(s.Handler.Body, kind) {
			return true
		}
		if s.Finalizer != nil && statementContainsKind(s.Finalizer, kind) {
			return true
		}
	case *ast.SwitchStatement:
		for _, c := range s.Cases {
			for _, inner := range c.Body {
				if statementContainsKind(inner, kind) {
					return true
				}
			}
		}
	case *ast.FunctionDeclaration:
		if s.Function.Body != nil {
			return statementContainsKind(s.Function.Body, kind)
		}
	}
	return false
}
