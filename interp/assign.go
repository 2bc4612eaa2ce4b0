package interp

import (
	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

func (i *Interpreter) evalAssignmentExpression(ctx *execCtx, expr *ast.AssignmentExpression) (runtime.Value, error) {
	switch expr.Operator {
	case "=":
		value, err := i.evalNode(ctx, expr.Value)
		if err != nil {
			return nil, err
		}
		if err := i.assignToTarget(ctx, expr.Target, value); err != nil {
			return nil, err
		}
		return value, nil

	case "&&=", "||=", "??=":
		return i.evalLogicalAssignment(ctx, expr)

	default:
		// Compound operators read, apply, then write.
		target, ok := expr.Target.(ast.Expression)
		if !ok {
			return nil, ierr.NewSyntaxErrorf("invalid compound assignment target")
		}
		old, err := i.evalNode(ctx, target)
		if err != nil {
			return nil, err
		}
		operand, err := i.evalNode(ctx, expr.Value)
		if err != nil {
			return nil, err
		}
		op := expr.Operator[:len(expr.Operator)-1] // "+=" -> "+"
		value, err := applyBinaryOperator(op, old, operand)
		if err != nil {
			return nil, err
		}
		if err := i.assignToTarget(ctx, expr.Target, value); err != nil {
			return nil, err
		}
		return value, nil
	}
}

// evalLogicalAssignment implements &&=, ||= and ??= with their
// short-circuit semantics: the write only happens when the operator fires.
func (i *Interpreter) evalLogicalAssignment(ctx *execCtx, expr *ast.AssignmentExpression) (runtime.Value, error) {
	target, ok := expr.Target.(ast.Expression)
	if !ok {
		return nil, ierr.NewSyntaxErrorf("invalid assignment target")
	}
	old, err := i.evalNode(ctx, target)
	if err != nil {
		return nil, err
	}

	var fire bool
	switch expr.Operator {
	case "&&=":
		fire = runtime.ToBoolean(old)
	case "||=":
		fire = !runtime.ToBoolean(old)
	case "??=":
		fire = runtime.IsNullish(old)
	}
	if !fire {
		return old, nil
	}
	value, err := i.evalNode(ctx, expr.Value)
	if err != nil {
		return nil, err
	}
	if err := i.assignToTarget(ctx, expr.Target, value); err != nil {
		return nil, err
	}
	return value, nil
}

// assignToTarget writes a value to an identifier, member expression or
// destructuring pattern.
func (i *Interpreter) assignToTarget(ctx *execCtx, target ast.Node, value runtime.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		switch err := ctx.env.Assign(t.Value, value); err {
		case nil:
			return nil
		case runtime.ErrConstAssign:
			return ierr.NewTypeErrorf("assignment to constant variable '%s'", t.Value)
		default:
			return ierr.NewReferenceErrorf("%s is not defined", t.Value)
		}

	case *ast.MemberExpression:
		if _, isSuper := t.Object.(*ast.SuperExpression); isSuper {
			return ierr.NewSyntaxErrorf("cannot assign through 'super'")
		}
		obj, err := i.evalNode(ctx, t.Object)
		if err != nil {
			return err
		}
		if private, ok := t.Property.(*ast.PrivateName); ok {
			return i.setPrivateField(ctx, obj, private.Name, value)
		}
		name, err := i.memberName(ctx, t)
		if err != nil {
			return err
		}
		return i.setMember(ctx, obj, name, value)

	case *ast.ArrayPattern, *ast.ObjectPattern:
		return i.bindPattern(ctx, t, value, assignBinder(ctx))

	case *ast.ChainExpression:
		return ierr.NewSyntaxErrorf("invalid assignment to optional chain")

	default:
		return ierr.NewSyntaxErrorf("invalid assignment target %s", target.Kind())
	}
}

// assignBinder writes pattern names through normal assignment resolution.
func assignBinder(ctx *execCtx) bindFunc {
	return func(name string, v runtime.Value) error {
		switch err := ctx.env.Assign(name, v); err {
		case nil:
			return nil
		case runtime.ErrConstAssign:
			return ierr.NewTypeErrorf("assignment to constant variable '%s'", name)
		default:
			return ierr.NewReferenceErrorf("%s is not defined", name)
		}
	}
}
