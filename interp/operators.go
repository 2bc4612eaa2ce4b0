package interp

import (
	"math"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

func (i *Interpreter) evalUnaryExpression(ctx *execCtx, expr *ast.UnaryExpression) (runtime.Value, error) {
	switch expr.Operator {
	case "typeof":
		// typeof tolerates undeclared identifiers.
		if ident, ok := expr.Operand.(*ast.Identifier); ok {
			if !ctx.env.Has(ident.Value) {
				return runtime.NewString("undefined"), nil
			}
		}
		v, err := i.evalNode(ctx, expr.Operand)
		if err != nil {
			return nil, err
		}
		return runtime.NewString(runtime.TypeOf(v)), nil
	case "delete":
		return i.evalDelete(ctx, expr.Operand)
	}

	v, err := i.evalNode(ctx, expr.Operand)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "-":
		return runtime.Number(-runtime.ToNumber(v)), nil
	case "+":
		return runtime.Number(runtime.ToNumber(v)), nil
	case "!":
		return runtime.Boolean(!runtime.ToBoolean(v)), nil
	case "~":
		return runtime.Number(float64(^runtime.ToInt32(v))), nil
	case "void":
		return runtime.Undefined, nil
	default:
		return nil, ierr.NewSyntaxErrorf("unsupported unary operator %q", expr.Operator)
	}
}

func (i *Interpreter) evalUpdateExpression(ctx *execCtx, expr *ast.UpdateExpression) (runtime.Value, error) {
	old, err := i.evalNode(ctx, expr.Operand)
	if err != nil {
		return nil, err
	}
	oldNum := runtime.ToNumber(old)
	var newNum float64
	if expr.Operator == "++" {
		newNum = oldNum + 1
	} else {
		newNum = oldNum - 1
	}
	if err := i.assignToTarget(ctx, expr.Operand, runtime.Number(newNum)); err != nil {
		return nil, err
	}
	if expr.Prefix {
		return runtime.Number(newNum), nil
	}
	return runtime.Number(oldNum), nil
}

func (i *Interpreter) evalBinaryExpression(ctx *execCtx, expr *ast.BinaryExpression) (runtime.Value, error) {
	left, err := i.evalNode(ctx, expr.Left)
	if err != nil {
		return nil, err
	}
	// `in` and `instanceof` have non-value-coercing semantics.
	switch expr.Operator {
	case "in":
		right, err := i.evalNode(ctx, expr.Right)
		if err != nil {
			return nil, err
		}
		return i.evalInOperator(left, right)
	case "instanceof":
		right, err := i.evalNode(ctx, expr.Right)
		if err != nil {
			return nil, err
		}
		return i.evalInstanceof(left, right)
	}

	right, err := i.evalNode(ctx, expr.Right)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(expr.Operator, left, right)
}

// applyBinaryOperator implements the arithmetic, comparison, bitwise and
// shift operators with the reference coercion rules.
func applyBinaryOperator(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "+":
		// Either operand being a string (or string-coercing object)
		// forces concatenation.
		if isStringish(left) || isStringish(right) {
			return runtime.NewString(left.String() + right.String()), nil
		}
		return runtime.Number(runtime.ToNumber(left) + runtime.ToNumber(right)), nil
	case "-":
		return runtime.Number(runtime.ToNumber(left) - runtime.ToNumber(right)), nil
	case "*":
		return runtime.Number(runtime.ToNumber(left) * runtime.ToNumber(right)), nil
	case "/":
		return runtime.Number(runtime.ToNumber(left) / runtime.ToNumber(right)), nil
	case "%":
		return runtime.Number(math.Mod(runtime.ToNumber(left), runtime.ToNumber(right))), nil
	case "**":
		return runtime.Number(math.Pow(runtime.ToNumber(left), runtime.ToNumber(right))), nil

	case "==":
		return runtime.Boolean(runtime.LooseEquals(left, right)), nil
	case "!=":
		return runtime.Boolean(!runtime.LooseEquals(left, right)), nil
	case "===":
		return runtime.Boolean(runtime.StrictEquals(left, right)), nil
	case "!==":
		return runtime.Boolean(!runtime.StrictEquals(left, right)), nil

	case "<":
		cmp, ok := runtime.Compare(left, right)
		return runtime.Boolean(ok && cmp < 0), nil
	case ">":
		cmp, ok := runtime.Compare(left, right)
		return runtime.Boolean(ok && cmp > 0), nil
	case "<=":
		cmp, ok := runtime.Compare(left, right)
		return runtime.Boolean(ok && cmp <= 0), nil
	case ">=":
		cmp, ok := runtime.Compare(left, right)
		return runtime.Boolean(ok && cmp >= 0), nil

	case "&":
		return runtime.Number(float64(runtime.ToInt32(left) & runtime.ToInt32(right))), nil
	case "|":
		return runtime.Number(float64(runtime.ToInt32(left) | runtime.ToInt32(right))), nil
	case "^":
		return runtime.Number(float64(runtime.ToInt32(left) ^ runtime.ToInt32(right))), nil
	case "<<":
		return runtime.Number(float64(runtime.ToInt32(left) << (runtime.ToUint32(right) & 31))), nil
	case ">>":
		return runtime.Number(float64(runtime.ToInt32(left) >> (runtime.ToUint32(right) & 31))), nil
	case ">>>":
		return runtime.Number(float64(runtime.ToUint32(left) >> (runtime.ToUint32(right) & 31))), nil

	default:
		return nil, ierr.NewSyntaxErrorf("unsupported binary operator %q", op)
	}
}

// isStringish reports whether `+` should concatenate because of this
// operand: strings always, and object kinds whose primitive form is a
// string.
func isStringish(v runtime.Value) bool {
	switch v.(type) {
	case *runtime.StringValue:
		return true
	case *runtime.ObjectValue, *runtime.InstanceValue, *runtime.ErrorValue:
		return true
	case *runtime.ArrayValue:
		return true
	default:
		return false
	}
}

func (i *Interpreter) evalLogicalExpression(ctx *execCtx, expr *ast.LogicalExpression) (runtime.Value, error) {
	left, err := i.evalNode(ctx, expr.Left)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "&&":
		if !runtime.ToBoolean(left) {
			return left, nil
		}
	case "||":
		if runtime.ToBoolean(left) {
			return left, nil
		}
	case "??":
		if !runtime.IsNullish(left) {
			return left, nil
		}
	default:
		return nil, ierr.NewSyntaxErrorf("unsupported logical operator %q", expr.Operator)
	}
	return i.evalNode(ctx, expr.Right)
}

// evalInOperator implements `key in obj` for sandbox containers; host
// objects deny enumeration probes.
func (i *Interpreter) evalInOperator(key, obj runtime.Value) (runtime.Value, error) {
	name := runtime.ToPropertyKey(key)
	switch o := obj.(type) {
	case *runtime.ObjectValue:
		return runtime.Boolean(o.Has(name)), nil
	case *runtime.InstanceValue:
		return runtime.Boolean(o.Fields.Has(name)), nil
	case *runtime.ArrayValue:
		idx := runtime.ToInteger(key)
		return runtime.Boolean(idx >= 0 && idx < o.Length()), nil
	case *runtime.HostValue:
		return nil, ierr.NewSecurityErrorf("cannot probe host value '%s' with 'in'", o.Path)
	default:
		return nil, ierr.NewTypeErrorf("cannot use 'in' on %s", obj.Type())
	}
}

// evalInstanceof checks sandbox class chains; host constructors delegate
// to the little the boundary can know about them.
func (i *Interpreter) evalInstanceof(left, right runtime.Value) (runtime.Value, error) {
	switch ctor := right.(type) {
	case *runtime.ClassValue:
		inst, ok := left.(*runtime.InstanceValue)
		return runtime.Boolean(ok && inst.Class.Extends(ctor)), nil
	case *runtime.HostFunctionValue:
		if ctor.Construct == nil {
			return nil, ierr.NewTypeErrorf("right-hand side of 'instanceof' is not a constructor")
		}
		switch ctor.Name {
		case "Error", "TypeError", "RangeError", "SyntaxError", "ReferenceError", "EvalError":
			ev, ok := left.(*runtime.ErrorValue)
			return runtime.Boolean(ok && (ctor.Name == "Error" || ev.Name == ctor.Name)), nil
		case "Promise":
			_, ok := left.(*runtime.PromiseValue)
			return runtime.Boolean(ok), nil
		}
		if hv, ok := left.(*runtime.HostValue); ok {
			return runtime.Boolean(hv.Path == ctor.Name || hasPathPrefix(hv.Path, ctor.Name)), nil
		}
		return runtime.False, nil
	default:
		return nil, ierr.NewTypeErrorf("right-hand side of 'instanceof' is not callable")
	}
}

func hasPathPrefix(path, name string) bool {
	return len(path) > len(name) && path[:len(name)] == name && path[len(name)] == '.'
}
