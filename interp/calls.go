package interp

import (
	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

// evalCallExpression evaluates a call, resolving `this` for method calls
// and honoring optional-chain short circuits.
func (i *Interpreter) evalCallExpression(ctx *execCtx, expr *ast.CallExpression) (runtime.Value, bool, error) {
	if _, isSuper := expr.Callee.(*ast.SuperExpression); isSuper {
		args, err := i.evalCallArgs(ctx, expr.Arguments)
		if err != nil {
			return nil, false, err
		}
		v, err := i.callSuperConstructor(ctx, args)
		return v, false, err
	}

	var fn runtime.Value
	switch callee := expr.Callee.(type) {
	case *ast.MemberExpression:
		if _, isSuper := callee.Object.(*ast.SuperExpression); isSuper {
			method, err := i.evalSuperMember(ctx, callee)
			if err != nil {
				return nil, false, err
			}
			args, err := i.evalCallArgs(ctx, expr.Arguments)
			if err != nil {
				return nil, false, err
			}
			v, err := i.callValue(ctx, method, ctx.thisVal, args)
			return v, false, err
		}
		obj, short, err := i.evalChainOperand(ctx, callee.Object)
		if err != nil || short {
			return runtime.Undefined, short, err
		}
		if callee.Optional && runtime.IsNullish(obj) {
			return runtime.Undefined, true, nil
		}
		v, err := i.evalMemberOn(ctx, obj, callee)
		if err != nil {
			return nil, false, err
		}
		fn = v
	case *ast.ChainExpression:
		v, short, err := i.evalMaybeOptional(ctx, callee.Expression)
		if err != nil || short {
			return runtime.Undefined, short, err
		}
		fn = v
	default:
		v, short, err := i.evalChainOperand(ctx, expr.Callee)
		if err != nil || short {
			return runtime.Undefined, short, err
		}
		fn = v
	}

	if expr.Optional && runtime.IsNullish(fn) {
		return runtime.Undefined, true, nil
	}

	args, err := i.evalCallArgs(ctx, expr.Arguments)
	if err != nil {
		return nil, false, err
	}
	v, err := i.callValue(ctx, fn, runtime.Undefined, args)
	if err != nil {
		if ie, ok := err.(*ierr.InterpreterError); ok {
			pos := expr.Pos()
			ie.WithPos(pos.Line, pos.Column)
		}
		return nil, false, err
	}
	return v, false, nil
}

// evalCallArgs evaluates an argument list; spread arguments must be
// arrays.
func (i *Interpreter) evalCallArgs(ctx *execCtx, argExprs []ast.Expression) ([]runtime.Value, error) {
	var args []runtime.Value
	for _, argExpr := range argExprs {
		if spread, ok := argExpr.(*ast.SpreadElement); ok {
			v, err := i.evalNode(ctx, spread.Argument)
			if err != nil {
				return nil, err
			}
			switch sv := v.(type) {
			case *runtime.ArrayValue:
				for idx := 0; idx < sv.Length(); idx++ {
					args = append(args, sv.Get(idx))
				}
			case *runtime.HostValue:
				elements, ok := i.boundary.HostElements(sv)
				if !ok {
					return nil, ierr.NewTypeErrorf("spread argument must be an array")
				}
				args = append(args, elements...)
			default:
				return nil, ierr.NewTypeErrorf("spread argument must be an array")
			}
			continue
		}
		v, err := i.evalNode(ctx, argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

// callValue invokes any callable value with an explicit `this`.
func (i *Interpreter) callValue(ctx *execCtx, fn runtime.Value, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch f := fn.(type) {
	case *runtime.BoundMethodValue:
		return i.callValue(ctx, f.Fn, f.This, args)
	case *runtime.FunctionValue:
		return i.callFunction(ctx, f, this, args)
	case *runtime.HostFunctionValue:
		if f.Fn == nil {
			return nil, ierr.NewTypeErrorf("constructor '%s' requires 'new'", f.Name)
		}
		result, err := f.Fn(args)
		if err != nil {
			return nil, err
		}
		// A promise-like host result suspends inside an async context.
		if p, ok := result.(*runtime.PromiseValue); ok && ctx.asyncMode {
			v, err := p.Await(ctx.goctx)
			if err != nil {
				return nil, mapCancellation(err)
			}
			return v, nil
		}
		return result, nil
	case *runtime.ClassValue:
		return nil, ierr.NewTypeErrorf("Class constructor %s cannot be invoked without 'new'", f.Name)
	default:
		return nil, ierr.NewTypeErrorf("%s is not a function", fn.Type())
	}
}

// callFunction invokes a user-defined function: a fresh scope under the
// defining environment, parameters bound, a fresh control-flow frame.
func (i *Interpreter) callFunction(ctx *execCtx, fn *runtime.FunctionValue, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	if err := ctx.checkCancelled(); err != nil {
		return nil, err
	}
	if ctx.depth+1 > i.maxCallDepth {
		return nil, ierr.NewTypeErrorf("maximum call stack size exceeded")
	}
	i.stats.CallCount++

	if fn.IsGenerator {
		if !ctx.asyncMode {
			return nil, ierr.NewAsyncInSyncError("generator function")
		}
		return i.runGenerator(ctx, fn, this, args)
	}
	if fn.IsAsync && !ctx.asyncMode {
		return nil, ierr.NewAsyncInSyncError("async function")
	}
	if len(args) < minArity(fn) {
		return nil, ierr.NewTypeErrorf("%s expects at least %d arguments, got %d",
			functionLabel(fn), minArity(fn), len(args))
	}

	fnCtx, err := i.functionFrame(ctx, fn, this, args)
	if err != nil {
		return nil, err
	}

	if fn.ExpressionBody != nil {
		return i.evalNode(fnCtx, fn.ExpressionBody)
	}
	if _, err := i.evalStatements(fnCtx, fn.Body.Statements); err != nil {
		return nil, err
	}
	if fnCtx.flow.IsReturn() {
		return fnCtx.flow.ReturnValue(), nil
	}
	return runtime.Undefined, nil
}

// functionFrame builds the call frame: scope, `this`, parameters.
func (i *Interpreter) functionFrame(ctx *execCtx, fn *runtime.FunctionValue, this runtime.Value, args []runtime.Value) (*execCtx, error) {
	env := runtime.NewEnclosedEnvironment(fn.Env)
	fnCtx := &execCtx{
		goctx:     ctx.goctx,
		env:       env,
		varEnv:    env,
		flow:      runtime.NewControlFlow(),
		thisVal:   this,
		class:     fn.HomeClass,
		asyncMode: ctx.asyncMode,
		depth:     ctx.depth + 1,
	}
	if fn.IsArrow {
		fnCtx.thisVal = fn.ThisValue
		fnCtx.yieldFn = ctx.yieldFn
	}
	if err := i.bindParams(fnCtx, fn.Params, args); err != nil {
		return nil, err
	}
	return fnCtx, nil
}

// bindParams binds declared parameters: defaults, destructuring patterns
// and a trailing rest parameter.
func (i *Interpreter) bindParams(fnCtx *execCtx, params []*ast.Param, args []runtime.Value) error {
	binder := declareBinder(fnCtx, "let")
	for idx, param := range params {
		if param.Rest {
			rest := make([]runtime.Value, 0)
			if idx < len(args) {
				rest = append(rest, args[idx:]...)
			}
			return i.bindPattern(fnCtx, param.Pattern, runtime.NewArray(rest), binder)
		}
		var value runtime.Value = runtime.Undefined
		if idx < len(args) {
			value = args[idx]
		}
		if param.Default != nil {
			if _, isUndef := value.(*runtime.UndefinedValue); isUndef {
				v, err := i.evalNode(fnCtx, param.Default)
				if err != nil {
					return err
				}
				value = v
			}
		}
		if err := i.bindPattern(fnCtx, param.Pattern, value, binder); err != nil {
			return err
		}
	}
	return nil
}

// minArity counts required positional parameters: those before the first
// default or rest.
func minArity(fn *runtime.FunctionValue) int {
	n := 0
	for _, p := range fn.Params {
		if p.Rest || p.Default != nil {
			break
		}
		n++
	}
	return n
}

func functionLabel(fn *runtime.FunctionValue) string {
	if fn.Name != "" {
		return "function '" + fn.Name + "'"
	}
	return "anonymous function"
}

// runGenerator executes an async generator body to completion, collecting
// its yields. `for await` then drains the collected sequence.
func (i *Interpreter) runGenerator(ctx *execCtx, fn *runtime.FunctionValue, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	fnCtx, err := i.functionFrame(ctx, fn, this, args)
	if err != nil {
		return nil, err
	}
	var yielded []runtime.Value
	fnCtx.yieldFn = func(v runtime.Value) error {
		yielded = append(yielded, v)
		return nil
	}
	_, bodyErr := i.evalStatements(fnCtx, fn.Body.Statements)
	return runtime.NewCollectedAsyncGenerator(yielded, bodyErr), nil
}

// evalNewExpression implements `new callee(args)`.
func (i *Interpreter) evalNewExpression(ctx *execCtx, expr *ast.NewExpression) (runtime.Value, error) {
	callee, err := i.evalNode(ctx, expr.Callee)
	if err != nil {
		return nil, err
	}
	args, err := i.evalCallArgs(ctx, expr.Arguments)
	if err != nil {
		return nil, err
	}

	switch c := callee.(type) {
	case *runtime.ClassValue:
		return i.instantiateClass(ctx, c, args)
	case *runtime.FunctionValue:
		if c.IsArrow {
			return nil, ierr.NewTypeErrorf("%s is not a constructor", functionLabel(c))
		}
		if c.IsAsync || c.IsGenerator {
			return nil, ierr.NewTypeErrorf("%s is not a constructor", functionLabel(c))
		}
		obj := runtime.NewObject()
		result, err := i.callFunction(ctx, c, obj, args)
		if err != nil {
			return nil, err
		}
		// Explicit object returns replace the instance; primitives are
		// ignored.
		switch result.(type) {
		case *runtime.ObjectValue, *runtime.InstanceValue, *runtime.ArrayValue:
			return result, nil
		default:
			return obj, nil
		}
	case *runtime.HostFunctionValue:
		if c.Construct == nil {
			return nil, ierr.NewTypeErrorf("'%s' is not a constructor", c.Name)
		}
		return c.Construct(args)
	default:
		return nil, ierr.NewTypeErrorf("%s is not a constructor", callee.Type())
	}
}
