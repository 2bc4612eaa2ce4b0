package interp

import (
	"context"
	"strings"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/builtins"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

func (i *Interpreter) evalRegexLiteral(lit *ast.RegexLiteral) (runtime.Value, error) {
	re, err := sandbox.CompileRegExp(lit.Pattern, lit.Flags)
	if err != nil {
		return nil, err
	}
	return runtime.NewHostValue(re, "RegExp"), nil
}

func (i *Interpreter) evalTemplateLiteral(ctx *execCtx, lit *ast.TemplateLiteral) (runtime.Value, error) {
	var sb strings.Builder
	for idx, quasi := range lit.Quasis {
		sb.WriteString(quasi)
		if idx < len(lit.Expressions) {
			v, err := i.evalNode(ctx, lit.Expressions[idx])
			if err != nil {
				return nil, err
			}
			sb.WriteString(v.String())
		}
	}
	return runtime.NewString(sb.String()), nil
}

func (i *Interpreter) evalArrayLiteral(ctx *execCtx, lit *ast.ArrayLiteral) (runtime.Value, error) {
	var elements []runtime.Value
	for _, el := range lit.Elements {
		if el == nil {
			elements = append(elements, runtime.Undefined) // elision
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			v, err := i.evalNode(ctx, spread.Argument)
			if err != nil {
				return nil, err
			}
			items, err := i.spreadElements(ctx, v)
			if err != nil {
				return nil, err
			}
			elements = append(elements, items...)
			continue
		}
		v, err := i.evalNode(ctx, el)
		if err != nil {
			return nil, err
		}
		elements = append(elements, v)
	}
	return runtime.NewArray(elements), nil
}

// spreadElements materializes an array-literal spread or a `yield*`
// operand; the operand must be iterable (array-like). Call-argument
// spread is handled by evalCallArgs.
func (i *Interpreter) spreadElements(ctx *execCtx, v runtime.Value) ([]runtime.Value, error) {
	switch val := v.(type) {
	case *runtime.ArrayValue:
		out := make([]runtime.Value, val.Length())
		for idx := range out {
			out[idx] = val.Get(idx)
		}
		return out, nil
	case *runtime.StringValue:
		runes := val.Runes()
		out := make([]runtime.Value, len(runes))
		for idx, r := range runes {
			out[idx] = runtime.NewString(string(r))
		}
		return out, nil
	case *runtime.HostValue:
		if elements, ok := i.boundary.HostElements(val); ok {
			return elements, nil
		}
		return i.collectionElements(val)
	default:
		return nil, ierr.NewTypeErrorf("%s is not iterable", v.Type())
	}
}

// collectionElements iterates host Map/Set containers.
func (i *Interpreter) collectionElements(hv *runtime.HostValue) ([]runtime.Value, error) {
	switch native := hv.Native.(type) {
	case *builtins.MapObject:
		entries, ok := native.Entries().(*runtime.ArrayValue)
		if !ok {
			return nil, ierr.NewTypeErrorf("Map is not iterable")
		}
		out := make([]runtime.Value, entries.Length())
		for idx := range out {
			out[idx] = entries.Get(idx)
		}
		return out, nil
	case *builtins.SetObject:
		values, ok := native.Values().(*runtime.ArrayValue)
		if !ok {
			return nil, ierr.NewTypeErrorf("Set is not iterable")
		}
		out := make([]runtime.Value, values.Length())
		for idx := range out {
			out[idx] = values.Get(idx)
		}
		return out, nil
	default:
		return nil, ierr.NewTypeErrorf("host value '%s' is not iterable", hv.Path)
	}
}

func (i *Interpreter) evalObjectLiteral(ctx *execCtx, lit *ast.ObjectLiteral) (runtime.Value, error) {
	obj := runtime.NewObject()
	for _, prop := range lit.Properties {
		switch prop.PropKind {
		case ast.PropertySpread:
			v, err := i.evalNode(ctx, prop.Argument)
			if err != nil {
				return nil, err
			}
			if err := i.spreadIntoObject(obj, v); err != nil {
				return nil, err
			}
		case ast.PropertyGet, ast.PropertySet:
			key, err := i.objectKey(ctx, prop)
			if err != nil {
				return nil, err
			}
			fnLit, ok := prop.Value.(*ast.FunctionLiteral)
			if !ok {
				return nil, ierr.NewSyntaxErrorf("accessor '%s' requires a function body", key)
			}
			accessor := i.makeFunction(ctx, fnLit)
			if prop.PropKind == ast.PropertyGet {
				obj.DefineAccessor(key, accessor, nil)
			} else {
				obj.DefineAccessor(key, nil, accessor)
			}
		default:
			key, err := i.objectKey(ctx, prop)
			if err != nil {
				return nil, err
			}
			if err := sandbox.CheckProperty(key); err != nil {
				return nil, err
			}
			v, err := i.evalNode(ctx, prop.Value)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
	}
	return obj, nil
}

// spreadIntoObject copies own enumerable keys; spreading anything but an
// object (arrays included) is a type error.
func (i *Interpreter) spreadIntoObject(target *runtime.ObjectValue, v runtime.Value) error {
	switch val := v.(type) {
	case *runtime.ObjectValue:
		for _, k := range val.Keys() {
			if prop, ok := val.GetProperty(k); ok && !prop.IsAccessor() {
				target.Set(k, prop.Value)
			}
		}
		return nil
	case *runtime.InstanceValue:
		for _, k := range val.Fields.Keys() {
			if value, ok := val.Fields.Get(k); ok {
				target.Set(k, value)
			}
		}
		return nil
	case *runtime.UndefinedValue, *runtime.NullValue:
		return nil // spreading nullish into an object is a no-op
	default:
		return ierr.NewTypeErrorf("cannot spread %s into an object", v.Type())
	}
}

// objectKey resolves a property key, evaluating computed keys.
func (i *Interpreter) objectKey(ctx *execCtx, prop *ast.ObjectProperty) (string, error) {
	if prop.Computed {
		v, err := i.evalNode(ctx, prop.Key)
		if err != nil {
			return "", err
		}
		return runtime.ToPropertyKey(v), nil
	}
	switch key := prop.Key.(type) {
	case *ast.Identifier:
		return key.Value, nil
	case *ast.StringLiteral:
		return key.Value, nil
	case *ast.NumberLiteral:
		return runtime.FormatNumber(key.Value), nil
	default:
		return "", ierr.NewSyntaxErrorf("invalid property key")
	}
}

func (i *Interpreter) evalConditionalExpression(ctx *execCtx, expr *ast.ConditionalExpression) (runtime.Value, error) {
	test, err := i.evalNode(ctx, expr.Test)
	if err != nil {
		return nil, err
	}
	if runtime.ToBoolean(test) {
		return i.evalNode(ctx, expr.Consequent)
	}
	return i.evalNode(ctx, expr.Alternate)
}

func (i *Interpreter) evalSequenceExpression(ctx *execCtx, expr *ast.SequenceExpression) (runtime.Value, error) {
	var last runtime.Value = runtime.Undefined
	for _, e := range expr.Expressions {
		v, err := i.evalNode(ctx, e)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (i *Interpreter) evalAwaitExpression(ctx *execCtx, expr *ast.AwaitExpression) (runtime.Value, error) {
	if !ctx.asyncMode {
		return nil, ierr.NewAsyncInSyncError("'await'")
	}
	v, err := i.evalNode(ctx, expr.Argument)
	if err != nil {
		return nil, err
	}
	if p, ok := v.(*runtime.PromiseValue); ok {
		result, err := p.Await(ctx.goctx)
		if err != nil {
			return nil, mapCancellation(err)
		}
		return result, nil
	}
	// Awaiting a plain value yields it unchanged.
	return v, nil
}

// mapCancellation converts context failures observed at a suspension point
// into Cancelled errors; rejections pass through untouched.
func mapCancellation(err error) error {
	switch err {
	case context.Canceled:
		return ierr.NewCancelledError("evaluation aborted")
	case context.DeadlineExceeded:
		return ierr.NewCancelledError("evaluation timed out")
	default:
		return err
	}
}

func (i *Interpreter) evalYieldExpression(ctx *execCtx, expr *ast.YieldExpression) (runtime.Value, error) {
	if ctx.yieldFn == nil {
		return nil, ierr.NewSyntaxErrorf("'yield' outside of a generator function")
	}
	var value runtime.Value = runtime.Undefined
	if expr.Argument != nil {
		v, err := i.evalNode(ctx, expr.Argument)
		if err != nil {
			return nil, err
		}
		value = v
	}
	if expr.Delegate {
		items, err := i.spreadElements(ctx, value)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if err := ctx.yieldFn(item); err != nil {
				return nil, err
			}
		}
		return runtime.Undefined, nil
	}
	if err := ctx.yieldFn(value); err != nil {
		return nil, err
	}
	return runtime.Undefined, nil
}
