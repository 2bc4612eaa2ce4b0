package interp

import (
	"strconv"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

// evalMaybeOptional evaluates member and call chains, tracking the
// short-circuit state of optional links: once `a?.b` observes a nullish
// receiver the rest of the chain collapses to undefined.
func (i *Interpreter) evalMaybeOptional(ctx *execCtx, expr ast.Expression) (runtime.Value, bool, error) {
	switch e := expr.(type) {
	case *ast.MemberExpression:
		if _, isSuper := e.Object.(*ast.SuperExpression); isSuper {
			v, err := i.evalSuperMember(ctx, e)
			return v, false, err
		}
		obj, short, err := i.evalChainOperand(ctx, e.Object)
		if err != nil || short {
			return runtime.Undefined, short, err
		}
		if e.Optional && runtime.IsNullish(obj) {
			return runtime.Undefined, true, nil
		}
		v, err := i.evalMemberOn(ctx, obj, e)
		return v, false, err
	case *ast.CallExpression:
		return i.evalCallExpression(ctx, e)
	case *ast.ChainExpression:
		return i.evalMaybeOptional(ctx, e.Expression)
	default:
		v, err := i.evalNode(ctx, expr)
		return v, false, err
	}
}

// evalChainOperand evaluates the receiver of a chain link, keeping the
// short-circuit flag alive through nested member/call links.
func (i *Interpreter) evalChainOperand(ctx *execCtx, expr ast.Expression) (runtime.Value, bool, error) {
	switch expr.(type) {
	case *ast.MemberExpression, *ast.CallExpression:
		return i.evalMaybeOptional(ctx, expr)
	default:
		v, err := i.evalNode(ctx, expr)
		return v, false, err
	}
}

// evalMemberOn reads one member off an evaluated receiver, including
// private names and super references.
func (i *Interpreter) evalMemberOn(ctx *execCtx, obj runtime.Value, expr *ast.MemberExpression) (runtime.Value, error) {
	if _, isSuper := expr.Object.(*ast.SuperExpression); isSuper {
		return i.evalSuperMember(ctx, expr)
	}
	if private, ok := expr.Property.(*ast.PrivateName); ok {
		return i.getPrivateField(ctx, obj, private.Name)
	}
	name, err := i.memberName(ctx, expr)
	if err != nil {
		return nil, err
	}
	return i.getMember(ctx, obj, name)
}

// memberName resolves the property key of a member expression.
func (i *Interpreter) memberName(ctx *execCtx, expr *ast.MemberExpression) (string, error) {
	if expr.Computed {
		v, err := i.evalNode(ctx, expr.Property)
		if err != nil {
			return "", err
		}
		return runtime.ToPropertyKey(v), nil
	}
	switch p := expr.Property.(type) {
	case *ast.Identifier:
		return p.Value, nil
	default:
		return "", ierr.NewSyntaxErrorf("invalid property access")
	}
}

// getMember is the single property-read path shared by dot and computed
// access. Every receiver kind applies the name gate in its own order: the
// delegated-method tables may serve names the gate would otherwise deny.
func (i *Interpreter) getMember(ctx *execCtx, obj runtime.Value, name string) (runtime.Value, error) {
	switch o := obj.(type) {
	case *runtime.UndefinedValue:
		return nil, ierr.NewTypeErrorf("Cannot read properties of undefined (reading '%s')", name)
	case *runtime.NullValue:
		return nil, ierr.NewTypeErrorf("Cannot read properties of null (reading '%s')", name)

	case *runtime.StringValue:
		if name == "length" {
			return runtime.Number(float64(len(o.Runes()))), nil
		}
		if idx, err := strconv.Atoi(name); err == nil {
			runes := o.Runes()
			if idx >= 0 && idx < len(runes) {
				return runtime.NewString(string(runes[idx])), nil
			}
			return runtime.Undefined, nil
		}
		if method, ok := i.boundary.StringMethod(o.Value, name); ok {
			return method, nil
		}
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		return runtime.Undefined, nil

	case *runtime.NumberValue:
		// Delegated methods (toString among them) resolve before the gate.
		if method, ok := i.boundary.NumberMethod(o.Value, name); ok {
			return method, nil
		}
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		return runtime.Undefined, nil

	case *runtime.BooleanValue:
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		return runtime.Undefined, nil

	case *runtime.ArrayValue:
		if name == "length" {
			return runtime.Number(float64(o.Length())), nil
		}
		if idx, err := strconv.Atoi(name); err == nil {
			return o.Get(idx), nil
		}
		if method, ok := i.arrayMethod(ctx, o, name); ok {
			return method, nil
		}
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		return runtime.Undefined, nil

	case *runtime.ObjectValue:
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		prop, ok := o.GetProperty(name)
		if !ok {
			return runtime.Undefined, nil
		}
		if prop.IsAccessor() {
			if prop.Getter == nil {
				return runtime.Undefined, nil
			}
			return i.callValue(ctx, prop.Getter, o, nil)
		}
		return bindIfFunction(prop.Value, o), nil

	case *runtime.InstanceValue:
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		if getter, ok := o.Class.LookupGetter(name); ok {
			return i.callValue(ctx, getter, o, nil)
		}
		if v, ok := o.Fields.Get(name); ok {
			return bindIfFunction(v, o), nil
		}
		if method, _, ok := o.Class.LookupMethod(name); ok {
			return &runtime.BoundMethodValue{Fn: method, This: o}, nil
		}
		return runtime.Undefined, nil

	case *runtime.ClassValue:
		if name == "name" {
			return runtime.NewString(o.Name), nil
		}
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		for cls := o; cls != nil; cls = cls.Superclass {
			if getter, ok := cls.StaticGetters[name]; ok {
				return i.callValue(ctx, getter, o, nil)
			}
			if prop, ok := cls.Statics.GetProperty(name); ok && !prop.IsAccessor() {
				return bindIfFunction(prop.Value, o), nil
			}
		}
		return runtime.Undefined, nil

	case *runtime.ErrorValue:
		switch name {
		case "message":
			return runtime.NewString(o.Message), nil
		case "name":
			return runtime.NewString(o.Name), nil
		case "stack":
			return runtime.NewString(o.String()), nil
		}
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		return runtime.Undefined, nil

	case *runtime.HostValue:
		return i.boundary.HostGet(o, name)

	case *runtime.HostFunctionValue:
		if v, ok := o.GetProperty(name); ok {
			return v, nil
		}
		if name == "name" {
			return runtime.NewString(o.Name), nil
		}
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		return runtime.Undefined, nil

	case *runtime.PromiseValue:
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		return runtime.Undefined, nil

	case *runtime.FunctionValue:
		if name == "name" {
			return runtime.NewString(o.Name), nil
		}
		if name == "length" {
			return runtime.Number(float64(o.MinArity())), nil
		}
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		return runtime.Undefined, nil

	default:
		return nil, ierr.NewTypeErrorf("cannot read property '%s' of %s", name, obj.Type())
	}
}

// bindIfFunction wraps function-valued properties so detached reads keep
// their receiver.
func bindIfFunction(v runtime.Value, this runtime.Value) runtime.Value {
	if fn, ok := v.(*runtime.FunctionValue); ok && !fn.IsArrow {
		return &runtime.BoundMethodValue{Fn: fn, This: this}
	}
	return v
}

// setMember is the single property-write path.
func (i *Interpreter) setMember(ctx *execCtx, obj runtime.Value, name string, value runtime.Value) error {
	switch o := obj.(type) {
	case *runtime.UndefinedValue:
		return ierr.NewTypeErrorf("Cannot set properties of undefined (setting '%s')", name)
	case *runtime.NullValue:
		return ierr.NewTypeErrorf("Cannot set properties of null (setting '%s')", name)

	case *runtime.ObjectValue:
		if err := sandbox.CheckProperty(name); err != nil {
			return err
		}
		if prop, ok := o.GetProperty(name); ok && prop.IsAccessor() {
			if prop.Setter == nil {
				return ierr.NewTypeErrorf("Cannot set property '%s' which has only a getter", name)
			}
			_, err := i.callValue(ctx, prop.Setter, o, []runtime.Value{value})
			return err
		}
		o.Set(name, value)
		return nil

	case *runtime.ArrayValue:
		if idx, err := strconv.Atoi(name); err == nil {
			if idx < 0 {
				return ierr.NewTypeErrorf("invalid array index %d", idx)
			}
			o.Set(idx, value)
			return nil
		}
		if name == "length" {
			return i.setArrayLength(o, value)
		}
		return ierr.NewTypeErrorf("cannot set property '%s' on an array", name)

	case *runtime.InstanceValue:
		if err := sandbox.CheckProperty(name); err != nil {
			return err
		}
		if setter, ok := o.Class.LookupSetter(name); ok {
			_, err := i.callValue(ctx, setter, o, []runtime.Value{value})
			return err
		}
		o.Fields.Set(name, value)
		return nil

	case *runtime.ClassValue:
		if err := sandbox.CheckProperty(name); err != nil {
			return err
		}
		if setter, ok := o.StaticSetters[name]; ok {
			_, err := i.callValue(ctx, setter, o, []runtime.Value{value})
			return err
		}
		o.Statics.Set(name, value)
		return nil

	case *runtime.HostValue:
		return i.boundary.HostSet(o, name)
	case *runtime.HostFunctionValue:
		return ierr.NewSecurityErrorf("Cannot modify property '%s' on global '%s'", name, o.Name)

	default:
		return ierr.NewTypeErrorf("cannot set property '%s' on %s", name, obj.Type())
	}
}

// setArrayLength implements assignment to `length`: truncation or
// undefined-filled growth.
func (i *Interpreter) setArrayLength(arr *runtime.ArrayValue, value runtime.Value) error {
	n := runtime.ToInteger(value)
	if n < 0 || float64(n) != runtime.ToNumber(value) {
		return ierr.NewTypeErrorf("invalid array length")
	}
	for arr.Length() > n {
		arr.Elements = arr.Elements[:len(arr.Elements)-1]
	}
	for arr.Length() < n {
		arr.Elements = append(arr.Elements, runtime.Undefined)
	}
	return nil
}

// evalDelete implements the delete operator: own, non-forbidden
// properties of sandbox-authored objects only.
func (i *Interpreter) evalDelete(ctx *execCtx, operand ast.Expression) (runtime.Value, error) {
	member, ok := operand.(*ast.MemberExpression)
	if !ok {
		if chain, isChain := operand.(*ast.ChainExpression); isChain {
			if m, isMember := chain.Expression.(*ast.MemberExpression); isMember {
				member = m
			} else {
				return runtime.True, nil
			}
		} else {
			return runtime.True, nil
		}
	}

	obj, err := i.evalNode(ctx, member.Object)
	if err != nil {
		return nil, err
	}
	name, err := i.memberName(ctx, member)
	if err != nil {
		return nil, err
	}

	switch o := obj.(type) {
	case *runtime.ObjectValue:
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		return runtime.Boolean(o.Delete(name)), nil
	case *runtime.InstanceValue:
		if err := sandbox.CheckProperty(name); err != nil {
			return nil, err
		}
		return runtime.Boolean(o.Fields.Delete(name)), nil
	case *runtime.ArrayValue:
		if idx, aerr := strconv.Atoi(name); aerr == nil {
			if idx >= 0 && idx < o.Length() {
				o.Elements[idx] = runtime.Undefined
			}
			return runtime.True, nil
		}
		return runtime.False, nil
	case *runtime.HostValue:
		return nil, i.boundary.HostDelete(o, name)
	case *runtime.HostFunctionValue:
		return nil, ierr.NewSecurityErrorf("Cannot delete property '%s' on global '%s'", name, o.Name)
	default:
		return runtime.False, nil
	}
}
