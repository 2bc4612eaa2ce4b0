package interp

import (
	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

func (i *Interpreter) evalClassDeclaration(ctx *execCtx, decl *ast.ClassDeclaration) (runtime.Value, error) {
	class, err := i.evalClassLiteral(ctx, decl.Class)
	if err != nil {
		return nil, err
	}
	if err := ctx.env.Declare(decl.Class.Name, runtime.BindLet, class); err != nil {
		return nil, ierr.NewTypeErrorf("identifier '%s' has already been declared", decl.Class.Name)
	}
	return runtime.Undefined, nil
}

// evalClassLiteral builds the class value: methods and accessors close
// over the defining scope, instance field initializers are stored for
// construction time, and static members evaluate immediately in source
// order.
func (i *Interpreter) evalClassLiteral(ctx *execCtx, lit *ast.ClassLiteral) (runtime.Value, error) {
	class := runtime.NewClass(lit.Name)
	class.Env = ctx.env

	if lit.SuperClass != nil {
		superVal, err := i.evalNode(ctx, lit.SuperClass)
		if err != nil {
			return nil, err
		}
		superClass, ok := superVal.(*runtime.ClassValue)
		if !ok {
			return nil, ierr.NewTypeErrorf("class %s extends a non-class value", lit.Name)
		}
		class.Superclass = superClass
	}

	makeMethod := func(member *ast.ClassMember) *runtime.FunctionValue {
		fn := i.makeFunction(ctx, member.Value)
		fn.HomeClass = class
		return fn
	}

	for _, member := range lit.Members {
		if member.Private {
			class.PrivateNames[member.Key] = true
		}
		switch member.MemberKind {
		case ast.MemberConstructor:
			class.Constructor = makeMethod(member)
		case ast.MemberMethod:
			fn := makeMethod(member)
			switch {
			case member.Static:
				class.Statics.Set(member.Key, fn)
			case member.Private:
				class.PrivateMethods[member.Key] = fn
			default:
				class.Methods[member.Key] = fn
			}
		case ast.MemberGetter:
			fn := makeMethod(member)
			if member.Static {
				class.StaticGetters[member.Key] = fn
			} else {
				class.Getters[member.Key] = fn
			}
		case ast.MemberSetter:
			fn := makeMethod(member)
			if member.Static {
				class.StaticSetters[member.Key] = fn
			} else {
				class.Setters[member.Key] = fn
			}
		case ast.MemberField:
			if member.Static {
				// Static fields evaluate now, in source order, with the
				// class itself as `this`.
				var value runtime.Value = runtime.Undefined
				if member.Init != nil {
					staticCtx := ctx.withEnv(ctx.env)
					staticCtx.thisVal = class
					staticCtx.class = class
					v, err := i.evalNode(staticCtx, member.Init)
					if err != nil {
						return nil, err
					}
					value = v
				}
				class.Statics.Set(member.Key, value)
				continue
			}
			class.FieldInits = append(class.FieldInits, runtime.FieldInit{
				Name:    member.Key,
				Private: member.Private,
				Init:    member.Init,
			})
		}
	}
	return class, nil
}

// instantiateClass implements `new Class(args)`.
func (i *Interpreter) instantiateClass(ctx *execCtx, class *runtime.ClassValue, args []runtime.Value) (runtime.Value, error) {
	instance := runtime.NewInstance(class)
	if err := i.constructInstance(ctx, class, instance, args); err != nil {
		return nil, err
	}
	return instance, nil
}

// constructInstance runs one class's share of construction: the parent
// chain (through explicit or implicit super), this class's field
// initializers, then its constructor body.
func (i *Interpreter) constructInstance(ctx *execCtx, class *runtime.ClassValue, instance *runtime.InstanceValue, args []runtime.Value) error {
	if class.Constructor == nil {
		// Implicit constructor: forward to the parent, then run fields.
		if class.Superclass != nil {
			if err := i.constructInstance(ctx, class.Superclass, instance, args); err != nil {
				return err
			}
		}
		return i.runFieldInits(ctx, class, instance)
	}

	fnCtx, err := i.functionFrame(ctx, class.Constructor, instance, args)
	if err != nil {
		return err
	}
	fnCtx.class = class

	if class.Superclass == nil {
		// Base classes initialize fields before the constructor body.
		if err := i.runFieldInits(ctx, class, instance); err != nil {
			return err
		}
	} else {
		// Derived classes initialize fields when super() returns.
		fnCtx.superHook = func(superArgs []runtime.Value) error {
			if err := i.constructInstance(ctx, class.Superclass, instance, superArgs); err != nil {
				return err
			}
			return i.runFieldInits(ctx, class, instance)
		}
	}

	i.stats.CallCount++
	if _, err := i.evalStatements(fnCtx, class.Constructor.Body.Statements); err != nil {
		return err
	}
	fnCtx.flow.Clear()
	return nil
}

// runFieldInits evaluates instance field initializers in source order with
// `this` bound to the new instance.
func (i *Interpreter) runFieldInits(ctx *execCtx, class *runtime.ClassValue, instance *runtime.InstanceValue) error {
	for _, field := range class.FieldInits {
		var value runtime.Value = runtime.Undefined
		if field.Init != nil {
			fieldCtx := ctx.withEnv(runtime.NewEnclosedEnvironment(class.Env))
			fieldCtx.thisVal = instance
			fieldCtx.class = class
			v, err := i.evalNode(fieldCtx, field.Init)
			if err != nil {
				return err
			}
			value = v
		}
		if field.Private {
			instance.Private[field.Name] = value
		} else {
			instance.Fields.Set(field.Name, value)
		}
	}
	return nil
}

// callSuperConstructor handles `super(args)` inside a derived
// constructor.
func (i *Interpreter) callSuperConstructor(ctx *execCtx, args []runtime.Value) (runtime.Value, error) {
	if ctx.superHook == nil {
		return nil, ierr.NewSyntaxErrorf("'super' call outside of a derived class constructor")
	}
	hook := ctx.superHook
	ctx.superHook = nil // super() may run once
	if err := hook(args); err != nil {
		return nil, err
	}
	return runtime.Undefined, nil
}

// evalSuperMember resolves `super.m` inside a class method: the method is
// looked up starting at the parent class and bound to the current `this`.
func (i *Interpreter) evalSuperMember(ctx *execCtx, expr *ast.MemberExpression) (runtime.Value, error) {
	if ctx.class == nil || ctx.class.Superclass == nil {
		return nil, ierr.NewSyntaxErrorf("'super' is only valid inside methods of a derived class")
	}
	name, err := i.memberName(ctx, expr)
	if err != nil {
		return nil, err
	}
	parent := ctx.class.Superclass
	if getter, ok := parent.LookupGetter(name); ok {
		return i.callValue(ctx, getter, ctx.thisVal, nil)
	}
	if method, _, ok := parent.LookupMethod(name); ok {
		return &runtime.BoundMethodValue{Fn: method, This: ctx.thisVal}, nil
	}
	return nil, ierr.NewTypeErrorf("super.%s is not defined", name)
}

// getPrivateField reads `obj.#name`. Access is legal only inside a method
// of a class that declares the name; unknown names are syntax errors and
// out-of-class access is a security error.
func (i *Interpreter) getPrivateField(ctx *execCtx, obj runtime.Value, name string) (runtime.Value, error) {
	instance, err := i.checkPrivateAccess(ctx, obj, name)
	if err != nil {
		return nil, err
	}
	if v, ok := instance.Private[name]; ok {
		return v, nil
	}
	if method, ok := privateMethod(ctx.class, name); ok {
		return &runtime.BoundMethodValue{Fn: method, This: instance}, nil
	}
	return runtime.Undefined, nil
}

// setPrivateField writes `obj.#name = value` under the same access rules.
func (i *Interpreter) setPrivateField(ctx *execCtx, obj runtime.Value, name string, value runtime.Value) error {
	instance, err := i.checkPrivateAccess(ctx, obj, name)
	if err != nil {
		return err
	}
	instance.Private[name] = value
	return nil
}

// checkPrivateAccess validates a private member reference against the
// current class context.
func (i *Interpreter) checkPrivateAccess(ctx *execCtx, obj runtime.Value, name string) (*runtime.InstanceValue, error) {
	instance, ok := obj.(*runtime.InstanceValue)
	if !ok {
		return nil, ierr.NewTypeErrorf("cannot read private member #%s from %s", name, obj.Type())
	}
	if !instance.Class.HasPrivateName(name) {
		return nil, ierr.NewSyntaxErrorf("private field #%s is not declared", name)
	}
	if ctx.class == nil || !ctx.class.HasPrivateName(name) {
		return nil, ierr.NewSecurityErrorf("private member #%s is not accessible outside its class", name)
	}
	return instance, nil
}

// privateMethod resolves a private method through the class chain.
func privateMethod(class *runtime.ClassValue, name string) (*runtime.FunctionValue, bool) {
	for cls := class; cls != nil; cls = cls.Superclass {
		if m, ok := cls.PrivateMethods[name]; ok {
			return m, true
		}
	}
	return nil, false
}
