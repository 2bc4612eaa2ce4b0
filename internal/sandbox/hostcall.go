package sandbox

import (
	"fmt"
	"reflect"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// WrapHostFunction wraps an arbitrary host Go function as a sandbox
// callable. Arguments are converted at the boundary (scalars pass,
// containers deep-copy, sandbox functions become thunks); return values
// are wrapped back; panics and returned errors become HostCall failures.
func (b *Boundary) WrapHostFunction(name string, fn any) *runtime.HostFunctionValue {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return &runtime.HostFunctionValue{
			Name: name,
			Fn: func([]runtime.Value) (runtime.Value, error) {
				return nil, ierr.NewTypeErrorf("'%s' is not a host function", name)
			},
		}
	}
	return &runtime.HostFunctionValue{
		Name: name,
		Kind: runtime.HostFunction,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			return b.invokeReflected(name, rv, args)
		},
	}
}

// WrapHostConstructor wraps a host factory function as a constructor-only
// callable: `new Ctor(args)` invokes the factory and proxies the instance.
func (b *Boundary) WrapHostConstructor(name string, factory any) *runtime.HostFunctionValue {
	rv := reflect.ValueOf(factory)
	return &runtime.HostFunctionValue{
		Name: name,
		Kind: runtime.HostConstructor,
		Construct: func(args []runtime.Value) (runtime.Value, error) {
			result, err := b.invokeReflected(name, rv, args)
			if err != nil {
				return nil, err
			}
			// Re-wrap plain results as instance proxies rooted at the
			// constructor name.
			if hv, ok := result.(*runtime.HostValue); ok && hv.Path == "" {
				hv.Path = name
			}
			return result, nil
		},
	}
}

// WrapHostMethod wraps a method resolved on a host receiver, binding the
// receiver at wrap time.
func (b *Boundary) WrapHostMethod(name string, method reflect.Value) *runtime.HostFunctionValue {
	return &runtime.HostFunctionValue{
		Name: name,
		Kind: runtime.HostMethod,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			return b.invokeReflected(name, method, args)
		},
	}
}

// invokeReflected performs the reflect-based call with argument and return
// conversion. Variadic host functions receive the spread tail; missing
// non-variadic arguments are zero-filled.
func (b *Boundary) invokeReflected(name string, fn reflect.Value, args []runtime.Value) (result runtime.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ierr.NewHostCallError(fmt.Errorf("host function '%s' panicked: %v", name, r), b.HideHostErrors)
		}
	}()

	ft := fn.Type()
	numIn := ft.NumIn()
	var in []reflect.Value

	if ft.IsVariadic() {
		fixed := numIn - 1
		for i := 0; i < fixed; i++ {
			arg := argOrUndefined(args, i)
			rv, convErr := b.toReflectArg(arg, ft.In(i))
			if convErr != nil {
				return nil, convErr
			}
			in = append(in, rv)
		}
		elemType := ft.In(numIn - 1).Elem()
		for i := fixed; i < len(args); i++ {
			rv, convErr := b.toReflectArg(args[i], elemType)
			if convErr != nil {
				return nil, convErr
			}
			in = append(in, rv)
		}
	} else {
		for i := 0; i < numIn; i++ {
			arg := argOrUndefined(args, i)
			rv, convErr := b.toReflectArg(arg, ft.In(i))
			if convErr != nil {
				return nil, convErr
			}
			in = append(in, rv)
		}
	}

	out := fn.Call(in)

	// Recognized shapes: (), (T), (error), (T, error).
	switch len(out) {
	case 0:
		return runtime.Undefined, nil
	case 1:
		if ft.Out(0) == errType {
			if !out[0].IsNil() {
				return nil, ierr.NewHostCallError(out[0].Interface().(error), b.HideHostErrors)
			}
			return runtime.Undefined, nil
		}
		return b.ToSandbox(out[0].Interface(), ""), nil
	default:
		if ft.Out(len(out)-1) == errType && !out[len(out)-1].IsNil() {
			return nil, ierr.NewHostCallError(out[len(out)-1].Interface().(error), b.HideHostErrors)
		}
		return b.ToSandbox(out[0].Interface(), ""), nil
	}
}

func argOrUndefined(args []runtime.Value, i int) runtime.Value {
	if i < len(args) {
		return args[i]
	}
	return runtime.Undefined
}
