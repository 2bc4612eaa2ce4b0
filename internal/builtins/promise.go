package builtins

import (
	"context"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
)

// promiseNamespace builds the Promise global: a constructor taking an
// executor, plus resolve/reject/all/race/allSettled/withResolvers.
func promiseNamespace(b *sandbox.Boundary) runtime.Value {
	return &runtime.HostFunctionValue{
		Name: "Promise",
		Kind: runtime.HostConstructor,
		Construct: func(args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 || !runtime.IsCallable(args[0]) {
				return nil, ierr.NewTypeErrorf("Promise constructor requires an executor function")
			}
			p := runtime.NewPromise()
			resolve := &runtime.HostFunctionValue{Name: "resolve", Fn: func(a []runtime.Value) (runtime.Value, error) {
				p.Resolve(first(a))
				return runtime.Undefined, nil
			}}
			reject := &runtime.HostFunctionValue{Name: "reject", Fn: func(a []runtime.Value) (runtime.Value, error) {
				p.Reject(runtime.Throw(first(a)))
				return runtime.Undefined, nil
			}}
			// The executor runs synchronously, like the host language's.
			if _, err := b.Call(args[0], []runtime.Value{resolve, reject}); err != nil {
				p.Reject(err)
			}
			return p, nil
		},
		Properties: map[string]runtime.Value{
			"resolve": &runtime.HostFunctionValue{Name: "resolve", Fn: func(args []runtime.Value) (runtime.Value, error) {
				return runtime.ResolvedPromise(first(args)), nil
			}},
			"reject": &runtime.HostFunctionValue{Name: "reject", Fn: func(args []runtime.Value) (runtime.Value, error) {
				return runtime.RejectedPromise(runtime.Throw(first(args))), nil
			}},
			"all":        promiseAll(b),
			"race":       promiseRace(b),
			"allSettled": promiseAllSettled(b),
			"withResolvers": &runtime.HostFunctionValue{Name: "withResolvers", Fn: func([]runtime.Value) (runtime.Value, error) {
				p := runtime.NewPromise()
				obj := runtime.NewObject()
				obj.Set("promise", p)
				obj.Set("resolve", &runtime.HostFunctionValue{Name: "resolve", Fn: func(a []runtime.Value) (runtime.Value, error) {
					p.Resolve(first(a))
					return runtime.Undefined, nil
				}})
				obj.Set("reject", &runtime.HostFunctionValue{Name: "reject", Fn: func(a []runtime.Value) (runtime.Value, error) {
					p.Reject(runtime.Throw(first(a)))
					return runtime.Undefined, nil
				}})
				return obj, nil
			}},
		},
	}
}

func first(args []runtime.Value) runtime.Value {
	if len(args) == 0 {
		return runtime.Undefined
	}
	return args[0]
}

// promiseElements reads the array argument of a combinator.
func promiseElements(b *sandbox.Boundary, args []runtime.Value) ([]runtime.Value, error) {
	if len(args) == 0 {
		return nil, ierr.NewTypeErrorf("expected an array of promises")
	}
	return iterableElements(b, args[0])
}

// awaitable views a combinator element as a promise, adopting plain
// values as already-settled.
func awaitable(v runtime.Value) *runtime.PromiseValue {
	if p, ok := v.(*runtime.PromiseValue); ok {
		return p
	}
	return runtime.ResolvedPromise(v)
}

func promiseAll(b *sandbox.Boundary) runtime.Value {
	return &runtime.HostFunctionValue{Name: "all", Fn: func(args []runtime.Value) (runtime.Value, error) {
		elements, err := promiseElements(b, args)
		if err != nil {
			return nil, err
		}
		out := runtime.NewPromise()
		go func() {
			results := make([]runtime.Value, len(elements))
			for i, el := range elements {
				v, err := awaitable(el).Await(context.Background())
				if err != nil {
					out.Reject(err)
					return
				}
				results[i] = v
			}
			out.Resolve(runtime.NewArray(results))
		}()
		return out, nil
	}}
}

func promiseRace(b *sandbox.Boundary) runtime.Value {
	return &runtime.HostFunctionValue{Name: "race", Fn: func(args []runtime.Value) (runtime.Value, error) {
		elements, err := promiseElements(b, args)
		if err != nil {
			return nil, err
		}
		out := runtime.NewPromise()
		for _, el := range elements {
			el := el
			go func() {
				v, err := awaitable(el).Await(context.Background())
				if err != nil {
					out.Reject(err)
					return
				}
				out.Resolve(v)
			}()
		}
		return out, nil
	}}
}

func promiseAllSettled(b *sandbox.Boundary) runtime.Value {
	return &runtime.HostFunctionValue{Name: "allSettled", Fn: func(args []runtime.Value) (runtime.Value, error) {
		elements, err := promiseElements(b, args)
		if err != nil {
			return nil, err
		}
		out := runtime.NewPromise()
		go func() {
			results := make([]runtime.Value, len(elements))
			for i, el := range elements {
				entry := runtime.NewObject()
				v, err := awaitable(el).Await(context.Background())
				if err != nil {
					entry.Set("status", runtime.NewString("rejected"))
					entry.Set("reason", rejectionValue(err))
				} else {
					entry.Set("status", runtime.NewString("fulfilled"))
					entry.Set("value", v)
				}
				results[i] = entry
			}
			out.Resolve(runtime.NewArray(results))
		}()
		return out, nil
	}}
}

// rejectionValue extracts the sandbox value carried by a rejection.
func rejectionValue(err error) runtime.Value {
	if t, ok := err.(*runtime.Thrown); ok {
		return t.Value
	}
	if ie, ok := err.(*ierr.InterpreterError); ok {
		return runtime.NewErrorValue(string(ie.Kind)+"Error", ie.Message)
	}
	return runtime.NewErrorValue("Error", err.Error())
}
