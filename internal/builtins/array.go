package builtins

import (
	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
)

// arrayNamespace builds the callable Array global with isArray/from/of.
func arrayNamespace(b *sandbox.Boundary) runtime.Value {
	return &runtime.HostFunctionValue{
		Name: "Array",
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			// Array(n) preallocates; Array(a, b, ...) lists.
			if len(args) == 1 {
				if n, ok := args[0].(*runtime.NumberValue); ok {
					count := int(n.Value)
					if count < 0 || float64(count) != n.Value {
						return nil, ierr.NewTypeErrorf("invalid array length")
					}
					elements := make([]runtime.Value, count)
					for i := range elements {
						elements[i] = runtime.Undefined
					}
					return runtime.NewArray(elements), nil
				}
			}
			return runtime.NewArray(append([]runtime.Value{}, args...)), nil
		},
		Properties: map[string]runtime.Value{
			"isArray": &runtime.HostFunctionValue{Name: "isArray", Fn: func(args []runtime.Value) (runtime.Value, error) {
				if len(args) == 0 {
					return runtime.False, nil
				}
				_, ok := args[0].(*runtime.ArrayValue)
				return runtime.Boolean(ok), nil
			}},
			"from": &runtime.HostFunctionValue{Name: "from", Fn: func(args []runtime.Value) (runtime.Value, error) {
				if len(args) == 0 {
					return nil, ierr.NewTypeErrorf("Array.from requires an iterable")
				}
				elements, err := iterableElements(b, args[0])
				if err != nil {
					return nil, err
				}
				if len(args) > 1 && runtime.IsCallable(args[1]) {
					mapped := make([]runtime.Value, len(elements))
					for i, el := range elements {
						v, err := b.Call(args[1], []runtime.Value{el, runtime.Number(float64(i))})
						if err != nil {
							return nil, err
						}
						mapped[i] = v
					}
					elements = mapped
				}
				return runtime.NewArray(elements), nil
			}},
			"of": &runtime.HostFunctionValue{Name: "of", Fn: func(args []runtime.Value) (runtime.Value, error) {
				return runtime.NewArray(append([]runtime.Value{}, args...)), nil
			}},
		},
	}
}

// iterableElements materializes the common iterables: arrays, strings,
// host arrays, Maps and Sets.
func iterableElements(b *sandbox.Boundary, v runtime.Value) ([]runtime.Value, error) {
	switch val := v.(type) {
	case *runtime.ArrayValue:
		out := make([]runtime.Value, val.Length())
		for i := range out {
			out[i] = val.Get(i)
		}
		return out, nil
	case *runtime.StringValue:
		runes := val.Runes()
		out := make([]runtime.Value, len(runes))
		for i, r := range runes {
			out[i] = runtime.NewString(string(r))
		}
		return out, nil
	case *runtime.HostValue:
		if elements, ok := b.HostElements(val); ok {
			return elements, nil
		}
		switch native := val.Native.(type) {
		case *MapObject:
			return native.entryPairs(), nil
		case *SetObject:
			return native.valueList(), nil
		}
	}
	return nil, ierr.NewTypeErrorf("%s is not iterable", v.Type())
}
