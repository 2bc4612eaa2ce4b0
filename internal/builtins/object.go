package builtins

import (
	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
)

// objectNamespace builds the Object global with the allow-listed static
// helpers. Object.keys and friends are the only sanctioned way to
// enumerate host objects.
func objectNamespace(b *sandbox.Boundary) runtime.Value {
	ns := map[string]any{
		"keys": &runtime.HostFunctionValue{
			Name: "keys",
			Fn: func(args []runtime.Value) (runtime.Value, error) {
				keys, err := ownKeys(b, args)
				if err != nil {
					return nil, err
				}
				out := make([]runtime.Value, len(keys))
				for i, k := range keys {
					out[i] = runtime.NewString(k)
				}
				return runtime.NewArray(out), nil
			},
		},
		"values": &runtime.HostFunctionValue{
			Name: "values",
			Fn: func(args []runtime.Value) (runtime.Value, error) {
				entries, err := ownEntries(b, args)
				if err != nil {
					return nil, err
				}
				out := make([]runtime.Value, len(entries))
				for i, e := range entries {
					out[i] = e[1]
				}
				return runtime.NewArray(out), nil
			},
		},
		"entries": &runtime.HostFunctionValue{
			Name: "entries",
			Fn: func(args []runtime.Value) (runtime.Value, error) {
				entries, err := ownEntries(b, args)
				if err != nil {
					return nil, err
				}
				out := make([]runtime.Value, len(entries))
				for i, e := range entries {
					out[i] = runtime.NewArray([]runtime.Value{e[0], e[1]})
				}
				return runtime.NewArray(out), nil
			},
		},
		"assign": &runtime.HostFunctionValue{
			Name: "assign",
			Fn: func(args []runtime.Value) (runtime.Value, error) {
				if len(args) == 0 {
					return nil, ierr.NewTypeErrorf("Object.assign requires a target")
				}
				target, ok := args[0].(*runtime.ObjectValue)
				if !ok {
					return nil, ierr.NewTypeErrorf("Object.assign target must be an object")
				}
				for _, src := range args[1:] {
					entries, err := ownEntries(b, []runtime.Value{src})
					if err != nil {
						return nil, err
					}
					for _, e := range entries {
						if err := sandbox.CheckProperty(e[0].String()); err != nil {
							return nil, err
						}
						target.Set(e[0].String(), e[1])
					}
				}
				return target, nil
			},
		},
		"freeze": &runtime.HostFunctionValue{
			Name: "freeze",
			Fn: func(args []runtime.Value) (runtime.Value, error) {
				// Sandbox objects have no extensibility machinery to turn
				// off; freeze returns its argument untouched.
				if len(args) == 0 {
					return runtime.Undefined, nil
				}
				return args[0], nil
			},
		},
		"fromEntries": &runtime.HostFunctionValue{
			Name: "fromEntries",
			Fn: func(args []runtime.Value) (runtime.Value, error) {
				if len(args) == 0 {
					return nil, ierr.NewTypeErrorf("Object.fromEntries requires an iterable")
				}
				arr, ok := args[0].(*runtime.ArrayValue)
				if !ok {
					return nil, ierr.NewTypeErrorf("Object.fromEntries requires an array of pairs")
				}
				obj := runtime.NewObject()
				for i := 0; i < arr.Length(); i++ {
					pair, ok := arr.Get(i).(*runtime.ArrayValue)
					if !ok || pair.Length() < 2 {
						return nil, ierr.NewTypeErrorf("Object.fromEntries entry %d is not a [key, value] pair", i)
					}
					key := pair.Get(0).String()
					if err := sandbox.CheckProperty(key); err != nil {
						return nil, err
					}
					obj.Set(key, pair.Get(1))
				}
				return obj, nil
			},
		},
	}
	return runtime.NewHostValue(ns, "Object")
}

// ownKeys lists the own enumerable keys of a sandbox object, instance or
// host value.
func ownKeys(b *sandbox.Boundary, args []runtime.Value) ([]string, error) {
	if len(args) == 0 {
		return nil, ierr.NewTypeErrorf("expected an object argument")
	}
	switch v := args[0].(type) {
	case *runtime.ObjectValue:
		return v.Keys(), nil
	case *runtime.InstanceValue:
		return v.Fields.Keys(), nil
	case *runtime.ArrayValue:
		keys := make([]string, v.Length())
		for i := range keys {
			keys[i] = runtime.FormatNumber(float64(i))
		}
		return keys, nil
	case *runtime.HostValue:
		return b.HostKeys(v), nil
	default:
		return nil, ierr.NewTypeErrorf("expected an object, got %s", args[0].Type())
	}
}

// ownEntries pairs each own key with its (wrapped) value.
func ownEntries(b *sandbox.Boundary, args []runtime.Value) ([][2]runtime.Value, error) {
	keys, err := ownKeys(b, args)
	if err != nil {
		return nil, err
	}
	var out [][2]runtime.Value
	switch v := args[0].(type) {
	case *runtime.ObjectValue:
		for _, k := range keys {
			if prop, ok := v.GetProperty(k); ok && !prop.IsAccessor() {
				out = append(out, [2]runtime.Value{runtime.NewString(k), prop.Value})
			}
		}
	case *runtime.InstanceValue:
		for _, k := range keys {
			if val, ok := v.Fields.Get(k); ok {
				out = append(out, [2]runtime.Value{runtime.NewString(k), val})
			}
		}
	case *runtime.ArrayValue:
		for i := 0; i < v.Length(); i++ {
			out = append(out, [2]runtime.Value{runtime.NewString(runtime.FormatNumber(float64(i))), v.Get(i)})
		}
	case *runtime.HostValue:
		for _, k := range keys {
			val, err := b.HostGet(v, k)
			if err != nil {
				continue // gated keys stay invisible to enumeration
			}
			out = append(out, [2]runtime.Value{runtime.NewString(k), val})
		}
	}
	return out, nil
}
