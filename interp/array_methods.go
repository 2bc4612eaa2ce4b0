package interp

import (
	"sort"
	"strings"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
)

// arrayMethod resolves a method on a sandbox array. These are implemented
// in-engine rather than by delegating to a host array class, because the
// callback-taking ones re-enter the evaluator for sandbox functions.
func (i *Interpreter) arrayMethod(ctx *execCtx, arr *runtime.ArrayValue, name string) (runtime.Value, bool) {
	fn, ok := arrayMethodTable[name]
	if !ok {
		return nil, false
	}
	return &runtime.HostFunctionValue{
		Name: name,
		Kind: runtime.HostMethod,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			return fn(i, ctx, arr, args)
		},
	}, true
}

type arrayMethodFn func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error)

// callback invokes a sandbox callback with (value, index, array).
func (i *Interpreter) callback(ctx *execCtx, fn runtime.Value, v runtime.Value, idx int, arr *runtime.ArrayValue) (runtime.Value, error) {
	if !runtime.IsCallable(fn) {
		return nil, ierr.NewTypeErrorf("callback is not a function")
	}
	return i.callValue(ctx, fn, runtime.Undefined, []runtime.Value{v, runtime.Number(float64(idx)), arr})
}

func arg(args []runtime.Value, idx int) runtime.Value {
	if idx >= len(args) {
		return runtime.Undefined
	}
	return args[idx]
}

func argInt(args []runtime.Value, idx, def int) int {
	if idx >= len(args) {
		return def
	}
	if _, ok := args[idx].(*runtime.UndefinedValue); ok {
		return def
	}
	return runtime.ToInteger(args[idx])
}

var arrayMethodTable = map[string]arrayMethodFn{
	"push": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(float64(arr.Push(args...))), nil
	},
	"pop": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, _ []runtime.Value) (runtime.Value, error) {
		n := arr.Length()
		if n == 0 {
			return runtime.Undefined, nil
		}
		last := arr.Get(n - 1)
		arr.Elements = arr.Elements[:n-1]
		return last, nil
	},
	"shift": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, _ []runtime.Value) (runtime.Value, error) {
		if arr.Length() == 0 {
			return runtime.Undefined, nil
		}
		first := arr.Get(0)
		arr.Elements = arr.Elements[1:]
		return first, nil
	},
	"unshift": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		arr.Elements = append(append([]runtime.Value{}, args...), arr.Elements...)
		return runtime.Number(float64(arr.Length())), nil
	},
	"slice": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		return arr.Slice(argInt(args, 0, 0), argInt(args, 1, arr.Length())), nil
	},
	"concat": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		out := append([]runtime.Value{}, arr.Elements...)
		for _, a := range args {
			if other, ok := a.(*runtime.ArrayValue); ok {
				out = append(out, other.Elements...)
			} else {
				out = append(out, a)
			}
		}
		return runtime.NewArray(out), nil
	},
	"join": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		sep := ","
		if len(args) > 0 && !runtime.IsNullish(args[0]) {
			sep = args[0].String()
		}
		parts := make([]string, arr.Length())
		for idx := range parts {
			el := arr.Get(idx)
			if runtime.IsNullish(el) {
				continue
			}
			parts[idx] = el.String()
		}
		return runtime.NewString(strings.Join(parts, sep)), nil
	},
	"indexOf": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		needle := arg(args, 0)
		for idx := 0; idx < arr.Length(); idx++ {
			if runtime.StrictEquals(arr.Get(idx), needle) {
				return runtime.Number(float64(idx)), nil
			}
		}
		return runtime.Number(-1), nil
	},
	"lastIndexOf": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		needle := arg(args, 0)
		for idx := arr.Length() - 1; idx >= 0; idx-- {
			if runtime.StrictEquals(arr.Get(idx), needle) {
				return runtime.Number(float64(idx)), nil
			}
		}
		return runtime.Number(-1), nil
	},
	"includes": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		needle := arg(args, 0)
		for idx := 0; idx < arr.Length(); idx++ {
			if runtime.StrictEquals(arr.Get(idx), needle) {
				return runtime.True, nil
			}
		}
		return runtime.False, nil
	},
	"reverse": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, _ []runtime.Value) (runtime.Value, error) {
		reverseInPlace(arr.Elements)
		return arr, nil
	},
	"toReversed": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, _ []runtime.Value) (runtime.Value, error) {
		out := append([]runtime.Value{}, arr.Elements...)
		reverseInPlace(out)
		return runtime.NewArray(out), nil
	},
	"at": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		idx := argInt(args, 0, 0)
		if idx < 0 {
			idx += arr.Length()
		}
		if idx < 0 || idx >= arr.Length() {
			return runtime.Undefined, nil
		}
		return arr.Get(idx), nil
	},
	"fill": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		value := arg(args, 0)
		start := resolveBound(argInt(args, 1, 0), arr.Length())
		end := resolveBound(argInt(args, 2, arr.Length()), arr.Length())
		for idx := start; idx < end; idx++ {
			arr.Elements[idx] = value
		}
		return arr, nil
	},
	"splice": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		removed := spliceInPlace(arr, args)
		return removed, nil
	},
	"toSpliced": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		clone := runtime.NewArray(append([]runtime.Value{}, arr.Elements...))
		spliceInPlace(clone, args)
		return clone, nil
	},
	"copyWithin": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		n := arr.Length()
		target := resolveBound(argInt(args, 0, 0), n)
		start := resolveBound(argInt(args, 1, 0), n)
		end := resolveBound(argInt(args, 2, n), n)
		window := append([]runtime.Value{}, arr.Elements[start:end]...)
		for idx, v := range window {
			if target+idx >= n {
				break
			}
			arr.Elements[target+idx] = v
		}
		return arr, nil
	},
	"with": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		idx := argInt(args, 0, 0)
		if idx < 0 {
			idx += arr.Length()
		}
		if idx < 0 || idx >= arr.Length() {
			return nil, ierr.NewTypeErrorf("invalid index %d for 'with'", argInt(args, 0, 0))
		}
		out := append([]runtime.Value{}, arr.Elements...)
		out[idx] = arg(args, 1)
		return runtime.NewArray(out), nil
	},
	"flat": func(_ *Interpreter, _ *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		depth := argInt(args, 0, 1)
		return runtime.NewArray(flatten(arr.Elements, depth)), nil
	},

	"map": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		out := make([]runtime.Value, arr.Length())
		for idx := range out {
			v, err := i.callback(ctx, arg(args, 0), arr.Get(idx), idx, arr)
			if err != nil {
				return nil, err
			}
			out[idx] = v
		}
		return runtime.NewArray(out), nil
	},
	"filter": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		var out []runtime.Value
		for idx := 0; idx < arr.Length(); idx++ {
			keep, err := i.callback(ctx, arg(args, 0), arr.Get(idx), idx, arr)
			if err != nil {
				return nil, err
			}
			if runtime.ToBoolean(keep) {
				out = append(out, arr.Get(idx))
			}
		}
		return runtime.NewArray(out), nil
	},
	"forEach": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		for idx := 0; idx < arr.Length(); idx++ {
			if _, err := i.callback(ctx, arg(args, 0), arr.Get(idx), idx, arr); err != nil {
				return nil, err
			}
		}
		return runtime.Undefined, nil
	},
	"every": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		for idx := 0; idx < arr.Length(); idx++ {
			ok, err := i.callback(ctx, arg(args, 0), arr.Get(idx), idx, arr)
			if err != nil {
				return nil, err
			}
			if !runtime.ToBoolean(ok) {
				return runtime.False, nil
			}
		}
		return runtime.True, nil
	},
	"some": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		for idx := 0; idx < arr.Length(); idx++ {
			ok, err := i.callback(ctx, arg(args, 0), arr.Get(idx), idx, arr)
			if err != nil {
				return nil, err
			}
			if runtime.ToBoolean(ok) {
				return runtime.True, nil
			}
		}
		return runtime.False, nil
	},
	"find": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		for idx := 0; idx < arr.Length(); idx++ {
			ok, err := i.callback(ctx, arg(args, 0), arr.Get(idx), idx, arr)
			if err != nil {
				return nil, err
			}
			if runtime.ToBoolean(ok) {
				return arr.Get(idx), nil
			}
		}
		return runtime.Undefined, nil
	},
	"findIndex": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		for idx := 0; idx < arr.Length(); idx++ {
			ok, err := i.callback(ctx, arg(args, 0), arr.Get(idx), idx, arr)
			if err != nil {
				return nil, err
			}
			if runtime.ToBoolean(ok) {
				return runtime.Number(float64(idx)), nil
			}
		}
		return runtime.Number(-1), nil
	},
	"findLast": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		for idx := arr.Length() - 1; idx >= 0; idx-- {
			ok, err := i.callback(ctx, arg(args, 0), arr.Get(idx), idx, arr)
			if err != nil {
				return nil, err
			}
			if runtime.ToBoolean(ok) {
				return arr.Get(idx), nil
			}
		}
		return runtime.Undefined, nil
	},
	"findLastIndex": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		for idx := arr.Length() - 1; idx >= 0; idx-- {
			ok, err := i.callback(ctx, arg(args, 0), arr.Get(idx), idx, arr)
			if err != nil {
				return nil, err
			}
			if runtime.ToBoolean(ok) {
				return runtime.Number(float64(idx)), nil
			}
		}
		return runtime.Number(-1), nil
	},
	"flatMap": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		var out []runtime.Value
		for idx := 0; idx < arr.Length(); idx++ {
			v, err := i.callback(ctx, arg(args, 0), arr.Get(idx), idx, arr)
			if err != nil {
				return nil, err
			}
			if inner, ok := v.(*runtime.ArrayValue); ok {
				out = append(out, inner.Elements...)
			} else {
				out = append(out, v)
			}
		}
		return runtime.NewArray(out), nil
	},
	"reduce": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		return i.reduceArray(ctx, arr, args, false)
	},
	"reduceRight": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		return i.reduceArray(ctx, arr, args, true)
	},
	"sort": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		return i.sortArray(ctx, arr, args, true)
	},
	"toSorted": func(i *Interpreter, ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value) (runtime.Value, error) {
		return i.sortArray(ctx, arr, args, false)
	},
}

func reverseInPlace(elements []runtime.Value) {
	for a, b := 0, len(elements)-1; a < b; a, b = a+1, b-1 {
		elements[a], elements[b] = elements[b], elements[a]
	}
}

func resolveBound(idx, n int) int {
	if idx < 0 {
		idx += n
	}
	if idx < 0 {
		return 0
	}
	if idx > n {
		return n
	}
	return idx
}

// spliceInPlace removes and inserts elements, returning the removed ones.
func spliceInPlace(arr *runtime.ArrayValue, args []runtime.Value) *runtime.ArrayValue {
	n := arr.Length()
	start := resolveBound(argInt(args, 0, 0), n)
	deleteCount := n - start
	if len(args) > 1 {
		deleteCount = argInt(args, 1, deleteCount)
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if start+deleteCount > n {
		deleteCount = n - start
	}
	removed := append([]runtime.Value{}, arr.Elements[start:start+deleteCount]...)

	var inserted []runtime.Value
	if len(args) > 2 {
		inserted = args[2:]
	}
	tail := append([]runtime.Value{}, arr.Elements[start+deleteCount:]...)
	arr.Elements = append(arr.Elements[:start], append(append([]runtime.Value{}, inserted...), tail...)...)
	return runtime.NewArray(removed)
}

// flatten recursively flattens nested sandbox arrays to the given depth.
func flatten(elements []runtime.Value, depth int) []runtime.Value {
	var out []runtime.Value
	for _, el := range elements {
		if inner, ok := el.(*runtime.ArrayValue); ok && depth > 0 {
			out = append(out, flatten(inner.Elements, depth-1)...)
			continue
		}
		out = append(out, el)
	}
	return out
}

// reduceArray implements reduce and reduceRight.
func (i *Interpreter) reduceArray(ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value, fromRight bool) (runtime.Value, error) {
	fn := arg(args, 0)
	if !runtime.IsCallable(fn) {
		return nil, ierr.NewTypeErrorf("reduce callback is not a function")
	}
	indices := make([]int, arr.Length())
	for idx := range indices {
		if fromRight {
			indices[idx] = arr.Length() - 1 - idx
		} else {
			indices[idx] = idx
		}
	}

	var acc runtime.Value
	start := 0
	if len(args) > 1 {
		acc = args[1]
	} else {
		if arr.Length() == 0 {
			return nil, ierr.NewTypeErrorf("reduce of empty array with no initial value")
		}
		acc = arr.Get(indices[0])
		start = 1
	}
	for _, idx := range indices[start:] {
		v, err := i.callValue(ctx, fn, runtime.Undefined,
			[]runtime.Value{acc, arr.Get(idx), runtime.Number(float64(idx)), arr})
		if err != nil {
			return nil, err
		}
		acc = v
	}
	return acc, nil
}

// sortArray implements sort and toSorted. Sorting is stable with respect
// to equal keys; the default order is lexicographic on string forms.
func (i *Interpreter) sortArray(ctx *execCtx, arr *runtime.ArrayValue, args []runtime.Value, inPlace bool) (runtime.Value, error) {
	elements := arr.Elements
	if !inPlace {
		elements = append([]runtime.Value{}, arr.Elements...)
	}

	var sortErr error
	comparator := arg(args, 0)
	less := func(a, b runtime.Value) bool {
		if sortErr != nil {
			return false
		}
		if runtime.IsCallable(comparator) {
			v, err := i.callValue(ctx, comparator, runtime.Undefined, []runtime.Value{a, b})
			if err != nil {
				sortErr = err
				return false
			}
			return runtime.ToNumber(v) < 0
		}
		return a.String() < b.String()
	}
	sort.SliceStable(elements, func(a, b int) bool {
		return less(elements[a], elements[b])
	})
	if sortErr != nil {
		return nil, sortErr
	}
	if inPlace {
		arr.Elements = elements
		return arr, nil
	}
	return runtime.NewArray(elements), nil
}
