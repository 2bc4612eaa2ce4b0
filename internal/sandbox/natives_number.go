package sandbox

import (
	"math"
	"strconv"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
)

// NumberMethod resolves a delegated native method on a number receiver.
// Only the methods in the (kind=number, name) table resolve; the same
// names accessed on sandbox objects stay rejected by the gate.
func (b *Boundary) NumberMethod(recv float64, name string) (runtime.Value, bool) {
	fn, ok := numberMethods[name]
	if !ok {
		return nil, false
	}
	return &runtime.HostFunctionValue{
		Name: name,
		Kind: runtime.HostMethod,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			return fn(recv, args)
		},
	}, true
}

type numberMethodFn func(recv float64, args []runtime.Value) (runtime.Value, error)

var numberMethods = map[string]numberMethodFn{
	"toFixed": func(recv float64, args []runtime.Value) (runtime.Value, error) {
		digits := intArg(args, 0, 0)
		if digits < 0 || digits > 100 {
			return nil, ierr.NewTypeErrorf("toFixed() digits argument must be between 0 and 100")
		}
		return runtime.NewString(strconv.FormatFloat(recv, 'f', digits, 64)), nil
	},
	"toString": func(recv float64, args []runtime.Value) (runtime.Value, error) {
		radix := intArg(args, 0, 10)
		if radix == 10 {
			return runtime.NewString(runtime.FormatNumber(recv)), nil
		}
		if radix < 2 || radix > 36 {
			return nil, ierr.NewTypeErrorf("toString() radix must be between 2 and 36")
		}
		if recv != math.Trunc(recv) || math.IsNaN(recv) || math.IsInf(recv, 0) {
			return runtime.NewString(runtime.FormatNumber(recv)), nil
		}
		n := int64(recv)
		negative := n < 0
		if negative {
			n = -n
		}
		s := strconv.FormatInt(n, radix)
		if negative {
			s = "-" + s
		}
		return runtime.NewString(s), nil
	},
	"toPrecision": func(recv float64, args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 || runtime.IsNullish(args[0]) {
			return runtime.NewString(runtime.FormatNumber(recv)), nil
		}
		precision := intArg(args, 0, 6)
		if precision < 1 || precision > 100 {
			return nil, ierr.NewTypeErrorf("toPrecision() argument must be between 1 and 100")
		}
		return runtime.NewString(strconv.FormatFloat(recv, 'g', precision, 64)), nil
	},
}
