package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
)

// numberNamespace builds the callable Number global with its static
// helpers attached as namespace properties.
func numberNamespace(_ *sandbox.Boundary) runtime.Value {
	isInteger := func(v runtime.Value) bool {
		n, ok := v.(*runtime.NumberValue)
		return ok && !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0) && n.Value == math.Trunc(n.Value)
	}
	return &runtime.HostFunctionValue{
		Name: "Number",
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 {
				return runtime.Number(0), nil
			}
			return runtime.Number(runtime.ToNumber(args[0])), nil
		},
		Properties: map[string]runtime.Value{
			"isInteger": &runtime.HostFunctionValue{Name: "isInteger", Fn: func(args []runtime.Value) (runtime.Value, error) {
				return runtime.Boolean(len(args) > 0 && isInteger(args[0])), nil
			}},
			"isFinite": &runtime.HostFunctionValue{Name: "isFinite", Fn: func(args []runtime.Value) (runtime.Value, error) {
				n, ok := argNumber(args)
				return runtime.Boolean(ok && !math.IsNaN(n) && !math.IsInf(n, 0)), nil
			}},
			"isNaN": &runtime.HostFunctionValue{Name: "isNaN", Fn: func(args []runtime.Value) (runtime.Value, error) {
				n, ok := argNumber(args)
				return runtime.Boolean(ok && math.IsNaN(n)), nil
			}},
			"parseInt":   parseIntFunc(),
			"parseFloat": parseFloatFunc(),
			"MAX_SAFE_INTEGER": runtime.Number(9007199254740991),
			"MIN_SAFE_INTEGER": runtime.Number(-9007199254740991),
			"EPSILON":          runtime.Number(math.Nextafter(1, 2) - 1),
			"NaN":              runtime.Number(math.NaN()),
			"POSITIVE_INFINITY": runtime.Number(math.Inf(1)),
			"NEGATIVE_INFINITY": runtime.Number(math.Inf(-1)),
		},
	}
}

// argNumber returns the first argument when it is already a number value.
func argNumber(args []runtime.Value) (float64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	n, ok := args[0].(*runtime.NumberValue)
	if !ok {
		return 0, false
	}
	return n.Value, true
}

// stringNamespace builds the callable String global with fromCharCode and
// fromCodePoint.
func stringNamespace(_ *sandbox.Boundary) runtime.Value {
	fromCodes := &runtime.HostFunctionValue{Name: "fromCharCode", Fn: func(args []runtime.Value) (runtime.Value, error) {
		var sb strings.Builder
		for _, a := range args {
			sb.WriteRune(rune(runtime.ToInteger(a)))
		}
		return runtime.NewString(sb.String()), nil
	}}
	return &runtime.HostFunctionValue{
		Name: "String",
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 {
				return runtime.NewString(""), nil
			}
			return runtime.NewString(args[0].String()), nil
		},
		Properties: map[string]runtime.Value{
			"fromCharCode":  fromCodes,
			"fromCodePoint": fromCodes,
		},
	}
}

// booleanConversion is the callable Boolean global.
func booleanConversion() runtime.Value {
	return &runtime.HostFunctionValue{
		Name: "Boolean",
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 {
				return runtime.False, nil
			}
			return runtime.Boolean(runtime.ToBoolean(args[0])), nil
		},
	}
}

// parseIntFunc implements the global parseInt with radix support and
// leading-garbage tolerance.
func parseIntFunc() *runtime.HostFunctionValue {
	return &runtime.HostFunctionValue{
		Name: "parseInt",
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 {
				return runtime.Number(math.NaN()), nil
			}
			text := strings.TrimSpace(args[0].String())
			radix := 10
			if len(args) > 1 && !runtime.IsNullish(args[1]) {
				radix = runtime.ToInteger(args[1])
				if radix == 0 {
					radix = 10
				}
			}
			negative := false
			if strings.HasPrefix(text, "-") {
				negative = true
				text = text[1:]
			} else {
				text = strings.TrimPrefix(text, "+")
			}
			if radix == 16 || radix == 10 {
				if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
					text = text[2:]
					radix = 16
				}
			}
			end := 0
			for end < len(text) && digitValue(text[end]) < radix {
				end++
			}
			if end == 0 {
				return runtime.Number(math.NaN()), nil
			}
			n, err := strconv.ParseInt(text[:end], radix, 64)
			if err != nil {
				return runtime.Number(math.NaN()), nil
			}
			if negative {
				n = -n
			}
			return runtime.Number(float64(n)), nil
		},
	}
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}

// parseFloatFunc implements the global parseFloat with trailing-garbage
// tolerance.
func parseFloatFunc() *runtime.HostFunctionValue {
	return &runtime.HostFunctionValue{
		Name: "parseFloat",
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 {
				return runtime.Number(math.NaN()), nil
			}
			text := strings.TrimSpace(args[0].String())
			end := len(text)
			for end > 0 {
				if _, err := strconv.ParseFloat(text[:end], 64); err == nil {
					break
				}
				end--
			}
			if end == 0 {
				return runtime.Number(math.NaN()), nil
			}
			f, _ := strconv.ParseFloat(text[:end], 64)
			return runtime.Number(f), nil
		},
	}
}

// isNaNFunc implements the coercing global isNaN.
func isNaNFunc() *runtime.HostFunctionValue {
	return &runtime.HostFunctionValue{
		Name: "isNaN",
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 {
				return runtime.True, nil
			}
			return runtime.Boolean(math.IsNaN(runtime.ToNumber(args[0]))), nil
		},
	}
}

// isFiniteFunc implements the coercing global isFinite.
func isFiniteFunc() *runtime.HostFunctionValue {
	return &runtime.HostFunctionValue{
		Name: "isFinite",
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 {
				return runtime.False, nil
			}
			n := runtime.ToNumber(args[0])
			return runtime.Boolean(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
		},
	}
}
