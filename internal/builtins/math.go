package builtins

import (
	"math"
	"math/rand"

	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
)

func nan() float64 { return math.NaN() }
func inf() float64 { return math.Inf(1) }

// mathNamespace builds the Math global: constants as own keys, functions
// as host callables, all behind the read-only proxy.
func mathNamespace(b *sandbox.Boundary) runtime.Value {
	ns := map[string]any{
		"PI":      math.Pi,
		"E":       math.E,
		"LN2":     math.Ln2,
		"LN10":    math.Log(10),
		"LOG2E":   1 / math.Ln2,
		"LOG10E":  1 / math.Log(10),
		"SQRT2":   math.Sqrt2,
		"SQRT1_2": math.Sqrt(0.5),

		"abs":    math.Abs,
		"floor":  math.Floor,
		"ceil":   math.Ceil,
		"sqrt":   math.Sqrt,
		"cbrt":   math.Cbrt,
		"exp":    math.Exp,
		"log":    math.Log,
		"log2":   math.Log2,
		"log10":  math.Log10,
		"sin":    math.Sin,
		"cos":    math.Cos,
		"tan":    math.Tan,
		"asin":   math.Asin,
		"acos":   math.Acos,
		"atan":   math.Atan,
		"atan2":  math.Atan2,
		"sinh":   math.Sinh,
		"cosh":   math.Cosh,
		"tanh":   math.Tanh,
		"pow":    math.Pow,
		"hypot":  func(a, b float64) float64 { return math.Hypot(a, b) },
		"random": func() float64 { return rand.Float64() },
		"round": func(x float64) float64 {
			// ECMAScript rounds halves toward positive infinity.
			return math.Floor(x + 0.5)
		},
		"trunc": math.Trunc,
		"sign": func(x float64) float64 {
			switch {
			case math.IsNaN(x):
				return math.NaN()
			case x > 0:
				return 1
			case x < 0:
				return -1
			default:
				return x // preserves signed zero
			}
		},
		"min": func(args ...float64) float64 {
			if len(args) == 0 {
				return math.Inf(1)
			}
			m := args[0]
			for _, a := range args[1:] {
				if math.IsNaN(a) {
					return math.NaN()
				}
				m = math.Min(m, a)
			}
			return m
		},
		"max": func(args ...float64) float64 {
			if len(args) == 0 {
				return math.Inf(-1)
			}
			m := args[0]
			for _, a := range args[1:] {
				if math.IsNaN(a) {
					return math.NaN()
				}
				m = math.Max(m, a)
			}
			return m
		},
	}
	return runtime.NewHostValue(ns, "Math")
}
