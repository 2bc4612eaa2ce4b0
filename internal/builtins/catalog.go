// Package builtins provides the preset catalog of globals exposed to the
// sandbox. Presets select which native namespaces are installed; every
// exposure goes through the security boundary.
package builtins

import (
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
)

// Preset selects the built-in surface by language era.
type Preset string

const (
	ES5    Preset = "ES5"
	ES2015 Preset = "ES2015"
	ES2017 Preset = "ES2017"
	ES2020 Preset = "ES2020"
	ES2024 Preset = "ES2024"
)

// atLeast reports whether the preset includes the given era.
func (p Preset) atLeast(min Preset) bool {
	order := map[Preset]int{ES5: 0, ES2015: 1, ES2017: 2, ES2020: 3, ES2024: 4}
	pi, ok := order[p]
	if !ok {
		pi = order[ES2024]
	}
	return pi >= order[min]
}

// Install defines the preset's globals into env. Bindings use the global
// kind so ClearGlobals leaves them in place.
func Install(env *runtime.Environment, b *sandbox.Boundary, preset Preset) {
	define := func(name string, v runtime.Value) {
		_ = env.Declare(name, runtime.BindGlobal, v)
	}

	// ES5 core surface.
	define("Math", mathNamespace(b))
	define("JSON", jsonNamespace(b))
	define("Object", objectNamespace(b))
	define("Array", arrayNamespace(b))
	define("Number", numberNamespace(b))
	define("String", stringNamespace(b))
	define("Boolean", booleanConversion())
	define("Date", dateConstructor(b))
	define("RegExp", regexpConstructor(b))
	define("parseInt", parseIntFunc())
	define("parseFloat", parseFloatFunc())
	define("isNaN", isNaNFunc())
	define("isFinite", isFiniteFunc())
	define("NaN", runtime.Number(nan()))
	define("Infinity", runtime.Number(inf()))
	for name, ctor := range errorConstructors() {
		define(name, ctor)
	}

	if preset.atLeast(ES2015) {
		define("Map", mapConstructor(b))
		define("Set", setConstructor(b))
		define("Promise", promiseNamespace(b))
		define("Symbol", symbolNamespace())
	}
}
