package builtins

import (
	"github.com/cwbudde/go-sandjs/internal/runtime"
)

// errorConstructors builds Error and its subclasses. Each is callable with
// and without `new`, producing a catchable error object.
func errorConstructors() map[string]runtime.Value {
	names := []string{"Error", "TypeError", "RangeError", "SyntaxError", "ReferenceError", "EvalError"}
	out := make(map[string]runtime.Value, len(names))
	for _, name := range names {
		name := name
		make_ := func(args []runtime.Value) (runtime.Value, error) {
			message := ""
			if len(args) > 0 && !runtime.IsNullish(args[0]) {
				message = args[0].String()
			}
			return runtime.NewErrorValue(name, message), nil
		}
		out[name] = &runtime.HostFunctionValue{
			Name:      name,
			Fn:        make_,
			Construct: make_,
		}
	}
	return out
}

// symbolNamespace is the minimal Symbol surface: only `description` on
// symbol values is reachable, and the sandbox cannot mint symbols, so the
// namespace exists mostly so `typeof Symbol` behaves.
func symbolNamespace() runtime.Value {
	return &runtime.HostFunctionValue{
		Name: "Symbol",
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			description := ""
			if len(args) > 0 && !runtime.IsNullish(args[0]) {
				description = args[0].String()
			}
			return runtime.NewHostValue(&SymbolObject{Description: description}, "Symbol"), nil
		},
	}
}

// SymbolObject is the host backing of a sandbox symbol; only the
// description is observable.
type SymbolObject struct {
	Description string
}

// HostKind selects the plain-object allow-list table.
func (s *SymbolObject) HostKind() string { return "object" }
