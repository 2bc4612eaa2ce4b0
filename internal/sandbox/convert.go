package sandbox

import (
	"fmt"
	"math"
	"reflect"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
)

// Caller re-enters the evaluator to invoke a sandbox function. The
// boundary needs it to wrap sandbox callbacks handed to host functions.
type Caller func(fn runtime.Value, args []runtime.Value) (runtime.Value, error)

// Boundary mediates every crossing between sandbox and host. One boundary
// belongs to one interpreter; it carries the evaluator re-entry hook and
// the error redaction policy.
type Boundary struct {
	// HideHostErrors redacts host error messages (kind is preserved).
	HideHostErrors bool
	// Call re-enters the evaluator for sandbox callbacks.
	Call Caller
}

// NewBoundary creates a boundary with the given redaction policy. The
// caller hook is wired by the interpreter after construction.
func NewBoundary(hideHostErrors bool) *Boundary {
	return &Boundary{HideHostErrors: hideHostErrors}
}

// ToSandbox wraps a host value for the sandbox. Primitives pass through by
// value; functions become host callables; everything else becomes a
// read-only proxy carrying its display path.
func (b *Boundary) ToSandbox(native any, path string) runtime.Value {
	switch v := native.(type) {
	case nil:
		return runtime.Null
	case runtime.Value:
		return v
	case bool:
		return runtime.Boolean(v)
	case string:
		return runtime.NewString(v)
	case float64:
		return runtime.Number(v)
	case float32:
		return runtime.Number(float64(v))
	case int:
		return runtime.Number(float64(v))
	case int8:
		return runtime.Number(float64(v))
	case int16:
		return runtime.Number(float64(v))
	case int32:
		return runtime.Number(float64(v))
	case int64:
		return runtime.Number(float64(v))
	case uint:
		return runtime.Number(float64(v))
	case uint8:
		return runtime.Number(float64(v))
	case uint16:
		return runtime.Number(float64(v))
	case uint32:
		return runtime.Number(float64(v))
	case uint64:
		return runtime.Number(float64(v))
	case error:
		return runtime.NewErrorValue("Error", v.Error())
	}

	rv := reflect.ValueOf(native)
	if rv.Kind() == reflect.Func {
		return b.WrapHostFunction(path, native)
	}
	return runtime.NewHostValue(native, path)
}

// ToHost converts a sandbox value for a host consumer. Arrays and objects
// are deep-copied to fresh host containers (own enumerable keys only);
// sandbox functions become thunks that re-enter the evaluator; host
// handles unwrap to their native value.
func (b *Boundary) ToHost(v runtime.Value) any {
	switch val := v.(type) {
	case nil, *runtime.UndefinedValue:
		return nil
	case *runtime.NullValue:
		return nil
	case *runtime.BooleanValue:
		return val.Value
	case *runtime.NumberValue:
		return val.Value
	case *runtime.StringValue:
		return val.Value
	case *runtime.ArrayValue:
		out := make([]any, len(val.Elements))
		for i := range val.Elements {
			out[i] = b.ToHost(val.Get(i))
		}
		return out
	case *runtime.ObjectValue:
		out := make(map[string]any, val.Len())
		for _, k := range val.Keys() {
			if prop, ok := val.GetProperty(k); ok && !prop.IsAccessor() {
				out[k] = b.ToHost(prop.Value)
			}
		}
		return out
	case *runtime.ErrorValue:
		return fmt.Errorf("%s", val.String())
	case *runtime.HostValue:
		return val.Native
	case *runtime.FunctionValue, *runtime.BoundMethodValue:
		fn := v
		return func(args ...any) (any, error) {
			converted := make([]runtime.Value, len(args))
			for i, a := range args {
				converted[i] = b.ToSandbox(a, "")
			}
			result, err := b.Call(fn, converted)
			if err != nil {
				return nil, err
			}
			return b.ToHost(result), nil
		}
	case *runtime.HostFunctionValue:
		return val.Fn
	case *runtime.PromiseValue:
		return val
	default:
		return v.String()
	}
}

// toReflectArg converts a sandbox value into the Go type a host function
// parameter expects.
func (b *Boundary) toReflectArg(v runtime.Value, target reflect.Type) (reflect.Value, error) {
	// Pass sandbox values through untouched when the host asks for them.
	if target == reflect.TypeOf((*runtime.Value)(nil)).Elem() {
		return reflect.ValueOf(v), nil
	}

	host := b.ToHost(v)
	if host == nil {
		return reflect.Zero(target), nil
	}
	hv := reflect.ValueOf(host)
	if hv.Type().AssignableTo(target) {
		return hv, nil
	}
	if hv.Type().ConvertibleTo(target) {
		switch target.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64, reflect.String, reflect.Bool:
			return hv.Convert(target), nil
		}
	}
	if target.Kind() == reflect.Interface && target.NumMethod() == 0 {
		return hv, nil
	}
	return reflect.Value{}, ierr.NewTypeErrorf("cannot pass %s where host expects %s", v.Type(), target.String())
}

// numberArg coerces a native method argument to float64.
func numberArg(args []runtime.Value, i int) float64 {
	if i >= len(args) {
		return math.NaN()
	}
	return runtime.ToNumber(args[i])
}

// intArg coerces a native method argument to int with a default.
func intArg(args []runtime.Value, i, def int) int {
	if i >= len(args) {
		return def
	}
	if _, ok := args[i].(*runtime.UndefinedValue); ok {
		return def
	}
	return runtime.ToInteger(args[i])
}

// stringArg coerces a native method argument to string.
func stringArg(args []runtime.Value, i int) string {
	if i >= len(args) {
		return "undefined"
	}
	return args[i].String()
}
