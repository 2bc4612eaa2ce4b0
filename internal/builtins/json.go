package builtins

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
	"github.com/cwbudde/go-sandjs/internal/sandbox"
)

// jsonNamespace builds the JSON global. Parsing walks a gjson document
// into sandbox values; stringify walks sandbox values directly (insertion
// order preserved) and delegates indentation to tidwall/pretty.
func jsonNamespace(b *sandbox.Boundary) runtime.Value {
	ns := map[string]any{
		"parse": &runtime.HostFunctionValue{
			Name: "parse",
			Fn: func(args []runtime.Value) (runtime.Value, error) {
				if len(args) == 0 {
					return nil, ierr.NewSyntaxErrorf("JSON.parse: unexpected end of input")
				}
				text := args[0].String()
				if !gjson.Valid(text) {
					return nil, ierr.NewSyntaxErrorf("JSON.parse: invalid JSON")
				}
				return jsonToSandbox(gjson.Parse(text)), nil
			},
		},
		"stringify": &runtime.HostFunctionValue{
			Name: "stringify",
			Fn: func(args []runtime.Value) (runtime.Value, error) {
				if len(args) == 0 {
					return runtime.Undefined, nil
				}
				encoded, ok := encodeJSON(args[0])
				if !ok {
					return runtime.Undefined, nil
				}
				if len(args) >= 3 && !runtime.IsNullish(args[2]) {
					indent := indentArg(args[2])
					if indent != "" {
						opts := &pretty.Options{Indent: indent, SortKeys: false, Width: 1}
						encoded = strings.TrimRight(string(pretty.PrettyOptions([]byte(encoded), opts)), "\n")
					}
				}
				return runtime.NewString(encoded), nil
			},
		},
	}
	return runtime.NewHostValue(ns, "JSON")
}

// jsonToSandbox converts one gjson node into a sandbox value, preserving
// document order for object keys.
func jsonToSandbox(r gjson.Result) runtime.Value {
	switch r.Type {
	case gjson.Null:
		return runtime.Null
	case gjson.True:
		return runtime.True
	case gjson.False:
		return runtime.False
	case gjson.Number:
		return runtime.Number(r.Num)
	case gjson.String:
		return runtime.NewString(r.Str)
	default:
		if r.IsArray() {
			var elements []runtime.Value
			r.ForEach(func(_, item gjson.Result) bool {
				elements = append(elements, jsonToSandbox(item))
				return true
			})
			return runtime.NewArray(elements)
		}
		obj := runtime.NewObject()
		r.ForEach(func(key, item gjson.Result) bool {
			obj.Set(key.String(), jsonToSandbox(item))
			return true
		})
		return obj
	}
}

// encodeJSON serializes a sandbox value to compact JSON. Returns ok=false
// for values stringify drops entirely (undefined, functions).
func encodeJSON(v runtime.Value) (string, bool) {
	switch val := v.(type) {
	case *runtime.NullValue:
		return "null", true
	case *runtime.BooleanValue:
		if val.Value {
			return "true", true
		}
		return "false", true
	case *runtime.NumberValue:
		return runtime.FormatNumber(val.Value), true
	case *runtime.StringValue:
		return strconv.Quote(val.Value), true
	case *runtime.ArrayValue:
		var sb strings.Builder
		sb.WriteString("[")
		for i := 0; i < val.Length(); i++ {
			if i > 0 {
				sb.WriteString(",")
			}
			el, ok := encodeJSON(val.Get(i))
			if !ok {
				el = "null"
			}
			sb.WriteString(el)
		}
		sb.WriteString("]")
		return sb.String(), true
	case *runtime.ObjectValue:
		var sb strings.Builder
		sb.WriteString("{")
		first := true
		for _, k := range val.Keys() {
			prop, ok := val.GetProperty(k)
			if !ok || prop.IsAccessor() {
				continue
			}
			entry, keep := encodeJSON(prop.Value)
			if !keep {
				continue
			}
			if !first {
				sb.WriteString(",")
			}
			first = false
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(":")
			sb.WriteString(entry)
		}
		sb.WriteString("}")
		return sb.String(), true
	case *runtime.InstanceValue:
		return encodeJSON(val.Fields)
	case *runtime.ErrorValue:
		return "{}", true
	default:
		return "", false
	}
}

// indentArg renders the stringify space argument: a number of spaces
// (capped at 10) or a literal string.
func indentArg(v runtime.Value) string {
	if n, ok := v.(*runtime.NumberValue); ok {
		count := int(n.Value)
		if count <= 0 {
			return ""
		}
		if count > 10 {
			count = 10
		}
		return strings.Repeat(" ", count)
	}
	return v.String()
}
