package sandbox

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
)

// StringMethod resolves a delegated native method on a string receiver.
// The returned callable is bound to the receiver; the method set is the
// string entry of the allow-list and nothing else resolves.
func (b *Boundary) StringMethod(recv string, name string) (runtime.Value, bool) {
	fn, ok := stringMethods[name]
	if !ok {
		return nil, false
	}
	return &runtime.HostFunctionValue{
		Name: name,
		Kind: runtime.HostMethod,
		Fn: func(args []runtime.Value) (runtime.Value, error) {
			return fn(b, recv, args)
		},
	}, true
}

type stringMethodFn func(b *Boundary, recv string, args []runtime.Value) (runtime.Value, error)

// stringMethods is the (kind=string, name) slice of the native-method
// delegation table. Indexing is rune-based throughout.
var stringMethods = map[string]stringMethodFn{
	"at": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(recv)
		idx := intArg(args, 0, 0)
		if idx < 0 {
			idx += len(runes)
		}
		if idx < 0 || idx >= len(runes) {
			return runtime.Undefined, nil
		}
		return runtime.NewString(string(runes[idx])), nil
	},
	"charAt": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(recv)
		idx := intArg(args, 0, 0)
		if idx < 0 || idx >= len(runes) {
			return runtime.NewString(""), nil
		}
		return runtime.NewString(string(runes[idx])), nil
	},
	"charCodeAt": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(recv)
		idx := intArg(args, 0, 0)
		if idx < 0 || idx >= len(runes) {
			return runtime.Number(math.NaN()), nil
		}
		return runtime.Number(float64(runes[idx])), nil
	},
	"codePointAt": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(recv)
		idx := intArg(args, 0, 0)
		if idx < 0 || idx >= len(runes) {
			return runtime.Undefined, nil
		}
		return runtime.Number(float64(runes[idx])), nil
	},
	"concat": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		var sb strings.Builder
		sb.WriteString(recv)
		for _, a := range args {
			sb.WriteString(a.String())
		}
		return runtime.NewString(sb.String()), nil
	},
	"includes": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(strings.Contains(recv, stringArg(args, 0))), nil
	},
	"indexOf": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		idx := strings.Index(recv, stringArg(args, 0))
		return runtime.Number(float64(byteToRuneIndex(recv, idx))), nil
	},
	"lastIndexOf": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		idx := strings.LastIndex(recv, stringArg(args, 0))
		return runtime.Number(float64(byteToRuneIndex(recv, idx))), nil
	},
	"slice": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(recv)
		start := resolveIndex(intArg(args, 0, 0), len(runes))
		end := resolveIndex(intArg(args, 1, len(runes)), len(runes))
		if start >= end {
			return runtime.NewString(""), nil
		}
		return runtime.NewString(string(runes[start:end])), nil
	},
	"substring": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(recv)
		start := clampNonNegative(intArg(args, 0, 0), len(runes))
		end := clampNonNegative(intArg(args, 1, len(runes)), len(runes))
		if start > end {
			start, end = end, start
		}
		return runtime.NewString(string(runes[start:end])), nil
	},
	"substr": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		runes := []rune(recv)
		start := resolveIndex(intArg(args, 0, 0), len(runes))
		length := intArg(args, 1, len(runes)-start)
		if length < 0 {
			length = 0
		}
		end := start + length
		if end > len(runes) {
			end = len(runes)
		}
		if start >= end {
			return runtime.NewString(""), nil
		}
		return runtime.NewString(string(runes[start:end])), nil
	},
	"toLowerCase": func(_ *Boundary, recv string, _ []runtime.Value) (runtime.Value, error) {
		return runtime.NewString(strings.ToLower(recv)), nil
	},
	"toUpperCase": func(_ *Boundary, recv string, _ []runtime.Value) (runtime.Value, error) {
		return runtime.NewString(strings.ToUpper(recv)), nil
	},
	"trim": func(_ *Boundary, recv string, _ []runtime.Value) (runtime.Value, error) {
		return runtime.NewString(strings.TrimSpace(recv)), nil
	},
	"trimStart": func(_ *Boundary, recv string, _ []runtime.Value) (runtime.Value, error) {
		return runtime.NewString(strings.TrimLeft(recv, " \t\n\r\v\f")), nil
	},
	"trimEnd": func(_ *Boundary, recv string, _ []runtime.Value) (runtime.Value, error) {
		return runtime.NewString(strings.TrimRight(recv, " \t\n\r\v\f")), nil
	},
	"split": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		limit := intArg(args, 1, -1)
		if len(args) == 0 || runtime.IsNullish(args[0]) {
			return runtime.NewArray([]runtime.Value{runtime.NewString(recv)}), nil
		}
		var parts []string
		if hv, ok := args[0].(*runtime.HostValue); ok {
			re, isRe := hv.Native.(*RegExp)
			if !isRe {
				return nil, ierr.NewTypeErrorf("split expects a string or RegExp separator")
			}
			parts = re.Split(recv, -1)
		} else {
			sep := args[0].String()
			if sep == "" {
				runes := []rune(recv)
				parts = make([]string, len(runes))
				for i, r := range runes {
					parts[i] = string(r)
				}
			} else {
				parts = strings.Split(recv, sep)
			}
		}
		if limit >= 0 && limit < len(parts) {
			parts = parts[:limit]
		}
		out := make([]runtime.Value, len(parts))
		for i, p := range parts {
			out[i] = runtime.NewString(p)
		}
		return runtime.NewArray(out), nil
	},
	"replace": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		repl := stringArg(args, 1)
		if hv, ok := argHostRegExp(args, 0); ok {
			return runtime.NewString(hv.Replace(recv, repl)), nil
		}
		pattern := stringArg(args, 0)
		return runtime.NewString(strings.Replace(recv, pattern, repl, 1)), nil
	},
	"replaceAll": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		repl := stringArg(args, 1)
		if re, ok := argHostRegExp(args, 0); ok {
			if !re.Global() {
				return nil, ierr.NewTypeErrorf("replaceAll requires a global RegExp")
			}
			return runtime.NewString(re.Replace(recv, repl)), nil
		}
		pattern := stringArg(args, 0)
		return runtime.NewString(strings.ReplaceAll(recv, pattern, repl)), nil
	},
	"startsWith": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(strings.HasPrefix(recv, stringArg(args, 0))), nil
	},
	"endsWith": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		return runtime.Boolean(strings.HasSuffix(recv, stringArg(args, 0))), nil
	},
	"padStart": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewString(pad(recv, args, true)), nil
	},
	"padEnd": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		return runtime.NewString(pad(recv, args, false)), nil
	},
	"repeat": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		count := intArg(args, 0, 0)
		if count < 0 {
			return nil, ierr.NewTypeErrorf("repeat count must be non-negative")
		}
		return runtime.NewString(strings.Repeat(recv, count)), nil
	},
	"search": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		re, err := regexArg(args, 0)
		if err != nil {
			return nil, err
		}
		return runtime.Number(float64(re.IndexIn(recv))), nil
	},
	"match": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		re, err := regexArg(args, 0)
		if err != nil {
			return nil, err
		}
		if re.Global() {
			all := re.FindAll(recv)
			if len(all) == 0 {
				return runtime.Null, nil
			}
			out := make([]runtime.Value, len(all))
			for i, m := range all {
				out[i] = runtime.NewString(m)
			}
			return runtime.NewArray(out), nil
		}
		m := re.Exec(recv)
		if m == nil {
			return runtime.Null, nil
		}
		out := make([]runtime.Value, len(m))
		for i, g := range m {
			out[i] = runtime.NewString(g)
		}
		return runtime.NewArray(out), nil
	},
	"matchAll": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		re, err := regexArg(args, 0)
		if err != nil {
			return nil, err
		}
		matches := re.FindAllSubmatch(recv)
		out := make([]runtime.Value, len(matches))
		for i, m := range matches {
			groups := make([]runtime.Value, len(m))
			for j, g := range m {
				groups[j] = runtime.NewString(g)
			}
			out[i] = runtime.NewArray(groups)
		}
		return runtime.NewArray(out), nil
	},
	"normalize": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		form := "NFC"
		if len(args) > 0 && !runtime.IsNullish(args[0]) {
			form = args[0].String()
		}
		switch form {
		case "NFC":
			return runtime.NewString(norm.NFC.String(recv)), nil
		case "NFD":
			return runtime.NewString(norm.NFD.String(recv)), nil
		case "NFKC":
			return runtime.NewString(norm.NFKC.String(recv)), nil
		case "NFKD":
			return runtime.NewString(norm.NFKD.String(recv)), nil
		default:
			return nil, ierr.NewTypeErrorf("invalid normalization form %q", form)
		}
	},
	"localeCompare": func(_ *Boundary, recv string, args []runtime.Value) (runtime.Value, error) {
		return runtime.Number(float64(strings.Compare(recv, stringArg(args, 0)))), nil
	},
}

func argHostRegExp(args []runtime.Value, i int) (*RegExp, bool) {
	if i >= len(args) {
		return nil, false
	}
	hv, ok := args[i].(*runtime.HostValue)
	if !ok {
		return nil, false
	}
	re, ok := hv.Native.(*RegExp)
	return re, ok
}

func pad(recv string, args []runtime.Value, atStart bool) string {
	target := intArg(args, 0, 0)
	filler := " "
	if len(args) > 1 && !runtime.IsNullish(args[1]) {
		filler = args[1].String()
	}
	runes := []rune(recv)
	if target <= len(runes) || filler == "" {
		return recv
	}
	need := target - len(runes)
	padRunes := []rune(strings.Repeat(filler, need/len([]rune(filler))+1))[:need]
	if atStart {
		return string(padRunes) + recv
	}
	return recv + string(padRunes)
}

// resolveIndex maps a possibly-negative index onto [0, n].
func resolveIndex(i, n int) int {
	if i < 0 {
		i += n
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// clampNonNegative clamps an index to [0, n] without negative wrapping.
func clampNonNegative(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// byteToRuneIndex converts a byte offset into a rune offset; -1 passes
// through for "not found".
func byteToRuneIndex(s string, byteIdx int) int {
	if byteIdx < 0 {
		return -1
	}
	return len([]rune(s[:byteIdx]))
}
