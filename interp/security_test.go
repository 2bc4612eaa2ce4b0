package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ierr "github.com/cwbudde/go-sandjs/errors"
)

// requireKind asserts that evaluation fails with the given error kind.
func requireKind(t *testing.T, ip *Interpreter, src string, kind ierr.Kind) {
	t.Helper()
	_, err := ip.Evaluate(src)
	require.Error(t, err, "expected %s error for %q", kind, src)
	ie, ok := err.(*ierr.InterpreterError)
	require.True(t, ok, "expected *InterpreterError for %q, got %T: %v", src, err, err)
	assert.Equal(t, kind, ie.Kind, "wrong kind for %q: %v", src, err)
}

func TestForbiddenPropertyNames(t *testing.T) {
	forbidden := []string{
		"__proto__", "constructor", "prototype",
		"__defineGetter__", "__defineSetter__",
		"__lookupGetter__", "__lookupSetter__",
		"valueOf", "toString", "call", "apply", "bind", "toLocaleString",
	}
	ip := New()
	for _, name := range forbidden {
		// dot access
		requireKind(t, ip, "let o1 = {}; o1."+name, ierr.KindSecurity)
		// computed access
		requireKind(t, ip, `let o2 = {}; o2["`+name+`"]`, ierr.KindSecurity)
		// computed via string concatenation
		half := len(name) / 2
		requireKind(t, ip,
			`let o3 = {}; o3["`+name[:half]+`" + "`+name[half:]+`"]`, ierr.KindSecurity)
		// write
		requireKind(t, ip, `let o4 = {}; o4["`+name+`"] = 1`, ierr.KindSecurity)
		ip.ClearGlobals()
	}
}

func TestHostValuesAreReadOnly(t *testing.T) {
	newIp := func() *Interpreter {
		return New(WithGlobals(map[string]any{
			"config": map[string]any{
				"name":  "svc",
				"port":  8080,
				"flags": []any{"a", "b"},
				"inner": map[string]any{"depth": 2},
			},
		}))
	}

	ip := newIp()
	v, err := ip.Evaluate("config.name")
	require.NoError(t, err)
	assert.Equal(t, "svc", v)

	v, err = ip.Evaluate("config.inner.depth")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = ip.Evaluate("config.flags.length")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	requireKind(t, newIp(), "config.port = 9090", ierr.KindSecurity)
	requireKind(t, newIp(), "delete config.port", ierr.KindSecurity)
	requireKind(t, newIp(), "config.inner.depth = 3", ierr.KindSecurity)
	requireKind(t, newIp(), "config.flags.push('c')", ierr.KindSecurity)
	requireKind(t, newIp(), "'port' in config", ierr.KindSecurity)
	requireKind(t, newIp(), "for (let k in config) { k }", ierr.KindSecurity)
}

func TestBuiltinNamespacesAreReadOnly(t *testing.T) {
	requireKind(t, New(), "Math.PI = 3", ierr.KindSecurity)
	requireKind(t, New(), "JSON.parse = null", ierr.KindSecurity)

	v, err := New().Evaluate("Math.PI > 3.14 && Math.PI < 3.15")
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestHostFunctionInvocation(t *testing.T) {
	ip := New(WithGlobals(map[string]any{
		"double": func(x float64) float64 { return x * 2 },
		"concat": func(parts ...string) string {
			out := ""
			for _, p := range parts {
				out += p
			}
			return out
		},
		"firstKey": func(m map[string]any) string {
			for k := range m {
				return k
			}
			return ""
		},
	}))

	v, err := ip.Evaluate("double(21)")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	v, err = ip.Evaluate("concat('a', 'b', 'c')")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	// sandbox objects deep-copy to plain host maps at the boundary
	v, err = ip.Evaluate("firstKey({only: 1})")
	require.NoError(t, err)
	assert.Equal(t, "only", v)
}

func TestHostFunctionErrorRedaction(t *testing.T) {
	boom := func() error { return assert.AnError }

	hidden := New(WithGlobals(map[string]any{"boom": boom}))
	_, err := hidden.Evaluate("boom()")
	require.Error(t, err)
	ie := err.(*ierr.InterpreterError)
	assert.Equal(t, ierr.KindHostCall, ie.Kind)
	assert.NotContains(t, ie.Message, assert.AnError.Error())

	shown := New(
		WithGlobals(map[string]any{"boom": boom}),
		WithSecurity(SecurityOptions{HideHostErrorMessages: false}),
	)
	_, err = shown.Evaluate("boom()")
	require.Error(t, err)
	ie = err.(*ierr.InterpreterError)
	assert.Equal(t, ierr.KindHostCall, ie.Kind)
	assert.Contains(t, ie.Message, assert.AnError.Error())
}

func TestHostErrorsAreCatchable(t *testing.T) {
	ip := New(WithGlobals(map[string]any{
		"fail": func() error { return assert.AnError },
	}))
	v, err := ip.Evaluate("let caught = false; try { fail(); } catch (e) { caught = true; } caught")
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestSandboxCallbackIntoHost(t *testing.T) {
	// A sandbox function crossing to the host comes back as a thunk.
	ip := New(WithGlobals(map[string]any{
		"apply": func(f func(args ...any) (any, error), x float64) (any, error) {
			return f(x)
		},
	}))
	v, err := ip.Evaluate("apply(n => n + 1, 41)")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
}

func TestPerCallGlobalsOverrideAndRevert(t *testing.T) {
	ip := New(WithGlobals(map[string]any{"mode": "ctor"}))

	v, err := ip.Evaluate("mode", CallGlobals(map[string]any{"mode": "call"}))
	require.NoError(t, err)
	assert.Equal(t, "call", v)

	// the override is gone after the call
	v, err = ip.Evaluate("mode")
	require.NoError(t, err)
	assert.Equal(t, "ctor", v)

	// fresh per-call names revert to undefined
	v, err = ip.Evaluate("tmp", CallGlobals(map[string]any{"tmp": 1}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
	v, err = ip.Evaluate("typeof tmp")
	require.NoError(t, err)
	assert.Equal(t, "undefined", v)

	// user declarations made during an overridden call persist
	_, err = ip.Evaluate("let kept = 5", CallGlobals(map[string]any{"tmp": 1}))
	require.NoError(t, err)
	v, err = ip.Evaluate("kept")
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestValidatorGate(t *testing.T) {
	ip := New(WithValidator(func(p programAST) (bool, error) {
		return !containsKind(p, "WhileStatement"), nil
	}))

	requireKind(t, ip, "while (true) { break; }", ierr.KindValidation)

	v, err := ip.Evaluate("5 + 10")
	require.NoError(t, err)
	assert.Equal(t, 15.0, v)
}

func TestPerCallValidatorOverride(t *testing.T) {
	rejectAll := func(programAST) (bool, error) { return false, nil }
	acceptAll := func(programAST) (bool, error) { return true, nil }

	ip := New(WithValidator(rejectAll))
	requireKind(t, ip, "1", ierr.KindValidation)

	v, err := ip.Evaluate("1", CallValidator(acceptAll))
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}
