package sandbox

import (
	"errors"
	"testing"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
)

func newTestBoundary() *Boundary {
	b := NewBoundary(true)
	b.Call = func(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
		return runtime.Undefined, nil
	}
	return b
}

func TestPropertyGate(t *testing.T) {
	for _, name := range []string{"__proto__", "constructor", "prototype", "valueOf", "toString", "call", "apply", "bind"} {
		if err := CheckProperty(name); err == nil {
			t.Errorf("expected %q to be gated", name)
		} else if !ierr.IsKind(err, ierr.KindSecurity) {
			t.Errorf("expected Security kind for %q, got %v", name, err)
		}
	}
	for _, name := range []string{"length", "description", "x", "value", "name"} {
		if err := CheckProperty(name); err != nil {
			t.Errorf("did not expect %q to be gated: %v", name, err)
		}
	}
}

func TestToSandboxPrimitives(t *testing.T) {
	b := newTestBoundary()
	if v := b.ToSandbox(nil, ""); v != runtime.Null {
		t.Errorf("nil should wrap to null, got %v", v)
	}
	if v := b.ToSandbox(3, "").(*runtime.NumberValue); v.Value != 3 {
		t.Errorf("int should wrap to number, got %v", v)
	}
	if v := b.ToSandbox("s", "").(*runtime.StringValue); v.Value != "s" {
		t.Errorf("string passthrough failed: %v", v)
	}
	if v := b.ToSandbox(true, ""); v != runtime.True {
		t.Errorf("bool passthrough failed: %v", v)
	}
}

func TestHostProxyReads(t *testing.T) {
	b := newTestBoundary()
	host := runtime.NewHostValue(map[string]any{
		"scalar": 1.5,
		"nested": map[string]any{"deep": "v"},
		"list":   []any{1, 2, 3},
	}, "cfg")

	v, err := b.HostGet(host, "scalar")
	if err != nil || v.(*runtime.NumberValue).Value != 1.5 {
		t.Fatalf("scalar read failed: %v (%v)", v, err)
	}

	nested, err := b.HostGet(host, "nested")
	if err != nil {
		t.Fatal(err)
	}
	proxied, ok := nested.(*runtime.HostValue)
	if !ok {
		t.Fatalf("expected nested proxy, got %T", nested)
	}
	if proxied.Path != "cfg.nested" {
		t.Errorf("expected display path cfg.nested, got %q", proxied.Path)
	}

	if _, err := b.HostGet(host, "missing"); !ierr.IsKind(err, ierr.KindSecurity) {
		t.Errorf("missing key should fail closed, got %v", err)
	}
	if _, err := b.HostGet(host, "__proto__"); !ierr.IsKind(err, ierr.KindSecurity) {
		t.Errorf("gate should fire on host reads, got %v", err)
	}
}

func TestHostProxyDeniesMutation(t *testing.T) {
	b := newTestBoundary()
	host := runtime.NewHostValue(map[string]any{"k": 1}, "cfg")
	if err := b.HostSet(host, "k"); !ierr.IsKind(err, ierr.KindSecurity) {
		t.Errorf("writes must fail Security, got %v", err)
	}
	if err := b.HostDelete(host, "k"); !ierr.IsKind(err, ierr.KindSecurity) {
		t.Errorf("deletes must fail Security, got %v", err)
	}
}

func TestHostStructFields(t *testing.T) {
	type server struct {
		Host string
		Port int
	}
	b := newTestBoundary()
	hv := runtime.NewHostValue(server{Host: "h", Port: 80}, "srv")

	// idiomatic Go casing tolerated for lowercase names
	v, err := b.HostGet(hv, "host")
	if err != nil || v.(*runtime.StringValue).Value != "h" {
		t.Fatalf("field read failed: %v (%v)", v, err)
	}
	keys := b.HostKeys(hv)
	if len(keys) != 2 {
		t.Errorf("expected 2 exported fields, got %v", keys)
	}
}

func TestHostFunctionWrapping(t *testing.T) {
	b := newTestBoundary()
	fn := b.WrapHostFunction("add", func(a, bb float64) float64 { return a + bb })
	v, err := fn.Fn([]runtime.Value{runtime.Number(2), runtime.Number(3)})
	if err != nil || v.(*runtime.NumberValue).Value != 5 {
		t.Fatalf("wrapped call failed: %v (%v)", v, err)
	}

	// missing args zero-fill
	v, err = fn.Fn([]runtime.Value{runtime.Number(2)})
	if err != nil || v.(*runtime.NumberValue).Value != 2 {
		t.Fatalf("zero-fill failed: %v (%v)", v, err)
	}
}

func TestHostErrorTranslation(t *testing.T) {
	cause := errors.New("secret detail")

	hidden := newTestBoundary()
	fn := hidden.WrapHostFunction("boom", func() error { return cause })
	_, err := fn.Fn(nil)
	ie, ok := err.(*ierr.InterpreterError)
	if !ok || ie.Kind != ierr.KindHostCall {
		t.Fatalf("expected HostCall error, got %v", err)
	}
	if ie.Message == cause.Error() {
		t.Error("message should be redacted by default")
	}

	shown := NewBoundary(false)
	fn = shown.WrapHostFunction("boom", func() error { return cause })
	_, err = fn.Fn(nil)
	if ie := err.(*ierr.InterpreterError); ie.Message != cause.Error() {
		t.Errorf("expected original message, got %q", ie.Message)
	}
}

func TestHostPanicBecomesHostCallError(t *testing.T) {
	b := newTestBoundary()
	fn := b.WrapHostFunction("panics", func() { panic("kaboom") })
	_, err := fn.Fn(nil)
	if !ierr.IsKind(err, ierr.KindHostCall) {
		t.Fatalf("expected HostCall error from panic, got %v", err)
	}
}

func TestDeepCopyAtBoundary(t *testing.T) {
	b := newTestBoundary()
	obj := runtime.NewObject()
	obj.Set("k", runtime.Number(1))
	arr := runtime.NewArray([]runtime.Value{runtime.NewString("x"), obj})

	host := b.ToHost(arr).([]any)
	if host[0] != "x" {
		t.Errorf("expected scalar copy, got %v", host[0])
	}
	inner, ok := host[1].(map[string]any)
	if !ok || inner["k"] != 1.0 {
		t.Errorf("expected deep-copied object, got %v", host[1])
	}

	// mutating the host copy does not touch the sandbox value
	inner["k"] = 99.0
	if v, _ := obj.Get("k"); v.(*runtime.NumberValue).Value != 1 {
		t.Error("boundary copy must not alias sandbox state")
	}
}

func TestStringMethodTable(t *testing.T) {
	b := newTestBoundary()
	method, ok := b.StringMethod("héllo", "toUpperCase")
	if !ok {
		t.Fatal("toUpperCase should resolve")
	}
	v, err := method.(*runtime.HostFunctionValue).Fn(nil)
	if err != nil || v.(*runtime.StringValue).Value != "HÉLLO" {
		t.Fatalf("toUpperCase failed: %v (%v)", v, err)
	}

	if _, ok := b.StringMethod("x", "notAMethod"); ok {
		t.Error("unknown names must not resolve")
	}
	if _, ok := b.StringMethod("x", "toString"); ok {
		t.Error("toString is not in the string delegation table")
	}
}

func TestRegExpTranslation(t *testing.T) {
	re, err := CompileRegExp("a(b+)c", "i")
	if err != nil {
		t.Fatal(err)
	}
	if !re.Test("xABBBcy") {
		t.Error("case-insensitive flag lost")
	}
	m := re.Exec("abbc")
	if len(m) != 2 || m[1] != "bb" {
		t.Errorf("unexpected groups: %v", m)
	}

	global, _ := CompileRegExp("\\d", "g")
	if got := global.Replace("a1b2", "#"); got != "a#b#" {
		t.Errorf("global replace failed: %q", got)
	}
	single, _ := CompileRegExp("\\d", "")
	if got := single.Replace("a1b2", "#"); got != "a#b2" {
		t.Errorf("non-global replace failed: %q", got)
	}

	if _, err := CompileRegExp("(?<=look)behind", ""); err == nil {
		t.Error("expected unsupported syntax to fail compilation")
	}
}
