package runtime

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in  float64
		out string
	}{
		{5, "5"},
		{-3, "-3"},
		{2.5, "2.5"},
		{0, "0"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{1e21, "1e+21"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.out {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.out)
		}
	}
}

func TestTruthiness(t *testing.T) {
	falsy := []Value{Undefined, Null, False, Number(0), Number(math.NaN()), NewString("")}
	for _, v := range falsy {
		if ToBoolean(v) {
			t.Errorf("expected %s to be falsy", v.String())
		}
	}
	truthy := []Value{True, Number(1), Number(-1), NewString("0"), NewArray(nil), NewObject()}
	for _, v := range truthy {
		if !ToBoolean(v) {
			t.Errorf("expected %s to be truthy", v.String())
		}
	}
}

func TestToNumberCoercion(t *testing.T) {
	tests := []struct {
		in   Value
		want float64
	}{
		{Undefined, math.NaN()},
		{Null, 0},
		{True, 1},
		{False, 0},
		{NewString("42"), 42},
		{NewString("  3.5  "), 3.5},
		{NewString(""), 0},
		{NewString("0x10"), 16},
		{NewString("junk"), math.NaN()},
		{NewArray(nil), 0},
		{NewArray([]Value{Number(7)}), 7},
		{NewArray([]Value{Number(1), Number(2)}), math.NaN()},
	}
	for _, tt := range tests {
		got := ToNumber(tt.in)
		if math.IsNaN(tt.want) {
			if !math.IsNaN(got) {
				t.Errorf("ToNumber(%s) = %v, want NaN", tt.in.String(), got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ToNumber(%s) = %v, want %v", tt.in.String(), got, tt.want)
		}
	}
}

func TestInt32Conversions(t *testing.T) {
	if got := ToInt32(Number(math.Pow(2, 32) + 5)); got != 5 {
		t.Errorf("ToInt32(2^32+5) = %d, want 5", got)
	}
	if got := ToInt32(Number(-1)); got != -1 {
		t.Errorf("ToInt32(-1) = %d, want -1", got)
	}
	if got := ToUint32(Number(-1)); got != math.MaxUint32 {
		t.Errorf("ToUint32(-1) = %d, want %d", got, uint32(math.MaxUint32))
	}
	if got := ToInt32(Number(math.NaN())); got != 0 {
		t.Errorf("ToInt32(NaN) = %d, want 0", got)
	}
}

func TestStrictEquals(t *testing.T) {
	if !StrictEquals(Number(1), Number(1)) {
		t.Error("1 === 1")
	}
	if StrictEquals(Number(1), NewString("1")) {
		t.Error("1 !== '1'")
	}
	if StrictEquals(Number(math.NaN()), Number(math.NaN())) {
		t.Error("NaN !== NaN")
	}
	a := NewObject()
	b := NewObject()
	if StrictEquals(a, b) {
		t.Error("distinct objects are not strictly equal")
	}
	if !StrictEquals(a, a) {
		t.Error("object identity")
	}
}

func TestLooseEquals(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{Number(1), NewString("1"), true},
		{Null, Undefined, true},
		{Null, Number(0), false},
		{True, Number(1), true},
		{False, NewString(""), true},
		{NewArray(nil), Number(0), true},
		{NewString("a"), NewString("b"), false},
	}
	for _, tt := range cases {
		if got := LooseEquals(tt.a, tt.b); got != tt.want {
			t.Errorf("LooseEquals(%s, %s) = %v, want %v", tt.a.String(), tt.b.String(), got, tt.want)
		}
	}
}

func TestEnvironmentDeclarationRules(t *testing.T) {
	env := NewEnvironment()
	if err := env.Declare("x", BindLet, Number(1)); err != nil {
		t.Fatal(err)
	}
	if err := env.Declare("x", BindLet, Number(2)); err != ErrRedeclared {
		t.Errorf("expected ErrRedeclared, got %v", err)
	}
	if err := env.Declare("v", BindVar, Number(1)); err != nil {
		t.Fatal(err)
	}
	if err := env.Declare("v", BindVar, Number(2)); err != nil {
		t.Errorf("var redeclaration should overwrite, got %v", err)
	}

	if err := env.Declare("c", BindConst, Number(1)); err != nil {
		t.Fatal(err)
	}
	if err := env.Assign("c", Number(2)); err != ErrConstAssign {
		t.Errorf("expected ErrConstAssign, got %v", err)
	}
	if err := env.Assign("ghost", Number(1)); err != ErrNotDeclared {
		t.Errorf("expected ErrNotDeclared, got %v", err)
	}
}

func TestEnvironmentShadowingAndAssignment(t *testing.T) {
	outer := NewEnvironment()
	_ = outer.Declare("n", BindLet, Number(1))
	inner := NewEnclosedEnvironment(outer)
	_ = inner.Declare("n", BindLet, Number(2))

	v, err := inner.Get("n")
	if err != nil || v.(*NumberValue).Value != 2 {
		t.Errorf("inner lookup should see the shadow, got %v (%v)", v, err)
	}
	v, _ = outer.Get("n")
	if v.(*NumberValue).Value != 1 {
		t.Error("outer binding should be untouched")
	}

	// assignment walks to the declaring scope
	grandchild := NewEnclosedEnvironment(inner)
	if err := grandchild.Assign("n", Number(9)); err != nil {
		t.Fatal(err)
	}
	v, _ = inner.Get("n")
	if v.(*NumberValue).Value != 9 {
		t.Error("assignment should update the nearest declaration")
	}
}

func TestTemporalDeadZone(t *testing.T) {
	env := NewEnvironment()
	if err := env.DeclareUninitialized("later", BindLet); err != nil {
		t.Fatal(err)
	}
	if _, err := env.Get("later"); err != ErrUninitialized {
		t.Errorf("expected ErrUninitialized, got %v", err)
	}
	env.Initialize("later", Number(3))
	v, err := env.Get("later")
	if err != nil || v.(*NumberValue).Value != 3 {
		t.Errorf("initialized binding unreadable: %v (%v)", v, err)
	}
}

func TestClearUserBindings(t *testing.T) {
	env := NewEnvironment()
	_ = env.Declare("builtin", BindGlobal, Number(1))
	_ = env.Declare("user", BindLet, Number(2))
	env.ClearUserBindings()
	if env.Has("user") {
		t.Error("user binding should be cleared")
	}
	if !env.Has("builtin") {
		t.Error("global binding should survive")
	}
}

func TestObjectInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("z", Number(1))
	o.Set("a", Number(2))
	o.Set("m", Number(3))
	o.Set("z", Number(9)) // overwrite keeps position

	keys := o.Keys()
	if len(keys) != 3 || keys[0] != "z" || keys[1] != "a" || keys[2] != "m" {
		t.Errorf("unexpected key order: %v", keys)
	}

	o.Delete("a")
	keys = o.Keys()
	if len(keys) != 2 || keys[0] != "z" || keys[1] != "m" {
		t.Errorf("unexpected key order after delete: %v", keys)
	}
}

func TestControlFlowSaveRestore(t *testing.T) {
	cf := NewControlFlow()
	cf.SetReturn(Number(1))
	saved := cf.Save()
	if cf.IsActive() {
		t.Error("Save should clear the live signal")
	}

	// no new signal: the saved one comes back
	cf.Restore(saved)
	if !cf.IsReturn() || cf.ReturnValue().(*NumberValue).Value != 1 {
		t.Error("Restore should reinstate the saved return")
	}

	// a new signal wins over the saved one
	cf.Clear()
	cf.SetReturn(Number(1))
	saved = cf.Save()
	cf.SetBreak("")
	cf.Restore(saved)
	if !cf.IsBreak() {
		t.Error("an active signal must override the saved one")
	}
}
