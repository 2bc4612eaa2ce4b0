package interp

import (
	"testing"
)

func TestArrayDestructuring(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"let [a, b] = [1, 2]; a + b", 3.0},
		{"let [a, , c] = [1, 2, 3]; a + c", 4.0},
		{"let [a = 10, b = 20] = [1]; a + b", 21.0},
		{"let [a, ...r] = [1, 2, 3, 4]; r.join(',')", "2,3,4"},
		{"let [a, ...r] = [1]; r.length", 0.0},
		{"let [[x], [y]] = [[1], [2]]; x + y", 3.0},
		{"let [c1, c2] = 'hi'; c1 + c2", "hi"},
		{"let x = 0; let y = 0; [x, y] = [5, 6]; x * 10 + y", 56.0},
		{"let p = [1, 2]; let [a, b] = p; [b, a] = [a, b]; a", 2.0},
	}
	for _, tt := range tests {
		got := testEval(t, tt.input)
		switch want := tt.expected.(type) {
		case float64:
			testNumber(t, got, want)
		case string:
			testString(t, got, want)
		}
	}
}

func TestObjectDestructuring(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"let {x, y} = {x: 1, y: 2}; x + y", 3.0},
		{"let {x: a} = {x: 7}; a", 7.0},
		{"let {q = 9} = {}; q", 9.0},
		{"let {a, b = a * 2} = {a: 3}; b", 6.0},
		{"let {p: {deep}} = {p: {deep: 5}}; deep", 5.0},
		{"let {x, ...rest} = {x: 1, y: 2, z: 3}; rest.y + rest.z", 5.0},
		{"let {x, ...rest} = {x: 1, y: 2, z: 3}; Object.keys(rest).join(',')", "y,z"},
		{"function f({x, y = 10}) { return x + y; } f({x: 5})", 15.0},
	}
	for _, tt := range tests {
		got := testEval(t, tt.input)
		switch want := tt.expected.(type) {
		case float64:
			testNumber(t, got, want)
		case string:
			testString(t, got, want)
		}
	}
}

func TestParamsDefaultsAndRest(t *testing.T) {
	testNumber(t, testEval(t, "function f(a, b = 2) { return a + b; } f(1)"), 3)
	testNumber(t, testEval(t, "function f(a, b = 2) { return a + b; } f(1, 5)"), 6)
	testNumber(t, testEval(t, "function f(...nums) { return nums.length; } f(1, 2, 3)"), 3)
	testNumber(t, testEval(t,
		"function f(first, ...rest) { return rest.reduce((a, b) => a + b, first); } f(1, 2, 3, 4)"), 10)
	testNumber(t, testEval(t, "let g = ([a, b], {k}) => a + b + k; g([1, 2], {k: 3})"), 6)
}

func TestSpread(t *testing.T) {
	testString(t, testEval(t, "let a = [2, 3]; [1, ...a, 4].join('')"), "1234")
	testString(t, testEval(t, "[...'abc'].join('-')"), "a-b-c")
	testNumber(t, testEval(t, "let o = {a: 1}; let m = {...o, b: 2}; m.a + m.b"), 3)
	testNumber(t, testEval(t, "function add3(a, b, c) { return a + b + c; } add3(...[1, 2, 3])"), 6)
	// later spread entries win
	testNumber(t, testEval(t, "let base = {v: 1}; ({...base, v: 9}).v"), 9)
}

func TestSpreadTypeErrors(t *testing.T) {
	ip := New()
	// object spread rejects arrays
	requireErrKind(t, ip, "let o = {...[1, 2]}", "Type")
	ip.ClearGlobals()
	// call spread rejects non-arrays
	requireErrKind(t, ip, "function f(x) { return x; } f(...5)", "Type")
	ip.ClearGlobals()
	// array spread rejects non-iterables
	requireErrKind(t, ip, "[...5]", "Type")
}

func TestForOfDestructuring(t *testing.T) {
	testNumber(t, testEval(t, `
		let total = 0;
		for (const [k, v] of [['a', 1], ['b', 2]]) {
			total += v;
		}
		total
	`), 3)

	testString(t, testEval(t, `
		let out = [];
		for (const {name} of [{name: 'x'}, {name: 'y'}]) {
			out.push(name);
		}
		out.join('')
	`), "xy")
}
