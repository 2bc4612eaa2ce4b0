package interp

import (
	"testing"
)

func TestMathNamespace(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"Math.floor(5.9)", 5},
		{"Math.ceil(5.1)", 6},
		{"Math.abs(-3)", 3},
		{"Math.max(1, 9, 4)", 9},
		{"Math.min(1, 9, 4)", 1},
		{"Math.pow(2, 8)", 256},
		{"Math.round(2.5)", 3},
		{"Math.round(-2.5)", -2},
		{"Math.sign(-7)", -1},
		{"Math.trunc(-1.9)", -1},
		{"Math.sqrt(81)", 9},
		{"Math.hypot(3, 4)", 5},
	}
	for _, tt := range tests {
		testNumber(t, testEval(t, tt.input), tt.expected)
	}

	testBool(t, testEval(t, "let r = Math.random(); r >= 0 && r < 1"), true)
}

func TestJSONNamespace(t *testing.T) {
	testNumber(t, testEval(t, `JSON.parse('{"a": 1, "b": [2, 3]}').b[1]`), 3)
	testString(t, testEval(t, `JSON.stringify({a: 1, b: "x"})`), `{"a":1,"b":"x"}`)
	testString(t, testEval(t, `JSON.stringify([1, "two", null, true])`), `[1,"two",null,true]`)
	// insertion order survives a round trip
	testString(t, testEval(t,
		`Object.keys(JSON.parse('{"z": 1, "a": 2, "m": 3}')).join('')`), "zam")
	// nested structures
	testNumber(t, testEval(t,
		`JSON.parse(JSON.stringify({deep: {list: [1, 2, {v: 42}]}})).deep.list[2].v`), 42)
	// undefined entries drop from objects, null-fill in arrays
	testString(t, testEval(t, `JSON.stringify({a: undefined, b: 1})`), `{"b":1}`)
	testString(t, testEval(t, `JSON.stringify([undefined, 1])`), `[null,1]`)
	// indented output
	testString(t, testEval(t, `JSON.stringify({a: 1}, null, 2)`), "{\n  \"a\": 1\n}")

	requireErrKind(t, New(), `JSON.parse("{oops")`, "Syntax")
}

func TestObjectNamespace(t *testing.T) {
	testString(t, testEval(t, "Object.keys({b: 1, a: 2}).join(',')"), "b,a")
	testString(t, testEval(t, "Object.values({x: 'p', y: 'q'}).join('')"), "pq")
	testString(t, testEval(t, "Object.entries({k: 9})[0].join('=')"), "k=9")
	testNumber(t, testEval(t, "let t = {a: 1}; Object.assign(t, {b: 2}); t.a + t.b"), 3)
	testNumber(t, testEval(t, "Object.fromEntries([['v', 5]]).v"), 5)
	// Object.keys is the sanctioned way to enumerate host objects
	ip := New(WithGlobals(map[string]any{"cfg": map[string]any{"b": 1, "a": 2}}))
	v, err := ip.Evaluate("Object.keys(cfg).join(',')")
	if err != nil {
		t.Fatal(err)
	}
	testString(t, v, "a,b") // host maps enumerate sorted
}

func TestNumberAndStringNamespaces(t *testing.T) {
	testBool(t, testEval(t, "Number.isInteger(4)"), true)
	testBool(t, testEval(t, "Number.isInteger(4.5)"), false)
	testBool(t, testEval(t, "Number.isNaN(0 / 0)"), true)
	testBool(t, testEval(t, "Number.isNaN('x')"), false) // no coercion
	testBool(t, testEval(t, "isNaN('x')"), true)         // global coerces
	testNumber(t, testEval(t, "Number('12.5')"), 12.5)
	testNumber(t, testEval(t, "Number.parseInt('ff', 16)"), 255)
	testNumber(t, testEval(t, "parseInt('42px')"), 42)
	testNumber(t, testEval(t, "parseFloat('3.5rem')"), 3.5)
	testNumber(t, testEval(t, "Number.MAX_SAFE_INTEGER"), 9007199254740991)
	testString(t, testEval(t, "String(42)"), "42")
	testString(t, testEval(t, "String.fromCharCode(72, 105)"), "Hi")
	testBool(t, testEval(t, "Boolean('')"), false)
	testBool(t, testEval(t, "Boolean([])"), true)
}

func TestMapAndSet(t *testing.T) {
	testNumber(t, testEval(t, `
		let m = new Map();
		m.set('a', 1);
		m.set('b', 2);
		m.set('a', 10);
		m.get('a') + m.size
	`), 12)

	testBool(t, testEval(t, "let m = new Map([['k', 1]]); m.has('k')"), true)
	testBool(t, testEval(t, "let m = new Map(); m.set(1, 'x'); m.has('1')"), false) // keys are strict

	testNumber(t, testEval(t, `
		let s = new Set([1, 2, 2, 3]);
		s.add(3);
		s.size
	`), 3)
	testBool(t, testEval(t, "let s = new Set([1]); s.delete(1); s.has(1)"), false)
	testString(t, testEval(t, "new Set(['b', 'a', 'b']).values().join('')"), "ba")
}

func TestDateAndRegExp(t *testing.T) {
	testBool(t, testEval(t, "Date.now() > 1577836800000"), true) // after 2020
	testNumber(t, testEval(t, "new Date(86400000).getTime()"), 86400000)
	testNumber(t, testEval(t, "new Date('2024-03-05T00:00:00Z').getMonth()"), 2)

	testBool(t, testEval(t, `/ab+c/.test("abbbc")`), true)
	testBool(t, testEval(t, `/^x$/.test("y")`), false)
	testBool(t, testEval(t, `new RegExp("\\d+").test("a12b")`), true)
	testString(t, testEval(t, `"a1b22c".replace(/\d+/g, "#")`), "a#b#c")
	testString(t, testEval(t, `"hello world".match(/o/g).join('')`), "oo")
	testNumber(t, testEval(t, `"abcdef".search(/cd/)`), 2)
}

func TestErrorConstructors(t *testing.T) {
	testString(t, testEval(t, "new Error('x').message"), "x")
	testString(t, testEval(t, "new TypeError('t').name"), "TypeError")
	testBool(t, testEval(t, "new RangeError('r') instanceof Error"), true)
	testBool(t, testEval(t, "new RangeError('r') instanceof RangeError"), true)
	testBool(t, testEval(t, "new Error('e') instanceof TypeError"), false)
}

func TestPresetGating(t *testing.T) {
	es5 := New(WithPreset(ES5))
	if _, err := es5.Evaluate("Math.floor(1.5)"); err != nil {
		t.Fatalf("ES5 should expose Math: %v", err)
	}
	if _, err := es5.Evaluate("new Map()"); err == nil {
		t.Error("ES5 preset should not expose Map")
	}

	es2015 := New(WithPreset(ES2015))
	if _, err := es2015.Evaluate("new Map()"); err != nil {
		t.Errorf("ES2015 should expose Map: %v", err)
	}
}
