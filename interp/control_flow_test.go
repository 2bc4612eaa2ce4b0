package interp

import (
	"testing"

	ierr "github.com/cwbudde/go-sandjs/errors"
)

func TestIfElseChains(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"let x = 1; if (x > 0) { x = 10; } x", 10},
		{"let x = 1; if (x > 5) { x = 10; } else { x = 20; } x", 20},
		{"let x = 3; if (x === 1) { x = 10; } else if (x === 3) { x = 30; } else { x = 0; } x", 30},
	}
	for _, tt := range tests {
		testNumber(t, testEval(t, tt.input), tt.expected)
	}
}

func TestLoops(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"let s = 0; for (let i = 0; i < 5; i++) { s += i; } s", 10},
		{"let s = 0; let i = 0; while (i < 4) { s += i; i++; } s", 6},
		{"let s = 0; let i = 0; do { s += 1; i++; } while (i < 3); s", 3},
		{"let s = 0; for (const v of [1,2,3]) { s += v; } s", 6},
		{"let out = ''; for (const c of 'abc') { out += c; } out.length", 3},
		{"let keys = ''; for (let k in {a:1, b:2}) { keys += k; } keys.length", 2},
		{"let s = 0; for (var i = 0; i < 3; i++) { s += 1; } i", 3}, // var leaks out
	}
	for _, tt := range tests {
		testNumber(t, testEval(t, tt.input), tt.expected)
	}
}

func TestBreakAndContinue(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"let s = 0; for (let i = 0; i < 10; i++) { if (i === 3) break; s += i; } s", 3},
		{"let s = 0; for (let i = 0; i < 5; i++) { if (i % 2 === 0) continue; s += i; } s", 4},
		{`let s = 0;
		  outer: for (let i = 0; i < 3; i++) {
		    for (let j = 0; j < 3; j++) {
		      if (j === 1) continue outer;
		      s += 1;
		    }
		  }
		  s`, 3},
		{`let s = 0;
		  outer: for (let i = 0; i < 3; i++) {
		    for (let j = 0; j < 3; j++) {
		      if (i === 1) break outer;
		      s += 1;
		    }
		  }
		  s`, 3},
	}
	for _, tt := range tests {
		testNumber(t, testEval(t, tt.input), tt.expected)
	}
}

func TestFreshLetBindingPerIteration(t *testing.T) {
	// Closures capture distinct bindings per iteration.
	v := testEval(t, `
		let fns = [];
		for (let i = 0; i < 3; i++) {
			fns.push(() => i);
		}
		fns.map(f => f()).join(',')
	`)
	testString(t, v, "0,1,2")
}

func TestSwitchFallthrough(t *testing.T) {
	src := `
		function classify(n) {
			let out = '';
			switch (n) {
			case 1:
				out += 'one ';
			case 2:
				out += 'two ';
				break;
			case 3:
				out += 'three ';
				break;
			default:
				out += 'many ';
			}
			return out;
		}
		classify(1) + '|' + classify(2) + '|' + classify(3) + '|' + classify(9)
	`
	testString(t, testEval(t, src), "one two |two |three |many |")
}

func TestTryCatchFinally(t *testing.T) {
	// plain catch
	testBool(t, testEval(t,
		`try { try { throw "e"; } finally { } } catch(e){ String(e).indexOf("e")>=0 }`), true)

	// catch without a binding handles the throw
	testNumber(t, testEval(t, "let r = 0; try { throw 1; } catch { r = 9; } r"), 9)

	// finally runs on the normal path
	testString(t, testEval(t,
		"let log = ''; try { log += 't'; } finally { log += 'f'; } log"), "tf")

	// finally runs on the exception path
	testString(t, testEval(t, `
		let log = '';
		try {
			try { log += 't'; throw 'x'; } finally { log += 'f'; }
		} catch { log += 'c'; }
		log
	`), "tfc")

	// finally runs when the body returns, and its own return overrides
	testNumber(t, testEval(t,
		"function f() { try { return 1; } finally { return 2; } } f()"), 2)

	// finally break overrides a pending continue
	testNumber(t, testEval(t, `
		let n = 0;
		for (let i = 0; i < 10; i++) {
			try { continue; } finally { if (i === 2) break; }
			n = 99;
		}
		n
	`), 0)

	// rethrow from catch
	testBool(t, testEval(t, `
		let outer = false;
		try {
			try { throw "inner"; } catch (e) { throw "re"; }
		} catch (e) { outer = String(e).indexOf("re") >= 0; }
		outer
	`), true)
}

func TestThrownValuesInCatch(t *testing.T) {
	// simple identifier binding wraps the thrown value in an error object
	testString(t, testEval(t,
		`try { throw "boom"; } catch (e) { e.message }`), "boom")
	testString(t, testEval(t,
		`try { throw new TypeError("bad"); } catch (e) { e.name }`), "TypeError")

	// pattern bindings destructure the raw thrown value
	testNumber(t, testEval(t,
		`try { throw {code: 42, why: "x"}; } catch ({code}) { code }`), 42)
	testNumber(t, testEval(t,
		`try { throw [7, 8]; } catch ([a, b]) { a + b }`), 15)
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  ierr.Kind
	}{
		{"missing", ierr.KindReference},
		{"const c = 1; c = 2", ierr.KindType},
		{"let n = 5; n()", ierr.KindType},
		{"let u; u.x", ierr.KindType},
		{"let {q} = null", ierr.KindType},
		{"...x", ierr.KindSyntax},
		{"let a = 1; let a = 2", ierr.KindType},
		{"yield 1", ierr.KindSyntax},
		{"await 1", ierr.KindAsyncInSync},
		{"return 5", ierr.KindSyntax},
	}
	ip := New()
	for _, tt := range tests {
		requireErrKind(t, ip, tt.input, tt.kind)
		ip.ClearGlobals()
	}
}

// requireErrKind mirrors requireKind without testify, for the table tests
// that predate it.
func requireErrKind(t *testing.T, ip *Interpreter, src string, kind ierr.Kind) {
	t.Helper()
	_, err := ip.Evaluate(src)
	if err == nil {
		t.Fatalf("expected %s error for %q, got none", kind, src)
	}
	ie, ok := err.(*ierr.InterpreterError)
	if !ok {
		t.Fatalf("expected *InterpreterError for %q, got %T: %v", src, err, err)
	}
	if ie.Kind != kind {
		t.Errorf("expected %s error for %q, got %s: %v", kind, src, ie.Kind, err)
	}
}

func TestUncaughtThrowSurfaces(t *testing.T) {
	_, err := New().Evaluate(`throw "unhandled"`)
	if err == nil {
		t.Fatal("expected an error")
	}
	ie, ok := err.(*ierr.InterpreterError)
	if !ok || ie.Kind != ierr.KindError {
		t.Fatalf("expected base interpreter error, got %v", err)
	}
}

func TestTypeofUndeclaredNeverThrows(t *testing.T) {
	testString(t, testEval(t, "typeof neverDeclared"), "undefined")
}

func TestConstInLoopAndBlocks(t *testing.T) {
	testNumber(t, testEval(t, `
		let x = 1;
		{
			let x = 2;
			{ let x = 3; }
		}
		x
	`), 1)

	// shadowing a const in an inner block is allowed
	testNumber(t, testEval(t, "const k = 1; { const k = 2; } k"), 1)
}
