package interp

import (
	"testing"

	ierr "github.com/cwbudde/go-sandjs/errors"
)

func TestClassBasics(t *testing.T) {
	testNumber(t, testEval(t, `
		class Point {
			constructor(x, y) { this.x = x; this.y = y; }
			dist2() { return this.x * this.x + this.y * this.y; }
		}
		let p = new Point(3, 4);
		p.dist2()
	`), 25)

	// field initializers run before the constructor body, in source order
	testString(t, testEval(t, `
		class Trace {
			log = 'f1 ';
			constructor() { this.log += 'ctor'; }
		}
		new Trace().log
	`), "f1 ctor")

	// methods are reachable, fields are plain data
	testNumber(t, testEval(t, `
		class Counter {
			n = 0;
			add(v) { this.n += v; return this.n; }
		}
		let c = new Counter();
		c.add(2); c.add(3)
	`), 5)
}

func TestPrivateFields(t *testing.T) {
	testNumber(t, testEval(t, `
		class Counter { #n = 0; add(v){ this.#n += v; return this.#n; } }
		let c = new Counter();
		c.add(5); c.add(10)
	`), 15)

	// private access outside the class is denied
	ip := New()
	_, err := ip.Evaluate(`
		class Box { #v = 1; get_() { return this.#v; } }
		let b = new Box();
		b.#v
	`)
	if err == nil {
		t.Fatal("expected private access to fail outside the class")
	}
	ie, ok := err.(*ierr.InterpreterError)
	if !ok || ie.Kind != ierr.KindSecurity {
		t.Fatalf("expected Security error, got %v", err)
	}

	// unknown private names are syntax-level failures
	_, err = New().Evaluate(`
		class Box2 { #v = 1; probe() { return this.#other; } }
		new Box2().probe()
	`)
	if !ierr.IsKind(err, ierr.KindSyntax) {
		t.Fatalf("expected Syntax error for undeclared private name, got %v", err)
	}
}

func TestStaticMembers(t *testing.T) {
	testNumber(t, testEval(t, `
		class Registry {
			static count = 0;
			static bump() { Registry.count += 1; return Registry.count; }
		}
		Registry.bump(); Registry.bump()
	`), 2)

	testString(t, testEval(t, "class Named {} Named.name"), "Named")
}

func TestGettersAndSetters(t *testing.T) {
	testNumber(t, testEval(t, `
		class Temp {
			#celsius = 0;
			get fahrenheit() { return this.#celsius * 9 / 5 + 32; }
			set fahrenheit(f) { this.#celsius = (f - 32) * 5 / 9; }
		}
		let tmp = new Temp();
		tmp.fahrenheit = 212;
		tmp.fahrenheit
	`), 212)
}

func TestInheritance(t *testing.T) {
	testString(t, testEval(t, `
		class Animal {
			constructor(name) { this.name = name; }
			speak() { return this.name + " makes a sound"; }
		}
		class Dog extends Animal {
			constructor(name) { super(name); }
			speak() { return super.speak() + ": woof"; }
		}
		new Dog("Rex").speak()
	`), "Rex makes a sound: woof")

	// implicit constructor forwards arguments
	testString(t, testEval(t, `
		class Base { constructor(v) { this.v = v; } }
		class Child extends Base {}
		new Child("ok").v
	`), "ok")

	// instanceof follows the class chain
	testBool(t, testEval(t, `
		class A {}
		class B extends A {}
		let b = new B();
		b instanceof B && b instanceof A
	`), true)
	testBool(t, testEval(t, `
		class C {}
		class D {}
		new C() instanceof D
	`), false)

	// derived field initializers run after super()
	testString(t, testEval(t, `
		class P { constructor() { this.log = 'p'; } }
		class Q extends P {
			tag = this.log + '-q';
		}
		new Q().tag
	`), "p-q")
}

func TestClassErrors(t *testing.T) {
	ip := New()
	requireErrKind(t, ip, "class E {} E()", ierr.KindType)
	ip.ClearGlobals()
	requireErrKind(t, ip, "let f = x => x; new f()", ierr.KindType)
	ip.ClearGlobals()
	requireErrKind(t, ip, "new (5)()", ierr.KindType)
}

func TestConstructorReturnSemantics(t *testing.T) {
	// explicit object return replaces the instance
	testNumber(t, testEval(t, `
		function Maker() { return {made: 1}; }
		new Maker().made
	`), 1)

	// primitive returns are ignored
	testNumber(t, testEval(t, `
		function Keeper() { this.kept = 2; return 42; }
		new Keeper().kept
	`), 2)
}
