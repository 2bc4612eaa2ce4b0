package parser

import (
	"testing"

	"github.com/cwbudde/go-sandjs/internal/lexer"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

// parseProgram is the test helper: parse and fail on errors.
func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors for %q: %v", input, errs[0])
	}
	return program
}

// parseFails asserts the input produces at least one parse error.
func parseFails(t *testing.T, input string) {
	t.Helper()
	p := New(lexer.New(input))
	p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Errorf("expected parse errors for %q", input)
	}
}

func TestStatementKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  string
	}{
		{"let x = 1;", "VariableDeclaration"},
		{"const y = 2;", "VariableDeclaration"},
		{"var z;", "VariableDeclaration"},
		{"function f() {}", "FunctionDeclaration"},
		{"async function g() {}", "FunctionDeclaration"},
		{"class C {}", "ClassDeclaration"},
		{"if (a) {}", "IfStatement"},
		{"while (a) {}", "WhileStatement"},
		{"do {} while (a);", "DoWhileStatement"},
		{"for (;;) {}", "ForStatement"},
		{"for (let k in o) {}", "ForInStatement"},
		{"for (const v of a) {}", "ForOfStatement"},
		{"switch (x) {}", "SwitchStatement"},
		{"try {} catch {}", "TryStatement"},
		{"throw e;", "ThrowStatement"},
		{"lbl: while (a) {}", "LabeledStatement"},
		{"{ 1; }", "BlockStatement"},
		{"a + b;", "ExpressionStatement"},
	}
	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.input, len(program.Statements))
		}
		if got := program.Statements[0].Kind(); got != tt.kind {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.kind, got)
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3));"},
		{"(1 + 2) * 3", "((1 + 2) * 3);"},
		{"a + b - c", "((a + b) - c);"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2));"},
		{"a === b && c !== d", "((a === b) && (c !== d));"},
		{"a || b && c", "(a || (b && c));"},
		{"a ?? b || c", "(a ?? (b || c));"},
		{"!a === b", "((! a) === b);"},
		{"-x * y", "((- x) * y);"},
		{"a < b == c", "((a < b) == c);"},
		{"a | b ^ c & d", "(a | (b ^ (c & d)));"},
		{"a << 1 + 2", "(a << (1 + 2));"},
		{"typeof x === 'string'", `((typeof x) === "string");`},
		{"a = b = c", "(a = (b = c));"},
		{"x ? y : z ? p : q", "(x ? y : (z ? p : q));"},
		{"a in b", "(a in b);"},
		{"a instanceof B", "(a instanceof B);"},
	}
	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if got := program.Statements[0].String(); got != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestArrowFunctions(t *testing.T) {
	program := parseProgram(t, "let f = (a, b = 1, ...rest) => a + b;")
	decl := program.Statements[0].(*ast.VariableDeclaration)
	fn, ok := decl.Declarations[0].Init.(*ast.FunctionLiteral)
	if !ok || !fn.IsArrow {
		t.Fatalf("expected arrow function, got %T", decl.Declarations[0].Init)
	}
	if len(fn.Params) != 3 {
		t.Fatalf("expected 3 params, got %d", len(fn.Params))
	}
	if fn.Params[1].Default == nil {
		t.Error("expected default on second param")
	}
	if !fn.Params[2].Rest {
		t.Error("expected rest on third param")
	}
	if fn.ExpressionBody == nil {
		t.Error("expected a concise body")
	}

	// single-parameter shorthand
	program = parseProgram(t, "x => x * 2;")
	expr := program.Statements[0].(*ast.ExpressionStatement).Expression
	if fn, ok := expr.(*ast.FunctionLiteral); !ok || !fn.IsArrow || len(fn.Params) != 1 {
		t.Errorf("expected single-param arrow, got %s", expr.String())
	}

	// parenthesized expression stays an expression
	program = parseProgram(t, "(a + b) * 2;")
	if got := program.Statements[0].String(); got != "((a + b) * 2);" {
		t.Errorf("grouping misparsed: %s", got)
	}

	// async arrows
	program = parseProgram(t, "let g = async x => x;")
	decl = program.Statements[0].(*ast.VariableDeclaration)
	if fn := decl.Declarations[0].Init.(*ast.FunctionLiteral); !fn.IsAsync || !fn.IsArrow {
		t.Error("expected async arrow")
	}
}

func TestDestructuringPatterns(t *testing.T) {
	program := parseProgram(t, "let [a, , b = 1, ...rest] = xs;")
	decl := program.Statements[0].(*ast.VariableDeclaration)
	pat, ok := decl.Declarations[0].ID.(*ast.ArrayPattern)
	if !ok {
		t.Fatalf("expected array pattern, got %T", decl.Declarations[0].ID)
	}
	if len(pat.Elements) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(pat.Elements))
	}
	if pat.Elements[1] != nil {
		t.Error("expected elision at index 1")
	}
	if _, ok := pat.Elements[2].(*ast.AssignmentPattern); !ok {
		t.Error("expected default pattern at index 2")
	}
	if _, ok := pat.Elements[3].(*ast.RestElement); !ok {
		t.Error("expected rest element at index 3")
	}

	program = parseProgram(t, "let {x, y: z, w = 2, ...others} = o;")
	objPat := program.Statements[0].(*ast.VariableDeclaration).Declarations[0].ID.(*ast.ObjectPattern)
	if len(objPat.Properties) != 3 || objPat.Rest == nil {
		t.Errorf("unexpected object pattern: %s", objPat.String())
	}

	// assignment destructuring converts literals to patterns
	program = parseProgram(t, "[a, b] = [b, a];")
	assign := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.AssignmentExpression)
	if _, ok := assign.Target.(*ast.ArrayPattern); !ok {
		t.Errorf("expected array pattern target, got %T", assign.Target)
	}
}

func TestOptionalChaining(t *testing.T) {
	program := parseProgram(t, "a?.b.c;")
	expr := program.Statements[0].(*ast.ExpressionStatement).Expression
	chain, ok := expr.(*ast.ChainExpression)
	if !ok {
		t.Fatalf("expected ChainExpression wrapper, got %T", expr)
	}
	outer := chain.Expression.(*ast.MemberExpression)
	if outer.Optional {
		t.Error("outer link should not be optional")
	}
	inner := outer.Object.(*ast.MemberExpression)
	if !inner.Optional {
		t.Error("inner link should be optional")
	}

	// optional calls and computed links
	parseProgram(t, "a?.(1, 2);")
	parseProgram(t, "a?.[k];")
}

func TestClassBodies(t *testing.T) {
	program := parseProgram(t, `
		class Shape extends Base {
			#area = 0;
			static kind = "shape";
			constructor(w, h) { super(); this.#area = w * h; }
			get area() { return this.#area; }
			set area(v) { this.#area = v; }
			static describe() { return Shape.kind; }
			grow(f) { this.#area *= f; }
		}
	`)
	decl := program.Statements[0].(*ast.ClassDeclaration)
	class := decl.Class
	if class.Name != "Shape" || class.SuperClass == nil {
		t.Fatalf("unexpected class header: %s", class.String())
	}

	kinds := map[ast.ClassMemberKind]int{}
	statics := 0
	privates := 0
	for _, m := range class.Members {
		kinds[m.MemberKind]++
		if m.Static {
			statics++
		}
		if m.Private {
			privates++
		}
	}
	if kinds[ast.MemberConstructor] != 1 || kinds[ast.MemberGetter] != 1 ||
		kinds[ast.MemberSetter] != 1 || kinds[ast.MemberField] != 2 ||
		kinds[ast.MemberMethod] != 2 {
		t.Errorf("unexpected member mix: %v", kinds)
	}
	if statics != 2 || privates != 1 {
		t.Errorf("expected 2 statics and 1 private, got %d/%d", statics, privates)
	}
}

func TestAutomaticSemicolonInsertion(t *testing.T) {
	program := parseProgram(t, "let a = 1\nlet b = 2\na + b")
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}

	// return followed by a newline takes no argument
	program = parseProgram(t, "function f() { return\n5; }")
	fn := program.Statements[0].(*ast.FunctionDeclaration)
	ret := fn.Function.Body.Statements[0].(*ast.ReturnStatement)
	if ret.Argument != nil {
		t.Error("expected bare return before newline")
	}
}

func TestForHeaders(t *testing.T) {
	// expression-left for-in
	program := parseProgram(t, "for (k in o) {}")
	if program.Statements[0].Kind() != "ForInStatement" {
		t.Errorf("expected ForInStatement, got %s", program.Statements[0].Kind())
	}

	// `in` operator still works inside the init of a classic for
	program = parseProgram(t, "for (let i = 0; 'k' in o; i++) {}")
	if program.Statements[0].Kind() != "ForStatement" {
		t.Errorf("expected ForStatement, got %s", program.Statements[0].Kind())
	}

	// for await
	program = parseProgram(t, "async function r() { for await (const v of g()) {} }")
	fn := program.Statements[0].(*ast.FunctionDeclaration)
	forOf := fn.Function.Body.Statements[0].(*ast.ForOfStatement)
	if !forOf.Await {
		t.Error("expected Await on for-await-of")
	}
}

func TestParseErrors(t *testing.T) {
	parseFails(t, "let = 5;")
	parseFails(t, "if (a {}")
	parseFails(t, "function () {}")
	parseFails(t, "try {}")
	parseFails(t, "let x = ;")
	parseFails(t, "a + ;")
	parseFails(t, "class {}")
	parseFails(t, `"unterminated`)
}

func TestTemplateLiteralParsing(t *testing.T) {
	program := parseProgram(t, "`x=${x}, sum=${a + b}`;")
	tmpl := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.TemplateLiteral)
	if len(tmpl.Quasis) != 3 || len(tmpl.Expressions) != 2 {
		t.Fatalf("expected 3 quasis and 2 expressions, got %d/%d", len(tmpl.Quasis), len(tmpl.Expressions))
	}
	if tmpl.Quasis[0] != "x=" || tmpl.Quasis[1] != ", sum=" {
		t.Errorf("unexpected quasis: %q", tmpl.Quasis)
	}
	if tmpl.Expressions[1].String() != "(a + b)" {
		t.Errorf("unexpected second expression: %s", tmpl.Expressions[1].String())
	}
}
