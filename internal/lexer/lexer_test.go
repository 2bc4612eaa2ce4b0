package lexer

import (
	"testing"

	"github.com/cwbudde/go-sandjs/pkg/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `let five = 5;
const name = "hi";
five === 5 ? a?.b : c ?? d;
x **= 2 >>> 1;`

	expected := []struct {
		typ token.TokenType
		lit string
	}{
		{token.LET, "let"},
		{token.IDENT, "five"},
		{token.ASSIGN, "="},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.CONST, "const"},
		{token.IDENT, "name"},
		{token.ASSIGN, "="},
		{token.STRING, "hi"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "five"},
		{token.STRICT_EQ, "==="},
		{token.NUMBER, "5"},
		{token.QUESTION, "?"},
		{token.IDENT, "a"},
		{token.OPTCHAIN, "?."},
		{token.IDENT, "b"},
		{token.COLON, ":"},
		{token.IDENT, "c"},
		{token.COALESCE, "??"},
		{token.IDENT, "d"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "x"},
		{token.POWER_ASSIGN, "**="},
		{token.NUMBER, "2"},
		{token.USHR, ">>>"},
		{token.NUMBER, "1"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want.typ {
			t.Fatalf("token %d: expected type %q, got %q (%q)", i, want.typ, tok.Type, tok.Literal)
		}
		if tok.Literal != want.lit {
			t.Fatalf("token %d: expected literal %q, got %q", i, want.lit, tok.Literal)
		}
	}
}

func TestNumberForms(t *testing.T) {
	tests := []struct {
		input string
		typ   token.TokenType
		lit   string
	}{
		{"42", token.NUMBER, "42"},
		{"3.14", token.NUMBER, "3.14"},
		{".5", token.NUMBER, ".5"},
		{"1e10", token.NUMBER, "1e10"},
		{"1.5e-3", token.NUMBER, "1.5e-3"},
		{"0xFF", token.NUMBER, "0xFF"},
		{"0b1010", token.NUMBER, "0b1010"},
		{"0o777", token.NUMBER, "0o777"},
		{"1_000", token.NUMBER, "1_000"},
		{"123n", token.BIGINT, "123"},
	}
	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != tt.typ || tok.Literal != tt.lit {
			t.Errorf("%q: expected (%q, %q), got (%q, %q)", tt.input, tt.typ, tt.lit, tok.Type, tok.Literal)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`'don\'t'`, "don't"},
		{`"A"`, "A"},
		{`"\u{1F600}"`, "😀"},
		{`"\x41"`, "A"},
		{`"q\"q"`, `q"q`},
	}
	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != token.STRING {
			t.Fatalf("%q: expected STRING, got %q", tt.input, tok.Type)
		}
		if tok.Literal != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, tok.Literal)
		}
	}
}

func TestRegexVersusDivision(t *testing.T) {
	// after an identifier, '/' divides
	l := New("a / b")
	l.NextToken() // a
	if tok := l.NextToken(); tok.Type != token.SLASH {
		t.Errorf("expected SLASH after identifier, got %q", tok.Type)
	}

	// in expression position, '/' opens a regex
	l = New("x = /ab+c/gi")
	l.NextToken() // x
	l.NextToken() // =
	tok := l.NextToken()
	if tok.Type != token.REGEX {
		t.Fatalf("expected REGEX, got %q (%q)", tok.Type, tok.Literal)
	}
	if tok.Literal != "ab+c\x00gi" {
		t.Errorf("unexpected regex payload %q", tok.Literal)
	}

	// character classes may contain '/'
	l = New("let r = /[/]/")
	l.NextToken()
	l.NextToken()
	l.NextToken()
	if tok := l.NextToken(); tok.Type != token.REGEX {
		t.Errorf("expected REGEX with class, got %q", tok.Type)
	}
}

func TestTemplateToken(t *testing.T) {
	l := New("`before ${x + 1} after`")
	tok := l.NextToken()
	if tok.Type != token.TEMPLATE {
		t.Fatalf("expected TEMPLATE, got %q", tok.Type)
	}
	if tok.Literal != "before ${x + 1} after" {
		t.Errorf("unexpected template payload %q", tok.Literal)
	}

	// nested braces and templates balance
	l = New("`a ${ {k: `inner ${1}`} } b`")
	tok = l.NextToken()
	if tok.Type != token.TEMPLATE {
		t.Fatalf("expected TEMPLATE with nesting, got %q (%q)", tok.Type, tok.Literal)
	}
}

func TestNewlineBeforeFlag(t *testing.T) {
	l := New("a\nb c")
	l.NextToken() // a
	b := l.NextToken()
	if !b.NewlineBefore {
		t.Error("expected NewlineBefore on token after a line break")
	}
	c := l.NextToken()
	if c.NewlineBefore {
		t.Error("did not expect NewlineBefore on same-line token")
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	l := New("1 // line comment\n/* block\ncomment */ 2")
	if tok := l.NextToken(); tok.Literal != "1" {
		t.Fatalf("expected 1, got %q", tok.Literal)
	}
	tok := l.NextToken()
	if tok.Literal != "2" {
		t.Fatalf("expected 2 after comments, got %q", tok.Literal)
	}
	if !tok.NewlineBefore {
		t.Error("newline inside comments should set NewlineBefore")
	}
}

func TestUnicodeIdentifiersAndPositions(t *testing.T) {
	l := New("let Δ = 1")
	l.NextToken() // let
	tok := l.NextToken()
	if tok.Type != token.IDENT || tok.Literal != "Δ" {
		t.Fatalf("expected unicode identifier, got %q (%q)", tok.Type, tok.Literal)
	}
	if tok.Pos.Column != 5 {
		t.Errorf("expected column 5 (runes), got %d", tok.Pos.Column)
	}
}

func TestPrivateNameToken(t *testing.T) {
	l := New("this.#count")
	l.NextToken() // this
	l.NextToken() // .
	tok := l.NextToken()
	if tok.Type != token.PRIVATE || tok.Literal != "count" {
		t.Errorf("expected PRIVATE(count), got %q (%q)", tok.Type, tok.Literal)
	}
}

func TestUnterminatedLiterals(t *testing.T) {
	l := New(`"no end`)
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Error("expected an error for unterminated string")
	}

	l = New("`no end")
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Error("expected an error for unterminated template")
	}
}
