package parser

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/cwbudde/go-sandjs/internal/lexer"
)

// TestProgramShapeSnapshots locks the printed shape of representative
// programs so parser refactors cannot silently change the AST.
func TestProgramShapeSnapshots(t *testing.T) {
	fixtures := map[string]string{
		"declarations": `
			let a = 1, b = [2, 3];
			const {x, y = 5, ...rest} = src;
			var legacy;
		`,
		"functions": `
			function outer(a, b = 1, ...rest) {
				return inner(a) + rest.length;
			}
			let inner = n => n * 2;
			let later = async (u) => await fetchIt(u);
		`,
		"classes": `
			class Stack extends Base {
				#items = [];
				static empty = true;
				constructor() { super(); }
				push(v) { this.#items.push(v); return this; }
				get depth() { return this.#items.length; }
			}
		`,
		"control-flow": `
			outer: for (let i = 0; i < 10; i++) {
				switch (i % 3) {
				case 0: continue outer;
				default: break;
				}
			}
			try { risky(); } catch ({code}) { log(code); } finally { done(); }
		`,
		"operators": `
			let v = a?.b?.[k] ?? fallback;
			v **= 2;
			v ||= seed;
			total = x > 0 ? x << 2 : ~x >>> 1;
		`,
	}

	for name, src := range fixtures {
		t.Run(name, func(t *testing.T) {
			p := New(lexer.New(src))
			program := p.ParseProgram()
			if errs := p.Errors(); len(errs) > 0 {
				t.Fatalf("fixture %q failed to parse: %v", name, errs[0])
			}
			snaps.MatchSnapshot(t, program.String())
		})
	}
}
