package sandbox

import (
	"regexp"
	"strings"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
)

// RegExp is the host-side regular expression handle the sandbox sees
// behind the proxy. Compilation is delegated to Go's regexp engine; the
// common ECMAScript syntax subset maps directly.
type RegExp struct {
	Source string
	Flags  string
	re     *regexp.Regexp
}

// CompileRegExp builds a RegExp from an ECMAScript pattern and flags.
// The `i`, `m` and `s` flags translate to inline Go flags; `g` and `y`
// affect only the matching helpers; anything Go's engine cannot express
// (lookbehind, backreferences) fails as a type error.
func CompileRegExp(pattern, flags string) (*RegExp, error) {
	goPattern := pattern
	var inline string
	if strings.ContainsRune(flags, 'i') {
		inline += "i"
	}
	if strings.ContainsRune(flags, 'm') {
		inline += "m"
	}
	if strings.ContainsRune(flags, 's') {
		inline += "s"
	}
	if inline != "" {
		goPattern = "(?" + inline + ")" + goPattern
	}
	re, err := regexp.Compile(goPattern)
	if err != nil {
		return nil, ierr.NewTypeErrorf("invalid regular expression /%s/%s: %v", pattern, flags, err)
	}
	return &RegExp{Source: pattern, Flags: flags, re: re}, nil
}

// Global reports whether the `g` flag is set.
func (r *RegExp) Global() bool {
	return strings.ContainsRune(r.Flags, 'g')
}

// Test reports whether the pattern matches s.
func (r *RegExp) Test(s string) bool {
	return r.re.MatchString(s)
}

// Exec returns the first match with capture groups, or nil.
func (r *RegExp) Exec(s string) []string {
	return r.re.FindStringSubmatch(s)
}

// FindAll returns every match (full match text only).
func (r *RegExp) FindAll(s string) []string {
	return r.re.FindAllString(s, -1)
}

// FindAllSubmatch returns every match with capture groups.
func (r *RegExp) FindAllSubmatch(s string) [][]string {
	return r.re.FindAllStringSubmatch(s, -1)
}

// IndexIn returns the rune offset of the first match, or -1.
func (r *RegExp) IndexIn(s string) int {
	loc := r.re.FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return len([]rune(s[:loc[0]]))
}

// Replace substitutes matches in s with repl, honoring the `g` flag and
// translating `$1`-style group references to Go's `${1}` form.
func (r *RegExp) Replace(s, repl string) string {
	goRepl := groupRefPattern.ReplaceAllString(repl, "${$1}")
	if r.Global() {
		return r.re.ReplaceAllString(s, goRepl)
	}
	replaced := false
	return r.re.ReplaceAllStringFunc(s, func(m string) string {
		if replaced {
			return m
		}
		replaced = true
		return r.re.ReplaceAllString(m, goRepl)
	})
}

// Split splits s around matches of the pattern.
func (r *RegExp) Split(s string, limit int) []string {
	return r.re.Split(s, limit)
}

var groupRefPattern = regexp.MustCompile(`\$(\d+)`)

// regexArg extracts a RegExp from a native-method argument: a proxied
// RegExp passes through; a string compiles without flags.
func regexArg(args []runtime.Value, i int) (*RegExp, error) {
	if i >= len(args) {
		return nil, ierr.NewTypeErrorf("expected a string or RegExp argument")
	}
	switch v := args[i].(type) {
	case *runtime.HostValue:
		if re, ok := v.Native.(*RegExp); ok {
			return re, nil
		}
	case *runtime.StringValue:
		return CompileRegExp(regexp.QuoteMeta(v.Value), "")
	}
	return nil, ierr.NewTypeErrorf("expected a string or RegExp argument, got %s", args[i].Type())
}
