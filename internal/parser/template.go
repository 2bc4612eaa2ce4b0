package parser

import (
	"strings"

	"github.com/cwbudde/go-sandjs/internal/lexer"
	"github.com/cwbudde/go-sandjs/pkg/ast"
)

// parseTemplateLiteral splits the raw template token into quasis and
// interpolated expressions. Each `${...}` source slice is parsed with a
// fresh sub-parser, which makes nested templates work for free.
func (p *Parser) parseTemplateLiteral() ast.Expression {
	tok := p.curToken()
	p.next()

	tmpl := &ast.TemplateLiteral{Token: tok}
	raw := tok.Literal

	var quasi strings.Builder
	i := 0
	for i < len(raw) {
		switch {
		case raw[i] == '\\' && i+1 < len(raw):
			quasi.WriteString(decodeTemplateEscape(raw[i : i+2]))
			i += 2
		case raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{':
			end := matchTemplateBrace(raw, i+2)
			if end < 0 {
				p.errorf(tok.Pos, "unterminated template expression")
				tmpl.Quasis = append(tmpl.Quasis, quasi.String())
				return tmpl
			}
			tmpl.Quasis = append(tmpl.Quasis, quasi.String())
			quasi.Reset()

			exprSrc := raw[i+2 : end]
			sub := New(lexer.New(exprSrc))
			expr := sub.parseExpressionSequence()
			for _, e := range sub.Errors() {
				p.errors = append(p.errors, &Error{Msg: e.Msg, Pos: tok.Pos})
			}
			if expr == nil {
				expr = &ast.UndefinedLiteral{Token: tok}
			}
			tmpl.Expressions = append(tmpl.Expressions, expr)
			i = end + 1
		default:
			quasi.WriteByte(raw[i])
			i++
		}
	}
	tmpl.Quasis = append(tmpl.Quasis, quasi.String())
	return tmpl
}

// matchTemplateBrace finds the '}' closing an interpolation that starts at
// src[start], skipping nested braces, strings and templates.
func matchTemplateBrace(src string, start int) int {
	depth := 1
	i := start
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		case '\'', '"':
			i = skipPlainString(src, i)
			continue
		case '`':
			i = skipTemplateString(src, i)
			continue
		}
		i++
	}
	return -1
}

func skipPlainString(src string, start int) int {
	quote := src[start]
	i := start + 1
	for i < len(src) {
		if src[i] == '\\' {
			i += 2
			continue
		}
		if src[i] == quote {
			return i + 1
		}
		i++
	}
	return i
}

func skipTemplateString(src string, start int) int {
	i := start + 1
	depth := 0
	for i < len(src) {
		switch {
		case src[i] == '\\':
			i += 2
			continue
		case src[i] == '$' && i+1 < len(src) && src[i+1] == '{':
			depth++
			i += 2
			continue
		case src[i] == '}' && depth > 0:
			depth--
		case src[i] == '`' && depth == 0:
			return i + 1
		}
		i++
	}
	return i
}

// decodeTemplateEscape decodes a two-byte escape from the raw template
// text. Longer escapes (\uXXXX) are passed to the string decoder via the
// common cases; anything unrecognized keeps the escaped character.
func decodeTemplateEscape(esc string) string {
	switch esc[1] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '`':
		return "`"
	case '$':
		return "$"
	case '\\':
		return "\\"
	case '\n':
		return "" // line continuation
	default:
		return esc[1:]
	}
}
