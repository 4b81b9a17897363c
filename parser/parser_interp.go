package parser

import (
	"strings"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/lexer"
	"github.com/langc/langc/token"
)

// parseInterpParts splits an interpolated string's raw text (lexer_string.go has
// already resolved escapes outside `{...}` and left brace contents verbatim)
// into literal and expression parts, each embedded expression being re-lexed
// and re-parsed on its own. Brace/string-depth tracking mirrors
// lexer/lexer_string.go's scanString so nested `"..."` and `$"..."` text
// inside a `{...}` region does not get mistaken for the region's closing
// brace.
func (p *Parser) parseInterpParts(tok token.Token) []ast.InterpPart {
	text := tok.Literal.Str
	var parts []ast.InterpPart
	var lit strings.Builder

	i := 0
	for i < len(text) {
		c := text[i]
		if c != '{' {
			lit.WriteByte(c)
			i++
			continue
		}
		if lit.Len() > 0 {
			parts = append(parts, ast.InterpPart{Literal: lit.String()})
			lit.Reset()
		}
		i++ // consume '{'
		start := i
		braceDepth := 1
		stringDepth := 0
		for i < len(text) && braceDepth > 0 {
			switch {
			case text[i] == '"':
				if stringDepth > 0 {
					stringDepth--
				} else {
					stringDepth++
				}
				i++
			case stringDepth > 0:
				i++
			case text[i] == '{':
				braceDepth++
				i++
			case text[i] == '}':
				braceDepth--
				if braceDepth == 0 {
					break
				}
				i++
			default:
				i++
			}
			if braceDepth == 0 {
				break
			}
		}
		exprText := text[start:i]
		if i < len(text) && text[i] == '}' {
			i++ // consume closing '}'
		} else {
			p.errorf("unterminated interpolation region in string at %s", tok.Pos)
		}

		exprText, format := splitFormatSpec(exprText)
		parts = append(parts, ast.InterpPart{Expr: p.parseSubExpr(tok, exprText), Format: format})
	}
	if lit.Len() > 0 {
		parts = append(parts, ast.InterpPart{Literal: lit.String()})
	}
	return parts
}

// splitFormatSpec finds a top-level `:` (not nested in parens, brackets, or
// a string) marking a format specifier, e.g. `{n:05d}`.
func splitFormatSpec(s string) (expr, format string) {
	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inString = !inString
		case '(', '[':
			if !inString {
				depth++
			}
		case ')', ']':
			if !inString {
				depth--
			}
		case ':':
			if !inString && depth == 0 {
				return s[:i], s[i+1:]
			}
		}
	}
	return s, ""
}

// parseSubExpr lexes and parses exprText as a standalone expression,
// reporting errors against the position of the enclosing string literal.
func (p *Parser) parseSubExpr(stringTok token.Token, exprText string) ast.Expr {
	sub := lexer.New(stringTok.Pos.File, []byte(exprText))
	toks := sub.All()
	sp := &Parser{toks: toks}
	expr := sp.parseExpr()
	p.errs = append(p.errs, sub.Errors()...)
	p.errs = append(p.errs, sp.errs...)
	return expr
}
