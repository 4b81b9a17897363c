package lexer

import (
	"strings"

	"github.com/langc/langc/token"
)

// scanDollar scans the two forms introduced by a leading '$': an
// interpolated string `$"…"` or an interpolated pipe-block `$|`.
func (l *Lexer) scanDollar(startPos token.Position) token.Token {
	l.in.advance() // consume '$'
	switch l.peekRune() {
	case '"':
		return l.scanString(startPos, true)
	case '|':
		l.in.advance()
		return l.scanPipeBlock(startPos, true)
	default:
		return l.errorTokenAt(startPos, "expected '\"' or '|' after '$'")
	}
}

// scanString scans a string literal, handling nested `{…}` interpolation
// regions per spec.md §4.B: the lexer tracks brace depth and a nested
// string/interpolation depth so that `$"…{$"…{x}"}…"` tokenizes as one
// token, and `\"` inside `{…}` delimits a nested string argument rather
// than closing the outer literal. Escape sequences outside any `{…}` are
// resolved to their literal byte; text inside `{…}` is kept verbatim for
// the parser to re-lex as an embedded expression.
func (l *Lexer) scanString(startPos token.Position, interpolated bool) token.Token {
	l.in.advance() // consume opening '"'
	startLine := l.line

	var buf strings.Builder
	braceDepth := 0
	stringDepth := 0
	interpolDepth := 0

	for {
		r := l.peekRune()
		if r == 0 && l.in.eof() {
			l.line = startLine
			tok := l.errorTokenAt(startPos, "unterminated string literal")
			return tok
		}
		if r == '"' && braceDepth == 0 && stringDepth == 0 {
			break
		}
		if r == '\n' {
			l.line++
		}

		switch {
		case r == '\\':
			l.in.advance()
			if l.in.eof() {
				buf.WriteByte('\\')
				continue
			}
			escaped := l.peekRune()
			switch {
			case braceDepth == 0 && stringDepth == 0:
				b, tok, ok := l.resolveEscape(startPos, escaped)
				if !ok {
					return tok
				}
				buf.WriteByte(b)
				l.in.advance()
			case braceDepth > 0 && escaped == '"':
				buf.WriteByte('"')
				if stringDepth > 0 {
					stringDepth--
					if interpolDepth > 0 {
						interpolDepth--
					}
				} else {
					stringDepth++
				}
				l.in.advance()
			default:
				buf.WriteByte('\\')
				buf.WriteRune(escaped)
				l.in.advance()
			}
		case r == '$' && braceDepth > 0 && stringDepth == 0 && l.peekNextRune() == '"':
			buf.WriteByte('$')
			l.in.advance()
			buf.WriteByte('"')
			l.in.advance()
			stringDepth++
			interpolDepth++
		case r == '"' && braceDepth > 0:
			buf.WriteByte('"')
			l.in.advance()
			if stringDepth > 0 {
				stringDepth--
				if interpolDepth > 0 {
					interpolDepth--
				}
			} else {
				stringDepth++
			}
		case r == '{' && stringDepth == 0:
			braceDepth++
			buf.WriteByte('{')
			l.in.advance()
		case r == '}' && stringDepth == 0:
			if braceDepth > 0 {
				braceDepth--
			}
			buf.WriteByte('}')
			l.in.advance()
		default:
			buf.WriteRune(r)
			l.in.advance()
		}
	}
	l.in.advance() // consume closing '"'

	kind := token.STRING_LIT
	if interpolated {
		kind = token.INTERP_STRING_LIT
	}
	return l.emit(token.Token{Kind: kind, Text: buf.String(), Pos: startPos, Literal: token.Literal{
		Kind: token.StringLiteral, Str: buf.String(),
	}})
}

// resolveEscape handles the escape sequences valid outside any interpolation
// brace: \\ \n \r \t \" \0 \xNN.
func (l *Lexer) resolveEscape(startPos token.Position, escaped rune) (byte, token.Token, bool) {
	switch escaped {
	case '\\':
		return '\\', token.Token{}, true
	case 'n':
		return '\n', token.Token{}, true
	case 'r':
		return '\r', token.Token{}, true
	case 't':
		return '\t', token.Token{}, true
	case '"':
		return '"', token.Token{}, true
	case '0':
		return 0, token.Token{}, true
	case 'x':
		l.in.advance() // consume 'x'
		v, tok, ok := l.scanHexByteEscape(startPos)
		return v, tok, ok
	default:
		return 0, l.errorTokenAt(startPos, "invalid escape sequence"), false
	}
}

func (l *Lexer) scanHexByteEscape(startPos token.Position) (byte, token.Token, bool) {
	if l.in.eof() {
		return 0, l.errorTokenAt(startPos, "incomplete hex escape"), false
	}
	hi := hexVal(l.peekRune())
	if hi < 0 {
		return 0, l.errorTokenAt(startPos, "invalid hex digit in escape"), false
	}
	l.in.advance()
	if l.in.eof() {
		return 0, l.errorTokenAt(startPos, "incomplete hex escape"), false
	}
	lo := hexVal(l.peekRune())
	if lo < 0 {
		return 0, l.errorTokenAt(startPos, "invalid hex digit in escape"), false
	}
	return byte(hi<<4 | lo), token.Token{}, true
}

func hexVal(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	default:
		return -1
	}
}

// scanChar scans a `'c'` character literal.
func (l *Lexer) scanChar(startPos token.Position) token.Token {
	l.in.advance() // consume opening quote
	var value byte

	switch l.peekRune() {
	case '\\':
		l.in.advance()
		escaped := l.peekRune()
		switch escaped {
		case '\\':
			value = '\\'
		case 'n':
			value = '\n'
		case 'r':
			value = '\r'
		case 't':
			value = '\t'
		case '\'':
			value = '\''
		case '0':
			value = 0
		case 'x':
			l.in.advance()
			v, tok, ok := l.scanHexByteEscape(startPos)
			if !ok {
				return tok
			}
			l.in.advance() // consume low nibble digit
			value = v
			return l.finishChar(startPos, value)
		default:
			return l.errorTokenAt(startPos, "invalid escape sequence")
		}
		l.in.advance()
		return l.finishChar(startPos, value)
	case '\'':
		return l.errorTokenAt(startPos, "empty character literal")
	default:
		value = byte(l.peekRune())
		l.in.advance()
		return l.finishChar(startPos, value)
	}
}

func (l *Lexer) finishChar(startPos token.Position, value byte) token.Token {
	if l.peekRune() != '\'' {
		return l.errorTokenAt(startPos, "unterminated character literal")
	}
	l.in.advance()
	return l.emit(token.Token{Kind: token.CHAR_LIT, Pos: startPos, Literal: token.Literal{
		Kind: token.CharLiteral, Char: value,
	}})
}
