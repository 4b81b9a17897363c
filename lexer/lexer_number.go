package lexer

import (
	"strconv"
	"unicode/utf8"

	"github.com/langc/langc/token"
)

// scanNumber scans an integer or floating-point literal starting at the
// digit already peeked by Lex. The prefix/suffix rules mirror the original
// compiler's number scanner exactly, including the 0b-vs-byte-suffix
// disambiguation (a 'b'/'B' right after a lone "0" is only a binary prefix
// when followed by a literal '0' or '1' digit; otherwise it is the byte
// suffix on the decimal literal "0").
func (l *Lexer) scanNumber(startPos token.Position) token.Token {
	first, _ := l.in.advance()

	if first == '0' {
		switch {
		case l.peekIs('x', 'X'):
			return l.scanRadixInt(startPos, 2, 16, isHexDigitRune)
		case l.peekIs('b', 'B') && l.peekNextIs('0', '1'):
			return l.scanRadixInt(startPos, 2, 2, isBinDigitRune)
		case l.peekIs('o', 'O'):
			return l.scanRadixInt(startPos, 2, 8, isOctDigitRune)
		}
	}

	for isDigit(l.peekRune()) {
		l.in.advance()
	}

	if l.peekRune() == '.' && isDigit(l.peekNextRune()) {
		l.in.advance() // consume '.'
		for isDigit(l.peekRune()) {
			l.in.advance()
		}
		switch {
		case l.peekIs('f', 'F'):
			l.in.advance()
			return l.makeDouble(startPos, l.digitsBeforeSuffix(1))
		case l.peekIs('d', 'D'):
			l.in.advance()
			return l.makeDouble(startPos, l.digitsBeforeSuffix(1))
		default:
			return l.makeDouble(startPos, l.in.marked())
		}
	}

	switch {
	case l.peekIs('l', 'L'):
		l.in.advance()
		return l.makeInt(startPos, token.SuffixLong, l.digitsBeforeSuffix(1), 10, false)
	case l.peekIs('b', 'B'):
		l.in.advance()
		return l.makeByte(startPos, l.digitsBeforeSuffix(1))
	case l.peekIs('u', 'U') && !l.peekNextIs('3'):
		l.in.advance()
		return l.makeInt(startPos, token.SuffixUint, l.digitsBeforeSuffix(1), 10, true)
	case l.peekIs('u', 'U') && l.peekNextIs('3'):
		l.in.advance() // consume u/U
		if l.peekRune() == '3' && l.peekNextRune() == '2' {
			l.in.advance()
			l.in.advance()
			return l.makeUint32(startPos, l.digitsBeforeSuffix(3))
		}
		return l.makeInt(startPos, token.SuffixUint, l.digitsBeforeSuffix(1), 10, true)
	case l.peekIs('i', 'I') && l.peekNextIs('3'):
		l.in.advance() // consume i/I
		if l.peekRune() == '3' && l.peekNextRune() == '2' {
			l.in.advance()
			l.in.advance()
			return l.makeInt32(startPos, l.digitsBeforeSuffix(3))
		}
		return l.errorTokenAt(startPos, "invalid number suffix")
	default:
		return l.makeInt(startPos, token.NoSuffix, l.in.marked(), 10, false)
	}
}

// scanRadixInt scans a prefixed integer literal (0x/0b/0o) whose prefix is
// skipLen bytes long, then an optional long suffix.
func (l *Lexer) scanRadixInt(startPos token.Position, skipLen, radix int, digit func(rune) bool) token.Token {
	l.in.advance() // consume the prefix letter (x/b/o)
	if !digit(l.peekRune()) {
		return l.errorTokenAt(startPos, "expected digit after numeric literal prefix")
	}
	for digit(l.peekRune()) {
		l.in.advance()
	}
	text := l.in.marked()
	digits := text[skipLen:]
	if l.peekIs('l', 'L') {
		l.in.advance()
		return l.makeInt(startPos, token.SuffixLong, digits, radix, false)
	}
	return l.makeInt(startPos, token.NoSuffix, digits, radix, false)
}

func (l *Lexer) digitsBeforeSuffix(suffixLen int) string {
	full := l.in.marked()
	return full[:len(full)-suffixLen]
}

func (l *Lexer) peekRune() rune { r, _ := l.in.peek(); return r }

func (l *Lexer) peekNextRune() rune {
	_, sz := l.in.peek()
	if l.in.pos+sz >= len(l.in.data) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.in.data[l.in.pos+sz:])
	return r
}

func (l *Lexer) peekIs(opts ...rune) bool {
	r := l.peekRune()
	for _, o := range opts {
		if r == o {
			return true
		}
	}
	return false
}

func (l *Lexer) peekNextIs(opts ...rune) bool {
	r := l.peekNextRune()
	for _, o := range opts {
		if r == o {
			return true
		}
	}
	return false
}

func isBinDigitRune(r rune) bool { return r == '0' || r == '1' }
func isOctDigitRune(r rune) bool { return r >= '0' && r <= '7' }
func isHexDigitRune(r rune) bool { return isHexDigit(r) }

func (l *Lexer) makeInt(pos token.Position, suffix token.NumSuffix, digits string, radix int, unsigned bool) token.Token {
	var value int64
	if unsigned {
		u, err := strconv.ParseUint(digits, radix, 64)
		if err != nil {
			return l.errorTokenAt(pos, "invalid integer literal")
		}
		value = int64(u)
	} else {
		v, err := strconv.ParseInt(digits, radix, 64)
		if err != nil {
			return l.errorTokenAt(pos, "invalid integer literal")
		}
		value = v
	}
	return l.emit(token.Token{Kind: token.INT_LIT, Text: l.in.marked(), Pos: pos, Literal: token.Literal{
		Kind: token.IntLiteral, Int: value, Suffix: suffix,
	}})
}

func (l *Lexer) makeByte(pos token.Position, digits string) token.Token {
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return l.errorTokenAt(pos, "invalid byte literal")
	}
	if v < 0 || v > 255 {
		return l.errorTokenAt(pos, "byte literal out of range (0-255)")
	}
	return l.emit(token.Token{Kind: token.INT_LIT, Text: l.in.marked(), Pos: pos, Literal: token.Literal{
		Kind: token.IntLiteral, Int: v, Suffix: token.SuffixByte,
	}})
}

func (l *Lexer) makeUint32(pos token.Position, digits string) token.Token {
	v, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return l.errorTokenAt(pos, "invalid uint32 literal")
	}
	if v > 0xFFFFFFFF {
		return l.errorTokenAt(pos, "uint32 literal out of range")
	}
	return l.emit(token.Token{Kind: token.INT_LIT, Text: l.in.marked(), Pos: pos, Literal: token.Literal{
		Kind: token.IntLiteral, Int: int64(v), Suffix: token.SuffixUint32,
	}})
}

func (l *Lexer) makeInt32(pos token.Position, digits string) token.Token {
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return l.errorTokenAt(pos, "invalid int32 literal")
	}
	if v < -(1<<31) || v > (1<<31)-1 {
		return l.errorTokenAt(pos, "int32 literal out of range")
	}
	return l.emit(token.Token{Kind: token.INT_LIT, Text: l.in.marked(), Pos: pos, Literal: token.Literal{
		Kind: token.IntLiteral, Int: v, Suffix: token.SuffixInt32,
	}})
}

func (l *Lexer) makeDouble(pos token.Position, text string) token.Token {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return l.errorTokenAt(pos, "invalid floating-point literal")
	}
	suffix := token.NoSuffix
	if len(text) > 0 {
		switch l.in.marked()[len(text):] {
		case "f", "F":
			suffix = token.SuffixFloat
		case "d", "D":
			suffix = token.SuffixDouble
		}
	}
	return l.emit(token.Token{Kind: token.FLOAT_LIT, Text: l.in.marked(), Pos: pos, Literal: token.Literal{
		Kind: token.DoubleLiteral, Double: v, Suffix: suffix,
	}})
}
