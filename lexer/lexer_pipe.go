package lexer

import (
	"strings"

	"github.com/langc/langc/token"
)

// scanPipeBlock scans a `|`/`$|` pipe-block string: the pipe must be
// followed by a newline, after which every subsequently more-indented line
// is included verbatim (with common leading whitespace stripped) until a
// line dedents back to the block's own indentation or less (spec.md §4.B).
func (l *Lexer) scanPipeBlock(startPos token.Position, interpolated bool) token.Token {
	for l.peekRune() == ' ' || l.peekRune() == '\t' {
		l.in.advance()
	}
	if l.peekRune() != '\n' && l.peekRune() != '\r' && !l.in.eof() {
		return l.errorTokenAt(startPos, "pipe block string requires newline after '|'")
	}
	if l.peekRune() == '\r' {
		l.in.advance()
	}
	if l.peekRune() == '\n' {
		l.in.advance()
		l.line++
	}

	baseIndent := l.indent[len(l.indent)-1]

	type pipeLine struct {
		text    string
		indent  int
		isBlank bool
	}
	var lines []pipeLine
	minContentIndent := -1

	for !l.in.eof() {
		lineStart := l.in.pos
		lineIndent, _, _ := l.measureIndentWidth()
		isBlank := l.peekRune() == '\n' || l.peekRune() == '\r' || l.in.eof()

		if !isBlank && lineIndent <= baseIndent {
			l.in.pos = lineStart
			break
		}

		contentStart := l.in.pos
		for !l.in.eof() && l.peekRune() != '\n' && l.peekRune() != '\r' {
			l.in.advance()
		}
		content := string(l.in.data[contentStart:l.in.pos])

		lines = append(lines, pipeLine{text: content, indent: valueOr(isBlank, 0, lineIndent), isBlank: isBlank})
		if !isBlank && (minContentIndent == -1 || lineIndent < minContentIndent) {
			minContentIndent = lineIndent
		}

		if l.peekRune() == '\r' {
			l.in.advance()
		}
		if l.peekRune() == '\n' {
			l.in.advance()
			l.line++
		}
	}

	if len(lines) == 0 || minContentIndent == -1 {
		minContentIndent = baseIndent + 1
	}

	var buf strings.Builder
	for _, ln := range lines {
		if ln.isBlank {
			buf.WriteByte('\n')
			continue
		}
		if rel := ln.indent - minContentIndent; rel > 0 {
			buf.WriteString(strings.Repeat(" ", rel))
		}
		buf.WriteString(ln.text)
		buf.WriteByte('\n')
	}

	l.atLineStart = true

	kind := token.STRING_LIT
	if interpolated {
		kind = token.INTERP_STRING_LIT
	}
	return l.emit(token.Token{Kind: kind, Text: buf.String(), Pos: startPos, Literal: token.Literal{
		Kind: token.StringLiteral, Str: buf.String(),
	}})
}

func valueOr(cond bool, ifTrue, ifFalse int) int {
	if cond {
		return ifTrue
	}
	return ifFalse
}
