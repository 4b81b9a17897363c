// Package lexer implements the indentation-aware tokenizer for the
// Language (spec.md §4.B). It is grounded on the rune-reader/mark-and-unread
// pattern of the teacher's parser.lexer, generalized from a yacc-driven
// proto lexer to a hand-rolled, indentation-sensitive scanner that also owns
// its tokens in a compile-time arena (spec.md §4.A).
package lexer

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/langc/langc/internal/arena"
	"github.com/langc/langc/internal/intern"
	"github.com/langc/langc/token"
)

// runeReader is a forward-only UTF-8 scanner over a byte buffer that
// supports marking a start position and later recovering the marked slice,
// exactly as the teacher's protoLex input reader does.
type runeReader struct {
	data []byte
	pos  int
	mark int
}

func (rr *runeReader) peek() (rune, int) {
	if rr.pos >= len(rr.data) {
		return 0, 0
	}
	r, sz := utf8.DecodeRune(rr.data[rr.pos:])
	return r, sz
}

func (rr *runeReader) advance() (rune, bool) {
	r, sz := rr.peek()
	if sz == 0 {
		return 0, false
	}
	rr.pos += sz
	return r, true
}

func (rr *runeReader) setMark()       { rr.mark = rr.pos }
func (rr *runeReader) marked() string { return string(rr.data[rr.mark:rr.pos]) }
func (rr *runeReader) eof() bool      { return rr.pos >= len(rr.data) }

// Lexer converts Language source text into a token stream, maintaining the
// indentation stack described in spec.md §4.B.
type Lexer struct {
	filename string
	in       *runeReader
	line     int
	lineAt   int // byte offset where the current line began
	indent   []int

	pendingDedents int
	atLineStart    bool
	parenDepth     int // unmatched (/[/{ depth; suppresses NEWLINE/INDENT/DEDENT inside, like Python
	interner       *intern.Table

	tokens    arena.Arena[token.Token]
	tokenRefs []arena.Pointer[token.Token]

	// lastRaw is a raw pointer into tokens kept during scanning to avoid a
	// tokenRefs index lookup on every emit; errorTokenAt compresses it back
	// into a re-indexable Pointer only on the (rare) error path, since that
	// is the value long-lived diagnostics should hold instead of a raw
	// pointer into the arena's backing storage.
	lastRaw *token.Token

	errs []error
}

// lexError wraps a lexical diagnostic with a compressed reference to the
// token preceding it, resolved lazily when the error is formatted rather
// than captured as a live pointer at error time.
type lexError struct {
	pos  token.Position
	msg  string
	toks *arena.Arena[token.Token]
	prev arena.Pointer[token.Token]
}

func (e *lexError) Error() string {
	if !e.prev.Nil() {
		prev := e.prev.In(e.toks)
		return fmt.Sprintf("%s: %s (after %s)", e.pos, e.msg, prev.Kind)
	}
	return fmt.Sprintf("%s: %s", e.pos, e.msg)
}

// New creates a Lexer over src. filename is used only for diagnostics.
func New(filename string, src []byte) *Lexer {
	return &Lexer{
		filename:    filename,
		in:          &runeReader{data: src},
		line:        1,
		indent:      []int{0},
		atLineStart: true,
		interner:    &intern.Table{},
	}
}

// Errors returns the accumulated lexical errors. Per spec.md §4.B, each
// failure produces a single error token and lexing resumes at the next
// line, so this can be non-empty even if Lex kept producing tokens.
func (l *Lexer) Errors() []error { return l.errs }

func (l *Lexer) pos() token.Position {
	return token.Position{File: l.filename, Line: l.line, Column: l.in.pos - l.lineAt + 1, Offset: l.in.pos}
}

func (l *Lexer) emit(tok token.Token) token.Token {
	ptr := l.tokens.New(tok)
	l.tokenRefs = append(l.tokenRefs, ptr)
	l.lastRaw = ptr.In(&l.tokens)
	return tok
}

// All lexes the entire input and returns the resulting tokens, terminated by
// a single EOF token. This is the typical entry point for the parser.
func (l *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := l.Lex()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Lex returns the next token in the stream.
func (l *Lexer) Lex() token.Token {
	if l.pendingDedents > 0 {
		l.pendingDedents--
		return l.emit(token.Token{Kind: token.DEDENT, Pos: l.pos()})
	}

	if l.atLineStart {
		if l.parenDepth > 0 {
			// Inside an unclosed (/[/{, a line break is not significant: no
			// INDENT/DEDENT, and the '\n' case below stays silent too.
			l.atLineStart = false
		} else if tok, handled := l.handleIndentation(); handled {
			return tok
		}
	}

	l.skipInlineWhitespace()

	if l.in.eof() {
		if len(l.indent) > 1 {
			l.indent = l.indent[:len(l.indent)-1]
			return l.emit(token.Token{Kind: token.DEDENT, Pos: l.pos()})
		}
		return l.emit(token.Token{Kind: token.EOF, Pos: l.pos()})
	}

	startPos := l.pos()
	l.in.setMark()
	r, _ := l.in.peek()

	switch {
	case r == '\n':
		l.in.advance()
		l.advanceLine()
		if l.parenDepth > 0 {
			return l.Lex()
		}
		return l.emit(token.Token{Kind: token.NEWLINE, Pos: startPos})
	case r == '\r':
		l.in.advance()
		return l.Lex()
	case r == '#':
		l.skipLineComment()
		return l.Lex()
	case isDigit(r):
		return l.scanNumber(startPos)
	case r == '"':
		return l.scanString(startPos, false)
	case r == '$':
		return l.scanDollar(startPos)
	case r == '|':
		if rest := bytes.TrimLeft(l.in.data[l.in.pos+1:], " \t"); len(rest) == 0 || rest[0] == '\n' || rest[0] == '\r' {
			l.in.advance()
			return l.scanPipeBlock(startPos, false)
		}
		return l.scanOperator(startPos)
	case r == '\'':
		return l.scanChar(startPos)
	case isIdentStart(r):
		return l.scanIdent(startPos)
	default:
		return l.scanOperator(startPos)
	}
}

func (l *Lexer) advanceLine() {
	l.line++
	l.lineAt = l.in.pos
	l.atLineStart = true
}

func (l *Lexer) skipInlineWhitespace() {
	for {
		r, sz := l.in.peek()
		if sz == 0 {
			return
		}
		if r == ' ' || r == '\t' {
			l.in.advance()
			continue
		}
		return
	}
}

func (l *Lexer) skipLineComment() {
	for {
		r, sz := l.in.peek()
		if sz == 0 || r == '\n' {
			return
		}
		l.in.advance()
	}
}

// handleIndentation measures the current line's leading whitespace and
// emits INDENT/DEDENT tokens per spec.md §4.B. It returns handled=false (and
// leaves atLineStart cleared) once the line's content token is ready to be
// scanned normally.
func (l *Lexer) handleIndentation() (token.Token, bool) {
	start := l.in.pos
	width, usedTabs, usedSpaces := l.measureIndentWidth()
	l.atLineStart = false

	r, sz := l.in.peek()
	if sz == 0 || r == '\n' || r == '\r' || r == '#' {
		// Blank or comment-only line: indentation is not significant.
		return token.Token{}, false
	}

	if usedTabs && usedSpaces {
		return l.errorTokenAt(l.posAt(start), "inconsistent use of tabs and spaces in indentation"), true
	}

	top := l.indent[len(l.indent)-1]
	switch {
	case width > top:
		l.indent = append(l.indent, width)
		return l.emit(token.Token{Kind: token.INDENT, Pos: l.pos()}), true
	case width < top:
		count := 0
		for len(l.indent) > 1 && l.indent[len(l.indent)-1] > width {
			l.indent = l.indent[:len(l.indent)-1]
			count++
		}
		if l.indent[len(l.indent)-1] != width {
			return l.errorTokenAt(l.posAt(start), "unindent does not match any outer indentation level"), true
		}
		l.pendingDedents = count - 1
		return l.emit(token.Token{Kind: token.DEDENT, Pos: l.pos()}), true
	default:
		return token.Token{}, false
	}
}

// measureIndentWidth consumes leading spaces/tabs at the reader's current
// position and returns their combined display width (tabs round up to the
// next multiple of 8), plus whether each kind was used. It is shared by
// handleIndentation and scanPipeBlock, which both need to compare a line's
// leading whitespace against the indentation stack.
func (l *Lexer) measureIndentWidth() (width int, usedTabs, usedSpaces bool) {
	for {
		r, _ := l.in.peek()
		switch r {
		case ' ':
			usedSpaces = true
			width++
			l.in.advance()
		case '\t':
			usedTabs = true
			width += 8 - (width % 8)
			l.in.advance()
		default:
			return width, usedTabs, usedSpaces
		}
	}
}

func (l *Lexer) posAt(offset int) token.Position {
	return token.Position{File: l.filename, Line: l.line, Column: offset - l.lineAt + 1, Offset: offset}
}

func (l *Lexer) errorTokenAt(pos token.Position, msg string) token.Token {
	var prev arena.Pointer[token.Token]
	if l.lastRaw != nil {
		prev = l.tokens.Compress(l.lastRaw)
	}
	l.errs = append(l.errs, &lexError{pos: pos, msg: msg, toks: &l.tokens, prev: prev})
	// Resume at the next line, per spec.md §4.B error recovery.
	for {
		r, sz := l.in.peek()
		if sz == 0 {
			break
		}
		if r == '\n' {
			l.in.advance()
			l.advanceLine()
			break
		}
		l.in.advance()
	}
	return l.emit(token.Token{Kind: token.ERROR, Pos: pos, Text: msg})
}

func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool   { return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') }
func isIdentStart(r rune) bool { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127 }
func isIdentCont(r rune) bool  { return isIdentStart(r) || isDigit(r) }

func (l *Lexer) scanIdent(startPos token.Position) token.Token {
	for {
		r, sz := l.in.peek()
		if sz == 0 || !isIdentCont(r) {
			break
		}
		l.in.advance()
	}
	text := l.in.marked()
	if kind, ok := token.Lookup(text); ok {
		return l.emit(token.Token{Kind: kind, Text: text, Pos: startPos})
	}
	l.interner.Intern(text)
	return l.emit(token.Token{Kind: token.IDENT, Text: text, Pos: startPos})
}

