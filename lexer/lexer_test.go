package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langc/langc/lexer"
	"github.com/langc/langc/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexIdentifiersAndKeywords(t *testing.T) {
	l := lexer.New("t.sn", []byte("foo var val fn bar32"))
	toks := l.All()
	require.Empty(t, l.Errors())
	assert.Equal(t, []token.Kind{
		token.IDENT, token.VAR, token.VAL, token.FN, token.IDENT, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "foo", toks[0].Text)
	assert.Equal(t, "bar32", toks[4].Text)
}

func TestLexIntegerSuffixes(t *testing.T) {
	cases := []struct {
		src    string
		suffix token.NumSuffix
		value  int64
	}{
		{"42", token.NoSuffix, 42},
		{"42l", token.SuffixLong, 42},
		{"42L", token.SuffixLong, 42},
		{"255b", token.SuffixByte, 255},
		{"42u", token.SuffixUint, 42},
		{"42u32", token.SuffixUint32, 42},
		{"42i32", token.SuffixInt32, 42},
		{"0x2a", token.NoSuffix, 42},
		{"0b101010", token.NoSuffix, 42},
		{"0o52", token.NoSuffix, 42},
	}
	for _, c := range cases {
		l := lexer.New("t.sn", []byte(c.src))
		toks := l.All()
		require.Emptyf(t, l.Errors(), "source %q", c.src)
		require.Len(t, toks, 2)
		assert.Equal(t, token.INT_LIT, toks[0].Kind, c.src)
		assert.Equal(t, c.value, toks[0].Literal.Int, c.src)
		assert.Equal(t, c.suffix, toks[0].Literal.Suffix, c.src)
	}
}

func TestLexBinaryPrefixVsByteSuffix(t *testing.T) {
	// "0b" not followed by a 0 or 1 digit is not a binary prefix: the
	// 'b' is the byte suffix on the literal "0".
	l := lexer.New("t.sn", []byte("0b"))
	toks := l.All()
	require.Empty(t, l.Errors())
	require.Len(t, toks, 2)
	assert.Equal(t, token.INT_LIT, toks[0].Kind)
	assert.Equal(t, int64(0), toks[0].Literal.Int)
	assert.Equal(t, token.SuffixByte, toks[0].Literal.Suffix)
}

func TestLexFloatLiterals(t *testing.T) {
	cases := []struct {
		src    string
		suffix token.NumSuffix
		value  float64
	}{
		{"3.5", token.NoSuffix, 3.5},
		{"3.5f", token.SuffixFloat, 3.5},
		{"3.5d", token.SuffixDouble, 3.5},
	}
	for _, c := range cases {
		l := lexer.New("t.sn", []byte(c.src))
		toks := l.All()
		require.Emptyf(t, l.Errors(), "source %q", c.src)
		require.Len(t, toks, 2)
		assert.Equal(t, token.FLOAT_LIT, toks[0].Kind, c.src)
		assert.InDelta(t, c.value, toks[0].Literal.Double, 1e-9, c.src)
		assert.Equal(t, c.suffix, toks[0].Literal.Suffix, c.src)
	}
}

func TestLexStringEscapes(t *testing.T) {
	l := lexer.New("t.sn", []byte(`"a\nb\tc\"d\x41"`))
	toks := l.All()
	require.Empty(t, l.Errors())
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING_LIT, toks[0].Kind)
	assert.Equal(t, "a\nb\tc\"dA", toks[0].Literal.Str)
}

func TestLexInterpolatedStringKeepsBracesVerbatim(t *testing.T) {
	l := lexer.New("t.sn", []byte(`$"count = {n + 1:05d}!"`))
	toks := l.All()
	require.Empty(t, l.Errors())
	require.Len(t, toks, 2)
	assert.Equal(t, token.INTERP_STRING_LIT, toks[0].Kind)
	assert.Equal(t, "count = {n + 1:05d}!", toks[0].Literal.Str)
}

func TestLexInterpolatedStringWithNestedString(t *testing.T) {
	l := lexer.New("t.sn", []byte(`$"{f(\"x\")}"`))
	toks := l.All()
	require.Empty(t, l.Errors())
	require.Len(t, toks, 2)
	assert.Equal(t, token.INTERP_STRING_LIT, toks[0].Kind)
	assert.Equal(t, `{f("x")}`, toks[0].Literal.Str)
}

func TestLexCharLiteral(t *testing.T) {
	l := lexer.New("t.sn", []byte(`'a' '\n' '\x41'`))
	toks := l.All()
	require.Empty(t, l.Errors())
	require.Len(t, toks, 4)
	assert.Equal(t, byte('a'), toks[0].Literal.Char)
	assert.Equal(t, byte('\n'), toks[1].Literal.Char)
	assert.Equal(t, byte('A'), toks[2].Literal.Char)
}

func TestLexIndentation(t *testing.T) {
	src := "fn f =>\n  var x = 1\n  if x =>\n    return x\nvar y = 2\n"
	l := lexer.New("t.sn", []byte(src))
	toks := l.All()
	require.Empty(t, l.Errors())
	got := kinds(toks)
	assert.Contains(t, got, token.INDENT)
	assert.Contains(t, got, token.DEDENT)
	// two INDENTs (into the fn body, then into the if body) must be matched
	// by two DEDENTs before the trailing var decl.
	var indents, dedents int
	for _, k := range got {
		if k == token.INDENT {
			indents++
		}
		if k == token.DEDENT {
			dedents++
		}
	}
	assert.Equal(t, indents, dedents)
}

func TestLexMixedTabsAndSpacesIsAnError(t *testing.T) {
	l := lexer.New("t.sn", []byte("fn f =>\n \tvar x = 1\n"))
	_ = l.All()
	require.NotEmpty(t, l.Errors())
}

func TestLexPipeBlockStripsCommonIndent(t *testing.T) {
	src := "val s = |\n    line one\n    line two\n      indented more\nvar x = 1\n"
	l := lexer.New("t.sn", []byte(src))
	toks := l.All()
	require.Empty(t, l.Errors())
	var pipeTok token.Token
	for _, tok := range toks {
		if tok.Kind == token.STRING_LIT {
			pipeTok = tok
			break
		}
	}
	require.NotZero(t, pipeTok.Kind)
	assert.Equal(t, "line one\nline two\n  indented more\n", pipeTok.Literal.Str)
}

func TestLexOperators(t *testing.T) {
	l := lexer.New("t.sn", []byte("+ - * / % == != <= >= && || ++ -- => ... .. ."))
	toks := l.All()
	require.Empty(t, l.Errors())
	assert.Equal(t, []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ_EQ, token.BANG_EQ, token.LT_EQ, token.GT_EQ, token.AND, token.OR,
		token.PLUS_PLUS, token.MINUS_MINUS, token.FAT_ARROW,
		token.DOT_DOT_DOT, token.DOT_DOT, token.DOT, token.EOF,
	}, kinds(toks))
}
