// Package token defines the lexical token kinds and source-position
// bookkeeping shared by the lexer, parser, and diagnostics.
package token

import "fmt"

// Kind identifies what a Token represents.
type Kind int

const (
	EOF Kind = iota
	ERROR

	INDENT
	DEDENT
	NEWLINE

	IDENT
	INT_LIT
	FLOAT_LIT
	BOOL_LIT
	CHAR_LIT
	STRING_LIT
	INTERP_STRING_LIT
	PIPE_STRING_LIT

	// Keywords.
	VAR
	VAL
	REF
	FN
	IF
	ELSE
	WHILE
	FOR
	IN
	BREAK
	CONTINUE
	RETURN
	STRUCT
	STATIC
	NATIVE
	PACKED
	PRIVATE
	SHARED
	IMPORT
	MATCH
	AS
	IS
	ANY
	VOID
	NIL
	TRUE
	FALSE
	LOCK
	SYNC
	SIZEOF
	TYPEOF
	OPAQUE

	// Primitive type keywords.
	BYTE
	INT
	INT32
	UINT
	UINT32
	LONG
	FLOAT
	DOUBLE
	BOOL
	CHAR
	STR

	// Operators and punctuation.
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	EQ_EQ
	BANG_EQ
	LT
	LT_EQ
	GT
	GT_EQ
	AND
	OR
	NOT
	AMP
	PIPE
	CARET
	TILDE
	SHL
	SHR
	EQ
	PLUS_EQ
	MINUS_EQ
	STAR_EQ
	SLASH_EQ
	PERCENT_EQ
	PLUS_PLUS
	MINUS_MINUS
	DOT
	DOT_DOT
	DOT_DOT_DOT
	COLON
	COMMA
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	FAT_ARROW // =>
)

var keywords = map[string]Kind{
	"var": VAR, "val": VAL, "ref": REF, "fn": FN, "if": IF, "else": ELSE,
	"while": WHILE, "for": FOR, "in": IN, "break": BREAK, "continue": CONTINUE,
	"return": RETURN, "struct": STRUCT, "static": STATIC, "native": NATIVE,
	"packed": PACKED, "private": PRIVATE, "shared": SHARED, "import": IMPORT, "match": MATCH,
	"as": AS, "is": IS, "any": ANY, "void": VOID, "nil": NIL, "true": TRUE,
	"false": FALSE, "lock": LOCK, "sync": SYNC, "sizeof": SIZEOF,
	"typeof": TYPEOF, "opaque": OPAQUE, "byte": BYTE, "int": INT,
	"int32": INT32, "uint": UINT, "uint32": UINT32, "long": LONG,
	"float": FLOAT, "double": DOUBLE, "bool": BOOL, "char": CHAR, "str": STR,
	"and": AND, "or": OR, "not": NOT,
}

// keywordsByLength buckets the keyword table by exact byte length, mirroring
// the lexer's "keyword-vs-identifier disambiguation by exact-length matching"
// contract (spec.md §4.B): an identifier whose length matches no keyword of
// that length is never compared against keywords of other lengths.
var keywordsByLength = func() map[int]map[string]Kind {
	m := make(map[int]map[string]Kind)
	for word, kind := range keywords {
		bucket := m[len(word)]
		if bucket == nil {
			bucket = make(map[string]Kind)
			m[len(word)] = bucket
		}
		bucket[word] = kind
	}
	return m
}()

// Lookup returns the keyword Kind for an identifier's text, or (IDENT, false)
// if it is an ordinary identifier.
func Lookup(text string) (Kind, bool) {
	bucket, ok := keywordsByLength[len(text)]
	if !ok {
		return IDENT, false
	}
	if kind, ok := bucket[text]; ok {
		return kind, true
	}
	return IDENT, false
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var kindNames = map[Kind]string{
	EOF: "EOF", ERROR: "ERROR", INDENT: "INDENT", DEDENT: "DEDENT", NEWLINE: "NEWLINE",
	IDENT: "IDENT", INT_LIT: "INT_LIT", FLOAT_LIT: "FLOAT_LIT", BOOL_LIT: "BOOL_LIT",
	CHAR_LIT: "CHAR_LIT", STRING_LIT: "STRING_LIT", INTERP_STRING_LIT: "INTERP_STRING_LIT",
	PIPE_STRING_LIT: "PIPE_STRING_LIT", FAT_ARROW: "=>",
}

// LiteralKind tags the union stored in Token.Value for literal tokens.
type LiteralKind int

const (
	NoLiteral LiteralKind = iota
	IntLiteral
	DoubleLiteral
	BoolLiteral
	CharLiteral
	StringLiteral
)

// NumSuffix records a numeric literal's trailing type suffix, e.g. `l`, `u32`.
type NumSuffix int

const (
	NoSuffix NumSuffix = iota
	SuffixLong
	SuffixByte
	SuffixUint
	SuffixUint32
	SuffixInt32
	SuffixFloat
	SuffixDouble
)

// Literal is the immutable value union carried by literal tokens (spec.md §3
// "literal-value union (int64, double, bool, char, string pointer)").
type Literal struct {
	Kind   LiteralKind
	Int    int64
	Double float64
	Bool   bool
	Char   byte
	Str    string
	Suffix NumSuffix
}

// Position is a 1-based line/column location within a named source file.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Token is an immutable lexical token. Once produced it is owned by the
// compile arena; its Text slice must never be mutated (spec.md §3).
type Token struct {
	Kind    Kind
	Text    string
	Pos     Position
	Literal Literal
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Pos)
}
