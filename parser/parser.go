// Package parser implements a hand-written recursive-descent parser over
// the Language's indentation-delimited grammar. Where protocompile's parser
// is generated from a yacc grammar, this one cannot be: INDENT/DEDENT
// tokens make the grammar not context-free in the way yacc wants, so each
// production is a plain Go function in the same per-rule shape protocompile
// uses, just hand-written instead of generated.
package parser

import (
	"fmt"

	"github.com/langc/langc/ast"
	"github.com/langc/langc/lexer"
	"github.com/langc/langc/token"
)

// Parser consumes a token slice (typically from lexer.Lexer.All) and builds
// an AST using the construct.go node library.
type Parser struct {
	toks []token.Token
	pos  int
	errs []error
}

// Parse lexes src and parses it into a Module.
func Parse(filename string, src []byte) (*ast.Module, []error) {
	l := lexer.New(filename, src)
	toks := l.All()
	p := &Parser{toks: toks, errs: append([]error(nil), l.Errors()...)}
	mod := &ast.Module{Path: filename}
	for !p.atEOF() {
		p.skipNewlines()
		if p.atEOF() {
			break
		}
		stmt := p.parseTopLevelStmt()
		if stmt != nil {
			mod.Stmts = append(mod.Stmts, stmt)
		}
	}
	return mod, p.errs
}

func (p *Parser) atEOF() bool { return p.peek().Kind == token.EOF }

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

func (p *Parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) match(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind) token.Token {
	if tok, ok := p.match(k); ok {
		return tok
	}
	p.errorf("expected %s, found %s", k, p.peek().Kind)
	return p.peek()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, fmt.Errorf("%s: %s", p.peek().Pos, fmt.Sprintf(format, args...)))
}

// syncToNextStmt advances past tokens until a point a new statement could
// plausibly start, so one parse error does not cascade into unrelated
// follow-on errors (the parser's analogue to the lexer's per-line recovery).
func (p *Parser) syncToNextStmt() {
	for !p.atEOF() {
		switch p.peek().Kind {
		case token.NEWLINE, token.DEDENT:
			p.advance()
			return
		}
		p.advance()
	}
}

func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

// parseBlock parses an INDENT-delimited sequence of statements: either a
// single `=>` fat-arrow statement on one line, or an indented block. The
// NEWLINE ending the `=>` line always precedes the block's INDENT (or, for
// a single-line block, the statement itself), so it is skipped first.
func (p *Parser) parseBlock() ast.Block {
	p.skipNewlines()
	if _, ok := p.match(token.INDENT); ok {
		var b ast.Block
		for !p.check(token.DEDENT) && !p.atEOF() {
			p.skipNewlines()
			if p.check(token.DEDENT) || p.atEOF() {
				break
			}
			if stmt := p.parseStmt(); stmt != nil {
				b.Stmts = append(b.Stmts, stmt)
			}
		}
		p.match(token.DEDENT)
		return b
	}
	// Single-statement block on the same line as `=>`.
	var b ast.Block
	if stmt := p.parseStmt(); stmt != nil {
		b.Stmts = append(b.Stmts, stmt)
	}
	return b
}

func (p *Parser) parseTopLevelStmt() ast.Stmt {
	switch p.peek().Kind {
	case token.IMPORT:
		return p.parseImport()
	case token.STRUCT:
		return p.parseStructDecl()
	case token.PRIVATE, token.SHARED, token.NATIVE:
		return p.parseFnDeclWithModifier()
	case token.FN:
		p.advance()
		return p.parseFnDecl(ast.ModShared)
	default:
		return p.parseStmt()
	}
}

func (p *Parser) parseImport() ast.Stmt {
	tok := p.advance() // 'import'
	pathTok := p.expect(token.STRING_LIT)
	return ast.NewImportStmt(tok, pathTok.Literal.Str)
}

func (p *Parser) parseFnDeclWithModifier() ast.Stmt {
	modTok := p.advance()
	mod := ast.ModPrivate
	switch modTok.Kind {
	case token.SHARED:
		mod = ast.ModShared
	case token.NATIVE:
		mod = ast.ModNative
	}
	p.expect(token.FN)
	return p.parseFnDecl(mod)
}

func (p *Parser) parseFnDecl(mod ast.Modifier) ast.Stmt {
	tok := p.peek()
	name := p.expect(token.IDENT).Text
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.check(token.RPAREN) && !p.atEOF() {
		pname := p.expect(token.IDENT).Text
		p.expect(token.COLON)
		ptyp := p.parseType()
		params = append(params, ast.Param{Name: pname, Type: ptyp})
		if _, ok := p.match(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RPAREN)
	var result *ast.Type
	if _, ok := p.match(token.COLON); ok {
		result = p.parseType()
	}
	p.expect(token.FAT_ARROW)
	body := p.parseBlock()
	return ast.NewFnDeclStmt(tok, name, params, result, body, mod)
}

func (p *Parser) parseStructDecl() ast.Stmt {
	tok := p.advance() // 'struct'
	flavor := ast.StructRegular
	switch {
	case p.check(token.NATIVE):
		p.advance()
		flavor = ast.StructNative
	case p.check(token.PACKED):
		p.advance()
		flavor = ast.StructPacked
	}
	name := p.expect(token.IDENT).Text
	p.expect(token.FAT_ARROW)
	p.skipNewlines()

	var fields []ast.StructFieldDecl
	var statics []ast.StaticFieldDecl
	if _, ok := p.match(token.INDENT); ok {
		for !p.check(token.DEDENT) && !p.atEOF() {
			p.skipNewlines()
			if p.check(token.DEDENT) || p.atEOF() {
				break
			}
			if _, ok := p.match(token.STATIC); ok {
				sname := p.expect(token.IDENT).Text
				p.expect(token.COLON)
				styp := p.parseType()
				var sinit ast.Expr
				if _, ok := p.match(token.EQ); ok {
					sinit = p.parseExpr()
				}
				statics = append(statics, ast.StaticFieldDecl{Name: sname, Type: styp, Init: sinit})
				p.skipNewlines()
				continue
			}
			fname := p.expect(token.IDENT).Text
			p.expect(token.COLON)
			ftyp := p.parseType()
			var def ast.Expr
			if _, ok := p.match(token.EQ); ok {
				def = p.parseExpr()
			}
			fields = append(fields, ast.StructFieldDecl{Name: fname, Type: ftyp, Default: def})
			p.skipNewlines()
		}
		p.match(token.DEDENT)
	}
	decl := ast.NewStructDeclStmt(tok, name, fields, flavor)
	decl.Static = statics
	return decl
}

// parseType parses a type reference: a primitive keyword, an identifier
// (struct name), `*T` (pointer), `T[]` (array, postfix), or `fn(T,...): R`.
func (p *Parser) parseType() *ast.Type {
	var base *ast.Type
	switch p.peek().Kind {
	case token.STAR:
		p.advance()
		return ast.NewPointer(p.parseType())
	case token.FN:
		p.advance()
		p.expect(token.LPAREN)
		var params []*ast.Type
		for !p.check(token.RPAREN) && !p.atEOF() {
			params = append(params, p.parseType())
			if _, ok := p.match(token.COMMA); !ok {
				break
			}
		}
		p.expect(token.RPAREN)
		var result *ast.Type
		if _, ok := p.match(token.COLON); ok {
			result = p.parseType()
		}
		base = ast.NewFunction(params, result)
	default:
		tok := p.advance()
		base = primitiveType(tok.Kind)
		if base == nil {
			// A named struct type; layout is resolved later by sema, which
			// has the declaration table this parser does not.
			base = ast.NewStruct(&ast.StructType{Name: tok.Text})
		}
	}
	for p.check(token.LBRACKET) {
		p.advance()
		p.expect(token.RBRACKET)
		base = ast.NewArray(base)
	}
	return base
}

func primitiveType(k token.Kind) *ast.Type {
	switch k {
	case token.BYTE:
		return ast.TypeByte
	case token.INT:
		return ast.TypeInt
	case token.INT32:
		return ast.TypeInt32
	case token.UINT:
		return ast.TypeUint
	case token.UINT32:
		return ast.TypeUint32
	case token.LONG:
		return ast.TypeLong
	case token.FLOAT:
		return ast.TypeFloat
	case token.DOUBLE:
		return ast.TypeDouble
	case token.BOOL:
		return ast.TypeBool
	case token.CHAR:
		return ast.TypeChar
	case token.STR:
		return ast.TypeString
	case token.ANY:
		return ast.TypeAny
	case token.VOID:
		return ast.TypeVoid
	case token.OPAQUE:
		return ast.TypeOpaque
	default:
		return nil
	}
}
