package parser

import "github.com/langc/langc/ast"
import "github.com/langc/langc/token"

func (p *Parser) parseStmt() ast.Stmt {
	var s ast.Stmt
	switch p.peek().Kind {
	case token.VAR, token.VAL:
		s = p.parseVarDecl()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseForIn()
	case token.BREAK:
		s = ast.NewBreakStmt(p.advance())
	case token.CONTINUE:
		s = ast.NewContinueStmt(p.advance())
	case token.RETURN:
		s = p.parseReturn()
	case token.MATCH:
		return p.parseMatch()
	case token.PRIVATE:
		// `private` is overloaded: a function modifier (`private fn f()...`)
		// or an arena block (`private => ...`). Disambiguate on the next
		// token rather than the keyword itself.
		if p.peekAt(1).Kind == token.FN {
			return p.parseFnDeclWithModifier()
		}
		return p.parsePrivateBlock()
	case token.LOCK:
		return p.parseLock()
	case token.SYNC:
		return p.parseSync()
	case token.FN, token.SHARED, token.NATIVE:
		return p.parseTopLevelStmt()
	case token.STRUCT:
		return p.parseStructDecl()
	default:
		s = p.parseExprOrAssignStmt()
	}
	p.skipNewlines()
	return s
}

func (p *Parser) parseVarDecl() ast.Stmt {
	tok := p.advance()
	kind := ast.DeclVar
	if tok.Kind == token.VAL {
		kind = ast.DeclVal
	}
	name := p.expect(token.IDENT).Text
	var typ *ast.Type
	if _, ok := p.match(token.COLON); ok {
		typ = p.parseType()
	}
	var init ast.Expr
	if _, ok := p.match(token.EQ); ok {
		init = p.parseExpr()
	}
	decl := ast.NewVarDeclStmt(tok, kind, name, typ, init)
	if _, ok := p.match(token.AS); ok {
		p.expect(token.REF)
		decl.AsRef = true
	}
	return decl
}

func (p *Parser) parseReturn() ast.Stmt {
	tok := p.advance()
	if p.check(token.NEWLINE) || p.check(token.DEDENT) || p.atEOF() {
		return ast.NewReturnStmt(tok, nil)
	}
	return ast.NewReturnStmt(tok, p.parseExpr())
}

func (p *Parser) parseIf() ast.Stmt {
	tok := p.advance() // 'if'
	cond := p.parseExpr()
	p.expect(token.FAT_ARROW)
	then := p.parseBlock()
	var els *ast.Block
	p.skipNewlines()
	if _, ok := p.match(token.ELSE); ok {
		if p.check(token.IF) {
			b := ast.Block{Stmts: []ast.Stmt{p.parseIf()}}
			els = &b
		} else {
			p.expect(token.FAT_ARROW)
			b := p.parseBlock()
			els = &b
		}
	}
	return ast.NewIfStmt(tok, cond, then, els)
}

func (p *Parser) parseWhile() ast.Stmt {
	tok := p.advance()
	cond := p.parseExpr()
	p.expect(token.FAT_ARROW)
	body := p.parseBlock()
	return ast.NewWhileStmt(tok, cond, body)
}

func (p *Parser) parseForIn() ast.Stmt {
	tok := p.advance()
	name := p.expect(token.IDENT).Text
	p.expect(token.IN)
	iterable := p.parseExpr()
	p.expect(token.FAT_ARROW)
	body := p.parseBlock()
	return ast.NewForInStmt(tok, name, iterable, body)
}

func (p *Parser) parseMatch() ast.Stmt {
	tok := p.advance()
	subject := p.parseExpr()
	p.expect(token.FAT_ARROW)
	p.skipNewlines()
	var arms []ast.MatchArm
	if _, ok := p.match(token.INDENT); ok {
		for !p.check(token.DEDENT) && !p.atEOF() {
			p.skipNewlines()
			if p.check(token.DEDENT) || p.atEOF() {
				break
			}
			var pattern ast.Expr
			if !p.check(token.ELSE) {
				pattern = p.parseExpr()
			} else {
				p.advance()
			}
			p.expect(token.FAT_ARROW)
			body := p.parseBlock()
			arms = append(arms, ast.MatchArm{Pattern: pattern, Body: body})
			p.skipNewlines()
		}
		p.match(token.DEDENT)
	}
	return ast.NewMatchStmt(tok, subject, arms)
}

func (p *Parser) parsePrivateBlock() ast.Stmt {
	tok := p.advance()
	p.expect(token.FAT_ARROW)
	body := p.parseBlock()
	return ast.NewPrivateBlockStmt(tok, body)
}

func (p *Parser) parseLock() ast.Stmt {
	tok := p.advance()
	p.expect(token.LPAREN)
	handle := p.parseExpr()
	p.expect(token.RPAREN)
	p.expect(token.FAT_ARROW)
	body := p.parseBlock()
	return ast.NewLockStmt(tok, handle, body)
}

func (p *Parser) parseSync() ast.Stmt {
	tok := p.advance()
	p.expect(token.LPAREN)
	var threads []ast.Expr
	for !p.check(token.RPAREN) && !p.atEOF() {
		threads = append(threads, p.parseExpr())
		if _, ok := p.match(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.FAT_ARROW)
	body := p.parseBlock()
	return ast.NewSyncStmt(tok, threads, body)
}

var assignOps = map[token.Kind]ast.AssignOp{
	token.EQ:         ast.AssignSet,
	token.PLUS_EQ:    ast.AssignAdd,
	token.MINUS_EQ:   ast.AssignSub,
	token.STAR_EQ:    ast.AssignMul,
	token.SLASH_EQ:   ast.AssignDiv,
	token.PERCENT_EQ: ast.AssignMod,
}

func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	tok := p.peek()
	expr := p.parseExpr()
	if op, ok := assignOps[p.peek().Kind]; ok {
		p.advance()
		value := p.parseExpr()
		return ast.NewAssignStmt(tok, expr, op, value)
	}
	return ast.NewExprStmt(tok, expr)
}
