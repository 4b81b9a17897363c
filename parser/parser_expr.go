package parser

import (
	"github.com/langc/langc/ast"
	"github.com/langc/langc/token"
)

// parseExpr is the entry point for expression parsing; precedence rises from
// logical-or down to unary/postfix, mirroring the operator table in
// lexer/lexer_operator.go (spec.md §3).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(token.OR) {
		tok := p.advance()
		left = ast.NewBinaryExpr(tok, ast.OpOr, left, p.parseAnd())
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(token.AND) {
		tok := p.advance()
		left = ast.NewBinaryExpr(tok, ast.OpAnd, left, p.parseEquality())
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.EQ_EQ:
			op = ast.OpEq
		case token.BANG_EQ:
			op = ast.OpNe
		default:
			return left
		}
		tok := p.advance()
		left = ast.NewBinaryExpr(tok, op, left, p.parseRelational())
	}
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseBitOr()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.LT:
			op = ast.OpLt
		case token.LT_EQ:
			op = ast.OpLe
		case token.GT:
			op = ast.OpGt
		case token.GT_EQ:
			op = ast.OpGe
		default:
			return left
		}
		tok := p.advance()
		left = ast.NewBinaryExpr(tok, op, left, p.parseBitOr())
	}
}

func (p *Parser) parseBitOr() ast.Expr {
	left := p.parseBitXor()
	for p.check(token.PIPE) {
		tok := p.advance()
		left = ast.NewBinaryExpr(tok, ast.OpBitOr, left, p.parseBitXor())
	}
	return left
}

func (p *Parser) parseBitXor() ast.Expr {
	left := p.parseBitAnd()
	for p.check(token.CARET) {
		tok := p.advance()
		left = ast.NewBinaryExpr(tok, ast.OpBitXor, left, p.parseBitAnd())
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Expr {
	left := p.parseShift()
	for p.check(token.AMP) {
		tok := p.advance()
		left = ast.NewBinaryExpr(tok, ast.OpBitAnd, left, p.parseShift())
	}
	return left
}

func (p *Parser) parseShift() ast.Expr {
	left := p.parseRange()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.SHL:
			op = ast.OpShl
		case token.SHR:
			op = ast.OpShr
		default:
			return left
		}
		tok := p.advance()
		left = ast.NewBinaryExpr(tok, op, left, p.parseRange())
	}
}

// parseRange handles `a..b`, binding looser than arithmetic so `a+1..b-1`
// parses as expected.
func (p *Parser) parseRange() ast.Expr {
	left := p.parseAdditive()
	if tok, ok := p.match(token.DOT_DOT); ok {
		right := p.parseAdditive()
		return ast.NewRangeExpr(tok, left, right)
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.PLUS:
			op = ast.OpAdd
		case token.MINUS:
			op = ast.OpSub
		default:
			return left
		}
		tok := p.advance()
		left = ast.NewBinaryExpr(tok, op, left, p.parseMultiplicative())
	}
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseAsIs()
	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.STAR:
			op = ast.OpMul
		case token.SLASH:
			op = ast.OpDiv
		case token.PERCENT:
			op = ast.OpMod
		default:
			return left
		}
		tok := p.advance()
		left = ast.NewBinaryExpr(tok, op, left, p.parseAsIs())
	}
}

// parseAsIs binds `as`/`is` tighter than arithmetic, so `x + 1 as long` reads
// as `x + (1 as long)`.
func (p *Parser) parseAsIs() ast.Expr {
	expr := p.parseUnary()
	for {
		switch p.peek().Kind {
		case token.AS:
			tok := p.advance()
			switch {
			case p.check(token.VAL):
				p.advance()
				expr = ast.NewAsExpr(tok, expr, nil, ast.QualVal)
			case p.check(token.REF):
				p.advance()
				expr = ast.NewAsExpr(tok, expr, nil, ast.QualRef)
			default:
				expr = ast.NewAsExpr(tok, expr, p.parseType(), ast.QualNone)
			}
		case token.IS:
			tok := p.advance()
			expr = ast.NewIsExpr(tok, expr, p.parseType())
		default:
			return expr
		}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.peek().Kind {
	case token.MINUS:
		tok := p.advance()
		return ast.NewUnaryExpr(tok, ast.OpNeg, p.parseUnary())
	case token.NOT:
		tok := p.advance()
		return ast.NewUnaryExpr(tok, ast.OpNot, p.parseUnary())
	case token.TILDE:
		tok := p.advance()
		return ast.NewUnaryExpr(tok, ast.OpBitNot, p.parseUnary())
	case token.DOT_DOT_DOT:
		tok := p.advance()
		return ast.NewSpreadExpr(tok, p.parseUnary())
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case token.DOT:
			p.advance()
			field := p.expect(token.IDENT)
			expr = ast.NewMemberAccessExpr(field, expr, field.Text)
		case token.LPAREN:
			tok := p.advance()
			var args []ast.Expr
			for !p.check(token.RPAREN) && !p.atEOF() {
				args = append(args, p.parseExpr())
				if _, ok := p.match(token.COMMA); !ok {
					break
				}
			}
			p.expect(token.RPAREN)
			expr = ast.NewCallExpr(tok, expr, args)
		case token.LBRACKET:
			expr = p.parseIndexOrSlice(expr)
		case token.PLUS_PLUS:
			tok := p.advance()
			expr = ast.NewIncDecExpr(tok, expr, true)
		case token.MINUS_MINUS:
			tok := p.advance()
			expr = ast.NewIncDecExpr(tok, expr, false)
		default:
			return expr
		}
	}
}

// parseIndexOrSlice disambiguates `a[i]` from `a[s..e]`/`a[s..e:step]` by
// looking for a `..` after the first sub-expression.
func (p *Parser) parseIndexOrSlice(base ast.Expr) ast.Expr {
	tok := p.advance() // '['
	if p.check(token.RBRACKET) {
		p.advance()
		return ast.NewSliceExpr(tok, base, nil, nil, nil)
	}

	var start ast.Expr
	if !p.check(token.DOT_DOT) {
		start = p.parseExpr()
	}
	if _, ok := p.match(token.DOT_DOT); ok {
		var end, step ast.Expr
		if !p.check(token.COLON) && !p.check(token.RBRACKET) {
			end = p.parseExpr()
		}
		if _, ok := p.match(token.COLON); ok {
			step = p.parseExpr()
		}
		p.expect(token.RBRACKET)
		return ast.NewSliceExpr(tok, base, start, end, step)
	}
	p.expect(token.RBRACKET)
	return ast.NewIndexExpr(tok, base, start)
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.INT_LIT:
		p.advance()
		return ast.NewIntLit(tok, tok.Literal.Int, tok.Literal.Suffix)
	case token.FLOAT_LIT:
		p.advance()
		lit := ast.NewDoubleLit(tok, tok.Literal.Double, true)
		lit.FloatSuffix = tok.Literal.Suffix == token.SuffixFloat
		return lit
	case token.TRUE:
		p.advance()
		return ast.NewBoolLit(tok, true)
	case token.FALSE:
		p.advance()
		return ast.NewBoolLit(tok, false)
	case token.CHAR_LIT:
		p.advance()
		return ast.NewCharLit(tok, tok.Literal.Char)
	case token.NIL:
		p.advance()
		return ast.NewNilLit(tok)
	case token.STRING_LIT:
		p.advance()
		return ast.NewStringLit(tok, tok.Literal.Str)
	case token.INTERP_STRING_LIT:
		p.advance()
		return ast.NewInterpStringLit(tok, p.parseInterpParts(tok))
	case token.SIZEOF:
		p.advance()
		p.expect(token.LPAREN)
		typ := p.parseType()
		p.expect(token.RPAREN)
		return ast.NewSizeofExpr(tok, typ)
	case token.TYPEOF:
		p.advance()
		p.expect(token.LPAREN)
		operand := p.parseExpr()
		p.expect(token.RPAREN)
		return ast.NewTypeofExpr(tok, operand)
	case token.FN:
		return p.parseLambda()
	case token.LPAREN:
		p.advance()
		expr := p.parseExpr()
		p.expect(token.RPAREN)
		return expr
	case token.IDENT:
		p.advance()
		if p.check(token.LBRACE) {
			return p.parseStructLiteral(tok)
		}
		return ast.NewIdent(tok, tok.Text)
	default:
		p.advance()
		p.errorf("unexpected token %s in expression", tok.Kind)
		return ast.NewNilLit(tok)
	}
}

func (p *Parser) parseLambda() ast.Expr {
	tok := p.advance() // 'fn'
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
	// A body that is a single expression is the lambda's result value.
	if len(body.Stmts) == 1 && result != nil && result.Kind != ast.KindVoid {
		if es, ok := body.Stmts[0].(*ast.ExprStmt); ok {
			body.Stmts[0] = ast.NewReturnStmt(tok, es.Expr)
		}
	}
	return ast.NewLambdaExpr(tok, params, result, body.Stmts)
}

func (p *Parser) parseStructLiteral(nameTok token.Token) ast.Expr {
	p.expect(token.LBRACE)
	var fields []ast.FieldInitializer
	for !p.check(token.RBRACE) && !p.atEOF() {
		fname := p.expect(token.IDENT).Text
		p.expect(token.COLON)
		value := p.parseExpr()
		fields = append(fields, ast.FieldInitializer{Name: fname, Value: value})
		if _, ok := p.match(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RBRACE)
	return ast.NewStructLiteralExpr(nameTok, nameTok.Text, fields)
}
