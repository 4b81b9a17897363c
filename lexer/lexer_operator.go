package lexer

import "github.com/langc/langc/token"

// operatorTrie is an ordered list of candidate operator spellings, longest
// first, so that e.g. "..." is preferred over ".." over ".". scanOperator
// walks it greedily; Lex has already verified the current rune cannot start
// a number, identifier, string, or comment.
var operatorTrie = []struct {
	text string
	kind token.Kind
}{
	{"...", token.DOT_DOT_DOT},
	{"=>", token.FAT_ARROW},
	{"==", token.EQ_EQ},
	{"!=", token.BANG_EQ},
	{"<=", token.LT_EQ},
	{">=", token.GT_EQ},
	{"&&", token.AND},
	{"||", token.OR},
	{"<<", token.SHL},
	{">>", token.SHR},
	{"+=", token.PLUS_EQ},
	{"-=", token.MINUS_EQ},
	{"*=", token.STAR_EQ},
	{"/=", token.SLASH_EQ},
	{"%=", token.PERCENT_EQ},
	{"++", token.PLUS_PLUS},
	{"--", token.MINUS_MINUS},
	{"..", token.DOT_DOT},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.STAR},
	{"/", token.SLASH},
	{"%", token.PERCENT},
	{"<", token.LT},
	{">", token.GT},
	{"&", token.AMP},
	{"|", token.PIPE},
	{"^", token.CARET},
	{"~", token.TILDE},
	{"=", token.EQ},
	{"!", token.NOT},
	{".", token.DOT},
	{":", token.COLON},
	{",", token.COMMA},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
}

// scanOperator scans the longest operator or punctuation token starting at
// the current position.
func (l *Lexer) scanOperator(startPos token.Position) token.Token {
	remaining := l.in.data[l.in.pos:]
	for _, cand := range operatorTrie {
		if len(remaining) >= len(cand.text) && string(remaining[:len(cand.text)]) == cand.text {
			for range cand.text {
				l.in.advance()
			}
			switch cand.kind {
			case token.LPAREN, token.LBRACKET, token.LBRACE:
				l.parenDepth++
			case token.RPAREN, token.RBRACKET, token.RBRACE:
				if l.parenDepth > 0 {
					l.parenDepth--
				}
			}
			return l.emit(token.Token{Kind: cand.kind, Text: cand.text, Pos: startPos})
		}
	}
	r, _ := l.in.advance()
	return l.errorTokenAt(startPos, "unexpected character "+string(r))
}
