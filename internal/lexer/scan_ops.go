package lexer

import (
	"cdlc/internal/diag"
	"cdlc/internal/token"
)

var singleOps = map[byte]token.Kind{
	'[': token.LBracket,
	']': token.RBracket,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'<': token.Lt,
	'>': token.Gt,
	',': token.Comma,
	';': token.Semicolon,
	':': token.Colon,
	'*': token.Star,
	'&': token.Amp,
	'=': token.Assign,
	'+': token.Plus,
	'-': token.Minus,
	'/': token.Slash,
	'%': token.Percent,
	'|': token.Pipe,
	'^': token.Caret,
	'~': token.Tilde,
}

// Жадность: сначала 2-символьные (::, <<, >>), затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: lx.file.Text(sp)}
	}

	switch {
	case lx.try2(':', ':'):
		return emit(token.ColonColon)
	case lx.try2('<', '<'):
		return emit(token.Shl)
	case lx.try2('>', '>'):
		return emit(token.Shr)
	}

	if k, ok := singleOps[lx.cursor.Peek()]; ok {
		lx.cursor.Bump()
		return emit(k)
	}

	// неизвестный символ: съедаем целую руну, чтобы не резать UTF-8
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unknown character "+lx.file.Text(sp))
	return emit(token.Invalid)
}
