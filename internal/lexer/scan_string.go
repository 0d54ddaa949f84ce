package lexer

import (
	"cdlc/internal/diag"
	"cdlc/internal/token"
)

// scanString: "..." с escape-последовательностями; Text хранит литерал вместе с кавычками.
// Escape-последовательности декодирует потребитель (strconv.Unquote).
func (lx *Lexer) scanString() token.Token {
	return lx.scanQuoted('"', token.StringLit, diag.LexUnterminatedString, "string")
}

// scanChar: 'a', '\n', '\x41'.
func (lx *Lexer) scanChar() token.Token {
	return lx.scanQuoted('\'', token.CharLit, diag.LexUnterminatedChar, "character")
}

func (lx *Lexer) scanQuoted(quote byte, kind token.Kind, code diag.Code, what string) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // открывающая кавычка
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: lx.file.Text(sp)}
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			lx.cursor.Bump()
			continue
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(code, sp, "newline in "+what+" literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(code, sp, "unterminated "+what+" literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
}
