package lexer

import (
	"cdlc/internal/token"

	"golang.org/x/text/unicode/norm"
)

// scanIdentOrKeyword сканирует идентификатор и проверяет через LookupKeyword.
// Не-ASCII идентификаторы приводятся к NFC, чтобы эквивалентные записи совпадали.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	ascii := true

	r, _ := lx.peekRune()
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			return lx.scanOperatorOrPunct()
		}
		ascii = false
		lx.bumpRune()
	}
	for {
		r2, sz := lx.peekRune()
		if sz == 0 {
			break
		}
		if r2 < utf8RuneSelf {
			if !isIdentContinueByte(byte(r2)) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if !isIdentContinueRune(r2) {
			break
		}
		ascii = false
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	text := lx.file.Text(sp)
	if !ascii {
		text = norm.NFC.String(text)
	}
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
