package lexer

import (
	"cdlc/internal/diag"
)

// skipTrivia пропускает пробелы, переводы строк, // и /* */ комментарии.
// Блочные комментарии не вложенные; незакрытый комментарий репортится и обрезается на EOF.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			lx.cursor.Bump()
			continue
		case '/':
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '/' || (b1 != '/' && b1 != '*') {
				return
			}
			if b1 == '/' {
				lx.cursor.EatWhile(func(c byte) bool { return c != '\n' })
				continue
			}
			lx.skipBlockComment()
			continue
		}
		return
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if lx.try2('*', '/') {
			return
		}
		lx.cursor.Bump()
	}
	lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
}
