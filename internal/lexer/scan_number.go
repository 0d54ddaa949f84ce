package lexer

import (
	"cdlc/internal/diag"
	"cdlc/internal/token"
)

// Поддержка: 0, 123, 017 (octal), 0x1F, 1.0, .5, 1e-3, суффиксы L (целые) и f/d (плавающие).
// Неверные формы репортятся, токен возвращается как Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	bad := false

	switch {
	case lx.cursor.Peek() == '.':
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.cursor.EatWhile(isDec)
	case lx.try2('0', 'x') || lx.try2('0', 'X'):
		if lx.cursor.EatWhile(isHex) == 0 {
			bad = true
		}
	default:
		octal := lx.cursor.Peek() == '0'
		mark := lx.cursor.Mark()
		lx.cursor.EatWhile(isDec)
		if lx.cursor.Peek() == '.' && !lx.isRangeDot() {
			kind = token.FloatLit
			lx.cursor.Bump()
			lx.cursor.EatWhile(isDec)
		}
		if kind == token.IntLit && octal {
			digits := lx.file.Content[mark:lx.cursor.Off]
			for _, d := range digits {
				if !isOct(d) {
					bad = true
				}
			}
		}
	}

	if kind != token.IntLit || !bad {
		if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
			save := lx.cursor.Mark()
			lx.cursor.Bump()
			if c := lx.cursor.Peek(); c == '+' || c == '-' {
				lx.cursor.Bump()
			}
			if lx.cursor.EatWhile(isDec) > 0 {
				kind = token.FloatLit
			} else {
				lx.cursor.Reset(save)
			}
		}
	}

	// суффиксы
	switch b := lx.cursor.Peek(); {
	case (b == 'L' || b == 'l') && kind == token.IntLit:
		lx.cursor.Bump()
		if c := lx.cursor.Peek(); c == 'L' || c == 'l' {
			lx.cursor.Bump()
		}
	case b == 'f' || b == 'F' || b == 'd' || b == 'D':
		if kind == token.IntLit && lx.isHexLiteral(start) {
			break
		}
		kind = token.FloatLit
		lx.cursor.Bump()
	}

	// "12abc": идентификатор сразу после числа
	if isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.EatWhile(isIdentContinueByte)
		bad = true
	}

	sp := lx.cursor.SpanFrom(start)
	if bad {
		lx.errLex(diag.LexBadNumber, sp, "malformed number literal "+lx.file.Text(sp))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.file.Text(sp)}
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.file.Text(sp)}
}

// isRangeDot is true for "1..": the dot does not start a fraction.
func (lx *Lexer) isRangeDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && b1 == '.'
}

func (lx *Lexer) isHexLiteral(start Mark) bool {
	c := lx.file.Content
	return int(start)+1 < len(c) && c[start] == '0' && (c[start+1] == 'x' || c[start+1] == 'X')
}
