package lexer

import (
	"cdlc/internal/source"
	"cdlc/internal/token"
)

// Lexer turns one source.File into tokens. Comments and whitespace are skipped.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   []token.Token // стек возвращённых токенов, последний выдаётся первым
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// File returns the file being tokenized.
func (lx *Lexer) File() *source.File { return lx.file }

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if n := len(lx.look); n > 0 {
		tok := lx.look[n-1]
		lx.look = lx.look[:n-1]
		return tok
	}

	lx.skipTrivia()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch), ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()
	case ch == '"':
		return lx.scanString()
	case ch == '\'':
		return lx.scanChar()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = append(lx.look, t)
	return t
}

// Unget pushes tok back; the next call to Next returns it.
func (lx *Lexer) Unget(tok token.Token) {
	lx.look = append(lx.look, tok)
}

// NextUUID scans a uuid literal (hex digits and dashes) at the current position.
// Validation of the shape is left to the caller. On mismatch an Invalid token with
// an empty span is returned and nothing is consumed.
func (lx *Lexer) NextUUID() token.Token {
	return lx.nextRaw(token.UUIDLit, func(b byte) bool { return isHex(b) || b == '-' })
}

// NextVersion scans a dotted version literal such as 1.0.0 or 2.1.0-beta.1.
func (lx *Lexer) NextVersion() token.Token {
	return lx.nextRaw(token.VersionLit, func(b byte) bool {
		return isDec(b) || isIdentStartByte(b) || b == '.' || b == '-' || b == '+'
	})
}

func (lx *Lexer) nextRaw(kind token.Kind, pred func(byte) bool) token.Token {
	// уже заглянули вперёд обычным сканером -> откатываемся к началу того токена
	if len(lx.look) > 0 {
		back := lx.look[0].Span.Start
		for _, t := range lx.look[1:] {
			back = min(back, t.Span.Start)
		}
		lx.look = lx.look[:0]
		lx.cursor.Reset(Mark(back))
	}
	lx.skipTrivia()
	start := lx.cursor.Mark()
	if lx.cursor.EatWhile(pred) == 0 {
		return token.Token{Kind: token.Invalid, Span: lx.EmptySpan()}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.file.Text(sp)}
}

// EmptySpan returns a zero-width span at the current offset.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
