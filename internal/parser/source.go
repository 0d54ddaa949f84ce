package parser

import (
	"cdlc/internal/lexer"
	"cdlc/internal/token"
)

// TokenSource is what the parser needs from a scanner: ordinary tokens with
// push-back, plus the two context-sensitive scans used inside attribute blocks.
type TokenSource interface {
	Next() token.Token
	Peek() token.Token
	Unget(tok token.Token)
	NextUUID() token.Token
	NextVersion() token.Token
}

var _ TokenSource = (*lexer.Lexer)(nil)
