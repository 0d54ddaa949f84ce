package token

import (
	"cdlc/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a literal of any kind.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, CharLit, UUIDLit, VersionLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsPrimitive reports whether the token names a built-in type.
func (t Token) IsPrimitive() bool {
	return t.Kind.IsPrimitive()
}

// IsPrimitive reports whether k names a built-in type.
func (k Kind) IsPrimitive() bool {
	return k >= KwByte && k <= KwECode
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwInterface && t.Kind <= KwECode
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsIdentText reports whether the token is an identifier spelled exactly s.
func (t Token) IsIdentText(s string) bool { return t.Kind == Ident && t.Text == s }

// Display returns the text used to quote the token in diagnostics.
func (t Token) Display() string {
	switch {
	case t.Kind == EOF:
		return "end of file"
	case t.Text != "":
		return t.Text
	default:
		return t.Kind.String()
	}
}
