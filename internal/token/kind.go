package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// IntLit is a decimal, octal or hex integer literal.
	IntLit
	// FloatLit is a floating point literal.
	FloatLit
	// StringLit is a double-quoted string literal.
	StringLit
	// CharLit is a single-quoted character literal.
	CharLit
	// UUIDLit is produced only by Lexer.NextUUID.
	UUIDLit
	// VersionLit is produced only by Lexer.NextVersion.
	VersionLit

	KwInterface // interface
	KwCoclass   // coclass
	KwEnum      // enum
	KwModule    // module
	KwNamespace // namespace
	KwInclude   // include
	KwConst     // const
	KwArray     // Array
	KwTrue      // true
	KwFalse     // false

	// primitives
	KwByte    // Byte
	KwShort   // Short
	KwInteger // Integer
	KwLong    // Long
	KwFloat   // Float
	KwDouble  // Double
	KwChar    // Char
	KwBoolean // Boolean
	KwString  // String
	KwHANDLE  // HANDLE
	KwECode   // ECode

	LBracket   // [
	RBracket   // ]
	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	Lt         // <
	Gt         // >
	Comma      // ,
	Semicolon  // ;
	Colon      // :
	ColonColon // ::
	Star       // *
	Amp        // &
	Assign     // =
	Plus       // +
	Minus      // -
	Slash      // /
	Percent    // %
	Shl        // <<
	Shr        // >>
	Pipe       // |
	Caret      // ^
	Tilde      // ~

	kindCount
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	IntLit:      "IntLit",
	FloatLit:    "FloatLit",
	StringLit:   "StringLit",
	CharLit:     "CharLit",
	UUIDLit:     "UUIDLit",
	VersionLit:  "VersionLit",
	KwInterface: "interface",
	KwCoclass:   "coclass",
	KwEnum:      "enum",
	KwModule:    "module",
	KwNamespace: "namespace",
	KwInclude:   "include",
	KwConst:     "const",
	KwArray:     "Array",
	KwTrue:      "true",
	KwFalse:     "false",
	KwByte:      "Byte",
	KwShort:     "Short",
	KwInteger:   "Integer",
	KwLong:      "Long",
	KwFloat:     "Float",
	KwDouble:    "Double",
	KwChar:      "Char",
	KwBoolean:   "Boolean",
	KwString:    "String",
	KwHANDLE:    "HANDLE",
	KwECode:     "ECode",
	LBracket:    "[",
	RBracket:    "]",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	Lt:          "<",
	Gt:          ">",
	Comma:       ",",
	Semicolon:   ";",
	Colon:       ":",
	ColonColon:  "::",
	Star:        "*",
	Amp:         "&",
	Assign:      "=",
	Plus:        "+",
	Minus:       "-",
	Slash:       "/",
	Percent:     "%",
	Shl:         "<<",
	Shr:         ">>",
	Pipe:        "|",
	Caret:       "^",
	Tilde:       "~",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}
