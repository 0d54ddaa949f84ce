package token

var keywords = map[string]Kind{
	"interface": KwInterface,
	"coclass":   KwCoclass,
	"enum":      KwEnum,
	"module":    KwModule,
	"namespace": KwNamespace,
	"include":   KwInclude,
	"const":     KwConst,
	"Array":     KwArray,
	"true":      KwTrue,
	"false":     KwFalse,
	"Byte":      KwByte,
	"Short":     KwShort,
	"Integer":   KwInteger,
	"Long":      KwLong,
	"Float":     KwFloat,
	"Double":    KwDouble,
	"Char":      KwChar,
	"Boolean":   KwBoolean,
	"String":    KwString,
	"HANDLE":    KwHANDLE,
	"ECode":     KwECode,
}

// LookupKeyword returns the keyword kind for ident; case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
