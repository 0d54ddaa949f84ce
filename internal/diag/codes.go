package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// Синтаксические
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynMissingAttributes   Code = 2002
	SynExpectLParen        Code = 2003
	SynExpectRParen        Code = 2004
	SynExpectLBrace        Code = 2005
	SynExpectRBrace        Code = 2006
	SynExpectLBracket      Code = 2007
	SynExpectRBracket      Code = 2008
	SynExpectLt            Code = 2009
	SynExpectGt            Code = 2010
	SynExpectComma         Code = 2011
	SynExpectSemicolon     Code = 2012
	SynExpectAssign        Code = 2013
	SynExpectUUID          Code = 2014
	SynExpectVersion       Code = 2015
	SynExpectString        Code = 2016
	SynExpectInterfaceName Code = 2017
	SynExpectMethodName    Code = 2018
	SynExpectParamName     Code = 2019
	SynExpectEnumName      Code = 2020
	SynExpectEnumerator    Code = 2021
	SynExpectIdentifier    Code = 2022
	SynExpectExpression    Code = 2023
	SynExpectType          Code = 2024
	SynExpectDeclaration   Code = 2025

	// Семантические
	SemaInfo                Code = 3000
	SemaUndeclaredType      Code = 3001
	SemaDuplicateSymbol     Code = 3002
	SemaDuplicateMethod     Code = 3003
	SemaDuplicateEnumerator Code = 3004
	SemaDuplicateConstant   Code = 3005
	SemaNameConflict        Code = 3006
	SemaNotAnInterface      Code = 3007
	SemaTypeArgCount        Code = 3008
	SemaMissingTypeArgs     Code = 3009
	SemaNotGeneric          Code = 3010
	SemaCalleeWithoutOut    Code = 3011
	SemaUndefinedInterface  Code = 3012
	SemaConstTypeMismatch   Code = 3013
	SemaConstUndefined      Code = 3014
	SemaConstDivByZero      Code = 3015
	SemaSpecialization      Code = 3016
	SemaCyclicBase          Code = 3017

	// Ввод-вывод
	IOInfo            Code = 4000
	IOIncludeNotFound Code = 4001
	IOIncludeRead     Code = 4002
	IOIncludeDisabled Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",
	LexUnterminatedChar:         "Unterminated character literal",

	SynInfo:                "Syntax information",
	SynUnexpectedToken:     "Unexpected token",
	SynMissingAttributes:   "Declaration without attribute block",
	SynExpectLParen:        "Expected '('",
	SynExpectRParen:        "Expected ')'",
	SynExpectLBrace:        "Expected '{'",
	SynExpectRBrace:        "Expected '}'",
	SynExpectLBracket:      "Expected '['",
	SynExpectRBracket:      "Expected ']'",
	SynExpectLt:            "Expected '<'",
	SynExpectGt:            "Expected '>'",
	SynExpectComma:         "Expected ','",
	SynExpectSemicolon:     "Expected ';'",
	SynExpectAssign:        "Expected '='",
	SynExpectUUID:          "Expected uuid literal",
	SynExpectVersion:       "Expected version literal",
	SynExpectString:        "Expected string literal",
	SynExpectInterfaceName: "Expected interface name",
	SynExpectMethodName:    "Expected method name",
	SynExpectParamName:     "Expected parameter name",
	SynExpectEnumName:      "Expected enumeration name",
	SynExpectEnumerator:    "Expected enumerator name",
	SynExpectIdentifier:    "Expected identifier",
	SynExpectExpression:    "Expected constant expression",
	SynExpectType:          "Expected type",
	SynExpectDeclaration:   "Expected declaration after attributes",

	SemaInfo:                "Semantic information",
	SemaUndeclaredType:      "Undeclared type",
	SemaDuplicateSymbol:     "Duplicate declaration",
	SemaDuplicateMethod:     "Duplicate method",
	SemaDuplicateEnumerator: "Duplicate enumerator",
	SemaDuplicateConstant:   "Duplicate constant",
	SemaNameConflict:        "Name conflicts with a namespace",
	SemaNotAnInterface:      "Base type is not an interface",
	SemaTypeArgCount:        "Wrong number of type arguments",
	SemaMissingTypeArgs:     "Generic interface used without type arguments",
	SemaNotGeneric:          "Type arguments on non-generic type",
	SemaCalleeWithoutOut:    "callee requires out",
	SemaUndefinedInterface:  "Interface declared but never defined",
	SemaConstTypeMismatch:   "Constant value does not match its type",
	SemaConstUndefined:      "Unknown name in constant expression",
	SemaConstDivByZero:      "Division by zero in constant expression",
	SemaSpecialization:      "Specialization failed",
	SemaCyclicBase:          "Cyclic interface inheritance",

	IOInfo:            "IO information",
	IOIncludeNotFound: "Included file not found",
	IOIncludeRead:     "Included file unreadable",
	IOIncludeDisabled: "Includes are not available",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
