package ast

import (
	"strconv"

	"cdlc/internal/source"
	"cdlc/internal/types"
)

// ConstKind classifies an evaluated constant value.
type ConstKind uint8

const (
	ConstInvalid ConstKind = iota
	ConstInt
	ConstFloat
	ConstBool
	ConstString
	ConstChar
	ConstEnum
)

// ConstValue is the evaluated value of a constant or enumerator initializer.
type ConstValue struct {
	Kind  ConstKind
	Int   int64 // ConstInt, ConstChar, ConstEnum
	Float float64
	Bool  bool
	Str   string
	Enum  EnumID // for ConstEnum
	Name  string // enumerator name for ConstEnum
}

func (v ConstValue) String() string {
	switch v.Kind {
	case ConstInt:
		return strconv.FormatInt(v.Int, 10)
	case ConstFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ConstBool:
		return strconv.FormatBool(v.Bool)
	case ConstString:
		return strconv.Quote(v.Str)
	case ConstChar:
		return strconv.QuoteRune(rune(v.Int))
	case ConstEnum:
		return v.Name
	default:
		return "<invalid>"
	}
}

type Constant struct {
	Name      string
	Type      types.TypeID
	Value     ConstValue
	Namespace NamespaceID // declaring scope (wrapper namespace for interface members)
	Span      source.Span
}

func (c *Component) Constant(id ConstID) *Constant {
	return c.Constants.Get(uint32(id))
}
