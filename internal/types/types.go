package types

import "fmt"

// TypeID uniquely identifies a type inside a Table.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// IsValid reports whether id refers to a type.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindArray
	KindPointer
	KindReference
	KindInterface
	KindEnum
	KindTypeParam
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindPointer:
		return "pointer"
	case KindReference:
		return "reference"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindTypeParam:
		return "typeparam"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type.
//
// Name is the canonical signature and doubles as the Table key:
// "Integer", "Integer**", "Array<String>", "IFoo&", "a::IList<Integer>".
type Type struct {
	Kind    Kind
	Prim    Prim
	Name    string
	Elem    TypeID   // array element, pointer/reference base, generic of a specialization
	Depth   uint32   // pointer depth (>= 1)
	Payload uint32   // ast.InterfaceID / ast.EnumID, 0 until bound
	Owner   TypeID   // generic interface owning a type parameter
	Index   uint32   // position of a type parameter
	Args    []TypeID // type arguments of a specialization
}

// IsSpecialization reports whether t is an interface instantiated with type arguments.
func (t Type) IsSpecialization() bool {
	return t.Kind == KindInterface && t.Elem != NoTypeID
}
