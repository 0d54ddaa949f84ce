package types

// Prim identifies a built-in type.
type Prim uint8

const (
	PrimNone Prim = iota
	PrimByte
	PrimShort
	PrimInteger
	PrimLong
	PrimFloat
	PrimDouble
	PrimChar
	PrimBoolean
	PrimString
	PrimHANDLE
	PrimECode
	primCount
)

var primNames = [...]string{
	PrimNone:    "",
	PrimByte:    "Byte",
	PrimShort:   "Short",
	PrimInteger: "Integer",
	PrimLong:    "Long",
	PrimFloat:   "Float",
	PrimDouble:  "Double",
	PrimChar:    "Char",
	PrimBoolean: "Boolean",
	PrimString:  "String",
	PrimHANDLE:  "HANDLE",
	PrimECode:   "ECode",
}

func (p Prim) String() string {
	if p < primCount {
		return primNames[p]
	}
	return "?"
}

// IsIntegral reports whether values of p are integers.
func (p Prim) IsIntegral() bool {
	switch p {
	case PrimByte, PrimShort, PrimInteger, PrimLong, PrimChar, PrimHANDLE, PrimECode:
		return true
	default:
		return false
	}
}

// IsFloat reports whether p is Float or Double.
func (p Prim) IsFloat() bool {
	return p == PrimFloat || p == PrimDouble
}

// Builtins stores TypeIDs for primitive types.
type Builtins struct {
	Byte    TypeID
	Short   TypeID
	Integer TypeID
	Long    TypeID
	Float   TypeID
	Double  TypeID
	Char    TypeID
	Boolean TypeID
	String  TypeID
	HANDLE  TypeID
	ECode   TypeID
}

func (t *Table) seedBuiltins() {
	ids := make([]TypeID, primCount)
	for p := PrimByte; p < primCount; p++ {
		ids[p] = t.internRaw(Type{Kind: KindPrimitive, Prim: p, Name: p.String()})
	}
	t.builtins = Builtins{
		Byte:    ids[PrimByte],
		Short:   ids[PrimShort],
		Integer: ids[PrimInteger],
		Long:    ids[PrimLong],
		Float:   ids[PrimFloat],
		Double:  ids[PrimDouble],
		Char:    ids[PrimChar],
		Boolean: ids[PrimBoolean],
		String:  ids[PrimString],
		HANDLE:  ids[PrimHANDLE],
		ECode:   ids[PrimECode],
	}
}
