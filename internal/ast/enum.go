package ast

import (
	"cdlc/internal/source"
	"cdlc/internal/types"
)

type Enumerator struct {
	Name  string
	Value int64
	Span  source.Span
}

// Enumeration lists its enumerators in declaration order.
type Enumeration struct {
	Name        string
	Namespace   NamespaceID
	Type        types.TypeID
	Enumerators []Enumerator
	Declared    bool
	Span        source.Span
}

func (c *Component) Enum(id EnumID) *Enumeration {
	return c.Enums.Get(uint32(id))
}

// EnumOf returns the enumeration bound to an enum type.
func (c *Component) EnumOf(id types.TypeID) (EnumID, bool) {
	tt, ok := c.Types.Lookup(id)
	if !ok || tt.Kind != types.KindEnum || tt.Payload == 0 {
		return NoEnumID, false
	}
	return EnumID(tt.Payload), true
}

// Lookup returns the enumerator called name.
func (e *Enumeration) Lookup(name string) (Enumerator, bool) {
	for _, en := range e.Enumerators {
		if en.Name == name {
			return en, true
		}
	}
	return Enumerator{}, false
}
