package ast

import "cdlc/internal/source"

// Coclass keeps only the outer shape of a coclass declaration.
type Coclass struct {
	Name      string
	Namespace NamespaceID
	Attr      Attribute
	Span      source.Span
}

// Module is the optional module declaration wrapping the file's declarations.
type Module struct {
	Name string
	Attr Attribute
	Span source.Span
}

func (c *Component) Coclass(id CoclassID) *Coclass {
	return c.Coclasses.Get(uint32(id))
}
