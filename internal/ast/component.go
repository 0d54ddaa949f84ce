package ast

import (
	"cdlc/internal/diag"
	"cdlc/internal/source"
	"cdlc/internal/types"
)

// Component is the root container for one compiled source file and everything
// it includes. It owns the namespace tree, the type table, the node arenas, the
// specialization pool and the diagnostics.
type Component struct {
	Path        string
	Types       *types.Table
	Namespaces  *Arena[Namespace]
	Interfaces  *Arena[Interface]
	Methods     *Arena[Method]
	Params      *Arena[Parameter]
	Enums       *Arena[Enumeration]
	Constants   *Arena[Constant]
	Coclasses   *Arena[Coclass]
	Global      NamespaceID
	Module      *Module
	Pool        *Pool
	Diagnostics *diag.Bag
	Files       []source.FileID // main file first, then includes in load order
	Includes    []IncludeEdge   // every resolved include directive, repeats included
}

// IncludeEdge records that From includes To at Span.
type IncludeEdge struct {
	From source.FileID
	To   source.FileID
	Span source.Span
}

// NewComponent creates an empty component with the global namespace in place.
func NewComponent(path string) *Component {
	c := &Component{
		Path:        path,
		Types:       types.NewTable(),
		Namespaces:  NewArena[Namespace](8),
		Interfaces:  NewArena[Interface](16),
		Methods:     NewArena[Method](64),
		Params:      NewArena[Parameter](128),
		Enums:       NewArena[Enumeration](8),
		Constants:   NewArena[Constant](8),
		Coclasses:   NewArena[Coclass](4),
		Pool:        NewPool(),
		Diagnostics: diag.NewBag(),
	}
	c.Global = NamespaceID(c.Namespaces.Allocate(Namespace{Name: GlobalNamespaceName}))
	return c
}

// Success reports whether no diagnostics were recorded.
func (c *Component) Success() bool {
	return c.Diagnostics.Len() == 0
}
