package ast

import (
	"strings"

	"cdlc/internal/source"
	"cdlc/internal/types"
)

// GlobalNamespaceName is the reserved name of the root scope.
const GlobalNamespaceName = "__global__"

// ScopeSeparator joins namespace names into a path.
const ScopeSeparator = "::"

// Namespace is a named scope. Ownership flows parent -> child; Parent is a back-reference.
type Namespace struct {
	Name      string
	Parent    NamespaceID
	Children  []NamespaceID
	Constants []ConstID
	Types     []types.TypeID // interfaces and enums, in declaration order
	Coclasses []CoclassID
	// Wrapped is set for interface-wrapper namespaces: the scope of an interface body.
	// Wrapper namespaces are not listed in their parent's Children.
	Wrapped InterfaceID
	Span    source.Span
}

// DiscardScope forgets the declarations of scope ns whose types were rolled back:
// enums and constants declared there become undeclared and lose their types.
func (c *Component) DiscardScope(ns NamespaceID) {
	for i := range c.Enums.Slice() {
		e := c.Enum(EnumID(i + 1))
		if e.Namespace == ns {
			e.Declared, e.Type = false, types.NoTypeID
		}
	}
	for i := range c.Constants.Slice() {
		k := c.Constant(ConstID(i + 1))
		if k.Namespace == ns {
			k.Type = types.NoTypeID
		}
	}
	if n := c.Namespace(ns); n != nil {
		n.Types, n.Constants = nil, nil
	}
}

// IsWrapper reports whether ns is the body scope of an interface.
func (ns *Namespace) IsWrapper() bool { return ns.Wrapped.IsValid() }

// Namespace returns the namespace node, or nil.
func (c *Component) Namespace(id NamespaceID) *Namespace {
	return c.Namespaces.Get(uint32(id))
}

// NamespacePath returns the "::"-joined path of id; the global namespace has an empty path.
func (c *Component) NamespacePath(id NamespaceID) string {
	var names []string
	for cur := id; cur.IsValid() && cur != c.Global; {
		ns := c.Namespace(cur)
		if ns == nil {
			break
		}
		names = append(names, ns.Name)
		cur = ns.Parent
	}
	if len(names) == 0 {
		return ""
	}
	// собрали снизу вверх: разворачиваем
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, ScopeSeparator)
}

// Qualify returns the fully qualified name of name declared in ns.
func (c *Component) Qualify(ns NamespaceID, name string) string {
	path := c.NamespacePath(ns)
	if path == "" {
		return name
	}
	return path + ScopeSeparator + name
}

// ChildNamespace finds the direct child of parent called name.
func (c *Component) ChildNamespace(parent NamespaceID, name string) (NamespaceID, bool) {
	p := c.Namespace(parent)
	if p == nil {
		return NoNamespaceID, false
	}
	for _, child := range p.Children {
		if c.Namespace(child).Name == name {
			return child, true
		}
	}
	return NoNamespaceID, false
}

// AddNamespace returns the child namespace called name, creating it when absent.
// Reopening an existing sibling merges into it: created is false in that case.
func (c *Component) AddNamespace(parent NamespaceID, name string, span source.Span) (id NamespaceID, created bool) {
	if existing, ok := c.ChildNamespace(parent, name); ok {
		return existing, false
	}
	id = NamespaceID(c.Namespaces.Allocate(Namespace{Name: name, Parent: parent, Span: span}))
	p := c.Namespace(parent)
	p.Children = append(p.Children, id)
	return id, true
}

// NewWrapperNamespace allocates the body scope for an interface. It is reachable
// only through Interface.Scope.
func (c *Component) NewWrapperNamespace(parent NamespaceID, name string, iface InterfaceID) NamespaceID {
	return NamespaceID(c.Namespaces.Allocate(Namespace{Name: name, Parent: parent, Wrapped: iface}))
}

// addType appends a declared type to the namespace's ordered list once.
func (c *Component) addType(ns NamespaceID, id types.TypeID) {
	n := c.Namespace(ns)
	if n == nil {
		return
	}
	for _, t := range n.Types {
		if t == id {
			return
		}
	}
	n.Types = append(n.Types, id)
}

// enclosing returns id followed by each ancestor up to the global namespace.
func (c *Component) enclosing(id NamespaceID) []NamespaceID {
	var chain []NamespaceID
	for cur := id; cur.IsValid(); {
		chain = append(chain, cur)
		ns := c.Namespace(cur)
		if ns == nil {
			break
		}
		cur = ns.Parent
	}
	return chain
}
