package ast

import (
	"cdlc/internal/source"
	"cdlc/internal/types"
)

// Interface is a declared interface type. For a specialization, Generic points to
// the generic definition and TypeArgs holds the concrete arguments.
type Interface struct {
	Name        string
	Namespace   NamespaceID
	Scope       NamespaceID // wrapper namespace of the body
	Type        types.TypeID
	Base        types.TypeID // NoTypeID when the interface has no base
	UUID        string
	Version     string
	Description string
	Constants   []ConstID
	Methods     []MethodID
	TypeParams  []types.TypeID
	Declared    bool
	Generic     InterfaceID
	TypeArgs    []types.TypeID
	Span        source.Span
}

// IsGeneric reports whether the interface declares type parameters.
func (it *Interface) IsGeneric() bool { return len(it.TypeParams) > 0 }

// IsSpecialization reports whether the interface was produced by the specializer.
func (it *Interface) IsSpecialization() bool { return it.Generic.IsValid() }

// SetAttribute copies attribute values into the interface.
func (it *Interface) SetAttribute(a Attribute) {
	it.UUID, it.Version, it.Description = a.UUID, a.Version, a.Description
}

// Interface returns the interface node, or nil.
func (c *Component) Interface(id InterfaceID) *Interface {
	return c.Interfaces.Get(uint32(id))
}

// InterfaceOf returns the interface bound to an interface type.
func (c *Component) InterfaceOf(id types.TypeID) (InterfaceID, bool) {
	tt, ok := c.Types.Lookup(id)
	if !ok || tt.Kind != types.KindInterface || tt.Payload == 0 {
		return NoInterfaceID, false
	}
	return InterfaceID(tt.Payload), true
}

// QualifiedName returns the fully qualified interface name.
func (c *Component) QualifiedName(id InterfaceID) string {
	it := c.Interface(id)
	if it == nil {
		return ""
	}
	return c.Qualify(it.Namespace, it.Name)
}

// FindMethod returns the method of iface whose name and parameter signature match.
func (c *Component) FindMethod(iface InterfaceID, name, signature string) (MethodID, bool) {
	it := c.Interface(iface)
	if it == nil {
		return NoMethodID, false
	}
	for _, mid := range it.Methods {
		m := c.Method(mid)
		if m.Name == name && m.Signature == signature {
			return mid, true
		}
	}
	return NoMethodID, false
}

// MethodByName returns the first method called name.
func (c *Component) MethodByName(iface InterfaceID, name string) *Method {
	it := c.Interface(iface)
	if it == nil {
		return nil
	}
	for _, mid := range it.Methods {
		if m := c.Method(mid); m.Name == name {
			return m
		}
	}
	return nil
}

// AllMethods returns the methods of iface preceded by the inherited ones, base first.
func (c *Component) AllMethods(iface InterfaceID) []MethodID {
	var chain []InterfaceID
	seen := make(map[InterfaceID]bool)
	for cur := iface; cur.IsValid() && !seen[cur]; {
		seen[cur] = true
		chain = append(chain, cur)
		base, ok := c.InterfaceOf(c.Interface(cur).Base)
		if !ok {
			break
		}
		cur = base
	}
	var out []MethodID
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, c.Interface(chain[i]).Methods...)
	}
	return out
}
