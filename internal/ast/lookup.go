package ast

import (
	"strings"

	"cdlc/internal/types"
)

// FindType resolves a primitive or a declared type name as seen from scope from.
// The namespace chain is searched outward to the global namespace, then the
// table is consulted for an already fully qualified name.
func (c *Component) FindType(name string, from NamespaceID) types.TypeID {
	if name == "" {
		return types.NoTypeID
	}
	if !strings.Contains(name, ScopeSeparator) {
		if id, ok := c.Types.Intern(name); ok && c.Types.MustLookup(id).Kind == types.KindPrimitive {
			return id
		}
	}
	chain := c.enclosing(from)
	for _, ns := range chain {
		if id, ok := c.Types.Intern(c.Qualify(ns, name)); ok && c.isNamedType(id, chain) {
			return id
		}
	}
	if id, ok := c.Types.Intern(strings.TrimPrefix(name, ScopeSeparator)); ok && c.isNamedType(id, chain) {
		return id
	}
	return types.NoTypeID
}

// isNamedType reports whether id may be written by name; chain is the scope chain of the use site.
func (c *Component) isNamedType(id types.TypeID, chain []NamespaceID) bool {
	tt, ok := c.Types.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case types.KindPrimitive, types.KindEnum:
		return true
	case types.KindTypeParam:
		// параметр виден только внутри тела своего интерфейса
		iid, ok := c.InterfaceOf(tt.Owner)
		if !ok {
			return false
		}
		scope := c.Interface(iid).Scope
		for _, ns := range chain {
			if ns == scope {
				return true
			}
		}
		return false
	case types.KindInterface:
		return !tt.IsSpecialization()
	default:
		return false
	}
}

// AttachType lists a declared interface or enum type in namespace ns.
func (c *Component) AttachType(ns NamespaceID, id types.TypeID) {
	c.addType(ns, id)
}

// LookupEnumerator resolves "A" or "E::A" to an enumerator visible from scope from.
func (c *Component) LookupEnumerator(name string, from NamespaceID) (Enumerator, EnumID, bool) {
	if i := strings.LastIndex(name, ScopeSeparator); i >= 0 {
		eid, ok := c.EnumOf(c.FindType(name[:i], from))
		if !ok {
			return Enumerator{}, NoEnumID, false
		}
		en, ok := c.Enum(eid).Lookup(name[i+len(ScopeSeparator):])
		return en, eid, ok
	}
	for _, ns := range c.enclosing(from) {
		for _, tid := range c.Namespace(ns).Types {
			eid, ok := c.EnumOf(tid)
			if !ok {
				continue
			}
			if en, ok := c.Enum(eid).Lookup(name); ok {
				return en, eid, true
			}
		}
	}
	return Enumerator{}, NoEnumID, false
}

// LookupConstant resolves a constant visible from scope from. Inside an
// interface body the interface's own constants are searched first.
func (c *Component) LookupConstant(name string, from NamespaceID) (ConstID, bool) {
	if i := strings.LastIndex(name, ScopeSeparator); i >= 0 {
		return c.lookupQualifiedConstant(name[:i], name[i+len(ScopeSeparator):], from)
	}
	for _, nsID := range c.enclosing(from) {
		ns := c.Namespace(nsID)
		ids := ns.Constants
		if ns.IsWrapper() {
			if it := c.Interface(ns.Wrapped); it != nil {
				ids = it.Constants
			}
		}
		for _, cid := range ids {
			if c.Constant(cid).Name == name {
				return cid, true
			}
		}
	}
	return NoConstID, false
}

// lookupQualifiedConstant resolves "IFoo::MAX" and "a::b::MAX".
func (c *Component) lookupQualifiedConstant(prefix, name string, from NamespaceID) (ConstID, bool) {
	if iid, ok := c.InterfaceOf(c.FindType(prefix, from)); ok {
		return c.constantIn(c.Interface(iid).Constants, name)
	}
	segments := strings.Split(strings.TrimPrefix(prefix, ScopeSeparator), ScopeSeparator)
	for _, start := range c.enclosing(from) {
		cur, ok := start, true
		for _, seg := range segments {
			if cur, ok = c.ChildNamespace(cur, seg); !ok {
				break
			}
		}
		if ok {
			if cid, found := c.constantIn(c.Namespace(cur).Constants, name); found {
				return cid, true
			}
		}
	}
	return NoConstID, false
}

func (c *Component) constantIn(ids []ConstID, name string) (ConstID, bool) {
	for _, cid := range ids {
		if c.Constant(cid).Name == name {
			return cid, true
		}
	}
	return NoConstID, false
}
