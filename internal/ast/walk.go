package ast

import (
	"strings"
	"unicode"
)

// Visitor receives a read-only walk over a component. Returning false from a
// Visit method with children skips those children.
type Visitor interface {
	VisitNamespace(id NamespaceID, ns *Namespace) bool
	VisitInterface(id InterfaceID, it *Interface) bool
	VisitMethod(id MethodID, m *Method) bool
	VisitParameter(id ParamID, p *Parameter)
	VisitConstant(id ConstID, k *Constant)
	VisitEnumeration(id EnumID, e *Enumeration)
	VisitCoclass(id CoclassID, cc *Coclass)
}

// BaseVisitor visits everything and does nothing; embed it to override selectively.
type BaseVisitor struct{}

func (BaseVisitor) VisitNamespace(NamespaceID, *Namespace) bool { return true }
func (BaseVisitor) VisitInterface(InterfaceID, *Interface) bool { return true }
func (BaseVisitor) VisitMethod(MethodID, *Method) bool          { return true }
func (BaseVisitor) VisitParameter(ParamID, *Parameter)           {}
func (BaseVisitor) VisitConstant(ConstID, *Constant)             {}
func (BaseVisitor) VisitEnumeration(EnumID, *Enumeration)        {}
func (BaseVisitor) VisitCoclass(CoclassID, *Coclass)             {}

// Walk visits Namespaces -> {Constants, Interfaces -> {Constants, Methods ->
// Parameters, nested Enumerations}, Enumerations, Coclasses}, then child namespaces.
// Only declared interfaces and enumerations are visited; specializations are
// reachable through Pool.
func (c *Component) Walk(v Visitor) {
	c.walkNamespace(v, c.Global)
}

func (c *Component) walkNamespace(v Visitor, id NamespaceID) {
	ns := c.Namespace(id)
	if !v.VisitNamespace(id, ns) {
		return
	}
	for _, cid := range ns.Constants {
		v.VisitConstant(cid, c.Constant(cid))
	}
	c.walkTypes(v, ns)
	for _, ccid := range ns.Coclasses {
		v.VisitCoclass(ccid, c.Coclass(ccid))
	}
	for _, child := range ns.Children {
		c.walkNamespace(v, child)
	}
}

func (c *Component) walkTypes(v Visitor, ns *Namespace) {
	for _, tid := range ns.Types {
		if iid, ok := c.InterfaceOf(tid); ok {
			if it := c.Interface(iid); it.Declared {
				c.WalkInterface(v, iid)
			}
			continue
		}
		if eid, ok := c.EnumOf(tid); ok {
			if e := c.Enum(eid); e.Declared {
				v.VisitEnumeration(eid, e)
			}
		}
	}
}

// WalkInterface visits a single interface subtree.
func (c *Component) WalkInterface(v Visitor, id InterfaceID) {
	it := c.Interface(id)
	if !v.VisitInterface(id, it) {
		return
	}
	for _, cid := range it.Constants {
		v.VisitConstant(cid, c.Constant(cid))
	}
	for _, mid := range it.Methods {
		m := c.Method(mid)
		if !v.VisitMethod(mid, m) {
			continue
		}
		for _, pid := range m.Params {
			v.VisitParameter(pid, c.Param(pid))
		}
	}
	if scope := c.Namespace(it.Scope); scope != nil {
		c.walkTypes(v, scope)
	}
}

// GuardMarker derives the unique marker a generator wraps each emitted unit in:
// "a::IFoo" becomes "__A_IFOO__". Runs of non-alphanumerics collapse to one '_'.
func GuardMarker(qualified string) string {
	var sb strings.Builder
	pending := false
	for _, r := range qualified {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pending && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			pending = false
			sb.WriteRune(unicode.ToUpper(r))
			continue
		}
		pending = true
	}
	return "__" + sb.String() + "__"
}
