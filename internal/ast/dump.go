package ast

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented textual tree of the component.
func (c *Component) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	d := &dumper{c: c, w: bw}
	c.Walk(d)
	if c.Module != nil {
		d.line(0, "module %s %s", c.Module.Name, c.Module.Attr)
	}
	if c.Pool.Len() > 0 {
		d.line(0, "specializations")
		d.nsDepth = make(map[NamespaceID]int)
		for _, e := range c.Pool.Entries() {
			if e.Err != nil {
				continue
			}
			d.depth = 1
			c.WalkInterface(d, e.Instance)
		}
	}
	return bw.Flush()
}

type dumper struct {
	c     *Component
	w     *bufio.Writer
	depth int
	// глубина текущего пространства имён, чтобы члены печатались под ним
	nsDepth map[NamespaceID]int
}

func (d *dumper) line(depth int, format string, args ...any) {
	fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *dumper) VisitNamespace(id NamespaceID, ns *Namespace) bool {
	if d.nsDepth == nil {
		d.nsDepth = make(map[NamespaceID]int)
	}
	depth := 0
	if ns.Parent.IsValid() {
		depth = d.nsDepth[ns.Parent] + 1
	}
	d.nsDepth[id] = depth
	d.depth = depth + 1
	name := d.c.NamespacePath(id)
	if name == "" {
		name = GlobalNamespaceName
	}
	d.line(depth, "namespace %s", name)
	return true
}

func (d *dumper) VisitInterface(id InterfaceID, it *Interface) bool {
	head := "interface " + d.c.Types.Label(it.Type)
	if it.IsGeneric() {
		params := make([]string, len(it.TypeParams))
		for i, p := range it.TypeParams {
			params[i] = d.c.Types.Label(p)
		}
		head += "<" + strings.Join(params, ", ") + ">"
	}
	if it.Base.IsValid() {
		head += " : " + d.c.Types.Label(it.Base)
	}
	attr := Attribute{UUID: it.UUID, Version: it.Version, Description: it.Description}
	d.line(d.baseDepth(it.Namespace), "%s %s", head, attr)
	d.depth = d.baseDepth(it.Namespace) + 1
	return true
}

func (d *dumper) baseDepth(ns NamespaceID) int {
	if depth, ok := d.nsDepth[ns]; ok {
		return depth + 1
	}
	return d.depth
}

func (d *dumper) VisitMethod(_ MethodID, m *Method) bool {
	d.line(d.depth, "method %s%s", m.Name, m.Signature)
	return true
}

func (d *dumper) VisitParameter(_ ParamID, p *Parameter) {
	d.line(d.depth+1, "%s %s %s", p.Attrs, d.c.Types.Label(p.Type), p.Name)
}

func (d *dumper) VisitConstant(_ ConstID, k *Constant) {
	d.line(d.depth, "const %s %s = %s", d.c.Types.Label(k.Type), k.Name, k.Value)
}

func (d *dumper) VisitEnumeration(_ EnumID, e *Enumeration) {
	depth := d.baseDepth(e.Namespace)
	if ns := d.c.Namespace(e.Namespace); ns != nil && ns.IsWrapper() {
		depth = d.depth
	}
	d.line(depth, "enum %s", d.c.Types.Label(e.Type))
	for _, en := range e.Enumerators {
		d.line(depth+1, "%s = %d", en.Name, en.Value)
	}
}

func (d *dumper) VisitCoclass(_ CoclassID, cc *Coclass) {
	d.line(d.baseDepth(cc.Namespace), "coclass %s %s", cc.Name, cc.Attr)
}
