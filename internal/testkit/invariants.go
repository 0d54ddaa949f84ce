package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"cdlc/internal/ast"
	"cdlc/internal/source"
	"cdlc/internal/types"
)

// CheckComponentInvariants runs structural checks on a parsed component:
// 1) node spans lie inside the content of a file of fs
// 2) interface members point at live nodes and method signatures match their params
// 3) every pool entry is a specialization of the generic it is keyed by
// 4) namespace type lists hold only interfaces and enumerations of that namespace
//
// They hold for any input, including inputs with diagnostics.
func CheckComponentInvariants(c *ast.Component, fs *source.FileSet) error {
	if c == nil || fs == nil {
		return fmt.Errorf("nil component or file set")
	}

	for i, it := range c.Interfaces.Slice() {
		id := ast.InterfaceID(mustU32(i + 1))
		if err := checkSpan(fs, "interface "+it.Name, it.Span); err != nil {
			return err
		}
		for _, mid := range it.Methods {
			m := c.Method(mid)
			if m == nil {
				return fmt.Errorf("interface %s: dangling method id %d", it.Name, mid)
			}
			if err := checkSpan(fs, "method "+m.Name, m.Span); err != nil {
				return err
			}
			if err := checkParams(c, fs, m); err != nil {
				return fmt.Errorf("interface %s: %w", it.Name, err)
			}
		}
		for _, kid := range it.Constants {
			if c.Constant(kid) == nil {
				return fmt.Errorf("interface %s: dangling constant id %d", it.Name, kid)
			}
		}
		if got, ok := c.InterfaceOf(it.Type); ok && got != id {
			return fmt.Errorf("interface %s: type %d resolves to interface %d", it.Name, it.Type, got)
		}
	}

	for _, e := range c.Pool.Entries() {
		inst := c.Interface(e.Instance)
		if inst == nil {
			return fmt.Errorf("pool entry %v: dangling instance %d", e.Key, e.Instance)
		}
		if inst.Generic != e.Key.Generic || !inst.IsSpecialization() {
			return fmt.Errorf("pool entry %v: instance is not a specialization of %d", e.Key, e.Key.Generic)
		}
		if len(inst.TypeArgs) != len(e.Args) {
			return fmt.Errorf("pool entry %v: %d type args, want %d", e.Key, len(inst.TypeArgs), len(e.Args))
		}
	}

	for i, ns := range c.Namespaces.Slice() {
		nsID := ast.NamespaceID(mustU32(i + 1))
		if ns.Parent.IsValid() && c.Namespace(ns.Parent) == nil {
			return fmt.Errorf("namespace %s: dangling parent", ns.Name)
		}
		// тело незакрытого интерфейса: никем не используется
		if ns.IsWrapper() && c.Interface(ns.Wrapped).Scope != nsID {
			continue
		}
		for _, tid := range ns.Types {
			if err := checkListedType(c, nsID, &ns, tid); err != nil {
				return err
			}
		}
	}

	for _, e := range c.Enums.Slice() {
		if err := checkSpan(fs, "enum "+e.Name, e.Span); err != nil {
			return err
		}
	}
	return nil
}

func checkListedType(c *ast.Component, nsID ast.NamespaceID, ns *ast.Namespace, tid types.TypeID) error {
	if iid, ok := c.InterfaceOf(tid); ok {
		if c.Interface(iid).Namespace != nsID {
			return fmt.Errorf("namespace %s lists interface %s of another namespace", ns.Name, c.Interface(iid).Name)
		}
		return nil
	}
	if eid, ok := c.EnumOf(tid); ok {
		if c.Enum(eid).Namespace != nsID {
			return fmt.Errorf("namespace %s lists enum %s of another namespace", ns.Name, c.Enum(eid).Name)
		}
		return nil
	}
	return fmt.Errorf("namespace %s lists type %d that is neither interface nor enum", ns.Name, tid)
}

func checkParams(c *ast.Component, fs *source.FileSet, m *ast.Method) error {
	paramTypes := make([]types.TypeID, 0, len(m.Params))
	for _, pid := range m.Params {
		p := c.Param(pid)
		if p == nil {
			return fmt.Errorf("method %s: dangling param id %d", m.Name, pid)
		}
		if err := checkSpan(fs, "param "+p.Name, p.Span); err != nil {
			return err
		}
		paramTypes = append(paramTypes, p.Type)
	}
	if sig := ast.MethodSignature(c.Types, paramTypes); sig != m.Signature {
		return fmt.Errorf("method %s: signature %q, params give %q", m.Name, m.Signature, sig)
	}
	return nil
}

func checkSpan(fs *source.FileSet, what string, sp source.Span) error {
	if int(sp.File) >= fs.Len() {
		return fmt.Errorf("%s: span %v points to unknown file", what, sp)
	}
	lenContent, err := safecast.Conv[uint32](len(fs.Get(sp.File).Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End < sp.Start || sp.End > lenContent {
		return fmt.Errorf("%s: span %v outside content of %d bytes", what, sp, lenContent)
	}
	return nil
}

func mustU32(i int) uint32 {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(err)
	}
	return v
}
