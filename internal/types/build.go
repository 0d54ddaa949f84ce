package types

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// BuildPointerType returns the pointer type of the given depth over base.
// A pointer base is flattened: (Integer*, 1) is the same node as (Integer, 2).
func (t *Table) BuildPointerType(base TypeID, depth int) TypeID {
	if depth <= 0 {
		return base
	}
	b, ok := t.Lookup(base)
	if !ok {
		return NoTypeID
	}
	d, err := safecast.Conv[uint32](depth)
	if err != nil {
		panic(fmt.Errorf("pointer depth overflow: %w", err))
	}
	if b.Kind == KindPointer {
		base, d = b.Elem, b.Depth+d
		b = t.MustLookup(base)
	}
	sig := b.Name + strings.Repeat("*", int(d))
	if id, hit := t.Intern(sig); hit {
		return id
	}
	return t.internRaw(Type{Kind: KindPointer, Name: sig, Elem: base, Depth: d})
}

// BuildArrayType returns Array<elem>.
func (t *Table) BuildArrayType(elem TypeID) TypeID {
	e, ok := t.Lookup(elem)
	if !ok {
		return NoTypeID
	}
	sig := "Array<" + e.Name + ">"
	if id, hit := t.Intern(sig); hit {
		return id
	}
	return t.internRaw(Type{Kind: KindArray, Name: sig, Elem: elem})
}

// BuildReferenceType returns base&. A reference to a reference is the same reference.
func (t *Table) BuildReferenceType(base TypeID) TypeID {
	b, ok := t.Lookup(base)
	if !ok {
		return NoTypeID
	}
	if b.Kind == KindReference {
		return base
	}
	sig := b.Name + "&"
	if id, hit := t.Intern(sig); hit {
		return id
	}
	return t.internRaw(Type{Kind: KindReference, Name: sig, Elem: base})
}

// RegisterTypeParam registers the index-th type parameter of owner under signature.
func (t *Table) RegisterTypeParam(signature string, owner TypeID, index int) TypeID {
	idx, err := safecast.Conv[uint32](index)
	if err != nil {
		panic(fmt.Errorf("type param index overflow: %w", err))
	}
	return t.Register(Type{Kind: KindTypeParam, Name: signature, Owner: owner, Index: idx})
}

// SpecializationSignature builds "Generic<A,B>" for the given generic and arguments.
func (t *Table) SpecializationSignature(generic TypeID, args []TypeID) string {
	var sb strings.Builder
	sb.WriteString(t.Signature(generic))
	sb.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(t.Signature(a))
	}
	sb.WriteByte('>')
	return sb.String()
}

// RegisterSpecialization returns the interface type generic<args...>. The node
// starts unbound (Payload 0) until the specializer produces its interface.
func (t *Table) RegisterSpecialization(generic TypeID, args []TypeID) TypeID {
	if _, ok := t.Lookup(generic); !ok {
		return NoTypeID
	}
	sig := t.SpecializationSignature(generic, args)
	if id, hit := t.Intern(sig); hit {
		return id
	}
	return t.internRaw(Type{
		Kind: KindInterface,
		Name: sig,
		Elem: generic,
		Args: append([]TypeID(nil), args...),
	})
}

// ContainsTypeParam reports whether id mentions a type parameter anywhere in its shape.
func (t *Table) ContainsTypeParam(id TypeID) bool {
	tt, ok := t.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindTypeParam:
		return true
	case KindArray, KindPointer, KindReference:
		return t.ContainsTypeParam(tt.Elem)
	case KindInterface:
		for _, a := range tt.Args {
			if t.ContainsTypeParam(a) {
				return true
			}
		}
	}
	return false
}
