package types

import "strings"

// Label returns a short human readable name: type parameters lose their scope prefix.
func (t *Table) Label(id TypeID) string {
	tt, ok := t.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindTypeParam:
		if i := strings.LastIndex(tt.Name, "::"); i >= 0 {
			return tt.Name[i+2:]
		}
		return tt.Name
	case KindPointer:
		return t.Label(tt.Elem) + strings.Repeat("*", int(tt.Depth))
	case KindReference:
		return t.Label(tt.Elem) + "&"
	case KindArray:
		return "Array<" + t.Label(tt.Elem) + ">"
	case KindInterface:
		if !tt.IsSpecialization() {
			return tt.Name
		}
		parts := make([]string, len(tt.Args))
		for i, a := range tt.Args {
			parts[i] = t.Label(a)
		}
		return t.Label(tt.Elem) + "<" + strings.Join(parts, ",") + ">"
	default:
		return tt.Name
	}
}

// Underlying strips pointers and references.
func (t *Table) Underlying(id TypeID) TypeID {
	for {
		tt, ok := t.Lookup(id)
		if !ok || (tt.Kind != KindPointer && tt.Kind != KindReference) {
			return id
		}
		id = tt.Elem
	}
}
