package mono

import (
	"cdlc/internal/types"
)

// Subst replaces the type parameters of Owner with TypeArgs.
type Subst struct {
	Types    *types.Table
	Owner    types.TypeID // generic interface whose parameters are substituted
	TypeArgs []types.TypeID

	cache map[types.TypeID]types.TypeID
}

// Type applies type substitution to a type ID. Shapes without a matching type
// parameter come back unchanged, so unrelated nodes stay shared.
func (s *Subst) Type(id types.TypeID) types.TypeID {
	if s == nil || s.Types == nil || id == types.NoTypeID {
		return id
	}
	if s.cache == nil {
		s.cache = make(map[types.TypeID]types.TypeID, 16)
	} else if cached, ok := s.cache[id]; ok {
		return cached
	}

	out := s.typeNoCache(id)
	s.cache[id] = out
	return out
}

func (s *Subst) typeNoCache(id types.TypeID) types.TypeID {
	tt, ok := s.Types.Lookup(id)
	if !ok {
		return id
	}

	switch tt.Kind {
	case types.KindTypeParam:
		idx := int(tt.Index)
		if tt.Owner != s.Owner || idx >= len(s.TypeArgs) || s.TypeArgs[idx] == types.NoTypeID {
			return id
		}
		return s.TypeArgs[idx]

	case types.KindPointer:
		elem := s.Type(tt.Elem)
		if elem == tt.Elem {
			return id
		}
		return s.Types.BuildPointerType(elem, int(tt.Depth))

	case types.KindReference:
		elem := s.Type(tt.Elem)
		if elem == tt.Elem {
			return id
		}
		return s.Types.BuildReferenceType(elem)

	case types.KindArray:
		elem := s.Type(tt.Elem)
		if elem == tt.Elem {
			return id
		}
		return s.Types.BuildArrayType(elem)

	case types.KindInterface:
		if !tt.IsSpecialization() {
			return id
		}
		args := make([]types.TypeID, len(tt.Args))
		changed := false
		for i, a := range tt.Args {
			args[i] = s.Type(a)
			changed = changed || args[i] != a
		}
		if !changed {
			return id
		}
		return s.Types.RegisterSpecialization(tt.Elem, args)

	default:
		return id
	}
}
