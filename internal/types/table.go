package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Table is the canonical registry of type nodes. Every node is stored once and
// keyed by its signature, so two requests for the same shape return the same TypeID.
type Table struct {
	types    []Type
	index    map[string]TypeID
	builtins Builtins
}

// NewTable constructs a table seeded with the primitive types.
func NewTable() *Table {
	t := &Table{
		types: make([]Type, 1, 64), // types[0]: sentinel для NoTypeID
		index: make(map[string]TypeID, 64),
	}
	t.seedBuiltins()
	return t
}

// Builtins returns TypeIDs for primitive types.
func (t *Table) Builtins() Builtins {
	return t.builtins
}

// Intern looks up an existing node by signature.
func (t *Table) Intern(signature string) (TypeID, bool) {
	id, ok := t.index[signature]
	return id, ok
}

// Register inserts tt under tt.Name. If the signature is already present the
// existing node wins and its id is returned.
func (t *Table) Register(tt Type) TypeID {
	if tt.Kind == KindInvalid || tt.Name == "" {
		return NoTypeID
	}
	if id, ok := t.index[tt.Name]; ok {
		return id
	}
	return t.internRaw(tt)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (t *Table) internRaw(tt Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(t.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	t.types = append(t.types, tt)
	t.index[tt.Name] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (t *Table) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(t.types) {
		return Type{}, false
	}
	return t.types[id], true
}

// MustLookup panics when id is invalid.
func (t *Table) MustLookup(id TypeID) Type {
	tt, ok := t.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Signature returns the canonical signature of id, or "" for NoTypeID.
func (t *Table) Signature(id TypeID) string {
	tt, ok := t.Lookup(id)
	if !ok {
		return ""
	}
	return tt.Name
}

// Len returns the number of registered nodes, sentinel excluded.
func (t *Table) Len() int {
	return len(t.types) - 1
}

// BindPayload attaches an AST node index to an interface or enum type.
func (t *Table) BindPayload(id TypeID, payload uint32) {
	if id == NoTypeID || int(id) >= len(t.types) {
		return
	}
	t.types[id].Payload = payload
}

// Checkpoint marks the current end of the table.
type Checkpoint struct {
	n int
}

// Checkpoint returns a mark that Rollback can return to.
func (t *Table) Checkpoint() Checkpoint {
	return Checkpoint{n: len(t.types)}
}

// Rollback discards every node registered after cp. It is used by the parser to
// retract tentative registrations of a declaration that failed to parse; TypeIDs
// handed out after cp become invalid.
func (t *Table) Rollback(cp Checkpoint) {
	if cp.n <= 0 || cp.n >= len(t.types) {
		return
	}
	for _, tt := range t.types[cp.n:] {
		delete(t.index, tt.Name)
	}
	clear(t.types[cp.n:])
	t.types = t.types[:cp.n]
}

// Specializations returns every specialization type in registration order.
func (t *Table) Specializations() []TypeID {
	var out []TypeID
	for i := 1; i < len(t.types); i++ {
		if t.types[i].IsSpecialization() {
			out = append(out, TypeID(i)) //nolint:gosec // bounded by internRaw
		}
	}
	return out
}
