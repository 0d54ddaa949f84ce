package ast

import (
	"strings"

	"cdlc/internal/types"
)

// PoolKey identifies one specialization: the generic interface plus the
// signatures of the concrete arguments.
type PoolKey struct {
	Generic InterfaceID
	Args    string
}

// PoolEntry records a specialized interface owned by the pool.
type PoolEntry struct {
	Key      PoolKey
	Args     []types.TypeID
	Instance InterfaceID
	Type     types.TypeID
	Err      error // instance could not be completed; Instance has no members
}

// Pool deduplicates specializations. Cloned nodes live in the component arenas;
// the pool only indexes them.
type Pool struct {
	entries *Arena[PoolEntry]
	index   map[PoolKey]uint32
}

func NewPool() *Pool {
	return &Pool{
		entries: NewArena[PoolEntry](4),
		index:   make(map[PoolKey]uint32),
	}
}

// ArgsKey renders the argument signature used in PoolKey.
func ArgsKey(tbl *types.Table, args []types.TypeID) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = tbl.Signature(a)
	}
	return strings.Join(parts, ",")
}

// Lookup returns the entry stored under key.
func (p *Pool) Lookup(key PoolKey) (PoolEntry, bool) {
	idx, ok := p.index[key]
	if !ok {
		return PoolEntry{}, false
	}
	return *p.entries.Get(idx), true
}

// Insert stores e unless its key is taken; the stored entry is returned either way.
func (p *Pool) Insert(e PoolEntry) PoolEntry {
	if idx, ok := p.index[e.Key]; ok {
		return *p.entries.Get(idx)
	}
	p.index[e.Key] = p.entries.Allocate(e)
	return e
}

// Fail records err for key. A later Lookup returns the entry with Err set.
func (p *Pool) Fail(key PoolKey, err error) {
	if idx, ok := p.index[key]; ok {
		p.entries.Get(idx).Err = err
	}
}

// Entries returns the pool contents in insertion order.
func (p *Pool) Entries() []PoolEntry {
	return p.entries.Slice()
}

func (p *Pool) Len() int {
	return len(p.entries.Slice())
}
