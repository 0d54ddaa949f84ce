package diag

// Bag is an ordered, append-only diagnostic list.
type Bag struct {
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{items: make([]Diagnostic, 0, 8)}
}

// Add appends d; diagnostics are never rejected.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Count returns how many diagnostics have exactly severity sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик в порядке обнаружения.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic of other after the current ones.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Messages returns just the message texts, mainly for tests.
func (b *Bag) Messages() []string {
	out := make([]string, len(b.items))
	for i := range b.items {
		out[i] = b.items[i].Message
	}
	return out
}
