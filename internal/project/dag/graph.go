package dag

import (
	"slices"

	"cdlc/internal/project"
)

// Graph is the include graph: an edge from a file to every file it includes.
type Graph struct {
	Edges   [][]FileID // Edges[from] = []to
	Rev     [][]FileID // Rev[to] = []from
	Indeg   []int      // входящие степени для Kahn (только присутствующие файлы)
	Present []bool     // файл разобран, а не только упомянут в include
}

// BuildGraph merges metas from any number of parses. A file seen twice keeps
// its first description; self-includes and repeated directives add no edge.
func BuildGraph(idx FileIndex, metas []project.FileMeta) Graph {
	n := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]FileID, n),
		Rev:     make([][]FileID, n),
		Indeg:   make([]int, n),
		Present: make([]bool, n),
	}
	byID := make([]*project.FileMeta, n)
	for i := range metas {
		id, ok := idx.NameToID[metas[i].Path]
		if !ok || byID[id] != nil {
			continue
		}
		byID[id] = &metas[i]
		g.Present[id] = true
	}

	for from, meta := range byID {
		if meta == nil {
			continue
		}
		seen := make(map[FileID]struct{}, len(meta.Includes))
		for _, inc := range meta.Includes {
			to, ok := idx.NameToID[inc.Path]
			if !ok || int(to) == from {
				continue
			}
			if _, dup := seen[to]; dup {
				continue
			}
			seen[to] = struct{}{}
			g.Edges[from] = append(g.Edges[from], to)
			g.Rev[to] = append(g.Rev[to], FileID(from)) //nolint:gosec // from < len(IDToName)
			if g.Present[to] {
				g.Indeg[to]++
			}
		}
		slices.Sort(g.Edges[from])
	}
	for i := range g.Rev {
		slices.Sort(g.Rev[i])
	}
	return g
}

// Dependents returns id and every file that includes it directly or transitively.
func (g Graph) Dependents(id FileID) []FileID {
	seen := make(map[FileID]bool)
	stack := []FileID{id}
	var out []FileID
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
		stack = append(stack, g.Rev[cur]...)
	}
	slices.Sort(out)
	return out
}

// Roots returns present files that no present file includes.
func (g Graph) Roots() []FileID {
	var out []FileID
	for i, present := range g.Present {
		if !present {
			continue
		}
		root := true
		for _, from := range g.Rev[i] {
			if g.Present[from] {
				root = false
				break
			}
		}
		if root {
			out = append(out, FileID(i)) //nolint:gosec // bounded by index
		}
	}
	return out
}
