package dag

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

type Topo struct {
	Order   []FileID   // включающий файл раньше включаемого
	Batches [][]FileID // волны независимых файлов
	Cyclic  bool
	Cycles  []FileID // узлы, оставшиеся в цикле
}

// ToposortKahn orders present files. Include cycles are legal (include-once
// stops them) and are reported in Cycles rather than as an error.
func ToposortKahn(g Graph) *Topo {
	nodeCount := len(g.Edges)
	indeg := make([]int, len(g.Indeg))
	copy(indeg, g.Indeg)

	topo := &Topo{
		Order:   make([]FileID, 0, nodeCount),
		Batches: make([][]FileID, 0),
	}

	active := 0
	current := make([]FileID, 0, nodeCount)
	for i := range nodeCount {
		if !g.Present[i] {
			continue
		}
		active++
		if indeg[i] == 0 {
			current = append(current, mustID(i))
		}
	}

	visited := 0
	for len(current) > 0 {
		batch := slices.Clone(current)
		topo.Batches = append(topo.Batches, batch)

		next := make([]FileID, 0)
		for _, id := range batch {
			topo.Order = append(topo.Order, id)
			visited++
			for _, to := range g.Edges[int(id)] {
				if !g.Present[int(to)] {
					continue
				}
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != active {
		topo.Cyclic = true
		for i := range nodeCount {
			if g.Present[i] && indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, mustID(i))
			}
		}
	}
	return topo
}

func mustID(i int) FileID {
	id, err := safecast.Conv[FileID](i)
	if err != nil {
		panic(fmt.Errorf("file id overflow: %w", err))
	}
	return id
}
