package driver

import (
	"path/filepath"

	"cdlc/internal/project"
	"cdlc/internal/project/dag"
)

// IncludeGraph связывает главные файлы и всё, что они включают.
type IncludeGraph struct {
	Index dag.FileIndex
	Graph dag.Graph
	mains map[string]bool
}

// BuildIncludeGraph merges the file metadata of every non-nil result.
func BuildIncludeGraph(results []*Result) *IncludeGraph {
	var metas []project.FileMeta
	mains := make(map[string]bool, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		mains[r.Path] = true
		metas = append(metas, r.Files...)
	}
	idx := dag.BuildIndex(metas)
	return &IncludeGraph{Index: idx, Graph: dag.BuildGraph(idx, metas), mains: mains}
}

// Contains reports whether path took part in any of the parses.
func (g *IncludeGraph) Contains(path string) bool {
	_, ok := g.Index.NameToID[cleanPath(path)]
	return ok
}

// Affected returns the main files that have to be parsed again after the
// given files changed, in path order. A changed main file is affected itself.
func (g *IncludeGraph) Affected(changed ...string) []string {
	hit := make(map[dag.FileID]bool)
	for _, p := range changed {
		id, ok := g.Index.NameToID[cleanPath(p)]
		if !ok {
			continue
		}
		for _, dep := range g.Graph.Dependents(id) {
			hit[dep] = true
		}
	}
	var out []string
	for id, name := range g.Index.IDToName {
		if hit[dag.FileID(id)] && g.mains[name] { //nolint:gosec // id < len(IDToName)
			out = append(out, name)
		}
	}
	return out
}

// Order returns every parsed file with includers before the files they include.
// Files caught in an include cycle are returned in cyclic instead.
func (g *IncludeGraph) Order() (order, cyclic []string) {
	topo := dag.ToposortKahn(g.Graph)
	return g.Index.Names(topo.Order), g.Index.Names(topo.Cycles)
}

func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
