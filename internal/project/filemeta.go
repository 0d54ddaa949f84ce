package project

import (
	"cdlc/internal/ast"
	"cdlc/internal/source"
)

type IncludeMeta struct {
	Path string
	Span source.Span
}

// FileMeta describes one source file of a parse: its includes and hashes.
type FileMeta struct {
	Path        string        // нормализованный путь, как в source.File
	Includes    []IncludeMeta // прямые включения в порядке директив
	ContentHash Digest
	Hash        Digest // ContentHash вместе с хешами прямых включений
}

// CollectFileMeta lists every file that took part in building c, main file first.
func CollectFileMeta(c *ast.Component, fs *source.FileSet) []FileMeta {
	metas := make([]FileMeta, 0, len(c.Files))
	index := make(map[source.FileID]int, len(c.Files))
	for _, id := range c.Files {
		f := fs.Get(id)
		index[id] = len(metas)
		metas = append(metas, FileMeta{Path: f.Path, ContentHash: f.Hash})
	}
	for _, e := range c.Includes {
		i, ok := index[e.From]
		if !ok {
			continue
		}
		metas[i].Includes = append(metas[i].Includes, IncludeMeta{Path: fs.Get(e.To).Path, Span: e.Span})
	}
	for i := range metas {
		deps := make([]Digest, 0, len(metas[i].Includes))
		for _, inc := range metas[i].Includes {
			if id, ok := fs.GetLatest(inc.Path); ok {
				deps = append(deps, fs.Get(id).Hash)
			}
		}
		metas[i].Hash = Combine(metas[i].ContentHash, deps...)
	}
	return metas
}
