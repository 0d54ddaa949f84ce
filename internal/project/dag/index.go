package dag

import (
	"sort"

	"cdlc/internal/project"
)

type FileID uint32

type FileIndex struct {
	NameToID map[string]FileID
	IDToName []string
}

// собрать уникальные пути, sort.Strings, раздать ID по порядку
func BuildIndex(metas []project.FileMeta) FileIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
		for _, inc := range meta.Includes {
			if inc.Path != "" {
				uniq[inc.Path] = struct{}{}
			}
		}
	}

	paths := make([]string, 0, len(uniq))
	for path := range uniq {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	nameToID := make(map[string]FileID, len(paths))
	for i, path := range paths {
		nameToID[path] = FileID(i)
	}
	return FileIndex{NameToID: nameToID, IDToName: paths}
}

// Names переводит ID обратно в пути.
func (idx FileIndex) Names(ids []FileID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}
