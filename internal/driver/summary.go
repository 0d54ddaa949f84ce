package driver

import (
	"sort"

	"fortio.org/safecast"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/project"
	"cdlc/internal/source"
)

// Summary: то, что кеш знает о разборе одного главного файла.
type Summary struct {
	Schema      uint16
	Path        string
	Hash        project.Digest // sha256 содержимого Path
	Settings    project.Digest
	Deps        []DepSummary // все файлы разбора, главный первым
	Diagnostics []DiagnosticSummary
	Interfaces  []string // полные имена объявленных интерфейсов
	Enums       []string
}

type DepSummary struct {
	Path     string
	Hash     project.Digest
	Includes []string // прямые include в порядке директив
}

type DiagnosticSummary struct {
	Severity uint8
	Code     uint16
	Message  string
	Token    string
	File     string
	Start    uint32
	End      uint32
	Notes    []NoteSummary
}

type NoteSummary struct {
	File  string
	Start uint32
	End   uint32
	Msg   string
}

// Success mirrors ast.Component.Success for a cached parse.
func (s *Summary) Success() bool { return s != nil && len(s.Diagnostics) == 0 }

// Summarize builds the cacheable summary of a finished parse.
func Summarize(c *ast.Component, fs *source.FileSet, settings project.Digest) *Summary {
	main := fs.Get(c.Files[0])
	s := &Summary{
		Schema:   cacheSchemaVersion,
		Path:     main.Path,
		Hash:     main.Hash,
		Settings: settings,
	}
	for _, m := range project.CollectFileMeta(c, fs) {
		dep := DepSummary{Path: m.Path, Hash: m.ContentHash}
		for _, inc := range m.Includes {
			dep.Includes = append(dep.Includes, inc.Path)
		}
		s.Deps = append(s.Deps, dep)
	}
	pathOf := func(id source.FileID) string {
		if int(id) >= fs.Len() {
			return ""
		}
		return fs.Get(id).Path
	}
	for _, d := range c.Diagnostics.Items() {
		ds := DiagnosticSummary{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Token:    d.Token,
			File:     pathOf(d.Primary.File),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			ds.Notes = append(ds.Notes, NoteSummary{File: pathOf(n.Span.File), Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		s.Diagnostics = append(s.Diagnostics, ds)
	}
	for i, it := range c.Interfaces.Slice() {
		if !it.Declared || it.IsSpecialization() {
			continue
		}
		s.Interfaces = append(s.Interfaces, c.QualifiedName(ast.InterfaceID(mustU32(i + 1))))
	}
	for _, e := range c.Enums.Slice() {
		if e.Declared {
			s.Enums = append(s.Enums, c.Qualify(e.Namespace, e.Name))
		}
	}
	sort.Strings(s.Interfaces)
	sort.Strings(s.Enums)
	return s
}

// restore reloads every dependency into a fresh FileSet and checks its hash.
// Any mismatch or read failure reports a stale summary.
func (s *Summary) restore(fs *source.FileSet, settings project.Digest) (*diag.Bag, bool) {
	if s.Settings != settings || len(s.Deps) == 0 {
		return nil, false
	}
	ids := make(map[string]source.FileID, len(s.Deps))
	for i, dep := range s.Deps {
		var flags source.FileFlags
		if i > 0 {
			flags = source.FileIncluded
		}
		id, err := fs.LoadWithFlags(dep.Path, flags)
		if err != nil || fs.Get(id).Hash != dep.Hash {
			return nil, false
		}
		ids[dep.Path] = id
	}
	spanOf := func(file string, start, end uint32) source.Span {
		return source.Span{File: ids[file], Start: start, End: end}
	}

	bag := diag.NewBag()
	for _, ds := range s.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(ds.Severity),
			Code:     diag.Code(ds.Code),
			Message:  ds.Message,
			Token:    ds.Token,
			Primary:  spanOf(ds.File, ds.Start, ds.End),
		}
		for _, n := range ds.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: spanOf(n.File, n.Start, n.End), Msg: n.Msg})
		}
		bag.Add(d.At(fs))
	}
	return bag, true
}

// FileMeta rebuilds the per-file metadata recorded in the summary. Include spans are not cached.
func (s *Summary) FileMeta() []project.FileMeta {
	hashes := make(map[string]project.Digest, len(s.Deps))
	for _, dep := range s.Deps {
		hashes[dep.Path] = dep.Hash
	}
	metas := make([]project.FileMeta, 0, len(s.Deps))
	for _, dep := range s.Deps {
		m := project.FileMeta{Path: dep.Path, ContentHash: dep.Hash}
		deps := make([]project.Digest, 0, len(dep.Includes))
		for _, inc := range dep.Includes {
			m.Includes = append(m.Includes, project.IncludeMeta{Path: inc})
			deps = append(deps, hashes[inc])
		}
		m.Hash = project.Combine(m.ContentHash, deps...)
		metas = append(metas, m)
	}
	return metas
}

func mustU32(i int) uint32 {
	v, err := safecast.Conv[uint32](i)
	if err != nil {
		panic(err)
	}
	return v
}
