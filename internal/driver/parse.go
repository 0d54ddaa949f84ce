package driver

import (
	"context"
	"fmt"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/parser"
	"cdlc/internal/project"
	"cdlc/internal/source"
	"cdlc/internal/trace"
)

// Result: итог разбора одного главного файла.
// Component is nil when the result came from the cache; Summary is always set.
type Result struct {
	Path      string
	FileSet   *source.FileSet
	Component *ast.Component
	Summary   *Summary
	Bag       *diag.Bag
	Files     []project.FileMeta
	FromCache bool
}

// Success reports whether the parse produced no diagnostics at all.
func (r *Result) Success() bool {
	return r != nil && r.Bag != nil && r.Bag.Len() == 0
}

// Parse loads path and parses it with everything it includes. Failing to
// read path itself is returned as an error; every other problem becomes a
// diagnostic in Result.Bag.
func Parse(ctx context.Context, path string, opts Options) (*Result, error) {
	log := opts.logger()
	ctx, span := trace.Start(ctx, trace.ScopeFile, "parse_file")

	fs := source.NewFileSet()
	doneLoad := opts.Timer.Track("load")
	id, err := fs.Load(path)
	doneLoad(path)
	if err != nil {
		span.End("load failed")
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	main := fs.Get(id)
	settings := opts.settings()

	if res, ok := lookupCache(opts, main, settings); ok {
		log.Debug("cache hit", "path", main.Path)
		span.Set("cache", "hit").End(main.Path)
		return res, nil
	}

	doneParse := opts.Timer.Track("parse")
	pr := parser.Parse(ctx, fs, id, parser.Options{
		Reporter:           opts.Reporter,
		Includer:           &parser.FileIncluder{Files: fs, SearchPaths: opts.SearchPaths},
		Logger:             log,
		SkipSpecialization: opts.SkipSpecialization,
	})
	doneParse(main.Path)

	c := pr.Component
	summary := Summarize(c, fs, settings)
	res := &Result{
		Path:      main.Path,
		FileSet:   fs,
		Component: c,
		Summary:   summary,
		Bag:       c.Diagnostics,
		Files:     project.CollectFileMeta(c, fs),
	}
	log.Debug("parsed", "path", main.Path, "files", len(c.Files), "diagnostics", c.Diagnostics.Len())

	if opts.Cache != nil {
		doneStore := opts.Timer.Track("cache")
		if err := opts.Cache.Put(main.Hash, summary); err != nil {
			log.Warn("cache write failed", "path", main.Path, "err", err)
		}
		doneStore("store")
	}
	span.Set("cache", "miss").End(main.Path)
	return res, nil
}

func lookupCache(opts Options, main *source.File, settings project.Digest) (*Result, bool) {
	if opts.Cache == nil {
		return nil, false
	}
	done := opts.Timer.Track("cache")
	defer done("lookup")

	s, ok, err := opts.Cache.Get(main.Hash)
	if err != nil {
		opts.logger().Warn("cache read failed", "path", main.Path, "err", err)
		return nil, false
	}
	if !ok || s.Path != main.Path {
		return nil, false
	}
	fs := source.NewFileSet()
	bag, ok := s.restore(fs, settings)
	if !ok {
		return nil, false
	}
	if opts.Reporter != nil {
		for _, d := range bag.Items() {
			opts.Reporter.Report(d)
		}
	}
	return &Result{
		Path:      main.Path,
		FileSet:   fs,
		Summary:   s,
		Bag:       bag,
		Files:     s.FileMeta(),
		FromCache: true,
	}, true
}
