package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/lexer"
	"cdlc/internal/source"
	"cdlc/internal/token"
	"cdlc/internal/trace"
)

// ErrIncludeNotFound is returned by an Includer when no candidate file exists.
var ErrIncludeNotFound = errors.New("include file not found")

// Includer resolves the name of an include directive written in file from.
// The returned file must belong to the FileSet the parser was given.
type Includer interface {
	Include(from *source.File, name string) (source.FileID, error)
}

// FileIncluder looks for includes next to the including file, then in SearchPaths.
type FileIncluder struct {
	Files       *source.FileSet
	SearchPaths []string
}

func (fi *FileIncluder) Include(from *source.File, name string) (source.FileID, error) {
	for _, cand := range fi.candidates(from, name) {
		if id, ok := fi.Files.GetLatest(cand); ok {
			return id, nil
		}
		if _, err := os.Stat(cand); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return 0, err
		}
		id, err := fi.Files.LoadWithFlags(cand, source.FileIncluded)
		if err != nil {
			return 0, fmt.Errorf("load %s: %w", cand, err)
		}
		return id, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrIncludeNotFound, name)
}

func (fi *FileIncluder) candidates(from *source.File, name string) []string {
	if filepath.IsAbs(name) {
		return []string{name}
	}
	dirs := make([]string, 0, len(fi.SearchPaths)+1)
	if from != nil && from.Flags&source.FileVirtual == 0 {
		dirs = append(dirs, filepath.Dir(from.Path))
	}
	dirs = append(dirs, fi.SearchPaths...)
	out := make([]string, len(dirs))
	for i, d := range dirs {
		out[i] = filepath.Join(d, name)
	}
	return out
}

// parseInclude parses `include "base.cdl";`. Each file is parsed at most once
// per Component; its declarations land in the global namespace.
func (p *Parser) parseInclude() {
	p.next() // 'include'
	tok := p.next()
	if tok.Kind != token.StringLit {
		p.unget(tok)
		p.errorAt(diag.SynExpectString, tok, "Include file name is expected.")
		p.skipDeclaration()
		return
	}
	p.accept(token.Semicolon)
	name, err := strconv.Unquote(tok.Text)
	if err != nil {
		p.errorAt(diag.SynExpectString, tok, "Include file name is expected.")
		return
	}
	if p.opts.Includer == nil {
		p.errorAt(diag.IOIncludeDisabled, tok, fmt.Sprintf("Cannot include %q: includes are disabled.", name))
		return
	}

	id, err := p.opts.Includer.Include(p.file, name)
	switch {
	case errors.Is(err, ErrIncludeNotFound):
		p.errorAt(diag.IOIncludeNotFound, tok, fmt.Sprintf("Cannot find include file %q.", name))
		return
	case err != nil:
		p.errorAt(diag.IOIncludeRead, tok, fmt.Sprintf("Cannot read include file %q: %v", name, err))
		return
	}
	f := p.fs.Get(id)
	p.c.Includes = append(p.c.Includes, ast.IncludeEdge{From: p.file.ID, To: id, Span: tok.Span})
	if p.included[f.Path] {
		p.log.Debug("include skipped", "file", f.Path, "from", p.file.Path)
		return
	}
	p.included[f.Path] = true
	p.c.Files = append(p.c.Files, id)
	p.log.Debug("include", "file", f.Path, "from", p.file.Path)
	p.parseIncluded(f)
}

func (p *Parser) parseIncluded(f *source.File) {
	savedLx, savedFile, savedNs, savedLast := p.lx, p.file, p.ns, p.lastSpan
	lx := lexer.New(f, lexer.Options{Reporter: p.reporter})
	p.lx, p.file, p.ns, p.lastSpan = lx, f, p.c.Global, lx.EmptySpan()

	savedCtx := p.ctx
	var span *trace.Span
	p.ctx, span = trace.Start(p.ctx, trace.ScopeFile, "include")
	p.parseDeclarations(token.EOF)
	span.End(f.Path)

	p.lx, p.file, p.ns, p.lastSpan, p.ctx = savedLx, savedFile, savedNs, savedLast, savedCtx
}
