package diagfmt

import (
	"fmt"
	"path/filepath"

	"cdlc/internal/source"
)

// autoPathLimit: длиннее этого абсолютные пути в auto-режиме обрезаются до имени файла.
const autoPathLimit = 40

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	if f == nil {
		return "<unknown>"
	}
	path := filepath.FromSlash(f.Path)
	switch mode {
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual != 0 {
			return path
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	case PathModeRelative:
		if baseDir != "" {
			if rel, err := filepath.Rel(filepath.FromSlash(baseDir), path); err == nil {
				return rel
			}
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAuto:
		if filepath.IsAbs(path) && len(path) > autoPathLimit {
			return filepath.Base(path)
		}
	}
	return path
}

// formatSpan renders "startLine:startCol-endLine:endCol", or raw offsets without fs.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
