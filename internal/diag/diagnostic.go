package diag

import (
	"cdlc/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Token    string // текст токена, на котором обнаружена проблема
	Line     uint32 // 1-based, 0 если позиция неизвестна
	Column   uint32
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// At fills Line/Column from fs.
func (d Diagnostic) At(fs *source.FileSet) Diagnostic {
	if fs == nil {
		return d
	}
	start, _ := fs.Resolve(d.Primary)
	d.Line, d.Column = start.Line, start.Col
	return d
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
