package diagfmt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cdlc/internal/diag"
	"cdlc/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	path, gutter    *color.Color
	caret, note     *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
		note:   mk(color.FgCyan),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид, по порядку bag.Items():
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	   3 |     Bar([in] IMissing x);
//	     |              ^~~~~~~~
//
// затем Notes в том же формате, если ShowNotes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	bw := bufio.NewWriter(w)
	pal := newPalette(opts.Color)
	items := bag.Items()
	shown := limit(len(items), opts.Max)
	for i, d := range items[:shown] {
		if i > 0 {
			bw.WriteByte('\n')
		}
		prettyOne(bw, d, fs, opts, pal)
	}
	if rest := len(items) - shown; rest > 0 {
		fmt.Fprintf(bw, "\n... and %d more diagnostics\n", rest)
	}
	return bw.Flush()
}

func prettyOne(w *bufio.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", formatPath(f, opts.PathMode, opts.BaseDir), start.Line, start.Col),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.severity(d.Severity).Sprint(d.Code.ID()),
		d.Message)
	if f != nil {
		excerpt(w, f, start, end, opts, pal)
	}
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		ns, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"),
			formatPath(nf, opts.PathMode, opts.BaseDir), ns.Line, ns.Col, n.Msg)
	}
}

// excerpt печатает строку с ошибкой и контекст вокруг; подчёркивание только на первой строке span'а.
func excerpt(w *bufio.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	ctx := uint32(max(opts.Context, 0)) //nolint:gosec // non-negative
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	if maxLine := uint32(len(f.LineIdx) + 1); last > maxLine { //nolint:gosec // line count fits
		last = maxLine
	}
	gutterWidth := len(fmt.Sprint(last))
	tab := opts.TabWidth
	if tab <= 0 {
		tab = 4
	}

	for ln := first; ln <= last; ln++ {
		text := f.Line(ln)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), expandTabs(text, tab))
		if ln != start.Line {
			continue
		}
		col, width := caretPosition(text, start, end, tab)
		fmt.Fprintf(w, "%s %s%s\n",
			pal.gutter.Sprintf("%*s |", gutterWidth, ""),
			strings.Repeat(" ", col),
			pal.caret.Sprint("^"+strings.Repeat("~", width-1)))
	}
}

// caretPosition переводит байтовые колонки в экранные: табы раскрываются,
// широкие руны занимают две ячейки.
func caretPosition(line string, start, end source.LineCol, tab int) (col, width int) {
	from := clampCol(line, start.Col)
	to := len(line)
	if end.Line == start.Line {
		to = clampCol(line, end.Col)
	}
	if to < from {
		to = from
	}
	col = runewidth.StringWidth(expandTabs(line[:from], tab))
	width = runewidth.StringWidth(expandTabs(line[:to], tab)) - col
	return col, max(width, 1)
}

func clampCol(line string, col uint32) int {
	n := int(col) - 1
	if n < 0 {
		return 0
	}
	return min(n, len(line))
}

func expandTabs(s string, tab int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tab))
}
