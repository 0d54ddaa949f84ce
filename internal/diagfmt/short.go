package diagfmt

import (
	"bufio"
	"fmt"
	"io"

	"cdlc/internal/diag"
	"cdlc/internal/source"
)

// Short prints one line per diagnostic:
//
//	[Line 3, Column 14] Type "IMissing" was not declared in this scope.
//
// fs is needed only with WithPath.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts ShortOpts) error {
	bw := bufio.NewWriter(w)
	items := bag.Items()
	shown := limit(len(items), opts.Max)
	for _, d := range items[:shown] {
		if opts.WithPath && fs != nil {
			fmt.Fprintf(bw, "%s: ", formatPath(fs.Get(d.Primary.File), opts.PathMode, opts.BaseDir))
		}
		fmt.Fprintln(bw, ShortLine(d))
	}
	if rest := len(items) - shown; rest > 0 {
		fmt.Fprintf(bw, "... and %d more\n", rest)
	}
	return bw.Flush()
}

// ShortLine renders a single diagnostic without its path.
func ShortLine(d diag.Diagnostic) string {
	return fmt.Sprintf("[Line %d, Column %d] %s", d.Line, d.Column, d.Message)
}

func limit(n, maxItems int) int {
	if maxItems > 0 && maxItems < n {
		return maxItems
	}
	return n
}
