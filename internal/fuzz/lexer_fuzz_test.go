package fuzztests

import (
	"testing"

	"cdlc/internal/diag"
	"cdlc/internal/lexer"
	"cdlc/internal/source"
	"cdlc/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.cdl", input)
		file := fs.Get(fileID)

		bag := diag.NewBag()
		lx := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag, Files: fs}})
		var prevEnd uint32
		// каждый токен съедает хотя бы байт, так что цикл конечен
		for range len(input) + 1 {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				return
			}
			if tok.Span.Start < prevEnd || tok.Span.End > uint32(len(input)) {
				t.Fatalf("token %v span %v out of order (prev end %d, len %d)", tok.Kind, tok.Span, prevEnd, len(input))
			}
			prevEnd = tok.Span.End
		}
		t.Fatalf("lexer did not reach EOF on %d bytes", len(input))
	})
}
