package driver

import (
	"fmt"

	"cdlc/internal/diag"
	"cdlc/internal/lexer"
	"cdlc/internal/source"
	"cdlc/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token // последним всегда идёт EOF
	Bag     *diag.Bag
}

// Tokenize lexes path without parsing it. Include directives are not followed.
func Tokenize(path string) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tokenizeFile(fs, fileID), nil
}

// TokenizeSource lexes src as a virtual file named name.
func TokenizeSource(name string, src []byte) *TokenizeResult {
	fs := source.NewFileSet()
	return tokenizeFile(fs, fs.AddVirtual(name, src))
}

func tokenizeFile(fs *source.FileSet, id source.FileID) *TokenizeResult {
	file := fs.Get(id)
	bag := diag.NewBag()
	lx := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag, Files: fs}})

	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return &TokenizeResult{FileSet: fs, File: file, Tokens: tokens, Bag: bag}
}
