package testkit_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"cdlc/internal/ast"
	"cdlc/internal/parser"
	"cdlc/internal/source"
	"cdlc/internal/testkit"
)

func parseTestdata(t *testing.T, name string) (*ast.Component, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id, err := fs.Load(filepath.Join("..", "..", "testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	res := parser.Parse(context.Background(), fs, id, parser.Options{Includer: &parser.FileIncluder{Files: fs}})
	return res.Component, fs
}

func TestInvariantsHoldOnTestdata(t *testing.T) {
	for _, tc := range []struct {
		name    string
		success bool
	}{
		{"common.cdl", true},
		{"shapes.cdl", true},
		{"generics.cdl", true},
		{"broken.cdl", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, fs := parseTestdata(t, tc.name)
			if c.Success() != tc.success {
				t.Fatalf("success = %v, want %v: %v", c.Success(), tc.success, c.Diagnostics.Messages())
			}
			if err := testkit.CheckComponentInvariants(c, fs); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestInvariantsHoldOnUnclosedBodies(t *testing.T) {
	src := "interface IOuter { Ping();\nnamespace n { interface IInner<T> { Take([in] T v);"
	res, fs := parser.ParseSource(context.Background(), "open.cdl", []byte(src), parser.Options{})
	if res.Success {
		t.Fatal("unclosed bodies must be reported")
	}
	if err := testkit.CheckComponentInvariants(res.Component, fs); err != nil {
		t.Fatal(err)
	}
}

func TestInvariantsCatchBrokenSignature(t *testing.T) {
	c, fs := parseTestdata(t, "shapes.cdl")
	var broken bool
	for _, it := range c.Interfaces.Slice() {
		if it.Name == "IShape" && len(it.Methods) > 0 {
			c.Method(it.Methods[0]).Signature = "Nope(Boolean)"
			broken = true
		}
	}
	if !broken {
		t.Fatal("IShape not found")
	}
	err := testkit.CheckComponentInvariants(c, fs)
	if err == nil || !strings.Contains(err.Error(), "signature") {
		t.Fatalf("err = %v, want a signature mismatch", err)
	}
}

func TestInvariantsRejectNil(t *testing.T) {
	if err := testkit.CheckComponentInvariants(nil, nil); err == nil {
		t.Fatal("expected an error for a nil component")
	}
}
