package driver

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestParseFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.cdl", "a.cdl", "b.cdl"} {
		iface := "I" + strings.ToUpper(strings.TrimSuffix(name, ".cdl"))
		paths = append(paths, writeFile(t, dir, name, testAttrs+" interface "+iface+" { Ping(); }\n"))
	}

	results, err := ParseFiles(context.Background(), paths, Options{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range results {
		if r == nil || r.Path != filepath.ToSlash(paths[i]) {
			t.Fatalf("result %d = %+v, want %s", i, r, paths[i])
		}
		want := "I" + strings.ToUpper(strings.TrimSuffix(filepath.Base(paths[i]), ".cdl"))
		if !slices.Equal(r.Summary.Interfaces, []string{want}) {
			t.Fatalf("result %d interfaces = %v, want %s", i, r.Summary.Interfaces, want)
		}
	}
}

func TestParseFilesLoadError(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.cdl", testAttrs+" interface IGood { }\n")
	missing := filepath.Join(dir, "missing.cdl")

	results, err := ParseFiles(context.Background(), []string{good, missing}, Options{})
	if err == nil || !strings.Contains(err.Error(), "missing.cdl") {
		t.Fatalf("err = %v, want it to name missing.cdl", err)
	}
	if results[0] == nil || !results[0].Success() {
		t.Fatal("good file should still be parsed")
	}
	if results[1] != nil {
		t.Fatal("missing file must leave a nil result")
	}
}

func TestParseFilesCanceled(t *testing.T) {
	_, main := writeProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ParseFiles(ctx, []string{main}, Options{}); err == nil {
		t.Fatal("expected the context error")
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.cdl", "")
	writeFile(t, dir, "sub/a.cdl", "")
	writeFile(t, dir, "notes.txt", "")
	single := writeFile(t, t.TempDir(), "one.idl", "")

	got, err := ExpandPaths([]string{single, dir})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{single, filepath.Join(dir, "b.cdl"), filepath.Join(dir, "sub", "a.cdl")}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if _, err := ExpandPaths([]string{filepath.Join(dir, "nope")}); err == nil {
		t.Fatal("expected an error for a missing path")
	}
}

func TestIncludeGraph(t *testing.T) {
	dir, main := writeProject(t)
	other := writeFile(t, dir, "other.cdl", testAttrs+" interface IOther { }\n")
	base := filepath.Join(dir, "base.cdl")

	results, err := ParseFiles(context.Background(), []string{main, other}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	g := BuildIncludeGraph(results)
	if !g.Contains(base) {
		t.Fatal("graph should know the included file")
	}
	if got := g.Affected(base); !slices.Equal(got, []string{filepath.ToSlash(main)}) {
		t.Fatalf("affected by base = %v", got)
	}
	if got := g.Affected(other); !slices.Equal(got, []string{filepath.ToSlash(other)}) {
		t.Fatalf("affected by other = %v", got)
	}
	if got := g.Affected(filepath.Join(dir, "unrelated.cdl")); len(got) != 0 {
		t.Fatalf("affected by unrelated = %v", got)
	}

	order, cyclic := g.Order()
	if len(cyclic) != 0 {
		t.Fatalf("unexpected cycle: %v", cyclic)
	}
	if slices.Index(order, filepath.ToSlash(main)) > slices.Index(order, filepath.ToSlash(base)) {
		t.Fatalf("includer must come first: %v", order)
	}
}

func TestIncludeCycleIsReported(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.cdl", `include "b.cdl";`+"\n"+testAttrs+" interface IA { }\n")
	writeFile(t, dir, "b.cdl", `include "a.cdl";`+"\n"+testAttrs+" interface IB { }\n")

	res, err := Parse(context.Background(), a, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success() {
		t.Fatalf("cyclic includes are legal: %v", messages(res))
	}
	_, cyclic := BuildIncludeGraph([]*Result{res}).Order()
	if len(cyclic) != 2 {
		t.Fatalf("cyclic = %v, want both files", cyclic)
	}
}

func TestTokenizeSource(t *testing.T) {
	res := TokenizeSource("t.cdl", []byte("interface IFoo { };"))
	if n := len(res.Tokens); n != 6 {
		t.Fatalf("tokens = %d, want 6", n)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Messages())
	}
	if bad := TokenizeSource("t.cdl", []byte(`"open`)); bad.Bag.Len() == 0 {
		t.Fatal("unterminated string should be reported")
	}
}
