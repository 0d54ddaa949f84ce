package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"cdlc/internal/observ"
)

const testAttrs = "[uuid(5a8ec2d1-55b4-4c0a-8a30-6e0a3d4ba4c1)]"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeProject(t *testing.T) (dir, main string) {
	t.Helper()
	dir = t.TempDir()
	writeFile(t, dir, "base.cdl", testAttrs+" interface IBase { Ping(); }\nenum Shared { One, Two }\n")
	main = writeFile(t, dir, "main.cdl", `include "base.cdl";
namespace app {
    `+testAttrs+` interface IMain : IBase { Take([in] Shared s); }
}
`)
	return dir, main
}

func messages(r *Result) []string {
	var out []string
	for _, d := range r.Bag.Items() {
		out = append(out, fmt.Sprintf("%s %d:%d %s", d.Code, d.Line, d.Column, d.Message))
	}
	return out
}

func TestParseWithIncludes(t *testing.T) {
	_, main := writeProject(t)
	timer := observ.NewTimer()
	res, err := Parse(context.Background(), main, Options{Timer: timer})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success() {
		t.Fatalf("unexpected diagnostics: %v", messages(res))
	}
	if res.FromCache || res.Component == nil {
		t.Fatalf("fresh parse expected, got %+v", res)
	}
	if len(res.Files) != 2 || len(res.Files[0].Includes) != 1 {
		t.Fatalf("file meta = %+v", res.Files)
	}
	if want := []string{"IBase", "app::IMain"}; !slices.Equal(res.Summary.Interfaces, want) {
		t.Fatalf("interfaces = %v, want %v", res.Summary.Interfaces, want)
	}
	if want := []string{"Shared"}; !slices.Equal(res.Summary.Enums, want) {
		t.Fatalf("enums = %v, want %v", res.Summary.Enums, want)
	}
	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	if !slices.Contains(names, "load") || !slices.Contains(names, "parse") {
		t.Fatalf("phases = %v", names)
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(context.Background(), filepath.Join(t.TempDir(), "nope.cdl"), Options{})
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestParseSearchPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared/base.cdl", testAttrs+" interface IBase { }\n")
	main := writeFile(t, dir, "src/main.cdl", `include "base.cdl";`+"\n"+testAttrs+" interface IMain : IBase { }\n")

	res, err := Parse(context.Background(), main, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Success() {
		t.Fatal("include should not resolve without search paths")
	}

	res, err = Parse(context.Background(), main, Options{SearchPaths: []string{filepath.Join(dir, "shared")}})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success() {
		t.Fatalf("unexpected diagnostics: %v", messages(res))
	}
}

func TestParseCacheRoundTrip(t *testing.T) {
	dir, _ := writeProject(t)
	bad := writeFile(t, dir, "bad.cdl", `include "base.cdl";
interface IBad : IBase {
    Take([in] IMissing x);
}
`)
	cache, err := OpenDiskCache(filepath.Join(dir, ".cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache}

	first, err := Parse(context.Background(), bad, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache || first.Success() {
		t.Fatalf("first parse: cached=%v success=%v", first.FromCache, first.Success())
	}
	second, err := Parse(context.Background(), bad, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.FromCache {
		t.Fatal("second parse should come from the cache")
	}
	if second.Component != nil {
		t.Fatal("cached result must not carry a component")
	}
	a, b := first.Bag.Items(), second.Bag.Items()
	if len(a) != len(b) {
		t.Fatalf("diagnostics: fresh %d, cached %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Code != b[i].Code || a[i].Message != b[i].Message || a[i].Line != b[i].Line || a[i].Column != b[i].Column || a[i].Token != b[i].Token {
			t.Fatalf("diagnostic %d: fresh %+v, cached %+v", i, a[i], b[i])
		}
		if second.FileSet.Get(b[i].Primary.File).Path != first.FileSet.Get(a[i].Primary.File).Path {
			t.Fatalf("diagnostic %d points into another file", i)
		}
	}
	if len(second.Files) != 2 || second.Files[0].Hash != first.Files[0].Hash {
		t.Fatalf("file meta differs: fresh %+v, cached %+v", first.Files, second.Files)
	}
}

func TestParseCacheInvalidation(t *testing.T) {
	dir, main := writeProject(t)
	cache, err := OpenDiskCache(filepath.Join(dir, ".cache"))
	if err != nil {
		t.Fatal(err)
	}
	parse := func(opts Options) *Result {
		t.Helper()
		opts.Cache = cache
		res, err := Parse(context.Background(), main, opts)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	if parse(Options{}).FromCache {
		t.Fatal("empty cache hit")
	}
	if !parse(Options{}).FromCache {
		t.Fatal("expected a hit")
	}
	if parse(Options{SkipSpecialization: true}).FromCache {
		t.Fatal("other settings must miss")
	}

	writeFile(t, dir, "base.cdl", testAttrs+" interface IBase { Ping(); Pong(); }\nenum Shared { One, Two }\n")
	res := parse(Options{})
	if res.FromCache {
		t.Fatal("changed include must invalidate the entry")
	}
	if !res.Success() {
		t.Fatalf("unexpected diagnostics: %v", messages(res))
	}
	if !parse(Options{}).FromCache {
		t.Fatal("entry should be rewritten after the miss")
	}
}

func TestParseTestdata(t *testing.T) {
	for _, tc := range []struct {
		name       string
		success    bool
		interfaces []string
	}{
		{"shapes.cdl", true, []string{"common::IObject", "graphics::ICanvas", "graphics::IShape"}},
		{"generics.cdl", true, []string{"IList", "IMap", "IRegistry"}},
		{"broken.cdl", false, nil},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Parse(context.Background(), filepath.Join("..", "..", "testdata", tc.name), Options{})
			if err != nil {
				t.Fatal(err)
			}
			if res.Success() != tc.success {
				t.Fatalf("success = %v, want %v: %v", res.Success(), tc.success, messages(res))
			}
			if tc.interfaces != nil && !slices.Equal(res.Summary.Interfaces, tc.interfaces) {
				t.Fatalf("interfaces = %v, want %v", res.Summary.Interfaces, tc.interfaces)
			}
		})
	}
}
