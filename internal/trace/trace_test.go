package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelAllows(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeDecl, false},
		{LevelDebug, ScopeDecl, true},
	}
	for _, tt := range tests {
		if got := tt.level.Allows(tt.scope); got != tt.want {
			t.Errorf("%v.Allows(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "detail", "debug"} {
		l, err := ParseLevel(strings.ToUpper(name))
		if err != nil || l.String() != name {
			t.Fatalf("ParseLevel(%q) = %v, %v", name, l, err)
		}
	}
	if l, err := ParseLevel(""); err != nil || l != LevelOff {
		t.Fatalf("empty level = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestStreamSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracer(LevelDetail, NewStreamSink(&buf, FormatText, false))
	ctx := WithTracer(context.Background(), tr)

	ctx, span := Start(ctx, ScopePass, "parse")
	_, decl := Start(ctx, ScopeDecl, "interface") // отфильтровано
	if decl != nil {
		t.Fatal("decl span must be dropped at detail level")
	}
	decl.Set("x", "y").End("")
	Mark(ctx, ScopeDecl, "enum", "E")
	span.Set("files", "1").End("main.cdl")

	out := buf.String()
	if !strings.Contains(out, "> parse") || !strings.Contains(out, "< parse main.cdl") || !strings.Contains(out, "files=1") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
	if strings.Contains(out, "interface") || strings.Contains(out, "enum") {
		t.Fatalf("decl scope leaked at detail level:\n%s", out)
	}
}

func TestNDJSONCarriesParent(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracer(LevelDebug, NewStreamSink(&buf, FormatNDJSON, false))
	ctx, span := Start(WithTracer(context.Background(), tr), ScopePass, "parse")
	Mark(ctx, ScopeDecl, "enum", "E")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &got); err != nil {
		t.Fatalf("invalid ndjson %q: %v", lines[1], err)
	}
	if got["name"] != "enum" || got["kind"] != "mark" || got["scope"] != "decl" || got["parent"] != float64(span.ID()) {
		t.Fatalf("fields: %v", got)
	}
}

func TestRingWrapsAndErrorMarks(t *testing.T) {
	ring := NewRingSink(2)
	ctx := WithTracer(context.Background(), NewTracer(LevelError, ring))
	Mark(ctx, ScopeDriver, "ignored", "")
	for _, name := range []string{"a", "b", "c"} {
		Fail(ctx, ScopeDriver, name, "")
	}
	snap := ring.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap[0].Seq >= snap[1].Seq {
		t.Fatalf("sequence not increasing: %d, %d", snap[0].Seq, snap[1].Seq)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "! ") != 2 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestNilTracer(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != nil {
		t.Fatal("expected no tracer")
	}
	ctx2, span := Start(ctx, ScopeDriver, "run")
	if span != nil || ctx2 != ctx {
		t.Fatal("disabled tracing must not allocate spans")
	}
	Mark(ctx, ScopeDriver, "x", "")
	var tr *Tracer
	if tr.Enabled() || tr.Flush() != nil || tr.Close() != nil {
		t.Fatal("nil tracer must be inert")
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.ndjson")
	tr, err := New(Config{Level: LevelPhase, OutputPath: path, RingSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	_, span := Start(WithTracer(context.Background(), tr), ScopeDriver, "check")
	span.End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if off, err := New(Config{Level: LevelOff}); err != nil || off != nil {
		t.Fatalf("off tracer = %v, %v", off, err)
	}
}
