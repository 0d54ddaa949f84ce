package ast_test

import (
	"strings"
	"testing"

	"cdlc/internal/ast"
	"cdlc/internal/source"
	"cdlc/internal/types"
)

func declareInterface(c *ast.Component, ns ast.NamespaceID, name string) (ast.InterfaceID, types.TypeID) {
	id := ast.InterfaceID(c.Interfaces.Allocate(ast.Interface{Name: name, Namespace: ns, Declared: true}))
	tid := c.Types.Register(types.Type{Kind: types.KindInterface, Name: c.Qualify(ns, name), Payload: uint32(id)})
	c.Interface(id).Type = tid
	c.AttachType(ns, tid)
	return id, tid
}

func TestNamespaceMergeAndPath(t *testing.T) {
	c := ast.NewComponent("t.cdl")
	a1, created := c.AddNamespace(c.Global, "a", source.Span{})
	if !created {
		t.Fatal("first namespace must be created")
	}
	a2, created := c.AddNamespace(c.Global, "a", source.Span{})
	if created || a1 != a2 {
		t.Fatalf("reopened sibling must merge: %d vs %d", a1, a2)
	}
	b, _ := c.AddNamespace(a1, "b", source.Span{})
	if got := c.NamespacePath(b); got != "a::b" {
		t.Fatalf("path = %q", got)
	}
	if got := c.NamespacePath(c.Global); got != "" {
		t.Fatalf("global path = %q", got)
	}
	if n := len(c.Namespace(c.Global).Children); n != 1 {
		t.Fatalf("global has %d children, want 1", n)
	}
}

func TestFindTypeWalksOutward(t *testing.T) {
	c := ast.NewComponent("t.cdl")
	outer, _ := c.AddNamespace(c.Global, "outer", source.Span{})
	inner, _ := c.AddNamespace(outer, "inner", source.Span{})
	_, fooOuter := declareInterface(c, outer, "IFoo")
	_, barGlobal := declareInterface(c, c.Global, "IBar")

	if got := c.FindType("IFoo", inner); got != fooOuter {
		t.Fatalf("IFoo from inner = %d, want %d", got, fooOuter)
	}
	if got := c.FindType("IBar", inner); got != barGlobal {
		t.Fatalf("IBar from inner = %d", got)
	}
	if got := c.FindType("outer::IFoo", c.Global); got != fooOuter {
		t.Fatalf("qualified lookup = %d", got)
	}
	if got := c.FindType("IFoo", c.Global); got.IsValid() {
		t.Fatal("IFoo must not be visible from the global namespace")
	}
	if got := c.FindType("Integer", inner); got != c.Types.Builtins().Integer {
		t.Fatal("primitive lookup")
	}
	if got := c.FindType("Nope", inner); got.IsValid() {
		t.Fatal("unknown name resolved")
	}

	// ближайшее объявление затеняет внешнее
	_, fooInner := declareInterface(c, inner, "IFoo")
	if got := c.FindType("IFoo", inner); got != fooInner {
		t.Fatal("inner declaration must shadow outer one")
	}
}

func TestLookupEnumerator(t *testing.T) {
	c := ast.NewComponent("t.cdl")
	eid := ast.EnumID(c.Enums.Allocate(ast.Enumeration{
		Name: "Color", Namespace: c.Global, Declared: true,
		Enumerators: []ast.Enumerator{{Name: "Red", Value: 0}, {Name: "Blue", Value: 4}},
	}))
	tid := c.Types.Register(types.Type{Kind: types.KindEnum, Name: "Color", Payload: uint32(eid)})
	c.AttachType(c.Global, tid)

	for _, name := range []string{"Blue", "Color::Blue"} {
		en, got, ok := c.LookupEnumerator(name, c.Global)
		if !ok || got != eid || en.Value != 4 {
			t.Fatalf("%s: %+v %d %v", name, en, got, ok)
		}
	}
	if _, _, ok := c.LookupEnumerator("Green", c.Global); ok {
		t.Fatal("unknown enumerator resolved")
	}
}

func TestPoolDeduplicates(t *testing.T) {
	c := ast.NewComponent("t.cdl")
	b := c.Types.Builtins()
	key := ast.PoolKey{Generic: 1, Args: ast.ArgsKey(c.Types, []types.TypeID{b.Integer, b.String})}
	if key.Args != "Integer,String" {
		t.Fatalf("args key %q", key.Args)
	}
	first := c.Pool.Insert(ast.PoolEntry{Key: key, Instance: 7})
	second := c.Pool.Insert(ast.PoolEntry{Key: key, Instance: 9})
	if first.Instance != 7 || second.Instance != 7 || c.Pool.Len() != 1 {
		t.Fatalf("pool kept duplicate: %+v %+v", first, second)
	}
	if e, ok := c.Pool.Lookup(key); !ok || e.Instance != 7 {
		t.Fatal("lookup after insert")
	}
}

func TestAllMethodsIncludesBase(t *testing.T) {
	c := ast.NewComponent("t.cdl")
	base, baseT := declareInterface(c, c.Global, "IBase")
	derived, _ := declareInterface(c, c.Global, "IDerived")
	m1 := ast.MethodID(c.Methods.Allocate(ast.Method{Name: "A"}))
	m2 := ast.MethodID(c.Methods.Allocate(ast.Method{Name: "B"}))
	c.Interface(base).Methods = []ast.MethodID{m1}
	c.Interface(derived).Methods = []ast.MethodID{m2}
	c.Interface(derived).Base = baseT

	got := c.AllMethods(derived)
	if len(got) != 2 || got[0] != m1 || got[1] != m2 {
		t.Fatalf("AllMethods = %v", got)
	}
}

func TestGuardMarker(t *testing.T) {
	tests := map[string]string{
		"IFoo":              "__IFOO__",
		"como::IFoo":        "__COMO_IFOO__",
		"a::IList<Integer>": "__A_ILIST_INTEGER__",
	}
	for in, want := range tests {
		if got := ast.GuardMarker(in); got != want {
			t.Errorf("GuardMarker(%q) = %q, want %q", in, got, want)
		}
	}
}

type countingVisitor struct {
	ast.BaseVisitor
	interfaces, methods, params int
}

func (v *countingVisitor) VisitInterface(ast.InterfaceID, *ast.Interface) bool {
	v.interfaces++
	return true
}

func (v *countingVisitor) VisitMethod(ast.MethodID, *ast.Method) bool {
	v.methods++
	return true
}

func (v *countingVisitor) VisitParameter(ast.ParamID, *ast.Parameter) { v.params++ }

func TestWalkAndDump(t *testing.T) {
	c := ast.NewComponent("t.cdl")
	ns, _ := c.AddNamespace(c.Global, "a", source.Span{})
	iid, _ := declareInterface(c, ns, "IFoo")
	pid := ast.ParamID(c.Params.Allocate(ast.Parameter{Name: "x", Type: c.Types.Builtins().Integer, Attrs: ast.ParamIn}))
	mid := ast.MethodID(c.Methods.Allocate(ast.Method{Name: "Bar", Params: []ast.ParamID{pid}, Signature: "(Integer)"}))
	c.Interface(iid).Methods = []ast.MethodID{mid}
	// необъявленный (forward) интерфейс не обходится
	hidden, _ := declareInterface(c, ns, "IHidden")
	c.Interface(hidden).Declared = false

	v := &countingVisitor{}
	c.Walk(v)
	if v.interfaces != 1 || v.methods != 1 || v.params != 1 {
		t.Fatalf("walk counts %+v", *v)
	}

	var sb strings.Builder
	if err := c.Dump(&sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"namespace a", "interface a::IFoo", "method Bar(Integer)", "[in] Integer x"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "IHidden") {
		t.Fatalf("dump shows undeclared interface:\n%s", out)
	}
}
