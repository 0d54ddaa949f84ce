package parser

import (
	"strings"
	"testing"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/types"
)

func TestEndToEndInterface(t *testing.T) {
	src := "[uuid(" + testUUID + "), version(1.0.0)] interface IFoo { Bar([in] Integer x, [out] Integer* y); }"
	res := parseText(t, src)
	if !res.Success || res.Component.Diagnostics.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(res.Component.Diagnostics))
	}
	c := res.Component
	it := findInterface(t, c, "IFoo")
	if !it.Declared || it.UUID != testUUID || it.Version != "1.0.0" {
		t.Fatalf("interface = %+v", it)
	}
	if len(it.Methods) != 1 {
		t.Fatalf("methods = %d, want 1", len(it.Methods))
	}
	bar := c.Method(it.Methods[0])
	if bar.Name != "Bar" || len(bar.Params) != 2 {
		t.Fatalf("method = %+v", bar)
	}
	x, y := c.Param(bar.Params[0]), c.Param(bar.Params[1])
	integer := c.Types.Builtins().Integer
	if x.Name != "x" || x.Attrs != ast.ParamIn || x.Type != integer {
		t.Fatalf("x = %+v", x)
	}
	yt := c.Types.MustLookup(y.Type)
	if y.Name != "y" || y.Attrs != ast.ParamOut || yt.Kind != types.KindPointer || yt.Elem != integer || yt.Depth != 1 {
		t.Fatalf("y = %+v (%+v)", y, yt)
	}
	if bar.Signature != "(Integer,Integer*)" {
		t.Fatalf("signature %q", bar.Signature)
	}
}

func TestMalformedMethodsDoNotAbortInterface(t *testing.T) {
	src := attrs + `
interface IFoo {
    Good1([in] Integer a);
    Bad1([in] Integer);
    Bad2([in] IMissing b);
    Bad3 [in] Integer c);
    Good2([out] Integer* d);
}`
	res := parseText(t, src)
	c := res.Component
	if n := c.Diagnostics.Len(); n != 3 {
		t.Fatalf("diagnostics = %d, want 3: %s", n, diagnosticsSummary(c.Diagnostics))
	}
	want := []diag.Code{diag.SynExpectParamName, diag.SemaUndeclaredType, diag.SynExpectLParen}
	for i, code := range diagCodes(c.Diagnostics) {
		if code != want[i] {
			t.Errorf("diagnostic %d = %s, want %s", i, code.ID(), want[i].ID())
		}
	}
	it := findInterface(t, c, "IFoo")
	if !it.Declared {
		t.Fatal("interface must stay declared")
	}
	var names []string
	for _, mid := range it.Methods {
		names = append(names, c.Method(mid).Name)
	}
	if strings.Join(names, ",") != "Good1,Good2" {
		t.Fatalf("methods = %v", names)
	}
	if res.Success {
		t.Fatal("recovered parse must still report failure")
	}
}

func TestMissingSemicolonKeepsNextMethod(t *testing.T) {
	c := parseText(t, attrs+"interface IFoo { A([in] Integer a) B(); }").Component
	if n := c.Diagnostics.Len(); n != 1 || !hasCode(c.Diagnostics, diag.SynExpectSemicolon) {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
	if n := len(findInterface(t, c, "IFoo").Methods); n != 2 {
		t.Fatalf("methods = %d, want 2", n)
	}
}

func TestUnclosedInterfaceIsDiscarded(t *testing.T) {
	c := parseText(t, attrs+"interface IFoo { A([in] Integer* a);").Component
	if !hasCode(c.Diagnostics, diag.SynExpectRBrace) {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
	if _, ok := c.Types.Intern("IFoo"); ok {
		t.Fatal("failed interface must be rolled back from the type table")
	}
	if len(c.Namespace(c.Global).Types) != 0 {
		t.Fatal("failed interface must not be attached")
	}
}

func TestUnclosedInterfaceForgetsNestedEnum(t *testing.T) {
	c := parseText(t, attrs+"interface IA { enum Inner { X }").Component
	if !hasCode(c.Diagnostics, diag.SynExpectRBrace) {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
	if c.Enums.Len() != 1 {
		t.Fatalf("enums = %d, want 1", c.Enums.Len())
	}
	e := c.Enum(1)
	if e.Declared || e.Type.IsValid() {
		t.Fatalf("enum %s survived rollback: declared=%v type=%d", e.Name, e.Declared, e.Type)
	}
	if _, ok := c.Types.Intern("IA::Inner"); ok {
		t.Fatal("nested enum type must be rolled back")
	}
}

func TestEnumAutoIncrement(t *testing.T) {
	c := mustParse(t, "enum E { A, B, C = 5, D }")
	e := findEnum(t, c, "E")
	want := map[string]int64{"A": 0, "B": 1, "C": 5, "D": 6}
	if len(e.Enumerators) != len(want) {
		t.Fatalf("enumerators = %+v", e.Enumerators)
	}
	for _, en := range e.Enumerators {
		if want[en.Name] != en.Value {
			t.Errorf("%s = %d, want %d", en.Name, en.Value, want[en.Name])
		}
	}
}

func TestEnumRecovery(t *testing.T) {
	c := parseText(t, "enum E { A, 1, B, = , C, B }").Component
	codes := diagCodes(c.Diagnostics)
	want := []diag.Code{diag.SynExpectEnumerator, diag.SynExpectEnumerator, diag.SemaDuplicateEnumerator}
	if len(codes) != len(want) {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("diagnostic %d = %s, want %s", i, codes[i].ID(), want[i].ID())
		}
	}
	e := findEnum(t, c, "E")
	if len(e.Enumerators) != 3 || e.Enumerators[2].Name != "C" || e.Enumerators[2].Value != 2 {
		t.Fatalf("enumerators = %+v", e.Enumerators)
	}
}

func TestNamespaceMergeAndDuplicateInterface(t *testing.T) {
	src := "namespace a { " + attrs + " interface IFoo { A(); } }\n" +
		"namespace a { " + attrs + " interface IFoo { B(); } " + attrs + " interface IBar { } }"
	c := parseText(t, src).Component
	codes := diagCodes(c.Diagnostics)
	if len(codes) != 1 || codes[0] != diag.SemaDuplicateSymbol {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
	global := c.Namespace(c.Global)
	if len(global.Children) != 1 {
		t.Fatalf("global children = %d, want 1", len(global.Children))
	}
	ns := c.Namespace(global.Children[0])
	if ns.Name != "a" || len(ns.Types) != 2 {
		t.Fatalf("namespace a = %+v", ns)
	}
	it := c.Interface(mustInterfaceOf(t, c, "a::IFoo"))
	if len(it.Methods) != 1 || c.Method(it.Methods[0]).Name != "A" {
		t.Fatal("only the first IFoo must be attached")
	}
}

func mustInterfaceOf(t *testing.T, c *ast.Component, qualified string) ast.InterfaceID {
	t.Helper()
	id, ok := c.Types.Intern(qualified)
	if !ok {
		t.Fatalf("%s not interned", qualified)
	}
	iid, ok := c.InterfaceOf(id)
	if !ok {
		t.Fatalf("%s is not an interface", qualified)
	}
	return iid
}

func TestNestedNamespaces(t *testing.T) {
	src := "namespace a::b { " + attrs + " interface IFoo { } }\n" +
		"namespace a { " + attrs + " interface IUse { Use([in] b::IFoo* f); } }"
	c := mustParse(t, src)
	iid := mustInterfaceOf(t, c, "a::IUse")
	use := c.Method(c.Interface(iid).Methods[0])
	if got := c.Types.Signature(c.Param(use.Params[0]).Type); got != "a::b::IFoo*" {
		t.Fatalf("param type %q", got)
	}
	if got := c.QualifiedName(mustInterfaceOf(t, c, "a::b::IFoo")); got != "a::b::IFoo" {
		t.Fatalf("qualified name %q", got)
	}
}

func TestNameConflicts(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"interface after namespace", "namespace IFoo { } " + attrs + " interface IFoo { }"},
		{"namespace after interface", attrs + " interface IFoo { } namespace IFoo { }"},
		{"enum after namespace", "namespace E { } enum E { A }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parseText(t, tt.src).Component
			if !hasCode(c.Diagnostics, diag.SemaNameConflict) {
				t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
			}
		})
	}
}

func TestParameterDirections(t *testing.T) {
	c := mustParse(t, attrs+`interface IFoo {
    M([in, out] Integer* a, [out, callee] String* b, [out, in] Long* c, [in, weird] Byte d);
}`)
	m := c.Method(findInterface(t, c, "IFoo").Methods[0])
	tests := []struct {
		param int
		want  ast.ParamAttr
	}{
		{0, ast.ParamIn | ast.ParamOut},
		{1, ast.ParamOut | ast.ParamCallee},
		{2, ast.ParamIn | ast.ParamOut},
		{3, ast.ParamIn},
	}
	for _, tt := range tests {
		p := c.Param(m.Params[tt.param])
		if p.Attrs != tt.want {
			t.Errorf("%s attrs = %s, want %s", p.Name, p.Attrs, tt.want)
		}
	}
	if c.Param(m.Params[1]).Attrs.Has(ast.ParamIn) {
		t.Fatal("[out, callee] must not set IN")
	}
}

func TestCalleeWithoutOut(t *testing.T) {
	c := parseText(t, attrs+"interface IFoo { M([in, callee] String* s); }").Component
	if codes := diagCodes(c.Diagnostics); len(codes) != 1 || codes[0] != diag.SemaCalleeWithoutOut {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
	if n := len(findInterface(t, c, "IFoo").Methods); n != 1 {
		t.Fatal("parameter with callee is kept")
	}
}

func TestTypeParamOutsideItsInterface(t *testing.T) {
	src := attrs + " interface IList<T> { Add([in] T v); }\n" +
		attrs + " interface IOther { Take([in] IList::T v); }"
	c := parseText(t, src).Component
	items := c.Diagnostics.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUndeclaredType {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
	if items[0].Message != `Type "IList::T" was not declared in this scope.` {
		t.Fatalf("message %q", items[0].Message)
	}
	if len(findInterface(t, c, "IList").Methods) != 1 {
		t.Fatal("IList::T must stay usable inside IList")
	}
}

func TestUndeclaredTypePosition(t *testing.T) {
	src := attrs + "\ninterface IFoo {\n    Bar([in] IMissing x);\n}"
	c := parseText(t, src).Component
	items := c.Diagnostics.Items()
	if len(items) != 1 {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
	d := items[0]
	if d.Message != `Type "IMissing" was not declared in this scope.` {
		t.Fatalf("message %q", d.Message)
	}
	if d.Line != 3 || d.Column != 14 || d.Token != "IMissing" {
		t.Fatalf("position = %d:%d token %q", d.Line, d.Column, d.Token)
	}
}

func TestMissingAttributes(t *testing.T) {
	res := parseText(t, "interface IFoo { Bar(); }")
	items := res.Component.Diagnostics.Items()
	if len(items) != 1 || items[0].Code != diag.SynMissingAttributes || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(res.Component.Diagnostics))
	}
	if items[0].Message != "interface should have attributes" {
		t.Fatalf("message %q", items[0].Message)
	}
	if res.Success {
		t.Fatal("style diagnostic must count against success")
	}
	if !findInterface(t, res.Component, "IFoo").Declared {
		t.Fatal("interface without attributes is still declared")
	}
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		name string
		attr string
		want diag.Code // UnknownCode: без ошибок
	}{
		{"all keys", `[uuid(` + testUUID + `), version(2.1.0), description("demo")]`, diag.UnknownCode},
		{"unknown keys skipped", `[uuid(` + testUUID + `), local, threading(apartment(1)), version(1.0)]`, diag.UnknownCode},
		{"empty block", `[]`, diag.UnknownCode},
		{"bad uuid", `[uuid(1234-zz)]`, diag.SynExpectUUID},
		{"invalid uuid shape", `[uuid(1234-abcd)]`, diag.SynExpectUUID},
		{"missing version", `[version()]`, diag.SynExpectVersion},
		{"bad version", `[version(1.x.y)]`, diag.SynExpectVersion},
		{"description not string", `[description(12)]`, diag.SynExpectString},
		{"missing paren", `[uuid]`, diag.SynExpectLParen},
		{"missing comma", `[uuid(` + testUUID + `) version(1.0.0)]`, diag.SynExpectComma},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parseText(t, tt.attr+" interface IFoo { }").Component
			codes := diagCodes(c.Diagnostics)
			if tt.want == diag.UnknownCode {
				if len(codes) != 0 {
					t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
				}
				return
			}
			if len(codes) == 0 || codes[0] != tt.want {
				t.Fatalf("first diagnostic want %s, got %s", tt.want.ID(), diagnosticsSummary(c.Diagnostics))
			}
		})
	}
}

func TestAttributeValues(t *testing.T) {
	c := mustParse(t, `[uuid(`+testUUID+`), version(2.1.0-beta.1), description("a \"b\"")] interface IFoo { }`)
	it := findInterface(t, c, "IFoo")
	if it.Version != "2.1.0-beta.1" || it.Description != `a "b"` {
		t.Fatalf("attributes = %q %q", it.Version, it.Description)
	}
}

func TestAttributeNeedsDeclaration(t *testing.T) {
	c := parseText(t, attrs+" enum E { A }").Component
	if !hasCode(c.Diagnostics, diag.SynExpectDeclaration) {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
}

func TestForwardDeclaration(t *testing.T) {
	c := mustParse(t, "interface IFoo;\n"+attrs+" interface IBar { Use([in] IFoo* f); }\n"+attrs+" interface IFoo { Ping(); }")
	foo := findInterface(t, c, "IFoo")
	if !foo.Declared || len(foo.Methods) != 1 {
		t.Fatalf("IFoo = %+v", foo)
	}
	if n := len(c.Namespace(c.Global).Types); n != 2 {
		t.Fatalf("global types = %d, want 2", n)
	}
}

func TestUndefinedForward(t *testing.T) {
	c := parseText(t, "interface IGhost;").Component
	items := c.Diagnostics.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUndefinedInterface {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
}

func TestBaseInterface(t *testing.T) {
	c := mustParse(t, attrs+" interface IBase { A(); }\n"+attrs+" interface IDerived : IBase { B(); }")
	derived := findInterface(t, c, "IDerived")
	if derived.Base != c.FindType("IBase", c.Global) {
		t.Fatal("base not resolved")
	}

	tests := []struct {
		name string
		src  string
		want diag.Code
	}{
		{"self", attrs + " interface A : A { }", diag.SemaCyclicBase},
		{"enum base", "enum E { X } " + attrs + " interface A : E { }", diag.SemaNotAnInterface},
		{"primitive base", attrs + " interface A : Integer { }", diag.SemaNotAnInterface},
		{"unknown base", attrs + " interface A : IMissing { }", diag.SemaUndeclaredType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parseText(t, tt.src).Component
			if codes := diagCodes(c.Diagnostics); len(codes) != 1 || codes[0] != tt.want {
				t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
			}
			if !findInterface(t, c, "A").Declared {
				t.Fatal("interface with a bad base is still declared")
			}
		})
	}
}

func TestDuplicateMethods(t *testing.T) {
	c := parseText(t, attrs+"interface IFoo { Bar([in] Integer a); Bar([in] String a); Bar([in] Integer b); }").Component
	if codes := diagCodes(c.Diagnostics); len(codes) != 1 || codes[0] != diag.SemaDuplicateMethod {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
	if n := len(findInterface(t, c, "IFoo").Methods); n != 2 {
		t.Fatalf("methods = %d, want 2 overloads", n)
	}
}

func TestTypeShapesAreInterned(t *testing.T) {
	c := mustParse(t, attrs+`interface IFoo {
    A([in] Array<Integer> a, [in] Integer** b, [in] IFoo& c);
    B([in] Array<Integer> a, [in] Integer** b, [in] IFoo& c);
}`)
	it := findInterface(t, c, "IFoo")
	a, b := c.Method(it.Methods[0]), c.Method(it.Methods[1])
	for i := range a.Params {
		if c.Param(a.Params[i]).Type != c.Param(b.Params[i]).Type {
			t.Fatalf("param %d: equal shapes must share one type node", i)
		}
	}
	if a.Signature != "(Array<Integer>,Integer**,IFoo&)" {
		t.Fatalf("signature %q", a.Signature)
	}
}

func TestGenericInterfaces(t *testing.T) {
	c := mustParse(t, attrs+` interface IBox<T> { Put([in] Array<Array<T>> v); Get([out] T* v); }
`+attrs+` interface IPair<K, V> : IBox<V> { Set([in] K key, [in] V value); }
`+attrs+` interface IUse { Use([in] IPair<String, Integer> p); }`)
	box := findInterface(t, c, "IBox")
	if len(box.TypeParams) != 1 || c.Types.Signature(box.TypeParams[0]) != "IBox::T" {
		t.Fatalf("type params = %v", box.TypeParams)
	}
	put := c.Method(box.Methods[0])
	if put.Signature != "(Array<Array<IBox::T>>)" {
		t.Fatalf("nested >> signature %q", put.Signature)
	}
	pair := c.Interface(mustInterfaceOf(t, c, "IPair<String,Integer>"))
	if !pair.IsSpecialization() || c.Types.Signature(pair.Base) != "IBox<Integer>" {
		t.Fatalf("IPair<String,Integer> = %+v", pair)
	}
}

func TestGenericDiagnostics(t *testing.T) {
	decls := attrs + " interface IList<T> { } " + attrs + " interface IPlain { } "
	tests := []struct {
		name string
		use  string
		want diag.Code
	}{
		{"missing args", "[in] IList x", diag.SemaMissingTypeArgs},
		{"not generic", "[in] IPlain<Integer> x", diag.SemaNotGeneric},
		{"arity", "[in] IList<Integer, String> x", diag.SemaTypeArgCount},
		{"unclosed", "[in] IList<Integer x", diag.SynExpectGt},
		{"foreign parameter", "[in] IList::T x", diag.SemaUndeclaredType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parseText(t, decls+attrs+" interface IUse { M("+tt.use+"); }").Component
			if codes := diagCodes(c.Diagnostics); len(codes) != 1 || codes[0] != tt.want {
				t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
			}
		})
	}
}

func TestTopLevelRecovery(t *testing.T) {
	c := parseText(t, "42 enum E { A } } ").Component
	items := c.Diagnostics.Items()
	if len(items) != 2 || items[0].Message != `"42" is not expected.` || items[1].Message != `"}" is not expected.` {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
	findEnum(t, c, "E")
}

func TestCoclassAndModule(t *testing.T) {
	src := attrs + " module M { " + attrs + " coclass CFoo { interface IFoo; } }\ncoclass CBare { }"
	c := parseText(t, src).Component
	if codes := diagCodes(c.Diagnostics); len(codes) != 1 || codes[0] != diag.SynMissingAttributes {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(c.Diagnostics))
	}
	if c.Module == nil || c.Module.Name != "M" || c.Module.Attr.UUID != testUUID {
		t.Fatalf("module = %+v", c.Module)
	}
	global := c.Namespace(c.Global)
	if len(global.Coclasses) != 2 || c.Coclass(global.Coclasses[0]).Name != "CFoo" {
		t.Fatalf("coclasses = %v", global.Coclasses)
	}
	// тело coclass не разбирается: IFoo не появляется
	if _, ok := c.Types.Intern("IFoo"); ok {
		t.Fatal("coclass body must not declare interfaces")
	}
}

func TestDumpAfterParse(t *testing.T) {
	c := mustParse(t, "namespace a { "+attrs+" interface IFoo { const Integer N = 3; Bar([in] Integer x); enum Mode { On, Off } } }")
	var sb strings.Builder
	if err := c.Dump(&sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{"namespace a", "interface a::IFoo [uuid(" + testUUID + ")]", "const Integer N = 3", "method Bar(Integer)", "enum a::IFoo::Mode", "Off = 1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dump lacks %q:\n%s", want, out)
		}
	}
}
