package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"cdlc/internal/diag"
	"cdlc/internal/lexer"
	"cdlc/internal/source"
	"cdlc/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cdl", []byte(input))
	bag := diag.NewBag()
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: &diag.BagReporter{Bag: bag, Files: fs}})
	return lx, bag
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// expectTokens проверяет последовательность токенов
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, bag := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %v\nerrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), bag.Messages())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func TestMethodDeclaration(t *testing.T) {
	expectTokens(t, "Bar([in] Integer x, [out] Integer* y);", []token.Kind{
		token.Ident, token.LParen,
		token.LBracket, token.Ident, token.RBracket, token.KwInteger, token.Ident, token.Comma,
		token.LBracket, token.Ident, token.RBracket, token.KwInteger, token.Star, token.Ident,
		token.RParen, token.Semicolon,
	})
}

func TestOperators(t *testing.T) {
	expectTokens(t, "a::b << >> < > & | ^ ~ % / = + -", []token.Kind{
		token.Ident, token.ColonColon, token.Ident, token.Shl, token.Shr, token.Lt, token.Gt,
		token.Amp, token.Pipe, token.Caret, token.Tilde, token.Percent, token.Slash,
		token.Assign, token.Plus, token.Minus,
	})
}

func TestCommentsAreSkipped(t *testing.T) {
	expectTokens(t, "// line\ninterface /* block\n over lines */ IFoo", []token.Kind{
		token.KwInterface, token.Ident,
	})
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.IntLit},
		{"123", token.IntLit},
		{"017", token.IntLit},
		{"0x1F", token.IntLit},
		{"10L", token.IntLit},
		{"1.5", token.FloatLit},
		{".5", token.FloatLit},
		{"1e3", token.FloatLit},
		{"2.5f", token.FloatLit},
		{"3d", token.FloatLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, bag := makeTestLexer(tt.input)
			tok := lx.Next()
			if tok.Kind != tt.kind || tok.Text != tt.input {
				t.Fatalf("got %v(%q), want %v(%q)", tok.Kind, tok.Text, tt.kind, tt.input)
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", bag.Messages())
			}
		})
	}
}

func TestBadNumbers(t *testing.T) {
	for _, input := range []string{"0x", "089", "12abc"} {
		t.Run(input, func(t *testing.T) {
			lx, bag := makeTestLexer(input)
			if tok := lx.Next(); tok.Kind != token.Invalid {
				t.Fatalf("got %v, want Invalid", tok.Kind)
			}
			if bag.Len() != 1 || bag.Items()[0].Code != diag.LexBadNumber {
				t.Fatalf("diagnostics: %v", bag.Messages())
			}
		})
	}
}

func TestStringAndChar(t *testing.T) {
	lx, bag := makeTestLexer(`"a \"quoted\" text" 'x' '\n'`)
	toks := collectAllTokens(lx)
	if len(toks) != 3 || toks[0].Kind != token.StringLit || toks[1].Kind != token.CharLit || toks[2].Kind != token.CharLit {
		t.Fatalf("tokens: %v", tokensToString(toks))
	}
	if toks[0].Text != `"a \"quoted\" text"` {
		t.Fatalf("string text = %q", toks[0].Text)
	}
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Messages())
	}
}

func TestUnterminated(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
	}{
		{`"abc`, diag.LexUnterminatedString},
		{"\"ab\ncd\"", diag.LexUnterminatedString},
		{"'a", diag.LexUnterminatedChar},
		{"/* never closed", diag.LexUnterminatedBlockComment},
	}
	for _, tt := range tests {
		lx, bag := makeTestLexer(tt.input)
		collectAllTokens(lx)
		if bag.Len() == 0 || bag.Items()[0].Code != tt.code {
			t.Errorf("%q: diagnostics %v, want code %s", tt.input, bag.Messages(), tt.code.ID())
		}
	}
}

func TestUnknownChar(t *testing.T) {
	lx, bag := makeTestLexer("a $ b")
	toks := collectAllTokens(lx)
	if len(toks) != 3 || toks[1].Kind != token.Invalid {
		t.Fatalf("tokens: %v", tokensToString(toks))
	}
	d := bag.Items()[0]
	if d.Code != diag.LexUnknownChar || d.Line != 1 || d.Column != 3 || d.Token != "$" {
		t.Fatalf("diag = %+v", d)
	}
}

func TestUUIDAndVersionScans(t *testing.T) {
	lx, bag := makeTestLexer("uuid(6f2a7e3c-9b1d-4c5e-8f70-1a2b3c4d5e6f), version(1.0.0)")
	if tok := lx.Next(); !tok.IsIdentText("uuid") {
		t.Fatalf("want uuid ident, got %v", tok)
	}
	lx.Next() // (
	u := lx.NextUUID()
	if u.Kind != token.UUIDLit || u.Text != "6f2a7e3c-9b1d-4c5e-8f70-1a2b3c4d5e6f" {
		t.Fatalf("uuid = %v(%q)", u.Kind, u.Text)
	}
	for _, k := range []token.Kind{token.RParen, token.Comma, token.Ident, token.LParen} {
		if tok := lx.Next(); tok.Kind != k {
			t.Fatalf("got %v, want %v", tok.Kind, k)
		}
	}
	v := lx.NextVersion()
	if v.Kind != token.VersionLit || v.Text != "1.0.0" {
		t.Fatalf("version = %v(%q)", v.Kind, v.Text)
	}
	if tok := lx.Next(); tok.Kind != token.RParen {
		t.Fatalf("got %v after version", tok.Kind)
	}
	if bag.Len() != 0 {
		t.Fatalf("diagnostics: %v", bag.Messages())
	}
}

func TestNextUUIDAfterPeek(t *testing.T) {
	lx, _ := makeTestLexer("(  1234-abcd )")
	lx.Next()
	if p := lx.Peek(); p.Kind != token.IntLit || p.Text != "1234" {
		t.Fatalf("peek = %v(%q)", p.Kind, p.Text)
	}
	if u := lx.NextUUID(); u.Text != "1234-abcd" {
		t.Fatalf("uuid after peek = %q", u.Text)
	}
}

func TestNextUUIDMismatch(t *testing.T) {
	lx, _ := makeTestLexer(")")
	if u := lx.NextUUID(); u.Kind != token.Invalid || !u.Span.Empty() {
		t.Fatalf("got %v %v", u.Kind, u.Span)
	}
	if tok := lx.Next(); tok.Kind != token.RParen {
		t.Fatalf("mismatch must not consume: got %v", tok.Kind)
	}
}

func TestUngetAndPeek(t *testing.T) {
	lx, _ := makeTestLexer("a b")
	a := lx.Next()
	lx.Unget(a)
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek after unget = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next after unget = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("want EOF, got %v", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("EOF must repeat, got %v", n.Kind)
	}
}

func TestIdentifierNormalization(t *testing.T) {
	// "é" как e + combining acute → NFC даёт одиночную руну U+00E9
	lx, _ := makeTestLexer("Caf\u00e9 Cafe\u0301")
	a, b := lx.Next(), lx.Next()
	if a.Kind != token.Ident || b.Kind != token.Ident {
		t.Fatalf("kinds: %v %v", a.Kind, b.Kind)
	}
	if a.Text != b.Text {
		t.Fatalf("normalized texts differ: %q vs %q", a.Text, b.Text)
	}
}

func TestKeywordsAndPrimitives(t *testing.T) {
	expectTokens(t, "interface coclass enum module namespace include const Array true false Byte ECode HANDLE uuid in out callee",
		[]token.Kind{
			token.KwInterface, token.KwCoclass, token.KwEnum, token.KwModule, token.KwNamespace,
			token.KwInclude, token.KwConst, token.KwArray, token.KwTrue, token.KwFalse,
			token.KwByte, token.KwECode, token.KwHANDLE, token.Ident, token.Ident, token.Ident, token.Ident,
		})
}
