package parser

import (
	"fmt"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/token"
	"cdlc/internal/types"
)

// parseMethod parses `Name([in] Integer a, [out] Integer* b);` and appends it to
// iface. A malformed method is diagnosed and dropped; the interface goes on.
func (p *Parser) parseMethod(iface ast.InterfaceID, scope ast.NamespaceID) {
	nameTok := p.next()
	if _, ok := p.expect(token.LParen, diag.SynExpectLParen, `"(" is expected.`); !ok {
		p.skipMember()
		return
	}

	var params []ast.Parameter
	if _, ok := p.accept(token.RParen); !ok {
		for {
			param, ok := p.parseParameter(scope)
			if !ok {
				p.skipMember()
				return
			}
			params = append(params, param)
			if _, ok := p.accept(token.Comma); ok {
				continue
			}
			if _, ok := p.expect(token.RParen, diag.SynExpectRParen, `")" is expected.`); !ok {
				p.skipMember()
				return
			}
			break
		}
	}
	// без ';' не пропускаем ничего: следующий токен, скорее всего, начало следующего метода
	p.expect(token.Semicolon, diag.SynExpectSemicolon, `";" is expected.`)

	paramTypes := make([]types.TypeID, len(params))
	for i, prm := range params {
		paramTypes[i] = prm.Type
	}
	sig := ast.MethodSignature(p.c.Types, paramTypes)
	if _, dup := p.c.FindMethod(iface, nameTok.Text, sig); dup {
		p.errorAt(diag.SemaDuplicateMethod, nameTok,
			fmt.Sprintf("Method %s%s is already declared.", nameTok.Text, sig))
		return
	}

	ids := make([]ast.ParamID, len(params))
	for i, prm := range params {
		ids[i] = ast.ParamID(p.c.Params.Allocate(prm))
	}
	mid := ast.MethodID(p.c.Methods.Allocate(ast.Method{
		Name:      nameTok.Text,
		Params:    ids,
		Signature: sig,
		Span:      nameTok.Span.Cover(p.lastSpan),
	}))
	it := p.c.Interface(iface)
	it.Methods = append(it.Methods, mid)
}

// parseParameter parses `[dirs] Type name`. Unknown direction words are ignored.
func (p *Parser) parseParameter(scope ast.NamespaceID) (ast.Parameter, bool) {
	open, ok := p.expect(token.LBracket, diag.SynExpectLBracket, `"[" is expected.`)
	if !ok {
		return ast.Parameter{}, false
	}
	var attrs ast.ParamAttr
	var calleeTok token.Token
loop:
	for {
		tok := p.next()
		switch {
		case tok.Kind == token.RBracket:
			break loop
		case tok.Kind == token.EOF, tok.Kind == token.Semicolon, tok.Kind == token.RParen, tok.Kind == token.RBrace:
			p.unget(tok)
			p.errorAt(diag.SynExpectRBracket, tok, `"]" is expected.`)
			return ast.Parameter{}, false
		case tok.IsIdentText("in"):
			attrs |= ast.ParamIn
		case tok.IsIdentText("out"):
			attrs |= ast.ParamOut
		case tok.IsIdentText("callee"):
			attrs |= ast.ParamCallee
			calleeTok = tok
		}
	}

	typ, ok := p.parseType(scope)
	if !ok {
		return ast.Parameter{}, false
	}
	nameTok := p.next()
	if nameTok.Kind != token.Ident {
		p.unget(nameTok)
		p.errorAt(diag.SynExpectParamName, nameTok, "Parameter name is expected.")
		return ast.Parameter{}, false
	}
	if attrs.Has(ast.ParamCallee) && !attrs.Has(ast.ParamOut) {
		p.errorAt(diag.SemaCalleeWithoutOut, calleeTok,
			fmt.Sprintf("Parameter %q is callee but not out.", nameTok.Text))
	}
	return ast.Parameter{
		Name:  nameTok.Text,
		Type:  typ,
		Attrs: attrs,
		Span:  open.Span.Cover(nameTok.Span),
	}, true
}
