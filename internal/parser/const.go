package parser

import (
	"fmt"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/token"
	"cdlc/internal/trace"
)

// parseConstant parses `const Integer MAX = 1 << 4;` in a namespace, or as an
// interface member when iface is set (scope is then the interface body).
func (p *Parser) parseConstant(scope ast.NamespaceID, iface ast.InterfaceID) {
	p.next() // 'const'
	typ, ok := p.parseType(scope)
	if !ok {
		p.skipMember()
		return
	}
	nameTok := p.next()
	if nameTok.Kind != token.Ident {
		p.unget(nameTok)
		p.errorAt(diag.SynExpectIdentifier, nameTok, "Identifier as constant name is expected.")
		p.skipMember()
		return
	}
	if _, ok := p.expect(token.Assign, diag.SynExpectAssign, `"=" is expected.`); !ok {
		p.skipMember()
		return
	}
	exprTok := p.peek()
	v, ok := p.parseConstExpr(scope)
	if !ok {
		p.skipMember()
		return
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, `";" is expected.`)

	v, ok = p.convertConst(v, typ)
	if !ok {
		p.errorAt(diag.SemaConstTypeMismatch, exprTok,
			fmt.Sprintf("Value %s does not match constant type %q.", v, p.c.Types.Label(typ)))
		return
	}

	owner := p.constantList(scope, iface)
	for _, cid := range *owner {
		if p.c.Constant(cid).Name == nameTok.Text {
			p.errorAt(diag.SemaDuplicateConstant, nameTok, fmt.Sprintf("Constant %q is already declared.", nameTok.Text))
			return
		}
	}
	cid := ast.ConstID(p.c.Constants.Allocate(ast.Constant{
		Name:      nameTok.Text,
		Type:      typ,
		Value:     v,
		Namespace: scope,
		Span:      nameTok.Span,
	}))
	owner = p.constantList(scope, iface)
	*owner = append(*owner, cid)
	trace.Mark(p.ctx, trace.ScopeDecl, "const", p.c.Qualify(scope, nameTok.Text))
}

func (p *Parser) constantList(scope ast.NamespaceID, iface ast.InterfaceID) *[]ast.ConstID {
	if iface.IsValid() {
		return &p.c.Interface(iface).Constants
	}
	return &p.c.Namespace(scope).Constants
}
