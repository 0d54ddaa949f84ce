package parser

import (
	"fmt"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/token"
)

// parseNamespace parses `namespace a::b { decls }`. Reopening a namespace merges
// into the existing node.
func (p *Parser) parseNamespace() {
	p.next() // 'namespace'
	first := p.next()
	if first.Kind != token.Ident {
		p.unget(first)
		p.errorAt(diag.SynExpectIdentifier, first, "Identifier as namespace name is expected.")
		p.skipDeclaration()
		return
	}
	segments := []token.Token{first}
	for p.at(token.ColonColon) {
		p.next()
		seg := p.next()
		if seg.Kind != token.Ident {
			p.unget(seg)
			p.errorAt(diag.SynExpectIdentifier, seg, "Identifier is expected after \"::\".")
			p.skipDeclaration()
			return
		}
		segments = append(segments, seg)
	}
	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, `"{" is expected.`); !ok {
		p.skipDeclaration()
		return
	}

	ns := p.ns
	for _, seg := range segments {
		if tid, found := p.c.Types.Intern(p.c.Qualify(ns, seg.Text)); found {
			p.errorAt(diag.SemaNameConflict, seg,
				fmt.Sprintf("Namespace %q conflicts with type %q.", seg.Text, p.c.Types.Label(tid)))
		}
		ns, _ = p.c.AddNamespace(ns, seg.Text, seg.Span)
	}

	saved := p.ns
	p.ns = ns
	closed := p.parseDeclarations(token.RBrace)
	p.ns = saved
	if !closed {
		p.errorAt(diag.SynExpectRBrace, p.peek(), `"}" is expected.`)
		return
	}
	p.next() // '}'
	p.accept(token.Semicolon)
}

// parseModule parses `[attrs] module Name { decls }`. Declarations inside a
// module belong to the enclosing namespace.
func (p *Parser) parseModule(attr ast.Attribute) {
	kw := p.next() // 'module'
	nameTok := p.next()
	if nameTok.Kind != token.Ident {
		p.unget(nameTok)
		p.errorAt(diag.SynExpectIdentifier, nameTok, "Identifier as module name is expected.")
		p.skipDeclaration()
		return
	}
	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, `"{" is expected.`); !ok {
		p.skipDeclaration()
		return
	}
	if p.c.Module != nil {
		p.errorAt(diag.SemaDuplicateSymbol, nameTok,
			fmt.Sprintf("Module %q is already declared as %q.", nameTok.Text, p.c.Module.Name))
	} else {
		p.c.Module = &ast.Module{Name: nameTok.Text, Attr: attr, Span: kw.Span.Cover(nameTok.Span)}
	}
	if !p.parseDeclarations(token.RBrace) {
		p.errorAt(diag.SynExpectRBrace, p.peek(), `"}" is expected.`)
		return
	}
	p.next() // '}'
	p.accept(token.Semicolon)
}

// parseCoclass keeps only the outer shape: `coclass CFoo { ... }`.
func (p *Parser) parseCoclass(attr ast.Attribute) {
	kw := p.next() // 'coclass'
	nameTok := p.next()
	if nameTok.Kind != token.Ident {
		p.unget(nameTok)
		p.errorAt(diag.SynExpectIdentifier, nameTok, "Identifier as coclass name is expected.")
		p.skipDeclaration()
		return
	}
	if !attr.Present {
		p.warnAt(diag.SynMissingAttributes, kw, "coclass should have attributes")
	}
	if !p.at(token.LBrace) {
		p.errorAt(diag.SynExpectLBrace, p.peek(), `"{" is expected.`)
		p.skipDeclaration()
		return
	}
	if !p.skipBalanced(token.LBrace, token.RBrace) {
		p.errorAt(diag.SynExpectRBrace, p.peek(), `"}" is expected.`)
		return
	}
	p.accept(token.Semicolon)

	ns := p.c.Namespace(p.ns)
	for _, id := range ns.Coclasses {
		if p.c.Coclass(id).Name == nameTok.Text {
			p.errorAt(diag.SemaDuplicateSymbol, nameTok, fmt.Sprintf("Coclass %q is already declared.", nameTok.Text))
			return
		}
	}
	id := ast.CoclassID(p.c.Coclasses.Allocate(ast.Coclass{
		Name:      nameTok.Text,
		Namespace: p.ns,
		Attr:      attr,
		Span:      kw.Span.Cover(p.lastSpan),
	}))
	ns = p.c.Namespace(p.ns)
	ns.Coclasses = append(ns.Coclasses, id)
}
