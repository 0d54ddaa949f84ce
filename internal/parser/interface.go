package parser

import (
	"fmt"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/source"
	"cdlc/internal/token"
	"cdlc/internal/trace"
	"cdlc/internal/types"
)

// parseInterface parses
//
//	interface IFoo;                                  // forward declaration
//	interface IFoo : IBase { members }
//	interface IList<T> : ICollection<T> { members }
//
// The interface is attached to the current namespace only when its body closes;
// otherwise every type registered for it is rolled back.
func (p *Parser) parseInterface(attr ast.Attribute) {
	kw := p.next() // 'interface'
	nameTok := p.next()
	if nameTok.Kind != token.Ident {
		p.unget(nameTok)
		p.errorAt(diag.SynExpectInterfaceName, nameTok, "Interface name is expected.")
		p.skipDeclaration()
		return
	}
	name := nameTok.Text
	qualified := p.c.Qualify(p.ns, name)

	if _, ok := p.accept(token.Semicolon); ok {
		p.declareForward(name, qualified, nameTok.Span)
		return
	}

	if _, clash := p.c.ChildNamespace(p.ns, name); clash {
		p.errorAt(diag.SemaNameConflict, nameTok,
			fmt.Sprintf("Interface %q conflicts with namespace of the same name.", qualified))
		p.skipDeclaration()
		return
	}

	iid, tid, ok := p.interfaceSlot(nameTok, qualified)
	if !ok {
		p.skipDeclaration()
		return
	}
	if !attr.Present {
		p.warnAt(diag.SynMissingAttributes, kw, "interface should have attributes")
	}

	cp := p.c.Types.Checkpoint()
	if !tid.IsValid() {
		tid = p.c.Types.Register(types.Type{Kind: types.KindInterface, Name: qualified, Payload: uint32(iid)})
	}
	scope := p.c.NewWrapperNamespace(p.ns, name, iid)
	it := p.c.Interface(iid)
	it.Type, it.Scope, it.Namespace = tid, scope, p.ns
	it.Span = kw.Span.Cover(nameTok.Span)

	if p.parseInterfaceRest(iid, tid, scope) {
		it = p.c.Interface(iid)
		it.Declared = true
		it.SetAttribute(attr)
		it.Span = it.Span.Cover(p.lastSpan)
		p.c.AttachType(p.ns, tid)
		trace.Mark(p.ctx, trace.ScopeDecl, "interface", qualified)
		return
	}

	// незакрытое тело: интерфейс не публикуется
	p.c.Types.Rollback(cp)
	p.c.DiscardScope(scope)
	it = p.c.Interface(iid)
	*it = ast.Interface{Name: name, Namespace: p.ns, Span: it.Span}
	if p.isForward(iid) {
		it.Type = tid
	}
}

// interfaceSlot returns the node a definition fills: a fresh one, or the node of
// an earlier forward declaration (tid is then already registered).
func (p *Parser) interfaceSlot(nameTok token.Token, qualified string) (ast.InterfaceID, types.TypeID, bool) {
	existing, found := p.c.Types.Intern(qualified)
	if !found {
		iid := ast.InterfaceID(p.c.Interfaces.Allocate(ast.Interface{Name: nameTok.Text, Namespace: p.ns}))
		return iid, types.NoTypeID, true
	}
	if iid, ok := p.c.InterfaceOf(existing); ok && !p.c.Interface(iid).Declared {
		return iid, existing, true
	}
	p.errorAt(diag.SemaDuplicateSymbol, nameTok, fmt.Sprintf("%q is already declared.", qualified))
	return ast.NoInterfaceID, types.NoTypeID, false
}

// declareForward registers "interface IFoo;". Repeating a forward declaration,
// or forwarding an already defined interface, is allowed.
func (p *Parser) declareForward(name, qualified string, span source.Span) {
	if existing, found := p.c.Types.Intern(qualified); found {
		if _, ok := p.c.InterfaceOf(existing); !ok {
			p.errorAt(diag.SemaDuplicateSymbol, token.Token{Span: span, Text: name},
				fmt.Sprintf("%q is already declared.", qualified))
		}
		return
	}
	iid := ast.InterfaceID(p.c.Interfaces.Allocate(ast.Interface{Name: name, Namespace: p.ns, Span: span}))
	tid := p.c.Types.Register(types.Type{Kind: types.KindInterface, Name: qualified, Payload: uint32(iid)})
	p.c.Interface(iid).Type = tid
	p.c.AttachType(p.ns, tid)
	p.forwards = append(p.forwards, forwardDecl{iface: iid, span: span})
}

func (p *Parser) isForward(iid ast.InterfaceID) bool {
	for _, f := range p.forwards {
		if f.iface == iid {
			return true
		}
	}
	return false
}

// parseInterfaceRest parses type parameters, the base clause and the body.
// It fails only on structural errors: a missing '{' or '}'.
func (p *Parser) parseInterfaceRest(iid ast.InterfaceID, tid types.TypeID, scope ast.NamespaceID) bool {
	if p.at(token.Lt) {
		params, ok := p.parseTypeParams(tid, scope)
		if !ok {
			p.skipToCloseBrace()
			return false
		}
		p.c.Interface(iid).TypeParams = params
	}

	if _, ok := p.accept(token.Colon); ok {
		baseTok := p.peek()
		if base, ok := p.parseType(scope); ok {
			p.setBase(iid, tid, base, baseTok)
		}
	}

	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, `"{" is expected.`); !ok {
		p.skipToCloseBrace()
		return false
	}
	if !p.parseInterfaceBody(iid, scope) {
		return false
	}
	p.accept(token.Semicolon)
	return true
}

func (p *Parser) parseTypeParams(owner types.TypeID, scope ast.NamespaceID) ([]types.TypeID, bool) {
	p.next() // '<'
	var params []types.TypeID
	seen := make(map[string]bool)
	for {
		tok := p.next()
		if tok.Kind != token.Ident {
			p.unget(tok)
			p.errorAt(diag.SynExpectIdentifier, tok, "Identifier as type parameter name is expected.")
			return nil, false
		}
		if seen[tok.Text] {
			p.errorAt(diag.SemaDuplicateSymbol, tok, fmt.Sprintf("Type parameter %q is already declared.", tok.Text))
		} else {
			seen[tok.Text] = true
			params = append(params, p.c.Types.RegisterTypeParam(p.c.Qualify(scope, tok.Text), owner, len(params)))
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if !p.expectCloseAngle() {
		return nil, false
	}
	return params, true
}

// setBase validates the base clause: it must name an interface and must not lead back to self.
func (p *Parser) setBase(iid ast.InterfaceID, self, base types.TypeID, tok token.Token) {
	tt := p.c.Types.MustLookup(base)
	if tt.Kind != types.KindInterface {
		p.errorAt(diag.SemaNotAnInterface, tok, fmt.Sprintf("%q is not an interface.", p.c.Types.Label(base)))
		return
	}
	if p.reachesBase(base, self) {
		p.errorAt(diag.SemaCyclicBase, tok,
			fmt.Sprintf("Interface %q cannot inherit from %q.", p.c.Types.Label(self), p.c.Types.Label(base)))
		return
	}
	p.c.Interface(iid).Base = base
}

// reachesBase reports whether following base links from start arrives at target.
func (p *Parser) reachesBase(start, target types.TypeID) bool {
	seen := make(map[types.TypeID]bool)
	for cur := start; cur.IsValid() && !seen[cur]; {
		seen[cur] = true
		tt := p.c.Types.MustLookup(cur)
		if tt.IsSpecialization() {
			cur = tt.Elem
			continue
		}
		if cur == target {
			return true
		}
		iid, ok := p.c.InterfaceOf(cur)
		if !ok {
			return false
		}
		cur = p.c.Interface(iid).Base
	}
	return false
}

// parseInterfaceBody parses members up to and including '}'.
// Tokens that start no member are skipped one at a time.
func (p *Parser) parseInterfaceBody(iid ast.InterfaceID, scope ast.NamespaceID) bool {
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.RBrace:
			p.next()
			return true
		case token.EOF:
			p.errorAt(diag.SynExpectRBrace, tok, `"}" is expected.`)
			return false
		case token.KwConst:
			p.parseConstant(scope, iid)
		case token.KwEnum:
			p.parseEnum(scope)
		case token.Ident:
			p.parseMethod(iid, scope)
		default:
			p.next()
		}
	}
}
