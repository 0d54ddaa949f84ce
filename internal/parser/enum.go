package parser

import (
	"fmt"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/token"
	"cdlc/internal/trace"
	"cdlc/internal/types"
)

// parseEnum parses enum declarations:
//
//	enum Color { Red, Green = 4, Blue }
//
// Values start at 0 and continue from the previous value + 1.
func (p *Parser) parseEnum(scope ast.NamespaceID) {
	kw := p.next() // 'enum'
	nameTok := p.next()
	if nameTok.Kind != token.Ident {
		p.unget(nameTok)
		p.errorAt(diag.SynExpectEnumName, nameTok, "Identifier as enumeration name is expected.")
		p.skipDeclaration()
		return
	}
	qualified := p.c.Qualify(scope, nameTok.Text)
	if _, found := p.c.Types.Intern(qualified); found {
		p.errorAt(diag.SemaDuplicateSymbol, nameTok, fmt.Sprintf("%q is already declared.", qualified))
		p.skipDeclaration()
		return
	}
	if _, clash := p.c.ChildNamespace(scope, nameTok.Text); clash {
		p.errorAt(diag.SemaNameConflict, nameTok,
			fmt.Sprintf("Enumeration %q conflicts with namespace of the same name.", qualified))
		p.skipDeclaration()
		return
	}
	if _, ok := p.expect(token.LBrace, diag.SynExpectLBrace, `"{" is expected.`); !ok {
		p.skipDeclaration()
		return
	}

	eid := ast.EnumID(p.c.Enums.Allocate(ast.Enumeration{
		Name:      nameTok.Text,
		Namespace: scope,
		Span:      kw.Span.Cover(nameTok.Span),
	}))
	tid := p.c.Types.Register(types.Type{Kind: types.KindEnum, Name: qualified, Payload: uint32(eid)})
	p.c.Enum(eid).Type = tid
	// регистрируем до тела, чтобы инициализаторы видели предыдущие элементы
	p.c.AttachType(scope, tid)

	p.parseEnumerators(eid, scope)
	e := p.c.Enum(eid)
	e.Declared = true
	e.Span = e.Span.Cover(p.lastSpan)
	p.accept(token.Semicolon)
	trace.Mark(p.ctx, trace.ScopeDecl, "enum", qualified)
}

func (p *Parser) parseEnumerators(eid ast.EnumID, scope ast.NamespaceID) {
	var value int64
	for {
		tok := p.next()
		switch tok.Kind {
		case token.RBrace:
			return
		case token.EOF:
			p.unget(tok)
			p.errorAt(diag.SynExpectRBrace, tok, `"}" is expected.`)
			return
		case token.Ident:
		default:
			p.unget(tok)
			p.errorAt(diag.SynExpectEnumerator, tok, "Identifier as enumerator name is expected.")
			p.skipEnumerator()
			continue
		}

		if _, ok := p.accept(token.Assign); ok {
			if v, ok := p.parseEnumValue(scope); ok {
				value = v
			} else {
				p.skipEnumerator()
				continue
			}
		}

		e := p.c.Enum(eid)
		if _, dup := e.Lookup(tok.Text); dup {
			p.errorAt(diag.SemaDuplicateEnumerator, tok,
				fmt.Sprintf("Enumerator %q is already declared in %q.", tok.Text, e.Name))
		} else {
			e.Enumerators = append(e.Enumerators, ast.Enumerator{Name: tok.Text, Value: value, Span: tok.Span})
		}
		value++

		switch p.peek().Kind {
		case token.Comma:
			p.next()
		case token.RBrace:
		default:
			p.errorAt(diag.SynExpectComma, p.peek(), `"," is expected.`)
			p.skipEnumerator()
		}
	}
}

// parseEnumValue evaluates an initializer; it must be integral.
func (p *Parser) parseEnumValue(scope ast.NamespaceID) (int64, bool) {
	start := p.peek()
	v, ok := p.parseConstExpr(scope)
	if !ok {
		return 0, false
	}
	switch v.Kind {
	case ast.ConstInt, ast.ConstChar, ast.ConstEnum:
		return v.Int, true
	default:
		p.errorAt(diag.SemaConstTypeMismatch, start,
			fmt.Sprintf("Enumerator value %s is not an integer.", v))
		return 0, false
	}
}

// skipEnumerator: до следующей ',' (съедаем) или '}' (оставляем).
func (p *Parser) skipEnumerator() {
	for {
		switch p.peek().Kind {
		case token.EOF, token.RBrace:
			return
		case token.Comma:
			p.next()
			return
		default:
			p.next()
		}
	}
}
