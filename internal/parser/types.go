package parser

import (
	"fmt"
	"strings"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/token"
	"cdlc/internal/types"
)

// parseType parses a type reference as seen from scope:
//
//	Integer  Integer**  Array<String>  a::IFoo&  IList<Integer>*
//
// On failure a diagnostic is already recorded; callers abandon their production.
func (p *Parser) parseType(scope ast.NamespaceID) (types.TypeID, bool) {
	base, ok := p.parseBaseType(scope)
	if !ok {
		return types.NoTypeID, false
	}
	depth := 0
	for p.at(token.Star) {
		p.next()
		depth++
	}
	id := p.c.Types.BuildPointerType(base, depth)
	if _, ok := p.accept(token.Amp); ok {
		id = p.c.Types.BuildReferenceType(id)
	}
	return id, id.IsValid()
}

func (p *Parser) parseBaseType(scope ast.NamespaceID) (types.TypeID, bool) {
	tok := p.next()
	switch {
	case tok.IsPrimitive():
		return p.c.FindType(tok.Text, scope), true
	case tok.Kind == token.KwArray:
		if _, ok := p.expect(token.Lt, diag.SynExpectLt, `"<" is expected.`); !ok {
			return types.NoTypeID, false
		}
		elem, ok := p.parseType(scope)
		if !ok {
			return types.NoTypeID, false
		}
		if !p.expectCloseAngle() {
			return types.NoTypeID, false
		}
		return p.c.Types.BuildArrayType(elem), true
	case tok.Kind == token.Ident:
		name, ok := p.parseQualifiedRest(tok)
		if !ok {
			return types.NoTypeID, false
		}
		id := p.c.FindType(name, scope)
		if !id.IsValid() {
			p.errorAt(diag.SemaUndeclaredType, tok, fmt.Sprintf("Type %q was not declared in this scope.", name))
			return types.NoTypeID, false
		}
		return p.parseTypeArgs(id, tok, scope)
	default:
		p.unget(tok)
		p.errorAt(diag.SynExpectType, tok, "Type is expected.")
		return types.NoTypeID, false
	}
}

// parseQualifiedRest дочитывает "::Ident" после первого идентификатора.
func (p *Parser) parseQualifiedRest(first token.Token) (string, bool) {
	parts := []string{first.Text}
	for p.at(token.ColonColon) {
		p.next()
		tok := p.next()
		if tok.Kind != token.Ident {
			p.unget(tok)
			p.errorAt(diag.SynExpectIdentifier, tok, "Identifier is expected after \"::\".")
			return "", false
		}
		parts = append(parts, tok.Text)
	}
	return strings.Join(parts, ast.ScopeSeparator), true
}

// parseTypeArgs checks generic arity and turns id<args> into a specialization type.
func (p *Parser) parseTypeArgs(id types.TypeID, nameTok token.Token, scope ast.NamespaceID) (types.TypeID, bool) {
	arity := p.genericArity(id)
	if !p.at(token.Lt) {
		if arity > 0 {
			p.errorAt(diag.SemaMissingTypeArgs, nameTok,
				fmt.Sprintf("Generic interface %q requires %d type argument(s).", nameTok.Text, arity))
			return types.NoTypeID, false
		}
		return id, true
	}
	p.next() // '<'
	var args []types.TypeID
	for {
		arg, ok := p.parseType(scope)
		if !ok {
			return types.NoTypeID, false
		}
		args = append(args, arg)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if !p.expectCloseAngle() {
		return types.NoTypeID, false
	}
	switch {
	case arity == 0:
		p.errorAt(diag.SemaNotGeneric, nameTok, fmt.Sprintf("Type %q is not generic.", nameTok.Text))
		return types.NoTypeID, false
	case arity != len(args):
		p.errorAt(diag.SemaTypeArgCount, nameTok,
			fmt.Sprintf("Type %q expects %d type argument(s), got %d.", nameTok.Text, arity, len(args)))
		return types.NoTypeID, false
	}
	spec := p.c.Types.RegisterSpecialization(id, args)
	sig := p.c.Types.Signature(spec)
	if _, seen := p.specRefs[sig]; !seen {
		p.specRefs[sig] = nameTok.Span
	}
	return spec, spec.IsValid()
}

// genericArity returns the number of type parameters of an interface type, 0 otherwise.
func (p *Parser) genericArity(id types.TypeID) int {
	iid, ok := p.c.InterfaceOf(id)
	if !ok {
		return 0
	}
	return len(p.c.Interface(iid).TypeParams)
}
