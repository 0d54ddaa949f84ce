package parser

import (
	"strconv"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/token"
)

// parseAttribute parses a bracketed attribute block:
//
//	[uuid(5a8ec2d1-55b4-4c0a-8a30-6e0a3d4ba4c1), version(1.0.0), description("...")]
//
// Unknown keys are skipped together with their parenthesized value.
func (p *Parser) parseAttribute() (ast.Attribute, bool) {
	open := p.next() // '['
	attr := ast.Attribute{Present: true, Span: open.Span}

	for {
		tok := p.next()
		switch {
		case tok.Kind == token.RBracket:
			attr.Span = attr.Span.Cover(tok.Span)
			return attr, true
		case tok.Kind == token.EOF:
			p.unget(tok)
			p.errorAt(diag.SynExpectRBracket, tok, `"]" is expected.`)
			return attr, false
		case tok.IsIdentText("uuid"):
			if !p.parseAttrValue(func() bool { return p.parseUUID(&attr) }) {
				return attr, false
			}
		case tok.IsIdentText("version"):
			if !p.parseAttrValue(func() bool { return p.parseVersion(&attr) }) {
				return attr, false
			}
		case tok.IsIdentText("description"):
			if !p.parseAttrValue(func() bool { return p.parseDescription(&attr) }) {
				return attr, false
			}
		case tok.Kind == token.Ident:
			if p.at(token.LParen) {
				p.skipBalanced(token.LParen, token.RParen)
			}
		default:
			p.unexpected(tok)
			return attr, false
		}

		switch p.peek().Kind {
		case token.Comma:
			p.next()
		case token.RBracket:
		default:
			p.errorAt(diag.SynExpectComma, p.peek(), `"," is expected.`)
			return attr, false
		}
	}
}

// parseAttrValue оборачивает значение ключа в '(' ... ')'.
func (p *Parser) parseAttrValue(value func() bool) bool {
	if _, ok := p.expect(token.LParen, diag.SynExpectLParen, `"(" is expected.`); !ok {
		return false
	}
	if !value() {
		return false
	}
	_, ok := p.expect(token.RParen, diag.SynExpectRParen, `")" is expected.`)
	return ok
}

func (p *Parser) parseUUID(attr *ast.Attribute) bool {
	tok := p.lx.NextUUID()
	if tok.Kind != token.UUIDLit {
		p.errorAt(diag.SynExpectUUID, p.peek(), "uuid number is expected.")
		return false
	}
	p.lastSpan = tok.Span
	if _, err := uuid.Parse(tok.Text); err != nil {
		p.errorAt(diag.SynExpectUUID, tok, "uuid number is expected.")
		return false
	}
	attr.UUID = tok.Text
	return true
}

func (p *Parser) parseVersion(attr *ast.Attribute) bool {
	tok := p.lx.NextVersion()
	if tok.Kind != token.VersionLit {
		p.errorAt(diag.SynExpectVersion, p.peek(), "version number is expected.")
		return false
	}
	p.lastSpan = tok.Span
	if _, err := semver.NewVersion(tok.Text); err != nil {
		p.errorAt(diag.SynExpectVersion, tok, "version number is expected.")
		return false
	}
	attr.Version = tok.Text
	return true
}

func (p *Parser) parseDescription(attr *ast.Attribute) bool {
	tok := p.next()
	if tok.Kind != token.StringLit {
		p.unget(tok)
		p.errorAt(diag.SynExpectString, tok, "description string is expected.")
		return false
	}
	text, err := strconv.Unquote(tok.Text)
	if err != nil {
		p.errorAt(diag.SynExpectString, tok, "description string is expected.")
		return false
	}
	attr.Description = text
	return true
}
