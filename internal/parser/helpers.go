package parser

import (
	"fmt"
	"strconv"

	"cdlc/internal/diag"
	"cdlc/internal/source"
	"cdlc/internal/token"
)

// next: съедает следующий токен и обновляет lastSpan.
func (p *Parser) next() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) peek() token.Token {
	return p.lx.Peek()
}

func (p *Parser) unget(tok token.Token) {
	p.lx.Unget(tok)
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// accept съедает токен k, если он следующий.
func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	return token.Token{}, false
}

// expect: ожидаем конкретный токен. Если нет: репортим и ничего не съедаем.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if tok, ok := p.accept(k); ok {
		return tok, true
	}
	p.errorAt(code, p.peek(), msg)
	return token.Token{}, false
}

// expectCloseAngle accepts '>' and splits '>>' so nested generic arguments close one level at a time.
func (p *Parser) expectCloseAngle() bool {
	tok := p.next()
	switch tok.Kind {
	case token.Gt:
		return true
	case token.Shr:
		rest := source.Span{File: tok.Span.File, Start: tok.Span.Start + 1, End: tok.Span.End}
		p.unget(token.Token{Kind: token.Gt, Span: rest, Text: ">"})
		return true
	}
	p.unget(tok)
	p.errorAt(diag.SynExpectGt, tok, `">" is expected.`)
	return false
}

// spanOf: span для диагностики; у EOF берём позицию сразу за последним токеном.
func (p *Parser) spanOf(tok token.Token) source.Span {
	if tok.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.At()
	}
	return tok.Span
}

func (p *Parser) errorAt(code diag.Code, tok token.Token, msg string) {
	diag.ReportError(p.reporter, code, p.spanOf(tok), msg).WithToken(tok.Text).Emit()
}

func (p *Parser) warnAt(code diag.Code, tok token.Token, msg string) {
	diag.ReportWarning(p.reporter, code, p.spanOf(tok), msg).WithToken(tok.Text).Emit()
}

func (p *Parser) unexpected(tok token.Token) {
	p.errorAt(diag.SynUnexpectedToken, tok, fmt.Sprintf("%s is not expected.", quoteToken(tok)))
}

func quoteToken(tok token.Token) string {
	return `"` + tok.Display() + `"`
}

// skipMember: восстановление внутри тела: до ';' (съедаем) или до '}' (не съедаем).
func (p *Parser) skipMember() {
	for {
		switch p.peek().Kind {
		case token.EOF, token.RBrace:
			return
		case token.Semicolon:
			p.next()
			return
		case token.LBrace:
			p.skipBalanced(token.LBrace, token.RBrace)
		default:
			p.next()
		}
	}
}

// skipDeclaration: восстановление на верхнем уровне: пропускает повреждённое
// объявление целиком, учитывая вложенные фигурные скобки.
func (p *Parser) skipDeclaration() {
	for {
		switch tok := p.peek(); tok.Kind {
		case token.EOF, token.RBrace:
			return
		case token.Semicolon:
			p.next()
			return
		case token.LBrace:
			p.skipBalanced(token.LBrace, token.RBrace)
			p.accept(token.Semicolon)
			return
		default:
			if isDeclStarter(tok.Kind) {
				return
			}
			p.next()
		}
	}
}

// skipToCloseBrace drops a body whose opening '{' was missing: everything up to
// and including the next '}' at depth 0, stopping early before a declaration keyword.
func (p *Parser) skipToCloseBrace() {
	for {
		switch tok := p.peek(); tok.Kind {
		case token.EOF:
			return
		case token.RBrace:
			p.next()
			p.accept(token.Semicolon)
			return
		case token.LBrace:
			p.skipBalanced(token.LBrace, token.RBrace)
		default:
			if isDeclStarter(tok.Kind) {
				return
			}
			p.next()
		}
	}
}

// skipBalanced съедает группу open ... close вместе с вложенными группами.
// Следующий токен должен быть open. false: группа не закрыта до EOF.
func (p *Parser) skipBalanced(open, closeKind token.Kind) bool {
	depth := 0
	for {
		tok := p.next()
		switch tok.Kind {
		case token.EOF:
			p.unget(tok)
			return false
		case open:
			depth++
		case closeKind:
			depth--
			if depth <= 0 {
				return true
			}
		}
	}
}

func isDeclStarter(k token.Kind) bool {
	switch k {
	case token.KwInterface, token.KwNamespace, token.KwInclude, token.KwCoclass, token.KwModule:
		return true
	default:
		return false
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
