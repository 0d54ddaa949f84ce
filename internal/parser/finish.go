package parser

import (
	"errors"
	"fmt"

	"cdlc/internal/diag"
	"cdlc/internal/mono"
	"cdlc/internal/token"
	"cdlc/internal/trace"
)

// finish runs the checks that need the whole Component: forward declarations
// left undefined, then binding of closed specializations.
func (p *Parser) finish() {
	for _, f := range p.forwards {
		it := p.c.Interface(f.iface)
		if it.Declared {
			continue
		}
		p.errorAt(diag.SemaUndefinedInterface, token.Token{Kind: token.Ident, Span: f.span, Text: it.Name},
			fmt.Sprintf("Interface %q is declared but never defined.", p.c.QualifiedName(f.iface)))
	}
	if p.opts.SkipSpecialization {
		return
	}

	_, span := trace.Start(p.ctx, trace.ScopePass, "specialize")
	errs := mono.New(p.c).ResolvePending()
	for _, err := range errs {
		var serr *mono.Error
		tok := token.Token{Span: p.lastSpan}
		if errors.As(err, &serr) {
			tok = token.Token{Kind: token.Ident, Span: p.specRefs[serr.Signature], Text: serr.Signature}
		}
		p.errorAt(diag.SemaSpecialization, tok, err.Error())
	}
	span.Set("instances", itoa(p.c.Pool.Len())).End("")
}
