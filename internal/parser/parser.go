package parser

import (
	"context"
	"log/slog"

	"cdlc/internal/ast"
	"cdlc/internal/diag"
	"cdlc/internal/lexer"
	"cdlc/internal/source"
	"cdlc/internal/token"
	"cdlc/internal/trace"
)

type Options struct {
	// Reporter получает копию каждой диагностики в дополнение к Component.Diagnostics.
	Reporter diag.Reporter
	// Includer резолвит include "..."; nil: include запрещены.
	Includer Includer
	Logger   *slog.Logger
	// SkipSpecialization leaves closed specializations unbound after parsing.
	SkipSpecialization bool
}

type Result struct {
	Component *ast.Component
	Success   bool
}

// Parser: состояние разбора одного Component (главный файл и все его include).
type Parser struct {
	ctx      context.Context
	c        *ast.Component
	fs       *source.FileSet
	lx       TokenSource
	file     *source.File
	opts     Options
	reporter diag.Reporter
	log      *slog.Logger

	ns       ast.NamespaceID // текущая область объявлений
	lastSpan source.Span     // span последнего съеденного токена

	included map[string]bool
	forwards []forwardDecl
	specRefs map[string]source.Span // первая ссылка на каждую специализацию
}

type forwardDecl struct {
	iface ast.InterfaceID
	span  source.Span
}

// Parse builds a Component from file and everything it includes. The AST is
// returned even when diagnostics were recorded.
func Parse(ctx context.Context, fs *source.FileSet, file source.FileID, opts Options) *Result {
	f := fs.Get(file)
	c := ast.NewComponent(f.Path)
	c.Files = append(c.Files, file)

	bag := &diag.BagReporter{Bag: c.Diagnostics, Files: fs}
	var reporter diag.Reporter = bag
	if opts.Reporter != nil {
		reporter = diag.MultiReporter{bag, opts.Reporter}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ctx, span := trace.Start(ctx, trace.ScopePass, "parse")
	p := &Parser{
		ctx:      ctx,
		c:        c,
		fs:       fs,
		file:     f,
		opts:     opts,
		reporter: reporter,
		log:      logger,
		ns:       c.Global,
		included: map[string]bool{f.Path: true},
		specRefs: make(map[string]source.Span),
	}
	lx := lexer.New(f, lexer.Options{Reporter: reporter})
	p.lx = lx
	p.lastSpan = lx.EmptySpan()

	p.parseDeclarations(token.EOF)
	p.finish()
	span.Set("diagnostics", itoa(c.Diagnostics.Len())).End(f.Path)

	return &Result{Component: c, Success: c.Success()}
}

// ParseSource parses src as a virtual file named name.
func ParseSource(ctx context.Context, name string, src []byte, opts Options) (*Result, *source.FileSet) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return Parse(ctx, fs, id, opts), fs
}

// parseDeclarations: цикл верхнего уровня; останавливается перед closer или на EOF.
// Возвращает false, если EOF встретился раньше closer.
func (p *Parser) parseDeclarations(closer token.Kind) bool {
	for {
		tok := p.peek()
		if tok.Kind == closer {
			return true
		}
		if tok.Kind == token.EOF {
			return false
		}
		p.parseDeclaration()
	}
}

func (p *Parser) parseDeclaration() {
	tok := p.peek()
	switch tok.Kind {
	case token.LBracket:
		attr, ok := p.parseAttribute()
		if !ok {
			p.skipDeclaration()
			return
		}
		p.parseAttributed(attr)
	case token.KwInterface:
		p.parseInterface(ast.Attribute{})
	case token.KwCoclass:
		p.parseCoclass(ast.Attribute{})
	case token.KwModule:
		p.parseModule(ast.Attribute{})
	case token.KwEnum:
		p.parseEnum(p.ns)
	case token.KwNamespace:
		p.parseNamespace()
	case token.KwInclude:
		p.parseInclude()
	case token.KwConst:
		p.parseConstant(p.ns, ast.NoInterfaceID)
	case token.Invalid:
		// лексер уже выдал диагностику
		p.next()
	default:
		p.next()
		p.unexpected(tok)
	}
}

// parseAttributed dispatches the declaration that must follow an attribute block.
func (p *Parser) parseAttributed(attr ast.Attribute) {
	tok := p.peek()
	switch tok.Kind {
	case token.KwInterface:
		p.parseInterface(attr)
	case token.KwCoclass:
		p.parseCoclass(attr)
	case token.KwModule:
		p.parseModule(attr)
	default:
		p.errorAt(diag.SynExpectDeclaration, tok, `"interface", "coclass" or "module" is expected.`)
		p.skipDeclaration()
	}
}
