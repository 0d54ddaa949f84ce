// Package mono instantiates generic interfaces against concrete type arguments.
//
// A specialization clones the generic's methods where a parameter type mentions
// one of its type parameters and shares everything else by ID. Results are
// memoized in the Component's Pool, keyed by the generic and the argument signatures.
package mono

import (
	"fmt"
	"strings"

	"cdlc/internal/ast"
	"cdlc/internal/types"
)

type Options struct {
	// MaxDepth bounds nested specializations such as G<T> { M([in] G<Array<T>> x); }.
	MaxDepth int
}

// Specializer is bound to one Component and writes into its arenas and Pool.
type Specializer struct {
	c     *ast.Component
	opt   Options
	depth int
}

func New(c *ast.Component) *Specializer {
	return NewWithOptions(c, Options{})
}

func NewWithOptions(c *ast.Component, opt Options) *Specializer {
	if opt.MaxDepth <= 0 {
		opt.MaxDepth = 64
	}
	return &Specializer{c: c, opt: opt}
}

// Specialize returns the instance of generic for args, creating it on first use.
// Repeated calls with the same arguments return the same InterfaceID.
func (s *Specializer) Specialize(generic ast.InterfaceID, args []types.TypeID) (ast.InterfaceID, error) {
	tbl := s.c.Types
	g := s.c.Interface(generic)
	if g == nil {
		return ast.NoInterfaceID, fmt.Errorf("mono: unknown interface %d", generic)
	}
	sig := tbl.SpecializationSignature(g.Type, args)
	switch {
	case !g.IsGeneric():
		return ast.NoInterfaceID, &Error{Signature: sig, Reason: "interface is not generic"}
	case !g.Declared:
		return ast.NoInterfaceID, &Error{Signature: sig, Reason: "generic interface is not defined"}
	case len(args) != len(g.TypeParams):
		return ast.NoInterfaceID, &Error{
			Signature: sig,
			Reason:    fmt.Sprintf("expected %d type argument(s), got %d", len(g.TypeParams), len(args)),
		}
	}

	key := ast.PoolKey{Generic: generic, Args: ast.ArgsKey(tbl, args)}
	if e, ok := s.c.Pool.Lookup(key); ok {
		if e.Err != nil {
			return ast.NoInterfaceID, e.Err
		}
		return e.Instance, nil
	}
	if s.depth >= s.opt.MaxDepth {
		return ast.NoInterfaceID, &Error{Signature: sig, Reason: fmt.Sprintf("nesting exceeds %d levels", s.opt.MaxDepth)}
	}
	s.depth++
	defer func() { s.depth-- }()

	specType := tbl.RegisterSpecialization(g.Type, args)
	tmpl := *g
	labels := make([]string, len(args))
	for i, a := range args {
		labels[i] = tbl.Label(a)
	}
	iid := ast.InterfaceID(s.c.Interfaces.Allocate(ast.Interface{
		Name:        tmpl.Name + "<" + strings.Join(labels, ",") + ">",
		Namespace:   tmpl.Namespace,
		Scope:       tmpl.Scope,
		Type:        specType,
		UUID:        tmpl.UUID,
		Version:     tmpl.Version,
		Description: tmpl.Description,
		Constants:   append([]ast.ConstID(nil), tmpl.Constants...),
		Declared:    true,
		Generic:     generic,
		TypeArgs:    append([]types.TypeID(nil), args...),
		Span:        tmpl.Span,
	}))
	tbl.BindPayload(specType, uint32(iid))
	// запись в пуле до клонирования: самоссылки G<T> внутри G находят её
	s.c.Pool.Insert(ast.PoolEntry{Key: key, Args: append([]types.TypeID(nil), args...), Instance: iid, Type: specType})

	sub := &Subst{Types: tbl, Owner: tmpl.Type, TypeArgs: args}
	methods, err := s.cloneMethods(tmpl.Methods, sub)
	base := sub.Type(tmpl.Base)
	if err == nil {
		err = s.Ensure(base)
	}
	if err != nil {
		// экземпляр остаётся в пуле пустым, повторный запрос вернёт ту же ошибку
		s.c.Interface(iid).Declared = false
		s.c.Pool.Fail(key, err)
		return ast.NoInterfaceID, err
	}

	inst := s.c.Interface(iid)
	inst.Methods = methods
	inst.Base = base
	return iid, nil
}

// cloneMethods shares a method whose parameter types are unaffected and clones the rest.
func (s *Specializer) cloneMethods(src []ast.MethodID, sub *Subst) ([]ast.MethodID, error) {
	out := make([]ast.MethodID, 0, len(src))
	for _, mid := range src {
		m := *s.c.Method(mid)
		params := make([]ast.Parameter, len(m.Params))
		paramTypes := make([]types.TypeID, len(m.Params))
		changed := false
		for i, pid := range m.Params {
			params[i] = *s.c.Param(pid)
			paramTypes[i] = sub.Type(params[i].Type)
			changed = changed || paramTypes[i] != params[i].Type
		}
		if !changed {
			out = append(out, mid)
			continue
		}
		ids := make([]ast.ParamID, len(params))
		for i := range params {
			params[i].Type = paramTypes[i]
			ids[i] = ast.ParamID(s.c.Params.Allocate(params[i]))
		}
		out = append(out, ast.MethodID(s.c.Methods.Allocate(ast.Method{
			Name:      m.Name,
			Params:    ids,
			Signature: ast.MethodSignature(s.c.Types, paramTypes),
			Span:      m.Span,
		})))
		for _, t := range paramTypes {
			if err := s.Ensure(s.c.Types.Underlying(t)); err != nil {
				return out, err
			}
		}
	}
	return out, nil
}

// Ensure binds id to an instance when it is a closed specialization that has
// none yet. Other types are left alone.
func (s *Specializer) Ensure(id types.TypeID) error {
	tt, ok := s.c.Types.Lookup(id)
	if !ok || !tt.IsSpecialization() || tt.Payload != 0 || s.c.Types.ContainsTypeParam(id) {
		return nil
	}
	gid, ok := s.c.InterfaceOf(tt.Elem)
	if !ok {
		return &Error{Signature: tt.Name, Reason: "generic interface is not defined"}
	}
	_, err := s.Specialize(gid, tt.Args)
	return err
}

// ResolvePending specializes every closed specialization type still unbound in
// the table, including the ones created while resolving.
func (s *Specializer) ResolvePending() []error {
	var errs []error
	failed := make(map[types.TypeID]bool)
	for {
		progress := false
		for _, id := range s.c.Types.Specializations() {
			tt := s.c.Types.MustLookup(id)
			if tt.Payload != 0 || failed[id] || s.c.Types.ContainsTypeParam(id) {
				continue
			}
			if err := s.Ensure(id); err != nil {
				failed[id] = true
				errs = append(errs, err)
				continue
			}
			progress = true
		}
		if !progress {
			return errs
		}
	}
}
