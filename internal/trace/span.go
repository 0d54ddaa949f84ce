package trace

import (
	"context"
	"time"
)

// Span is one begin/end pair. A nil *Span is valid; all methods are no-ops.
type Span struct {
	tracer  *Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Start opens a span under the span of ctx and returns a context that carries
// it. When the tracer drops scope the original ctx and a nil span come back.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	t := FromContext(ctx)
	if !t.Allows(scope) {
		return ctx, nil
	}
	s := &Span{
		tracer:  t,
		id:      t.spans.Add(1),
		parent:  spanFrom(ctx).ID(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.emit(Event{Time: s.started, Kind: KindBegin, Scope: scope, Span: s.id, Parent: s.parent, Name: name})
	return context.WithValue(ctx, spanKey{}, s), s
}

// Set attaches key=value to the end event.
func (s *Span) Set(key, value string) *Span {
	if s != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// End emits the end event with detail and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	elapsed := now.Sub(s.started)
	s.tracer.emit(Event{
		Time:    now,
		Kind:    KindEnd,
		Scope:   s.scope,
		Span:    s.id,
		Parent:  s.parent,
		Name:    s.name,
		Detail:  detail,
		Elapsed: elapsed,
		Attrs:   s.attrs,
	})
	return elapsed
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Mark emits an instant event inside the span of ctx.
func Mark(ctx context.Context, scope Scope, name, detail string) {
	FromContext(ctx).emit(Event{Kind: KindMark, Scope: scope, Parent: spanFrom(ctx).ID(), Name: name, Detail: detail})
}

// Fail emits an error mark; it is kept at every level except off.
func Fail(ctx context.Context, scope Scope, name, detail string) {
	FromContext(ctx).emit(Event{Kind: KindMark, Scope: scope, Parent: spanFrom(ctx).ID(), Name: name, Detail: detail, Error: true})
}
