// Package trace records what the front end is doing: driver steps, passes,
// files and individual declarations.
//
//	cdlc check --trace=- --trace-level=detail api.cdl
//
// A *Tracer travels in the context together with the current span, so nested
// work only needs the context:
//
//	ctx, span := trace.Start(ctx, trace.ScopePass, "parse")
//	defer span.End("")
//	trace.Mark(ctx, trace.ScopeDecl, "interface", "app::IFoo")
//
// Уровни: off < error < phase (driver, pass) < detail (+file) < debug (+decl).
// Error marks pass every level except off.
//
// Events go to a Sink: StreamSink пишет сразу (text или NDJSON), RingSink хранит
// последние N событий, Tee раздаёт событие нескольким.
package trace
