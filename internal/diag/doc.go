// Package diag defines the diagnostic model shared by the lexer, parser and
// specializer.
//
// A Diagnostic records one problem found in the input: severity, numeric code,
// message, the offending token text and its resolved line/column, plus the
// primary span for renderers that want a source excerpt.
//
// Producers emit through a Reporter so that storage stays decoupled; BagReporter
// appends into a Bag. A Bag preserves discovery order and never drops entries:
// limits on how many diagnostics are shown belong to the rendering layer
// (internal/diagfmt), not to collection.
//
// Package diag performs no formatting or IO.
package diag
