package ast

import (
	"strings"

	"cdlc/internal/source"
)

// Attribute is the value of a bracketed attribute block. It is copied into the
// declaration that follows it and not kept on its own.
type Attribute struct {
	UUID        string
	Version     string
	Description string
	Span        source.Span
	Present     bool // блок атрибутов был в исходнике (пусть даже пустой)
}

func (a Attribute) String() string {
	var parts []string
	if a.UUID != "" {
		parts = append(parts, "uuid("+a.UUID+")")
	}
	if a.Version != "" {
		parts = append(parts, "version("+a.Version+")")
	}
	if a.Description != "" {
		parts = append(parts, "description("+quote(a.Description)+")")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
