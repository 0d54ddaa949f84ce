package trace

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind is the shape of an event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindMark
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindMark:
		return "mark"
	}
	return "unknown"
}

// Scope is the granularity of an event. The numbering matches Level so that
// LevelPhase keeps ScopePass and everything coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // cli, parallel check
	ScopePass                    // parse, specialize
	ScopeFile                    // one source file or include
	ScopeDecl                    // one declaration
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePass:
		return "pass"
	case ScopeFile:
		return "file"
	case ScopeDecl:
		return "decl"
	}
	return "unknown"
}

// Attr is one key/value pair attached to an event; order is kept.
type Attr struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is one trace record.
type Event struct {
	Time    time.Time
	Seq     uint64
	Kind    Kind
	Scope   Scope
	Span    uint64
	Parent  uint64
	Name    string
	Detail  string
	Error   bool
	Elapsed time.Duration // только для KindEnd
	Attrs   []Attr
}

// Format selects how a StreamSink renders events.
type Format uint8

const (
	FormatText Format = iota
	FormatNDJSON
)

// ParseFormat converts "text" or "ndjson" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatText, fmt.Errorf("invalid trace format: %q (expected: text|ndjson)", s)
}

type eventJSON struct {
	Time    string  `json:"time"`
	Seq     uint64  `json:"seq"`
	Kind    string  `json:"kind"`
	Scope   string  `json:"scope"`
	Span    uint64  `json:"span,omitempty"`
	Parent  uint64  `json:"parent,omitempty"`
	Name    string  `json:"name"`
	Detail  string  `json:"detail,omitempty"`
	Error   bool    `json:"error,omitempty"`
	Elapsed float64 `json:"elapsed_ms,omitempty"`
	Attrs   []Attr  `json:"attrs,omitempty"`
}

// AppendJSON appends ev as one NDJSON line.
func (ev *Event) AppendJSON(dst []byte) []byte {
	data, err := json.Marshal(eventJSON{
		Time:    ev.Time.Format(time.RFC3339Nano),
		Seq:     ev.Seq,
		Kind:    ev.Kind.String(),
		Scope:   ev.Scope.String(),
		Span:    ev.Span,
		Parent:  ev.Parent,
		Name:    ev.Name,
		Detail:  ev.Detail,
		Error:   ev.Error,
		Elapsed: millis(ev.Elapsed),
		Attrs:   ev.Attrs,
	})
	if err != nil {
		return dst
	}
	return append(append(dst, data...), '\n')
}

// AppendText appends ev as one line relative to start:
//
//	[   1.250ms]   > parse main.cdl
//	[   3.900ms]   < parse main.cdl 2.650ms diagnostics=0
func (ev *Event) AppendText(dst []byte, start time.Time) []byte {
	var offset time.Duration
	if !start.IsZero() {
		offset = ev.Time.Sub(start)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%9.3fms] %s", millis(offset), strings.Repeat("  ", max(int(ev.Scope)-1, 0)))
	switch {
	case ev.Error:
		sb.WriteString("! ")
	case ev.Kind == KindBegin:
		sb.WriteString("> ")
	case ev.Kind == KindEnd:
		sb.WriteString("< ")
	default:
		sb.WriteString("* ")
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		sb.WriteByte(' ')
		sb.WriteString(ev.Detail)
	}
	if ev.Kind == KindEnd {
		fmt.Fprintf(&sb, " %.3fms", millis(ev.Elapsed))
	}
	for _, a := range ev.Attrs {
		sb.WriteString(" " + a.Key + "=" + a.Value)
	}
	sb.WriteByte('\n')
	return append(dst, sb.String()...)
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
