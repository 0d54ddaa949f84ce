package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Tracer filters events by level and hands them to a Sink. A nil *Tracer is
// valid and drops everything.
type Tracer struct {
	level Level
	sink  Sink
	seq   atomic.Uint64
	spans atomic.Uint64
}

// NewTracer wraps sink; level off or a nil sink gives a disabled tracer.
func NewTracer(level Level, sink Sink) *Tracer {
	if level == LevelOff || sink == nil {
		return nil
	}
	return &Tracer{level: level, sink: sink}
}

// Config describes the tracer built by New.
type Config struct {
	Level      Level
	Format     Format
	Output     io.Writer // если nil, используется OutputPath
	OutputPath string    // "-" или "" означает stderr; *.ndjson включает NDJSON
	RingSize   int       // >0 дополнительно держит последние события в памяти
}

// New opens the output described by cfg.
func New(cfg Config) (*Tracer, error) {
	if cfg.Level == LevelOff {
		return nil, nil
	}
	format := cfg.Format
	if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
		format = FormatNDJSON
	}
	w, owned, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	var sink Sink = NewStreamSink(w, format, owned)
	if cfg.RingSize > 0 {
		sink = Tee{sink, NewRingSink(cfg.RingSize)}
	}
	return NewTracer(cfg.Level, sink), nil
}

func openOutput(cfg Config) (w io.Writer, owned bool, err error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, false, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, false, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, true, nil
}

func (t *Tracer) Level() Level {
	if t == nil {
		return LevelOff
	}
	return t.level
}

func (t *Tracer) Enabled() bool { return t.Level() > LevelOff }

// Allows reports whether an event of scope would be kept.
func (t *Tracer) Allows(scope Scope) bool { return t.Level().Allows(scope) }

func (t *Tracer) emit(ev Event) {
	if t == nil || !t.level.keeps(&ev) {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	ev.Seq = t.seq.Add(1)
	t.sink.Write(ev)
}

func (t *Tracer) Flush() error {
	if t == nil {
		return nil
	}
	return t.sink.Flush()
}

// Close flushes and releases the sink.
func (t *Tracer) Close() error {
	if t == nil {
		return nil
	}
	return t.sink.Close()
}
