package trace

import (
	"errors"
	"io"
	"sync"
	"time"
)

// Sink stores or writes events. Implementations must be goroutine-safe.
type Sink interface {
	Write(ev Event)
	Flush() error
	Close() error
}

// StreamSink renders each event to w as it arrives.
type StreamSink struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
	owned  bool // Close закрывает w
	start  time.Time
	buf    []byte
}

func NewStreamSink(w io.Writer, format Format, owned bool) *StreamSink {
	return &StreamSink{w: w, format: format, owned: owned, start: time.Now()}
}

func (s *StreamSink) Write(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = s.buf[:0]
	if s.format == FormatNDJSON {
		s.buf = ev.AppendJSON(s.buf)
	} else {
		s.buf = ev.AppendText(s.buf, s.start)
	}
	// ошибка записи трассы не должна ломать разбор
	_, _ = s.w.Write(s.buf)
}

func (s *StreamSink) Flush() error {
	if f, ok := s.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (s *StreamSink) Close() error {
	err := s.Flush()
	if c, ok := s.w.(io.Closer); ok && s.owned {
		err = errors.Join(err, c.Close())
	}
	return err
}

// RingSink keeps the last N events.
type RingSink struct {
	mu     sync.Mutex
	events []Event
	next   int
	filled bool
}

func NewRingSink(capacity int) *RingSink {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingSink{events: make([]Event, capacity)}
}

func (r *RingSink) Write(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[r.next] = ev
	r.next++
	if r.next == len(r.events) {
		r.next, r.filled = 0, true
	}
}

// Snapshot returns the stored events oldest first.
func (r *RingSink) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.filled {
		return append([]Event(nil), r.events[:r.next]...)
	}
	out := make([]Event, 0, len(r.events))
	out = append(out, r.events[r.next:]...)
	return append(out, r.events[:r.next]...)
}

// Dump renders the snapshot to w.
func (r *RingSink) Dump(w io.Writer, format Format) error {
	events := r.Snapshot()
	if len(events) == 0 {
		return nil
	}
	var buf []byte
	for i := range events {
		if format == FormatNDJSON {
			buf = events[i].AppendJSON(buf)
		} else {
			buf = events[i].AppendText(buf, events[0].Time)
		}
	}
	_, err := w.Write(buf)
	return err
}

func (r *RingSink) Flush() error { return nil }
func (r *RingSink) Close() error { return nil }

// Tee fans each event out to every sink.
type Tee []Sink

func (t Tee) Write(ev Event) {
	for _, s := range t {
		cp := ev
		cp.Attrs = append([]Attr(nil), ev.Attrs...)
		s.Write(cp)
	}
}

func (t Tee) Flush() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Flush())
	}
	return errors.Join(errs...)
}

func (t Tee) Close() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
