// Package trace provides sinks for the per-read events a codec.Buffer
// emits. Attaching a sink never changes decoded values.
package trace

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ssargent/bdat/pkg/codec"
)

// Nop discards every event.
type Nop struct{}

func (Nop) TraceRead(codec.ReadEvent) {}

// Logger writes each read to a zap logger at debug level.
type Logger struct {
	log *zap.Logger
}

// NewLogger returns a sink writing to l. A nil logger discards events.
func NewLogger(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{log: l}
}

func (l *Logger) TraceRead(ev codec.ReadEvent) {
	if ce := l.log.Check(zap.DebugLevel, "read"); ce != nil {
		ce.Write(
			zap.Int("offset", ev.Offset),
			zap.Int("size", ev.Size),
			zap.String("type", string(ev.Tag)),
			zap.Stringer("value", ev.Value),
		)
	}
}

// Recorder keeps every event in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []codec.ReadEvent
}

func (r *Recorder) TraceRead(ev codec.ReadEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []codec.ReadEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]codec.ReadEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Bytes returns the total size of the recorded reads.
func (r *Recorder) Bytes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		n += ev.Size
	}
	return n
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Multi fans each event out to several sinks.
type Multi []codec.Tracer

func (m Multi) TraceRead(ev codec.ReadEvent) {
	for _, t := range m {
		t.TraceRead(ev)
	}
}

// Combine returns a single sink for the non-nil tracers given, or nil when
// there are none.
func Combine(tracers ...codec.Tracer) codec.Tracer {
	var m Multi
	for _, t := range tracers {
		if t != nil {
			m = append(m, t)
		}
	}
	switch len(m) {
	case 0:
		return nil
	case 1:
		return m[0]
	default:
		return m
	}
}
