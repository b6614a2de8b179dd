package otel

// Goroutine safety:
// drain is the only reader of l.ch and the only writer to l.w.
// l.mu guards the ring pointer; the Ring has its own lock and drain
// releases l.mu before pushing.

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// queueSize is the capacity of the async write channel. Samples can arrive
// at several hundred per second when tracing, so leave headroom.
const queueSize = 4096

type queued struct {
	data []byte
	ev   Event
}

// Logger writes events as JSONL from a background goroutine. Emit never
// blocks the read loop: when the queue is full the event is counted as
// dropped instead.
type Logger struct {
	mu        sync.Mutex
	ring      *Ring
	runID     string
	ch        chan queued
	w         io.Writer
	dropped   atomic.Uint64
	closed    atomic.Bool
	done      chan struct{}
	closeOnce sync.Once
}

// NewLogger starts a Logger writing to w. Call Close to flush.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{
		runID: uuid.NewString(),
		ch:    make(chan queued, queueSize),
		w:     w,
		done:  make(chan struct{}),
	}
	go l.drain()
	return l
}

// NewNullLogger creates a Logger that discards output.
func NewNullLogger() *Logger {
	return NewLogger(io.Discard)
}

func (l *Logger) drain() {
	defer close(l.done)
	for q := range l.ch {
		if _, err := l.w.Write(q.data); err != nil {
			l.dropped.Add(1)
		}

		l.mu.Lock()
		r := l.ring
		l.mu.Unlock()

		if r != nil {
			r.Push(q.ev)
		}
	}
}

// Emit queues e. Time defaults to now and RunID is always set. Safe to call
// concurrently with Close; late events are dropped, not panicked.
func (l *Logger) Emit(e Event) {
	defer func() {
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if l.closed.Load() {
		l.dropped.Add(1)
		return
	}

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	e.RunID = l.runID

	data, err := json.Marshal(e)
	if err != nil {
		l.dropped.Add(1)
		return
	}
	data = append(data, '\n')

	select {
	case l.ch <- queued{data: data, ev: e}:
	default:
		l.dropped.Add(1)
	}
}

// Info emits an info-level event.
func (l *Logger) Info(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelInfo, Kind: kind, Comp: comp, Msg: msg})
}

// Warn emits a warn-level event.
func (l *Logger) Warn(kind EventKind, comp, msg string) {
	l.Emit(Event{Level: LevelWarn, Kind: kind, Comp: comp, Msg: msg})
}

// Error emits an error-level event. A nil err is logged as an empty string.
func (l *Logger) Error(kind EventKind, comp string, err error) {
	var s string
	if err != nil {
		s = err.Error()
	}
	l.Emit(Event{Level: LevelError, Kind: kind, Comp: comp, Err: s})
}

// SetRing mirrors every written event into r.
func (l *Logger) SetRing(r *Ring) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ring = r
}

// RunID identifies this process run in every event.
func (l *Logger) RunID() string {
	return l.runID
}

// Dropped returns how many events were lost.
func (l *Logger) Dropped() uint64 {
	return l.dropped.Load()
}

// Close flushes queued events and stops the drain goroutine. Idempotent.
func (l *Logger) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		<-l.done

		if d := l.dropped.Load(); d > 0 {
			fmt.Fprintf(os.Stderr, "sigscope: %d trace events dropped in run %s\n", d, l.runID)
		}
	})
}
