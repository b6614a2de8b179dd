// Package ingest wires framing, classification and dispatch together:
// transport bytes -> lines -> events -> window store or event log.
package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/abelbrown/sigscope/internal/eventlog"
	"github.com/abelbrown/sigscope/internal/framer"
	"github.com/abelbrown/sigscope/internal/metrics"
	"github.com/abelbrown/sigscope/internal/otel"
	"github.com/abelbrown/sigscope/internal/protocol"
)

// LabelFormat is the chart label for a tick: local wall-clock time.
const LabelFormat = "15:04:05"

// Recorder receives sample ticks. Implemented by *window.Store.
type Recorder interface {
	RecordSample(label string, main, random, combined float64)
}

// Sink receives log lines. Implemented by *eventlog.Book.
type Sink interface {
	Append(message string, sev eventlog.Severity)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the label clock.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithMetrics counts bytes and lines.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithTrace emits per-line trace events when otel tracing is enabled.
func WithTrace(l *otel.Logger) Option {
	return func(p *Pipeline) { p.trace = l }
}

// Pipeline is driven by exactly one read loop and is not goroutine-safe.
type Pipeline struct {
	framer  *framer.Framer
	store   Recorder
	sink    Sink
	now     func() time.Time
	metrics *metrics.Metrics
	trace   *otel.Logger
}

// New creates a Pipeline dispatching samples to store and everything else to sink.
func New(store Recorder, sink Sink, opts ...Option) *Pipeline {
	p := &Pipeline{
		framer: framer.New(),
		store:  store,
		sink:   sink,
		now:    time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Feed frames chunk and dispatches every completed line. Returns the number
// of non-empty lines handled.
func (p *Pipeline) Feed(chunk []byte) int {
	p.metrics.AddBytes(len(chunk))

	n := 0
	for _, line := range p.framer.Feed(chunk) {
		if p.Dispatch(line) {
			n++
		}
	}
	return n
}

// Dispatch trims, classifies and routes one line. Empty lines are dropped
// before classification; it reports whether the line was handled.
func (p *Pipeline) Dispatch(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	ev := protocol.Classify(line)
	p.metrics.CountLine(protocol.Kind(ev))
	p.traceLine(ev, line)

	if s, ok := ev.(protocol.SignalSample); ok {
		p.store.RecordSample(p.now().Format(LabelFormat), s.Main, s.Random, s.Combined)
		return true
	}
	if e, ok := eventlog.Describe(ev); ok {
		p.sink.Append(e.Message, e.Severity)
	}
	return true
}

// End is called at end-of-stream. Any unterminated tail is discarded.
func (p *Pipeline) End() {
	if p.trace != nil && p.framer.Carry() != "" {
		p.trace.Emit(otel.Event{
			Level: otel.LevelDebug,
			Kind:  otel.KindStreamEnd,
			Comp:  "ingest",
			Line:  p.framer.Carry(),
			Msg:   "discarded unterminated tail",
		})
	}
	p.framer.Reset()
}

func (p *Pipeline) traceLine(ev protocol.Event, line string) {
	if p.trace == nil {
		return
	}
	// A dropped sample is recorded even without SIGSCOPE_TRACE.
	if u, ok := ev.(protocol.Unclassified); ok && u.Malformed {
		p.trace.Warn(otel.KindMalformed, "ingest", "dropped malformed sample "+strconv.Quote(line))
		return
	}
	if !otel.TraceEnabled() {
		return
	}

	kind := otel.KindLineEvent
	switch ev.(type) {
	case protocol.SignalSample:
		kind = otel.KindSample
	case protocol.Unclassified:
		kind = otel.KindUnclassified
	}
	p.trace.Emit(otel.Event{Level: otel.LevelDebug, Kind: kind, Comp: "ingest", Line: line})
}
