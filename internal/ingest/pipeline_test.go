package ingest

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/sigscope/internal/eventlog"
	"github.com/abelbrown/sigscope/internal/metrics"
	"github.com/abelbrown/sigscope/internal/otel"
	"github.com/abelbrown/sigscope/internal/window"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type logged struct {
	msg string
	sev eventlog.Severity
}

type fakeSink struct {
	entries []logged
}

func (f *fakeSink) Append(message string, sev eventlog.Severity) {
	f.entries = append(f.entries, logged{message, sev})
}

var fixedNow = func() time.Time {
	return time.Date(2025, 3, 1, 14, 5, 9, 0, time.Local)
}

func TestFeedRoutesEvents(t *testing.T) {
	store := window.NewStore(10)
	sink := &fakeSink{}
	p := New(store, sink, WithClock(fixedNow))

	stream := "SIG:1.0,2.0,3.0,0.5,0.0\n" +
		"RANDOM_SIGNAL_START_EVENT\n" +
		"   \n" +
		"SIG:1.0,2.0\n" +
		"AMPLITUDE_CHANGED:7\n" +
		"SIGNAL_STOP\n" +
		"hello world\r\n"

	handled := p.Feed([]byte(stream))
	if handled != 6 {
		t.Errorf("handled = %d, want 6", handled)
	}

	snap := store.Snapshot()
	if len(snap.Main) != 1 {
		t.Fatalf("expected one sample, got %d", len(snap.Main))
	}
	if snap.Main[0] != (window.Point{Label: "14:05:09", Value: 1}) {
		t.Errorf("Main[0] = %+v", snap.Main[0])
	}
	if snap.Compare[0] != (window.Tick{Label: "14:05:09", Main: 1, Random: 2, Combined: 3}) {
		t.Errorf("Compare[0] = %+v", snap.Compare[0])
	}

	want := []logged{
		{"Random signal generation started", eventlog.SeveritySuccess},
		{"Amplitude changed: level 7", eventlog.SeverityWarning},
		{"Main signal generation stopped", eventlog.SeverityInfo},
		{"hello world", eventlog.SeverityInfo},
	}
	if !reflect.DeepEqual(sink.entries, want) {
		t.Errorf("log = %+v\nwant %+v", sink.entries, want)
	}
}

func TestFeedChunkingDoesNotMatter(t *testing.T) {
	stream := []byte("SIG:1,2,3,4,5\nSIG:6,7,8,9,10\nSIGNAL_START\n")

	whole := window.NewStore(10)
	wholeSink := &fakeSink{}
	New(whole, wholeSink, WithClock(fixedNow)).Feed(stream)

	split := window.NewStore(10)
	splitSink := &fakeSink{}
	p := New(split, splitSink, WithClock(fixedNow))
	for i := range stream {
		p.Feed(stream[i : i+1])
	}

	if !reflect.DeepEqual(whole.Snapshot(), split.Snapshot()) {
		t.Errorf("snapshots differ:\n%+v\n%+v", whole.Snapshot(), split.Snapshot())
	}
	if !reflect.DeepEqual(wholeSink.entries, splitSink.entries) {
		t.Errorf("logs differ: %v vs %v", wholeSink.entries, splitSink.entries)
	}
}

func TestEndDiscardsTail(t *testing.T) {
	store := window.NewStore(10)
	p := New(store, &fakeSink{}, WithClock(fixedNow))

	p.Feed([]byte("SIG:1,2,3,4,5\nSIG:6,7,8"))
	p.End()
	p.Feed([]byte(",9,10\n"))

	snap := store.Snapshot()
	if len(snap.Main) != 1 {
		t.Errorf("expected the unterminated tail to be dropped, got %d samples", len(snap.Main))
	}
}

func TestDispatchSkipsEmpty(t *testing.T) {
	sink := &fakeSink{}
	p := New(window.NewStore(1), sink)
	if p.Dispatch("  \t ") {
		t.Error("blank line should not be handled")
	}
	if len(sink.entries) != 0 {
		t.Errorf("blank line reached the sink: %v", sink.entries)
	}
}

func TestMetricsCounted(t *testing.T) {
	m := metrics.New()
	p := New(window.NewStore(5), &fakeSink{}, WithMetrics(m))

	p.Feed([]byte("SIG:1,2,3,4,5\nSIG:bad\nnoise\n"))

	if got := testutil.ToFloat64(m.BytesReceived); got != 28 {
		t.Errorf("bytes = %v, want 28", got)
	}
	for kind, want := range map[string]float64{"sample": 1, "malformed": 1, "unclassified": 1} {
		if got := testutil.ToFloat64(m.Lines.WithLabelValues(kind)); got != want {
			t.Errorf("%s = %v, want %v", kind, got, want)
		}
	}
}

func TestTraceLines(t *testing.T) {
	orig := otel.TraceEnabled()
	defer otel.SetTraceEnabled(orig)
	otel.SetTraceEnabled(true)

	var buf bytes.Buffer
	l := otel.NewLogger(&buf)
	p := New(window.NewStore(5), &fakeSink{}, WithTrace(l))

	p.Feed([]byte("SIG:1,2,3,4,5\nSIG:x\nSIGNAL_START\ntail"))
	p.End()
	l.Close()

	var kinds []string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var ev map[string]any
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("bad JSON: %v", err)
		}
		kinds = append(kinds, ev["kind"].(string))
	}
	want := []string{"line.sample", "line.malformed", "line.event", "frame.end"}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
}

func TestMalformedSampleWarnsWithoutTrace(t *testing.T) {
	orig := otel.TraceEnabled()
	defer otel.SetTraceEnabled(orig)
	otel.SetTraceEnabled(false)

	var buf bytes.Buffer
	l := otel.NewLogger(&buf)
	sink := &fakeSink{}
	p := New(window.NewStore(5), sink, WithTrace(l))

	p.Feed([]byte("SIG:1,2,3,4,5\nSIG:1,2\n"))
	l.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d trace lines, want only the malformed warning: %q", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if ev["kind"] != "line.malformed" || ev["level"] != "warn" {
		t.Errorf("event = %v", ev)
	}
	if msg, _ := ev["msg"].(string); !strings.Contains(msg, `"SIG:1,2"`) {
		t.Errorf("msg = %q, want the offending line", msg)
	}
	if len(sink.entries) != 0 {
		t.Errorf("malformed line reached the log: %v", sink.entries)
	}
}
