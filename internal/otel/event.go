// Package otel records what the viewer is doing: connection lifecycle,
// per-line classification and errors.
//
// Events are typed structs written as JSONL by an async Logger. A Ring
// keeps the most recent ones in memory for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind is "<subsystem>.<action>".
type EventKind string

const (
	// Connection lifecycle
	KindConnect     EventKind = "serial.connect"
	KindConnected   EventKind = "serial.connected"
	KindDisconnect  EventKind = "serial.disconnect"
	KindSerialError EventKind = "serial.error"
	KindChunk       EventKind = "frame.chunk"
	KindStreamEnd   EventKind = "frame.end"

	// Classification (emitted only when tracing)
	KindSample       EventKind = "line.sample"
	KindLineEvent    EventKind = "line.event"
	KindUnclassified EventKind = "line.unclassified"
	KindMalformed    EventKind = "line.malformed"

	// Store
	KindStoreClear EventKind = "store.clear"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"
)

// Event is one observability record. Only Kind is required.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "session", "ingest", "ui", "main"
	RunID     string         `json:"run_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"` // connection session
	Port      string         `json:"port,omitempty"`
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"`
	Bytes     int            `json:"bytes,omitempty"`
	Count     int            `json:"count,omitempty"`
	Line      string         `json:"line,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := struct {
		alias
	}{alias: alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
