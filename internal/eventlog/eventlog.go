// Package eventlog is the human-readable log shown beside the charts.
package eventlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/abelbrown/sigscope/internal/protocol"
)

// DefaultCapacity is the number of entries kept before the oldest is dropped.
const DefaultCapacity = 500

// Severity tags an entry for display.
type Severity string

const (
	SeverityNeutral Severity = ""
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Entry is one log line.
type Entry struct {
	Time     time.Time
	Message  string
	Severity Severity
}

// Describe renders a protocol event as a log entry. Samples and malformed
// sample lines produce no entry.
func Describe(e protocol.Event) (Entry, bool) {
	switch e := e.(type) {
	case protocol.GeneratorStarted:
		return Entry{Message: fmt.Sprintf("%s signal generation started", sourceName(e.Source)), Severity: SeveritySuccess}, true
	case protocol.GeneratorStopped:
		return Entry{Message: fmt.Sprintf("%s signal generation stopped", sourceName(e.Source)), Severity: SeverityInfo}, true
	case protocol.AmplitudeChanged:
		return Entry{Message: "Amplitude changed: level " + e.Level, Severity: SeverityWarning}, true
	case protocol.Unclassified:
		if e.Malformed || e.Text == "" {
			return Entry{}, false
		}
		return Entry{Message: e.Text, Severity: SeverityInfo}, true
	}
	return Entry{}, false
}

func sourceName(s protocol.Source) string {
	if s == protocol.SourceRandom {
		return "Random"
	}
	return "Main"
}

// Book is an append-only log capped at a fixed number of entries.
// Goroutine-safe.
type Book struct {
	mu      sync.Mutex
	entries []Entry
	limit   int
	now     func() time.Time
}

// NewBook creates a Book holding at most limit entries (DefaultCapacity if limit <= 0).
func NewBook(limit int) *Book {
	if limit <= 0 {
		limit = DefaultCapacity
	}
	return &Book{limit: limit, now: time.Now}
}

// Append adds a message. The oldest entry is dropped once the cap is reached.
func (b *Book) Append(message string, sev Severity) {
	b.Add(Entry{Message: message, Severity: sev})
}

// Add appends e, stamping it with the current time if e.Time is zero.
func (b *Book) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e.Time.IsZero() {
		e.Time = b.now()
	}
	if len(b.entries) == b.limit {
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:len(b.entries)-1]
	}
	b.entries = append(b.entries, e)
}

// Entries returns a copy of the log, oldest first.
func (b *Book) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == 0 {
		return nil
	}
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of entries.
func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Clear removes every entry.
func (b *Book) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}
