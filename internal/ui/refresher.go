package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/abelbrown/sigscope/internal/eventlog"
	"github.com/abelbrown/sigscope/internal/window"
)

// Refresher turns store and log mutations into Redraw messages, limited to
// fps frames per second. Bursts collapse into a single pending Redraw that
// the App acknowledges with Done.
//
// Refresher implements window.Renderer. Eviction stays the store's job; the
// refresher only signals that a new snapshot is worth taking.
type Refresher struct {
	send    func(tea.Msg)
	limiter *rate.Limiter
	pending atomic.Bool
}

// NewRefresher creates a Refresher delivering through send, typically
// (*tea.Program).Send. fps <= 0 disables throttling.
func NewRefresher(send func(tea.Msg), fps int) *Refresher {
	limit := rate.Inf
	if fps > 0 {
		limit = rate.Limit(fps)
	}
	return &Refresher{
		send:    send,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Append implements window.Renderer.
func (r *Refresher) Append(window.SeriesID, string, float64) {
	r.Request()
}

// Clear implements window.Renderer.
func (r *Refresher) Clear(window.SeriesID) {
	r.Request()
}

// Request schedules a Redraw unless one is already pending.
func (r *Refresher) Request() {
	if !r.pending.CompareAndSwap(false, true) {
		return
	}
	delay := r.limiter.Reserve().Delay()
	if delay <= 0 {
		r.send(Redraw{})
		return
	}
	time.AfterFunc(delay, func() { r.send(Redraw{}) })
}

// Done acknowledges a Redraw so the next mutation schedules another.
func (r *Refresher) Done() {
	r.pending.Store(false)
}

// Pending reports whether a Redraw is scheduled but not yet acknowledged.
func (r *Refresher) Pending() bool {
	return r.pending.Load()
}

// LogSink appends to an event log and requests a redraw.
type LogSink struct {
	book *eventlog.Book
	r    *Refresher
}

// Sink wraps book so every append refreshes the log pane.
func (r *Refresher) Sink(book *eventlog.Book) *LogSink {
	return &LogSink{book: book, r: r}
}

// Append implements ingest.Sink.
func (s *LogSink) Append(message string, sev eventlog.Severity) {
	s.book.Append(message, sev)
	s.r.Request()
}
