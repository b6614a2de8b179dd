// Package ui provides the Bubble Tea TUI for sigscope: four rolling charts,
// the event log, and a connection status bar.
package ui

import "github.com/abelbrown/sigscope/internal/session"

// StateChanged is sent when the session controller changes state.
type StateChanged session.Change

// Redraw is sent when the window store or event log has new content.
// At most one is in flight at a time.
type Redraw struct{}

// toggleDone is sent when a connect or disconnect request returns.
type toggleDone struct {
	Err error
}
