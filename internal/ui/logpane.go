package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/sigscope/internal/eventlog"
)

// logTimeFormat matches the chart labels.
const logTimeFormat = "15:04:05"

// logPane shows the event log in a scrollable viewport that follows the tail
// unless the user has scrolled up.
type logPane struct {
	vp      viewport.Model
	entries int
}

func newLogPane() logPane {
	return logPane{vp: viewport.New(0, 0)}
}

// setSize sets the outer size including the panel border and title row.
func (p *logPane) setSize(width, height int) {
	p.vp.Width = max(width-2, 1)
	p.vp.Height = max(height-3, 1)
}

// setEntries replaces the content. The view stays pinned to the newest entry
// when it was already there.
func (p *logPane) setEntries(entries []eventlog.Entry) {
	follow := p.vp.AtBottom() || p.entries == 0
	p.entries = len(entries)

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = renderEntry(e, p.vp.Width)
	}
	p.vp.SetContent(strings.Join(lines, "\n"))
	if follow {
		p.vp.GotoBottom()
	}
}

func (p logPane) view() string {
	title := PanelTitle.Render("Event log")
	body := lipgloss.JoinVertical(lipgloss.Left, title, p.vp.View())
	return Panel.Width(p.vp.Width).Render(body)
}

// renderEntry formats one line as "15:04:05 message", truncated to width.
func renderEntry(e eventlog.Entry, width int) string {
	ts := e.Time.Format(logTimeFormat)
	room := width - len(ts) - 1
	if room < 1 {
		return LogTime.Render(runewidth.Truncate(ts, width, ""))
	}
	msg := runewidth.Truncate(e.Message, room, "…")
	return LogTime.Render(ts) + " " + severityStyle(e.Severity).Render(msg)
}

func severityStyle(s eventlog.Severity) lipgloss.Style {
	switch s {
	case eventlog.SeveritySuccess:
		return LogSuccess
	case eventlog.SeverityInfo:
		return LogInfo
	case eventlog.SeverityWarning:
		return LogWarning
	default:
		return LogNeutral
	}
}
