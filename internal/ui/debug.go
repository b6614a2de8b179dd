package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/sigscope/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders connection and ingest stats plus recent trace events.
// Returns empty string if ring is nil.
func debugOverlay(ring *otel.Ring, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Counts()
	recent := ring.Last(20)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Connection"))
	lines = append(lines, fmt.Sprintf("  Sessions:   %d attempts, %d connected, %d ended, %d errors",
		stats[otel.KindConnect], stats[otel.KindConnected], stats[otel.KindDisconnect], stats[otel.KindSerialError]))
	lines = append(lines, fmt.Sprintf("  Chunks:     %d read, %d tails discarded",
		stats[otel.KindChunk], stats[otel.KindStreamEnd]))
	lines = append(lines, fmt.Sprintf("  Lines:      %d samples, %d events, %d other, %d malformed",
		stats[otel.KindSample], stats[otel.KindLineEvent], stats[otel.KindUnclassified], stats[otel.KindMalformed]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	if !otel.TraceEnabled() {
		lines = append(lines, "  (set SIGSCOPE_TRACE=1 for per-line events)")
	}
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-18s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Msg != "" {
			line += "  " + runewidth.Truncate(e.Msg, 30, "…")
		}
		if e.Line != "" {
			line += "  " + runewidth.Truncate(e.Line, 30, "…")
		}
		if e.Err != "" {
			line += "  ERR:" + runewidth.Truncate(e.Err, 30, "…")
		}
		if e.SessionID != "" {
			sid := e.SessionID
			if len(sid) > 8 {
				sid = sid[:8]
			}
			line += "  sid:" + sid
		}
		lines = append(lines, line)
	}

	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 84
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration as a compact human string.
// Negative durations from clock skew clamp to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("D") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
