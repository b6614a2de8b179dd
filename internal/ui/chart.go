package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Braille cells give 2x4 dots per terminal cell.
const (
	brailleBase = 0x2800
	dotsX       = 2
	dotsY       = 4
)

// brailleBits[x][y] is the bit for the dot at column x, row y of a cell.
var brailleBits = [dotsX][dotsY]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// yGutter is the width of the y-axis tick column.
const yGutter = 7

// trace is one dataset drawn on a chart.
type trace struct {
	name   string
	values []float64
	color  lipgloss.Color
}

// chart is everything needed to draw one panel. width and height include
// the panel border.
type chart struct {
	title      string
	traces     []trace
	firstLabel string
	lastLabel  string
	yMin, yMax float64
	width      int
	height     int
}

// render draws the chart inside a Panel border.
func (c chart) render() string {
	innerW := c.width - 2
	innerH := c.height - 2
	if innerW < 1 || innerH < 1 {
		return ""
	}

	lines := []string{c.header(innerW)}
	plotH := innerH - 2
	plotW := innerW - yGutter
	if plotH >= 1 && plotW >= 2 {
		lines = append(lines, c.plot(plotW, plotH)...)
		lines = append(lines, c.footer(innerW))
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}

	return Panel.Width(innerW).Height(innerH).Render(strings.Join(lines, "\n"))
}

// header is the title followed by the latest value of every trace.
func (c chart) header(width int) string {
	parts := []string{PanelTitle.Render(c.title)}
	for _, t := range c.traces {
		if len(t.values) == 0 {
			continue
		}
		v := formatValue(t.values[len(t.values)-1])
		if len(c.traces) > 1 {
			v = t.name + " " + v
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(t.color).Render(v))
	}
	return truncateStyled(strings.Join(parts, "  "), width)
}

func (c chart) footer(width int) string {
	if c.firstLabel == "" {
		return ""
	}
	left := strings.Repeat(" ", yGutter) + c.firstLabel
	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(c.lastLabel)
	if gap < 1 || c.lastLabel == c.firstLabel {
		return AxisLabel.Render(runewidth.Truncate(left, width, ""))
	}
	return AxisLabel.Render(left + strings.Repeat(" ", gap) + c.lastLabel)
}

// plot rasterizes every trace into braille cells. Later traces win a
// shared cell's color.
func (c chart) plot(w, h int) []string {
	cells := make([][]rune, h)
	colors := make([][]int, h)
	for y := range cells {
		cells[y] = make([]rune, w)
		colors[y] = make([]int, w)
		for x := range colors[y] {
			colors[y][x] = -1
		}
	}

	dotW, dotH := w*dotsX, h*dotsY
	for ti, t := range c.traces {
		n := len(t.values)
		if n == 0 {
			continue
		}
		prevX, prevY := -1, -1
		for i, v := range t.values {
			x := 0
			if n > 1 {
				x = i * (dotW - 1) / (n - 1)
			}
			y := c.scaleY(v, dotH)
			if prevX < 0 {
				setDot(cells, colors, x, y, ti)
			} else {
				line(cells, colors, prevX, prevY, x, y, ti)
			}
			prevX, prevY = x, y
		}
	}

	out := make([]string, h)
	for y := 0; y < h; y++ {
		var b strings.Builder
		b.WriteString(AxisLabel.Render(c.yTick(y, h)))
		for x := 0; x < w; x++ {
			if colors[y][x] < 0 {
				b.WriteByte(' ')
				continue
			}
			style := lipgloss.NewStyle().Foreground(c.traces[colors[y][x]].color)
			b.WriteString(style.Render(string(brailleBase + cells[y][x])))
		}
		out[y] = b.String()
	}
	return out
}

// scaleY maps v to a dot row, 0 at the top. Out-of-range values clamp.
func (c chart) scaleY(v float64, dotH int) int {
	if math.IsNaN(v) {
		v = 0
	}
	span := c.yMax - c.yMin
	if span <= 0 {
		return dotH / 2
	}
	frac := (c.yMax - v) / span
	y := int(math.Round(frac * float64(dotH-1)))
	if y < 0 {
		return 0
	}
	if y > dotH-1 {
		return dotH - 1
	}
	return y
}

// yTick labels the top, middle and bottom rows.
func (c chart) yTick(row, h int) string {
	var v float64
	switch {
	case row == 0:
		v = c.yMax
	case row == h-1:
		v = c.yMin
	case h > 2 && row == (h-1)/2:
		v = (c.yMax + c.yMin) / 2
	default:
		return strings.Repeat(" ", yGutter)
	}
	return fmt.Sprintf("%*.1f ", yGutter-1, v)
}

func setDot(cells [][]rune, colors [][]int, x, y, trace int) {
	cx, cy := x/dotsX, y/dotsY
	if cy < 0 || cy >= len(cells) || cx < 0 || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleBits[x%dotsX][y%dotsY]
	colors[cy][cx] = trace
}

// line draws a Bresenham segment between two dots.
func line(cells [][]rune, colors [][]int, x0, y0, x1, y1, trace int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		setDot(cells, colors, x0, y0, trace)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// formatValue renders a reading to three decimals.
func formatValue(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// truncateStyled cuts a rendered string to width cells, keeping ANSI codes.
func truncateStyled(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
