package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Palette is one color theme.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
	Success   lipgloss.Color
	Info      lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text      lipgloss.Color // bright foreground on bars
	Neutral   lipgloss.Color // plain log lines
	Border    lipgloss.Color
	StatusBar lipgloss.Color // status bar background

	// Series colors. The comparison chart reuses them so a trace keeps its
	// color across panels.
	Main     lipgloss.Color
	Random   lipgloss.Color
	Combined lipgloss.Color
}

// DarkPalette suits dark terminals.
var DarkPalette = Palette{
	Primary:   lipgloss.Color("62"),  // Purple
	Secondary: lipgloss.Color("241"), // Gray
	Muted:     lipgloss.Color("240"), // Darker gray
	Highlight: lipgloss.Color("212"), // Pink
	Success:   lipgloss.Color("78"),  // Green
	Info:      lipgloss.Color("75"),  // Blue
	Warning:   lipgloss.Color("221"), // Yellow
	Error:     lipgloss.Color("196"), // Red
	Text:      lipgloss.Color("255"),
	Neutral:   lipgloss.Color("252"),
	Border:    lipgloss.Color("238"),
	StatusBar: lipgloss.Color("236"),
	Main:      lipgloss.Color("#58a6ff"),
	Random:    lipgloss.Color("#f85149"),
	Combined:  lipgloss.Color("#3fb950"),
}

// LightPalette suits light terminals.
var LightPalette = Palette{
	Primary:   lipgloss.Color("55"),
	Secondary: lipgloss.Color("243"),
	Muted:     lipgloss.Color("245"),
	Highlight: lipgloss.Color("125"),
	Success:   lipgloss.Color("28"),
	Info:      lipgloss.Color("25"),
	Warning:   lipgloss.Color("130"),
	Error:     lipgloss.Color("160"),
	Text:      lipgloss.Color("231"),
	Neutral:   lipgloss.Color("235"),
	Border:    lipgloss.Color("250"),
	StatusBar: lipgloss.Color("240"),
	Main:      lipgloss.Color("#0969da"),
	Random:    lipgloss.Color("#cf222e"),
	Combined:  lipgloss.Color("#1a7f37"),
}

// PaletteFor maps a theme name to its palette. Empty means dark.
func PaletteFor(theme string) (Palette, error) {
	switch theme {
	case "", "dark":
		return DarkPalette, nil
	case "light":
		return LightPalette, nil
	default:
		return Palette{}, fmt.Errorf("ui: unknown theme %q", theme)
	}
}

// Active series colors, set by ApplyPalette.
var (
	colorMain     lipgloss.Color
	colorRandom   lipgloss.Color
	colorCombined lipgloss.Color
)

var (
	// Header style for the top bar.
	Header lipgloss.Style
	// Panel frames one chart or the log pane.
	Panel lipgloss.Style
	// PanelTitle style for chart titles.
	PanelTitle lipgloss.Style
	// AxisLabel style for y-axis ticks and x labels.
	AxisLabel lipgloss.Style
	// LastValue style for the latest reading beside a chart title.
	LastValue lipgloss.Style

	StatusBar     lipgloss.Style
	StatusBarKey  lipgloss.Style
	StatusBarText lipgloss.Style
	ErrorStyle    lipgloss.Style

	// Connection indicator styles, one per session state.
	IndicatorDisconnected lipgloss.Style
	IndicatorConnecting   lipgloss.Style
	IndicatorConnected    lipgloss.Style

	// Log entry styles keyed by severity.
	LogTime    lipgloss.Style
	LogNeutral lipgloss.Style
	LogSuccess lipgloss.Style
	LogInfo    lipgloss.Style
	LogWarning lipgloss.Style

	DebugPanel       lipgloss.Style
	DebugHeaderStyle lipgloss.Style
)

func init() {
	ApplyPalette(DarkPalette)
}

// ApplyPalette rebuilds every style from p. Call before the program starts.
func ApplyPalette(p Palette) {
	colorMain, colorRandom, colorCombined = p.Main, p.Random, p.Combined

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Text).
		Background(p.Primary).
		Padding(0, 1)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border)

	PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Highlight)

	AxisLabel = lipgloss.NewStyle().Foreground(p.Muted)
	LastValue = lipgloss.NewStyle().Foreground(p.Neutral)

	StatusBar = lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.StatusBar).
		Padding(0, 1)

	StatusBarKey = lipgloss.NewStyle().
		Foreground(p.Highlight).
		Bold(true)

	StatusBarText = lipgloss.NewStyle().Foreground(p.Secondary)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true).
		Padding(0, 1)

	IndicatorDisconnected = lipgloss.NewStyle().Foreground(p.Error)
	IndicatorConnecting = lipgloss.NewStyle().Foreground(p.Warning)
	IndicatorConnected = lipgloss.NewStyle().Foreground(p.Success)

	LogTime = lipgloss.NewStyle().Foreground(p.Muted)
	LogNeutral = lipgloss.NewStyle().Foreground(p.Neutral)
	LogSuccess = lipgloss.NewStyle().Foreground(p.Success)
	LogInfo = lipgloss.NewStyle().Foreground(p.Info)
	LogWarning = lipgloss.NewStyle().Foreground(p.Warning)

	DebugPanel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)

	DebugHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Highlight)
}
