package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/sigscope/internal/eventlog"
	"github.com/abelbrown/sigscope/internal/metrics"
	"github.com/abelbrown/sigscope/internal/otel"
	"github.com/abelbrown/sigscope/internal/session"
	"github.com/abelbrown/sigscope/internal/window"
)

// minLogHeight is the smallest log pane, border and title included.
const minLogHeight = 6

// Controller is the part of *session.Controller the App drives.
type Controller interface {
	Toggle(ctx context.Context) error
	State() session.State
	Target() string
}

// Options wires the App to the rest of the program. Store, Book and
// Controller are required; Ring feeds the debug overlay.
type Options struct {
	Store       *window.Store
	Book        *eventlog.Book
	Controller  Controller
	Refresher   *Refresher
	Ring        *otel.Ring
	Trace       *otel.Logger
	Metrics     *metrics.Metrics
	YMin, YMax  float64
	AutoConnect bool
}

// App is the root Bubble Tea model.
// It never touches the transport. Data arrives through the store and log,
// state through StateChanged.
type App struct {
	opts Options

	state    session.State
	err      error
	snapshot window.Snapshot
	log      logPane
	spinner  spinner.Model
	help     help.Model

	showDebug bool
	width     int
	height    int
	ready     bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the root model.
func NewApp(opts Options) App {
	if opts.YMax <= opts.YMin {
		opts.YMin, opts.YMax = -6, 6
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = IndicatorConnecting

	ctx, cancel := context.WithCancel(context.Background())
	return App{
		opts:    opts,
		state:   opts.Controller.State(),
		log:     newLogPane(),
		spinner: s,
		help:    help.New(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Init starts the spinner, paints the initial content and optionally
// connects.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick, func() tea.Msg { return Redraw{} }}
	if a.opts.AutoConnect {
		cmds = append(cmds, a.toggle())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		a.resize()
		return a, nil

	case StateChanged:
		a.state = msg.State
		switch {
		case msg.Err != nil:
			a.err = msg.Err
		case msg.State == session.Connected:
			a.err = nil
		}
		return a, nil

	case toggleDone:
		if msg.Err != nil && !errors.Is(msg.Err, session.ErrAlreadyConnected) && !errors.Is(msg.Err, context.Canceled) {
			a.err = msg.Err
		}
		return a, nil

	case Redraw:
		a.refresh()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.log.vp, cmd = a.log.vp.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		a.cancel()
		return a, tea.Quit

	case key.Matches(msg, keys.Connect):
		a.err = nil
		return a, a.toggle()

	case key.Matches(msg, keys.ClearCharts):
		a.opts.Store.Clear()
		if a.opts.Trace != nil {
			a.opts.Trace.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStoreClear, Comp: "ui"})
		}
		a.refresh()
		return a, nil

	case key.Matches(msg, keys.ClearLog):
		a.opts.Book.Clear()
		a.refresh()
		return a, nil

	case key.Matches(msg, keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil

	case key.Matches(msg, keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.resize()
		return a, nil
	}

	var cmd tea.Cmd
	a.log.vp, cmd = a.log.vp.Update(msg)
	return a, cmd
}

// toggle runs Connect or Disconnect off the UI goroutine. Disconnect blocks
// until the read loop has exited.
func (a App) toggle() tea.Cmd {
	ctrl, ctx := a.opts.Controller, a.ctx
	return func() tea.Msg {
		return toggleDone{Err: ctrl.Toggle(ctx)}
	}
}

// refresh takes a fresh snapshot of the store and log.
func (a *App) refresh() {
	if a.opts.Refresher != nil {
		a.opts.Refresher.Done()
	}
	a.snapshot = a.opts.Store.Snapshot()
	a.log.setEntries(a.opts.Book.Entries())
	a.opts.Metrics.SetWindow(len(a.snapshot.Compare))
}

// layout splits the screen: header, two rows of charts, log pane, optional
// error line, status bar.
func (a App) layout() (chartH, logH int) {
	body := a.height - 1 - lipgloss.Height(a.help.View(keys))
	if a.err != nil {
		body--
	}
	logH = max(body/4, minLogHeight)
	chartH = max((body-logH)/2, 3)
	return chartH, logH
}

func (a *App) resize() {
	_, logH := a.layout()
	a.log.setSize(a.width, logH)
	a.log.setEntries(a.opts.Book.Entries())
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.showDebug {
		overlay := debugOverlay(a.opts.Ring, a.width, a.height-1)
		if overlay == "" {
			overlay = ErrorStyle.Render("debug overlay unavailable")
		}
		return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, overlay) +
			"\n" + debugStatusBar(a.width)
	}

	chartH, _ := a.layout()
	leftW := a.width / 2
	rightW := a.width - leftW

	snap := a.snapshot
	main := a.seriesChart("Main signal", snap.Main, colorMain, leftW, chartH)
	random := a.seriesChart("Random signal", snap.Random, colorRandom, rightW, chartH)
	combined := a.seriesChart("Combined signal", snap.Combined, colorCombined, leftW, chartH)
	compare := a.compareChart(snap.Compare, rightW, chartH)

	sections := []string{
		a.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, main, random),
		lipgloss.JoinHorizontal(lipgloss.Top, combined, compare),
		a.log.view(),
	}
	if a.err != nil {
		sections = append(sections, ErrorStyle.Width(a.width).Render("Error: "+a.err.Error()))
	}
	sections = append(sections, StatusBar.Width(a.width).Render(a.help.View(keys)))
	return strings.Join(sections, "\n")
}

func (a App) seriesChart(title string, pts []window.Point, color lipgloss.Color, w, h int) string {
	values := make([]float64, len(pts))
	for i, p := range pts {
		values[i] = p.Value
	}
	c := chart{
		title:  title,
		traces: []trace{{name: title, values: values, color: color}},
		yMin:   a.opts.YMin,
		yMax:   a.opts.YMax,
		width:  w,
		height: h,
	}
	if len(pts) > 0 {
		c.firstLabel, c.lastLabel = pts[0].Label, pts[len(pts)-1].Label
	}
	return c.render()
}

func (a App) compareChart(ticks []window.Tick, w, h int) string {
	main := make([]float64, len(ticks))
	random := make([]float64, len(ticks))
	combined := make([]float64, len(ticks))
	for i, t := range ticks {
		main[i], random[i], combined[i] = t.Main, t.Random, t.Combined
	}
	c := chart{
		title: "Comparison",
		traces: []trace{
			{name: "main", values: main, color: colorMain},
			{name: "random", values: random, color: colorRandom},
			{name: "combined", values: combined, color: colorCombined},
		},
		yMin:   a.opts.YMin,
		yMax:   a.opts.YMax,
		width:  w,
		height: h,
	}
	if len(ticks) > 0 {
		c.firstLabel, c.lastLabel = ticks[0].Label, ticks[len(ticks)-1].Label
	}
	return c.render()
}

// renderHeader shows the app name, the target and the connection indicator.
func (a App) renderHeader() string {
	target := a.opts.Controller.Target()
	if target == "" {
		target = "no device configured"
	}
	left := "SIGSCOPE │ " + target
	right := a.indicator()

	pad := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}
	return Header.Width(a.width).Render(left + strings.Repeat(" ", pad) + right)
}

func (a App) indicator() string {
	switch a.state {
	case session.Connected:
		return IndicatorConnected.Render("● Connected")
	case session.Connecting:
		return a.spinner.View() + IndicatorConnecting.Render(" Connecting...")
	default:
		return IndicatorDisconnected.Render("● Not connected")
	}
}

// State returns the last reported connection state (for testing).
func (a App) State() session.State {
	return a.state
}

// Snapshot returns the last store snapshot (for testing).
func (a App) Snapshot() window.Snapshot {
	return a.snapshot
}

// Err returns the error shown in the error bar (for testing).
func (a App) Err() error {
	return a.err
}
