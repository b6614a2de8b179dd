// Command sigscope is a terminal viewer for the two-generator signal
// experiment. It reads the device's line protocol from a serial port (or a
// websocket bridge, or a capture file) and draws rolling charts and an
// event log.
//
// Usage:
//
//	sigscope -port /dev/ttyUSB0 -connect
//	sigscope -url ws://bridge.local:8080/serial
//	sigscope -url file:///tmp/capture.txt -connect
//	sigscope -list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/sigscope/internal/config"
	"github.com/abelbrown/sigscope/internal/eventlog"
	"github.com/abelbrown/sigscope/internal/ingest"
	"github.com/abelbrown/sigscope/internal/logging"
	"github.com/abelbrown/sigscope/internal/metrics"
	"github.com/abelbrown/sigscope/internal/otel"
	"github.com/abelbrown/sigscope/internal/session"
	"github.com/abelbrown/sigscope/internal/transport"
	"github.com/abelbrown/sigscope/internal/ui"
	"github.com/abelbrown/sigscope/internal/window"
)

// readyMessage is the first log line, shown before any device output.
const readyMessage = "Signal analysis system ready"

func main() {
	configPath := flag.String("config", "", "config file (default ~/.sigscope/config.yaml)")
	port := flag.String("port", "", "serial device, e.g. /dev/ttyUSB0 or COM3")
	baud := flag.Int("baud", 0, "serial baud rate (default 115200)")
	url := flag.String("url", "", "ws://, wss:// or file:// source; overrides -port")
	list := flag.Bool("list", false, "list serial ports and exit")
	connect := flag.Bool("connect", false, "connect on startup")
	logLevel := flag.String("log-level", "info", "file log level: debug, info, warn, error")
	flag.Parse()

	if *list {
		listPorts()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("sigscope: %v", err)
	}
	if *port != "" {
		cfg.Device.Port = *port
	}
	if *baud > 0 {
		cfg.Device.BaudRate = *baud
	}
	if *url != "" {
		cfg.Device.URL = *url
	}
	if *connect {
		cfg.Device.AutoConnect = true
	}

	dataDir := config.Dir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fatal("Failed to create data directory: %v", err)
	}

	if err := logging.Init(dataDir, logging.ParseLevel(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	tracer, closeTrace := openTrace(dataDir)
	defer closeTrace()
	ring := otel.NewRing(otel.DefaultRingSize)
	tracer.SetRing(ring)
	tracer.Info(otel.KindStartup, "main", "sigscope starting")

	logging.Info("sigscope starting", "run", tracer.RunID(), "target", targetOf(cfg), "points", cfg.Window.Points)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
				logging.Error("metrics server failed", "addr", cfg.Metrics.Addr, "error", err)
				tracer.Error(otel.KindError, "metrics", err)
			}
		}()
		logging.Info("metrics listening", "addr", cfg.Metrics.Addr)
	}

	store := window.NewStore(cfg.Window.Points)
	book := eventlog.NewBook(cfg.Log.Capacity)
	book.Append(readyMessage, eventlog.SeverityNeutral)

	// program is assigned before Run, and nothing sends until Run starts.
	var program *tea.Program
	send := func(msg tea.Msg) { program.Send(msg) }

	refresher := ui.NewRefresher(send, cfg.UI.FPS)
	store.SetRenderer(refresher)
	sink := refresher.Sink(book)

	ctrl := session.NewController(
		transport.Config{Port: cfg.Device.Port, BaudRate: cfg.Device.BaudRate, URL: cfg.Device.URL},
		func() session.Feeder {
			return ingest.New(store, sink, ingest.WithMetrics(m), ingest.WithTrace(tracer))
		},
		session.OnState(func(c session.Change) { send(ui.StateChanged(c)) }),
		session.WithMetrics(m),
		session.WithTrace(tracer),
	)

	palette, err := ui.PaletteFor(cfg.UI.Theme)
	if err != nil {
		fatal("sigscope: %v", err)
	}
	ui.ApplyPalette(palette)

	app := ui.NewApp(ui.Options{
		Store:       store,
		Book:        book,
		Controller:  ctrl,
		Refresher:   refresher,
		Ring:        ring,
		Trace:       tracer,
		Metrics:     m,
		YMin:        cfg.Window.YMin,
		YMax:        cfg.Window.YMax,
		AutoConnect: cfg.Device.AutoConnect,
	})

	program = tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logging.Info("Starting UI")
	_, runErr := program.Run()

	// Quitting cancels the session context; wait for the port to close.
	if err := ctrl.Disconnect(); err != nil && !errors.Is(err, session.ErrNotConnected) {
		logging.Warn("disconnect on exit", "error", err)
	}
	cancel()
	tracer.Info(otel.KindShutdown, "main", "sigscope exiting")

	if runErr != nil {
		logging.Error("Application error", "error", runErr)
		tracer.Error(otel.KindError, "main", runErr)
		closeTrace()
		logging.Close()
		fatal("Error: %v", runErr)
	}
	logging.Info("sigscope exiting normally")
}

// openTrace opens ~/.sigscope/events.jsonl for append. Failure falls back to
// a discarding logger so the viewer still runs.
func openTrace(dataDir string) (*otel.Logger, func()) {
	path := filepath.Join(dataDir, "events.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logging.Warn("trace log unavailable", "path", path, "error", err)
		l := otel.NewNullLogger()
		return l, l.Close
	}
	l := otel.NewLogger(f)
	return l, func() {
		l.Close()
		f.Close()
	}
}

func listPorts() {
	ports, err := transport.ListPorts()
	if err != nil {
		fatal("sigscope: %v", err)
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return
	}
	for _, p := range ports {
		fmt.Println(p)
	}
}

func targetOf(cfg *config.Config) string {
	if cfg.Device.URL != "" {
		return cfg.Device.URL
	}
	return cfg.Device.Port
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
