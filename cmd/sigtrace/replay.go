package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/abelbrown/sigscope/internal/eventlog"
	"github.com/abelbrown/sigscope/internal/ingest"
	"github.com/abelbrown/sigscope/internal/metrics"
	"github.com/abelbrown/sigscope/internal/session"
	"github.com/abelbrown/sigscope/internal/transport"
	"github.com/abelbrown/sigscope/internal/window"
)

// printSink writes log entries as they are produced.
type printSink struct {
	w   io.Writer
	now func() time.Time
}

func (p printSink) Append(message string, sev eventlog.Severity) {
	tag := string(sev)
	if tag == "" {
		tag = "-"
	}
	fmt.Fprintf(p.w, "%s %-7s %s\n", p.now().Format(ingest.LabelFormat), tag, message)
}

// seriesStats summarizes one series of the final window.
type seriesStats struct {
	n                    int
	min, max, mean, last float64
}

func statsOf(pts []window.Point) seriesStats {
	s := seriesStats{n: len(pts), min: math.Inf(1), max: math.Inf(-1)}
	for _, p := range pts {
		s.min = math.Min(s.min, p.Value)
		s.max = math.Max(s.max, p.Value)
		s.last = p.Value
		s.mean += p.Value
	}
	if s.n > 0 {
		s.mean /= float64(s.n)
	}
	return s
}

func (s seriesStats) String() string {
	if s.n == 0 {
		return "empty"
	}
	return fmt.Sprintf("n=%d min=%.3f max=%.3f mean=%.3f last=%.3f", s.n, s.min, s.max, s.mean, s.last)
}

// replay feeds src through a session into store, printing log entries to w.
// Returns the session's terminal error; io.EOF is a clean end of capture.
func replay(ctx context.Context, cfg transport.Config, store *window.Store, w io.Writer, m *metrics.Metrics) error {
	sink := printSink{w: w, now: time.Now}
	ctrl := session.NewController(cfg,
		func() session.Feeder { return ingest.New(store, sink, ingest.WithMetrics(m)) },
		session.WithMetrics(m),
	)

	s, err := ctrl.Connect(ctx)
	if err != nil {
		return err
	}
	<-s.Done()

	if err := s.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func runReplay() {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	points := fs.Int("points", window.DefaultPoints, "Rolling window size")
	baud := fs.Int("baud", transport.DefaultBaudRate, "Baud rate when the source is a serial port")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: sigtrace replay [flags] <capture file | serial port | ws:// URL>")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	cfg := sourceConfig(fs.Arg(0), *baud)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := window.NewStore(*points)
	m := metrics.New()
	if err := replay(ctx, cfg, store, os.Stdout, m); err != nil {
		fatal("replay %s: %v", cfg.Target(), err)
	}

	snap := store.Snapshot()
	fmt.Println()
	fmt.Printf("Window (%d/%d ticks)\n", len(snap.Compare), snap.Cap)
	fmt.Printf("  main:      %s\n", statsOf(snap.Main))
	fmt.Printf("  random:    %s\n", statsOf(snap.Random))
	fmt.Printf("  combined:  %s\n", statsOf(snap.Combined))
}

// sourceConfig treats URLs as URLs, existing files as captures and anything
// else as a serial device.
func sourceConfig(arg string, baud int) transport.Config {
	if hasScheme(arg) {
		return transport.Config{URL: arg}
	}
	if fi, err := os.Stat(arg); err == nil && fi.Mode().IsRegular() {
		if abs, err := filepath.Abs(arg); err == nil {
			arg = abs
		}
		return transport.Config{URL: "file://" + filepath.ToSlash(arg)}
	}
	return transport.Config{Port: arg, BaudRate: baud}
}

func hasScheme(s string) bool {
	for _, p := range []string{"ws://", "wss://", "file://"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func runPorts() {
	ports, err := transport.ListPorts()
	if err != nil {
		fatal("sigtrace: %v", err)
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return
	}
	for _, p := range ports {
		fmt.Println(p)
	}
}
