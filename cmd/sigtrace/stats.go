package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// runSummary aggregates one sigscope run.
type runSummary struct {
	RunID    string
	Start    time.Time
	End      time.Time
	Attempts int
	Opened   int
	Results  map[string]int // disconnect result: cancelled, eof, error
	Errors   int
	Bytes    int
	Chunks   int
	Tails    int
	Lines    map[string]int // line.* kind -> count
}

func newRunSummary(id string) *runSummary {
	return &runSummary{RunID: id, Results: map[string]int{}, Lines: map[string]int{}}
}

func (s *runSummary) add(ev eventRecord) {
	if s.Start.IsZero() || ev.Time.Before(s.Start) {
		s.Start = ev.Time
	}
	if ev.Time.After(s.End) {
		s.End = ev.Time
	}

	switch {
	case ev.Kind == "serial.connect":
		s.Attempts++
	case ev.Kind == "serial.connected":
		s.Opened++
	case ev.Kind == "serial.disconnect":
		s.Results[ev.Msg]++
	case ev.Kind == "serial.error", ev.Kind == "sys.error":
		s.Errors++
	case ev.Kind == "frame.chunk":
		s.Chunks++
		s.Bytes += ev.Bytes
	case ev.Kind == "frame.end":
		s.Tails++
	case strings.HasPrefix(ev.Kind, "line."):
		s.Lines[strings.TrimPrefix(ev.Kind, "line.")]++
	}
}

// summarize groups records by run, ordered by first event.
func summarize(r io.Reader) ([]*runSummary, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	byID := map[string]*runSummary{}
	for scanner.Scan() {
		var ev eventRecord
		if json.Unmarshal(scanner.Bytes(), &ev) != nil {
			continue
		}
		s, ok := byID[ev.RunID]
		if !ok {
			s = newRunSummary(ev.RunID)
			byID[ev.RunID] = s
		}
		s.add(ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	runs := make([]*runSummary, 0, len(byID))
	for _, s := range byID {
		runs = append(runs, s)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Start.Before(runs[j].Start) })
	return runs, nil
}

func (s *runSummary) print(w io.Writer) {
	id := s.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	fmt.Fprintf(w, "Run %s  %s  (%s)\n", id, s.Start.Format("2006-01-02 15:04:05"), s.End.Sub(s.Start).Round(time.Second))
	fmt.Fprintf(w, "  Connects:     %d attempts, %d opened, %d errors\n", s.Attempts, s.Opened, s.Errors)
	if len(s.Results) > 0 {
		fmt.Fprintf(w, "  Sessions:     %s\n", formatCounts(s.Results))
	}
	if s.Chunks > 0 {
		fmt.Fprintf(w, "  Bytes:        %d in %d chunks, %d tails discarded\n", s.Bytes, s.Chunks, s.Tails)
	}
	if len(s.Lines) > 0 {
		fmt.Fprintf(w, "  Lines:        %s\n", formatCounts(s.Lines))
	}
}

// formatCounts renders a map as "a=1 b=2" in key order.
func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	all := fs.Bool("all", false, "Show every run, not just the latest")
	fs.Parse(os.Args[1:])

	f := openEventLog()
	defer f.Close()

	runs, err := summarize(f)
	if err != nil {
		fatal("read %s: %v", eventLogPath(), err)
	}
	if len(runs) == 0 {
		fmt.Println("No events recorded.")
		return
	}
	if !*all {
		runs = runs[len(runs)-1:]
	}
	for i, s := range runs {
		if i > 0 {
			fmt.Println()
		}
		s.print(os.Stdout)
	}
}
