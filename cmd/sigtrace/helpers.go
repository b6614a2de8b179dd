package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abelbrown/sigscope/internal/config"
)

// eventLogPath returns the trace file sigscope writes.
func eventLogPath() string {
	return filepath.Join(config.Dir(), "events.jsonl")
}

// openEventLog opens the trace file or exits with a hint.
func openEventLog() *os.File {
	path := eventLogPath()
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintf(os.Stderr, "  Event log not found at %s\n", path)
		fmt.Fprintf(os.Stderr, "  Run sigscope first to generate events.\n")
		os.Exit(1)
	}
	return f
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
