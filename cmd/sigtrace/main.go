// Command sigtrace is the debugging CLI for sigscope.
//
// Usage:
//
//	sigtrace                     Show help
//	sigtrace events              JSONL trace viewer
//	sigtrace stats               Trace statistics per run
//	sigtrace replay <capture>    Run a capture through the ingest pipeline
//	sigtrace ports               List serial ports
package main

import (
	"fmt"
	"os"
)

const usage = `sigtrace: sigscope debugging CLI

Usage:
  sigtrace <command> [flags]

Commands:
  events      JSONL trace viewer (~/.sigscope/events.jsonl)
  stats       Trace statistics: sessions, lines by kind, bytes
  replay      Run a captured byte stream through framing and classification
  ports       List serial ports

Environment:
  SIGSCOPE_TRACE   Emit per-line trace events from sigscope (any non-empty value)

Run 'sigtrace <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "events":
		runEvents()
	case "stats":
		runStats()
	case "replay":
		runReplay()
	case "ports":
		runPorts()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "sigtrace: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
