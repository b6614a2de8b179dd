package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled gates per-line events, which are too chatty for normal runs.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("SIGSCOPE_TRACE") != "")
}

// TraceEnabled reports whether SIGSCOPE_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// SetTraceEnabled overrides the flag, e.g. from a command-line switch.
func SetTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
