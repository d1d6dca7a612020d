package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is set once at package init from TRENDSCOUT_TRACE.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("TRENDSCOUT_TRACE") != "")
}

// TraceEnabled reports whether every UI message should be journaled.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// setTraceEnabled overrides the flag for tests.
func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
