// Package otel is trendscout's structured event journal.
//
// Components emit typed Events for every request lifecycle step (issue,
// apply, discard-as-stale, fail), every notification and every clipboard
// write. The Logger serializes them as JSONL via a background writer; an
// optional RingBuffer keeps the most recent ones for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Trend catalog
	KindTrendsLoad     EventKind = "trends.load"
	KindTrendsComplete EventKind = "trends.complete"
	KindTrendsEmpty    EventKind = "trends.empty"
	KindTrendsError    EventKind = "trends.error"
	KindTrendsStale    EventKind = "trends.stale"

	// Analysis
	KindAnalyzeInvalid  EventKind = "analyze.invalid"
	KindAnalyzeSubmit   EventKind = "analyze.submit"
	KindAnalyzeComplete EventKind = "analyze.complete"
	KindAnalyzeError    EventKind = "analyze.error"
	KindAnalyzeStale    EventKind = "analyze.stale"

	// Notifications
	KindNotifyShow    EventKind = "notify.show"
	KindNotifyDismiss EventKind = "notify.dismiss"

	// Clipboard
	KindClipboardCopy  EventKind = "clipboard.copy"
	KindClipboardEmpty EventKind = "clipboard.empty"
	KindClipboardError EventKind = "clipboard.error"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Message tracing (TRENDSCOUT_TRACE)
	KindMsgReceived EventKind = "trace.msg_received"
)

// Component names used in Event.Comp.
const (
	CompTrends    = "trends"
	CompAnalysis  = "analysis"
	CompNotify    = "notify"
	CompClipboard = "clipboard"
	CompUI        = "ui"
	CompMain      = "main"
)

// Event is the universal journal record. Every field except Kind and Time
// is optional. Serialized as a single JSONL line.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`
	SessionID string         `json:"session_id,omitempty"` // random hex, same for entire run
	Seq       uint64         `json:"seq,omitempty"`        // request sequence token
	Dur       time.Duration  `json:"-"`                    // not serialized directly
	DurMs     float64        `json:"dur_ms,omitempty"`     // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Keyword   string         `json:"keyword,omitempty"`
	Status    int            `json:"status,omitempty"` // HTTP status for failures
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON implements json.Marshaler, converting Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
