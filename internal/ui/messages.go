package ui

import "github.com/abelbrown/trendscout/internal/history"

// HistoryLoaded is sent when the history panel's entries have been read.
type HistoryLoaded struct {
	Entries []history.Entry
	OK      int // successful analyses this session
	Failed  int
	Err     error
}
