package ui

import (
	"fmt"
	"strings"
	"time"
)

// historyLimit is how many entries the panel shows.
const historyLimit = 20

// historyPanel renders this session's analyses, newest first.
func historyPanel(data HistoryLoaded, width, height int) string {
	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Session History"))

	switch {
	case data.Err != nil:
		lines = append(lines, ErrorStyle.Render("history unavailable: "+data.Err.Error()))
	case len(data.Entries) == 0:
		lines = append(lines, "  No analyses yet.")
	default:
		lines = append(lines, fmt.Sprintf("  %d ok / %d failed", data.OK, data.Failed))
	}

	now := time.Now()
	for _, e := range data.Entries {
		status := "ok"
		if !e.OK() {
			status = "ERR:" + truncateRunes(e.Err, 30)
		}
		kw := e.Keyword
		if e.Category != "" {
			kw += " (" + e.Category + ")"
		}
		lines = append(lines, fmt.Sprintf("  %6s ago  %-28s  x%-2d  %6s  %s",
			formatAge(now.Sub(e.At)), truncateRunes(kw, 28), e.Count, formatAge(e.Dur), status))
	}

	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := width - 4
	if panelWidth < 20 {
		panelWidth = 20
	}
	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}
