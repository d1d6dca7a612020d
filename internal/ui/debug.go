package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/trendscout/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders request stats and recent events from the ring.
// Returns empty string if ring is nil. journal may be nil.
func debugOverlay(ring *otel.RingBuffer, journal *otel.Logger, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Request Stats"))
	lines = append(lines, fmt.Sprintf("  Trends:     %d loads, %d complete, %d empty, %d errors, %d stale",
		stats[otel.KindTrendsLoad], stats[otel.KindTrendsComplete], stats[otel.KindTrendsEmpty],
		stats[otel.KindTrendsError], stats[otel.KindTrendsStale]))
	lines = append(lines, fmt.Sprintf("  Analyses:   %d submitted, %d complete, %d errors, %d stale, %d invalid",
		stats[otel.KindAnalyzeSubmit], stats[otel.KindAnalyzeComplete], stats[otel.KindAnalyzeError],
		stats[otel.KindAnalyzeStale], stats[otel.KindAnalyzeInvalid]))
	lines = append(lines, fmt.Sprintf("  Banners:    %d shown, %d dismissed",
		stats[otel.KindNotifyShow], stats[otel.KindNotifyDismiss]))
	lines = append(lines, fmt.Sprintf("  Clipboard:  %d copies, %d empty, %d errors",
		stats[otel.KindClipboardCopy], stats[otel.KindClipboardEmpty], stats[otel.KindClipboardError]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	if id := journal.SessionID(); id != "" {
		lines = append(lines, fmt.Sprintf("  Session:    %s (%d dropped)", id, journal.Dropped()))
	}
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-18s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Seq != 0 {
			line += fmt.Sprintf("  #%d", e.Seq)
		}
		if e.Keyword != "" {
			line += "  " + truncateRunes(e.Keyword, 20)
		}
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 40)
		}
		if e.Status != 0 {
			line += fmt.Sprintf("  HTTP %d", e.Status)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		lines = append(lines, line)
	}

	// Truncate to fit terminal height (subtract chrome added by DebugPanel border/padding)
	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 96
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// truncateRunes shortens s to max runes, marking the cut with "…".
func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

// panelStatusBar renders the status bar shown under an overlay panel.
func panelStatusBar(label, closeKey string, width int) string {
	keys := StatusBarKey.Render(closeKey) + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [" + label + "]  " + keys)
}
