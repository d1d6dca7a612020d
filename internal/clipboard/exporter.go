// Package clipboard copies the rendered result to the system clipboard and
// shows a short-lived confirmation on the copy affordance.
package clipboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	sysclip "github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/trendscout/internal/logging"
	"github.com/abelbrown/trendscout/internal/notify"
	"github.com/abelbrown/trendscout/internal/otel"
)

// ConfirmDelay is how long the "Copied" label stays up.
const ConfirmDelay = 2 * time.Second

const (
	Label          = "Copy"
	ConfirmedLabel = "Copied"

	NothingMessage = "Nothing to copy"
	FailedMessage  = "Failed to copy results"
)

// ErrWrite wraps clipboard write failures.
var ErrWrite = errors.New("clipboard write failed")

// TextSource supplies the text to export.
type TextSource interface {
	PlainText() string
}

// Writer writes text to a clipboard.
type Writer func(text string) error

// SystemWriter writes to the OS clipboard.
var SystemWriter Writer = sysclip.WriteAll

// Available reports whether the OS clipboard can be used on this system.
func Available() bool {
	return !sysclip.Unsupported
}

// CopiedMsg reports the outcome of a write.
type CopiedMsg struct {
	Seq   uint64
	Bytes int
	Err   error
}

// RevertMsg restores the label once the confirmation delay elapses.
type RevertMsg struct {
	Seq uint64
}

// Exporter owns the copy affordance.
type Exporter struct {
	source   TextSource
	write    Writer
	notifier notify.Notifier
	journal  *otel.Logger
	delay    time.Duration
	tick     func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	seq        uint64 // latest issued copy
	confirmSeq uint64 // copy whose confirmation is showing
	confirming bool
}

// NewExporter creates an Exporter. A nil writer means SystemWriter;
// a non-positive delay means ConfirmDelay.
func NewExporter(src TextSource, w Writer, n notify.Notifier, delay time.Duration, journal *otel.Logger) *Exporter {
	if w == nil {
		w = SystemWriter
	}
	if delay <= 0 {
		delay = ConfirmDelay
	}
	return &Exporter{
		source:   src,
		write:    w,
		notifier: n,
		journal:  journal,
		delay:    delay,
		tick:     tea.Tick,
	}
}

// Copy exports the current text. Empty text notifies without writing.
func (e *Exporter) Copy() tea.Cmd {
	text := e.source.PlainText()
	if strings.TrimSpace(text) == "" {
		e.journal.Emit(otel.Event{
			Level: otel.LevelInfo,
			Kind:  otel.KindClipboardEmpty,
			Comp:  otel.CompClipboard,
		})
		return e.notifier.Notify(NothingMessage)
	}

	e.seq++
	seq := e.seq
	write := e.write
	return func() tea.Msg {
		if err := write(text); err != nil {
			return CopiedMsg{Seq: seq, Err: fmt.Errorf("%w: %w", ErrWrite, err)}
		}
		return CopiedMsg{Seq: seq, Bytes: len(text)}
	}
}

// Update handles CopiedMsg and RevertMsg. It returns whether msg was
// consumed and any follow-up command.
func (e *Exporter) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch m := msg.(type) {
	case CopiedMsg:
		if m.Err != nil {
			logging.Warn("clipboard write failed", "error", m.Err)
			e.journal.Emit(otel.Event{
				Level: otel.LevelWarn,
				Kind:  otel.KindClipboardError,
				Comp:  otel.CompClipboard,
				Seq:   m.Seq,
				Err:   m.Err.Error(),
			})
			return true, e.notifier.Notify(FailedMessage)
		}

		e.journal.Emit(otel.Event{
			Level: otel.LevelInfo,
			Kind:  otel.KindClipboardCopy,
			Comp:  otel.CompClipboard,
			Seq:   m.Seq,
			Count: m.Bytes,
		})
		// A failed write never takes over the confirmation, so the label
		// always belongs to the newest successful copy.
		if m.Seq < e.confirmSeq {
			return true, nil
		}
		e.confirmSeq = m.Seq
		e.confirming = true
		seq := m.Seq
		return true, e.tick(e.delay, func(time.Time) tea.Msg {
			return RevertMsg{Seq: seq}
		})

	case RevertMsg:
		if m.Seq == e.confirmSeq {
			e.confirming = false
		}
		return true, nil
	}
	return false, nil
}

// Label returns the copy affordance's current label.
func (e *Exporter) Label() string {
	if e.confirming {
		return ConfirmedLabel
	}
	return Label
}

// Confirming reports whether the "Copied" confirmation is showing.
func (e *Exporter) Confirming() bool { return e.confirming }
