// Package notify shows one transient banner at a time and dismisses it
// after a fixed delay.
package notify

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/trendscout/internal/logging"
	"github.com/abelbrown/trendscout/internal/otel"
)

// DefaultDelay is how long a banner stays visible.
const DefaultDelay = 5 * time.Second

// Policy decides which dismissal timers may hide the banner.
type Policy int

const (
	// Restart: each Notify supersedes earlier timers, so only the timer of
	// the banner currently shown can hide it.
	Restart Policy = iota

	// Independent: every timer fires on its own and hides whatever is
	// showing, even a banner posted after that timer was scheduled.
	Independent
)

func (p Policy) String() string {
	if p == Independent {
		return "independent"
	}
	return "restart"
}

// Notifier is what other components need from the center.
type Notifier interface {
	Notify(message string) tea.Cmd
	Dismiss()
}

// DismissMsg is delivered when a dismissal timer elapses.
type DismissMsg struct {
	Gen uint64
}

// Center owns the banner region.
type Center struct {
	message string
	visible bool
	gen     uint64
	posted  int

	delay   time.Duration
	policy  Policy
	journal *otel.Logger
	tick    func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

// Option configures a Center.
type Option func(*Center)

// WithDelay overrides DefaultDelay. Non-positive values are ignored.
func WithDelay(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithPolicy selects the timer policy.
func WithPolicy(p Policy) Option {
	return func(c *Center) { c.policy = p }
}

// WithJournal attaches the event journal.
func WithJournal(l *otel.Logger) Option {
	return func(c *Center) { c.journal = l }
}

// New creates an empty Center.
func New(opts ...Option) *Center {
	c := &Center{
		delay: DefaultDelay,
		tick:  tea.Tick,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify replaces the visible banner and returns the dismissal timer.
func (c *Center) Notify(message string) tea.Cmd {
	c.gen++
	c.posted++
	c.message = message
	c.visible = true

	logging.Debug("notify", "msg", message, "gen", c.gen)
	c.journal.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindNotifyShow,
		Comp:  otel.CompNotify,
		Seq:   c.gen,
		Msg:   message,
	})

	gen := c.gen
	return c.tick(c.delay, func(time.Time) tea.Msg {
		return DismissMsg{Gen: gen}
	})
}

// Dismiss hides the banner now. Pending timers become no-ops under Restart.
func (c *Center) Dismiss() {
	if !c.visible {
		return
	}
	c.hide("dismissed")
}

// Update handles DismissMsg. It reports whether msg was consumed.
func (c *Center) Update(msg tea.Msg) bool {
	m, ok := msg.(DismissMsg)
	if !ok {
		return false
	}
	if !c.visible {
		return true
	}
	if c.policy == Restart && m.Gen != c.gen {
		return true
	}
	c.hide("timer")
	return true
}

func (c *Center) hide(reason string) {
	c.visible = false
	c.journal.Emit(otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindNotifyDismiss,
		Comp:  otel.CompNotify,
		Seq:   c.gen,
		Msg:   reason,
	})
}

// Visible reports whether a banner is showing.
func (c *Center) Visible() bool { return c.visible }

// Message returns the current banner text, or "" when hidden.
func (c *Center) Message() string {
	if !c.visible {
		return ""
	}
	return c.message
}

// Posted counts Notify calls since creation.
func (c *Center) Posted() int { return c.posted }

// Policy returns the configured timer policy.
func (c *Center) Policy() Policy { return c.policy }
