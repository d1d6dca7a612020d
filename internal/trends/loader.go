// Package trends loads the trend catalog and owns the catalog region's state.
package trends

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/trendscout/internal/api"
	"github.com/abelbrown/trendscout/internal/logging"
	"github.com/abelbrown/trendscout/internal/model"
	"github.com/abelbrown/trendscout/internal/notify"
	"github.com/abelbrown/trendscout/internal/otel"
)

// Count is how many trends each load asks for.
const Count = 10

const (
	// FailureMessage is the catalog error state text.
	FailureMessage = "failed to load trends"

	// NotifyMessage is published when a load fails.
	NotifyMessage = "Failed to load trends. Please try again later."
)

// Fetcher retrieves the trend catalog.
type Fetcher interface {
	Trends(ctx context.Context, count int) (model.TrendCatalog, error)
}

// Phase is the catalog region's phase.
type Phase int

const (
	Idle Phase = iota
	Loading
	Error
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Display is what the selector should show. It separates "never loaded"
// and "loaded but empty" from a failed load.
type Display int

const (
	NotLoaded Display = iota
	ShowLoading
	ShowTrends
	ShowEmpty
	ShowError
)

// Placeholder returns the selector's first-row label for d.
func (d Display) Placeholder() string {
	switch d {
	case ShowLoading:
		return "-- Loading trends... --"
	case ShowEmpty:
		return "-- No trends found --"
	case ShowError:
		return "-- Failed to load trends --"
	default:
		return "-- Select a trend --"
	}
}

// LoadedMsg carries the outcome of one Load.
type LoadedMsg struct {
	Seq    uint64
	Trends model.TrendCatalog
	Err    error
	Dur    time.Duration
}

// Loader owns the catalog region.
type Loader struct {
	fetcher  Fetcher
	notifier notify.Notifier
	journal  *otel.Logger

	seq       uint64
	phase     Phase
	errMsg    string
	catalog   model.TrendCatalog
	loaded    bool
	refreshOn bool
}

// NewLoader creates a Loader. journal may be nil.
func NewLoader(f Fetcher, n notify.Notifier, journal *otel.Logger) *Loader {
	return &Loader{
		fetcher:   f,
		notifier:  n,
		journal:   journal,
		catalog:   model.TrendCatalog{},
		refreshOn: true,
	}
}

// Load starts a fresh fetch. Calling it while a load is pending issues
// another request; only the newest one is applied.
func (l *Loader) Load(ctx context.Context) tea.Cmd {
	l.seq++
	l.phase = Loading
	l.refreshOn = false

	seq := l.seq
	l.journal.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindTrendsLoad,
		Comp:  otel.CompTrends,
		Seq:   seq,
		Count: Count,
	})

	fetcher := l.fetcher
	return func() tea.Msg {
		start := time.Now()
		trends, err := fetcher.Trends(ctx, Count)
		return LoadedMsg{Seq: seq, Trends: trends, Err: err, Dur: time.Since(start)}
	}
}

// Update applies LoadedMsg. It returns whether msg was consumed and any
// follow-up command (the failure notification).
func (l *Loader) Update(msg tea.Msg) (bool, tea.Cmd) {
	m, ok := msg.(LoadedMsg)
	if !ok {
		return false, nil
	}

	if m.Seq != l.seq || l.phase != Loading {
		logging.Debug("discarding stale trends", "seq", m.Seq, "latest", l.seq)
		l.journal.Emit(otel.Event{
			Level: otel.LevelDebug,
			Kind:  otel.KindTrendsStale,
			Comp:  otel.CompTrends,
			Seq:   m.Seq,
		})
		return true, nil
	}

	l.refreshOn = true
	l.loaded = true

	if m.Err != nil {
		l.phase = Error
		l.errMsg = FailureMessage
		l.catalog = model.TrendCatalog{}

		logging.Warn("trend load failed", "error", m.Err)
		l.journal.Emit(otel.Event{
			Level:  otel.LevelWarn,
			Kind:   otel.KindTrendsError,
			Comp:   otel.CompTrends,
			Seq:    m.Seq,
			Dur:    m.Dur,
			Status: api.StatusCode(m.Err),
			Err:    m.Err.Error(),
		})

		var cmd tea.Cmd
		if l.notifier != nil {
			cmd = l.notifier.Notify(NotifyMessage)
		}
		return true, cmd
	}

	l.phase = Idle
	l.errMsg = ""
	l.catalog = m.Trends.Clone()

	kind := otel.KindTrendsComplete
	if len(l.catalog) == 0 {
		kind = otel.KindTrendsEmpty
	}
	l.journal.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  kind,
		Comp:  otel.CompTrends,
		Seq:   m.Seq,
		Dur:   m.Dur,
		Count: len(l.catalog),
	})
	return true, nil
}

// Phase returns the current region phase.
func (l *Loader) Phase() Phase { return l.phase }

// ErrorMessage returns the error text while in Error, else "".
func (l *Loader) ErrorMessage() string { return l.errMsg }

// Catalog returns a copy of the current catalog. Never nil.
func (l *Loader) Catalog() model.TrendCatalog { return l.catalog.Clone() }

// RefreshEnabled reports whether the refresh affordance is enabled.
func (l *Loader) RefreshEnabled() bool { return l.refreshOn }

// Seq returns the latest issued sequence token.
func (l *Loader) Seq() uint64 { return l.seq }

// Display returns the selector state.
func (l *Loader) Display() Display {
	switch {
	case l.phase == Loading:
		return ShowLoading
	case l.phase == Error:
		return ShowError
	case !l.loaded:
		return NotLoaded
	case len(l.catalog) == 0:
		return ShowEmpty
	default:
		return ShowTrends
	}
}
