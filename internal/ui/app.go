// Package ui provides the Bubble Tea TUI for trendscout.
//
// The App is only a binding layer: it turns keys into calls on the
// components (keyword, trends, analysis, notify, result, clipboard) and
// routes their completion messages back to them. All region state lives in
// the components.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/trendscout/internal/analysis"
	"github.com/abelbrown/trendscout/internal/clipboard"
	"github.com/abelbrown/trendscout/internal/history"
	"github.com/abelbrown/trendscout/internal/keyword"
	"github.com/abelbrown/trendscout/internal/model"
	"github.com/abelbrown/trendscout/internal/notify"
	"github.com/abelbrown/trendscout/internal/otel"
	"github.com/abelbrown/trendscout/internal/result"
	"github.com/abelbrown/trendscout/internal/trends"
)

// focus is the form field receiving keys.
type focus int

const (
	focusTrends focus = iota
	focusCustom
	focusCount
	focusCategory
	numFocus
)

// AppConfig wires the App to its components. History, Renderer, Ring and
// Journal are optional.
type AppConfig struct {
	Ctx       context.Context
	ServerURL string

	Keywords  *keyword.Coordinator
	Trends    *trends.Loader
	Analysis  *analysis.Controller
	Notices   *notify.Center
	Results   *result.Presenter
	Renderer  *result.GlamourRenderer
	Clipboard *clipboard.Exporter
	History   *history.Store

	Ring    *otel.RingBuffer
	Journal *otel.Logger

	Categories   []string
	DefaultCount int

	// StartupNotices are shown together in one banner once the UI starts,
	// for problems that are worth reporting but not worth exiting over.
	StartupNotices []string
}

// App is the root Bubble Tea model.
type App struct {
	ctx       context.Context
	serverURL string

	keywords  *keyword.Coordinator
	trends    *trends.Loader
	analysis  *analysis.Controller
	notices   *notify.Center
	results   *result.Presenter
	renderer  *result.GlamourRenderer
	clipboard *clipboard.Exporter
	history   *history.Store
	ring      *otel.RingBuffer
	journal   *otel.Logger

	startupNotice string

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	custom   textinput.Model
	count    textinput.Model

	focus       focus
	trendCursor int // 0 is the placeholder row
	categories  []string
	categoryIdx int // 0 is "any category"

	width  int
	height int
	ready  bool

	debugVisible   bool
	historyVisible bool
	historyData    HistoryLoaded
}

// NewApp creates the App.
func NewApp(cfg AppConfig) App {
	ctx := cfg.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	defaultCount := cfg.DefaultCount
	if defaultCount <= 0 {
		defaultCount = model.DefaultCount
	}

	custom := textinput.New()
	custom.Prompt = ""
	custom.Placeholder = "or type your own keyword"
	custom.CharLimit = 100
	custom.Width = 40

	count := textinput.New()
	count.Prompt = ""
	count.CharLimit = 3
	count.Width = 4
	count.SetValue(strconv.Itoa(defaultCount))

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return App{
		ctx:           ctx,
		serverURL:     cfg.ServerURL,
		keywords:      cfg.Keywords,
		trends:        cfg.Trends,
		analysis:      cfg.Analysis,
		notices:       cfg.Notices,
		results:       cfg.Results,
		renderer:      cfg.Renderer,
		clipboard:     cfg.Clipboard,
		history:       cfg.History,
		ring:          cfg.Ring,
		journal:       cfg.Journal,
		startupNotice: startupBanner(cfg.StartupNotices),
		keys:          defaultKeyMap(),
		help:          help.New(),
		spinner:       spin,
		viewport:      viewport.New(80, 10),
		custom:        custom,
		count:         count,
		categories:    append([]string{""}, cfg.Categories...),
	}
}

// startupBanner joins the non-blank notices into one banner line.
func startupBanner(notices []string) string {
	var parts []string
	for _, n := range notices {
		if n = strings.TrimSpace(n); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "; ")
}

// Init loads the trend catalog.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.trends.Load(a.ctx), a.spinner.Tick}
	if a.startupNotice != "" {
		cmds = append(cmds, a.notices.Notify(a.startupNotice))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.journal.Emit(otel.Event{
			Level: otel.LevelDebug,
			Kind:  otel.KindMsgReceived,
			Comp:  otel.CompUI,
			Msg:   fmt.Sprintf("%T", msg),
		})
	}

	if a.notices.Update(msg) {
		return a, nil
	}

	if m, ok := msg.(trends.LoadedMsg); ok {
		current := m.Seq == a.trends.Seq() && a.trends.Phase() == trends.Loading
		_, cmd := a.trends.Update(m)
		if current {
			// The selector is rebuilt, so the selection falls back to the
			// placeholder.
			a.trendCursor = 0
			a.keywords.OnTrendSelected("")
		}
		return a, cmd
	}

	if ok, cmd := a.analysis.Update(msg); ok {
		a.syncResult()
		return a, cmd
	}

	if ok, cmd := a.clipboard.Update(msg); ok {
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		if !a.busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case HistoryLoaded:
		a.historyData = msg
		return a, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Debug):
		a.debugVisible = !a.debugVisible
		a.historyVisible = false
		return a, nil

	case key.Matches(msg, a.keys.History):
		a.historyVisible = !a.historyVisible
		a.debugVisible = false
		if a.historyVisible {
			return a, a.loadHistory()
		}
		return a, nil

	case key.Matches(msg, a.keys.Dismiss):
		if a.debugVisible || a.historyVisible {
			a.debugVisible = false
			a.historyVisible = false
			return a, nil
		}
		a.notices.Dismiss()
		return a, nil
	}

	// Overlays swallow everything else.
	if a.debugVisible || a.historyVisible {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Submit):
		cmd := a.submit()
		return a, cmd

	case key.Matches(msg, a.keys.Refresh):
		if !a.trends.RefreshEnabled() {
			return a, nil
		}
		return a, tea.Batch(a.trends.Load(a.ctx), a.spinner.Tick)

	case key.Matches(msg, a.keys.Copy):
		return a, a.clipboard.Copy()

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case key.Matches(msg, a.keys.Next):
		cmd := a.setFocus((a.focus + 1) % numFocus)
		return a, cmd

	case key.Matches(msg, a.keys.Prev):
		cmd := a.setFocus((a.focus + numFocus - 1) % numFocus)
		return a, cmd
	}

	switch a.focus {
	case focusTrends:
		switch {
		case key.Matches(msg, a.keys.Up):
			a.moveTrend(-1)
			return a, nil
		case key.Matches(msg, a.keys.Down):
			a.moveTrend(1)
			return a, nil
		}

	case focusCategory:
		switch {
		case key.Matches(msg, a.keys.Left):
			a.categoryIdx = (a.categoryIdx + len(a.categories) - 1) % len(a.categories)
			return a, nil
		case key.Matches(msg, a.keys.Right):
			a.categoryIdx = (a.categoryIdx + 1) % len(a.categories)
			return a, nil
		}

	case focusCustom:
		var cmd tea.Cmd
		a.custom, cmd = a.custom.Update(msg)
		a.keywords.OnCustomKeywordInput(a.custom.Value())
		if a.keywords.Trend() == "" {
			a.trendCursor = 0
		}
		return a, cmd

	case focusCount:
		var cmd tea.Cmd
		a.count, cmd = a.count.Update(msg)
		return a, cmd
	}

	// Unclaimed keys scroll the result.
	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// submit hands the form to the analysis controller. Ignored while the
// submit affordance is disabled.
func (a *App) submit() tea.Cmd {
	if !a.analysis.SubmitEnabled() {
		return nil
	}
	cmd := a.analysis.Submit(a.ctx, analysis.Form{
		Count:    a.count.Value(),
		Category: a.selectedCategory(),
	})
	a.syncResult()
	if a.analysis.Loading() {
		return tea.Batch(cmd, a.spinner.Tick)
	}
	return cmd
}

// moveTrend moves the selector and reports the selection.
func (a *App) moveTrend(delta int) {
	if a.trends.Display() != trends.ShowTrends {
		return
	}
	catalog := a.trends.Catalog()
	next := a.trendCursor + delta
	if next < 0 || next > len(catalog) {
		return
	}
	a.trendCursor = next

	value := ""
	if next > 0 {
		value = catalog[next-1]
	}
	a.keywords.OnTrendSelected(value)
	if a.keywords.Custom() == "" {
		a.custom.SetValue("")
	}
}

func (a *App) setFocus(f focus) tea.Cmd {
	a.focus = f
	a.custom.Blur()
	a.count.Blur()
	switch f {
	case focusCustom:
		return a.custom.Focus()
	case focusCount:
		return a.count.Focus()
	}
	return nil
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.viewport.Width = width

	if a.renderer != nil {
		if err := a.renderer.SetWidth(width - 4); err == nil {
			a.results.Rerender()
		}
	}
	a.syncResult()
}

// syncResult copies the presenter's output into the viewport.
func (a *App) syncResult() {
	a.viewport.SetContent(a.results.Rendered())
	if a.results.Phase() != result.Result {
		a.viewport.GotoTop()
	}
}

func (a App) busy() bool {
	return a.analysis.Loading() || a.trends.Phase() == trends.Loading
}

func (a App) loadHistory() tea.Cmd {
	store := a.history
	return func() tea.Msg {
		if store == nil {
			return HistoryLoaded{}
		}
		entries, err := store.Recent(historyLimit)
		if err != nil {
			return HistoryLoaded{Err: err}
		}
		ok, failed, err := store.Stats()
		return HistoryLoaded{Entries: entries, OK: ok, Failed: failed, Err: err}
	}
}

// selectedCategory returns the category sent with the next submit.
func (a App) selectedCategory() string {
	return a.categories[a.categoryIdx]
}
