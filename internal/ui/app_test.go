package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/trendscout/internal/analysis"
	"github.com/abelbrown/trendscout/internal/api"
	"github.com/abelbrown/trendscout/internal/clipboard"
	"github.com/abelbrown/trendscout/internal/history"
	"github.com/abelbrown/trendscout/internal/keyword"
	"github.com/abelbrown/trendscout/internal/model"
	"github.com/abelbrown/trendscout/internal/notify"
	"github.com/abelbrown/trendscout/internal/otel"
	"github.com/abelbrown/trendscout/internal/result"
	"github.com/abelbrown/trendscout/internal/trends"
)

// fakeService stands in for the trend-analysis service.
type fakeService struct {
	mu sync.Mutex

	trendsStatus int
	trendsBody   string

	analyzeStatus int
	analyzeBody   string

	trendsHits int
	requests   []model.AnalysisRequest
}

func (s *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/trends":
		s.trendsHits++
		w.WriteHeader(s.trendsStatus)
		w.Write([]byte(s.trendsBody))
	case "/api/analyze":
		var req model.AnalysisRequest
		json.NewDecoder(r.Body).Decode(&req)
		s.requests = append(s.requests, req)
		w.WriteHeader(s.analyzeStatus)
		w.Write([]byte(s.analyzeBody))
	default:
		http.NotFound(w, r)
	}
}

func (s *fakeService) analyzeRequests() []model.AnalysisRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.AnalysisRequest(nil), s.requests...)
}

func (s *fakeService) hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trendsHits
}

func okService() *fakeService {
	return &fakeService{
		trendsStatus:  http.StatusOK,
		trendsBody:    `{"trends":["drones","solar","kites"]}`,
		analyzeStatus: http.StatusOK,
		analyzeBody:   `{"keyword":"drones","ideas":"# Ideas\n- A\n- B"}`,
	}
}

type harness struct {
	svc     *fakeService
	history *history.Store
	ring    *otel.RingBuffer
	writes  []string
	app     App
}

func newHarness(t *testing.T, svc *fakeService, notices ...string) *harness {
	t.Helper()
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)

	store, err := history.Open()
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	renderer, err := result.NewGlamourRenderer("notty", 80)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	h := &harness{svc: svc, history: store, ring: otel.NewRingBuffer(64)}
	journal := otel.NewNullLogger()
	journal.SetRingBuffer(h.ring)
	t.Cleanup(journal.Close)

	client := api.New(srv.URL)
	keywords := &keyword.Coordinator{}
	center := notify.New(notify.WithJournal(journal))
	presenter := result.NewPresenter(renderer, "")
	loader := trends.NewLoader(client, center, journal)
	ctrl := analysis.NewController(client, keywords, center, presenter, journal)
	ctrl.SetRecorder(store)
	exporter := clipboard.NewExporter(presenter, func(text string) error {
		h.writes = append(h.writes, text)
		return nil
	}, center, 0, journal)

	h.app = NewApp(AppConfig{
		Ctx:            context.Background(),
		ServerURL:      srv.URL,
		Keywords:       keywords,
		Trends:         loader,
		Analysis:       ctrl,
		Notices:        center,
		Results:        presenter,
		Renderer:       renderer,
		Clipboard:      exporter,
		History:        store,
		Ring:           h.ring,
		Journal:        journal,
		Categories:     []string{"tech", "health"},
		DefaultCount:   3,
		StartupNotices: notices,
	})
	h.app = h.send(t, tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

// run executes cmd and feeds every resulting message back into the app.
// Commands that do not finish within a short wait (banner and copy timers,
// cursor blink) are dropped, so timers never fire unless a test fires them.
func run(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	if cmd == nil {
		return a
	}

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(300 * time.Millisecond):
		return a
	}

	switch msg := msg.(type) {
	case nil:
		return a
	case tea.BatchMsg:
		for _, c := range msg {
			a = run(t, a, c)
		}
		return a
	}

	m, next := a.Update(msg)
	return run(t, m.(App), next)
}

func (h *harness) send(t *testing.T, msg tea.Msg) App {
	t.Helper()
	m, cmd := h.app.Update(msg)
	h.app = run(t, m.(App), cmd)
	return h.app
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	h.app = run(t, h.app, h.app.Init())
}

func press(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestInitLoadsTrends(t *testing.T) {
	h := newHarness(t, okService(), "")
	h.start(t)

	if h.app.trends.Display() != trends.ShowTrends {
		t.Fatalf("display = %v", h.app.trends.Display())
	}
	if got := h.app.trends.Catalog(); len(got) != 3 || got[0] != "drones" {
		t.Errorf("catalog = %v", got)
	}
	if !strings.Contains(h.app.View(), "-- Select a trend --") {
		t.Error("selector should show the select placeholder")
	}
}

func TestDronesScenario(t *testing.T) {
	h := newHarness(t, okService(), "")
	h.start(t)

	h.send(t, press(tea.KeyDown))
	if h.app.keywords.Current().Value != "drones" {
		t.Fatalf("selected %+v", h.app.keywords.Current())
	}

	h.send(t, press(tea.KeyEnter))

	reqs := h.svc.analyzeRequests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 analyze request, got %d", len(reqs))
	}
	if want := (model.AnalysisRequest{Keyword: "drones", Count: 3}); reqs[0] != want {
		t.Errorf("request = %+v, want %+v", reqs[0], want)
	}

	if h.app.results.Phase() != result.Result {
		t.Fatalf("phase = %v", h.app.results.Phase())
	}
	if !strings.Contains(h.app.results.Title(), "drones") {
		t.Errorf("title = %q", h.app.results.Title())
	}
	text := h.app.results.PlainText()
	if !strings.Contains(text, "A") || !strings.Contains(text, "B") {
		t.Errorf("plain text = %q", text)
	}
	if h.app.analysis.Loading() || !h.app.analysis.SubmitEnabled() {
		t.Error("loading should be over")
	}
	if !strings.Contains(h.app.View(), "Analysis results: drones") {
		t.Error("view should show the result title")
	}
}

func TestTrendsServerError(t *testing.T) {
	svc := okService()
	svc.trendsStatus = http.StatusInternalServerError
	svc.trendsBody = `{"error":"db down"}`
	h := newHarness(t, svc, "")
	h.start(t)

	if h.app.trends.Display() != trends.ShowError {
		t.Errorf("display = %v", h.app.trends.Display())
	}
	if h.app.notices.Posted() != 1 || h.app.notices.Message() != trends.NotifyMessage {
		t.Errorf("posted=%d message=%q", h.app.notices.Posted(), h.app.notices.Message())
	}
	if !h.app.trends.RefreshEnabled() {
		t.Error("refresh should be re-enabled")
	}
	view := h.app.View()
	if !strings.Contains(view, "-- Failed to load trends --") || !strings.Contains(view, trends.NotifyMessage) {
		t.Errorf("view missing error state:\n%s", view)
	}
}

func TestQuotaExceededScenario(t *testing.T) {
	svc := okService()
	svc.analyzeStatus = http.StatusTooManyRequests
	svc.analyzeBody = `{"error":"quota exceeded"}`
	h := newHarness(t, svc, "")
	h.start(t)

	h.send(t, press(tea.KeyDown))
	h.send(t, press(tea.KeyEnter))

	if h.app.notices.Message() != "quota exceeded" {
		t.Errorf("banner = %q", h.app.notices.Message())
	}
	if h.app.analysis.Loading() || !h.app.analysis.SubmitEnabled() {
		t.Error("loading hidden and submit re-enabled expected")
	}
	if h.app.results.Phase() != result.Error {
		t.Errorf("phase = %v", h.app.results.Phase())
	}
}

func TestSubmitWithoutKeyword(t *testing.T) {
	h := newHarness(t, okService(), "")
	h.start(t)

	h.send(t, press(tea.KeyEnter))

	if n := len(h.svc.analyzeRequests()); n != 0 {
		t.Errorf("sent %d requests", n)
	}
	if h.app.notices.Posted() != 1 || h.app.notices.Message() != analysis.EmptyKeywordMessage {
		t.Errorf("posted=%d message=%q", h.app.notices.Posted(), h.app.notices.Message())
	}
	if h.app.results.Phase() != result.Welcome {
		t.Errorf("phase = %v", h.app.results.Phase())
	}
}

func TestSubmitIgnoredWhileLoading(t *testing.T) {
	h := newHarness(t, okService(), "")
	h.start(t)
	h.send(t, press(tea.KeyDown))

	// Submit without running the request.
	m, _ := h.app.Update(press(tea.KeyEnter))
	a := m.(App)
	if a.analysis.SubmitEnabled() {
		t.Fatal("submit should be disabled while loading")
	}

	_, cmd := a.Update(press(tea.KeyEnter))
	if cmd != nil {
		t.Error("second enter should be ignored")
	}
	if a.analysis.Seq() != 1 {
		t.Errorf("seq = %d, want 1", a.analysis.Seq())
	}
}

func TestCustomKeywordAndTrendExclusive(t *testing.T) {
	h := newHarness(t, okService(), "")
	h.start(t)

	h.send(t, press(tea.KeyDown))
	h.send(t, press(tea.KeyTab))
	h.send(t, typed("solar"))

	if h.app.keywords.Trend() != "" || h.app.trendCursor != 0 {
		t.Errorf("typing should clear the trend: trend=%q cursor=%d", h.app.keywords.Trend(), h.app.trendCursor)
	}
	if got := h.app.keywords.Current(); got.Kind != keyword.KindCustom || got.Value != "solar" {
		t.Errorf("Current() = %+v", got)
	}

	h.send(t, tea.KeyMsg{Type: tea.KeyShiftTab})
	h.send(t, press(tea.KeyDown))

	if h.app.keywords.Custom() != "" || h.app.custom.Value() != "" {
		t.Errorf("selecting a trend should clear the keyword field, got %q", h.app.custom.Value())
	}
	if h.app.keywords.Trend() != "drones" {
		t.Errorf("trend = %q", h.app.keywords.Trend())
	}
}

func TestCategoryAndCount(t *testing.T) {
	h := newHarness(t, okService(), "")
	h.start(t)
	h.send(t, press(tea.KeyDown))

	h.send(t, press(tea.KeyTab)) // keyword
	h.send(t, press(tea.KeyTab)) // count
	h.send(t, press(tea.KeyBackspace))
	h.send(t, typed("0"))
	h.send(t, press(tea.KeyTab)) // category
	h.send(t, press(tea.KeyRight))

	if h.app.selectedCategory() != "tech" {
		t.Fatalf("category = %q", h.app.selectedCategory())
	}

	h.send(t, press(tea.KeyEnter))
	reqs := h.svc.analyzeRequests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Category != "tech" || reqs[0].Count != 3 {
		t.Errorf("request = %+v, want category tech and count clamped to 3", reqs[0])
	}

	h.send(t, press(tea.KeyLeft))
	if h.app.selectedCategory() != "" {
		t.Error("left should return to any category")
	}
}

func TestCopy(t *testing.T) {
	h := newHarness(t, okService(), "")
	h.start(t)

	h.send(t, press(tea.KeyCtrlY))
	if len(h.writes) != 0 || h.app.notices.Message() != clipboard.NothingMessage {
		t.Fatalf("writes=%v banner=%q", h.writes, h.app.notices.Message())
	}

	h.send(t, press(tea.KeyDown))
	h.send(t, press(tea.KeyEnter))
	h.send(t, press(tea.KeyCtrlY))

	if len(h.writes) != 1 || !strings.Contains(h.writes[0], "A") {
		t.Fatalf("writes = %q", h.writes)
	}
	if h.app.clipboard.Label() != clipboard.ConfirmedLabel {
		t.Errorf("label = %q", h.app.clipboard.Label())
	}
	if !strings.Contains(h.app.View(), clipboard.ConfirmedLabel) {
		t.Error("view should show the confirmation")
	}
}

func TestRefresh(t *testing.T) {
	h := newHarness(t, okService(), "")

	// Init starts a load, which disables refresh until it completes.
	h.app.Init()
	if _, cmd := h.app.Update(press(tea.KeyCtrlR)); cmd != nil {
		t.Error("refresh should be ignored while loading")
	}

	h.app = run(t, h.app, h.app.trends.Load(context.Background()))
	h.send(t, press(tea.KeyCtrlR))
	if hits := h.svc.hits(); hits != 2 {
		t.Errorf("trend hits = %d, want 2", hits)
	}
}

func TestStartupNotice(t *testing.T) {
	h := newHarness(t, okService(), "history unavailable")
	h.start(t)

	if h.app.notices.Message() != "history unavailable" {
		t.Errorf("banner = %q", h.app.notices.Message())
	}
}

func TestStartupNoticesAreAllShown(t *testing.T) {
	h := newHarness(t, okService(), "Session history unavailable", "", "System clipboard unavailable")
	h.start(t)

	want := "Session history unavailable; System clipboard unavailable"
	if h.app.notices.Message() != want {
		t.Errorf("banner = %q, want %q", h.app.notices.Message(), want)
	}
	if h.app.notices.Posted() != 1 {
		t.Errorf("posted = %d, want one banner", h.app.notices.Posted())
	}
}

func TestEscDismissesBanner(t *testing.T) {
	h := newHarness(t, okService(), "")
	h.start(t)
	h.send(t, press(tea.KeyEnter))
	if !h.app.notices.Visible() {
		t.Fatal("expected a banner")
	}

	h.send(t, press(tea.KeyEsc))
	if h.app.notices.Visible() {
		t.Error("esc should dismiss the banner")
	}
}

func TestBannerTimer(t *testing.T) {
	h := newHarness(t, okService(), "")
	h.start(t)
	h.send(t, press(tea.KeyEnter))

	h.send(t, notify.DismissMsg{Gen: 1})
	if h.app.notices.Visible() {
		t.Error("dismissal timer should hide the banner")
	}
}

func TestHistoryPanel(t *testing.T) {
	h := newHarness(t, okService(), "")
	h.start(t)
	h.send(t, press(tea.KeyDown))
	h.send(t, press(tea.KeyEnter))

	h.send(t, press(tea.KeyCtrlO))
	if !h.app.historyVisible {
		t.Fatal("ctrl+o should open history")
	}
	data := h.app.historyData
	if len(data.Entries) != 1 || data.Entries[0].Keyword != "drones" {
		t.Errorf("entries = %+v", data.Entries)
	}
	if data.OK != 1 || data.Failed != 0 {
		t.Errorf("stats = %d ok / %d failed", data.OK, data.Failed)
	}
	view := h.app.View()
	if !strings.Contains(view, "Session History") || !strings.Contains(view, "drones") ||
		!strings.Contains(view, "1 ok / 0 failed") {
		t.Errorf("history view:\n%s", view)
	}

	// Keys other than close are swallowed by the overlay.
	h.send(t, press(tea.KeyEnter))
	if n := len(h.svc.analyzeRequests()); n != 1 {
		t.Errorf("overlay should swallow enter, got %d requests", n)
	}

	h.send(t, press(tea.KeyEsc))
	if h.app.historyVisible {
		t.Error("esc should close history")
	}
}

func TestAppQuit(t *testing.T) {
	h := newHarness(t, okService(), "")
	_, cmd := h.app.Update(press(tea.KeyCtrlC))
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestAppViewNotReady(t *testing.T) {
	app := NewApp(AppConfig{
		Trends:    trends.NewLoader(nil, nil, nil),
		Notices:   notify.New(),
		Keywords:  &keyword.Coordinator{},
		Results:   result.NewPresenter(nil, ""),
		Analysis:  analysis.NewController(nil, &keyword.Coordinator{}, notify.New(), nil, nil),
		Clipboard: clipboard.NewExporter(nil, nil, notify.New(), 0, nil),
	})
	if app.View() != "Loading..." {
		t.Errorf("View() = %q", app.View())
	}
}

func TestWelcomeView(t *testing.T) {
	h := newHarness(t, okService(), "")
	h.start(t)
	if !strings.Contains(h.app.View(), welcomeText) {
		t.Error("result region should start with the welcome text")
	}
}
