// Package analysis validates and submits analysis requests and drives the
// result region through loading, success and failure.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/trendscout/internal/api"
	"github.com/abelbrown/trendscout/internal/keyword"
	"github.com/abelbrown/trendscout/internal/logging"
	"github.com/abelbrown/trendscout/internal/model"
	"github.com/abelbrown/trendscout/internal/notify"
	"github.com/abelbrown/trendscout/internal/otel"
)

// Analyzer performs the analysis request.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error)
}

// Presenter is the result region as seen by the controller.
type Presenter interface {
	BeginLoading()
	Present(r model.AnalysisResult)
	Fail(message string)
}

// Recorder receives one entry per finished analysis. Optional.
type Recorder interface {
	Record(req model.AnalysisRequest, err error, dur time.Duration)
}

// State is the controller state.
type State int

const (
	Idle State = iota
	Loading
)

func (s State) String() string {
	if s == Loading {
		return "loading"
	}
	return "idle"
}

// AnalyzedMsg carries the outcome of one submission.
type AnalyzedMsg struct {
	Seq     uint64
	Request model.AnalysisRequest
	Result  model.AnalysisResult
	Err     error
	Dur     time.Duration
}

// Controller runs analysis submissions.
type Controller struct {
	analyzer  Analyzer
	keywords  *keyword.Coordinator
	notifier  notify.Notifier
	presenter Presenter
	recorder  Recorder
	journal   *otel.Logger

	seq      uint64
	state    State
	submitOn bool
}

// NewController wires a Controller. journal may be nil.
func NewController(a Analyzer, k *keyword.Coordinator, n notify.Notifier, p Presenter, journal *otel.Logger) *Controller {
	return &Controller{
		analyzer:  a,
		keywords:  k,
		notifier:  n,
		presenter: p,
		journal:   journal,
		submitOn:  true,
	}
}

// SetRecorder attaches a history recorder.
func (c *Controller) SetRecorder(r Recorder) {
	c.recorder = r
}

// Submit validates the current keyword and form and issues the request.
// An empty keyword notifies and returns without leaving Idle. A submit while
// Loading is not rejected here; the newest submission wins.
func (c *Controller) Submit(ctx context.Context, f Form) tea.Cmd {
	req, err := Validate(c.keywords.Current(), f)
	if err != nil {
		c.journal.Emit(otel.Event{
			Level: otel.LevelInfo,
			Kind:  otel.KindAnalyzeInvalid,
			Comp:  otel.CompAnalysis,
			Err:   err.Error(),
		})
		return c.notifier.Notify(EmptyKeywordMessage)
	}

	c.seq++
	c.state = Loading
	c.submitOn = false
	c.presenter.BeginLoading()
	c.notifier.Dismiss()

	seq := c.seq
	logging.Info("analysis submitted", "keyword", req.Keyword, "count", req.Count,
		"category", req.Category, "seq", seq)
	c.journal.Emit(otel.Event{
		Level:   otel.LevelInfo,
		Kind:    otel.KindAnalyzeSubmit,
		Comp:    otel.CompAnalysis,
		Seq:     seq,
		Keyword: req.Keyword,
		Count:   req.Count,
	})

	analyzer := c.analyzer
	return func() tea.Msg {
		start := time.Now()
		res, err := analyzer.Analyze(ctx, req)
		return AnalyzedMsg{Seq: seq, Request: req, Result: res, Err: err, Dur: time.Since(start)}
	}
}

// Update applies AnalyzedMsg. It returns whether msg was consumed and the
// failure notification command, if any.
func (c *Controller) Update(msg tea.Msg) (bool, tea.Cmd) {
	m, ok := msg.(AnalyzedMsg)
	if !ok {
		return false, nil
	}

	// Anything but the completion of the in-flight submission is stale.
	if m.Seq != c.seq || c.state != Loading {
		logging.Debug("discarding stale analysis", "seq", m.Seq, "latest", c.seq)
		c.journal.Emit(otel.Event{
			Level:   otel.LevelDebug,
			Kind:    otel.KindAnalyzeStale,
			Comp:    otel.CompAnalysis,
			Seq:     m.Seq,
			Keyword: m.Request.Keyword,
		})
		return true, nil
	}

	c.state = Idle
	c.submitOn = true
	if c.recorder != nil {
		c.recorder.Record(m.Request, m.Err, m.Dur)
	}

	if m.Err != nil {
		text := UserMessage(m.Err)
		logging.Warn("analysis failed", "keyword", m.Request.Keyword, "error", m.Err)
		c.journal.Emit(otel.Event{
			Level:   otel.LevelWarn,
			Kind:    otel.KindAnalyzeError,
			Comp:    otel.CompAnalysis,
			Seq:     m.Seq,
			Dur:     m.Dur,
			Keyword: m.Request.Keyword,
			Status:  api.StatusCode(m.Err),
			Err:     m.Err.Error(),
		})
		c.presenter.Fail(text)
		return true, c.notifier.Notify(text)
	}

	c.journal.Emit(otel.Event{
		Level:   otel.LevelInfo,
		Kind:    otel.KindAnalyzeComplete,
		Comp:    otel.CompAnalysis,
		Seq:     m.Seq,
		Dur:     m.Dur,
		Keyword: m.Result.Keyword,
	})
	c.presenter.Present(m.Result)
	return true, nil
}

// State returns the controller state.
func (c *Controller) State() State { return c.state }

// Loading reports whether the loading indicator should show.
func (c *Controller) Loading() bool { return c.state == Loading }

// SubmitEnabled reports whether the submit affordance is enabled.
func (c *Controller) SubmitEnabled() bool { return c.submitOn }

// Seq returns the latest issued sequence token.
func (c *Controller) Seq() uint64 { return c.seq }

// UserMessage turns a failure into banner text. A server-provided error is
// used verbatim; other statuses get a generic status-coded message.
func UserMessage(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) {
		if se.Message != "" {
			return se.Message
		}
		return fmt.Sprintf("analysis failed with status %d", se.StatusCode)
	}
	return err.Error()
}
