// Package result owns the main result region: welcome, loading, a rendered
// analysis, or an error.
package result

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/abelbrown/trendscout/internal/logging"
	"github.com/abelbrown/trendscout/internal/model"
)

// DefaultLabel prefixes result titles.
const DefaultLabel = "Analysis results"

// Phase is the result region's phase.
type Phase int

const (
	Welcome Phase = iota
	Loading
	Result
	Error
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Result:
		return "result"
	case Error:
		return "error"
	default:
		return "welcome"
	}
}

// Presenter renders analysis results.
type Presenter struct {
	label    string
	renderer Renderer

	phase    Phase
	result   model.AnalysisResult
	title    string
	rendered string
	errMsg   string
}

// NewPresenter creates a Presenter in the Welcome phase. An empty label
// means DefaultLabel.
func NewPresenter(r Renderer, label string) *Presenter {
	if label == "" {
		label = DefaultLabel
	}
	return &Presenter{label: label, renderer: r}
}

// BeginLoading clears any previous render and shows the loading phase.
func (p *Presenter) BeginLoading() {
	p.phase = Loading
	p.result = model.AnalysisResult{}
	p.title = ""
	p.rendered = ""
	p.errMsg = ""
}

// Present replaces the region with r. A renderer failure falls back to the
// raw markdown so the result is never lost.
func (p *Presenter) Present(r model.AnalysisResult) {
	p.result = r
	p.title = r.Title(p.label)
	p.errMsg = ""
	p.phase = Result

	out, err := p.renderer.Render(r.Ideas)
	if err != nil {
		logging.Warn("markdown render failed, showing raw text", "error", err)
		out = r.Ideas
	}
	p.rendered = out
}

// Fail shows message in the region.
func (p *Presenter) Fail(message string) {
	p.phase = Error
	p.errMsg = message
}

// Rerender renders the current result again, e.g. after a resize.
func (p *Presenter) Rerender() {
	if p.phase == Result {
		p.Present(p.result)
	}
}

// Phase returns the current phase.
func (p *Presenter) Phase() Phase { return p.phase }

// Title returns the result heading, or "" if nothing is presented.
func (p *Presenter) Title() string { return p.title }

// Rendered returns the styled output for display.
func (p *Presenter) Rendered() string { return p.rendered }

// ErrorMessage returns the failure text while in Error.
func (p *Presenter) ErrorMessage() string { return p.errMsg }

// PlainText returns the rendered region without styling, for export.
// Returns "" if no result has been presented.
func (p *Presenter) PlainText() string {
	return PlainText(p.rendered)
}

// PlainText strips terminal styling and the right padding glamour adds.
func PlainText(rendered string) string {
	if rendered == "" {
		return ""
	}
	lines := strings.Split(ansi.Strip(rendered), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
