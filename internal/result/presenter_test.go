package result

import (
	"errors"
	"strings"
	"testing"

	"github.com/abelbrown/trendscout/internal/model"
)

type upperRenderer struct{ calls int }

func (r *upperRenderer) Render(md string) (string, error) {
	r.calls++
	return "\x1b[1m" + strings.ToUpper(md) + "\x1b[0m   \n", nil
}

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) {
	return "", errors.New("bad markdown")
}

func TestNewPresenterStartsInWelcome(t *testing.T) {
	p := NewPresenter(&upperRenderer{}, "")
	if p.Phase() != Welcome {
		t.Errorf("phase = %v", p.Phase())
	}
	if p.PlainText() != "" {
		t.Error("PlainText should be empty before any result")
	}
	if p.Title() != "" {
		t.Error("no title expected")
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name   string
		label  string
		result model.AnalysisResult
		want   string
	}{
		{"default label", "", model.AnalysisResult{Keyword: "drones"}, "Analysis results: drones"},
		{"category", "Ideas", model.AnalysisResult{Keyword: "drones", Category: "tech"}, "Ideas: drones (tech)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPresenter(&upperRenderer{}, tt.label)
			p.Present(tt.result)
			if p.Title() != tt.want {
				t.Errorf("Title() = %q, want %q", p.Title(), tt.want)
			}
		})
	}
}

func TestPresentAndPlainText(t *testing.T) {
	p := NewPresenter(&upperRenderer{}, "")
	p.Present(model.AnalysisResult{Keyword: "k", Ideas: "abc"})

	if p.Phase() != Result {
		t.Errorf("phase = %v", p.Phase())
	}
	if p.PlainText() != "ABC" {
		t.Errorf("PlainText() = %q, want ABC", p.PlainText())
	}
}

func TestPresentReplacesWholesale(t *testing.T) {
	p := NewPresenter(&upperRenderer{}, "")
	p.Present(model.AnalysisResult{Keyword: "one", Category: "c", Ideas: "first"})
	p.Present(model.AnalysisResult{Keyword: "two", Ideas: "second"})

	if p.Title() != "Analysis results: two" || p.PlainText() != "SECOND" {
		t.Errorf("title=%q text=%q", p.Title(), p.PlainText())
	}
}

func TestRenderFailureFallsBackToRaw(t *testing.T) {
	p := NewPresenter(failingRenderer{}, "")
	p.Present(model.AnalysisResult{Keyword: "k", Ideas: "# raw"})

	if p.PlainText() != "# raw" {
		t.Errorf("PlainText() = %q", p.PlainText())
	}
}

func TestBeginLoadingClears(t *testing.T) {
	p := NewPresenter(&upperRenderer{}, "")
	p.Present(model.AnalysisResult{Keyword: "k", Ideas: "x"})
	p.BeginLoading()

	if p.Phase() != Loading || p.PlainText() != "" || p.Title() != "" {
		t.Errorf("phase=%v text=%q title=%q", p.Phase(), p.PlainText(), p.Title())
	}

	p.Fail("quota exceeded")
	if p.Phase() != Error || p.ErrorMessage() != "quota exceeded" {
		t.Errorf("phase=%v err=%q", p.Phase(), p.ErrorMessage())
	}
}

func TestRerender(t *testing.T) {
	r := &upperRenderer{}
	p := NewPresenter(r, "")
	p.Rerender()
	if r.calls != 0 {
		t.Error("nothing to rerender in Welcome")
	}

	p.Present(model.AnalysisResult{Keyword: "k", Ideas: "x"})
	p.Rerender()
	if r.calls != 2 {
		t.Errorf("calls = %d, want 2", r.calls)
	}
}

func TestPlainTextStripsPadding(t *testing.T) {
	got := PlainText("\n\x1b[31m  hello\x1b[0m    \n  world  \n\n")
	if got != "  hello\n  world" {
		t.Errorf("PlainText = %q", got)
	}
}

func TestGlamourDronesScenario(t *testing.T) {
	r, err := NewGlamourRenderer("notty", 60)
	if err != nil {
		t.Fatalf("NewGlamourRenderer: %v", err)
	}
	p := NewPresenter(r, "")

	ideas := "# Ideas\n- A\n- B"
	p.Present(model.AnalysisResult{Keyword: "drones", Ideas: ideas})

	if !strings.Contains(p.Title(), "drones") {
		t.Errorf("title %q should contain drones", p.Title())
	}
	text := p.PlainText()
	for _, want := range []string{"Ideas", "A", "B"} {
		if !strings.Contains(text, want) {
			t.Errorf("plain text %q missing %q", text, want)
		}
	}

	// Rendering is stable for the same input.
	again, err := r.Render(ideas)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if PlainText(again) != text {
		t.Errorf("round trip mismatch:\n%q\n%q", PlainText(again), text)
	}
}

func TestGlamourSetWidth(t *testing.T) {
	r, err := NewGlamourRenderer("", 0)
	if err != nil {
		t.Fatalf("NewGlamourRenderer: %v", err)
	}
	if r.style != DefaultStyle || r.width != 80 {
		t.Errorf("style=%q width=%d", r.style, r.width)
	}
	if err := r.SetWidth(40); err != nil || r.width != 40 {
		t.Errorf("SetWidth: err=%v width=%d", err, r.width)
	}
}
