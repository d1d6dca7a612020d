package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/trendscout/internal/result"
	"github.com/abelbrown/trendscout/internal/trends"
)

const welcomeText = "Pick a trend or type your own keyword, then press enter for ideas."

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.debugVisible {
		return lipgloss.JoinVertical(lipgloss.Left,
			debugOverlay(a.ring, a.journal, a.width, a.height-1),
			panelStatusBar("DEBUG", "ctrl+d", a.width))
	}
	if a.historyVisible {
		return lipgloss.JoinVertical(lipgloss.Left,
			historyPanel(a.historyData, a.width, a.height-1),
			panelStatusBar("HISTORY", "ctrl+o", a.width))
	}

	top := []string{
		a.headerView(),
		a.trendView(),
		a.keywordView(),
		a.optionsView(),
		a.actionsView(),
		a.bannerView(),
	}
	helpView := a.helpView()

	used := len(top) + lipgloss.Height(helpView)
	return lipgloss.JoinVertical(lipgloss.Left,
		append(top, a.resultView(a.height-used), helpView)...)
}

func (a App) headerView() string {
	header := HeaderStyle.Render("trendscout")
	if a.serverURL != "" {
		header += " " + StatusBarText.Render(a.serverURL)
	}
	if a.trends.Phase() == trends.Loading {
		header += " " + a.spinner.View()
	}
	return header
}

func (a App) label(text string, f focus) string {
	if a.focus == f {
		return FocusedLabel.Render(text)
	}
	return SectionLabel.Render(text)
}

func (a App) trendView() string {
	var selector string
	display := a.trends.Display()
	catalog := a.trends.Catalog()
	if display == trends.ShowTrends && a.trendCursor > 0 && a.trendCursor <= len(catalog) {
		selector = SelectedItem.Render(catalog[a.trendCursor-1]) +
			StatusBarText.Render(fmt.Sprintf(" %d/%d", a.trendCursor, len(catalog)))
	} else {
		selector = PlaceholderItem.Render(display.Placeholder())
	}

	refresh := DisabledButton.Render("refresh")
	if a.trends.RefreshEnabled() {
		refresh = ButtonStyle.Render("refresh")
	}
	return a.label("Trend    ", focusTrends) + " " + selector + " " + refresh
}

func (a App) keywordView() string {
	return a.label("Keyword  ", focusCustom) + " " + a.custom.View()
}

func (a App) optionsView() string {
	category := a.selectedCategory()
	if category == "" {
		category = "any category"
	}
	return a.label("Count    ", focusCount) + " " + a.count.View() + "  " +
		a.label("Category", focusCategory) + " " + NormalItem.Render("‹ "+category+" ›")
}

func (a App) actionsView() string {
	submit := DisabledButton.Render("Analyze")
	if a.analysis.SubmitEnabled() {
		submit = ButtonStyle.Render("Analyze")
	}

	copyBtn := ButtonStyle.Render(a.clipboard.Label())
	if a.clipboard.Confirming() {
		copyBtn = ConfirmButton.Render(a.clipboard.Label())
	}
	return submit + copyBtn
}

// bannerView always takes one line so the layout does not jump.
func (a App) bannerView() string {
	if !a.notices.Visible() {
		return ""
	}
	return BannerStyle.Width(a.width).Render("! " + a.notices.Message())
}

func (a App) resultView(height int) string {
	if height < 2 {
		height = 2
	}

	switch a.results.Phase() {
	case result.Loading:
		return a.spinner.View() + " Analyzing..."
	case result.Error:
		return ErrorStyle.Render(a.results.ErrorMessage())
	case result.Result:
		vp := a.viewport
		vp.Height = height - 1
		return ResultTitle.Render(a.results.Title()) + "\n" + vp.View()
	default:
		return WelcomeStyle.Render(welcomeText)
	}
}

func (a App) helpView() string {
	keys := a.keys
	keys.Refresh.SetEnabled(a.trends.RefreshEnabled())
	keys.Submit.SetEnabled(a.analysis.SubmitEnabled())
	return HelpStyle.Render(strings.TrimRight(a.help.View(keys), "\n"))
}
