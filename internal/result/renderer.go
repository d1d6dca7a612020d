package result

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into display text.
type Renderer interface {
	Render(markdown string) (string, error)
}

// DefaultStyle is the glamour style used when none is configured.
const DefaultStyle = "dark"

// GlamourRenderer renders markdown for the terminal.
type GlamourRenderer struct {
	style string
	width int
	tr    *glamour.TermRenderer
}

// NewGlamourRenderer builds a renderer for a glamour standard style
// ("dark", "light", "notty", "ascii", ...) wrapping at width columns.
func NewGlamourRenderer(style string, width int) (*GlamourRenderer, error) {
	if style == "" {
		style = DefaultStyle
	}
	g := &GlamourRenderer{style: style}
	if err := g.SetWidth(width); err != nil {
		return nil, err
	}
	return g, nil
}

// SetWidth rebuilds the renderer for a new wrap width.
func (g *GlamourRenderer) SetWidth(width int) error {
	if width <= 0 {
		width = 80
	}
	if g.tr != nil && width == g.width {
		return nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(g.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("glamour renderer: %w", err)
	}
	g.tr = tr
	g.width = width
	return nil
}

// Render implements Renderer.
func (g *GlamourRenderer) Render(markdown string) (string, error) {
	return g.tr.Render(markdown)
}
