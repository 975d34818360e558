// Package styles holds the wavedeck palette and the lipgloss styles built
// from it.
package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a palette. Only hex colors blend in headings; ANSI indexes fall
// back to gray.
type Theme struct {
	Accent    lipgloss.Color // playing track, progress, focused border
	AccentAlt lipgloss.Color // heading gradient end
	Text      lipgloss.Color
	Dim       lipgloss.Color
	Faint     lipgloss.Color
	Highlight lipgloss.Color // cursor row background
	Border    lipgloss.Color
	OK        lipgloss.Color
	Fail      lipgloss.Color

	once   sync.Once
	styles Styles
}

// Styles are the shared styles of one theme.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Playing lipgloss.Style
	Cursor  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Panel   lipgloss.Style
	Focused lipgloss.Style
}

var deck = &Theme{
	Accent:    "#5eead4",
	AccentAlt: "#f472b6",
	Text:      "#d4d4d8",
	Dim:       "#8b8b94",
	Faint:     "#55555e",
	Highlight: "#2a2a33",
	Border:    "#55555e",
	OK:        "#4ade80",
	Fail:      "#f87171",
}

// T returns the application theme.
func T() *Theme { return deck }

// S returns the styles of t, built on first use.
func (t *Theme) S() *Styles {
	t.once.Do(func() {
		fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
		panel := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder())
		t.styles = Styles{
			Base:    fg(t.Text),
			Muted:   fg(t.Dim),
			Subtle:  fg(t.Faint),
			Title:   fg(t.Text).Bold(true),
			Playing: fg(t.Accent).Bold(true),
			Cursor:  fg(t.Text).Background(t.Highlight),
			Success: fg(t.OK),
			Error:   fg(t.Fail),
			Help:    panel.BorderForeground(t.Accent).Padding(1, 2),
			Panel:   panel.BorderForeground(t.Border),
			Focused: panel.BorderForeground(t.Accent),
		}
	})
	return &t.styles
}

// Heading renders text bold, blended from Accent to AccentAlt.
func (t *Theme) Heading(text string) string {
	return Gradient(text, true, t.Accent, t.AccentAlt)
}
