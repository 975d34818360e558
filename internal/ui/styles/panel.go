package styles

import "github.com/charmbracelet/lipgloss"

// PanelStyle is the rounded panel border, highlighted when focused.
func PanelStyle(focused bool) lipgloss.Style {
	if focused {
		return T().S().Focused
	}
	return T().S().Panel
}
