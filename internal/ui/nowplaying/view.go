package nowplaying

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavedeck/internal/ui/overlay"
	"github.com/llehouerou/wavedeck/internal/ui/playerbar"
	"github.com/llehouerou/wavedeck/internal/ui/render"
	"github.com/llehouerou/wavedeck/internal/ui/styles"
)

// narrowWidth is the width below which the block progress bar replaces the
// full player bar.
const narrowWidth = 40

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	view := strings.Join([]string{
		m.renderHeader(),
		m.queue.View(),
		m.renderBar(),
		m.renderStatus(),
	}, "\n")

	if m.showHelp {
		box := styles.T().S().Help.Render(m.help.FullHelpView(m.keys.FullHelp()))
		view = overlay.Center(view, box, m.width, m.height)
	}
	return view
}

func (m Model) renderHeader() string {
	title := " " + styles.T().Heading("wavedeck")
	vol := playerbar.RenderVolume(m.volume) + " "
	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(vol), 1)
	return title + strings.Repeat(" ", gap) + vol
}

func (m Model) renderBar() string {
	if m.width < narrowWidth && (m.bar.Playing || m.bar.Paused) {
		line := playerbar.RenderProgressBar(m.bar.Position, m.bar.Duration, m.width, m.bar.Playing)
		return lipgloss.PlaceVertical(playerbar.Height, lipgloss.Center, line)
	}
	if bar := playerbar.Render(m.bar, m.width); bar != "" {
		return bar
	}
	idle := styles.T().S().Subtle.Render(render.Pad("  stopped", m.width))
	return lipgloss.PlaceVertical(playerbar.Height, lipgloss.Center, idle)
}

func (m Model) renderStatus() string {
	if m.status != "" {
		style := styles.T().S().Success
		if m.statusErr {
			style = styles.T().S().Error
		}
		return style.Render(render.Truncate(m.status, m.width))
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}
