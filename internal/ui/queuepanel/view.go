package queuepanel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/wavedeck/internal/playback"
	"github.com/llehouerou/wavedeck/internal/ui/render"
	"github.com/llehouerou/wavedeck/internal/ui/styles"
)

// View renders the queue panel.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	innerWidth := m.width - 2
	content := m.renderHeader(innerWidth) + "\n" +
		render.Separator(innerWidth) + "\n" +
		m.renderTrackList(innerWidth, m.listHeight())

	return styles.PanelStyle(m.focused).
		Width(innerWidth).
		Render(content)
}

// renderHeader renders "Queue (3/1,204)" with the repeat mode on the right.
func (m Model) renderHeader(innerWidth int) string {
	left := fmt.Sprintf("Queue (%s/%s)",
		humanize.Comma(int64(m.playing+1)), humanize.Comma(int64(len(m.tracks))))
	if m.playing < 0 {
		left = fmt.Sprintf("Queue (%s)", humanize.Comma(int64(len(m.tracks))))
	}

	mode := "repeat all"
	if m.repeat == playback.RepeatOne {
		mode = "repeat one"
	}
	right := modeStyle.Render(mode + " ")

	left = render.TruncateAndPad(left, max(innerWidth-lipgloss.Width(right), 0))
	return headerStyle.Render(left) + right
}

func (m Model) renderTrackList(innerWidth, listHeight int) string {
	lines := make([]string, 0, listHeight)
	for i := range listHeight {
		idx := i + m.offset
		if idx >= len(m.tracks) {
			lines = append(lines, render.EmptyLine(innerWidth))
			continue
		}
		lines = append(lines, m.renderTrackLine(m.tracks[idx], idx, innerWidth))
	}
	return strings.Join(lines, "\n")
}

// renderTrackLine renders the playing marker, the title and the artist.
func (m Model) renderTrackLine(track playback.Track, idx, width int) string {
	prefix := "  "
	if idx == m.playing {
		prefix = playingSymbol + " "
	}

	contentWidth := max(width-2, 0)
	titleWidth := contentWidth / 2
	artistWidth := contentWidth - titleWidth

	line := prefix +
		render.TruncateAndPad(track.DisplayName(), titleWidth) +
		render.TruncateAndPad(track.Artist, artistWidth)

	return m.trackStyle(idx).Render(line)
}

func (m Model) trackStyle(idx int) lipgloss.Style {
	isCursor := idx == m.cursor && m.focused
	isPlaying := idx == m.playing
	isPlayed := m.playing >= 0 && idx < m.playing

	switch {
	case isCursor && isPlaying:
		return cursorStyle.Inherit(playingStyle)
	case isCursor:
		return cursorStyle
	case isPlaying:
		return playingStyle
	case isPlayed:
		return dimmedStyle
	default:
		return trackStyle
	}
}
