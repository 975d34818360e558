package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "▓"
	emptyBlock  = "░"
)

// RenderProgressBar is the one-line bar used when the terminal is too narrow
// for the full player bar: "▶  1:23  ▓▓▓░░░  4:56". Below three bar cells only
// the times are shown.
func RenderProgressBar(position, duration time.Duration, width int, playing bool) string {
	status := statusSymbol(playing)
	pos, total := formatDuration(position), formatDuration(duration)

	cells := width - lipgloss.Width(status) - lipgloss.Width(pos) - lipgloss.Width(total) - 6
	if cells < 3 {
		return status + "  " + pos + " / " + total
	}
	filled := filledCells(position, duration, cells)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, cells-filled)
	return strings.Join([]string{status, pos, bar, total}, "  ")
}

func statusSymbol(playing bool) string {
	if playing {
		return playSymbol
	}
	return pauseSymbol
}

// filledCells is the part of cells covered by position. A zero duration
// fills nothing.
func filledCells(position, duration time.Duration, cells int) int {
	if duration <= 0 || position <= 0 {
		return 0
	}
	return min(int(float64(cells)*float64(position)/float64(duration)), cells)
}
