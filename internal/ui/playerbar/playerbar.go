// Package playerbar renders the now-playing bar.
package playerbar

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/wavedeck/internal/playback"
	"github.com/llehouerou/wavedeck/internal/ui/render"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
)

// Height is the rendered height including the border.
const Height = 3

// State holds everything needed to render the player bar.
type State struct {
	Playing  bool
	Paused   bool
	Title    string
	Artist   string
	Album    string
	Position time.Duration
	Duration time.Duration
	Index    int // zero-based queue position, -1 when unknown
	Total    int
}

// NewState snapshots the playback service.
// Returns an empty State if playback is stopped or no track is loaded.
func NewState(svc playback.Service) State {
	st := svc.State()
	if st == playback.StateStopped {
		return State{}
	}
	track := svc.CurrentTrack()
	if track == nil {
		return State{}
	}
	return State{
		Playing:  st == playback.StatePlaying,
		Paused:   st == playback.StatePaused,
		Title:    track.DisplayName(),
		Artist:   track.Artist,
		Album:    track.Album,
		Position: svc.Position(),
		Duration: svc.Duration(),
		Index:    svc.QueueCurrentIndex(),
		Total:    svc.QueueLen(),
	}
}

// Render draws the bar for the given terminal width:
//
//	Title   Artist · Album   3/12   ▶  ━━━━───   1:23 / 3:58
//
// A stopped player renders nothing. The progress bar keeps at least
// minBarCells; the album, then the artist, then the title give way first.
func Render(s State, width int) string {
	if !s.Playing && !s.Paused {
		return ""
	}

	title := cmp.Or(s.Title, "Unknown Track")
	info := strings.Join(slices.DeleteFunc([]string{s.Artist, s.Album}, func(v string) bool {
		return v == ""
	}), " · ")

	// Fixed right side: position, status and time; the bar fills the rest.
	var right []string
	if s.Index >= 0 && s.Total > 0 {
		right = append(right, metaStyle().Render(fmt.Sprintf("%d/%d", s.Index+1, s.Total)))
	}
	status := statusSymbol(!s.Paused) + "  "
	clock := progressTimeStyle().Render(formatDuration(s.Position) + " / " + formatDuration(s.Duration))

	inner := max(width-6, 0)
	fixed := lipgloss.Width(status) + lipgloss.Width(clock) + len(sep)
	for _, r := range right {
		fixed += lipgloss.Width(r) + len(sep)
	}

	left := fitLeft(title, info, inner-fixed-len(sep)-minBarCells)
	cells := max(inner-fixed-len(sep)-lipgloss.Width(left), 5)
	filled := filledCells(s.Position, s.Duration, cells)
	bar := status +
		progressBarFilled().Render(strings.Repeat("━", filled)) +
		progressBarEmpty().Render(strings.Repeat("─", cells-filled))

	parts := append([]string{left}, right...)
	parts = append(parts, bar, clock)
	return barStyle().Padding(0, 2).Width(width - 2).Render(strings.Join(parts, sep))
}

const (
	sep         = "   "
	minBarCells = 10
)

// fitLeft renders the title and the artist line within budget cells,
// truncating the info first and the title last.
func fitLeft(title, info string, budget int) string {
	tw, iw := lipgloss.Width(title), lipgloss.Width(info)
	switch {
	case info != "" && tw+len(sep)+iw <= budget:
		return titleStyle().Render(title) + sep + artistStyle().Render(info)
	case info != "" && tw+len(sep) < budget:
		return titleStyle().Render(title) + sep +
			artistStyle().Render(render.TruncateEllipsis(info, budget-tw-len(sep)))
	default:
		return titleStyle().Render(render.TruncateEllipsis(title, max(budget, 10)))
	}
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
