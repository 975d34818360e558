// Package queuepanel renders the play queue and lets the user pick a track.
package queuepanel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavedeck/internal/playback"
)

// JumpToTrackMsg is sent when the user selects a track to jump to.
type JumpToTrackMsg struct {
	Index int
}

// overhead is the border plus the header and separator rows.
const overhead = 4

// Model represents the queue panel state.
type Model struct {
	tracks  []playback.Track
	playing int
	repeat  playback.RepeatMode
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
}

// New creates an empty queue panel.
func New() Model {
	return Model{playing: -1}
}

// SetQueue replaces the displayed tracks and the playing index. The cursor
// follows the playing track.
func (m *Model) SetQueue(tracks []playback.Track, playing int) {
	m.tracks = tracks
	m.SetPlaying(playing)
}

// SetPlaying marks the playing track and moves the cursor onto it.
func (m *Model) SetPlaying(index int) {
	m.playing = index
	if index >= 0 {
		m.cursor = index
	}
	m.clamp()
}

// SetRepeat sets the repeat mode shown in the header.
func (m *Model) SetRepeat(mode playback.RepeatMode) {
	m.repeat = mode
}

// SetFocused sets whether the panel is focused.
func (m *Model) SetFocused(focused bool) {
	m.focused = focused
}

// IsFocused returns whether the panel is focused.
func (m Model) IsFocused() bool {
	return m.focused
}

// SetSize sets the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clamp()
}

// Cursor returns the highlighted index.
func (m Model) Cursor() int {
	return m.cursor
}

// Update handles messages for the queue panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.cursor--
	case "down", "j":
		m.cursor++
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.tracks) - 1
	case "enter":
		if m.cursor >= 0 && m.cursor < len(m.tracks) {
			idx := m.cursor
			return m, func() tea.Msg { return JumpToTrackMsg{Index: idx} }
		}
	}
	m.clamp()
	return m, nil
}

func (m Model) listHeight() int {
	return max(m.height-overhead, 0)
}

// clamp keeps the cursor in range and visible.
func (m *Model) clamp() {
	m.cursor = min(max(m.cursor, 0), max(len(m.tracks)-1, 0))
	h := m.listHeight()
	if h == 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(min(m.offset, len(m.tracks)-h), 0)
}
