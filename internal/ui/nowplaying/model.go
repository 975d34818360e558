// Package nowplaying is the interactive terminal UI: the queue, the player
// bar and the key bindings.
package nowplaying

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavedeck/internal/errmsg"
	"github.com/llehouerou/wavedeck/internal/playback"
	"github.com/llehouerou/wavedeck/internal/ui/playerbar"
	"github.com/llehouerou/wavedeck/internal/ui/queuepanel"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 5
	// chrome is the header and status rows around the queue and bar.
	chrome = 2
)

// Volume reads and changes the output volume in percent.
type Volume interface {
	Volume() int
	SetVolume(ctx context.Context, v int) error
}

// Saver persists the listening session.
type Saver interface {
	SaveState(ctx context.Context)
}

// Model is the root bubbletea model.
type Model struct {
	svc   playback.Service
	vol   Volume
	saver Saver
	sub   *playback.Subscription

	keys  keyMap
	help  help.Model
	queue queuepanel.Model
	bar   playerbar.State

	volume    int
	status    string
	statusErr bool
	showHelp  bool
	width     int
	height    int
}

// New creates the UI model and subscribes to playback events.
func New(svc playback.Service, vol Volume, saver Saver) Model {
	m := Model{
		svc:   svc,
		vol:   vol,
		saver: saver,
		sub:   svc.Subscribe(),
		keys:  defaultKeys(),
		help:  help.New(),
		queue: queuepanel.New(),
	}
	m.queue.SetFocused(true)
	m.refreshQueue()
	m.refreshBar()
	m.volume = vol.Volume()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return listen(m.sub)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.queue.SetSize(msg.Width, max(msg.Height-chrome-playerbar.Height, 0))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case queuepanel.JumpToTrackMsg:
		idx := msg.Index
		return m, do(errmsg.OpPlaybackJump, func(ctx context.Context) error { return m.svc.JumpTo(ctx, idx) })

	case stateMsg, positionMsg:
		m.refreshBar()
		return m, listen(m.sub)

	case trackMsg:
		m.clearStatus()
		m.refreshQueue()
		m.refreshBar()
		return m, listen(m.sub)

	case queueMsg:
		m.queue.SetQueue(msg.Tracks, msg.Index)
		m.refreshBar()
		return m, listen(m.sub)

	case modeMsg:
		m.queue.SetRepeat(msg.RepeatMode)
		return m, listen(m.sub)

	case errorMsg:
		m.setError(errmsg.FormatWith(errmsg.ForEvent(msg.Operation), msg.Path, msg.Err))
		return m, listen(m.sub)

	case closedMsg:
		return m, tea.Quit

	case refreshMsg:
		m.refreshBar()
		return m, nil

	case volumeMsg:
		m.volume = int(msg)
		return m, nil

	case savedMsg:
		m.status, m.statusErr = "session saved", false
		return m, nil

	case actionErrMsg:
		m.setError(errmsg.Format(msg.op, msg.err))
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Quit) {
			return m, m.quit()
		}
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		return m, do(errmsg.OpPlaybackToggle, m.svc.Toggle)
	case key.Matches(msg, m.keys.Next):
		return m, do(errmsg.OpPlaybackNext, m.svc.Next)
	case key.Matches(msg, m.keys.Previous):
		return m, do(errmsg.OpPlaybackPrev, m.svc.Previous)
	case key.Matches(msg, m.keys.Stop):
		return m, do(errmsg.OpPlaybackStop, m.svc.Stop)
	case key.Matches(msg, m.keys.Repeat):
		m.queue.SetRepeat(m.svc.CycleRepeatMode())
		return m, nil
	case key.Matches(msg, m.keys.SeekBack):
		return m, m.seek(-seekStep)
	case key.Matches(msg, m.keys.SeekFwd):
		return m, m.seek(seekStep)
	case key.Matches(msg, m.keys.VolUp):
		return m, m.changeVolume(volumeStep)
	case key.Matches(msg, m.keys.VolDown):
		return m, m.changeVolume(-volumeStep)
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	}

	var cmd tea.Cmd
	m.queue, cmd = m.queue.Update(msg)
	return m, cmd
}

func (m Model) seek(delta time.Duration) tea.Cmd {
	return do(errmsg.OpPlaybackSeek, func(ctx context.Context) error { return m.svc.Seek(ctx, delta) })
}

func (m Model) changeVolume(delta int) tea.Cmd {
	vol := m.vol
	target := min(max(m.volume+delta, 0), 100)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := vol.SetVolume(ctx, target); err != nil {
			return actionErrMsg{op: errmsg.OpVolume, err: err}
		}
		return volumeMsg(vol.Volume())
	}
}

func (m Model) save() tea.Cmd {
	saver := m.saver
	return func() tea.Msg {
		saver.SaveState(context.Background())
		return savedMsg{}
	}
}

// quit saves the session before exiting.
func (m Model) quit() tea.Cmd {
	saver := m.saver
	return func() tea.Msg {
		saver.SaveState(context.Background())
		return tea.Quit()
	}
}

func (m *Model) refreshBar() {
	m.bar = playerbar.NewState(m.svc)
}

func (m *Model) refreshQueue() {
	m.queue.SetQueue(m.svc.QueueTracks(), m.svc.QueueCurrentIndex())
	m.queue.SetRepeat(m.svc.RepeatMode())
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}

func (m *Model) clearStatus() {
	m.status, m.statusErr = "", false
}
