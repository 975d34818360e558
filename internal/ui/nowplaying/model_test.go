package nowplaying

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/wavedeck/internal/playback"
	"github.com/llehouerou/wavedeck/internal/player"
	"github.com/llehouerou/wavedeck/internal/playlist"
	"github.com/llehouerou/wavedeck/internal/ui/queuepanel"
)

type fakeVolume struct {
	mu  sync.Mutex
	v   int
	err error
}

func (f *fakeVolume) Volume() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.v
}

func (f *fakeVolume) SetVolume(_ context.Context, v int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.v = v
	return nil
}

type fakeSaver struct {
	mu    sync.Mutex
	saves int
}

func (f *fakeSaver) SaveState(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type harness struct {
	svc    playback.Service
	engine *player.Mock
	vol    *fakeVolume
	saver  *fakeSaver
}

func newHarness(t *testing.T, tracks ...playback.Track) (Model, *harness) {
	t.Helper()
	h := &harness{engine: player.NewMock(), vol: &fakeVolume{v: 80}, saver: &fakeSaver{}}
	h.svc = playback.New(h.engine, playlist.NewQueue())
	t.Cleanup(func() { _ = h.svc.Close() })
	h.svc.Enqueue(tracks...)
	m := New(h.svc, h.vol, h.saver)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return next.(Model), h
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(k)
	if cmd == nil {
		return next.(Model), nil
	}
	return next.(Model), cmd()
}

var abc = []playback.Track{
	{Path: "/music/a.mp3", Title: "Alpha"},
	{Path: "/music/b.mp3", Title: "Bravo"},
	{Path: "/music/c.mp3", Title: "Charlie"},
}

func TestNew_SnapshotsQueueAndVolume(t *testing.T) {
	m, _ := newHarness(t, abc...)

	if m.volume != 80 {
		t.Errorf("volume = %d, want 80", m.volume)
	}
	view := m.View()
	for _, want := range []string{"Alpha", "Charlie", "80%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_EmptyBeforeSize(t *testing.T) {
	h := &harness{engine: player.NewMock(), vol: &fakeVolume{}, saver: &fakeSaver{}}
	svc := playback.New(h.engine, playlist.NewQueue())
	t.Cleanup(func() { _ = svc.Close() })

	if v := New(svc, h.vol, h.saver).View(); v != "" {
		t.Errorf("View() = %q, want empty", v)
	}
}

func TestToggle_PlaysCursorWhenStopped(t *testing.T) {
	m, h := newHarness(t, abc...)

	_, msg := press(t, m, tea.KeyMsg{Type: tea.KeySpace})

	if _, ok := msg.(refreshMsg); !ok {
		t.Fatalf("msg = %T, want refreshMsg", msg)
	}
	if got := h.engine.PlayCalls(); len(got) != 1 || got[0] != "/music/a.mp3" {
		t.Errorf("PlayCalls = %v", got)
	}
}

func TestNextAndStop(t *testing.T) {
	m, h := newHarness(t, abc...)

	m, _ = press(t, m, runes("n"))
	m, _ = press(t, m, runes("s"))

	if got := h.engine.PlayCalls(); len(got) != 1 || got[0] != "/music/b.mp3" {
		t.Errorf("PlayCalls = %v, want [/music/b.mp3]", got)
	}
	if h.svc.State() != playback.StateStopped {
		t.Errorf("State = %v, want Stopped", h.svc.State())
	}
}

func TestSeekRight_MovesPlayhead(t *testing.T) {
	m, h := newHarness(t, abc...)
	h.engine.SetDuration(180e9)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})

	press(t, m, tea.KeyMsg{Type: tea.KeyRight})

	seeks := h.engine.SeekCalls()
	if len(seeks) != 1 || seeks[0] != seekStep {
		t.Errorf("SeekCalls = %v, want [%v]", seeks, seekStep)
	}
}

func TestRepeatKey_CyclesMode(t *testing.T) {
	m, h := newHarness(t, abc...)
	before := h.svc.RepeatMode()

	m, _ = press(t, m, runes("r"))

	if before != playback.RepeatAll || h.svc.RepeatMode() != playback.RepeatOne {
		t.Fatalf("repeat mode %v -> %v, want All -> One", before, h.svc.RepeatMode())
	}
	if !strings.Contains(m.View(), "repeat one") {
		t.Error("header does not show repeat one")
	}
}

func TestVolumeKeys(t *testing.T) {
	m, h := newHarness(t, abc...)

	m, msg := press(t, m, runes("+"))
	next, _ := m.Update(msg)
	m = next.(Model)
	if m.volume != 85 || h.vol.Volume() != 85 {
		t.Errorf("volume = %d/%d, want 85", m.volume, h.vol.Volume())
	}

	h.vol.v = 98
	m.volume = 98
	_, msg = press(t, m, runes("+"))
	if got := int(msg.(volumeMsg)); got != 100 {
		t.Errorf("volume = %d, want clamped to 100", got)
	}
}

func TestVolumeError_ShownInStatus(t *testing.T) {
	m, h := newHarness(t, abc...)
	h.vol.err = errors.New("no mixer")

	m, msg := press(t, m, runes("-"))
	next, _ := m.Update(msg)

	if view := next.(Model).View(); !strings.Contains(view, "Failed to change volume: no mixer") {
		t.Errorf("view missing error status:\n%s", view)
	}
}

func TestQuit_SavesThenQuits(t *testing.T) {
	m, h := newHarness(t, abc...)

	_, msg := press(t, m, runes("q"))

	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Fatalf("msg = %T, want tea.QuitMsg", msg)
	}
	if h.saver.count() != 1 {
		t.Errorf("saves = %d, want 1", h.saver.count())
	}
}

func TestSaveKey(t *testing.T) {
	m, h := newHarness(t, abc...)

	m, msg := press(t, m, runes("w"))
	next, _ := m.Update(msg)

	if h.saver.count() != 1 {
		t.Errorf("saves = %d, want 1", h.saver.count())
	}
	if !strings.Contains(next.(Model).View(), "session saved") {
		t.Error("view missing saved status")
	}
}

func TestHelp_OpensAndClosesOnAnyKey(t *testing.T) {
	m, h := newHarness(t, abc...)

	m, _ = press(t, m, runes("?"))
	if !m.showHelp {
		t.Fatal("help not shown")
	}
	if !strings.Contains(m.View(), "save session") {
		t.Error("full help not rendered")
	}

	m, msg := press(t, m, runes("n"))
	if m.showHelp || msg != nil {
		t.Errorf("showHelp = %v, msg = %v; want closed with no command", m.showHelp, msg)
	}
	if len(h.engine.PlayCalls()) != 0 {
		t.Error("key behind the help overlay reached playback")
	}
}

func TestQueueEnter_JumpsToTrack(t *testing.T) {
	m, h := newHarness(t, abc...)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, msg := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	jump, ok := msg.(queuepanel.JumpToTrackMsg)
	if !ok || jump.Index != 2 {
		t.Fatalf("msg = %#v, want JumpToTrackMsg{2}", msg)
	}

	_, cmd := m.Update(jump)
	cmd()

	if got := h.engine.PlayCalls(); len(got) != 1 || got[0] != "/music/c.mp3" {
		t.Errorf("PlayCalls = %v", got)
	}
}

func TestEvents_RefreshAndKeepListening(t *testing.T) {
	m, _ := newHarness(t)

	next, cmd := m.Update(queueMsg{Tracks: abc[:1], Index: 0})
	if cmd == nil {
		t.Fatal("no listen command after event")
	}
	if !strings.Contains(next.(Model).View(), "Alpha") {
		t.Error("queue event not rendered")
	}

	next, _ = next.Update(errorMsg{Operation: "play", Path: "/x.mp3", Err: errors.New("boom")})
	if !strings.Contains(next.(Model).View(), "Failed to start playback '/x.mp3': boom") {
		t.Error("error event not rendered")
	}
}

func TestListen_ReturnsClosedWhenServiceCloses(t *testing.T) {
	m, h := newHarness(t)
	_ = h.svc.Close()

	msg := listen(m.sub)()

	if _, ok := msg.(closedMsg); !ok {
		t.Fatalf("msg = %T, want closedMsg", msg)
	}
	if _, cmd := m.Update(msg); cmd == nil {
		t.Error("closed subscription did not quit")
	}
}
