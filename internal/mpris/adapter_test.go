//go:build linux

package mpris

import (
	"context"
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavedeck/internal/playback"
	"github.com/llehouerou/wavedeck/internal/player"
	"github.com/llehouerou/wavedeck/internal/playlist"
)

type fakeVolume struct{ v int }

func (f *fakeVolume) Volume() int { return f.v }

func (f *fakeVolume) SetVolume(_ context.Context, v int) error {
	f.v = v
	return nil
}

func newTestAdapter(t *testing.T) (*playerAdapter, playback.Service, *player.Mock) {
	t.Helper()
	p := player.NewMock()
	svc := playback.New(p, playlist.NewQueue(), playback.WithPollInterval(time.Hour))
	t.Cleanup(func() { _ = svc.Close() })
	return &playerAdapter{service: svc}, svc, p
}

func TestPlayerAdapter_PlaybackStatus(t *testing.T) {
	pa, svc, _ := newTestAdapter(t)

	if got, _ := pa.PlaybackStatus(); got != types.PlaybackStatusStopped {
		t.Errorf("PlaybackStatus() = %v, want Stopped", got)
	}

	svc.Enqueue(playback.Track{Path: "/a.mp3"})
	if err := pa.Play(); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if got, _ := pa.PlaybackStatus(); got != types.PlaybackStatusPlaying {
		t.Errorf("PlaybackStatus() = %v, want Playing", got)
	}

	if err := pa.PlayPause(); err != nil {
		t.Fatalf("PlayPause() error: %v", err)
	}
	if got, _ := pa.PlaybackStatus(); got != types.PlaybackStatusPaused {
		t.Errorf("PlaybackStatus() = %v, want Paused", got)
	}

	if err := pa.Play(); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if got, _ := pa.PlaybackStatus(); got != types.PlaybackStatusPlaying {
		t.Errorf("PlaybackStatus() after resume = %v, want Playing", got)
	}
}

func TestPlayerAdapter_Navigation(t *testing.T) {
	pa, svc, p := newTestAdapter(t)

	if ok, _ := pa.CanGoNext(); ok {
		t.Error("CanGoNext() on empty queue = true")
	}

	svc.Enqueue(playback.Track{Path: "/a.mp3"}, playback.Track{Path: "/b.mp3"})
	if ok, _ := pa.CanGoNext(); !ok {
		t.Error("CanGoNext() = false")
	}
	if err := pa.Next(); err != nil {
		t.Fatal(err)
	}
	if err := pa.Next(); err != nil {
		t.Fatal(err)
	}
	if err := pa.Previous(); err != nil {
		t.Fatal(err)
	}

	want := []string{"/a.mp3", "/b.mp3", "/a.mp3"}
	got := p.PlayCalls()
	if len(got) != len(want) {
		t.Fatalf("PlayCalls() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PlayCalls()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPlayerAdapter_Metadata(t *testing.T) {
	pa, svc, _ := newTestAdapter(t)

	meta, err := pa.Metadata()
	if err != nil || meta.Title != "" {
		t.Fatalf("Metadata() with nothing playing = %+v, %v", meta, err)
	}

	svc.Enqueue(playback.Track{Path: "/m/a.mp3", Title: "Song", Artist: "Band", Album: "LP", Duration: 3 * time.Minute})
	if err := pa.Play(); err != nil {
		t.Fatal(err)
	}

	meta, err = pa.Metadata()
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "Song" || meta.Album != "LP" || len(meta.Artist) != 1 || meta.Artist[0] != "Band" {
		t.Errorf("Metadata() = %+v", meta)
	}
	if meta.Length != types.Microseconds((3 * time.Minute).Microseconds()) {
		t.Errorf("Length = %d", meta.Length)
	}
	if string(meta.TrackId) != formatTrackID("/m/a.mp3") {
		t.Errorf("TrackId = %q", meta.TrackId)
	}
}

func TestPlayerAdapter_SetPositionIgnoresOtherTrack(t *testing.T) {
	pa, svc, p := newTestAdapter(t)
	p.SetDuration(time.Minute)
	svc.Enqueue(playback.Track{Path: "/a.mp3"})
	if err := pa.Play(); err != nil {
		t.Fatal(err)
	}

	if err := pa.SetPosition(formatTrackID("/other.mp3"), types.Microseconds(10_000_000)); err != nil {
		t.Fatal(err)
	}
	if len(p.SeekCalls()) != 0 {
		t.Errorf("SeekCalls() = %v, want none", p.SeekCalls())
	}

	if err := pa.SetPosition(formatTrackID("/a.mp3"), types.Microseconds(10_000_000)); err != nil {
		t.Fatal(err)
	}
	if got := p.SeekCalls(); len(got) != 1 || got[0] != 10*time.Second {
		t.Errorf("SeekCalls() = %v, want [10s]", got)
	}
}

func TestPlayerAdapter_LoopStatus(t *testing.T) {
	pa, svc, _ := newTestAdapter(t)

	if got, _ := pa.LoopStatus(); got != types.LoopStatusPlaylist {
		t.Errorf("LoopStatus() = %v, want Playlist", got)
	}
	_ = pa.SetLoopStatus(types.LoopStatusTrack)
	if svc.RepeatMode() != playback.RepeatOne {
		t.Errorf("RepeatMode() = %v, want RepeatOne", svc.RepeatMode())
	}
	_ = pa.SetLoopStatus(types.LoopStatusNone)
	if svc.RepeatMode() != playback.RepeatAll {
		t.Errorf("RepeatMode() = %v, want RepeatAll", svc.RepeatMode())
	}
}

func TestPlayerAdapter_Volume(t *testing.T) {
	pa, _, _ := newTestAdapter(t)
	if v, _ := pa.Volume(); v != 1.0 {
		t.Errorf("Volume() without control = %v, want 1", v)
	}

	vol := &fakeVolume{v: 80}
	pa.volume = vol
	if v, _ := pa.Volume(); v != 0.8 {
		t.Errorf("Volume() = %v, want 0.8", v)
	}
	if err := pa.SetVolume(0.25); err != nil {
		t.Fatal(err)
	}
	if vol.v != 25 {
		t.Errorf("volume = %d, want 25", vol.v)
	}
}
