package history

import (
	"context"
	"runtime"
	"testing"
	"testing/synctest"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/wavedeck/internal/library"
	"github.com/llehouerou/wavedeck/internal/metrics"
	"github.com/llehouerou/wavedeck/internal/player"
	"github.com/llehouerou/wavedeck/internal/state"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeResolver map[string]library.Item

func (f fakeResolver) ByPath(_ context.Context, path string) (*library.Item, error) {
	it, ok := f[path]
	if !ok {
		return nil, library.ErrNotFound
	}
	return &it, nil
}

func newRecorder(res Resolver, store Store) *Recorder {
	return NewRecorder(res, store, WithSessionID("session-1"), WithClock(func() time.Time { return fixedNow }))
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name          string
		played, total float64
		want          float64
	}{
		{"half", 30, 60, 50},
		{"full", 60, 60, 100},
		{"over", 61, 60, 100},
		{"zero total", 30, 0, 0},
		{"negative total", 30, -1, 0},
		{"negative played", -5, 60, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percent(tt.played, tt.total); got != tt.want {
				t.Errorf("Percent(%v, %v) = %v, want %v", tt.played, tt.total, got, tt.want)
			}
		})
	}
}

func TestRecord_WritesEntry(t *testing.T) {
	store := state.NewMock()
	res := fakeResolver{"/music/a.mp3": {ID: 7, Path: "/music/a.mp3", Duration: 200 * time.Second}}
	r := newRecorder(res, store)

	r.Record(context.Background(), player.Event{
		Type:     player.EventEndReached,
		Path:     "file:///music/a.mp3",
		Position: 50 * time.Second,
		Duration: 180 * time.Second,
	})

	entries := store.History()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, int64(7), e.TrackID)
	assert.Equal(t, "/music/a.mp3", e.Path)
	assert.Equal(t, fixedNow, e.PlayedAt)
	assert.InDelta(t, 50.0, e.SecondsPlayed, 1e-9)
	assert.InDelta(t, 25.0, e.PercentPlayed, 1e-9)
	assert.Equal(t, "session-1", e.SessionID)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, e.OS)
	assert.NotEmpty(t, e.AppVersion)
}

func TestRecord_UnescapesMRL(t *testing.T) {
	store := state.NewMock()
	res := fakeResolver{"/music/my song.mp3": {ID: 1, Path: "/music/my song.mp3", Duration: time.Minute}}
	r := newRecorder(res, store)

	r.Record(context.Background(), player.Event{Path: "file:///music/my%20song.mp3", Position: time.Minute})

	require.Len(t, store.History(), 1)
	assert.InDelta(t, 100.0, store.History()[0].PercentPlayed, 1e-9)
}

func TestRecord_FallsBackToEventDuration(t *testing.T) {
	store := state.NewMock()
	res := fakeResolver{"/a.mp3": {ID: 1, Path: "/a.mp3"}}
	r := newRecorder(res, store)

	r.Record(context.Background(), player.Event{Path: "file:///a.mp3", Position: 10 * time.Second, Duration: 40 * time.Second})

	require.Len(t, store.History(), 1)
	assert.InDelta(t, 25.0, store.History()[0].PercentPlayed, 1e-9)
}

func TestRecord_ZeroDurationIsZeroPercent(t *testing.T) {
	store := state.NewMock()
	r := newRecorder(fakeResolver{"/a.mp3": {ID: 1, Path: "/a.mp3"}}, store)

	r.Record(context.Background(), player.Event{Path: "file:///a.mp3", Position: 10 * time.Second})

	require.Len(t, store.History(), 1)
	assert.Equal(t, 0.0, store.History()[0].PercentPlayed)
}

func TestRecord_SkipsUnknownTrack(t *testing.T) {
	store := state.NewMock()
	r := newRecorder(fakeResolver{}, store)
	before := testutil.ToFloat64(metrics.HistoryEntries.WithLabelValues(metrics.ResultSkipped))

	r.Record(context.Background(), player.Event{Path: "file:///missing.mp3", Position: time.Second})

	assert.Empty(t, store.History())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.HistoryEntries.WithLabelValues(metrics.ResultSkipped)))
}

func TestRecord_SkipsRemoteStream(t *testing.T) {
	store := state.NewMock()
	r := newRecorder(fakeResolver{}, store)
	r.Record(context.Background(), player.Event{Path: "http://radio.example/stream", Position: time.Second})
	assert.Empty(t, store.History())
}

func TestRecord_StoreErrorIsAbsorbed(t *testing.T) {
	store := state.NewMock()
	store.SetSaveError(errors.New("disk full"))
	r := newRecorder(fakeResolver{"/a.mp3": {ID: 1, Path: "/a.mp3"}}, store)

	r.Record(context.Background(), player.Event{Path: "file:///a.mp3", Position: time.Second})

	assert.Empty(t, store.History())
}

func TestRun_RecordsOnlyEndReached(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		store := state.NewMock()
		r := newRecorder(fakeResolver{"/a.mp3": {ID: 1, Path: "/a.mp3", Duration: time.Minute}}, store)
		p := player.NewMock()
		done := r.Start(context.Background(), p.Subscribe())

		p.Emit(player.Event{Type: player.EventPlaying, Path: "file:///a.mp3"})
		p.Emit(player.Event{Type: player.EventPaused, Path: "file:///a.mp3"})
		p.Emit(player.Event{Type: player.EventEndReached, Path: "file:///a.mp3", Position: time.Minute})
		synctest.Wait()

		assert.Len(t, store.History(), 1)

		p.CloseSubscriptions()
		<-done
	})
}

func TestRun_StopsOnContext(t *testing.T) {
	r := newRecorder(fakeResolver{}, state.NewMock())
	ctx, cancel := context.WithCancel(context.Background())
	done := r.Start(ctx, player.NewMock().Subscribe())
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("recorder did not stop")
	}
}

func TestRecorder_WithLibrary(t *testing.T) {
	store, err := state.Open(state.MemoryPath)
	require.NoError(t, err)
	defer store.Close()
	lib := library.New(store.DB())
	id, err := lib.Upsert(context.Background(), library.Item{Path: "/Music/A.mp3", Duration: 100 * time.Second})
	require.NoError(t, err)

	r := newRecorder(lib, store)
	r.Record(context.Background(), player.Event{Path: "file:///music/a.mp3", Position: 40 * time.Second})

	entries, err := store.RecentPlayHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].TrackID)
	assert.Equal(t, "/Music/A.mp3", entries[0].Path)
	assert.InDelta(t, 40.0, entries[0].PercentPlayed, 1e-9)
	assert.Equal(t, "session-1", entries[0].SessionID)
}
