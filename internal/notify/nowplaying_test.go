package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/llehouerou/wavedeck/internal/playback"
	"github.com/llehouerou/wavedeck/internal/player"
	"github.com/llehouerou/wavedeck/internal/playlist"
)

type recordingNotifier struct {
	mu     sync.Mutex
	sent   []Notification
	nextID uint32
	err    error
}

func (r *recordingNotifier) Notify(n Notification) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.sent = append(r.sent, n)
	r.nextID++
	return r.nextID, nil
}

func (r *recordingNotifier) Close(uint32) error { return nil }

func (r *recordingNotifier) notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

func TestTrackNotification(t *testing.T) {
	dir := t.TempDir()
	art := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(art, []byte("fake"), 0o600); err != nil {
		t.Fatal(err)
	}

	n := TrackNotification(playback.Track{
		Path:   filepath.Join(dir, "01.mp3"),
		Title:  "Song",
		Artist: "Band",
		Album:  "LP",
	}, 7)

	if n.Title != "Song" || n.Body != "Band - LP" {
		t.Errorf("Title/Body = %q/%q", n.Title, n.Body)
	}
	if n.Icon != art {
		t.Errorf("Icon = %q, want %q", n.Icon, art)
	}
	if n.Replaces != 7 || n.Urgency != UrgencyLow || n.Expire != trackExpire {
		t.Errorf("notification = %+v", n)
	}
}

func TestTrackNotification_UntaggedTrack(t *testing.T) {
	n := TrackNotification(playback.Track{Path: "/nowhere/song.mp3"}, 0)

	if n.Title != "/nowhere/song.mp3" {
		t.Errorf("Title = %q, want the path", n.Title)
	}
	if n.Body != "" || n.Icon != "" {
		t.Errorf("Body/Icon = %q/%q, want empty", n.Body, n.Icon)
	}
}

func TestShow_ReplacesPreviousNotification(t *testing.T) {
	rec := &recordingNotifier{}
	tn := NewTrackNotifier(rec)

	tn.Show(playback.Track{Path: "/m/a.mp3"})
	tn.Show(playback.Track{Path: "/m/b.mp3"})

	sent := rec.notifications()
	if len(sent) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(sent))
	}
	if sent[0].Replaces != 0 || sent[1].Replaces != 1 {
		t.Errorf("Replaces = %d, %d; want 0, 1", sent[0].Replaces, sent[1].Replaces)
	}
}

func TestShow_ErrorIsAbsorbed(t *testing.T) {
	rec := &recordingNotifier{err: errors.New("no daemon")}
	tn := NewTrackNotifier(rec)

	tn.Show(playback.Track{Path: "/m/a.mp3"})

	if tn.lastID != 0 {
		t.Errorf("lastID = %d, want 0", tn.lastID)
	}
}

func TestRun_NotifiesOnTrackChange(t *testing.T) {
	svc := playback.New(player.NewMock(), playlist.NewQueue())
	defer svc.Close()
	rec := &recordingNotifier{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sub := svc.Subscribe()
	go func() {
		defer close(done)
		NewTrackNotifier(rec).Run(ctx, sub)
	}()

	svc.Enqueue(playback.Track{Path: "/m/a.mp3", Title: "Alpha"})
	if err := svc.Play(context.Background()); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(time.Second)
	for len(rec.notifications()) == 0 {
		select {
		case <-deadline:
			t.Fatal("no notification sent")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if got := rec.notifications()[0].Title; got != "Alpha" {
		t.Errorf("Title = %q, want Alpha", got)
	}

	cancel()
	<-done
}
