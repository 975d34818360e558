// internal/playlist/queue_test.go
//
//nolint:goconst // test file with repeated string literals
package playlist

import "testing"

func tracks(paths ...string) []Track {
	out := make([]Track, len(paths))
	for i, p := range paths {
		out[i] = Track{Path: p}
	}
	return out
}

func TestNewQueue(t *testing.T) {
	q := NewQueue()

	if q.Len() != 0 {
		t.Errorf("Len() = %d, want 0", q.Len())
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
	if q.Current() != nil {
		t.Error("Current() should be nil for empty queue")
	}
	if !q.IsEmpty() {
		t.Error("IsEmpty() = false for new queue")
	}
}

func TestQueue_Add(t *testing.T) {
	q := NewQueue()

	q.Add(tracks("/track1.mp3", "/track2.mp3")...)

	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	// Add doesn't change current index
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1 (unchanged)", q.CurrentIndex())
	}

	q.JumpTo(1)
	q.Add(Track{Path: "/track3.mp3"})
	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d after Add, want 1", q.CurrentIndex())
	}
}

func TestQueue_NextWrapsAround(t *testing.T) {
	q := NewQueue()
	q.Add(tracks("/a.mp3", "/b.mp3", "/c.mp3")...)

	want := []string{"/a.mp3", "/b.mp3", "/c.mp3", "/a.mp3", "/b.mp3"}
	for i, w := range want {
		got := q.Next()
		if got == nil || got.Path != w {
			t.Fatalf("Next() #%d = %v, want %s", i+1, got, w)
		}
	}
}

func TestQueue_NextClosure(t *testing.T) {
	// Advancing Len times from any cursor returns to the same cursor.
	for n := 1; n <= 5; n++ {
		for start := range n {
			q := NewQueue()
			for i := range n {
				q.Add(Track{Path: string(rune('a' + i))})
			}
			q.JumpTo(start)

			for range n {
				q.Next()
			}

			if q.CurrentIndex() != start {
				t.Errorf("n=%d start=%d: cursor = %d after %d Next calls", n, start, q.CurrentIndex(), n)
			}
		}
	}
}

func TestQueue_PreviousWrapsAround(t *testing.T) {
	q := NewQueue()
	q.Add(tracks("/a.mp3", "/b.mp3", "/c.mp3")...)

	if got := q.Previous(); got == nil || got.Path != "/c.mp3" {
		t.Fatalf("Previous() with no cursor = %v, want /c.mp3", got)
	}
	if got := q.Previous(); got == nil || got.Path != "/b.mp3" {
		t.Fatalf("Previous() = %v, want /b.mp3", got)
	}
	q.JumpTo(0)
	if got := q.Previous(); got == nil || got.Path != "/c.mp3" {
		t.Errorf("Previous() from first = %v, want /c.mp3", got)
	}
}

func TestQueue_NavigationOnEmptyQueue(t *testing.T) {
	q := NewQueue()

	if q.Next() != nil || q.Previous() != nil || q.PeekNext() != nil {
		t.Error("navigation on empty queue should return nil")
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
}

func TestQueue_PeekNextDoesNotMove(t *testing.T) {
	q := NewQueue()
	q.Add(tracks("/a.mp3", "/b.mp3")...)

	if got := q.PeekNext(); got == nil || got.Path != "/a.mp3" {
		t.Errorf("PeekNext() with no cursor = %v, want /a.mp3", got)
	}
	q.JumpTo(1)
	if got := q.PeekNext(); got == nil || got.Path != "/a.mp3" {
		t.Errorf("PeekNext() from last = %v, want /a.mp3 (wrap)", got)
	}
	if q.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex() = %d, want 1", q.CurrentIndex())
	}
}

func TestQueue_JumpTo(t *testing.T) {
	q := NewQueue()
	q.Add(tracks("/a.mp3", "/b.mp3")...)

	tests := []struct {
		name      string
		index     int
		wantTrack bool
		wantIndex int
	}{
		{"valid", 1, true, 1},
		{"negative", -1, false, 1},
		{"past end", 2, false, 1},
		{"first", 0, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := q.JumpTo(tt.index)
			if (got != nil) != tt.wantTrack {
				t.Errorf("JumpTo(%d) = %v, want track=%v", tt.index, got, tt.wantTrack)
			}
			if q.CurrentIndex() != tt.wantIndex {
				t.Errorf("CurrentIndex() = %d, want %d", q.CurrentIndex(), tt.wantIndex)
			}
		})
	}
}

func TestQueue_Replace(t *testing.T) {
	q := NewQueue()
	q.Add(tracks("/old1.mp3", "/old2.mp3")...)
	q.JumpTo(1)

	track := q.Replace(Track{Path: "/new.mp3"})

	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
	if q.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex() = %d, want 0", q.CurrentIndex())
	}
	if track == nil || track.Path != "/new.mp3" {
		t.Errorf("returned track = %v, want /new.mp3", track)
	}

	if q.Replace() != nil || q.CurrentIndex() != -1 || !q.IsEmpty() {
		t.Error("Replace() with no tracks should empty the queue")
	}
}

func TestQueue_Clear(t *testing.T) {
	q := NewQueue()
	q.Add(tracks("/a.mp3", "/b.mp3")...)
	q.JumpTo(1)

	q.Clear()

	if !q.IsEmpty() {
		t.Error("IsEmpty() = false after Clear")
	}
	if q.CurrentIndex() != -1 {
		t.Errorf("CurrentIndex() = %d, want -1", q.CurrentIndex())
	}
}

func TestQueue_TracksIsACopy(t *testing.T) {
	q := NewQueue()
	q.Add(Track{Path: "/a.mp3"})

	ts := q.Tracks()
	ts[0].Path = "/modified.mp3"

	if q.Current() != nil {
		t.Fatal("cursor should still be -1")
	}
	if got := q.Paths(); len(got) != 1 || got[0] != "/a.mp3" {
		t.Errorf("Paths() = %v, want [/a.mp3]", got)
	}
}

func TestTrack_DisplayName(t *testing.T) {
	if got := (Track{Path: "/a.mp3", Title: "Song"}).DisplayName(); got != "Song" {
		t.Errorf("DisplayName() = %q, want Song", got)
	}
	if got := (Track{Path: "/a.mp3"}).DisplayName(); got != "/a.mp3" {
		t.Errorf("DisplayName() = %q, want path", got)
	}
}
