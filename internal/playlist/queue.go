package playlist

// PlayingQueue wraps a Playlist with a cursor.
//
// The cursor is -1 when nothing is selected and otherwise in [0, Len).
// Adding tracks never moves it; Next and Previous wrap around.
type PlayingQueue struct {
	playlist     *Playlist
	currentIndex int
}

// NewQueue creates a new empty playing queue.
func NewQueue() *PlayingQueue {
	return &PlayingQueue{
		playlist:     NewPlaylist(),
		currentIndex: -1,
	}
}

// Current returns the track under the cursor, or nil if none.
func (q *PlayingQueue) Current() *Track {
	return q.playlist.Track(q.currentIndex)
}

// CurrentIndex returns the cursor (-1 if none).
func (q *PlayingQueue) CurrentIndex() int {
	return q.currentIndex
}

// Next moves the cursor forward, wrapping to the first track after the last
// one. With no cursor it selects the first track. Returns nil on an empty
// queue.
func (q *PlayingQueue) Next() *Track {
	return q.JumpTo(q.step(1))
}

// Previous moves the cursor back, wrapping to the last track before the
// first one. With no cursor it selects the last track. Returns nil on an
// empty queue.
func (q *PlayingQueue) Previous() *Track {
	return q.JumpTo(q.step(-1))
}

// PeekNext returns the track Next would select without moving the cursor.
func (q *PlayingQueue) PeekNext() *Track {
	return q.playlist.Track(q.step(1))
}

// step is the index delta tracks away from the cursor, modulo the length.
// From no cursor, forward lands on the first track and backward on the
// last. It is -1 on an empty queue.
func (q *PlayingQueue) step(delta int) int {
	n := q.playlist.Len()
	switch {
	case n == 0:
		return -1
	case q.currentIndex < 0 && delta > 0:
		return 0
	case q.currentIndex < 0:
		return n - 1
	}
	return ((q.currentIndex+delta)%n + n) % n
}

// JumpTo sets the cursor to index. Returns the track there, or nil (cursor
// unchanged) if index is out of range.
func (q *PlayingQueue) JumpTo(index int) *Track {
	if index < 0 || index >= q.playlist.Len() {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// Add appends tracks without moving the cursor.
func (q *PlayingQueue) Add(tracks ...Track) {
	q.playlist.Add(tracks...)
}

// Replace clears the queue, adds tracks and selects the first one.
// Returns the first track, or nil if tracks is empty.
func (q *PlayingQueue) Replace(tracks ...Track) *Track {
	q.Clear()
	if len(tracks) == 0 {
		return nil
	}
	q.playlist.Add(tracks...)
	q.currentIndex = 0
	return q.Current()
}

// Clear removes all tracks and resets the cursor to -1.
func (q *PlayingQueue) Clear() {
	q.playlist.Clear()
	q.currentIndex = -1
}

// Tracks returns a copy of all tracks in the queue.
func (q *PlayingQueue) Tracks() []Track {
	return q.playlist.Tracks()
}

// Paths returns the queued paths in order.
func (q *PlayingQueue) Paths() []string {
	return q.playlist.Paths()
}

// Len returns the number of tracks in the queue.
func (q *PlayingQueue) Len() int {
	return q.playlist.Len()
}

// IsEmpty returns true if the queue has no tracks.
func (q *PlayingQueue) IsEmpty() bool {
	return q.playlist.Len() == 0
}
