// Package playlist holds the ordered track list and the playing cursor.
// Nothing here is safe for concurrent use; the queue service serialises
// access.
package playlist

import "time"

// Track is a reference to one playable item. Navigation identifies tracks
// by Path; the display fields are filled from the library when known.
type Track struct {
	ID       int64  // library track ID (0 if unknown)
	Path     string // absolute path or URI
	Title    string
	Artist   string
	Album    string
	Duration time.Duration // zero until known
}

// DisplayName returns the title, falling back to the path.
func (t Track) DisplayName() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Path
}

// Playlist holds an ordered collection of tracks.
type Playlist struct {
	tracks []Track
}

// NewPlaylist creates a new empty playlist.
func NewPlaylist() *Playlist {
	return &Playlist{tracks: make([]Track, 0)}
}

// Add appends tracks to the playlist.
func (p *Playlist) Add(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
}

// Clear removes all tracks from the playlist.
func (p *Playlist) Clear() {
	p.tracks = p.tracks[:0]
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Track returns the track at index, or nil if out of bounds.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return &p.tracks[index]
}

// Paths returns the path of every track in order.
func (p *Playlist) Paths() []string {
	paths := make([]string, len(p.tracks))
	for i := range p.tracks {
		paths[i] = p.tracks[i].Path
	}
	return paths
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}
