package playback

import (
	"time"

	"github.com/llehouerou/wavedeck/internal/playlist"
)

// Track represents a track in the queue.
// This is a copy of the data, not a reference to playlist.Track.
type Track struct {
	ID       int64
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// DisplayName returns the title, falling back to the path.
func (t Track) DisplayName() string {
	return playlist.Track(t).DisplayName()
}

func fromPlaylistTrack(t playlist.Track) Track {
	return Track(t)
}

func toPlaylistTracks(ts []Track) []playlist.Track {
	out := make([]playlist.Track, len(ts))
	for i, t := range ts {
		out[i] = playlist.Track(t)
	}
	return out
}

func fromPlaylistTracks(ts []playlist.Track) []Track {
	out := make([]Track, len(ts))
	for i, t := range ts {
		out[i] = fromPlaylistTrack(t)
	}
	return out
}
