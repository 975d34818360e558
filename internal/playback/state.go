// internal/playback/state.go
package playback

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/llehouerou/wavedeck/internal/player"
)

// State represents the playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

func fromPlayerState(ps player.State) State {
	switch ps {
	case player.Playing:
		return StatePlaying
	case player.Paused:
		return StatePaused
	case player.Uninitialized, player.Ready, player.Stopped:
		return StateStopped
	default:
		return StateStopped
	}
}

// RepeatMode defines what happens when a track ends.
type RepeatMode int

const (
	// RepeatAll advances to the next track, wrapping at the end.
	RepeatAll RepeatMode = iota
	// RepeatOne replays the current track.
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// ParseRepeatMode parses "all" or "one" (case-insensitive).
func ParseRepeatMode(s string) (RepeatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "":
		return RepeatAll, nil
	case "one":
		return RepeatOne, nil
	default:
		return RepeatAll, errors.Newf("unknown repeat mode %q", s)
	}
}
