package player

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrPlaybackFailed matches every *PlaybackError through errors.Is.
var ErrPlaybackFailed = errors.New("playback failed")

// ErrNotStarted is returned by operations that need Start to have run.
var ErrNotStarted = errors.New("engine service not started")

// PlaybackError describes a failed attempt to start playback.
type PlaybackError struct {
	Op   string // "mrl", "media", "parse", "play", "resume"
	Path string
	Err  error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// Is reports ErrPlaybackFailed as a match for any playback error.
func (e *PlaybackError) Is(target error) bool {
	return target == ErrPlaybackFailed
}
