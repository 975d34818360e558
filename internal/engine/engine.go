// Package engine defines the narrow capability contract every playback call
// site uses instead of a concrete native decode engine.
//
// Three handle kinds exist:
//
//	Library  one per process, creates media and players
//	Media    one decode unit for one track
//	Player   one output session that plays a Media
//
// All handles are owned by exactly one component and must be closed exactly
// once. Mutating Player calls are not safe for concurrent use; callers must
// funnel them through a single goroutine (see package dispatch).
package engine

import (
	"context"
	"time"
)

// MetaKey identifies a tag readable from a parsed Media.
type MetaKey int

const (
	MetaTitle MetaKey = iota
	MetaArtist
	MetaAlbum
)

// String returns the key name.
func (k MetaKey) String() string {
	switch k {
	case MetaTitle:
		return "title"
	case MetaArtist:
		return "artist"
	case MetaAlbum:
		return "album"
	default:
		return "unknown"
	}
}

// Options tunes the native library at construction time.
type Options struct {
	HardwareDecode     bool
	FileCaching        time.Duration
	NetworkCaching     time.Duration
	SubtitleAutodetect bool
	SampleRate         int
}

// DefaultOptions returns the tuning used by the player: no hardware decode,
// small fixed caching windows and no subtitle detection.
func DefaultOptions() Options {
	return Options{
		HardwareDecode:     false,
		FileCaching:        300 * time.Millisecond,
		NetworkCaching:     1000 * time.Millisecond,
		SubtitleAutodetect: false,
		SampleRate:         44100,
	}
}

// ParseOptions controls Media.Parse.
type ParseOptions struct {
	// Network allows parsing remote resources.
	Network bool
	// Timeout bounds the parse; zero means no bound beyond the context.
	Timeout time.Duration
}

// Library is the process-wide native engine handle.
type Library interface {
	NewMedia(mrl string) (Media, error)
	NewPlayer() (Player, error)
	Close() error
}

// Media wraps the decode unit of a single track.
type Media interface {
	Parse(ctx context.Context, opts ParseOptions) error
	// Duration is the length in milliseconds, 0 until parsed.
	Duration() int64
	MRL() string
	Meta(key MetaKey) (string, error)
	Close() error
}

// Player is one native playback session.
type Player interface {
	PlayMedia(m Media) error
	// Play resumes the current media.
	Play() error
	Pause()
	Stop()
	IsPlaying() bool

	Volume() int
	SetVolume(v int)
	// Position is the playhead as a ratio in [0, 1].
	Position() float64
	SetPosition(ratio float64)
	Media() Media
	SetMedia(m Media)
	Mute() bool
	SetMute(muted bool)

	// Callbacks run on an engine-internal goroutine.
	OnEndReached(fn func())
	OnPlaying(fn func())
	OnPaused(fn func())

	Close() error
}
