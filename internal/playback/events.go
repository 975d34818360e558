package playback

import "time"

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when playback is about to start on a track.
//
// Emitted by Play, PlayTrack, Next, Previous, JumpTo and by auto-advance,
// always before the engine is asked to play. MoveTo does not emit it:
// moving the cursor without playback is not a track change.
type TrackChange struct {
	Previous      *Track
	Current       *Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the queue contents change.
type QueueChange struct {
	Tracks []Track
	Index  int
}

// ModeChange is emitted when the repeat mode changes.
type ModeChange struct {
	RepeatMode RepeatMode
}

// PositionChange is emitted by the position ticker and after a seek.
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent is emitted when an error occurs during playback.
type ErrorEvent struct {
	Operation string // e.g., "play", "seek"
	Path      string // track path if applicable
	Err       error
}
