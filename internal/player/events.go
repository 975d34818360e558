package player

import "time"

// EventType identifies an engine notification.
type EventType int

const (
	EventPlaying EventType = iota + 1
	EventPaused
	EventStopped
	EventEndReached
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventPlaying:
		return "Playing"
	case EventPaused:
		return "Paused"
	case EventStopped:
		return "Stopped"
	case EventEndReached:
		return "EndReached"
	default:
		return "Unknown"
	}
}

// Event is emitted on every engine state transition.
//
// Path is the MRL of the media the event refers to. Position and Duration
// are captured when the event is emitted; for EventEndReached they describe
// the track that just finished even if another one has started since.
type Event struct {
	Type     EventType
	Path     string
	Position time.Duration
	Duration time.Duration
}
