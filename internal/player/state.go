// internal/player/state.go
package player

// State represents the engine session state machine.
//
//	┌───────────────┐  Start  ┌───────┐
//	│ Uninitialized │ ───────▶│ Ready │
//	└───────────────┘         └───────┘
//	                              │ play
//	                              ▼
//	┌─────────┐    play     ┌──────────┐
//	│ Stopped │ ───────────▶│  Playing │◀─┐
//	└─────────┘             └──────────┘  │
//	     ▲                    │ │         │ resume
//	     │ stop / end   pause │ │ stop    │
//	     │                    ▼ │         │
//	     │                 ┌──────────┐   │
//	     └─────────────────│  Paused  │───┘
//	                       └──────────┘
//
// Ready behaves like Stopped for every transition. Pause, resume and stop
// with nothing loaded are no-ops.
type State int

const (
	Uninitialized State = iota
	Ready
	Playing
	Paused
	Stopped
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Ready:
		return "Ready"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Paused
}
