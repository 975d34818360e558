// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackToggle Op = "toggle playback"
	OpPlaybackStop   Op = "stop playback"
	OpPlaybackNext   Op = "skip to next track"
	OpPlaybackPrev   Op = "go back to previous track"
	OpPlaybackJump   Op = "jump to track"
	OpPlaybackSeek   Op = "seek"

	// Output
	OpVolume Op = "change volume"

	// Session
	OpSessionSave    Op = "save session"
	OpSessionRestore Op = "restore session"

	// Unknown is used for operations reported without a known name.
	OpUnknown Op = "complete operation"
)

// eventOps maps the operation names carried by playback error events.
var eventOps = map[string]Op{
	"play": OpPlaybackStart,
	"seek": OpPlaybackSeek,
}

// ForEvent returns the Op for a playback error event operation name.
func ForEvent(name string) Op {
	if op, ok := eventOps[name]; ok {
		return op
	}
	if name == "" {
		return OpUnknown
	}
	return Op(name)
}

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
