// Package notify raises freedesktop desktop notifications for started
// tracks. Off Linux, or without a session bus, notifications are dropped.
package notify

import "time"

// Urgency is the freedesktop "urgency" hint.
type Urgency byte

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification is one popup.
type Notification struct {
	Title string
	Body  string
	Icon  string // image path or icon name

	// Expire is how long the popup stays up. Zero keeps it until dismissed;
	// a negative value leaves the choice to the server.
	Expire time.Duration

	// Replaces is the id of a popup to update in place, or 0.
	Replaces uint32
	Urgency  Urgency
}

// expireMillis converts Expire to the wire value: -1 for the server
// default, 0 for never.
func (n Notification) expireMillis() int32 {
	if n.Expire < 0 {
		return -1
	}
	return int32(min(n.Expire.Milliseconds(), int64(1<<31-1)))
}

// Notifier sends notifications.
type Notifier interface {
	// Notify shows n and returns its server id, 0 when nothing was shown.
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}
