package playback

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrInvalidIndex is returned by JumpTo for an index outside the queue.
var ErrInvalidIndex = errors.New("queue index out of range")

// Service defines the playback queue service contract.
type Service interface {
	// Playback control
	Play(ctx context.Context) error
	PlayTrack(ctx context.Context, t Track) error // Replace the queue with t and play it
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Toggle(ctx context.Context) error
	Stop(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	SetPosition(ctx context.Context, position time.Duration) error
	Seek(ctx context.Context, delta time.Duration) error

	// Queue navigation (starts playback)
	JumpTo(ctx context.Context, index int) error

	// Queue position control (without playback)
	MoveTo(index int) bool

	// Queue manipulation
	Enqueue(tracks ...Track)
	ClearQueue()

	// State queries
	State() State
	IsPlaying() bool
	Position() time.Duration
	Duration() time.Duration
	CurrentTrack() *Track

	// Queue queries
	QueueTracks() []Track
	QueueCurrentIndex() int
	QueueLen() int
	QueueIsEmpty() bool
	PeekNext() *Track

	// Mode control
	RepeatMode() RepeatMode
	SetRepeatMode(mode RepeatMode)
	CycleRepeatMode() RepeatMode

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
