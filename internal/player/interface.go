// internal/player/interface.go
package player

import (
	"context"
	"time"
)

// Interface is the engine contract the queue service depends on.
type Interface interface {
	Play(ctx context.Context, path string) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context)
	SetPosition(ctx context.Context, d time.Duration) error
	Position() time.Duration
	Duration() time.Duration
	CurrentPath() string
	IsPlaying() bool
	State() State
	Subscribe() *Subscription
}
