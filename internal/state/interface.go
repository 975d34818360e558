// internal/state/interface.go
package state

import (
	"context"
	"database/sql"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	GetVolume() (int, bool, error)
	SaveVolume(v int) error
	GetLastSession() (string, bool, error)
	SaveLastSession(marker string) error
	AddPlayHistory(ctx context.Context, e PlayHistoryEntry) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
