// internal/state/mock.go
package state

import (
	"context"
	"database/sql"
	"sync"
)

// Mock is a test double for Manager.
type Mock struct {
	mu          sync.Mutex
	volume      int
	hasVolume   bool
	lastSession string
	history     []PlayHistoryEntry
	saveErr     error
	closed      bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) GetVolume() (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume, m.hasVolume, nil
}

func (m *Mock) SaveVolume(v int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.volume, m.hasVolume = v, true
	return nil
}

func (m *Mock) GetLastSession() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSession, m.lastSession != "", nil
}

func (m *Mock) SaveLastSession(marker string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.lastSession = marker
	return nil
}

func (m *Mock) AddPlayHistory(_ context.Context, e PlayHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.history = append(m.history, e)
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

// SetSaveError makes every write fail with err.
func (m *Mock) SetSaveError(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

// History returns the recorded play history.
func (m *Mock) History() []PlayHistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PlayHistoryEntry(nil), m.history...)
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
