// internal/player/mock.go
package player

import (
	"context"
	"sync"
	"time"
)

// Mock is a test double for Interface. Events are only delivered through
// Emit and SimulateEndReached.
type Mock struct {
	mu        sync.Mutex
	state     State
	path      string
	position  time.Duration
	duration  time.Duration
	playErr   error
	playCalls []string
	seekCalls []time.Duration
	calls     []string
	subs      []*Subscription
}

// NewMock creates a new mock engine in the Ready state.
func NewMock() *Mock {
	return &Mock{state: Ready}
}

func (m *Mock) Play(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls = append(m.playCalls, path)
	m.calls = append(m.calls, "play")
	if m.playErr != nil {
		return m.playErr
	}
	m.path = path
	m.position = 0
	m.state = Playing
	return nil
}

func (m *Mock) Pause(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "pause")
	if m.state == Playing {
		m.state = Paused
	}
	return nil
}

func (m *Mock) Resume(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "resume")
	if m.state == Paused {
		m.state = Playing
	}
	return nil
}

func (m *Mock) Stop(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "stop")
	m.path = ""
	m.state = Stopped
}

func (m *Mock) SetPosition(_ context.Context, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "seek")
	if m.duration <= 0 {
		return nil
	}
	m.seekCalls = append(m.seekCalls, d)
	m.position = d
	return nil
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) CurrentPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.path
}

func (m *Mock) IsPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == Playing
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Subscribe() *Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := newSubscription()
	m.subs = append(m.subs, sub)
	return sub
}

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	m.playErr = err
	m.mu.Unlock()
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	m.duration = d
	m.mu.Unlock()
}

func (m *Mock) SetRawPosition(d time.Duration) {
	m.mu.Lock()
	m.position = d
	m.mu.Unlock()
}

// PlayCalls returns every path passed to Play.
func (m *Mock) PlayCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.playCalls...)
}

// SeekCalls returns every accepted SetPosition target.
func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

// Calls returns the operation names in call order.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Emit delivers e to every subscription.
func (m *Mock) Emit(e Event) {
	m.mu.Lock()
	subs := append([]*Subscription(nil), m.subs...)
	m.mu.Unlock()
	for _, s := range subs {
		s.send(e)
	}
}

// SimulateEndReached marks the current track finished and emits
// EventEndReached.
func (m *Mock) SimulateEndReached() {
	m.mu.Lock()
	ev := Event{Type: EventEndReached, Path: m.path, Position: m.duration, Duration: m.duration}
	m.state = Stopped
	m.mu.Unlock()
	m.Emit(ev)
}

// CloseSubscriptions closes every subscription's Done channel.
func (m *Mock) CloseSubscriptions() {
	m.mu.Lock()
	subs := m.subs
	m.subs = nil
	m.mu.Unlock()
	for _, s := range subs {
		s.close()
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
