// internal/engine/mock.go
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/cockroachdb/errors"
)

// MockLibrary is a test double for Library.
type MockLibrary struct {
	mu        sync.Mutex
	durations map[string]int64
	meta      map[string]map[MetaKey]string
	parseErrs map[string]error
	metaErr   error
	mediaErr  error
	playerErr error
	medias    []*MockMedia
	players   []*MockPlayer
	closed    bool

	// EmitPlayingOnPlay makes players confirm PlayMedia asynchronously
	// through their OnPlaying callback, like a native engine does.
	EmitPlayingOnPlay bool
}

// NewMockLibrary creates a mock library with no known media.
func NewMockLibrary() *MockLibrary {
	return &MockLibrary{
		durations: make(map[string]int64),
		meta:      make(map[string]map[MetaKey]string),
		parseErrs: make(map[string]error),
	}
}

func (l *MockLibrary) NewMedia(mrl string) (Media, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	if l.mediaErr != nil {
		return nil, l.mediaErr
	}
	m := &MockMedia{
		mrl:      mrl,
		duration: l.durations[mrl],
		meta:     l.meta[mrl],
		parseErr: l.parseErrs[mrl],
		metaErr:  l.metaErr,
	}
	l.medias = append(l.medias, m)
	return m, nil
}

func (l *MockLibrary) NewPlayer() (Player, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	if l.playerErr != nil {
		return nil, l.playerErr
	}
	p := &MockPlayer{volume: 100, asyncPlaying: l.EmitPlayingOnPlay}
	l.players = append(l.players, p)
	return p, nil
}

func (l *MockLibrary) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Test helpers

// SetDuration sets the duration (ms) reported after parsing mrl.
func (l *MockLibrary) SetDuration(mrl string, ms int64) {
	l.mu.Lock()
	l.durations[mrl] = ms
	l.mu.Unlock()
}

// SetMeta sets a tag value for mrl.
func (l *MockLibrary) SetMeta(mrl string, key MetaKey, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.meta[mrl] == nil {
		l.meta[mrl] = make(map[MetaKey]string)
	}
	l.meta[mrl][key] = value
}

// SetParseError makes parsing mrl fail.
func (l *MockLibrary) SetParseError(mrl string, err error) {
	l.mu.Lock()
	l.parseErrs[mrl] = err
	l.mu.Unlock()
}

// SetMetaError makes every tag read fail.
func (l *MockLibrary) SetMetaError(err error) {
	l.mu.Lock()
	l.metaErr = err
	l.mu.Unlock()
}

// SetMediaError makes NewMedia fail.
func (l *MockLibrary) SetMediaError(err error) {
	l.mu.Lock()
	l.mediaErr = err
	l.mu.Unlock()
}

// SetPlayerError makes NewPlayer fail.
func (l *MockLibrary) SetPlayerError(err error) {
	l.mu.Lock()
	l.playerErr = err
	l.mu.Unlock()
}

// Medias returns every media created so far.
func (l *MockLibrary) Medias() []*MockMedia {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*MockMedia(nil), l.medias...)
}

// Players returns every player created so far.
func (l *MockLibrary) Players() []*MockPlayer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*MockPlayer(nil), l.players...)
}

// IsClosed reports whether Close was called.
func (l *MockLibrary) IsClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// MockMedia is a test double for Media.
type MockMedia struct {
	mu       sync.Mutex
	mrl      string
	duration int64
	meta     map[MetaKey]string
	parseErr error
	metaErr  error
	parsed   bool
	closes   int
}

func (m *MockMedia) Parse(ctx context.Context, _ ParseOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.parseErr != nil {
		return m.parseErr
	}
	m.parsed = true
	return nil
}

func (m *MockMedia) Duration() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.parsed {
		return 0
	}
	return m.duration
}

func (m *MockMedia) MRL() string { return m.mrl }

func (m *MockMedia) Meta(key MetaKey) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.metaErr != nil {
		return "", m.metaErr
	}
	return m.meta[key], nil
}

func (m *MockMedia) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

// Closes returns how many times Close was called.
func (m *MockMedia) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// IsParsed reports whether Parse succeeded.
func (m *MockMedia) IsParsed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.parsed
}

// MockPlayer is a test double for Player.
type MockPlayer struct {
	mu           sync.Mutex
	media        Media
	playing      bool
	volume       int
	position     float64
	muted        bool
	playErr      error
	calls        []string
	asyncPlaying bool
	closed       bool

	onEnd     func()
	onPlaying func()
	onPaused  func()
}

func (p *MockPlayer) PlayMedia(m Media) error {
	p.mu.Lock()
	p.calls = append(p.calls, "play:"+m.MRL())
	if p.playErr != nil {
		err := p.playErr
		p.mu.Unlock()
		return err
	}
	p.media = m
	p.playing = true
	p.position = 0
	async, cb := p.asyncPlaying, p.onPlaying
	p.mu.Unlock()

	if async && cb != nil {
		go cb()
	}
	return nil
}

func (p *MockPlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "resume")
	if p.media == nil {
		return errors.New("mock: no media")
	}
	p.playing = true
	return nil
}

func (p *MockPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "pause")
	p.playing = false
}

func (p *MockPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, "stop")
	p.playing = false
	p.position = 0
}

func (p *MockPlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *MockPlayer) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *MockPlayer) SetVolume(v int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf("volume:%d", v))
	p.volume = v
}

func (p *MockPlayer) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *MockPlayer) SetPosition(ratio float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf("position:%.4f", ratio))
	p.position = ratio
}

func (p *MockPlayer) Media() Media {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.media
}

func (p *MockPlayer) SetMedia(m Media) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.media = m
}

func (p *MockPlayer) Mute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *MockPlayer) SetMute(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf("mute:%t", muted))
	p.muted = muted
}

func (p *MockPlayer) OnEndReached(fn func()) {
	p.mu.Lock()
	p.onEnd = fn
	p.mu.Unlock()
}

func (p *MockPlayer) OnPlaying(fn func()) {
	p.mu.Lock()
	p.onPlaying = fn
	p.mu.Unlock()
}

func (p *MockPlayer) OnPaused(fn func()) {
	p.mu.Lock()
	p.onPaused = fn
	p.mu.Unlock()
}

func (p *MockPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Test helpers

// SetPlayError makes PlayMedia fail.
func (p *MockPlayer) SetPlayError(err error) {
	p.mu.Lock()
	p.playErr = err
	p.mu.Unlock()
}

// SetRawPosition moves the playhead without recording a call.
func (p *MockPlayer) SetRawPosition(ratio float64) {
	p.mu.Lock()
	p.position = ratio
	p.mu.Unlock()
}

// Calls returns the recorded mutating calls in order.
func (p *MockPlayer) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// IsClosed reports whether Close was called.
func (p *MockPlayer) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// SimulateEndReached fires the end-reached callback.
func (p *MockPlayer) SimulateEndReached() {
	p.mu.Lock()
	p.playing = false
	p.position = 1
	cb := p.onEnd
	p.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// SimulatePlaying fires the playing callback.
func (p *MockPlayer) SimulatePlaying() {
	p.mu.Lock()
	cb := p.onPlaying
	p.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// SimulatePaused fires the paused callback.
func (p *MockPlayer) SimulatePaused() {
	p.mu.Lock()
	cb := p.onPaused
	p.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Verify mocks implement the contracts at compile time.
var (
	_ Library = (*MockLibrary)(nil)
	_ Media   = (*MockMedia)(nil)
	_ Player  = (*MockPlayer)(nil)
)
