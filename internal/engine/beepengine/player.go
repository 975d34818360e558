package beepengine

import (
	"math"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/wavedeck/internal/engine"
)

// Player is one control chain (ctrl -> volume) added to the shared mixer.
type Player struct {
	lib *Library

	mu      sync.Mutex
	media   *Media
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	level   int
	muted   bool
	playing bool
	gen     uint64
	closed  bool

	onEnd     func()
	onPlaying func()
	onPaused  func()
}

// PlayMedia detaches the current chain and starts m from its current
// position.
func (p *Player) PlayMedia(m engine.Media) error {
	bm, ok := m.(*Media)
	if !ok {
		return errors.Wrapf(engine.ErrUnsupported, "media type %T", m)
	}
	s, format, err := bm.stream()
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return engine.ErrClosed
	}
	p.detachLocked()

	var st beep.Streamer = s
	if format.SampleRate != p.lib.sampleRate {
		st = beep.Resample(4, format.SampleRate, p.lib.sampleRate, s)
	}
	p.ctrl = &beep.Ctrl{Streamer: st}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.level),
		Silent:   p.muted,
	}
	p.media = bm
	p.playing = true
	p.gen++
	gen := p.gen
	chain := p.volume
	p.mu.Unlock()

	speaker.Play(beep.Seq(chain, beep.Callback(func() {
		// Runs with the speaker locked; hand off before touching p.
		go p.finished(gen)
	})))
	p.fire(p.playingCallback())
	return nil
}

// Play resumes the current media.
func (p *Player) Play() error {
	p.mu.Lock()
	if p.ctrl == nil {
		p.mu.Unlock()
		return errors.New("no media loaded")
	}
	ctrl := p.ctrl
	p.playing = true
	p.mu.Unlock()

	speaker.Lock()
	ctrl.Paused = false
	speaker.Unlock()
	p.fire(p.playingCallback())
	return nil
}

func (p *Player) Pause() {
	p.mu.Lock()
	if p.ctrl == nil || !p.playing {
		p.mu.Unlock()
		return
	}
	ctrl := p.ctrl
	p.playing = false
	cb := p.onPaused
	p.mu.Unlock()

	speaker.Lock()
	ctrl.Paused = true
	speaker.Unlock()
	p.fire(cb)
}

// Stop detaches the chain. The end-reached callback does not fire.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detachLocked()
	p.playing = false
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *Player) SetVolume(v int) {
	v = max(0, min(100, v))
	p.mu.Lock()
	p.level = v
	vol := p.volume
	p.mu.Unlock()

	if vol != nil {
		speaker.Lock()
		vol.Volume = levelToVolume(v)
		speaker.Unlock()
	}
}

func (p *Player) Position() float64 {
	p.mu.Lock()
	m := p.media
	p.mu.Unlock()
	if m == nil {
		return 0
	}
	s, _, err := m.stream()
	if err != nil {
		return 0
	}
	speaker.Lock()
	pos, length := s.Position(), s.Len()
	speaker.Unlock()
	if length <= 0 {
		return 0
	}
	return float64(pos) / float64(length)
}

func (p *Player) SetPosition(ratio float64) {
	p.mu.Lock()
	m := p.media
	p.mu.Unlock()
	if m == nil {
		return
	}
	s, _, err := m.stream()
	if err != nil {
		return
	}
	ratio = math.Max(0, math.Min(1, ratio))
	speaker.Lock()
	if err := s.Seek(int(ratio * float64(s.Len()))); err != nil {
		zlog.Warn().Err(err).Str("mrl", m.MRL()).Msg("seek failed")
	}
	speaker.Unlock()
}

func (p *Player) Media() engine.Media {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.media == nil {
		return nil
	}
	return p.media
}

// SetMedia selects m without starting it.
func (p *Player) SetMedia(m engine.Media) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.detachLocked()
	p.playing = false
	bm, _ := m.(*Media)
	p.media = bm
}

func (p *Player) Mute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *Player) SetMute(muted bool) {
	p.mu.Lock()
	p.muted = muted
	vol := p.volume
	p.mu.Unlock()

	if vol != nil {
		speaker.Lock()
		vol.Silent = muted
		speaker.Unlock()
	}
}

func (p *Player) OnEndReached(fn func()) {
	p.mu.Lock()
	p.onEnd = fn
	p.mu.Unlock()
}

func (p *Player) OnPlaying(fn func()) {
	p.mu.Lock()
	p.onPlaying = fn
	p.mu.Unlock()
}

func (p *Player) OnPaused(fn func()) {
	p.mu.Lock()
	p.onPaused = fn
	p.mu.Unlock()
}

// Close detaches the chain; the media stays owned by its creator.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.detachLocked()
	p.media = nil
	p.onEnd, p.onPlaying, p.onPaused = nil, nil, nil
	return nil
}

// detachLocked makes the current chain report exhaustion so the mixer drops
// it. Bumping gen keeps its trailing callback from reporting end-reached.
func (p *Player) detachLocked() {
	if p.ctrl == nil {
		return
	}
	p.gen++
	speaker.Lock()
	p.ctrl.Streamer = nil
	speaker.Unlock()
	p.ctrl = nil
	p.volume = nil
}

func (p *Player) finished(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.closed {
		p.mu.Unlock()
		return
	}
	p.playing = false
	p.ctrl = nil
	p.volume = nil
	cb := p.onEnd
	p.mu.Unlock()
	p.fire(cb)
}

func (p *Player) playingCallback() func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.onPlaying
}

// fire runs a callback on its own goroutine, the way native engines report
// events from an internal thread.
func (p *Player) fire(cb func()) {
	if cb == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zlog.Error().Interface("panic", r).Msg("engine callback panicked")
			}
		}()
		cb()
	}()
}

// levelToVolume maps 0-100 onto beep's base-2 gain:
// 100 -> 0, 50 -> -1, 25 -> -2, 0 -> -10 (silent).
func levelToVolume(level int) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 100 {
		return 0
	}
	return math.Log2(float64(level) / 100)
}

// Verify Player implements engine.Player at compile time.
var _ engine.Player = (*Player)(nil)
