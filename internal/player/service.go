// Package player implements the playback engine service: the only component
// that owns native engine handles. Every mutating engine call goes through a
// dispatch.Dispatcher; parsing and tag reads run on their own goroutines.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/wavedeck/internal/dispatch"
	"github.com/llehouerou/wavedeck/internal/engine"
	"github.com/llehouerou/wavedeck/internal/metrics"
)

const (
	defaultVolume         = 100
	defaultVolumeDebounce = 500 * time.Millisecond
	defaultParseTimeout   = 10 * time.Second
	inboxSize             = 64
)

// VolumeStore persists the output volume between runs.
type VolumeStore interface {
	GetVolume() (int, bool, error)
	SaveVolume(v int) error
}

// Option configures a Service.
type Option func(*Service)

// WithVolumeStore sets where the volume is restored from and saved to.
func WithVolumeStore(vs VolumeStore) Option {
	return func(s *Service) { s.volumes = vs }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithVolumeDebounce sets how long volume must stay unchanged before it is
// persisted.
func WithVolumeDebounce(d time.Duration) Option {
	return func(s *Service) { s.volumeDebounce = d }
}

// WithParseTimeout bounds each media parse.
func WithParseTimeout(d time.Duration) Option {
	return func(s *Service) { s.parseTimeout = d }
}

// Service is the playback engine service.
type Service struct {
	lib            engine.Library
	disp           dispatch.Dispatcher
	volumes        VolumeStore
	logger         zerolog.Logger
	volumeDebounce time.Duration
	parseTimeout   time.Duration

	// opMu serialises Play and Stop so media replacement stays atomic.
	opMu sync.Mutex
	// preloadMu serialises Preload calls.
	preloadMu sync.Mutex

	mu           sync.Mutex
	state        State
	primary      engine.Player
	preloader    engine.Player
	media        engine.Media
	preloadMedia engine.Media
	volume       int
	saveTimer    *time.Timer
	closed       bool

	subsMu sync.Mutex
	subs   []*Subscription

	inbox      chan Event
	quit       chan struct{}
	fanoutDone chan struct{}
	closeOnce  sync.Once
}

// New creates an engine service. Start must be called before playback.
func New(lib engine.Library, disp dispatch.Dispatcher, opts ...Option) *Service {
	s := &Service{
		lib:            lib,
		disp:           disp,
		logger:         zlog.Logger.With().Str("component", "player").Logger(),
		volumeDebounce: defaultVolumeDebounce,
		parseTimeout:   defaultParseTimeout,
		state:          Uninitialized,
		volume:         defaultVolume,
		inbox:          make(chan Event, inboxSize),
		quit:           make(chan struct{}),
		fanoutDone:     make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	go s.fanout()
	return s
}

// Start creates the primary and preload players, restores the persisted
// volume and moves the service to Ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return engine.ErrClosed
	}
	if s.state != Uninitialized {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	vol := defaultVolume
	if s.volumes != nil {
		v, ok, err := s.volumes.GetVolume()
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("restore volume")
		case ok:
			vol = clampVolume(v)
		}
	}

	var primary, preloader engine.Player
	err := s.disp.Do(ctx, func() error {
		var err error
		if primary, err = s.lib.NewPlayer(); err != nil {
			return err
		}
		if preloader, err = s.lib.NewPlayer(); err != nil {
			_ = primary.Close()
			return err
		}
		preloader.SetMute(true)
		primary.SetVolume(vol)
		primary.OnPlaying(s.onNativePlaying)
		primary.OnPaused(s.onNativePaused)
		primary.OnEndReached(s.onNativeEndReached)
		return nil
	})
	if err != nil {
		return engine.NewInitError(err)
	}

	s.mu.Lock()
	s.primary = primary
	s.preloader = preloader
	s.volume = vol
	s.state = Ready
	s.mu.Unlock()

	metrics.Volume.Set(float64(vol))
	s.logger.Debug().Int("volume", vol).Msg("engine service ready")
	return nil
}

// Play replaces the current media with path and starts it.
func (s *Service) Play(ctx context.Context, path string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	primary := s.primaryPlayer()
	if primary == nil {
		return s.playFailed("play", path, ErrNotStarted)
	}

	mrl, err := MRL(path)
	if err != nil {
		return s.playFailed("mrl", path, err)
	}

	prev, err := s.disposeCurrent(ctx, primary)
	if err != nil {
		return s.playFailed("dispose", mrl, err)
	}

	var media engine.Media
	err = s.disp.Do(ctx, func() error {
		var err error
		media, err = s.lib.NewMedia(mrl)
		return err
	})
	if err != nil {
		s.markIdle(prev)
		return s.playFailed("media", mrl, err)
	}

	if err := s.parse(ctx, media); err != nil {
		s.markIdle(prev)
		return s.playFailed("parse", mrl, err)
	}

	err = s.disp.Do(ctx, func() error { return primary.PlayMedia(media) })
	if err != nil {
		s.closeMedia(media)
		s.markIdle(prev)
		return s.playFailed("play", mrl, err)
	}

	s.mu.Lock()
	s.media = media
	s.state = Playing
	dur := mediaDuration(media)
	s.mu.Unlock()

	metrics.PlaysStarted.Inc()
	s.logger.Debug().Str("mrl", mrl).Dur("duration", dur).Msg("playing")
	s.emit(Event{Type: EventPlaying, Path: mrl, Duration: dur})
	return nil
}

// parse runs Parse off the engine thread. If ctx ends first, the media is
// closed once the parse returns.
func (s *Service) parse(ctx context.Context, media engine.Media) error {
	done := make(chan error, 1)
	opts := engine.ParseOptions{
		Network: !isLocalMRL(media.MRL()),
		Timeout: s.parseTimeout,
	}
	go func() { done <- media.Parse(ctx, opts) }()

	select {
	case err := <-done:
		if err != nil {
			s.closeMedia(media)
		}
		return err
	case <-ctx.Done():
		go func() {
			<-done
			s.closeMedia(media)
		}()
		return ctx.Err()
	}
}

// disposeCurrent stops the primary player and releases the current media.
// The release ignores ctx cancellation; it only fails when the dispatcher
// is gone, in which case the media stays current.
func (s *Service) disposeCurrent(ctx context.Context, primary engine.Player) (engine.Media, error) {
	s.mu.Lock()
	prev := s.media
	s.mu.Unlock()
	if prev == nil {
		return nil, nil
	}

	var ran bool
	err := s.disp.Do(context.WithoutCancel(ctx), func() error {
		ran = true
		primary.Stop()
		return prev.Close()
	})
	if !ran {
		return nil, err
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("mrl", prev.MRL()).Msg("dispose media")
	}

	s.mu.Lock()
	if s.media == prev {
		s.media = nil
	}
	s.mu.Unlock()
	return prev, nil
}

// markIdle moves a playing or paused service to Stopped after a failed Play
// has already released prev.
func (s *Service) markIdle(prev engine.Media) {
	s.mu.Lock()
	if s.state != Playing && s.state != Paused {
		s.mu.Unlock()
		return
	}
	s.state = Stopped
	s.mu.Unlock()

	ev := Event{Type: EventStopped}
	if prev != nil {
		ev.Path = prev.MRL()
	}
	s.emit(ev)
}

func (s *Service) playFailed(op, path string, err error) error {
	metrics.PlaysFailed.WithLabelValues(op).Inc()
	return &PlaybackError{Op: op, Path: path, Err: err}
}

func (s *Service) closeMedia(m engine.Media) {
	if err := m.Close(); err != nil {
		s.logger.Debug().Err(err).Str("mrl", m.MRL()).Msg("close media")
	}
}

// Pause pauses playback. It is a no-op when nothing is loaded.
func (s *Service) Pause(ctx context.Context) error {
	primary, media := s.loaded()
	if media == nil {
		return nil
	}
	if err := s.disp.Do(ctx, func() error {
		primary.Pause()
		return nil
	}); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = Paused
	ev := s.eventLocked(EventPaused)
	s.mu.Unlock()
	s.emit(ev)
	return nil
}

// Resume resumes playback. It is a no-op when nothing is loaded.
func (s *Service) Resume(ctx context.Context) error {
	primary, media := s.loaded()
	if media == nil {
		return nil
	}
	if err := s.disp.Do(ctx, primary.Play); err != nil {
		return &PlaybackError{Op: "resume", Path: media.MRL(), Err: err}
	}

	s.mu.Lock()
	s.state = Playing
	ev := s.eventLocked(EventPlaying)
	s.mu.Unlock()
	s.emit(ev)
	return nil
}

// Stop halts playback and releases the current media. EventStopped is only
// emitted when something was loaded. Failures are logged.
func (s *Service) Stop(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	primary := s.primaryPlayer()
	if primary == nil {
		return
	}
	prev, err := s.disposeCurrent(ctx, primary)
	if err != nil {
		s.logger.Warn().Err(err).Msg("stop")
		return
	}
	if prev == nil {
		return
	}

	s.mu.Lock()
	s.state = Stopped
	s.mu.Unlock()
	s.emit(Event{Type: EventStopped, Path: prev.MRL()})
}

// StopAsync runs Stop on its own goroutine. The returned channel is closed
// once the engine has stopped.
func (s *Service) StopAsync() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Stop(context.Background())
	}()
	return done
}

// Position returns the playhead, zero when the duration is unknown.
func (s *Service) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *Service) positionLocked() time.Duration {
	if s.media == nil || s.primary == nil {
		return 0
	}
	dur := mediaDuration(s.media)
	if dur <= 0 {
		return 0
	}
	ratio := s.primary.Position()
	return time.Duration(ratio * float64(dur))
}

// SetPosition seeks to d. It is silently ignored when the duration is not
// known.
func (s *Service) SetPosition(ctx context.Context, d time.Duration) error {
	primary, media := s.loaded()
	if media == nil {
		return nil
	}
	dur := mediaDuration(media)
	if dur <= 0 {
		return nil
	}
	ratio := float64(d) / float64(dur)
	ratio = min(max(ratio, 0), 1)
	return s.disp.Do(ctx, func() error {
		primary.SetPosition(ratio)
		return nil
	})
}

// Duration returns the length of the current media.
func (s *Service) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media == nil {
		return 0
	}
	return mediaDuration(s.media)
}

// CurrentPath returns the MRL of the loaded media, or "".
func (s *Service) CurrentPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.media == nil {
		return ""
	}
	return s.media.MRL()
}

// IsPlaying reports whether the engine is playing.
func (s *Service) IsPlaying() bool {
	return s.State() == Playing
}

// State returns the current state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a new event subscription.
func (s *Service) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	select {
	case <-s.fanoutDone:
		sub.close()
	default:
		s.subs = append(s.subs, sub)
	}
	return sub
}

// Unsubscribe removes sub and closes its Done channel.
func (s *Service) Unsubscribe(sub *Subscription) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for i, cur := range s.subs {
		if cur == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			sub.close()
			return
		}
	}
}

// Close stops playback, releases both players, flushes a pending volume save
// and closes every subscription. It is safe to call more than once.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		ctx := context.Background()
		s.Stop(ctx)
		s.preloadMu.Lock()
		defer s.preloadMu.Unlock()

		s.mu.Lock()
		primary, preloader, pm := s.primary, s.preloader, s.preloadMedia
		s.primary, s.preloader, s.preloadMedia = nil, nil, nil
		s.closed = true
		s.mu.Unlock()

		if primary != nil {
			err := s.disp.Do(ctx, func() error {
				preloader.Stop()
				if pm != nil {
					_ = pm.Close()
				}
				_ = preloader.Close()
				return primary.Close()
			})
			if err != nil {
				s.logger.Warn().Err(err).Msg("close players")
			}
		}

		s.flushVolume()

		close(s.quit)
		<-s.fanoutDone
		s.subsMu.Lock()
		for _, sub := range s.subs {
			sub.close()
		}
		s.subs = nil
		s.subsMu.Unlock()
	})
	return nil
}

func (s *Service) primaryPlayer() engine.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.primary
}

func (s *Service) loaded() (engine.Player, engine.Media) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.primary == nil {
		return nil, nil
	}
	return s.primary, s.media
}

// eventLocked snapshots the current media into an event.
func (s *Service) eventLocked(t EventType) Event {
	ev := Event{Type: t}
	if s.media != nil {
		ev.Path = s.media.MRL()
		ev.Duration = mediaDuration(s.media)
		ev.Position = s.positionLocked()
	}
	return ev
}

// Native callbacks. They run on engine goroutines and only report
// transitions the native player confirms.

func (s *Service) onNativePlaying() {
	s.mu.Lock()
	if s.media == nil || s.primary == nil || !s.primary.IsPlaying() {
		s.mu.Unlock()
		return
	}
	s.state = Playing
	ev := s.eventLocked(EventPlaying)
	s.mu.Unlock()
	s.emit(ev)
}

func (s *Service) onNativePaused() {
	s.mu.Lock()
	if s.media == nil || s.primary == nil || s.primary.IsPlaying() {
		s.mu.Unlock()
		return
	}
	s.state = Paused
	ev := s.eventLocked(EventPaused)
	s.mu.Unlock()
	s.emit(ev)
}

func (s *Service) onNativeEndReached() {
	s.mu.Lock()
	if s.media == nil {
		s.mu.Unlock()
		return
	}
	ev := s.eventLocked(EventEndReached)
	if ev.Position < ev.Duration {
		ev.Position = ev.Duration
	}
	s.state = Stopped
	s.mu.Unlock()

	metrics.EndReached.Inc()
	s.emit(ev)
}

// emit queues e for the fan-out goroutine.
func (s *Service) emit(e Event) {
	select {
	case s.inbox <- e:
	case <-s.quit:
	}
}

// fanout is the single goroutine that delivers events to subscribers.
func (s *Service) fanout() {
	defer close(s.fanoutDone)
	for {
		select {
		case e := <-s.inbox:
			s.subsMu.Lock()
			for _, sub := range s.subs {
				sub.send(e)
			}
			s.subsMu.Unlock()
		case <-s.quit:
			return
		}
	}
}

func mediaDuration(m engine.Media) time.Duration {
	return time.Duration(m.Duration()) * time.Millisecond
}

func isLocalMRL(mrl string) bool {
	return !schemeRe.MatchString(mrl) || len(mrl) >= 7 && mrl[:7] == "file://"
}

// Verify Service implements Interface at compile time.
var _ Interface = (*Service)(nil)
