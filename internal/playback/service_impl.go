// internal/playback/service_impl.go
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/wavedeck/internal/metrics"
	"github.com/llehouerou/wavedeck/internal/player"
	"github.com/llehouerou/wavedeck/internal/playlist"
)

const defaultPollInterval = 250 * time.Millisecond

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

// Option configures the service.
type Option func(*serviceImpl)

// WithPollInterval sets how often PositionChange is emitted while a track
// is loaded.
func WithPollInterval(d time.Duration) Option {
	return func(s *serviceImpl) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithRepeatMode sets the initial repeat mode.
func WithRepeatMode(m RepeatMode) Option {
	return func(s *serviceImpl) { s.repeat = m }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *serviceImpl) { s.logger = l }
}

type serviceImpl struct {
	// mu guards the queue, the cursor and the repeat mode. It is never held
	// across an engine call.
	mu sync.RWMutex

	player player.Interface
	queue  *playlist.PlayingQueue
	repeat RepeatMode

	lastPlayed      *Track
	lastPlayedIndex int

	pollInterval time.Duration
	logger       zerolog.Logger

	stateMu   sync.Mutex
	lastState State

	tickMu       sync.Mutex
	tickerCancel context.CancelFunc
	tickerDone   chan struct{}

	subs   []*Subscription
	subsMu sync.RWMutex

	engineSub   *player.Subscription
	watcherDone chan struct{}
	done        chan struct{}
	closeOnce   sync.Once
}

// New creates a new playback service and starts following engine events.
func New(p player.Interface, q *playlist.PlayingQueue, opts ...Option) Service {
	s := &serviceImpl{
		player:          p,
		queue:           q,
		repeat:          RepeatAll,
		lastPlayedIndex: -1,
		pollInterval:    defaultPollInterval,
		logger:          zlog.Logger.With().Str("component", "playback").Logger(),
		lastState:       fromPlayerState(p.State()),
		watcherDone:     make(chan struct{}),
		done:            make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.engineSub = p.Subscribe()
	go s.watchEngine()
	return s
}

// Play starts the track under the cursor. An empty queue is a silent no-op;
// an out-of-range cursor is reset to the first track.
func (s *serviceImpl) Play(ctx context.Context) error {
	s.mu.Lock()
	if s.queue.IsEmpty() {
		s.mu.Unlock()
		return nil
	}
	if s.queue.Current() == nil {
		s.queue.JumpTo(0)
	}
	change := s.trackChangeLocked()
	s.mu.Unlock()

	return s.playTrack(ctx, change)
}

// PlayTrack replaces the queue with t and plays it.
func (s *serviceImpl) PlayTrack(ctx context.Context, t Track) error {
	s.mu.Lock()
	s.queue.Replace(playlist.Track(t))
	qc := s.queueChangeLocked()
	change := s.trackChangeLocked()
	s.mu.Unlock()

	s.emitQueue(qc)
	return s.playTrack(ctx, change)
}

// Next advances the cursor (wrapping) and plays.
func (s *serviceImpl) Next(ctx context.Context) error {
	s.mu.Lock()
	if s.queue.Next() == nil {
		s.mu.Unlock()
		return nil
	}
	change := s.trackChangeLocked()
	s.mu.Unlock()

	return s.playTrack(ctx, change)
}

// Previous moves the cursor back (wrapping) and plays.
func (s *serviceImpl) Previous(ctx context.Context) error {
	s.mu.Lock()
	if s.queue.Previous() == nil {
		s.mu.Unlock()
		return nil
	}
	change := s.trackChangeLocked()
	s.mu.Unlock()

	return s.playTrack(ctx, change)
}

// JumpTo moves the cursor to index and plays.
func (s *serviceImpl) JumpTo(ctx context.Context, index int) error {
	s.mu.Lock()
	if s.queue.JumpTo(index) == nil {
		n := s.queue.Len()
		s.mu.Unlock()
		return errors.Wrapf(ErrInvalidIndex, "index %d, queue length %d", index, n)
	}
	change := s.trackChangeLocked()
	s.mu.Unlock()

	return s.playTrack(ctx, change)
}

// MoveTo moves the cursor without starting playback.
func (s *serviceImpl) MoveTo(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.JumpTo(index) != nil
}

// trackChangeLocked builds the TrackChange for the track under the cursor
// and records it as the last played track. Must hold s.mu.
func (s *serviceImpl) trackChangeLocked() TrackChange {
	cur := fromPlaylistTrack(*s.queue.Current())
	change := TrackChange{
		Previous:      s.lastPlayed,
		Current:       &cur,
		PreviousIndex: s.lastPlayedIndex,
		Index:         s.queue.CurrentIndex(),
	}
	s.lastPlayed = &cur
	s.lastPlayedIndex = change.Index
	return change
}

// playTrack announces the track, hands it to the engine and restarts the
// position ticker. The cursor is left where it was moved even on failure.
func (s *serviceImpl) playTrack(ctx context.Context, change TrackChange) error {
	path := change.Current.Path
	s.emitTrack(change)

	if err := s.player.Play(ctx, path); err != nil {
		var pe *player.PlaybackError
		if !errors.As(err, &pe) {
			err = &player.PlaybackError{Op: "play", Path: path, Err: err}
		}
		s.stopTicker()
		s.logger.Warn().Err(err).Str("path", path).Msg("play")
		s.emitError(ErrorEvent{Operation: "play", Path: path, Err: err})
		s.syncState()
		return err
	}

	s.startTicker()
	s.syncState()
	return nil
}

// Pause pauses playback.
func (s *serviceImpl) Pause(ctx context.Context) error {
	err := s.player.Pause(ctx)
	s.syncState()
	return err
}

// Resume resumes paused playback.
func (s *serviceImpl) Resume(ctx context.Context) error {
	err := s.player.Resume(ctx)
	s.syncState()
	return err
}

// Toggle pauses when playing, resumes when paused and plays the cursor when
// stopped.
func (s *serviceImpl) Toggle(ctx context.Context) error {
	switch fromPlayerState(s.player.State()) {
	case StatePlaying:
		return s.Pause(ctx)
	case StatePaused:
		return s.Resume(ctx)
	default:
		return s.Play(ctx)
	}
}

// Stop stops playback and the position ticker.
func (s *serviceImpl) Stop(ctx context.Context) error {
	s.stopTicker()
	s.player.Stop(ctx)
	s.syncState()
	return nil
}

// SetPosition seeks to an absolute position.
func (s *serviceImpl) SetPosition(ctx context.Context, position time.Duration) error {
	position = max(position, 0)
	if err := s.player.SetPosition(ctx, position); err != nil {
		s.emitError(ErrorEvent{Operation: "seek", Path: s.player.CurrentPath(), Err: err})
		return err
	}
	if s.player.Duration() > 0 {
		s.emitPosition(position)
	}
	return nil
}

// Seek moves the playhead by delta.
func (s *serviceImpl) Seek(ctx context.Context, delta time.Duration) error {
	return s.SetPosition(ctx, s.player.Position()+delta)
}

// Enqueue appends tracks without moving the cursor.
func (s *serviceImpl) Enqueue(tracks ...Track) {
	if len(tracks) == 0 {
		return
	}
	s.mu.Lock()
	s.queue.Add(toPlaylistTracks(tracks)...)
	qc := s.queueChangeLocked()
	s.mu.Unlock()

	s.emitQueue(qc)
}

// ClearQueue empties the queue and resets the cursor.
func (s *serviceImpl) ClearQueue() {
	s.mu.Lock()
	s.queue.Clear()
	qc := s.queueChangeLocked()
	s.mu.Unlock()

	s.emitQueue(qc)
}

func (s *serviceImpl) queueChangeLocked() QueueChange {
	metrics.QueueLength.Set(float64(s.queue.Len()))
	return QueueChange{
		Tracks: fromPlaylistTracks(s.queue.Tracks()),
		Index:  s.queue.CurrentIndex(),
	}
}

// State returns the current playback state.
func (s *serviceImpl) State() State {
	return fromPlayerState(s.player.State())
}

// IsPlaying reports whether a track is playing.
func (s *serviceImpl) IsPlaying() bool {
	return s.player.IsPlaying()
}

// Position returns the current playback position.
func (s *serviceImpl) Position() time.Duration {
	return s.player.Position()
}

// Duration returns the current track duration.
func (s *serviceImpl) Duration() time.Duration {
	return s.player.Duration()
}

// CurrentTrack returns the track under the cursor, or nil if none.
func (s *serviceImpl) CurrentTrack() *Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.queue.Current()
	if t == nil {
		return nil
	}
	cur := fromPlaylistTrack(*t)
	return &cur
}

// QueueTracks returns a copy of all tracks in the queue.
func (s *serviceImpl) QueueTracks() []Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fromPlaylistTracks(s.queue.Tracks())
}

// QueueCurrentIndex returns the cursor (-1 if none).
func (s *serviceImpl) QueueCurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.CurrentIndex()
}

// QueueLen returns the number of queued tracks.
func (s *serviceImpl) QueueLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Len()
}

// QueueIsEmpty reports whether the queue is empty.
func (s *serviceImpl) QueueIsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.IsEmpty()
}

// PeekNext returns the track Next would play, without moving the cursor.
func (s *serviceImpl) PeekNext() *Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.queue.PeekNext()
	if t == nil {
		return nil
	}
	next := fromPlaylistTrack(*t)
	return &next
}

// RepeatMode returns the current repeat mode.
func (s *serviceImpl) RepeatMode() RepeatMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repeat
}

// SetRepeatMode sets the repeat mode.
func (s *serviceImpl) SetRepeatMode(mode RepeatMode) {
	s.mu.Lock()
	s.repeat = mode
	s.mu.Unlock()
	s.emitMode(ModeChange{RepeatMode: mode})
}

// CycleRepeatMode switches between RepeatAll and RepeatOne.
func (s *serviceImpl) CycleRepeatMode() RepeatMode {
	s.mu.Lock()
	if s.repeat == RepeatAll {
		s.repeat = RepeatOne
	} else {
		s.repeat = RepeatAll
	}
	mode := s.repeat
	s.mu.Unlock()
	s.emitMode(ModeChange{RepeatMode: mode})
	return mode
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	select {
	case <-s.done:
		sub.close()
	default:
		s.subs = append(s.subs, sub)
	}
	return sub
}

// Close stops the ticker and the engine watcher and signals subscribers.
func (s *serviceImpl) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		<-s.watcherDone
		s.stopTicker()

		s.subsMu.Lock()
		for _, sub := range s.subs {
			sub.close()
		}
		s.subs = nil
		s.subsMu.Unlock()
	})
	return nil
}
