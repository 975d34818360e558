package playback

import (
	"context"
	"time"

	"github.com/llehouerou/wavedeck/internal/player"
)

// watchEngine follows engine notifications until the service closes.
func (s *serviceImpl) watchEngine() {
	defer close(s.watcherDone)
	for {
		select {
		case <-s.done:
			return
		case <-s.engineSub.Done:
			return
		case e := <-s.engineSub.Events:
			s.handleEngineEvent(e)
		}
	}
}

func (s *serviceImpl) handleEngineEvent(e player.Event) {
	s.syncState()
	if e.Type == player.EventEndReached {
		s.advance(e)
	}
}

// advance continues playback after the track in e finished: the next track
// under RepeatAll, the same one under RepeatOne. Notifications for a track
// that is no longer current are ignored.
func (s *serviceImpl) advance(e player.Event) {
	s.mu.Lock()
	cur := s.queue.Current()
	if cur == nil || !samePath(cur.Path, e.Path) {
		s.mu.Unlock()
		s.logger.Debug().Str("path", e.Path).Msg("ignoring end of non-current track")
		return
	}
	if s.repeat == RepeatAll {
		s.queue.Next()
	}
	change := s.trackChangeLocked()
	s.mu.Unlock()

	// Errors are logged and reported on the Error channel by playTrack.
	_ = s.playTrack(context.Background(), change)
}

func samePath(trackPath, eventPath string) bool {
	if trackPath == eventPath {
		return true
	}
	mrl, err := player.MRL(trackPath)
	return err == nil && mrl == eventPath
}

// syncState emits a StateChange when the engine state differs from the last
// one reported.
func (s *serviceImpl) syncState() {
	cur := fromPlayerState(s.player.State())
	s.stateMu.Lock()
	prev := s.lastState
	s.lastState = cur
	s.stateMu.Unlock()
	if prev != cur {
		s.emitState(StateChange{Previous: prev, Current: cur})
	}
}

// startTicker (re)starts the position ticker.
func (s *serviceImpl) startTicker() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.stopTickerLocked()
	select {
	case <-s.done:
		return
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.tickerCancel, s.tickerDone = cancel, done
	go s.runTicker(ctx, done)
}

func (s *serviceImpl) stopTicker() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.stopTickerLocked()
}

func (s *serviceImpl) stopTickerLocked() {
	if s.tickerCancel == nil {
		return
	}
	s.tickerCancel()
	<-s.tickerDone
	s.tickerCancel, s.tickerDone = nil, nil
}

func (s *serviceImpl) runTicker(ctx context.Context, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(s.pollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.emitPosition(s.player.Position())
		}
	}
}

func (s *serviceImpl) emitState(e StateChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendState(e)
	}
}

func (s *serviceImpl) emitTrack(e TrackChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendTrack(e)
	}
}

func (s *serviceImpl) emitPosition(pos time.Duration) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendPosition(PositionChange{Position: pos})
	}
}

func (s *serviceImpl) emitQueue(e QueueChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendQueue(e)
	}
}

func (s *serviceImpl) emitMode(e ModeChange) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendMode(e)
	}
}

func (s *serviceImpl) emitError(e ErrorEvent) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		sub.sendError(e)
	}
}
