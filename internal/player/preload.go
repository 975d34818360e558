package player

import (
	"context"
	"time"

	"github.com/llehouerou/wavedeck/internal/engine"
	"github.com/llehouerou/wavedeck/internal/metrics"
)

// Preload warms up path on the muted secondary player: it plays for buffer
// and then pauses. The preloaded media is never promoted to primary
// playback. Failures are logged.
func (s *Service) Preload(ctx context.Context, path string, buffer time.Duration) {
	s.preloadMu.Lock()
	defer s.preloadMu.Unlock()

	s.mu.Lock()
	preloader := s.preloader
	prev := s.preloadMedia
	s.preloadMedia = nil
	s.mu.Unlock()
	if preloader == nil {
		return
	}
	log := s.logger.With().Str("path", path).Logger()

	mrl, err := MRL(path)
	if err != nil {
		log.Warn().Err(err).Msg("preload")
		return
	}

	var media engine.Media
	err = s.disp.Do(ctx, func() error {
		preloader.Stop()
		if prev != nil {
			_ = prev.Close()
		}
		var err error
		media, err = s.lib.NewMedia(mrl)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Msg("preload media")
		return
	}
	if err := s.parse(ctx, media); err != nil {
		log.Warn().Err(err).Msg("preload parse")
		return
	}

	err = s.disp.Do(ctx, func() error {
		preloader.SetMute(true)
		return preloader.PlayMedia(media)
	})
	if err != nil {
		s.closeMedia(media)
		log.Warn().Err(err).Msg("preload play")
		return
	}

	s.mu.Lock()
	s.preloadMedia = media
	s.mu.Unlock()
	metrics.Preloads.Inc()

	t := time.NewTimer(buffer)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}

	// Pause even when ctx ended so the warm-up never keeps running.
	if err := s.disp.Do(context.WithoutCancel(ctx), func() error {
		preloader.Pause()
		return nil
	}); err != nil {
		log.Debug().Err(err).Msg("preload pause")
	}
	log.Debug().Dur("buffer", buffer).Msg("preloaded")
}
