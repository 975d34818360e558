package player

import (
	"context"
	"time"

	"github.com/llehouerou/wavedeck/internal/metrics"
)

// Volume returns the output volume (0-100).
func (s *Service) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetVolume clamps v to 0-100, applies it on the engine thread and schedules
// a save once the volume has been stable for the debounce window.
func (s *Service) SetVolume(ctx context.Context, v int) error {
	v = clampVolume(v)
	if primary := s.primaryPlayer(); primary != nil {
		if err := s.disp.Do(ctx, func() error {
			primary.SetVolume(v)
			return nil
		}); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.volume = v
	s.scheduleVolumeSaveLocked()
	s.mu.Unlock()

	metrics.Volume.Set(float64(v))
	return nil
}

// scheduleVolumeSaveLocked restarts the debounce timer. Must hold s.mu.
func (s *Service) scheduleVolumeSaveLocked() {
	if s.volumes == nil {
		return
	}
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.volumeDebounce, s.saveVolume)
}

func (s *Service) saveVolume() {
	s.mu.Lock()
	v := s.volume
	s.saveTimer = nil
	s.mu.Unlock()

	if err := s.volumes.SaveVolume(v); err != nil {
		s.logger.Warn().Err(err).Int("volume", v).Msg("save volume")
	}
}

// flushVolume writes a pending debounced save immediately.
func (s *Service) flushVolume() {
	s.mu.Lock()
	t := s.saveTimer
	pending := t != nil && t.Stop()
	s.mu.Unlock()
	if pending {
		s.saveVolume()
	}
}

func clampVolume(v int) int {
	return min(max(v, 0), 100)
}
