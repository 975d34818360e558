package player

import (
	"context"

	"github.com/llehouerou/wavedeck/internal/engine"
)

const (
	noData    = "No data"
	metaError = "Error"
)

// Metadata holds the displayable tags of the current media.
type Metadata struct {
	Title  string
	Artist string
}

// CurrentMetadata reads title and artist off the engine thread. It returns
// "No data" for both when nothing is loaded and "Error" for both when the
// read fails.
func (s *Service) CurrentMetadata(ctx context.Context) Metadata {
	s.mu.Lock()
	media := s.media
	s.mu.Unlock()
	if media == nil {
		return Metadata{Title: noData, Artist: noData}
	}

	type result struct {
		md  Metadata
		err error
	}
	done := make(chan result, 1)
	go func() {
		title, err := media.Meta(engine.MetaTitle)
		if err != nil {
			done <- result{err: err}
			return
		}
		artist, err := media.Meta(engine.MetaArtist)
		done <- result{md: Metadata{Title: title, Artist: artist}, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			s.logger.Debug().Err(r.err).Str("mrl", media.MRL()).Msg("read metadata")
			return Metadata{Title: metaError, Artist: metaError}
		}
		return r.md
	case <-ctx.Done():
		return Metadata{Title: metaError, Artist: metaError}
	}
}
