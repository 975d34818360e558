//go:build linux

package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/wavedeck/internal/cover"
	"github.com/llehouerou/wavedeck/internal/playback"
)

// rootAdapter answers the org.mpris.MediaPlayer2 interface. The window and
// the process lifetime belong to the terminal, so raise and quit are
// refused.
type rootAdapter struct{}

func (rootAdapter) Raise() error                { return nil }
func (rootAdapter) Quit() error                 { return nil }
func (rootAdapter) CanQuit() (bool, error)      { return false, nil }
func (rootAdapter) CanRaise() (bool, error)     { return false, nil }
func (rootAdapter) HasTrackList() (bool, error) { return false, nil }
func (rootAdapter) Identity() (string, error)   { return "wavedeck", nil }
func (rootAdapter) SupportedUriSchemes() ([]string, error) { //nolint:revive // interface name
	return []string{"file"}, nil
}

func (rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/x-wav"}, nil
}

// playerAdapter answers org.mpris.MediaPlayer2.Player on behalf of the
// playback service. Every control call gets its own callTimeout.
type playerAdapter struct {
	service playback.Service
	volume  VolumeControl
}

func (p *playerAdapter) call(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	return fn(ctx)
}

func (p *playerAdapter) Next() error      { return p.call(p.service.Next) }
func (p *playerAdapter) Previous() error  { return p.call(p.service.Previous) }
func (p *playerAdapter) Pause() error     { return p.call(p.service.Pause) }
func (p *playerAdapter) PlayPause() error { return p.call(p.service.Toggle) }
func (p *playerAdapter) Stop() error      { return p.call(p.service.Stop) }

// Play resumes a paused track and is a no-op while playing.
func (p *playerAdapter) Play() error {
	switch p.service.State() {
	case playback.StatePlaying:
		return nil
	case playback.StatePaused:
		return p.call(p.service.Resume)
	default:
		return p.call(p.service.Play)
	}
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	return p.call(func(ctx context.Context) error {
		return p.service.Seek(ctx, micros(offset))
	})
}

// SetPosition ignores requests aimed at a track that is no longer current.
func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	track := p.service.CurrentTrack()
	if track == nil || formatTrackID(track.Path) != trackID {
		return nil
	}
	return p.call(func(ctx context.Context) error {
		return p.service.SetPosition(ctx, micros(position))
	})
}

func (p *playerAdapter) OpenUri(string) error { return nil } //nolint:revive // interface name

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.service.State() {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	default:
		return types.PlaybackStatusStopped, nil
	}
}

// Playback speed is fixed.
func (p *playerAdapter) Rate() (float64, error)        { return 1, nil }
func (p *playerAdapter) SetRate(float64) error         { return nil }
func (p *playerAdapter) MinimumRate() (float64, error) { return 1, nil }
func (p *playerAdapter) MaximumRate() (float64, error) { return 1, nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.service.CurrentTrack()
	if track == nil {
		return types.Metadata{}, nil
	}
	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(track.Path)),
		Length:  types.Microseconds(track.Duration.Microseconds()),
		Title:   track.DisplayName(),
		Album:   track.Album,
		ArtUrl:  cover.URL(track.Path),
	}
	if track.Artist != "" {
		meta.Artist = []string{track.Artist}
	}
	return meta, nil
}

// Volume is a 0..1 ratio on the bus and a percentage in the player.
func (p *playerAdapter) Volume() (float64, error) {
	if p.volume == nil {
		return 1, nil
	}
	return float64(p.volume.Volume()) / 100, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	if p.volume == nil {
		return nil
	}
	return p.call(func(ctx context.Context) error {
		return p.volume.SetVolume(ctx, int(math.Round(v*100)))
	})
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Position().Microseconds(), nil
}

// The queue wraps, so next and previous exist whenever it has tracks.
func (p *playerAdapter) CanGoNext() (bool, error)     { return !p.service.QueueIsEmpty(), nil }
func (p *playerAdapter) CanGoPrevious() (bool, error) { return !p.service.QueueIsEmpty(), nil }
func (p *playerAdapter) CanPlay() (bool, error)       { return !p.service.QueueIsEmpty(), nil }
func (p *playerAdapter) CanPause() (bool, error)      { return true, nil }
func (p *playerAdapter) CanControl() (bool, error)    { return true, nil }
func (p *playerAdapter) CanSeek() (bool, error)       { return p.service.Duration() > 0, nil }

func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	if p.service.RepeatMode() == playback.RepeatOne {
		return types.LoopStatusTrack, nil
	}
	return types.LoopStatusPlaylist, nil
}

// SetLoopStatus maps None to Playlist: the queue always wraps.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	mode := playback.RepeatAll
	if status == types.LoopStatusTrack {
		mode = playback.RepeatOne
	}
	p.service.SetRepeatMode(mode)
	return nil
}

func micros(v types.Microseconds) time.Duration {
	return time.Duration(v) * time.Microsecond
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
