package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/llehouerou/wavedeck/internal/notify"
	"github.com/llehouerou/wavedeck/internal/playback"
)

// PlayPaths replaces the queue with paths and starts the first one. Local
// paths are made absolute so they match what the library stores. Paths
// known to the library carry their tags; unknown paths are queued bare.
func (a *App) PlayPaths(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	paths = a.absPaths(paths)
	tracks := a.tracksFor(ctx, paths)
	a.playback.ClearQueue()
	a.playback.Enqueue(tracks...)
	return a.playback.JumpTo(ctx, 0)
}

func (a *App) tracksFor(ctx context.Context, paths []string) []playback.Track {
	found, err := a.library.Existing(ctx, paths)
	if err != nil {
		a.logger.Warn().Err(err).Msg("library lookup")
	}
	tracks := make([]playback.Track, len(paths))
	for i, p := range paths {
		item, ok := found[p]
		if !ok {
			tracks[i] = playback.Track{Path: p}
			continue
		}
		tracks[i] = playback.Track{
			ID:       item.ID,
			Path:     p,
			Title:    item.Title,
			Artist:   item.Artist,
			Album:    item.Album,
			Duration: item.Duration,
		}
	}
	return tracks
}

func (a *App) absPaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p
		if strings.Contains(p, "://") {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			a.logger.Warn().Err(err).Str("path", p).Msg("resolve path")
			continue
		}
		out[i] = abs
	}
	return out
}

// startPreloader warms up the next queue item whenever a track starts.
func (a *App) startPreloader(ctx context.Context) {
	sub := a.playback.Subscribe()
	buffer := a.cfg.PreloadBuffer()
	a.workers.Go(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.Done:
				return
			case <-sub.TrackChanged:
				next := a.playback.PeekNext()
				if next == nil || buffer <= 0 {
					continue
				}
				a.player.Preload(ctx, next.Path, buffer)
			}
		}
	})
}

// startNotifier shows a desktop notification for every started track.
func (a *App) startNotifier(ctx context.Context) {
	n, err := notify.New()
	if err != nil {
		a.logger.Warn().Err(err).Msg("notifications unavailable")
		return
	}
	tn := notify.NewTrackNotifier(n)
	sub := a.playback.Subscribe()
	a.workers.Go(func() { tn.Run(ctx, sub) })
}
