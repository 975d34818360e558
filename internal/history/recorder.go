// Package history records completed listens from engine events.
package history

import (
	"context"
	"net/url"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/wavedeck/internal/library"
	"github.com/llehouerou/wavedeck/internal/metrics"
	"github.com/llehouerou/wavedeck/internal/player"
	"github.com/llehouerou/wavedeck/internal/state"
	"github.com/llehouerou/wavedeck/internal/version"
)

// Resolver finds the library track behind a local path.
type Resolver interface {
	ByPath(ctx context.Context, path string) (*library.Item, error)
}

// Store appends history entries.
type Store interface {
	AddPlayHistory(ctx context.Context, e state.PlayHistoryEntry) error
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the recorder logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

// WithSessionID overrides the generated process session ID.
func WithSessionID(id string) Option {
	return func(r *Recorder) { r.sessionID = id }
}

// WithClock sets the time source used for PlayedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// Recorder turns end-of-track events into play history entries.
type Recorder struct {
	resolver Resolver
	store    Store
	logger   zerolog.Logger
	now      func() time.Time

	sessionID  string
	device     string
	appVersion string
}

// NewRecorder creates a recorder tagged with a fresh session ID, the host
// name and the running version.
func NewRecorder(resolver Resolver, store Store, opts ...Option) *Recorder {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	r := &Recorder{
		resolver:   resolver,
		store:      store,
		logger:     zlog.Logger.With().Str("component", "history").Logger(),
		now:        time.Now,
		sessionID:  uuid.NewString(),
		device:     host,
		appVersion: version.String(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// SessionID returns the ID attached to every entry of this process.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Start runs Run on a new goroutine. The returned channel is closed when it
// returns.
func (r *Recorder) Start(ctx context.Context, sub *player.Subscription) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(ctx, sub)
	}()
	return done
}

// Run consumes events until ctx ends or the subscription is closed.
func (r *Recorder) Run(ctx context.Context, sub *player.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case ev := <-sub.Events:
			if ev.Type == player.EventEndReached {
				r.Record(ctx, ev)
			}
		}
	}
}

// Record writes the entry for one end-of-track event. Tracks missing from
// the library are skipped.
func (r *Recorder) Record(ctx context.Context, ev player.Event) {
	path, err := localPath(ev.Path)
	if err != nil {
		metrics.HistoryEntries.WithLabelValues(metrics.ResultSkipped).Inc()
		r.logger.Warn().Err(err).Str("mrl", ev.Path).Msg("history: not a local track")
		return
	}

	item, err := r.resolver.ByPath(ctx, path)
	if err != nil {
		metrics.HistoryEntries.WithLabelValues(metrics.ResultSkipped).Inc()
		if errors.Is(err, library.ErrNotFound) {
			r.logger.Warn().Str("path", path).Msg("history: track not in library")
		} else {
			r.logger.Warn().Err(err).Str("path", path).Msg("history: resolve track")
		}
		return
	}

	total := item.Duration
	if total <= 0 {
		total = ev.Duration
	}
	played := ev.Position.Seconds()

	entry := state.PlayHistoryEntry{
		TrackID:       item.ID,
		Path:          item.Path,
		PlayedAt:      r.now(),
		SecondsPlayed: played,
		PercentPlayed: Percent(played, total.Seconds()),
		SessionID:     r.sessionID,
		Device:        r.device,
		OS:            runtime.GOOS + "/" + runtime.GOARCH,
		AppVersion:    r.appVersion,
	}
	if err := r.store.AddPlayHistory(ctx, entry); err != nil {
		metrics.HistoryEntries.WithLabelValues(metrics.ResultError).Inc()
		r.logger.Error().Err(err).Str("path", path).Msg("history: write entry")
		return
	}
	metrics.HistoryEntries.WithLabelValues(metrics.ResultOK).Inc()
	r.logger.Debug().Str("path", path).Float64("percent", entry.PercentPlayed).Msg("history: recorded")
}

// Percent returns played/total as a percentage clamped to [0, 100], and 0
// when total is not positive.
func Percent(played, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return min(max(played/total*100, 0), 100)
}

// localPath turns a file MRL into a local path. Plain paths pass through.
func localPath(mrl string) (string, error) {
	if !strings.Contains(mrl, "://") {
		return mrl, nil
	}
	u, err := url.Parse(mrl)
	if err != nil {
		return "", errors.Wrapf(err, "parse %q", mrl)
	}
	if u.Scheme != "file" {
		return "", errors.Newf("unsupported scheme %q", u.Scheme)
	}
	return player.LocalPath(mrl), nil
}
