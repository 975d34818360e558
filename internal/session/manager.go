package session

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/wavedeck/internal/library"
	"github.com/llehouerou/wavedeck/internal/metrics"
	"github.com/llehouerou/wavedeck/internal/playback"
	"github.com/llehouerou/wavedeck/internal/player"
)

const defaultRestoreTimeout = 2 * time.Second

// Queue is the part of the playback queue service a session is saved from
// and replayed into.
type Queue interface {
	QueueTracks() []playback.Track
	QueueCurrentIndex() int
	Position() time.Duration
	Enqueue(tracks ...playback.Track)
	MoveTo(index int) bool
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	SetPosition(ctx context.Context, position time.Duration) error
}

// Engine reports when the restored track is actually playing.
type Engine interface {
	Subscribe() *player.Subscription
	Unsubscribe(sub *player.Subscription)
}

// Library resolves saved paths to library tracks.
type Library interface {
	Existing(ctx context.Context, paths []string) (map[string]library.Item, error)
}

// MarkerStore records where the last session was saved.
type MarkerStore interface {
	SaveLastSession(marker string) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithPath sets the session file location.
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.path = path
		}
	}
}

// WithRestoreTimeout bounds the wait for the engine to acknowledge playback
// during RestoreState.
func WithRestoreTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.restoreTimeout = d
		}
	}
}

// WithLogger sets the manager logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// Manager saves and restores the listening session.
type Manager struct {
	queue   Queue
	engine  Engine
	lib     Library
	markers MarkerStore

	path           string
	restoreTimeout time.Duration
	logger         zerolog.Logger
}

// NewManager creates a session manager. markers may be nil.
func NewManager(queue Queue, eng Engine, lib Library, markers MarkerStore, opts ...Option) *Manager {
	m := &Manager{
		queue:          queue,
		engine:         eng,
		lib:            lib,
		markers:        markers,
		restoreTimeout: defaultRestoreTimeout,
		logger:         zlog.Logger.With().Str("component", "session").Logger(),
	}
	for _, o := range opts {
		o(m)
	}
	if m.path == "" {
		p, err := DefaultPath()
		if err != nil {
			m.logger.Warn().Err(err).Msg("resolve default session path")
			p = filepath.Join(os.TempDir(), "wavedeck-session.txt")
		}
		m.path = p
	}
	return m
}

// DefaultPath returns the session file under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join("wavedeck", "session.txt"))
}

// Path returns the session file location.
func (m *Manager) Path() string {
	return m.path
}

// SaveState writes the queue, cursor and playhead. Failures are logged.
func (m *Manager) SaveState(_ context.Context) {
	tracks := m.queue.QueueTracks()
	rec := Record{
		Paths:    make([]string, len(tracks)),
		Index:    m.queue.QueueCurrentIndex(),
		Position: m.queue.Position(),
	}
	for i, t := range tracks {
		rec.Paths[i] = t.Path
	}

	if err := m.write(rec); err != nil {
		metrics.SessionSaves.WithLabelValues(metrics.ResultError).Inc()
		m.logger.Error().Err(err).Str("path", m.path).Msg("save session")
		return
	}
	metrics.SessionSaves.WithLabelValues(metrics.ResultOK).Inc()
	m.logger.Debug().Int("tracks", len(rec.Paths)).Int("index", rec.Index).
		Dur("position", rec.Position).Msg("session saved")

	if m.markers != nil {
		if err := m.markers.SaveLastSession(m.path); err != nil {
			m.logger.Warn().Err(err).Msg("record last session")
		}
	}
}

// write replaces the session file atomically.
func (m *Manager) write(rec Record) error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create session directory")
	}
	f, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := Encode(f, rec); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	return errors.Wrap(os.Rename(tmp, m.path), "replace session file")
}

// RestoreState replays the saved session: the queue is rebuilt from the
// paths still in the library, the saved track is started, and once the
// engine reports it playing it is paused at the saved position.
// Failures are logged.
func (m *Manager) RestoreState(ctx context.Context) {
	rec, err := m.read()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return
	case err != nil:
		m.logger.Warn().Err(err).Str("path", m.path).Msg("read session")
		return
	}
	if len(rec.Paths) == 0 {
		return
	}

	found, err := m.lib.Existing(ctx, rec.Paths)
	if err != nil {
		m.logger.Warn().Err(err).Msg("resolve session tracks")
		return
	}
	tracks, index := resolve(rec, found)
	if dropped := len(rec.Paths) - len(tracks); dropped > 0 {
		m.logger.Info().Int("dropped", dropped).Msg("session tracks no longer in library")
	}
	if len(tracks) == 0 {
		return
	}

	m.queue.Enqueue(tracks...)
	if index < 0 || !m.queue.MoveTo(index) {
		return
	}

	sub := m.engine.Subscribe()
	defer m.engine.Unsubscribe(sub)

	if err := m.queue.Play(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("restore playback")
		return
	}
	if !m.awaitPlaying(ctx, sub) {
		return
	}
	if err := m.queue.Pause(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("pause restored track")
	}
	if rec.Position > 0 {
		if err := m.queue.SetPosition(ctx, rec.Position); err != nil {
			m.logger.Warn().Err(err).Msg("seek restored track")
		}
	}
}

// awaitPlaying waits for the engine to report playback. A timeout is logged
// and treated as acknowledged; a cancelled context or a closed engine is not.
func (m *Manager) awaitPlaying(ctx context.Context, sub *player.Subscription) bool {
	timer := time.NewTimer(m.restoreTimeout)
	defer timer.Stop()
	for {
		select {
		case ev := <-sub.Events:
			if ev.Type == player.EventPlaying {
				return true
			}
		case <-timer.C:
			m.logger.Warn().Dur("timeout", m.restoreTimeout).Msg("engine did not confirm playback")
			return true
		case <-sub.Done:
			return false
		case <-ctx.Done():
			return false
		}
	}
}

func (m *Manager) read() (Record, error) {
	f, err := os.Open(m.path)
	if err != nil {
		return Record{}, err
	}
	defer f.Close()
	return Decode(f)
}

// resolve keeps the saved paths found in the library, in order, and maps the
// saved cursor onto the survivors. When the saved track was dropped the
// cursor moves to the next survivor, or the last one.
func resolve(rec Record, found map[string]library.Item) ([]playback.Track, int) {
	tracks := make([]playback.Track, 0, len(rec.Paths))
	index := -1
	for i, p := range rec.Paths {
		it, ok := found[p]
		if !ok {
			continue
		}
		if index < 0 && rec.Index >= 0 && i >= rec.Index {
			index = len(tracks)
		}
		tracks = append(tracks, playback.Track{
			ID:       it.ID,
			Path:     it.Path,
			Title:    it.Title,
			Artist:   it.Artist,
			Album:    it.Album,
			Duration: it.Duration,
		})
	}
	if index < 0 && rec.Index >= 0 && len(tracks) > 0 {
		index = len(tracks) - 1
	}
	return tracks, index
}
