// Package app wires the engine, the queue, persistence and the optional
// desktop integration into one lifecycle.
package app

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/wavedeck/internal/config"
	"github.com/llehouerou/wavedeck/internal/dispatch"
	"github.com/llehouerou/wavedeck/internal/engine"
	"github.com/llehouerou/wavedeck/internal/engine/beepengine"
	"github.com/llehouerou/wavedeck/internal/history"
	"github.com/llehouerou/wavedeck/internal/library"
	"github.com/llehouerou/wavedeck/internal/mpris"
	"github.com/llehouerou/wavedeck/internal/playback"
	"github.com/llehouerou/wavedeck/internal/player"
	"github.com/llehouerou/wavedeck/internal/playlist"
	"github.com/llehouerou/wavedeck/internal/session"
	"github.com/llehouerou/wavedeck/internal/state"
)

// App owns every long-lived component. Close releases them in reverse
// order of creation.
type App struct {
	cfg    *config.Config
	logger zerolog.Logger

	store    *state.Manager
	library  *library.Library
	engine   engine.Library
	player   *player.Service
	playback playback.Service
	recorder *history.Recorder
	session  *session.Manager
	mpris    *mpris.Adapter

	// release frees what New opened beyond the services: the dispatcher
	// loop, the engine and the store.
	release func() error

	cancel  context.CancelFunc
	workers sync.WaitGroup
	once    sync.Once
}

// New opens the state store and the audio engine and starts every service.
// An engine that cannot be initialised is returned as *engine.InitError.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := state.Open(cfg.State.DBFile)
	if err != nil {
		return nil, errors.Wrap(err, "open state")
	}
	lib, err := beepengine.Open(cfg.EngineOptions())
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	loop := dispatch.NewLoop()
	release := func() error {
		loop.Close()
		return errors.CombineErrors(lib.Close(), store.Close())
	}

	a, err := build(ctx, cfg, store, lib, loop)
	if err != nil {
		_ = release()
		return nil, err
	}
	a.release = release
	return a, nil
}

// build assembles the services over an already opened store, engine and
// dispatcher. The caller keeps ownership of those three.
func build(
	ctx context.Context,
	cfg *config.Config,
	store *state.Manager,
	lib engine.Library,
	disp dispatch.Dispatcher,
) (*App, error) {
	a := &App{
		cfg:     cfg,
		logger:  zlog.Logger.With().Str("component", "app").Logger(),
		store:   store,
		library: library.New(store.DB()),
		engine:  lib,
		release: func() error { return nil },
	}

	a.player = player.New(lib, disp,
		player.WithVolumeStore(store),
		player.WithVolumeDebounce(cfg.VolumeDebounce()),
	)
	if err := a.player.Start(ctx); err != nil {
		_ = a.player.Close()
		return nil, err
	}

	a.playback = playback.New(a.player, playlist.NewQueue(),
		playback.WithPollInterval(cfg.PollInterval()),
		playback.WithRepeatMode(cfg.RepeatMode()),
	)
	a.recorder = history.NewRecorder(a.library, store)

	sessionOpts := []session.Option{session.WithRestoreTimeout(cfg.RestoreTimeout())}
	if cfg.Session.File != "" {
		sessionOpts = append(sessionOpts, session.WithPath(cfg.Session.File))
	}
	a.session = session.NewManager(a.playback, a.player, a.library, store, sessionOpts...)

	runCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	recorderDone := a.recorder.Start(runCtx, a.player.Subscribe())
	a.workers.Go(func() { <-recorderDone })
	a.startPreloader(runCtx)

	if cfg.Notify.Enabled {
		a.startNotifier(runCtx)
	}
	if cfg.MPRIS.Enabled {
		adapter, err := mpris.New(a.playback, mpris.WithVolume(a.player))
		if err != nil {
			a.logger.Warn().Err(err).Msg("mpris unavailable")
		} else {
			a.mpris = adapter
		}
	}

	a.logger.Info().
		Str("session_file", a.session.Path()).
		Str("history_session", a.recorder.SessionID()).
		Msg("started")
	return a, nil
}

// Playback returns the queue service.
func (a *App) Playback() playback.Service { return a.playback }

// Player returns the engine service.
func (a *App) Player() *player.Service { return a.player }

// Session returns the session manager.
func (a *App) Session() *session.Manager { return a.session }

// Restore replays the saved session.
func (a *App) Restore(ctx context.Context) {
	a.session.RestoreState(ctx)
}

// Save writes the session file.
func (a *App) Save(ctx context.Context) {
	a.session.SaveState(ctx)
}

// Close saves the session, stops playback and releases everything. It is
// safe to call more than once.
func (a *App) Close(ctx context.Context) error {
	var errs error
	a.once.Do(func() {
		a.session.SaveState(ctx)

		if a.mpris != nil {
			errs = errors.CombineErrors(errs, a.mpris.Close())
		}
		a.cancel()
		errs = errors.CombineErrors(errs, a.playback.Close())
		errs = errors.CombineErrors(errs, a.player.Close())
		a.workers.Wait()
		errs = errors.CombineErrors(errs, a.release())

		a.logger.Info().Msg("stopped")
	})
	return errs
}
