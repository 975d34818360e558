//go:build linux

package mpris

import (
	"context"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/events"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/llehouerou/wavedeck/internal/playback"
)

// busName is appended to org.mpris.MediaPlayer2.
const busName = "wavedeck"

// callTimeout bounds every playback call made on behalf of a D-Bus client.
const callTimeout = 5 * time.Second

// VolumeControl exposes the output volume in percent.
type VolumeControl interface {
	Volume() int
	SetVolume(ctx context.Context, v int) error
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithVolume lets D-Bus clients read and change the volume.
func WithVolume(v VolumeControl) Option {
	return func(a *Adapter) { a.player.volume = v }
}

// WithLogger sets the adapter logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// Adapter connects the playback service to MPRIS over D-Bus.
type Adapter struct {
	service playback.Service
	player  *playerAdapter
	server  *server.Server
	events  *events.EventHandler
	sub     *playback.Subscription
	logger  zerolog.Logger
	done    chan struct{}
	stopped chan struct{}
}

// New creates and starts an MPRIS adapter.
func New(service playback.Service, opts ...Option) (*Adapter, error) {
	a := &Adapter{
		service: service,
		player:  &playerAdapter{service: service},
		logger:  zlog.Logger.With().Str("component", "mpris").Logger(),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, o := range opts {
		o(a)
	}

	a.server = server.NewServer(busName, &rootAdapter{}, a.player)
	a.events = events.NewEventHandler(a.server)
	a.sub = service.Subscribe()

	go func() {
		if err := a.server.Listen(); err != nil {
			a.logger.Warn().Err(err).Msg("mpris server stopped")
		}
	}()
	go a.forward()

	return a, nil
}

// forward turns playback events into D-Bus property change signals.
func (a *Adapter) forward() {
	defer close(a.stopped)
	for {
		var err error
		select {
		case <-a.done:
			return
		case <-a.sub.Done:
			return
		case <-a.sub.StateChanged:
			err = a.events.Player.OnPlayPause()
		case <-a.sub.TrackChanged:
			err = a.events.Player.OnTitle()
		case <-a.sub.ModeChanged:
			err = a.events.Player.OnOptions()
		case <-a.sub.QueueChanged:
			err = a.events.Player.OnOptions()
		}
		if err != nil {
			a.logger.Debug().Err(err).Msg("emit property change")
		}
	}
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	close(a.done)
	<-a.stopped
	return a.server.Stop()
}
