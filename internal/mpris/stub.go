//go:build !linux

package mpris

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/llehouerou/wavedeck/internal/playback"
)

// VolumeControl exposes the output volume in percent.
type VolumeControl interface {
	Volume() int
	SetVolume(ctx context.Context, v int) error
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithVolume is a no-op on non-Linux platforms.
func WithVolume(VolumeControl) Option { return func(*Adapter) {} }

// WithLogger is a no-op on non-Linux platforms.
func WithLogger(zerolog.Logger) Option { return func(*Adapter) {} }

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ playback.Service, _ ...Option) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
