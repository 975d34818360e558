// Package beepengine implements the engine contract on top of the beep
// speaker and its codecs. The speaker is process-wide; every Player adds its
// own control chain to the shared mixer.
package beepengine

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/wavedeck/internal/engine"
)

// Library owns the initialized speaker.
type Library struct {
	mu         sync.Mutex
	opts       engine.Options
	sampleRate beep.SampleRate
	closed     bool
}

var speakerInit = speaker.Init

// Open initializes the speaker. The buffer size follows the file caching
// window; failures are reported as *engine.InitError.
func Open(opts engine.Options) (*Library, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = engine.DefaultOptions().SampleRate
	}
	if opts.FileCaching <= 0 {
		opts.FileCaching = engine.DefaultOptions().FileCaching
	}
	if opts.HardwareDecode {
		return nil, engine.NewInitError(errors.New("hardware decoding is not available"))
	}

	sr := beep.SampleRate(opts.SampleRate)
	if err := speakerInit(sr, bufferSize(sr, opts.FileCaching)); err != nil {
		return nil, engine.NewInitError(errors.Wrap(err, "init speaker"))
	}
	return &Library{opts: opts, sampleRate: sr}, nil
}

func bufferSize(sr beep.SampleRate, window time.Duration) int {
	n := sr.N(window)
	if n < 1 {
		n = 1
	}
	return n
}

// NewMedia creates an unparsed media for mrl.
func (l *Library) NewMedia(mrl string) (engine.Media, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	path, err := localPath(mrl)
	if err != nil {
		return nil, err
	}
	return &Media{mrl: mrl, path: path}, nil
}

// NewPlayer creates a player attached to the shared speaker.
func (l *Library) NewPlayer() (engine.Player, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	return &Player{lib: l, level: 100}, nil
}

// Close shuts the speaker down.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	speaker.Close()
	return nil
}

func (l *Library) check() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return engine.ErrClosed
	}
	return nil
}

// Verify Library implements engine.Library at compile time.
var _ engine.Library = (*Library)(nil)
