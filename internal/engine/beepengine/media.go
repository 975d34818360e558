package beepengine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/wavedeck/internal/engine"
)

// Media is one decoded track. The decoder is opened by Parse and released by
// Close; players only borrow it.
type Media struct {
	mu       sync.Mutex
	mrl      string
	path     string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	tags     tag.Metadata
	duration int64
	closed   bool
}

// Parse opens and decodes the file header, reads tags and computes the
// duration. It is CPU and IO bound and must not run on the engine thread.
func (m *Media) Parse(ctx context.Context, opts engine.ParseOptions) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return engine.ErrClosed
	}
	if m.streamer != nil {
		return nil
	}

	ext := strings.ToLower(filepath.Ext(m.path))
	if !isSupported(ext) {
		return errors.Wrapf(engine.ErrUnsupported, "format %q", ext)
	}

	f, err := os.Open(m.path)
	if err != nil {
		return errors.Wrap(err, "open media")
	}

	// Tags are optional; a file without them still plays.
	if md, tagErr := tag.ReadFrom(f); tagErr == nil {
		m.tags = md
	}
	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return errors.Wrap(err, "rewind media")
	}

	streamer, format, err := decode(f, ext)
	if err != nil {
		f.Close()
		return errors.Wrapf(err, "decode %s", filepath.Base(m.path))
	}

	if err := ctx.Err(); err != nil {
		streamer.Close()
		f.Close()
		return err
	}

	m.file = f
	m.streamer = streamer
	m.format = format
	m.duration = format.SampleRate.D(streamer.Len()).Milliseconds()
	return nil
}

// Duration returns the length in milliseconds, 0 until parsed.
func (m *Media) Duration() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// MRL returns the locator this media was created from.
func (m *Media) MRL() string { return m.mrl }

// Meta reads a tag from the parsed file.
func (m *Media) Meta(key engine.MetaKey) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", engine.ErrClosed
	}
	if m.tags == nil {
		return "", nil
	}
	switch key {
	case engine.MetaTitle:
		return m.tags.Title(), nil
	case engine.MetaArtist:
		return m.tags.Artist(), nil
	case engine.MetaAlbum:
		return m.tags.Album(), nil
	default:
		return "", errors.Newf("unknown meta key %d", key)
	}
}

// Close releases the decoder and the file.
func (m *Media) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	if m.streamer != nil {
		err = m.streamer.Close()
		m.streamer = nil
	}
	if m.file != nil {
		// go-mp3 closes the file through the decoder already.
		_ = m.file.Close()
		m.file = nil
	}
	return err
}

func (m *Media) stream() (beep.StreamSeeker, beep.Format, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, beep.Format{}, engine.ErrClosed
	}
	if m.streamer == nil {
		return nil, beep.Format{}, errors.New("media not parsed")
	}
	return m.streamer, m.format, nil
}

// Verify Media implements engine.Media at compile time.
var _ engine.Media = (*Media)(nil)
