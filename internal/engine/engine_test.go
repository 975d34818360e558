package engine

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaKey_String(t *testing.T) {
	tests := []struct {
		key  MetaKey
		want string
	}{
		{MetaTitle, "title"},
		{MetaArtist, "artist"},
		{MetaAlbum, "album"},
		{MetaKey(42), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()

	assert.False(t, o.HardwareDecode)
	assert.False(t, o.SubtitleAutodetect)
	assert.Equal(t, 300*time.Millisecond, o.FileCaching)
	assert.Equal(t, time.Second, o.NetworkCaching)
	assert.Equal(t, 44100, o.SampleRate)
}

func TestInitError(t *testing.T) {
	cause := errors.New("no audio device")
	err := errors.Wrap(NewInitError(cause), "open engine")

	assert.True(t, IsInitError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "no audio device")
	assert.False(t, IsInitError(cause))
}

func TestMockMedia_DurationOnlyAfterParse(t *testing.T) {
	lib := NewMockLibrary()
	lib.SetDuration("file:///a.mp3", 1500)
	m, err := lib.NewMedia("file:///a.mp3")
	require.NoError(t, err)

	assert.Zero(t, m.Duration())
	require.NoError(t, m.Parse(context.Background(), ParseOptions{}))
	assert.EqualValues(t, 1500, m.Duration())
}

func TestMockMedia_ParseError(t *testing.T) {
	lib := NewMockLibrary()
	want := errors.New("corrupt")
	lib.SetParseError("file:///bad.mp3", want)
	m, err := lib.NewMedia("file:///bad.mp3")
	require.NoError(t, err)

	assert.ErrorIs(t, m.Parse(context.Background(), ParseOptions{}), want)
}

func TestMockPlayer_RecordsCallsAndCallbacks(t *testing.T) {
	lib := NewMockLibrary()
	p, err := lib.NewPlayer()
	require.NoError(t, err)
	m, _ := lib.NewMedia("file:///a.mp3")
	mp := p.(*MockPlayer)

	ended := false
	p.OnEndReached(func() { ended = true })

	require.NoError(t, p.PlayMedia(m))
	p.Pause()
	require.NoError(t, p.Play())
	p.SetVolume(40)
	p.SetPosition(0.5)
	mp.SimulateEndReached()

	assert.Equal(t, []string{"play:file:///a.mp3", "pause", "resume", "volume:40", "position:0.5000"}, mp.Calls())
	assert.True(t, ended)
	assert.False(t, p.IsPlaying())
	assert.InDelta(t, 1.0, p.Position(), 1e-9)
}

func TestMockLibrary_ClosedRejectsHandles(t *testing.T) {
	lib := NewMockLibrary()
	require.NoError(t, lib.Close())

	_, err := lib.NewMedia("file:///a.mp3")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = lib.NewPlayer()
	assert.ErrorIs(t, err, ErrClosed)
}
