package beepengine

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// mp3Frame is one stereo 16-bit little-endian sample pair.
const mp3Frame = 4

// mp3Stream exposes a go-mp3 decoder as a beep.StreamSeekCloser. The
// decoder always produces 16-bit stereo.
type mp3Stream struct {
	dec *mp3.Decoder
	src io.Closer
	buf []byte
	err error
}

func decodeMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, errors.Wrap(err, "mp3 header")
	}
	rate := dec.SampleRate()
	if rate <= 0 {
		return nil, beep.Format{}, errors.Newf("mp3: invalid sample rate %d", rate)
	}
	format := beep.Format{SampleRate: beep.SampleRate(rate), NumChannels: 2, Precision: 2}
	return &mp3Stream{dec: dec, src: rc}, format, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil || len(samples) == 0 {
		return 0, false
	}
	if want := len(samples) * mp3Frame; cap(s.buf) < want {
		s.buf = make([]byte, want)
	}
	buf := s.buf[:len(samples)*mp3Frame]

	got, err := io.ReadFull(s.dec, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = errors.Wrap(err, "mp3 decode")
		return 0, false
	}
	n := got / mp3Frame
	for i := range n {
		frame := buf[i*mp3Frame:]
		samples[i][0] = pcm16(binary.LittleEndian.Uint16(frame))
		samples[i][1] = pcm16(binary.LittleEndian.Uint16(frame[2:]))
	}
	return n, n > 0
}

func pcm16(v uint16) float64 {
	return float64(int16(v)) / (1 << 15) //nolint:gosec // two's complement sample
}

func (s *mp3Stream) Err() error { return s.err }

func (s *mp3Stream) Len() int { return int(max(s.dec.SampleCount(), 0)) }

func (s *mp3Stream) Position() int { return int(s.dec.SamplePosition()) }

func (s *mp3Stream) Seek(p int) error {
	if err := s.dec.SeekToSample(int64(min(max(p, 0), s.Len()))); err != nil {
		return errors.Wrapf(err, "mp3 seek to %d", p)
	}
	s.err = nil
	return nil
}

func (s *mp3Stream) Close() error { return s.src.Close() }
