package session

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Format(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, Record{
		Paths:    []string{"/music/x.mp3", "/music/y.mp3"},
		Index:    1,
		Position: 42500 * time.Millisecond,
	})
	require.NoError(t, err)

	want := "/music/x.mp3\n/music/y.mp3\n__INDEX__:1\n__POSITION__:42.5\n"
	assert.Equal(t, want, buf.String())
}

func TestEncode_EmptyQueue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Record{Index: -1}))
	assert.Equal(t, "__INDEX__:-1\n__POSITION__:0\n", buf.String())
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"plain", Record{Paths: []string{"/a.mp3", "/b.flac"}, Index: 0, Position: 3 * time.Second}},
		{"newline in name", Record{Paths: []string{"/odd\nname.mp3"}, Index: 0}},
		{"carriage return", Record{Paths: []string{"/odd\rname.mp3"}, Index: 0}},
		{"backslashes", Record{Paths: []string{`C:\Music\a.mp3`, `\\server\share\b.mp3`}, Index: 1}},
		{"marker lookalike", Record{Paths: []string{"__INDEX__:7", "__weird.mp3"}, Index: 1, Position: time.Second}},
		{"unicode", Record{Paths: []string{"/musique/été à Paris.ogg"}, Index: 0, Position: 1250 * time.Millisecond}},
		{"no cursor", Record{Paths: []string{"/a.mp3"}, Index: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, tt.rec))
			got, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, tt.rec.Paths, got.Paths)
			assert.Equal(t, tt.rec.Index, got.Index)
			assert.Equal(t, tt.rec.Position, got.Position)
		})
	}
}

func TestEncode_EscapedLinesStayOnOneLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Record{Paths: []string{"a\nb", "__x"}, Index: 0}))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{`a\nb`, `\__x`, "__INDEX__:0", "__POSITION__:0"}, lines)
}

func TestDecode_CRLFAndBlankLines(t *testing.T) {
	in := "/a.mp3\r\n\r\n/b.mp3\r\n__INDEX__:1\r\n__POSITION__:2.25\r\n"
	got, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.mp3", "/b.mp3"}, got.Paths)
	assert.Equal(t, 1, got.Index)
	assert.Equal(t, 2250*time.Millisecond, got.Position)
}

func TestDecode_UnknownEscapeKeepsCharacter(t *testing.T) {
	got, err := Decode(strings.NewReader("/a\\qb.mp3\n__INDEX__:0\n__POSITION__:0\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"/aqb.mp3"}, got.Paths)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"missing index", "/a.mp3\n__POSITION__:1\n"},
		{"missing position", "/a.mp3\n__INDEX__:0\n"},
		{"bad index", "/a.mp3\n__INDEX__:one\n__POSITION__:1\n"},
		{"bad position", "/a.mp3\n__INDEX__:0\n__POSITION__:1,5\n"},
		{"negative position", "/a.mp3\n__INDEX__:0\n__POSITION__:-3\n"},
		{"NaN position", "/a.mp3\n__INDEX__:0\n__POSITION__:NaN\n"},
		{"infinite position", "/a.mp3\n__INDEX__:0\n__POSITION__:+Inf\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}
