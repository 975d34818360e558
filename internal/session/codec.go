// Package session saves and restores the listening session: the queue, the
// cursor and the playhead.
//
// The file is UTF-8 text, one escaped path per line followed by two marker
// lines:
//
//	/music/a.mp3
//	/music/b.mp3
//	__INDEX__:1
//	__POSITION__:42.5
package session

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	markerPrefix   = "__"
	indexMarker    = "__INDEX__:"
	positionMarker = "__POSITION__:"
	maxLineBytes   = 1 << 20
)

// ErrMalformed is returned by Decode for input it cannot interpret.
var ErrMalformed = errors.New("malformed session file")

// Record is the persisted form of a session.
type Record struct {
	Paths    []string
	Index    int
	Position time.Duration
}

// Encode writes r to w.
func Encode(w io.Writer, r Record) error {
	bw := bufio.NewWriter(w)
	for _, p := range r.Paths {
		bw.WriteString(escape(p))
		bw.WriteByte('\n')
	}
	bw.WriteString(indexMarker + strconv.Itoa(r.Index) + "\n")
	bw.WriteString(positionMarker + strconv.FormatFloat(r.Position.Seconds(), 'f', -1, 64) + "\n")
	return errors.Wrap(bw.Flush(), "write session")
}

// Decode reads a record written by Encode. Both markers are required.
func Decode(r io.Reader) (Record, error) {
	var (
		rec              Record
		hasIndex, hasPos bool
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, indexMarker):
			n, err := strconv.Atoi(strings.TrimSpace(line[len(indexMarker):]))
			if err != nil {
				return Record{}, errors.Wrapf(ErrMalformed, "index %q", line)
			}
			rec.Index, hasIndex = n, true
		case strings.HasPrefix(line, positionMarker):
			sec, err := strconv.ParseFloat(strings.TrimSpace(line[len(positionMarker):]), 64)
			if err != nil || sec < 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
				return Record{}, errors.Wrapf(ErrMalformed, "position %q", line)
			}
			rec.Position = time.Duration(sec * float64(time.Second))
			hasPos = true
		case strings.HasPrefix(line, markerPrefix):
			// Unknown marker from a newer writer.
			continue
		default:
			rec.Paths = append(rec.Paths, unescape(line))
		}
	}
	if err := sc.Err(); err != nil {
		return Record{}, errors.Wrap(err, "read session")
	}
	if !hasIndex || !hasPos {
		return Record{}, errors.Wrap(ErrMalformed, "missing marker")
	}
	return rec, nil
}

// escape makes p safe to store on one line and keeps it from being read as
// a marker.
func escape(p string) string {
	var b strings.Builder
	if strings.HasPrefix(p, markerPrefix) {
		b.WriteByte('\\')
	}
	for _, r := range p {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unescape(line string) string {
	if !strings.ContainsRune(line, '\\') {
		return line
	}
	var b strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c != '\\' || i == len(line)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch line[i] {
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		default:
			b.WriteByte(line[i])
		}
	}
	return b.String()
}
