// Package cover finds album art stored next to audio files.
package cover

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// names lists album art file names in priority order.
var names = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"album.jpg", "album.png", "album.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// Find returns the album art file in the track's directory, matching names
// case-insensitively, or "" when there is none or the track is remote.
func Find(trackPath string) string {
	if trackPath == "" || strings.Contains(trackPath, "://") {
		return ""
	}
	dir := filepath.Dir(trackPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	byName := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lower := strings.ToLower(e.Name())
		if _, dup := byName[lower]; !dup {
			byName[lower] = e.Name()
		}
	}
	for _, n := range names {
		if actual, ok := byName[n]; ok {
			return filepath.Join(dir, actual)
		}
	}
	return ""
}

// URL returns Find's result as a file URL, or "".
func URL(trackPath string) string {
	p := Find(trackPath)
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return ""
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}
