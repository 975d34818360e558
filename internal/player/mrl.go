package player

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	schemeRe    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)
	driveRe     = regexp.MustCompile(`^[A-Za-z]:[\\/]`)
	errEmptyMRL = errors.New("empty path")
)

// MRL turns a track path into the resource locator handed to the engine.
//
// Strings that already carry a URI scheme are returned unchanged. Local paths
// are made absolute and rendered as file:// URIs with every segment escaped;
// Windows drive paths become file:///C:/...
func MRL(path string) (string, error) {
	if path == "" {
		return "", errEmptyMRL
	}
	if schemeRe.MatchString(path) {
		return path, nil
	}

	if driveRe.MatchString(path) {
		return fileURI("/" + strings.ReplaceAll(path, `\`, "/")), nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %q", path)
	}
	return fileURI(filepath.ToSlash(abs)), nil
}

func fileURI(slashed string) string {
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String()
}

// LocalPath reverses MRL for file:// locators. Other strings are returned
// unchanged.
func LocalPath(mrl string) string {
	if !strings.HasPrefix(mrl, "file://") {
		return mrl
	}
	u, err := url.Parse(mrl)
	if err != nil {
		return strings.TrimPrefix(mrl, "file://")
	}
	p := u.Path
	if driveRe.MatchString(strings.TrimPrefix(p, "/")) {
		p = strings.TrimPrefix(p, "/")
	}
	return p
}
