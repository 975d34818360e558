package beepengine

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/llehouerou/wavedeck/internal/engine"
)

// localPath resolves an MRL to a file system path. Only file URIs and bare
// paths are playable by this engine.
func localPath(mrl string) (string, error) {
	if !strings.Contains(mrl, "://") {
		return filepath.Clean(mrl), nil
	}
	u, err := url.Parse(mrl)
	if err != nil {
		return "", errors.Wrapf(err, "parse mrl %q", mrl)
	}
	if !strings.EqualFold(u.Scheme, "file") {
		return "", errors.Wrapf(engine.ErrUnsupported, "scheme %q", u.Scheme)
	}
	p := u.Path
	if runtime.GOOS == "windows" {
		// file:///C:/music/a.mp3 -> C:\music\a.mp3
		p = strings.TrimPrefix(p, "/")
		if u.Host != "" {
			p = `\\` + u.Host + "/" + p
		}
	}
	return filepath.FromSlash(p), nil
}
