//go:build !linux

package notify

// New returns a Notifier that does nothing; desktop notifications are only
// supported on Linux.
func New() (Notifier, error) {
	return nopNotifier{}, nil
}
