package engine

import "github.com/cockroachdb/errors"

// ErrUnsupported is returned for media the engine cannot decode.
var ErrUnsupported = errors.New("unsupported media")

// ErrClosed is returned when a handle is used after Close.
var ErrClosed = errors.New("engine handle closed")

// InitError reports that the native library could not be constructed.
// Nothing can be played without it, so callers treat it as fatal.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return "engine initialization failed: " + e.Err.Error()
}

func (e *InitError) Unwrap() error { return e.Err }

// NewInitError wraps err as an initialization failure.
func NewInitError(err error) error {
	if err == nil {
		return nil
	}
	return &InitError{Err: err}
}

// IsInitError reports whether err is (or wraps) an InitError.
func IsInitError(err error) bool {
	var ie *InitError
	return errors.As(err, &ie)
}
