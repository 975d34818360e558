//go:build !windows

// Package stderr captures output that native audio libraries (ALSA through
// the speaker backend) write straight to file descriptor 2, bypassing
// os.Stderr. The lines are forwarded to the logger so they cannot corrupt
// the terminal UI.
package stderr

import (
	"os"
	"sync"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Capture redirects fd 2 until Close.
type Capture struct {
	origStderr int
	pipeRead   *os.File
	pipeWrite  *os.File
	done       chan struct{}
	once       sync.Once
}

// Start begins forwarding stderr to log.
// Must be called before the audio engine is initialised. On error the
// program can continue; native messages then reach the original stderr.
func Start(log zerolog.Logger) (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, errors.Wrap(err, "create pipe")
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, errors.Wrap(err, "dup stderr")
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, errors.Wrap(err, "redirect stderr")
	}

	c := &Capture{origStderr: orig, pipeRead: r, pipeWrite: w, done: make(chan struct{})}
	go func() {
		defer close(c.done)
		forward(r, log)
	}()
	return c, nil
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// Useful for fatal errors that must be visible even if the UI is running.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = syscall.Write(c.origStderr, []byte(msg))
}

// Close restores the original stderr and waits for the forwarder.
func (c *Capture) Close() error {
	c.once.Do(func() {
		_ = syscall.Dup2(c.origStderr, int(os.Stderr.Fd()))
		_ = syscall.Close(c.origStderr)
		c.pipeWrite.Close()
		<-c.done
		c.pipeRead.Close()
	})
	return nil
}
