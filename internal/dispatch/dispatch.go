// Package dispatch provides the single choke point through which every
// mutating engine call passes.
package dispatch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrClosed is returned by Do after the dispatcher has been closed.
var ErrClosed = errors.New("dispatcher closed")

// Dispatcher runs functions on the engine's required thread.
type Dispatcher interface {
	// Do runs fn on the engine thread and returns its error. fn must not
	// call Do itself.
	Do(ctx context.Context, fn func() error) error
}

type call struct {
	fn   func() error
	done chan error
}

// Loop is a Dispatcher backed by one goroutine locked to its OS thread.
type Loop struct {
	calls   chan call
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewLoop starts the engine thread.
func NewLoop() *Loop {
	l := &Loop{
		calls:   make(chan call),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(l.stopped)

	for {
		select {
		case c := <-l.calls:
			c.done <- safeCall(c.fn)
		case <-l.quit:
			return
		}
	}
}

// Do enqueues fn and waits for it. If ctx ends before fn is picked up, fn is
// never run; once running, Do waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	c := call{fn: fn, done: make(chan error, 1)}
	select {
	case l.calls <- c:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.quit:
		return ErrClosed
	}
	return <-c.done
}

// Close stops the engine thread after the running call, if any.
func (l *Loop) Close() {
	l.once.Do(func() {
		close(l.quit)
		<-l.stopped
	})
}

// Inline runs functions synchronously on the caller's goroutine. It stands in
// for Loop in unit tests.
type Inline struct{}

func (Inline) Do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return safeCall(fn)
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("engine call panicked: %s", fmt.Sprint(r))
		}
	}()
	return fn()
}

var (
	_ Dispatcher = (*Loop)(nil)
	_ Dispatcher = Inline{}
)
