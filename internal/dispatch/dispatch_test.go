package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsEveryCall(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var (
		mu    sync.Mutex
		order []int
	)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Do(context.Background(), func() error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Len(t, order, 20)
}

func TestLoop_CallsAreSerialized(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Do(context.Background(), func() error {
				mu.Lock()
				active++
				maxActive = max(maxActive, active)
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive)
}

func TestLoop_ReturnsError(t *testing.T) {
	l := NewLoop()
	defer l.Close()
	want := errors.New("boom")

	err := l.Do(context.Background(), func() error { return want })

	assert.ErrorIs(t, err, want)
}

func TestLoop_RecoversPanic(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	err := l.Do(context.Background(), func() error { panic("native crash") })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "native crash")

	// The loop survives.
	assert.NoError(t, l.Do(context.Background(), func() error { return nil }))
}

func TestLoop_CanceledContextSkipsCall(t *testing.T) {
	l := NewLoop()
	defer l.Close()

	block := make(chan struct{})
	go func() {
		_ = l.Do(context.Background(), func() error {
			<-block
			return nil
		})
	}()
	// Wait until the blocking call occupies the loop.
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ran := false
	err := l.Do(ctx, func() error {
		ran = true
		return nil
	})
	close(block)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
}

func TestLoop_DoAfterClose(t *testing.T) {
	l := NewLoop()
	l.Close()
	l.Close()

	err := l.Do(context.Background(), func() error { return nil })

	assert.ErrorIs(t, err, ErrClosed)
}

func TestInline_RunsSynchronously(t *testing.T) {
	ran := false

	err := Inline{}.Do(context.Background(), func() error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
}

func TestInline_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Inline{}.Do(ctx, func() error {
		t.Fatal("must not run")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}
