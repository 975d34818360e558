//go:build windows

// Package stderr is a no-op on Windows, whose audio backend does not write
// to the process stderr.
package stderr

import (
	"os"

	"github.com/rs/zerolog"
)

// Capture is a no-op.
type Capture struct{}

// Start is a no-op on Windows.
func Start(zerolog.Logger) (*Capture, error) {
	return &Capture{}, nil
}

// WriteOriginal writes to stderr.
func (*Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Close is a no-op.
func (*Capture) Close() error { return nil }
