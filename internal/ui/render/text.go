// Package render fits tag text into fixed terminal columns.
package render

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Sanitize makes tag text safe to print: invalid UTF-8 and control
// characters other than tab are removed and non-breaking spaces become
// plain spaces.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u00a0':
			return ' '
		case r == '\t':
			return r
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
}

// Truncate cuts s to width columns, marking the cut with "...".
func Truncate(s string, width int) string {
	return runewidth.Truncate(Sanitize(s), width, "...")
}

// TruncateEllipsis cuts s to width columns, marking the cut with "…".
// Wide runes are never split.
func TruncateEllipsis(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(Sanitize(s), width, "…")
}

// Pad right-fills s with spaces up to width columns.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// TruncateAndPad returns s at exactly width columns.
func TruncateAndPad(s string, width int) string {
	return Pad(Truncate(s, width), width)
}

// Separator is a horizontal rule width columns wide.
func Separator(width int) string {
	return strings.Repeat("─", max(width, 0))
}

// EmptyLine is width columns of spaces.
func EmptyLine(width int) string {
	return strings.Repeat(" ", max(width, 0))
}
