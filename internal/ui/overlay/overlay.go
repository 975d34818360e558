// Package overlay draws popups on top of a rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Center draws box over the middle of base, a view of width by height cells.
func Center(base, box string, width, height int) string {
	lines := strings.Split(box, "\n")
	boxWidth := 0
	for _, l := range lines {
		boxWidth = max(boxWidth, ansi.StringWidth(l))
	}
	x := max((width-boxWidth)/2, 0)
	y := max((height-len(lines))/2, 0)
	return At(base, box, x, y, width)
}

// At draws box with its top-left corner at column x, row y of base. Styled
// text on either side keeps its escape sequences. Rows past the end of base
// are dropped.
func At(base, box string, x, y, width int) string {
	rows := strings.Split(base, "\n")
	for i, line := range strings.Split(box, "\n") {
		r := y + i
		if r >= len(rows) {
			break
		}
		rows[r] = splice(rows[r], line, x, width)
	}
	return strings.Join(rows, "\n")
}

func splice(row, cells string, x, width int) string {
	if w := ansi.StringWidth(row); w < width {
		row += strings.Repeat(" ", width-w)
	}
	end := x + ansi.StringWidth(cells)
	out := ansi.Cut(row, 0, x) + cells
	if end < width {
		out += ansi.Cut(row, end, width)
	}
	return out
}
