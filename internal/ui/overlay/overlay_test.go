package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAt(t *testing.T) {
	base := "aaaaaaaa\nbbbbbbbb\ncccccccc"
	got := At(base, "XY\nZW", 2, 1, 8)
	assert.Equal(t, "aaaaaaaa\nbbXYbbbb\nccZWcccc", got)
}

func TestAt_PadsShortRows(t *testing.T) {
	assert.Equal(t, "ab Z ", At("ab", "Z", 3, 0, 5))
}

func TestAt_DropsRowsPastBase(t *testing.T) {
	assert.Equal(t, "..\nXX", At("..\n..", "XX\nYY", 0, 1, 2))
}

func TestAt_KeepsStyledNeighbours(t *testing.T) {
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
	base := red.Render("rrrrrr")
	got := At(base, "--", 2, 0, 6)
	assert.Equal(t, "rr--rr", ansi.Strip(got))
}

func TestCenter(t *testing.T) {
	base := strings.Repeat(strings.Repeat(".", 10)+"\n", 4) + strings.Repeat(".", 10)
	lines := strings.Split(ansi.Strip(Center(base, "HI", 10, 5)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "....HI....", lines[2])
	assert.Equal(t, "..........", lines[0])
}
