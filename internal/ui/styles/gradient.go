package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

var gray = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

// Gradient colors each grapheme of text along the given stops, blended in
// HCL. With a single grapheme or a single stop the first stop is used.
func Gradient(text string, bold bool, stops ...lipgloss.Color) string {
	if text == "" || len(stops) == 0 {
		return text
	}
	style := lipgloss.NewStyle().Bold(bold)

	var clusters []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	if len(clusters) == 1 || len(stops) == 1 {
		return style.Foreground(stops[0]).Render(text)
	}

	var b strings.Builder
	for i, c := range ramp(len(clusters), stops) {
		b.WriteString(style.Foreground(lipgloss.Color(c.Hex())).Render(clusters[i]))
	}
	return b.String()
}

// ramp spreads n colors over the segments between consecutive stops.
func ramp(n int, stops []lipgloss.Color) []colorful.Color {
	points := make([]colorful.Color, len(stops))
	for i, s := range stops {
		points[i] = toColorful(s)
	}
	if n == 1 || len(points) == 1 {
		return []colorful.Color{points[0]}
	}

	out := make([]colorful.Color, n)
	segments := float64(len(points) - 1)
	for i := range n {
		pos := float64(i) / float64(n-1) * segments
		seg := min(int(pos), len(points)-2)
		switch frac := pos - float64(seg); frac {
		case 0:
			out[i] = points[seg]
		case 1:
			out[i] = points[seg+1]
		default:
			out[i] = points[seg].BlendHcl(points[seg+1], frac).Clamped()
		}
	}
	return out
}

func toColorful(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return gray
	}
	return col
}
