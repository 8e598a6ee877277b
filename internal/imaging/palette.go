package imaging

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// goldenAngle spreads consecutive hues so neighbouring group indices never
// get similar colours.
const goldenAngle = 137.50776405

// PaletteFor returns n visually distinct opaque colours. Colour i depends
// only on i, so a group keeps its colour when more groups are added.
func PaletteFor(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	out := make([]color.Color, n)
	for i := range out {
		hue := math.Mod(float64(i)*goldenAngle, 360)
		// Alternate value bands so hues that wrap close together still differ.
		value := 0.95
		if i%2 == 1 {
			value = 0.75
		}
		c := colorful.Hsv(hue, 0.85, value).Clamped()
		r, g, b := c.RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}
