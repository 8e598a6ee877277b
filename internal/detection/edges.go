package detection

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/effect"
)

// edgeThreshold is the minimum luminance step, in 8-bit units, between a
// pixel and its right or lower neighbour for the pixel to count as an edge.
const edgeThreshold = 30.0

// detectEdges marks pixels whose forward difference in x or y exceeds
// edgeThreshold. The result is indexed [y][x] relative to img.Bounds().Min.
// Border pixels are never edges.
func detectEdges(img image.Image) [][]bool {
	// bild returns an RGBA image with R == G == B.
	gray := effect.Grayscale(img)
	gb := gray.Bounds()
	width, height := gb.Dx(), gb.Dy()

	lum := func(x, y int) float64 {
		return float64(gray.RGBAAt(gb.Min.X+x, gb.Min.Y+y).R)
	}

	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		if y == 0 || y == height-1 {
			continue
		}
		for x := 1; x < width-1; x++ {
			c := lum(x, y)
			dx := math.Abs(c - lum(x+1, y))
			dy := math.Abs(c - lum(x, y+1))
			if dx > edgeThreshold || dy > edgeThreshold {
				edges[y][x] = true
			}
		}
	}
	return edges
}
