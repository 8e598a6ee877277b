package imaging

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"github.com/ironsheep/line-grouping-mcp/internal/segments"
)

// DefaultStrokeWidth is the overlay line width used when none is given.
const DefaultStrokeWidth = 3.0

// DrawGroups returns a copy of img with every segment of every group
// stroked in that group's palette colour. Segments that belong to no group
// are not drawn. Segment coordinates are absolute image coordinates; the
// returned image starts at (0, 0).
func DrawGroups(img image.Image, segs []segments.Segment, groups []segments.Group, width float64) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("imaging: nil image")
	}
	if width <= 0 {
		width = DefaultStrokeWidth
	}
	for gi, g := range groups {
		for _, idx := range g {
			if idx < 0 || idx >= len(segs) {
				return nil, fmt.Errorf("group %d references segment %d of %d: %w",
					gi, idx, len(segs), segments.ErrIndexOutOfRange)
			}
		}
	}

	dc := gg.NewContextForImage(img)
	defer dc.Close()

	origin := img.Bounds().Min
	ox, oy := float64(origin.X), float64(origin.Y)

	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapRound)
	palette := PaletteFor(len(groups))
	for gi, g := range groups {
		dc.SetColor(palette[gi])
		for _, idx := range g {
			s := segs[idx]
			dc.DrawLine(s.X1-ox, s.Y1-oy, s.X2-ox, s.Y2-oy)
		}
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("failed to stroke group %d: %w", gi, err)
		}
	}

	return dc.Image(), nil
}
