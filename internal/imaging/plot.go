package imaging

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ironsheep/line-grouping-mcp/internal/segments"
)

// plotDPI is the resolution gonum/plot renders PNGs at.
const plotDPI = 96

// PlotGroups renders the groups as a PNG chart in segment coordinates, one
// colour per group from PaletteFor. The y axis points down to match image
// coordinates. width and height are in pixels.
func PlotGroups(segs []segments.Segment, groups []segments.Group, width, height int) ([]byte, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("imaging: plot size %dx%d must be positive", width, height)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d segment groups", len(groups))
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.Add(plotter.NewGrid())

	palette := PaletteFor(len(groups))
	for gi, g := range groups {
		for k, idx := range g {
			if idx < 0 || idx >= len(segs) {
				return nil, fmt.Errorf("group %d references segment %d of %d: %w",
					gi, idx, len(segs), segments.ErrIndexOutOfRange)
			}
			s := segs[idx]
			line, err := plotter.NewLine(plotter.XYs{{X: s.X1, Y: s.Y1}, {X: s.X2, Y: s.Y2}})
			if err != nil {
				return nil, fmt.Errorf("failed to plot segment %d: %w", idx, err)
			}
			line.Color = palette[gi]
			line.Width = vg.Points(1.5)
			p.Add(line)
			if k == 0 && len(groups) <= 20 {
				p.Legend.Add(fmt.Sprintf("group %d", gi), line)
			}
		}
	}

	w := vg.Length(width) * vg.Inch / plotDPI
	h := vg.Length(height) * vg.Inch / plotDPI
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render plot: %w", err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode plot: %w", err)
	}
	return buf.Bytes(), nil
}
