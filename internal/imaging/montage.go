package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Montage grid limits.
const (
	MaxMontageRows = 100
	MaxMontageCols = 50
)

var (
	// ErrMontageTooLarge is returned for grids beyond MaxMontageRows or
	// MaxMontageCols.
	ErrMontageTooLarge = errors.New("imaging: montage too large")
	// ErrEmptyMontage is returned when there is no tile to place.
	ErrEmptyMontage = errors.New("imaging: empty montage")
	// ErrLabelShape is returned when labels do not line up with tiles.
	ErrLabelShape = errors.New("imaging: labels do not match tiles")
)

var (
	labelFG = color.Black
	labelBG = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
)

// Montage lays tiles out on a white grid, row by row. Each tile is scaled
// down to fit a tileW x tileH cell, never up, and centred in it. Ragged rows and nil tiles
// leave blank cells.
//
// labels is optional. When given it must have the same shape as tiles;
// each non-empty label is drawn in the top-left corner of its cell and
// clipped to it.
func Montage(tiles [][]image.Image, labels [][]string, tileW, tileH int) (*image.NRGBA, error) {
	if tileW < 1 || tileH < 1 {
		return nil, fmt.Errorf("imaging: tile size %dx%d must be positive", tileW, tileH)
	}

	rows := len(tiles)
	cols := 0
	for _, row := range tiles {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if rows == 0 || cols == 0 {
		return nil, ErrEmptyMontage
	}
	if rows > MaxMontageRows || cols > MaxMontageCols {
		return nil, fmt.Errorf("%dx%d grid exceeds %dx%d: %w",
			rows, cols, MaxMontageRows, MaxMontageCols, ErrMontageTooLarge)
	}
	if labels != nil {
		if len(labels) != rows {
			return nil, fmt.Errorf("%d label rows for %d tile rows: %w", len(labels), rows, ErrLabelShape)
		}
		for r := range labels {
			if len(labels[r]) != len(tiles[r]) {
				return nil, fmt.Errorf("row %d has %d labels for %d tiles: %w",
					r, len(labels[r]), len(tiles[r]), ErrLabelShape)
			}
		}
	}

	canvas := imaging.New(cols*tileW, rows*tileH, color.White)
	for r, row := range tiles {
		for c, tile := range row {
			if tile == nil {
				continue
			}
			fitted := imaging.Fit(tile, tileW, tileH, imaging.Lanczos)
			fb := fitted.Bounds()
			pos := image.Pt(c*tileW+(tileW-fb.Dx())/2, r*tileH+(tileH-fb.Dy())/2)
			draw.Draw(canvas, fb.Add(pos), fitted, fb.Min, draw.Src)
		}
	}

	for r, row := range labels {
		for c, text := range row {
			if text == "" {
				continue
			}
			cell := image.Rect(c*tileW, r*tileH, (c+1)*tileW, (r+1)*tileH)
			drawLabel(canvas.SubImage(cell).(*image.NRGBA), cell.Min.Add(image.Pt(2, 2)), text)
		}
	}

	return canvas, nil
}

// drawLabel writes text with basicfont on a translucent box whose top-left
// corner is at. The box is clipped to the destination.
func drawLabel(dst draw.Image, at image.Point, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelFG),
		Face: face,
	}

	width := d.MeasureString(text).Ceil()
	box := image.Rect(at.X, at.Y, at.X+width+2, at.Y+face.Height+2).Intersect(dst.Bounds())
	draw.Draw(dst, box, image.NewUniform(labelBG), image.Point{}, draw.Over)

	d.Dot = fixed.P(at.X+1, at.Y+1+face.Ascent)
	d.DrawString(text)
}
