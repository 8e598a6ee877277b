package frames

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

// gifSource replays an animated GIF. Each frame is composited onto the
// logical screen the way a viewer shows it, honouring frame disposal.
type gifSource struct {
	g      *gif.GIF
	canvas *image.RGBA
	prev   *image.RGBA
	next   int
}

// OpenGIF decodes every frame of the GIF at path.
func OpenGIF(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gif: %w", err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoFrames)
	}

	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}

	return &gifSource{
		g:      g,
		canvas: image.NewRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

func (s *gifSource) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.g.Image) {
		return nil, io.EOF
	}

	// Undo the previous frame's disposal before drawing this one.
	if s.next > 0 {
		last := s.g.Image[s.next-1]
		switch s.disposal(s.next - 1) {
		case gif.DisposalBackground:
			draw.Draw(s.canvas, last.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			if s.prev != nil {
				draw.Draw(s.canvas, s.canvas.Bounds(), s.prev, image.Point{}, draw.Src)
			}
		}
	}

	frame := s.g.Image[s.next]
	if s.disposal(s.next) == gif.DisposalPrevious {
		s.prev = cloneRGBA(s.canvas)
	}
	draw.Draw(s.canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	s.next++

	return cloneRGBA(s.canvas), nil
}

func (s *gifSource) disposal(i int) byte {
	if i < len(s.g.Disposal) {
		return s.g.Disposal[i]
	}
	return 0
}

func (s *gifSource) Len() int { return len(s.g.Image) }

func (s *gifSource) Close() error { return nil }

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
