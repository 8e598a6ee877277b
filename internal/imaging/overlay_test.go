package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/line-grouping-mcp/internal/segments"
)

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestDrawGroups(t *testing.T) {
	img := solidImage(100, 100, color.White)
	segs := []segments.Segment{
		{X1: 10, Y1: 20, X2: 90, Y2: 20},
		{X1: 10, Y1: 50, X2: 90, Y2: 50},
		{X1: 10, Y1: 80, X2: 90, Y2: 80},
	}
	// Segment 2 belongs to no group and must not be drawn.
	groups := []segments.Group{{0}, {1}}

	out, err := DrawGroups(img, segs, groups, 3)
	if err != nil {
		t.Fatalf("DrawGroups failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("output size: got %dx%d, want 100x100", b.Dx(), b.Dy())
	}

	if isWhite(out.At(50, 20)) {
		t.Error("group 0 segment was not drawn")
	}
	if isWhite(out.At(50, 50)) {
		t.Error("group 1 segment was not drawn")
	}
	if !isWhite(out.At(50, 80)) {
		t.Error("ungrouped segment was drawn")
	}
	if !isWhite(out.At(50, 35)) {
		t.Error("pixel between segments was painted")
	}
	if out.At(50, 20) == out.At(50, 50) {
		t.Error("groups share a colour")
	}

	if !isWhite(img.At(50, 20)) {
		t.Error("source image was modified")
	}
}

func TestDrawGroups_OffsetImage(t *testing.T) {
	full := solidImage(200, 200, color.White)
	sub := full.SubImage(image.Rect(100, 100, 200, 200))
	segs := []segments.Segment{{X1: 110, Y1: 150, X2: 190, Y2: 150}}

	out, err := DrawGroups(sub, segs, []segments.Group{{0}}, 0)
	if err != nil {
		t.Fatalf("DrawGroups failed: %v", err)
	}
	if isWhite(out.At(50, 50)) {
		t.Error("segment in absolute coordinates was not mapped onto the sub-image")
	}
}

func TestDrawGroups_Errors(t *testing.T) {
	if _, err := DrawGroups(nil, nil, nil, 1); err == nil {
		t.Error("expected error for nil image")
	}

	img := solidImage(10, 10, color.White)
	_, err := DrawGroups(img, []segments.Segment{{}}, []segments.Group{{0, 4}}, 1)
	if !errors.Is(err, segments.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}
