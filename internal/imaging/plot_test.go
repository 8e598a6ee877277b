package imaging

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/ironsheep/line-grouping-mcp/internal/segments"
)

func TestPlotGroups(t *testing.T) {
	segs := []segments.Segment{
		{X1: 0, Y1: 0, X2: 30, Y2: 30},
		{X1: 33, Y1: 33, X2: 60, Y2: 60},
		{X1: 200, Y1: 0, X2: 170, Y2: 30},
	}

	data, err := PlotGroups(segs, []segments.Group{{0, 1}, {2}}, 320, 240)
	if err != nil {
		t.Fatalf("PlotGroups failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("plot is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("plot size: got %dx%d, want 320x240", b.Dx(), b.Dy())
	}
}

func TestPlotGroups_NoGroups(t *testing.T) {
	data, err := PlotGroups(nil, nil, 100, 100)
	if err != nil {
		t.Fatalf("PlotGroups failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected PNG bytes for an empty chart")
	}
}

func TestPlotGroups_Errors(t *testing.T) {
	if _, err := PlotGroups(nil, nil, 0, 100); err == nil {
		t.Error("expected error for zero width")
	}

	_, err := PlotGroups([]segments.Segment{{}}, []segments.Group{{1}}, 100, 100)
	if !errors.Is(err, segments.ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}
