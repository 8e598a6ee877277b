// Package imaging loads frames and renders grouping results for display.
//
// Loading goes through ImageCache, which decodes with EXIF orientation
// applied and keeps images keyed by path. Rendering covers three views of
// the same result:
//
//   - DrawGroups strokes each group onto a copy of its source frame.
//   - Montage tiles many frames (or overlays) into one labelled grid.
//   - PlotGroups charts the groups in segment coordinates.
//
// All three colour group i with PaletteFor(n)[i], so a group looks the same
// in every view. Coordinates follow image conventions: (0,0) is top-left
// and y grows downward.
package imaging
