// Package detection finds straight line segments in raster images.
//
// DetectLines runs a Hough transform over a forward-difference edge map and
// walks each accumulator peak, strongest first, collecting the edge pixels
// that lie near the peak's line. Pixels are ordered along the line and split
// at gaps wider than Options.MaxGap, so a dashed marking produces one segment
// per dash rather than a single line spanning the image.
//
// The output is meant as input for the segments package:
//
//	result, err := detection.DetectLines(img, detection.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	groups, err := segments.Cluster(ctx, result.Segments(), params)
//
// Coordinates are absolute image coordinates, so sub-images keep their
// offsets.
package detection
