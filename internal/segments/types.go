package segments

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by this package. Callers match them with errors.Is;
// the returned error carries the offending index or value.
var (
	// ErrMalformedSegment indicates an input row that does not have exactly
	// four coordinates.
	ErrMalformedSegment = errors.New("segments: malformed segment")

	// ErrNonFiniteCoordinate indicates a NaN or infinite coordinate.
	ErrNonFiniteCoordinate = errors.New("segments: non-finite coordinate")

	// ErrTooManySegments indicates the segment count would require an
	// unreasonably large n×n relation.
	ErrTooManySegments = errors.New("segments: too many segments")

	// ErrInvalidParameter indicates a bad radius, threshold, mode or
	// mismatched relation size.
	ErrInvalidParameter = errors.New("segments: invalid parameter")

	// ErrIndexOutOfRange indicates a group referencing a segment that does
	// not exist.
	ErrIndexOutOfRange = errors.New("segments: index out of range")
)

// DefaultMaxSegments bounds n for every dense n×n relation. At this size a
// relation holds 16M cells.
const DefaultMaxSegments = 4096

// Segment is a 2-D line segment from (X1, Y1) to (X2, Y2).
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Dx returns X2 - X1.
func (s Segment) Dx() float64 { return s.X2 - s.X1 }

// Dy returns Y2 - Y1.
func (s Segment) Dy() float64 { return s.Y2 - s.Y1 }

// LengthSq returns the squared Euclidean length of the segment.
func (s Segment) LengthSq() float64 {
	dx, dy := s.Dx(), s.Dy()
	return dx*dx + dy*dy
}

// Group is a set of segment indices, sorted ascending.
type Group []int

// FromRows converts an n×4 array of (x1, y1, x2, y2) rows into segments.
// Rows of any other length and non-finite coordinates are rejected.
func FromRows(rows [][]float64) ([]Segment, error) {
	segs := make([]Segment, len(rows))
	for i, row := range rows {
		if len(row) != 4 {
			return nil, fmt.Errorf("%w: row %d has %d values, want 4", ErrMalformedSegment, i, len(row))
		}
		segs[i] = Segment{X1: row[0], Y1: row[1], X2: row[2], Y2: row[3]}
	}
	if err := Validate(segs); err != nil {
		return nil, err
	}
	return segs, nil
}

// Validate reports the first segment holding a NaN or infinite coordinate.
func Validate(segs []Segment) error {
	for i, s := range segs {
		for _, v := range [4]float64{s.X1, s.Y1, s.X2, s.Y2} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: segment %d = %v", ErrNonFiniteCoordinate, i, s)
			}
		}
	}
	return nil
}

// checkSize guards the quadratic allocation of an n×n relation.
func checkSize(n, limit int) error {
	if limit <= 0 {
		limit = DefaultMaxSegments
	}
	if n > limit {
		return fmt.Errorf("%w: %d segments exceeds limit of %d", ErrTooManySegments, n, limit)
	}
	return nil
}

// prepare validates segs ahead of building a relation.
func prepare(segs []Segment, limit int) error {
	if err := checkSize(len(segs), limit); err != nil {
		return err
	}
	return Validate(segs)
}
