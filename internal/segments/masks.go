package segments

import (
	"fmt"
	"math"
)

// endpoints returns the 2n endpoint coordinates: starts in [0, n), ends in
// [n, 2n).
func endpoints(segs []Segment) (xs, ys []float64) {
	n := len(segs)
	xs = make([]float64, 2*n)
	ys = make([]float64, 2*n)
	for i, s := range segs {
		xs[i], ys[i] = s.X1, s.Y1
		xs[n+i], ys[n+i] = s.X2, s.Y2
	}
	return xs, ys
}

// ProximityMask relates segments i > j when any pairing of their endpoints
// (start/start, start/end, end/start, end/end) lies strictly inside radius:
// dx² + dy² < radius². Only the strictly lower triangle is filled.
func ProximityMask(segs []Segment, radius float64, opts ...Option) (*Relation, error) {
	o := newOptions(opts)
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return nil, fmt.Errorf("%w: radius %v", ErrInvalidParameter, radius)
	}
	if err := prepare(segs, o.maxSegments); err != nil {
		return nil, err
	}

	n := len(segs)
	xs, ys := endpoints(segs)
	r2 := radius * radius
	near := func(a, b int) bool {
		dx := xs[a] - xs[b]
		dy := ys[a] - ys[b]
		return dx*dx+dy*dy < r2
	}

	rel := NewRelation(n)
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			if near(i, j) || near(i, n+j) || near(n+i, j) || near(n+i, n+j) {
				rel.cells[i*n+j] = true
			}
		}
	}
	return rel, nil
}

// OrientationMask relates segments i > j when the angle between them,
// atan((m_i - m_j) / (1 - m_i·m_j)), is strictly below angleThreshold
// degrees in absolute value. Slopes are dy / (dx + ε).
//
// A zero denominator (m_i·m_j == 1) evaluates to ±Inf and atan gives π/2.
// NaN angles, from 0/0 slopes or Inf-Inf, never relate.
func OrientationMask(segs []Segment, angleThreshold float64, opts ...Option) (*Relation, error) {
	o := newOptions(opts)
	if math.IsNaN(angleThreshold) || math.IsInf(angleThreshold, 0) {
		return nil, fmt.Errorf("%w: angle threshold %v", ErrInvalidParameter, angleThreshold)
	}
	if err := prepare(segs, o.maxSegments); err != nil {
		return nil, err
	}

	n := len(segs)
	m := rawSlopes(segs, o.eps)
	limit := angleThreshold * math.Pi / 180

	rel := NewRelation(n)
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			angle := math.Abs(math.Atan((m[i] - m[j]) / (1 - m[i]*m[j])))
			if angle < limit {
				rel.cells[i*n+j] = true
			}
		}
	}
	return rel, nil
}
