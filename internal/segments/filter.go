package segments

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// LengthSums returns, for every group, the sum of the squared lengths of its
// segments. The square root is never taken.
func LengthSums(segs []Segment, groups []Group) ([]float64, error) {
	sums := make([]float64, len(groups))
	for gi, g := range groups {
		lengths := make([]float64, len(g))
		for k, idx := range g {
			if idx < 0 || idx >= len(segs) {
				return nil, fmt.Errorf("%w: group %d references segment %d of %d", ErrIndexOutOfRange, gi, idx, len(segs))
			}
			lengths[k] = segs[idx].LengthSq()
		}
		sums[gi] = floats.Sum(lengths)
	}
	return sums, nil
}

// FilterByLength keeps the groups whose sum of squared segment lengths is
// strictly greater than threshold.
func FilterByLength(segs []Segment, groups []Group, threshold float64) ([]Group, error) {
	kept, _, err := FilterByLengthSums(segs, groups, threshold)
	return kept, err
}

// FilterByLengthSums is FilterByLength that also returns the sums of every
// input group, kept or not, so callers can inspect near misses.
func FilterByLengthSums(segs []Segment, groups []Group, threshold float64) ([]Group, []float64, error) {
	sums, err := LengthSums(segs, groups)
	if err != nil {
		return nil, nil, err
	}
	kept := make([]Group, 0, len(groups))
	for i, g := range groups {
		if sums[i] > threshold {
			kept = append(kept, g)
		}
	}
	return kept, sums, nil
}

// FilterByCount keeps the groups with at least threshold members. Unlike
// FilterByLength the comparison is inclusive.
func FilterByCount(groups []Group, threshold int) []Group {
	kept := make([]Group, 0, len(groups))
	for _, g := range groups {
		if len(g) >= threshold {
			kept = append(kept, g)
		}
	}
	return kept
}
