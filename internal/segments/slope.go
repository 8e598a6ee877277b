package segments

import "math"

// Slopes returns dy / (dx + ε) for every segment, in input order.
//
// When dx + ε is exactly zero the slope is +Inf for dy > 0, -Inf for dy < 0
// and 0 for a zero-length segment. No other input produces a non-finite
// result for finite coordinates.
func Slopes(segs []Segment, opts ...Option) ([]float64, error) {
	if err := Validate(segs); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	return stabilizedSlopes(segs, o.eps), nil
}

func stabilizedSlopes(segs []Segment, eps float64) []float64 {
	out := make([]float64, len(segs))
	for i, s := range segs {
		dx := s.Dx() + eps
		dy := s.Dy()
		switch {
		case dx != 0:
			out[i] = dy / dx
		case dy > 0:
			out[i] = math.Inf(1)
		case dy < 0:
			out[i] = math.Inf(-1)
		default:
			out[i] = 0
		}
	}
	return out
}

// rawSlopes is the plain IEEE quotient used by OrientationMask: a zero
// denominator gives ±Inf, or NaN for 0/0.
func rawSlopes(segs []Segment, eps float64) []float64 {
	out := make([]float64, len(segs))
	for i, s := range segs {
		out[i] = s.Dy() / (s.Dx() + eps)
	}
	return out
}

// SlopeMask reports, per segment, whether its stabilized slope lies inside
// the open band set by WithMinSlope and WithMaxSlope. Without bounds every
// segment passes.
func SlopeMask(segs []Segment, opts ...Option) ([]bool, error) {
	if err := Validate(segs); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	m := stabilizedSlopes(segs, o.eps)
	mask := make([]bool, len(segs))
	for i, v := range m {
		ok := true
		if o.hasMax {
			ok = ok && v < o.maxSlope
		}
		if o.hasMin {
			ok = ok && v > o.minSlope
		}
		mask[i] = ok
	}
	return mask, nil
}
