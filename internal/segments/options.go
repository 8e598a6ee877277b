package segments

// DefaultEpsilon is added to dx before dividing, so vertical segments get a
// very large finite slope instead of a division by zero.
const DefaultEpsilon = 1e-7

// MachineEpsilon is the single-precision machine epsilon (2^-23), selected by
// WithMachineEpsilon.
const MachineEpsilon = 0x1p-23

// Option configures slope computation and relation building.
type Option func(*options)

type options struct {
	eps         float64
	minSlope    float64
	maxSlope    float64
	hasMin      bool
	hasMax      bool
	maxSegments int
}

func newOptions(opts []Option) options {
	o := options{eps: DefaultEpsilon, maxSegments: DefaultMaxSegments}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithEpsilon sets the stabilizing term added to dx.
func WithEpsilon(eps float64) Option {
	return func(o *options) { o.eps = eps }
}

// WithMachineEpsilon stabilizes with MachineEpsilon instead of DefaultEpsilon.
func WithMachineEpsilon() Option {
	return WithEpsilon(MachineEpsilon)
}

// WithMinSlope makes SlopeMask require slope > min.
func WithMinSlope(min float64) Option {
	return func(o *options) { o.minSlope, o.hasMin = min, true }
}

// WithMaxSlope makes SlopeMask require slope < max.
func WithMaxSlope(max float64) Option {
	return func(o *options) { o.maxSlope, o.hasMax = max, true }
}

// WithMaxSegments overrides DefaultMaxSegments. Values <= 0 keep the default.
func WithMaxSegments(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSegments = n
		}
	}
}
