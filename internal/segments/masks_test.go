package segments

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertLowerTriangular checks the fill convention shared by both builders.
func assertLowerTriangular(t *testing.T, r *Relation) {
	t.Helper()
	for i := 0; i < r.Len(); i++ {
		for j := i; j < r.Len(); j++ {
			assert.False(t, r.At(i, j), "cell (%d,%d) on or above the diagonal is set", i, j)
		}
	}
}

func TestProximityMask(t *testing.T) {
	segs := mustRows(t, [][]float64{
		{50, 50, 70, 70},
		{74, 75, 100, 100},
		{200, 200, 300, 300},
	})

	rel, err := ProximityMask(segs, 7)
	require.NoError(t, err)

	want := [][]bool{
		{false, false, false},
		{true, false, false},
		{false, false, false},
	}
	assert.Equal(t, want, rel.Rows())
	assertLowerTriangular(t, rel)
}

func TestProximityMask_AllEndpointPairings(t *testing.T) {
	base := Segment{X1: 0, Y1: 0, X2: 10, Y2: 0}
	tests := []struct {
		name  string
		other Segment
	}{
		{"start-start", Segment{X1: 1, Y1: 1, X2: -50, Y2: -50}},
		{"start-end", Segment{X1: -50, Y1: -50, X2: 1, Y2: 1}},
		{"end-start", Segment{X1: 11, Y1: 1, X2: 60, Y2: 60}},
		{"end-end", Segment{X1: 60, Y1: 60, X2: 11, Y2: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, err := ProximityMask([]Segment{base, tt.other}, 2)
			require.NoError(t, err)
			assert.True(t, rel.At(1, 0))

			// Order must not matter.
			rel, err = ProximityMask([]Segment{tt.other, base}, 2)
			require.NoError(t, err)
			assert.True(t, rel.At(1, 0))
		})
	}
}

func TestProximityMask_StrictBoundary(t *testing.T) {
	// End of the first segment and start of the second are 5 apart.
	apart := []Segment{
		{X1: -20, Y1: 0, X2: 0, Y2: 0},
		{X1: 3, Y1: 4, X2: 30, Y2: 40},
	}
	rel, err := ProximityMask(apart, 5)
	require.NoError(t, err)
	assert.False(t, rel.At(1, 0), "squared distance equal to radius² must not relate")

	// Squared distance radius² - 1.
	near := []Segment{
		{X1: -20, Y1: 0, X2: 0, Y2: 0},
		{X1: math.Sqrt(24), Y1: 0, X2: 30, Y2: 0},
	}
	rel, err = ProximityMask(near, 5)
	require.NoError(t, err)
	assert.True(t, rel.At(1, 0))
}

func TestProximityMask_InvalidRadius(t *testing.T) {
	segs := []Segment{{X1: 0, Y1: 0, X2: 1, Y2: 1}}
	for _, r := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := ProximityMask(segs, r)
		assert.ErrorIs(t, err, ErrInvalidParameter, "radius %v", r)
	}
}

func TestProximityMask_TooManySegments(t *testing.T) {
	segs := make([]Segment, 11)
	_, err := ProximityMask(segs, 5, WithMaxSegments(10))
	assert.ErrorIs(t, err, ErrTooManySegments)
}

func TestOrientationMask(t *testing.T) {
	segs := mustRows(t, [][]float64{
		{50, 50, 70, 70},
		{71, 75, 60, 60},
		{200, 200, 300, 300},
	})

	rel, err := OrientationMask(segs, 40)
	require.NoError(t, err)

	want := [][]bool{
		{false, false, false},
		{false, false, false},
		{true, false, false},
	}
	assert.Equal(t, want, rel.Rows())
	assertLowerTriangular(t, rel)
}

func TestOrientationMask_ThresholdIsStrict(t *testing.T) {
	parallel := []Segment{
		{X1: 0, Y1: 0, X2: 10, Y2: 20},
		{X1: 50, Y1: 0, X2: 60, Y2: 20},
	}

	rel, err := OrientationMask(parallel, 0, WithEpsilon(0))
	require.NoError(t, err)
	assert.False(t, rel.At(1, 0), "zero angle against a zero threshold must not relate")

	rel, err = OrientationMask(parallel, 1e-9, WithEpsilon(0))
	require.NoError(t, err)
	assert.True(t, rel.At(1, 0))
}

func TestOrientationMask_SignSymmetric(t *testing.T) {
	// Slopes 0 and 1: 45 degrees apart.
	flat := Segment{X1: 0, Y1: 0, X2: 10, Y2: 0}
	rising := Segment{X1: 0, Y1: 0, X2: 10, Y2: 10}

	for _, order := range [][]Segment{{flat, rising}, {rising, flat}} {
		rel, err := OrientationMask(order, 45.001, WithEpsilon(0))
		require.NoError(t, err)
		assert.True(t, rel.At(1, 0))

		rel, err = OrientationMask(order, 44.999, WithEpsilon(0))
		require.NoError(t, err)
		assert.False(t, rel.At(1, 0))

		// atan(±1) equals 45·π/180 exactly in float64.
		rel, err = OrientationMask(order, 45, WithEpsilon(0))
		require.NoError(t, err)
		assert.False(t, rel.At(1, 0), "an angle equal to the threshold must not relate")
	}
}

func TestOrientationMask_PerpendicularAdjacentSlopes(t *testing.T) {
	// Slopes 2 and 0.5: m_i·m_j == 1, so the quotient is infinite and |atan| is π/2.
	segs := []Segment{
		{X1: 0, Y1: 0, X2: 10, Y2: 20},
		{X1: 0, Y1: 0, X2: 10, Y2: 5},
	}

	rel, err := OrientationMask(segs, 91, WithEpsilon(0))
	require.NoError(t, err)
	assert.True(t, rel.At(1, 0))

	rel, err = OrientationMask(segs, 89, WithEpsilon(0))
	require.NoError(t, err)
	assert.False(t, rel.At(1, 0))
}

func TestOrientationMask_NaNSlopeNeverRelates(t *testing.T) {
	// A zero-length segment with ε = 0 has slope 0/0.
	segs := []Segment{
		{X1: 3, Y1: 3, X2: 3, Y2: 3},
		{X1: 0, Y1: 0, X2: 10, Y2: 0},
	}
	rel, err := OrientationMask(segs, 180, WithEpsilon(0))
	require.NoError(t, err)
	assert.False(t, rel.At(1, 0))
}

func TestOrientationMask_InvalidThreshold(t *testing.T) {
	_, err := OrientationMask(nil, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestMasks_Empty(t *testing.T) {
	rel, err := ProximityMask(nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, rel.Len())

	rel, err = OrientationMask(nil, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, rel.Len())
}
