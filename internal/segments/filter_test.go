package segments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpointExample(t *testing.T) []Segment {
	t.Helper()
	return mustRows(t, [][]float64{
		{50, 50, 70, 70},
		{74, 75, 100, 100},
		{200, 200, 300, 300},
	})
}

func TestFilterByCount_EndToEnd(t *testing.T) {
	segs := endpointExample(t)
	rel, err := ProximityMask(segs, 7)
	require.NoError(t, err)

	groups := Partition(rel)
	require.Equal(t, []Group{{0, 1}, {2}}, groups)

	assert.Equal(t, []Group{{0, 1}}, FilterByCount(groups, 2))
}

func TestFilterByCount_Inclusive(t *testing.T) {
	groups := []Group{{4}, {0, 1, 2}, {3, 5}, {6, 7, 8, 9}}

	tests := []struct {
		threshold int
		want      []Group
	}{
		{0, groups},
		{1, groups},
		{2, []Group{{0, 1, 2}, {3, 5}, {6, 7, 8, 9}}},
		{3, []Group{{0, 1, 2}, {6, 7, 8, 9}}},
		{4, []Group{{6, 7, 8, 9}}},
		{5, []Group{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FilterByCount(groups, tt.threshold), "threshold %d", tt.threshold)
	}
	assert.Len(t, groups, 4, "input must not be mutated")
}

func TestFilterByLength_EndToEnd(t *testing.T) {
	segs := endpointExample(t)
	rel, err := ProximityMask(segs, 7)
	require.NoError(t, err)

	kept, sums, err := FilterByLengthSums(segs, Partition(rel), 10000)
	require.NoError(t, err)
	assert.Equal(t, []Group{{2}}, kept)
	// 20²+20² + 26²+25² and 100²+100².
	assert.Equal(t, []float64{2101, 20000}, sums)
}

func TestFilterByLength_UsesSquaredLengths(t *testing.T) {
	// Two 3-4-5 segments: lengths sum to 10, squared lengths sum to 50.
	segs := []Segment{
		{X1: 0, Y1: 0, X2: 3, Y2: 4},
		{X1: 10, Y1: 10, X2: 13, Y2: 14},
	}
	groups := []Group{{0, 1}}

	kept, err := FilterByLength(segs, groups, 49)
	require.NoError(t, err)
	assert.Equal(t, groups, kept)

	kept, err = FilterByLength(segs, groups, 50)
	require.NoError(t, err)
	assert.Empty(t, kept, "threshold comparison is strict")

	// sqrt(50) ~ 7.07 and 10 would both pass a threshold of 11 if either
	// were used instead of the squared sum.
	kept, err = FilterByLength(segs, groups, 11)
	require.NoError(t, err)
	assert.Equal(t, groups, kept)
}

func TestFilterByLength_PreservesOrder(t *testing.T) {
	segs := []Segment{
		{X1: 0, Y1: 0, X2: 10, Y2: 0},
		{X1: 0, Y1: 0, X2: 1, Y2: 0},
		{X1: 0, Y1: 0, X2: 20, Y2: 0},
	}
	groups := []Group{{2}, {1}, {0}}

	kept, err := FilterByLength(segs, groups, 50)
	require.NoError(t, err)
	assert.Equal(t, []Group{{2}, {0}}, kept)
}

func TestFilterByLength_IndexOutOfRange(t *testing.T) {
	segs := []Segment{{X1: 0, Y1: 0, X2: 1, Y2: 1}}
	_, err := FilterByLength(segs, []Group{{0, 3}}, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestLengthSums_EmptyGroup(t *testing.T) {
	sums, err := LengthSums(nil, []Group{{}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, sums)
}
