package segments

import "fmt"

// Relation is a dense n×n boolean adjacency matrix over segment indices.
//
// ProximityMask and OrientationMask fill only the strictly lower triangle:
// At(i, j) with i > j. The diagonal and the upper triangle stay false unless
// the caller sets them or calls Symmetrize.
type Relation struct {
	n     int
	cells []bool // row-major
}

// NewRelation returns an empty n×n relation.
func NewRelation(n int) *Relation {
	if n < 0 {
		n = 0
	}
	return &Relation{n: n, cells: make([]bool, n*n)}
}

// Len returns n.
func (r *Relation) Len() int {
	if r == nil {
		return 0
	}
	return r.n
}

// At reports whether cell (i, j) is set. Out-of-range cells read as false.
func (r *Relation) At(i, j int) bool {
	if r == nil || i < 0 || j < 0 || i >= r.n || j >= r.n {
		return false
	}
	return r.cells[i*r.n+j]
}

// Set assigns cell (i, j). It panics when i or j is out of range, like a
// slice index would.
func (r *Relation) Set(i, j int, v bool) {
	if i < 0 || j < 0 || i >= r.n || j >= r.n {
		panic(fmt.Sprintf("segments: relation index (%d,%d) out of range [0,%d)", i, j, r.n))
	}
	r.cells[i*r.n+j] = v
}

// Edges counts the set cells.
func (r *Relation) Edges() int {
	if r == nil {
		return 0
	}
	count := 0
	for _, v := range r.cells {
		if v {
			count++
		}
	}
	return count
}

// Symmetrize returns a copy where (j, i) is set whenever (i, j) is.
func (r *Relation) Symmetrize() *Relation {
	out := NewRelation(r.Len())
	for i := 0; i < out.n; i++ {
		for j := 0; j < out.n; j++ {
			if r.At(i, j) || r.At(j, i) {
				out.cells[i*out.n+j] = true
			}
		}
	}
	return out
}

// Rows returns the relation as a [][]bool, mostly for display and tests.
func (r *Relation) Rows() [][]bool {
	rows := make([][]bool, r.Len())
	for i := range rows {
		rows[i] = make([]bool, r.n)
		copy(rows[i], r.cells[i*r.n:(i+1)*r.n])
	}
	return rows
}

// And returns the cell-wise conjunction of a and b.
func And(a, b *Relation) (*Relation, error) {
	return combine(a, b, func(x, y bool) bool { return x && y })
}

// Or returns the cell-wise disjunction of a and b.
func Or(a, b *Relation) (*Relation, error) {
	return combine(a, b, func(x, y bool) bool { return x || y })
}

func combine(a, b *Relation, op func(x, y bool) bool) (*Relation, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("%w: relation sizes %d and %d differ", ErrInvalidParameter, a.Len(), b.Len())
	}
	out := NewRelation(a.Len())
	for k := range out.cells {
		out.cells[k] = op(a.cells[k], b.cells[k])
	}
	return out, nil
}
