package segments

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// RelationMode selects which relation(s) Cluster groups on.
type RelationMode string

const (
	// RelateProximity groups on endpoint proximity only.
	RelateProximity RelationMode = "proximity"
	// RelateOrientation groups on orientation similarity only.
	RelateOrientation RelationMode = "orientation"
	// RelateBoth requires both relations for an edge.
	RelateBoth RelationMode = "both"
	// RelateEither accepts an edge from either relation.
	RelateEither RelationMode = "either"
)

// ParseRelationMode parses a mode name, case-insensitively. The empty
// string selects RelateBoth.
func ParseRelationMode(s string) (RelationMode, error) {
	switch m := RelationMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return RelateBoth, nil
	case RelateProximity, RelateOrientation, RelateBoth, RelateEither:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown relation mode %q", ErrInvalidParameter, s)
	}
}

func (m RelationMode) needsProximity() bool { return m != RelateOrientation }

func (m RelationMode) needsOrientation() bool { return m != RelateProximity }

// Params configures Cluster.
type Params struct {
	Relation       RelationMode
	Radius         float64 // endpoint radius, pixels
	AngleThreshold float64 // degrees
	Epsilon        float64 // 0 selects DefaultEpsilon
	MinCount       int     // 0 disables the count filter
	MinLengthSq    float64 // 0 disables the length filter
	MaxSegments    int     // 0 selects DefaultMaxSegments
}

// Result is the outcome of Cluster.
type Result struct {
	// Groups are the candidates that survived both filters.
	Groups []Group `json:"groups"`
	// Candidates is the full partition before filtering.
	Candidates []Group `json:"candidates"`
	// LengthSums holds the squared-length sum of each candidate.
	LengthSums []float64 `json:"length_sums"`
	// Edges is the number of related pairs in the combined relation.
	Edges int `json:"edges"`
}

// Cluster builds the relation selected by p.Relation, groups it, and applies
// the length filter then the count filter.
//
// Parameters:
//   - ctx: Checked after the relations are built. The masks run concurrently
//     when the mode needs both.
//   - segs: The segments to group. Group entries index into this slice.
//   - p: Grouping parameters. Zero Epsilon and MaxSegments select the package
//     defaults; zero MinCount and MinLengthSq disable their filters.
//
// Returns:
//   - *Result: Surviving groups, the unfiltered candidates with their
//     squared-length sums, and the edge count of the combined relation.
//   - error: Non-nil when the input or parameters are rejected.
//
// # Errors
//
//   - ErrInvalidParameter for an unknown relation mode, a negative or
//     non-finite radius, or a non-finite angle threshold
//   - ErrTooManySegments when len(segs) exceeds the segment limit
//   - ErrNonFiniteCoordinate for a NaN or infinite coordinate
//   - ctx.Err() when ctx is done before grouping
func Cluster(ctx context.Context, segs []Segment, p Params) (*Result, error) {
	mode, err := ParseRelationMode(string(p.Relation))
	if err != nil {
		return nil, err
	}
	if err := prepare(segs, p.MaxSegments); err != nil {
		return nil, err
	}

	opts := []Option{WithMaxSegments(p.MaxSegments)}
	if p.Epsilon != 0 {
		opts = append(opts, WithEpsilon(p.Epsilon))
	}

	var prox, orient *Relation
	g, _ := errgroup.WithContext(ctx)
	if mode.needsProximity() {
		g.Go(func() error {
			var err error
			prox, err = ProximityMask(segs, p.Radius, opts...)
			return err
		})
	}
	if mode.needsOrientation() {
		g.Go(func() error {
			var err error
			orient, err = OrientationMask(segs, p.AngleThreshold, opts...)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rel *Relation
	switch mode {
	case RelateProximity:
		rel = prox
	case RelateOrientation:
		rel = orient
	case RelateBoth:
		rel, err = And(prox, orient)
	case RelateEither:
		rel, err = Or(prox, orient)
	}
	if err != nil {
		return nil, err
	}

	candidates := Partition(rel)
	if candidates == nil {
		candidates = []Group{}
	}
	kept, sums, err := FilterByLengthSums(segs, candidates, p.MinLengthSq)
	if err != nil {
		return nil, err
	}
	if p.MinLengthSq <= 0 {
		kept = candidates
	}
	if p.MinCount > 0 {
		kept = FilterByCount(kept, p.MinCount)
	}

	return &Result{
		Groups:     kept,
		Candidates: candidates,
		LengthSums: sums,
		Edges:      rel.Edges(),
	}, nil
}
