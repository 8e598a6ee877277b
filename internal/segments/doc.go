// Package segments groups 2-D line segments that likely belong to the same
// real-world line, such as the dashes of a lane marking.
//
// The input is the output of a Hough-style detector: a slice of Segment values
// whose identity is their index. Two independent pairwise relations are built
// over those indices, connected components are extracted, and the resulting
// groups are filtered by aggregate size.
//
// # Pipeline
//
//  1. Slopes: dy / (dx + ε) per segment, stabilized against vertical segments
//  2. Relations: ProximityMask (endpoints within a radius) and OrientationMask
//     (angle between slopes below a threshold)
//  3. Grouping: Partition splits the indices into connected components
//  4. Filtering: FilterByLength and FilterByCount drop spurious groups
//
// Cluster runs the whole pipeline from a Params value.
//
// # Relation Fill Convention
//
// The relation builders populate only the strictly lower triangle of the n×n
// matrix: cell (i, j) with i > j. Each unordered pair is stored once. Partition
// reads both (k, j) and (j, k) for every frontier node k, so it accepts lower,
// upper, or fully symmetric relations alike.
//
// # Thresholds
//
// The comparisons are deliberately asymmetric and must not be "fixed":
//   - ProximityMask: squared distance < radius² (touching at radius is apart)
//   - OrientationMask: |angle| < threshold (equal angle is apart)
//   - FilterByLength: sum of squared lengths > threshold
//   - FilterByCount: len(group) >= threshold
//
// # Resource Limits
//
// Relations are dense and quadratic in n. Every function that allocates one
// rejects inputs above DefaultMaxSegments (or Params.MaxSegments) with
// ErrTooManySegments before allocating.
package segments
