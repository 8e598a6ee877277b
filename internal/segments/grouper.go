package segments

import "sort"

// Partition splits the indices of r into connected components.
//
// Traversal is breadth-first. Starting indices are taken in ascending order,
// so groups come out ordered by their lowest index, and each group is sorted.
// An edge between k and j is either cell (k, j) or (j, k), which makes the
// result independent of the relation's fill convention.
//
// Every index is visited exactly once, so the groups are pairwise disjoint
// and cover 0..n-1. Complexity: O(n²).
func Partition(r *Relation) []Group {
	n := r.Len()
	if n == 0 {
		return nil
	}

	visited := make([]bool, n)
	queue := make([]int, 0, n)
	groups := make([]Group, 0)

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue = append(queue[:0], start)

		// queue keeps every dequeued index, so once drained it holds the group.
		for head := 0; head < len(queue); head++ {
			k := queue[head]
			row := r.cells[k*n : (k+1)*n]
			for j := 0; j < n; j++ {
				if visited[j] {
					continue
				}
				if row[j] || r.cells[j*n+k] {
					visited[j] = true
					queue = append(queue, j)
				}
			}
		}

		g := make(Group, len(queue))
		copy(g, queue)
		sort.Ints(g)
		groups = append(groups, g)
	}
	return groups
}
